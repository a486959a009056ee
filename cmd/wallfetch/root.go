package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"wallfetch/pkg/ui"
)

const author = "Jeremy Stevens"

var (
	// Version information
	version   = "1.2.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile    string
	logLevel      string
	noColor       bool
	notifications bool
	quiet         bool
	verbose       bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wallfetch",
	Short: "Fetch fresh wallpapers on a timer, never the same one twice",
	Long: `wallfetch downloads wallpapers from an Unsplash-style image service into a
local folder at a fixed interval.

Every image is hashed and checked against a history file shared by all runs, so
an image already downloaded once is skipped no matter which session fetched it.

Run without a subcommand to start fetching. Settings not given by flags,
environment (WALLFETCH_*), .env or config file are asked for interactively.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor || os.Getenv("NO_COLOR") != "" {
			ui.DisableColor()
		}
		if quiet {
			ui.SetQuietMode(true)
		}

		if cmd.Name() != "version" && cmd.Name() != "help" {
			ui.PrintBanner(version, author)
		}
	},
	RunE: runFetch,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			ui.PrintError("Error", err)
		}
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./.wallfetch.yaml or ~/.config/wallfetch/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level for console and log file (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&notifications, "notifications", true, "enable desktop notifications")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show logs and every attempt")

	rootCmd.SetVersionTemplate(`wallfetch {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// globalFlags collects persistent flags the user actually set
func globalFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	if cmd.Flags().Changed("log-level") {
		flags["log-level"] = logLevel
		flags["console-log-level"] = logLevel
	}
	// Console logs interleave with progress lines, so they stay at the configured
	// console level unless asked for
	if verbose {
		flags["console-log-level"] = ""
	}
	if cmd.Flags().Changed("notifications") {
		flags["notifications-enabled"] = notifications
	}
	return flags
}
