package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"wallfetch/pkg/config"
	"wallfetch/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage wallfetch configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (WALLFETCH_*)
  - .env in the working directory and ~/.wallfetch.env
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as '.wallfetch.yaml'
unless a different path is specified with the --config flag.`,
	RunE: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the effective configuration after merging flags, environment,
.env files, the config file and defaults.`,
	RunE: runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate the configuration for syntax errors and invalid values.

This command checks:
  - YAML syntax
  - Resolution format and mode/keyword consistency
  - Value ranges
  - Output directory accessibility`,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

const exampleConfig = `# wallfetch configuration file
#
# Every option can also be set with an environment variable prefixed with
# WALLFETCH_, for example WALLFETCH_RESOLUTION or WALLFETCH_DELAY.

# Remote image service
source:
  base_url: "https://source.unsplash.com"
  user_agent: ""

# What to download
download:
  # WIDTHxHEIGHT
  resolution: "1920x1080"

  # random or keyword
  mode: "random"

  # Required in keyword mode
  keyword: ""

  # Number of new wallpapers per run; 0 exits immediately
  max_wallpapers: 100

  # Seconds between downloads
  delay_seconds: 300

  # Per-request timeout
  timeout: 30s

  # Tries per request for network errors, 429 and 5xx
  retry_attempts: 3

  # Stop after this many attempts; 0 means never
  max_attempts: 0

# Where wallpapers go
output:
  # Default: ~/Pictures
  directory: ""
  file_name_prefix: "wallpaper"

# Download history shared by every run
history:
  # Default: <output.directory>/download_history.txt
  file: ""

  # md5 (compatible with older history files), sha256 or blake2b
  algorithm: "md5"

notifications:
  enabled: true
  on_complete: true
  on_error: false

logging:
  # debug, info, warn, error
  level: "info"

  # Optional JSON log file
  file: ""

  # Terminal only; --verbose shows everything allowed by level
  console_level: "error"
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = ".wallfetch.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		ui.PrintPlain("\nTo overwrite, first remove the existing file:")
		ui.PrintPlain("  rm " + configPath)
		return fmt.Errorf("refusing to overwrite %s", configPath)
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	ui.PrintPlain("\nNext steps:")
	ui.PrintPlain("1. Edit the configuration file")
	ui.PrintPlain("2. Run 'wallfetch config validate' to check it")
	ui.PrintPlain("3. Start downloading with 'wallfetch'")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadUnvalidated(configFile, globalFlags(cmd))
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprint(cmd.OutOrStdout(), string(data))

	path := configFile
	if path == "" {
		path = config.FindConfigFile()
	}
	if path == "" {
		path = "(none found)"
	}
	ui.PrintPlain("\nConfiguration sources (in order of priority):")
	ui.PrintPlain("1. Command line flags")
	ui.PrintPlain("2. Environment variables (WALLFETCH_*) and .env files")
	ui.PrintPlain("3. Configuration file: " + path)
	ui.PrintPlain("4. Default values")
	ui.PrintInfo("History file", cfg.HistoryPath())
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		path = config.FindConfigFile()
	}
	if path == "" {
		ui.PrintWarning("No configuration file found; validating defaults and environment")
	} else {
		ui.PrintInfo("Validating configuration", path)
	}

	cfg, err := config.Load(path, nil)
	if err != nil {
		return err
	}

	var problems []string
	if err := os.MkdirAll(cfg.Output.Directory, 0755); err != nil {
		problems = append(problems, fmt.Sprintf("Cannot create output directory: %v", err))
	}
	if cfg.Download.DelaySeconds == 0 && cfg.Download.MaxWallpapers > 1 {
		ui.PrintWarning("delay_seconds is 0; downloads will run back to back")
	}

	if len(problems) > 0 {
		ui.PrintError("Configuration has errors")
		for _, p := range problems {
			ui.PrintPlain("  - " + p)
		}
		return fmt.Errorf("%d configuration errors", len(problems))
	}

	ui.PrintSuccess("Configuration is valid")
	ui.PrintPlain("\nConfiguration summary:")
	ui.PrintPlain(fmt.Sprintf("  Output directory: %s", cfg.Output.Directory))
	ui.PrintPlain(fmt.Sprintf("  History file: %s", cfg.HistoryPath()))
	ui.PrintPlain(fmt.Sprintf("  Resolution: %s (%s)", cfg.Download.Resolution, cfg.Download.Mode))
	ui.PrintPlain(fmt.Sprintf("  Wallpapers: %d every %ds", cfg.Download.MaxWallpapers, cfg.Download.DelaySeconds))
	ui.PrintPlain(fmt.Sprintf("  Hash algorithm: %s", cfg.History.Algorithm))
	return nil
}
