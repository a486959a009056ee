package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wallfetch/pkg/config"
	"wallfetch/pkg/history"
	"wallfetch/pkg/storage"
	"wallfetch/pkg/ui"
)

var historyTail int

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the download history",
	Long: `Show where the history file lives, how many images it records and the most
recent hashes. The history is shared by every run; delete a line to allow that
image to be downloaded again.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyTail, "tail", "n", 10, "number of recent hashes to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, globalFlags(cmd))
	if err != nil {
		return err
	}

	store := history.NewStore(cfg.HistoryPath())
	ui.PrintInfo("History file", store.Path())
	if !store.Exists() {
		ui.PrintWarning("No history yet; run wallfetch to start downloading")
		return nil
	}

	count, err := store.Count()
	if err != nil {
		return err
	}
	ui.PrintInfo("Recorded images", fmt.Sprintf("%d", count))

	if _, err := os.Stat(cfg.Output.Directory); err == nil {
		images, err := storage.NewManager(cfg.Output.Directory, cfg.Output.FileNamePrefix)
		if err != nil {
			return err
		}
		files, err := images.ListImages()
		if err != nil {
			return err
		}
		var size int64
		for _, f := range files {
			if info, err := os.Stat(f); err == nil {
				size += info.Size()
			}
		}
		ui.PrintInfo("Wallpapers on disk", fmt.Sprintf("%d (%s)", len(files), ui.FormatBytes(size)))
	}

	recent, err := store.Tail(historyTail)
	if err != nil {
		return err
	}
	if len(recent) > 0 {
		ui.PrintHighlight("Most recent")
		for _, h := range recent {
			ui.PrintPlain("  " + h)
		}
	}
	return nil
}
