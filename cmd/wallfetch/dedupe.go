package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"wallfetch/pkg/config"
	"wallfetch/pkg/dedupe"
	"wallfetch/pkg/logger"
	"wallfetch/pkg/prompt"
	"wallfetch/pkg/ui"
)

var (
	dedupeYes       bool
	dedupeDryRun    bool
	dedupeFailed    bool
	dedupeThreshold int
)

// dedupeCmd represents the dedupe command
var dedupeCmd = &cobra.Command{
	Use:   "dedupe [directory]",
	Short: "Find and remove visually duplicate images in a folder",
	Long: `Scan a folder for images that look the same, even when they differ in size or
encoding, and optionally delete all but the first of each group.

Images are compared by difference hash. JPEG, PNG, BMP and WebP files are
scanned; files that cannot be decoded are listed separately. The directory
defaults to the configured output directory.`,
	Example: `  # Review duplicates in the wallpaper folder
  wallfetch dedupe --dry-run

  # Delete duplicates and unreadable files without asking
  wallfetch dedupe ~/Pictures --yes --include-failed`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDedupe,
}

func init() {
	rootCmd.AddCommand(dedupeCmd)

	dedupeCmd.Flags().BoolVarP(&dedupeYes, "yes", "y", false, "delete without asking")
	dedupeCmd.Flags().BoolVar(&dedupeDryRun, "dry-run", false, "only report, never delete")
	dedupeCmd.Flags().BoolVar(&dedupeFailed, "include-failed", false, "also delete files that could not be decoded")
	dedupeCmd.Flags().IntVar(&dedupeThreshold, "threshold", 0, "maximum differing hash bits still treated as a duplicate (0-64)")
}

func runDedupe(cmd *cobra.Command, args []string) error {
	if dedupeThreshold < 0 || dedupeThreshold > 64 {
		return fmt.Errorf("threshold must be between 0 and 64, got %d", dedupeThreshold)
	}

	cfg, err := config.Load(configFile, globalFlags(cmd))
	if err != nil {
		return err
	}
	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	dir := cfg.Output.Directory
	if len(args) == 1 {
		dir = args[0]
	}
	ui.PrintInfo("Scanning", dir)

	scanner := dedupe.NewScanner(logger.GetLogger())
	scanner.Threshold = dedupeThreshold

	result, err := scanner.Scan(cmd.Context(), dir)
	if err != nil {
		return err
	}

	for i, g := range result.Groups {
		ui.PrintHighlight(fmt.Sprintf("Group %d (%s)", i+1, g.Hash))
		ui.PrintPlain("  keep   " + filepath.Base(g.Files[0]))
		for _, f := range g.Files[1:] {
			ui.PrintPlain("  remove " + filepath.Base(f))
		}
	}
	if len(result.Failed) > 0 {
		ui.PrintWarning(fmt.Sprintf("%d files could not be read", len(result.Failed)))
		for _, f := range result.Failed {
			ui.PrintPlain("  " + filepath.Base(f))
		}
	}

	ui.PrintInfo("Images scanned", fmt.Sprintf("%d", result.Scanned))
	ui.PrintInfo("Duplicates", fmt.Sprintf("%d in %d groups", result.Duplicates(), len(result.Groups)))

	toDelete := result.Duplicates()
	if dedupeFailed {
		toDelete += len(result.Failed)
	}
	if toDelete == 0 || dedupeDryRun {
		ui.PrintSuccess("Nothing deleted")
		return nil
	}

	if !dedupeYes {
		if !prompt.Interactive() {
			ui.PrintWarning("Not a terminal; rerun with --yes to delete")
			return nil
		}
		ok, err := prompt.New(os.Stdin, os.Stdout).Confirm(fmt.Sprintf("Do you want to delete %d files?", toDelete))
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if !ok {
			ui.PrintInfo("Deletion", "cancelled")
			return nil
		}
	}

	removed, err := dedupe.Remove(result, dedupeFailed)
	ui.PrintSuccess(fmt.Sprintf("Deleted %d files", len(removed)))
	if err != nil {
		return fmt.Errorf("some files could not be deleted: %w", err)
	}
	return nil
}
