package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"wallfetch/internal/downloader"
	"wallfetch/pkg/config"
	"wallfetch/pkg/digest"
	"wallfetch/pkg/history"
	"wallfetch/pkg/logger"
	"wallfetch/pkg/pacing"
	"wallfetch/pkg/prompt"
	"wallfetch/pkg/source"
	"wallfetch/pkg/storage"
	"wallfetch/pkg/ui"
	"wallfetch/pkg/ui/tui"
)

var (
	// Fetch command flags
	resolution    string
	mode          string
	keyword       string
	maxWallpapers int
	delaySeconds  int
	outputDir     string
	historyFile   string
	hashAlgorithm string
	baseURL       string
	timeout       time.Duration
	retryAttempts int
	maxAttempts   int
	noPrompt      bool
	useTUI        bool
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download new wallpapers until the target count is reached",
	Long: `Download wallpapers one at a time, waiting the configured delay between
attempts, until the requested number of new images has been saved.

Images whose content hash is already in the history file are skipped and do not
count. Press Ctrl+C to stop; everything saved so far is kept.`,
	Example: `  # Ask for everything interactively
  wallfetch

  # Five random 4K wallpapers, one per minute
  wallfetch fetch --resolution 3840x2160 --max 5 --delay 60

  # Keyword mode into a custom folder, no prompts
  wallfetch fetch --mode keyword --keyword "northern lights" --output ~/Wallpapers --no-prompt

  # Full-screen progress view
  wallfetch --tui --max 10 --delay 30`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func addFetchFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&resolution, "resolution", "r", "", "wallpaper resolution as WIDTHxHEIGHT (default 1920x1080)")
	fs.StringVarP(&mode, "mode", "m", "", "selection mode: random or keyword")
	fs.StringVarP(&keyword, "keyword", "k", "", "search keyword (keyword mode)")
	fs.IntVarP(&maxWallpapers, "max", "n", config.DefaultMaxWallpapers, "number of new wallpapers to download")
	fs.IntVarP(&delaySeconds, "delay", "d", config.DefaultDelaySeconds, "seconds to wait between downloads")
	fs.StringVarP(&outputDir, "output", "o", "", "destination directory (default ~/Pictures)")
	fs.StringVar(&historyFile, "history-file", "", "history file (default <output>/download_history.txt)")
	fs.StringVar(&hashAlgorithm, "hash-algorithm", "", "content hash: md5, sha256 or blake2b")
	fs.StringVar(&baseURL, "base-url", "", "image service base URL")
	fs.DurationVar(&timeout, "timeout", 30*time.Second, "per-request timeout")
	fs.IntVar(&retryAttempts, "retry-attempts", 3, "tries per request for transient failures")
	fs.IntVar(&maxAttempts, "max-attempts", 0, "give up after this many attempts (0 = never)")
	fs.BoolVar(&noPrompt, "no-prompt", false, "never prompt; use defaults for missing settings")
	fs.BoolVar(&useTUI, "tui", false, "full-screen view with a progress bar for each download")
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	addFetchFlags(fetchCmd.Flags())
	// Fetching is the default action, so the root command accepts the same flags
	addFetchFlags(rootCmd.Flags())
}

// fetchFlags collects the fetch flags the user actually set
func fetchFlags(cmd *cobra.Command) map[string]interface{} {
	flags := globalFlags(cmd)
	changed := cmd.Flags().Changed

	if changed("resolution") {
		flags["resolution"] = resolution
	}
	if changed("mode") {
		flags["mode"] = mode
	}
	if changed("keyword") {
		flags["keyword"] = keyword
	}
	if changed("max") {
		flags["max-wallpapers"] = maxWallpapers
	}
	if changed("delay") {
		flags["delay"] = delaySeconds
	}
	if changed("output") {
		flags["output"] = outputDir
	}
	if changed("history-file") {
		flags["history-file"] = historyFile
	}
	if changed("hash-algorithm") {
		flags["hash-algorithm"] = hashAlgorithm
	}
	if changed("base-url") {
		flags["base-url"] = baseURL
	}
	if changed("timeout") {
		flags["timeout"] = timeout
	}
	if changed("retry-attempts") {
		flags["retry-attempts"] = retryAttempts
	}
	if changed("max-attempts") {
		flags["max-attempts"] = maxAttempts
	}
	return flags
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadUnvalidated(configFile, fetchFlags(cmd))
	if err != nil {
		return err
	}

	if !noPrompt && prompt.Interactive() {
		p := prompt.New(os.Stdin, os.Stdout)
		warning, err := p.FillDownload(&cfg.Download, prompt.Fields{
			Resolution:    cfg.Given(config.KeyResolution),
			Mode:          cfg.Given(config.KeyMode),
			Keyword:       cfg.Given(config.KeyKeyword),
			MaxWallpapers: cfg.Given(config.KeyMaxWallpapers),
			Delay:         cfg.Given(config.KeyDelay),
		})
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if warning != "" {
			ui.PrintWarning(warning)
		}
		cfg.Normalize()
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	// Console log lines would tear the full-screen view
	if useTUI && !verbose {
		cfg.Logging.ConsoleLevel = "disabled"
	}
	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetLogger()
	log.WithField("version", version).Info("wallfetch starting")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := fetch(ctx, cfg, log)
	ui.PrintSummary(session)
	if err != nil {
		log.WithError(err).Error("Fetch ended early")
		return err
	}
	return nil
}

// fetch wires the loop to its collaborators and runs it
func fetch(ctx context.Context, cfg *config.Config, log logger.Logger) (downloader.Session, error) {
	algorithm, err := digest.ParseAlgorithm(cfg.History.Algorithm)
	if err != nil {
		return downloader.Session{}, err
	}

	images, err := storage.NewManager(cfg.Output.Directory, cfg.Output.FileNamePrefix)
	if err != nil {
		return downloader.Session{}, err
	}
	ui.PrintInfo("Pictures directory", images.GetOutputDir())

	store := history.NewStore(cfg.HistoryPath())
	existed := store.Exists()
	if err := store.EnsureCreated(); err != nil {
		return downloader.Session{}, err
	}
	if !existed {
		ui.PrintInfo("Download history", "created "+store.Path())
	}

	req := source.RequestFromConfig(cfg.Download)
	ui.PrintInfo("Resolution", req.Resolution)
	if req.Mode == config.ModeKeyword {
		ui.PrintInfo("Keyword", req.Keyword)
	} else {
		ui.PrintInfo("Mode", string(req.Mode))
	}
	ui.PrintInfo("Target", fmt.Sprintf("%d wallpapers, %ds apart", cfg.Download.MaxWallpapers, cfg.Download.DelaySeconds))

	client := source.NewClient(source.OptionsFromConfig(cfg), log)
	loop := downloader.New(
		downloader.Options{
			Request:       req,
			MaxWallpapers: cfg.Download.MaxWallpapers,
			MaxAttempts:   cfg.Download.MaxAttempts,
		},
		client,
		store,
		images,
		algorithm,
		pacing.NewFixedDelay(cfg.Download.Delay()),
		log,
	)
	progress := ui.NewProgress(ui.NewNotifier(cfg.Notifications), verbose)

	if !useTUI {
		loop.SetObserver(progress)
		return loop.Run(ctx)
	}

	session, err := runWithTUI(ctx, loop, client, cfg.Download.MaxWallpapers, log)
	// Repeat the final event on the normal screen, with its notification
	if err != nil {
		progress.Stopped(err, session)
	} else {
		progress.Completed(session)
	}
	return session, err
}

// runWithTUI runs the loop in the background while the full-screen view owns
// the terminal. Quitting the view cancels the loop.
func runWithTUI(ctx context.Context, loop *downloader.Loop, client *source.Client, target int, log logger.Logger) (downloader.Session, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	view := tui.New(target, cancel)
	client.SetProgress(view.BytesRead)
	loop.SetObserver(view)

	type result struct {
		session downloader.Session
		err     error
	}
	done := make(chan result, 1)
	go func() {
		s, err := loop.Run(ctx)
		done <- result{session: s, err: err}
	}()

	if err := view.Run(); err != nil {
		log.WithError(err).Error("Terminal UI failed")
	}
	cancel()

	r := <-done
	return r.session, r.err
}

func exitCode(err error) int {
	if errors.Is(err, context.Canceled) {
		return 130
	}
	return 1
}
