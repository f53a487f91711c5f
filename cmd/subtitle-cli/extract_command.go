package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"subtitlebatch/internal/adapters/htmlfixture"
	"subtitlebatch/internal/adapters/localstorage"
	"subtitlebatch/internal/adapters/playwright"
	"subtitlebatch/internal/adapters/urlsource"
	"subtitlebatch/internal/config"
	"subtitlebatch/internal/core/domain"
	"subtitlebatch/internal/core/ports"
	"subtitlebatch/internal/service"
)

type extractOptions struct {
	input        string
	dataDir      string
	fixtureDir   string
	browserPath  string
	pacing       time.Duration
	headless     bool
	withLanguage bool
	noProgress   bool
}

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var opts extractOptions

	cmd := &cobra.Command{
		Use:   "extract [url...]",
		Short: "Extract subtitles for a list of video URLs",
		Example: `  subtitle-cli extract https://youtu.be/dQw4w9WgXcQ
  subtitle-cli extract --input urls.txt
  cat urls.txt | subtitle-cli extract --input -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			applyExtractFlags(cmd, &cfg, opts)
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger, err := newLogger(cmd, cfg)
			if err != nil {
				return err
			}
			return runExtract(cmd, cfg, opts, args, logger)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "URL list: file path, '-' for stdin, or http(s) URL")
	cmd.Flags().StringVar(&opts.dataDir, "data-dir", "", "Base directory for run artifacts")
	cmd.Flags().StringVar(&opts.fixtureDir, "fixture", "", "Serve the site from a static fixture directory instead of a browser")
	cmd.Flags().StringVar(&opts.browserPath, "browser-path", "", "Chromium executable to launch")
	cmd.Flags().DurationVar(&opts.pacing, "pacing", time.Second, "Pause between videos")
	cmd.Flags().BoolVar(&opts.headless, "headless", true, "Run the browser without a window")
	cmd.Flags().BoolVar(&opts.withLanguage, "transcript-language", true, "Include the language line in the transcript")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "Disable the progress bar")

	return cmd
}

func applyExtractFlags(cmd *cobra.Command, cfg *config.Config, opts extractOptions) {
	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.Storage.DataDir = opts.dataDir
	}
	if flags.Changed("browser-path") {
		cfg.Browser.ExecutablePath = opts.browserPath
	}
	if flags.Changed("pacing") {
		cfg.Batch.Pacing = config.Duration(opts.pacing)
	}
	if flags.Changed("headless") {
		cfg.Browser.Headless = opts.headless
	}
	if flags.Changed("transcript-language") {
		cfg.Storage.TranscriptLanguage = opts.withLanguage
	}
}

func runExtract(cmd *cobra.Command, cfg config.Config, opts extractOptions, args []string, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			logger.Warn("received interrupt signal, stopping after the current video")
			cancel()
		case <-ctx.Done():
		}
	}()

	urls := urlsource.Clean(args)
	if opts.input != "" {
		loader := urlsource.NewLoader()
		loader.Stdin = cmd.InOrStdin()
		listed, err := loader.Load(ctx, opts.input)
		if err != nil {
			return err
		}
		urls = append(urls, listed...)
	}
	if len(urls) == 0 {
		return errors.New("no video URLs given: pass them as arguments or with --input")
	}

	browser, err := newBrowser(cfg, opts, logger)
	if err != nil {
		return err
	}

	reporter := newProgressReporter(cmd.ErrOrStderr(), len(urls), !opts.noProgress, logger)
	extractor := service.NewExtractor(cfg.Site, logger)
	orchestrator := service.NewOrchestrator(browser, extractor, reporter, cfg.Batch.Pacing.D(), logger)

	batch, runErr := orchestrator.RunBatch(ctx, urls)
	reporter.Finish()
	if batch == nil {
		return runErr
	}

	storage := localstorage.NewLocalStorage(cfg.Storage.DataDir)
	paths, err := service.Archive(context.WithoutCancel(ctx), storage, batch, urls, cfg.Storage.TranscriptLanguage)
	if err != nil {
		return fmt.Errorf("save run artifacts: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderResults(batch.Results))
	counts := batch.Counts()
	fmt.Fprintf(out, "\nProcessed %d videos: %d with subtitles, %d without, %d failed\n",
		len(batch.Results), counts.OK, counts.NoSubtitles, counts.Failed)
	fmt.Fprintf(out, "Run ID:      %s\n", batch.RunID)
	fmt.Fprintf(out, "JSON:        %s\n", paths.JSON)
	fmt.Fprintf(out, "Transcript:  %s\n", paths.Transcript)

	return runErr
}

func newBrowser(cfg config.Config, opts extractOptions, logger *slog.Logger) (ports.Browser, error) {
	if opts.fixtureDir == "" {
		return playwright.NewBrowser(cfg.Browser, cfg.Site.InputTimeout.D(), logger), nil
	}
	site, err := htmlfixture.LoadDir(opts.fixtureDir, cfg.Site.RootURL, cfg.Site.Selectors)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSession, err)
	}
	logger.Info("serving subtitle site from fixture", "dir", opts.fixtureDir, "videos", len(site.Videos))
	return htmlfixture.NewBrowser(site), nil
}
