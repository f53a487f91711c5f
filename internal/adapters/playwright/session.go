// Package playwright implements the scrape session on a headless Chromium
// driven by playwright-go.
package playwright

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	pw "github.com/playwright-community/playwright-go"

	"subtitlebatch/internal/config"
	"subtitlebatch/internal/core/domain"
	"subtitlebatch/internal/core/ports"
)

// Install downloads the playwright driver and Chromium. It is safe to run
// repeatedly and is never triggered implicitly by opening a session.
func Install(verbose bool) error {
	if err := pw.Install(&pw.RunOptions{
		Browsers: []string{"chromium"},
		Verbose:  verbose,
	}); err != nil {
		return fmt.Errorf("install playwright chromium: %w", err)
	}
	return nil
}

// Browser launches Chromium sessions.
type Browser struct {
	cfg           config.Browser
	actionTimeout time.Duration
	logger        *slog.Logger
}

// NewBrowser creates a Browser. actionTimeout bounds clicks, fills and reads.
func NewBrowser(cfg config.Browser, actionTimeout time.Duration, logger *slog.Logger) *Browser {
	return &Browser{cfg: cfg, actionTimeout: actionTimeout, logger: logger}
}

// Open implements ports.Browser.
func (b *Browser) Open(ctx context.Context) (ports.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runner, err := pw.Run()
	if err != nil {
		return nil, fmt.Errorf("%w: start playwright: %v", domain.ErrSession, err)
	}
	s := &Session{runner: runner, logger: b.logger}

	s.browser, err = runner.Chromium.Launch(launchOptions(b.cfg))
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("%w: launch chromium: %v", domain.ErrSession, err)
	}
	bctx, err := s.browser.NewContext()
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("%w: new browser context: %v", domain.ErrSession, err)
	}
	page, err := bctx.NewPage()
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("%w: new page: %v", domain.ErrSession, err)
	}
	page.SetDefaultTimeout(millis(b.actionTimeout))
	s.page = &Page{page: page}

	b.logger.Info("browser session opened", "headless", b.cfg.Headless)
	return s, nil
}

func launchOptions(cfg config.Browser) pw.BrowserTypeLaunchOptions {
	opts := pw.BrowserTypeLaunchOptions{
		Headless: pw.Bool(cfg.Headless),
		Args:     append([]string(nil), cfg.Args...),
	}
	if cfg.ExecutablePath != "" {
		opts.ExecutablePath = pw.String(cfg.ExecutablePath)
	}
	return opts
}

// Session owns one Chromium instance and its single page.
type Session struct {
	runner  *pw.Playwright
	browser pw.Browser
	page    *Page
	logger  *slog.Logger

	once     sync.Once
	closeErr error
}

// Page implements ports.Session.
func (s *Session) Page() ports.Page { return s.page }

// Close implements ports.Session.
func (s *Session) Close() error {
	s.once.Do(func() {
		var errs []error
		if s.page != nil {
			if err := s.page.page.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close page: %w", err))
			}
		}
		if s.browser != nil {
			if err := s.browser.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close browser: %w", err))
			}
		}
		if err := s.runner.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop playwright: %w", err))
		}
		s.closeErr = errors.Join(errs...)
		s.logger.Info("browser session closed")
	})
	return s.closeErr
}

func millis(d time.Duration) float64 {
	return float64(d / time.Millisecond)
}
