package service

import (
	"context"
	"errors"
	"time"

	"subtitlebatch/internal/adapters/htmlfixture"
	"subtitlebatch/internal/config"
	"subtitlebatch/internal/core/ports"
	"subtitlebatch/internal/logging"
)

const testRootURL = "https://subs.example/"

func testSiteConfig() config.Site {
	site := config.Default().Site
	site.RootURL = testRootURL
	return site
}

func newTestSite(videos map[string]htmlfixture.Video) *htmlfixture.Site {
	return &htmlfixture.Site{
		RootURL:   testRootURL,
		RootHTML:  htmlfixture.RootHTML,
		Selectors: config.Default().Site.Selectors,
		Videos:    videos,
	}
}

func newTestExtractor() *Extractor {
	return NewExtractor(testSiteConfig(), logging.Discard())
}

func newTestOrchestrator(browser ports.Browser, progress ports.ProgressReporter) *Orchestrator {
	o := NewOrchestrator(browser, newTestExtractor(), progress, time.Second, logging.Discard())
	o.sleep = func(ctx context.Context, d time.Duration) error { return ctx.Err() }
	return o
}

// failingBrowser never launches.
type failingBrowser struct{ err error }

func (b failingBrowser) Open(context.Context) (ports.Session, error) { return nil, b.err }

// panicPage panics on every call after navigation.
type panicPage struct{ ports.Page }

func (panicPage) Goto(context.Context, string, time.Duration) error { return nil }
func (panicPage) WaitFor(context.Context, string, time.Duration) error {
	panic("page crashed")
}

// pressErrPage fails to dismiss the dialog.
type pressErrPage struct{ *htmlfixture.Page }

func (pressErrPage) Press(context.Context, string) error { return errors.New("keyboard detached") }

// waitPage records every WaitFor and can fail waits on one selector.
type waitPage struct {
	*htmlfixture.Page
	failOn string
	err    error
	waits  map[string]time.Duration
}

func (p *waitPage) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	if p.waits == nil {
		p.waits = map[string]time.Duration{}
	}
	p.waits[selector] = timeout
	if selector == p.failOn {
		return p.err
	}
	return p.Page.WaitFor(ctx, selector, timeout)
}
