package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"subtitlebatch/internal/config"
	"subtitlebatch/internal/core/domain"
	"subtitlebatch/internal/core/ports"
)

// State is a step of the per-video extraction flow.
type State string

const (
	StateStart              State = "start"
	StateNavigated          State = "navigated"
	StateInputFilled        State = "input_filled"
	StateSubmitted          State = "submitted"
	StateResultsRendered    State = "results_rendered"
	StateTitleRead          State = "title_read"
	StateLanguagePicking    State = "language_picking"
	StateLanguageDialogOpen State = "language_dialog_open"
	StateSubtitleRead       State = "subtitle_read"
	StateDone               State = "done"
	StateFailed             State = "failed"
)

// Extractor drives the subtitle site for one video at a time.
type Extractor struct {
	site   config.Site
	logger *slog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewExtractor creates an Extractor for the configured site.
func NewExtractor(site config.Site, logger *slog.Logger) *Extractor {
	return &Extractor{site: site, logger: logger, sleep: sleepCtx}
}

// stepError records the state an extraction failed in.
type stepError struct {
	state State
	err   error
}

func (e *stepError) Error() string { return fmt.Sprintf("%s: %v", e.state, e.err) }
func (e *stepError) Unwrap() error { return e.err }

// Extract runs the full flow for req on page. It never returns an error:
// every failure, including a panic inside the page adapter, becomes a
// failed result.
func (e *Extractor) Extract(ctx context.Context, page ports.Page, req domain.VideoRequest) (result domain.SubtitleResult) {
	logger := e.logger.With("video_id", req.VideoID)
	defer func() {
		if r := recover(); r != nil {
			logger.Error("extraction panicked", "panic", r)
			result = domain.FailedResult(req, fmt.Sprintf("unexpected error: %v", r))
		}
	}()

	result, err := e.run(ctx, page, req, logger)
	if err != nil {
		logger.Warn("extraction failed", "error", err)
		return domain.FailedResult(req, failureReason(err))
	}
	return result
}

func (e *Extractor) run(ctx context.Context, page ports.Page, req domain.VideoRequest, logger *slog.Logger) (domain.SubtitleResult, error) {
	sel := e.site.Selectors
	state := StateStart
	advance := func(next State) {
		logger.Debug("extractor state", "from", state, "to", next)
		state = next
	}
	fail := func(err error) (domain.SubtitleResult, error) {
		at := state
		advance(StateFailed)
		return domain.SubtitleResult{}, &stepError{state: at, err: err}
	}

	if err := page.Goto(ctx, e.site.RootURL, e.site.NavigateTimeout.D()); err != nil {
		return fail(err)
	}
	advance(StateNavigated)

	if err := page.WaitFor(ctx, sel.URLInput, e.site.InputTimeout.D()); err != nil {
		return fail(fmt.Errorf("url input: %w", err))
	}
	if err := page.Fill(ctx, sel.URLInput, req.WatchURL()); err != nil {
		return fail(fmt.Errorf("fill url input: %w", err))
	}
	advance(StateInputFilled)

	if err := page.Click(ctx, sel.Submit); err != nil {
		return fail(fmt.Errorf("submit: %w", err))
	}
	advance(StateSubmitted)

	if err := page.WaitFor(ctx, sel.Results, e.site.ResultsTimeout.D()); err != nil {
		return fail(fmt.Errorf("no results: %w", err))
	}
	advance(StateResultsRendered)

	title, ok, err := page.Text(ctx, sel.Title)
	if err != nil {
		return fail(fmt.Errorf("read title: %w", err))
	}
	title = strings.TrimSpace(title)
	if !ok || title == "" {
		title = domain.UntitledTitle
	}
	advance(StateTitleRead)

	labels, err := e.languageLabels(ctx, page)
	if err != nil {
		return fail(err)
	}
	advance(StateLanguagePicking)

	idx, lang := PickLanguage(labels)
	if idx < 0 {
		logger.Info("no matching subtitle track", "candidates", len(labels))
		advance(StateDone)
		return domain.NoSubtitlesResult(req, title), nil
	}

	if err := page.ClickNth(ctx, sel.LanguageButton, idx); err != nil {
		return fail(fmt.Errorf("open %s subtitles: %w", lang, err))
	}
	advance(StateLanguageDialogOpen)

	text, found, err := e.readDialog(ctx, page)
	if err != nil {
		return fail(err)
	}
	if !found {
		logger.Info("subtitle dialog exposed no text", "language", lang)
		advance(StateDone)
		return domain.NoSubtitlesResult(req, title), nil
	}
	advance(StateSubtitleRead)

	advance(StateDone)
	return domain.OkResult(req, title, lang, text), nil
}

// languageLabels lists the language buttons once they render. The buttons
// appear after the results container, and none appearing within
// LanguagesTimeout means there are no candidates.
func (e *Extractor) languageLabels(ctx context.Context, page ports.Page) ([]string, error) {
	sel := e.site.Selectors.LanguageButton
	if err := page.WaitFor(ctx, sel, e.site.LanguagesTimeout.D()); err != nil {
		if errors.Is(err, domain.ErrElementTimeout) {
			return nil, nil
		}
		return nil, fmt.Errorf("language buttons: %w", err)
	}
	labels, err := page.Labels(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	return labels, nil
}

// readDialog waits for the subtitle field, reads it and always dismisses
// the dialog so the page is usable for the next video.
func (e *Extractor) readDialog(ctx context.Context, page ports.Page) (text string, found bool, err error) {
	sel := e.site.Selectors
	defer func() {
		if perr := page.Press(ctx, "Escape"); perr != nil && err == nil {
			err = fmt.Errorf("dismiss dialog: %w", perr)
		}
	}()

	if werr := page.WaitFor(ctx, sel.SubtitleField, e.site.DialogTimeout.D()); werr != nil {
		if errors.Is(werr, domain.ErrElementTimeout) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("subtitle dialog: %w", werr)
	}
	if d := e.site.SettleDelay.D(); d > 0 {
		if serr := e.sleep(ctx, d); serr != nil {
			return "", false, serr
		}
	}

	text, found, err = page.InputValue(ctx, sel.SubtitleField)
	if err != nil {
		return "", false, fmt.Errorf("read subtitles: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		found = false
	}
	return text, found, nil
}

// PickLanguage returns the index and language of the first label naming
// Spanish or English, or -1 when none does. Document order wins over
// language preference.
func PickLanguage(labels []string) (int, domain.Language) {
	for i, label := range labels {
		switch {
		case strings.Contains(label, "Spanish"):
			return i, domain.LanguageSpanish
		case strings.Contains(label, "English"):
			return i, domain.LanguageEnglish
		}
	}
	return -1, domain.LanguageNone
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNavigation):
		return "navigation timeout/error: " + err.Error()
	case errors.Is(err, domain.ErrElementTimeout):
		return "element timeout: " + err.Error()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled: " + err.Error()
	default:
		return err.Error()
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
