package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"subtitlebatch/internal/core/domain"
	"subtitlebatch/internal/core/ports"
)

// CancelledReason is recorded for items skipped because the batch was cancelled.
const CancelledReason = "batch cancelled before this video was processed"

// ProgressFunc adapts a plain function to ports.ProgressReporter.
type ProgressFunc func(done, total int, result domain.SubtitleResult)

// Progress implements ports.ProgressReporter.
func (f ProgressFunc) Progress(done, total int, result domain.SubtitleResult) {
	f(done, total, result)
}

// Orchestrator runs the extractor over a list of URLs, one at a time, on a
// single browser session.
type Orchestrator struct {
	browser   ports.Browser
	extractor *Extractor
	progress  ports.ProgressReporter
	pacing    time.Duration
	logger    *slog.Logger
	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewOrchestrator creates a new Orchestrator. progress may be nil.
func NewOrchestrator(
	browser ports.Browser,
	extractor *Extractor,
	progress ports.ProgressReporter,
	pacing time.Duration,
	logger *slog.Logger,
) *Orchestrator {
	if progress == nil {
		progress = ProgressFunc(func(int, int, domain.SubtitleResult) {})
	}
	return &Orchestrator{
		browser:   browser,
		extractor: extractor,
		progress:  progress,
		pacing:    pacing,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		sleep:     sleepCtx,
	}
}

// RunBatch processes rawURLs in order and returns one result per URL.
//
// A session that cannot be opened aborts the batch with an error wrapping
// domain.ErrSession and no results. Cancellation of ctx is honoured between
// items: the remaining items are recorded as failed and ctx's error is
// returned together with the complete result list.
func (o *Orchestrator) RunBatch(ctx context.Context, rawURLs []string) (*domain.BatchResult, error) {
	batch := &domain.BatchResult{
		RunID:     uuid.New().String(),
		StartedAt: o.now(),
		Results:   make([]domain.SubtitleResult, 0, len(rawURLs)),
	}
	logger := o.logger.With("run_id", batch.RunID)
	total := len(rawURLs)
	logger.Info("starting batch", "videos", total)

	session, err := o.browser.Open(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		if !errors.Is(err, domain.ErrSession) {
			err = fmt.Errorf("%w: %v", domain.ErrSession, err)
		}
		logger.Error("could not open browser session", "error", err)
		return nil, err
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			logger.Warn("closing browser session", "error", cerr)
		}
	}()
	page := session.Page()

	var cancelErr error
	for i, raw := range rawURLs {
		req := domain.NewVideoRequest(raw)

		var result domain.SubtitleResult
		if cancelErr == nil {
			cancelErr = ctx.Err()
		}
		if cancelErr != nil {
			result = domain.FailedResult(req, CancelledReason)
		} else {
			logger.Info("processing video", "index", i+1, "total", total, "video_id", req.VideoID)
			result = o.extractor.Extract(ctx, page, req)
		}

		batch.Results = append(batch.Results, result)
		o.progress.Progress(i+1, total, result)

		if cancelErr == nil && i < total-1 && o.pacing > 0 {
			if err := o.sleep(ctx, o.pacing); err != nil {
				cancelErr = err
			}
		}
	}

	batch.CompletedAt = o.now()
	counts := batch.Counts()
	logger.Info("batch finished",
		"ok", counts.OK,
		"no_subtitles", counts.NoSubtitles,
		"failed", counts.Failed,
		"duration", batch.CompletedAt.Sub(batch.StartedAt),
	)

	if cancelErr != nil {
		return batch, fmt.Errorf("batch cancelled: %w", cancelErr)
	}
	return batch, nil
}
