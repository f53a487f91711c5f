package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"subtitlebatch/internal/core/domain"
)

// progressReporter draws a progress bar on terminals and logs otherwise.
type progressReporter struct {
	bar    *progressbar.ProgressBar
	logger *slog.Logger
}

func newProgressReporter(w io.Writer, total int, allowBar bool, logger *slog.Logger) *progressReporter {
	p := &progressReporter{logger: logger}
	if allowBar && isTerminal(w) {
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription("Extracting subtitles"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}
	return p
}

// Progress implements ports.ProgressReporter.
func (p *progressReporter) Progress(done, total int, result domain.SubtitleResult) {
	if p.bar != nil {
		p.bar.Describe(fmt.Sprintf("Processing video %d of %d", done, total))
		_ = p.bar.Set(done)
		return
	}
	p.logger.Info("video processed",
		"done", done,
		"total", total,
		"status", result.Status,
		"url", result.URL,
	)
}

// Finish clears the bar once the batch is over.
func (p *progressReporter) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
