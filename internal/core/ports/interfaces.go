package ports

import (
	"context"
	"io"
	"time"

	"subtitlebatch/internal/core/domain"
)

// Browser launches scrape sessions.
type Browser interface {
	// Open starts the browser and opens a single page.
	// Failures wrap domain.ErrSession.
	Open(ctx context.Context) (Session, error)
}

// Session owns one browser and one page for the duration of a batch.
type Session interface {
	// Page returns the single page shared by every extraction in the batch.
	Page() Page

	// Close tears down the page and browser. Calling it more than once is safe.
	Close() error
}

// Page is the subset of browser page operations the extractor needs.
// Waits report a missing element as an error wrapping domain.ErrElementTimeout.
type Page interface {
	// Goto loads url, failing with domain.ErrNavigation after timeout.
	Goto(ctx context.Context, url string, timeout time.Duration) error

	// WaitFor blocks until selector is present or timeout elapses.
	WaitFor(ctx context.Context, selector string, timeout time.Duration) error

	// Fill sets the value of the first element matching selector.
	Fill(ctx context.Context, selector, value string) error

	// Click clicks the first element matching selector.
	Click(ctx context.Context, selector string) error

	// Text returns the visible text of the first match, reporting whether it exists.
	Text(ctx context.Context, selector string) (string, bool, error)

	// Labels returns the visible text of every match in document order.
	Labels(ctx context.Context, selector string) ([]string, error)

	// ClickNth clicks the i-th element (zero based) matching selector.
	ClickNth(ctx context.Context, selector string, i int) error

	// InputValue returns the value of the first matching form field,
	// reporting whether it exists.
	InputValue(ctx context.Context, selector string) (string, bool, error)

	// Press sends a keyboard key such as "Escape" to the page.
	Press(ctx context.Context, key string) error
}

// ProgressReporter receives a notification after each processed video.
type ProgressReporter interface {
	Progress(done, total int, result domain.SubtitleResult)
}

// Storage defines the contract for persisting run artifacts.
type Storage interface {
	// InitRun creates the run directory structure.
	InitRun(ctx context.Context, runID string) error

	// SaveInput saves the run input (raw URLs and run metadata).
	SaveInput(ctx context.Context, runID string, data []byte) error

	// SaveArtifact writes an export file from the provided reader.
	SaveArtifact(ctx context.Context, runID string, reader io.Reader, filename string) (string, error)

	// GetRunPath returns the filesystem path for a given run ID.
	GetRunPath(runID string) string
}

// Fetcher retrieves a remote document, used for URL lists hosted over HTTP.
type Fetcher interface {
	// Fetch returns a ReadCloser that the caller must close.
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}
