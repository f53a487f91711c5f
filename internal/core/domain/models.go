package domain

import (
	"errors"
	"time"
)

// Sentinel errors used to classify failures across adapters.
var (
	// ErrSession means the browser could not be started. It is batch-fatal.
	ErrSession = errors.New("browser session unavailable")
	// ErrNavigation means the subtitle site could not be reached or loaded.
	ErrNavigation = errors.New("navigation failed")
	// ErrElementTimeout means an expected element did not appear in time.
	ErrElementTimeout = errors.New("element did not appear in time")
)

// Language is the subtitle track language chosen for a video.
type Language string

const (
	LanguageSpanish Language = "Spanish"
	LanguageEnglish Language = "English"
	LanguageNone    Language = "None"
)

// Status is the outcome tag of a processed video.
type Status string

const (
	StatusOK               Status = "ok"
	StatusNoSubtitlesFound Status = "no_subtitles_found"
	StatusFailed           Status = "failed"
)

const (
	// ErrorTitle is the title reported for failed videos.
	ErrorTitle = "Error"
	// UntitledTitle is used when the results page shows no title.
	UntitledTitle = "Sin título"
	// NoSubtitlesText is the subtitle text reported when no track was found.
	NoSubtitlesText = "No subtitles found"
)

// VideoRequest is one input line and its normalized video identifier.
type VideoRequest struct {
	Raw     string `json:"url"`
	VideoID string `json:"video_id"`
}

// NewVideoRequest normalizes a raw input URL.
func NewVideoRequest(raw string) VideoRequest {
	return VideoRequest{Raw: raw, VideoID: NormalizeVideoID(raw)}
}

// WatchURL returns the fully-qualified watch URL submitted to the site.
func (r VideoRequest) WatchURL() string {
	return "https://www.youtube.com/watch?v=" + r.VideoID
}

// SubtitleResult holds the outcome of a single video.
type SubtitleResult struct {
	URL          string   `json:"url"`
	VideoID      string   `json:"video_id"`
	Title        string   `json:"title"`
	Language     Language `json:"language"`
	SubtitleText string   `json:"subtitles"`
	Status       Status   `json:"status"`
	Reason       string   `json:"reason,omitempty"`
}

// OkResult builds a successful result.
func OkResult(req VideoRequest, title string, lang Language, text string) SubtitleResult {
	return SubtitleResult{
		URL:          req.Raw,
		VideoID:      req.VideoID,
		Title:        title,
		Language:     lang,
		SubtitleText: text,
		Status:       StatusOK,
	}
}

// NoSubtitlesResult builds the empty outcome for a video without a matching track.
func NoSubtitlesResult(req VideoRequest, title string) SubtitleResult {
	return SubtitleResult{
		URL:          req.Raw,
		VideoID:      req.VideoID,
		Title:        title,
		Language:     LanguageNone,
		SubtitleText: NoSubtitlesText,
		Status:       StatusNoSubtitlesFound,
	}
}

// FailedResult builds a failure record carrying reason.
func FailedResult(req VideoRequest, reason string) SubtitleResult {
	if reason == "" {
		reason = "unknown error"
	}
	return SubtitleResult{
		URL:          req.Raw,
		VideoID:      req.VideoID,
		Title:        ErrorTitle,
		Language:     LanguageNone,
		SubtitleText: "Error: " + reason,
		Status:       StatusFailed,
		Reason:       reason,
	}
}

// BatchResult holds the outcome of one batch invocation.
type BatchResult struct {
	RunID       string           `json:"run_id"`
	StartedAt   time.Time        `json:"started_at"`
	CompletedAt time.Time        `json:"completed_at"`
	Results     []SubtitleResult `json:"results"`
}

// StatusCounts summarises a batch by outcome.
type StatusCounts struct {
	OK          int
	NoSubtitles int
	Failed      int
}

// Counts tallies the results by status.
func (b *BatchResult) Counts() StatusCounts {
	var c StatusCounts
	for _, r := range b.Results {
		switch r.Status {
		case StatusOK:
			c.OK++
		case StatusNoSubtitlesFound:
			c.NoSubtitles++
		default:
			c.Failed++
		}
	}
	return c
}
