// Package export turns batch results into downloadable artifacts: a JSON
// document with every field and a plain-text transcript.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"subtitlebatch/internal/core/domain"
)

const separatorWidth = 50

// WriteJSON writes results as an indented JSON array in input order.
func WriteJSON(w io.Writer, results []domain.SubtitleResult) error {
	if results == nil {
		results = []domain.SubtitleResult{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	return nil
}

// WriteTranscript writes every result as a titled block followed by a
// separator line. withLanguage adds a "Language:" line under the URL.
func WriteTranscript(w io.Writer, results []domain.SubtitleResult, withLanguage bool) error {
	var b strings.Builder
	separator := strings.Repeat("=", separatorWidth)
	for _, r := range results {
		fmt.Fprintf(&b, "\n=== %s ===\n", r.Title)
		fmt.Fprintf(&b, "URL: %s\n", r.URL)
		if withLanguage {
			fmt.Fprintf(&b, "Language: %s\n", r.Language)
		}
		b.WriteString("\n")
		b.WriteString(r.SubtitleText)
		b.WriteString("\n")
		b.WriteString(separator)
		b.WriteString("\n")
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}

// FileNames returns the JSON and transcript file names for a run finished at
// ts. The stamp is always UTC, matching the times recorded in input.json.
func FileNames(ts time.Time) (jsonName, textName string) {
	stamp := ts.UTC().Format("20060102_150405")
	return "subtitles_" + stamp + ".json", "subtitles_" + stamp + ".txt"
}
