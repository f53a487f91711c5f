// Package urlsource reads the list of video URLs to process.
package urlsource

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"subtitlebatch/internal/core/ports"
)

// maxListBytes caps remote URL lists.
const maxListBytes = 1 << 20

// Parse splits r into lines, trims them and drops blank lines.
func Parse(r io.Reader) ([]string, error) {
	var urls []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxListBytes)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			urls = append(urls, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read url list: %w", err)
	}
	return urls, nil
}

// Clean trims every entry of raw and drops blank ones.
func Clean(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Loader resolves a list location: "-" for stdin, an http(s) URL, or a file path.
type Loader struct {
	Fetcher ports.Fetcher
	Stdin   io.Reader
}

// NewLoader returns a Loader reading stdin and fetching over HTTP.
func NewLoader() *Loader {
	return &Loader{Fetcher: NewHTTPFetcher(), Stdin: os.Stdin}
}

// Load reads the URL list at location.
func (l *Loader) Load(ctx context.Context, location string) ([]string, error) {
	switch {
	case location == "-":
		return Parse(l.Stdin)
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		body, err := l.Fetcher.Fetch(ctx, location)
		if err != nil {
			return nil, err
		}
		defer body.Close()
		return Parse(io.LimitReader(body, maxListBytes))
	default:
		f, err := os.Open(location)
		if err != nil {
			return nil, fmt.Errorf("open url list: %w", err)
		}
		defer f.Close()
		return Parse(f)
	}
}

// HTTPFetcher implements ports.Fetcher using standard HTTP.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a new HTTPFetcher.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{client: &http.Client{Timeout: 30 * time.Second}}
}

// Fetch implements ports.Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch url list: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch url list %s: unexpected status code: %d", url, resp.StatusCode)
	}
	return resp.Body, nil
}
