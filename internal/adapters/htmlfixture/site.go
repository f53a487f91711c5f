// Package htmlfixture serves a static copy of the subtitle site from HTML
// documents so the extraction flow can run without a real browser.
package htmlfixture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"sync"

	"subtitlebatch/internal/config"
	"subtitlebatch/internal/core/ports"
)

// Video is the simulated site's response for one video.
type Video struct {
	// ResultsHTML is the document shown after the video URL is submitted.
	ResultsHTML string
	// Dialogs maps a language button index to the dialog shown when it is clicked.
	Dialogs map[int]string
}

// Site is a static subtitle site.
type Site struct {
	RootURL   string
	RootHTML  string
	Selectors config.Selectors
	// Videos is keyed by normalized video ID.
	Videos map[string]Video
}

var dialogFile = regexp.MustCompile(`^dialog-(\d+)\.html$`)

// LoadDir reads a site from dir:
//
//	root.html
//	videos/<video id>/results.html
//	videos/<video id>/dialog-<button index>.html
func LoadDir(dir, rootURL string, selectors config.Selectors) (*Site, error) {
	root, err := os.ReadFile(filepath.Join(dir, "root.html"))
	if err != nil {
		return nil, fmt.Errorf("read fixture root: %w", err)
	}
	site := &Site{
		RootURL:   rootURL,
		RootHTML:  string(root),
		Selectors: selectors,
		Videos:    map[string]Video{},
	}

	entries, err := os.ReadDir(filepath.Join(dir, "videos"))
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read fixture videos: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		videoDir := filepath.Join(dir, "videos", entry.Name())
		results, err := os.ReadFile(filepath.Join(videoDir, "results.html"))
		if err != nil {
			return nil, fmt.Errorf("read fixture results for %s: %w", entry.Name(), err)
		}
		video := Video{ResultsHTML: string(results), Dialogs: map[int]string{}}

		files, err := os.ReadDir(videoDir)
		if err != nil {
			return nil, fmt.Errorf("read fixture dir %s: %w", videoDir, err)
		}
		for _, f := range files {
			m := dialogFile.FindStringSubmatch(f.Name())
			if m == nil {
				continue
			}
			idx, _ := strconv.Atoi(m[1])
			body, err := os.ReadFile(filepath.Join(videoDir, f.Name()))
			if err != nil {
				return nil, fmt.Errorf("read fixture dialog %s: %w", f.Name(), err)
			}
			video.Dialogs[idx] = string(body)
		}
		site.Videos[entry.Name()] = video
	}
	return site, nil
}

// VideoIDs returns the IDs the site knows, sorted.
func (s *Site) VideoIDs() []string {
	ids := make([]string, 0, len(s.Videos))
	for id := range s.Videos {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Browser opens sessions against a Site. It counts opens and closes.
type Browser struct {
	Site *Site

	mu     sync.Mutex
	opens  int
	closes int
}

// NewBrowser returns a Browser serving site.
func NewBrowser(site *Site) *Browser {
	return &Browser{Site: site}
}

// Open implements ports.Browser.
func (b *Browser) Open(ctx context.Context) (ports.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	b.opens++
	b.mu.Unlock()
	return &session{browser: b, page: NewPage(b.Site)}, nil
}

// Stats reports how many sessions were opened and closed.
func (b *Browser) Stats() (opens, closes int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.opens, b.closes
}

type session struct {
	browser *Browser
	page    *Page
	once    sync.Once
}

func (s *session) Page() ports.Page { return s.page }

func (s *session) Close() error {
	s.once.Do(func() {
		s.browser.mu.Lock()
		s.browser.closes++
		s.browser.mu.Unlock()
	})
	return nil
}
