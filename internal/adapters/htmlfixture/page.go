package htmlfixture

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"subtitlebatch/internal/core/domain"
)

// Page implements ports.Page over parsed goquery documents. Waits resolve
// immediately: an element that is absent now is reported as timed out.
type Page struct {
	site   *Site
	doc    *goquery.Document
	dialog *goquery.Document
	video  *Video

	// Navigations counts successful Goto calls.
	Navigations int
}

// NewPage returns a blank page for site.
func NewPage(site *Site) *Page {
	return &Page{site: site}
}

// Goto implements ports.Page. Only the site's root URL can be loaded.
func (p *Page) Goto(ctx context.Context, url string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if url != p.site.RootURL {
		return fmt.Errorf("%w: %s did not load within %s", domain.ErrNavigation, url, timeout)
	}
	doc, err := parse(p.site.RootHTML)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNavigation, err)
	}
	p.doc, p.dialog, p.video = doc, nil, nil
	p.Navigations++
	return nil
}

// WaitFor implements ports.Page.
func (p *Page) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.find(selector).Length() == 0 {
		return fmt.Errorf("%w: %q after %s", domain.ErrElementTimeout, selector, timeout)
	}
	return nil
}

// Fill implements ports.Page.
func (p *Page) Fill(ctx context.Context, selector, value string) error {
	s, err := p.first(ctx, selector)
	if err != nil {
		return err
	}
	s.SetAttr("value", value)
	return nil
}

// Click implements ports.Page. Clicking the submit control loads the
// results for the video named in the URL input.
func (p *Page) Click(ctx context.Context, selector string) error {
	if _, err := p.first(ctx, selector); err != nil {
		return err
	}
	if selector != p.site.Selectors.Submit {
		return nil
	}
	value, _ := p.find(p.site.Selectors.URLInput).First().Attr("value")
	video, ok := p.site.Videos[domain.NormalizeVideoID(value)]
	if !ok {
		// The live site keeps showing the form when it cannot process a URL.
		return nil
	}
	doc, err := parse(video.ResultsHTML)
	if err != nil {
		return err
	}
	p.doc, p.video = doc, &video
	return nil
}

// Text implements ports.Page.
func (p *Page) Text(ctx context.Context, selector string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s := p.find(selector)
	if s.Length() == 0 {
		return "", false, nil
	}
	return strings.TrimSpace(s.First().Text()), true, nil
}

// Labels implements ports.Page.
func (p *Page) Labels(ctx context.Context, selector string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.find(selector).Map(func(_ int, s *goquery.Selection) string {
		return strings.TrimSpace(s.Text())
	}), nil
}

// ClickNth implements ports.Page. Clicking a language button opens its dialog.
func (p *Page) ClickNth(ctx context.Context, selector string, i int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := p.find(selector)
	if i < 0 || i >= s.Length() {
		return fmt.Errorf("%w: %q has no element %d", domain.ErrElementTimeout, selector, i)
	}
	if selector != p.site.Selectors.LanguageButton || p.video == nil {
		return nil
	}
	body, ok := p.video.Dialogs[i]
	if !ok {
		return nil
	}
	doc, err := parse(body)
	if err != nil {
		return err
	}
	p.dialog = doc
	return nil
}

// InputValue implements ports.Page.
func (p *Page) InputValue(ctx context.Context, selector string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s := p.find(selector).First()
	if s.Length() == 0 {
		return "", false, nil
	}
	if goquery.NodeName(s) == "textarea" {
		return s.Text(), true, nil
	}
	v, _ := s.Attr("value")
	return v, true, nil
}

// Press implements ports.Page. Escape closes an open dialog.
func (p *Page) Press(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "Escape" {
		p.dialog = nil
	}
	return nil
}

// DialogOpen reports whether a language dialog is showing.
func (p *Page) DialogOpen() bool { return p.dialog != nil }

func (p *Page) first(ctx context.Context, selector string) (*goquery.Selection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := p.find(selector)
	if s.Length() == 0 {
		return nil, fmt.Errorf("%w: %q", domain.ErrElementTimeout, selector)
	}
	return s.First(), nil
}

// find searches the open dialog before the page body.
func (p *Page) find(selector string) *goquery.Selection {
	if p.dialog != nil {
		if s := p.dialog.Find(selector); s.Length() > 0 {
			return s
		}
	}
	if p.doc == nil {
		return &goquery.Selection{}
	}
	return p.doc.Find(selector)
}

func parse(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse fixture html: %w", err)
	}
	return doc, nil
}
