package playwright

import (
	"context"
	"errors"
	"fmt"
	"time"

	pw "github.com/playwright-community/playwright-go"

	"subtitlebatch/internal/core/domain"
)

// Page implements ports.Page on a playwright page. Playwright calls are not
// context aware, so ctx is checked before each one.
type Page struct {
	page pw.Page
}

// Goto implements ports.Page.
func (p *Page) Goto(ctx context.Context, url string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := p.page.Goto(url, pw.PageGotoOptions{
		Timeout:   pw.Float(millis(timeout)),
		WaitUntil: pw.WaitUntilStateLoad,
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrNavigation, url, err)
	}
	return nil
}

// WaitFor implements ports.Page.
func (p *Page) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := p.page.Locator(selector).First().WaitFor(pw.LocatorWaitForOptions{
		State:   pw.WaitForSelectorStateAttached,
		Timeout: pw.Float(millis(timeout)),
	})
	return translate(selector, err)
}

// Fill implements ports.Page.
func (p *Page) Fill(ctx context.Context, selector, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return translate(selector, p.page.Locator(selector).First().Fill(value))
}

// Click implements ports.Page.
func (p *Page) Click(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return translate(selector, p.page.Locator(selector).First().Click())
}

// Text implements ports.Page.
func (p *Page) Text(ctx context.Context, selector string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	loc := p.page.Locator(selector)
	n, err := loc.Count()
	if err != nil || n == 0 {
		return "", false, translate(selector, err)
	}
	text, err := loc.First().InnerText()
	if err != nil {
		return "", false, translate(selector, err)
	}
	return text, true, nil
}

// Labels implements ports.Page.
func (p *Page) Labels(ctx context.Context, selector string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	labels, err := p.page.Locator(selector).AllInnerTexts()
	if err != nil {
		return nil, translate(selector, err)
	}
	return labels, nil
}

// ClickNth implements ports.Page.
func (p *Page) ClickNth(ctx context.Context, selector string, i int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return translate(selector, p.page.Locator(selector).Nth(i).Click())
}

// InputValue implements ports.Page.
func (p *Page) InputValue(ctx context.Context, selector string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	loc := p.page.Locator(selector)
	n, err := loc.Count()
	if err != nil || n == 0 {
		return "", false, translate(selector, err)
	}
	v, err := loc.First().InputValue()
	if err != nil {
		return "", false, translate(selector, err)
	}
	return v, true, nil
}

// Press implements ports.Page.
func (p *Page) Press(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.page.Keyboard().Press(key)
}

// translate maps playwright timeouts onto domain.ErrElementTimeout.
func translate(selector string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pw.ErrTimeout) {
		return fmt.Errorf("%w: %q: %v", domain.ErrElementTimeout, selector, err)
	}
	return fmt.Errorf("%q: %w", selector, err)
}
