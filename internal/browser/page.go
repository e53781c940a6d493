package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/ratelimit"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/scraper"

	"github.com/playwright-community/playwright-go"
)

const (
	pollInterval  = 250 * time.Millisecond
	textTimeoutMs = 2000
	clickTimeout  = 10000
)

// PlaywrightPage adapts a playwright.Page to scraper.Page.
type PlaywrightPage struct {
	page         playwright.Page
	navTimeoutMs float64
}

func (p *PlaywrightPage) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(p.navTimeoutMs),
	}); err != nil {
		return fmt.Errorf("goto %s: %w", url, err)
	}
	return nil
}

// WaitFor polls the DOM instead of sleeping a fixed settle time.
func (p *PlaywrightPage) WaitFor(ctx context.Context, selectors []string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		for _, sel := range selectors {
			if n, err := p.page.Locator(sel).Count(); err == nil && n > 0 {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: none of %s after %v", scraper.ErrNotReady, strings.Join(selectors, ", "), timeout)
		}
		if err := ratelimit.Sleep(ctx, pollInterval); err != nil {
			return err
		}
	}
}

func (p *PlaywrightPage) FirstText(selector string) (string, error) {
	loc := p.page.Locator(selector)
	n, err := loc.Count()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	return loc.First().InnerText(playwright.LocatorInnerTextOptions{
		Timeout: playwright.Float(textTimeoutMs),
	})
}

func (p *PlaywrightPage) Texts(selector string) ([]string, error) {
	return p.page.Locator(selector).AllInnerTexts()
}

func (p *PlaywrightPage) Attrs(itemSelector, childSelector, attr string) ([]string, error) {
	items, err := p.page.Locator(itemSelector).All()
	if err != nil {
		return nil, err
	}

	values := make([]string, 0, len(items))
	for _, item := range items {
		child := item.Locator(childSelector).First()
		if n, err := item.Locator(childSelector).Count(); err != nil || n == 0 {
			values = append(values, "")
			continue
		}
		v, err := child.GetAttribute(attr)
		if err != nil {
			values = append(values, "")
			continue
		}
		values = append(values, v)
	}
	return values, nil
}

func (p *PlaywrightPage) Click(ctx context.Context, selector string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	loc := p.page.Locator(selector)
	n, err := loc.Count()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	if err := loc.First().Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(clickTimeout),
	}); err != nil {
		return false, fmt.Errorf("click %s: %w", selector, err)
	}
	if err := p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateDomcontentloaded,
	}); err != nil {
		return true, fmt.Errorf("wait after click: %w", err)
	}
	return true, nil
}

func (p *PlaywrightPage) URL() string {
	return p.page.URL()
}

func (p *PlaywrightPage) Screenshot(path string) error {
	_, err := p.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}

// Close closes the page together with its context.
func (p *PlaywrightPage) Close() error {
	return p.page.Context().Close()
}
