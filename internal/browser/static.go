package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/scraper"

	"github.com/PuerkitoBio/goquery"
)

// StaticPage fetches documents over plain HTTP and queries them with goquery.
// It does not run scripts, so WaitFor only checks the fetched markup.
type StaticPage struct {
	client    *http.Client
	userAgent string
	doc       *goquery.Document
	current   *url.URL
}

func NewStaticPage(client *http.Client, userAgent string) *StaticPage {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &StaticPage{client: client, userAgent: userAgent}
}

func (p *StaticPage) Navigate(ctx context.Context, rawURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("get %s: status %d", rawURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return fmt.Errorf("parse %s: %w", rawURL, err)
	}
	p.doc = doc
	p.current = resp.Request.URL
	return nil
}

func (p *StaticPage) WaitFor(ctx context.Context, selectors []string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.doc == nil {
		return fmt.Errorf("%w: no document loaded", scraper.ErrNotReady)
	}
	for _, sel := range selectors {
		if p.doc.Find(sel).Length() > 0 {
			return nil
		}
	}
	return fmt.Errorf("%w: none of %s in document", scraper.ErrNotReady, strings.Join(selectors, ", "))
}

func (p *StaticPage) FirstText(selector string) (string, error) {
	if p.doc == nil {
		return "", errors.New("no document loaded")
	}
	return p.doc.Find(selector).First().Text(), nil
}

func (p *StaticPage) Texts(selector string) ([]string, error) {
	if p.doc == nil {
		return nil, errors.New("no document loaded")
	}
	var texts []string
	p.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		texts = append(texts, s.Text())
	})
	return texts, nil
}

// Attrs resolves href and src values against the current URL.
func (p *StaticPage) Attrs(itemSelector, childSelector, attr string) ([]string, error) {
	if p.doc == nil {
		return nil, errors.New("no document loaded")
	}
	var values []string
	p.doc.Find(itemSelector).Each(func(_ int, item *goquery.Selection) {
		v, _ := item.Find(childSelector).First().Attr(attr)
		if v != "" && (attr == "href" || attr == "src") {
			v = p.resolve(v)
		}
		values = append(values, v)
	})
	return values, nil
}

// Click follows the href of the first matching anchor.
func (p *StaticPage) Click(ctx context.Context, selector string) (bool, error) {
	if p.doc == nil {
		return false, nil
	}
	href, ok := p.doc.Find(selector).First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return false, nil
	}
	if err := p.Navigate(ctx, p.resolve(href)); err != nil {
		return false, err
	}
	return true, nil
}

func (p *StaticPage) URL() string {
	if p.current == nil {
		return ""
	}
	return p.current.String()
}

func (p *StaticPage) resolve(ref string) string {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil || p.current == nil {
		return ref
	}
	return p.current.ResolveReference(u).String()
}
