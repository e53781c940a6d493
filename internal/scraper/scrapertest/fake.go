// Package scrapertest provides an in-memory scraper.Page for tests.
package scrapertest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/scraper"
)

// Doc is one scripted document.
type Doc struct {
	// Texts maps a selector to the texts of the elements it matches.
	Texts map[string][]string
	// Hrefs maps HrefKey(item, child) to the href values Attrs returns.
	Hrefs map[string][]string
	// Links maps a click selector to the URL it leads to.
	Links map[string]string
	// NavErr is returned by Navigate.
	NavErr error
	// ClickErr is returned by Click.
	ClickErr error
}

// Page serves Docs keyed by URL and records what happened.
type Page struct {
	Docs    map[string]*Doc
	Visits  []string
	Clicks  int
	Shots   []string
	current string
}

func NewPage(docs map[string]*Doc) *Page {
	return &Page{Docs: docs}
}

func (p *Page) doc() *Doc {
	return p.Docs[p.current]
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.Visits = append(p.Visits, url)
	p.current = url
	d, ok := p.Docs[url]
	if !ok {
		return fmt.Errorf("no document for %s", url)
	}
	return d.NavErr
}

func (p *Page) WaitFor(ctx context.Context, selectors []string, timeout time.Duration) error {
	d := p.doc()
	if d == nil {
		return scraper.ErrNotReady
	}
	for _, sel := range selectors {
		if len(d.Texts[sel]) > 0 {
			return nil
		}
	}
	return fmt.Errorf("%w: waited %v", scraper.ErrNotReady, timeout)
}

func (p *Page) FirstText(selector string) (string, error) {
	d := p.doc()
	if d == nil {
		return "", errors.New("no document loaded")
	}
	if texts := d.Texts[selector]; len(texts) > 0 {
		return texts[0], nil
	}
	return "", nil
}

func (p *Page) Texts(selector string) ([]string, error) {
	d := p.doc()
	if d == nil {
		return nil, errors.New("no document loaded")
	}
	return d.Texts[selector], nil
}

func (p *Page) Attrs(itemSelector, childSelector, attr string) ([]string, error) {
	d := p.doc()
	if d == nil {
		return nil, errors.New("no document loaded")
	}
	if attr != "href" {
		return nil, nil
	}
	return d.Hrefs[HrefKey(itemSelector, childSelector)], nil
}

// HrefKey is the Doc.Hrefs key for links matched by child inside item.
func HrefKey(itemSelector, childSelector string) string {
	return itemSelector + " " + childSelector
}

func (p *Page) Click(ctx context.Context, selector string) (bool, error) {
	d := p.doc()
	if d == nil {
		return false, nil
	}
	if d.ClickErr != nil {
		return false, d.ClickErr
	}
	target, ok := d.Links[selector]
	if !ok {
		return false, nil
	}
	p.Clicks++
	p.current = target
	p.Visits = append(p.Visits, target)
	return true, nil
}

func (p *Page) URL() string {
	return p.current
}

func (p *Page) Screenshot(path string) error {
	p.Shots = append(p.Shots, path)
	return nil
}
