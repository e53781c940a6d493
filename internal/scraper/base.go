// Navigation contract shared by every page backend.
// Harvesters only talk to Page, never to a browser library directly.

package scraper

import (
	"context"
	"errors"
	"time"

	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/models"
)

// ErrNotReady means none of the readiness selectors showed up before the timeout.
var ErrNotReady = errors.New("page not ready")

// Page is a single navigable document.
type Page interface {
	// Navigate loads url. It returns once the document is parsed, not when
	// dynamic content has rendered; use WaitFor for that.
	Navigate(ctx context.Context, url string) error

	// WaitFor polls until any selector matches or timeout elapses.
	// A timeout returns an error wrapping ErrNotReady.
	WaitFor(ctx context.Context, selectors []string, timeout time.Duration) error

	// FirstText returns the text of the first element matching selector,
	// or "" when nothing matches.
	FirstText(selector string) (string, error)

	// Texts returns the text of every element matching selector.
	Texts(selector string) ([]string, error)

	// Attrs returns, for each element matching itemSelector, the attribute of
	// its first descendant matching childSelector ("" when missing).
	Attrs(itemSelector, childSelector, attr string) ([]string, error)

	// Click follows the first element matching selector. It reports false
	// when there is nothing to click.
	Click(ctx context.Context, selector string) (bool, error)

	URL() string
}

// Screenshotter is implemented by backends that can capture the current page.
type Screenshotter interface {
	Screenshot(path string) error
}

// Site describes where to search and how to read one job board.
type Site struct {
	Name      string
	SearchURL func(facet models.SearchFacet) string

	ResultItem string
	ResultLink string
	NextPage   string

	ResultsReady SelectorChain
	DetailReady  SelectorChain

	Title       SelectorChain
	Company     SelectorChain
	Location    SelectorChain
	Description SelectorChain
	JobType     SelectorChain

	AttributeSnippet string
	SalaryMarkers    []string
	JobTypeMarkers   []string
}
