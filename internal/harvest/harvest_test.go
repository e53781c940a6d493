package harvest

import (
	"context"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/models"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/ratelimit"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/scraper"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/scraper/indeed"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/scraper/scrapertest"
)

const testBase = "https://jobs.test"

var (
	texas  = models.SearchFacet{SearchTerm: "cv", LocationName: "Texas", LocationParam: "Texas"}
	remote = models.SearchFacet{SearchTerm: "cv", LocationName: "Remote", LocationParam: "Remote"}
)

type sleepLog struct {
	delays []time.Duration
}

// testPacer never sleeps and records the sampled delays.
func testPacer(sl *sleepLog) *ratelimit.Pacer {
	return ratelimit.NewPacer(ratelimit.NewPolicy(nil, rand.NewSource(1)), 0).
		WithSleeper(func(ctx context.Context, d time.Duration) error {
			sl.delays = append(sl.delays, d)
			return ctx.Err()
		})
}

func testSite() scraper.Site {
	return indeed.NewSite(testBase)
}

// resultsDoc builds a search results page listing hrefs, optionally with a
// next link to nextURL.
func resultsDoc(site scraper.Site, nextURL string, hrefs ...string) *scrapertest.Doc {
	doc := &scrapertest.Doc{
		Texts: map[string][]string{site.ResultItem: make([]string, len(hrefs))},
		Hrefs: map[string][]string{scrapertest.HrefKey(site.ResultItem, site.ResultLink): hrefs},
	}
	for i := range hrefs {
		doc.Texts[site.ResultItem][i] = "result"
	}
	if nextURL != "" {
		doc.Links = map[string]string{site.NextPage: nextURL}
	}
	return doc
}

func linkConfig(dir string, target int, facets ...models.SearchFacet) LinkConfig {
	return LinkConfig{
		Facets:       facets,
		ProgressPath: filepath.Join(dir, "cv_links_progress.csv"),
		FinalPath:    filepath.Join(dir, "cv_global_links.csv"),
		TargetLinks:  target,
		ReadyTimeout: time.Second,
	}
}

func detailDoc(texts map[string][]string) *scrapertest.Doc {
	return &scrapertest.Doc{Texts: texts}
}
