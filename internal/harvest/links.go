package harvest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/checkpoint"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/dedup"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/models"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/ratelimit"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/scraper"
	"github.com/Naawshin/Multilabel-Skill-Classifier/utils"
)

type LinkConfig struct {
	Facets       []models.SearchFacet
	ProgressPath string
	FinalPath    string
	TargetLinks  int
	// MaxPagesPerFacet caps pagination; 0 means follow "next" until it disappears.
	MaxPagesPerFacet int
	ReadyTimeout     time.Duration
}

type LinkSummary struct {
	Facets        int  `json:"facets"`
	Completed     int  `json:"completed"`
	Failed        int  `json:"failed"`
	Skipped       int  `json:"skipped"`
	NewLinks      int  `json:"new_links"`
	TotalLinks    int  `json:"total_links"`
	TargetReached bool `json:"target_reached"`
}

// LinkHarvester walks search result pages facet by facet and collects
// posting URLs into a shared LinkSet.
type LinkHarvester struct {
	page     scraper.Page
	site     scraper.Site
	pacer    *ratelimit.Pacer
	cfg      LinkConfig
	facetLog *checkpoint.FacetLog
	shots    *utils.ScreenShotDebugger
}

func NewLinkHarvester(page scraper.Page, site scraper.Site, pacer *ratelimit.Pacer, cfg LinkConfig) *LinkHarvester {
	return &LinkHarvester{
		page:  page,
		site:  site,
		pacer: pacer,
		cfg:   cfg,
	}
}

// WithFacetLog makes the harvester skip facets recorded in l and record the
// ones it finishes.
func (h *LinkHarvester) WithFacetLog(l *checkpoint.FacetLog) *LinkHarvester {
	h.facetLog = l
	return h
}

func (h *LinkHarvester) WithScreenshots(s *utils.ScreenShotDebugger) *LinkHarvester {
	h.shots = s
	return h
}

// Run harvests every facet until the set holds TargetLinks URLs. The final
// links file is written on every exit path. A cancelled ctx stops the run
// and is returned as the error; facet failures are not.
func (h *LinkHarvester) Run(ctx context.Context, links *dedup.LinkSet) (summary LinkSummary, err error) {
	summary.Facets = len(h.cfg.Facets)
	startLen := links.Len()

	defer func() {
		summary.TotalLinks = links.Len()
		summary.NewLinks = summary.TotalLinks - startLen
		if werr := checkpoint.WriteSnapshot(h.cfg.FinalPath, models.LinkHeader, links.Rows()); werr != nil {
			log.Printf("❌ Failed to write final links file: %v", werr)
		} else {
			log.Printf("📁 Saved %d links to %s", summary.TotalLinks, h.cfg.FinalPath)
		}
	}()

	log.Printf("🔍 Harvesting '%s' links across %d facets (target %d, starting with %d)",
		h.searchTerm(), len(h.cfg.Facets), h.cfg.TargetLinks, startLen)

	if h.targetReached(links) {
		log.Printf("🎯 Already holding %d links. Nothing to harvest.", links.Len())
		summary.TargetReached = true
		h.resetFacetLog()
		return summary, nil
	}

	attempted := false
	for i, facet := range h.cfg.Facets {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if h.facetLog != nil && h.facetLog.Done(facet.Key()) {
			log.Printf("⏭️ [%d/%d] %s already harvested. Skipping.", i+1, len(h.cfg.Facets), facet.LocationName)
			summary.Skipped++
			continue
		}

		if attempted {
			if err := h.pacer.Wait(ctx, ratelimit.InterLocation); err != nil {
				return summary, err
			}
		}
		attempted = true

		log.Printf("\n▶️ [%d/%d] %s in %s", i+1, len(h.cfg.Facets), facet.SearchTerm, facet.LocationName)
		added, ferr := h.harvestFacet(ctx, facet, links)
		if ferr != nil {
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}
			summary.Failed++
			log.Printf("❌ Facet %s failed after %d new links: %v", facet.LocationName, added, ferr)
			if h.shots != nil {
				h.shots.CaptureAndLog(h.page, "facet-"+facet.LocationName, "Facet failed: "+facet.LocationName)
			}
		} else {
			summary.Completed++
			log.Printf("✅ Completed %s (+%d). Total links: %d", facet.LocationName, added, links.Len())
			if h.facetLog != nil {
				if err := h.facetLog.Mark(facet.Key()); err != nil {
					log.Printf("⚠️ Failed to record completed facet: %v", err)
				}
			}
		}

		if err := checkpoint.WriteSnapshot(h.cfg.ProgressPath, models.LinkHeader, links.Rows()); err != nil {
			log.Printf("⚠️ Failed to save progress: %v", err)
		} else {
			log.Printf("💾 Progress saved: %s", h.cfg.ProgressPath)
		}

		if h.targetReached(links) {
			log.Printf("🎯 Reached target of %d links!", h.cfg.TargetLinks)
			summary.TargetReached = true
			break
		}
	}

	h.resetFacetLog()
	return summary, nil
}

// harvestFacet paginates one facet and returns how many URLs were new.
func (h *LinkHarvester) harvestFacet(ctx context.Context, facet models.SearchFacet, links *dedup.LinkSet) (int, error) {
	searchURL := h.site.SearchURL(facet)
	if err := h.pacer.BeforeNavigate(ctx); err != nil {
		return 0, err
	}
	if err := h.page.Navigate(ctx, searchURL); err != nil {
		return 0, err
	}

	added := 0
	for pageNum := 1; ; pageNum++ {
		if err := h.page.WaitFor(ctx, h.site.ResultsReady, h.cfg.ReadyTimeout); err != nil {
			return added, fmt.Errorf("page %d: %w", pageNum, err)
		}

		hrefs, err := h.page.Attrs(h.site.ResultItem, h.site.ResultLink, "href")
		if err != nil {
			return added, fmt.Errorf("page %d: read result links: %w", pageNum, err)
		}

		onPage := 0
		for _, href := range hrefs {
			jobURL := resolveURL(h.page.URL(), href)
			if jobURL == "" {
				continue
			}
			if links.Add(models.JobLink{URL: jobURL, SearchTerm: facet.SearchTerm, Location: facet.LocationName}) {
				onPage++
			}
		}
		added += onPage
		log.Printf("   📄 Page %d: %d results, %d new. Total links: %d", pageNum, len(hrefs), onPage, links.Len())

		if h.cfg.MaxPagesPerFacet > 0 && pageNum >= h.cfg.MaxPagesPerFacet {
			log.Printf("   Page limit %d reached for %s", h.cfg.MaxPagesPerFacet, facet.LocationName)
			return added, nil
		}

		if err := h.pacer.BeforeNavigate(ctx); err != nil {
			return added, err
		}
		clicked, err := h.page.Click(ctx, h.site.NextPage)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return added, err
			}
			// a broken next button ends pagination, not the facet
			log.Printf("   ⚠️ Next page failed on page %d: %v", pageNum, err)
			return added, nil
		}
		if !clicked {
			log.Printf("   No more pages for %s", facet.LocationName)
			return added, nil
		}
		if err := h.pacer.Wait(ctx, ratelimit.InterPage); err != nil {
			return added, err
		}
	}
}

func (h *LinkHarvester) targetReached(links *dedup.LinkSet) bool {
	return h.cfg.TargetLinks > 0 && links.Len() >= h.cfg.TargetLinks
}

func (h *LinkHarvester) resetFacetLog() {
	if h.facetLog == nil {
		return
	}
	if err := h.facetLog.Reset(); err != nil {
		log.Printf("⚠️ Failed to clear facet log: %v", err)
	}
}

func (h *LinkHarvester) searchTerm() string {
	if len(h.cfg.Facets) == 0 {
		return ""
	}
	return h.cfg.Facets[0].SearchTerm
}

func resolveURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		return ref.String()
	}
	b, err := url.Parse(base)
	if err != nil || !b.IsAbs() {
		return ""
	}
	return b.ResolveReference(ref).String()
}
