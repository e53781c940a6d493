package harvest

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/checkpoint"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/models"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/ratelimit"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/scraper"
)

// RecordSink mirrors persisted records somewhere besides the CSV checkpoint.
type RecordSink interface {
	SaveJobRecord(ctx context.Context, runID string, rec models.JobRecord) error
}

type DetailConfig struct {
	OutputPath   string
	ReadyTimeout time.Duration
}

type DetailSummary struct {
	Total      int `json:"total"`
	Skipped    int `json:"skipped"`
	Attempted  int `json:"attempted"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// DetailHarvester visits posting URLs and appends one JobRecord per
// successful visit to the output CSV.
type DetailHarvester struct {
	page  scraper.Page
	site  scraper.Site
	pacer *ratelimit.Pacer
	cfg   DetailConfig
	sink  RecordSink
	runID string
	now   func() time.Time
}

func NewDetailHarvester(page scraper.Page, site scraper.Site, pacer *ratelimit.Pacer, cfg DetailConfig) *DetailHarvester {
	return &DetailHarvester{
		page:  page,
		site:  site,
		pacer: pacer,
		cfg:   cfg,
		now:   time.Now,
	}
}

func (h *DetailHarvester) WithSink(sink RecordSink, runID string) *DetailHarvester {
	h.sink = sink
	h.runID = runID
	return h
}

// Run scrapes every URL not already present in the output file. It only
// returns an error when the output cannot be opened or ctx is cancelled.
func (h *DetailHarvester) Run(ctx context.Context, urls []string) (DetailSummary, error) {
	var summary DetailSummary

	known := checkpoint.LoadKnownKeys(h.cfg.OutputPath)
	if len(known) > 0 {
		log.Printf("📋 Found %d already scraped URLs. Resuming...", len(known))
	} else {
		log.Println("📋 Starting fresh scrape...")
	}

	seen := make(map[string]struct{}, len(urls))
	var pending []string
	for _, u := range urls {
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		summary.Total++
		if _, done := known[u]; done {
			summary.Skipped++
			continue
		}
		pending = append(pending, u)
	}
	log.Printf("🔍 %d URLs: %d already scraped, %d to visit", summary.Total, summary.Skipped, len(pending))

	out, err := checkpoint.OpenAppender(h.cfg.OutputPath, models.RecordHeader)
	if err != nil {
		return summary, fmt.Errorf("open detail output: %w", err)
	}
	defer out.Close()

	for i, u := range pending {
		if i > 0 {
			if err := h.pacer.Wait(ctx, ratelimit.InterDetailPage); err != nil {
				return summary, err
			}
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		summary.Attempted++
		log.Printf("[%d/%d] Scraping: %s", i+1, len(pending), truncate(u, 80))

		rec, err := h.scrape(ctx, u)
		if err != nil {
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}
			summary.Failed++
			log.Printf("   ❌ Failed: %v", err)
			continue
		}

		if err := out.Append(rec.CSVRow()); err != nil {
			summary.Failed++
			log.Printf("   ❌ Could not persist record: %v", err)
			continue
		}
		summary.Successful++
		log.Printf("   ✅ %s @ %s (description: %d chars)", orNA(rec.Title), orNA(rec.Company), len(rec.JobDescription))

		if h.sink != nil {
			if err := h.sink.SaveJobRecord(ctx, h.runID, rec); err != nil {
				log.Printf("   ⚠️ Failed to mirror record to database: %v", err)
			}
		}
	}

	return summary, nil
}

func (h *DetailHarvester) scrape(ctx context.Context, jobURL string) (models.JobRecord, error) {
	rec := models.JobRecord{JobURL: jobURL}

	if err := h.pacer.BeforeNavigate(ctx); err != nil {
		return rec, err
	}
	if err := h.page.Navigate(ctx, jobURL); err != nil {
		return rec, err
	}
	if err := h.page.WaitFor(ctx, h.site.DetailReady, h.cfg.ReadyTimeout); err != nil {
		return rec, err
	}

	rec.Title, _ = scraper.FindFirst(h.page, h.site.Title)
	rec.Company, _ = scraper.FindFirst(h.page, h.site.Company)
	rec.Location, _ = scraper.FindFirst(h.page, h.site.Location)
	rec.Salary, _ = scraper.FindContaining(h.page, h.site.AttributeSnippet, h.site.SalaryMarkers)

	jobType, ok := scraper.FindContaining(h.page, h.site.AttributeSnippet, h.site.JobTypeMarkers)
	if !ok {
		jobType, _ = scraper.FindFirst(h.page, h.site.JobType)
	}
	rec.JobType = jobType

	rec.JobDescription, _ = scraper.FindFirst(h.page, h.site.Description)
	rec.ScrapedAt = h.now()
	return rec, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
