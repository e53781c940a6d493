package harvest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/checkpoint"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/dedup"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/ratelimit"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/scraper"
	"github.com/Naawshin/Multilabel-Skill-Classifier/utils"

	"github.com/google/uuid"
)

// ErrSessionStart is the only error that aborts a run before any work.
var ErrSessionStart = errors.New("could not start navigation session")

type Stage string

const (
	StageLinks   Stage = "links"
	StageDetails Stage = "details"
	StageAll     Stage = "all"
)

func ParseStage(s string) (Stage, error) {
	switch Stage(strings.ToLower(strings.TrimSpace(s))) {
	case StageLinks:
		return StageLinks, nil
	case StageDetails:
		return StageDetails, nil
	case StageAll, "":
		return StageAll, nil
	}
	return "", fmt.Errorf("unknown stage %q (want links, details or all)", s)
}

func (s Stage) runsLinks() bool   { return s == StageLinks || s == StageAll }
func (s Stage) runsDetails() bool { return s == StageDetails || s == StageAll }

// Session is one navigation session shared by both stages.
type Session interface {
	Page() scraper.Page
	Close() error
}

type SessionFactory func(ctx context.Context) (Session, error)

// Notifier receives the end-of-run summary.
type Notifier interface {
	SendStatus(message string) error
}

type Options struct {
	Site    scraper.Site
	Pacer   *ratelimit.Pacer
	Links   LinkConfig
	Details DetailConfig
	// DetailsInput is read by the details stage alone; the full pipeline
	// feeds it the link stage's final file instead.
	DetailsInput string
	// FacetLogPath enables skipping facets finished by an interrupted run.
	FacetLogPath string
	Screenshots  *utils.ScreenShotDebugger
	Sink         RecordSink
	Notifier     Notifier
}

type RunSummary struct {
	RunID       string         `json:"run_id"`
	Stage       Stage          `json:"stage"`
	StartedAt   time.Time      `json:"started_at"`
	Duration    time.Duration  `json:"duration"`
	Links       *LinkSummary   `json:"links,omitempty"`
	Details     *DetailSummary `json:"details,omitempty"`
	Interrupted bool           `json:"interrupted"`
	Errors      []string       `json:"errors,omitempty"`
}

func (s *RunSummary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Harvest run %s (%s) finished in %s", s.RunID, s.Stage, s.Duration.Round(time.Second))
	if s.Interrupted {
		b.WriteString(" [interrupted]")
	}
	if l := s.Links; l != nil {
		fmt.Fprintf(&b, "\nLinks: %d total (+%d new), facets %d/%d done, %d failed, %d skipped",
			l.TotalLinks, l.NewLinks, l.Completed, l.Facets, l.Failed, l.Skipped)
		if l.TargetReached {
			b.WriteString(", target reached")
		}
	}
	if d := s.Details; d != nil {
		fmt.Fprintf(&b, "\nDetails: %d successful, %d failed, %d skipped, %d total",
			d.Successful, d.Failed, d.Skipped, d.Total)
	}
	for _, e := range s.Errors {
		fmt.Fprintf(&b, "\nError: %s", e)
	}
	return b.String()
}

// Orchestrator runs the harvest stages over a single navigation session.
type Orchestrator struct {
	open SessionFactory
	opts Options
}

func NewOrchestrator(open SessionFactory, opts Options) *Orchestrator {
	return &Orchestrator{open: open, opts: opts}
}

// Run executes stage. The session is opened once and closed exactly once.
// Only a failure to open the session is returned as an error; everything
// else is logged and recorded in the summary.
func (o *Orchestrator) Run(ctx context.Context, stage Stage) (*RunSummary, error) {
	summary := &RunSummary{
		RunID:     uuid.NewString(),
		Stage:     stage,
		StartedAt: time.Now(),
	}
	log.Printf("🚀 Starting harvest run %s (stage: %s)", summary.RunID, stage)

	sess, err := o.open(ctx)
	if err != nil {
		return summary, fmt.Errorf("%w: %v", ErrSessionStart, err)
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			if err := sess.Close(); err != nil {
				log.Printf("⚠️ Failed to close session: %v", err)
				return
			}
			log.Println("🧹 Navigation session closed")
		})
	}
	defer release()

	page := sess.Page()

	if stage.runsLinks() {
		links := dedup.NewLinkSet()
		for _, path := range []string{o.opts.Links.ProgressPath, o.opts.Links.FinalPath} {
			rows, err := checkpoint.LoadRows(path)
			if err != nil {
				log.Printf("⚠️ Could not fully read %s: %v", path, err)
			}
			if len(rows) > 0 {
				links.LoadRows(rows)
			}
		}

		h := NewLinkHarvester(page, o.opts.Site, o.opts.Pacer, o.opts.Links).
			WithScreenshots(o.opts.Screenshots)
		if o.opts.FacetLogPath != "" {
			h.WithFacetLog(checkpoint.OpenFacetLog(o.opts.FacetLogPath))
		}

		ls, err := h.Run(ctx, links)
		summary.Links = &ls
		o.record(ctx, summary, "links", err)
	}

	if stage.runsDetails() && !summary.Interrupted {
		input := o.opts.DetailsInput
		if stage == StageAll {
			input = o.opts.Links.FinalPath
		}

		urls, err := checkpoint.LoadURLs(input)
		if err != nil {
			o.record(ctx, summary, "details", err)
		} else {
			log.Printf("📥 Loaded %d URLs from %s", len(urls), input)
			h := NewDetailHarvester(page, o.opts.Site, o.opts.Pacer, o.opts.Details)
			if o.opts.Sink != nil {
				h.WithSink(o.opts.Sink, summary.RunID)
			}
			ds, err := h.Run(ctx, urls)
			summary.Details = &ds
			o.record(ctx, summary, "details", err)
		}
	}

	release()
	summary.Duration = time.Since(summary.StartedAt)
	log.Printf("🏁 %s", summary)

	if o.opts.Notifier != nil {
		if err := o.opts.Notifier.SendStatus(summary.String()); err != nil {
			log.Printf("⚠️ Failed to send run summary: %v", err)
		}
	}
	return summary, nil
}

func (o *Orchestrator) record(ctx context.Context, summary *RunSummary, stage string, err error) {
	if err == nil {
		return
	}
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		summary.Interrupted = true
		log.Printf("🛑 %s stage interrupted: %v", stage, err)
		return
	}
	summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", stage, err))
	log.Printf("❌ %s stage failed: %v", stage, err)
}
