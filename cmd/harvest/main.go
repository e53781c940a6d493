package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/browser"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/checkpoint"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/config"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/database"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/harvest"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/models"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/ratelimit"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/reporter"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/scheduler"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/scraper/indeed"
	"github.com/Naawshin/Multilabel-Skill-Classifier/utils"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config")
	mode := flag.String("mode", "all", "stage to run: links, details or all")
	fresh := flag.Bool("fresh", false, "forget which facets an interrupted run already finished")
	syncDB := flag.Bool("sync-db", false, "copy the details CSV into Postgres and exit")
	flag.Parse()

	//load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Invalid config: %v", err)
	}
	stage, err := harvest.ParseStage(*mode)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	log.Printf("🔧 Config loaded. Search term: %q, navigator: %s", cfg.SearchTerm, cfg.Navigator)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//optional postgres mirror
	var repo *database.Repository
	if cfg.DatabaseURL != "" {
		repo, err = database.ConnectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("❌ Failed to connect to database: %v", err)
		}
		defer repo.Close()
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatalf("❌ %v", err)
		}
		log.Println("🗄️ Postgres mirror enabled")
	}

	if *syncDB {
		if repo == nil {
			log.Fatal("❌ -sync-db needs DATABASE_URL")
		}
		if err := syncRecords(ctx, repo, cfg.DetailsOutputPath(cfg.DetailsInputPath())); err != nil {
			log.Fatalf("❌ Sync failed: %v", err)
		}
		return
	}

	if *fresh {
		if err := checkpoint.OpenFacetLog(cfg.FacetLogPath()).Reset(); err != nil {
			log.Printf("⚠️ Could not reset facet log: %v", err)
		}
	}

	rep := reporter.Multi{reporter.LogReporter{}}
	if cfg.TelegramToken != "" {
		bot, err := reporter.NewTelegramReporter(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("⚠️ Telegram disabled: %v", err)
		} else {
			log.Println("🤖 Telegram Bot initialized.")
			rep = append(rep, bot)
		}
	}

	opts := harvest.Options{
		Site:  indeed.NewSite(cfg.BaseURL),
		Pacer: ratelimit.NewPacer(ratelimit.NewPolicy(cfg.DelayRanges(), nil), cfg.MinNavigationInterval),
		Links: harvest.LinkConfig{
			Facets:           cfg.Facets(),
			ProgressPath:     cfg.ProgressPath(),
			FinalPath:        cfg.LinksPath(),
			TargetLinks:      cfg.TargetLinks,
			MaxPagesPerFacet: cfg.MaxPagesPerFacet,
			ReadyTimeout:     cfg.ReadyTimeout,
		},
		Details: harvest.DetailConfig{
			OutputPath:   cfg.DetailsOutputPath(cfg.DetailsInputPath()),
			ReadyTimeout: cfg.ReadyTimeout,
		},
		DetailsInput: cfg.DetailsInputPath(),
		FacetLogPath: cfg.FacetLogPath(),
		Notifier:     rep,
	}
	if cfg.ScreenshotsDir != "" {
		opts.Screenshots = utils.NewScreenShotDebugger(cfg.ScreenshotsDir)
	}
	if repo != nil {
		opts.Sink = repo
	}
	if stage == harvest.StageAll {
		opts.Details.OutputPath = cfg.DetailsOutputPath(cfg.LinksPath())
	}

	orch := harvest.NewOrchestrator(sessionFactory(cfg), opts)
	runOnce := func(ctx context.Context) {
		if _, err := orch.Run(ctx, stage); err != nil {
			log.Printf("❌ Harvest run failed: %v", err)
			if rerr := rep.SendError(err); rerr != nil {
				log.Printf("⚠️ Failed to report error: %v", rerr)
			}
		}
	}

	if cfg.Schedule == "" {
		runOnce(ctx)
		log.Println("🏁 Execution finished.")
		return
	}

	s := scheduler.New(ctx, cfg.Schedule, runOnce)
	if err := s.Start(); err != nil {
		log.Fatalf("❌ Invalid schedule %q: %v", cfg.Schedule, err)
	}
	<-ctx.Done()
	log.Println("🛑 Shutting down, waiting for the current run to stop...")
	s.Stop()
}

func sessionFactory(cfg *config.Config) harvest.SessionFactory {
	if cfg.Navigator == config.NavigatorHTTP {
		return func(ctx context.Context) (harvest.Session, error) {
			client := &http.Client{Timeout: cfg.ReadyTimeout + 15*time.Second}
			return browser.NewStaticSession(browser.NewStaticPage(client, cfg.UserAgent)), nil
		}
	}
	return func(ctx context.Context) (harvest.Session, error) {
		sess, err := browser.OpenPlaywrightSession(ctx, browser.Options{
			Headless:  cfg.Headless,
			UserAgent: cfg.UserAgent,
		}, cfg.CookiesPath)
		if err != nil {
			return nil, err
		}
		return sess, nil
	}
}

// syncRecords backfills Postgres from a details CSV written by earlier runs.
func syncRecords(ctx context.Context, repo *database.Repository, path string) error {
	rows, err := checkpoint.LoadRows(path)
	if err != nil && len(rows) == 0 {
		return err
	}
	if err != nil {
		log.Printf("⚠️ Partial read of %s: %v", path, err)
	}

	recs := make([]models.JobRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := models.ParseJobRecord(row)
		if err != nil {
			log.Printf("⚠️ Skipping row %d: %v", i+2, err)
			continue
		}
		recs = append(recs, rec)
	}
	if len(recs) == 0 {
		return errors.New("no records found in " + filepath.Base(path))
	}

	inserted, err := repo.SaveJobRecords(ctx, "", recs)
	if err != nil {
		return err
	}
	total, err := repo.CountJobRecords(ctx)
	if err != nil {
		return err
	}
	log.Printf("💾 Synced %s: %d new, %d read, %d rows in job_records", path, inserted, len(recs), total)
	return nil
}
