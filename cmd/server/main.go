package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/classifier"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/config"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/pdf"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/web"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cache classifier.Cache
	if cfg.Classifier.CacheTTL > 0 {
		if cfg.RedisURL != "" {
			rdb, err := classifier.NewRedisClient(ctx, cfg.RedisURL)
			if err != nil {
				log.Printf("⚠️ Redis unavailable, caching in memory: %v", err)
			} else {
				defer rdb.Close()
				cache = classifier.NewRedisCache(rdb, cfg.Classifier.CacheTTL)
				log.Println("🧠 Caching predictions in Redis")
			}
		}
		if cache == nil {
			mem := classifier.NewMemoryCache(cfg.Classifier.CacheTTL)
			go cleanLoop(ctx, mem, cfg.Classifier.CacheTTL)
			cache = mem
		}
	}

	//remote model first, keyword matching when the space is down
	client := classifier.NewServingClient(
		classifier.NewGradioClient(cfg.Classifier.Endpoint, cfg.Classifier.APIName, cfg.Classifier.Timeout),
		cache,
		classifier.NewKeywordClient(nil),
	)

	reports, err := pdf.NewGenerator()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	router, err := web.NewRouter(web.NewHandler(client, reports, cfg.Classifier.Timeout+30*time.Second))
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server listening on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Server shutdown: %v", err)
	}
}

func cleanLoop(ctx context.Context, cache *classifier.MemoryCache, ttl time.Duration) {
	ticker := time.NewTicker(ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := cache.CleanExpired(); n > 0 {
				log.Printf("🧹 Dropped %d expired predictions", n)
			}
		}
	}
}
