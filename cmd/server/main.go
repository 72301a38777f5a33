package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/jklb739/insight-stream/internal/ai"
	"github.com/jklb739/insight-stream/internal/cache"
	"github.com/jklb739/insight-stream/internal/config"
	"github.com/jklb739/insight-stream/internal/httpapi"
	"github.com/jklb739/insight-stream/internal/service"
	"github.com/jklb739/insight-stream/internal/youtube"
	"github.com/jklb739/insight-stream/pkg/log"
)

func main() {
	// .env is optional; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatal("Failed to load configuration: %v", err)
	}
	log.InitLogger(log.ParseLevel(cfg.Server.LogLevel))

	sessionCache := cache.New(cache.WithTTL(cfg.Cache.TTL))

	languages := cfg.Transcript.LanguageCodes()
	fetcherOpts := []youtube.FetcherOption{}
	if cfg.Transcript.ScraperAPIKey != "" {
		log.Info("Proxying transport enabled")
		fetcherOpts = append(fetcherOpts,
			youtube.WithProxy(youtube.NewScrapeProxy(cfg.Transcript.ScraperAPIKey), languages))
	}
	fetcher := youtube.NewFetcher(youtube.NewInnertubeClient(), languages, fetcherOpts...)

	summarizer := service.NewSummarizer(
		*cfg,
		fetcher,
		youtube.NewMetadataClient(),
		sessionCache,
		ai.NewFactory(cfg.AI, cfg.Transcript.Languages[0]),
	)

	cleanup := cron.New()
	if _, err := cleanup.AddFunc(cfg.Cache.CleanupCron, func() {
		if sessionCache.ClearExpired() {
			log.Info("Scheduled cleanup evicted an expired transcript")
		}
	}); err != nil {
		log.Fatal("Invalid CACHE_CLEANUP_CRON: %v", err)
	}
	cleanup.Start()
	defer cleanup.Stop()

	server := httpapi.NewServer(summarizer, httpapi.WithCleanupCron(cfg.Cache.CleanupCron))

	errCh := make(chan error, 1)
	go func() {
		log.Info("Insight Stream API listening on %s", cfg.Server.Addr)
		errCh <- server.ListenAndServe(cfg.Server.Addr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatal("Server error: %v", err)
	case sig := <-stop:
		log.Info("Received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Shutdown error: %v", err)
	}
}
