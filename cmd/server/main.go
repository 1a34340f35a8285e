package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/robfig/cron/v3"

	"github.com/amatsuka/notion-blog/pkg/notionblog"
	"github.com/amatsuka/notion-blog/pkg/notionblog/cache"
	"github.com/amatsuka/notion-blog/pkg/notionblog/config"
	"github.com/amatsuka/notion-blog/pkg/notionblog/notion"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	client := notion.NewClient(cfg.NotionToken)
	source := notionblog.NewNotionSource(client, cfg.PostsDatabaseID, cfg.FriendsDatabaseID,
		notionblog.WithSourceLogger(logger))

	derivedOpts := []notionblog.DerivedOption{notionblog.WithDerivedLogger(logger)}
	if cfg.CachePath != "" {
		store, err := cache.Open(cfg.CachePath)
		if err != nil {
			log.Fatalf("Failed to open derived cache: %v", err)
		}
		defer store.Close()
		derivedOpts = append(derivedOpts, notionblog.WithStore(store))
	}

	idx := notionblog.NewSlugIndex(logger)

	svc, err := notionblog.New(
		notionblog.WithSource(source),
		notionblog.WithSiteInfo(notionblog.SiteInfo{
			Title:       cfg.Site.Title,
			Description: cfg.Site.Description,
			BaseURL:     cfg.Site.BaseURL,
			Image:       cfg.Site.Image,
			Keywords:    cfg.Site.Keywords,
			Author:      cfg.Site.Author,
		}),
		notionblog.WithSlugIndex(idx),
		notionblog.WithDerivedCache(notionblog.NewDerivedCache(source, derivedOpts...)),
		notionblog.WithLogger(logger),
	)
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}

	// Rebuilds the index and prewarms derived values so preview requests
	// hit the caches.
	refresh := func(ctx context.Context) {
		if err := svc.BuildSlugIndex(ctx); err != nil {
			logger.Warn("slug index rebuild failed", "error", err)
			return
		}
		for _, id := range idx.IDs() {
			if _, err := svc.ReadingTime(ctx, id, true); err != nil {
				logger.Warn("derived cache prewarm failed", "id", id, "error", err)
				return
			}
			if _, err := svc.TableOfContents(ctx, id, true); err != nil {
				logger.Warn("derived cache prewarm failed", "id", id, "error", err)
				return
			}
		}
		logger.Info("content caches refreshed", "posts", idx.Len())
	}

	// First build is best-effort; the refresh job retries.
	startup, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	refresh(startup)
	cancelStartup()

	// Periodic rebuild keeps the preview close to the workspace.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.RefreshSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		refresh(ctx)
	}); err != nil {
		log.Fatalf("Invalid refresh schedule %q: %v", cfg.RefreshSchedule, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	handler := NewContentHandler(svc, logger)
	r.Mount("/api", handler.Routes())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: r,
	}

	go func() {
		log.Printf("Preview server starting on port %s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
