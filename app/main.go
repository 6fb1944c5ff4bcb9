package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/lysyi3m/impacto-diario/app/api"
	"github.com/lysyi3m/impacto-diario/app/assets"
	"github.com/lysyi3m/impacto-diario/app/banner"
	"github.com/lysyi3m/impacto-diario/app/cfg"
	"github.com/lysyi3m/impacto-diario/app/database"
	"github.com/lysyi3m/impacto-diario/app/importer"
	"github.com/lysyi3m/impacto-diario/app/news"
	"github.com/lysyi3m/impacto-diario/app/settings"
	"github.com/lysyi3m/impacto-diario/app/tasks"
	"github.com/lysyi3m/impacto-diario/app/views"
)

const importTimeout = 30 * time.Second

func main() {
	// A missing .env is fine, the environment may already be set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to read .env file: %v\n", err)
	}

	c, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if c == nil {
		// Help was shown
		return
	}

	setupLogger(c.Debug)

	slog.Info("Starting Impacto Diário server", "version", c.Version)

	if err := run(c); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}

	slog.Info("Impacto Diário server shutdown complete")
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}

func run(c *cfg.Cfg) error {
	if dir := filepath.Dir(c.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := database.NewConnection(c.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	slog.Info("Connected to database", "path", c.DBPath)

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		return err
	}
	slog.Info("Database schema ready", "version", version, "dirty", dirty)

	articleStore := database.NewArticleStore(db)
	bannerStore := database.NewBannerStore(db)
	viewStore := database.NewViewStore(db)

	siteSettings := settings.NewService(settings.NewFileStore(c.SettingsFile))
	if err := siteSettings.Load(); err == nil {
		slog.Info("Site settings loaded", "file", c.SettingsFile)
	}

	resolver := banner.NewResolver(bannerStore)
	tracker := views.NewTracker(viewStore, c.Location())
	renderer := news.NewRenderer(resolver)

	bucket, err := assets.NewLocalBucket(c.UploadsDir, c.UploadsURL)
	if err != nil {
		return err
	}
	uploader := assets.NewUploader(bucket)
	articleImporter := importer.NewImporter(c.UserAgent, importTimeout)

	slog.Info("Starting background scheduler",
		"workers", c.WorkerCount, "banner_refresh", c.BannerRefreshEvery())
	scheduler := tasks.NewScheduler(resolver, c.BannerRefreshEvery(), c.WorkerCount)
	scheduler.Start()
	defer func() {
		scheduler.Stop()
		slog.Info("Background scheduler stopped")
	}()

	handler := api.NewHandler(articleStore, bannerStore, resolver, renderer, tracker,
		siteSettings, uploader, articleImporter, scheduler)
	router := api.NewServer(handler, api.ServerOptions{
		APIAccessKey:   c.APIAccessKey,
		AllowedOrigins: c.AllowedOrigins,
		UploadsDir:     bucket.Root(),
		Version:        c.Version,
	})

	httpServer := &http.Server{
		Addr:         ":" + c.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", c.Port, "public_url", c.PublicURL(),
			"admin_api", c.APIAccessKey != "")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var serveErr error
	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig)
	case serveErr = <-serverErrChan:
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	return serveErr
}
