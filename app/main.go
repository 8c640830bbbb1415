package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pressradar/pressradar/app/api"
	"github.com/pressradar/pressradar/app/cfg"
	"github.com/pressradar/pressradar/app/classify"
	"github.com/pressradar/pressradar/app/cluster"
	"github.com/pressradar/pressradar/app/database"
	"github.com/pressradar/pressradar/app/discovery"
	"github.com/pressradar/pressradar/app/sweep"
	"github.com/pressradar/pressradar/app/tasks"
	"github.com/pressradar/pressradar/app/topic"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	if appCfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	slog.Info("Starting PressRadar", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "migration_version", version, "dirty", dirty)

	configCache := topic.NewConfigCache(appCfg.TopicsDir)
	if err := configCache.Run(); err != nil {
		slog.Error("Failed to load topic configurations", "dir", appCfg.TopicsDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Topic configurations loaded", "count", configCache.GetConfigCount())

	topicRepo := database.NewTopicRepository(db)
	mentionRepo := database.NewMentionRepository(db)
	journalistRepo := database.NewJournalistRepository(db)

	// Register topics before the first sweep so sweeps always find their row
	for name, topicConfig := range configCache.GetConfigs() {
		err := topicRepo.UpsertTopic(topicConfig.Name, topicConfig.DisplayName, topicConfig.State,
			topicConfig.Keywords, topicConfig.BillIDs, topicConfig.Settings.Enabled)
		if err != nil {
			slog.Warn("Failed to register topic", "topic", name, "error", err)
		}
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}

	var structured discovery.StructuredSearcher
	structuredClient := discovery.NewStructuredClient(appCfg.ArticleSearchURL, appCfg.ArticleSearchKey, appCfg.UserAgent, httpClient)
	if structuredClient.Configured() {
		structured = structuredClient
	} else {
		slog.Info("Structured article search disabled (ARTICLE_SEARCH_URL not set)")
	}

	var sources []discovery.URLSource
	var scraper discovery.Scraper
	webClient := discovery.NewWebSearchClient(appCfg.WebSearchURL, appCfg.WebSearchKey, appCfg.UserAgent,
		time.Duration(appCfg.ScrapeSpacing)*time.Millisecond, httpClient)
	if webClient.Configured() {
		sources = append(sources, webClient)
		scraper = webClient
		sources = append(sources, discovery.NewRSSNewsClient(appCfg.UserAgent, httpClient))
	} else {
		slog.Info("Web search disabled (WEB_SEARCH_URL not set)")
	}

	classifier := classify.NewClient(appCfg.ClassifierURL, appCfg.ClassifierKey, appCfg.ClassifierModel, httpClient)
	if !classifier.Configured() {
		slog.Info("Classifier not configured, using keyword sentiment fallback")
	}

	orchestrator := sweep.NewOrchestrator(
		topicRepo, mentionRepo, journalistRepo,
		cluster.NewEngine(mentionRepo),
		structured, sources, scraper,
		classifier, classifier,
	)

	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "interval", appCfg.SchedulerInterval)
	scheduler := tasks.NewScheduler(configCache, topicRepo, orchestrator)
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(configCache, topicRepo, mentionRepo, journalistRepo, orchestrator, scheduler)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrChan:
		slog.Error("HTTP server failed", "error", err)
	case sig := <-sigChan:
		slog.Info("Shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown failed", "error", err)
	}

	slog.Info("Shutdown complete")
}
