package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/nijaru/yt-summary/config"
	"github.com/nijaru/yt-summary/handlers/api"
	"github.com/nijaru/yt-summary/inference"
	"github.com/nijaru/yt-summary/logger"
	"github.com/nijaru/yt-summary/repository/sqlite"
	"github.com/nijaru/yt-summary/services/subtitles"
	"github.com/nijaru/yt-summary/services/summary"
	"github.com/nijaru/yt-summary/services/video"
	"github.com/nijaru/yt-summary/storage"
	"github.com/nijaru/yt-summary/youtube"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logrus.SetLevel(appLogger.GetLevel())
	logrus.SetFormatter(appLogger.Formatter)
	logrus.SetOutput(appLogger.Out)

	ctx := context.Background()

	// Model is loaded once; a failure leaves the service up with model_loaded=false
	model, err := inference.New(cfg.Model)
	if err != nil {
		appLogger.WithError(err).Error("Failed to create summarization backend")
	}
	engine := summary.NewEngine(model, summary.ConfigFrom(cfg.Model), appLogger)

	loadCtx, cancel := context.WithTimeout(ctx, cfg.Model.LoadTimeout)
	engine.Load(loadCtx)
	cancel()

	// Transcript fetcher
	captions := youtube.NewClient(
		youtube.WithBaseURL(cfg.Transcript.BaseURL),
		youtube.WithUserAgent(cfg.Transcript.UserAgent),
		youtube.WithLanguages(cfg.Transcript.Languages),
	)
	transcripts := subtitles.NewService(captions)

	// Optional outcome sinks
	var recorders []video.Recorder
	var history *sqlite.Repository

	if cfg.History.Enabled {
		history, err = sqlite.Open(ctx, cfg.History.DBPath)
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to initialize history database")
		}
		defer history.Close()
		recorders = append(recorders, history)
	}

	if cfg.Archive.Enabled {
		archive, err := storage.NewSpacesClient(ctx, cfg.Archive)
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to initialize archive storage")
		}
		recorders = append(recorders, archive)
	}

	videoService := video.NewService(transcripts, engine, video.Config{
		FetchTimeout:     cfg.Transcript.FetchTimeout,
		InferenceTimeout: cfg.Model.InferenceTimeout,
	}, video.WithRecorders(recorders...))

	opts := []api.ServerOption{
		api.WithLogger(appLogger),
		api.WithServices(videoService, engine),
	}
	if history != nil {
		opts = append(opts, api.WithHistory(history))
	}
	server := api.NewServer(cfg, opts...)

	// Graceful shutdown setup
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-shutdownChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			appLogger.WithError(err).Error("Server shutdown error")
		}
	}()

	if err := server.Start(); err != nil && err != http.ErrServerClosed {
		appLogger.WithError(err).Fatal("Server error")
	}

	<-done
}
