package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"yt-summarizer/config"
	"yt-summarizer/handlers"
	"yt-summarizer/logger"
	"yt-summarizer/media"
	"yt-summarizer/openrouter"
	"yt-summarizer/repository/sqlite"
	"yt-summarizer/services/summary"
	"yt-summarizer/services/transcript"
	"yt-summarizer/stt"
	"yt-summarizer/youtube"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	if err := logger.Init(cfg.LogDir, cfg.Debug); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize logger")
	}
	log := logrus.StandardLogger()

	db, err := sqlite.Open(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("Failed to open database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.WithError(err).Error("Failed to close database")
		}
	}()

	repo, err := sqlite.NewRepository(db)
	if err != nil {
		log.WithError(err).Fatal("Failed to create repository")
	}

	ytClient := youtube.NewClient(cfg.Tools)
	audio := media.NewProcessor(cfg.Tools)

	sttClient := &http.Client{Timeout: cfg.Transcript.TranscribeTimeout}
	providers := []stt.Provider{
		stt.NewOpenAIProvider(cfg.Transcript.Primary, sttClient),
		stt.NewOpenAIProvider(cfg.Transcript.Fallback, sttClient),
	}

	transcripts := transcript.NewService(ytClient, audio, providers, cfg.Transcript, cfg.TempDir)
	summarizer := openrouter.NewClient(cfg.Summary)
	summaries := summary.NewService(repo, ytClient, transcripts, summarizer, cfg.Transcript)

	server := handlers.NewServer(cfg,
		handlers.WithService(summaries),
		handlers.WithLogger(log),
	)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("Server shutdown failed")
	}

	log.Info("Server stopped")
}
