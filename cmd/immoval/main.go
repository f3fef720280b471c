package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"immoval/internal/cfg"
	"immoval/internal/metrics"
	"immoval/internal/ml"
	"immoval/internal/server"
	"immoval/internal/storage"
)

func main() {
	// A .env file is optional; real environment variables win.
	_ = godotenv.Load()

	c, err := cfg.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	setLogLevel(c.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	var store *storage.Store
	if c.DataPath != "" {
		store, err = storage.New(c.DataPath)
		if err != nil {
			log.Warn().Err(err).Msg("version registry unavailable, continuing without it")
			store = nil
		} else {
			defer store.Close()
		}
	}

	// The model must be fully materialized and resolved before any request is
	// served; everything after this point only reads it.
	var recorder ml.ArtifactRecorder
	if store != nil {
		recorder = store
	}
	loader := ml.NewLoader(c.HTTPTimeout, recorder, m)
	model, err := loader.Ensure(ctx, c.ModelURL, c.ModelPath)
	if err != nil {
		log.Fatal().Err(err).Msg("model load failed")
	}

	var modelCreated time.Time
	if info, err := os.Stat(c.ModelPath); err == nil {
		modelCreated = info.ModTime()
	}
	predictor := ml.NewWithMetrics(model, m, modelCreated)

	srv := server.New(predictor, c.ListenPort, c.HTTPTimeout)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server failed")
			stop()
		}
	}()

	log.Info().Int("port", c.ListenPort).Str("model", c.ModelPath).Msg("immoval ready")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}

func setLogLevel(level string) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}
