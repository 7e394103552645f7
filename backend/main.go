package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"gomoku/internal/gomoku"
)

type backendConfig struct {
	Addr         string
	LogLevel     string
	TickInterval time.Duration
	ConfigPath   string
}

func loadBackendConfig() backendConfig {
	return backendConfig{
		Addr:         getenv("GOMOKU_ADDR", ":8080"),
		LogLevel:     getenv("GOMOKU_LOG_LEVEL", "info"),
		TickInterval: time.Duration(getenvInt("GOMOKU_TICK_MS", 50)) * time.Millisecond,
		ConfigPath:   getenv("GOMOKU_CONFIG", ""),
	}
}

func main() {
	cfg := loadBackendConfig()
	setupLogging(cfg.LogLevel)

	if cfg.ConfigPath != "" {
		if err := loadEngineConfig(cfg.ConfigPath); err != nil {
			log.Fatal().Err(err).Str("path", cfg.ConfigPath).Msg("load engine config")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("backend stopped")
	}
	log.Info().Msg("backend stopped")
}

// run serves the API, the websocket hub and the AI tick loop until ctx is
// cancelled or one of them fails.
func run(ctx context.Context, cfg backendConfig) error {
	controller := gomoku.NewGameController(gomoku.GameSettingsFromConfig(gomoku.GetConfig()))
	hub := NewHub()
	api := newAPI(controller, hub)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return hub.Run(gctx)
	})
	g.Go(func() error {
		api.tickLoop(gctx, cfg.TickInterval)
		return nil
	})
	g.Go(func() error {
		log.Info().Str("addr", cfg.Addr).Msg("backend listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("graceful shutdown failed")
			return server.Close()
		}
		return nil
	})
	return g.Wait()
}

func setupLogging(level string) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

func loadEngineConfig(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	config := gomoku.DefaultConfig()
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return gomoku.UpdateConfig(config)
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var parsed int
	if _, err := fmt.Sscanf(value, "%d", &parsed); err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
