// Command ai-trainer pits two difficulty tiers against each other and
// reports wins, draws and an Elo estimate for each tier.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"gomoku/internal/gomoku"
)

func main() {
	closeLog, err := setupLogging(getenv("ARENA_LOG_FILE", ""), getenv("ARENA_LOG_LEVEL", "info"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	cfg, err := loadArenaConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid arena configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Int("games", cfg.Games).
		Int("board_size", cfg.BoardSize).
		Str("tier_a", cfg.TierA.String()).
		Str("tier_b", cfg.TierB.String()).
		Int("workers", cfg.Workers).
		Int64("seed", cfg.Seed).
		Msg("arena starting")

	a := newArena(cfg)
	report, err := run(ctx, a, getenv("ARENA_API_ADDR", ""))
	if err != nil {
		log.Fatal().Err(err).Int("games_played", report.GamesPlayed).Msg("arena stopped")
	}
	for _, c := range report.Standings {
		log.Info().
			Str("id", c.ID).
			Str("level", c.Level).
			Int("wins", c.Wins).
			Float64("elo", c.Elo).
			Msg("standing")
	}
	log.Info().Int("games", report.GamesPlayed).Int("draws", report.Draws).Msg("arena finished")
}

// run plays the arena and, when apiAddr is set, serves its progress until
// the last game ends.
func run(ctx context.Context, a *arena, apiAddr string) (arenaReport, error) {
	if apiAddr == "" {
		return a.Run(ctx)
	}
	server := &http.Server{Addr: apiAddr, Handler: a.routes()}
	g, gctx := errgroup.WithContext(ctx)
	var report arenaReport
	g.Go(func() error {
		var err error
		report, err = a.Run(gctx)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := server.Shutdown(shutdownCtx); err == nil {
			err = shutdownErr
		}
		return err
	})
	g.Go(func() error {
		log.Info().Str("addr", apiAddr).Msg("arena status api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	err := g.Wait()
	return report, err
}

func (a *arena) routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/api/arena/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "running": a.getStatus().Running})
	})
	r.Get("/api/arena/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, a.getStatus())
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func loadArenaConfig() (arenaConfig, error) {
	tierA, err := gomoku.ParseDifficulty(getenv("ARENA_TIER_A", "easy"))
	if err != nil {
		return arenaConfig{}, err
	}
	tierB, err := gomoku.ParseDifficulty(getenv("ARENA_TIER_B", "medium"))
	if err != nil {
		return arenaConfig{}, err
	}
	games := getenvInt("ARENA_GAMES", 20)
	if games%2 != 0 {
		games++
	}
	boardSize := getenvInt("ARENA_BOARD_SIZE", 9)
	if boardSize < 5 || boardSize > 25 {
		return arenaConfig{}, fmt.Errorf("ARENA_BOARD_SIZE %d outside 5..25", boardSize)
	}
	eloK := getenvFloat("ARENA_ELO_K", 20)
	if eloK <= 0 {
		eloK = 20
	}
	seed := time.Now().UnixNano()
	if raw := getenv("ARENA_SEED", ""); raw != "" {
		seed, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return arenaConfig{}, fmt.Errorf("ARENA_SEED: %w", err)
		}
	}
	return arenaConfig{
		Games:        games,
		BoardSize:    boardSize,
		TierA:        tierA,
		TierB:        tierB,
		Workers:      getenvInt("ARENA_WORKERS", 4),
		EloK:         eloK,
		Seed:         seed,
		OpeningPlies: getenvInt("ARENA_OPENING_PLIES", 2),
		Scores:       gomoku.GetConfig().Scores,
	}, nil
}

// setupLogging writes to stderr, and also to path when one is given.
func setupLogging(path, level string) (func(), error) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}
	if path == "" {
		log.Logger = zerolog.New(console).With().Timestamp().Logger()
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	log.Logger = zerolog.New(io.MultiWriter(console, f)).With().Timestamp().Logger()
	return func() { _ = f.Close() }, nil
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

func getenvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var parsed float64
	if _, err := fmt.Sscanf(value, "%f", &parsed); err != nil {
		return fallback
	}
	return parsed
}
