package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"gomoku/internal/gomoku"
)

type api struct {
	controller *gomoku.GameController
	hub        *Hub
}

func newAPI(controller *gomoku.GameController, hub *Hub) *api {
	return &api{controller: controller, hub: hub}
}

func (a *api) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, controllerStatus(a.controller))
	})
	r.Post("/api/start", a.handleStart)
	r.Post("/api/move", a.handleMove)
	r.Post("/api/undo", a.handleUndo)
	r.Post("/api/surrender", a.handleSurrender)
	r.Post("/api/hint", a.handleHint)
	r.Post("/api/difficulty", a.handleDifficulty)
	r.Post("/api/config", a.handleConfig)
	r.Get("/api/save", a.handleSave)
	r.Post("/api/load", a.handleLoad)

	r.Get("/ws/", func(w http.ResponseWriter, r *http.Request) {
		serveWS(a.hub, a.controller, w, r)
	})
	return r
}

func (a *api) handleStart(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Settings GameSettingsDTO `json:"settings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	base := gomoku.GameSettingsFromConfig(gomoku.GetConfig())
	settings := settingsFromDTO(payload.Settings, base)
	if !settings.Difficulty.Valid() {
		writeError(w, gomoku.ErrInvalidDifficulty)
		return
	}
	if settings.BoardSize < 5 || settings.BoardSize > 25 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "board_size must be between 5 and 25"})
		return
	}
	a.controller.Reset(settings)
	a.publishReset()
	writeJSON(w, http.StatusOK, controllerStatus(a.controller))
}

func (a *api) handleMove(w http.ResponseWriter, r *http.Request) {
	var payload apiMove
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if err := a.controller.PlaceStone(payload.X, payload.Y); err != nil {
		writeError(w, err)
		return
	}
	a.publishMove()
	writeJSON(w, http.StatusOK, controllerStatus(a.controller))
}

func (a *api) handleUndo(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Steps int `json:"steps"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
	}
	var err error
	if payload.Steps > 0 {
		_, err = a.controller.Undo(payload.Steps)
	} else {
		_, err = a.controller.UndoTurn()
	}
	if err != nil {
		writeError(w, err)
		return
	}
	a.publishReset()
	writeJSON(w, http.StatusOK, controllerStatus(a.controller))
}

func (a *api) handleSurrender(w http.ResponseWriter, r *http.Request) {
	if err := a.controller.Surrender(); err != nil {
		writeError(w, err)
		return
	}
	status := controllerStatus(a.controller)
	a.hub.Publish("status", status)
	writeJSON(w, http.StatusOK, status)
}

func (a *api) handleHint(w http.ResponseWriter, r *http.Request) {
	move, err := a.controller.Hint()
	if err != nil {
		writeError(w, err)
		return
	}
	a.hub.Publish("status", controllerStatus(a.controller))
	writeJSON(w, http.StatusOK, moveToDTO(move))
}

func (a *api) handleDifficulty(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Difficulty int `json:"difficulty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if err := a.controller.SetDifficulty(gomoku.Difficulty(payload.Difficulty)); err != nil {
		writeError(w, err)
		return
	}
	a.publishSettings()
	writeJSON(w, http.StatusOK, controllerStatus(a.controller))
}

func (a *api) handleConfig(w http.ResponseWriter, r *http.Request) {
	config := gomoku.GetConfig()
	if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if err := gomoku.UpdateConfig(config); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	a.publishSettings()
	writeJSON(w, http.StatusOK, gomoku.GetConfig())
}

func (a *api) handleSave(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="gomoku-save.json"`)
	if err := gomoku.WriteSnapshot(w, a.controller.Snapshot()); err != nil {
		log.Error().Err(err).Msg("save failed")
	}
}

func (a *api) handleLoad(w http.ResponseWriter, r *http.Request) {
	snap, err := gomoku.ReadSnapshot(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := a.controller.Restore(snap); err != nil {
		writeError(w, err)
		return
	}
	a.publishReset()
	writeJSON(w, http.StatusOK, controllerStatus(a.controller))
}

// tickLoop drives AI turns until ctx is cancelled.
func (a *api) tickLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if a.controller.Tick() {
				a.publishMove()
			}
		}
	}
}

func (a *api) publishMove() {
	if entry, ok := a.controller.LatestHistoryEntry(); ok {
		a.hub.Publish("history", historyPayload{History: []historyEntryDTO{historyEntryToDTO(entry)}})
	}
	a.hub.Publish("status", controllerStatus(a.controller))
}

func (a *api) publishReset() {
	a.hub.Publish("reset", controllerStatus(a.controller))
}

func (a *api) publishSettings() {
	a.hub.Publish("settings", settingsPayload{
		Settings: controllerSettingsDTO(a.controller.Settings()),
		Config:   gomoku.GetConfig(),
	})
}

func serveWS(hub *Hub, controller *gomoku.GameController, w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	client := &Client{hub: hub, send: make(chan []byte, 16)}
	hub.Register(client)

	hub.SendTo(client, wsMessage{Type: "status", Payload: mustMarshal(controllerStatus(controller))})

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, client.send); err != nil {
			log.Debug().Err(err).Msg("websocket writer stopped")
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			hub.Unregister(client)
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "request_status":
			hub.SendTo(client, wsMessage{Type: "status", Payload: mustMarshal(controllerStatus(controller))})
		}
	}
}

// statusForError maps controller errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, gomoku.ErrOutOfBounds),
		errors.Is(err, gomoku.ErrOccupied),
		errors.Is(err, gomoku.ErrInvalidDifficulty):
		return http.StatusBadRequest
	case errors.Is(err, gomoku.ErrGameOver),
		errors.Is(err, gomoku.ErrAITurn),
		errors.Is(err, gomoku.ErrNotYourTurn),
		errors.Is(err, gomoku.ErrNothingToUndo),
		errors.Is(err, gomoku.ErrNoMove):
		return http.StatusConflict
	case errors.Is(err, gomoku.ErrSnapshotVersion),
		errors.Is(err, gomoku.ErrSnapshotCorrupt):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusForError(err), map[string]string{"error": err.Error()})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.Debug().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("elapsed", time.Since(start)).
				Msg("http")
		}()
		next.ServeHTTP(ww, r)
	})
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
