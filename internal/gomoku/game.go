package gomoku

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

type Game struct {
	settings    GameSettings
	rules       Rules
	state       GameState
	history     MoveHistory
	blackPlayer IPlayer
	whitePlayer IPlayer
	rng         Rand
	turnStart   time.Time
}

func NewGame(settings GameSettings) Game {
	g := Game{}
	g.Reset(settings)
	return g
}

func (g *Game) Reset(settings GameSettings) {
	g.stopThinking()
	g.settings = settings.normalized()
	g.rules = NewRules(g.settings)
	g.state.Reset(g.settings)
	g.history.Clear()
	g.createPlayers()
	g.turnStart = time.Now()
	log.Debug().
		Int("board_size", g.settings.BoardSize).
		Bool("ai_mode", g.settings.AIMode).
		Stringer("ai_color", g.settings.AIColor).
		Stringer("difficulty", g.settings.Difficulty).
		Msg("new game")
}

// SetRand replaces the random source used by the AI for Hard tie-breaks.
// A background search is cancelled and waited for first; the next Tick
// starts a fresh one.
func (g *Game) SetRand(rng Rand) {
	g.rng = rng
	if ai, ok := g.aiPlayer(); ok {
		ai.StopThinking()
		ai.Wait()
		ai.setRand(rng)
	}
}

func (g *Game) Settings() GameSettings {
	return g.settings
}

func (g *Game) State() GameState {
	return g.state.Clone()
}

func (g *Game) History() MoveHistory {
	return g.history.Clone()
}

func (g *Game) Difficulty() Difficulty {
	return g.settings.Difficulty
}

func (g *Game) TurnStartedAtMs() int64 {
	if g.turnStart.IsZero() {
		return 0
	}
	return g.turnStart.UnixMilli()
}

func (g *Game) CurrentPlayerIsHuman() bool {
	player := g.currentPlayer()
	return player != nil && player.IsHuman()
}

// PlaceStone plays a human move for the side to move.
func (g *Game) PlaceStone(x, y int) error {
	if g.state.IsOver() {
		return fmt.Errorf("place (%d,%d): %w", x, y, ErrGameOver)
	}
	if !g.CurrentPlayerIsHuman() {
		return fmt.Errorf("place (%d,%d): %w", x, y, ErrAITurn)
	}
	if !g.state.Board.InBounds(x, y) {
		return fmt.Errorf("place (%d,%d): %w", x, y, ErrOutOfBounds)
	}
	if g.state.Board.At(x, y) != CellEmpty {
		return fmt.Errorf("place (%d,%d): %w", x, y, ErrOccupied)
	}
	g.applyMove(x, y, false)
	return nil
}

// PlayAI searches and applies the AI move synchronously. Any background
// search is cancelled first.
func (g *Game) PlayAI(ctx context.Context) (Move, error) {
	if g.state.IsOver() {
		return Move{}, fmt.Errorf("play ai: %w", ErrGameOver)
	}
	ai, ok := g.currentPlayer().(*AIPlayer)
	if !ok {
		return Move{}, fmt.Errorf("play ai as %s: %w", g.state.ToMove, ErrNotYourTurn)
	}
	g.stopThinking()
	ai.Wait()
	move, found := ai.ChooseMove(ctx, g.state.Board, g.history, g.settings.Difficulty)
	if !found {
		if err := ctx.Err(); err != nil {
			return Move{}, fmt.Errorf("play ai: %w", err)
		}
		return Move{}, fmt.Errorf("play ai: %w", ErrNoMove)
	}
	g.applyMove(move.X, move.Y, true)
	return move, nil
}

// Tick advances an AI turn without blocking: it starts a background search
// when none is running and applies the result once it is ready. It reports
// whether a move was applied.
func (g *Game) Tick() bool {
	if g.state.IsOver() {
		g.stopThinking()
		return false
	}
	ai, ok := g.currentPlayer().(*AIPlayer)
	if !ok {
		return false
	}
	if ai.HasMoveReady() {
		move, found := ai.TakeMove()
		if !found || !g.state.Board.IsEmpty(move.X, move.Y) {
			return false
		}
		g.applyMove(move.X, move.Y, true)
		return true
	}
	if !ai.IsThinking() {
		ai.StartThinking(g.state.Board, g.history, g.settings.Difficulty)
	}
	return false
}

func (g *Game) AiThinking() bool {
	ai, ok := g.currentPlayer().(*AIPlayer)
	return ok && ai.IsThinking()
}

// Undo takes back up to steps plies, capped by the history length and the
// undo limit. It returns the number of plies removed.
func (g *Game) Undo(steps int) (int, error) {
	if g.history.Size() == 0 {
		return 0, fmt.Errorf("undo: %w", ErrNothingToUndo)
	}
	g.stopThinking()
	steps = max(steps, 1)
	steps = min(steps, g.history.Size(), g.settings.UndoLimit)
	for i := 0; i < steps; i++ {
		entry, _ := g.history.Pop()
		g.state.Board.Remove(entry.Move.X, entry.Move.Y)
		g.state.ToMove = entry.Move.Player
	}
	g.state.Status = StatusRunning
	g.state.WinningLine = nil
	g.state.WinReason = ""
	g.state.HasHint = false
	g.state.LastMessage = ""
	g.syncLastMove()
	g.turnStart = time.Now()
	log.Debug().Int("steps", steps).Int("history", g.history.Size()).Msg("undo")
	return steps, nil
}

// UndoTurn takes back the last human move together with the AI reply that
// followed it, so the human is to move again. Without an AI it undoes one
// ply.
func (g *Game) UndoTurn() (int, error) {
	steps := 1
	if last, ok := g.history.Peek(); ok && last.IsAi && g.history.Size() > 1 {
		steps = 2
	}
	return g.Undo(steps)
}

// Surrender resigns the game for the side to move. Against the AI the
// human side always resigns.
func (g *Game) Surrender() error {
	if g.state.IsOver() {
		return fmt.Errorf("surrender: %w", ErrGameOver)
	}
	g.stopThinking()
	loser := g.state.ToMove
	if g.settings.AIMode {
		loser = otherPlayer(g.settings.AIColor)
	}
	g.state.Status = wonStatus(otherPlayer(loser))
	g.state.WinReason = "surrender"
	g.state.WinningLine = nil
	g.state.HasHint = false
	g.state.LastMessage = fmt.Sprintf("%s surrenders", loser)
	log.Debug().Stringer("loser", loser).Msg("surrender")
	return nil
}

func (g *Game) SetDifficulty(level Difficulty) error {
	if !level.Valid() {
		return fmt.Errorf("set difficulty %d: %w", level, ErrInvalidDifficulty)
	}
	g.settings.Difficulty = level
	return nil
}

// Hint computes and records a suggestion for the human to move.
func (g *Game) Hint() (Move, error) {
	if g.state.IsOver() {
		return Move{}, fmt.Errorf("hint: %w", ErrGameOver)
	}
	if !g.CurrentPlayerIsHuman() {
		return Move{}, fmt.Errorf("hint: %w", ErrAITurn)
	}
	move, ok := Hint(&g.state.Board, g.state.ToMove, GetConfig().Scores)
	if !ok {
		return Move{}, fmt.Errorf("hint: %w", ErrNoMove)
	}
	g.state.Hint = move
	g.state.HasHint = true
	return move, nil
}

func (g *Game) applyMove(x, y int, isAi bool) {
	g.stopThinking()
	player := g.state.ToMove
	move := Move{X: x, Y: y, Player: player}
	elapsedMs := float64(time.Since(g.turnStart).Milliseconds())
	g.state.Board.Set(x, y, CellFromPlayer(player))
	g.history.Push(HistoryEntry{Move: move, ElapsedMs: elapsedMs, IsAi: isAi})
	g.state.LastMove = move
	g.state.HasLastMove = true
	g.state.HasHint = false
	g.state.LastMessage = ""
	log.Debug().
		Stringer("player", player).
		Int("x", x).
		Int("y", y).
		Bool("ai", isAi).
		Float64("elapsed_ms", elapsedMs).
		Msg("move")

	if line, won := g.rules.CheckWin(&g.state.Board, x, y); won {
		g.state.Status = wonStatus(player)
		g.state.WinningLine = line
		g.state.WinReason = "five"
		g.state.LastMessage = fmt.Sprintf("%s wins", player)
		log.Debug().Stringer("winner", player).Int("line", len(line)).Msg("win")
		return
	}
	if g.rules.IsDraw(&g.state.Board) {
		g.state.Status = StatusDraw
		g.state.LastMessage = "draw"
		return
	}
	g.state.ToMove = otherPlayer(player)
	g.turnStart = time.Now()
}

func (g *Game) syncLastMove() {
	last, ok := g.history.Peek()
	g.state.HasLastMove = ok
	if ok {
		g.state.LastMove = last.Move
		return
	}
	g.state.LastMove = Move{X: -1, Y: -1}
}

func (g *Game) currentPlayer() IPlayer {
	return g.playerForColor(g.state.ToMove)
}

func (g *Game) playerForColor(color PlayerColor) IPlayer {
	if color == PlayerBlack {
		return g.blackPlayer
	}
	return g.whitePlayer
}

func (g *Game) aiPlayer() (*AIPlayer, bool) {
	if !g.settings.AIMode {
		return nil, false
	}
	ai, ok := g.playerForColor(g.settings.AIColor).(*AIPlayer)
	return ai, ok
}

func (g *Game) createPlayers() {
	g.blackPlayer = g.newPlayer(PlayerBlack)
	g.whitePlayer = g.newPlayer(PlayerWhite)
}

func (g *Game) newPlayer(color PlayerColor) IPlayer {
	if g.settings.isAI(color) {
		return NewAIPlayer(color, g.rng)
	}
	return NewHumanPlayer(color)
}

func (g *Game) stopThinking() {
	if ai, ok := g.aiPlayer(); ok {
		ai.StopThinking()
	}
}
