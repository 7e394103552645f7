package gomoku

import (
	"context"
	"sync"
)

// GameController serialises access to one Game. Front ends call it from
// their input handlers and from a ticker that drives AI turns.
type GameController struct {
	mu   sync.Mutex
	game Game
}

func NewGameController(settings GameSettings) *GameController {
	return &GameController{game: NewGame(settings)}
}

func (gc *GameController) PlaceStone(x, y int) error {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.PlaceStone(x, y)
}

func (gc *GameController) PlayAI(ctx context.Context) (Move, error) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.PlayAI(ctx)
}

func (gc *GameController) Tick() bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Tick()
}

func (gc *GameController) Undo(steps int) (int, error) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Undo(steps)
}

func (gc *GameController) UndoTurn() (int, error) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.UndoTurn()
}

func (gc *GameController) Surrender() error {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Surrender()
}

func (gc *GameController) SetDifficulty(level Difficulty) error {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.SetDifficulty(level)
}

func (gc *GameController) Hint() (Move, error) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Hint()
}

func (gc *GameController) State() GameState {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.State()
}

func (gc *GameController) Settings() GameSettings {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Settings()
}

func (gc *GameController) History() MoveHistory {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.History()
}

func (gc *GameController) LatestHistoryEntry() (HistoryEntry, bool) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.history.Peek()
}

func (gc *GameController) CurrentTurnStartedAtMs() int64 {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.TurnStartedAtMs()
}

func (gc *GameController) AiThinking() bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.AiThinking()
}

func (gc *GameController) Reset(settings GameSettings) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.Reset(settings)
}

func (gc *GameController) SetRand(rng Rand) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.SetRand(rng)
}

func (gc *GameController) Snapshot() Snapshot {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Snapshot()
}

// Restore replaces the current game with the one described by snap. The
// current game is left untouched when snap is invalid.
func (gc *GameController) Restore(snap Snapshot) error {
	restored, err := RestoreGame(snap)
	if err != nil {
		return err
	}
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.stopThinking()
	restored.SetRand(gc.game.rng)
	gc.game = restored
	return nil
}
