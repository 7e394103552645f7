package gomoku

import "errors"

var (
	ErrOutOfBounds       = errors.New("position out of bounds")
	ErrOccupied          = errors.New("position occupied")
	ErrGameOver          = errors.New("game is over")
	ErrNotYourTurn       = errors.New("not this player's turn")
	ErrAITurn            = errors.New("waiting for the AI to move")
	ErrNothingToUndo     = errors.New("no moves to undo")
	ErrInvalidDifficulty = errors.New("difficulty must be between 1 and 3")
	ErrNoMove            = errors.New("no empty cell left")
	ErrSnapshotVersion   = errors.New("unsupported snapshot version")
	ErrSnapshotCorrupt   = errors.New("snapshot is corrupt")
)
