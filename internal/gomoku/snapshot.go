package gomoku

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/crypto/blake2b"
)

const SnapshotVersion = 1

// Snapshot is the saved form of a game. Grid rows hold one rune per cell
// ('.', 'B' or 'W'), indexed as Grid[y][x]. Checksum is the hex BLAKE2b-256
// of the document encoded with an empty checksum.
type Snapshot struct {
	Version     int         `json:"version"`
	BoardSize   int         `json:"board_size"`
	WinLength   int         `json:"win_length"`
	Grid        []string    `json:"grid"`
	Moves       []Move      `json:"moves"`
	ToMove      PlayerColor `json:"to_move"`
	Status      string      `json:"status"`
	AIMode      bool        `json:"ai_mode"`
	AIColor     PlayerColor `json:"ai_color"`
	Difficulty  Difficulty  `json:"difficulty"`
	UndoLimit   int         `json:"undo_limit"`
	WinningLine []Move      `json:"winning_line,omitempty"`
	WinReason   string      `json:"win_reason,omitempty"`
	Hint        *Move       `json:"hint,omitempty"`
	Checksum    string      `json:"checksum"`
}

func (g *Game) Snapshot() Snapshot {
	size := g.state.Board.Size()
	grid := make([]string, size)
	row := make([]rune, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			row[x] = g.state.Board.At(x, y).Rune()
		}
		grid[y] = string(row)
	}
	entries := g.history.All()
	moves := make([]Move, len(entries))
	for i, entry := range entries {
		moves[i] = entry.Move
	}
	snap := Snapshot{
		Version:     SnapshotVersion,
		BoardSize:   size,
		WinLength:   g.settings.WinLength,
		Grid:        grid,
		Moves:       moves,
		ToMove:      g.state.ToMove,
		Status:      g.state.Status.String(),
		AIMode:      g.settings.AIMode,
		AIColor:     g.settings.AIColor,
		Difficulty:  g.settings.Difficulty,
		UndoLimit:   g.settings.UndoLimit,
		WinningLine: append([]Move(nil), g.state.WinningLine...),
		WinReason:   g.state.WinReason,
	}
	if g.state.HasHint {
		hint := g.state.Hint
		snap.Hint = &hint
	}
	return snap
}

func (s Snapshot) checksum() (string, error) {
	s.Checksum = ""
	payload, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	sum := blake2b.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

// WriteSnapshot stamps snap with its checksum and writes it as indented
// JSON.
func WriteSnapshot(w io.Writer, snap Snapshot) error {
	sum, err := snap.checksum()
	if err != nil {
		return fmt.Errorf("snapshot checksum: %w", err)
	}
	snap.Checksum = sum
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snap); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot decodes a snapshot and verifies its version and checksum.
// The game itself is validated by RestoreGame.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot: %v: %w", err, ErrSnapshotCorrupt)
	}
	if snap.Version != SnapshotVersion {
		return Snapshot{}, fmt.Errorf("read snapshot version %d: %w", snap.Version, ErrSnapshotVersion)
	}
	sum, err := snap.checksum()
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot checksum: %w", err)
	}
	if sum != snap.Checksum {
		return Snapshot{}, fmt.Errorf("read snapshot: checksum mismatch: %w", ErrSnapshotCorrupt)
	}
	return snap, nil
}

// RestoreGame rebuilds a game from snap after checking that the grid and
// the move list describe the same position.
func RestoreGame(snap Snapshot) (Game, error) {
	if snap.Version != SnapshotVersion {
		return Game{}, fmt.Errorf("restore version %d: %w", snap.Version, ErrSnapshotVersion)
	}
	if snap.BoardSize < 1 || len(snap.Grid) != snap.BoardSize {
		return Game{}, corrupt("grid has %d rows for board size %d", len(snap.Grid), snap.BoardSize)
	}
	status, err := ParseGameStatus(snap.Status)
	if err != nil {
		return Game{}, corrupt("%v", err)
	}
	if !snap.Difficulty.Valid() {
		return Game{}, corrupt("difficulty %d", snap.Difficulty)
	}
	settings := GameSettings{
		BoardSize:  snap.BoardSize,
		WinLength:  snap.WinLength,
		AIMode:     snap.AIMode,
		AIColor:    snap.AIColor,
		Difficulty: snap.Difficulty,
		UndoLimit:  snap.UndoLimit,
	}
	game := NewGame(settings)
	board := &game.state.Board
	for y, row := range snap.Grid {
		runes := []rune(row)
		if len(runes) != snap.BoardSize {
			return Game{}, corrupt("row %d has %d cells", y, len(runes))
		}
		for x, r := range runes {
			cell, err := CellFromRune(r)
			if err != nil {
				return Game{}, corrupt("cell (%d,%d): %v", x, y, err)
			}
			board.Set(x, y, cell)
		}
	}
	if board.Stones() != len(snap.Moves) {
		return Game{}, corrupt("%d stones but %d moves", board.Stones(), len(snap.Moves))
	}
	seen := make(map[int]bool, len(snap.Moves))
	for i, move := range snap.Moves {
		if !move.IsValid(snap.BoardSize) {
			return Game{}, corrupt("move %d %s out of bounds", i, move)
		}
		key := move.Y*snap.BoardSize + move.X
		if seen[key] {
			return Game{}, corrupt("move %d %s repeats a cell", i, move)
		}
		seen[key] = true
		if board.At(move.X, move.Y) != CellFromPlayer(move.Player) {
			return Game{}, corrupt("move %d %s does not match the grid", i, move)
		}
		game.history.Push(HistoryEntry{Move: move, IsAi: game.settings.isAI(move.Player)})
	}
	for _, move := range snap.WinningLine {
		if !move.IsValid(snap.BoardSize) {
			return Game{}, corrupt("winning line %s out of bounds", move)
		}
	}

	game.state.ToMove = snap.ToMove
	game.state.Status = status
	game.state.WinningLine = append([]Move(nil), snap.WinningLine...)
	game.state.WinReason = snap.WinReason
	if snap.Hint != nil && snap.Hint.IsValid(snap.BoardSize) {
		game.state.Hint = *snap.Hint
		game.state.HasHint = true
	}
	game.syncLastMove()
	return game, nil
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("restore: "+format+": %w", append(args, ErrSnapshotCorrupt)...)
}
