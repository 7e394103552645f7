package gomoku

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func playedGame(t *testing.T) *Game {
	t.Helper()
	settings := pvpSettings(9)
	settings.Difficulty = Hard
	g := NewGame(settings)
	for _, m := range [][2]int{{4, 4}, {5, 5}, {3, 4}, {5, 4}} {
		mustPlace(t, &g, m[0], m[1])
	}
	if _, err := g.Hint(); err != nil {
		t.Fatalf("hint: %v", err)
	}
	return &g
}

func TestSnapshotRestoresGame(t *testing.T) {
	g := playedGame(t)
	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, g.Snapshot()); err != nil {
		t.Fatalf("write: %v", err)
	}
	snap, err := ReadSnapshot(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	restored, err := RestoreGame(snap)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}

	want, got := g.State(), restored.State()
	if !got.Board.Equal(want.Board) || got.ToMove != want.ToMove || got.Status != want.Status {
		t.Fatalf("restored position differs")
	}
	if got.LastMove != want.LastMove || got.HasHint != want.HasHint || got.Hint != want.Hint {
		t.Fatalf("restored markers differ: last=%v hint=%v", got.LastMove, got.Hint)
	}
	if restored.Settings() != g.Settings() {
		t.Fatalf("restored settings %+v, want %+v", restored.Settings(), g.Settings())
	}
	if _, err := restored.Undo(4); err != nil {
		t.Fatalf("restored history must support undo: %v", err)
	}
	if restored.State().Board.Stones() != 0 {
		t.Fatalf("undoing the restored history must empty the board")
	}
}

func TestSnapshotKeepsWinningLine(t *testing.T) {
	g := NewGame(pvpSettings(DefaultBoardSize))
	for i := 0; i < 4; i++ {
		mustPlace(t, &g, 2, i)
		mustPlace(t, &g, 9, i)
	}
	mustPlace(t, &g, 2, 4)
	restored, err := RestoreGame(g.Snapshot())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	state := restored.State()
	if state.Status != StatusBlackWon || len(state.WinningLine) != 5 {
		t.Fatalf("expected black win with 5-stone line, got %s %v", state.Status, state.WinningLine)
	}
	if err := restored.PlaceStone(0, 0); !errors.Is(err, ErrGameOver) {
		t.Fatalf("restored finished game must reject moves, got %v", err)
	}
}

func TestReadSnapshotDetectsTampering(t *testing.T) {
	g := playedGame(t)
	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, g.Snapshot()); err != nil {
		t.Fatalf("write: %v", err)
	}
	tampered := strings.Replace(buf.String(), `"to_move": "black"`, `"to_move": "white"`, 1)
	if tampered == buf.String() {
		t.Fatalf("fixture did not contain the expected to_move field")
	}
	if _, err := ReadSnapshot(strings.NewReader(tampered)); !errors.Is(err, ErrSnapshotCorrupt) {
		t.Fatalf("expected ErrSnapshotCorrupt, got %v", err)
	}
	if _, err := ReadSnapshot(strings.NewReader("{not json")); !errors.Is(err, ErrSnapshotCorrupt) {
		t.Fatalf("expected ErrSnapshotCorrupt for garbage, got %v", err)
	}
}

func TestReadSnapshotRejectsUnknownVersion(t *testing.T) {
	snap := playedGame(t).Snapshot()
	snap.Version = 2
	payload, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if _, err := ReadSnapshot(bytes.NewReader(payload)); !errors.Is(err, ErrSnapshotVersion) {
		t.Fatalf("expected ErrSnapshotVersion, got %v", err)
	}
}

func TestRestoreGameRejectsInconsistentSnapshots(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Snapshot)
	}{
		{"extra stone", func(s *Snapshot) { s.Grid[0] = "B" + s.Grid[0][1:] }},
		{"move owner mismatch", func(s *Snapshot) { s.Moves[0].Player = PlayerWhite }},
		{"short row", func(s *Snapshot) { s.Grid[2] = s.Grid[2][1:] }},
		{"missing row", func(s *Snapshot) { s.Grid = s.Grid[1:] }},
		{"bad rune", func(s *Snapshot) { s.Grid[8] = "x" + s.Grid[8][1:] }},
		{"unknown status", func(s *Snapshot) { s.Status = "paused" }},
		{"bad difficulty", func(s *Snapshot) { s.Difficulty = 7 }},
		{"repeated move", func(s *Snapshot) { s.Moves[2] = s.Moves[0] }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			snap := playedGame(t).Snapshot()
			tc.mutate(&snap)
			if _, err := RestoreGame(snap); !errors.Is(err, ErrSnapshotCorrupt) {
				t.Fatalf("expected ErrSnapshotCorrupt, got %v", err)
			}
		})
	}
}
