package gomoku

import "testing"

func place(board *Board, cell Cell, coords ...[2]int) {
	for _, c := range coords {
		board.Set(c[0], c[1], cell)
	}
}

// fullBoardWithoutFive fills a 5x5 board with 13 black and 12 white stones
// and no line of five in any direction.
func fullBoardWithoutFive() Board {
	board := NewBoard(5)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if (x/2+y)%2 == 0 {
				board.Set(x, y, CellBlack)
			} else {
				board.Set(x, y, CellWhite)
			}
		}
	}
	return board
}

func withConfig(t *testing.T, mutate func(*Config)) {
	t.Helper()
	prev := GetConfig()
	cfg := prev
	mutate(&cfg)
	configStore.Update(cfg)
	t.Cleanup(func() { configStore.Update(prev) })
}

func TestNewBoardIsEmpty(t *testing.T) {
	board := NewBoard(DefaultBoardSize)
	if board.Size() != 15 {
		t.Fatalf("expected size 15, got %d", board.Size())
	}
	if board.CountEmpty() != 225 || board.Stones() != 0 {
		t.Fatalf("expected 225 empty cells, got %d empty %d stones", board.CountEmpty(), board.Stones())
	}
	if board.IsFull() {
		t.Fatalf("empty board reported full")
	}
	if board.Center() != 7 {
		t.Fatalf("expected centre 7, got %d", board.Center())
	}
}

func TestBoardSetRemoveAndBounds(t *testing.T) {
	board := NewBoard(5)
	board.Set(1, 3, CellWhite)
	if board.At(1, 3) != CellWhite {
		t.Fatalf("expected white at (1,3), got %s", board.At(1, 3))
	}
	if board.At(3, 1) != CellEmpty {
		t.Fatalf("x and y must not be swapped")
	}
	if board.IsEmpty(1, 3) {
		t.Fatalf("occupied cell reported empty")
	}
	board.Set(1, 3, CellBlack)
	if board.At(1, 3) != CellBlack {
		t.Fatalf("Set must overwrite unconditionally")
	}
	board.Remove(1, 3)
	if !board.IsEmpty(1, 3) {
		t.Fatalf("expected (1,3) empty after Remove")
	}
	for _, c := range [][2]int{{-1, 0}, {0, -1}, {5, 0}, {0, 5}} {
		if board.InBounds(c[0], c[1]) || board.IsEmpty(c[0], c[1]) {
			t.Fatalf("(%d,%d) must be out of bounds", c[0], c[1])
		}
	}
}

func TestBoardCloneIsIndependent(t *testing.T) {
	board := NewBoard(5)
	board.Set(2, 2, CellBlack)
	clone := board.Clone()
	if !clone.Equal(board) {
		t.Fatalf("clone differs from source")
	}
	clone.Set(0, 0, CellWhite)
	if board.At(0, 0) != CellEmpty {
		t.Fatalf("mutating the clone changed the source")
	}
	if clone.Equal(board) {
		t.Fatalf("expected boards to differ after mutation")
	}
}

func TestBoardIsFull(t *testing.T) {
	board := fullBoardWithoutFive()
	if !board.IsFull() {
		t.Fatalf("expected full board")
	}
	board.Remove(4, 4)
	if board.IsFull() {
		t.Fatalf("board with a hole reported full")
	}
}

func TestCellRuneRoundTrip(t *testing.T) {
	for _, cell := range []Cell{CellEmpty, CellBlack, CellWhite} {
		parsed, err := CellFromRune(cell.Rune())
		if err != nil || parsed != cell {
			t.Fatalf("rune %q parsed to %s (%v)", cell.Rune(), parsed, err)
		}
	}
	if _, err := CellFromRune('x'); err == nil {
		t.Fatalf("expected error for unknown rune")
	}
}

func TestMoveHistoryLIFO(t *testing.T) {
	var history MoveHistory
	if _, ok := history.Pop(); ok {
		t.Fatalf("pop on empty history must fail")
	}
	history.Push(HistoryEntry{Move: NewMove(1, 1, PlayerBlack)})
	history.Push(HistoryEntry{Move: NewMove(2, 2, PlayerWhite)})
	top, ok := history.Peek()
	if !ok || !top.Move.Equals(Move{X: 2, Y: 2}) {
		t.Fatalf("expected (2,2) on top, got %v", top.Move)
	}
	clone := history.Clone()
	entry, _ := history.Pop()
	if entry.Move.Player != PlayerWhite || history.Size() != 1 {
		t.Fatalf("unexpected pop result %v size=%d", entry.Move, history.Size())
	}
	if clone.Size() != 2 {
		t.Fatalf("clone must not share entries, size=%d", clone.Size())
	}
}
