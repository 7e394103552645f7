package gomoku

// DefaultWinLength is the number of stones in a row that wins.
const DefaultWinLength = 5

var axes = [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}

type Rules struct {
	winLength int
}

func NewRules(settings GameSettings) Rules {
	winLength := settings.WinLength
	if winLength <= 0 {
		winLength = DefaultWinLength
	}
	return Rules{winLength: winLength}
}

func (r Rules) WinLength() int {
	return r.winLength
}

// IsWin reports whether the stone at lastMove completes a line.
func (r Rules) IsWin(board *Board, lastMove Move) bool {
	_, won := r.CheckWin(board, lastMove.X, lastMove.Y)
	return won
}

// CheckWin looks for a winning run through (x, y), using the owner of that
// cell. The returned line holds the whole contiguous run, overlines
// included, ordered from its negative end to its positive end.
func (r Rules) CheckWin(board *Board, x, y int) ([]Move, bool) {
	if !board.InBounds(x, y) {
		return nil, false
	}
	cell := board.At(x, y)
	if cell == CellEmpty {
		return nil, false
	}
	owner, _ := PlayerFromCell(cell)
	for _, axis := range axes {
		dx, dy := axis[0], axis[1]
		back := r.countDirection(board, x, y, -dx, -dy, cell)
		forward := r.countDirection(board, x, y, dx, dy, cell)
		if back+forward+1 < r.winLength {
			continue
		}
		line := make([]Move, 0, back+forward+1)
		for step := -back; step <= forward; step++ {
			line = append(line, Move{X: x + step*dx, Y: y + step*dy, Player: owner})
		}
		return line, true
	}
	return nil, false
}

// IsDraw assumes the caller already ruled out a win.
func (r Rules) IsDraw(board *Board) bool {
	return board.IsFull()
}

func (r Rules) countDirection(board *Board, x, y, dx, dy int, cell Cell) int {
	count := 0
	for {
		x += dx
		y += dy
		if !board.InBounds(x, y) || board.At(x, y) != cell {
			return count
		}
		count++
	}
}
