package gomoku

import "fmt"

// DefaultBoardSize is the side length of a standard board.
const DefaultBoardSize = 15

type Cell int

const (
	CellEmpty Cell = iota
	CellBlack
	CellWhite
)

// Board is a raw mutable grid. Set and At do no bounds or occupancy checks;
// callers validate coordinates before touching the grid.
type Board struct {
	size  int
	cells []Cell
}

func NewBoard(boardSize int) Board {
	b := Board{}
	b.Reset(boardSize)
	return b
}

func (b *Board) Reset(boardSize int) {
	b.size = boardSize
	b.cells = make([]Cell, boardSize*boardSize)
}

func (b Board) At(x, y int) Cell {
	return b.cells[b.index(x, y)]
}

func (b *Board) Set(x, y int, value Cell) {
	b.cells[b.index(x, y)] = value
}

func (b *Board) Remove(x, y int) {
	b.cells[b.index(x, y)] = CellEmpty
}

func (b Board) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.size && y < b.size
}

func (b Board) IsEmpty(x, y int) bool {
	return b.InBounds(x, y) && b.At(x, y) == CellEmpty
}

func (b Board) CountEmpty() int {
	count := 0
	for _, cell := range b.cells {
		if cell == CellEmpty {
			count++
		}
	}
	return count
}

// Stones returns the number of occupied cells.
func (b Board) Stones() int {
	return len(b.cells) - b.CountEmpty()
}

func (b Board) IsFull() bool {
	for _, cell := range b.cells {
		if cell == CellEmpty {
			return false
		}
	}
	return true
}

func (b Board) Size() int {
	return b.size
}

// Center is the coordinate used on both axes for centre-distance tie-breaks.
func (b Board) Center() int {
	return (b.size - 1) / 2
}

func (b Board) Clone() Board {
	clone := Board{size: b.size}
	clone.cells = make([]Cell, len(b.cells))
	copy(clone.cells, b.cells)
	return clone
}

func (b Board) Equal(other Board) bool {
	if b.size != other.size || len(b.cells) != len(other.cells) {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

func (b Board) index(x, y int) int {
	return y*b.size + x
}

func (c Cell) String() string {
	switch c {
	case CellBlack:
		return "Black"
	case CellWhite:
		return "White"
	default:
		return "Empty"
	}
}

// Rune is the single-character form used in snapshots and debug dumps.
func (c Cell) Rune() rune {
	switch c {
	case CellBlack:
		return 'B'
	case CellWhite:
		return 'W'
	default:
		return '.'
	}
}

func CellFromRune(r rune) (Cell, error) {
	switch r {
	case '.':
		return CellEmpty, nil
	case 'B':
		return CellBlack, nil
	case 'W':
		return CellWhite, nil
	default:
		return CellEmpty, fmt.Errorf("unknown cell rune %q", r)
	}
}

func CellFromPlayer(player PlayerColor) Cell {
	if player == PlayerBlack {
		return CellBlack
	}
	return CellWhite
}

func PlayerFromCell(cell Cell) (PlayerColor, error) {
	switch cell {
	case CellBlack:
		return PlayerBlack, nil
	case CellWhite:
		return PlayerWhite, nil
	default:
		return PlayerBlack, fmt.Errorf("empty cell has no player")
	}
}
