package gomoku

import "fmt"

// Move records a stone placed at (X, Y) by Player.
type Move struct {
	X      int         `json:"x"`
	Y      int         `json:"y"`
	Player PlayerColor `json:"player"`
}

func NewMove(x, y int, player PlayerColor) Move {
	return Move{X: x, Y: y, Player: player}
}

func (m Move) IsValid(boardSize int) bool {
	return m.X >= 0 && m.Y >= 0 && m.X < boardSize && m.Y < boardSize
}

// Equals compares coordinates only.
func (m Move) Equals(other Move) bool {
	return m.X == other.X && m.Y == other.Y
}

func (m Move) String() string {
	return fmt.Sprintf("%s(%d,%d)", m.Player, m.X, m.Y)
}
