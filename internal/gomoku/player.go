package gomoku

type IPlayer interface {
	IsHuman() bool
	Color() PlayerColor
}

type HumanPlayer struct {
	color PlayerColor
}

func NewHumanPlayer(color PlayerColor) *HumanPlayer {
	return &HumanPlayer{color: color}
}

func (h *HumanPlayer) IsHuman() bool {
	return true
}

func (h *HumanPlayer) Color() PlayerColor {
	return h.color
}
