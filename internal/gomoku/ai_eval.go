package gomoku

// ScoreTable holds the pattern weights used by the evaluator. A run of five
// or more short-circuits the whole evaluation to Five.
type ScoreTable struct {
	Five      int `json:"five"`
	Four      int `json:"four"`
	OpenThree int `json:"open_three"`
	HalfThree int `json:"half_three"`
	OpenTwo   int `json:"open_two"`
	HalfTwo   int `json:"half_two"`
}

func DefaultScoreTable() ScoreTable {
	return ScoreTable{
		Five:      100000,
		Four:      10000,
		OpenThree: 1000,
		HalfThree: 100,
		OpenTwo:   10,
		HalfTwo:   5,
	}
}

// resolved fills zero weights from the defaults so a partially specified
// table from a config file still scores every pattern.
func (s ScoreTable) resolved() ScoreTable {
	defaults := DefaultScoreTable()
	if s.Five == 0 {
		s.Five = defaults.Five
	}
	if s.Four == 0 {
		s.Four = defaults.Four
	}
	if s.OpenThree == 0 {
		s.OpenThree = defaults.OpenThree
	}
	if s.HalfThree == 0 {
		s.HalfThree = defaults.HalfThree
	}
	if s.OpenTwo == 0 {
		s.OpenTwo = defaults.OpenTwo
	}
	if s.HalfTwo == 0 {
		s.HalfTwo = defaults.HalfTwo
	}
	return s
}

// Evaluate scores (x, y) as if owner had a stone there. The origin cell is
// never read, so the caller may or may not have placed the stone.
func (s ScoreTable) Evaluate(board *Board, x, y int, owner PlayerColor) int {
	cell := CellFromPlayer(owner)
	total := 0
	for _, axis := range axes {
		dx, dy := axis[0], axis[1]
		forward, forwardOpen := scanRun(board, x, y, dx, dy, cell)
		back, backOpen := scanRun(board, x, y, -dx, -dy, cell)
		run := 1 + forward + back
		if run >= 5 {
			return s.Five
		}
		openSides := 0
		if forwardOpen {
			openSides++
		}
		if backOpen {
			openSides++
		}
		total += s.patternScore(run, openSides)
	}
	return total
}

func (s ScoreTable) patternScore(run, openSides int) int {
	if openSides == 0 {
		return 0
	}
	switch run {
	case 4:
		return s.Four
	case 3:
		if openSides == 2 {
			return s.OpenThree
		}
		return s.HalfThree
	case 2:
		if openSides == 2 {
			return s.OpenTwo
		}
		return s.HalfTwo
	default:
		return 0
	}
}

// scanRun walks at most four cells away from the origin while they match
// cell. The side is open only when the first non-matching cell is in bounds
// and empty.
func scanRun(board *Board, x, y, dx, dy int, cell Cell) (int, bool) {
	count := 0
	for step := 1; step <= 4; step++ {
		nx, ny := x+step*dx, y+step*dy
		if !board.InBounds(nx, ny) {
			return count, false
		}
		current := board.At(nx, ny)
		if current != cell {
			return count, current == CellEmpty
		}
		count++
	}
	return count, false
}

// EvaluateBoard is the static evaluation from ai's point of view: the sum
// of Evaluate over ai's stones minus the sum over the opponent's stones.
func (s ScoreTable) EvaluateBoard(board *Board, ai PlayerColor) int {
	aiCell := CellFromPlayer(ai)
	opponent := otherPlayer(ai)
	score := 0
	size := board.Size()
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			switch board.At(x, y) {
			case CellEmpty:
				continue
			case aiCell:
				score += s.Evaluate(board, x, y, ai)
			default:
				score -= s.Evaluate(board, x, y, opponent)
			}
		}
	}
	return score
}

func Evaluate(board *Board, x, y int, owner PlayerColor) int {
	return DefaultScoreTable().Evaluate(board, x, y, owner)
}

func EvaluateBoard(board *Board, ai PlayerColor) int {
	return DefaultScoreTable().EvaluateBoard(board, ai)
}
