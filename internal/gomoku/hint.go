package gomoku

// Hint suggests the empty cell with the highest single-ply score for
// forPlayer, nearest the centre on ties. It is false only on a full board.
func Hint(board *Board, forPlayer PlayerColor, scores ScoreTable) (Move, bool) {
	scores = scores.resolved()
	best := Move{}
	bestScore := 0
	found := false
	size := board.Size()
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			if board.At(x, y) != CellEmpty {
				continue
			}
			score := scores.Evaluate(board, x, y, forPlayer)
			candidate := Move{X: x, Y: y, Player: forPlayer}
			if !found || score > bestScore || (score == bestScore && closerToCenter(board, candidate, best)) {
				best = candidate
				bestScore = score
				found = true
			}
		}
	}
	return best, found
}
