package gomoku

import "testing"

func TestHintEmptyBoardSuggestsCentre(t *testing.T) {
	board := NewBoard(DefaultBoardSize)
	move, ok := Hint(&board, PlayerBlack, DefaultScoreTable())
	if !ok || move.X != 7 || move.Y != 7 || move.Player != PlayerBlack {
		t.Fatalf("expected black (7,7), got %v ok=%v", move, ok)
	}
}

func TestHintExtendsOwnThreeTowardsCentre(t *testing.T) {
	board := NewBoard(DefaultBoardSize)
	place(&board, CellBlack, [2]int{5, 7}, [2]int{6, 7}, [2]int{7, 7})
	move, ok := Hint(&board, PlayerBlack, DefaultScoreTable())
	if !ok || move.X != 8 || move.Y != 7 {
		t.Fatalf("expected (8,7), got %v", move)
	}
}

func TestHintUsesOnlyTheRequestedColour(t *testing.T) {
	board := NewBoard(DefaultBoardSize)
	place(&board, CellWhite, [2]int{5, 7}, [2]int{6, 7}, [2]int{7, 7})
	board.Set(0, 0, CellBlack)
	move, ok := Hint(&board, PlayerBlack, DefaultScoreTable())
	if !ok {
		t.Fatalf("expected a hint")
	}
	if move.Y == 7 && (move.X == 4 || move.X == 8) {
		t.Fatalf("hint must not score the opponent's threats, got %v", move)
	}
}

func TestHintFullBoard(t *testing.T) {
	board := fullBoardWithoutFive()
	if _, ok := Hint(&board, PlayerWhite, DefaultScoreTable()); ok {
		t.Fatalf("expected no hint on a full board")
	}
}
