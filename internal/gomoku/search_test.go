package gomoku

import (
	"context"
	"math"
	"math/rand"
	"testing"
)

type sequenceRand struct {
	values []int
	next   int
}

func (r *sequenceRand) Intn(n int) int {
	v := r.values[r.next%len(r.values)]
	r.next++
	return v % n
}

// mirroredBoard is a 5x5 board symmetric under x -> 4-x with only (0,0)
// and (4,0) empty, so both cells always score the same.
func mirroredBoard() Board {
	board := NewBoard(5)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			column := min(x, 4-x)
			if (column+y)%2 == 0 {
				board.Set(x, y, CellBlack)
			} else {
				board.Set(x, y, CellWhite)
			}
		}
	}
	board.Remove(0, 0)
	board.Remove(4, 0)
	return board
}

// sparseBoard is a small mid-game position used to compare search
// variants.
func sparseBoard() Board {
	board := NewBoard(5)
	place(&board, CellBlack, [2]int{1, 1}, [2]int{2, 2}, [2]int{3, 1}, [2]int{2, 3})
	place(&board, CellWhite, [2]int{2, 1}, [2]int{1, 2}, [2]int{3, 3}, [2]int{0, 4})
	return board
}

func bruteMinimax(s *Searcher, board *Board, depth int, maximizing bool) int {
	if depth == 0 {
		return s.Scores.EvaluateBoard(board, s.AI)
	}
	player := s.AI
	best := math.MinInt
	if !maximizing {
		player = otherPlayer(s.AI)
		best = math.MaxInt
	}
	expanded := false
	for x := 0; x < board.Size(); x++ {
		for y := 0; y < board.Size(); y++ {
			if board.At(x, y) != CellEmpty {
				continue
			}
			expanded = true
			board.Set(x, y, CellFromPlayer(player))
			score := bruteMinimax(s, board, depth-1, !maximizing)
			board.Remove(x, y)
			if maximizing {
				best = max(best, score)
			} else {
				best = min(best, score)
			}
		}
	}
	if !expanded {
		return s.Scores.EvaluateBoard(board, s.AI)
	}
	return best
}

// bruteRoot scores every root move without pruning and returns the
// centre-preferred best move and every move tied with it.
func bruteRoot(s *Searcher, board *Board, depth int) (Move, []Move) {
	best := Move{}
	bestScore := math.MinInt
	var ties []Move
	for x := 0; x < board.Size(); x++ {
		for y := 0; y < board.Size(); y++ {
			if board.At(x, y) != CellEmpty {
				continue
			}
			board.Set(x, y, CellFromPlayer(s.AI))
			score := bruteMinimax(s, board, depth, false)
			board.Remove(x, y)
			candidate := Move{X: x, Y: y, Player: s.AI}
			switch {
			case len(ties) == 0 || score > bestScore:
				best, bestScore = candidate, score
				ties = []Move{candidate}
			case score == bestScore:
				ties = append(ties, candidate)
				if closerToCenter(board, candidate, best) {
					best = candidate
				}
			}
		}
	}
	return best, ties
}

func TestChooseMoveReturnsEmptyCellForEveryTier(t *testing.T) {
	for _, level := range []Difficulty{Easy, Medium, Hard} {
		board := NewBoard(7)
		place(&board, CellBlack, [2]int{3, 3}, [2]int{4, 3}, [2]int{2, 5})
		place(&board, CellWhite, [2]int{3, 4}, [2]int{5, 5})
		searcher := NewSearcher(PlayerWhite, DefaultScoreTable(), NewRand(1))
		move, ok := searcher.ChooseMove(context.Background(), &board, nil, level)
		if !ok {
			t.Fatalf("%s: expected a move", level)
		}
		if board.At(move.X, move.Y) != CellEmpty {
			t.Fatalf("%s: chose occupied cell %v", level, move)
		}
		if move.Player != PlayerWhite {
			t.Fatalf("%s: move owned by %s", level, move.Player)
		}
	}
}

func TestChooseMoveFullBoard(t *testing.T) {
	for _, level := range []Difficulty{Easy, Medium, Hard} {
		board := fullBoardWithoutFive()
		searcher := NewSearcher(PlayerWhite, DefaultScoreTable(), NewRand(1))
		if move, ok := searcher.ChooseMove(context.Background(), &board, nil, level); ok {
			t.Fatalf("%s: expected no move on a full board, got %v", level, move)
		}
	}
}

func TestChooseMoveLeavesBoardAndHistoryUnchanged(t *testing.T) {
	for _, level := range []Difficulty{Easy, Medium, Hard} {
		board := sparseBoard()
		var history MoveHistory
		for x := 0; x < board.Size(); x++ {
			for y := 0; y < board.Size(); y++ {
				if player, err := PlayerFromCell(board.At(x, y)); err == nil {
					history.Push(HistoryEntry{Move: NewMove(x, y, player)})
				}
			}
		}
		before := board.Clone()
		searcher := NewSearcher(PlayerBlack, DefaultScoreTable(), NewRand(3))
		searcher.ChooseMove(context.Background(), &board, &history, level)
		if !board.Equal(before) {
			t.Fatalf("%s: search changed the board", level)
		}
		if history.Size() != before.Stones() {
			t.Fatalf("%s: history size %d, want %d", level, history.Size(), before.Stones())
		}
	}
}

func TestEasyAndMediumOpenInTheCentre(t *testing.T) {
	for _, level := range []Difficulty{Easy, Medium} {
		board := NewBoard(DefaultBoardSize)
		searcher := NewSearcher(PlayerWhite, DefaultScoreTable(), nil)
		move, ok := searcher.ChooseMove(context.Background(), &board, nil, level)
		if !ok || move.X != 7 || move.Y != 7 {
			t.Fatalf("%s: expected centre (7,7), got %v ok=%v", level, move, ok)
		}
	}
}

func TestEasyBlocksFourNearestTheCentre(t *testing.T) {
	board := NewBoard(DefaultBoardSize)
	place(&board, CellBlack, [2]int{3, 7}, [2]int{4, 7}, [2]int{5, 7}, [2]int{6, 7})
	searcher := NewSearcher(PlayerWhite, DefaultScoreTable(), nil)
	move, ok := searcher.ChooseMove(context.Background(), &board, nil, Easy)
	if !ok || move.X != 7 || move.Y != 7 {
		t.Fatalf("expected block at (7,7), got %v", move)
	}
}

func TestMediumCompletesFive(t *testing.T) {
	board := NewBoard(DefaultBoardSize)
	place(&board, CellWhite, [2]int{3, 3}, [2]int{4, 3}, [2]int{5, 3}, [2]int{6, 3})
	place(&board, CellBlack, [2]int{0, 14}, [2]int{3, 4}, [2]int{4, 5})
	searcher := NewSearcher(PlayerWhite, DefaultScoreTable(), nil)
	move, ok := searcher.ChooseMove(context.Background(), &board, nil, Medium)
	if !ok {
		t.Fatalf("expected a move")
	}
	board.Set(move.X, move.Y, CellWhite)
	if _, won := NewRules(DefaultGameSettings()).CheckWin(&board, move.X, move.Y); !won {
		t.Fatalf("expected a winning move, got %v", move)
	}
}

func TestMediumTieBreaksOnScanOrderAtEqualDistance(t *testing.T) {
	board := mirroredBoard()
	searcher := NewSearcher(PlayerWhite, DefaultScoreTable(), nil)
	move, ok := searcher.ChooseMove(context.Background(), &board, nil, Medium)
	if !ok || move.X != 0 || move.Y != 0 {
		t.Fatalf("expected first scanned cell (0,0), got %v", move)
	}
}

func TestEqualDistanceTiesFollowColumnOrder(t *testing.T) {
	board := NewBoard(DefaultBoardSize)
	board.Set(7, 7, CellBlack)

	searcher := NewSearcher(PlayerWhite, DefaultScoreTable(), nil)
	move, ok := searcher.ChooseMove(context.Background(), &board, nil, Easy)
	if !ok || move.X != 6 || move.Y != 7 {
		t.Fatalf("easy: expected (6,7), got %v ok=%v", move, ok)
	}

	hint, ok := Hint(&board, PlayerWhite, DefaultScoreTable())
	if !ok || hint.X != 6 || hint.Y != 7 {
		t.Fatalf("hint: expected (6,7), got %v ok=%v", hint, ok)
	}
}

func TestHardPicksAmongTiesWithInjectedRand(t *testing.T) {
	board := mirroredBoard()
	searcher := NewSearcher(PlayerWhite, DefaultScoreTable(), &sequenceRand{values: []int{0, 1}})
	seen := map[Move]bool{}
	for i := 0; i < 4; i++ {
		move, ok := searcher.ChooseMove(context.Background(), &board, nil, Hard)
		if !ok {
			t.Fatalf("expected a move")
		}
		if searcher.Stats.Ties != 2 {
			t.Fatalf("expected 2 tied candidates, got %d", searcher.Stats.Ties)
		}
		seen[Move{X: move.X, Y: move.Y}] = true
	}
	if len(seen) != 2 || !seen[Move{X: 0, Y: 0}] || !seen[Move{X: 4, Y: 0}] {
		t.Fatalf("expected both tied cells to be chosen, got %v", seen)
	}
}

func TestHardWithSeededRandVaries(t *testing.T) {
	board := mirroredBoard()
	searcher := NewSearcher(PlayerBlack, DefaultScoreTable(), rand.New(rand.NewSource(1)))
	seen := map[Move]bool{}
	for i := 0; i < 40; i++ {
		move, _ := searcher.ChooseMove(context.Background(), &board, nil, Hard)
		seen[Move{X: move.X, Y: move.Y}] = true
	}
	if len(seen) < 2 {
		t.Fatalf("expected more than one distinct move, got %v", seen)
	}
}

func TestPrunedMinimaxMatchesBruteForce(t *testing.T) {
	for _, ai := range []PlayerColor{PlayerBlack, PlayerWhite} {
		for depth := 1; depth <= 3; depth++ {
			board := sparseBoard()
			searcher := NewSearcher(ai, DefaultScoreTable(), nil)
			for _, maximizing := range []bool{true, false} {
				want := bruteMinimax(searcher, &board, depth, maximizing)
				got := searcher.minimax(&board, depth, maximizing, math.MinInt, math.MaxInt)
				if got != want {
					t.Fatalf("ai=%s depth=%d max=%v: pruned %d, brute %d", ai, depth, maximizing, got, want)
				}
			}
		}
	}
}

func TestPrunedRootChoiceMatchesBruteForce(t *testing.T) {
	for _, ai := range []PlayerColor{PlayerBlack, PlayerWhite} {
		board := sparseBoard()
		searcher := NewSearcher(ai, DefaultScoreTable(), &sequenceRand{values: []int{0}})

		wantMedium, _ := bruteRoot(searcher, &board, Medium.searchDepth())
		gotMedium, _ := searcher.ChooseMove(context.Background(), &board, nil, Medium)
		if gotMedium != wantMedium {
			t.Fatalf("ai=%s medium: pruned %v, brute %v", ai, gotMedium, wantMedium)
		}

		_, wantTies := bruteRoot(searcher, &board, Hard.searchDepth())
		gotHard, _ := searcher.ChooseMove(context.Background(), &board, nil, Hard)
		if searcher.Stats.Ties != len(wantTies) {
			t.Fatalf("ai=%s hard: %d ties, brute %d", ai, searcher.Stats.Ties, len(wantTies))
		}
		if len(wantTies) > 1 {
			if gotHard != wantTies[0] {
				t.Fatalf("ai=%s hard: rand 0 picked %v, want %v", ai, gotHard, wantTies[0])
			}
		}
	}
}

func TestChooseMoveCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, level := range []Difficulty{Easy, Medium, Hard} {
		board := sparseBoard()
		searcher := NewSearcher(PlayerWhite, DefaultScoreTable(), nil)
		if move, ok := searcher.ChooseMove(ctx, &board, nil, level); ok {
			t.Fatalf("%s: cancelled search returned %v", level, move)
		}
	}
}

func TestProbeUndoesOnPanic(t *testing.T) {
	board := NewBoard(5)
	var history MoveHistory
	searcher := NewSearcher(PlayerBlack, DefaultScoreTable(), nil)
	func() {
		defer func() {
			if recover() == nil {
				t.Fatalf("expected panic to propagate")
			}
		}()
		searcher.probe(&board, &history, 2, 2, PlayerBlack, func() int {
			if board.At(2, 2) != CellBlack || history.Size() != 1 {
				t.Errorf("stone not placed during probe")
			}
			panic("boom")
		})
	}()
	if board.At(2, 2) != CellEmpty || history.Size() != 0 {
		t.Fatalf("probe left the speculative stone behind")
	}
}

func TestParseDifficulty(t *testing.T) {
	for input, want := range map[string]Difficulty{"1": Easy, "medium": Medium, " Hard ": Hard, "3": Hard} {
		got, err := ParseDifficulty(input)
		if err != nil || got != want {
			t.Fatalf("ParseDifficulty(%q) = %v, %v", input, got, err)
		}
	}
	for _, input := range []string{"0", "4", "expert"} {
		if _, err := ParseDifficulty(input); err == nil {
			t.Fatalf("ParseDifficulty(%q) should fail", input)
		}
	}
}
