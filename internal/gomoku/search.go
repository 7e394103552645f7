package gomoku

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Difficulty int

const (
	Easy Difficulty = iota + 1
	Medium
	Hard
)

const DefaultDifficulty = Medium

func (d Difficulty) Valid() bool {
	return d >= Easy && d <= Hard
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return "difficulty(" + strconv.Itoa(int(d)) + ")"
	}
}

// ParseDifficulty accepts either the level name or its number.
func ParseDifficulty(value string) (Difficulty, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	switch value {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || !Difficulty(n).Valid() {
		return 0, fmt.Errorf("parse difficulty %q: %w", value, ErrInvalidDifficulty)
	}
	return Difficulty(n), nil
}

// searchDepth is the number of plies searched below the root move.
func (d Difficulty) searchDepth() int {
	if d == Hard {
		return 2
	}
	return 1
}

// Rand is the random source used to break ties on Hard. *rand.Rand
// satisfies it.
type Rand interface {
	Intn(n int) int
}

func NewRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}

type SearchStats struct {
	Nodes          int64
	Cutoffs        int64
	RootCandidates int64
	Ties           int
	Start          time.Time
	Elapsed        time.Duration
}

// Searcher picks moves for the AI colour. It keeps no state between
// calls apart from the random source and the stats of the last search.
type Searcher struct {
	AI       PlayerColor
	Scores   ScoreTable
	Rand     Rand
	LogStats bool
	Stats    SearchStats
}

func NewSearcher(ai PlayerColor, scores ScoreTable, rng Rand) *Searcher {
	if rng == nil {
		rng = NewRand(time.Now().UnixNano())
	}
	return &Searcher{AI: ai, Scores: scores.resolved(), Rand: rng}
}

// ChooseMove returns a move on an empty cell, or false when the board is
// full. The board and history are mutated speculatively during the search
// and are left exactly as received. Cancellation is checked between root
// candidates; a cancelled search returns the best move scored so far.
func (s *Searcher) ChooseMove(ctx context.Context, board *Board, history *MoveHistory, level Difficulty) (Move, bool) {
	s.Stats = SearchStats{Start: time.Now()}
	var (
		move Move
		ok   bool
	)
	switch level {
	case Easy:
		move, ok = s.chooseGreedy(ctx, board)
	case Hard:
		move, ok = s.chooseByMinimax(ctx, board, history, level.searchDepth(), true)
	default:
		move, ok = s.chooseByMinimax(ctx, board, history, Medium.searchDepth(), false)
	}
	s.Stats.Elapsed = time.Since(s.Stats.Start)
	if s.LogStats {
		logSearchStats(level, s.Stats, move, ok)
	}
	return move, ok
}

// chooseGreedy scores each empty cell by the better of attacking and
// blocking value.
func (s *Searcher) chooseGreedy(ctx context.Context, board *Board) (Move, bool) {
	opponent := otherPlayer(s.AI)
	best := Move{}
	bestScore := 0
	found := false
	size := board.Size()
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			if board.At(x, y) != CellEmpty {
				continue
			}
			if ctx.Err() != nil {
				return best, found
			}
			s.Stats.RootCandidates++
			attack := s.Scores.Evaluate(board, x, y, s.AI)
			block := s.Scores.Evaluate(board, x, y, opponent)
			score := max(attack, block)
			candidate := Move{X: x, Y: y, Player: s.AI}
			if !found || score > bestScore || (score == bestScore && closerToCenter(board, candidate, best)) {
				best = candidate
				bestScore = score
				found = true
			}
		}
	}
	return best, found
}

func (s *Searcher) chooseByMinimax(ctx context.Context, board *Board, history *MoveHistory, depth int, randomTies bool) (Move, bool) {
	best := Move{}
	bestScore := math.MinInt
	var ties []Move
	found := false
	size := board.Size()
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			if board.At(x, y) != CellEmpty {
				continue
			}
			if ctx.Err() != nil {
				return s.pickRoot(best, ties, found, randomTies)
			}
			s.Stats.RootCandidates++
			score := s.probe(board, history, x, y, s.AI, func() int {
				return s.minimax(board, depth, false, math.MinInt, math.MaxInt)
			})
			candidate := Move{X: x, Y: y, Player: s.AI}
			switch {
			case !found || score > bestScore:
				best = candidate
				bestScore = score
				ties = append(ties[:0], candidate)
				found = true
			case score == bestScore:
				ties = append(ties, candidate)
				if closerToCenter(board, candidate, best) {
					best = candidate
				}
			}
		}
	}
	return s.pickRoot(best, ties, found, randomTies)
}

func (s *Searcher) pickRoot(best Move, ties []Move, found, randomTies bool) (Move, bool) {
	s.Stats.Ties = len(ties)
	if !found || !randomTies || len(ties) < 2 {
		return best, found
	}
	rng := s.Rand
	if rng == nil {
		rng = NewRand(time.Now().UnixNano())
		s.Rand = rng
	}
	return ties[rng.Intn(len(ties))], true
}

// minimax scores the board for s.AI with alpha-beta pruning. The board is
// returned exactly as received.
func (s *Searcher) minimax(board *Board, depth int, maximizing bool, alpha, beta int) int {
	s.Stats.Nodes++
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
	size := board.Size()
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			if board.At(x, y) != CellEmpty {
				continue
			}
			expanded = true
			score := s.probe(board, nil, x, y, player, func() int {
				return s.minimax(board, depth-1, !maximizing, alpha, beta)
			})
			if maximizing {
				best = max(best, score)
				alpha = max(alpha, best)
			} else {
				best = min(best, score)
				beta = min(beta, best)
			}
			if beta <= alpha {
				s.Stats.Cutoffs++
				return best
			}
		}
	}
	if !expanded {
		return s.Scores.EvaluateBoard(board, s.AI)
	}
	return best
}

// speculation is a stone placed during search. undo must run on every
// exit path of the code that placed it.
type speculation struct {
	board   *Board
	history *MoveHistory
	x, y    int
}

func speculate(board *Board, history *MoveHistory, x, y int, player PlayerColor) speculation {
	board.Set(x, y, CellFromPlayer(player))
	if history != nil {
		history.Push(HistoryEntry{Move: Move{X: x, Y: y, Player: player}, IsAi: true})
	}
	return speculation{board: board, history: history, x: x, y: y}
}

func (s speculation) undo() {
	s.board.Remove(s.x, s.y)
	if s.history != nil {
		s.history.Pop()
	}
}

// probe places player's stone at (x, y), runs score, and takes the stone
// back even if score panics.
func (s *Searcher) probe(board *Board, history *MoveHistory, x, y int, player PlayerColor, score func() int) int {
	placed := speculate(board, history, x, y, player)
	defer placed.undo()
	return score()
}

// closerToCenter reports whether candidate is strictly nearer the centre
// than current, by Manhattan distance.
func closerToCenter(board *Board, candidate, current Move) bool {
	return centerDistance(board, candidate) < centerDistance(board, current)
}

func centerDistance(board *Board, move Move) int {
	center := board.Center()
	return abs(move.X-center) + abs(move.Y-center)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func logSearchStats(level Difficulty, stats SearchStats, move Move, ok bool) {
	event := log.Debug().
		Str("difficulty", level.String()).
		Int64("nodes", stats.Nodes).
		Int64("cutoffs", stats.Cutoffs).
		Int64("root_candidates", stats.RootCandidates).
		Int("ties", stats.Ties).
		Dur("elapsed", stats.Elapsed)
	if ok {
		event = event.Int("x", move.X).Int("y", move.Y)
	}
	event.Msg("ai search")
}
