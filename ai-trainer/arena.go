package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"gomoku/internal/gomoku"
)

type arenaConfig struct {
	Games        int
	BoardSize    int
	TierA        gomoku.Difficulty
	TierB        gomoku.Difficulty
	Workers      int
	EloK         float64
	Seed         int64
	OpeningPlies int
	Scores       gomoku.ScoreTable
}

type openingMove struct {
	X int
	Y int
}

// gameResult is one finished game. Winner is nil on a draw.
type gameResult struct {
	Index    int                 `json:"index"`
	Black    string              `json:"black"`
	White    string              `json:"white"`
	Winner   *gomoku.PlayerColor `json:"winner,omitempty"`
	Moves    int                 `json:"moves"`
	Duration time.Duration       `json:"duration_ns"`
}

// resultForA scores the game from tier A's side: 1 win, 0.5 draw, 0 loss.
func (r gameResult) resultForA(aName string) float64 {
	if r.Winner == nil {
		return 0.5
	}
	winnerName := r.Black
	if *r.Winner == gomoku.PlayerWhite {
		winnerName = r.White
	}
	if winnerName == aName {
		return 1
	}
	return 0
}

type contender struct {
	ID    string  `json:"id"`
	Level string  `json:"level"`
	Elo   float64 `json:"elo"`
	Wins  int     `json:"wins"`
}

type arenaReport struct {
	Running     bool         `json:"running"`
	GamesPlayed int          `json:"games_played"`
	GamesTotal  int          `json:"games_total"`
	Draws       int          `json:"draws"`
	Standings   []contender  `json:"standings"`
	Results     []gameResult `json:"results,omitempty"`
}

type arena struct {
	cfg arenaConfig

	statusMu sync.RWMutex
	status   arenaReport
}

func newArena(cfg arenaConfig) *arena {
	return &arena{
		cfg: cfg,
		status: arenaReport{
			GamesTotal: cfg.Games,
			Standings:  initialStandings(cfg),
		},
	}
}

// initialStandings names the tiers A and B so they stay apart when both
// play at the same level.
func initialStandings(cfg arenaConfig) []contender {
	return []contender{
		{ID: "A", Level: cfg.TierA.String(), Elo: 1500},
		{ID: "B", Level: cfg.TierB.String(), Elo: 1500},
	}
}

func (a *arena) getStatus() arenaReport {
	a.statusMu.RLock()
	defer a.statusMu.RUnlock()
	out := a.status
	out.Standings = append([]contender(nil), a.status.Standings...)
	out.Results = append([]gameResult(nil), a.status.Results...)
	return out
}

func (a *arena) updateStatus(mutator func(*arenaReport)) {
	a.statusMu.Lock()
	defer a.statusMu.Unlock()
	mutator(&a.status)
}

// Run plays every game with at most Workers in flight. Elo is applied in
// game order once all games finish so the result does not depend on
// scheduling.
func (a *arena) Run(ctx context.Context) (arenaReport, error) {
	openings := buildOpeningSuite(a.cfg.BoardSize, a.cfg.OpeningPlies, a.cfg.Games, a.cfg.Seed)
	results := make([]gameResult, a.cfg.Games)
	a.updateStatus(func(s *arenaReport) { s.Running = true })

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Workers)
	for i := 0; i < a.cfg.Games; i++ {
		i := i
		g.Go(func() error {
			result, err := a.playGame(gctx, i, openings[i/2])
			if err != nil {
				return err
			}
			results[i] = result
			a.updateStatus(func(s *arenaReport) {
				s.GamesPlayed++
				if result.Winner == nil {
					s.Draws++
				}
			})
			log.Debug().
				Int("game", i).
				Str("black", result.Black).
				Str("white", result.White).
				Str("outcome", outcome(result)).
				Int("moves", result.Moves).
				Dur("duration", result.Duration).
				Msg("game finished")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		a.updateStatus(func(s *arenaReport) { s.Running = false })
		return a.getStatus(), err
	}

	standings := initialStandings(a.cfg)
	for _, result := range results {
		score := result.resultForA("A")
		updateElo(&standings[0], &standings[1], score, a.cfg.EloK)
		switch score {
		case 1:
			standings[0].Wins++
		case 0:
			standings[1].Wins++
		}
	}
	sortContendersByElo(standings)
	a.updateStatus(func(s *arenaReport) {
		s.Running = false
		s.Standings = standings
		s.Results = results
	})
	return a.getStatus(), nil
}

// playGame plays game index. Colours alternate so each opening is played
// once with tier A as black and once as white.
func (a *arena) playGame(ctx context.Context, index int, opening []openingMove) (gameResult, error) {
	start := time.Now()
	aBlack := index%2 == 0
	levels := map[gomoku.PlayerColor]gomoku.Difficulty{
		gomoku.PlayerBlack: a.cfg.TierB,
		gomoku.PlayerWhite: a.cfg.TierA,
	}
	names := map[gomoku.PlayerColor]string{gomoku.PlayerBlack: "B", gomoku.PlayerWhite: "A"}
	if aBlack {
		levels[gomoku.PlayerBlack], levels[gomoku.PlayerWhite] = a.cfg.TierA, a.cfg.TierB
		names[gomoku.PlayerBlack], names[gomoku.PlayerWhite] = "A", "B"
	}
	result := gameResult{Index: index, Black: names[gomoku.PlayerBlack], White: names[gomoku.PlayerWhite]}

	rng := rand.New(rand.NewSource(a.cfg.Seed + int64(index)))
	searchers := map[gomoku.PlayerColor]*gomoku.Searcher{
		gomoku.PlayerBlack: gomoku.NewSearcher(gomoku.PlayerBlack, a.cfg.Scores, rng),
		gomoku.PlayerWhite: gomoku.NewSearcher(gomoku.PlayerWhite, a.cfg.Scores, rng),
	}
	board := gomoku.NewBoard(a.cfg.BoardSize)
	history := gomoku.MoveHistory{}
	rules := gomoku.NewRules(gomoku.GameSettings{BoardSize: a.cfg.BoardSize})
	toMove := gomoku.PlayerBlack

	play := func(move gomoku.Move) bool {
		board.Set(move.X, move.Y, gomoku.CellFromPlayer(move.Player))
		history.Push(gomoku.HistoryEntry{Move: move, IsAi: true})
		toMove = move.Player.Opponent()
		return rules.IsWin(&board, move)
	}

	for _, m := range opening {
		if play(gomoku.NewMove(m.X, m.Y, toMove)) {
			return result, fmt.Errorf("opening %v already wins", opening)
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if rules.IsDraw(&board) {
			break
		}
		move, ok := searchers[toMove].ChooseMove(ctx, &board, &history, levels[toMove])
		if !ok {
			break
		}
		if !board.IsEmpty(move.X, move.Y) {
			return result, fmt.Errorf("%s chose occupied cell %s", levels[toMove], move)
		}
		mover := toMove
		if play(move) {
			result.Winner = &mover
			break
		}
	}
	result.Moves = history.Size()
	result.Duration = time.Since(start)
	return result, nil
}

func outcome(r gameResult) string {
	if r.Winner == nil {
		return "draw"
	}
	return r.Winner.String()
}

// buildOpeningSuite returns one short opening per pair of games, picked
// from cells near the centre.
func buildOpeningSuite(boardSize, plies, games int, seed int64) [][]openingMove {
	rng := rand.New(rand.NewSource(int64(boardSize*97+plies*13) + seed))
	center := (boardSize - 1) / 2
	offsets := []openingMove{
		{0, 0}, {1, 0}, {0, 1}, {-1, 0}, {0, -1}, {1, 1}, {-1, -1}, {1, -1}, {-1, 1}, {2, 0}, {0, 2},
	}
	plies = min(plies, len(offsets))
	count := (games + 1) / 2
	suite := make([][]openingMove, 0, count)
	for i := 0; i < count; i++ {
		used := map[[2]int]bool{}
		opening := make([]openingMove, 0, plies)
		for len(opening) < plies {
			off := offsets[rng.Intn(len(offsets))]
			x := center + off.X
			y := center + off.Y
			if x < 0 || y < 0 || x >= boardSize || y >= boardSize {
				continue
			}
			key := [2]int{x, y}
			if used[key] {
				continue
			}
			used[key] = true
			opening = append(opening, openingMove{X: x, Y: y})
		}
		suite = append(suite, opening)
	}
	return suite
}

func sortContendersByElo(list []contender) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Elo > list[j].Elo
	})
}

func updateElo(a *contender, b *contender, resultForA float64, k float64) {
	expA := 1.0 / (1.0 + math.Pow(10, (b.Elo-a.Elo)/400.0))
	expB := 1.0 / (1.0 + math.Pow(10, (a.Elo-b.Elo)/400.0))
	a.Elo += k * (resultForA - expA)
	b.Elo += k * ((1.0 - resultForA) - expB)
}
