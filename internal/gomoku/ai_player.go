package gomoku

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// AIPlayer runs searches for one colour, either inline through ChooseMove
// or on a background goroutine through StartThinking. Background searches
// always work on copies, never on the live board.
type AIPlayer struct {
	color      PlayerColor
	searcher   *Searcher
	moveMutex  sync.Mutex
	workerDone chan struct{}
	cancel     context.CancelFunc
	generation atomic.Uint64
	thinking   atomic.Bool
	moveReady  atomic.Bool
	readyMove  Move
	readyOK    bool
}

func NewAIPlayer(color PlayerColor, rng Rand) *AIPlayer {
	return &AIPlayer{
		color:    color,
		searcher: NewSearcher(color, DefaultScoreTable(), rng),
	}
}

func (a *AIPlayer) IsHuman() bool {
	return false
}

func (a *AIPlayer) Color() PlayerColor {
	return a.color
}

// ChooseMove searches synchronously on a copy of board and history. It must
// not be called while a background search is running.
func (a *AIPlayer) ChooseMove(ctx context.Context, board Board, history MoveHistory, level Difficulty) (Move, bool) {
	a.configureSearcher(GetConfig())
	boardCopy := board.Clone()
	historyCopy := history.Clone()
	return a.searcher.ChooseMove(ctx, &boardCopy, &historyCopy, level)
}

// StartThinking launches a background search. The result becomes
// available through HasMoveReady and TakeMove no sooner than delay after
// the call.
func (a *AIPlayer) StartThinking(board Board, history MoveHistory, level Difficulty) {
	if a.thinking.Load() {
		return
	}
	if a.workerDone != nil {
		<-a.workerDone
	}
	config := GetConfig()
	a.configureSearcher(config)
	delay := time.Duration(config.AiThinkDelayMs) * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	gen := a.generation.Load()
	a.thinking.Store(true)
	a.moveReady.Store(false)

	boardCopy := board.Clone()
	historyCopy := history.Clone()
	done := make(chan struct{})
	a.workerDone = done
	go func() {
		defer close(done)
		defer a.thinking.Store(false)
		started := time.Now()
		move, ok := a.searcher.ChooseMove(ctx, &boardCopy, &historyCopy, level)
		if remaining := delay - time.Since(started); remaining > 0 {
			timer := time.NewTimer(remaining)
			select {
			case <-ctx.Done():
				timer.Stop()
			case <-timer.C:
			}
		}
		if ctx.Err() != nil {
			return
		}
		a.moveMutex.Lock()
		defer a.moveMutex.Unlock()
		if a.generation.Load() != gen {
			return
		}
		a.readyMove = move
		a.readyOK = ok
		a.moveReady.Store(true)
	}()
}

// StopThinking cancels a running search and discards any result it has
// not published yet. It does not wait for the worker to exit.
func (a *AIPlayer) StopThinking() {
	a.moveMutex.Lock()
	a.generation.Add(1)
	a.moveReady.Store(false)
	a.moveMutex.Unlock()
	if a.cancel != nil {
		a.cancel()
	}
}

// Wait blocks until the current background search, if any, has exited.
func (a *AIPlayer) Wait() {
	if a.workerDone != nil {
		<-a.workerDone
	}
}

func (a *AIPlayer) IsThinking() bool {
	return a.thinking.Load()
}

func (a *AIPlayer) HasMoveReady() bool {
	return a.moveReady.Load()
}

func (a *AIPlayer) TakeMove() (Move, bool) {
	a.moveMutex.Lock()
	defer a.moveMutex.Unlock()
	if !a.moveReady.Load() {
		return Move{}, false
	}
	a.moveReady.Store(false)
	return a.readyMove, a.readyOK
}

// LastStats returns the statistics of the most recent search. It must not
// be called while a background search is running.
func (a *AIPlayer) LastStats() SearchStats {
	return a.searcher.Stats
}

func (a *AIPlayer) setRand(rng Rand) {
	a.searcher.Rand = rng
}

func (a *AIPlayer) configureSearcher(config Config) {
	a.searcher.Scores = config.Scores.resolved()
	a.searcher.LogStats = config.AiLogSearchStats
}
