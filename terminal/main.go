// Command terminal plays Gomoku in the terminal against the built-in AI or a
// second human at the same keyboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gomoku/internal/gomoku"
)

var (
	flagBoardSize  = flag.Int("boardsize", 0, "Board size (5 to 25)")
	flagDifficulty = flag.String("difficulty", "", "AI difficulty (easy, medium, hard or 1-3)")
	flagAIColor    = flag.String("ai", "", "AI colour (black or white)")
	flagPvP        = flag.Bool("pvp", false, "Two humans share the keyboard")
	flagSeed       = flag.Int64("seed", 0, "Seed for the AI's tie-breaks (0 uses the clock)")
	flagDebug      = flag.Bool("debug", false, "Log search statistics")
)

const tickInterval = 50 * time.Millisecond

func main() {
	flag.Parse()

	cfg, err := InitConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := applyFlags(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	closeLog := setupLogging(*flagDebug)
	defer closeLog()

	engineCfg := cfg.EngineConfig()
	engineCfg.AiLogSearchStats = *flagDebug
	if err := gomoku.UpdateConfig(engineCfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	controller := gomoku.NewGameController(cfg.Settings())
	seed := *flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	controller.SetRand(gomoku.NewRand(seed))

	if err := run(controller, cfg); err != nil {
		log.Error().Err(err).Msg("terminal exited")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func applyFlags(cfg *Config) error {
	if *flagBoardSize != 0 {
		cfg.Game.BoardSize = *flagBoardSize
	}
	if *flagDifficulty != "" {
		level, err := gomoku.ParseDifficulty(*flagDifficulty)
		if err != nil {
			return err
		}
		cfg.Game.Difficulty = int(level)
	}
	if *flagAIColor != "" {
		cfg.Game.AIColor = *flagAIColor
		cfg.Game.AIMode = true
	}
	if *flagPvP {
		cfg.Game.AIMode = false
	}
	return cfg.Validate()
}

// setupLogging sends zerolog output to a file so it never draws over the UI.
func setupLogging(debug bool) func() {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	path, err := logPath()
	if err != nil {
		log.Logger = zerolog.Nop()
		return func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		log.Logger = zerolog.Nop()
		return func() {}
	}
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	return func() { f.Close() }
}

func run(controller *gomoku.GameController, cfg *Config) error {
	app := tview.NewApplication()
	rootPage := tview.NewPages()
	rootPage.SetBorder(true).SetTitle(" gomoku ")

	status := tview.NewTextView()
	status.SetBorder(true)
	status.SetBorderPadding(0, 0, 1, 1)
	status.SetTitle(" Status ")
	status.SetTitleAlign(tview.AlignLeft)

	board := newBoardView(controller, cfg, status)
	board.refreshStatus()

	gameFrame := newGameFrame(board)

	board.Box.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if handleKey(app, board, event) {
			return nil
		}
		return event
	})

	rootPage.AddPage("gameview", gameFrame, true, true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go tickLoop(ctx, app, board)

	log.Info().
		Int("board_size", controller.Settings().BoardSize).
		Bool("ai_mode", controller.Settings().AIMode).
		Str("difficulty", controller.Settings().Difficulty.String()).
		Msg("terminal started")
	return app.SetRoot(rootPage, true).Run()
}

// handleKey applies one key press and reports whether it was consumed.
func handleKey(app *tview.Application, board *boardView, event *tcell.EventKey) bool {
	switch event.Key() {
	case tcell.KeyUp:
		board.MoveSelection(0, -1)
	case tcell.KeyDown:
		board.MoveSelection(0, 1)
	case tcell.KeyLeft:
		board.MoveSelection(-1, 0)
	case tcell.KeyRight:
		board.MoveSelection(1, 0)
	case tcell.KeyEnter:
		board.PlayMove()
	case tcell.KeyRune:
		return handleRune(app, board, event.Rune())
	default:
		return false
	}
	return true
}

func handleRune(app *tview.Application, board *boardView, r rune) bool {
	switch r {
	case 'h':
		board.MoveSelection(-1, 0)
	case 'j':
		board.MoveSelection(0, 1)
	case 'k':
		board.MoveSelection(0, -1)
	case 'l':
		board.MoveSelection(1, 0)
	case ' ':
		board.PlayMove()
	case 'u':
		board.UndoTurn()
	case 't':
		board.ShowHint()
	case 'r':
		board.Resign()
	case 'n':
		board.NewGame()
	case '1', '2', '3':
		board.SetDifficulty(gomoku.Difficulty(r - '0'))
	case 's', 'o':
		path, err := savePath()
		if err != nil {
			board.report(err, "")
			return true
		}
		if r == 's' {
			board.Save(path)
		} else {
			board.Load(path)
		}
	case 'q':
		app.Stop()
	default:
		return false
	}
	return true
}

// tickLoop drives AI turns and keeps the status panel current while the AI thinks.
func tickLoop(ctx context.Context, app *tview.Application, board *boardView) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	wasThinking := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			moved := board.controller.Tick()
			thinking := board.controller.AiThinking()
			if !moved && thinking == wasThinking {
				continue
			}
			wasThinking = thinking
			if moved {
				if entry, ok := board.controller.LatestHistoryEntry(); ok {
					log.Debug().
						Int("x", entry.Move.X).
						Int("y", entry.Move.Y).
						Float64("elapsed_ms", entry.ElapsedMs).
						Msg("ai move applied")
				}
			}
			app.QueueUpdateDraw(func() {
				if moved {
					board.message = ""
				}
				board.refreshStatus()
			})
		}
	}
}
