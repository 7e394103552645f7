package main

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"gomoku/internal/gomoku"
)

const (
	styleBoard = iota
	styleBlack
	styleWhite
	styleLine
	styleCursor
	styleLastPlayed
	styleHint
	styleWinning
)

// boardView draws a GameController's board and tracks the cursor.
type boardView struct {
	Box        *tview.Box
	controller *gomoku.GameController
	status     *tview.TextView
	frame      *tview.Flex
	cfg        *Config
	styles     []tcell.Color
	selX       int
	selY       int
	message    string
}

func newBoardView(controller *gomoku.GameController, c *Config, status *tview.TextView) *boardView {
	b := &boardView{
		Box:        tview.NewBox(),
		controller: controller,
		status:     status,
	}
	b.SetConfig(c)
	b.ResetSelection()
	b.Box.SetDrawFunc(func(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
		b.draw(screen, x, y)
		size := b.controller.Settings().BoardSize
		return x, y, size*2 + 3, size + 1
	})
	return b
}

// newGameFrame lays the board out next to the status panel.
func newGameFrame(b *boardView) *tview.Flex {
	b.frame = tview.NewFlex().
		AddItem(b.Box, boardWidth(b.controller.Settings().BoardSize), 0, true).
		AddItem(b.status, 0, 1, false)
	return b.frame
}

// boardWidth is the pane width for a board: two columns per cell plus the
// row labels and the border gap.
func boardWidth(size int) int {
	return size*2 + 5
}

// fitFrame resizes the board pane after the board size changed.
func (b *boardView) fitFrame() {
	if b.frame != nil {
		b.frame.ResizeItem(b.Box, boardWidth(b.controller.Settings().BoardSize), 0)
	}
}

func (b *boardView) SetConfig(c *Config) {
	b.styles = []tcell.Color{
		tcell.PaletteColor(c.Theme.Colors.BoardColor),
		tcell.PaletteColor(c.Theme.Colors.BlackColor),
		tcell.PaletteColor(c.Theme.Colors.WhiteColor),
		tcell.PaletteColor(c.Theme.Colors.LineColor),
		tcell.PaletteColor(c.Theme.Colors.CursorColorBG),
		tcell.PaletteColor(c.Theme.Colors.LastPlayedColorBG),
		tcell.PaletteColor(c.Theme.Colors.HintColorBG),
		tcell.PaletteColor(c.Theme.Colors.WinningColorBG),
	}
	b.cfg = c
}

// ResetSelection puts the cursor on the last move, or the centre on an empty board.
func (b *boardView) ResetSelection() {
	state := b.controller.State()
	if state.HasLastMove {
		b.selX, b.selY = state.LastMove.X, state.LastMove.Y
		return
	}
	b.selX, b.selY = state.Board.Center(), state.Board.Center()
}

func (b *boardView) MoveSelection(h, v int) {
	b.selX, b.selY = moveSelection(b.selX, b.selY, h, v, b.controller.Settings().BoardSize)
}

func moveSelection(x, y, h, v, size int) (int, int) {
	nx, ny := x+h, y+v
	if nx < 0 || nx >= size || ny < 0 || ny >= size {
		return x, y
	}
	return nx, ny
}

func (b *boardView) PlayMove() {
	b.report(b.controller.PlaceStone(b.selX, b.selY), "")
}

func (b *boardView) UndoTurn() {
	n, err := b.controller.UndoTurn()
	b.report(err, fmt.Sprintf("undid %d move(s)", n))
	if err == nil {
		b.ResetSelection()
	}
}

func (b *boardView) ShowHint() {
	move, err := b.controller.Hint()
	if err == nil {
		b.selX, b.selY = move.X, move.Y
	}
	b.report(err, fmt.Sprintf("hint: %d,%d", move.X, move.Y))
}

func (b *boardView) Resign() {
	b.report(b.controller.Surrender(), "")
}

func (b *boardView) SetDifficulty(level gomoku.Difficulty) {
	b.report(b.controller.SetDifficulty(level), "difficulty "+level.String())
}

func (b *boardView) NewGame() {
	b.controller.Reset(b.controller.Settings())
	b.fitFrame()
	b.ResetSelection()
	b.report(nil, "new game")
}

func (b *boardView) Save(path string) {
	b.report(saveGame(b.controller, path), "saved to "+path)
}

func (b *boardView) Load(path string) {
	err := loadGame(b.controller, path)
	if err == nil {
		b.fitFrame()
		b.ResetSelection()
	}
	b.report(err, "loaded "+path)
}

func (b *boardView) report(err error, ok string) {
	if err != nil {
		b.message = err.Error()
	} else {
		b.message = ok
	}
	b.refreshStatus()
}

func (b *boardView) refreshStatus() {
	b.status.SetText(statusText(b.controller.State(), b.controller.Settings(), b.controller.AiThinking(), b.message))
}

func statusText(state gomoku.GameState, settings gomoku.GameSettings, thinking bool, message string) string {
	var sb strings.Builder
	mode := "human vs human"
	if settings.AIMode {
		mode = fmt.Sprintf("vs AI (%s, %s)", settings.AIColor, settings.Difficulty)
	}
	fmt.Fprintf(&sb, "  %s\n\n", mode)

	switch {
	case state.IsOver():
		result := "draw"
		if winner, ok := state.Winner(); ok {
			result = winner.String() + " wins"
			if state.WinReason != "" {
				result += " by " + state.WinReason
			}
		}
		fmt.Fprintf(&sb, "  Game over: %s\n", result)
	case thinking:
		sb.WriteString("  AI is thinking...\n")
	default:
		fmt.Fprintf(&sb, "  %s to move\n", state.ToMove)
	}
	if message != "" {
		fmt.Fprintf(&sb, "  %s\n", message)
	}
	sb.WriteString(`
  hjkl/arrows move   enter play
  u undo   t hint   r resign
  s save   o load   n new
  1-3 difficulty     q quit`)
	return sb.String()
}

func (b *boardView) draw(screen tcell.Screen, left, top int) {
	state := b.controller.State()
	size := state.Board.Size()
	winning := make(map[[2]int]bool, len(state.WinningLine))
	for _, m := range state.WinningLine {
		winning[[2]int{m.X, m.Y}] = true
	}

	for y := 0; y < size; y++ {
		screen.SetContent(left, top+y, rune('a'+y), nil, tcell.StyleDefault)
		for x := 0; x < size; x++ {
			cell := state.Board.At(x, y)
			fg := b.styles[styleLine]
			bg := b.styles[styleBoard]
			r := b.emptyRune(x, y, size)
			switch cell {
			case gomoku.CellBlack:
				r, fg = b.cfg.Theme.Symbols.BlackStone, b.styles[styleBlack]
			case gomoku.CellWhite:
				r, fg = b.cfg.Theme.Symbols.WhiteStone, b.styles[styleWhite]
			}
			switch {
			case x == b.selX && y == b.selY:
				bg = b.styles[styleCursor]
			case winning[[2]int{x, y}]:
				bg = b.styles[styleWinning]
			case state.HasHint && state.Hint.X == x && state.Hint.Y == y:
				bg = b.styles[styleHint]
				if cell == gomoku.CellEmpty {
					r = b.cfg.Theme.Symbols.Hint
				}
			case state.HasLastMove && state.LastMove.X == x && state.LastMove.Y == y:
				bg = b.styles[styleLastPlayed]
			}
			style := tcell.StyleDefault.Background(bg).Foreground(fg)
			connector := ' '
			if b.cfg.Theme.UseGridLines && cell == gomoku.CellEmpty && x < size-1 && state.Board.At(x+1, y) == gomoku.CellEmpty {
				connector = '─'
			}
			screen.SetContent(left+2+x*2, top+y, r, nil, style)
			screen.SetContent(left+3+x*2, top+y, connector, nil, style)
		}
	}
	for x := 0; x < size; x++ {
		screen.SetContent(left+2+x*2, top+size, rune('a'+x), nil, tcell.StyleDefault)
	}
}

func (b *boardView) emptyRune(x, y, size int) rune {
	if !b.cfg.Theme.UseGridLines {
		return b.cfg.Theme.Symbols.BoardSquare
	}
	return gridRune(x, y, size)
}

func gridRune(x, y, size int) rune {
	top, bottom := y == 0, y == size-1
	left, right := x == 0, x == size-1
	switch {
	case top && left:
		return '┌'
	case top && right:
		return '┐'
	case bottom && left:
		return '└'
	case bottom && right:
		return '┘'
	case top:
		return '┬'
	case bottom:
		return '┴'
	case left:
		return '├'
	case right:
		return '┤'
	default:
		return '┼'
	}
}
