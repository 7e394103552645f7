package gomoku

import (
	"fmt"
	"strings"
)

type PlayerColor int

type GameStatus int

const (
	PlayerBlack PlayerColor = iota
	PlayerWhite
)

const (
	StatusRunning GameStatus = iota
	StatusBlackWon
	StatusWhiteWon
	StatusDraw
)

// GameState is the externally visible part of a game. Callers always get a
// clone, so they can read it without holding any lock.
type GameState struct {
	Board       Board
	ToMove      PlayerColor
	Status      GameStatus
	HasLastMove bool
	LastMove    Move
	WinningLine []Move
	WinReason   string
	HasHint     bool
	Hint        Move
	LastMessage string
}

func DefaultGameState(settings GameSettings) GameState {
	state := GameState{}
	state.Reset(settings)
	return state
}

func (s *GameState) Reset(settings GameSettings) {
	s.Board = NewBoard(settings.BoardSize)
	s.ToMove = PlayerBlack
	s.Status = StatusRunning
	s.HasLastMove = false
	s.LastMove = Move{X: -1, Y: -1}
	s.WinningLine = nil
	s.WinReason = ""
	s.HasHint = false
	s.Hint = Move{}
	s.LastMessage = ""
}

func (s GameState) Clone() GameState {
	clone := s
	clone.Board = s.Board.Clone()
	clone.WinningLine = append([]Move(nil), s.WinningLine...)
	return clone
}

func (s GameState) IsOver() bool {
	return s.Status != StatusRunning
}

// Winner reports the winning colour, if any.
func (s GameState) Winner() (PlayerColor, bool) {
	switch s.Status {
	case StatusBlackWon:
		return PlayerBlack, true
	case StatusWhiteWon:
		return PlayerWhite, true
	default:
		return PlayerBlack, false
	}
}

func wonStatus(player PlayerColor) GameStatus {
	if player == PlayerBlack {
		return StatusBlackWon
	}
	return StatusWhiteWon
}

func otherPlayer(player PlayerColor) PlayerColor {
	if player == PlayerBlack {
		return PlayerWhite
	}
	return PlayerBlack
}

// Opponent returns the other colour.
func (p PlayerColor) Opponent() PlayerColor {
	return otherPlayer(p)
}

func (p PlayerColor) String() string {
	if p == PlayerWhite {
		return "white"
	}
	return "black"
}

func ParsePlayerColor(value string) (PlayerColor, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "black", "b":
		return PlayerBlack, nil
	case "white", "w":
		return PlayerWhite, nil
	default:
		return PlayerBlack, fmt.Errorf("unknown player colour %q", value)
	}
}

func (p PlayerColor) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *PlayerColor) UnmarshalText(text []byte) error {
	parsed, err := ParsePlayerColor(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (s GameStatus) String() string {
	switch s {
	case StatusBlackWon:
		return "black_won"
	case StatusWhiteWon:
		return "white_won"
	case StatusDraw:
		return "draw"
	default:
		return "running"
	}
}

func ParseGameStatus(value string) (GameStatus, error) {
	switch value {
	case "running":
		return StatusRunning, nil
	case "black_won":
		return StatusBlackWon, nil
	case "white_won":
		return StatusWhiteWon, nil
	case "draw":
		return StatusDraw, nil
	default:
		return StatusRunning, fmt.Errorf("unknown game status %q", value)
	}
}
