package main

import "gomoku/internal/gomoku"

type StatusResponse struct {
	Settings        GameSettingsDTO   `json:"settings"`
	Config          gomoku.Config     `json:"config"`
	Board           [][]int           `json:"board"`
	NextPlayer      int               `json:"next_player"`
	Winner          int               `json:"winner"`
	BoardSize       int               `json:"board_size"`
	Status          string            `json:"status"`
	History         []historyEntryDTO `json:"history"`
	WinReason       string            `json:"win_reason"`
	WinningLine     []apiMove         `json:"winning_line"`
	Hint            *apiMove          `json:"hint,omitempty"`
	AiThinking      bool              `json:"ai_thinking"`
	LastMessage     string            `json:"last_message,omitempty"`
	TurnStartedAtMs int64             `json:"turn_started_at_ms"`
}

// GameSettingsDTO is the settings shape the web front end sends to
// /api/start. Zero fields keep the current value.
type GameSettingsDTO struct {
	Mode        string `json:"mode"`
	HumanPlayer int    `json:"human_player"`
	Difficulty  int    `json:"difficulty"`
	BoardSize   int    `json:"board_size"`
	UndoLimit   int    `json:"undo_limit"`
}

type apiMove struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Player int `json:"player"`
}

type historyEntryDTO struct {
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Player    int     `json:"player"`
	ElapsedMs float64 `json:"elapsed_ms"`
	IsAi      bool    `json:"is_ai"`
}

type historyPayload struct {
	History []historyEntryDTO `json:"history"`
}

type settingsPayload struct {
	Settings GameSettingsDTO `json:"settings"`
	Config   gomoku.Config   `json:"config"`
}

func controllerStatus(controller *gomoku.GameController) StatusResponse {
	state := controller.State()
	settings := controller.Settings()
	status := StatusResponse{
		Settings:        controllerSettingsDTO(settings),
		Config:          gomoku.GetConfig(),
		Board:           boardToSlice(state.Board),
		NextPlayer:      playerToInt(state.ToMove),
		Winner:          winnerFromStatus(state.Status),
		BoardSize:       state.Board.Size(),
		Status:          state.Status.String(),
		History:         historyToDTO(controller.History()),
		WinReason:       state.WinReason,
		WinningLine:     movesToDTO(state.WinningLine),
		AiThinking:      controller.AiThinking(),
		LastMessage:     state.LastMessage,
		TurnStartedAtMs: controller.CurrentTurnStartedAtMs(),
	}
	if state.HasHint {
		hint := moveToDTO(state.Hint)
		status.Hint = &hint
	}
	return status
}

func settingsFromDTO(dto GameSettingsDTO, base gomoku.GameSettings) gomoku.GameSettings {
	settings := base
	switch dto.Mode {
	case "human_vs_human":
		settings.AIMode = false
	case "ai_vs_human":
		settings.AIMode = true
		if dto.HumanPlayer == 2 {
			settings.AIColor = gomoku.PlayerBlack
		} else {
			settings.AIColor = gomoku.PlayerWhite
		}
	}
	if dto.Difficulty != 0 {
		settings.Difficulty = gomoku.Difficulty(dto.Difficulty)
	}
	if dto.BoardSize != 0 {
		settings.BoardSize = dto.BoardSize
	}
	if dto.UndoLimit != 0 {
		settings.UndoLimit = dto.UndoLimit
	}
	return settings
}

func controllerSettingsDTO(settings gomoku.GameSettings) GameSettingsDTO {
	dto := GameSettingsDTO{
		Mode:        "human_vs_human",
		HumanPlayer: 1,
		Difficulty:  int(settings.Difficulty),
		BoardSize:   settings.BoardSize,
		UndoLimit:   settings.UndoLimit,
	}
	if settings.AIMode {
		dto.Mode = "ai_vs_human"
		dto.HumanPlayer = playerToInt(settings.AIColor.Opponent())
	}
	return dto
}

func boardToSlice(board gomoku.Board) [][]int {
	size := board.Size()
	rows := make([][]int, size)
	for y := 0; y < size; y++ {
		rows[y] = make([]int, size)
		for x := 0; x < size; x++ {
			rows[y][x] = cellToInt(board.At(x, y))
		}
	}
	return rows
}

func cellToInt(cell gomoku.Cell) int {
	switch cell {
	case gomoku.CellBlack:
		return 1
	case gomoku.CellWhite:
		return 2
	default:
		return 0
	}
}

func playerToInt(player gomoku.PlayerColor) int {
	if player == gomoku.PlayerBlack {
		return 1
	}
	return 2
}

func winnerFromStatus(status gomoku.GameStatus) int {
	switch status {
	case gomoku.StatusBlackWon:
		return 1
	case gomoku.StatusWhiteWon:
		return 2
	default:
		return 0
	}
}

func moveToDTO(move gomoku.Move) apiMove {
	return apiMove{X: move.X, Y: move.Y, Player: playerToInt(move.Player)}
}

func movesToDTO(moves []gomoku.Move) []apiMove {
	result := make([]apiMove, 0, len(moves))
	for _, move := range moves {
		result = append(result, moveToDTO(move))
	}
	return result
}

func historyToDTO(history gomoku.MoveHistory) []historyEntryDTO {
	entries := history.All()
	result := make([]historyEntryDTO, 0, len(entries))
	for _, entry := range entries {
		result = append(result, historyEntryToDTO(entry))
	}
	return result
}

func historyEntryToDTO(entry gomoku.HistoryEntry) historyEntryDTO {
	return historyEntryDTO{
		X:         entry.Move.X,
		Y:         entry.Move.Y,
		Player:    playerToInt(entry.Move.Player),
		ElapsedMs: entry.ElapsedMs,
		IsAi:      entry.IsAi,
	}
}
