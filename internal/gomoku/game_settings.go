package gomoku

type GameSettings struct {
	BoardSize  int         `json:"board_size"`
	WinLength  int         `json:"win_length"`
	AIMode     bool        `json:"ai_mode"`
	AIColor    PlayerColor `json:"ai_color"`
	Difficulty Difficulty  `json:"difficulty"`
	UndoLimit  int         `json:"undo_limit"`
}

// DefaultGameSettings is a human playing black against a medium AI.
func DefaultGameSettings() GameSettings {
	return GameSettingsFromConfig(DefaultConfig())
}

func GameSettingsFromConfig(cfg Config) GameSettings {
	return GameSettings{
		BoardSize:  cfg.BoardSize,
		WinLength:  cfg.WinLength,
		AIMode:     true,
		AIColor:    PlayerWhite,
		Difficulty: cfg.Difficulty,
		UndoLimit:  cfg.UndoLimit,
	}
}

// normalized fills unset fields so a zero-valued settings struct still
// describes a playable game.
func (s GameSettings) normalized() GameSettings {
	if s.BoardSize <= 0 {
		s.BoardSize = DefaultBoardSize
	}
	if s.WinLength <= 0 {
		s.WinLength = DefaultWinLength
	}
	if !s.Difficulty.Valid() {
		s.Difficulty = DefaultDifficulty
	}
	if s.UndoLimit <= 0 {
		s.UndoLimit = DefaultUndoLimit
	}
	return s
}

func (s GameSettings) isAI(color PlayerColor) bool {
	return s.AIMode && s.AIColor == color
}
