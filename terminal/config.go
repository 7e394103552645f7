package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/adrg/xdg"

	"gomoku/internal/gomoku"
)

const (
	cfgFile  = "gomoku/config.json"
	saveFile = "gomoku/save.json"
	logFile  = "gomoku/terminal.log"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("config error: %s", e.err)
}

type ConfigColors struct {
	BoardColor        int `json:"board"`
	BlackColor        int `json:"black"`
	WhiteColor        int `json:"white"`
	LineColor         int `json:"line"`
	CursorColorBG     int `json:"cursor_bg"`
	LastPlayedColorBG int `json:"last_played_bg"`
	HintColorBG       int `json:"hint_bg"`
	WinningColorBG    int `json:"winning_bg"`
}

type ConfigSymbols struct {
	BlackStone  rune `json:"black"`
	WhiteStone  rune `json:"white"`
	BoardSquare rune `json:"board"`
	Hint        rune `json:"hint"`
}

type Theme struct {
	UseGridLines bool          `json:"use_grid_lines"`
	Colors       ConfigColors  `json:"colors"`
	Symbols      ConfigSymbols `json:"symbols"`
}

// GameConfig is the starting setup used when no flag overrides it.
type GameConfig struct {
	BoardSize    int    `json:"board_size"`
	Difficulty   int    `json:"difficulty"`
	AIMode       bool   `json:"ai_mode"`
	AIColor      string `json:"ai_color"`
	UndoLimit    int    `json:"undo_limit"`
	ThinkDelayMs int    `json:"think_delay_ms"`
}

type Config struct {
	Theme Theme      `json:"theme"`
	Game  GameConfig `json:"game"`
}

func DefaultConfig() Config {
	return Config{
		Theme: Theme{
			UseGridLines: true,
			Colors: ConfigColors{
				BoardColor:        180,
				BlackColor:        232,
				WhiteColor:        255,
				LineColor:         94,
				CursorColorBG:     4,
				LastPlayedColorBG: 2,
				HintColorBG:       3,
				WinningColorBG:    1,
			},
			Symbols: ConfigSymbols{
				BlackStone:  '●',
				WhiteStone:  '●',
				BoardSquare: '┼',
				Hint:        '*',
			},
		},
		Game: GameConfig{
			BoardSize:    gomoku.DefaultBoardSize,
			Difficulty:   int(gomoku.DefaultDifficulty),
			AIMode:       true,
			AIColor:      "white",
			UndoLimit:    gomoku.DefaultUndoLimit,
			ThinkDelayMs: 500,
		},
	}
}

// InitConfig loads the user config from the xdg config dirs, falling back to
// defaults when none exists.
func InitConfig() (*Config, error) {
	config := DefaultConfig()
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err == nil {
		if err := readCfgFile(absPath, &config); err != nil {
			return nil, err
		}
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	for _, r := range []rune{c.Theme.Symbols.BlackStone, c.Theme.Symbols.WhiteStone, c.Theme.Symbols.BoardSquare, c.Theme.Symbols.Hint} {
		if r < 32 || (r >= 127 && r <= 159) {
			return &InvalidConfig{"unicode characters 1-31 and 127-159 are not allowed"}
		}
	}
	if c.Game.BoardSize < 5 || c.Game.BoardSize > 25 {
		return &InvalidConfig{fmt.Sprintf("board_size must be between 5 and 25, got %d", c.Game.BoardSize)}
	}
	if !gomoku.Difficulty(c.Game.Difficulty).Valid() {
		return &InvalidConfig{fmt.Sprintf("difficulty must be 1, 2 or 3, got %d", c.Game.Difficulty)}
	}
	if _, err := gomoku.ParsePlayerColor(c.Game.AIColor); err != nil {
		return &InvalidConfig{err.Error()}
	}
	if c.Game.UndoLimit < 1 {
		return &InvalidConfig{"undo_limit must be at least 1"}
	}
	if c.Game.ThinkDelayMs < 0 {
		return &InvalidConfig{"think_delay_ms must not be negative"}
	}
	return nil
}

// Settings converts the game section into controller settings.
func (c *Config) Settings() gomoku.GameSettings {
	aiColor, err := gomoku.ParsePlayerColor(c.Game.AIColor)
	if err != nil {
		aiColor = gomoku.PlayerWhite
	}
	return gomoku.GameSettings{
		BoardSize:  c.Game.BoardSize,
		WinLength:  gomoku.DefaultWinLength,
		AIMode:     c.Game.AIMode,
		AIColor:    aiColor,
		Difficulty: gomoku.Difficulty(c.Game.Difficulty),
		UndoLimit:  c.Game.UndoLimit,
	}
}

// EngineConfig applies the terminal's preferences on top of the engine defaults.
func (c *Config) EngineConfig() gomoku.Config {
	cfg := gomoku.DefaultConfig()
	cfg.BoardSize = c.Game.BoardSize
	cfg.Difficulty = gomoku.Difficulty(c.Game.Difficulty)
	cfg.UndoLimit = c.Game.UndoLimit
	cfg.AiThinkDelayMs = c.Game.ThinkDelayMs
	return cfg
}

func (c *Config) Save() error {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return err
	}
	return saveCfgFile(absPath, c, 0664)
}

func saveCfgFile(filePath string, a interface{}, perm fs.FileMode) error {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, jsonData, perm)
}

func readCfgFile(filePath string, a interface{}) error {
	data, err := os.ReadFile(filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, a); err != nil {
		return &InvalidConfig{fmt.Sprintf("%s: %s", filePath, err)}
	}
	return nil
}

// saveGame writes the controller's snapshot to path.
func saveGame(controller *gomoku.GameController, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gomoku.WriteSnapshot(f, controller.Snapshot()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// loadGame replaces the controller's game with the snapshot stored at path.
func loadGame(controller *gomoku.GameController, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	snap, err := gomoku.ReadSnapshot(f)
	if err != nil {
		return err
	}
	return controller.Restore(snap)
}

func savePath() (string, error) {
	return xdg.DataFile(saveFile)
}

func logPath() (string, error) {
	return xdg.StateFile(logFile)
}
