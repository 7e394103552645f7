package gomoku

import (
	"fmt"
	"sync"
)

// DefaultUndoLimit caps how many plies a single undo may take back.
const DefaultUndoLimit = 10

type Config struct {
	BoardSize        int        `json:"board_size"`
	WinLength        int        `json:"win_length"`
	UndoLimit        int        `json:"undo_limit"`
	Difficulty       Difficulty `json:"difficulty"`
	AiThinkDelayMs   int        `json:"ai_think_delay_ms"`
	AiLogSearchStats bool       `json:"ai_log_search_stats"`
	Scores           ScoreTable `json:"scores"`
}

type ConfigStore struct {
	mu     sync.RWMutex
	config Config
}

func DefaultConfig() Config {
	return Config{
		BoardSize:  DefaultBoardSize,
		WinLength:  DefaultWinLength,
		UndoLimit:  DefaultUndoLimit,
		Difficulty: DefaultDifficulty,
		// Gives front ends time to render the human stone first.
		AiThinkDelayMs:   500,
		AiLogSearchStats: false,
		Scores:           DefaultScoreTable(),
	}
}

// Validate rejects values the engine cannot play with. Zero score weights
// are allowed and fall back to the defaults.
func (c Config) Validate() error {
	if c.BoardSize < 5 || c.BoardSize > 25 {
		return fmt.Errorf("board_size %d outside 5..25", c.BoardSize)
	}
	if c.WinLength < 3 || c.WinLength > c.BoardSize {
		return fmt.Errorf("win_length %d outside 3..%d", c.WinLength, c.BoardSize)
	}
	if c.UndoLimit < 1 {
		return fmt.Errorf("undo_limit %d must be positive", c.UndoLimit)
	}
	if !c.Difficulty.Valid() {
		return fmt.Errorf("config difficulty %d: %w", c.Difficulty, ErrInvalidDifficulty)
	}
	if c.AiThinkDelayMs < 0 {
		return fmt.Errorf("ai_think_delay_ms %d must not be negative", c.AiThinkDelayMs)
	}
	return nil
}

var configStore = &ConfigStore{config: DefaultConfig()}

func GetConfig() Config {
	return configStore.Get()
}

// UpdateConfig validates and installs cfg as the process-wide config.
func UpdateConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	configStore.Update(cfg)
	return nil
}

func (c *ConfigStore) Get() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

func (c *ConfigStore) Update(newConfig Config) {
	c.mu.Lock()
	c.config = newConfig
	c.mu.Unlock()
}
