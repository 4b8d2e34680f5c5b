package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"ludo/internal/bot"
	"ludo/internal/domain"
)

// DefaultGameConfigPath is where the Nakama runtime looks for the board file.
const DefaultGameConfigPath = "data/game_config.json"

// GameConfig describes the table a new game is set up on.
type GameConfig struct {
	PlayerCount int                `json:"player_count"`
	Board       domain.BoardConfig `json:"board"`
	// BotLevel is the brain bot seats play with: first, random or smart.
	BotLevel string `json:"bot_level"`
}

// DefaultGameConfig is a classic four player board.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		PlayerCount: 4,
		Board: domain.BoardConfig{
			RingLength:        domain.ClassicRingLength,
			HomeStretchLength: domain.ClassicHomeStretchLength,
		},
		BotLevel: string(bot.BotLevelSmart),
	}
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path. Only the
// first call reads the file.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		c, err := ReadGameConfig(path)
		if err != nil {
			loadErr = err
			return
		}
		cfg = c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, or the defaults when
// none was loaded.
func GetGameConfig() GameConfig {
	if cfg == nil {
		return DefaultGameConfig()
	}
	return *cfg
}

// ReadGameConfig reads and validates a config file. Omitted fields keep their
// defaults.
func ReadGameConfig(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read game config: %w", err)
	}

	c := DefaultGameConfig()
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that a game can be started with the configuration.
func (c GameConfig) Validate() error {
	if _, err := domain.NewTopology(c.PlayerCount, c.Board); err != nil {
		return fmt.Errorf("game config: %w", err)
	}
	if _, err := bot.ParseBotLevel(c.BotLevel); err != nil {
		return fmt.Errorf("game config: %w", err)
	}
	return nil
}
