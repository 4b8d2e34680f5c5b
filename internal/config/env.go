package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Settings are the runtime knobs read from the Nakama env map (or the process
// environment for the simulator).
type Settings struct {
	BotsEnabled      bool   `env:"ludo_bots_enabled" envDefault:"true"`
	BotMinDelayTicks int    `env:"ludo_bot_min_delay_ticks" envDefault:"1"`
	BotMaxDelayTicks int    `env:"ludo_bot_max_delay_ticks" envDefault:"3"`
	LogLimit         int    `env:"ludo_log_limit" envDefault:"256"`
	GameConfigPath   string `env:"ludo_game_config" envDefault:"data/game_config.json"`
}

// ParseEnv loads configuration from the given environment map.
func ParseEnv(target any, environ map[string]string) error {
	if err := env.ParseWithOptions(target, env.Options{Environment: environ}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadSettings parses Settings and checks the bot delay window.
func LoadSettings(environ map[string]string) (Settings, error) {
	var s Settings
	if err := ParseEnv(&s, environ); err != nil {
		return Settings{}, err
	}
	if s.BotMinDelayTicks < 0 || s.BotMaxDelayTicks < s.BotMinDelayTicks {
		return Settings{}, fmt.Errorf("bot delay ticks: min %d max %d", s.BotMinDelayTicks, s.BotMaxDelayTicks)
	}
	return s, nil
}
