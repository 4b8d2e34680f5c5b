// Package ludosim plays bot-only games back to back and reports how each seat
// fared.
package ludosim

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"text/tabwriter"

	"ludo/internal/app"
	"ludo/internal/bot"
	"ludo/internal/config"
	"ludo/internal/domain"
	"ludo/internal/logging"
	"ludo/internal/random"

	"github.com/heroiclabs/nakama-common/runtime"
)

// Config holds simulator configuration.
type Config struct {
	Players    int    `env:"LUDO_SIM_PLAYERS"`
	Games      int    `env:"LUDO_SIM_GAMES"     envDefault:"100"`
	Seed       int64  `env:"LUDO_SIM_SEED"`
	Brain      string `env:"LUDO_SIM_BRAIN"`
	MaxTurns   int    `env:"LUDO_SIM_MAX_TURNS" envDefault:"5000"`
	ConfigPath string `env:"LUDO_SIM_CONFIG"`
	Verbose    bool   `env:"LUDO_SIM_VERBOSE"`
}

// ParseConfig parses the environment and then flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg, nil); err != nil {
		return Config{}, err
	}

	fs.IntVar(&cfg.Players, "players", cfg.Players, "players per game, 2 or 4 (0 uses the game config)")
	fs.IntVar(&cfg.Games, "games", cfg.Games, "number of games to play")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed (0 picks one)")
	fs.StringVar(&cfg.Brain, "brain", cfg.Brain, "bot level: first, random or smart (empty uses the game config)")
	fs.IntVar(&cfg.MaxTurns, "max-turns", cfg.MaxTurns, "turns after which a game is abandoned")
	fs.StringVar(&cfg.ConfigPath, "config", cfg.ConfigPath, "path to a game config JSON file")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "log every move")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.Games < 1 {
		return Config{}, fmt.Errorf("games must be positive, got %d", cfg.Games)
	}
	if cfg.MaxTurns < 1 {
		return Config{}, fmt.Errorf("max-turns must be positive, got %d", cfg.MaxTurns)
	}
	return cfg, nil
}

// Summary is the outcome of a simulation run.
type Summary struct {
	Seed       int64
	Players    []domain.PlayerID
	Wins       map[domain.PlayerID]int
	Games      int
	Unfinished int
	Rolls      int
}

// AverageRolls is the mean number of rolls per game.
func (s Summary) AverageRolls() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Rolls) / float64(s.Games)
}

// Run executes the simulator command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}

	logger := logging.NewConsole(errOut, cfg.Verbose)
	defer logger.Sync()

	summary, err := Simulate(ctx, cfg, logger)
	if err != nil {
		return err
	}
	return printSummary(out, summary)
}

// Simulate plays cfg.Games games. The same seed and config always produce
// the same summary.
func Simulate(ctx context.Context, cfg Config, logger runtime.Logger) (Summary, error) {
	gc := config.DefaultGameConfig()
	if cfg.ConfigPath != "" {
		loaded, err := config.ReadGameConfig(cfg.ConfigPath)
		if err != nil {
			return Summary{}, err
		}
		gc = *loaded
	}
	if cfg.Players != 0 {
		gc.PlayerCount = cfg.Players
	}
	if cfg.Brain != "" {
		gc.BotLevel = cfg.Brain
	}
	if err := gc.Validate(); err != nil {
		return Summary{}, err
	}
	level, err := bot.ParseBotLevel(gc.BotLevel)
	if err != nil {
		return Summary{}, err
	}

	diceRng, seed, err := random.NewRand(cfg.Seed)
	if err != nil {
		return Summary{}, err
	}
	brainRng := rand.New(rand.NewSource(seed + 1))
	roller := app.NewRandRoller(diceRng)
	logger.Info("Simulate: seed=%d players=%d games=%d brain=%s", seed, gc.PlayerCount, cfg.Games, level)

	summary := Summary{Seed: seed, Wins: make(map[domain.PlayerID]int)}
	for game := 0; game < cfg.Games; game++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		board := gc.Board
		ctrl, err := app.NewController(gc.PlayerCount, &board,
			app.WithDice(roller),
			app.WithLogger(logger.WithField("game", game)),
		)
		if err != nil {
			return summary, err
		}
		agents := make(map[domain.PlayerID]*bot.Agent, gc.PlayerCount)
		for _, p := range ctrl.State().Players {
			brain, err := bot.NewBrain(level, brainRng)
			if err != nil {
				return summary, err
			}
			agents[p.ID] = &bot.Agent{ID: p.ID, Brain: brain}
			if game == 0 {
				summary.Players = append(summary.Players, p.ID)
			}
		}

		rolls, err := playGame(ctrl, agents, cfg.MaxTurns)
		summary.Rolls += rolls
		summary.Games++
		if err != nil {
			return summary, fmt.Errorf("game %d: %w", game, err)
		}

		st := ctrl.State()
		if !st.HasWinner() {
			summary.Unfinished++
			logger.Warn("Simulate: game %d abandoned after %d turns", game, cfg.MaxTurns)
			continue
		}
		summary.Wins[st.WinnerID]++
		logger.Debug("Simulate: game %d won by %s after %d rolls", game, st.WinnerID, rolls)
	}
	return summary, nil
}

// playGame lets the agents take turns until someone wins or maxTurns rolls
// were made. It returns the number of rolls.
func playGame(ctrl *app.Controller, agents map[domain.PlayerID]*bot.Agent, maxTurns int) (int, error) {
	rolls := 0
	for rolls < maxTurns && ctrl.State().Phase != domain.PhaseGameOver {
		agent := agents[ctrl.State().CurrentPlayer().ID]
		if _, err := agent.TakeTurn(ctrl); err != nil {
			return rolls, err
		}
		rolls++
	}
	return rolls, nil
}

func printSummary(out io.Writer, s Summary) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "seed\t%d\n", s.Seed)
	fmt.Fprintf(tw, "games\t%d\n", s.Games)
	for _, id := range s.Players {
		pct := 0.0
		if s.Games > 0 {
			pct = 100 * float64(s.Wins[id]) / float64(s.Games)
		}
		fmt.Fprintf(tw, "%s\t%d wins\t%.1f%%\n", id, s.Wins[id], pct)
	}
	fmt.Fprintf(tw, "unfinished\t%d\n", s.Unfinished)
	fmt.Fprintf(tw, "avg rolls\t%.1f\n", s.AverageRolls())
	return tw.Flush()
}
