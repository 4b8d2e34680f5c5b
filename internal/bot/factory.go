package bot

import (
	"fmt"
	"math/rand"

	"ludo/internal/random"
)

// NewBrain creates a new AI brain based on the specified level. rng drives the
// random level; nil seeds one from crypto/rand.
func NewBrain(level BotLevel, rng *rand.Rand) (Brain, error) {
	switch level {
	case BotLevelFirst:
		return FirstEligible{}, nil
	case BotLevelRandom:
		if rng == nil {
			var err error
			if rng, _, err = random.NewRand(0); err != nil {
				return nil, err
			}
		}
		return NewRandomEligible(rng), nil
	case BotLevelSmart:
		return &SmartBot{Tuning: DefaultTuning}, nil
	default:
		return nil, fmt.Errorf("unknown bot level: %q", level)
	}
}
