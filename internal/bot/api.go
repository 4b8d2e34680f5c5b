package bot

import (
	"errors"

	"ludo/internal/domain"
)

// ErrNoEligiblePiece is returned when a brain is asked to choose from nothing.
var ErrNoEligiblePiece = errors.New("no eligible piece")

// Brain is the interface that all bot strategies must implement. eligible is
// never reordered; implementations return one of its members.
type Brain interface {
	ChoosePiece(topo *domain.Topology, state domain.GameState, eligible []domain.PieceID) (domain.PieceID, error)
}

// BotLevel selects a Brain implementation.
type BotLevel string

const (
	BotLevelFirst  BotLevel = "first"
	BotLevelRandom BotLevel = "random"
	BotLevelSmart  BotLevel = "smart"
)

// ParseBotLevel accepts the level names used on the command line and in
// match parameters.
func ParseBotLevel(s string) (BotLevel, error) {
	switch l := BotLevel(s); l {
	case BotLevelFirst, BotLevelRandom, BotLevelSmart:
		return l, nil
	default:
		return "", errors.New("unknown bot level: " + s)
	}
}
