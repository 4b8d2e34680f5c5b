package bot

import (
	"math/rand"

	"ludo/internal/domain"
)

// FirstEligible always moves the lowest-index eligible piece.
type FirstEligible struct{}

func (FirstEligible) ChoosePiece(_ *domain.Topology, _ domain.GameState, eligible []domain.PieceID) (domain.PieceID, error) {
	if len(eligible) == 0 {
		return domain.PieceID{}, ErrNoEligiblePiece
	}
	return eligible[0], nil
}

// RandomEligible picks uniformly among the eligible pieces.
type RandomEligible struct {
	rng *rand.Rand
}

func NewRandomEligible(rng *rand.Rand) *RandomEligible {
	return &RandomEligible{rng: rng}
}

func (b *RandomEligible) ChoosePiece(_ *domain.Topology, _ domain.GameState, eligible []domain.PieceID) (domain.PieceID, error) {
	if len(eligible) == 0 {
		return domain.PieceID{}, ErrNoEligiblePiece
	}
	return eligible[b.rng.Intn(len(eligible))], nil
}
