package bot

import (
	"ludo/internal/domain"
)

// SmartBot scores every candidate move with its Tuning and plays the best.
// Ties go to the lowest piece index.
type SmartBot struct {
	Tuning Tuning
}

func (b *SmartBot) ChoosePiece(topo *domain.Topology, state domain.GameState, eligible []domain.PieceID) (domain.PieceID, error) {
	if len(eligible) == 0 {
		return domain.PieceID{}, ErrNoEligiblePiece
	}

	best, bestScore := eligible[0], 0.0
	for i, id := range eligible {
		score, err := b.score(topo, state, id)
		if err != nil {
			return domain.PieceID{}, err
		}
		if i == 0 || score > bestScore {
			best, bestScore = id, score
		}
	}
	return best, nil
}

func (b *SmartBot) score(topo *domain.Topology, state domain.GameState, id domain.PieceID) (float64, error) {
	seat := state.CurrentPlayerIndex
	from := state.Players[seat].Pieces[id.Index].Position
	to, err := domain.Destination(topo, seat, from, state.LastDiceValue)
	if err != nil {
		return 0, err
	}

	w := b.Tuning
	score := w.ProgressWeight * float64(topo.DistanceOf(seat, to)) / float64(topo.FinishDistance())
	switch {
	case to.IsFinished():
		score += w.FinishWeight
	case to.IsHomeStretch():
		score += w.SafeWeight
	case topo.IsSafeSquare(to.Index()):
		score += w.SafeWeight
	default:
		score += w.CaptureWeight * float64(opponentsOn(state, seat, to))
		if threatened(topo, state, seat, to) {
			score -= w.DangerPenalty
		}
	}
	if from.IsBase() {
		score += w.EnterWeight
	}
	if from.IsOnRing() && !topo.IsSafeSquare(from.Index()) && threatened(topo, state, seat, from) {
		score += w.EscapeWeight
	}
	return score, nil
}

func opponentsOn(state domain.GameState, seat int, sq domain.Square) int {
	n := 0
	for _, p := range state.Players {
		if p.Seat == seat {
			continue
		}
		for _, pc := range p.Pieces {
			if pc.Position == sq {
				n++
			}
		}
	}
	return n
}

// threatened reports whether an opponent piece on the ring could land on sq
// with a single roll.
func threatened(topo *domain.Topology, state domain.GameState, seat int, sq domain.Square) bool {
	for _, p := range state.Players {
		if p.Seat == seat {
			continue
		}
		for _, pc := range p.Pieces {
			if !pc.Position.IsOnRing() {
				continue
			}
			d := topo.DistanceOf(p.Seat, pc.Position)
			for roll := 1; roll <= domain.DiceFaces; roll++ {
				if d+roll >= topo.RingLength() {
					break
				}
				if topo.AbsoluteRingIndex(p.Seat, d+roll) == sq.Index() {
					return true
				}
			}
		}
	}
	return false
}
