package domain

import (
	"fmt"
	"sort"
)

// BoardConfig describes a board variant. Zero fields fall back to the
// classic board. A nil SafeSquares takes the classic star layout when the ring
// has 52 squares and the entry squares otherwise; an empty, non-nil slice
// disables safe squares entirely.
type BoardConfig struct {
	RingLength        int   `json:"ring_length"`
	HomeStretchLength int   `json:"home_stretch_length"`
	SafeSquares       []int `json:"safe_squares"`
}

// Topology is the static shape of a board for a fixed number of players.
// It holds no game state and is safe to share between games.
type Topology struct {
	playerCount       int
	ringLength        int
	homeStretchLength int
	safe              map[int]struct{}
}

// NewTopology validates cfg for playerCount players and builds the lookup tables.
func NewTopology(playerCount int, cfg BoardConfig) (*Topology, error) {
	if playerCount != 2 && playerCount != 4 {
		return nil, fmt.Errorf("%w: player count %d, want 2 or 4", ErrInvalidConfig, playerCount)
	}

	ring := cfg.RingLength
	if ring == 0 {
		ring = ClassicRingLength
	}
	stretch := cfg.HomeStretchLength
	if stretch == 0 {
		stretch = ClassicHomeStretchLength
	}
	if ring < 0 || stretch < 0 {
		return nil, fmt.Errorf("%w: negative board length", ErrInvalidConfig)
	}
	if ring%playerCount != 0 {
		return nil, fmt.Errorf("%w: ring length %d not divisible by %d players", ErrInvalidConfig, ring, playerCount)
	}

	t := &Topology{
		playerCount:       playerCount,
		ringLength:        ring,
		homeStretchLength: stretch,
		safe:              make(map[int]struct{}),
	}

	safe := cfg.SafeSquares
	if safe == nil {
		if ring == ClassicRingLength {
			safe = classicSafeSquares
		} else {
			safe = make([]int, 0, playerCount)
			for seat := 0; seat < playerCount; seat++ {
				safe = append(safe, t.EntryOffset(seat))
			}
		}
	}
	for _, i := range safe {
		if i < 0 || i >= ring {
			return nil, fmt.Errorf("%w: safe square %d outside ring [0,%d)", ErrInvalidConfig, i, ring)
		}
		t.safe[i] = struct{}{}
	}
	return t, nil
}

// ClassicTopology is the 52/6 board with the classic safe squares.
func ClassicTopology(playerCount int) (*Topology, error) {
	return NewTopology(playerCount, BoardConfig{})
}

func (t *Topology) PlayerCount() int       { return t.playerCount }
func (t *Topology) RingLength() int        { return t.ringLength }
func (t *Topology) HomeStretchLength() int { return t.homeStretchLength }
func (t *Topology) PiecesPerPlayer() int   { return PiecesPerPlayer }

// FinishDistance is the distance at which a piece becomes Finished.
func (t *Topology) FinishDistance() int { return t.ringLength + t.homeStretchLength }

// EntryOffset is the ring index where the given seat's pieces enter play.
func (t *Topology) EntryOffset(seat int) int {
	return seat * (t.ringLength / t.playerCount)
}

// AbsoluteRingIndex maps a seat-relative distance onto the shared ring.
func (t *Topology) AbsoluteRingIndex(seat, distance int) int {
	return (t.EntryOffset(seat) + distance) % t.ringLength
}

// IsSafeSquare reports whether captures are disabled on the ring index.
func (t *Topology) IsSafeSquare(ringIndex int) bool {
	_, ok := t.safe[ringIndex]
	return ok
}

// SafeSquares returns the sorted safe ring indices.
func (t *Topology) SafeSquares() []int {
	out := make([]int, 0, len(t.safe))
	for i := range t.safe {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// SquareAt converts a distance already travelled by a seat's piece into the
// square it stands on. Distances past the finish are reported as errors.
func (t *Topology) SquareAt(seat, distance int) (Square, error) {
	switch {
	case distance < 0 || distance > t.FinishDistance():
		return Square{}, fmt.Errorf("distance %d outside [0,%d]", distance, t.FinishDistance())
	case distance == t.FinishDistance():
		return Finished(), nil
	case distance >= t.ringLength:
		return HomeStretch(distance - t.ringLength), nil
	default:
		return OnRing(t.AbsoluteRingIndex(seat, distance)), nil
	}
}

// DistanceOf is the inverse of SquareAt. Base maps to 0.
func (t *Topology) DistanceOf(seat int, sq Square) int {
	switch sq.Kind() {
	case SquareRing:
		return (sq.Index() - t.EntryOffset(seat) + t.ringLength) % t.ringLength
	case SquareHomeStretch:
		return t.ringLength + sq.Index()
	case SquareFinished:
		return t.FinishDistance()
	default:
		return 0
	}
}

// ValidSquare reports whether sq exists on this board.
func (t *Topology) ValidSquare(sq Square) bool {
	switch sq.Kind() {
	case SquareRing:
		return sq.Index() >= 0 && sq.Index() < t.ringLength
	case SquareHomeStretch:
		return sq.Index() >= 0 && sq.Index() < t.homeStretchLength
	default:
		return true
	}
}
