package domain

import (
	"encoding/json"
	"fmt"
)

// SquareKind tags which variant of the board a Square refers to.
type SquareKind string

const (
	// SquareBase means the piece has not entered play.
	SquareBase SquareKind = "base"
	// SquareRing is a position on the shared circular track.
	SquareRing SquareKind = "ring"
	// SquareHomeStretch is a position on the owner's private final approach.
	SquareHomeStretch SquareKind = "home"
	// SquareFinished is the terminal center square.
	SquareFinished SquareKind = "finished"
)

// Square is a position a piece can occupy. The zero value is Base, so
// squares compare with ==.
type Square struct {
	kind  SquareKind
	index int
}

// Base returns the square of a piece that has not entered play.
func Base() Square { return Square{} }

// OnRing returns the shared-track square at the given ring index.
func OnRing(i int) Square { return Square{kind: SquareRing, index: i} }

// HomeStretch returns the k-th square of the owner's home stretch.
func HomeStretch(k int) Square { return Square{kind: SquareHomeStretch, index: k} }

// Finished returns the terminal square.
func Finished() Square { return Square{kind: SquareFinished} }

// Kind reports the variant of the square.
func (s Square) Kind() SquareKind {
	if s.kind == "" {
		return SquareBase
	}
	return s.kind
}

// Index is the ring index or home-stretch step. It is 0 for Base and Finished.
func (s Square) Index() int { return s.index }

func (s Square) IsBase() bool        { return s.Kind() == SquareBase }
func (s Square) IsOnRing() bool      { return s.kind == SquareRing }
func (s Square) IsHomeStretch() bool { return s.kind == SquareHomeStretch }
func (s Square) IsFinished() bool    { return s.kind == SquareFinished }

func (s Square) String() string {
	switch s.Kind() {
	case SquareRing, SquareHomeStretch:
		return fmt.Sprintf("%s:%d", s.kind, s.index)
	default:
		return string(s.Kind())
	}
}

type squareJSON struct {
	Kind  SquareKind `json:"kind"`
	Index int        `json:"index"`
}

// MarshalJSON encodes the square as {"kind":"ring","index":12}.
func (s Square) MarshalJSON() ([]byte, error) {
	return json.Marshal(squareJSON{Kind: s.Kind(), Index: s.index})
}

// UnmarshalJSON decodes the form produced by MarshalJSON.
func (s *Square) UnmarshalJSON(data []byte) error {
	var raw squareJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Index < 0 {
		return fmt.Errorf("square %s: negative index %d", raw.Kind, raw.Index)
	}
	switch raw.Kind {
	case SquareBase, "":
		*s = Base()
	case SquareRing:
		*s = OnRing(raw.Index)
	case SquareHomeStretch:
		*s = HomeStretch(raw.Index)
	case SquareFinished:
		*s = Finished()
	default:
		return fmt.Errorf("unknown square kind %q", raw.Kind)
	}
	return nil
}
