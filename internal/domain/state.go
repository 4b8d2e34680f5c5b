package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase is the roll state of the turn controller.
type Phase string

const (
	// PhaseAwaitingRoll waits for the current player to roll.
	PhaseAwaitingRoll Phase = "awaiting_roll"
	// PhaseAwaitingSelection waits for one of the eligible pieces to be picked.
	PhaseAwaitingSelection Phase = "awaiting_selection"
	// PhaseGameOver is terminal.
	PhaseGameOver Phase = "game_over"
)

// PlayerID identifies a player. Defaults are the classic colours.
type PlayerID string

// PieceID identifies one of a player's four pieces.
type PieceID struct {
	Owner PlayerID `json:"owner"`
	Index int      `json:"index"`
}

func (id PieceID) String() string {
	return string(id.Owner) + ":" + strconv.Itoa(id.Index)
}

// ParsePieceID reads the "owner:index" form produced by String.
func ParsePieceID(s string) (PieceID, error) {
	owner, idx, ok := strings.Cut(s, ":")
	if !ok || owner == "" {
		return PieceID{}, fmt.Errorf("piece id %q: want owner:index", s)
	}
	n, err := strconv.Atoi(idx)
	if err != nil {
		return PieceID{}, fmt.Errorf("piece id %q: %w", s, err)
	}
	return PieceID{Owner: PlayerID(owner), Index: n}, nil
}

// Piece is a single token and where it stands.
type Piece struct {
	ID       PieceID `json:"id"`
	Position Square  `json:"position"`
}

// Player is a seat at the table with its four pieces.
type Player struct {
	ID          PlayerID               `json:"id"`
	Seat        int                    `json:"seat"`
	EntryOffset int                    `json:"entry_offset"`
	Pieces      [PiecesPerPlayer]Piece `json:"pieces"`
}

// GameState is the full state of one game.
type GameState struct {
	GameID             string    `json:"game_id"`
	Players            []Player  `json:"players"`
	CurrentPlayerIndex int       `json:"current_player_index"`
	LastDiceValue      int       `json:"last_dice_value"` // 0 when cleared
	Phase              Phase     `json:"phase"`
	Eligible           []PieceID `json:"eligible"`
	WinnerID           PlayerID  `json:"winner_id,omitempty"`
}

// Clone returns a deep copy safe to hand to callers.
func (s GameState) Clone() GameState {
	out := s
	out.Players = append([]Player(nil), s.Players...)
	if s.Eligible != nil {
		out.Eligible = append([]PieceID(nil), s.Eligible...)
	}
	return out
}

// CurrentPlayer returns the player whose turn it is.
func (s GameState) CurrentPlayer() Player {
	return s.Players[s.CurrentPlayerIndex]
}

// HasWinner reports whether the game is decided.
func (s GameState) HasWinner() bool { return s.WinnerID != "" }

var (
	fourPlayerIDs = []PlayerID{"red", "green", "blue", "yellow"}
	twoPlayerIDs  = []PlayerID{"red", "blue"}
)

// DefaultPlayerIDs returns the colour ids for a table of n players. Two-player
// games sit at opposite corners.
func DefaultPlayerIDs(n int) []PlayerID {
	if n == 2 {
		return append([]PlayerID(nil), twoPlayerIDs...)
	}
	if n <= len(fourPlayerIDs) {
		return append([]PlayerID(nil), fourPlayerIDs[:n]...)
	}
	ids := make([]PlayerID, n)
	for i := range ids {
		ids[i] = PlayerID("p" + strconv.Itoa(i))
	}
	return ids
}
