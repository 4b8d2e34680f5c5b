package app

import "ludo/internal/domain"

// EventKind identifies an entry in the game log.
type EventKind string

const (
	EventDiceRolled    EventKind = "dice_rolled"
	EventTurnForfeited EventKind = "turn_forfeited"
	EventPieceEntered  EventKind = "piece_entered"
	EventPieceMoved    EventKind = "piece_moved"
	EventPieceCaptured EventKind = "piece_captured"
	EventPieceFinished EventKind = "piece_finished"
	EventBonusTurn     EventKind = "bonus_turn"
	EventTurnAdvanced  EventKind = "turn_advanced"
	EventGameWon       EventKind = "game_won"
	EventGameReset     EventKind = "game_reset"
)

// Event is one entry of the game log. Fields that do not apply to a kind are
// left zero.
type Event struct {
	Seq    int             `json:"seq"`
	Kind   EventKind       `json:"kind"`
	Player domain.PlayerID `json:"player,omitempty"`
	Piece  *domain.PieceID `json:"piece,omitempty"`
	Dice   int             `json:"dice,omitempty"`
	From   *domain.Square  `json:"from,omitempty"`
	To     *domain.Square  `json:"to,omitempty"`
}

// eventLog keeps the most recent events of a game.
type eventLog struct {
	limit  int
	seq    int
	events []Event
}

func (l *eventLog) append(ev Event) Event {
	l.seq++
	ev.Seq = l.seq
	l.events = append(l.events, ev.clone())
	if l.limit > 0 && len(l.events) > l.limit {
		copy(l.events, l.events[len(l.events)-l.limit:])
		l.events = l.events[:l.limit]
	}
	return ev
}

func (l *eventLog) reset() {
	l.seq = 0
	l.events = l.events[:0]
}

func (l *eventLog) snapshot() []Event {
	out := make([]Event, len(l.events))
	for i, ev := range l.events {
		out[i] = ev.clone()
	}
	return out
}

// clone copies the referenced piece and squares so the log never shares
// them with callers.
func (e Event) clone() Event {
	if e.Piece != nil {
		e.Piece = pieceRef(*e.Piece)
	}
	if e.From != nil {
		e.From = squareRef(*e.From)
	}
	if e.To != nil {
		e.To = squareRef(*e.To)
	}
	return e
}

func pieceRef(id domain.PieceID) *domain.PieceID { return &id }

func squareRef(sq domain.Square) *domain.Square { return &sq }
