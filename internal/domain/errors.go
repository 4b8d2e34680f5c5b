package domain

import "errors"

var (
	// ErrInvalidOperation covers every usage error of the turn state machine.
	// Operations failing with it leave the game untouched.
	ErrInvalidOperation = errors.New("invalid operation")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrUnknownPiece     = errors.New("unknown piece")
	ErrIllegalMove      = errors.New("illegal move")
)

// Reasons carried by ErrInvalidOperation.
const (
	ReasonNotAwaitingRoll  = "not awaiting roll"
	ReasonPieceNotEligible = "piece not eligible"
)
