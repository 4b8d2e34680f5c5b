package app

import "ludo/internal/domain"

// DiceResult is returned by RollDice.
type DiceResult struct {
	DiceValue      int              `json:"dice_value"`
	EligiblePieces []domain.PieceID `json:"eligible_pieces"`
	// TurnForfeited is set when nothing could move and the turn passed on.
	TurnForfeited bool    `json:"turn_forfeited"`
	Events        []Event `json:"events"`
}

// MoveResult is returned by SelectPiece.
type MoveResult struct {
	Piece            domain.PieceID   `json:"piece"`
	From             domain.Square    `json:"from"`
	To               domain.Square    `json:"to"`
	CapturedPieceIDs []domain.PieceID `json:"captured_piece_ids"`
	WinnerID         domain.PlayerID  `json:"winner_id,omitempty"`
	TurnAdvanced     bool             `json:"turn_advanced"`
	Events           []Event          `json:"events"`
}
