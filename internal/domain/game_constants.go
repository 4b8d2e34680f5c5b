package domain

// Classic four-player board.
const (
	ClassicRingLength        = 52
	ClassicHomeStretchLength = 6
	PiecesPerPlayer          = 4

	// DiceFaces is the number of faces on the single die.
	DiceFaces = 6
	// EntryRoll is the only roll that brings a piece out of base.
	EntryRoll = 6
	// BonusRoll is the roll that lets the same player roll again.
	BonusRoll = 6
)

// classicSafeSquares are the four entry squares plus the four star squares.
var classicSafeSquares = []int{0, 8, 13, 21, 26, 34, 39, 47}

// ClassicSafeSquares returns a copy of the classic safe-square set.
func ClassicSafeSquares() []int {
	return append([]int(nil), classicSafeSquares...)
}
