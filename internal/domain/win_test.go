package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectWinner(t *testing.T) {
	reg := newClassicRegistry(t, 2)
	for i := 0; i < PiecesPerPlayer-1; i++ {
		place(t, reg, PieceID{Owner: "blue", Index: i}, Finished())
	}

	_, ok := DetectWinner(reg, 1)
	assert.False(t, ok, "three of four finished is not a win")

	place(t, reg, PieceID{Owner: "blue", Index: 3}, HomeStretch(5))
	_, ok = DetectWinner(reg, 1)
	assert.False(t, ok)

	place(t, reg, PieceID{Owner: "blue", Index: 3}, Finished())
	id, ok := DetectWinner(reg, 1)
	assert.True(t, ok)
	assert.Equal(t, PlayerID("blue"), id)

	_, ok = DetectWinner(reg, 0)
	assert.False(t, ok)
}
