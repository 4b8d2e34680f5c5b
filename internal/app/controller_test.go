package app

import (
	"math/rand"
	"testing"

	"ludo/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted returns a roller that replays values in order and fails the test
// when it runs dry.
func scripted(t *testing.T, values ...int) Roller {
	t.Helper()
	i := 0
	return RollerFunc(func() int {
		if i >= len(values) {
			t.Fatalf("scripted roller exhausted after %d rolls", len(values))
		}
		v := values[i]
		i++
		return v
	})
}

func newTestController(t *testing.T, players int, rolls ...int) *Controller {
	t.Helper()
	c, err := NewController(players, nil, WithDice(scripted(t, rolls...)))
	require.NoError(t, err)
	return c
}

// place writes a position directly, bypassing move validation.
func place(t *testing.T, c *Controller, id domain.PieceID, sq domain.Square) {
	t.Helper()
	seat, ok := c.reg.Seat(id.Owner)
	require.True(t, ok, "unknown owner %s", id.Owner)
	c.reg.State().Players[seat].Pieces[id.Index].Position = sq
}

func piece(owner string, idx int) domain.PieceID {
	return domain.PieceID{Owner: domain.PlayerID(owner), Index: idx}
}

func TestNewControllerStartsAtBase(t *testing.T) {
	c, err := NewController(4, nil)
	require.NoError(t, err)

	st := c.State()
	assert.NotEmpty(t, st.GameID)
	assert.Equal(t, domain.PhaseAwaitingRoll, st.Phase)
	assert.Equal(t, 0, st.CurrentPlayerIndex)
	assert.Equal(t, 0, st.LastDiceValue)
	require.Len(t, st.Players, 4)
	for seat, p := range st.Players {
		assert.Equal(t, seat*13, p.EntryOffset)
		for _, pc := range p.Pieces {
			assert.True(t, pc.Position.IsBase())
		}
	}
}

func TestNewControllerRejectsBadConfig(t *testing.T) {
	_, err := NewController(3, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	_, err = NewController(4, &domain.BoardConfig{RingLength: 50, HomeStretchLength: 6})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	_, err = NewController(2, nil, WithPlayerIDs("alice", "alice"))
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	_, err = NewController(4, nil, WithPlayerIDs("alice", "bob"))
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestWithPlayerIDs(t *testing.T) {
	c, err := NewController(2, nil, WithPlayerIDs("alice", "bob"))
	require.NoError(t, err)

	st := c.State()
	assert.Equal(t, domain.PlayerID("alice"), st.Players[0].ID)
	assert.Equal(t, domain.PlayerID("bob"), st.Players[1].ID)
	assert.Equal(t, 26, st.Players[1].EntryOffset)
}

func TestEnterThenMove(t *testing.T) {
	c := newTestController(t, 4, 6, 3)
	red0 := piece("red", 0)

	roll, err := c.RollDice()
	require.NoError(t, err)
	assert.Equal(t, 6, roll.DiceValue)
	assert.Contains(t, roll.EligiblePieces, red0)
	assert.False(t, roll.TurnForfeited)
	assert.Equal(t, domain.PhaseAwaitingSelection, c.State().Phase)

	move, err := c.SelectPiece(red0)
	require.NoError(t, err)
	assert.Equal(t, domain.OnRing(0), move.To)
	assert.False(t, move.TurnAdvanced)
	assert.Equal(t, 0, c.State().CurrentPlayerIndex)
	assert.Equal(t, EventPieceEntered, move.Events[0].Kind)
	assert.Equal(t, EventBonusTurn, move.Events[len(move.Events)-1].Kind)

	roll, err = c.RollDice()
	require.NoError(t, err)
	assert.Equal(t, []domain.PieceID{red0}, roll.EligiblePieces)

	move, err = c.SelectPiece(red0)
	require.NoError(t, err)
	assert.Equal(t, domain.OnRing(3), move.To)
	assert.True(t, move.TurnAdvanced)

	st := c.State()
	assert.Equal(t, 1, st.CurrentPlayerIndex)
	assert.Equal(t, 0, st.LastDiceValue)
	assert.Equal(t, domain.PhaseAwaitingRoll, st.Phase)
	assert.Empty(t, st.Eligible)

	d, err := c.reg.DistanceTraveled(red0)
	require.NoError(t, err)
	assert.Equal(t, 3, d)
}

func TestRollWithNothingEligibleForfeits(t *testing.T) {
	c := newTestController(t, 4, 4)

	roll, err := c.RollDice()
	require.NoError(t, err)
	assert.True(t, roll.TurnForfeited)
	assert.Empty(t, roll.EligiblePieces)

	kinds := make([]EventKind, 0, len(roll.Events))
	for _, ev := range roll.Events {
		kinds = append(kinds, ev.Kind)
	}
	assert.Equal(t, []EventKind{EventDiceRolled, EventTurnForfeited, EventTurnAdvanced}, kinds)

	st := c.State()
	assert.Equal(t, 1, st.CurrentPlayerIndex)
	assert.Equal(t, domain.PhaseAwaitingRoll, st.Phase)
	assert.Equal(t, 0, st.LastDiceValue)
}

func TestMoveIntoHomeStretch(t *testing.T) {
	c := newTestController(t, 4, 5)
	red0 := piece("red", 0)
	place(t, c, red0, domain.OnRing(50))

	_, err := c.RollDice()
	require.NoError(t, err)
	move, err := c.SelectPiece(red0)
	require.NoError(t, err)
	assert.Equal(t, domain.HomeStretch(3), move.To)
}

func TestOvershootIsIneligible(t *testing.T) {
	c := newTestController(t, 4, 3)
	red0, red1 := piece("red", 0), piece("red", 1)
	place(t, c, red0, domain.HomeStretch(4)) // distance 56
	place(t, c, red1, domain.OnRing(10))

	roll, err := c.RollDice()
	require.NoError(t, err)
	assert.Equal(t, []domain.PieceID{red1}, roll.EligiblePieces)

	_, err = c.SelectPiece(red0)
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}

func TestCaptureSendsEveryOpponentHome(t *testing.T) {
	c := newTestController(t, 4, 3)
	green0, blue0, yellow0 := piece("green", 0), piece("blue", 0), piece("yellow", 0)
	place(t, c, green0, domain.OnRing(10))
	place(t, c, blue0, domain.OnRing(10))
	place(t, c, yellow0, domain.OnRing(7))
	c.reg.State().CurrentPlayerIndex = 3

	_, err := c.RollDice()
	require.NoError(t, err)
	move, err := c.SelectPiece(yellow0)
	require.NoError(t, err)

	assert.Equal(t, domain.OnRing(10), move.To)
	assert.Equal(t, []domain.PieceID{green0, blue0}, move.CapturedPieceIDs)
	assert.True(t, move.TurnAdvanced, "capture alone grants no bonus")
	assert.Equal(t, 0, c.State().CurrentPlayerIndex)

	st := c.State()
	assert.True(t, st.Players[1].Pieces[0].Position.IsBase())
	assert.True(t, st.Players[2].Pieces[0].Position.IsBase())
	assert.Equal(t, domain.OnRing(10), st.Players[3].Pieces[0].Position)
}

func TestNoCaptureOnSafeSquare(t *testing.T) {
	c := newTestController(t, 4, 1)
	green0, red0 := piece("green", 0), piece("red", 0)
	place(t, c, green0, domain.OnRing(8))
	place(t, c, red0, domain.OnRing(7))

	_, err := c.RollDice()
	require.NoError(t, err)
	move, err := c.SelectPiece(red0)
	require.NoError(t, err)

	assert.Empty(t, move.CapturedPieceIDs)
	assert.Equal(t, domain.OnRing(8), c.State().Players[1].Pieces[0].Position)
}

func TestWinEndsTheGame(t *testing.T) {
	c := newTestController(t, 4, 1)
	for i := 0; i < 3; i++ {
		place(t, c, piece("red", i), domain.Finished())
	}
	place(t, c, piece("red", 3), domain.HomeStretch(5))

	_, err := c.RollDice()
	require.NoError(t, err)
	move, err := c.SelectPiece(piece("red", 3))
	require.NoError(t, err)

	assert.Equal(t, domain.PlayerID("red"), move.WinnerID)
	assert.True(t, move.TurnAdvanced)

	st := c.State()
	assert.Equal(t, domain.PhaseGameOver, st.Phase)
	assert.Equal(t, domain.PlayerID("red"), st.WinnerID)
	assert.Equal(t, 1, st.CurrentPlayerIndex)
	assert.Empty(t, st.Eligible)

	before := c.State()
	_, err = c.RollDice()
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
	assert.ErrorContains(t, err, domain.ReasonNotAwaitingRoll)
	_, err = c.SelectPiece(piece("red", 3))
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
	assert.ErrorContains(t, err, domain.ReasonPieceNotEligible)
	assert.Equal(t, before, c.State())
}

func TestWinOnSixKeepsTheSeat(t *testing.T) {
	c := newTestController(t, 4, 6)
	for i := 0; i < 3; i++ {
		place(t, c, piece("red", i), domain.Finished())
	}
	place(t, c, piece("red", 3), domain.HomeStretch(0))

	_, err := c.RollDice()
	require.NoError(t, err)
	move, err := c.SelectPiece(piece("red", 3))
	require.NoError(t, err)

	assert.Equal(t, domain.PlayerID("red"), move.WinnerID)
	assert.False(t, move.TurnAdvanced)
	st := c.State()
	assert.Equal(t, domain.PhaseGameOver, st.Phase)
	assert.Equal(t, 0, st.CurrentPlayerIndex)
}

func TestInvalidOperationsLeaveStateUntouched(t *testing.T) {
	c := newTestController(t, 4, 6)

	before := c.State()
	_, err := c.SelectPiece(piece("red", 0))
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
	assert.ErrorContains(t, err, domain.ReasonPieceNotEligible)
	assert.Equal(t, before, c.State())

	_, err = c.RollDice()
	require.NoError(t, err)

	before = c.State()
	_, err = c.RollDice()
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
	assert.ErrorContains(t, err, domain.ReasonNotAwaitingRoll)

	_, err = c.SelectPiece(piece("green", 0))
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
	_, err = c.SelectPiece(piece("nobody", 9))
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
	assert.Equal(t, before, c.State())
}

func TestRollerOutOfRange(t *testing.T) {
	c := newTestController(t, 4, 7)

	before := c.State()
	_, err := c.RollDice()
	assert.Error(t, err)
	assert.Equal(t, before, c.State())
}

// TestRandomPlayHoldsTurnLaws plays whole games with random choices and checks
// the bonus turn rule and forward-only movement after every selection.
func TestRandomPlayHoldsTurnLaws(t *testing.T) {
	for _, players := range []int{2, 4} {
		for seed := int64(1); seed <= 5; seed++ {
			rng := rand.New(rand.NewSource(seed))
			c, err := NewController(players, nil, WithDice(NewRandRoller(rand.New(rand.NewSource(seed*31)))))
			require.NoError(t, err)

			for turn := 0; turn < 20000 && c.State().Phase != domain.PhaseGameOver; turn++ {
				roll, err := c.RollDice()
				require.NoError(t, err)
				if roll.TurnForfeited {
					continue
				}

				pre := c.State()
				choice := roll.EligiblePieces[rng.Intn(len(roll.EligiblePieces))]
				before, err := c.reg.DistanceTraveled(choice)
				require.NoError(t, err)
				fromBase := c.State().Players[pre.CurrentPlayerIndex].Pieces[choice.Index].Position.IsBase()

				_, err = c.SelectPiece(choice)
				require.NoError(t, err)

				after, err := c.reg.DistanceTraveled(choice)
				require.NoError(t, err)
				if fromBase {
					assert.Equal(t, 0, after)
				} else {
					assert.Greater(t, after, before, "piece %s moved backward", choice)
				}

				post := c.State()
				if pre.LastDiceValue == domain.BonusRoll {
					assert.Equal(t, pre.CurrentPlayerIndex, post.CurrentPlayerIndex)
				} else {
					assert.Equal(t, (pre.CurrentPlayerIndex+1)%players, post.CurrentPlayerIndex)
				}
			}
			assert.Equal(t, domain.PhaseGameOver, c.State().Phase, "players=%d seed=%d did not finish", players, seed)
		}
	}
}

func TestOnStateChange(t *testing.T) {
	c := newTestController(t, 4, 6, 2)

	var seen []domain.GameState
	unsubscribe := c.OnStateChange(func(st domain.GameState) { seen = append(seen, st) })

	_, err := c.RollDice()
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, domain.PhaseAwaitingSelection, seen[0].Phase)

	_, err = c.SelectPiece(piece("red", 0))
	require.NoError(t, err)
	require.Len(t, seen, 2)

	// snapshots are detached from the live state
	seen[1].Players[0].Pieces[0].Position = domain.Finished()
	assert.Equal(t, domain.OnRing(0), c.State().Players[0].Pieces[0].Position)

	unsubscribe()
	_, err = c.RollDice()
	require.NoError(t, err)
	assert.Len(t, seen, 2)
}

func TestFailedOperationDoesNotNotify(t *testing.T) {
	c := newTestController(t, 4)
	calls := 0
	c.OnStateChange(func(domain.GameState) { calls++ })

	_, err := c.SelectPiece(piece("red", 0))
	require.Error(t, err)
	assert.Zero(t, calls)
}

func TestResetDuringSelection(t *testing.T) {
	c := newTestController(t, 4, 6)
	_, err := c.RollDice()
	require.NoError(t, err)
	oldID := c.State().GameID

	calls := 0
	c.OnStateChange(func(domain.GameState) { calls++ })
	st := c.Reset()

	assert.Equal(t, 1, calls)
	assert.NotEqual(t, oldID, st.GameID)
	assert.Equal(t, domain.PhaseAwaitingRoll, st.Phase)
	assert.Equal(t, 0, st.LastDiceValue)
	assert.Empty(t, st.Eligible)
	require.Len(t, c.Log(), 1)
	assert.Equal(t, EventGameReset, c.Log()[0].Kind)
}

func TestResetAfterWin(t *testing.T) {
	c := newTestController(t, 2, 1)
	for i := 0; i < 3; i++ {
		place(t, c, piece("red", i), domain.Finished())
	}
	place(t, c, piece("red", 3), domain.HomeStretch(5))
	_, err := c.RollDice()
	require.NoError(t, err)
	_, err = c.SelectPiece(piece("red", 3))
	require.NoError(t, err)

	st := c.Reset()
	assert.Equal(t, domain.PhaseAwaitingRoll, st.Phase)
	assert.False(t, st.HasWinner())
	assert.Len(t, st.Players, 2)
}

func TestResetWith(t *testing.T) {
	c := newTestController(t, 4)
	before := c.State()

	_, err := c.ResetWith(5, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	assert.Equal(t, before, c.State())

	st, err := c.ResetWith(2, &domain.BoardConfig{RingLength: 40, HomeStretchLength: 4})
	require.NoError(t, err)
	require.Len(t, st.Players, 2)
	assert.Equal(t, domain.PlayerID("red"), st.Players[0].ID)
	assert.Equal(t, domain.PlayerID("blue"), st.Players[1].ID)
	assert.Equal(t, 20, st.Players[1].EntryOffset)
	assert.Equal(t, 44, c.Topology().FinishDistance())
}

func TestResetWithDropsIDsWhenCountChanges(t *testing.T) {
	c, err := NewController(2, nil, WithPlayerIDs("alice", "bob"))
	require.NoError(t, err)

	st, err := c.ResetWith(2, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.PlayerID("alice"), st.Players[0].ID)

	st, err = c.ResetWith(4, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.PlayerID("red"), st.Players[0].ID)
	assert.Equal(t, domain.PlayerID("yellow"), st.Players[3].ID)

	st = c.Reset()
	assert.Len(t, st.Players, 4)
}

func TestLogIsNotSharedWithCallers(t *testing.T) {
	c := newTestController(t, 4, 6)
	red0 := piece("red", 0)

	_, err := c.RollDice()
	require.NoError(t, err)
	move, err := c.SelectPiece(red0)
	require.NoError(t, err)
	require.NotEmpty(t, move.Events)
	require.NotNil(t, move.Events[0].Piece)

	*move.Events[0].Piece = piece("green", 3)
	*move.Events[0].To = domain.Finished()

	log := c.Log()
	entered := log[len(log)-2]
	require.Equal(t, EventPieceEntered, entered.Kind)
	assert.Equal(t, red0, *entered.Piece)
	assert.Equal(t, domain.OnRing(0), *entered.To)

	*entered.Piece = piece("blue", 2)
	again := c.Log()
	assert.Equal(t, red0, *again[len(again)-2].Piece)
}

func TestLogLimit(t *testing.T) {
	c, err := NewController(4, nil, WithDice(scripted(t, 1, 2, 3, 4)), WithLogLimit(4))
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		_, err := c.RollDice()
		require.NoError(t, err)
	}

	log := c.Log()
	require.Len(t, log, 4)
	assert.Equal(t, 12, log[3].Seq)
	for i := 1; i < len(log); i++ {
		assert.Equal(t, log[i-1].Seq+1, log[i].Seq)
	}
}
