package app

import (
	"fmt"
	"slices"

	"ludo/internal/domain"
	"ludo/internal/logging"
	"ludo/internal/random"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/runtime"
)

// StateListener is notified with a snapshot after every successful mutation.
type StateListener func(domain.GameState)

type listenerEntry struct {
	id int
	fn StateListener
}

// Controller is the turn state machine for one game. It is not safe for
// concurrent use; callers serialise access per game.
type Controller struct {
	topo      *domain.Topology
	playerIDs []domain.PlayerID
	reg       *domain.Registry
	dice      Roller
	logger    runtime.Logger
	log       eventLog

	listeners  []listenerEntry
	listenerID int
}

// Option configures a Controller.
type Option func(*Controller)

// WithDice replaces the random roller, typically with a scripted one.
func WithDice(r Roller) Option {
	return func(c *Controller) { c.dice = r }
}

// WithPlayerIDs seats the given ids instead of the default colours.
func WithPlayerIDs(ids ...domain.PlayerID) Option {
	return func(c *Controller) { c.playerIDs = append([]domain.PlayerID(nil), ids...) }
}

// WithLogger sets the debug logger. The default discards everything.
func WithLogger(logger runtime.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithLogLimit bounds the game log; n <= 0 keeps every event.
func WithLogLimit(n int) Option {
	return func(c *Controller) { c.log.limit = n }
}

// NewController starts a game for playerCount players on the board described
// by cfg; a nil cfg selects the classic board.
func NewController(playerCount int, cfg *domain.BoardConfig, opts ...Option) (*Controller, error) {
	c := &Controller{
		logger: logging.Nop(),
		log:    eventLog{limit: DefaultLogLimit},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.dice == nil {
		rng, _, err := random.NewRand(0)
		if err != nil {
			return nil, err
		}
		c.dice = NewRandRoller(rng)
	}

	if err := c.start(playerCount, cfg, c.playerIDs); err != nil {
		return nil, err
	}
	return c, nil
}

// start validates the board and seats fresh players. Without ids the default
// colours are seated. On error the controller is left as it was.
func (c *Controller) start(playerCount int, cfg *domain.BoardConfig, ids []domain.PlayerID) error {
	var board domain.BoardConfig
	if cfg != nil {
		board = *cfg
	}
	topo, err := domain.NewTopology(playerCount, board)
	if err != nil {
		return err
	}

	if len(ids) == 0 {
		ids = domain.DefaultPlayerIDs(playerCount)
	} else if len(ids) != playerCount {
		return fmt.Errorf("%w: %d player ids for %d players", domain.ErrInvalidConfig, len(ids), playerCount)
	}
	reg, err := domain.NewRegistry(topo, ids)
	if err != nil {
		return err
	}
	reg.State().GameID = uuid.NewString()

	c.topo, c.reg = topo, reg
	c.log.reset()
	return nil
}

// Topology returns the static board of the running game.
func (c *Controller) Topology() *domain.Topology { return c.topo }

// State returns a deep copy of the game state.
func (c *Controller) State() domain.GameState { return c.reg.Snapshot() }

// Log returns the retained game log, oldest first.
func (c *Controller) Log() []Event { return c.log.snapshot() }

// OnStateChange registers a listener and returns a function removing it.
func (c *Controller) OnStateChange(fn StateListener) func() {
	c.listenerID++
	id := c.listenerID
	c.listeners = append(c.listeners, listenerEntry{id: id, fn: fn})
	return func() {
		c.listeners = slices.DeleteFunc(c.listeners, func(e listenerEntry) bool { return e.id == id })
	}
}

func (c *Controller) notify() {
	if len(c.listeners) == 0 {
		return
	}
	for _, l := range slices.Clone(c.listeners) {
		l.fn(c.reg.Snapshot())
	}
}

func invalidOperation(reason string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidOperation, reason)
}

// RollDice rolls for the current player. With nothing eligible the turn is
// forfeited immediately and the next player is awaiting a roll.
func (c *Controller) RollDice() (DiceResult, error) {
	st := c.reg.State()
	if st.Phase != domain.PhaseAwaitingRoll {
		return DiceResult{}, invalidOperation(domain.ReasonNotAwaitingRoll)
	}

	value := c.dice.Roll()
	if value < 1 || value > domain.DiceFaces {
		return DiceResult{}, fmt.Errorf("dice roller returned %d, want 1..%d", value, domain.DiceFaces)
	}

	seat := st.CurrentPlayerIndex
	player := st.Players[seat].ID
	st.LastDiceValue = value

	events := []Event{c.log.append(Event{Kind: EventDiceRolled, Player: player, Dice: value})}
	eligible := domain.EligiblePieces(c.reg, seat, value)
	result := DiceResult{DiceValue: value, EligiblePieces: slices.Clone(eligible)}

	if len(eligible) == 0 {
		events = append(events, c.log.append(Event{Kind: EventTurnForfeited, Player: player, Dice: value}))
		events = append(events, c.advance())
		result.TurnForfeited = true
		c.logger.Debug("RollDice: game=%s player=%s rolled %d with no eligible piece, turn forfeited", st.GameID, player, value)
	} else {
		st.Eligible = eligible
		st.Phase = domain.PhaseAwaitingSelection
		c.logger.Debug("RollDice: game=%s player=%s rolled %d, eligible=%v", st.GameID, player, value, eligible)
	}

	result.Events = events
	c.notify()
	return result, nil
}

// SelectPiece moves one of the eligible pieces by the rolled value, resolves
// captures and the win, then grants a bonus roll on a six or passes the turn.
func (c *Controller) SelectPiece(id domain.PieceID) (MoveResult, error) {
	st := c.reg.State()
	if st.Phase != domain.PhaseAwaitingSelection || !slices.Contains(st.Eligible, id) {
		return MoveResult{}, invalidOperation(domain.ReasonPieceNotEligible)
	}

	seat := st.CurrentPlayerIndex
	dice := st.LastDiceValue
	piece, err := c.reg.Piece(id)
	if err != nil {
		return MoveResult{}, err
	}
	from := piece.Position
	to, err := domain.Destination(c.topo, seat, from, dice)
	if err != nil {
		return MoveResult{}, fmt.Errorf("select %s: %w", id, err)
	}
	if err := c.reg.SetPosition(id, to); err != nil {
		return MoveResult{}, fmt.Errorf("select %s: %w", id, err)
	}

	player := id.Owner
	result := MoveResult{Piece: id, From: from, To: to}
	kind := EventPieceMoved
	switch {
	case from.IsBase():
		kind = EventPieceEntered
	case to.IsFinished():
		kind = EventPieceFinished
	}
	events := []Event{c.log.append(Event{Kind: kind, Player: player, Piece: pieceRef(id), Dice: dice, From: squareRef(from), To: squareRef(to)})}

	captured, err := domain.ResolveCapture(c.reg, id, to)
	if err != nil {
		return MoveResult{}, fmt.Errorf("select %s: capture: %w", id, err)
	}
	for _, victim := range captured {
		events = append(events, c.log.append(Event{Kind: EventPieceCaptured, Player: player, Piece: pieceRef(victim), From: squareRef(to), To: squareRef(domain.Base())}))
	}
	result.CapturedPieceIDs = captured
	st.Eligible = nil

	switch winner, won := domain.DetectWinner(c.reg, seat); {
	case won:
		// The turn still passes on a non-six so the bonus law holds for the
		// final move too.
		if dice != domain.BonusRoll {
			events = append(events, c.advance())
			result.TurnAdvanced = true
		}
		st.WinnerID = winner
		st.Phase = domain.PhaseGameOver
		result.WinnerID = winner
		events = append(events, c.log.append(Event{Kind: EventGameWon, Player: winner}))
		c.logger.Debug("SelectPiece: game=%s won by %s", st.GameID, winner)
	case dice == domain.BonusRoll:
		st.Phase = domain.PhaseAwaitingRoll
		events = append(events, c.log.append(Event{Kind: EventBonusTurn, Player: player, Dice: dice}))
	default:
		events = append(events, c.advance())
		result.TurnAdvanced = true
	}

	if len(captured) > 0 {
		c.logger.Debug("SelectPiece: game=%s %s landed on %s capturing %v", st.GameID, id, to, captured)
	}
	result.Events = events
	c.notify()
	return result, nil
}

// advance passes the turn to the next seat and clears the roll.
func (c *Controller) advance() Event {
	st := c.reg.State()
	st.CurrentPlayerIndex = domain.NextSeat(c.topo, st.CurrentPlayerIndex)
	st.LastDiceValue = 0
	st.Eligible = nil
	st.Phase = domain.PhaseAwaitingRoll
	return c.log.append(Event{Kind: EventTurnAdvanced, Player: st.Players[st.CurrentPlayerIndex].ID})
}

// Reset discards the running game, including a pending selection, and starts
// again on the same board. It cannot fail.
func (c *Controller) Reset() domain.GameState {
	reg, err := domain.NewRegistry(c.topo, c.currentIDs())
	if err != nil {
		// ids and topology were validated when the running game started.
		panic(fmt.Sprintf("reset: %v", err))
	}
	reg.State().GameID = uuid.NewString()
	c.reg = reg
	c.log.reset()
	c.afterReset()
	return c.reg.Snapshot()
}

// ResetWith starts a new game on another board or player count. Configured
// player ids are dropped when the count changes. The running game is kept
// when the configuration is invalid.
func (c *Controller) ResetWith(playerCount int, cfg *domain.BoardConfig) (domain.GameState, error) {
	ids := c.playerIDs
	if len(ids) != playerCount {
		ids = nil
	}
	if err := c.start(playerCount, cfg, ids); err != nil {
		return domain.GameState{}, err
	}
	c.playerIDs = ids
	c.afterReset()
	return c.reg.Snapshot(), nil
}

func (c *Controller) afterReset() {
	st := c.reg.State()
	c.log.append(Event{Kind: EventGameReset})
	c.logger.Debug("Reset: game=%s players=%d", st.GameID, len(st.Players))
	c.notify()
}

func (c *Controller) currentIDs() []domain.PlayerID {
	players := c.reg.State().Players
	ids := make([]domain.PlayerID, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	return ids
}
