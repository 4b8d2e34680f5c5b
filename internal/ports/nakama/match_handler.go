package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"

	"ludo/internal/app"
	"ludo/internal/bot"
	"ludo/internal/config"
	"ludo/internal/domain"
	"ludo/internal/random"

	"github.com/heroiclabs/nakama-common/runtime"
)

// Match parameters passed by ludo_create_table.
const (
	paramOwner = "owner"
	paramTable = "table"
)

const tickRate = 1

// MatchState holds the authoritative runtime state for one table. Every seat
// that is not a bot is played by the owner on the same device.
type MatchState struct {
	Owner        string                         `json:"owner"`
	Tick         int64                          `json:"tick"`
	Presences    map[string]runtime.Presence    `json:"-"`
	Controller   *app.Controller                `json:"-"`
	Bots         map[domain.PlayerID]*bot.Agent `json:"-"`
	BotsEnabled  bool                           `json:"bots_enabled"`
	BotMinDelay  int                            `json:"bot_min_delay"`  // ticks
	BotMaxDelay  int                            `json:"bot_max_delay"`  // ticks
	BotWaitUntil int64                          `json:"bot_wait_until"` // 0 when no bot turn is scheduled

	rng         *rand.Rand
	dirty       bool
	lastPhase   domain.Phase
	unsubscribe func()
}

// command is a client message reduced to what the handlers need.
type command struct {
	userID string
	opCode int64
	data   []byte
}

// newMatchState sets up the controller and bot agents for a table.
func newMatchState(owner string, req CreateTableRequest, settings config.Settings, gc config.GameConfig, logger runtime.Logger, opts ...app.Option) (*MatchState, error) {
	if owner == "" {
		return nil, errors.New("table has no owner")
	}
	rng, _, err := random.NewRand(0)
	if err != nil {
		return nil, err
	}

	base := []app.Option{
		app.WithLogger(logger),
		app.WithLogLimit(settings.LogLimit),
		app.WithDice(app.NewRandRoller(rng)),
	}
	board := gc.Board
	ctrl, err := app.NewController(req.PlayerCount, &board, append(base, opts...)...)
	if err != nil {
		return nil, err
	}

	level, err := bot.ParseBotLevel(req.BotLevel)
	if err != nil {
		return nil, err
	}
	state := &MatchState{
		Owner:       owner,
		Presences:   make(map[string]runtime.Presence),
		Controller:  ctrl,
		Bots:        make(map[domain.PlayerID]*bot.Agent),
		BotsEnabled: settings.BotsEnabled,
		BotMinDelay: settings.BotMinDelayTicks,
		BotMaxDelay: settings.BotMaxDelayTicks,
		rng:         rng,
		lastPhase:   ctrl.State().Phase,
	}
	players := ctrl.State().Players
	for _, seat := range req.BotSeats {
		if seat < 0 || seat >= len(players) {
			return nil, fmt.Errorf("bot seat %d outside [0,%d)", seat, len(players))
		}
		// With bots disabled nothing would ever play the seat, so the owner
		// keeps it.
		if !settings.BotsEnabled {
			continue
		}
		brain, err := bot.NewBrain(level, rng)
		if err != nil {
			return nil, err
		}
		id := players[seat].ID
		state.Bots[id] = &bot.Agent{ID: id, Brain: brain}
	}
	if !settings.BotsEnabled && len(req.BotSeats) > 0 {
		logger.Warn("Bots disabled, owner %s plays bot seats %v", owner, req.BotSeats)
	}
	state.unsubscribe = ctrl.OnStateChange(func(domain.GameState) { state.dirty = true })
	return state, nil
}

// canJoin reports whether userID may join a table owned by owner.
func canJoin(owner, userID string) (bool, string) {
	if userID != owner {
		return false, "table is private to its owner"
	}
	return true, ""
}

// isBotTurn reports whether the seat to move is driven by a bot agent.
func (ms *MatchState) isBotTurn() bool {
	_, ok := ms.Bots[ms.Controller.State().CurrentPlayer().ID]
	return ok
}

func (ms *MatchState) label() MatchLabel {
	st := ms.Controller.State()
	return MatchLabel{Game: LabelGame, Owner: ms.Owner, Phase: st.Phase, Players: len(st.Players)}
}

type matchHandler struct{}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	settings, err := config.LoadSettings(env)
	if err != nil {
		logger.Warn("MatchInit: Invalid settings, using defaults: %v", err)
		settings, _ = config.LoadSettings(map[string]string{})
	}
	if err := config.LoadGameConfig(settings.GameConfigPath); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}
	gc := config.GetGameConfig()

	owner, _ := params[paramOwner].(string)
	req := CreateTableRequest{PlayerCount: gc.PlayerCount, BotLevel: gc.BotLevel}
	if raw, ok := params[paramTable].(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			logger.Error("MatchInit: Invalid table params: %v", err)
			return nil, 0, ""
		}
	}

	state, err := newMatchState(owner, req, settings, gc, logger)
	if err != nil {
		logger.Error("MatchInit: Failed to set up table: %v", err)
		return nil, 0, ""
	}

	label, err := encodeLabel(state.label())
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}
	logger.Info("MatchInit: Table for %s with %d players, bots=%v", owner, req.PlayerCount, req.BotSeats)
	return state, tickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}
	accept, reason := canJoin(matchState.Owner, presence.GetUserId())
	return state, accept, reason
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p
		logger.Debug("MatchJoin: User %s joined.", p.GetUserId())
	}

	// A (re)joining owner needs the full picture.
	matchState.dirty = true
	mh.flushSnapshot(matchState, dispatcher, logger)
	return matchState
}

// MatchLeave is called when one or more players leave the match. The table
// closes with its owner.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())
		if p.GetUserId() == matchState.Owner {
			logger.Info("MatchLeave: Owner %s left, terminating table.", p.GetUserId())
			matchState.unsubscribe()
			return nil
		}
	}
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick
	for _, msg := range messages {
		mh.handleCommand(matchState, dispatcher, logger, command{
			userID: msg.GetUserId(),
			opCode: msg.GetOpCode(),
			data:   msg.GetData(),
		})
	}

	if matchState.BotsEnabled {
		mh.processBots(matchState, dispatcher, logger)
	}

	mh.flushSnapshot(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) handleCommand(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, cmd command) {
	if cmd.userID != state.Owner {
		logger.Warn("handleCommand: User %s is not the owner of this table.", cmd.userID)
		mh.sendError(dispatcher, logger, ErrCodeForbidden, "only the table owner may play")
		return
	}

	switch cmd.opCode {
	case OpRollDice:
		mh.handleRollDice(state, dispatcher, logger)
	case OpSelectPiece:
		mh.handleSelectPiece(state, dispatcher, logger, cmd.data)
	case OpResetGame:
		state.Controller.Reset()
		state.BotWaitUntil = 0
		logger.Info("handleCommand: Game reset by %s.", cmd.userID)
	default:
		logger.Warn("MatchLoop: Unknown opcode received: %d", cmd.opCode)
		mh.sendError(dispatcher, logger, ErrCodeBadRequest, fmt.Sprintf("unknown op code %d", cmd.opCode))
	}
}

func (mh *matchHandler) handleRollDice(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.isBotTurn() && state.Controller.State().Phase != domain.PhaseGameOver {
		mh.sendError(dispatcher, logger, ErrCodeInvalidOperation, "waiting for a bot to move")
		return
	}
	result, err := state.Controller.RollDice()
	if err != nil {
		logger.Warn("handleRollDice: %v", err)
		mh.sendError(dispatcher, logger, errorCode(err), err.Error())
		return
	}
	mh.broadcast(dispatcher, logger, OpDiceRolled, result)
}

func (mh *matchHandler) handleSelectPiece(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, data []byte) {
	id, err := decodeSelectPiece(data)
	if err != nil {
		logger.Warn("handleSelectPiece: %v", err)
		mh.sendError(dispatcher, logger, ErrCodeBadRequest, err.Error())
		return
	}
	result, err := state.Controller.SelectPiece(id)
	if err != nil {
		logger.Warn("handleSelectPiece: %s: %v", id, err)
		mh.sendError(dispatcher, logger, errorCode(err), err.Error())
		return
	}
	mh.broadcast(dispatcher, logger, OpPieceMoved, result)
}

// processBots lets the bot to move act once its random delay has elapsed.
func (mh *matchHandler) processBots(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	st := state.Controller.State()
	if st.Phase != domain.PhaseAwaitingRoll || !state.isBotTurn() {
		state.BotWaitUntil = 0
		return
	}

	if state.BotWaitUntil == 0 {
		delay := state.BotMinDelay
		if span := state.BotMaxDelay - state.BotMinDelay; span > 0 {
			delay += state.rng.Intn(span + 1)
		}
		state.BotWaitUntil = state.Tick + int64(delay)
		logger.Debug("processBots: Bot %s will act at tick %d (current %d)", st.CurrentPlayer().ID, state.BotWaitUntil, state.Tick)
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	agent := state.Bots[st.CurrentPlayer().ID]
	turn, err := agent.TakeTurn(state.Controller)
	if err != nil {
		logger.Error("processBots: Bot %s failed to move: %v", agent.ID, err)
		return
	}
	mh.broadcast(dispatcher, logger, OpDiceRolled, turn.Dice)
	if turn.Move != nil {
		mh.broadcast(dispatcher, logger, OpPieceMoved, *turn.Move)
	}
}

// flushSnapshot sends the game state when a listener saw a change since the
// last flush, and keeps the label in step with the phase.
func (mh *matchHandler) flushSnapshot(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if !state.dirty {
		return
	}
	state.dirty = false

	st := state.Controller.State()
	mh.broadcast(dispatcher, logger, OpStateSnapshot, st)
	if st.Phase != state.lastPhase {
		state.lastPhase = st.Phase
		mh.updateLabel(state, dispatcher, logger)
	}
}

func (mh *matchHandler) broadcast(dispatcher runtime.MatchDispatcher, logger runtime.Logger, opCode int64, v any) {
	data, err := encodePayload(v)
	if err != nil {
		logger.Error("Failed to marshal event %d: %v", opCode, err)
		return
	}
	if err := dispatcher.BroadcastMessage(opCode, data, nil, nil, true); err != nil {
		logger.Error("Failed to broadcast event %d: %v", opCode, err)
	}
}

// sendError reports a rejected command. Only the owner can be in the match,
// so the error goes to every presence.
func (mh *matchHandler) sendError(dispatcher runtime.MatchDispatcher, logger runtime.Logger, code int, message string) {
	mh.broadcast(dispatcher, logger, OpGameError, gameErrorEvent{Code: code, Message: message})
}

func errorCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidOperation):
		return ErrCodeInvalidOperation
	case errors.Is(err, domain.ErrUnknownPiece), errors.Is(err, domain.ErrInvalidConfig):
		return ErrCodeBadRequest
	default:
		return ErrCodeInternal
	}
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := encodeLabel(state.label())
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminated with %d grace seconds", graceSeconds)
	if matchState, ok := state.(*MatchState); ok && matchState.unsubscribe != nil {
		matchState.unsubscribe()
	}
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
