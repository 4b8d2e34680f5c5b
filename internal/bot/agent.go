package bot

import (
	"fmt"

	"ludo/internal/app"
	"ludo/internal/domain"
)

// Agent represents an autonomous bot player.
type Agent struct {
	ID    domain.PlayerID
	Brain Brain
}

// Turn is what an agent did with one roll. Move is nil when the roll was
// forfeited.
type Turn struct {
	Dice app.DiceResult
	Move *app.MoveResult
}

// TakeTurn rolls for the agent and, when something is eligible, moves the
// piece its brain picks. The controller must be awaiting this agent's roll.
func (a *Agent) TakeTurn(ctrl *app.Controller) (Turn, error) {
	st := ctrl.State()
	if st.Phase != domain.PhaseAwaitingRoll {
		return Turn{}, fmt.Errorf("agent %s: %w: %s", a.ID, domain.ErrInvalidOperation, domain.ReasonNotAwaitingRoll)
	}
	if current := st.CurrentPlayer().ID; current != a.ID {
		return Turn{}, fmt.Errorf("agent %s: turn belongs to %s", a.ID, current)
	}

	roll, err := ctrl.RollDice()
	if err != nil {
		return Turn{}, err
	}
	turn := Turn{Dice: roll}
	if roll.TurnForfeited {
		return turn, nil
	}

	choice, err := a.Brain.ChoosePiece(ctrl.Topology(), ctrl.State(), roll.EligiblePieces)
	if err != nil {
		return turn, fmt.Errorf("agent %s: %w", a.ID, err)
	}
	move, err := ctrl.SelectPiece(choice)
	if err != nil {
		return turn, fmt.Errorf("agent %s: %w", a.ID, err)
	}
	turn.Move = &move
	return turn, nil
}
