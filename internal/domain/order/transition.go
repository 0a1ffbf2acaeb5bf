package order

import (
	"fmt"

	"github.com/storefront/backend/internal/domain/shared"
)

// Action is a state-machine event that moves a purchase between statuses
type Action string

const (
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionAdvance  Action = "advance"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
)

// IsValid checks if the action is known
func (a Action) IsValid() bool {
	switch a {
	case ActionApprove, ActionReject, ActionAdvance, ActionComplete, ActionCancel:
		return true
	}
	return false
}

// String returns the string representation of Action
func (a Action) String() string {
	return string(a)
}

// transitions is the complete transition table. Approve lists its success
// target; a failed profile guard diverts it to cancelled.
var transitions = map[Status]map[Action]Status{
	StatusPending: {
		ActionApprove: StatusProcessing,
		ActionReject:  StatusCancelled,
		ActionCancel:  StatusCancelled,
	},
	StatusProcessing: {
		ActionAdvance: StatusDelivering,
		ActionReject:  StatusCancelled,
	},
	StatusDelivering: {
		ActionComplete: StatusCompleted,
	},
}

// NextStatus returns the status reached by applying action in from.
func NextStatus(from Status, action Action) (Status, error) {
	if !action.IsValid() {
		return "", shared.NewDomainError(shared.CodeValidationFailed, fmt.Sprintf("unknown action %q", action))
	}
	to, ok := transitions[from][action]
	if !ok {
		return "", NewInvalidTransitionError(from, action)
	}
	return to, nil
}

// CanApply reports whether action is legal from status
func CanApply(from Status, action Action) bool {
	_, err := NextStatus(from, action)
	return err == nil
}

// AvailableActions lists the actions legal from status, in a stable order
func AvailableActions(from Status) []Action {
	actions := make([]Action, 0, 3)
	for _, a := range []Action{ActionApprove, ActionAdvance, ActionComplete, ActionReject, ActionCancel} {
		if CanApply(from, a) {
			actions = append(actions, a)
		}
	}
	return actions
}

// NewInvalidTransitionError builds the INVALID_TRANSITION error for from/action
func NewInvalidTransitionError(from Status, action Action) *shared.DomainError {
	return shared.NewDomainError(shared.CodeInvalidTransition,
		fmt.Sprintf("cannot %s a purchase in %s status", action, from)).
		WithDetail("status", from.String()).
		WithDetail("action", action.String())
}
