package order

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Role identifies what kind of principal is acting on a purchase
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
	// RoleSystem is used by background jobs and carries admin rights
	RoleSystem Role = "system"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleAdmin, RoleSystem:
		return true
	}
	return false
}

// Actor is the explicit principal behind a transition request
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

// NewCustomerActor creates a customer actor
func NewCustomerActor(userID uuid.UUID) Actor {
	return Actor{UserID: userID, Role: RoleCustomer}
}

// NewAdminActor creates an admin (operator) actor
func NewAdminActor(userID uuid.UUID) Actor {
	return Actor{UserID: userID, Role: RoleAdmin}
}

// SystemActor is the actor used for background work
var SystemActor = Actor{Role: RoleSystem}

// IsStaff reports whether the actor carries operator rights
func (a Actor) IsStaff() bool {
	return a.Role == RoleAdmin || a.Role == RoleSystem
}

// CanView reports whether the actor may read the purchase
func (a Actor) CanView(p *Purchase) bool {
	return a.IsStaff() || (a.Role == RoleCustomer && p.UserID == a.UserID)
}

// Authorize decides whether actor may apply action to p. It depends only on
// its inputs; status legality is checked separately by the transition table.
//
// Operators drive the pipeline (approve, reject, advance, complete). Cancel is
// the customer's own action on their purchase; operators may also use it, but
// the table only allows it from pending, while reject also covers processing.
func Authorize(actor Actor, p *Purchase, action Action) error {
	if !actor.Role.IsValid() {
		return shared.ErrUnauthorized
	}
	switch action {
	case ActionApprove, ActionReject, ActionAdvance, ActionComplete:
		if !actor.IsStaff() {
			return shared.NewDomainError(shared.CodeForbidden, "only operators may "+action.String()+" a purchase")
		}
		return nil
	case ActionCancel:
		if actor.IsStaff() || p.UserID == actor.UserID {
			return nil
		}
		return shared.NewDomainError(shared.CodeForbidden, "purchase belongs to another customer")
	}
	return shared.NewDomainError(shared.CodeValidationFailed, "unknown action "+action.String())
}
