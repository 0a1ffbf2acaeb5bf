package order

import (
	"fmt"

	"github.com/storefront/backend/internal/domain/shared"
)

// Status represents the lifecycle status of a purchase
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusDelivering Status = "delivering"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// AllStatuses lists every valid status in pipeline order
var AllStatuses = []Status{
	StatusPending,
	StatusProcessing,
	StatusDelivering,
	StatusCompleted,
	StatusCancelled,
}

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusDelivering, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no transition leaves this status
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// ParseStatus converts a stored value into a Status.
// Unknown values are a data-integrity failure and are never coerced.
func ParseStatus(value string) (Status, error) {
	s := Status(value)
	if !s.IsValid() {
		return "", shared.NewDomainError(shared.CodeDataIntegrity,
			fmt.Sprintf("unrecognized purchase status %q", value))
	}
	return s, nil
}
