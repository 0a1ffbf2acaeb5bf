package customer

import (
	"fmt"
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
)

// IncompleteProfileError lists the fields that block checkout or approval
type IncompleteProfileError struct {
	Missing []string
}

// NewIncompleteProfileError creates an IncompleteProfileError
func NewIncompleteProfileError(missing ...string) *IncompleteProfileError {
	return &IncompleteProfileError{Missing: missing}
}

// Error implements the error interface
func (e *IncompleteProfileError) Error() string {
	return fmt.Sprintf("incomplete profile: missing %s", strings.Join(e.Missing, ", "))
}

// Unwrap exposes the error as an INCOMPLETE_PROFILE domain error
func (e *IncompleteProfileError) Unwrap() error {
	return shared.NewDomainError(shared.CodeIncompleteProfile, e.Error()).
		WithDetail("missing_fields", e.Missing)
}
