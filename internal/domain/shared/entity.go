package shared

import "time"

// BaseEntity holds the identity and timestamps shared by persisted records.
// The store assigns ID on insert, so zero means the entity was never saved.
type BaseEntity struct {
	ID        int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity stamps both timestamps with the current time
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{CreatedAt: now, UpdatedAt: now}
}

// IsNew reports whether the entity has not been persisted yet
func (e BaseEntity) IsNew() bool {
	return e.ID == 0
}
