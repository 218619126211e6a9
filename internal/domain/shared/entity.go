package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity is the generated identity of a line or call and the moment it
// entered the system
type BaseEntity struct {
	ID         uuid.UUID
	RecordedAt time.Time
}

// NewBaseEntity assigns a fresh identity stamped with the current time
func NewBaseEntity() BaseEntity {
	return BaseEntity{ID: uuid.New(), RecordedAt: time.Now()}
}
