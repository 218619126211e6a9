package billing

import (
	"fmt"
	"time"

	"github.com/leecohen23/Phone-compamy-software/internal/domain/shared"
)

// Call is an immutable record of a single phone call.
// Duration is in seconds; billing rounds it up to whole minutes.
type Call struct {
	shared.BaseEntity
	Source   string    // Number that placed the call and is billed for it
	Target   string    // Number that received the call
	At       time.Time // When the call started
	Duration int       // Length of the call in seconds
}

// NewCall creates a call record with validation
func NewCall(source, target string, at time.Time, durationSeconds int) (*Call, error) {
	if source == "" {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Source number cannot be empty")
	}
	if target == "" {
		return nil, shared.NewDomainError("INVALID_TARGET", "Target number cannot be empty")
	}
	if durationSeconds < 0 {
		return nil, shared.NewDomainError("INVALID_DURATION", "Call duration cannot be negative")
	}
	if at.IsZero() {
		return nil, shared.NewDomainError("INVALID_TIME", "Call time must be set")
	}

	return &Call{
		BaseEntity: shared.NewBaseEntity(),
		Source:     source,
		Target:     target,
		At:         at,
		Duration:   durationSeconds,
	}, nil
}

// Minutes returns the call duration rounded up to whole minutes
func (c *Call) Minutes() int {
	return CeilMinutes(c.Duration)
}

// Period returns the billing period the call belongs to
func (c *Call) Period() Period {
	return PeriodOf(c.At)
}

// Key returns a deterministic identity for the call, independent of its
// generated ID, so the same call imported twice yields the same key.
func (c *Call) Key() string {
	return fmt.Sprintf("%s|%s|%d|%d", c.Source, c.Target, c.At.Unix(), c.Duration)
}

// CeilMinutes converts seconds to whole minutes, rounding any partial minute up
func CeilMinutes(seconds int) int {
	if seconds <= 0 {
		return 0
	}
	return (seconds + 59) / 60
}
