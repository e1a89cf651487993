package services

import (
	"errors"
	"fmt"
)

// Error taxonomy for the booking core. Every failure a handler can see is one
// of these; storage-layer errors never escape the services package.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrForbidden     = errors.New("actor not authorized for this action")
	ErrInvalidWindow = errors.New("invalid booking window")
)

// InvalidPortError reports a port number outside the station's port range.
type InvalidPortError struct {
	Port       int
	TotalPorts int
}

func (e *InvalidPortError) Error() string {
	return fmt.Sprintf("port %d out of range (station has %d ports)", e.Port, e.TotalPorts)
}

// OverlapError reports a window conflict and carries the reservation that
// holds the slot, so callers can say "port busy" instead of a generic failure.
type OverlapError struct {
	ConflictID uint
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("window overlaps reservation %d", e.ConflictID)
}

// IllegalTransitionError reports a status transition the state machine does
// not allow. Callers racing the sweeper treat it as "already resolved".
type IllegalTransitionError struct {
	From string
	To   string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("cannot transition reservation from %s to %s", e.From, e.To)
}
