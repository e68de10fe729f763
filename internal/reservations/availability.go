package reservations

import (
	"context"
	"time"

	"github.com/locarhq/locar-backend/internal/models"
)

// Checker answers "is this vehicle free for this period?" questions against a
// reservation store. It is read-only; the store decides which view (plain
// connection or open transaction) the answer comes from.
type Checker struct {
	store Store
}

func NewChecker(store Store) *Checker {
	return &Checker{store: store}
}

// HasConflict reports whether a confirmed or in-progress reservation for the
// vehicle overlaps the half-open period [start, end). Back-to-back bookings,
// where one ends exactly when the next begins, do not conflict. A non-zero
// excludeID lets a reservation being re-evaluated ignore itself.
func (c *Checker) HasConflict(ctx context.Context, vehicleID uint, start, end time.Time, excludeID uint) (bool, error) {
	n, err := c.store.CountConflicting(ctx, vehicleID, start, end, excludeID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListAvailableVehicles returns the vehicles bookable for [start, end): those
// whose availability state is "available" and that have no conflicting
// reservation in the period.
func (c *Checker) ListAvailableVehicles(ctx context.Context, start, end time.Time) ([]models.Vehicle, error) {
	if !end.After(start) {
		return nil, ErrInvalidDateRange
	}
	return c.store.ListAvailableVehicles(ctx, start, end)
}
