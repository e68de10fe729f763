package reservations

import (
	"context"
	"time"

	"github.com/locarhq/locar-backend/internal/models"
)

// ListFilter narrows and pages reservation listings.
type ListFilter struct {
	UserID    uint
	VehicleID uint
	Status    models.ReservationStatus
	Offset    int
	Limit     int
}

// Store is the persistence contract the engine works against. The production
// implementation wraps gorm/Postgres; tests substitute an in-memory fake.
type Store interface {
	// Transaction runs fn against a transactional view of the store. The
	// engine relies on it to make check-then-act sequences atomic: the
	// availability check and the subsequent write must commit together.
	Transaction(ctx context.Context, fn func(tx Store) error) error

	GetVehicle(ctx context.Context, id uint) (*models.Vehicle, error)
	// GetVehicleForUpdate loads the vehicle row with a pessimistic write
	// lock, serializing concurrent bookings and state flips per vehicle.
	GetVehicleForUpdate(ctx context.Context, id uint) (*models.Vehicle, error)
	SaveVehicle(ctx context.Context, v *models.Vehicle) error

	CreateReservation(ctx context.Context, r *models.Reservation) error
	SaveReservation(ctx context.Context, r *models.Reservation) error
	GetReservation(ctx context.Context, id uint) (*models.Reservation, error)
	GetReservationForUpdate(ctx context.Context, id uint) (*models.Reservation, error)
	ListReservations(ctx context.Context, f ListFilter) ([]models.Reservation, int64, error)

	// CountConflicting counts reservations for the vehicle in a
	// conflict-relevant status whose period overlaps [start, end),
	// excluding excludeID when non-zero.
	CountConflicting(ctx context.Context, vehicleID uint, start, end time.Time, excludeID uint) (int64, error)
	// ListAvailableVehicles returns vehicles in the available state with no
	// conflicting reservation in [start, end), ordered by ascending daily
	// rate then id so the result is deterministic.
	ListAvailableVehicles(ctx context.Context, start, end time.Time) ([]models.Vehicle, error)
}
