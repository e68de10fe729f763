package reservations

import (
	"context"
	"time"

	"github.com/locarhq/locar-backend/internal/models"
	"github.com/locarhq/locar-backend/pkg/utils"
)

// Actor identifies who is invoking an operation. Staff actors may act on any
// reservation; customers only on their own.
type Actor struct {
	UserID uint
	Staff  bool
}

// Notifier receives reservation events after the transactional write has
// committed. Implementations are expected to be fire-and-forget: a failed
// dispatch must never fail or roll back the operation that triggered it.
type Notifier interface {
	ReservationCreated(r *models.Reservation)
	ReservationStatusChanged(r *models.Reservation, previous models.ReservationStatus)
}

// Service implements the reservation engine: booking creation with conflict
// detection, lifecycle transitions, and the vehicle-state side effects those
// transitions trigger.
type Service struct {
	store    Store
	notifier Notifier
}

func NewService(store Store, notifier Notifier) *Service {
	return &Service{store: store, notifier: notifier}
}

// CreateInput carries a booking request.
type CreateInput struct {
	VehicleID      uint
	PeriodStart    time.Time
	PeriodEnd      time.Time
	PickupLocation string
	ReturnLocation string
	Remarks        string
}

// Create books a vehicle for the requesting actor. The vehicle row is locked
// for the duration of the transaction so the conflict check and the insert
// commit atomically; two racing requests for the same vehicle serialize here.
func (s *Service) Create(ctx context.Context, actor Actor, in CreateInput) (*models.Reservation, error) {
	if !in.PeriodEnd.After(in.PeriodStart) {
		return nil, ErrInvalidDateRange
	}

	var reservation *models.Reservation
	err := s.store.Transaction(ctx, func(tx Store) error {
		vehicle, err := tx.GetVehicleForUpdate(ctx, in.VehicleID)
		if err != nil {
			return err
		}

		// Conflict check comes first: a period clash reads as "double
		// booked" even when confirming the clashing reservation already
		// flipped the vehicle out of the available state.
		conflict, err := NewChecker(tx).HasConflict(ctx, in.VehicleID, in.PeriodStart, in.PeriodEnd, 0)
		if err != nil {
			return err
		}
		if conflict {
			return ErrDoubleBooked
		}
		if vehicle.AvailabilityState != models.VehicleStateAvailable {
			return ErrVehicleNotAvailable
		}

		quote, err := ComputePrice(in.PeriodStart, in.PeriodEnd, vehicle.DailyRate)
		if err != nil {
			return err
		}

		reservation = &models.Reservation{
			BookingCode:    utils.NewBookingCode(),
			VehicleID:      in.VehicleID,
			UserID:         actor.UserID,
			PeriodStart:    in.PeriodStart,
			PeriodEnd:      in.PeriodEnd,
			DurationDays:   quote.DurationDays,
			TotalPrice:     quote.TotalPrice,
			Status:         models.ReservationStatusPending,
			PickupLocation: in.PickupLocation,
			ReturnLocation: in.ReturnLocation,
			Remarks:        in.Remarks,
		}
		if err := tx.CreateReservation(ctx, reservation); err != nil {
			return err
		}
		reservation.Vehicle = *vehicle
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.ReservationCreated(reservation)
	}
	return reservation, nil
}

// UpdateStatus moves a reservation through its lifecycle. Restricted to staff
// actors; customers cancel through Cancel instead.
func (s *Service) UpdateStatus(ctx context.Context, actor Actor, id uint, target models.ReservationStatus) (*models.Reservation, error) {
	if !actor.Staff {
		return nil, ErrForbidden
	}
	if !models.ValidReservationStatus(target) {
		return nil, ErrInvalidTransition
	}

	return s.transition(ctx, id, target)
}

// Cancel cancels a reservation on behalf of its owner or a staff actor.
func (s *Service) Cancel(ctx context.Context, actor Actor, id uint) (*models.Reservation, error) {
	var (
		reservation *models.Reservation
		previous    models.ReservationStatus
	)
	err := s.store.Transaction(ctx, func(tx Store) error {
		r, err := tx.GetReservationForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !actor.Staff && r.UserID != actor.UserID {
			return ErrForbidden
		}
		switch r.Status {
		case models.ReservationStatusCompleted, models.ReservationStatusCancelled:
			return ErrAlreadyFinal
		}
		if !models.CanTransition(r.Status, models.ReservationStatusCancelled) {
			return ErrInvalidTransition
		}
		previous = r.Status
		reservation = r
		return s.applyTransition(ctx, tx, r, models.ReservationStatusCancelled)
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.ReservationStatusChanged(reservation, previous)
	}
	return reservation, nil
}

func (s *Service) transition(ctx context.Context, id uint, target models.ReservationStatus) (*models.Reservation, error) {
	var (
		reservation *models.Reservation
		previous    models.ReservationStatus
	)
	err := s.store.Transaction(ctx, func(tx Store) error {
		r, err := tx.GetReservationForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !models.CanTransition(r.Status, target) {
			return ErrInvalidTransition
		}
		previous = r.Status
		reservation = r
		return s.applyTransition(ctx, tx, r, target)
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.ReservationStatusChanged(reservation, previous)
	}
	return reservation, nil
}

// applyTransition persists the status change and runs the vehicle-state side
// effect inside the same transaction.
func (s *Service) applyTransition(ctx context.Context, tx Store, r *models.Reservation, target models.ReservationStatus) error {
	if err := r.ApplyTransition(target, time.Now().UTC()); err != nil {
		return ErrInvalidTransition
	}
	if err := tx.SaveReservation(ctx, r); err != nil {
		return err
	}
	return syncVehicleState(ctx, tx, r.VehicleID, target)
}

// syncVehicleState applies the side effect a reservation status change has on
// the vehicle's availability flag. Any terminal status releases the vehicle
// unconditionally, without checking for other confirmed reservations still
// holding it; that matches the historical behavior and is pinned by a test.
func syncVehicleState(ctx context.Context, tx Store, vehicleID uint, newStatus models.ReservationStatus) error {
	var target models.VehicleState
	switch newStatus {
	case models.ReservationStatusConfirmed:
		target = models.VehicleStateReserved
	case models.ReservationStatusCancelled, models.ReservationStatusRejected, models.ReservationStatusCompleted:
		target = models.VehicleStateAvailable
	default:
		// No side effect for pending or in_progress.
		return nil
	}

	vehicle, err := tx.GetVehicleForUpdate(ctx, vehicleID)
	if err != nil {
		return err
	}
	vehicle.AvailabilityState = target
	return tx.SaveVehicle(ctx, vehicle)
}

// Get returns a single reservation; customers may only read their own.
func (s *Service) Get(ctx context.Context, actor Actor, id uint) (*models.Reservation, error) {
	r, err := s.store.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Staff && r.UserID != actor.UserID {
		return nil, ErrForbidden
	}
	return r, nil
}

// List returns reservations matching the filter. Customers are always scoped
// to their own reservations regardless of the filter.
func (s *Service) List(ctx context.Context, actor Actor, f ListFilter) ([]models.Reservation, int64, error) {
	if !actor.Staff {
		f.UserID = actor.UserID
	}
	return s.store.ListReservations(ctx, f)
}

// AvailableVehicles answers the bulk availability query for [start, end).
func (s *Service) AvailableVehicles(ctx context.Context, start, end time.Time) ([]models.Vehicle, error) {
	return NewChecker(s.store).ListAvailableVehicles(ctx, start, end)
}
