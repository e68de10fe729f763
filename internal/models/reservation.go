package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type ReservationStatus string

const (
	ReservationStatusPending    ReservationStatus = "pending"
	ReservationStatusConfirmed  ReservationStatus = "confirmed"
	ReservationStatusInProgress ReservationStatus = "in_progress"
	ReservationStatusCompleted  ReservationStatus = "completed"
	ReservationStatusCancelled  ReservationStatus = "cancelled"
	ReservationStatusRejected   ReservationStatus = "rejected"
)

// ConflictRelevantStatuses are the statuses that count toward the no-overlap
// rule. Pending reservations may overlap freely; only confirmation claims the
// vehicle for the period.
var ConflictRelevantStatuses = []ReservationStatus{
	ReservationStatusConfirmed,
	ReservationStatusInProgress,
}

// AllowedTransitions is the reservation lifecycle as a directed graph.
// Terminal statuses have no outgoing edges.
var AllowedTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationStatusPending:    {ReservationStatusConfirmed, ReservationStatusCancelled, ReservationStatusRejected},
	ReservationStatusConfirmed:  {ReservationStatusInProgress, ReservationStatusCancelled},
	ReservationStatusInProgress: {ReservationStatusCompleted},
	ReservationStatusCompleted:  {},
	ReservationStatusCancelled:  {},
	ReservationStatusRejected:   {},
}

// CanTransition reports whether from -> to is a permitted lifecycle move.
func CanTransition(from, to ReservationStatus) bool {
	allowed, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminalStatus reports whether no further transition is permitted.
func IsTerminalStatus(s ReservationStatus) bool {
	allowed, ok := AllowedTransitions[s]
	return ok && len(allowed) == 0
}

// ValidReservationStatus reports whether s is one of the known statuses.
func ValidReservationStatus(s ReservationStatus) bool {
	_, ok := AllowedTransitions[s]
	return ok
}

// Reservation is a booking of one vehicle by one user for a half-open period
// [PeriodStart, PeriodEnd). Duration and price are computed once at creation
// and never recomputed, even if the vehicle's rate changes later.
type Reservation struct {
	gorm.Model
	BookingCode string  `json:"bookingCode" gorm:"column:booking_code;uniqueIndex;not null"`
	VehicleID   uint    `json:"vehicleId" gorm:"column:vehicle_id;index;not null"`
	Vehicle     Vehicle `json:"vehicle"`
	UserID      uint    `json:"userId" gorm:"column:user_id;index;not null"`
	User        User    `json:"user"`

	PeriodStart  time.Time `json:"periodStart" gorm:"column:period_start;not null"`
	PeriodEnd    time.Time `json:"periodEnd" gorm:"column:period_end;not null"`
	DurationDays int       `json:"durationDays" gorm:"column:duration_days;not null"`
	TotalPrice   float64   `json:"totalPrice" gorm:"column:total_price;not null"`

	Status         ReservationStatus `json:"status" gorm:"column:status;type:varchar(16);index;not null;default:'pending'"`
	PickupLocation string            `json:"pickupLocation" gorm:"column:pickup_location;not null"`
	ReturnLocation string            `json:"returnLocation,omitempty" gorm:"column:return_location"`
	Remarks        string            `json:"remarks,omitempty" gorm:"column:remarks"`

	ConfirmedAt *time.Time `json:"confirmedAt,omitempty" gorm:"column:confirmed_at"`
	StartedAt   *time.Time `json:"startedAt,omitempty" gorm:"column:started_at"`
	CompletedAt *time.Time `json:"completedAt,omitempty" gorm:"column:completed_at"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty" gorm:"column:cancelled_at"`
	RejectedAt  *time.Time `json:"rejectedAt,omitempty" gorm:"column:rejected_at"`
}

// TableName specifies the table name
func (Reservation) TableName() string {
	return "reservations"
}

// ApplyTransition moves the reservation to the target status and stamps the
// matching timestamp. Callers must only invoke it after CanTransition, but it
// re-checks and rejects invalid moves so a bad call never corrupts state.
func (r *Reservation) ApplyTransition(to ReservationStatus, now time.Time) error {
	if !CanTransition(r.Status, to) {
		return fmt.Errorf("invalid reservation status transition: %s -> %s", r.Status, to)
	}

	r.Status = to

	switch to {
	case ReservationStatusConfirmed:
		if r.ConfirmedAt == nil {
			t := now
			r.ConfirmedAt = &t
		}
	case ReservationStatusInProgress:
		if r.StartedAt == nil {
			t := now
			r.StartedAt = &t
		}
	case ReservationStatusCompleted:
		if r.CompletedAt == nil {
			t := now
			r.CompletedAt = &t
		}
	case ReservationStatusCancelled:
		if r.CancelledAt == nil {
			t := now
			r.CancelledAt = &t
		}
	case ReservationStatusRejected:
		if r.RejectedAt == nil {
			t := now
			r.RejectedAt = &t
		}
	}
	return nil
}
