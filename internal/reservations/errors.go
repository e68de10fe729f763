package reservations

import "errors"

// All engine failures are client errors: every one is detected before any
// mutation is persisted, so a handler can map them straight to 4xx responses.
var (
	ErrInvalidDateRange    = errors.New("period end must be after period start")
	ErrVehicleNotFound     = errors.New("vehicle not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrVehicleNotAvailable = errors.New("vehicle is not available for booking")
	ErrDoubleBooked        = errors.New("vehicle already has a conflicting reservation for this period")
	ErrMissingRate         = errors.New("vehicle has no daily rate configured")
	ErrInvalidTransition   = errors.New("requested status is not reachable from the current status")
	ErrAlreadyFinal        = errors.New("reservation is already completed or cancelled")
	ErrForbidden           = errors.New("actor is not allowed to perform this operation")
)
