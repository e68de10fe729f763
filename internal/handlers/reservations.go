package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/locarhq/locar-backend/internal/models"
	"github.com/locarhq/locar-backend/internal/reservations"
)

// actorFrom builds the engine actor from the authenticated request context.
func actorFrom(c *gin.Context) reservations.Actor {
	return reservations.Actor{
		UserID: c.GetUint("userId"),
		Staff:  c.GetString("userType") == string(models.UserTypeStaff),
	}
}

// reservationErrorStatus maps engine errors onto HTTP status codes. Every
// engine failure is a client error; anything unrecognized is a 500.
func reservationErrorStatus(err error) int {
	switch {
	case errors.Is(err, reservations.ErrVehicleNotFound),
		errors.Is(err, reservations.ErrReservationNotFound):
		return 404
	case errors.Is(err, reservations.ErrForbidden):
		return 403
	case errors.Is(err, reservations.ErrDoubleBooked):
		return 409
	case errors.Is(err, reservations.ErrInvalidDateRange),
		errors.Is(err, reservations.ErrVehicleNotAvailable),
		errors.Is(err, reservations.ErrMissingRate),
		errors.Is(err, reservations.ErrInvalidTransition),
		errors.Is(err, reservations.ErrAlreadyFinal):
		return 400
	}
	return 500
}

// CreateReservation handles the creation of a new reservation
func CreateReservation(svc *reservations.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			VehicleID      uint      `json:"vehicleId" binding:"required"`
			PeriodStart    time.Time `json:"periodStart" binding:"required"`
			PeriodEnd      time.Time `json:"periodEnd" binding:"required"`
			PickupLocation string    `json:"pickupLocation" binding:"required"`
			ReturnLocation string    `json:"returnLocation"`
			Remarks        string    `json:"remarks"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		reservation, err := svc.Create(c.Request.Context(), actorFrom(c), reservations.CreateInput{
			VehicleID:      input.VehicleID,
			PeriodStart:    input.PeriodStart,
			PeriodEnd:      input.PeriodEnd,
			PickupLocation: input.PickupLocation,
			ReturnLocation: input.ReturnLocation,
			Remarks:        input.Remarks,
		})
		if err != nil {
			c.JSON(reservationErrorStatus(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(201, reservation)
	}
}

// GetReservation retrieves a single reservation for its owner or staff
func GetReservation(svc *reservations.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid reservation ID"})
			return
		}

		reservation, err := svc.Get(c.Request.Context(), actorFrom(c), uint(id))
		if err != nil {
			c.JSON(reservationErrorStatus(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(200, reservation)
	}
}

// ListReservations lists the caller's reservations; staff may filter across
// all users by status and vehicle
func ListReservations(svc *reservations.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter reservations.ListFilter
		if s := c.Query("status"); s != "" {
			filter.Status = models.ReservationStatus(s)
		}
		if v := c.Query("vehicleId"); v != "" {
			vehicleID, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				c.JSON(400, gin.H{"error": "Invalid vehicle ID"})
				return
			}
			filter.VehicleID = uint(vehicleID)
		}
		filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
		filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

		items, total, err := svc.List(c.Request.Context(), actorFrom(c), filter)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch reservations"})
			return
		}

		c.JSON(200, gin.H{"reservations": items, "total": total})
	}
}

// UpdateReservationStatus moves a reservation through its lifecycle (staff only)
func UpdateReservationStatus(svc *reservations.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid reservation ID"})
			return
		}

		var input struct {
			Status string `json:"status" binding:"required,oneof=confirmed in_progress completed cancelled rejected"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		reservation, err := svc.UpdateStatus(c.Request.Context(), actorFrom(c), uint(id), models.ReservationStatus(input.Status))
		if err != nil {
			c.JSON(reservationErrorStatus(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(200, reservation)
	}
}

// CancelReservation cancels a reservation for its owner or staff
func CancelReservation(svc *reservations.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid reservation ID"})
			return
		}

		reservation, err := svc.Cancel(c.Request.Context(), actorFrom(c), uint(id))
		if err != nil {
			c.JSON(reservationErrorStatus(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(200, reservation)
	}
}
