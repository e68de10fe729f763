package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/locarhq/locar-backend/internal/models"
	"github.com/locarhq/locar-backend/pkg/utils"
)

// ReservationNotifier dispatches reservation events after the engine commits
// a write: an email to the customer plus a Redis pub/sub event. Dispatch runs
// in a goroutine; failures are logged and swallowed so a broken mail server
// can never fail a booking.
type ReservationNotifier struct {
	db *gorm.DB
}

func NewReservationNotifier(db *gorm.DB) *ReservationNotifier {
	return &ReservationNotifier{db: db}
}

func (n *ReservationNotifier) ReservationCreated(r *models.Reservation) {
	go n.dispatch(r, "", true)
}

func (n *ReservationNotifier) ReservationStatusChanged(r *models.Reservation, previous models.ReservationStatus) {
	go n.dispatch(r, previous, false)
}

func (n *ReservationNotifier) dispatch(r *models.Reservation, previous models.ReservationStatus, created bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	vehicle := r.Vehicle
	if vehicle.ID == 0 {
		if err := n.db.WithContext(ctx).First(&vehicle, r.VehicleID).Error; err != nil {
			log.Printf("Notification: failed to load vehicle %d for reservation %s: %v", r.VehicleID, r.BookingCode, err)
		}
	}
	vehicleLabel := fmt.Sprintf("%s %s (%s)", vehicle.Make, vehicle.VehicleModel, vehicle.Plate)

	event := map[string]interface{}{
		"eventId":       uuid.NewString(),
		"reservationId": r.ID,
		"bookingCode":   r.BookingCode,
		"vehicleId":     r.VehicleID,
		"status":        r.Status,
		"timestamp":     time.Now().Unix(),
	}
	if !created {
		event["previousStatus"] = previous
	}
	if err := PublishReservationUpdate(ctx, event); err != nil {
		log.Printf("Notification: failed to publish update for reservation %s: %v", r.BookingCode, err)
	}

	var user models.User
	if err := n.db.WithContext(ctx).First(&user, r.UserID).Error; err != nil {
		log.Printf("Notification: failed to load user %d for reservation %s: %v", r.UserID, r.BookingCode, err)
		return
	}

	var err error
	if created {
		err = utils.SendReservationCreatedEmail(user.Email, r.BookingCode, vehicleLabel, r.PickupLocation, r.DurationDays, r.TotalPrice)
	} else {
		err = utils.SendReservationStatusEmail(user.Email, r.BookingCode, vehicleLabel, string(r.Status))
	}
	if err != nil {
		log.Printf("Notification: failed to send email for reservation %s: %v", r.BookingCode, err)
	}
}
