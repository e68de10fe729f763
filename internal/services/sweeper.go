package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/locarhq/locar-backend/internal/models"
	"github.com/locarhq/locar-backend/internal/reservations"
)

// Sweeper advances reservation lifecycles on a schedule: it starts confirmed
// reservations whose period has begun, completes in-progress ones whose
// period has ended, and rejects pending requests that were never reviewed
// before their start date. Every change goes through the reservation service
// as a privileged system actor, so the transition rules and vehicle-state
// side effects apply exactly as for a staff request.
type Sweeper struct {
	db  *gorm.DB
	svc *reservations.Service
}

func NewSweeper(db *gorm.DB, svc *reservations.Service) *Sweeper {
	return &Sweeper{db: db, svc: svc}
}

// Start registers the sweep on the given cron scheduler.
func (s *Sweeper) Start(c *cron.Cron) error {
	_, err := c.AddFunc("@every 5m", s.Run)
	return err
}

// Run executes one sweep. Exported so it can be triggered manually.
func (s *Sweeper) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	now := time.Now().UTC()
	s.sweep(ctx, now, models.ReservationStatusConfirmed, "period_start <= ?", models.ReservationStatusInProgress)
	s.sweep(ctx, now, models.ReservationStatusInProgress, "period_end <= ?", models.ReservationStatusCompleted)
	s.sweep(ctx, now, models.ReservationStatusPending, "period_start <= ?", models.ReservationStatusRejected)
}

func (s *Sweeper) sweep(ctx context.Context, now time.Time, from models.ReservationStatus, dueCond string, to models.ReservationStatus) {
	var ids []uint
	err := s.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("status = ?", from).
		Where(dueCond, now).
		Pluck("id", &ids).Error
	if err != nil {
		log.Printf("Sweeper: failed to list %s reservations: %v", from, err)
		return
	}

	system := reservations.Actor{Staff: true}
	for _, id := range ids {
		if _, err := s.svc.UpdateStatus(ctx, system, id, to); err != nil {
			// Someone may have transitioned it between the listing and
			// this call; an invalid transition is not an error here.
			if errors.Is(err, reservations.ErrInvalidTransition) {
				continue
			}
			log.Printf("Sweeper: failed to move reservation %d to %s: %v", id, to, err)
			continue
		}
		log.Printf("Sweeper: reservation %d moved from %s to %s", id, from, to)
	}
}
