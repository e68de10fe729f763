package reservations

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/locarhq/locar-backend/internal/models"
)

// pgExclusionViolation is the SQLSTATE raised when the reservations_no_overlap
// exclusion constraint rejects an insert or update.
const pgExclusionViolation = "23P01"

// GormStore is the Postgres-backed Store used in production.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) GetVehicle(ctx context.Context, id uint) (*models.Vehicle, error) {
	var v models.Vehicle
	if err := s.db.WithContext(ctx).First(&v, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (s *GormStore) GetVehicleForUpdate(ctx context.Context, id uint) (*models.Vehicle, error) {
	var v models.Vehicle
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&v, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (s *GormStore) SaveVehicle(ctx context.Context, v *models.Vehicle) error {
	return s.db.WithContext(ctx).Save(v).Error
}

func (s *GormStore) CreateReservation(ctx context.Context, r *models.Reservation) error {
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return translateReservationErr(err)
	}
	return nil
}

func (s *GormStore) SaveReservation(ctx context.Context, r *models.Reservation) error {
	if err := s.db.WithContext(ctx).Save(r).Error; err != nil {
		return translateReservationErr(err)
	}
	return nil
}

// translateReservationErr maps an exclusion-constraint violation to
// ErrDoubleBooked so a write racing past the in-transaction conflict check
// still surfaces as a booking conflict, not a storage failure.
func translateReservationErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation {
		return ErrDoubleBooked
	}
	return err
}

func (s *GormStore) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	var r models.Reservation
	err := s.db.WithContext(ctx).
		Preload("Vehicle").
		Preload("User").
		First(&r, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &r, nil
}

func (s *GormStore) GetReservationForUpdate(ctx context.Context, id uint) (*models.Reservation, error) {
	var r models.Reservation
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&r, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &r, nil
}

func (s *GormStore) ListReservations(ctx context.Context, f ListFilter) ([]models.Reservation, int64, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	q := s.db.WithContext(ctx).Model(&models.Reservation{})
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.VehicleID != 0 {
		q = q.Where("vehicle_id = ?", f.VehicleID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reservations []models.Reservation
	err := q.Preload("Vehicle").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&reservations).Error
	if err != nil {
		return nil, 0, err
	}
	return reservations, total, nil
}

func (s *GormStore) CountConflicting(ctx context.Context, vehicleID uint, start, end time.Time, excludeID uint) (int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("vehicle_id = ?", vehicleID).
		Where("status IN ?", []models.ReservationStatus{
			models.ReservationStatusConfirmed,
			models.ReservationStatusInProgress,
		}).
		Where("period_start < ? AND period_end > ?", end, start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (s *GormStore) ListAvailableVehicles(ctx context.Context, start, end time.Time) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	err := s.db.WithContext(ctx).
		Where("availability_state = ?", models.VehicleStateAvailable).
		Where(`NOT EXISTS (
			SELECT 1 FROM reservations r
			WHERE r.vehicle_id = vehicles.id
			  AND r.deleted_at IS NULL
			  AND r.status IN ?
			  AND r.period_start < ?
			  AND r.period_end > ?
		)`, []models.ReservationStatus{
			models.ReservationStatusConfirmed,
			models.ReservationStatusInProgress,
		}, end, start).
		Order("daily_rate ASC NULLS LAST, id ASC").
		Find(&vehicles).Error
	if err != nil {
		return nil, err
	}
	return vehicles, nil
}
