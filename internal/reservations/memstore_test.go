package reservations

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/locarhq/locar-backend/internal/models"
)

// memStore is an in-memory Store for tests. Reads hand out copies so only an
// explicit Save mutates stored state, mirroring how the gorm store behaves.
type memStore struct {
	vehicles     map[uint]*models.Vehicle
	reservations map[uint]*models.Reservation
	nextID       uint
}

func newMemStore() *memStore {
	return &memStore{
		vehicles:     make(map[uint]*models.Vehicle),
		reservations: make(map[uint]*models.Reservation),
	}
}

func (m *memStore) addVehicle(state models.VehicleState, dailyRate *float64) *models.Vehicle {
	m.nextID++
	v := &models.Vehicle{
		Make:              "Fiat",
		VehicleModel:      "Mobi",
		Plate:             time.Now().Format("150405.000"),
		DailyRate:         dailyRate,
		AvailabilityState: state,
	}
	v.ID = m.nextID
	m.vehicles[v.ID] = v
	return v
}

func (m *memStore) addReservation(r *models.Reservation) *models.Reservation {
	m.nextID++
	r.ID = m.nextID
	stored := *r
	m.reservations[r.ID] = &stored
	return r
}

func (m *memStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return fn(m)
}

func (m *memStore) GetVehicle(ctx context.Context, id uint) (*models.Vehicle, error) {
	v, ok := m.vehicles[id]
	if !ok {
		return nil, ErrVehicleNotFound
	}
	cp := *v
	return &cp, nil
}

func (m *memStore) GetVehicleForUpdate(ctx context.Context, id uint) (*models.Vehicle, error) {
	return m.GetVehicle(ctx, id)
}

func (m *memStore) SaveVehicle(ctx context.Context, v *models.Vehicle) error {
	cp := *v
	m.vehicles[v.ID] = &cp
	return nil
}

func (m *memStore) CreateReservation(ctx context.Context, r *models.Reservation) error {
	m.addReservation(r)
	return nil
}

func (m *memStore) SaveReservation(ctx context.Context, r *models.Reservation) error {
	cp := *r
	m.reservations[r.ID] = &cp
	return nil
}

func (m *memStore) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	r, ok := m.reservations[id]
	if !ok {
		return nil, ErrReservationNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memStore) GetReservationForUpdate(ctx context.Context, id uint) (*models.Reservation, error) {
	return m.GetReservation(ctx, id)
}

func (m *memStore) ListReservations(ctx context.Context, f ListFilter) ([]models.Reservation, int64, error) {
	var out []models.Reservation
	for _, r := range m.reservations {
		if f.UserID != 0 && r.UserID != f.UserID {
			continue
		}
		if f.VehicleID != 0 && r.VehicleID != f.VehicleID {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func conflictRelevant(s models.ReservationStatus) bool {
	return s == models.ReservationStatusConfirmed || s == models.ReservationStatusInProgress
}

func (m *memStore) CountConflicting(ctx context.Context, vehicleID uint, start, end time.Time, excludeID uint) (int64, error) {
	var n int64
	for _, r := range m.reservations {
		if r.VehicleID != vehicleID || r.ID == excludeID || !conflictRelevant(r.Status) {
			continue
		}
		if r.PeriodStart.Before(end) && r.PeriodEnd.After(start) {
			n++
		}
	}
	return n, nil
}

func (m *memStore) ListAvailableVehicles(ctx context.Context, start, end time.Time) ([]models.Vehicle, error) {
	var out []models.Vehicle
	for _, v := range m.vehicles {
		if v.AvailabilityState != models.VehicleStateAvailable {
			continue
		}
		n, _ := m.CountConflicting(ctx, v.ID, start, end, 0)
		if n > 0 {
			continue
		}
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := math.Inf(1), math.Inf(1)
		if out[i].DailyRate != nil {
			ri = *out[i].DailyRate
		}
		if out[j].DailyRate != nil {
			rj = *out[j].DailyRate
		}
		if ri != rj {
			return ri < rj
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
