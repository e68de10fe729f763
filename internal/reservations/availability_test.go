package reservations

import (
	"context"
	"testing"
	"time"

	"github.com/locarhq/locar-backend/internal/models"
)

func confirmedReservation(store *memStore, vehicleID uint, start, end time.Time) *models.Reservation {
	r := &models.Reservation{
		VehicleID:   vehicleID,
		UserID:      1,
		PeriodStart: start,
		PeriodEnd:   end,
		Status:      models.ReservationStatusConfirmed,
	}
	return store.addReservation(r)
}

func TestHasConflictOverlap(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	v := store.addVehicle(models.VehicleStateAvailable, rate(50))
	confirmedReservation(store, v.ID, day(5, 0), day(10, 0))

	checker := NewChecker(store)

	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"fully inside", day(6, 0), day(8, 0), true},
		{"overlaps start", day(3, 0), day(6, 0), true},
		{"overlaps end", day(9, 0), day(12, 0), true},
		{"covers existing", day(4, 0), day(11, 0), true},
		{"before", day(1, 0), day(4, 0), false},
		{"after", day(11, 0), day(14, 0), false},
		{"back-to-back before", day(1, 0), day(5, 0), false},
		{"back-to-back after", day(10, 0), day(12, 0), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := checker.HasConflict(ctx, v.ID, tc.start, tc.end, 0)
			if err != nil {
				t.Fatalf("HasConflict: %v", err)
			}
			if got != tc.want {
				t.Errorf("HasConflict(%v, %v) = %v, want %v", tc.start, tc.end, got, tc.want)
			}
		})
	}
}

// Overlap must not depend on which reservation is "existing" and which is the
// candidate.
func TestHasConflictSymmetric(t *testing.T) {
	ctx := context.Background()
	a := struct{ start, end time.Time }{day(5, 0), day(10, 0)}
	b := struct{ start, end time.Time }{day(8, 0), day(12, 0)}

	storeA := newMemStore()
	va := storeA.addVehicle(models.VehicleStateAvailable, rate(50))
	confirmedReservation(storeA, va.ID, a.start, a.end)
	gotA, err := NewChecker(storeA).HasConflict(ctx, va.ID, b.start, b.end, 0)
	if err != nil {
		t.Fatalf("HasConflict: %v", err)
	}

	storeB := newMemStore()
	vb := storeB.addVehicle(models.VehicleStateAvailable, rate(50))
	confirmedReservation(storeB, vb.ID, b.start, b.end)
	gotB, err := NewChecker(storeB).HasConflict(ctx, vb.ID, a.start, a.end, 0)
	if err != nil {
		t.Fatalf("HasConflict: %v", err)
	}

	if gotA != gotB {
		t.Fatalf("conflict not symmetric: %v vs %v", gotA, gotB)
	}
	if !gotA {
		t.Fatal("expected overlapping periods to conflict")
	}
}

func TestHasConflictIgnoresPending(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	v := store.addVehicle(models.VehicleStateAvailable, rate(50))
	store.addReservation(&models.Reservation{
		VehicleID:   v.ID,
		UserID:      1,
		PeriodStart: day(5, 0),
		PeriodEnd:   day(10, 0),
		Status:      models.ReservationStatusPending,
	})

	got, err := NewChecker(store).HasConflict(ctx, v.ID, day(6, 0), day(8, 0), 0)
	if err != nil {
		t.Fatalf("HasConflict: %v", err)
	}
	if got {
		t.Fatal("pending reservations must not count as conflicts")
	}
}

func TestHasConflictExcludesSelf(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	v := store.addVehicle(models.VehicleStateAvailable, rate(50))
	r := confirmedReservation(store, v.ID, day(5, 0), day(10, 0))

	checker := NewChecker(store)
	got, err := checker.HasConflict(ctx, v.ID, day(5, 0), day(10, 0), r.ID)
	if err != nil {
		t.Fatalf("HasConflict: %v", err)
	}
	if got {
		t.Fatal("a reservation must be able to ignore itself during re-evaluation")
	}
}

func TestListAvailableVehicles(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()

	cheap := store.addVehicle(models.VehicleStateAvailable, rate(30))
	pricey := store.addVehicle(models.VehicleStateAvailable, rate(90))
	booked := store.addVehicle(models.VehicleStateAvailable, rate(10))
	confirmedReservation(store, booked.ID, day(5, 0), day(10, 0))
	store.addVehicle(models.VehicleStateInMaintenance, rate(20))

	checker := NewChecker(store)
	got, err := checker.ListAvailableVehicles(ctx, day(6, 0), day(8, 0))
	if err != nil {
		t.Fatalf("ListAvailableVehicles: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 vehicles, got %d", len(got))
	}
	// Deterministic order: ascending daily rate.
	if got[0].ID != cheap.ID || got[1].ID != pricey.ID {
		t.Fatalf("unexpected order: %d, %d", got[0].ID, got[1].ID)
	}

	// The conflicting reservation ends on day 10; a later period frees the
	// booked vehicle again.
	got, err = checker.ListAvailableVehicles(ctx, day(10, 0), day(12, 0))
	if err != nil {
		t.Fatalf("ListAvailableVehicles: %v", err)
	}
	if len(got) != 3 || got[0].ID != booked.ID {
		t.Fatalf("expected booked vehicle (cheapest) first for later period, got %+v", got)
	}
}

func TestListAvailableVehiclesInvalidRange(t *testing.T) {
	store := newMemStore()
	if _, err := NewChecker(store).ListAvailableVehicles(context.Background(), day(5, 0), day(5, 0)); err != ErrInvalidDateRange {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
}
