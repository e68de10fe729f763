package reservations

import (
	"errors"
	"testing"
	"time"
)

func day(d int, hour int) time.Time {
	return time.Date(2025, 1, d, hour, 0, 0, 0, time.UTC)
}

func rate(v float64) *float64 { return &v }

func TestComputePrice(t *testing.T) {
	tests := []struct {
		name      string
		start     time.Time
		end       time.Time
		dailyRate *float64
		wantDays  int
		wantPrice float64
	}{
		{"exactly three days", day(1, 0), day(4, 0), rate(50), 3, 150},
		{"single day", day(1, 0), day(2, 0), rate(100), 1, 100},
		{"25 hours bills as two days", day(1, 0), day(2, 1), rate(100), 2, 200},
		{"one hour bills as one day", day(1, 0), day(1, 1), rate(80), 1, 80},
		{"zero rate", day(1, 0), day(3, 0), rate(0), 2, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, err := ComputePrice(tc.start, tc.end, tc.dailyRate)
			if err != nil {
				t.Fatalf("ComputePrice: %v", err)
			}
			if q.DurationDays != tc.wantDays {
				t.Errorf("duration: got %d days, want %d", q.DurationDays, tc.wantDays)
			}
			if q.TotalPrice != tc.wantPrice {
				t.Errorf("price: got %v, want %v", q.TotalPrice, tc.wantPrice)
			}
		})
	}
}

func TestComputePriceInvalidRange(t *testing.T) {
	if _, err := ComputePrice(day(2, 0), day(1, 0), rate(50)); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
	// Zero-length periods are invalid too.
	if _, err := ComputePrice(day(1, 0), day(1, 0), rate(50)); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange for empty period, got %v", err)
	}
}

func TestComputePriceMissingRate(t *testing.T) {
	if _, err := ComputePrice(day(1, 0), day(2, 0), nil); !errors.Is(err, ErrMissingRate) {
		t.Fatalf("expected ErrMissingRate, got %v", err)
	}
}
