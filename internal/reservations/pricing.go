package reservations

import (
	"math"
	"time"
)

// Quote is the result of pricing a rental period against a daily rate.
type Quote struct {
	DurationDays int     `json:"durationDays"`
	TotalPrice   float64 `json:"totalPrice"`
}

// ComputePrice prices the half-open period [start, end) at the given daily
// rate. Fractional days round up: a 25-hour rental bills as 2 days. A nil rate
// means the vehicle has never been priced and cannot be booked.
func ComputePrice(start, end time.Time, dailyRate *float64) (Quote, error) {
	if !end.After(start) {
		return Quote{}, ErrInvalidDateRange
	}
	if dailyRate == nil || *dailyRate < 0 {
		return Quote{}, ErrMissingRate
	}

	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	return Quote{
		DurationDays: days,
		TotalPrice:   float64(days) * *dailyRate,
	}, nil
}
