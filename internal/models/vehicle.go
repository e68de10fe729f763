package models

import (
	"gorm.io/gorm"
)

type VehicleState string

const (
	VehicleStateAvailable     VehicleState = "available"
	VehicleStateReserved      VehicleState = "reserved"
	VehicleStateInMaintenance VehicleState = "in_maintenance"
	VehicleStateUnavailable   VehicleState = "unavailable"
)

// Vehicle represents a rentable vehicle in the fleet. AvailabilityState is
// flipped by the reservation engine when reservations are confirmed or closed;
// fleet staff may also park a vehicle in maintenance.
type Vehicle struct {
	gorm.Model
	Plate             string       `json:"plate" gorm:"column:plate;unique;not null"`
	Make              string       `json:"make" gorm:"column:make;not null"`
	VehicleModel      string       `json:"model" gorm:"column:vehicle_model;not null"`
	Year              int          `json:"year" gorm:"column:year"`
	DailyRate         *float64     `json:"dailyRate,omitempty" gorm:"column:daily_rate"`
	AvailabilityState VehicleState `json:"availabilityState" gorm:"column:availability_state;not null;default:'available'"`
}

// TableName specifies the table name
func (Vehicle) TableName() string {
	return "vehicles"
}

// ValidVehicleState reports whether s is one of the known availability states.
func ValidVehicleState(s VehicleState) bool {
	switch s {
	case VehicleStateAvailable, VehicleStateReserved, VehicleStateInMaintenance, VehicleStateUnavailable:
		return true
	}
	return false
}
