package handlers

import (
	"log"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/locarhq/locar-backend/internal/models"
	"github.com/locarhq/locar-backend/internal/reservations"
	"github.com/locarhq/locar-backend/internal/services"
)

// GetAvailableVehicles lists vehicles bookable for the requested period.
// Results are cached in Redis for a short TTL; the cache only serves this
// listing, never the booking-time conflict check.
func GetAvailableVehicles(svc *reservations.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		start, err := time.Parse(time.RFC3339, c.Query("periodStart"))
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid periodStart, expected RFC 3339 timestamp"})
			return
		}
		end, err := time.Parse(time.RFC3339, c.Query("periodEnd"))
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid periodEnd, expected RFC 3339 timestamp"})
			return
		}

		ctx := c.Request.Context()
		if cached, err := services.GetCachedAvailableVehicles(ctx, start, end); err == nil {
			c.Data(200, "application/json; charset=utf-8", cached)
			return
		} else if err != redis.Nil {
			log.Printf("Availability cache read failed: %v", err)
		}

		vehicles, err := svc.AvailableVehicles(ctx, start, end)
		if err != nil {
			c.JSON(reservationErrorStatus(err), gin.H{"error": err.Error()})
			return
		}

		payload := gin.H{"vehicles": vehicles, "periodStart": start, "periodEnd": end}
		if err := services.CacheAvailableVehicles(ctx, start, end, payload); err != nil {
			log.Printf("Availability cache write failed: %v", err)
		}

		c.JSON(200, payload)
	}
}

// GetVehicles lists the whole fleet (staff only)
func GetVehicles(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var vehicles []models.Vehicle
		if err := db.Order("id ASC").Find(&vehicles).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch vehicles"})
			return
		}

		c.JSON(200, vehicles)
	}
}

// CreateVehicle adds a vehicle to the fleet (staff only)
func CreateVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Plate     string   `json:"plate" binding:"required"`
			Make      string   `json:"make" binding:"required"`
			Model     string   `json:"model" binding:"required"`
			Year      int      `json:"year"`
			DailyRate *float64 `json:"dailyRate"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if input.DailyRate != nil && *input.DailyRate < 0 {
			c.JSON(400, gin.H{"error": "Daily rate must be non-negative"})
			return
		}

		vehicle := models.Vehicle{
			Plate:             input.Plate,
			Make:              input.Make,
			VehicleModel:      input.Model,
			Year:              input.Year,
			DailyRate:         input.DailyRate,
			AvailabilityState: models.VehicleStateAvailable,
		}

		if err := db.Create(&vehicle).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create vehicle"})
			return
		}

		c.JSON(201, vehicle)
	}
}

// UpdateVehicle updates rate, details, or availability state (staff only).
// State changes here cover the maintenance workflow; the reservation engine
// owns the reserved/available flips that come from bookings.
func UpdateVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid vehicle ID"})
			return
		}

		var input struct {
			Make              string   `json:"make"`
			Model             string   `json:"model"`
			Year              int      `json:"year"`
			DailyRate         *float64 `json:"dailyRate"`
			AvailabilityState string   `json:"availabilityState"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var vehicle models.Vehicle
		if err := db.First(&vehicle, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Vehicle not found"})
			return
		}

		if input.Make != "" {
			vehicle.Make = input.Make
		}
		if input.Model != "" {
			vehicle.VehicleModel = input.Model
		}
		if input.Year != 0 {
			vehicle.Year = input.Year
		}
		if input.DailyRate != nil {
			if *input.DailyRate < 0 {
				c.JSON(400, gin.H{"error": "Daily rate must be non-negative"})
				return
			}
			vehicle.DailyRate = input.DailyRate
		}
		if input.AvailabilityState != "" {
			state := models.VehicleState(input.AvailabilityState)
			if !models.ValidVehicleState(state) {
				c.JSON(400, gin.H{"error": "Invalid availability state"})
				return
			}
			vehicle.AvailabilityState = state
		}

		if err := db.Save(&vehicle).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update vehicle"})
			return
		}

		c.JSON(200, vehicle)
	}
}
