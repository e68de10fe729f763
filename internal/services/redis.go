package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// availabilityCacheTTL bounds how stale the public available-vehicles listing
// may get. The booking conflict check always goes to the database.
const availabilityCacheTTL = time.Minute

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

func availabilityCacheKey(start, end time.Time) string {
	return fmt.Sprintf("vehicles:available:%d:%d", start.Unix(), end.Unix())
}

// CacheAvailableVehicles stores the serialized available-vehicles response
// for a period
func CacheAvailableVehicles(ctx context.Context, start, end time.Time, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return RedisClient.Set(ctx, availabilityCacheKey(start, end), data, availabilityCacheTTL).Err()
}

// GetCachedAvailableVehicles retrieves a cached available-vehicles response.
// A cache miss returns redis.Nil.
func GetCachedAvailableVehicles(ctx context.Context, start, end time.Time) (json.RawMessage, error) {
	data, err := RedisClient.Get(ctx, availabilityCacheKey(start, end)).Result()
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

// PublishReservationUpdate publishes a reservation event to Redis pub/sub so
// downstream consumers (dashboards, audit feeds) can follow status changes.
func PublishReservationUpdate(ctx context.Context, event map[string]interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return RedisClient.Publish(ctx, "reservation:updates", data).Err()
}
