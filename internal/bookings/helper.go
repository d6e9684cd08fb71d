package bookings

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"salonhub/internal/shared/constants"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func SetCache(ctx context.Context, redisClient *redis.Client, key string, value interface{}, ttl time.Duration) error {
	if redisClient == nil {
		return nil // Skip caching if Redis not available
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}

	return redisClient.Set(ctx, key, data, ttl).Err()
}

func GetCache(ctx context.Context, redisClient *redis.Client, key string, dest interface{}) error {
	if redisClient == nil {
		return fmt.Errorf("redis client not available")
	}

	data, err := redisClient.Get(ctx, key).Result()
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(data), dest)
}

func DeleteCache(ctx context.Context, redisClient *redis.Client, keys ...string) error {
	if redisClient == nil || len(keys) == 0 {
		return nil
	}

	return redisClient.Del(ctx, keys...).Err()
}

// InvalidateBookingCache drops the availability grid for the affected
// salon and day plus the customer's cached booking pages.
func InvalidateBookingCache(ctx context.Context, redisClient *redis.Client, salonID uuid.UUID, date string, customerID uuid.UUID) error {
	if redisClient == nil {
		return nil
	}

	if err := DeleteCache(ctx, redisClient, constants.BuildAvailabilityKey(salonID.String(), date)); err != nil {
		return err
	}

	pattern := constants.CACHE_KEY_USER_BOOKINGS + customerID.String() + "*"
	keys, err := redisClient.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		if err := redisClient.Del(ctx, keys...).Err(); err != nil {
			return err
		}
	}

	return nil
}
