// Package cache is a thin JSON cache over Redis.
//
// Every helper degrades to a no-op when Redis is unreachable, so callers
// fall back to uncached reads instead of erroring.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ruberanziza1/alx-project-nexus/config"
)

var (
	RDB *redis.Client
	Ctx = context.Background()
)

// Connect initialises the Redis client and verifies it responds.
func Connect() error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
	})

	if err := client.Ping(Ctx).Err(); err != nil {
		RDB = nil
		return fmt.Errorf("cache: redis ping: %w", err)
	}

	RDB = client
	return nil
}

// Get unmarshals the cached value for key into dest. Reports whether it
// was a hit; misses and decode failures both read as a miss.
func Get(key string, dest interface{}) bool {
	if RDB == nil {
		return false
	}
	raw, err := RDB.Get(Ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// Set stores value under key for ttl.
func Set(key string, value interface{}, ttl time.Duration) error {
	if RDB == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return RDB.Set(Ctx, key, data, ttl).Err()
}

// Remember returns the cached value for key, filling the cache from fill
// on a miss. dest receives the value either way.
func Remember(key string, ttl time.Duration, dest interface{}, fill func() (interface{}, error)) error {
	if Get(key, dest) {
		return nil
	}

	value, err := fill()
	if err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return err
	}
	return Set(key, value, ttl)
}

// Del removes one or more keys.
func Del(keys ...string) error {
	if RDB == nil {
		return nil
	}
	return RDB.Del(Ctx, keys...).Err()
}
