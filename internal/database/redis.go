package database

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/config"
	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client
var Ctx = context.Background()

func InitRedis() {
	Redis = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       0,
	})

	_, err := Redis.Ping(Ctx).Result()
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Rate limiting, caching and fan-out will be disabled.", err)
	} else {
		log.Println("Connected to Redis successfully")
	}
}

// Caching
func CacheSet(key string, value interface{}, expiration time.Duration) error {
	if Redis == nil {
		return redis.Nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return Redis.Set(Ctx, key, payload, expiration).Err()
}

func CacheGet(key string, dest interface{}) error {
	if Redis == nil {
		return redis.Nil
	}
	val, err := Redis.Get(Ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

func CacheDelete(keys ...string) {
	if Redis == nil {
		return
	}
	Redis.Del(Ctx, keys...)
}

// Publish pushes a payload onto a pub/sub channel. Used for the post-commit
// message fan-out; subscribers (socket tier) live outside this process.
func Publish(channel string, payload interface{}) error {
	if Redis == nil {
		return redis.Nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return Redis.Publish(Ctx, channel, data).Err()
}
