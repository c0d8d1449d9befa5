package redis

import (
	"context"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// IRedis is the read cache used for single-post lookups.
type IRedis interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

type Config struct {
	Address  string
	Password string
	DB       int
}

type redisClient struct {
	client *redis.Client
	log    *logrus.Logger
}

// New returns a no-op cache when no address is configured.
func New(cfg Config, log *logrus.Logger) IRedis {
	if cfg.Address == "" {
		log.Info("Redis address not configured, read cache disabled")
		return NopCache{}
	}

	log.Infof("Connecting to Redis at %s...", cfg.Address)

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Errorf("Failed to connect to Redis: %v", err)
	} else {
		log.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client, log: log}
}

func (r *redisClient) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		r.log.Debugf("Cache miss for key %s", key)
		return false, nil
	} else if err != nil {
		return false, err
	}

	if err := jsoniter.Unmarshal(val, dest); err != nil {
		return false, err
	}

	r.log.Debugf("Cache hit for key %s", key)
	return true, nil
}

func (r *redisClient) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	payload, err := jsoniter.Marshal(value)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, key, payload, expiration).Err()
}

func (r *redisClient) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	result, err := r.client.Del(ctx, keys...).Result()
	if err != nil {
		return err
	}

	r.log.Debugf("Deleted %d of %d cache keys", result, len(keys))
	return nil
}

func (r *redisClient) Close() error {
	return r.client.Close()
}

type NopCache struct{}

func (NopCache) GetJSON(context.Context, string, interface{}) (bool, error) { return false, nil }

func (NopCache) SetJSON(context.Context, string, interface{}, time.Duration) error { return nil }

func (NopCache) Delete(context.Context, ...string) error { return nil }

func (NopCache) Close() error { return nil }
