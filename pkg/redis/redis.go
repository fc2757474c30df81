package redis

import (
	"FaceStream/internal/entity"
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const AttributesKey = "facestream:attributes"

type IRedis interface {
	SetAttributes(ctx context.Context, attrs entity.Attributes, expiration time.Duration) error
	DeleteAttributes(ctx context.Context) error
	Close() error
}

type Config struct {
	Address  string
	Password string
	DB       int
}

type redisClient struct {
	client *redis.Client
	key    string
}

func New(cfg Config) IRedis {
	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", cfg.Address))

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client, key: AttributesKey}
}

func (r *redisClient) SetAttributes(ctx context.Context, attrs entity.Attributes, expiration time.Duration) error {
	payload, err := jsoniter.Marshal(attrs)
	if err != nil {
		return fmt.Errorf("encode attributes: %w", err)
	}

	logrus.Debug(fmt.Sprintf("Setting attributes for key %s with expiration %v", r.key, expiration))
	if err := r.client.Set(ctx, r.key, payload, expiration).Err(); err != nil {
		logrus.Error(fmt.Sprintf("Error setting attributes for key %s: %v", r.key, err))
		return err
	}
	return nil
}

func (r *redisClient) DeleteAttributes(ctx context.Context) error {
	result, err := r.client.Del(ctx, r.key).Result()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error deleting attributes for key %s: %v", r.key, err))
		return err
	}

	if result == 0 {
		logrus.Debug(fmt.Sprintf("Attributes key %s not found for deletion", r.key))
	}
	return nil
}

func (r *redisClient) Close() error {
	return r.client.Close()
}
