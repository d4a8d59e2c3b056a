package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/flightcatalog/config"
	"github.com/Domenick1991/flightcatalog/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(cfg config.RedisConfig, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		ttl:    ttl,
	}
}

func (c *RedisCache) GetRoutePage(ctx context.Context, origin, destination string, date time.Time, page domain.PageRequest) (*domain.FlightPage, error) {
	data, err := c.client.Get(ctx, routeKey(origin, destination, date, page)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var result domain.FlightPage
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *RedisCache) SetRoutePage(ctx context.Context, origin, destination string, date time.Time, page domain.PageRequest, result *domain.FlightPage) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, routeKey(origin, destination, date, page), payload, c.ttl).Err()
}

// InvalidateRoutes drops every cached route page. Called after any flight
// mutation so stale pages never outlive the TTL window.
func (c *RedisCache) InvalidateRoutes(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, "cache:flights:route:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func routeKey(origin, destination string, date time.Time, page domain.PageRequest) string {
	return fmt.Sprintf("cache:flights:route:%s:%s:%s:%d:%d", origin, destination, date.Format("2006-01-02"), page.Page, page.Size)
}
