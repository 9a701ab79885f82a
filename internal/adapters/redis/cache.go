package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/innova/restaurant-reservations/internal/domain"
	"github.com/redis/go-redis/v9"
)

type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Client() *redis.Client {
	return c.client
}

func (c *Cache) GetRestaurant(ctx context.Context, id uuid.UUID) (*domain.Restaurant, error) {
	val, err := c.client.Get(ctx, "restaurant:"+id.String()).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var r domain.Restaurant
	if err := json.Unmarshal(val, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Cache) SetRestaurant(ctx context.Context, r domain.Restaurant, ttl time.Duration) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "restaurant:"+r.ID.String(), data, ttl).Err()
}
