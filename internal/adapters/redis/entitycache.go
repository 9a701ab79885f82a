package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/innova/restaurant-reservations/internal/domain"
	"github.com/innova/restaurant-reservations/internal/reservation"
)

// EntityCache decorates an entity store with a short-lived restaurant cache.
// Restaurant profiles (hours, active flag) change rarely and are read on
// every create; tables and customers pass through.
type EntityCache struct {
	next  reservation.EntityStore
	cache *Cache
	ttl   time.Duration
}

func NewEntityCache(next reservation.EntityStore, cache *Cache, ttl time.Duration) *EntityCache {
	return &EntityCache{next: next, cache: cache, ttl: ttl}
}

func (e *EntityCache) GetRestaurant(ctx context.Context, id uuid.UUID) (*domain.Restaurant, error) {
	if cached, err := e.cache.GetRestaurant(ctx, id); err == nil && cached != nil {
		return cached, nil
	}
	r, err := e.next.GetRestaurant(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = e.cache.SetRestaurant(ctx, *r, e.ttl)
	return r, nil
}

func (e *EntityCache) GetTable(ctx context.Context, id uuid.UUID) (*domain.RestaurantTable, error) {
	return e.next.GetTable(ctx, id)
}

func (e *EntityCache) GetCustomer(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	return e.next.GetCustomer(ctx, id)
}
