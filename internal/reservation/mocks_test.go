package reservation

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/innova/restaurant-reservations/internal/domain"
	"github.com/innova/restaurant-reservations/internal/observability"
)

// memEntities is an in-memory EntityStore for tests.
type memEntities struct {
	restaurants map[uuid.UUID]domain.Restaurant
	tables      map[uuid.UUID]domain.RestaurantTable
	customers   map[uuid.UUID]domain.Customer
}

func newMemEntities() *memEntities {
	return &memEntities{
		restaurants: make(map[uuid.UUID]domain.Restaurant),
		tables:      make(map[uuid.UUID]domain.RestaurantTable),
		customers:   make(map[uuid.UUID]domain.Customer),
	}
}

func (m *memEntities) GetRestaurant(ctx context.Context, id uuid.UUID) (*domain.Restaurant, error) {
	r, ok := m.restaurants[id]
	if !ok {
		return nil, errors.Wrapf(domain.ErrEntityNotFound, "restaurant %s", id)
	}
	return &r, nil
}

func (m *memEntities) GetTable(ctx context.Context, id uuid.UUID) (*domain.RestaurantTable, error) {
	t, ok := m.tables[id]
	if !ok {
		return nil, errors.Wrapf(domain.ErrEntityNotFound, "table %s", id)
	}
	return &t, nil
}

func (m *memEntities) GetCustomer(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return nil, errors.Wrapf(domain.ErrEntityNotFound, "customer %s", id)
	}
	return &c, nil
}

// memRepo is an in-memory Repository for tests. A mutex stands in for the
// serializable transaction of the pg implementation.
type memRepo struct {
	mu           sync.RWMutex
	reservations map[uuid.UUID]domain.Reservation

	createErr error
	updateErr error
}

func newMemRepo() *memRepo {
	return &memRepo{reservations: make(map[uuid.UUID]domain.Reservation)}
}

func (m *memRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.reservations[id]
	if !ok {
		return nil, errors.Wrapf(domain.ErrEntityNotFound, "reservation %s", id)
	}
	return &r, nil
}

func (m *memRepo) FindAll(ctx context.Context) ([]domain.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Reservation, 0, len(m.reservations))
	for _, r := range m.reservations {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	return out, nil
}

func (m *memRepo) FindByTableAndTimeRange(ctx context.Context, tableID uuid.UUID, start, end time.Time) ([]domain.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Reservation
	for _, r := range m.reservations {
		if r.TableID == tableID && !r.ScheduledAt.Before(start) && !r.ScheduledAt.After(end) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	return out, nil
}

func (m *memRepo) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Reservation
	for _, r := range m.reservations {
		if r.CustomerID == customerID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.After(out[j].ScheduledAt) })
	return out, nil
}

func (m *memRepo) FindByRestaurant(ctx context.Context, restaurantID uuid.UUID, status *domain.ReservationStatus) ([]domain.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Reservation
	for _, r := range m.reservations {
		if r.RestaurantID != restaurantID {
			continue
		}
		if status != nil && r.Status != *status {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	return out, nil
}

func (m *memRepo) FindByDateRange(ctx context.Context, restaurantID uuid.UUID, start, end time.Time) ([]domain.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Reservation
	for _, r := range m.reservations {
		if r.RestaurantID == restaurantID && !r.ScheduledAt.Before(start) && r.ScheduledAt.Before(end) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	return out, nil
}

func (m *memRepo) Create(ctx context.Context, r domain.Reservation) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reservations[r.ID] = r
	return nil
}

func (m *memRepo) Update(ctx context.Context, r domain.Reservation) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reservations[r.ID]; !ok {
		return errors.Wrapf(domain.ErrEntityNotFound, "reservation %s", r.ID)
	}
	m.reservations[r.ID] = r
	return nil
}

// nopLogger keeps test output quiet.
type nopLogger struct{}

func (nopLogger) Info(args ...interface{})  {}
func (nopLogger) Error(args ...interface{}) {}
func (nopLogger) Debug(args ...interface{}) {}
func (nopLogger) Warn(args ...interface{})  {}

func (n nopLogger) WithField(string, interface{}) observability.Logger { return n }
func (n nopLogger) WithError(error) observability.Logger               { return n }
