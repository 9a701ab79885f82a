// Package reservation implements the booking lifecycle: creation against
// capacity, schedule and availability rules, status transitions, check-in
// and cancellation, plus the read-side queries.
package reservation

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/innova/restaurant-reservations/internal/availability"
	"github.com/innova/restaurant-reservations/internal/domain"
	"github.com/innova/restaurant-reservations/internal/observability"
	"golang.org/x/sync/errgroup"
)

// EntityStore resolves the entities a reservation references. Lookups that
// miss return domain.ErrEntityNotFound.
type EntityStore interface {
	GetRestaurant(ctx context.Context, id uuid.UUID) (*domain.Restaurant, error)
	GetTable(ctx context.Context, id uuid.UUID) (*domain.RestaurantTable, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
}

// Repository is the reservation persistence surface. Create must refuse a
// second active reservation in the same table slot with
// domain.ErrTableConflict even when two writers race past the availability
// scan; the pg implementation does this with a serializable transaction and
// a partial unique index.
type Repository interface {
	availability.Scanner

	Get(ctx context.Context, id uuid.UUID) (*domain.Reservation, error)
	FindAll(ctx context.Context) ([]domain.Reservation, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.Reservation, error)
	FindByRestaurant(ctx context.Context, restaurantID uuid.UUID, status *domain.ReservationStatus) ([]domain.Reservation, error)
	FindByDateRange(ctx context.Context, restaurantID uuid.UUID, start, end time.Time) ([]domain.Reservation, error)
	Create(ctx context.Context, r domain.Reservation) error
	Update(ctx context.Context, r domain.Reservation) error
}

// UpdateParams carries the optional fields of a reservation update. Nil
// means "leave unchanged".
type UpdateParams struct {
	ScheduledAt     *time.Time
	PartySize       *int
	SpecialRequests *string
}

type Service struct {
	entities EntityStore
	repo     Repository
	checker  availability.Checker
	logger   observability.Logger

	checkInEarly time.Duration
	checkInLate  time.Duration
	now          func() time.Time
}

func NewService(entities EntityStore, repo Repository, checker availability.Checker, logger observability.Logger) *Service {
	return &Service{
		entities:     entities,
		repo:         repo,
		checker:      checker,
		logger:       logger,
		checkInEarly: 30 * time.Minute,
		checkInLate:  2 * time.Hour,
		now:          time.Now,
	}
}

// SetCheckInWindow overrides the default early/late check-in bounds.
func (s *Service) SetCheckInWindow(early, late time.Duration) {
	if early > 0 {
		s.checkInEarly = early
	}
	if late > 0 {
		s.checkInLate = late
	}
}

// Create validates and persists a new reservation in PENDING state.
func (s *Service) Create(ctx context.Context, customerID, restaurantID, tableID uuid.UUID, scheduledAt time.Time, partySize int, specialRequests string) (*domain.Reservation, error) {
	var (
		restaurant *domain.Restaurant
		customer   *domain.Customer
		table      *domain.RestaurantTable

		restaurantErr, customerErr, tableErr error
	)

	// The three lookups are independent; fetch them concurrently but report
	// failures in a fixed order so callers see deterministic errors.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		restaurant, restaurantErr = s.entities.GetRestaurant(gctx, restaurantID)
		return nil
	})
	g.Go(func() error {
		customer, customerErr = s.entities.GetCustomer(gctx, customerID)
		return nil
	})
	g.Go(func() error {
		table, tableErr = s.entities.GetTable(gctx, tableID)
		return nil
	})
	_ = g.Wait()
	_ = customer // fetched only to verify the customer exists

	if restaurantErr != nil {
		return nil, errors.Wrap(restaurantErr, "restaurant")
	}
	if !restaurant.Active {
		return nil, errors.Wrapf(domain.ErrRestaurantInactive, "restaurant %s", restaurantID)
	}
	if customerErr != nil {
		return nil, errors.Wrap(customerErr, "customer")
	}
	if tableErr != nil {
		return nil, errors.Wrap(tableErr, "table")
	}

	if partySize > table.Capacity {
		return nil, errors.Wrapf(domain.ErrCapacityExceeded, "party of %d on table for %d", partySize, table.Capacity)
	}
	if !scheduledAt.After(s.now()) {
		return nil, domain.ErrPastDateNotAllowed
	}
	if !domain.WithinOperatingHours(scheduledAt, restaurant.OpeningTime, restaurant.ClosingTime) {
		return nil, domain.ErrOutsideOperatingHours
	}

	if err := s.checker.Check(ctx, tableID, scheduledAt, uuid.Nil); err != nil {
		if errors.Is(err, domain.ErrTableConflict) {
			observability.TableConflicts.Inc()
		}
		return nil, err
	}

	r := domain.NewReservation(customerID, restaurantID, tableID, scheduledAt, partySize, specialRequests)
	if err := s.repo.Create(ctx, r); err != nil {
		if errors.Is(err, domain.ErrTableConflict) {
			observability.TableConflicts.Inc()
		}
		return nil, errors.Wrap(err, "persist reservation")
	}

	observability.ReservationsCreated.Inc()
	s.logger.WithField("reservation_id", r.ID).
		WithField("table_id", tableID).
		Info("reservation created")
	return &r, nil
}

// Update modifies a PENDING reservation. A new scheduled time is validated
// against the future rule, the restaurant's hours and table availability,
// excluding the reservation's own row from the conflict scan.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*domain.Reservation, error) {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "reservation")
	}
	if r.Status != domain.StatusPending {
		return nil, errors.Wrapf(domain.ErrReservationNotEditable, "status %s", r.Status)
	}

	if params.ScheduledAt != nil {
		at := *params.ScheduledAt
		if !at.After(s.now()) {
			return nil, domain.ErrPastDateNotAllowed
		}
		restaurant, err := s.entities.GetRestaurant(ctx, r.RestaurantID)
		if err != nil {
			return nil, errors.Wrap(err, "restaurant")
		}
		if !domain.WithinOperatingHours(at, restaurant.OpeningTime, restaurant.ClosingTime) {
			return nil, domain.ErrOutsideOperatingHours
		}
		if err := s.checker.Check(ctx, r.TableID, at, r.ID); err != nil {
			if errors.Is(err, domain.ErrTableConflict) {
				observability.TableConflicts.Inc()
			}
			return nil, err
		}
		r.ScheduledAt = at
	}
	if params.PartySize != nil {
		r.PartySize = *params.PartySize
	}
	if params.SpecialRequests != nil {
		r.SpecialRequests = *params.SpecialRequests
	}

	r.Touch()
	if err := s.repo.Update(ctx, *r); err != nil {
		return nil, errors.Wrap(err, "persist reservation")
	}

	s.logger.WithField("reservation_id", r.ID).Info("reservation updated")
	return r, nil
}

// UpdateStatus applies the state machine and persists the new status.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, requested domain.ReservationStatus) (*domain.Reservation, error) {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "reservation")
	}
	if err := domain.ValidateTransition(r.Status, requested); err != nil {
		return nil, err
	}

	r.Status = requested
	r.Touch()
	if err := s.repo.Update(ctx, *r); err != nil {
		return nil, errors.Wrap(err, "persist reservation")
	}

	observability.ReservationStatusChanges.WithLabelValues(string(requested)).Inc()
	s.logger.WithField("reservation_id", r.ID).
		WithField("status", requested).
		Info("reservation status changed")
	return r, nil
}

func (s *Service) Confirm(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	return s.UpdateStatus(ctx, id, domain.StatusConfirmed)
}

// CheckIn completes a confirmed reservation when the guest arrives. Arrival
// is accepted from 30 minutes before the scheduled time until 2 hours after;
// there is no separate seated state, check-in goes straight to COMPLETED.
func (s *Service) CheckIn(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "reservation")
	}
	if r.Status != domain.StatusConfirmed {
		return nil, errors.Wrapf(domain.ErrInvalidCheckInState, "status %s", r.Status)
	}

	now := s.now()
	if now.Before(r.ScheduledAt.Add(-s.checkInEarly)) || now.After(r.ScheduledAt.Add(s.checkInLate)) {
		return nil, domain.ErrCheckInWindowExceeded
	}

	r.Status = domain.StatusCompleted
	r.Touch()
	if err := s.repo.Update(ctx, *r); err != nil {
		return nil, errors.Wrap(err, "persist reservation")
	}

	observability.ReservationStatusChanges.WithLabelValues(string(domain.StatusCompleted)).Inc()
	s.logger.WithField("reservation_id", r.ID).Info("reservation checked in")
	return r, nil
}

// Cancel moves a reservation to CANCELLED. Only CANCELLED and COMPLETED
// block cancellation; a NO_SHOW reservation may still be cancelled, so the
// rule is applied here instead of through ValidateTransition.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "reservation")
	}
	if r.Status == domain.StatusCancelled || r.Status == domain.StatusCompleted {
		return nil, errors.Wrapf(domain.ErrAlreadyTerminal, "status %s", r.Status)
	}

	r.Status = domain.StatusCancelled
	r.Touch()
	if err := s.repo.Update(ctx, *r); err != nil {
		return nil, errors.Wrap(err, "persist reservation")
	}

	observability.ReservationStatusChanges.WithLabelValues(string(domain.StatusCancelled)).Inc()
	s.logger.WithField("reservation_id", r.ID).Info("reservation cancelled")
	return r, nil
}

// Read-side queries. Pure passthroughs to the repository.

func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) FindAll(ctx context.Context) ([]domain.Reservation, error) {
	return s.repo.FindAll(ctx)
}

func (s *Service) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.Reservation, error) {
	return s.repo.FindByCustomer(ctx, customerID)
}

func (s *Service) FindByRestaurant(ctx context.Context, restaurantID uuid.UUID, status *domain.ReservationStatus) ([]domain.Reservation, error) {
	return s.repo.FindByRestaurant(ctx, restaurantID, status)
}

func (s *Service) FindByDateRange(ctx context.Context, restaurantID uuid.UUID, start, end time.Time) ([]domain.Reservation, error) {
	return s.repo.FindByDateRange(ctx, restaurantID, start, end)
}

func (s *Service) FindToday(ctx context.Context, restaurantID uuid.UUID) ([]domain.Reservation, error) {
	start, end := domain.DayBounds(s.now())
	return s.repo.FindByDateRange(ctx, restaurantID, start, end)
}
