// Package pg persists the reservation platform's relational entities with
// pgx. The reservation insert path pairs a serializable transaction with a
// partial unique index on (table_id, slot_bucket) so concurrent writers
// cannot race past the availability scan and double-book a table.
package pg

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/innova/restaurant-reservations/internal/domain"
	"github.com/innova/restaurant-reservations/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	SerializationFailureCode = "40001"
	UniqueViolationCode      = "23505"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	start := time.Now()
	defer func() {
		observability.DBTxDuration.Observe(time.Since(start).Seconds())
	}()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, "SET TRANSACTION ISOLATION LEVEL SERIALIZABLE")
	if err != nil {
		return err
	}

	err = fn(tx)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == SerializationFailureCode {
			return domain.ErrSerializationFailure
		}
		return err
	}

	return tx.Commit(ctx)
}

// slotBucket rounds a scheduled time down to its hour in UTC. The partial
// unique index on (table_id, slot_bucket) over non-cancelled rows is the
// last line of defence against concurrent double-booking.
func slotBucket(at time.Time) time.Time {
	return at.UTC().Truncate(time.Hour)
}

func (r *Repository) GetCustomer(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	var c domain.Customer
	err := r.pool.QueryRow(ctx, `
		SELECT id, username, email FROM customers WHERE id = $1
	`, id).Scan(&c.ID, &c.Username, &c.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errors.Wrapf(domain.ErrEntityNotFound, "customer %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) GetRestaurant(ctx context.Context, id uuid.UUID) (*domain.Restaurant, error) {
	var (
		rest             domain.Restaurant
		opening, closing pgtype.Time
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, address, opening_time, closing_time, active
		FROM restaurants WHERE id = $1
	`, id).Scan(&rest.ID, &rest.Name, &rest.Address, &opening, &closing, &rest.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errors.Wrapf(domain.ErrEntityNotFound, "restaurant %s", id)
	}
	if err != nil {
		return nil, err
	}
	rest.OpeningTime = time.Duration(opening.Microseconds) * time.Microsecond
	rest.ClosingTime = time.Duration(closing.Microseconds) * time.Microsecond
	return &rest, nil
}

func (r *Repository) GetTable(ctx context.Context, id uuid.UUID) (*domain.RestaurantTable, error) {
	var t domain.RestaurantTable
	err := r.pool.QueryRow(ctx, `
		SELECT id, restaurant_id, table_number, capacity, status
		FROM restaurant_tables WHERE id = $1
	`, id).Scan(&t.ID, &t.RestaurantID, &t.Number, &t.Capacity, &t.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errors.Wrapf(domain.ErrEntityNotFound, "table %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

const reservationColumns = `
	id, customer_id, restaurant_id, table_id, scheduled_at,
	party_size, special_requests, status, created_at, updated_at`

func scanReservation(row pgx.Row) (domain.Reservation, error) {
	var res domain.Reservation
	err := row.Scan(&res.ID, &res.CustomerID, &res.RestaurantID, &res.TableID, &res.ScheduledAt,
		&res.PartySize, &res.SpecialRequests, &res.Status, &res.CreatedAt, &res.UpdatedAt)
	return res, err
}

func collectReservations(rows pgx.Rows) ([]domain.Reservation, error) {
	defer rows.Close()
	var out []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	res, err := scanReservation(r.pool.QueryRow(ctx, `
		SELECT `+reservationColumns+` FROM reservations WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errors.Wrapf(domain.ErrEntityNotFound, "reservation %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *Repository) FindAll(ctx context.Context) ([]domain.Reservation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+reservationColumns+` FROM reservations ORDER BY scheduled_at ASC
	`)
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

func (r *Repository) FindByTableAndTimeRange(ctx context.Context, tableID uuid.UUID, start, end time.Time) ([]domain.Reservation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+reservationColumns+`
		FROM reservations
		WHERE table_id = $1 AND scheduled_at BETWEEN $2 AND $3
		ORDER BY scheduled_at ASC
	`, tableID, start, end)
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

func (r *Repository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.Reservation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+reservationColumns+`
		FROM reservations
		WHERE customer_id = $1
		ORDER BY scheduled_at DESC
	`, customerID)
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

func (r *Repository) FindByRestaurant(ctx context.Context, restaurantID uuid.UUID, status *domain.ReservationStatus) ([]domain.Reservation, error) {
	if status == nil {
		rows, err := r.pool.Query(ctx, `
			SELECT `+reservationColumns+`
			FROM reservations
			WHERE restaurant_id = $1
			ORDER BY scheduled_at ASC
		`, restaurantID)
		if err != nil {
			return nil, err
		}
		return collectReservations(rows)
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+reservationColumns+`
		FROM reservations
		WHERE restaurant_id = $1 AND status = $2
		ORDER BY scheduled_at ASC
	`, restaurantID, *status)
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

func (r *Repository) FindByDateRange(ctx context.Context, restaurantID uuid.UUID, start, end time.Time) ([]domain.Reservation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+reservationColumns+`
		FROM reservations
		WHERE restaurant_id = $1 AND scheduled_at >= $2 AND scheduled_at < $3
		ORDER BY scheduled_at ASC
	`, restaurantID, start, end)
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

// Create inserts the reservation and its outbox event in one serializable
// transaction. A bucket collision with another active reservation comes back
// as domain.ErrTableConflict.
func (r *Repository) Create(ctx context.Context, res domain.Reservation) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, `
			INSERT INTO reservations (id, customer_id, restaurant_id, table_id, scheduled_at, slot_bucket,
				party_size, special_requests, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (table_id, slot_bucket) WHERE status <> 'CANCELLED' DO NOTHING
		`, res.ID, res.CustomerID, res.RestaurantID, res.TableID, res.ScheduledAt, slotBucket(res.ScheduledAt),
			res.PartySize, res.SpecialRequests, res.Status, res.CreatedAt, res.UpdatedAt)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return errors.Wrapf(domain.ErrTableConflict, "table %s at %s", res.TableID, res.ScheduledAt.Format(time.RFC3339))
		}
		return r.insertReservationOutbox(ctx, tx, res, "reservation.created")
	})
}

// Update rewrites a reservation row and records the matching outbox event:
// a status change maps to reservation.<status>, anything else to
// reservation.updated.
func (r *Repository) Update(ctx context.Context, res domain.Reservation) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		var prev domain.ReservationStatus
		err := tx.QueryRow(ctx, `
			SELECT status FROM reservations WHERE id = $1 FOR UPDATE
		`, res.ID).Scan(&prev)
		if errors.Is(err, pgx.ErrNoRows) {
			return errors.Wrapf(domain.ErrEntityNotFound, "reservation %s", res.ID)
		}
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE reservations
			SET scheduled_at = $2, slot_bucket = $3, party_size = $4, special_requests = $5,
				status = $6, updated_at = $7
			WHERE id = $1
		`, res.ID, res.ScheduledAt, slotBucket(res.ScheduledAt), res.PartySize, res.SpecialRequests,
			res.Status, res.UpdatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == UniqueViolationCode {
				return errors.Wrapf(domain.ErrTableConflict, "table %s at %s", res.TableID, res.ScheduledAt.Format(time.RFC3339))
			}
			return err
		}

		event := "reservation.updated"
		if prev != res.Status {
			event = "reservation." + strings.ToLower(string(res.Status))
		}
		return r.insertReservationOutbox(ctx, tx, res, event)
	})
}
