package pg

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/innova/restaurant-reservations/internal/domain"
	"github.com/jackc/pgx/v5"
)

type OutboxRecord struct {
	ID            uuid.UUID
	AggregateType string
	AggregateID   uuid.UUID
	EventType     string
	Payload       []byte
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Status        string // NEW, PUBLISHED, FAILED
	DedupeKey     string
}

func (r *Repository) insertReservationOutbox(ctx context.Context, tx pgx.Tx, res domain.Reservation, eventType string) error {
	payload, err := json.Marshal(map[string]interface{}{
		"reservation_id": res.ID,
		"restaurant_id":  res.RestaurantID,
		"table_id":       res.TableID,
		"customer_id":    res.CustomerID,
		"scheduled_at":   res.ScheduledAt.Format(time.RFC3339),
		"status":         res.Status,
	})
	if err != nil {
		return err
	}
	return r.InsertOutbox(ctx, tx, OutboxRecord{
		ID:            uuid.New(),
		AggregateType: "reservation",
		AggregateID:   res.ID,
		EventType:     eventType,
		Payload:       payload,
		DedupeKey:     uuid.New().String(),
	})
}

func (r *Repository) InsertOutbox(ctx context.Context, tx pgx.Tx, record OutboxRecord) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload_json, status, dedupe_key)
		VALUES ($1, $2, $3, $4, $5, 'NEW', $6)
	`, record.ID, record.AggregateType, record.AggregateID, record.EventType, record.Payload, record.DedupeKey)
	return err
}

func (r *Repository) GetUnpublishedOutbox(ctx context.Context, limit int) ([]OutboxRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, aggregate_type, aggregate_id, event_type, payload_json, created_at, published_at, status, dedupe_key
		FROM outbox WHERE status = 'NEW' ORDER BY created_at ASC LIMIT $1 FOR UPDATE SKIP LOCKED
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []OutboxRecord
	for rows.Next() {
		var rec OutboxRecord
		err := rows.Scan(&rec.ID, &rec.AggregateType, &rec.AggregateID, &rec.EventType, &rec.Payload, &rec.CreatedAt, &rec.PublishedAt, &rec.Status, &rec.DedupeKey)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *Repository) MarkPublished(ctx context.Context, id uuid.UUID, publishedAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE outbox SET status = 'PUBLISHED', published_at = $2 WHERE id = $1
	`, id, publishedAt)
	return err
}

// SweepNoShows flips CONFIRMED reservations whose check-in window has
// passed to NO_SHOW and returns the affected reservations. The caller is
// responsible for announcing them.
func (r *Repository) SweepNoShows(ctx context.Context, cutoff time.Time) ([]domain.Reservation, error) {
	var swept []domain.Reservation
	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			UPDATE reservations
			SET status = 'NO_SHOW', updated_at = now()
			WHERE status = 'CONFIRMED' AND scheduled_at < $1
			RETURNING `+reservationColumns+`
		`, cutoff)
		if err != nil {
			return err
		}
		swept, err = collectReservations(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return swept, nil
}
