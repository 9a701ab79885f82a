// Package availability decides whether a table can take a reservation at a
// requested time. Availability is derived from overlapping active
// reservations, never from the table's display status.
package availability

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/innova/restaurant-reservations/internal/domain"
)

// DefaultBuffer is the interval around a candidate time scanned for
// conflicting reservations on the same table.
const DefaultBuffer = time.Hour

// Scanner is the slice of the reservation store the checker reads from.
type Scanner interface {
	FindByTableAndTimeRange(ctx context.Context, tableID uuid.UUID, start, end time.Time) ([]domain.Reservation, error)
}

// Checker validates that a table is free around a candidate time. exclude
// names a reservation to skip during the scan (its own row, on reschedule);
// pass uuid.Nil when creating.
type Checker interface {
	Check(ctx context.Context, tableID uuid.UUID, requestedAt time.Time, exclude uuid.UUID) error
}

// WindowChecker scans [requestedAt-buffer, requestedAt+buffer] and fails on
// any surviving non-cancelled reservation. Read-only; the serializable
// transaction and the slot-bucket unique index in the store close the
// check-then-act race between concurrent writers.
type WindowChecker struct {
	scanner Scanner
	buffer  time.Duration
}

func NewWindowChecker(scanner Scanner, buffer time.Duration) *WindowChecker {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &WindowChecker{scanner: scanner, buffer: buffer}
}

func (c *WindowChecker) Check(ctx context.Context, tableID uuid.UUID, requestedAt time.Time, exclude uuid.UUID) error {
	start := requestedAt.Add(-c.buffer)
	end := requestedAt.Add(c.buffer)

	existing, err := c.scanner.FindByTableAndTimeRange(ctx, tableID, start, end)
	if err != nil {
		return errors.Wrap(err, "scan reservations for table")
	}

	for _, r := range existing {
		if r.ID == exclude {
			continue
		}
		if !r.Active() {
			continue
		}
		return errors.Wrapf(domain.ErrTableConflict,
			"table %s has an active reservation at %s", tableID, r.ScheduledAt.Format(time.RFC3339))
	}
	return nil
}
