// Package mongo holds the document side of the platform: reviews and
// activity logs. The reservation core never reads from here.
package mongo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/innova/restaurant-reservations/internal/domain"
	"github.com/innova/restaurant-reservations/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type ActivityLogger struct {
	coll   *mongo.Collection
	logger observability.Logger
}

func NewActivityLogger(db *mongo.Database, logger observability.Logger) *ActivityLogger {
	return &ActivityLogger{
		coll:   db.Collection("activity_logs"),
		logger: logger,
	}
}

type ActivityDoc struct {
	ID         uuid.UUID `bson:"_id"`
	Action     string    `bson:"action"`
	CustomerID uuid.UUID `bson:"customer_id"`
	Timestamp  time.Time `bson:"timestamp"`
	Data       bson.M    `bson:"data"`
}

func (a *ActivityLogger) LogEvent(ctx context.Context, action string, customerID uuid.UUID, data map[string]interface{}) error {
	doc := ActivityDoc{
		ID:         uuid.New(),
		Action:     action,
		CustomerID: customerID,
		Timestamp:  time.Now(),
		Data:       bson.M(data),
	}
	_, err := a.coll.InsertOne(ctx, doc)
	if err != nil {
		a.logger.WithError(err).Error("failed to insert activity log")
		return err
	}
	return nil
}

func (a *ActivityLogger) LogReservation(ctx context.Context, action string, r domain.Reservation) error {
	data := map[string]interface{}{
		"reservation_id": r.ID,
		"restaurant_id":  r.RestaurantID,
		"table_id":       r.TableID,
		"scheduled_at":   r.ScheduledAt.Format(time.RFC3339),
		"status":         r.Status,
	}
	return a.LogEvent(ctx, action, r.CustomerID, data)
}
