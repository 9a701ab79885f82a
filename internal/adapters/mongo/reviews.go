package mongo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/innova/restaurant-reservations/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ReviewRepository struct {
	coll   *mongo.Collection
	logger observability.Logger
}

func NewReviewRepository(db *mongo.Database, logger observability.Logger) *ReviewRepository {
	return &ReviewRepository{
		coll:   db.Collection("reviews"),
		logger: logger,
	}
}

type ReviewDoc struct {
	ID           uuid.UUID `bson:"_id"`
	RestaurantID uuid.UUID `bson:"restaurant_id"`
	CustomerID   uuid.UUID `bson:"customer_id"`
	Rating       int       `bson:"rating"`
	Comment      string    `bson:"comment"`
	CreatedAt    time.Time `bson:"created_at"`
}

func (r *ReviewRepository) Add(ctx context.Context, review ReviewDoc) error {
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	review.CreatedAt = time.Now()
	_, err := r.coll.InsertOne(ctx, review)
	if err != nil {
		r.logger.WithError(err).Error("failed to insert review")
		return err
	}
	return nil
}

func (r *ReviewRepository) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, limit int64) ([]ReviewDoc, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cur, err := r.coll.Find(ctx, bson.M{"restaurant_id": restaurantID}, opts)
	if err != nil {
		r.logger.WithError(err).Error("failed to list reviews")
		return nil, err
	}
	defer cur.Close(ctx)

	var reviews []ReviewDoc
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}
