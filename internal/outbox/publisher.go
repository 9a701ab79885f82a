// Package outbox drains NEW outbox rows to RabbitMQ so reservation events
// leave the system only after their transaction committed.
package outbox

import (
	"context"
	"time"

	"github.com/innova/restaurant-reservations/internal/adapters/pg"
	"github.com/innova/restaurant-reservations/internal/adapters/rabbit"
	"github.com/innova/restaurant-reservations/internal/observability"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	pollInterval = 5 * time.Second
	batchSize    = 50
)

type Publisher struct {
	repo      *pg.Repository
	rabbitPub *rabbit.Publisher
	logger    observability.Logger
}

func NewPublisher(repo *pg.Repository, rabbitPub *rabbit.Publisher, logger observability.Logger) *Publisher {
	return &Publisher{repo: repo, rabbitPub: rabbitPub, logger: logger}
}

func (p *Publisher) Run(ctx context.Context) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.drain(ctx)
		}
	}
}

func (p *Publisher) drain(ctx context.Context) {
	records, err := p.repo.GetUnpublishedOutbox(ctx, batchSize)
	if err != nil {
		p.logger.WithError(err).Error("failed to fetch outbox records")
		return
	}
	for _, rec := range records {
		msg := amqp.Publishing{
			MessageId:   rec.DedupeKey,
			ContentType: "application/json",
			Body:        rec.Payload,
		}
		if err := p.rabbitPub.Publish(ctx, rec.EventType, msg); err != nil {
			p.logger.WithError(err).WithField("event_type", rec.EventType).Error("failed to publish outbox record")
			continue
		}
		if err := p.repo.MarkPublished(ctx, rec.ID, time.Now()); err != nil {
			p.logger.WithError(err).Error("failed to mark outbox record published")
		}
		observability.OutboxLag.Set(time.Since(rec.CreatedAt).Seconds())
	}
}
