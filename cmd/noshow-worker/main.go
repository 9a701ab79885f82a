package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/innova/restaurant-reservations/internal/adapters/pg"
	"github.com/innova/restaurant-reservations/internal/adapters/rabbit"
	"github.com/innova/restaurant-reservations/internal/config"
	"github.com/innova/restaurant-reservations/internal/domain"
	"github.com/innova/restaurant-reservations/internal/observability"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	shutdownOtel, err := observability.SetupOTel(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to setup otel: %v", err)
	}
	defer shutdownOtel()

	logger := observability.NewLogger()

	pool, err := pgxpool.New(context.Background(), cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	repo := pg.NewRepository(pool)

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	defer conn.Close()
	rabbitPub, err := rabbit.NewPublisher(conn)
	if err != nil {
		log.Fatalf("failed to create publisher: %v", err)
	}

	worker := NewNoShowWorker(repo, rabbitPub, cfg.CheckInLate, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go worker.Run(ctx, time.Minute)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("Shutdown no-show worker")
}

// NoShowWorker marks CONFIRMED reservations whose check-in window has closed
// as NO_SHOW and announces each one on the events exchange.
type NoShowWorker struct {
	repo      *pg.Repository
	rabbitPub *rabbit.Publisher
	grace     time.Duration
	logger    observability.Logger
}

func NewNoShowWorker(repo *pg.Repository, rabbitPub *rabbit.Publisher, grace time.Duration, logger observability.Logger) *NoShowWorker {
	return &NoShowWorker{repo: repo, rabbitPub: rabbitPub, grace: grace, logger: logger}
}

func (w *NoShowWorker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			swept, err := w.repo.SweepNoShows(ctx, now.Add(-w.grace))
			if err != nil {
				w.logger.WithError(err).Error("failed to sweep no-shows")
				continue
			}
			for _, res := range swept {
				if err := w.publishWithRetry(ctx, res); err != nil {
					w.logger.WithError(err).WithField("reservation_id", res.ID).Error("failed to publish no-show after retries")
				}
			}
		}
	}
}

func (w *NoShowWorker) publishWithRetry(ctx context.Context, res domain.Reservation) error {
	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		payload, _ := json.Marshal(map[string]interface{}{
			"reservation_id": res.ID,
			"restaurant_id":  res.RestaurantID,
			"table_id":       res.TableID,
			"scheduled_at":   res.ScheduledAt,
		})
		msg := amqp.Publishing{
			MessageId:   uuid.New().String(),
			ContentType: "application/json",
			Body:        payload,
		}
		err := w.rabbitPub.Publish(ctx, "reservation.no_show", msg)
		if err == nil {
			return nil
		}

		backoff := time.Duration(1<<i) * time.Second
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("failed after %d retries", maxRetries)
}
