package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mongoadapter "github.com/innova/restaurant-reservations/internal/adapters/mongo"
	"github.com/innova/restaurant-reservations/internal/adapters/pg"
	redisadapter "github.com/innova/restaurant-reservations/internal/adapters/redis"
	"github.com/innova/restaurant-reservations/internal/availability"
	"github.com/innova/restaurant-reservations/internal/config"
	httphandler "github.com/innova/restaurant-reservations/internal/http"
	"github.com/innova/restaurant-reservations/internal/idempotency"
	"github.com/innova/restaurant-reservations/internal/observability"
	"github.com/innova/restaurant-reservations/internal/rateLimit"
	"github.com/innova/restaurant-reservations/internal/reservation"
	"github.com/jackc/pgx/v5/pgxpool"
	redisclient "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	shutdown, err := observability.SetupOTel(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to setup otel: %v", err)
	}
	defer shutdown()

	logger := observability.NewLogger()

	pool, err := pgxpool.New(context.Background(), cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	repo := pg.NewRepository(pool)

	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("failed to connect to mongo: %v", err)
	}
	defer mongoClient.Disconnect(context.Background())
	mongoDB := mongoClient.Database("rrs")
	activity := mongoadapter.NewActivityLogger(mongoDB, logger)
	reviews := mongoadapter.NewReviewRepository(mongoDB, logger)

	redisClient := redisclient.NewClient(&redisclient.Options{Addr: cfg.RedisAddr})
	redisCache := redisadapter.NewCache(redisClient)
	redisIdemp := redisadapter.NewIdempotency(redisClient)
	idemp := idempotency.NewIdempotency(redisIdemp, time.Hour)
	rl := rateLimit.NewRateLimiter(redisCache)

	entities := redisadapter.NewEntityCache(repo, redisCache, 5*time.Minute)
	checker := availability.NewWindowChecker(repo, cfg.ConflictBuffer)
	svc := reservation.NewService(entities, repo, checker, logger)
	svc.SetCheckInWindow(cfg.CheckInEarly, cfg.CheckInLate)

	handlers := httphandler.NewHandlers(cfg, svc, idemp, activity, reviews)

	r := httphandler.SetupRouter(handlers, logger, rl, cfg.JWTSecret)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}
	logger.Info("Server exiting")
}
