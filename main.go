package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hey-kuldeep/expense-xtrac/config"
	"github.com/hey-kuldeep/expense-xtrac/events"
	"github.com/hey-kuldeep/expense-xtrac/expenses"
	"github.com/hey-kuldeep/expense-xtrac/handlers"
	"github.com/hey-kuldeep/expense-xtrac/kafka"
	"github.com/hey-kuldeep/expense-xtrac/logger"
	"github.com/hey-kuldeep/expense-xtrac/mongodb"
	"github.com/hey-kuldeep/expense-xtrac/users"
	"github.com/hey-kuldeep/expense-xtrac/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	connectTimeout  = 15 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	foundDotenv := config.LoadDotenv()

	cfg, err := config.Load()
	if err != nil {
		// Logger is not configured yet.
		os.Stderr.WriteString("invalid configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(cfg.Development, logger.LogLevel(cfg.LogLevel)); err != nil {
		os.Stderr.WriteString("failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	if !foundDotenv {
		log.Warn("Warning: .env file not found")
	}
	if !cfg.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	store, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		cancel()
		log.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	if err := store.EnsureIndexes(ctx); err != nil {
		cancel()
		log.Fatal("Failed to create indexes", zap.Error(err))
	}
	cancel()
	log.Info("Connected to MongoDB", zap.String("database", cfg.MongoDatabase))

	var (
		publisher    events.Publisher = events.NopPublisher{}
		pool         *worker.WorkerPool
		producer     *kafka.Producer
		eventMetrics http.HandlerFunc
	)
	if cfg.Kafka.Enabled() {
		producer, err = kafka.NewProducer(cfg.Kafka)
		if err != nil {
			log.Fatal("Failed to create Kafka producer", zap.Error(err))
		}
		pool = worker.NewWorkerPool(cfg.EventWorkers, producer.Send)
		pool.Start()
		publisher = events.NewDispatcher(pool)
		eventMetrics = pool.MetricsHandler
		log.Info("Publishing domain events",
			zap.String("topic", cfg.Kafka.Topic),
			zap.Int("workers", cfg.EventWorkers))
	} else {
		log.Info("KAFKA_BOOTSTRAP_SERVERS not set, domain events disabled")
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Users:        users.NewDirectory(store.Users(), publisher, cfg.BcryptCost),
		Expenses:     expenses.NewLedger(store.Expenses(), publisher),
		Health:       store,
		EventMetrics: eventMetrics,
		CORSOrigin:   cfg.CORSOrigin,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Error("Server failed", zap.Error(err))
	case sig := <-shutdownSignal:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
	if pool != nil {
		pool.Stop()
	}
	if producer != nil {
		producer.Close()
	}
	store.Close(shutdownCtx)
	log.Info("Server stopped")
}
