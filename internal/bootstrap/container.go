// Package bootstrap wires the application's components together, adapted
// from the project's existing internal/pkg/components container: load
// config, init logging, connect the store, wire the event publisher,
// assemble the engine/reconciler/bulk processor, and build the HTTP server.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"corebank/internal/api/handlers"
	"corebank/internal/api/routes"
	"corebank/internal/bulk"
	"corebank/internal/config"
	"corebank/internal/engine"
	"corebank/internal/events"
	"corebank/internal/events/messaging/kafka"
	"corebank/internal/logging"
	"corebank/internal/reconcile"
	"corebank/internal/store"
	"corebank/internal/store/postgres"
)

// Container holds every initialized component the running process needs.
type Container struct {
	Config        *config.Config
	Store         store.Store
	pgStore       *postgres.Store
	kafkaProducer *kafka.Producer
	Engine        *engine.Engine
	Reconciler    *reconcile.Reconciler
	Bulk          *bulk.Processor
	Router        *gin.Engine
	Server        *http.Server
}

// New builds a fully wired Container. dir is the identity/account directory
// the bulk processor consults to resolve national IDs — an external
// collaborator the caller (typically a thin wrapper around the rest of the
// system's user service) provides.
func New(ctx context.Context, dir bulk.Directory) (*Container, error) {
	c := &Container{Config: config.Load()}
	logging.Init(c.Config)

	pgStore, err := postgres.New(ctx, &postgres.Config{
		Host:              c.Config.Postgres.Host,
		Port:              c.Config.Postgres.Port,
		Database:          c.Config.Postgres.Database,
		User:              c.Config.Postgres.User,
		Password:          c.Config.Postgres.Password,
		SSLMode:           c.Config.Postgres.SSLMode,
		MaxOpenConns:      c.Config.Postgres.MaxOpenConns,
		MaxIdleConns:      c.Config.Postgres.MaxIdleConns,
		ConnMaxLifetime:   c.Config.Postgres.ConnMaxLifetime,
		HealthCheckPeriod: c.Config.Postgres.HealthCheckPeriod,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing postgres store: %w", err)
	}
	c.pgStore = pgStore
	c.Store = pgStore
	logging.Info("store initialized", map[string]any{
		"type": "postgresql", "host": c.Config.Postgres.Host, "database": c.Config.Postgres.Database,
	})

	publisher := c.initEventPublisher()

	c.Engine = engine.New(c.Store)
	c.Engine.Events = publisher
	c.Reconciler = reconcile.New(c.Store)
	c.Reconciler.Events = publisher
	c.Bulk = bulk.New(c.Engine, dir)

	c.initServer()

	logging.Info("all components initialized", nil)
	return c, nil
}

func (c *Container) initEventPublisher() events.Publisher {
	if !c.Config.Kafka.Enabled {
		logging.Info("kafka disabled, using no-op event publisher", nil)
		return events.NoopPublisher{}
	}

	kafkaConfig := kafka.NewConfigFromEnv()
	producer, err := kafka.NewProducer(kafkaConfig)
	if err != nil {
		logging.Warn("failed to initialize kafka, using no-op event publisher", map[string]any{"error": err.Error()})
		return events.NoopPublisher{}
	}

	c.kafkaProducer = producer
	logging.Info("kafka event publisher initialized", map[string]any{"brokers": kafkaConfig.Brokers})
	return events.NewKafkaPublisher(producer)
}

func (c *Container) initServer() {
	if os.Getenv("ENVIRONMENT") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	c.Router = gin.Default()
	container := handlers.NewContainer(c.Engine, c.Reconciler, c.Bulk)
	routes.RegisterRoutes(c.Router, container)

	c.Server = &http.Server{
		Addr:           c.Config.Server.Host + ":" + c.Config.Server.Port,
		Handler:        c.Router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
	logging.Info("http server configured", map[string]any{"address": c.Server.Addr})
}

// Start serves HTTP requests until an interrupt or termination signal
// arrives, then shuts down gracefully.
func (c *Container) Start() error {
	logging.Info("starting http server", map[string]any{"address": c.Server.Addr})

	go func() {
		if err := c.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error("server failed to start", err, nil)
			os.Exit(1)
		}
	}()

	c.waitForShutdown()
	return nil
}

func (c *Container) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info("shutting down server", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.Shutdown(ctx); err != nil {
		logging.Error("server forced to shutdown", err, nil)
	}
	logging.Info("server shutdown complete", nil)
}

// Shutdown stops the HTTP server and closes the store/publisher.
func (c *Container) Shutdown(ctx context.Context) error {
	if err := c.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if c.kafkaProducer != nil {
		if err := c.kafkaProducer.Close(); err != nil {
			logging.Error("failed to close kafka producer", err, nil)
		}
	}
	if c.pgStore != nil {
		c.pgStore.Close()
	}
	return nil
}
