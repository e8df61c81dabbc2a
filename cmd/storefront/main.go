// cmd/storefront/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/butcher-storefront/internal/config"
	"github.com/your-org/butcher-storefront/internal/domain/catalog"
	"github.com/your-org/butcher-storefront/internal/domain/checkout"
	"github.com/your-org/butcher-storefront/internal/domain/session"
	"github.com/your-org/butcher-storefront/internal/infrastructure/database/postgres"
	"github.com/your-org/butcher-storefront/internal/infrastructure/database/redis"
	"github.com/your-org/butcher-storefront/internal/infrastructure/events"
	"github.com/your-org/butcher-storefront/internal/infrastructure/remote"
	"github.com/your-org/butcher-storefront/internal/infrastructure/storage"
	"github.com/your-org/butcher-storefront/internal/interfaces/http"
	"github.com/your-org/butcher-storefront/internal/interfaces/http/routes"
	"github.com/your-org/butcher-storefront/internal/pkg/auth"
	"github.com/your-org/butcher-storefront/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(cfg)
	log.WithFields(logrus.Fields{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Infof("starting %s", cfg.App.Name)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := http.Options{Checks: map[string]http.HealthChecker{}}
	var kv storage.KV

	switch cfg.Storage.Driver {
	case config.StorageRedis:
		redisClient, err := redis.NewConnection(cfg, log)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()

		kv = redisClient
		opts.RedisClient = redisClient.GetClient()
		opts.Checks["redis"] = redisClient

	case config.StoragePostgres:
		db, err := postgres.NewConnection(cfg, log)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		migration := postgres.NewMigration(db.GetDB(), log)
		if err := migration.RunAutoMigrations(); err != nil {
			log.Fatalf("Database migration failed: %v", err)
		}
		if err := migration.CreateIndexes(); err != nil {
			log.WithError(err).Warn("index creation failed")
		}
		go purgeExpired(ctx, migration, cfg.Session.SweepInterval, log)

		kv = postgres.NewStateStore(db.GetDB(), cfg.Storage.TTL)
		opts.Checks["database"] = db

	default:
		log.Warn("using in-memory storage, carts are lost on restart")
		kv = storage.NewMemory()
	}

	client := remote.NewClient(cfg, log)
	catalogService := catalog.NewService(client, cfg.Catalog.CacheTTL, log)

	sessions := session.NewManager(session.Options{
		KV:          kv,
		KeyPrefix:   cfg.Storage.KeyPrefix,
		Remote:      client,
		Catalog:     catalogService,
		Debounce:    cfg.Stock.DebounceInterval,
		IdleTimeout: cfg.Session.IdleTimeout,
		Log:         log,
	})
	defer sessions.Close()
	go sessions.Run(ctx, cfg.Session.SweepInterval)

	var publisher events.Publisher = events.Noop{}
	if cfg.Events.Enabled() {
		publisher = events.NewKafkaPublisher(cfg.Events.KafkaBrokers, cfg.Events.Topic, log)
		log.WithField("topic", cfg.Events.Topic).Info("publishing order events to kafka")
	}
	defer publisher.Close()

	opts.Routes = routes.Deps{
		Config:          cfg,
		Log:             log,
		Client:          client,
		Sessions:        sessions,
		CheckoutService: checkout.NewService(client, log).WithEvents(publisher),
		JWTManager:      auth.NewJWTManager(cfg),
	}
	server := http.NewServer(opts)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.WithError(err).Error("failed to shutdown HTTP server gracefully")
	}

	log.Info("server shutdown completed")
}

// purgeExpired drops stale client state rows until ctx is done
func purgeExpired(ctx context.Context, migration *postgres.Migration, interval time.Duration, log *logrus.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := migration.PurgeExpired(); err != nil {
				log.WithError(err).Warn("failed to purge expired client state")
			} else if n > 0 {
				log.WithField("rows", n).Debug("purged expired client state")
			}
		}
	}
}
