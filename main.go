package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cafeconnect/internal/cart"
	"cafeconnect/internal/config"
	"cafeconnect/internal/events"
	"cafeconnect/internal/server"
	"cafeconnect/internal/store"
	"cafeconnect/pkg/logger"
	"cafeconnect/pkg/rabbitmq"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

const (
	connectTimeout  = 15 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.WithError(err).Fatal("Server stopped")
	}
}

func run(args []string) error {
	cfg, err := config.Load("cafeconnect", args)
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	logger.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	// --- Store ---
	s, err := store.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(context.Background()); err != nil {
			log.WithError(err).Warn("Failed to close database connection")
		}
	}()
	log.WithField("driver", cfg.Database.Driver).Info("Database connected")

	// --- Cart sessions ---
	carts, closeCarts, err := newCartStore(ctx, cfg.Cart)
	if err != nil {
		return err
	}
	defer closeCarts()

	// --- Order events ---
	publisher, err := newPublisher(cfg.Events)
	if err != nil {
		return err
	}
	deps := server.Dependencies{Store: s, Carts: carts}
	if publisher != nil {
		deps.Publisher = publisher
		defer func() {
			if err := publisher.Close(); err != nil {
				log.WithError(err).Warn("Failed to close event publisher")
			}
		}()
	}

	app := server.New(cfg, deps)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() {
		log.Infof("Server running on port %s", cfg.Port)
		errc <- app.Listen(cfg.Port)
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("server failed to start: %w", err)
	case <-quit:
	}

	log.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.WithError(err).Error("Error during server shutdown")
	}
	log.Info("Server gracefully stopped")
	return nil
}

// newPublisher connects the configured event broker. It returns nil when events are
// disabled. With RabbitMQ the API also consumes its own queue and logs each event.
func newPublisher(cfg config.EventsConfig) (events.Publisher, error) {
	switch cfg.Broker {
	case config.BrokerRabbitMQ:
		client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			return nil, err
		}
		if err := client.Consume(events.LogDelivery); err != nil {
			log.WithError(err).Warn("Failed to start order event consumer")
		}
		return events.NewRabbitMQPublisher(client), nil
	case config.BrokerKafka:
		log.WithField("topic", cfg.KafkaTopic).Info("Publishing order events to Kafka")
		return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic), nil
	case config.BrokerNone, "":
		log.Info("Order events disabled")
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported event broker %q", cfg.Broker)
	}
}

// newCartStore returns the cart session store and a function releasing it.
func newCartStore(ctx context.Context, cfg config.CartConfig) (cart.Store, func(), error) {
	switch cfg.Store {
	case config.CartStoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		log.WithField("addr", cfg.RedisAddr).Info("Cart sessions stored in Redis")
		return cart.NewRedisStore(client, cfg.TTL), func() {
			if err := client.Close(); err != nil {
				log.WithError(err).Warn("Failed to close redis client")
			}
		}, nil
	case config.CartStoreMemory, "":
		return cart.NewMemoryStore(cfg.TTL), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported cart store %q", cfg.Store)
	}
}
