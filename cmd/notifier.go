package cmd

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"laundry/internal/adapters/out/notifier"
	"laundry/internal/core/ports"
)

// NewNotifier builds the configured notifier (noop, redis or kafka).
func NewNotifier(lc fx.Lifecycle, cfg Config, logger *zap.Logger) (ports.Notifier, error) {
	switch cfg.Notifier.Driver {
	case NotifierNoop:
		logger.Info("notifications disabled; using noop notifier")
		return notifier.NewNoopNotifier(logger), nil
	case NotifierRedis:
		client := newRedisClient(lc, cfg.Notifier.Redis, logger)
		return notifier.NewRedisNotifier(client), nil
	case NotifierKafka:
		writer := notifier.NewKafkaWriter(kafkaConfig(cfg.Notifier.Kafka), logger.Named("kafka"))
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return writer.Close()
			},
		})
		logger.Info("kafka notifier configured",
			zap.Strings("brokers", cfg.Notifier.Kafka.Brokers),
			zap.String("topic", cfg.Notifier.Kafka.Topic),
		)
		return notifier.NewKafkaNotifier(writer, logger), nil
	default:
		return nil, fmt.Errorf("unsupported notifier driver: %s", cfg.Notifier.Driver)
	}
}

// NewRelay consumes the kafka notification topic and republishes on redis.
func NewRelay(lc fx.Lifecycle, cfg Config, logger *zap.Logger) *notifier.Relay {
	reader := notifier.NewKafkaReader(kafkaConfig(cfg.Notifier.Kafka))
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return reader.Close()
		},
	})
	client := newRedisClient(lc, cfg.Notifier.Redis, logger)
	return notifier.NewRelay(reader, notifier.NewRedisNotifier(client), logger)
}

// RunRelay runs the relay loop for the lifetime of the application.
func RunRelay(lc fx.Lifecycle, relay *notifier.Relay, logger *zap.Logger) {
	var (
		cancel context.CancelFunc
		done   = make(chan struct{})
	)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			var ctx context.Context
			ctx, cancel = context.WithCancel(context.Background())
			go func() {
				defer close(done)
				if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("notification relay stopped", zap.Error(err))
				}
			}()
			logger.Info("notification relay started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}

func newRedisClient(lc fx.Lifecycle, cfg Redis, logger *zap.Logger) *goredis.Client {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("ping redis: %w", err)
			}
			logger.Info("redis connected", zap.String("addr", cfg.Addr))
			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return client
}

func kafkaConfig(cfg Kafka) notifier.KafkaConfig {
	return notifier.KafkaConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		ConsumerGroup:  cfg.ConsumerGroup,
		ConnectTimeout: cfg.ConnectTimeout,
	}
}
