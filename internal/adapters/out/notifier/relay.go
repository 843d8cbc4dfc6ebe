package notifier

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

type channelPublisher interface {
	PublishEnvelope(ctx context.Context, env Envelope, raw []byte) (bool, error)
}

// Relay copies notifications from Kafka to the Redis channel named by each envelope's
// topic. A message is committed only after Redis took it, dropped it as stale, or it was
// found malformed.
type Relay struct {
	reader  messageReader
	sink    channelPublisher
	logger  *zap.Logger
	backoff time.Duration
}

func NewRelay(reader messageReader, sink channelPublisher, logger *zap.Logger) *Relay {
	return &Relay{reader: reader, sink: sink, logger: logger.Named("relay"), backoff: time.Second}
}

// Run blocks until ctx is done.
func (r *Relay) Run(ctx context.Context) error {
	for {
		msg, err := r.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			r.logger.Error("kafka fetch failed", zap.Error(err))
			if !sleep(ctx, r.backoff) {
				return ctx.Err()
			}
			continue
		}

		if err = r.forward(ctx, msg); err != nil {
			return err
		}

		if err = r.reader.CommitMessages(ctx, msg); err != nil {
			r.logger.Warn("commit failed", zap.Error(err), zap.Int64("offset", msg.Offset))
		}
	}
}

// forward retries the Redis publish until it succeeds or ctx ends.
func (r *Relay) forward(ctx context.Context, msg kafka.Message) error {
	env, err := DecodeEnvelope(msg.Value)
	if err != nil {
		r.logger.Error("skipping malformed notification",
			zap.Error(err),
			zap.Int64("offset", msg.Offset),
			zap.ByteString("key", msg.Key),
		)
		return nil
	}

	fields := []zap.Field{
		zap.String("channel", env.Topic),
		zap.String("event", env.Event),
		zap.String("order", env.Key),
		zap.Int64("version", env.Version),
	}

	for {
		var sent bool
		sent, err = r.sink.PublishEnvelope(ctx, env, msg.Value)
		if err == nil {
			if sent {
				r.logger.Debug("notification relayed", fields...)
			} else {
				r.logger.Debug("stale notification dropped", fields...)
			}
			return nil
		}

		r.logger.Warn("redis publish failed", zap.Error(err), zap.String("channel", env.Topic))
		if !sleep(ctx, r.backoff) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
