package notifier

import (
	"context"

	"go.uber.org/zap"

	"laundry/internal/core/ports"
)

// NoopNotifier drops notifications. Used when no broker is configured.
type NoopNotifier struct {
	logger *zap.Logger
}

func NewNoopNotifier(logger *zap.Logger) NoopNotifier {
	return NoopNotifier{logger: logger.Named("noop_notifier")}
}

func (n NoopNotifier) Publish(_ context.Context, notification ports.Notification) error {
	n.logger.Debug("notification dropped",
		zap.String("topic", notification.Topic),
		zap.String("event", notification.Event),
		zap.String("order", notification.Key),
	)
	return nil
}
