package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/ports"
)

// notificationPublisher fans notifications out after commit. Failures are logged and
// counted; they never reach the caller.
type notificationPublisher struct {
	notifier ports.Notifier
	metrics  Metrics
	logger   *zap.Logger
}

func (p notificationPublisher) publish(ctx context.Context, notifications ...ports.Notification) {
	ctx = context.WithoutCancel(ctx)
	for _, n := range notifications {
		if err := p.notifier.Publish(ctx, n); err != nil {
			p.metrics.NotificationFailed(n.Event)
			p.logger.Warn("notification not delivered",
				zap.String("topic", n.Topic),
				zap.String("event", n.Event),
				zap.String("order", n.Key),
				zap.Error(err),
			)
		}
	}
}

func newOrderNotifications(o *order.Order, partnerUserID kernel.UUID) []ports.Notification {
	snapshot := ports.NewOrderSnapshot(o)
	key := o.Number().String()

	return []ports.Notification{
		{
			Topic:   ports.PartnerTopic(partnerUserID),
			Event:   ports.EventNewOrder,
			Key:     key,
			Version: o.Version(),
			Payload: ports.NotificationPayload{
				Message: "Anda mendapatkan order baru!",
				Order:   snapshot,
			},
		},
		{
			Topic:   ports.AdminTopic,
			Event:   ports.EventAdminNotification,
			Key:     key,
			Version: o.Version(),
			Payload: ports.NotificationPayload{
				Type:    "NEW_ORDER",
				Message: fmt.Sprintf("Order baru %s telah dibuat.", key),
				Order:   snapshot,
			},
		},
	}
}

func orderUpdateNotifications(o *order.Order, partnerUserID kernel.UUID) []ports.Notification {
	snapshot := ports.NewOrderSnapshot(o)
	key := o.Number().String()
	status := o.Status().String()

	notifications := []ports.Notification{
		{
			Topic:   ports.CustomerTopic(o.CustomerID()),
			Event:   ports.EventOrderUpdate,
			Key:     key,
			Version: o.Version(),
			Payload: ports.NotificationPayload{
				Message: "Status order Anda: " + status,
				Order:   snapshot,
			},
		},
		{
			Topic:   ports.PartnerTopic(partnerUserID),
			Event:   ports.EventOrderUpdate,
			Key:     key,
			Version: o.Version(),
			Payload: ports.NotificationPayload{
				Message: fmt.Sprintf("Status order %s diupdate menjadi %s", key, status),
				Order:   snapshot,
			},
		},
	}

	if courierID := o.CourierID(); courierID != nil {
		notifications = append(notifications, ports.Notification{
			Topic:   ports.CourierTopic(*courierID),
			Event:   ports.EventOrderUpdate,
			Key:     key,
			Version: o.Version(),
			Payload: ports.NotificationPayload{
				Message: "Tugas baru update: " + status,
				Order:   snapshot,
			},
		})
	}

	return notifications
}
