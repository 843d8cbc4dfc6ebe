package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
)

// Event names carried by notifications.
const (
	EventNewOrder          = "new_order"
	EventAdminNotification = "admin_notification"
	EventOrderUpdate       = "order_update"
)

// AdminTopic is the room every administrator listens on.
const AdminTopic = "admin_room"

func PartnerTopic(userID kernel.UUID) string {
	return "partner_" + userID.String()
}

func CustomerTopic(userID kernel.UUID) string {
	return "customer_" + userID.String()
}

func CourierTopic(userID kernel.UUID) string {
	return "courier_" + userID.String()
}

// Notification is one event addressed to one topic. Key groups notifications that must
// stay in order; it is the order number. Within a key, Version grows with every committed
// change, so subscribers drop anything at or below the last version they saw.
type Notification struct {
	Topic   string              `json:"topic"`
	Event   string              `json:"event"`
	Key     string              `json:"key"`
	Version int64               `json:"version"`
	Payload NotificationPayload `json:"payload"`
}

// NotificationPayload is what subscribers receive.
type NotificationPayload struct {
	Type    string        `json:"type,omitempty"`
	Message string        `json:"message"`
	Order   OrderSnapshot `json:"order"`
}

// Notifier delivers notifications best-effort. Callers publish only after commit and treat
// errors as loggable, never as a reason to undo the change.
type Notifier interface {
	Publish(ctx context.Context, notification Notification) error
}

// OrderSnapshot is the serialised order sent to subscribers.
type OrderSnapshot struct {
	ID                   string          `json:"id"`
	Number               string          `json:"orderNumber"`
	CustomerID           string          `json:"customerId"`
	PartnerID            string          `json:"partnerId"`
	CourierID            *string         `json:"courierId"`
	Items                []ItemSnapshot  `json:"items"`
	IsExpress            bool            `json:"isExpress"`
	TotalPrice           decimal.Decimal `json:"totalPrice"`
	EstimatedTimeMinutes int             `json:"estimatedTime"`
	PickupAddress        string          `json:"pickupAddress"`
	DeliveryAddress      string          `json:"deliveryAddress"`
	PickupLat            float64         `json:"pickupLat"`
	PickupLng            float64         `json:"pickupLng"`
	Status               string          `json:"status"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
	Version              int64           `json:"version"`
}

type ItemSnapshot struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"qty"`
	Unit     string  `json:"unit"`
}

// NewOrderSnapshot copies the aggregate into its wire form.
func NewOrderSnapshot(o *order.Order) OrderSnapshot {
	var courierID *string
	if id := o.CourierID(); id != nil {
		s := id.String()
		courierID = &s
	}

	items := make([]ItemSnapshot, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, ItemSnapshot{Name: item.Name(), Quantity: item.Quantity(), Unit: item.Unit()})
	}

	return OrderSnapshot{
		ID:                   o.ID().String(),
		Number:               o.Number().String(),
		CustomerID:           o.CustomerID().String(),
		PartnerID:            o.PartnerID().String(),
		CourierID:            courierID,
		Items:                items,
		IsExpress:            o.IsExpress(),
		TotalPrice:           o.Quote().TotalPrice(),
		EstimatedTimeMinutes: o.Quote().EstimatedMinutes(),
		PickupAddress:        o.Route().PickupAddress(),
		DeliveryAddress:      o.Route().DeliveryAddress(),
		PickupLat:            o.Route().Pickup().Lat(),
		PickupLng:            o.Route().Pickup().Lng(),
		Status:               o.Status().String(),
		CreatedAt:            o.CreatedAt(),
		UpdatedAt:            o.UpdatedAt(),
		Version:              o.Version(),
	}
}
