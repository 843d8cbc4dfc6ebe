// Package servers holds the HTTP contract of the dispatch API: wire types, the server
// interface and its echo wiring, all kept in step with openapi.yaml.
package servers

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

const (
	BearerAuthScopes = "BearerAuth.Scopes"
)

// Defines values for OrderStatus.
const (
	OrderStatusCOMPLETED        OrderStatus = "COMPLETED"
	OrderStatusDELIVERING       OrderStatus = "DELIVERING"
	OrderStatusPENDING          OrderStatus = "PENDING"
	OrderStatusPICKEDUP         OrderStatus = "PICKED_UP"
	OrderStatusPICKUPASSIGNED   OrderStatus = "PICKUP_ASSIGNED"
	OrderStatusREADYFORDELIVERY OrderStatus = "READY_FOR_DELIVERY"
)

// CreatedOrder defines model for CreatedOrder.
type CreatedOrder struct {
	AiExplanation   string  `json:"aiExplanation"`
	ConfidenceScore float64 `json:"confidenceScore"`
	Order           Order   `json:"order"`
}

// Error defines model for Error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Item defines model for Item.
type Item struct {
	Name string  `json:"name"`
	Qty  float64 `json:"qty"`
	Unit string  `json:"unit"`
}

// NewOrder defines model for NewOrder.
type NewOrder struct {
	DeliveryAddress string  `json:"deliveryAddress"`
	IsExpress       *bool   `json:"isExpress,omitempty"`
	Items           []Item  `json:"items"`
	PickupAddress   string  `json:"pickupAddress"`
	PickupLat       float64 `json:"pickupLat"`
	PickupLng       float64 `json:"pickupLng"`
}

// Order defines model for Order.
type Order struct {
	CourierId       *openapi_types.UUID `json:"courierId"`
	CreatedAt       time.Time           `json:"createdAt"`
	CustomerId      openapi_types.UUID  `json:"customerId"`
	DeliveryAddress string              `json:"deliveryAddress"`
	EstimatedTime   int                 `json:"estimatedTime"`
	Id              openapi_types.UUID  `json:"id"`
	IsExpress       bool                `json:"isExpress"`
	Items           []Item              `json:"items"`
	OrderNumber     string              `json:"orderNumber"`
	Partner         *Partner            `json:"partner,omitempty"`
	PartnerId       openapi_types.UUID  `json:"partnerId"`
	PickupAddress   string              `json:"pickupAddress"`
	PickupLat       float64             `json:"pickupLat"`
	PickupLng       float64             `json:"pickupLng"`
	Status          OrderStatus         `json:"status"`
	TotalPrice      float64             `json:"totalPrice"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// OrderStatus defines model for Order.Status.
type OrderStatus string

// Partner defines model for Partner.
type Partner struct {
	Id   openapi_types.UUID `json:"id"`
	Name string             `json:"name"`
}

// UpdateOrderStatus defines model for UpdateOrderStatus.
type UpdateOrderStatus struct {
	CourierId *openapi_types.UUID `json:"courierId,omitempty"`
	Status    string              `json:"status"`
}

// GetOrdersParams defines parameters for GetOrders.
type GetOrdersParams struct {
	// Role Accepted for compatibility; the token role decides the scope.
	Role *string `form:"role,omitempty" json:"role,omitempty"`
}

// CreateOrderJSONRequestBody defines body for CreateOrder for application/json ContentType.
type CreateOrderJSONRequestBody = NewOrder

// UpdateOrderStatusJSONRequestBody defines body for UpdateOrderStatus for application/json ContentType.
type UpdateOrderStatusJSONRequestBody = UpdateOrderStatus
