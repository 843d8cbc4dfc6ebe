package queries

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ListOrdersQueryHandler reads orders joined with their partner straight from the database.
type ListOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

type orderRow struct {
	ID                   uuid.UUID
	Number               string
	CustomerID           uuid.UUID
	PartnerID            uuid.UUID
	PartnerName          string
	CourierID            *uuid.UUID
	Items                datatypes.JSON
	IsExpress            bool
	TotalPrice           decimal.Decimal
	EstimatedTimeMinutes int
	PickupAddress        string
	DeliveryAddress      string
	PickupLat            float64
	PickupLng            float64
	Status               string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Handle returns the visible orders, newest first.
func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	tx := h.db.WithContext(ctx).
		Table("orders AS o").
		Select(`o.id, o.number, o.customer_id, o.partner_id, p.name AS partner_name, o.courier_id,
			o.items, o.is_express, o.total_price, o.estimated_time_minutes, o.pickup_address,
			o.delivery_address, o.pickup_lat, o.pickup_lng, o.status, o.created_at, o.updated_at`).
		Joins("JOIN partners AS p ON p.id = o.partner_id")

	actor := query.Actor()
	userID := actor.UserID().Bytes()
	switch actor.Role() {
	case kernel.RoleCustomer:
		tx = tx.Where("o.customer_id = ?", userID)
	case kernel.RolePartner:
		tx = tx.Where("p.user_id = ?", userID)
	case kernel.RoleCourier:
		tx = tx.Where("o.courier_id = ? OR o.status IN ?", userID,
			[]string{order.Pending.String(), order.ReadyForDelivery.String()})
	}

	var rows []orderRow
	if err := tx.Order("o.created_at DESC, o.seq DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(rows))
	for _, row := range rows {
		view, err := row.toView()
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (r orderRow) toView() (OrderView, error) {
	var items []ItemView
	if err := json.Unmarshal(r.Items, &items); err != nil {
		return OrderView{}, fmt.Errorf("order %s: decode items: %w", r.Number, err)
	}

	ids, err := parseIDs(r.ID, r.CustomerID, r.PartnerID)
	if err != nil {
		return OrderView{}, fmt.Errorf("order %s: %w", r.Number, err)
	}

	var courierID *kernel.UUID
	if r.CourierID != nil {
		id, idErr := kernel.UUIDFromBytes(r.CourierID[:])
		if idErr != nil {
			return OrderView{}, fmt.Errorf("order %s: %w", r.Number, idErr)
		}
		courierID = &id
	}

	return OrderView{
		ID:               ids[0],
		Number:           r.Number,
		CustomerID:       ids[1],
		PartnerID:        ids[2],
		PartnerName:      r.PartnerName,
		CourierID:        courierID,
		Items:            items,
		IsExpress:        r.IsExpress,
		TotalPrice:       r.TotalPrice,
		EstimatedMinutes: r.EstimatedTimeMinutes,
		PickupAddress:    r.PickupAddress,
		DeliveryAddress:  r.DeliveryAddress,
		PickupLat:        r.PickupLat,
		PickupLng:        r.PickupLng,
		Status:           r.Status,
		CreatedAt:        r.CreatedAt.UTC(),
		UpdatedAt:        r.UpdatedAt.UTC(),
	}, nil
}

func parseIDs(raw ...uuid.UUID) ([]kernel.UUID, error) {
	ids := make([]kernel.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := kernel.UUIDFromBytes(r[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
