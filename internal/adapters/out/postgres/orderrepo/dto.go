// Package orderrepo persists order aggregates with GORM and draws order numbers from the
// order sequence row.
package orderrepo

import (
	"encoding/json"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderDTO is the row shape of the orders table.
type OrderDTO struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Seq                  int64           `gorm:"not null;uniqueIndex"`
	Number               string          `gorm:"size:32;not null;uniqueIndex"`
	CustomerID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	PartnerID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	CourierID            *uuid.UUID      `gorm:"type:uuid;index"`
	Items                datatypes.JSON  `gorm:"type:jsonb;not null"`
	IsExpress            bool            `gorm:"not null"`
	TotalPrice           decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	EstimatedTimeMinutes int             `gorm:"not null"`
	PickupAddress        string          `gorm:"not null"`
	DeliveryAddress      string          `gorm:"not null"`
	PickupLat            float64         `gorm:"not null"`
	PickupLng            float64         `gorm:"not null"`
	Status               string          `gorm:"size:32;not null;index"`
	CreatedAt            time.Time       `gorm:"not null;autoCreateTime:false"`
	UpdatedAt            time.Time       `gorm:"not null;autoUpdateTime:false"`
	Version              int64           `gorm:"not null;default:1"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO is one element of the items JSON column.
type ItemDTO struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"qty"`
	Unit     string  `json:"unit"`
}

func fromDomain(o *order.Order) (OrderDTO, error) {
	var courierID *uuid.UUID
	if id := o.CourierID(); id != nil {
		raw := id.Bytes()
		courierID = &raw
	}

	items := make([]ItemDTO, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, ItemDTO{Name: item.Name(), Quantity: item.Quantity(), Unit: item.Unit()})
	}
	rawItems, err := json.Marshal(items)
	if err != nil {
		return OrderDTO{}, err
	}

	return OrderDTO{
		ID:                   o.ID().Bytes(),
		Seq:                  o.Number().Seq(),
		Number:               o.Number().String(),
		CustomerID:           o.CustomerID().Bytes(),
		PartnerID:            o.PartnerID().Bytes(),
		CourierID:            courierID,
		Items:                datatypes.JSON(rawItems),
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
	}, nil
}

// DecodeItems parses the items column.
func DecodeItems(raw []byte) ([]ItemDTO, error) {
	var items []ItemDTO
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	partnerID, err := kernel.UUIDFromBytes(dto.PartnerID[:])
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}
		courierID = &cID
	}

	number, err := order.NewNumber(dto.Seq)
	if err != nil {
		return nil, err
	}

	rawItems, err := DecodeItems(dto.Items)
	if err != nil {
		return nil, err
	}
	items := make([]order.Item, 0, len(rawItems))
	for _, raw := range rawItems {
		item, itemErr := order.NewItem(raw.Name, raw.Quantity, raw.Unit)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	quote, err := order.NewQuote(dto.TotalPrice, dto.EstimatedTimeMinutes)
	if err != nil {
		return nil, err
	}

	pickup, err := kernel.NewGeoPoint(dto.PickupLat, dto.PickupLng)
	if err != nil {
		return nil, err
	}
	route, err := order.NewRoute(dto.PickupAddress, dto.DeliveryAddress, pickup)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.State{
		ID:         id,
		Number:     number,
		CustomerID: customerID,
		PartnerID:  partnerID,
		CourierID:  courierID,
		Items:      items,
		IsExpress:  dto.IsExpress,
		Quote:      quote,
		Route:      route,
		Status:     status,
		CreatedAt:  dto.CreatedAt,
		UpdatedAt:  dto.UpdatedAt,
		Version:    dto.Version,
	})
}
