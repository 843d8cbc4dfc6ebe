package http

import (
	openapi_types "github.com/oapi-codegen/runtime/types"

	"laundry/internal/core/application/usecases/queries"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/generated/servers"
)

func toOrderResponse(o *order.Order, partnerName string) servers.Order {
	items := make([]servers.Item, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, servers.Item{Name: item.Name(), Qty: item.Quantity(), Unit: item.Unit()})
	}

	response := servers.Order{
		CourierId:       toOptionalID(o.CourierID()),
		CreatedAt:       o.CreatedAt(),
		CustomerId:      o.CustomerID().Bytes(),
		DeliveryAddress: o.Route().DeliveryAddress(),
		EstimatedTime:   o.Quote().EstimatedMinutes(),
		Id:              o.ID().Bytes(),
		IsExpress:       o.IsExpress(),
		Items:           items,
		OrderNumber:     o.Number().String(),
		PartnerId:       o.PartnerID().Bytes(),
		PickupAddress:   o.Route().PickupAddress(),
		PickupLat:       o.Route().Pickup().Lat(),
		PickupLng:       o.Route().Pickup().Lng(),
		Status:          servers.OrderStatus(o.Status().String()),
		TotalPrice:      o.Quote().TotalPrice().InexactFloat64(),
		UpdatedAt:       o.UpdatedAt(),
	}
	if partnerName != "" {
		response.Partner = &servers.Partner{Id: o.PartnerID().Bytes(), Name: partnerName}
	}
	return response
}

func toOrderViewResponse(v queries.OrderView) servers.Order {
	items := make([]servers.Item, 0, len(v.Items))
	for _, item := range v.Items {
		items = append(items, servers.Item{Name: item.Name, Qty: item.Quantity, Unit: item.Unit})
	}

	return servers.Order{
		CourierId:       toOptionalID(v.CourierID),
		CreatedAt:       v.CreatedAt,
		CustomerId:      v.CustomerID.Bytes(),
		DeliveryAddress: v.DeliveryAddress,
		EstimatedTime:   v.EstimatedMinutes,
		Id:              v.ID.Bytes(),
		IsExpress:       v.IsExpress,
		Items:           items,
		OrderNumber:     v.Number,
		Partner:         &servers.Partner{Id: v.PartnerID.Bytes(), Name: v.PartnerName},
		PartnerId:       v.PartnerID.Bytes(),
		PickupAddress:   v.PickupAddress,
		PickupLat:       v.PickupLat,
		PickupLng:       v.PickupLng,
		Status:          servers.OrderStatus(v.Status),
		TotalPrice:      v.TotalPrice.InexactFloat64(),
		UpdatedAt:       v.UpdatedAt,
	}
}

func toOptionalID(id *kernel.UUID) *openapi_types.UUID {
	if id == nil {
		return nil
	}
	googleUUID := id.Bytes()
	return &googleUUID
}

func fromOptionalID(id *openapi_types.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}
	parsed, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func toItems(in []servers.Item) ([]order.Item, error) {
	items := make([]order.Item, 0, len(in))
	for _, raw := range in {
		item, err := order.NewItem(raw.Name, raw.Qty, raw.Unit)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
