// Package orderrepo persists the order aggregate: the orders row and its
// order_items lines.
package orderrepo

import (
	"time"

	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the orders table. Status is stored by name so that reporting
// SQL stays readable.
type OrderDTO struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	OrderNumber string         `gorm:"type:varchar(64);not null;uniqueIndex"`
	RouteID     uuid.UUID      `gorm:"type:uuid;not null;index"`
	SalesmanID  uuid.UUID      `gorm:"type:uuid;not null;index"`
	OrderDate   time.Time      `gorm:"type:date;not null;index"`
	Status      string         `gorm:"type:varchar(16);not null;index"`
	IsLocked    bool           `gorm:"not null;default:false"`
	CreatedAt   time.Time      `gorm:"type:timestamptz;not null"`
	Items       []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO is one line of an order.
type OrderItemDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_order_items_order_product"`
	ProductID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_order_items_order_product"`
	OrderedQuantity int       `gorm:"type:int;not null;check:ordered_quantity > 0"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(o *order.Order) OrderDTO {
	return OrderDTO{
		ID:          o.ID().Bytes(),
		OrderNumber: o.Number(),
		RouteID:     o.RouteID().Bytes(),
		SalesmanID:  o.SalesmanID().Bytes(),
		OrderDate:   o.OrderDate().Time(time.UTC),
		Status:      o.Status().String(),
		IsLocked:    o.IsLocked(),
		CreatedAt:   o.CreatedAt(),
		Items:       itemsFromDomain(o),
	}
}

func itemsFromDomain(o *order.Order) []OrderItemDTO {
	items := make([]OrderItemDTO, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, OrderItemDTO{
			ID:              item.ID().Bytes(),
			OrderID:         o.ID().Bytes(),
			ProductID:       item.ProductID().Bytes(),
			OrderedQuantity: item.Quantity(),
		})
	}
	return items
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	routeID, err := kernel.UUIDFromBytes(dto.RouteID[:])
	if err != nil {
		return nil, err
	}
	salesmanID, err := kernel.UUIDFromBytes(dto.SalesmanID[:])
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		itemID, idErr := kernel.UUIDFromBytes(itemDTO.ID[:])
		if idErr != nil {
			return nil, idErr
		}
		productID, idErr := kernel.UUIDFromBytes(itemDTO.ProductID[:])
		if idErr != nil {
			return nil, idErr
		}
		item, itemErr := order.NewItem(itemID, productID, itemDTO.OrderedQuantity)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(
		id,
		dto.OrderNumber,
		routeID,
		salesmanID,
		kernel.DateOf(dto.OrderDate),
		status,
		dto.IsLocked,
		items,
		dto.CreatedAt,
	)
}
