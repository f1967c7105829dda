// Package deliveryrepo persists deliveries with their lines and the
// acknowledgement and verification records written against them.
package deliveryrepo

import (
	"time"

	"bakery/internal/core/domain/model/delivery"
	"bakery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DeliveryDTO is the deliveries table. An order has at most one delivery.
type DeliveryDTO struct {
	ID           uuid.UUID         `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex"`
	DispatchedBy uuid.UUID         `gorm:"type:uuid;not null"`
	DispatchDate time.Time         `gorm:"type:date;not null;index"`
	DispatchTime time.Time         `gorm:"type:timestamptz;not null"`
	Status       string            `gorm:"type:varchar(16);not null;index"`
	Notes        string            `gorm:"type:text"`
	Items        []DeliveryItemDTO `gorm:"foreignKey:DeliveryID;constraint:OnDelete:CASCADE"`
}

func (DeliveryDTO) TableName() string {
	return "deliveries"
}

// DeliveryItemDTO stores the ordered and delivered quantity of one product.
// Variance is stored for reporting and always equals delivered - ordered.
type DeliveryItemDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	DeliveryID        uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID         uuid.UUID `gorm:"type:uuid;not null"`
	OrderedQuantity   int       `gorm:"type:int;not null"`
	DeliveredQuantity int       `gorm:"type:int;not null"`
	Variance          int       `gorm:"type:int;not null"`
}

func (DeliveryItemDTO) TableName() string {
	return "delivery_items"
}

// AcknowledgementDTO is one-to-one with a delivery.
type AcknowledgementDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	DeliveryID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	OrderID        uuid.UUID `gorm:"type:uuid;not null;index"`
	AcknowledgedBy uuid.UUID `gorm:"type:uuid;not null"`
	AcknowledgedAt time.Time `gorm:"type:timestamptz;not null"`
	Notes          string    `gorm:"type:text"`
}

func (AcknowledgementDTO) TableName() string {
	return "acknowledgements"
}

// VerificationDTO is one-to-one with a delivery.
type VerificationDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	DeliveryID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	VerifiedBy uuid.UUID `gorm:"type:uuid;not null"`
	VerifiedAt time.Time `gorm:"type:timestamptz;not null;index"`
	IsFlagged  bool      `gorm:"not null;default:false"`
	FlagReason string    `gorm:"type:text"`
	Notes      string    `gorm:"type:text"`
}

func (VerificationDTO) TableName() string {
	return "verifications"
}

func fromDomain(d *delivery.Delivery) DeliveryDTO {
	items := make([]DeliveryItemDTO, 0, len(d.Items()))
	for _, item := range d.Items() {
		items = append(items, DeliveryItemDTO{
			ID:                item.ID().Bytes(),
			DeliveryID:        d.ID().Bytes(),
			ProductID:         item.ProductID().Bytes(),
			OrderedQuantity:   item.OrderedQuantity(),
			DeliveredQuantity: item.DeliveredQuantity(),
			Variance:          item.Variance(),
		})
	}

	return DeliveryDTO{
		ID:           d.ID().Bytes(),
		OrderID:      d.OrderID().Bytes(),
		DispatchedBy: d.DispatchedBy().Bytes(),
		DispatchDate: d.DispatchDate().Time(time.UTC),
		DispatchTime: d.DispatchedAt(),
		Status:       d.Status().String(),
		Notes:        d.Notes(),
		Items:        items,
	}
}

func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	dispatchedBy, err := kernel.UUIDFromBytes(dto.DispatchedBy[:])
	if err != nil {
		return nil, err
	}
	status, err := delivery.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	items := make([]delivery.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		itemID, idErr := kernel.UUIDFromBytes(itemDTO.ID[:])
		if idErr != nil {
			return nil, idErr
		}
		productID, idErr := kernel.UUIDFromBytes(itemDTO.ProductID[:])
		if idErr != nil {
			return nil, idErr
		}
		item, itemErr := delivery.NewItem(itemID, productID, itemDTO.OrderedQuantity, itemDTO.DeliveredQuantity)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return delivery.RestoreDelivery(
		id, orderID, dispatchedBy,
		kernel.DateOf(dto.DispatchDate),
		dto.DispatchTime,
		status,
		dto.Notes,
		items,
	)
}

func acknowledgementFromDomain(a *delivery.Acknowledgement) AcknowledgementDTO {
	return AcknowledgementDTO{
		ID:             a.ID().Bytes(),
		DeliveryID:     a.DeliveryID().Bytes(),
		OrderID:        a.OrderID().Bytes(),
		AcknowledgedBy: a.AcknowledgedBy().Bytes(),
		AcknowledgedAt: a.AcknowledgedAt(),
		Notes:          a.Notes(),
	}
}

func verificationFromDomain(v *delivery.Verification) VerificationDTO {
	return VerificationDTO{
		ID:         v.ID().Bytes(),
		DeliveryID: v.DeliveryID().Bytes(),
		OrderID:    v.OrderID().Bytes(),
		VerifiedBy: v.VerifiedBy().Bytes(),
		VerifiedAt: v.VerifiedAt(),
		IsFlagged:  v.IsFlagged(),
		FlagReason: v.FlagReason(),
		Notes:      v.Notes(),
	}
}
