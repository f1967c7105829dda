package deliveryrepo

import (
	"context"

	"bakery/internal/adapters/out/postgres/pgerrs"
	"bakery/internal/core/domain/model/delivery"
	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormDeliveryRepository implements ports.DeliveryRepository using GORM.
// Every insert relies on a unique index: a second delivery for an order, or a
// second acknowledgement or verification for a delivery, is rejected by
// postgres and reported as an AlreadyProcessedError.
type GormDeliveryRepository struct {
	db *gorm.DB
}

func NewGormDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

func (r *GormDeliveryRepository) Add(ctx context.Context, d *delivery.Delivery) error {
	if err := d.Validate(); err != nil {
		return err
	}

	dto := fromDomain(d)
	err := r.db.WithContext(ctx).Create(&dto).Error
	return pgerrs.Translate(err, "deliveries", "order_id="+d.OrderID().String())
}

func (r *GormDeliveryRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto DeliveryDTO
	if err := r.db.WithContext(ctx).Preload("Items").First(&dto, "order_id = ?", orderID.Bytes()).Error; err != nil {
		return nil, pgerrs.NotFound(err, "delivery for order", orderID.String())
	}

	return toDomain(dto)
}

func (r *GormDeliveryRepository) ExistsForOrder(ctx context.Context, orderID kernel.UUID) (bool, error) {
	return r.exists(ctx, &DeliveryDTO{}, "order_id = ?", orderID)
}

// CompareAndSetStatus updates the delivery status only while it still equals from.
func (r *GormDeliveryRepository) CompareAndSetStatus(
	ctx context.Context,
	id kernel.UUID,
	from, to delivery.Status,
) error {
	result := r.db.WithContext(ctx).Model(&DeliveryDTO{}).
		Where("id = ? AND status = ?", id.Bytes(), from.String()).
		Update("status", to.String())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var dto DeliveryDTO
	if err := r.db.WithContext(ctx).Select("status").First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return pgerrs.NotFound(err, "delivery", id.String())
	}
	current, err := delivery.ParseStatus(dto.Status)
	if err != nil {
		return err
	}
	return errs.NewInvalidStateTransitionError(current, to)
}

func (r *GormDeliveryRepository) AddAcknowledgement(ctx context.Context, ack *delivery.Acknowledgement) error {
	dto := acknowledgementFromDomain(ack)
	err := r.db.WithContext(ctx).Create(&dto).Error
	return pgerrs.Translate(err, "acknowledgements", "delivery_id="+ack.DeliveryID().String())
}

func (r *GormDeliveryRepository) HasAcknowledgement(ctx context.Context, deliveryID kernel.UUID) (bool, error) {
	return r.exists(ctx, &AcknowledgementDTO{}, "delivery_id = ?", deliveryID)
}

func (r *GormDeliveryRepository) AddVerification(ctx context.Context, v *delivery.Verification) error {
	dto := verificationFromDomain(v)
	err := r.db.WithContext(ctx).Create(&dto).Error
	return pgerrs.Translate(err, "verifications", "delivery_id="+v.DeliveryID().String())
}

func (r *GormDeliveryRepository) HasVerification(ctx context.Context, deliveryID kernel.UUID) (bool, error) {
	return r.exists(ctx, &VerificationDTO{}, "delivery_id = ?", deliveryID)
}

func (r *GormDeliveryRepository) exists(ctx context.Context, model any, where string, id kernel.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(model).Where(where, id.Bytes()).Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
