package orderrepo

import (
	"context"

	"bakery/internal/adapters/out/postgres/pgerrs"
	"bakery/internal/core/domain/model/delivery"
	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/order"
	"bakery/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add saves a new order together with its lines.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	err := r.db.WithContext(ctx).Create(&dto).Error
	return pgerrs.Translate(err, "orders", "order_number="+aggregate.Number())
}

// Get retrieves an order and its lines by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).Preload("Items").First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, pgerrs.NotFound(err, "order", id.String())
	}

	return toDomain(dto)
}

// ReplaceItems swaps the stored lines for the aggregate's current lines. The
// order row must still be CREATED and unlocked.
func (r *GormOrderRepository) ReplaceItems(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	db := r.db.WithContext(ctx)

	var row OrderDTO
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("status", "is_locked").
		First(&row, "id = ?", aggregate.ID().Bytes()).Error; err != nil {
		return pgerrs.NotFound(err, "order", aggregate.ID().String())
	}
	if err := checkEditable(row); err != nil {
		return err
	}

	if err := db.Where("order_id = ?", aggregate.ID().Bytes()).Delete(&OrderItemDTO{}).Error; err != nil {
		return err
	}

	items := itemsFromDomain(aggregate)
	return pgerrs.Translate(db.Create(&items).Error, "order_items", "order_id="+aggregate.ID().String())
}

// CompareAndSetStatus moves the order from one status to another. When the
// stored status is no longer from, nothing is written and an
// InvalidStateTransitionError is returned.
func (r *GormOrderRepository) CompareAndSetStatus(
	ctx context.Context,
	id kernel.UUID,
	from, to order.Status,
	locked bool,
) error {
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND status = ?", id.Bytes(), from.String()).
		Updates(map[string]any{"status": to.String(), "is_locked": locked})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.mismatch(ctx, id, to)
	}
	return nil
}

// CountPendingAcknowledgements counts the salesman's deliveries that were
// dispatched and not yet acknowledged.
func (r *GormOrderRepository) CountPendingAcknowledgements(ctx context.Context, salesmanID kernel.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("deliveries").
		Joins("JOIN orders ON orders.id = deliveries.order_id").
		Where("orders.salesman_id = ? AND deliveries.status = ?", salesmanID.Bytes(), delivery.Dispatched.String()).
		Count(&count).Error
	return int(count), err
}

// mismatch explains a compare-and-set that touched no row.
func (r *GormOrderRepository) mismatch(ctx context.Context, id kernel.UUID, to order.Status) error {
	var dto OrderDTO
	if err := r.db.WithContext(ctx).Select("status", "is_locked").First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return pgerrs.NotFound(err, "order", id.String())
	}

	current, err := order.ParseStatus(dto.Status)
	if err != nil {
		return err
	}
	if dto.IsLocked {
		return errs.NewInvalidStateTransitionErrorWithCause(current, to, order.ErrOrderIsLocked)
	}
	return errs.NewInvalidStateTransitionError(current, to)
}

// checkEditable applies the item edit rule to the locked row, which may be
// newer than the aggregate the caller loaded.
func checkEditable(row OrderDTO) error {
	current, err := order.ParseStatus(row.Status)
	if err != nil {
		return err
	}
	return order.CheckItemsEditable(current, row.IsLocked)
}
