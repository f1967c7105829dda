package queries

import (
	"context"
	"fmt"
	"time"

	"bakery/internal/core/domain/model/delivery"
	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/order"
	"bakery/internal/core/domain/model/staff"
	"bakery/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const workItemSelect = `
	SELECT
		o.id,
		o.order_number,
		o.order_date,
		o.status,
		o.is_locked,
		r.route_number,
		r.route_name,
		u.full_name,
		COALESCE((SELECT SUM(i.ordered_quantity) FROM order_items i WHERE i.order_id = o.id), 0),
		d.id,
		o.created_at
	FROM orders o
	JOIN routes r ON r.id = o.route_id
	JOIN users u ON u.id = o.salesman_id
	LEFT JOIN deliveries d ON d.order_id = o.id
`

type GetWorkQueueQueryHandler struct {
	db *gorm.DB
}

func NewGetWorkQueueQueryHandler(db *gorm.DB) GetWorkQueueQueryHandler {
	return GetWorkQueueQueryHandler{db: db}
}

func (h GetWorkQueueQueryHandler) Handle(ctx context.Context, query GetWorkQueueQuery) ([]WorkItem, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var (
		where string
		args  []any
	)
	switch query.Actor().Role() { //nolint:exhaustive // UnknownRole is rejected below
	case staff.Factory:
		where = `WHERE o.status = ? ORDER BY o.created_at, o.order_number`
		args = []any{order.Created.String()}
	case staff.Salesman:
		where = `WHERE o.salesman_id = ? AND o.status IN ? ORDER BY o.status, o.created_at`
		args = []any{query.Actor().ID().Bytes(), statusNames(order.Dispatched, order.Verified)}
	case staff.Accountant:
		where = `WHERE d.status = ?
			AND NOT EXISTS (SELECT 1 FROM verifications v WHERE v.delivery_id = d.id)
			ORDER BY o.created_at`
		args = []any{delivery.Acknowledged.String()}
	case staff.Admin:
		where = `WHERE o.order_date = ? ORDER BY r.route_number, o.created_at`
		args = []any{query.Date().Time(time.UTC)}
	default:
		return nil, errs.NewForbiddenError("work queue", fmt.Sprintf("role %s has no work queue", query.Actor().Role()))
	}

	items, err := h.scan(ctx, workItemSelect+where, args...)
	if err != nil {
		return nil, errs.Classify(backend, err)
	}
	return items, nil
}

func (h GetWorkQueueQueryHandler) scan(ctx context.Context, sql string, args ...any) ([]WorkItem, error) {
	rows, err := h.db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]WorkItem, 0)
	for rows.Next() {
		var (
			item       WorkItem
			orderID    uuid.UUID
			orderDate  time.Time
			status     string
			deliveryID uuid.NullUUID
		)
		if err = rows.Scan(
			&orderID,
			&item.OrderNumber,
			&orderDate,
			&status,
			&item.IsLocked,
			&item.RouteNumber,
			&item.RouteName,
			&item.SalesmanName,
			&item.TotalQuantity,
			&deliveryID,
			&item.CreatedAt,
		); err != nil {
			return nil, err
		}

		if item.OrderID, err = idFrom(orderID); err != nil {
			return nil, err
		}
		if item.Status, err = order.ParseStatus(status); err != nil {
			return nil, err
		}
		item.OrderDate = kernel.DateOf(orderDate)

		if deliveryID.Valid {
			id, idErr := idFrom(deliveryID.UUID)
			if idErr != nil {
				return nil, idErr
			}
			item.DeliveryID = &id
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
