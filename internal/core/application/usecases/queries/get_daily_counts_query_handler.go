package queries

import (
	"context"
	"fmt"
	"time"

	"bakery/internal/core/domain/model/delivery"
	"bakery/internal/core/domain/model/order"
	"bakery/internal/core/domain/model/staff"
	"bakery/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetDailyCountsQueryHandler computes dashboard counts on every call. An
// empty database yields zero counts.
type GetDailyCountsQueryHandler struct {
	db       *gorm.DB
	location *time.Location
}

// NewGetDailyCountsQueryHandler creates the handler. location bounds "today"
// for timestamp columns.
func NewGetDailyCountsQueryHandler(db *gorm.DB, location *time.Location) GetDailyCountsQueryHandler {
	return GetDailyCountsQueryHandler{db: db, location: location}
}

func (h GetDailyCountsQueryHandler) Handle(ctx context.Context, query GetDailyCountsQuery) (DailyCounts, error) {
	if err := query.Validate(); err != nil {
		return DailyCounts{}, err
	}

	counts := DailyCounts{Role: query.Actor().Role(), Date: query.Date()}

	var err error
	switch query.Actor().Role() { //nolint:exhaustive // UnknownRole is rejected below
	case staff.Salesman:
		err = h.salesman(ctx, query, &counts)
	case staff.Factory:
		err = h.factory(ctx, query, &counts)
	case staff.Accountant:
		err = h.accountant(ctx, query, &counts)
	case staff.Admin:
		err = h.admin(ctx, query, &counts)
	default:
		return DailyCounts{}, errs.NewForbiddenError("dashboard", fmt.Sprintf("role %s has no dashboard", query.Actor().Role()))
	}
	if err != nil {
		return DailyCounts{}, errs.Classify(backend, err)
	}
	return counts, nil
}

func (h GetDailyCountsQueryHandler) salesman(ctx context.Context, query GetDailyCountsQuery, counts *DailyCounts) error {
	salesmanID := query.Actor().ID().Bytes()

	if err := h.countByStatus(ctx, &counts.Counts,
		`SELECT status, COUNT(*) FROM orders WHERE salesman_id = ? AND order_date = ? GROUP BY status`,
		salesmanID, query.Date().Time(time.UTC)); err != nil {
		return err
	}

	// pending acknowledgements block order creation whatever day they date from

	return h.db.WithContext(ctx).Raw(`
		SELECT COUNT(*)
		FROM deliveries d
		JOIN orders o ON o.id = d.order_id
		WHERE o.salesman_id = ? AND d.status = ?
	`, salesmanID, delivery.Dispatched.String()).Scan(&counts.PendingAcknowledgements).Error
}

func (h GetDailyCountsQueryHandler) factory(ctx context.Context, query GetDailyCountsQuery, counts *DailyCounts) error {
	date := query.Date().Time(time.UTC)

	if err := h.countByStatus(ctx, &counts.Counts,
		`SELECT status, COUNT(*) FROM orders WHERE order_date = ? GROUP BY status`, date); err != nil {
		return err
	}

	if err := h.db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM orders WHERE status = ?`, order.Created.String(),
	).Scan(&counts.PendingDispatch).Error; err != nil {
		return err
	}

	return h.db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM deliveries WHERE dispatch_date = ?`, date,
	).Scan(&counts.DispatchedToday).Error
}

func (h GetDailyCountsQueryHandler) accountant(ctx context.Context, query GetDailyCountsQuery, counts *DailyCounts) error {
	if err := h.db.WithContext(ctx).Raw(`
		SELECT COUNT(*)
		FROM deliveries d
		WHERE d.status = ?
			AND NOT EXISTS (SELECT 1 FROM verifications v WHERE v.delivery_id = d.id)
	`, delivery.Acknowledged.String()).Scan(&counts.PendingVerification).Error; err != nil {
		return err
	}

	start, end := query.Date().Bounds(h.location)
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT is_flagged, COUNT(*)
		FROM verifications
		WHERE verified_at >= ? AND verified_at < ?
		GROUP BY is_flagged
	`, start, end).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			flagged bool
			n       int
		)
		if err = rows.Scan(&flagged, &n); err != nil {
			return err
		}
		if flagged {
			counts.Counts.Flagged = n
		} else {
			counts.Counts.Verified = n
		}
		counts.VerifiedToday += n
	}
	return rows.Err()
}

func (h GetDailyCountsQueryHandler) admin(ctx context.Context, query GetDailyCountsQuery, counts *DailyCounts) error {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			r.id,
			r.route_number,
			r.route_name,
			s.id,
			s.full_name,
			COUNT(o.id),
			COUNT(o.id) FILTER (WHERE o.status IN @dispatched),
			COUNT(o.id) FILTER (WHERE o.status IN @acknowledged),
			COUNT(o.id) FILTER (WHERE o.status IN @verified),
			COUNT(o.id) FILTER (WHERE o.status = @invoiced),
			COUNT(o.id) FILTER (WHERE o.status = @flagged)
		FROM routes r
		LEFT JOIN LATERAL (
			SELECT u.id, u.full_name
			FROM users u
			WHERE u.assigned_route_id = r.id AND u.role = @salesman AND u.is_active
			ORDER BY u.full_name
			LIMIT 1
		) s ON true
		LEFT JOIN orders o ON o.route_id = r.id AND o.order_date = @date
		WHERE r.is_active
		GROUP BY r.id, r.route_number, r.route_name, s.id, s.full_name
		ORDER BY r.route_number
	`, map[string]any{
		"dispatched":   statusNames(order.Dispatched, order.Acknowledged, order.Verified, order.Invoiced, order.Flagged),
		"acknowledged": statusNames(order.Acknowledged, order.Verified, order.Invoiced, order.Flagged),
		"verified":     statusNames(order.Verified, order.Invoiced),
		"invoiced":     order.Invoiced.String(),
		"flagged":      order.Flagged.String(),
		"salesman":     staff.Salesman.String(),
		"date":         query.Date().Time(time.UTC),
	}).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	counts.Routes = make([]RouteCounts, 0)
	for rows.Next() {
		var (
			row          RouteCounts
			routeID      uuid.UUID
			salesmanID   uuid.NullUUID
			salesmanName *string
		)
		if err = rows.Scan(
			&routeID,
			&row.RouteNumber,
			&row.RouteName,
			&salesmanID,
			&salesmanName,
			&row.Counts.Created,
			&row.Counts.Dispatched,
			&row.Counts.Acknowledged,
			&row.Counts.Verified,
			&row.Counts.Invoiced,
			&row.Counts.Flagged,
		); err != nil {
			return err
		}

		if row.RouteID, err = idFrom(routeID); err != nil {
			return err
		}
		if salesmanID.Valid && salesmanName != nil {
			id, idErr := idFrom(salesmanID.UUID)
			if idErr != nil {
				return idErr
			}
			row.Salesman = &SalesmanRef{ID: id, FullName: *salesmanName}
		}
		counts.Routes = append(counts.Routes, row)
	}
	return rows.Err()
}

// countByStatus scans (status, count) rows into counts.
func (h GetDailyCountsQueryHandler) countByStatus(
	ctx context.Context,
	counts *StatusCounts,
	sql string,
	args ...any,
) error {
	rows, err := h.db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			name string
			n    int
		)
		if err = rows.Scan(&name, &n); err != nil {
			return err
		}

		status, parseErr := order.ParseStatus(name)
		if parseErr != nil {
			return parseErr
		}
		counts.add(status, n)
	}
	return rows.Err()
}
