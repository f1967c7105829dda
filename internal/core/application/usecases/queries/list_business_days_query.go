package queries

import (
	"context"
	"errors"
	"time"

	"bakery/internal/core/domain/model/businessday"
	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/pkg/errs"
	"bakery/internal/pkg/guard"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrListBusinessDaysQueryIsNotConstructed = errors.New(
	"ListBusinessDaysQuery must be created via NewListBusinessDaysQuery constructor",
)

// ListBusinessDaysQuery lists closed days between from and to, both inclusive.
type ListBusinessDaysQuery struct {
	from kernel.Date
	to   kernel.Date

	guard guard.ConstructorGuard
}

func NewListBusinessDaysQuery(from, to kernel.Date) (ListBusinessDaysQuery, error) {
	if err := errors.Join(from.Validate(), to.Validate()); err != nil {
		return ListBusinessDaysQuery{}, err
	}
	if from.Time(time.UTC).After(to.Time(time.UTC)) {
		return ListBusinessDaysQuery{}, errs.NewValueIsInvalidError("date range: from is after to")
	}
	return ListBusinessDaysQuery{from: from, to: to, guard: guard.NewConstructorGuard()}, nil
}

func (q ListBusinessDaysQuery) Validate() error {
	return q.guard.Validate(ErrListBusinessDaysQueryIsNotConstructed)
}

func (q ListBusinessDaysQuery) From() kernel.Date {
	return q.from
}

func (q ListBusinessDaysQuery) To() kernel.Date {
	return q.to
}

type BusinessDayView struct {
	ID           kernel.UUID
	Date         kernel.Date
	Totals       businessday.Totals
	ClosedByName string
	ClosedAt     time.Time
	Notes        string
}

type ListBusinessDaysQueryHandler struct {
	db *gorm.DB
}

func NewListBusinessDaysQueryHandler(db *gorm.DB) ListBusinessDaysQueryHandler {
	return ListBusinessDaysQueryHandler{db: db}
}

// Handle returns the snapshots newest first.
func (h ListBusinessDaysQueryHandler) Handle(
	ctx context.Context,
	query ListBusinessDaysQuery,
) ([]BusinessDayView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	days, err := h.list(ctx, query)
	if err != nil {
		return nil, errs.Classify(backend, err)
	}
	return days, nil
}

func (h ListBusinessDaysQueryHandler) list(ctx context.Context, query ListBusinessDaysQuery) ([]BusinessDayView, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			b.id,
			b.business_date,
			b.total_orders,
			b.total_deliveries,
			b.total_acknowledged,
			b.total_verified,
			b.total_invoiced,
			COALESCE(u.full_name, ''),
			b.closed_at,
			b.notes
		FROM business_days b
		LEFT JOIN users u ON u.id = b.closed_by
		WHERE b.business_date BETWEEN ? AND ?
		ORDER BY b.business_date DESC
	`, query.From().Time(time.UTC), query.To().Time(time.UTC)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := make([]BusinessDayView, 0)
	for rows.Next() {
		var (
			d    BusinessDayView
			id   uuid.UUID
			date time.Time
		)
		if err = rows.Scan(
			&id,
			&date,
			&d.Totals.Orders,
			&d.Totals.Deliveries,
			&d.Totals.Acknowledged,
			&d.Totals.Verified,
			&d.Totals.Invoiced,
			&d.ClosedByName,
			&d.ClosedAt,
			&d.Notes,
		); err != nil {
			return nil, err
		}

		if d.ID, err = idFrom(id); err != nil {
			return nil, err
		}
		d.Date = kernel.DateOf(date)
		days = append(days, d)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return days, nil
}
