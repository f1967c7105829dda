// Package businessdayrepo stores daily closing snapshots and computes the
// totals they record.
package businessdayrepo

import (
	"context"
	"time"

	"bakery/internal/adapters/out/postgres/pgerrs"
	"bakery/internal/core/domain/model/businessday"
	"bakery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BusinessDayDTO is the business_days table: one immutable row per date.
type BusinessDayDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	BusinessDate      time.Time `gorm:"type:date;not null;uniqueIndex"`
	TotalOrders       int       `gorm:"type:int;not null"`
	TotalDeliveries   int       `gorm:"type:int;not null"`
	TotalAcknowledged int       `gorm:"type:int;not null"`
	TotalVerified     int       `gorm:"type:int;not null"`
	TotalInvoiced     int       `gorm:"type:int;not null"`
	ClosedBy          uuid.UUID `gorm:"type:uuid;not null"`
	ClosedAt          time.Time `gorm:"type:timestamptz;not null"`
	Notes             string    `gorm:"type:text"`
}

func (BusinessDayDTO) TableName() string {
	return "business_days"
}

type GormBusinessDayRepository struct {
	db *gorm.DB
}

func NewGormBusinessDayRepository(db *gorm.DB) *GormBusinessDayRepository {
	return &GormBusinessDayRepository{db: db}
}

func (r *GormBusinessDayRepository) Add(ctx context.Context, day *businessday.BusinessDay) error {
	totals := day.Totals()
	dto := BusinessDayDTO{
		ID:                day.ID().Bytes(),
		BusinessDate:      day.Date().Time(time.UTC),
		TotalOrders:       totals.Orders,
		TotalDeliveries:   totals.Deliveries,
		TotalAcknowledged: totals.Acknowledged,
		TotalVerified:     totals.Verified,
		TotalInvoiced:     totals.Invoiced,
		ClosedBy:          day.ClosedBy().Bytes(),
		ClosedAt:          day.ClosedAt(),
		Notes:             day.Notes(),
	}
	err := r.db.WithContext(ctx).Create(&dto).Error
	return pgerrs.Translate(err, "business_days", "business_date="+day.Date().String())
}

// ComputeTotals counts the day's activity. Orders and deliveries are matched
// on their business date columns; acknowledgements, verifications (flagged
// included) and invoices on their timestamps within the day in loc.
func (r *GormBusinessDayRepository) ComputeTotals(
	ctx context.Context,
	date kernel.Date,
	loc *time.Location,
) (businessday.Totals, error) {
	start, end := date.Bounds(loc)

	var row struct {
		Orders       int
		Deliveries   int
		Acknowledged int
		Verified     int
		Invoiced     int
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			(SELECT COUNT(*) FROM orders WHERE order_date = @date) AS orders,
			(SELECT COUNT(*) FROM deliveries WHERE dispatch_date = @date) AS deliveries,
			(SELECT COUNT(*) FROM acknowledgements
				WHERE acknowledged_at >= @start AND acknowledged_at < @end) AS acknowledged,
			(SELECT COUNT(*) FROM verifications
				WHERE verified_at >= @start AND verified_at < @end) AS verified,
			(SELECT COUNT(*) FROM invoices
				WHERE uploaded_at >= @start AND uploaded_at < @end) AS invoiced
	`, map[string]any{
		"date":  date.Time(time.UTC),
		"start": start,
		"end":   end,
	}).Scan(&row).Error
	if err != nil {
		return businessday.Totals{}, err
	}

	return businessday.Totals{
		Orders:       row.Orders,
		Deliveries:   row.Deliveries,
		Acknowledged: row.Acknowledged,
		Verified:     row.Verified,
		Invoiced:     row.Invoiced,
	}, nil
}
