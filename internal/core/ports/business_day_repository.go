package ports

import (
	"context"
	"time"

	"bakery/internal/core/domain/model/businessday"
	"bakery/internal/core/domain/model/kernel"
)

// BusinessDayRepository stores closing snapshots, one per date.
type BusinessDayRepository interface {
	// Add persists the snapshot. A second snapshot for the same date is an
	// AlreadyProcessedError.
	Add(ctx context.Context, day *businessday.BusinessDay) error

	// ComputeTotals counts the throughput of date in the business location:
	// orders placed on the date, deliveries dispatched on it, and the
	// acknowledgements, verifications and invoices recorded during it.
	ComputeTotals(ctx context.Context, date kernel.Date, loc *time.Location) (businessday.Totals, error)
}
