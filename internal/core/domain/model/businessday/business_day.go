// Package businessday models the end-of-day closing snapshot. A snapshot is
// written once per date and never changed; closing a day locks no orders.
package businessday

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/pkg/errs"
)

// Totals are the day's throughput counts.
type Totals struct {
	Orders       int
	Deliveries   int
	Acknowledged int
	Verified     int
	Invoiced     int
}

func (t Totals) validate() error {
	for name, v := range map[string]int{
		"total orders":       t.Orders,
		"total deliveries":   t.Deliveries,
		"total acknowledged": t.Acknowledged,
		"total verified":     t.Verified,
		"total invoiced":     t.Invoiced,
	} {
		if v < 0 {
			return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%d is negative", v))
		}
	}
	return nil
}

// BusinessDay is the closing record for one business date.
type BusinessDay struct {
	id       kernel.UUID
	date     kernel.Date
	totals   Totals
	closedBy kernel.UUID
	closedAt time.Time
	notes    string
}

func NewBusinessDay(
	id kernel.UUID,
	date kernel.Date,
	totals Totals,
	closedBy kernel.UUID,
	closedAt time.Time,
	notes string,
) (*BusinessDay, error) {
	if err := errors.Join(
		id.Validate(),
		date.Validate(),
		closedBy.Validate(),
		totals.validate(),
	); err != nil {
		return nil, err
	}

	return &BusinessDay{
		id:       id,
		date:     date,
		totals:   totals,
		closedBy: closedBy,
		closedAt: closedAt,
		notes:    strings.TrimSpace(notes),
	}, nil
}

func (b *BusinessDay) ID() kernel.UUID {
	return b.id
}

func (b *BusinessDay) Date() kernel.Date {
	return b.date
}

func (b *BusinessDay) Totals() Totals {
	return b.totals
}

func (b *BusinessDay) ClosedBy() kernel.UUID {
	return b.closedBy
}

func (b *BusinessDay) ClosedAt() time.Time {
	return b.closedAt
}

func (b *BusinessDay) Notes() string {
	return b.notes
}
