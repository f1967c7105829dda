// Package queries contains read operations for dashboards, work queues and
// listings. Handlers run plain SQL against the database and return read
// models; nothing here writes or caches.
package queries

import (
	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/order"
	"bakery/internal/core/domain/model/staff"
	"bakery/internal/pkg/errs"

	"github.com/google/uuid"
)

const backend = "postgres"

var ErrActorIsRequired = errs.NewValueIsRequiredError("actor")

// StatusCounts holds one number per order status.
type StatusCounts struct {
	Created      int
	Dispatched   int
	Acknowledged int
	Verified     int
	Invoiced     int
	Flagged      int
}

func (c *StatusCounts) add(status order.Status, n int) {
	switch status { //nolint:exhaustive // Unknown is never stored
	case order.Created:
		c.Created += n
	case order.Dispatched:
		c.Dispatched += n
	case order.Acknowledged:
		c.Acknowledged += n
	case order.Verified:
		c.Verified += n
	case order.Invoiced:
		c.Invoiced += n
	case order.Flagged:
		c.Flagged += n
	}
}

// Total is the number of orders across all statuses.
func (c StatusCounts) Total() int {
	return c.Created + c.Dispatched + c.Acknowledged + c.Verified + c.Invoiced + c.Flagged
}

// SalesmanRef names the salesman holding a route.
type SalesmanRef struct {
	ID       kernel.UUID
	FullName string
}

func validateActor(actor *staff.User) error {
	if actor == nil {
		return ErrActorIsRequired
	}
	return actor.Validate()
}

func idFrom(raw uuid.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromBytes(raw[:])
}

func statusNames(statuses ...order.Status) []string {
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, s.String())
	}
	return names
}
