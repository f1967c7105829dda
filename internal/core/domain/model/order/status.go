package order

import (
	"fmt"
	"strings"

	"bakery/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Created ──> Dispatched ──> Acknowledged ──┬──> Verified ──> Invoiced
//	                                          │
//	                                          └──> Flagged
//
// Transitions only move forward. Invoiced and Flagged are terminal and lock
// the order against item edits.
type Status int

const (
	// Unknown is the zero value and is never stored.
	Unknown Status = iota

	// Created is the initial status when a salesman places an order.
	Created

	// Dispatched means the factory sent a delivery against the order.
	Dispatched

	// Acknowledged means the owning salesman confirmed receipt.
	Acknowledged

	// Verified means an accountant audited the delivery without findings.
	Verified

	// Invoiced is final: the salesman attached an invoice.
	Invoiced

	// Flagged is final: the accountant recorded a problem with the delivery.
	Flagged
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:      "UNKNOWN",
		Created:      "CREATED",
		Dispatched:   "DISPATCHED",
		Acknowledged: "ACKNOWLEDGED",
		Verified:     "VERIFIED",
		Invoiced:     "INVOICED",
		Flagged:      "FLAGGED",
	}
}

// Statuses lists every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{Created, Dispatched, Acknowledged, Verified, Invoiced, Flagged}
}

// ParseStatus converts a stored status name back to a Status.
func ParseStatus(s string) (Status, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, status := range Statuses() {
		if status.String() == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid order status", s))
}

// Validate checks if the Status value is one of the lifecycle states.
func (s Status) Validate() error {
	if s < Created || s > Flagged {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the stored upper-case name of the status. It is safe to call
// on invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether no transition leaves this status.
func (s Status) IsTerminal() bool {
	return s == Invoiced || s == Flagged
}

// Predecessor returns the only status an order may hold right before moving
// to s. Created has no predecessor because it is entered by creation.
func (s Status) Predecessor() (Status, bool) {
	switch s { //nolint:exhaustive // Unknown and Created have no predecessor
	case Dispatched:
		return Created, true
	case Acknowledged:
		return Dispatched, true
	case Verified, Flagged:
		return Acknowledged, true
	case Invoiced:
		return Verified, true
	default:
		return Unknown, false
	}
}

// Dispatch transitions Created -> Dispatched.
func (s Status) Dispatch() (Status, error) {
	return s.moveTo(Dispatched)
}

// Acknowledge transitions Dispatched -> Acknowledged.
func (s Status) Acknowledge() (Status, error) {
	return s.moveTo(Acknowledged)
}

// Verify transitions Acknowledged -> Verified, or -> Flagged when flagged is set.
func (s Status) Verify(flagged bool) (Status, error) {
	if flagged {
		return s.moveTo(Flagged)
	}
	return s.moveTo(Verified)
}

// Invoice transitions Verified -> Invoiced. A flagged order cannot be invoiced.
func (s Status) Invoice() (Status, error) {
	return s.moveTo(Invoiced)
}

func (s Status) moveTo(target Status) (Status, error) {
	from, ok := target.Predecessor()
	if !ok || s != from {
		return Unknown, errs.NewInvalidStateTransitionError(s, target)
	}
	return target, nil
}
