package delivery

import (
	"fmt"
	"strings"

	"bakery/internal/pkg/errs"
)

// Status mirrors the part of the order lifecycle a delivery takes part in.
// Pending exists for stored rows only; new deliveries start as Dispatched.
type Status int

const (
	Unknown Status = iota
	Pending
	Dispatched
	Acknowledged
	Verified
	Flagged
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:      "UNKNOWN",
		Pending:      "PENDING",
		Dispatched:   "DISPATCHED",
		Acknowledged: "ACKNOWLEDGED",
		Verified:     "VERIFIED",
		Flagged:      "FLAGGED",
	}
}

func Statuses() []Status {
	return []Status{Pending, Dispatched, Acknowledged, Verified, Flagged}
}

func ParseStatus(s string) (Status, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, status := range Statuses() {
		if status.String() == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid delivery status", s))
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

func (s Status) Validate() error {
	if s < Pending || s > Flagged {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// Acknowledge transitions Dispatched -> Acknowledged.
func (s Status) Acknowledge() (Status, error) {
	if s != Dispatched {
		return Unknown, errs.NewInvalidStateTransitionError(s, Acknowledged)
	}
	return Acknowledged, nil
}

// Verify transitions Acknowledged -> Verified, or -> Flagged.
func (s Status) Verify(flagged bool) (Status, error) {
	target := Verified
	if flagged {
		target = Flagged
	}
	if s != Acknowledged {
		return Unknown, errs.NewInvalidStateTransitionError(s, target)
	}
	return target, nil
}
