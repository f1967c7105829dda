package delivery

import (
	"errors"
	"strings"
	"time"

	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/pkg/errs"
)

// ErrFlagReasonIsRequired is returned when a delivery is flagged without a reason.
var ErrFlagReasonIsRequired = errs.NewValueIsRequiredError("flag reason")

// Verification is the accountant's audit of an acknowledged delivery. A flagged
// verification sends the order to FLAGGED instead of VERIFIED.
type Verification struct {
	id         kernel.UUID
	deliveryID kernel.UUID
	orderID    kernel.UUID
	verifiedBy kernel.UUID
	verifiedAt time.Time
	isFlagged  bool
	flagReason string
	notes      string
}

func NewVerification(
	id, deliveryID, orderID, verifiedBy kernel.UUID,
	verifiedAt time.Time,
	isFlagged bool,
	flagReason, notes string,
) (*Verification, error) {
	if err := errors.Join(
		id.Validate(),
		deliveryID.Validate(),
		orderID.Validate(),
		verifiedBy.Validate(),
	); err != nil {
		return nil, err
	}

	flagReason = strings.TrimSpace(flagReason)
	if isFlagged && flagReason == "" {
		return nil, ErrFlagReasonIsRequired
	}
	if !isFlagged {
		flagReason = ""
	}

	return &Verification{
		id:         id,
		deliveryID: deliveryID,
		orderID:    orderID,
		verifiedBy: verifiedBy,
		verifiedAt: verifiedAt,
		isFlagged:  isFlagged,
		flagReason: flagReason,
		notes:      strings.TrimSpace(notes),
	}, nil
}

func (v *Verification) ID() kernel.UUID {
	return v.id
}

func (v *Verification) DeliveryID() kernel.UUID {
	return v.deliveryID
}

func (v *Verification) OrderID() kernel.UUID {
	return v.orderID
}

func (v *Verification) VerifiedBy() kernel.UUID {
	return v.verifiedBy
}

func (v *Verification) VerifiedAt() time.Time {
	return v.verifiedAt
}

func (v *Verification) IsFlagged() bool {
	return v.isFlagged
}

func (v *Verification) FlagReason() string {
	return v.flagReason
}

func (v *Verification) Notes() string {
	return v.notes
}
