// Package invoice holds the invoice a salesman attaches to a verified order.
package invoice

import (
	"errors"
	"path"
	"strings"
	"time"

	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/pkg/errs"
)

var (
	ErrNumberIsRequired   = errs.NewValueIsRequiredError("invoice number")
	ErrFilePathIsRequired = errs.NewValueIsRequiredError("invoice file path")
)

// Invoice belongs to exactly one order; the store keeps one invoice per order.
type Invoice struct {
	id         kernel.UUID
	orderID    kernel.UUID
	number     string
	filePath   string
	uploadedBy kernel.UUID
	uploadedAt time.Time
	notes      string
}

func NewInvoice(
	id, orderID kernel.UUID,
	number, filePath string,
	uploadedBy kernel.UUID,
	uploadedAt time.Time,
	notes string,
) (*Invoice, error) {
	number = strings.TrimSpace(number)
	filePath = strings.TrimSpace(filePath)

	var numberErr, pathErr error
	if number == "" {
		numberErr = ErrNumberIsRequired
	}
	if filePath == "" {
		pathErr = ErrFilePathIsRequired
	}

	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		uploadedBy.Validate(),
		numberErr,
		pathErr,
	); err != nil {
		return nil, err
	}

	return &Invoice{
		id:         id,
		orderID:    orderID,
		number:     number,
		filePath:   filePath,
		uploadedBy: uploadedBy,
		uploadedAt: uploadedAt,
		notes:      strings.TrimSpace(notes),
	}, nil
}

// StoragePath is the object key an invoice file for orderNumber is uploaded to.
func StoragePath(orderNumber, invoiceNumber, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	safe := strings.NewReplacer("/", "-", " ", "-", "\\", "-").Replace(strings.TrimSpace(invoiceNumber))
	return path.Join("invoices", orderNumber, safe+ext)
}

func (i *Invoice) ID() kernel.UUID {
	return i.id
}

func (i *Invoice) OrderID() kernel.UUID {
	return i.orderID
}

func (i *Invoice) Number() string {
	return i.number
}

func (i *Invoice) FilePath() string {
	return i.filePath
}

func (i *Invoice) UploadedBy() kernel.UUID {
	return i.uploadedBy
}

func (i *Invoice) UploadedAt() time.Time {
	return i.uploadedAt
}

func (i *Invoice) Notes() string {
	return i.notes
}
