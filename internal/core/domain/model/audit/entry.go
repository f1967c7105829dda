// Package audit models the append-only log written alongside every mutation.
package audit

import (
	"context"
	"errors"
	"strings"
	"time"

	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/pkg/errs"
)

// Actions recorded in the log.
const (
	ActionCreateOrder      = "CREATE_ORDER"
	ActionUpdateOrderItems = "UPDATE_ORDER_ITEMS"
	ActionDispatchOrder    = "DISPATCH_ORDER"
	ActionAcknowledge      = "ACKNOWLEDGE_DELIVERY"
	ActionVerify           = "VERIFY_DELIVERY"
	ActionFlag             = "FLAG_DELIVERY"
	ActionUploadInvoice    = "UPLOAD_INVOICE"
	ActionCloseBusinessDay = "CLOSE_BUSINESS_DAY"
	ActionCreateRoute      = "CREATE_ROUTE"
	ActionDeactivateRoute  = "DEACTIVATE_ROUTE"
	ActionCreateUser       = "CREATE_USER"
	ActionUpdateUser       = "UPDATE_USER"
	ActionDeactivateUser   = "DEACTIVATE_USER"
	ActionCreateProduct    = "CREATE_PRODUCT"
)

var ErrActionIsRequired = errs.NewValueIsRequiredError("audit action")

// Values is a JSON-serialisable snapshot of a record.
type Values map[string]any

// Client describes where a mutation came from.
type Client struct {
	IPAddress string
	UserAgent string
}

type clientKey struct{}

// WithClient attaches the caller's network details to ctx.
func WithClient(ctx context.Context, client Client) context.Context {
	return context.WithValue(ctx, clientKey{}, client)
}

// ClientFrom returns the network details stored by WithClient, if any.
func ClientFrom(ctx context.Context) Client {
	client, _ := ctx.Value(clientKey{}).(Client)
	return client
}

// Entry is one audit row. Entries are never updated or deleted.
type Entry struct {
	id        kernel.UUID
	userID    *kernel.UUID
	action    string
	tableName string
	recordID  *kernel.UUID
	oldValues Values
	newValues Values
	client    Client
	createdAt time.Time
}

// NewEntry records action by userID on tableName/recordID. userID is nil for
// system actions.
func NewEntry(
	userID *kernel.UUID,
	action, tableName string,
	recordID *kernel.UUID,
	oldValues, newValues Values,
	client Client,
	createdAt time.Time,
) (*Entry, error) {
	action = strings.TrimSpace(action)
	if action == "" {
		return nil, ErrActionIsRequired
	}

	var idErrs []error
	if userID != nil {
		idErrs = append(idErrs, userID.Validate())
	}
	if recordID != nil {
		idErrs = append(idErrs, recordID.Validate())
	}
	if err := errors.Join(idErrs...); err != nil {
		return nil, err
	}

	return &Entry{
		id:        kernel.NewUUID(),
		userID:    userID,
		action:    action,
		tableName: tableName,
		recordID:  recordID,
		oldValues: oldValues,
		newValues: newValues,
		client:    client,
		createdAt: createdAt,
	}, nil
}

func (e *Entry) ID() kernel.UUID {
	return e.id
}

func (e *Entry) UserID() *kernel.UUID {
	return e.userID
}

func (e *Entry) Action() string {
	return e.action
}

func (e *Entry) TableName() string {
	return e.tableName
}

func (e *Entry) RecordID() *kernel.UUID {
	return e.recordID
}

func (e *Entry) OldValues() Values {
	return e.oldValues
}

func (e *Entry) NewValues() Values {
	return e.newValues
}

func (e *Entry) Client() Client {
	return e.client
}

func (e *Entry) CreatedAt() time.Time {
	return e.createdAt
}
