package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bakery/internal/core/domain/model/audit"
	"bakery/internal/core/domain/model/delivery"
	"bakery/internal/core/domain/model/invoice"
	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/order"
	"bakery/internal/core/domain/model/staff"
	"bakery/internal/core/domain/services"
	"bakery/internal/core/ports"
	"bakery/internal/pkg/errs"
)

// MaxInvoiceFileSize bounds uploaded invoice files.
const MaxInvoiceFileSize = 10 << 20

// TransitionResult is the state after a successful transition. Delivery is set
// for every transition after dispatch; Invoice and InvoiceURL only when invoicing.
type TransitionResult struct {
	Order      *order.Order
	Delivery   *delivery.Delivery
	Invoice    *invoice.Invoice
	InvoiceURL string
}

// ApplyTransitionCommandHandler is the transition executor. It checks, in
// order, the actor's role, the actor's ownership of the order, the order's
// current status and finally the payload, then writes the child record and
// the new status in a single transaction.
//
// Writes inside the transaction always insert the child record first. Its
// unique key makes a concurrent second writer fail fast with an
// AlreadyProcessedError. The status update that follows is a compare-and-set
// on the expected previous status, so a lost race can never overwrite a newer
// status. Nothing is visible to other readers until Commit.
//
// Invoice files live outside the database. They are uploaded once every check
// has passed and deleted again when the transaction does not commit.
type ApplyTransitionCommandHandler struct {
	uowFactory TransitionUoWFactory
	storage    ports.FileStorage
	lifecycle  services.OrderLifecycle
	clock      ports.Clock
	location   *time.Location
}

// NewApplyTransitionCommandHandler creates the executor. location is the
// business timezone that decides a delivery's dispatch date.
func NewApplyTransitionCommandHandler(
	uowFactory TransitionUoWFactory,
	storage ports.FileStorage,
	clock ports.Clock,
	location *time.Location,
) ApplyTransitionCommandHandler {
	return ApplyTransitionCommandHandler{
		uowFactory: uowFactory,
		storage:    storage,
		lifecycle:  services.NewOrderLifecycle(),
		clock:      clock,
		location:   location,
	}
}

// Handle applies the transition. Errors are always one of the taxonomy kinds:
// Forbidden, InvalidStateTransition, InvalidPayload (AlreadyProcessed for
// duplicates), NotFound or BackendUnavailable.
func (h *ApplyTransitionCommandHandler) Handle(
	ctx context.Context,
	cmd ApplyTransitionCommand,
) (TransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return TransitionResult{}, err
	}

	result, err := h.handle(ctx, cmd)
	if err != nil {
		return TransitionResult{}, errs.Classify(backend, err)
	}
	return result, nil
}

// transition carries the state shared by the per-target steps.
type transition struct {
	uow   TransitionUoW
	actor *staff.User
	order *order.Order
	rule  services.Rule
	now   time.Time
}

func (h *ApplyTransitionCommandHandler) handle(ctx context.Context, cmd ApplyTransitionCommand) (TransitionResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return TransitionResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return TransitionResult{}, err
	}

	rule, err := h.lifecycle.Authorize(cmd.Actor(), o, cmd.Target())
	if errors.Is(err, errs.ErrInvalidStateTransition) {
		if dupErr := h.alreadyApplied(ctx, uow, o, cmd.Target()); dupErr != nil {
			return TransitionResult{}, dupErr
		}
	}
	if err != nil {
		return TransitionResult{}, err
	}

	t := transition{uow: uow, actor: cmd.Actor(), order: o, rule: rule, now: h.clock.Now().In(h.location)}

	var result TransitionResult
	switch cmd.Target() { //nolint:exhaustive // Authorize rejects targets without a rule
	case order.Dispatched:
		result, err = h.dispatch(ctx, t, cmd.Payload())
	case order.Acknowledged:
		result, err = h.acknowledge(ctx, t, cmd.Payload())
	case order.Verified, order.Flagged:
		result, err = h.verify(ctx, t, cmd.Payload())
	case order.Invoiced:
		return h.invoice(ctx, t, cmd.Payload())
	default:
		return TransitionResult{}, errs.NewInvalidStateTransitionError(o.Status(), cmd.Target())
	}
	if err != nil {
		return TransitionResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return TransitionResult{}, err
	}
	return result, nil
}

// alreadyApplied turns a status mismatch into an AlreadyProcessedError when
// the child record of this very transition already exists, so a replayed
// request is reported as a duplicate. It returns nil when there is no such
// record or the lookup fails.
func (h *ApplyTransitionCommandHandler) alreadyApplied(
	ctx context.Context,
	uow TransitionUoW,
	o *order.Order,
	target order.Status,
) error {
	deliveries := uow.DeliveryRepository()

	var (
		exists bool
		err    error
		table  string
	)
	switch target { //nolint:exhaustive // other targets have no child record
	case order.Dispatched:
		table = "deliveries"
		exists, err = deliveries.ExistsForOrder(ctx, o.ID())
	case order.Acknowledged, order.Verified, order.Flagged:
		d, getErr := deliveries.GetByOrder(ctx, o.ID())
		if getErr != nil {
			return nil
		}
		if target == order.Acknowledged {
			table = "acknowledgements"
			exists, err = deliveries.HasAcknowledgement(ctx, d.ID())
		} else {
			table = "verifications"
			exists, err = deliveries.HasVerification(ctx, d.ID())
		}
	case order.Invoiced:
		table = "invoices"
		exists, err = uow.InvoiceRepository().ExistsForOrder(ctx, o.ID())
	default:
		return nil
	}

	if err != nil || !exists {
		return nil
	}
	return errs.NewAlreadyProcessedError(table, "order_id="+o.ID().String())
}

func (h *ApplyTransitionCommandHandler) dispatch(
	ctx context.Context,
	t transition,
	payload Payload,
) (TransitionResult, error) {
	p, ok := payload.(DispatchPayload)
	if !ok {
		return TransitionResult{}, errs.NewInvalidPayloadError("dispatch requires delivered quantities")
	}

	items, err := deliveryItems(t.order, p.Lines)
	if err != nil {
		return TransitionResult{}, err
	}

	d, err := delivery.NewDispatchedDelivery(kernel.NewUUID(), t.order.ID(), t.actor.ID(), t.now, items, p.Notes)
	if err != nil {
		return TransitionResult{}, err
	}

	if err = t.uow.DeliveryRepository().Add(ctx, d); err != nil {
		return TransitionResult{}, err
	}

	if err = h.moveOrder(ctx, t, t.order.Dispatch, audit.Values{
		"delivery_id":    d.ID().String(),
		"variances":      varianceValues(d),
		"total_variance": totalVariance(d),
	}); err != nil {
		return TransitionResult{}, err
	}

	return TransitionResult{Order: t.order, Delivery: d}, nil
}

// deliveryItems pairs every order line with exactly one dispatch line.
func deliveryItems(o *order.Order, lines []DispatchLine) ([]delivery.Item, error) {
	if len(lines) == 0 {
		return nil, errs.NewInvalidPayloadError("dispatch requires at least one delivery item")
	}

	seen := make(map[kernel.UUID]struct{}, len(lines))
	items := make([]delivery.Item, 0, len(lines))
	for i, line := range lines {
		if line.ProductID.Validate() != nil {
			return nil, errs.NewInvalidPayloadError(fmt.Sprintf("delivery line %d has no valid product id", i+1))
		}
		ordered, ok := o.Item(line.ProductID)
		if !ok {
			return nil, errs.NewInvalidPayloadError(fmt.Sprintf("product %s is not part of the order", line.ProductID))
		}
		if _, dup := seen[line.ProductID]; dup {
			return nil, errs.NewInvalidPayloadError(fmt.Sprintf("product %s appears more than once", line.ProductID))
		}
		if line.DeliveredQuantity < 0 {
			return nil, errs.NewInvalidPayloadError(
				fmt.Sprintf("delivered quantity %d for product %s is negative", line.DeliveredQuantity, line.ProductID),
			)
		}
		seen[line.ProductID] = struct{}{}

		item, err := delivery.NewItem(kernel.NewUUID(), line.ProductID, ordered.Quantity(), line.DeliveredQuantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if len(items) != len(o.Items()) {
		return nil, errs.NewInvalidPayloadError(
			fmt.Sprintf("dispatch covers %d of %d ordered products", len(items), len(o.Items())),
		)
	}
	return items, nil
}

func (h *ApplyTransitionCommandHandler) acknowledge(
	ctx context.Context,
	t transition,
	payload Payload,
) (TransitionResult, error) {
	p, ok := payload.(AcknowledgePayload)
	if !ok {
		return TransitionResult{}, errs.NewInvalidPayloadError("acknowledgement payload expected")
	}

	deliveries := t.uow.DeliveryRepository()
	d, err := h.deliveryOf(ctx, deliveries, t.order)
	if err != nil {
		return TransitionResult{}, err
	}

	exists, err := deliveries.HasAcknowledgement(ctx, d.ID())
	if err != nil {
		return TransitionResult{}, err
	}
	if exists {
		return TransitionResult{}, errs.NewAlreadyProcessedError("acknowledgements", "delivery_id="+d.ID().String())
	}

	ack, err := delivery.NewAcknowledgement(kernel.NewUUID(), d.ID(), t.order.ID(), t.actor.ID(), t.now, p.Notes)
	if err != nil {
		return TransitionResult{}, err
	}

	if err = deliveries.AddAcknowledgement(ctx, ack); err != nil {
		return TransitionResult{}, err
	}

	if err = moveDelivery(ctx, deliveries, d, d.Acknowledge); err != nil {
		return TransitionResult{}, err
	}

	if err = h.moveOrder(ctx, t, t.order.Acknowledge, audit.Values{
		"acknowledgement_id": ack.ID().String(),
		"delivery_id":        d.ID().String(),
	}); err != nil {
		return TransitionResult{}, err
	}

	return TransitionResult{Order: t.order, Delivery: d}, nil
}

func (h *ApplyTransitionCommandHandler) verify(
	ctx context.Context,
	t transition,
	payload Payload,
) (TransitionResult, error) {
	p, ok := payload.(VerifyPayload)
	if !ok {
		return TransitionResult{}, errs.NewInvalidPayloadError("verification payload expected")
	}
	if p.Flagged != (t.rule.To == order.Flagged) {
		return TransitionResult{}, errs.NewInvalidPayloadError(
			fmt.Sprintf("flagged=%t does not match target status %s", p.Flagged, t.rule.To),
		)
	}

	deliveries := t.uow.DeliveryRepository()
	d, err := h.deliveryOf(ctx, deliveries, t.order)
	if err != nil {
		return TransitionResult{}, err
	}

	exists, err := deliveries.HasVerification(ctx, d.ID())
	if err != nil {
		return TransitionResult{}, err
	}
	if exists {
		return TransitionResult{}, errs.NewAlreadyProcessedError("verifications", "delivery_id="+d.ID().String())
	}

	v, err := delivery.NewVerification(kernel.NewUUID(), d.ID(), t.order.ID(), t.actor.ID(), t.now,
		p.Flagged, p.FlagReason, p.Notes)
	if err != nil {
		return TransitionResult{}, err
	}

	if err = deliveries.AddVerification(ctx, v); err != nil {
		return TransitionResult{}, err
	}

	if err = moveDelivery(ctx, deliveries, d, func() error { return d.Verify(p.Flagged) }); err != nil {
		return TransitionResult{}, err
	}

	if err = h.moveOrder(ctx, t, func() error { return t.order.Verify(p.Flagged) }, audit.Values{
		"verification_id": v.ID().String(),
		"delivery_id":     d.ID().String(),
		"is_flagged":      v.IsFlagged(),
		"flag_reason":     v.FlagReason(),
	}); err != nil {
		return TransitionResult{}, err
	}

	return TransitionResult{Order: t.order, Delivery: d}, nil
}

// invoice commits on its own because the uploaded file must be removed when
// the transaction does not commit.
func (h *ApplyTransitionCommandHandler) invoice(
	ctx context.Context,
	t transition,
	payload Payload,
) (TransitionResult, error) {
	p, ok := payload.(InvoicePayload)
	if !ok {
		return TransitionResult{}, errs.NewInvalidPayloadError("invoice payload expected")
	}
	if strings.TrimSpace(p.InvoiceNumber) == "" {
		return TransitionResult{}, errs.NewInvalidPayloadErrorWithCause("invoice", invoice.ErrNumberIsRequired)
	}
	if len(p.Content) == 0 {
		return TransitionResult{}, errs.NewInvalidPayloadError("invoice file is missing or empty")
	}
	if len(p.Content) > MaxInvoiceFileSize {
		return TransitionResult{}, errs.NewInvalidPayloadError(
			fmt.Sprintf("invoice file exceeds %d bytes", MaxInvoiceFileSize),
		)
	}

	invoices := t.uow.InvoiceRepository()
	exists, err := invoices.ExistsForOrder(ctx, t.order.ID())
	if err != nil {
		return TransitionResult{}, err
	}
	if exists {
		return TransitionResult{}, errs.NewAlreadyProcessedError("invoices", "order_id="+t.order.ID().String())
	}

	path := invoice.StoragePath(t.order.Number(), p.InvoiceNumber, p.FileName)
	url, err := h.storage.Upload(ctx, path, p.Content, p.ContentType)
	if err != nil {
		return TransitionResult{}, errs.Classify("file storage", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = h.storage.Delete(context.WithoutCancel(ctx), path)
		}
	}()

	inv, err := invoice.NewInvoice(kernel.NewUUID(), t.order.ID(), p.InvoiceNumber, path, t.actor.ID(), t.now, p.Notes)
	if err != nil {
		return TransitionResult{}, err
	}

	if err = invoices.Add(ctx, inv); err != nil {
		return TransitionResult{}, err
	}

	if err = h.moveOrder(ctx, t, t.order.Invoice, audit.Values{
		"invoice_id":     inv.ID().String(),
		"invoice_number": inv.Number(),
		"file_path":      inv.FilePath(),
	}); err != nil {
		return TransitionResult{}, err
	}

	if err = t.uow.Commit(ctx); err != nil {
		return TransitionResult{}, err
	}
	committed = true

	return TransitionResult{Order: t.order, Invoice: inv, InvoiceURL: url}, nil
}

// deliveryOf loads the order's delivery. A missing delivery is a payload
// problem, not a missing order.
func (h *ApplyTransitionCommandHandler) deliveryOf(
	ctx context.Context,
	deliveries ports.DeliveryRepository,
	o *order.Order,
) (*delivery.Delivery, error) {
	d, err := deliveries.GetByOrder(ctx, o.ID())
	if err != nil {
		return nil, asPayloadError(err, "order has no delivery")
	}
	return d, nil
}

// moveOrder applies the domain transition and stores it with a compare-and-set
// on the previous status, then appends the audit entry.
func (h *ApplyTransitionCommandHandler) moveOrder(
	ctx context.Context,
	t transition,
	apply func() error,
	details audit.Values,
) error {
	from := t.order.Status()
	if err := apply(); err != nil {
		return err
	}

	if err := t.uow.OrderRepository().CompareAndSetStatus(
		ctx, t.order.ID(), from, t.order.Status(), t.order.IsLocked(),
	); err != nil {
		return err
	}

	details["status"] = t.order.Status().String()
	details["is_locked"] = t.order.IsLocked()
	return recordAudit(ctx, t.uow.AuditLogRepository(), t.actor, t.rule.Action, "orders", t.order.ID(),
		audit.Values{"status": from.String()}, details, t.now)
}

func moveDelivery(ctx context.Context, deliveries ports.DeliveryRepository, d *delivery.Delivery, apply func() error) error {
	from := d.Status()
	if err := apply(); err != nil {
		return err
	}
	return deliveries.CompareAndSetStatus(ctx, d.ID(), from, d.Status())
}

func varianceValues(d *delivery.Delivery) []audit.Values {
	out := make([]audit.Values, 0, len(d.Items()))
	for _, item := range d.Items() {
		out = append(out, audit.Values{
			"product_id":         item.ProductID().String(),
			"ordered_quantity":   item.OrderedQuantity(),
			"delivered_quantity": item.DeliveredQuantity(),
			"variance":           item.Variance(),
		})
	}
	return out
}

func totalVariance(d *delivery.Delivery) int {
	total := 0
	for _, item := range d.Items() {
		total += item.Variance()
	}
	return total
}
