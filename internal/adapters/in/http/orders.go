package http

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"bakery/internal/core/application/usecases/commands"
	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/order"
	"bakery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

type OrderLineRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"gt=0"`
}

type OrderItemsRequest struct {
	Items []OrderLineRequest `json:"items" validate:"required,min=1,dive"`
}

func (r OrderItemsRequest) lines() ([]commands.OrderLine, error) {
	lines := make([]commands.OrderLine, 0, len(r.Items))
	for _, item := range r.Items {
		productID, err := parseID("product_id", item.ProductID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, commands.OrderLine{ProductID: productID, Quantity: item.Quantity})
	}
	return lines, nil
}

type DispatchLineRequest struct {
	ProductID         string `json:"product_id"`
	DeliveredQuantity int    `json:"delivered_quantity"`
}

// TransitionRequest moves an order to Target. Lines are read for DISPATCHED,
// FlagReason for FLAGGED. Only the target is validated here; the payload is
// checked by the transition executor after role, ownership and status.
type TransitionRequest struct {
	Target     string                `json:"target" validate:"required,oneof=DISPATCHED ACKNOWLEDGED VERIFIED FLAGGED"`
	Lines      []DispatchLineRequest `json:"lines"`
	FlagReason string                `json:"flag_reason"`
	Notes      string                `json:"notes"`
}

func (r TransitionRequest) payload(target order.Status) (commands.Payload, error) {
	switch target { //nolint:exhaustive // the request only admits these targets
	case order.Dispatched:
		lines := make([]commands.DispatchLine, 0, len(r.Lines))
		for _, line := range r.Lines {
			// an unreadable product id stays zero and is rejected with the
			// rest of the payload
			productID, _ := kernel.UUIDFromString(line.ProductID)
			lines = append(lines, commands.DispatchLine{ProductID: productID, DeliveredQuantity: line.DeliveredQuantity})
		}
		return commands.DispatchPayload{Lines: lines, Notes: r.Notes}, nil
	case order.Acknowledged:
		return commands.AcknowledgePayload{Notes: r.Notes}, nil
	case order.Verified, order.Flagged:
		return commands.VerifyPayload{
			Flagged:    target == order.Flagged,
			FlagReason: r.FlagReason,
			Notes:      r.Notes,
		}, nil
	default:
		return nil, errs.NewInvalidPayloadError(fmt.Sprintf("target %s has no request form", target))
	}
}

// CreateOrder handles POST /orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req OrderItemsRequest
	if err := s.bind(ctx, &req); err != nil {
		return err
	}

	lines, err := req.lines()
	if err != nil {
		return err
	}

	cmd, err := commands.NewCreateOrderCommand(currentUser(ctx), lines)
	if err != nil {
		return err
	}

	o, err := s.handlers.CreateOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, newOrder(o))
}

// ChangeOrderItems handles PUT /orders/:id/items.
func (s *Server) ChangeOrderItems(ctx echo.Context) error {
	orderID, err := idParam(ctx)
	if err != nil {
		return err
	}

	var req OrderItemsRequest
	if err = s.bind(ctx, &req); err != nil {
		return err
	}

	lines, err := req.lines()
	if err != nil {
		return err
	}

	cmd, err := commands.NewChangeOrderItemsCommand(currentUser(ctx), orderID, lines)
	if err != nil {
		return err
	}

	o, err := s.handlers.ChangeOrderItems.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newOrder(o))
}

// ApplyTransition handles POST /orders/:id/transitions. Role and ownership
// are decided by the transition executor, so any signed-in role may call it.
func (s *Server) ApplyTransition(ctx echo.Context) error {
	orderID, err := idParam(ctx)
	if err != nil {
		return err
	}

	var req TransitionRequest
	if err = s.bind(ctx, &req); err != nil {
		return err
	}

	target, err := order.ParseStatus(req.Target)
	if err != nil {
		return err
	}

	payload, err := req.payload(target)
	if err != nil {
		return err
	}

	return s.transition(ctx, orderID.String(), func() (commands.ApplyTransitionCommand, error) {
		return commands.NewApplyTransitionCommand(currentUser(ctx), orderID, target, payload)
	})
}

// UploadInvoice handles POST /orders/:id/invoice as multipart form data with
// the fields invoice_number, notes and file.
func (s *Server) UploadInvoice(ctx echo.Context) error {
	orderID, err := idParam(ctx)
	if err != nil {
		return err
	}

	// a missing file reaches the executor as empty content
	var (
		fileName    string
		contentType string
		content     []byte
	)
	if fileHeader, fileErr := ctx.FormFile("file"); fileErr == nil {
		fileName = fileHeader.Filename
		contentType = fileHeader.Header.Get(echo.HeaderContentType)
		if content, err = readUpload(fileHeader); err != nil {
			return err
		}
	}

	payload := commands.InvoicePayload{
		InvoiceNumber: ctx.FormValue("invoice_number"),
		FileName:      fileName,
		ContentType:   contentType,
		Content:       content,
		Notes:         ctx.FormValue("notes"),
	}

	return s.transition(ctx, orderID.String(), func() (commands.ApplyTransitionCommand, error) {
		return commands.NewApplyTransitionCommand(currentUser(ctx), orderID, order.Invoiced, payload)
	})
}

// readUpload reads at most one byte past the invoice size limit, enough for
// the executor to tell an oversized file apart.
func readUpload(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, errs.NewInvalidPayloadErrorWithCause("invoice file is unreadable", err)
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, commands.MaxInvoiceFileSize+1))
	if err != nil {
		return nil, errs.NewInvalidPayloadErrorWithCause("invoice file is unreadable", err)
	}
	return content, nil
}

func (s *Server) transition(
	ctx echo.Context,
	orderID string,
	build func() (commands.ApplyTransitionCommand, error),
) error {
	cmd, err := build()
	if err != nil {
		return err
	}

	result, err := s.handlers.Transition.Handle(ctx.Request().Context(), cmd)
	s.metrics.observeTransition(cmd.Target().String(), err)
	if err != nil {
		return err
	}

	s.log.WithField("order_id", orderID).
		WithField("actor_id", cmd.Actor().ID().String()).
		Infof("order moved to %s", result.Order.Status())
	return ctx.JSON(http.StatusOK, newTransition(result))
}

// bind decodes and validates the request body.
func (s *Server) bind(ctx echo.Context, req any) error {
	if err := ctx.Bind(req); err != nil {
		return errs.NewInvalidPayloadErrorWithCause("malformed request body", err)
	}
	return ctx.Validate(req)
}
