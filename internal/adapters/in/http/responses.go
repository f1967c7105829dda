package http

import (
	"time"

	"bakery/internal/core/application/usecases/commands"
	"bakery/internal/core/application/usecases/queries"
	"bakery/internal/core/domain/model/businessday"
	"bakery/internal/core/domain/model/delivery"
	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/order"
	"bakery/internal/core/domain/model/product"
	"bakery/internal/core/domain/model/route"
	"bakery/internal/core/domain/model/staff"

	"github.com/shopspring/decimal"
)

type OrderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type Order struct {
	ID         string      `json:"id"`
	Number     string      `json:"order_number"`
	RouteID    string      `json:"route_id"`
	SalesmanID string      `json:"salesman_id"`
	OrderDate  string      `json:"order_date"`
	Status     string      `json:"status"`
	IsLocked   bool        `json:"is_locked"`
	Items      []OrderItem `json:"items"`
	CreatedAt  time.Time   `json:"created_at"`
}

func newOrder(o *order.Order) Order {
	items := make([]OrderItem, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, OrderItem{ProductID: item.ProductID().String(), Quantity: item.Quantity()})
	}

	return Order{
		ID:         o.ID().String(),
		Number:     o.Number(),
		RouteID:    o.RouteID().String(),
		SalesmanID: o.SalesmanID().String(),
		OrderDate:  o.OrderDate().String(),
		Status:     o.Status().String(),
		IsLocked:   o.IsLocked(),
		Items:      items,
		CreatedAt:  o.CreatedAt(),
	}
}

type DeliveryItem struct {
	ProductID         string `json:"product_id"`
	OrderedQuantity   int    `json:"ordered_quantity"`
	DeliveredQuantity int    `json:"delivered_quantity"`
	Variance          int    `json:"variance"`
}

type Delivery struct {
	ID           string         `json:"id"`
	OrderID      string         `json:"order_id"`
	DispatchDate string         `json:"dispatch_date"`
	DispatchedAt time.Time      `json:"dispatched_at"`
	Status       string         `json:"status"`
	Notes        string         `json:"notes,omitempty"`
	Items        []DeliveryItem `json:"items"`
}

func newDelivery(d *delivery.Delivery) *Delivery {
	if d == nil {
		return nil
	}

	items := make([]DeliveryItem, 0, len(d.Items()))
	for _, item := range d.Items() {
		items = append(items, DeliveryItem{
			ProductID:         item.ProductID().String(),
			OrderedQuantity:   item.OrderedQuantity(),
			DeliveredQuantity: item.DeliveredQuantity(),
			Variance:          item.Variance(),
		})
	}

	return &Delivery{
		ID:           d.ID().String(),
		OrderID:      d.OrderID().String(),
		DispatchDate: d.DispatchDate().String(),
		DispatchedAt: d.DispatchedAt(),
		Status:       d.Status().String(),
		Notes:        d.Notes(),
		Items:        items,
	}
}

type Invoice struct {
	ID         string    `json:"id"`
	Number     string    `json:"invoice_number"`
	FilePath   string    `json:"file_path"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type Transition struct {
	Order    Order     `json:"order"`
	Delivery *Delivery `json:"delivery,omitempty"`
	Invoice  *Invoice  `json:"invoice,omitempty"`
}

func newTransition(result commands.TransitionResult) Transition {
	response := Transition{
		Order:    newOrder(result.Order),
		Delivery: newDelivery(result.Delivery),
	}
	if inv := result.Invoice; inv != nil {
		response.Invoice = &Invoice{
			ID:         inv.ID().String(),
			Number:     inv.Number(),
			FilePath:   inv.FilePath(),
			URL:        result.InvoiceURL,
			UploadedAt: inv.UploadedAt(),
		}
	}
	return response
}

type Salesman struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
}

func newSalesman(ref *queries.SalesmanRef) *Salesman {
	if ref == nil {
		return nil
	}
	return &Salesman{ID: ref.ID.String(), FullName: ref.FullName}
}

type Route struct {
	ID          string    `json:"id"`
	Number      int       `json:"route_number"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	Salesman    *Salesman `json:"salesman,omitempty"`
}

func newRoute(r *route.Route) Route {
	return Route{
		ID:          r.ID().String(),
		Number:      r.Number(),
		Name:        r.Name(),
		Description: r.Description(),
		IsActive:    r.IsActive(),
	}
}

func newRouteView(v queries.RouteView) Route {
	return Route{
		ID:          v.ID.String(),
		Number:      v.Number,
		Name:        v.Name,
		Description: v.Description,
		IsActive:    v.IsActive,
		Salesman:    newSalesman(v.Salesman),
	}
}

type User struct {
	ID       string  `json:"id"`
	FullName string  `json:"full_name"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	RouteID  *string `json:"route_id,omitempty"`
	IsActive bool    `json:"is_active"`
}

func newUser(u *staff.User) User {
	return User{
		ID:       u.ID().String(),
		FullName: u.FullName(),
		Email:    u.Email(),
		Role:     u.Role().String(),
		RouteID:  optionalID(u.AssignedRoute()),
		IsActive: u.IsActive(),
	}
}

type Product struct {
	ID          string          `json:"id"`
	Code        string          `json:"product_code"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

func newProduct(p *product.Product) Product {
	return Product{
		ID:          p.ID().String(),
		Code:        p.Code(),
		Name:        p.Name(),
		Description: p.Description(),
		UnitPrice:   p.UnitPrice(),
	}
}

func newProductView(v queries.ProductView) Product {
	return Product{
		ID:          v.ID.String(),
		Code:        v.Code,
		Name:        v.Name,
		Description: v.Description,
		UnitPrice:   v.UnitPrice,
	}
}

type StatusCounts struct {
	Created      int `json:"created"`
	Dispatched   int `json:"dispatched"`
	Acknowledged int `json:"acknowledged"`
	Verified     int `json:"verified"`
	Invoiced     int `json:"invoiced"`
	Flagged      int `json:"flagged"`
	Total        int `json:"total"`
}

func newStatusCounts(c queries.StatusCounts) StatusCounts {
	return StatusCounts{
		Created:      c.Created,
		Dispatched:   c.Dispatched,
		Acknowledged: c.Acknowledged,
		Verified:     c.Verified,
		Invoiced:     c.Invoiced,
		Flagged:      c.Flagged,
		Total:        c.Total(),
	}
}

type RouteCounts struct {
	RouteID     string       `json:"route_id"`
	RouteNumber int          `json:"route_number"`
	RouteName   string       `json:"route_name"`
	Salesman    *Salesman    `json:"salesman,omitempty"`
	Counts      StatusCounts `json:"counts"`
}

type Dashboard struct {
	Role   string       `json:"role"`
	Date   string       `json:"date"`
	Counts StatusCounts `json:"counts"`

	PendingAcknowledgements int `json:"pending_acknowledgements"`
	PendingDispatch         int `json:"pending_dispatch"`
	DispatchedToday         int `json:"dispatched_today"`
	PendingVerification     int `json:"pending_verification"`
	VerifiedToday           int `json:"verified_today"`

	Routes []RouteCounts `json:"routes,omitempty"`
}

func newDashboard(c queries.DailyCounts) Dashboard {
	routes := make([]RouteCounts, 0, len(c.Routes))
	for _, r := range c.Routes {
		routes = append(routes, RouteCounts{
			RouteID:     r.RouteID.String(),
			RouteNumber: r.RouteNumber,
			RouteName:   r.RouteName,
			Salesman:    newSalesman(r.Salesman),
			Counts:      newStatusCounts(r.Counts),
		})
	}

	return Dashboard{
		Role:                    c.Role.String(),
		Date:                    c.Date.String(),
		Counts:                  newStatusCounts(c.Counts),
		PendingAcknowledgements: c.PendingAcknowledgements,
		PendingDispatch:         c.PendingDispatch,
		DispatchedToday:         c.DispatchedToday,
		PendingVerification:     c.PendingVerification,
		VerifiedToday:           c.VerifiedToday,
		Routes:                  routes,
	}
}

type WorkItem struct {
	OrderID       string    `json:"order_id"`
	OrderNumber   string    `json:"order_number"`
	OrderDate     string    `json:"order_date"`
	Status        string    `json:"status"`
	IsLocked      bool      `json:"is_locked"`
	RouteNumber   int       `json:"route_number"`
	RouteName     string    `json:"route_name"`
	SalesmanName  string    `json:"salesman_name"`
	TotalQuantity int       `json:"total_quantity"`
	DeliveryID    *string   `json:"delivery_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func newWorkItem(item queries.WorkItem) WorkItem {
	return WorkItem{
		OrderID:       item.OrderID.String(),
		OrderNumber:   item.OrderNumber,
		OrderDate:     item.OrderDate.String(),
		Status:        item.Status.String(),
		IsLocked:      item.IsLocked,
		RouteNumber:   item.RouteNumber,
		RouteName:     item.RouteName,
		SalesmanName:  item.SalesmanName,
		TotalQuantity: item.TotalQuantity,
		DeliveryID:    optionalID(item.DeliveryID),
		CreatedAt:     item.CreatedAt,
	}
}

type Totals struct {
	Orders       int `json:"orders"`
	Deliveries   int `json:"deliveries"`
	Acknowledged int `json:"acknowledged"`
	Verified     int `json:"verified"`
	Invoiced     int `json:"invoiced"`
}

func newTotals(t businessday.Totals) Totals {
	return Totals{
		Orders:       t.Orders,
		Deliveries:   t.Deliveries,
		Acknowledged: t.Acknowledged,
		Verified:     t.Verified,
		Invoiced:     t.Invoiced,
	}
}

type BusinessDay struct {
	ID           string    `json:"id"`
	Date         string    `json:"date"`
	Totals       Totals    `json:"totals"`
	ClosedByName string    `json:"closed_by_name,omitempty"`
	ClosedAt     time.Time `json:"closed_at"`
	Notes        string    `json:"notes,omitempty"`
}

func newBusinessDay(day *businessday.BusinessDay, closedBy *staff.User) BusinessDay {
	return BusinessDay{
		ID:           day.ID().String(),
		Date:         day.Date().String(),
		Totals:       newTotals(day.Totals()),
		ClosedByName: closedBy.FullName(),
		ClosedAt:     day.ClosedAt(),
		Notes:        day.Notes(),
	}
}

func newBusinessDayView(v queries.BusinessDayView) BusinessDay {
	return BusinessDay{
		ID:           v.ID.String(),
		Date:         v.Date.String(),
		Totals:       newTotals(v.Totals),
		ClosedByName: v.ClosedByName,
		ClosedAt:     v.ClosedAt,
		Notes:        v.Notes,
	}
}

func optionalID(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
