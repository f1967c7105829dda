package postgres

import (
	"bakery/internal/adapters/out/postgres/auditrepo"
	"bakery/internal/adapters/out/postgres/businessdayrepo"
	"bakery/internal/adapters/out/postgres/deliveryrepo"
	"bakery/internal/adapters/out/postgres/invoicerepo"
	"bakery/internal/adapters/out/postgres/orderrepo"
	"bakery/internal/adapters/out/postgres/productrepo"
	"bakery/internal/adapters/out/postgres/routerepo"
	"bakery/internal/adapters/out/postgres/userrepo"

	"gorm.io/gorm"
)

// Models lists every table in dependency order.
func Models() []any {
	return []any{
		&routerepo.RouteDTO{},
		&userrepo.UserDTO{},
		&productrepo.ProductDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&deliveryrepo.DeliveryDTO{},
		&deliveryrepo.DeliveryItemDTO{},
		&deliveryrepo.AcknowledgementDTO{},
		&deliveryrepo.VerificationDTO{},
		&invoicerepo.InvoiceDTO{},
		&businessdayrepo.BusinessDayDTO{},
		&auditrepo.AuditLogDTO{},
	}
}

// Migrate creates or updates the schema, including the unique indexes the
// transition executor relies on.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	return db.Exec(userrepo.ActiveSalesmanRouteIndex).Error
}

// TruncateAll empties every table. Integration suites call it between tests.
func TruncateAll(db *gorm.DB) error {
	return db.Exec(`TRUNCATE TABLE audit_logs, business_days, invoices, verifications, acknowledgements,
		delivery_items, deliveries, order_items, orders, products, users, routes CASCADE`).Error
}
