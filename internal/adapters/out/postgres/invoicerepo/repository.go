// Package invoicerepo persists invoice records. The file itself lives in
// object storage; file_path holds its key.
package invoicerepo

import (
	"context"
	"time"

	"bakery/internal/adapters/out/postgres/pgerrs"
	"bakery/internal/core/domain/model/invoice"
	"bakery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceDTO is the invoices table. An order has at most one invoice.
type InvoiceDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	InvoiceNumber string    `gorm:"type:varchar(64);not null"`
	FilePath      string    `gorm:"type:text;not null"`
	UploadedBy    uuid.UUID `gorm:"type:uuid;not null"`
	UploadedAt    time.Time `gorm:"type:timestamptz;not null;index"`
	Notes         string    `gorm:"type:text"`
}

func (InvoiceDTO) TableName() string {
	return "invoices"
}

type GormInvoiceRepository struct {
	db *gorm.DB
}

func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

func (r *GormInvoiceRepository) Add(ctx context.Context, inv *invoice.Invoice) error {
	dto := InvoiceDTO{
		ID:            inv.ID().Bytes(),
		OrderID:       inv.OrderID().Bytes(),
		InvoiceNumber: inv.Number(),
		FilePath:      inv.FilePath(),
		UploadedBy:    inv.UploadedBy().Bytes(),
		UploadedAt:    inv.UploadedAt(),
		Notes:         inv.Notes(),
	}
	err := r.db.WithContext(ctx).Create(&dto).Error
	return pgerrs.Translate(err, "invoices", "order_id="+inv.OrderID().String())
}

func (r *GormInvoiceRepository) ExistsForOrder(ctx context.Context, orderID kernel.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&InvoiceDTO{}).Where("order_id = ?", orderID.Bytes()).Count(&count).Error
	return count > 0, err
}
