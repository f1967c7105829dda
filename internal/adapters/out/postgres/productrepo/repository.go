// Package productrepo persists the product catalogue.
package productrepo

import (
	"context"

	"bakery/internal/adapters/out/postgres/pgerrs"
	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/product"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductDTO is the products table. Product codes are unique.
type ProductDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductCode string          `gorm:"type:varchar(32);not null;uniqueIndex"`
	ProductName string          `gorm:"type:varchar(255);not null"`
	Description string          `gorm:"type:text"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	IsActive    bool            `gorm:"not null;default:true"`
}

func (ProductDTO) TableName() string {
	return "products"
}

func toDomain(dto ProductDTO) (*product.Product, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	return product.RestoreProduct(id, dto.ProductCode, dto.ProductName, dto.Description, dto.UnitPrice, dto.IsActive)
}

type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) Add(ctx context.Context, p *product.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	dto := ProductDTO{
		ID:          p.ID().Bytes(),
		ProductCode: p.Code(),
		ProductName: p.Name(),
		Description: p.Description(),
		UnitPrice:   p.UnitPrice(),
		IsActive:    p.IsActive(),
	}
	err := r.db.WithContext(ctx).Create(&dto).Error
	return pgerrs.Translate(err, "products", "product_code="+p.Code())
}

func (r *GormProductRepository) Get(ctx context.Context, id kernel.UUID) (*product.Product, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ProductDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, pgerrs.NotFound(err, "product", id.String())
	}
	return toDomain(dto)
}

// GetMany loads every product in ids. Unknown ids are left out of the result.
func (r *GormProductRepository) GetMany(
	ctx context.Context,
	ids []kernel.UUID,
) (map[kernel.UUID]*product.Product, error) {
	found := make(map[kernel.UUID]*product.Product, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}

	var dtos []ProductDTO
	if err := r.db.WithContext(ctx).Where("id IN ?", raw).Find(&dtos).Error; err != nil {
		return nil, err
	}

	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		found[p.ID()] = p
	}
	return found, nil
}
