// Package product holds the catalogue of items salesmen can order.
package product

import (
	"errors"
	"strings"

	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/pkg/errs"
	"bakery/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrProductIsNotConstructed = errors.New("Product must be created via NewProduct or RestoreProduct constructor")
	ErrCodeIsRequired          = errs.NewValueIsRequiredError("product code")
	ErrNameIsRequired          = errs.NewValueIsRequiredError("product name")
)

// Product is a catalogue entry. Codes are stored upper-case and are unique.
type Product struct {
	id          kernel.UUID
	code        string
	name        string
	description string
	unitPrice   decimal.Decimal
	isActive    bool

	guard guard.ConstructorGuard
}

// NewProduct creates an active product. The unit price may be zero but never negative.
func NewProduct(id kernel.UUID, code, name, description string, unitPrice decimal.Decimal) (*Product, error) {
	return RestoreProduct(id, code, name, description, unitPrice, true)
}

func RestoreProduct(
	id kernel.UUID,
	code, name, description string,
	unitPrice decimal.Decimal,
	isActive bool,
) (*Product, error) {
	p := &Product{
		description: strings.TrimSpace(description),
		isActive:    isActive,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setCode(code),
		p.setName(name),
		p.setUnitPrice(unitPrice),
	); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Product) Validate() error {
	if p == nil {
		return ErrProductIsNotConstructed
	}
	return p.guard.Validate(ErrProductIsNotConstructed)
}

func (p *Product) ID() kernel.UUID {
	return p.id
}

func (p *Product) Code() string {
	return p.code
}

func (p *Product) Name() string {
	return p.name
}

func (p *Product) Description() string {
	return p.description
}

func (p *Product) UnitPrice() decimal.Decimal {
	return p.unitPrice
}

func (p *Product) IsActive() bool {
	return p.isActive
}

// LineTotal prices quantity units of the product.
func (p *Product) LineTotal(quantity int) decimal.Decimal {
	return p.unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

func (p *Product) Deactivate() {
	p.isActive = false
}

func (p *Product) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Product) setCode(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return ErrCodeIsRequired
	}
	p.code = code
	return nil
}

func (p *Product) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	p.name = name
	return nil
}

func (p *Product) setUnitPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return errs.NewValueIsOutOfRangeError("unit price", price.String(), "0", "unbounded")
	}
	p.unitPrice = price.Round(2)
	return nil
}
