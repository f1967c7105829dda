package commands

import (
	"errors"

	"bakery/internal/core/domain/model/staff"
	"bakery/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrCreateProductCommandIsNotConstructed = errors.New(
	"CreateProductCommand must be created via NewCreateProductCommand constructor",
)

// CreateProductCommand adds a product to the catalogue.
type CreateProductCommand struct { //nolint:recvcheck //using for validation
	actor       *staff.User
	code        string
	name        string
	description string
	unitPrice   decimal.Decimal

	guard guard.ConstructorGuard
}

func NewCreateProductCommand(
	actor *staff.User,
	code, name, description string,
	unitPrice decimal.Decimal,
) (CreateProductCommand, error) {
	if err := validateActor(actor); err != nil {
		return CreateProductCommand{}, err
	}

	return CreateProductCommand{
		actor:       actor,
		code:        code,
		name:        name,
		description: description,
		unitPrice:   unitPrice,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c CreateProductCommand) Validate() error {
	return c.guard.Validate(ErrCreateProductCommandIsNotConstructed)
}

func (c CreateProductCommand) Actor() *staff.User {
	return c.actor
}

func (c CreateProductCommand) Code() string {
	return c.code
}

func (c CreateProductCommand) Name() string {
	return c.name
}

func (c CreateProductCommand) Description() string {
	return c.description
}

func (c CreateProductCommand) UnitPrice() decimal.Decimal {
	return c.unitPrice
}
