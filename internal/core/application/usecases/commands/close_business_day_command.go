package commands

import (
	"errors"
	"strings"

	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/staff"
	"bakery/internal/pkg/guard"
)

var ErrCloseBusinessDayCommandIsNotConstructed = errors.New(
	"CloseBusinessDayCommand must be created via NewCloseBusinessDayCommand constructor",
)

// CloseBusinessDayCommand records the closing snapshot of one date.
type CloseBusinessDayCommand struct { //nolint:recvcheck //using for validation
	actor *staff.User
	date  kernel.Date
	notes string

	guard guard.ConstructorGuard
}

func NewCloseBusinessDayCommand(actor *staff.User, date kernel.Date, notes string) (CloseBusinessDayCommand, error) {
	if err := errors.Join(validateActor(actor), date.Validate()); err != nil {
		return CloseBusinessDayCommand{}, err
	}

	return CloseBusinessDayCommand{
		actor: actor,
		date:  date,
		notes: strings.TrimSpace(notes),
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c CloseBusinessDayCommand) Validate() error {
	return c.guard.Validate(ErrCloseBusinessDayCommandIsNotConstructed)
}

func (c CloseBusinessDayCommand) Actor() *staff.User {
	return c.actor
}

func (c CloseBusinessDayCommand) Date() kernel.Date {
	return c.date
}

func (c CloseBusinessDayCommand) Notes() string {
	return c.notes
}
