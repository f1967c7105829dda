package commands_test

import (
	"testing"

	"bakery/internal/core/application/usecases/commands"
	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/staff"
	"bakery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrderCommand_ValidInput(t *testing.T) {
	salesman, _ := newSalesman(t)
	lines := []commands.OrderLine{{ProductID: kernel.NewUUID(), Quantity: 10}}

	cmd, err := commands.NewCreateOrderCommand(salesman, lines)
	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, salesman, cmd.Actor())
	assert.Equal(t, lines, cmd.Lines())
}

func TestNewCreateOrderCommand_LinesAreCopied(t *testing.T) {
	salesman, _ := newSalesman(t)
	lines := []commands.OrderLine{{ProductID: kernel.NewUUID(), Quantity: 10}}

	cmd, err := commands.NewCreateOrderCommand(salesman, lines)
	require.NoError(t, err)

	lines[0].Quantity = 99
	assert.Equal(t, 10, cmd.Lines()[0].Quantity)
}

func TestNewCreateOrderCommand_InvalidInput(t *testing.T) {
	salesman, _ := newSalesman(t)
	productID := kernel.NewUUID()

	testCases := []struct {
		name     string
		actor    *staff.User
		lines    []commands.OrderLine
		expected error
	}{
		{"no actor", nil, []commands.OrderLine{{ProductID: productID, Quantity: 1}}, errs.ErrValueIsRequired},
		{"no lines", salesman, nil, commands.ErrLinesAreRequired},
		{"zero quantity", salesman, []commands.OrderLine{{ProductID: productID, Quantity: 0}}, errs.ErrValueIsInvalid},
		{"nil product", salesman, []commands.OrderLine{{Quantity: 1}}, kernel.ErrUUIDIsNotConstructed},
		{
			"duplicate product",
			salesman,
			[]commands.OrderLine{{ProductID: productID, Quantity: 1}, {ProductID: productID, Quantity: 2}},
			errs.ErrValueIsInvalid,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := commands.NewCreateOrderCommand(tc.actor, tc.lines)
			require.ErrorIs(t, err, tc.expected)
		})
	}
}

func TestCreateOrderCommand_ZeroValueIsNotConstructed(t *testing.T) {
	var cmd commands.CreateOrderCommand
	require.ErrorIs(t, cmd.Validate(), commands.ErrCreateOrderCommandIsNotConstructed)
}
