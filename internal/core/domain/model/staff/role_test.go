package staff_test

import (
	"testing"

	"bakery/internal/core/domain/model/staff"
	"bakery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	testCases := []struct {
		input    string
		expected staff.Role
	}{
		{"Admin", staff.Admin},
		{"salesman", staff.Salesman},
		{" FACTORY ", staff.Factory},
		{"Accountant", staff.Accountant},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			role, err := staff.ParseRole(tc.input)

			require.NoError(t, err)
			assert.Equal(t, tc.expected, role)
		})
	}

	t.Run("should reject unknown roles", func(t *testing.T) {
		role, err := staff.ParseRole("driver")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, staff.UnknownRole, role)
	})
}

func TestRole_Validate(t *testing.T) {
	for _, r := range staff.Roles() {
		require.NoError(t, r.Validate(), r.String())
	}

	require.Error(t, staff.UnknownRole.Validate())
	require.Error(t, staff.Role(42).Validate())
	assert.Equal(t, "Unknown", staff.Role(42).String())
}

func TestRole_RequiresRoute(t *testing.T) {
	assert.True(t, staff.Salesman.RequiresRoute())
	assert.False(t, staff.Admin.RequiresRoute())
	assert.False(t, staff.Factory.RequiresRoute())
	assert.False(t, staff.Accountant.RequiresRoute())
}
