package services_test

import (
	"testing"
	"time"

	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/order"
	"bakery/internal/core/domain/model/staff"
	"bakery/internal/core/domain/services"
	"bakery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	owner      *staff.User
	other      *staff.User
	factory    *staff.User
	accountant *staff.User
	admin      *staff.User
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	routeA, routeB := kernel.NewUUID(), kernel.NewUUID()
	mk := func(name string, role staff.Role, route *kernel.UUID) *staff.User {
		u, err := staff.NewUser(kernel.NewUUID(), name, name+"@bakery.test", role, route)
		require.NoError(t, err)
		return u
	}
	return fixture{
		owner:      mk("owner", staff.Salesman, &routeA),
		other:      mk("other", staff.Salesman, &routeB),
		factory:    mk("factory", staff.Factory, nil),
		accountant: mk("accountant", staff.Accountant, nil),
		admin:      mk("admin", staff.Admin, nil),
	}
}

func orderIn(t *testing.T, owner *staff.User, status order.Status) *order.Order {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), 3)
	require.NoError(t, err)
	o, err := order.RestoreOrder(kernel.NewUUID(), "ORD-1", *owner.AssignedRoute(), owner.ID(),
		kernel.NewDate(2024, time.May, 6), status, false, []order.Item{item}, time.Now())
	require.NoError(t, err)
	return o
}

func TestOrderLifecycle_Rules(t *testing.T) {
	lifecycle := services.NewOrderLifecycle()

	rules := lifecycle.Rules()

	require.Len(t, rules, 5)
	for _, r := range rules {
		from, ok := r.To.Predecessor()
		require.True(t, ok)
		assert.Equal(t, from, r.From, r.To.String())
	}

	_, ok := lifecycle.Rule(order.Created)
	assert.False(t, ok)
}

func TestOrderLifecycle_Authorize_AllowedTransitions(t *testing.T) {
	f := newFixture(t)
	lifecycle := services.NewOrderLifecycle()

	testCases := []struct {
		actor  *staff.User
		from   order.Status
		target order.Status
	}{
		{f.factory, order.Created, order.Dispatched},
		{f.owner, order.Dispatched, order.Acknowledged},
		{f.accountant, order.Acknowledged, order.Verified},
		{f.accountant, order.Acknowledged, order.Flagged},
		{f.owner, order.Verified, order.Invoiced},
	}

	for _, tc := range testCases {
		t.Run(tc.target.String(), func(t *testing.T) {
			rule, err := lifecycle.Authorize(tc.actor, orderIn(t, f.owner, tc.from), tc.target)

			require.NoError(t, err)
			assert.Equal(t, tc.target, rule.To)
		})
	}
}

func TestOrderLifecycle_Authorize_RoleMatrix(t *testing.T) {
	f := newFixture(t)
	lifecycle := services.NewOrderLifecycle()
	actors := []*staff.User{f.owner, f.factory, f.accountant, f.admin}

	for _, rule := range lifecycle.Rules() {
		for _, actor := range actors {
			t.Run(rule.To.String()+" by "+actor.Role().String(), func(t *testing.T) {
				_, err := lifecycle.Authorize(actor, orderIn(t, f.owner, rule.From), rule.To)

				if actor.Role() == rule.Role {
					require.NoError(t, err)
					return
				}
				require.ErrorIs(t, err, errs.ErrForbidden)
			})
		}
	}
}

func TestOrderLifecycle_Authorize_Ownership(t *testing.T) {
	f := newFixture(t)
	lifecycle := services.NewOrderLifecycle()

	_, err := lifecycle.Authorize(f.other, orderIn(t, f.owner, order.Dispatched), order.Acknowledged)

	require.ErrorIs(t, err, errs.ErrForbidden)
}

func TestOrderLifecycle_Authorize_CheckOrder(t *testing.T) {
	f := newFixture(t)
	lifecycle := services.NewOrderLifecycle()

	t.Run("role is checked before status", func(t *testing.T) {
		_, err := lifecycle.Authorize(f.factory, orderIn(t, f.owner, order.Created), order.Verified)

		require.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("ownership is checked before status", func(t *testing.T) {
		_, err := lifecycle.Authorize(f.other, orderIn(t, f.owner, order.Created), order.Invoiced)

		require.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("status mismatch is an invalid transition", func(t *testing.T) {
		_, err := lifecycle.Authorize(f.accountant, orderIn(t, f.owner, order.Dispatched), order.Verified)

		require.ErrorIs(t, err, errs.ErrInvalidStateTransition)
	})

	t.Run("flagged orders cannot be invoiced", func(t *testing.T) {
		_, err := lifecycle.Authorize(f.owner, orderIn(t, f.owner, order.Flagged), order.Invoiced)

		require.ErrorIs(t, err, errs.ErrInvalidStateTransition)
	})

	t.Run("targets without a rule are invalid transitions", func(t *testing.T) {
		_, err := lifecycle.Authorize(f.admin, orderIn(t, f.owner, order.Dispatched), order.Created)

		require.ErrorIs(t, err, errs.ErrInvalidStateTransition)
	})
}

func TestOrderLifecycle_Authorize_InactiveActor(t *testing.T) {
	f := newFixture(t)
	lifecycle := services.NewOrderLifecycle()
	f.factory.Deactivate()

	_, err := lifecycle.Authorize(f.factory, orderIn(t, f.owner, order.Created), order.Dispatched)

	require.ErrorIs(t, err, errs.ErrForbidden)
}

func TestOrderLifecycle_AuthorizeCreate(t *testing.T) {
	f := newFixture(t)
	lifecycle := services.NewOrderLifecycle()

	require.NoError(t, lifecycle.AuthorizeCreate(f.owner))
	require.ErrorIs(t, lifecycle.AuthorizeCreate(f.factory), errs.ErrForbidden)
	require.ErrorIs(t, lifecycle.AuthorizeCreate(nil), errs.ErrForbidden)
}

func TestOrderLifecycle_AuthorizeItemsEdit(t *testing.T) {
	f := newFixture(t)
	lifecycle := services.NewOrderLifecycle()
	o := orderIn(t, f.owner, order.Created)

	require.NoError(t, lifecycle.AuthorizeItemsEdit(f.owner, o))
	require.ErrorIs(t, lifecycle.AuthorizeItemsEdit(f.other, o), errs.ErrForbidden)
	require.ErrorIs(t, lifecycle.AuthorizeItemsEdit(f.admin, o), errs.ErrForbidden)
}
