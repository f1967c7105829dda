package queries_test

import (
	"testing"

	"bakery/internal/core/application/usecases/queries"
	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/staff"
	"bakery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetDailyCountsQuery(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		actor, err := staff.NewUser(kernel.NewUUID(), "Di", "di@bakery.test", staff.Accountant, nil)
		require.NoError(t, err)

		query, err := queries.NewGetDailyCountsQuery(actor, today)
		require.NoError(t, err)
		require.NoError(t, query.Validate())
		assert.Same(t, actor, query.Actor())
	})

	t.Run("actor is required", func(t *testing.T) {
		_, err := queries.NewGetDailyCountsQuery(nil, today)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("zero date", func(t *testing.T) {
		actor, err := staff.NewUser(kernel.NewUUID(), "Di", "di@bakery.test", staff.Accountant, nil)
		require.NoError(t, err)

		_, err = queries.NewGetDailyCountsQuery(actor, kernel.Date{})
		require.Error(t, err)
	})
}

func TestQueries_NotConstructedViaConstructor(t *testing.T) {
	assert.ErrorIs(t, queries.GetDailyCountsQuery{}.Validate(), queries.ErrGetDailyCountsQueryIsNotConstructed)
	assert.ErrorIs(t, queries.GetWorkQueueQuery{}.Validate(), queries.ErrGetWorkQueueQueryIsNotConstructed)
	assert.ErrorIs(t, queries.ListActiveProductsQuery{}.Validate(), queries.ErrListActiveProductsQueryIsNotConstructed)
	assert.ErrorIs(t, queries.ListRoutesQuery{}.Validate(), queries.ErrListRoutesQueryIsNotConstructed)
	assert.ErrorIs(t, queries.ListBusinessDaysQuery{}.Validate(), queries.ErrListBusinessDaysQueryIsNotConstructed)
}

func TestNewListBusinessDaysQuery_RejectsReversedRange(t *testing.T) {
	_, err := queries.NewListBusinessDaysQuery(today, yesterday)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestStatusCounts_Total(t *testing.T) {
	counts := queries.StatusCounts{Created: 1, Dispatched: 2, Invoiced: 3, Flagged: 4}
	assert.Equal(t, 10, counts.Total())
}
