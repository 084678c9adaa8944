package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/kindnest/kindnest-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddFilterNormalizes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	filter, err := env.filters.Add(ctx, "  ScOuNdReL ")
	require.NoError(t, err)
	assert.Equal(t, "scoundrel", filter.Word)

	// Duplicates collide on the normalized form.
	_, err = env.filters.Add(ctx, "SCOUNDREL")
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperror.MapErrorToStatus(err))

	_, err = env.filters.Add(ctx, "   ")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.MapErrorToStatus(err))
}

func TestRemoveFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	filter, err := env.filters.Add(ctx, "scoundrel")
	require.NoError(t, err)

	require.NoError(t, env.filters.Remove(ctx, filter.ID))

	err = env.filters.Remove(ctx, filter.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.MapErrorToStatus(err))
}

func TestListFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, word := range []string{"one", "two", "three"} {
		_, err := env.filters.Add(ctx, word)
		require.NoError(t, err)
	}

	page, err := env.filters.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)
	assert.Equal(t, int64(3), page.TotalItems)
}

func TestCheckAgainstBlocklist(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.filters.Add(ctx, "scoundrel")
	require.NoError(t, err)

	assert.NoError(t, env.filters.Check(ctx, "post", "perfectly nice"))

	err = env.filters.Check(ctx, "post", "you scoundrel")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.MapErrorToStatus(err))
	assert.Contains(t, err.Error(), "scoundrel")
}
