package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/soylemez/jumboboxd/catalog/internal/repository/memory"
	"github.com/soylemez/jumboboxd/catalog/pkg/model"
)

// countingGateway tracks how often the upstream is hit.
type countingGateway struct {
	pageCalls  int
	entryCalls int
	err        error
}

func (g *countingGateway) GetPage(_ context.Context, page int) ([]model.Movie, error) {
	g.pageCalls++
	if g.err != nil {
		return nil, g.err
	}
	movies := make([]model.Movie, model.PageSize)
	for i := range movies {
		movies[i] = model.Movie{ID: model.MovieID(page, i), Title: "Some Movie"}
	}
	return movies, nil
}

func (g *countingGateway) GetEntry(_ context.Context, id int) (*model.Movie, error) {
	g.entryCalls++
	if g.err != nil {
		return nil, g.err
	}
	return &model.Movie{ID: id, Title: "Some Movie"}, nil
}

func TestGetPageServesFromCacheAfterFirstFetch(t *testing.T) {
	gw := &countingGateway{}
	c := New(gw, memory.New(), zap.NewNop())
	ctx := context.Background()

	first, err := c.GetPage(ctx, 1)
	require.NoError(t, err)
	require.Len(t, first, model.PageSize)
	assert.Equal(t, 1, gw.pageCalls)

	second, err := c.GetPage(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, gw.pageCalls)

	_, err = c.GetPage(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, gw.pageCalls)
}

func TestGetEntryServesFromCacheAfterFirstFetch(t *testing.T) {
	gw := &countingGateway{}
	c := New(gw, memory.New(), zap.NewNop())
	ctx := context.Background()

	_, err := c.GetEntry(ctx, 42)
	require.NoError(t, err)
	_, err = c.GetEntry(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 1, gw.entryCalls)
}

func TestUpstreamErrorSurfacesWhenUncached(t *testing.T) {
	gw := &countingGateway{err: errors.New("upstream unavailable")}
	c := New(gw, memory.New(), zap.NewNop())
	ctx := context.Background()

	_, err := c.GetPage(ctx, 1)
	assert.Error(t, err)
	_, err = c.GetEntry(ctx, 1)
	assert.Error(t, err)
}

func TestCachedPageSurvivesUpstreamOutage(t *testing.T) {
	gw := &countingGateway{}
	c := New(gw, memory.New(), zap.NewNop())
	ctx := context.Background()

	_, err := c.GetPage(ctx, 1)
	require.NoError(t, err)

	gw.err = errors.New("upstream unavailable")
	movies, err := c.GetPage(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, movies, model.PageSize)
}
