package testutil

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/soylemez/jumboboxd/catalog/internal/controller/catalog"
	"github.com/soylemez/jumboboxd/catalog/internal/repository/memory"
	"github.com/soylemez/jumboboxd/catalog/pkg/model"
)

// StaticGateway serves a fixed in-memory catalog, to be used in tests in
// place of the upstream gateway.
type StaticGateway struct {
	Movies []model.Movie
}

// GetPage returns one page of the fixed catalog.
func (g StaticGateway) GetPage(ctx context.Context, page int) ([]model.Movie, error) {
	start := model.PageSize * (page - 1)
	if start < 0 || start >= len(g.Movies) {
		return []model.Movie{}, nil
	}
	end := start + model.PageSize
	if end > len(g.Movies) {
		end = len(g.Movies)
	}
	return g.Movies[start:end], nil
}

// GetEntry returns a single entry of the fixed catalog.
func (g StaticGateway) GetEntry(ctx context.Context, id int) (*model.Movie, error) {
	for _, m := range g.Movies {
		if m.ID == id {
			c := m
			return &c, nil
		}
	}
	return nil, fmt.Errorf("no catalog entry with id %d", id)
}

// NewTestCatalogController creates a catalog controller serving the given
// fixed movie list, to be used in tests.
func NewTestCatalogController(movies []model.Movie) *catalog.Controller {
	return catalog.New(StaticGateway{Movies: movies}, memory.New(), zap.NewNop())
}
