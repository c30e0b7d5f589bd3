package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/soylemez/jumboboxd/catalog/pkg/model"
)

type catalogGateway interface {
	GetPage(ctx context.Context, page int) ([]model.Movie, error)
	GetEntry(ctx context.Context, id int) (*model.Movie, error)
}

type catalogCache interface {
	GetPage(ctx context.Context, page int) ([]model.Movie, error)
	PutPage(ctx context.Context, page int, movies []model.Movie) error
	GetEntry(ctx context.Context, id int) (*model.Movie, error)
	PutEntry(ctx context.Context, id int, movie *model.Movie) error
}

// Controller defines a catalog service controller that fronts the upstream
// catalog with a cache.
type Controller struct {
	gateway catalogGateway
	cache   catalogCache
	logger  *zap.Logger
}

// New creates a catalog service controller.
func New(gateway catalogGateway, cache catalogCache, logger *zap.Logger) *Controller {
	return &Controller{gateway, cache, logger}
}

// GetPage returns one page of catalog entries, serving from the cache when
// possible. Page bounds are not validated here; an out-of-range page is
// passed through to the upstream.
func (c *Controller) GetPage(ctx context.Context, page int) ([]model.Movie, error) {
	cached, err := c.cache.GetPage(ctx, page)
	if err == nil {
		return cached, nil
	}
	movies, err := c.gateway.GetPage(ctx, page)
	if err != nil {
		return nil, err
	}
	if err := c.cache.PutPage(ctx, page, movies); err != nil {
		c.logger.Warn("Failed to cache catalog page", zap.Int("page", page), zap.Error(err))
	}
	return movies, nil
}

// GetEntry returns a single catalog entry by movie id, serving from the
// cache when possible.
func (c *Controller) GetEntry(ctx context.Context, id int) (*model.Movie, error) {
	cached, err := c.cache.GetEntry(ctx, id)
	if err == nil {
		return cached, nil
	}
	movie, err := c.gateway.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.cache.PutEntry(ctx, id, movie); err != nil {
		c.logger.Warn("Failed to cache catalog entry", zap.Int("id", id), zap.Error(err))
	}
	return movie, nil
}
