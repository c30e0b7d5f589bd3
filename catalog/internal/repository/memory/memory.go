package memory

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"

	"github.com/soylemez/jumboboxd/catalog/internal/repository"
	"github.com/soylemez/jumboboxd/catalog/pkg/model"
)

const tracerID = "catalog-repository-memory"

// Repository defines a memory catalog cache.
type Repository struct {
	sync.RWMutex
	pages   map[int][]model.Movie
	entries map[int]*model.Movie
}

// New creates a new memory catalog cache.
func New() *Repository {
	return &Repository{
		pages:   map[int][]model.Movie{},
		entries: map[int]*model.Movie{},
	}
}

// GetPage retrieves a cached catalog page.
func (r *Repository) GetPage(ctx context.Context, page int) ([]model.Movie, error) {
	r.RLock()
	defer r.RUnlock()

	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/GetPage")
	defer span.End()

	movies, ok := r.pages[page]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return movies, nil
}

// PutPage caches a catalog page.
func (r *Repository) PutPage(ctx context.Context, page int, movies []model.Movie) error {
	r.Lock()
	defer r.Unlock()

	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/PutPage")
	defer span.End()

	r.pages[page] = movies
	return nil
}

// GetEntry retrieves a cached catalog entry by movie id.
func (r *Repository) GetEntry(ctx context.Context, id int) (*model.Movie, error) {
	r.RLock()
	defer r.RUnlock()

	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/GetEntry")
	defer span.End()

	m, ok := r.entries[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return m, nil
}

// PutEntry caches a catalog entry for a given movie id.
func (r *Repository) PutEntry(ctx context.Context, id int, movie *model.Movie) error {
	r.Lock()
	defer r.Unlock()

	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/PutEntry")
	defer span.End()

	r.entries[id] = movie
	return nil
}
