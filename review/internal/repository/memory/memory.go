package memory

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/soylemez/jumboboxd/review/internal/repository"
	"github.com/soylemez/jumboboxd/review/pkg/model"
)

const tracerID = "review-repository-memory"

// Repository defines a memory review repository. Reviews are kept in
// insertion order; nothing prevents two rows for the same (user, movie)
// pair going through Create, matching the storage contract.
type Repository struct {
	sync.RWMutex
	nextID  int64
	reviews []*model.Review
}

// New creates a new memory repository.
func New() *Repository {
	return &Repository{nextID: 1}
}

// GetByID retrieves a review by its id.
func (r *Repository) GetByID(ctx context.Context, id int64) (*model.Review, error) {
	r.RLock()
	defer r.RUnlock()

	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/GetByID")
	defer span.End()

	for _, rev := range r.reviews {
		if rev.ID == id {
			c := *rev
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

// ListByUser returns all reviews owned by the given user in insertion order.
func (r *Repository) ListByUser(ctx context.Context, userID model.UserID) ([]model.Review, error) {
	r.RLock()
	defer r.RUnlock()

	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/ListByUser")
	defer span.End()

	res := []model.Review{}
	for _, rev := range r.reviews {
		if rev.UserID == userID {
			res = append(res, *rev)
		}
	}
	return res, nil
}

// ListAll returns every review in the repository regardless of owner.
func (r *Repository) ListAll(ctx context.Context) ([]model.Review, error) {
	r.RLock()
	defer r.RUnlock()

	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/ListAll")
	defer span.End()

	res := make([]model.Review, 0, len(r.reviews))
	for _, rev := range r.reviews {
		res = append(res, *rev)
	}
	return res, nil
}

// Create inserts a new review row unconditionally and returns it with its
// assigned id and creation timestamp.
func (r *Repository) Create(ctx context.Context, review *model.Review) (*model.Review, error) {
	r.Lock()
	defer r.Unlock()

	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/Create")
	defer span.End()

	return r.insert(review), nil
}

// UpdateMetadata replaces the metadata document of the review with the
// given id.
func (r *Repository) UpdateMetadata(ctx context.Context, id int64, metadata model.Metadata) error {
	r.Lock()
	defer r.Unlock()

	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/UpdateMetadata")
	defer span.End()

	for _, rev := range r.reviews {
		if rev.ID == id {
			rev.Metadata = metadata
			return nil
		}
	}
	return repository.ErrNotFound
}

// Upsert performs the existence check and write under the repository lock:
// the first row matching (userID, movieID) gets the patch merged in,
// otherwise a new row is created from an all-defaults document plus the
// patch. At most one row is ever created per pair through this path.
func (r *Repository) Upsert(ctx context.Context, userID model.UserID, movieID int, movieData model.MovieData, patch model.Patch) (*model.Review, error) {
	r.Lock()
	defer r.Unlock()

	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/Upsert")
	defer span.End()

	for _, rev := range r.reviews {
		if rev.UserID == userID && rev.MovieID == movieID {
			rev.Metadata = model.Merge(rev.Metadata, patch)
			c := *rev
			return &c, nil
		}
	}
	created := r.insert(&model.Review{
		UserID:    userID,
		MovieID:   movieID,
		MovieData: movieData,
		Metadata:  model.Merge(model.Metadata{Collections: []string{}}, patch),
	})
	return created, nil
}

func (r *Repository) insert(review *model.Review) *model.Review {
	rev := *review
	rev.ID = r.nextID
	rev.CreatedAt = time.Now()
	r.nextID++
	r.reviews = append(r.reviews, &rev)
	c := rev
	return &c
}
