package review

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/soylemez/jumboboxd/review/internal/repository"
	"github.com/soylemez/jumboboxd/review/pkg/model"
)

// ErrNotFound is returned when an update target does not exist or is not
// owned by the caller.
var ErrNotFound = errors.New("review not found")

type reviewRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Review, error)
	ListByUser(ctx context.Context, userID model.UserID) ([]model.Review, error)
	ListAll(ctx context.Context) ([]model.Review, error)
	Create(ctx context.Context, review *model.Review) (*model.Review, error)
	UpdateMetadata(ctx context.Context, id int64, metadata model.Metadata) error
	Upsert(ctx context.Context, userID model.UserID, movieID int, movieData model.MovieData, patch model.Patch) (*model.Review, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, event model.ReviewEvent) error
}

type reviewIngester interface {
	Ingest(ctx context.Context) (chan model.ReviewEvent, error)
}

// Controller defines the review service controller.
type Controller struct {
	repo      reviewRepository
	publisher eventPublisher
	ingester  reviewIngester
	logger    *zap.Logger
}

// New creates a review service controller. The publisher and ingester may
// be nil when eventing is disabled.
func New(repo reviewRepository, publisher eventPublisher, ingester reviewIngester, logger *zap.Logger) *Controller {
	return &Controller{repo: repo, publisher: publisher, ingester: ingester, logger: logger}
}

// ListByUser returns all reviews owned by the given user.
func (c *Controller) ListByUser(ctx context.Context, userID model.UserID) ([]model.Review, error) {
	return c.repo.ListByUser(ctx, userID)
}

// ListAll returns every review in the store regardless of owner.
func (c *Controller) ListAll(ctx context.Context) ([]model.Review, error) {
	return c.repo.ListAll(ctx)
}

// Get returns a review by its id or ErrNotFound.
func (c *Controller) Get(ctx context.Context, id int64) (*model.Review, error) {
	res, err := c.repo.GetByID(ctx, id)
	if err != nil && errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return res, err
}

// Create inserts a new review row unconditionally. It does not check for
// an existing (user, movie) pair; Upsert is the race-free path.
func (c *Controller) Create(ctx context.Context, userID model.UserID, movieID int, movieData model.MovieData, metadata model.Metadata) (*model.Review, error) {
	if metadata.Collections == nil {
		metadata.Collections = []string{}
	}
	created, err := c.repo.Create(ctx, &model.Review{
		UserID:    userID,
		MovieID:   movieID,
		MovieData: movieData,
		Metadata:  metadata,
	})
	if err != nil {
		return nil, err
	}
	c.publish(ctx, model.ReviewEvent{Review: *created, EventType: model.ReviewEventTypeCreated})
	return created, nil
}

// UpdateByID merges the patch into the metadata of the review with the
// given id. A missing row, and a row owned by a different user, both
// surface as ErrNotFound. The read-merge-write sequence is not guarded
// against concurrent patches of the same row.
func (c *Controller) UpdateByID(ctx context.Context, id int64, userID model.UserID, patch model.Patch) (*model.Review, error) {
	existing, err := c.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if existing.UserID != userID {
		return nil, ErrNotFound
	}
	existing.Metadata = model.Merge(existing.Metadata, patch)
	if err := c.repo.UpdateMetadata(ctx, id, existing.Metadata); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	c.publish(ctx, model.ReviewEvent{Review: *existing, EventType: model.ReviewEventTypeUpdated})
	return existing, nil
}

// Upsert merges the patch into the user's review for the movie, creating
// the row from an all-defaults document when none exists yet. The check
// and write happen inside one repository critical section.
func (c *Controller) Upsert(ctx context.Context, userID model.UserID, movieID int, movieData model.MovieData, patch model.Patch) (*model.Review, error) {
	res, err := c.repo.Upsert(ctx, userID, movieID, movieData, patch)
	if err != nil {
		return nil, err
	}
	c.publish(ctx, model.ReviewEvent{Review: *res, EventType: model.ReviewEventTypeUpdated})
	return res, nil
}

// StartIngestion consumes review events and applies them to the store.
// Used by the bulk-import path; blocks until the context is cancelled.
func (c *Controller) StartIngestion(ctx context.Context) error {
	ch, err := c.ingester.Ingest(ctx)
	if err != nil {
		return err
	}
	for e := range ch {
		patch := model.Patch{
			ToWatch:     model.Bool(e.Metadata.ToWatch),
			Watched:     model.Bool(e.Metadata.Watched),
			Liked:       model.Bool(e.Metadata.Liked),
			Rating:      model.Int(e.Metadata.Rating),
			Notes:       model.String(e.Metadata.Notes),
			Collections: e.Metadata.Collections,
		}
		if _, err := c.repo.Upsert(ctx, e.UserID, e.MovieID, e.MovieData, patch); err != nil {
			c.logger.Error("Failed to ingest review event", zap.Error(err))
		}
	}
	return nil
}

// publish is best-effort: a failed produce is logged and otherwise
// invisible to the caller.
func (c *Controller) publish(ctx context.Context, event model.ReviewEvent) {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.Publish(ctx, event); err != nil {
		c.logger.Error("Failed to publish review event", zap.Error(err))
	}
}
