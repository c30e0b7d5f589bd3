package viewer

import (
	"context"
	"sync"

	"go.uber.org/zap"

	catalogmodel "github.com/soylemez/jumboboxd/catalog/pkg/model"
	reviewmodel "github.com/soylemez/jumboboxd/review/pkg/model"
	"github.com/soylemez/jumboboxd/viewer/pkg/model"
)

type catalogGateway interface {
	GetPage(ctx context.Context, page int) ([]catalogmodel.Movie, error)
	GetEntry(ctx context.Context, id int) (*catalogmodel.Movie, error)
}

type reviewGateway interface {
	ListMine(ctx context.Context, token string) ([]reviewmodel.Review, error)
	Update(ctx context.Context, token string, id int64, patch reviewmodel.Patch) (*reviewmodel.Review, error)
	Upsert(ctx context.Context, token string, movieID int, movieData reviewmodel.MovieData, patch reviewmodel.Patch) (*reviewmodel.Review, error)
}

// view is the state of one mounted view: the visible catalog page, the
// last-loaded review list, and the derived per-movie details. The cached
// review list is the sole basis for the update-vs-create decision, so it
// can be stale relative to an in-flight write.
type view struct {
	state   model.State
	page    int
	movies  []catalogmodel.Movie
	reviews []reviewmodel.Review
	details []model.MovieDetail
}

// Controller synchronizes per-view movie metadata against the review
// service. One view is tracked per bearer credential. Mutating actions
// apply optimistically to the local view model, write through to the
// review service, and then reload the full review list; the last reload
// wins for display purposes. Actions are never coalesced or cancelled.
type Controller struct {
	catalogGateway catalogGateway
	reviewGateway  reviewGateway
	logger         *zap.Logger

	mu    sync.Mutex
	views map[string]*view
}

// New creates a viewer controller.
func New(catalogGateway catalogGateway, reviewGateway reviewGateway, logger *zap.Logger) *Controller {
	return &Controller{
		catalogGateway: catalogGateway,
		reviewGateway:  reviewGateway,
		logger:         logger,
		views:          map[string]*view{},
	}
}

func (c *Controller) view(token string) *view {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.views[token]
	if !ok {
		v = &view{state: model.StateIdle}
		c.views[token] = v
	}
	return v
}

// State reports the synchronization state of the caller's view.
func (c *Controller) State(token string) model.State {
	return c.view(token).state
}

// Load mounts the view on a catalog page: fetches the page, loads the
// user's full review list and joins the two into the view model. A failed
// load leaves the view in Loading; the previously derived details remain
// available for display.
func (c *Controller) Load(ctx context.Context, token string, page int) ([]model.MovieDetail, error) {
	v := c.view(token)
	c.mu.Lock()
	v.state = model.StateLoading
	v.page = page
	c.mu.Unlock()

	movies, err := c.catalogGateway.GetPage(ctx, page)
	if err != nil {
		return v.details, err
	}
	reviews, err := c.reviewGateway.ListMine(ctx, token)
	if err != nil {
		return v.details, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	v.movies = movies
	v.reviews = reviews
	v.details = deriveDetails(movies, reviews)
	v.state = model.StateReady
	return v.details, nil
}

// LoadReviews mounts a page-less view (the aggregate review listings):
// only the review list is loaded.
func (c *Controller) LoadReviews(ctx context.Context, token string) ([]reviewmodel.Review, error) {
	v := c.view(token)
	c.mu.Lock()
	v.state = model.StateLoading
	c.mu.Unlock()

	reviews, err := c.reviewGateway.ListMine(ctx, token)
	if err != nil {
		return v.reviews, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v.reviews = reviews
	v.details = deriveDetails(v.movies, reviews)
	v.state = model.StateReady
	return reviews, nil
}

// ToggleFlag flips one boolean metadata toggle for the movie at the given
// 0-indexed position of the view's page. The new value is derived from the
// cached review when one exists, matching what the optimistic flip shows.
func (c *Controller) ToggleFlag(ctx context.Context, token string, index int, flag model.Flag) ([]model.MovieDetail, error) {
	v := c.view(token)
	movieID := catalogmodel.MovieID(v.page, index)

	// Optimistic flip, before any round-trip completes.
	c.mu.Lock()
	if index >= 0 && index < len(v.details) {
		d := &v.details[index]
		switch flag {
		case model.FlagToWatch:
			d.ToWatch = !d.ToWatch
		case model.FlagWatched:
			d.Watched = !d.Watched
		case model.FlagLiked:
			d.Liked = !d.Liked
		}
	}
	found := findReview(v.reviews, movieID)
	c.mu.Unlock()

	var patch reviewmodel.Patch
	var value bool
	if found != nil {
		switch flag {
		case model.FlagToWatch:
			value = !found.Metadata.ToWatch
		case model.FlagWatched:
			value = !found.Metadata.Watched
		case model.FlagLiked:
			value = !found.Metadata.Liked
		}
	} else {
		value = true
	}
	switch flag {
	case model.FlagToWatch:
		patch.ToWatch = reviewmodel.Bool(value)
	case model.FlagWatched:
		patch.Watched = reviewmodel.Bool(value)
	case model.FlagLiked:
		patch.Liked = reviewmodel.Bool(value)
	}
	return c.applyPatch(ctx, token, movieID, found, patch)
}

// SetRating sets the star rating for a movie. Zero clears the rating.
func (c *Controller) SetRating(ctx context.Context, token string, movieID int, rating int) ([]model.MovieDetail, error) {
	v := c.view(token)
	c.mu.Lock()
	if found := findReview(v.reviews, movieID); found != nil {
		found.Metadata.Rating = rating
		v.details = deriveDetails(v.movies, v.reviews)
	}
	found := findReview(v.reviews, movieID)
	c.mu.Unlock()
	return c.applyPatch(ctx, token, movieID, found, reviewmodel.Patch{Rating: reviewmodel.Int(rating)})
}

// SetNotes sets the free-text notes for a movie. An empty string clears
// the notes.
func (c *Controller) SetNotes(ctx context.Context, token string, movieID int, notes string) ([]model.MovieDetail, error) {
	v := c.view(token)
	c.mu.Lock()
	if found := findReview(v.reviews, movieID); found != nil {
		found.Metadata.Notes = notes
		v.details = deriveDetails(v.movies, v.reviews)
	}
	found := findReview(v.reviews, movieID)
	c.mu.Unlock()
	return c.applyPatch(ctx, token, movieID, found, reviewmodel.Patch{Notes: reviewmodel.String(notes)})
}

// AddToCollection adds a movie to a named collection. The full desired
// collections array is computed locally and sent as a replacement.
func (c *Controller) AddToCollection(ctx context.Context, token string, movieID int, name string) ([]model.MovieDetail, error) {
	v := c.view(token)
	c.mu.Lock()
	found := findReview(v.reviews, movieID)
	var collections []string
	if found != nil {
		collections = reviewmodel.AddCollection(found.Metadata.Collections, name)
		found.Metadata.Collections = collections
		v.details = deriveDetails(v.movies, v.reviews)
	} else {
		collections = reviewmodel.AddCollection(nil, name)
	}
	c.mu.Unlock()
	return c.applyPatch(ctx, token, movieID, found, reviewmodel.Patch{Collections: collections})
}

// RemoveFromCollection removes a movie from a named collection. Absent a
// review there is nothing to remove; the review list is still reloaded.
func (c *Controller) RemoveFromCollection(ctx context.Context, token string, movieID int, name string) ([]model.MovieDetail, error) {
	v := c.view(token)
	c.mu.Lock()
	found := findReview(v.reviews, movieID)
	var collections []string
	if found != nil {
		collections = reviewmodel.RemoveCollection(found.Metadata.Collections, name)
		found.Metadata.Collections = collections
		v.details = deriveDetails(v.movies, v.reviews)
	}
	c.mu.Unlock()
	if found == nil {
		return c.reload(ctx, token)
	}
	return c.applyPatch(ctx, token, movieID, found, reviewmodel.Patch{Collections: collections})
}

// applyPatch is steps 2-4 of every action: patch the existing review by
// id when the cached list has one, otherwise resolve the catalog snapshot
// and upsert; then reload the review list to reconcile the optimistic
// local state with ground truth.
func (c *Controller) applyPatch(ctx context.Context, token string, movieID int, found *reviewmodel.Review, patch reviewmodel.Patch) ([]model.MovieDetail, error) {
	var err error
	if found != nil {
		_, err = c.reviewGateway.Update(ctx, token, found.ID, patch)
	} else {
		var entry *catalogmodel.Movie
		entry, err = c.catalogGateway.GetEntry(ctx, movieID)
		if err == nil {
			movieData := reviewmodel.MovieData{
				Title:       entry.Title,
				Description: entry.Description,
				Year:        entry.Year,
				Poster:      entry.Poster,
			}
			_, err = c.reviewGateway.Upsert(ctx, token, movieID, movieData, patch)
		}
	}
	if err != nil {
		c.logger.Error("Failed to synchronize metadata change", zap.Int("movieId", movieID), zap.Error(err))
	}

	details, reloadErr := c.reload(ctx, token)
	if err == nil {
		err = reloadErr
	}
	return details, err
}

func (c *Controller) reload(ctx context.Context, token string) ([]model.MovieDetail, error) {
	v := c.view(token)
	c.mu.Lock()
	v.state = model.StateLoading
	c.mu.Unlock()

	reviews, err := c.reviewGateway.ListMine(ctx, token)
	if err != nil {
		return v.details, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v.reviews = reviews
	v.details = deriveDetails(v.movies, reviews)
	v.state = model.StateReady
	return v.details, nil
}

// FlaggedMovies returns the cached reviews whose given toggle is set.
func (c *Controller) FlaggedMovies(token string, flag model.Flag) []reviewmodel.Review {
	v := c.view(token)
	c.mu.Lock()
	defer c.mu.Unlock()
	res := []reviewmodel.Review{}
	for _, r := range v.reviews {
		var set bool
		switch flag {
		case model.FlagToWatch:
			set = r.Metadata.ToWatch
		case model.FlagWatched:
			set = r.Metadata.Watched
		case model.FlagLiked:
			set = r.Metadata.Liked
		}
		if set {
			res = append(res, r)
		}
	}
	return res
}

// RatedMovies returns the cached reviews carrying exactly the given rating.
func (c *Controller) RatedMovies(token string, stars int) []reviewmodel.Review {
	v := c.view(token)
	c.mu.Lock()
	defer c.mu.Unlock()
	res := []reviewmodel.Review{}
	for _, r := range v.reviews {
		if r.Metadata.Rating == stars {
			res = append(res, r)
		}
	}
	return res
}

// MoviesWithNotes returns the cached reviews with non-empty notes.
func (c *Controller) MoviesWithNotes(token string) []reviewmodel.Review {
	v := c.view(token)
	c.mu.Lock()
	defer c.mu.Unlock()
	res := []reviewmodel.Review{}
	for _, r := range v.reviews {
		if r.Metadata.Notes != "" {
			res = append(res, r)
		}
	}
	return res
}

// Collections returns the union of collection names across the cached
// reviews, case-insensitively sorted.
func (c *Controller) Collections(token string) []string {
	v := c.view(token)
	c.mu.Lock()
	defer c.mu.Unlock()
	names := []string{}
	for _, r := range v.reviews {
		for _, name := range r.Metadata.Collections {
			names = reviewmodel.AddCollection(names, name)
		}
	}
	return names
}

// CollectionMovies returns the cached reviews belonging to the named
// collection.
func (c *Controller) CollectionMovies(token string, name string) []reviewmodel.Review {
	v := c.view(token)
	c.mu.Lock()
	defer c.mu.Unlock()
	res := []reviewmodel.Review{}
	for _, r := range v.reviews {
		for _, n := range r.Metadata.Collections {
			if n == name {
				res = append(res, r)
				break
			}
		}
	}
	return res
}

// deriveDetails joins the visible catalog page against the review list,
// defaulting every metadata field for movies the user has not touched.
func deriveDetails(movies []catalogmodel.Movie, reviews []reviewmodel.Review) []model.MovieDetail {
	details := make([]model.MovieDetail, len(movies))
	for i, m := range movies {
		d := model.MovieDetail{Movie: m, Collections: []string{}}
		if r := findReview(reviews, m.ID); r != nil {
			d.ToWatch = r.Metadata.ToWatch
			d.Watched = r.Metadata.Watched
			d.Liked = r.Metadata.Liked
			d.Rating = r.Metadata.Rating
			d.Notes = r.Metadata.Notes
			if r.Metadata.Collections != nil {
				d.Collections = r.Metadata.Collections
			}
		}
		details[i] = d
	}
	return details
}

// findReview returns the first cached review for the movie id, the same
// first-match rule the original listing applies when duplicates exist.
func findReview(reviews []reviewmodel.Review, movieID int) *reviewmodel.Review {
	for i := range reviews {
		if reviews[i].MovieID == movieID {
			return &reviews[i]
		}
	}
	return nil
}
