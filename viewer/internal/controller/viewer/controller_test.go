package viewer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	catalogmodel "github.com/soylemez/jumboboxd/catalog/pkg/model"
	reviewmodel "github.com/soylemez/jumboboxd/review/pkg/model"
	"github.com/soylemez/jumboboxd/viewer/pkg/model"
)

// fakeCatalog serves a fixed catalog where the movie at position index of
// page page carries the derived id.
type fakeCatalog struct{}

func (fakeCatalog) GetPage(_ context.Context, page int) ([]catalogmodel.Movie, error) {
	movies := make([]catalogmodel.Movie, catalogmodel.PageSize)
	for i := range movies {
		id := catalogmodel.MovieID(page, i)
		movies[i] = catalogmovie(id)
	}
	return movies, nil
}

func (fakeCatalog) GetEntry(_ context.Context, id int) (*catalogmodel.Movie, error) {
	m := catalogmovie(id)
	return &m, nil
}

func catalogmovie(id int) catalogmodel.Movie {
	return catalogmodel.Movie{ID: id, Title: fmt.Sprintf("Movie %d", id), Year: 1990 + id%30}
}

// fakeReviews reproduces the review service contract in memory: reviews
// scoped per token, patch-by-id, and merge-or-create on upsert.
type fakeReviews struct {
	nextID  int64
	byToken map[string][]reviewmodel.Review

	updateErr error
	upsertErr error
}

func newFakeReviews() *fakeReviews {
	return &fakeReviews{byToken: map[string][]reviewmodel.Review{}}
}

func (f *fakeReviews) ListMine(_ context.Context, token string) ([]reviewmodel.Review, error) {
	return append([]reviewmodel.Review(nil), f.byToken[token]...), nil
}

func (f *fakeReviews) Update(_ context.Context, token string, id int64, patch reviewmodel.Patch) (*reviewmodel.Review, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	reviews := f.byToken[token]
	for i := range reviews {
		if reviews[i].ID == id {
			reviews[i].Metadata = reviewmodel.Merge(reviews[i].Metadata, patch)
			r := reviews[i]
			return &r, nil
		}
	}
	return nil, errors.New("review not found")
}

func (f *fakeReviews) Upsert(_ context.Context, token string, movieID int, movieData reviewmodel.MovieData, patch reviewmodel.Patch) (*reviewmodel.Review, error) {
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	reviews := f.byToken[token]
	for i := range reviews {
		if reviews[i].MovieID == movieID {
			reviews[i].Metadata = reviewmodel.Merge(reviews[i].Metadata, patch)
			r := reviews[i]
			return &r, nil
		}
	}
	f.nextID++
	created := reviewmodel.Review{
		ID:        f.nextID,
		UserID:    reviewmodel.UserID(token),
		MovieID:   movieID,
		MovieData: movieData,
		Metadata:  reviewmodel.Merge(reviewmodel.Metadata{Collections: []string{}}, patch),
	}
	f.byToken[token] = append(reviews, created)
	return &created, nil
}

func newTestController() (*Controller, *fakeReviews) {
	reviews := newFakeReviews()
	return New(fakeCatalog{}, reviews, zap.NewNop()), reviews
}

func TestLoadJoinsCatalogAndReviews(t *testing.T) {
	c, reviews := newTestController()
	ctx := context.Background()

	reviews.byToken["token-1"] = []reviewmodel.Review{
		{ID: 1, UserID: "token-1", MovieID: 2, Metadata: reviewmodel.Metadata{Liked: true, Rating: 5, Collections: []string{"favorites"}}},
	}

	details, err := c.Load(ctx, "token-1", 1)
	require.NoError(t, err)
	require.Len(t, details, catalogmodel.PageSize)
	assert.Equal(t, model.StateReady, c.State("token-1"))

	assert.True(t, details[2].Liked)
	assert.Equal(t, 5, details[2].Rating)
	assert.Equal(t, []string{"favorites"}, details[2].Collections)

	// Untouched movies come back with every field defaulted.
	assert.False(t, details[0].ToWatch)
	assert.Equal(t, 0, details[0].Rating)
	assert.Equal(t, "", details[0].Notes)
	assert.Equal(t, []string{}, details[0].Collections)
}

func TestFirstToggleCreatesSingleBaselineRow(t *testing.T) {
	c, reviews := newTestController()
	ctx := context.Background()

	_, err := c.Load(ctx, "token-1", 2)
	require.NoError(t, err)

	details, err := c.ToggleFlag(ctx, "token-1", 3, model.FlagToWatch)
	require.NoError(t, err)

	stored := reviews.byToken["token-1"]
	require.Len(t, stored, 1)
	assert.Equal(t, catalogmodel.MovieID(2, 3), stored[0].MovieID)
	assert.Equal(t, "Movie 28", stored[0].MovieData.Title)
	assert.True(t, stored[0].Metadata.ToWatch)
	assert.False(t, stored[0].Metadata.Watched)
	assert.False(t, stored[0].Metadata.Liked)
	assert.Equal(t, 0, stored[0].Metadata.Rating)
	assert.Equal(t, []string{}, stored[0].Metadata.Collections)

	assert.True(t, details[3].ToWatch)
}

func TestSecondToggleUpdatesTheSameRow(t *testing.T) {
	c, reviews := newTestController()
	ctx := context.Background()

	_, err := c.Load(ctx, "token-1", 1)
	require.NoError(t, err)

	_, err = c.ToggleFlag(ctx, "token-1", 4, model.FlagToWatch)
	require.NoError(t, err)
	details, err := c.ToggleFlag(ctx, "token-1", 4, model.FlagWatched)
	require.NoError(t, err)

	stored := reviews.byToken["token-1"]
	require.Len(t, stored, 1)
	assert.True(t, stored[0].Metadata.ToWatch)
	assert.True(t, stored[0].Metadata.Watched)
	assert.True(t, details[4].ToWatch)
	assert.True(t, details[4].Watched)
}

func TestToggleTwiceFlipsBack(t *testing.T) {
	c, reviews := newTestController()
	ctx := context.Background()

	_, err := c.Load(ctx, "token-1", 1)
	require.NoError(t, err)

	_, err = c.ToggleFlag(ctx, "token-1", 0, model.FlagLiked)
	require.NoError(t, err)
	details, err := c.ToggleFlag(ctx, "token-1", 0, model.FlagLiked)
	require.NoError(t, err)

	stored := reviews.byToken["token-1"]
	require.Len(t, stored, 1)
	assert.False(t, stored[0].Metadata.Liked)
	assert.False(t, details[0].Liked)
}

func TestSetRatingAndNotes(t *testing.T) {
	c, reviews := newTestController()
	ctx := context.Background()

	_, err := c.Load(ctx, "token-1", 1)
	require.NoError(t, err)

	_, err = c.SetRating(ctx, "token-1", 7, 4)
	require.NoError(t, err)
	details, err := c.SetNotes(ctx, "token-1", 7, "rewatch with commentary")
	require.NoError(t, err)

	stored := reviews.byToken["token-1"]
	require.Len(t, stored, 1)
	assert.Equal(t, 4, stored[0].Metadata.Rating)
	assert.Equal(t, "rewatch with commentary", stored[0].Metadata.Notes)
	assert.Equal(t, 4, details[7].Rating)
	assert.Equal(t, "rewatch with commentary", details[7].Notes)
}

func TestCollectionMembership(t *testing.T) {
	c, reviews := newTestController()
	ctx := context.Background()

	_, err := c.Load(ctx, "token-1", 1)
	require.NoError(t, err)

	_, err = c.AddToCollection(ctx, "token-1", 5, "Westerns")
	require.NoError(t, err)
	_, err = c.AddToCollection(ctx, "token-1", 5, "b-movies")
	require.NoError(t, err)
	_, err = c.AddToCollection(ctx, "token-1", 9, "b-movies")
	require.NoError(t, err)

	assert.Equal(t, []string{"b-movies", "Westerns"}, c.Collections("token-1"))
	assert.Len(t, c.CollectionMovies("token-1", "b-movies"), 2)

	details, err := c.RemoveFromCollection(ctx, "token-1", 5, "Westerns")
	require.NoError(t, err)
	assert.Equal(t, []string{"b-movies"}, details[5].Collections)
	assert.Empty(t, c.CollectionMovies("token-1", "Westerns"))

	stored := reviews.byToken["token-1"]
	require.Len(t, stored, 2)
}

func TestRemoveFromCollectionWithoutReviewIsNoOp(t *testing.T) {
	c, reviews := newTestController()
	ctx := context.Background()

	_, err := c.Load(ctx, "token-1", 1)
	require.NoError(t, err)

	_, err = c.RemoveFromCollection(ctx, "token-1", 5, "Westerns")
	require.NoError(t, err)
	assert.Empty(t, reviews.byToken["token-1"])
}

func TestAggregatesReadTheCachedList(t *testing.T) {
	c, reviews := newTestController()
	ctx := context.Background()

	reviews.byToken["token-1"] = []reviewmodel.Review{
		{ID: 1, MovieID: 1, Metadata: reviewmodel.Metadata{ToWatch: true, Rating: 3}},
		{ID: 2, MovieID: 2, Metadata: reviewmodel.Metadata{Watched: true, Notes: "great"}},
		{ID: 3, MovieID: 3, Metadata: reviewmodel.Metadata{Watched: true, Rating: 3}},
	}
	_, err := c.LoadReviews(ctx, "token-1")
	require.NoError(t, err)

	assert.Len(t, c.FlaggedMovies("token-1", model.FlagToWatch), 1)
	assert.Len(t, c.FlaggedMovies("token-1", model.FlagWatched), 2)
	assert.Empty(t, c.FlaggedMovies("token-1", model.FlagLiked))
	assert.Len(t, c.RatedMovies("token-1", 3), 2)
	assert.Len(t, c.MoviesWithNotes("token-1"), 1)
}

func TestFailedWriteSurfacesErrorAndReloads(t *testing.T) {
	c, reviews := newTestController()
	ctx := context.Background()

	_, err := c.Load(ctx, "token-1", 1)
	require.NoError(t, err)
	reviews.upsertErr = errors.New("review service down")

	details, err := c.ToggleFlag(ctx, "token-1", 6, model.FlagWatched)
	assert.Error(t, err)
	// The reload reflects the store, where nothing was written.
	assert.False(t, details[6].Watched)
	assert.Empty(t, reviews.byToken["token-1"])
	assert.Equal(t, model.StateReady, c.State("token-1"))
}

func TestViewsAreIsolatedPerCredential(t *testing.T) {
	c, reviews := newTestController()
	ctx := context.Background()

	_, err := c.Load(ctx, "token-1", 1)
	require.NoError(t, err)
	_, err = c.Load(ctx, "token-2", 1)
	require.NoError(t, err)

	_, err = c.ToggleFlag(ctx, "token-1", 0, model.FlagLiked)
	require.NoError(t, err)

	require.Len(t, reviews.byToken["token-1"], 1)
	assert.Empty(t, reviews.byToken["token-2"])

	details, err := c.Load(ctx, "token-2", 1)
	require.NoError(t, err)
	assert.False(t, details[0].Liked)
}
