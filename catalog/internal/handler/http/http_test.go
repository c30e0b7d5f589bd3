package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/soylemez/jumboboxd/catalog/pkg/model"
	"github.com/soylemez/jumboboxd/catalog/pkg/testutil"
)

func newTestHandler() *Handler {
	movies := make([]model.Movie, 30)
	for i := range movies {
		movies[i] = model.Movie{ID: i, Title: fmt.Sprintf("Movie %d", i), Year: 2000 + i}
	}
	return New(testutil.NewTestCatalogController(movies), zap.NewNop())
}

func TestHandleList(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/list?page=1", nil)
	w := httptest.NewRecorder()
	h.HandleList(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var movies []model.Movie
	require.NoError(t, json.NewDecoder(w.Body).Decode(&movies))
	require.Len(t, movies, model.PageSize)
	assert.Equal(t, 0, movies[0].ID)

	req = httptest.NewRequest(http.MethodGet, "/api/list?page=2", nil)
	w = httptest.NewRecorder()
	h.HandleList(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&movies))
	require.Len(t, movies, 5)
	assert.Equal(t, model.PageSize, movies[0].ID)
}

func TestHandleListRequiresPage(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/list", nil)
	w := httptest.NewRecorder()
	h.HandleList(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleMovie(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/movie?id=27", nil)
	w := httptest.NewRecorder()
	h.HandleMovie(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var movie model.Movie
	require.NoError(t, json.NewDecoder(w.Body).Decode(&movie))
	assert.Equal(t, 27, movie.ID)
	assert.Equal(t, "Movie 27", movie.Title)
}

func TestHandleMovieRequiresID(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/movie", nil)
	w := httptest.NewRecorder()
	h.HandleMovie(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
