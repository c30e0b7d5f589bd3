package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/soylemez/jumboboxd/viewer/internal/controller/viewer"
	"github.com/soylemez/jumboboxd/viewer/pkg/model"
)

// Handler defines the viewer HTTP handler. Mutation failures are logged
// and the last derived view is served anyway: the optimistic local state
// stays whatever the last successful reconciliation produced, with no
// error surfaced to the caller.
type Handler struct {
	ctrl   *viewer.Controller
	logger *zap.Logger
}

// New creates a new viewer HTTP handler.
func New(ctrl *viewer.Controller, logger *zap.Logger) *Handler {
	return &Handler{ctrl: ctrl, logger: logger}
}

// HandleView serves GET /view?page=N.
func (h *Handler) HandleView(w http.ResponseWriter, req *http.Request) {
	page, err := strconv.Atoi(req.FormValue("page"))
	if err != nil {
		http.Error(w, "no page provided", http.StatusBadRequest)
		return
	}
	details, err := h.ctrl.Load(req.Context(), bearerToken(req), page)
	if err != nil {
		h.logger.Error("Failed to load view", zap.Int("page", page), zap.Error(err))
	}
	h.respond(w, details)
}

type toggleRequest struct {
	Index int        `json:"index"`
	Flag  model.Flag `json:"flag"`
}

// HandleToggle serves POST /view/toggle.
func (h *Handler) HandleToggle(w http.ResponseWriter, req *http.Request) {
	var body toggleRequest
	if !h.decode(w, req, &body) {
		return
	}
	details, err := h.ctrl.ToggleFlag(req.Context(), bearerToken(req), body.Index, body.Flag)
	if err != nil {
		h.logger.Error("Failed to toggle flag", zap.String("flag", string(body.Flag)), zap.Error(err))
	}
	h.respond(w, details)
}

type ratingRequest struct {
	MovieID int `json:"movieId"`
	Rating  int `json:"rating"`
}

// HandleRating serves POST /view/rating.
func (h *Handler) HandleRating(w http.ResponseWriter, req *http.Request) {
	var body ratingRequest
	if !h.decode(w, req, &body) {
		return
	}
	details, err := h.ctrl.SetRating(req.Context(), bearerToken(req), body.MovieID, body.Rating)
	if err != nil {
		h.logger.Error("Failed to set rating", zap.Int("movieId", body.MovieID), zap.Error(err))
	}
	h.respond(w, details)
}

type notesRequest struct {
	MovieID int    `json:"movieId"`
	Notes   string `json:"notes"`
}

// HandleNotes serves POST /view/notes.
func (h *Handler) HandleNotes(w http.ResponseWriter, req *http.Request) {
	var body notesRequest
	if !h.decode(w, req, &body) {
		return
	}
	details, err := h.ctrl.SetNotes(req.Context(), bearerToken(req), body.MovieID, body.Notes)
	if err != nil {
		h.logger.Error("Failed to set notes", zap.Int("movieId", body.MovieID), zap.Error(err))
	}
	h.respond(w, details)
}

type collectionRequest struct {
	MovieID int    `json:"movieId"`
	Name    string `json:"name"`
}

// HandleCollectionAdd serves POST /view/collections/add.
func (h *Handler) HandleCollectionAdd(w http.ResponseWriter, req *http.Request) {
	var body collectionRequest
	if !h.decode(w, req, &body) {
		return
	}
	details, err := h.ctrl.AddToCollection(req.Context(), bearerToken(req), body.MovieID, body.Name)
	if err != nil {
		h.logger.Error("Failed to add to collection", zap.String("name", body.Name), zap.Error(err))
	}
	h.respond(w, details)
}

// HandleCollectionRemove serves POST /view/collections/remove.
func (h *Handler) HandleCollectionRemove(w http.ResponseWriter, req *http.Request) {
	var body collectionRequest
	if !h.decode(w, req, &body) {
		return
	}
	details, err := h.ctrl.RemoveFromCollection(req.Context(), bearerToken(req), body.MovieID, body.Name)
	if err != nil {
		h.logger.Error("Failed to remove from collection", zap.String("name", body.Name), zap.Error(err))
	}
	h.respond(w, details)
}

// HandleReviews serves GET /view/reviews and the aggregate listings
// derived from it: flagged, rated, noted and collections.
func (h *Handler) HandleReviews(w http.ResponseWriter, req *http.Request) {
	token := bearerToken(req)
	if _, err := h.ctrl.LoadReviews(req.Context(), token); err != nil {
		h.logger.Error("Failed to load reviews", zap.Error(err))
	}
	switch {
	case req.FormValue("flag") != "":
		h.respond(w, h.ctrl.FlaggedMovies(token, model.Flag(req.FormValue("flag"))))
	case req.FormValue("stars") != "":
		stars, err := strconv.Atoi(req.FormValue("stars"))
		if err != nil {
			http.Error(w, "invalid stars", http.StatusBadRequest)
			return
		}
		h.respond(w, h.ctrl.RatedMovies(token, stars))
	case req.FormValue("noted") != "":
		h.respond(w, h.ctrl.MoviesWithNotes(token))
	case req.FormValue("collection") != "":
		h.respond(w, h.ctrl.CollectionMovies(token, req.FormValue("collection")))
	default:
		h.respond(w, h.ctrl.Collections(token))
	}
}

func (h *Handler) decode(w http.ResponseWriter, req *http.Request, v interface{}) bool {
	if req.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func (h *Handler) respond(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func bearerToken(req *http.Request) string {
	return strings.TrimPrefix(req.Header.Get("Authorization"), "Bearer ")
}
