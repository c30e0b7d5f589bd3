package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/soylemez/jumboboxd/catalog/internal/controller/catalog"
	"github.com/soylemez/jumboboxd/catalog/internal/gateway"
)

// Handler defines the catalog service HTTP handler.
type Handler struct {
	ctrl   *catalog.Controller
	logger *zap.Logger
}

// New creates a new catalog service HTTP handler.
func New(ctrl *catalog.Controller, logger *zap.Logger) *Handler {
	return &Handler{ctrl: ctrl, logger: logger}
}

// HandleList serves GET /api/list?page=N.
func (h *Handler) HandleList(w http.ResponseWriter, req *http.Request) {
	page, err := strconv.Atoi(req.FormValue("page"))
	if err != nil {
		http.Error(w, "no page provided", http.StatusBadRequest)
		return
	}
	movies, err := h.ctrl.GetPage(req.Context(), page)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respond(w, movies)
}

// HandleMovie serves GET /api/movie?id=N.
func (h *Handler) HandleMovie(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.Atoi(req.FormValue("id"))
	if err != nil {
		http.Error(w, "no id provided", http.StatusBadRequest)
		return
	}
	movie, err := h.ctrl.GetEntry(req.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respond(w, movie)
}

func (h *Handler) respond(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	if errors.Is(err, gateway.ErrUpstream) {
		h.logger.Error("Upstream catalog failure", zap.Error(err))
		w.WriteHeader(http.StatusBadGateway)
		return
	}
	h.logger.Error("Catalog lookup failure", zap.Error(err))
	w.WriteHeader(http.StatusInternalServerError)
}
