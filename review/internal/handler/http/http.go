package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/uber-go/tally/v4"
	"go.uber.org/zap"

	"github.com/soylemez/jumboboxd/review/internal/controller/review"
	"github.com/soylemez/jumboboxd/review/internal/gateway"
	"github.com/soylemez/jumboboxd/review/pkg/model"
)

type identityGateway interface {
	ResolveIdentity(ctx context.Context, token string) (model.UserID, error)
}

// Handler defines the review service HTTP handler.
type Handler struct {
	ctrl     *review.Controller
	identity identityGateway
	validate *validator.Validate
	scope    tally.Scope
	logger   *zap.Logger
}

// New creates a new review service HTTP handler.
func New(ctrl *review.Controller, identity identityGateway, scope tally.Scope, logger *zap.Logger) *Handler {
	return &Handler{
		ctrl:     ctrl,
		identity: identity,
		validate: validator.New(),
		scope:    scope,
		logger:   logger,
	}
}

// Handle serves /api/review for GET, POST, PATCH and PUT.
func (h *Handler) Handle(w http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodGet:
		h.handleList(w, req)
	case http.MethodPost:
		h.handleCreate(w, req)
	case http.MethodPatch:
		h.handleUpdate(w, req)
	case http.MethodPut:
		h.handleUpsert(w, req)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleList returns the caller's reviews when a bearer credential is
// presented, and every stored review when none is. The open variant backs
// the aggregate notes/collections view.
func (h *Handler) handleList(w http.ResponseWriter, req *http.Request) {
	defer h.count("list")()
	ctx := req.Context()

	token := bearerToken(req)
	if token == "" {
		reviews, err := h.ctrl.ListAll(ctx)
		if err != nil {
			h.respondError(w, "list", err)
			return
		}
		h.respond(w, http.StatusOK, reviews)
		return
	}

	userID, err := h.identity.ResolveIdentity(ctx, token)
	if err != nil {
		h.respondError(w, "list", err)
		return
	}
	reviews, err := h.ctrl.ListByUser(ctx, userID)
	if err != nil {
		h.respondError(w, "list", err)
		return
	}
	h.respond(w, http.StatusOK, reviews)
}

type createRequest struct {
	MovieID   int             `json:"movieId"`
	MovieData model.MovieData `json:"movieData"`
	Metadata  model.Metadata  `json:"metadata"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, req *http.Request) {
	defer h.count("create")()
	ctx := req.Context()

	userID, err := h.identity.ResolveIdentity(ctx, bearerToken(req))
	if err != nil {
		h.respondError(w, "create", err)
		return
	}
	var body createRequest
	if err := decodeStrict(req, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(body.Metadata); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	created, err := h.ctrl.Create(ctx, userID, body.MovieID, body.MovieData, body.Metadata)
	if err != nil {
		h.respondError(w, "create", err)
		return
	}
	h.respond(w, http.StatusCreated, created)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, req *http.Request) {
	defer h.count("update")()
	ctx := req.Context()

	userID, err := h.identity.ResolveIdentity(ctx, bearerToken(req))
	if err != nil {
		h.respondError(w, "update", err)
		return
	}
	id, err := strconv.ParseInt(req.FormValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "no id provided", http.StatusBadRequest)
		return
	}
	var patch model.Patch
	if err := decodeStrict(req, &patch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(patch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	updated, err := h.ctrl.UpdateByID(ctx, id, userID, patch)
	if err != nil {
		h.respondError(w, "update", err)
		return
	}
	h.respond(w, http.StatusOK, updated)
}

type upsertRequest struct {
	MovieID   int             `json:"movieId"`
	MovieData model.MovieData `json:"movieData"`
	Metadata  model.Patch     `json:"metadata"`
}

func (h *Handler) handleUpsert(w http.ResponseWriter, req *http.Request) {
	defer h.count("upsert")()
	ctx := req.Context()

	userID, err := h.identity.ResolveIdentity(ctx, bearerToken(req))
	if err != nil {
		h.respondError(w, "upsert", err)
		return
	}
	var body upsertRequest
	if err := decodeStrict(req, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(body.Metadata); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := h.ctrl.Upsert(ctx, userID, body.MovieID, body.MovieData, body.Metadata)
	if err != nil {
		h.respondError(w, "upsert", err)
		return
	}
	h.respond(w, http.StatusOK, res)
}

func (h *Handler) respond(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, review.ErrNotFound):
		http.Error(w, "review not found", http.StatusNotFound)
	case errors.Is(err, gateway.ErrUnauthenticated):
		w.WriteHeader(http.StatusUnauthorized)
	default:
		h.logger.Error("Review operation failure", zap.String("operation", op), zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (h *Handler) count(op string) func() {
	counter := h.scope.Tagged(map[string]string{"operation": op}).Counter("requests")
	return func() { counter.Inc(1) }
}

// decodeStrict rejects bodies carrying keys outside the target type, so a
// malformed patch is refused instead of persisted.
func decodeStrict(req *http.Request, v interface{}) error {
	dec := json.NewDecoder(req.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func bearerToken(req *http.Request) string {
	header := req.Header.Get("Authorization")
	return strings.TrimPrefix(header, "Bearer ")
}
