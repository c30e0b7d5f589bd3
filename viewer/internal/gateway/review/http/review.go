package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/soylemez/jumboboxd/internal/httputil"
	"github.com/soylemez/jumboboxd/pkg/discovery"
	reviewmodel "github.com/soylemez/jumboboxd/review/pkg/model"
)

// Gateway defines an HTTP gateway for the review service. Every call
// carries the caller's bearer credential; the review service derives the
// user identity from it.
type Gateway struct {
	registry discovery.Registry
}

// New creates a new review service gateway.
func New(registry discovery.Registry) *Gateway {
	return &Gateway{registry}
}

// ListMine returns all reviews owned by the credential's subject.
func (g *Gateway) ListMine(ctx context.Context, token string) ([]reviewmodel.Review, error) {
	var reviews []reviewmodel.Review
	if err := g.do(ctx, token, http.MethodGet, "/api/review", nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// Update merge-patches the review with the given id.
func (g *Gateway) Update(ctx context.Context, token string, id int64, patch reviewmodel.Patch) (*reviewmodel.Review, error) {
	var updated reviewmodel.Review
	if err := g.do(ctx, token, http.MethodPatch, fmt.Sprintf("/api/review?id=%d", id), patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

type upsertRequest struct {
	MovieID   int                   `json:"movieId"`
	MovieData reviewmodel.MovieData `json:"movieData"`
	Metadata  reviewmodel.Patch     `json:"metadata"`
}

// Upsert merge-patches the caller's review for the movie, creating it
// from the default document when absent.
func (g *Gateway) Upsert(ctx context.Context, token string, movieID int, movieData reviewmodel.MovieData, patch reviewmodel.Patch) (*reviewmodel.Review, error) {
	var res reviewmodel.Review
	body := upsertRequest{MovieID: movieID, MovieData: movieData, Metadata: patch}
	if err := g.do(ctx, token, http.MethodPut, "/api/review", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (g *Gateway) do(ctx context.Context, token, method, path string, body, out interface{}) error {
	addr, err := httputil.ServiceAddress(ctx, "review", g.registry)
	if err != nil {
		return err
	}
	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, fmt.Sprintf("http://%s%s", addr, path), &payload)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("review service returned status %v", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
