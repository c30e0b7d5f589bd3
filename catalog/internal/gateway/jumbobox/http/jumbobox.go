package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/soylemez/jumboboxd/catalog/internal/gateway"
	"github.com/soylemez/jumboboxd/catalog/pkg/model"
)

// Gateway defines an HTTP gateway for the externally hosted movie catalog.
type Gateway struct {
	baseURL string
}

// New creates a new catalog gateway for the given upstream base URL.
func New(baseURL string) *Gateway {
	return &Gateway{baseURL: baseURL}
}

// GetPage returns one page of catalog entries from the upstream catalog.
func (g *Gateway) GetPage(ctx context.Context, page int) ([]model.Movie, error) {
	var movies []model.Movie
	if err := g.get(ctx, fmt.Sprintf("%s/api/list?page=%d", g.baseURL, page), &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// GetEntry returns a single catalog entry, including its description.
func (g *Gateway) GetEntry(ctx context.Context, id int) (*model.Movie, error) {
	var movie model.Movie
	if err := g.get(ctx, fmt.Sprintf("%s/api/movie?id=%d", g.baseURL, id), &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

func (g *Gateway) get(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", gateway.ErrUpstream, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("%w: status %v", gateway.ErrUpstream, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
