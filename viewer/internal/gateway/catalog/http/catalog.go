package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	catalogmodel "github.com/soylemez/jumboboxd/catalog/pkg/model"
	"github.com/soylemez/jumboboxd/internal/httputil"
	"github.com/soylemez/jumboboxd/pkg/discovery"
)

// Gateway defines an HTTP gateway for the catalog service.
type Gateway struct {
	registry discovery.Registry
}

// New creates a new catalog service gateway.
func New(registry discovery.Registry) *Gateway {
	return &Gateway{registry}
}

// GetPage returns one page of catalog entries.
func (g *Gateway) GetPage(ctx context.Context, page int) ([]catalogmodel.Movie, error) {
	addr, err := httputil.ServiceAddress(ctx, "catalog", g.registry)
	if err != nil {
		return nil, err
	}
	var movies []catalogmodel.Movie
	if err := g.get(ctx, fmt.Sprintf("http://%s/api/list?page=%d", addr, page), &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// GetEntry returns a single catalog entry by movie id.
func (g *Gateway) GetEntry(ctx context.Context, id int) (*catalogmodel.Movie, error) {
	addr, err := httputil.ServiceAddress(ctx, "catalog", g.registry)
	if err != nil {
		return nil, err
	}
	var movie catalogmodel.Movie
	if err := g.get(ctx, fmt.Sprintf("http://%s/api/movie?id=%d", addr, id), &movie); err != nil {
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
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("catalog service returned status %v", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
