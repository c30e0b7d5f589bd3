package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/soylemez/jumboboxd/internal/httputil"
	"github.com/soylemez/jumboboxd/pkg/discovery"
	"github.com/soylemez/jumboboxd/review/internal/gateway"
	"github.com/soylemez/jumboboxd/review/pkg/model"
)

// Gateway defines an HTTP gateway for the auth service.
type Gateway struct {
	registry discovery.Registry
}

// New creates a new auth service gateway.
func New(registry discovery.Registry) *Gateway {
	return &Gateway{registry}
}

// ResolveIdentity validates the bearer credential with the auth service
// and returns the stable subject id it is bound to.
func (g *Gateway) ResolveIdentity(ctx context.Context, token string) (model.UserID, error) {
	if token == "" {
		return "", gateway.ErrUnauthenticated
	}
	addr, err := httputil.ServiceAddress(ctx, "auth", g.registry)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("http://%s/api/identity", addr), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized {
		return "", gateway.ErrUnauthenticated
	}
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("auth service returned status %v", resp.StatusCode)
	}
	var body struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	return model.UserID(body.UserID), nil
}
