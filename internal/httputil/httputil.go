package httputil

import (
	"context"
	"math/rand"

	"github.com/soylemez/jumboboxd/pkg/discovery"
)

// ServiceAddress resolves a random active address of the given service
// through the registry.
func ServiceAddress(ctx context.Context, serviceName string, registry discovery.Registry) (string, error) {
	addrs, err := registry.ServiceAddresses(ctx, serviceName)
	if err != nil {
		return "", err
	}
	return addrs[rand.Intn(len(addrs))], nil
}
