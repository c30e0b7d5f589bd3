package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soylemez/jumboboxd/pkg/discovery"
)

func TestRegisterAndResolve(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	_, err := r.ServiceAddresses(ctx, "review")
	assert.ErrorIs(t, err, discovery.ErrNotFound)

	require.NoError(t, r.Register(ctx, "review-1", "review", "localhost:8082"))
	require.NoError(t, r.Register(ctx, "review-2", "review", "localhost:8092"))

	addrs, err := r.ServiceAddresses(ctx, "review")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"localhost:8082", "localhost:8092"}, addrs)
}

func TestDeregister(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	require.NoError(t, r.Register(ctx, "review-1", "review", "localhost:8082"))
	require.NoError(t, r.Deregister(ctx, "review-1", "review"))

	_, err := r.ServiceAddresses(ctx, "review")
	assert.ErrorIs(t, err, discovery.ErrNotFound)
}

func TestReportHealthyState(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	assert.Error(t, r.ReportHealthyState("review-1", "review"))
	require.NoError(t, r.Register(ctx, "review-1", "review", "localhost:8082"))
	assert.NoError(t, r.ReportHealthyState("review-1", "review"))
	assert.Error(t, r.ReportHealthyState("review-2", "review"))
}
