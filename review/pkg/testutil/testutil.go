package testutil

import (
	"go.uber.org/zap"

	"github.com/soylemez/jumboboxd/review/internal/controller/review"
	"github.com/soylemez/jumboboxd/review/internal/repository/memory"
)

// NewTestReviewController creates a review controller backed by an
// in-memory repository, to be used in tests.
func NewTestReviewController() *review.Controller {
	r := memory.New()
	return review.New(r, nil, nil, zap.NewNop())
}
