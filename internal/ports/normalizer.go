package ports

import (
	"context"

	"github.com/baditaflorin/go_pixel_normalization/internal/core/domain"
)

// Normalizer defines the interface for applying a normalization algorithm to
// a sequence of pixel arrays. The second return value is a reserved
// auxiliary slot (per-image statistics) and is currently always nil.
type Normalizer interface {
	Apply(ctx context.Context, kind domain.Kind, pixels []domain.PixelArray, timing bool) ([]domain.PixelArray, []domain.ImageStats, error)
}
