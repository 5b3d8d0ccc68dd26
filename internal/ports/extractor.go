package ports

import (
	"github.com/baditaflorin/go_pixel_normalization/internal/core/domain"
)

// PixelExtractor defines the interface for flattening heterogeneous image
// inputs into a uniform sequence of pixel arrays.
type PixelExtractor interface {
	Extract(images interface{}, timing bool) ([]domain.PixelArray, error)
}
