package extract

import (
	"time"

	"github.com/baditaflorin/go_pixel_normalization/internal/core/domain"
	"github.com/baditaflorin/go_pixel_normalization/internal/ports"
)

// Extractor flattens heterogeneous image inputs into a uniform sequence of
// pixel arrays. It accepts a single image-like value or a sequence of them;
// see Extract for the recognized shapes.
type Extractor struct {
	logger ports.Logger
}

// NewExtractor creates a new pixel extractor.
func NewExtractor(logger ports.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract resolves the input into a newly constructed []domain.PixelArray
// holding shallow references to the original arrays. Recognized inputs:
//
//   - []domain.Image, []domain.PixelArray, []domain.Frame, or []interface{}
//     (mixed elements of any recognized single shape, including dataset
//     records implementing domain.PixelSource)
//   - a single domain.PixelArray, domain.Frame, or non-dataset domain.Image
//
// A bare dataset record is rejected; dataset-backed inputs are only drawn
// from inside a sequence. Any other value fails with
// *domain.UnsupportedTypeError naming its runtime type.
//
// When timing is enabled, the elapsed duration is logged; the result is
// never affected.
func (e *Extractor) Extract(images interface{}, timing bool) ([]domain.PixelArray, error) {
	t0 := time.Now()

	pixels, err := e.extract(images)
	if err != nil {
		return nil, err
	}

	if timing {
		e.logger.Info("extract_pixels", "elapsed", time.Since(t0))
	}
	return pixels, nil
}

func (e *Extractor) extract(images interface{}) ([]domain.PixelArray, error) {
	switch v := images.(type) {
	case []domain.Image:
		pixels := make([]domain.PixelArray, 0, len(v))
		for _, im := range v {
			p, err := im.Resolve()
			if err != nil {
				return nil, err
			}
			pixels = append(pixels, p)
		}
		return pixels, nil
	case []domain.PixelArray:
		pixels := make([]domain.PixelArray, len(v))
		copy(pixels, v)
		return pixels, nil
	case []domain.Frame:
		pixels := make([]domain.PixelArray, 0, len(v))
		for _, f := range v {
			pixels = append(pixels, f.Pixels)
		}
		return pixels, nil
	case []interface{}:
		pixels := make([]domain.PixelArray, 0, len(v))
		for _, el := range v {
			p, err := extractElement(el)
			if err != nil {
				return nil, err
			}
			pixels = append(pixels, p)
		}
		return pixels, nil
	case domain.PixelArray:
		return []domain.PixelArray{v}, nil
	case domain.Frame:
		return []domain.PixelArray{v.Pixels}, nil
	case domain.Image:
		// Bare dataset images are rejected; datasets are only accepted
		// inside a sequence.
		if v.IsDataset() {
			return nil, &domain.UnsupportedTypeError{Value: v}
		}
		p, err := v.Resolve()
		if err != nil {
			return nil, err
		}
		return []domain.PixelArray{p}, nil
	default:
		return nil, &domain.UnsupportedTypeError{Value: images}
	}
}

// extractElement resolves one element of a mixed sequence. Unlike the single
// input path, dataset records are accepted here.
func extractElement(el interface{}) (domain.PixelArray, error) {
	switch v := el.(type) {
	case domain.PixelArray:
		return v, nil
	case domain.Frame:
		return v.Pixels, nil
	case domain.Image:
		return v.Resolve()
	case domain.PixelSource:
		return v.PixelData()
	default:
		return domain.PixelArray{}, &domain.UnsupportedTypeError{Value: el}
	}
}
