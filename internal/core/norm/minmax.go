package norm

import (
	"context"
	"errors"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/baditaflorin/go_pixel_normalization/internal/core/domain"
	"github.com/baditaflorin/go_pixel_normalization/internal/ports"
)

// Config holds configuration for the normalization calculator.
type Config struct {
	// Bins is the number of discrete output levels; normalized values lie
	// in [0, Bins-1].
	Bins int
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		Bins: 256,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.Bins <= 1 {
		return errors.New("bins must be greater than 1")
	}
	return nil
}

// Calculator applies normalization algorithms to sequences of pixel arrays.
type Calculator struct {
	config Config
	logger ports.Logger
}

// NewCalculator creates a new normalization calculator.
func NewCalculator(config Config, logger ports.Logger) (*Calculator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Calculator{
		config: config,
		logger: logger,
	}, nil
}

// minMaxRescale rescales one array linearly so its minimum maps to 0 and its
// maximum to bins-1. The input is never mutated; a fresh copy is returned
// with the same shape.
//
// A constant-valued array divides by zero here and comes back all-NaN. That
// degeneracy is left unguarded so callers can detect it; see the package
// tests for the pinned behavior.
func minMaxRescale(p domain.PixelArray, bins int) domain.PixelArray {
	out := p.Clone()
	minVal := floats.Min(out.Data)
	maxVal := floats.Max(out.Data)

	floats.AddConst(-minVal, out.Data)
	floats.Scale(1.0/(maxVal-minVal), out.Data)
	floats.Scale(float64(bins-1), out.Data)

	return out
}

// MinMax applies min-max rescaling independently to each array in the input
// sequence, preserving order. The second return value is a reserved
// auxiliary slot for per-image statistics and is currently always nil.
func (c *Calculator) MinMax(ctx context.Context, pixels []domain.PixelArray, timing bool) ([]domain.PixelArray, []domain.ImageStats, error) {
	t0 := time.Now()

	select {
	case <-ctx.Done():
		c.logger.Error("Normalization cancelled", "error", ctx.Err())
		return nil, nil, ctx.Err()
	default:
		// continue
	}

	normalized := make([]domain.PixelArray, 0, len(pixels))
	for _, p := range pixels {
		normalized = append(normalized, minMaxRescale(p, c.config.Bins))
	}

	if timing {
		c.logger.Info("minmax", "elapsed", time.Since(t0))
	}
	return normalized, nil, nil
}

// Apply dispatches to the algorithm identified by kind. Unknown kinds fail
// with *domain.InvalidNormalizationTypeError.
func (c *Calculator) Apply(ctx context.Context, kind domain.Kind, pixels []domain.PixelArray, timing bool) ([]domain.PixelArray, []domain.ImageStats, error) {
	switch kind {
	case domain.KindMinMax:
		return c.MinMax(ctx, pixels, timing)
	default:
		return nil, nil, &domain.InvalidNormalizationTypeError{Name: kind.String()}
	}
}
