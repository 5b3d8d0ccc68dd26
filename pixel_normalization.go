// pixel_normalization.go
// Package pixelnormalization normalizes pixel intensity arrays extracted
// from medical images into a fixed numeric range using min-max rescaling.
// Inputs may be raw pixel arrays, lightweight frame wrappers, or opaque
// dataset records (for example adapters over externally parsed DICOM
// datasets); extraction flattens them into a uniform sequence before the
// selected algorithm rescales each array into [0, bins-1].
//
// This version uses the functional options pattern to allow configuration of
// parameters like the output bin count, timing instrumentation, and logging.
package pixelnormalization

import (
	"context"
	"time"

	"github.com/baditaflorin/go_pixel_normalization/internal/adapters/logger"
	"github.com/baditaflorin/go_pixel_normalization/internal/core/domain"
	"github.com/baditaflorin/go_pixel_normalization/internal/core/extract"
	"github.com/baditaflorin/go_pixel_normalization/internal/core/norm"
	"github.com/baditaflorin/go_pixel_normalization/internal/ports"
	"github.com/baditaflorin/l"
)

// Aliases exposing the domain vocabulary to callers of the public API.
type (
	// PixelArray holds one image's intensity samples.
	PixelArray = domain.PixelArray
	// Frame is a lightweight wrapper exposing a Pixels field.
	Frame = domain.Frame
	// Image is the tagged union over the three accepted input shapes.
	Image = domain.Image
	// PixelSource is the opaque dataset-record contract.
	PixelSource = domain.PixelSource
	// Result holds normalized arrays plus the reserved statistics slot.
	Result = domain.Result
	// ImageStats is the intended payload of the reserved statistics slot.
	ImageStats = domain.ImageStats
	// UnsupportedTypeError reports an unrecognized input shape.
	UnsupportedTypeError = domain.UnsupportedTypeError
	// InvalidNormalizationTypeError reports an unknown algorithm name.
	InvalidNormalizationTypeError = domain.InvalidNormalizationTypeError
)

// NewPixelArray creates a validated pixel array from a shape and row-major
// flat data.
func NewPixelArray(shape []int, data []float64) (PixelArray, error) {
	return domain.NewPixelArray(shape, data)
}

// PixelArrayFromUint16 converts 16-bit intensity samples into a PixelArray.
func PixelArrayFromUint16(shape []int, samples []uint16) (PixelArray, error) {
	return domain.PixelArrayFromUint16(shape, samples)
}

// ImageFromPixels wraps a raw pixel array as an Image.
func ImageFromPixels(p PixelArray) Image { return domain.ImageFromPixels(p) }

// ImageFromFrame wraps a frame as an Image.
func ImageFromFrame(f Frame) Image { return domain.ImageFromFrame(f) }

// ImageFromDataset wraps an opaque dataset record as an Image.
func ImageFromDataset(ds PixelSource) Image { return domain.ImageFromDataset(ds) }

// PixelNormalizer provides methods to extract pixel arrays from
// heterogeneous image inputs and normalize them.
type PixelNormalizer struct {
	extractor  ports.PixelExtractor
	normalizer ports.Normalizer
	logger     ports.Logger
	timing     bool
}

// Option defines a functional option for configuring PixelNormalizer.
type Option func(*config)

type config struct {
	Bins   int
	Timing bool
	Logger ports.Logger
}

// WithBins sets a custom output bin count. Normalized values lie in
// [0, bins-1]; the default is 256.
func WithBins(bins int) Option {
	return func(cfg *config) {
		cfg.Bins = bins
	}
}

// WithTiming enables elapsed-duration log records for extraction and
// normalization. Diagnostic only; results are never affected.
func WithTiming(timing bool) Option {
	return func(cfg *config) {
		cfg.Timing = timing
	}
}

// WithLogger sets a custom logger.
func WithLogger(lg l.Logger) Option {
	return func(cfg *config) {
		cfg.Logger = logger.FromExisting(lg)
	}
}

// New creates a new PixelNormalizer instance.
func New(opts ...Option) (*PixelNormalizer, error) {
	defaultConfig := norm.DefaultConfig()

	cfg := &config{
		Bins: defaultConfig.Bins,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Logger == nil {
		var err error
		cfg.Logger, err = createDefaultLogger()
		if err != nil {
			return nil, err
		}
	}

	calculator, err := norm.NewCalculator(norm.Config{Bins: cfg.Bins}, cfg.Logger)
	if err != nil {
		return nil, err
	}

	return &PixelNormalizer{
		extractor:  extract.NewExtractor(cfg.Logger),
		normalizer: calculator,
		logger:     cfg.Logger,
		timing:     cfg.Timing,
	}, nil
}

// ExtractPixels flattens a single image-like value or a sequence of them
// into a []PixelArray. Accepted shapes: PixelArray, Frame, Image, and slices
// of those (mixed []interface{} sequences may also contain PixelSource
// dataset records). A bare dataset record is rejected; datasets are only
// accepted inside a sequence.
func (pn *PixelNormalizer) ExtractPixels(images interface{}) ([]PixelArray, error) {
	return pn.extractor.Extract(images, pn.timing)
}

// MinMax rescales each array in the sequence linearly into [0, bins-1],
// preserving order. Result.Stats is reserved and always nil.
func (pn *PixelNormalizer) MinMax(ctx context.Context, pixels []PixelArray) (Result, error) {
	normalized, stats, err := pn.normalizer.Apply(ctx, domain.KindMinMax, pixels, pn.timing)
	if err != nil {
		return Result{}, err
	}
	return Result{Pixels: normalized, Stats: stats}, nil
}

// GetNorm extracts pixel arrays from images and normalizes them with the
// algorithm named by normType ("minmax" and "min-max" are accepted,
// case-insensitively). The extraction step never emits its own timing
// record; only the algorithm and the outer call do.
func (pn *PixelNormalizer) GetNorm(ctx context.Context, images interface{}, normType string) (Result, error) {
	t0 := time.Now()

	pixels, err := pn.extractor.Extract(images, false)
	if err != nil {
		return Result{}, err
	}

	kind, err := domain.ParseKind(normType)
	if err != nil {
		return Result{}, err
	}

	normalized, stats, err := pn.normalizer.Apply(ctx, kind, pixels, pn.timing)
	if err != nil {
		return Result{}, err
	}

	if pn.timing {
		pn.logger.Info("get_norm", "elapsed", time.Since(t0))
	}
	return Result{Pixels: normalized, Stats: stats}, nil
}

// Close releases the underlying logger.
func (pn *PixelNormalizer) Close() error {
	return pn.logger.Close()
}
