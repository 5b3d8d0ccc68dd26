package domain

import (
	"fmt"
	"strings"
)

// PixelArray holds one image's intensity samples in row-major order.
// Shape describes the dimensions (2D grayscale or higher); Data is the
// flattened sample buffer. The library never mutates a PixelArray it
// receives; normalization always returns a fresh copy.
type PixelArray struct {
	Shape []int
	Data  []float64
}

// NewPixelArray creates a PixelArray after validating that the flat data
// length matches the product of the shape dimensions. Empty shapes and
// zero-length dimensions are rejected.
func NewPixelArray(shape []int, data []float64) (PixelArray, error) {
	if len(shape) == 0 {
		return PixelArray{}, fmt.Errorf("pixel array shape must have at least one dimension")
	}
	n := 1
	for _, dim := range shape {
		if dim <= 0 {
			return PixelArray{}, fmt.Errorf("pixel array dimension must be positive, got %d", dim)
		}
		n *= dim
	}
	if len(data) != n {
		return PixelArray{}, fmt.Errorf("pixel array data length %d does not match shape %v (want %d)", len(data), shape, n)
	}
	return PixelArray{Shape: shape, Data: data}, nil
}

// PixelArrayFromUint16 converts 16-bit intensity samples, the common sample
// width of externally parsed medical image datasets, into a PixelArray.
func PixelArrayFromUint16(shape []int, samples []uint16) (PixelArray, error) {
	data := make([]float64, len(samples))
	for i, s := range samples {
		data[i] = float64(s)
	}
	return NewPixelArray(shape, data)
}

// NumPixels returns the number of samples in the array.
func (p PixelArray) NumPixels() int {
	return len(p.Data)
}

// Clone returns a deep copy of the array.
func (p PixelArray) Clone() PixelArray {
	shape := make([]int, len(p.Shape))
	copy(shape, p.Shape)
	data := make([]float64, len(p.Data))
	copy(data, p.Data)
	return PixelArray{Shape: shape, Data: data}
}

// SameShape reports whether two arrays have identical dimensions.
func (p PixelArray) SameShape(q PixelArray) bool {
	if len(p.Shape) != len(q.Shape) {
		return false
	}
	for i := range p.Shape {
		if p.Shape[i] != q.Shape[i] {
			return false
		}
	}
	return true
}

// Frame is a lightweight record pairing a pixel array with a free-form name,
// the wrapper shape produced by upstream slicing/selection stages.
type Frame struct {
	Name   string
	Pixels PixelArray
}

// PixelSource is implemented by opaque dataset records (for example an
// adapter over an externally parsed DICOM dataset) that can yield their
// pixel array on demand. This library never parses any file format itself.
type PixelSource interface {
	PixelData() (PixelArray, error)
}

type imageKind int

const (
	kindInvalid imageKind = iota
	kindRaw
	kindFrame
	kindDataset
)

func (k imageKind) String() string {
	switch k {
	case kindRaw:
		return "raw"
	case kindFrame:
		return "frame"
	case kindDataset:
		return "dataset"
	default:
		return "invalid"
	}
}

// Image is a tagged union over the three accepted input shapes: a raw pixel
// array, a frame wrapper, or an opaque dataset record. Use the constructors;
// the zero value is invalid and fails resolution.
type Image struct {
	kind    imageKind
	pixels  PixelArray
	dataset PixelSource
}

// ImageFromPixels wraps a raw pixel array.
func ImageFromPixels(p PixelArray) Image {
	return Image{kind: kindRaw, pixels: p}
}

// ImageFromFrame wraps a frame, keeping only its pixel array.
func ImageFromFrame(f Frame) Image {
	return Image{kind: kindFrame, pixels: f.Pixels}
}

// ImageFromDataset wraps an opaque dataset record.
func ImageFromDataset(ds PixelSource) Image {
	return Image{kind: kindDataset, dataset: ds}
}

// IsDataset reports whether the image is backed by a dataset record.
func (im Image) IsDataset() bool {
	return im.kind == kindDataset
}

// Resolve yields the image's pixel array. Raw and frame images return their
// array directly (no copy); dataset images invoke the source's accessor.
func (im Image) Resolve() (PixelArray, error) {
	switch im.kind {
	case kindRaw, kindFrame:
		return im.pixels, nil
	case kindDataset:
		return im.dataset.PixelData()
	default:
		return PixelArray{}, &UnsupportedTypeError{Value: im}
	}
}

// Kind identifies a normalization algorithm.
type Kind int

const (
	// KindUnknown is the zero value and never dispatches.
	KindUnknown Kind = iota
	// KindMinMax rescales values linearly into [0, bins-1].
	KindMinMax
)

// String returns the canonical algorithm name.
func (k Kind) String() string {
	switch k {
	case KindMinMax:
		return "minmax"
	default:
		return "unknown"
	}
}

// ParseKind resolves a normalization-type name to its Kind. Lookup is
// case-insensitive and accepts the aliases "minmax" and "min-max".
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(name) {
	case "minmax", "min-max":
		return KindMinMax, nil
	default:
		return KindUnknown, &InvalidNormalizationTypeError{Name: name}
	}
}

// ImageStats is the intended payload of Result's reserved auxiliary slot:
// per-image extrema recorded during normalization. Not populated yet.
type ImageStats struct {
	Min float64
	Max float64
}

// Result holds the outcome of a normalization run. Stats is a reserved
// extension slot and is always nil in the current contract; callers must not
// depend on it being populated.
type Result struct {
	Pixels []PixelArray
	Stats  []ImageStats
}
