package extract

import (
	"errors"
	"strings"
	"testing"

	"github.com/baditaflorin/go_pixel_normalization/internal/core/domain"
)

// nopLogger discards all records; core tests do not assert on logging.
type nopLogger struct{}

func (nopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}
func (nopLogger) Close() error                                   { return nil }

// memorySource is an in-memory stand-in for an externally parsed dataset
// record.
type memorySource struct {
	pixels domain.PixelArray
	err    error
}

func (s *memorySource) PixelData() (domain.PixelArray, error) {
	return s.pixels, s.err
}

func mustArray(t *testing.T, shape []int, data []float64) domain.PixelArray {
	t.Helper()
	p, err := domain.NewPixelArray(shape, data)
	if err != nil {
		t.Fatalf("NewPixelArray(%v, %v): %v", shape, data, err)
	}
	return p
}

func TestExtractSequences(t *testing.T) {
	arr1 := mustArray(t, []int{1, 2}, []float64{1, 2})
	arr2 := mustArray(t, []int{1, 2}, []float64{3, 4})
	frame := domain.Frame{Name: "f", Pixels: arr2}
	source := &memorySource{pixels: arr1}

	tests := []struct {
		name     string
		input    interface{}
		expected []domain.PixelArray
	}{
		{
			name:     "raw array slice preserves order and content",
			input:    []domain.PixelArray{arr1, arr2},
			expected: []domain.PixelArray{arr1, arr2},
		},
		{
			name:     "frame slice unwraps pixels",
			input:    []domain.Frame{frame, {Pixels: arr1}},
			expected: []domain.PixelArray{arr2, arr1},
		},
		{
			name: "image slice resolves every kind including datasets",
			input: []domain.Image{
				domain.ImageFromPixels(arr1),
				domain.ImageFromFrame(frame),
				domain.ImageFromDataset(source),
			},
			expected: []domain.PixelArray{arr1, arr2, arr1},
		},
		{
			name:     "mixed sequence",
			input:    []interface{}{arr1, frame, source, domain.ImageFromPixels(arr2)},
			expected: []domain.PixelArray{arr1, arr2, arr1, arr2},
		},
	}

	ex := NewExtractor(nopLogger{})
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pixels, err := ex.Extract(tc.input, false)
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if len(pixels) != len(tc.expected) {
				t.Fatalf("expected %d arrays, got %d", len(tc.expected), len(pixels))
			}
			for i, want := range tc.expected {
				got := pixels[i]
				if !got.SameShape(want) {
					t.Errorf("array %d: expected shape %v, got %v", i, want.Shape, got.Shape)
					continue
				}
				for j := range want.Data {
					if got.Data[j] != want.Data[j] {
						t.Errorf("array %d pixel %d: expected %v, got %v", i, j, want.Data[j], got.Data[j])
					}
				}
			}
		})
	}
}

func TestExtractSingleInputs(t *testing.T) {
	arr := mustArray(t, []int{2, 2}, []float64{1, 2, 3, 4})
	frame := domain.Frame{Name: "f", Pixels: arr}

	tests := []struct {
		name  string
		input interface{}
	}{
		{name: "raw array", input: arr},
		{name: "frame", input: frame},
		{name: "raw image", input: domain.ImageFromPixels(arr)},
		{name: "frame image", input: domain.ImageFromFrame(frame)},
	}

	ex := NewExtractor(nopLogger{})
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pixels, err := ex.Extract(tc.input, false)
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if len(pixels) != 1 {
				t.Fatalf("expected a one-element sequence, got %d", len(pixels))
			}
			if &pixels[0].Data[0] != &arr.Data[0] {
				t.Errorf("expected a shallow reference to the original array, got a copy")
			}
		})
	}
}

func TestExtractRejectsUnsupportedInputs(t *testing.T) {
	arr := mustArray(t, []int{1, 2}, []float64{1, 2})
	source := &memorySource{pixels: arr}

	tests := []struct {
		name  string
		input interface{}
	}{
		{name: "unsupported scalar", input: 42},
		{name: "string", input: "pixels"},
		{name: "nil", input: nil},
		{name: "unsupported element in sequence", input: []interface{}{arr, 42}},
		// Dataset records are only accepted inside a sequence.
		{name: "bare dataset source", input: source},
		{name: "bare dataset image", input: domain.ImageFromDataset(source)},
		{name: "zero-value image", input: domain.Image{}},
	}

	ex := NewExtractor(nopLogger{})
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ex.Extract(tc.input, false)
			var typeErr *domain.UnsupportedTypeError
			if !errors.As(err, &typeErr) {
				t.Fatalf("expected UnsupportedTypeError, got %v", err)
			}
			if !strings.Contains(err.Error(), "unknown type of images") {
				t.Errorf("error should name the offending type, got %q", err.Error())
			}
		})
	}
}

func TestExtractDatasetInSequenceOnly(t *testing.T) {
	arr := mustArray(t, []int{1, 2}, []float64{5, 6})
	source := &memorySource{pixels: arr}
	ex := NewExtractor(nopLogger{})

	// Inside a sequence the dataset resolves.
	pixels, err := ex.Extract([]interface{}{source}, false)
	if err != nil {
		t.Fatalf("Extract(sequence): %v", err)
	}
	if len(pixels) != 1 || pixels[0].Data[1] != 6 {
		t.Errorf("expected dataset pixels [5 6], got %v", pixels)
	}

	// Bare, the same record is rejected.
	if _, err := ex.Extract(source, false); err == nil {
		t.Errorf("expected a bare dataset record to be rejected")
	}
}

func TestExtractPropagatesDatasetError(t *testing.T) {
	wantErr := errors.New("pixel data unavailable")
	source := &memorySource{err: wantErr}
	ex := NewExtractor(nopLogger{})

	_, err := ex.Extract([]interface{}{source}, false)
	if !errors.Is(err, wantErr) {
		t.Errorf("expected dataset error to propagate, got %v", err)
	}
}

func TestExtractTimingDoesNotAffectResult(t *testing.T) {
	arr := mustArray(t, []int{1, 2}, []float64{1, 2})
	ex := NewExtractor(nopLogger{})

	plain, err := ex.Extract(arr, false)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	timed, err := ex.Extract(arr, true)
	if err != nil {
		t.Fatalf("Extract with timing: %v", err)
	}
	if len(plain) != len(timed) || &plain[0].Data[0] != &timed[0].Data[0] {
		t.Errorf("timing changed the extraction result")
	}
}
