package domain

import (
	"errors"
	"testing"
)

func TestNewPixelArray(t *testing.T) {
	tests := []struct {
		name    string
		shape   []int
		data    []float64
		wantErr bool
	}{
		{name: "2D", shape: []int{2, 2}, data: []float64{1, 2, 3, 4}, wantErr: false},
		{name: "3D", shape: []int{2, 1, 2}, data: []float64{1, 2, 3, 4}, wantErr: false},
		{name: "length mismatch", shape: []int{2, 2}, data: []float64{1, 2, 3}, wantErr: true},
		{name: "empty shape", shape: nil, data: []float64{1}, wantErr: true},
		{name: "zero dimension", shape: []int{2, 0}, data: nil, wantErr: true},
		{name: "negative dimension", shape: []int{-1, 4}, data: nil, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPixelArray(tc.shape, tc.data)
			if (err != nil) != tc.wantErr {
				t.Errorf("NewPixelArray(%v): expected error=%v, got %v", tc.shape, tc.wantErr, err)
			}
		})
	}
}

func TestPixelArrayFromUint16(t *testing.T) {
	p, err := PixelArrayFromUint16([]int{1, 3}, []uint16{0, 300, 65535})
	if err != nil {
		t.Fatalf("PixelArrayFromUint16: %v", err)
	}
	expected := []float64{0, 300, 65535}
	for i, want := range expected {
		if p.Data[i] != want {
			t.Errorf("sample %d: expected %v, got %v", i, want, p.Data[i])
		}
	}
}

func TestPixelArrayClone(t *testing.T) {
	p, err := NewPixelArray([]int{1, 2}, []float64{1, 2})
	if err != nil {
		t.Fatalf("NewPixelArray: %v", err)
	}

	c := p.Clone()
	c.Data[0] = 99
	c.Shape[0] = 99
	if p.Data[0] != 1 || p.Shape[0] != 1 {
		t.Errorf("Clone shares storage with the original: %v %v", p.Shape, p.Data)
	}
}

func TestSameShape(t *testing.T) {
	a, _ := NewPixelArray([]int{2, 3}, make([]float64, 6))
	b, _ := NewPixelArray([]int{2, 3}, make([]float64, 6))
	c, _ := NewPixelArray([]int{3, 2}, make([]float64, 6))
	d, _ := NewPixelArray([]int{6}, make([]float64, 6))

	if !a.SameShape(b) {
		t.Errorf("expected %v to match %v", a.Shape, b.Shape)
	}
	if a.SameShape(c) {
		t.Errorf("expected %v not to match %v", a.Shape, c.Shape)
	}
	if a.SameShape(d) {
		t.Errorf("expected %v not to match %v", a.Shape, d.Shape)
	}
}

func TestImageResolve(t *testing.T) {
	p, err := NewPixelArray([]int{1, 2}, []float64{1, 2})
	if err != nil {
		t.Fatalf("NewPixelArray: %v", err)
	}

	if got, err := ImageFromPixels(p).Resolve(); err != nil || got.Data[0] != 1 {
		t.Errorf("raw image: expected pixels, got %v (err %v)", got, err)
	}
	if got, err := ImageFromFrame(Frame{Pixels: p}).Resolve(); err != nil || got.Data[1] != 2 {
		t.Errorf("frame image: expected pixels, got %v (err %v)", got, err)
	}

	// Zero-value images are invalid.
	_, err = (Image{}).Resolve()
	var typeErr *UnsupportedTypeError
	if !errors.As(err, &typeErr) {
		t.Errorf("expected UnsupportedTypeError for zero-value image, got %v", err)
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Kind
		wantErr bool
	}{
		{name: "canonical", input: "minmax", want: KindMinMax},
		{name: "hyphenated", input: "min-max", want: KindMinMax},
		{name: "mixed case", input: "MinMax", want: KindMinMax},
		{name: "upper hyphenated", input: "MIN-MAX", want: KindMinMax},
		{name: "unknown", input: "zscore", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseKind(tc.input)
			if tc.wantErr {
				var normErr *InvalidNormalizationTypeError
				if !errors.As(err, &normErr) {
					t.Fatalf("expected InvalidNormalizationTypeError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseKind(%q): %v", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("ParseKind(%q): expected %v, got %v", tc.input, tc.want, got)
			}
		})
	}
}
