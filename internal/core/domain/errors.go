package domain

import "fmt"

// UnsupportedTypeError reports an input value that is not one of the
// recognized image shapes. It carries the offending value so diagnostics can
// name its runtime type.
type UnsupportedTypeError struct {
	Value interface{}
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unknown type of images: %T", e.Value)
}

// InvalidNormalizationTypeError reports a normalization-type name that does
// not match any registered algorithm.
type InvalidNormalizationTypeError struct {
	Name string
}

func (e *InvalidNormalizationTypeError) Error() string {
	return fmt.Sprintf("invalid normalization type: %q", e.Name)
}
