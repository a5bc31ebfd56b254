// Package terrain provides the elevation grid consumed by navigation and a
// deterministic value-noise generator that produces it.
package terrain

import (
	"errors"
	"fmt"
)

// HeightField errors.
var (
	ErrEmptyField        = errors.New("terrain: height field must have at least one cell")
	ErrDimensionMismatch = errors.New("terrain: height values do not match field dimensions")
)

// HeightField is a width×height grid of elevations stored row-major.
type HeightField struct {
	Width  int
	Height int
	Values []float32 // Values[y*Width+x]
}

// NewHeightField wraps values as a width×height field. The slice is not copied.
func NewHeightField(width, height int, values []float32) (*HeightField, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyField, width, height)
	}
	if len(values) != width*height {
		return nil, fmt.Errorf("%w: %dx%d needs %d values, got %d",
			ErrDimensionMismatch, width, height, width*height, len(values))
	}
	return &HeightField{Width: width, Height: height, Values: values}, nil
}

// MustHeightField is like NewHeightField but panics on malformed input.
func MustHeightField(width, height int, values []float32) *HeightField {
	f, err := NewHeightField(width, height, values)
	if err != nil {
		panic(err)
	}
	return f
}

// NewFlatField returns a field with every cell at the same elevation.
func NewFlatField(width, height int, elevation float32) *HeightField {
	values := make([]float32, width*height)
	for i := range values {
		values[i] = elevation
	}
	return MustHeightField(width, height, values)
}

// FromRows builds a field from row slices, rows[y][x].
func FromRows(rows [][]float32) (*HeightField, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyField
	}
	w := len(rows[0])
	values := make([]float32, 0, w*len(rows))
	for y, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrDimensionMismatch, y, len(row), w)
		}
		values = append(values, row...)
	}
	return NewHeightField(w, len(rows), values)
}

// Validate reports whether the field's dimensions and storage agree.
func (f *HeightField) Validate() error {
	if f == nil || f.Width <= 0 || f.Height <= 0 {
		return ErrEmptyField
	}
	if len(f.Values) != f.Width*f.Height {
		return ErrDimensionMismatch
	}
	return nil
}

// InBounds reports whether (x, y) lies inside the field.
func (f *HeightField) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < f.Width && y < f.Height
}

// At returns the elevation at (x, y), or 0 outside the field.
func (f *HeightField) At(x, y int) float32 {
	if !f.InBounds(x, y) {
		return 0
	}
	return f.Values[y*f.Width+x]
}

// Set stores an elevation. Out-of-bounds writes are ignored.
func (f *HeightField) Set(x, y int, v float32) {
	if f.InBounds(x, y) {
		f.Values[y*f.Width+x] = v
	}
}

// Range returns the minimum and maximum elevation in the field.
func (f *HeightField) Range() (min, max float32) {
	if len(f.Values) == 0 {
		return 0, 0
	}
	min, max = f.Values[0], f.Values[0]
	for _, v := range f.Values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// Clone returns a deep copy of the field.
func (f *HeightField) Clone() *HeightField {
	values := make([]float32, len(f.Values))
	copy(values, f.Values)
	return &HeightField{Width: f.Width, Height: f.Height, Values: values}
}
