package terrain

import (
	"errors"
	"testing"
)

func TestNewHeightField_Errors(t *testing.T) {
	if _, err := NewHeightField(0, 4, nil); !errors.Is(err, ErrEmptyField) {
		t.Errorf("expected ErrEmptyField, got %v", err)
	}
	if _, err := NewHeightField(3, 3, make([]float32, 8)); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
	if _, err := FromRows([][]float32{{1, 2}, {3}}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch for jagged rows, got %v", err)
	}
	if _, err := FromRows(nil); !errors.Is(err, ErrEmptyField) {
		t.Errorf("expected ErrEmptyField for no rows, got %v", err)
	}
}

func TestMustHeightField_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on mismatched dimensions")
		}
	}()
	MustHeightField(2, 2, []float32{1})
}

func TestHeightField_AccessAndRange(t *testing.T) {
	f, err := FromRows([][]float32{
		{0, 1, 2},
		{3, -4, 5},
	})
	if err != nil {
		t.Fatalf("FromRows failed: %v", err)
	}

	if f.Width != 3 || f.Height != 2 {
		t.Fatalf("expected 3x2, got %dx%d", f.Width, f.Height)
	}
	if got := f.At(2, 1); got != 5 {
		t.Errorf("At(2,1) = %f, want 5", got)
	}
	if got := f.At(3, 0); got != 0 {
		t.Errorf("out of bounds At should be 0, got %f", got)
	}

	f.Set(0, 0, 9)
	f.Set(-1, 0, 100) // ignored
	min, max := f.Range()
	if min != -4 || max != 9 {
		t.Errorf("Range() = (%f, %f), want (-4, 9)", min, max)
	}

	c := f.Clone()
	c.Set(0, 0, 1)
	if f.At(0, 0) != 9 {
		t.Error("Clone shares storage with original")
	}
	if err := f.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestThresholds_Classify(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		elevation float32
		want      Class
	}{
		{0, ClassLow},
		{0.99, ClassLow},
		{1.0, ClassMid},
		{14.9, ClassMid},
		{15.0, ClassHigh},
		{40, ClassHigh},
	}
	for _, tc := range tests {
		if got := th.Classify(tc.elevation); got != tc.want {
			t.Errorf("Classify(%v) = %v, want %v", tc.elevation, got, tc.want)
		}
	}
	if ClassHigh.String() != "High" || Class(9).String() != "Unknown(9)" {
		t.Error("unexpected Class.String output")
	}
}

func TestNoise_Range(t *testing.T) {
	for x := int32(-5000); x < 5000; x += 7 {
		v := Noise(x)
		if v < -1 || v > 1 {
			t.Fatalf("Noise(%d) = %f outside [-1,1]", x, v)
		}
	}
	if Noise(42) != Noise(42) {
		t.Error("Noise must be deterministic")
	}
}

func TestNoiseLayer_Bounds(t *testing.T) {
	p := NoiseParams{MaxHeight: 20, NoiseSize: 2, Persistence: 0.5, Octaves: 8}
	l := NoiseLayer(32, 24, 123, p)

	if l.Width != 32 || l.Height != 24 {
		t.Fatalf("unexpected layer size %dx%d", l.Width, l.Height)
	}
	min, max := l.Range()
	if min < 0 || max > 20 {
		t.Errorf("layer values (%f, %f) outside [0, 20]", min, max)
	}
	if min == max {
		t.Error("expected a non-flat noise layer")
	}
}

func TestLayer_Cap(t *testing.T) {
	l := Layer{HeightField: MustHeightField(3, 1, []float32{0.5, 1.5, 2.0}), MaxHeight: 2}
	l.Cap(1.0)

	want := []float32{0, 0.5, 1.0}
	for i, v := range want {
		if l.Values[i] != v {
			t.Errorf("value %d = %f, want %f", i, l.Values[i], v)
		}
	}
	if l.MaxHeight != 1.0 {
		t.Errorf("MaxHeight = %f, want 1.0", l.MaxHeight)
	}
}

func TestMultiply(t *testing.T) {
	lhs := Layer{HeightField: MustHeightField(2, 1, []float32{10, 20}), MaxHeight: 20}
	rhs := Layer{HeightField: MustHeightField(2, 1, []float32{0, 1}), MaxHeight: 1}

	out := Multiply(lhs, rhs)
	if out.At(0, 0) != 0 || out.At(1, 0) != 20 {
		t.Errorf("unexpected product %v", out.Values)
	}
	if out.MaxHeight != 20 {
		t.Errorf("MaxHeight = %f, want 20", out.MaxHeight)
	}

	flat := Layer{HeightField: NewFlatField(2, 1, 0), MaxHeight: 0}
	if zeroed := Multiply(lhs, flat); zeroed.At(1, 0) != 0 {
		t.Errorf("flat mask should zero the result, got %v", zeroed.Values)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	r := DefaultRecipe()
	a := Generate(40, 30, 99, r)
	b := Generate(40, 30, 99, r)
	c := Generate(40, 30, 100, r)

	if len(a.Field.Values) != 40*30 {
		t.Fatalf("expected %d values, got %d", 40*30, len(a.Field.Values))
	}
	for i := range a.Field.Values {
		if a.Field.Values[i] != b.Field.Values[i] || a.Detail.Values[i] != b.Detail.Values[i] {
			t.Fatalf("same seed produced different output at %d", i)
		}
	}

	differs := false
	for i := range a.Field.Values {
		if a.Field.Values[i] != c.Field.Values[i] {
			differs = true
			break
		}
	}
	if !differs {
		t.Error("different seeds produced identical terrain")
	}

	min, max := a.Field.Range()
	if min < 0 || max > r.Base.MaxHeight {
		t.Errorf("terrain (%f, %f) outside [0, %f]", min, max, r.Base.MaxHeight)
	}
}
