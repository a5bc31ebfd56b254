package terrain

import (
	"math"
	"math/rand"
)

// NoiseParams describes one octave-summed value noise layer.
type NoiseParams struct {
	MaxHeight   float32
	NoiseSize   float32 // noise periods across the field
	Persistence float32 // amplitude falloff per octave
	Octaves     int
}

// Recipe combines three layers into a playable terrain: Base shapes the
// mountains, Mask (after capping) flattens the lowlands to zero, and Detail
// drives object placement.
type Recipe struct {
	Base    NoiseParams
	Mask    NoiseParams
	Detail  NoiseParams
	MaskCap float32 // fraction of the mask's max height cut away
}

// DefaultRecipe returns the stock terrain recipe.
func DefaultRecipe() Recipe {
	return Recipe{
		Base:    NoiseParams{MaxHeight: 20.0, NoiseSize: 2.0, Persistence: 0.5, Octaves: 8},
		Mask:    NoiseParams{MaxHeight: 2.0, NoiseSize: 2.5, Persistence: 0.8, Octaves: 3},
		Detail:  NoiseParams{MaxHeight: 1.0, NoiseSize: 5.5, Persistence: 0.9, Octaves: 7},
		MaskCap: 0.4,
	}
}

// Layer is a generated field together with the height it is normalized against.
type Layer struct {
	*HeightField
	MaxHeight float32
}

// Generated is the output of Generate.
type Generated struct {
	Field  *HeightField // elevations handed to navigation
	Detail Layer        // placement noise, values in [0, Detail.MaxHeight]
}

// Generate builds a terrain from a seed. The same seed, size and recipe always
// produce the same output.
func Generate(width, height int, seed int64, r Recipe) *Generated {
	rng := rand.New(rand.NewSource(seed))
	baseSeed := rng.Int31n(2000)
	maskSeed := rng.Int31n(2000)
	detailSeed := rng.Int31n(1000)

	base := NoiseLayer(width, height, baseSeed, r.Base)
	mask := NoiseLayer(width, height, maskSeed, r.Mask)
	mask.Cap(mask.MaxHeight * r.MaskCap)

	return &Generated{
		Field:  Multiply(base, mask).HeightField,
		Detail: NoiseLayer(width, height, detailSeed, r.Detail),
	}
}

// NoiseLayer fills a field with value noise scaled to [0, p.MaxHeight].
func NoiseLayer(width, height int, seed int32, p NoiseParams) Layer {
	f := NewFlatField(width, height, 0)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			xf := float64(x) / float64(width) * float64(p.NoiseSize)
			yf := float64(y) / float64(height) * float64(p.NoiseSize)

			var total float32
			for i := 0; i < p.Octaves; i++ {
				freq := math.Pow(2, float64(i))
				amp := float32(math.Pow(float64(p.Persistence), float64(i)))

				tx, ty := xf*freq, yf*freq
				txInt, tyInt := int32(tx), int32(ty)
				fracX := float32(tx - float64(txInt))
				fracY := float32(ty - float64(tyInt))

				v1 := Noise(txInt + tyInt*57 + seed)
				v2 := Noise(txInt + 1 + tyInt*57 + seed)
				v3 := Noise(txInt + (tyInt+1)*57 + seed)
				v4 := Noise(txInt + 1 + (tyInt+1)*57 + seed)

				i1 := cosInterpolate(v1, v2, fracX)
				i2 := cosInterpolate(v3, v4, fracX)
				total += cosInterpolate(i1, i2, fracY) * amp
			}

			b := clampi(int(128+total*128), 0, 255)
			f.Set(x, y, float32(b)/255*p.MaxHeight)
		}
	}
	return Layer{HeightField: f, MaxHeight: p.MaxHeight}
}

// Cap lowers every value by capHeight, clamping at zero, and resets
// MaxHeight to the tallest remaining value.
func (l *Layer) Cap(capHeight float32) {
	l.MaxHeight = 0
	for i, v := range l.Values {
		v -= capHeight
		if v < 0 {
			v = 0
		}
		l.Values[i] = v
		if v > l.MaxHeight {
			l.MaxHeight = v
		}
	}
}

// Multiply scales lhs by rhs, both normalized to their max heights. The result
// keeps lhs's dimensions and max height. A flat rhs (max 0) zeroes the result;
// cells outside rhs use a factor of 1.
func Multiply(lhs, rhs Layer) Layer {
	out := NewFlatField(lhs.Width, lhs.Height, 0)
	for y := 0; y < lhs.Height; y++ {
		for x := 0; x < lhs.Width; x++ {
			a := normalized(lhs.At(x, y), lhs.MaxHeight)
			b := float32(1)
			if rhs.InBounds(x, y) {
				b = normalized(rhs.At(x, y), rhs.MaxHeight)
			}
			out.Set(x, y, a*b*lhs.MaxHeight)
		}
	}
	return Layer{HeightField: out, MaxHeight: lhs.MaxHeight}
}

// Noise is a deterministic integer hash mapped to [-1, 1]. It relies on
// int32 wraparound.
func Noise(x int32) float32 {
	x = (x << 13) ^ x
	return 1 - float32((x*(x*x*15731+789221)+1376312589)&0x7fffffff)/1073741824.0
}

func cosInterpolate(v1, v2, a float32) float32 {
	prc := float32((1 - math.Cos(float64(a)*math.Pi)) * 0.5)
	return v1*(1-prc) + v2*prc
}

func normalized(v, max float32) float32 {
	if max <= 0 {
		return 0
	}
	return v / max
}

func clampi(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
