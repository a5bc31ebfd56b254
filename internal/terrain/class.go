package terrain

import "fmt"

// Class buckets a cell by elevation. Renderers pick ground textures by it.
type Class uint8

// Terrain classes, lowest first.
const (
	ClassLow  Class = iota // grass
	ClassMid               // stone
	ClassHigh              // snow
)

// String returns a human-readable class name.
func (c Class) String() string {
	switch c {
	case ClassLow:
		return "Low"
	case ClassMid:
		return "Mid"
	case ClassHigh:
		return "High"
	default:
		return fmt.Sprintf("Unknown(%d)", c)
	}
}

// Thresholds splits elevations into classes: below Low is ClassLow,
// below Mid is ClassMid, anything else ClassHigh.
type Thresholds struct {
	Low float32
	Mid float32
}

// DefaultThresholds returns the stock class boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{Low: 1.0, Mid: 15.0}
}

// Classify returns the class of an elevation.
func (t Thresholds) Classify(elevation float32) Class {
	switch {
	case elevation < t.Low:
		return ClassLow
	case elevation < t.Mid:
		return ClassMid
	default:
		return ClassHigh
	}
}
