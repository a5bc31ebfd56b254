package objects

import (
	"math/rand"

	"github.com/Faultbox/terranav/internal/navgrid"
	"github.com/Faultbox/terranav/internal/terrain"
)

// ScatterRules decide where trees and stones grow.
// Trees need flat lowland (elevation exactly 0) and Detail above TreeDetail;
// stones need elevation of at least StoneMinHeight and Detail above StoneDetail.
// Each eligible cell then gets an object with probability 1/Chance.
type ScatterRules struct {
	TreeChance     int
	StoneChance    int
	TreeDetail     float32
	StoneDetail    float32
	StoneMinHeight float32
}

// DefaultScatterRules returns the stock placement rules.
func DefaultScatterRules() ScatterRules {
	return ScatterRules{
		TreeChance:     6,
		StoneChance:    20,
		TreeDetail:     0.7,
		StoneDetail:    0.9,
		StoneMinHeight: 1.0,
	}
}

// Scatter places objects over a generated terrain. The result depends only on
// the inputs and the seed. detail must have the same dimensions as field.
func Scatter(field, detail *terrain.HeightField, rules ScatterRules, seed int64) *Index {
	rng := rand.New(rand.NewSource(seed))
	ix := NewIndex()

	for y := 0; y < field.Height; y++ {
		for x := 0; x < field.Width; x++ {
			h, d := field.At(x, y), detail.At(x, y)
			p := navgrid.Pos{X: x, Y: y}
			if h == 0 && d > rules.TreeDetail && rng.Intn(rules.TreeChance) == 0 {
				ix.Add(Object{Kind: KindTree, Pos: p})
			} else if h >= rules.StoneMinHeight && d > rules.StoneDetail && rng.Intn(rules.StoneChance) == 0 {
				ix.Add(Object{Kind: KindStone, Pos: p})
			}
		}
	}
	return ix
}
