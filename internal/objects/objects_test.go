package objects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/terranav/internal/navgrid"
	"github.com/Faultbox/terranav/internal/terrain"
)

func pos(x, y int) navgrid.Pos { return navgrid.Pos{X: x, Y: y} }

func TestIndex_AddAndAt(t *testing.T) {
	ix := NewIndex()
	require.True(t, ix.Add(Object{Kind: KindTree, Pos: pos(2, 3)}))
	assert.False(t, ix.Add(Object{Kind: KindStone, Pos: pos(2, 3)}), "one object per cell")

	o, ok := ix.At(pos(2, 3))
	require.True(t, ok)
	assert.Equal(t, KindTree, o.Kind)

	_, ok = ix.At(pos(3, 3))
	assert.False(t, ok)
	assert.Equal(t, 1, ix.Len())
}

func TestIndex_InRegion(t *testing.T) {
	ix := NewIndex()
	for _, p := range []navgrid.Pos{pos(0, 0), pos(4, 4), pos(5, 4), pos(4, 5), pos(9, 9)} {
		ix.Add(Object{Kind: KindStone, Pos: p})
	}

	got := ix.InRegion(4, 4, 5, 5)
	require.Len(t, got, 3)
	assert.Equal(t, pos(4, 4), got[0].Pos)
	assert.Equal(t, pos(5, 4), got[1].Pos)
	assert.Equal(t, pos(4, 5), got[2].Pos)

	// Neighbouring cells touching the region edge are excluded.
	assert.Empty(t, ix.InRegion(1, 1, 3, 3))
	assert.Len(t, ix.InRegion(0, 0, 0, 0), 1)
	assert.Nil(t, ix.InRegion(5, 5, 4, 4))
}

func TestIndex_RemoveAndOccupied(t *testing.T) {
	ix := NewIndex()
	ix.Add(Object{Kind: KindTree, Pos: pos(3, 1)})
	ix.Add(Object{Kind: KindTree, Pos: pos(1, 1)})
	ix.Add(Object{Kind: KindStone, Pos: pos(0, 2)})

	assert.Equal(t, []navgrid.Pos{pos(1, 1), pos(3, 1), pos(0, 2)}, ix.Occupied())
	assert.Equal(t, map[Kind]int{KindTree: 2, KindStone: 1}, ix.CountByKind())

	assert.True(t, ix.Remove(pos(3, 1)))
	assert.False(t, ix.Remove(pos(3, 1)))
	assert.Empty(t, ix.InRegion(3, 1, 3, 1))
	assert.Equal(t, []navgrid.Pos{pos(1, 1), pos(0, 2)}, ix.Occupied())
}

func TestObject_Footprint(t *testing.T) {
	b := Object{Pos: pos(2, 5)}.Footprint()
	assert.Equal(t, 2.0, b.Min[0])
	assert.Equal(t, 5.0, b.Min[1])
	assert.Equal(t, 3.0, b.Max[0])
	assert.Equal(t, 6.0, b.Max[1])
}

func TestScatter_Rules(t *testing.T) {
	// Left column is flat lowland, right column is high ground.
	field := terrain.MustHeightField(2, 3, []float32{
		0, 5,
		0, 5,
		0, 0.5,
	})
	detail := terrain.MustHeightField(2, 3, []float32{
		0.95, 0.95,
		0.5, 0.95,
		0.95, 0.95,
	})
	// Chance 1 makes every eligible cell spawn.
	rules := ScatterRules{TreeChance: 1, StoneChance: 1, TreeDetail: 0.7, StoneDetail: 0.9, StoneMinHeight: 1}

	ix := Scatter(field, detail, rules, 1)

	assert.Equal(t, []Object{
		{Kind: KindTree, Pos: pos(0, 0)},
		{Kind: KindStone, Pos: pos(1, 0)},
		{Kind: KindStone, Pos: pos(1, 1)},
		{Kind: KindTree, Pos: pos(0, 2)},
	}, ix.All())
}

func TestScatter_Deterministic(t *testing.T) {
	gen := terrain.Generate(48, 48, 5, terrain.DefaultRecipe())
	rules := DefaultScatterRules()

	a := Scatter(gen.Field, gen.Detail.HeightField, rules, 5)
	b := Scatter(gen.Field, gen.Detail.HeightField, rules, 5)
	assert.Equal(t, a.All(), b.All())
}
