package main

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestDirectionReverse(t *testing.T) {
	assert.True(t, DirUp.IsReverseOf(DirDown))
	assert.True(t, DirLeft.IsReverseOf(DirRight))
	assert.False(t, DirUp.IsReverseOf(DirLeft))
	assert.False(t, Direction{}.IsReverseOf(Direction{}))
	assert.Equal(t, DirLeft, DirRight.Reverse())
}

func TestCellInBounds(t *testing.T) {
	assert.True(t, Cell{0, 0}.InBounds(20))
	assert.True(t, Cell{19, 19}.InBounds(20))
	assert.False(t, Cell{20, 5}.InBounds(20))
	assert.False(t, Cell{5, -1}.InBounds(20))
}

func TestCellDistanceIgnoresHeight(t *testing.T) {
	assert.InDelta(t, 0.5, cellDistance(mgl64.Vec3{3.3, 7, 4.4}, Cell{3, 4}), 1e-9)
}

func TestSpatialGridNearbySegments(t *testing.T) {
	g := NewSpatialGrid()
	g.Rebuild(NewSnake(Cell{X: 5, Z: 5}, DirRight, 3, &idSource{}))

	assert.Equal(t, 3, g.Count())
	assert.True(t, g.Occupied(Cell{3, 5}))
	assert.False(t, g.Occupied(Cell{6, 5}))

	assert.ElementsMatch(t, []int{1}, g.NearbySegments(mgl64.Vec3{4, 0, 5.3}, 0.5))
	assert.Empty(t, g.NearbySegments(mgl64.Vec3{4, 0, 5.5}, 0.5), "distance must be strictly inside the radius")
	assert.ElementsMatch(t, []int{0, 1, 2}, g.NearbySegments(mgl64.Vec3{4, 0, 5}, 1.5))
}

func TestSpatialGridRebuildDropsOldCells(t *testing.T) {
	g := NewSpatialGrid()
	s := NewSnake(Cell{X: 5, Z: 5}, DirRight, 3, &idSource{})
	g.Rebuild(s)

	s.Move()
	g.Rebuild(s)

	assert.False(t, g.Occupied(Cell{3, 5}))
	assert.True(t, g.Occupied(Cell{6, 5}))
}

func TestParseKey(t *testing.T) {
	cases := map[string]Direction{
		"ArrowUp": DirUp, "w": DirUp, "W": DirUp,
		"ArrowDown": DirDown, "s": DirDown,
		"ArrowLeft": DirLeft, "a": DirLeft,
		"ArrowRight": DirRight, "D": DirRight,
	}
	for key, want := range cases {
		got, ok := ParseKey(key)
		assert.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}

	_, ok := ParseKey("x")
	assert.False(t, ok)
	assert.True(t, isRestartKey("R"))
	assert.False(t, isRestartKey("ArrowUp"))
}
