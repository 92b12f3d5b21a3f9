package main

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// gridEntry holds a reference to a snake segment in a cell
type gridEntry struct {
	segIdx int
	cell   Cell
}

// SpatialGrid indexes snake segments by cell for occupancy and proximity
// queries. It is rebuilt whenever the snake moves or grows.
type SpatialGrid struct {
	cells map[Cell][]gridEntry
}

// NewSpatialGrid creates an empty spatial grid
func NewSpatialGrid() *SpatialGrid {
	return &SpatialGrid{cells: make(map[Cell][]gridEntry)}
}

// Clear resets all cells
func (g *SpatialGrid) Clear() {
	clear(g.cells)
}

// InsertSnake adds every segment of s, head included
func (g *SpatialGrid) InsertSnake(s *Snake) {
	for i, seg := range s.Segments {
		g.cells[seg.Cell] = append(g.cells[seg.Cell], gridEntry{segIdx: i, cell: seg.Cell})
	}
}

// Rebuild clears the grid and reinserts s
func (g *SpatialGrid) Rebuild(s *Snake) {
	g.Clear()
	g.InsertSnake(s)
}

// Occupied reports whether any segment sits on c
func (g *SpatialGrid) Occupied(c Cell) bool {
	return len(g.cells[c]) > 0
}

// Count is the number of distinct occupied cells
func (g *SpatialGrid) Count() int {
	return len(g.cells)
}

// NearbySegments returns segment indices whose cell centre lies within radius
// of p on the x/z plane.
func (g *SpatialGrid) NearbySegments(p mgl64.Vec3, radius float64) []int {
	results := []int{}
	minX := int(math.Floor(p.X() - radius))
	maxX := int(math.Ceil(p.X() + radius))
	minZ := int(math.Floor(p.Z() - radius))
	maxZ := int(math.Ceil(p.Z() + radius))

	for x := minX; x <= maxX; x++ {
		for z := minZ; z <= maxZ; z++ {
			for _, e := range g.cells[Cell{X: x, Z: z}] {
				if cellDistance(p, e.cell) < radius {
					results = append(results, e.segIdx)
				}
			}
		}
	}
	return results
}
