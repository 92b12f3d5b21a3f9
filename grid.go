package main

import "github.com/go-gl/mathgl/mgl64"

// Cell is a logical lattice position. The board spans 0 <= X,Z < size.
type Cell struct {
	X int
	Z int
}

// Direction is a cardinal unit step on the lattice
type Direction struct {
	X int
	Z int
}

var (
	DirUp    = Direction{X: 0, Z: -1}
	DirDown  = Direction{X: 0, Z: 1}
	DirLeft  = Direction{X: -1, Z: 0}
	DirRight = Direction{X: 1, Z: 0}
)

// Directions lists the four cardinal steps
var Directions = [4]Direction{DirUp, DirDown, DirLeft, DirRight}

// Add returns the cell one step away in direction d
func (c Cell) Add(d Direction) Cell {
	return Cell{X: c.X + d.X, Z: c.Z + d.Z}
}

func (c Cell) Equals(o Cell) bool {
	return c.X == o.X && c.Z == o.Z
}

// InBounds reports whether c lies on a size x size board
func (c Cell) InBounds(size int) bool {
	return c.X >= 0 && c.X < size && c.Z >= 0 && c.Z < size
}

// Vec3 is the cell centre in render space (y = 0)
func (c Cell) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{float64(c.X), 0, float64(c.Z)}
}

// Reverse returns the opposite direction
func (d Direction) Reverse() Direction {
	return Direction{X: -d.X, Z: -d.Z}
}

func (d Direction) IsReverseOf(o Direction) bool {
	return !d.IsZero() && d == o.Reverse()
}

func (d Direction) IsZero() bool {
	return d.X == 0 && d.Z == 0
}

// Vec3 returns the direction as a unit vector in render space
func (d Direction) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{float64(d.X), 0, float64(d.Z)}
}

// cellDistance is the planar distance from p to the centre of c.
// The y component of p is a cosmetic offset and is ignored.
func cellDistance(p mgl64.Vec3, c Cell) float64 {
	return mgl64.Vec2{p.X() - float64(c.X), p.Z() - float64(c.Z)}.Len()
}
