package main

import (
	"log"
	"math/rand"
)

// Food is the single active item. Every placement gets a fresh ID so the
// renderer can drop the old item and show the new one.
type Food struct {
	ID   EntityID
	Cell Cell
}

// placeFood finds a free cell by rejection sampling inside the board inset by
// margin. After maxAttempts misses it scans the whole board row by row.
// Returns false only when every cell is occupied.
func placeFood(rng *rand.Rand, size, margin, maxAttempts int, occupied func(Cell) bool) (Cell, bool) {
	span := size - 2*margin
	for attempt := 0; attempt < maxAttempts; attempt++ {
		c := Cell{
			X: margin + rng.Intn(span),
			Z: margin + rng.Intn(span),
		}
		if !occupied(c) {
			return c, true
		}
	}

	log.Printf("food placement fell back to linear scan after %d attempts", maxAttempts)
	for z := 0; z < size; z++ {
		for x := 0; x < size; x++ {
			c := Cell{X: x, Z: z}
			if !occupied(c) {
				return c, true
			}
		}
	}
	return Cell{}, false
}
