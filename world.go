package main

import (
	"log"
	"math/rand"
)

// EntityID links a logical entity to its visual counterpart in the browser.
// IDs are never reused within a session.
type EntityID uint64

type idSource struct {
	last EntityID
}

// Next returns a fresh ID
func (s *idSource) Next() EntityID {
	s.last++
	return s.last
}

// InitialSnakeLength is head plus two trailing segments
const InitialSnakeLength = 3

// World holds all simulation state of one game session. It is owned by a
// single goroutine and is not safe for concurrent use.
type World struct {
	cfg     Config
	rng     *rand.Rand
	ids     idSource
	Snake   *Snake
	Food    *Food // nil when the board has no free cell
	Bullets *BulletSystem
	Score   int
	grid    *SpatialGrid
	removed []EntityID
}

// NewWorld creates a world in its start state
func NewWorld(cfg Config, rng *rand.Rand) *World {
	w := &World{
		cfg:     cfg,
		rng:     rng,
		Bullets: NewBulletSystem(cfg.Bullets, cfg.Explosion),
		grid:    NewSpatialGrid(),
	}
	w.Reset()
	return w
}

// Reset replaces snake, food and bullets with a fresh start state.
// The head starts at the board centre travelling right.
func (w *World) Reset() {
	if w.Snake != nil {
		for _, seg := range w.Snake.Segments {
			w.removed = append(w.removed, seg.ID)
		}
	}
	w.Bullets.Clear()
	w.Score = 0

	mid := w.cfg.Grid.Size / 2
	w.Snake = NewSnake(Cell{X: mid, Z: mid}, DirRight, InitialSnakeLength, &w.ids)
	w.reindex()
	w.PlaceFood()
}

// PlaceFood removes the current food and places a new one on a free cell,
// never the one it left unless that is the last free cell.
// Returns false when the board is full; the world is then left without food.
func (w *World) PlaceFood() bool {
	var last *Cell
	if w.Food != nil {
		w.removed = append(w.removed, w.Food.ID)
		last = &w.Food.Cell
		w.Food = nil
	}
	occupied := func(c Cell) bool {
		return w.grid.Occupied(c) || (last != nil && c == *last)
	}
	cell, ok := placeFood(w.rng, w.cfg.Grid.Size, w.cfg.Game.FoodMargin, w.cfg.Game.FoodMaxAttempts, occupied)
	if !ok && last != nil && !w.grid.Occupied(*last) {
		cell, ok = *last, true
	}
	if !ok {
		log.Printf("no free cell for food (%d cells occupied)", w.grid.Count())
		return false
	}
	w.Food = &Food{ID: w.ids.Next(), Cell: cell}
	return true
}

// EatFood scores, grows the snake and moves the food
func (w *World) EatFood() {
	w.Score += w.cfg.Game.ScorePerFood
	w.Snake.AddSegment()
	w.reindex()
	w.PlaceFood()
}

// Occupied reports whether the snake covers c
func (w *World) Occupied(c Cell) bool {
	return w.grid.Occupied(c)
}

// reindex rebuilds the occupancy grid after the snake changed
func (w *World) reindex() {
	w.grid.Rebuild(w.Snake)
}

// drainRemoved hands over every entity destroyed since the last call
func (w *World) drainRemoved() []EntityID {
	out := append(w.removed, w.Bullets.drainRemoved()...)
	w.removed = nil
	return out
}
