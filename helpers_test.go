package main

import (
	"math/rand"
	"testing"
)

// quietConfig is the default config with bullets that never fire on their own
func quietConfig() Config {
	cfg := DefaultConfig()
	cfg.Bullets.SpawnChance = 0
	return cfg
}

// hitsConfig is quietConfig with bullets able to hit the snake
func hitsConfig() Config {
	cfg := quietConfig()
	cfg.Bullets.SnakeHits = true
	return cfg
}

func newTestWorld(t *testing.T, cfg Config) *World {
	t.Helper()
	return NewWorld(cfg, rand.New(rand.NewSource(1)))
}

// moveFood puts the food on c, which must be free
func moveFood(t *testing.T, w *World, c Cell) {
	t.Helper()
	if w.Snake.Occupies(c) {
		t.Fatalf("food cell %v is on the snake", c)
	}
	w.Food.Cell = c
}

type placement struct {
	kind EntityKind
	t    Transform
}

// recordingScene captures everything the game shows
type recordingScene struct {
	placed   map[EntityID]placement
	removed  []EntityID
	scores   []int
	statuses []bool
	final    int
}

func newRecordingScene() *recordingScene {
	return &recordingScene{placed: make(map[EntityID]placement)}
}

func (r *recordingScene) Place(id EntityID, kind EntityKind, t Transform) {
	r.placed[id] = placement{kind: kind, t: t}
}

func (r *recordingScene) Remove(id EntityID) {
	delete(r.placed, id)
	r.removed = append(r.removed, id)
}

func (r *recordingScene) Score(score int) {
	r.scores = append(r.scores, score)
}

func (r *recordingScene) Status(running bool, finalScore int) {
	r.statuses = append(r.statuses, running)
	r.final = finalScore
}

func (r *recordingScene) count(kind EntityKind) int {
	n := 0
	for _, p := range r.placed {
		if p.kind == kind {
			n++
		}
	}
	return n
}

func newTestGame(t *testing.T, cfg Config) (*Game, *recordingScene) {
	t.Helper()
	scene := newRecordingScene()
	g := NewGame(cfg, rand.New(rand.NewSource(7)), scene, scene, nil)
	return g, scene
}

// distinctBody checks segments are pairwise distinct, allowing the tail to
// sit on its predecessor right after growth.
func distinctBody(s *Snake) bool {
	seen := make(map[Cell]bool, s.Len())
	n := s.Len()
	for i, seg := range s.Segments {
		if i == n-1 && n > 1 && seg.Cell == s.Segments[n-2].Cell {
			continue
		}
		if seen[seg.Cell] {
			return false
		}
		seen[seg.Cell] = true
	}
	return true
}
