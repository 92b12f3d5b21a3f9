package main

import (
	"math"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Bullet is an in-flight projectile. Position is fractional; it moves every
// frame, not every tick.
type Bullet struct {
	ID        EntityID
	Pos       mgl64.Vec3
	Dir       mgl64.Vec3 // unit length on the x/z plane
	CreatedAt time.Duration
	Owner     int // index of the segment that fired it
}

// BulletResult summarizes one Update call
type BulletResult struct {
	Expired  int
	Escaped  int
	FoodHits int
	SnakeHit bool
}

// bulletDirections is the weighted firing table: cardinals appear twice,
// diagonals once and scaled so every bullet travels at the same speed.
var bulletDirections = func() []mgl64.Vec3 {
	d := 1 / math.Sqrt2
	return []mgl64.Vec3{
		{1, 0, 0}, {-1, 0, 0}, {0, 0, 1}, {0, 0, -1},
		{1, 0, 0}, {-1, 0, 0}, {0, 0, 1}, {0, 0, -1},
		{d, 0, d}, {d, 0, -d}, {-d, 0, d}, {-d, 0, -d},
	}
}()

const cardinalDirections = 8

func randomBulletDirection(rng *rand.Rand, diagonals bool) mgl64.Vec3 {
	n := len(bulletDirections)
	if !diagonals {
		n = cardinalDirections
	}
	return bulletDirections[rng.Intn(n)]
}

// BulletSystem owns every live bullet and explosion
type BulletSystem struct {
	cfg        BulletConfig
	explosion  ExplosionConfig
	bullets    []*Bullet
	explosions []*Explosion
	lastFired  []time.Duration // per segment index, interval policy only
	fired      []bool
	removed    []EntityID
}

// NewBulletSystem creates an empty bullet system
func NewBulletSystem(cfg BulletConfig, explosion ExplosionConfig) *BulletSystem {
	return &BulletSystem{cfg: cfg, explosion: explosion}
}

// Bullets returns the live bullets. The slice must not be modified.
func (bs *BulletSystem) Bullets() []*Bullet {
	return bs.bullets
}

// Explosions returns the live explosions. The slice must not be modified.
func (bs *BulletSystem) Explosions() []*Explosion {
	return bs.explosions
}

// Spawn fires a bullet from pos in direction dir
func (bs *BulletSystem) Spawn(pos, dir mgl64.Vec3, owner int, now time.Duration, ids *idSource) *Bullet {
	b := &Bullet{
		ID:        ids.Next(),
		Pos:       pos,
		Dir:       dir,
		CreatedAt: now,
		Owner:     owner,
	}
	bs.bullets = append(bs.bullets, b)
	return b
}

// SpawnFromBody gives every non-head segment a chance to fire under the
// configured policy. Returns the number of bullets fired.
func (bs *BulletSystem) SpawnFromBody(s *Snake, now time.Duration, rng *rand.Rand, ids *idSource) int {
	for len(bs.lastFired) < s.Len() {
		bs.lastFired = append(bs.lastFired, 0)
		bs.fired = append(bs.fired, false)
	}

	count := 0
	for i := 1; i < s.Len(); i++ {
		chance := bs.cfg.SpawnChance
		if bs.cfg.FirePolicy == FirePolicyInterval {
			if bs.fired[i] && now-bs.lastFired[i] <= bs.cfg.FireInterval(i) {
				continue
			}
			chance *= 2
		}
		if rng.Float64() >= chance {
			continue
		}

		dir := randomBulletDirection(rng, bs.cfg.DiagonalsEnabled)
		pos := s.Segments[i].Cell.Vec3().Add(dir.Mul(bs.cfg.MuzzleOffset))
		bs.Spawn(pos, dir, i, now, ids)
		bs.lastFired[i] = now
		bs.fired[i] = true
		count++
	}
	return count
}

// Update advances bullets and explosions one frame and resolves bullet
// collisions in order: lifetime, bounds, food, snake. Each bullet gets at
// most one outcome. A snake hit stops the frame: the remaining bullets and
// all explosions are left untouched.
func (bs *BulletSystem) Update(w *World, now time.Duration) BulletResult {
	res := bs.updateBullets(w, now)
	if res.SnakeHit {
		return res
	}
	bs.updateExplosions(now)
	return res
}

func (bs *BulletSystem) updateBullets(w *World, now time.Duration) BulletResult {
	var res BulletResult
	edge := float64(w.cfg.Grid.Size) - 0.5
	kept := bs.bullets[:0]

	for i, b := range bs.bullets {
		b.Pos = b.Pos.Add(b.Dir.Mul(bs.cfg.Speed))

		if now-b.CreatedAt > bs.cfg.Lifetime() {
			bs.removed = append(bs.removed, b.ID)
			res.Expired++
			continue
		}

		x, z := b.Pos.X(), b.Pos.Z()
		if x < -0.5 || x > edge || z < -0.5 || z > edge {
			bs.removed = append(bs.removed, b.ID)
			res.Escaped++
			continue
		}

		if w.Food != nil && cellDistance(b.Pos, w.Food.Cell) < bs.cfg.FoodHitRadius {
			bs.Explode(w.Food.Cell.Vec3(), now, w.rng, &w.ids)
			w.PlaceFood()
			bs.removed = append(bs.removed, b.ID)
			res.FoodHits++
			continue
		}

		if bs.cfg.SnakeHits && bs.hitsSnake(w, b, now) {
			bs.Explode(b.Pos, now, w.rng, &w.ids)
			bs.removed = append(bs.removed, b.ID)
			res.SnakeHit = true
			kept = append(kept, bs.bullets[i+1:]...)
			break
		}

		kept = append(kept, b)
	}

	clear(bs.bullets[len(kept):])
	bs.bullets = kept
	return res
}

// hitsSnake reports whether b touches a segment. While a body-fired bullet is
// younger than the grace period, the firing segment, its neighbours and the
// head are exempt.
func (bs *BulletSystem) hitsSnake(w *World, b *Bullet, now time.Duration) bool {
	young := b.Owner > 0 && now-b.CreatedAt < bs.cfg.SelfHitGrace()
	for _, idx := range w.grid.NearbySegments(b.Pos, bs.cfg.SnakeHitRadius) {
		if young && (idx == 0 || (idx >= b.Owner-1 && idx <= b.Owner+1)) {
			continue
		}
		return true
	}
	return false
}

// Explode starts an explosion at pos
func (bs *BulletSystem) Explode(pos mgl64.Vec3, now time.Duration, rng *rand.Rand, ids *idSource) {
	bs.explosions = append(bs.explosions, newExplosion(pos, now, bs.explosion, rng, ids))
}

func (bs *BulletSystem) updateExplosions(now time.Duration) {
	kept := bs.explosions[:0]
	for _, e := range bs.explosions {
		if !e.step(now, bs.explosion.Gravity) {
			for _, p := range e.Particles {
				bs.removed = append(bs.removed, p.ID)
			}
			continue
		}
		kept = append(kept, e)
	}
	clear(bs.explosions[len(kept):])
	bs.explosions = kept
}

// Clear destroys every bullet and explosion. Safe to call repeatedly.
func (bs *BulletSystem) Clear() {
	for _, b := range bs.bullets {
		bs.removed = append(bs.removed, b.ID)
	}
	for _, e := range bs.explosions {
		for _, p := range e.Particles {
			bs.removed = append(bs.removed, p.ID)
		}
	}
	bs.bullets = nil
	bs.explosions = nil
	bs.lastFired = nil
	bs.fired = nil
}

// drainRemoved hands over the IDs destroyed since the last call
func (bs *BulletSystem) drainRemoved() []EntityID {
	out := bs.removed
	bs.removed = nil
	return out
}
