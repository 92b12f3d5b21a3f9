package main

import (
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Particle is one fragment of an explosion. Pure decoration.
type Particle struct {
	ID      EntityID
	Pos     mgl64.Vec3
	Vel     mgl64.Vec3
	Opacity float64
	Scale   float64
}

// Explosion is a short-lived burst of particles sharing one creation time
type Explosion struct {
	Particles []Particle
	CreatedAt time.Duration
	Duration  time.Duration
}

// newExplosion scatters cfg.Particles fragments around origin
func newExplosion(origin mgl64.Vec3, now time.Duration, cfg ExplosionConfig, rng *rand.Rand, ids *idSource) *Explosion {
	e := &Explosion{
		Particles: make([]Particle, cfg.Particles),
		CreatedAt: now,
		Duration:  cfg.Duration(),
	}
	for i := range e.Particles {
		offset := mgl64.Vec3{
			(rng.Float64()*2 - 1) * cfg.Spread,
			(rng.Float64()*2 - 1) * cfg.Spread,
			(rng.Float64()*2 - 1) * cfg.Spread,
		}
		vel := mgl64.Vec3{
			(rng.Float64() - 0.5) * cfg.Speed,
			(rng.Float64() - 0.5) * cfg.Speed,
			(rng.Float64() - 0.5) * cfg.Speed,
		}
		e.Particles[i] = Particle{
			ID:      ids.Next(),
			Pos:     origin.Add(offset),
			Vel:     vel,
			Opacity: 1,
			Scale:   1,
		}
	}
	return e
}

// step advances every particle one frame. Returns false once the explosion
// has run its course and should be discarded.
func (e *Explosion) step(now time.Duration, gravity float64) bool {
	progress := float64(now-e.CreatedAt) / float64(e.Duration)
	if progress >= 1 {
		return false
	}
	if progress < 0 {
		progress = 0
	}
	for i := range e.Particles {
		p := &e.Particles[i]
		p.Pos = p.Pos.Add(p.Vel)
		p.Vel[1] -= gravity
		p.Opacity = 1 - progress
		p.Scale = 1 - progress*0.5
	}
	return true
}
