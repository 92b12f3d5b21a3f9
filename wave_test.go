package main

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestWaveOffsetHeadStaysPut(t *testing.T) {
	cfg := DefaultConfig().Wave
	for ms := 0; ms < 2000; ms += 37 {
		assert.Equal(t, mgl64.Vec3{}, WaveOffset(0, time.Duration(ms)*time.Millisecond, cfg))
	}
}

func TestWaveOffsetIsBounded(t *testing.T) {
	cfg := DefaultConfig().Wave
	for i := 1; i < 30; i++ {
		for ms := 0; ms < 3000; ms += 16 {
			off := WaveOffset(i, time.Duration(ms)*time.Millisecond, cfg)
			assert.GreaterOrEqual(t, off.Y(), 0.0)
			assert.LessOrEqual(t, off.Y(), cfg.BounceHeight+1e-9)
			assert.LessOrEqual(t, math.Abs(off.X()), cfg.WobbleAmount+1e-9)
			assert.LessOrEqual(t, math.Abs(off.Z()), cfg.WobbleAmount+1e-9)
		}
	}
}

func TestWaveOffsetDependsOnlyOnInputs(t *testing.T) {
	cfg := DefaultConfig().Wave
	now := 1234 * time.Millisecond
	assert.Equal(t, WaveOffset(4, now, cfg), WaveOffset(4, now, cfg))
	assert.NotEqual(t, WaveOffset(4, now, cfg), WaveOffset(5, now, cfg), "segments are out of phase")
}

func TestWaveOffsetNeverReachesLogicalCells(t *testing.T) {
	g, scene := newTestGame(t, quietConfig())

	for ms := 0; ms <= 1200; ms += 16 {
		g.Frame(time.Duration(ms) * time.Millisecond)
		for _, seg := range g.World().Snake.Segments {
			p := scene.placed[seg.ID].t.Pos
			assert.LessOrEqual(t, cellDistance(p, seg.Cell), DefaultConfig().Wave.WobbleAmount*math.Sqrt2+1e-9)
		}
	}
	assert.Equal(t, 10, g.World().Snake.Head().Z, "the snake only ever moved along its row")
}
