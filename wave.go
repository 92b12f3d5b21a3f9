package main

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// WaveOffset is the cosmetic bounce/wobble of body segment index at clock now.
// It is recomputed from scratch every frame and never written back into the
// logical cell, so offsets cannot accumulate. The head (index 0) stays put.
func WaveOffset(index int, now time.Duration, cfg WaveConfig) mgl64.Vec3 {
	if index <= 0 {
		return mgl64.Vec3{}
	}
	t := now.Seconds()
	phase := float64(index) * 0.4
	freq := cfg.BaseFrequency + float64(index)*0.15

	primary := math.Sin(freq*t - phase)
	bounce := cfg.BounceHeight * math.Pow(0.5+0.5*primary, 2)

	wobbleX := cfg.WobbleAmount * math.Sin(freq*0.8*t-phase*1.5)
	wobbleZ := cfg.WobbleAmount * math.Cos(freq*0.6*t-phase*1.2)

	return mgl64.Vec3{wobbleX, bounce, wobbleZ}
}
