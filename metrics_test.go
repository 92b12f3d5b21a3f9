package main

import (
	"math/rand"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.SessionOpened()
		m.SessionClosed()
		m.GameStarted()
		m.GameOver(CauseWall)
		m.FoodEaten("head", 1)
		m.BulletsFired(3)
		m.ObserveFrame(time.Millisecond)
	})
}

func TestMetricsFollowGame(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	g := NewGame(quietConfig(), rand.New(rand.NewSource(1)), nil, nil, m)
	moveFood(t, g.World(), Cell{X: 2, Z: 2})

	runToWall(t, g)
	g.Restart(ms(1300))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.gamesStarted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.gamesOver.WithLabelValues(string(CauseWall))))
}

func TestMetricsFoodByEater(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.FoodEaten("head", 1)
	m.FoodEaten("bullet", 2)
	m.BulletsFired(4)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.foodEaten.WithLabelValues("head")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.foodEaten.WithLabelValues("bullet")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.bulletsFired))
}

func TestMetricsSessionsGauge(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessions))
}
