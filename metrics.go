package main

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the game server.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	sessions     prometheus.Gauge
	gamesStarted prometheus.Counter
	gamesOver    *prometheus.CounterVec
	foodEaten    *prometheus.CounterVec
	bulletsFired prometheus.Counter
	frameSeconds prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "snake",
			Name:      "sessions_active",
			Help:      "Connected game sessions.",
		}),
		gamesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "snake",
			Name:      "games_started_total",
			Help:      "Games started, restarts included.",
		}),
		gamesOver: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "snake",
			Name:      "games_over_total",
			Help:      "Games ended, by cause.",
		}, []string{"cause"}),
		foodEaten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "snake",
			Name:      "food_consumed_total",
			Help:      "Food consumed, by the snake head or by a bullet.",
		}, []string{"by"}),
		bulletsFired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "snake",
			Name:      "bullets_fired_total",
			Help:      "Bullets fired from body segments.",
		}),
		frameSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "snake",
			Name:      "frame_duration_seconds",
			Help:      "Time spent simulating and encoding one frame.",
			Buckets:   []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
		}),
	}
	reg.MustRegister(m.sessions, m.gamesStarted, m.gamesOver, m.foodEaten, m.bulletsFired, m.frameSeconds)
	return m
}

func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.sessions.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.sessions.Dec()
}

func (m *Metrics) GameStarted() {
	if m == nil {
		return
	}
	m.gamesStarted.Inc()
}

func (m *Metrics) GameOver(cause Cause) {
	if m == nil {
		return
	}
	m.gamesOver.WithLabelValues(string(cause)).Inc()
}

func (m *Metrics) FoodEaten(by string, n int) {
	if m == nil {
		return
	}
	m.foodEaten.WithLabelValues(by).Add(float64(n))
}

func (m *Metrics) BulletsFired(n int) {
	if m == nil {
		return
	}
	m.bulletsFired.Add(float64(n))
}

func (m *Metrics) ObserveFrame(d time.Duration) {
	if m == nil {
		return
	}
	m.frameSeconds.Observe(d.Seconds())
}
