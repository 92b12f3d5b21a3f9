package main

import (
	"log"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// State of a game session
type State int

const (
	Running State = iota
	GameOver
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case GameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Cause records why a game ended
type Cause string

const (
	CauseNone   Cause = ""
	CauseWall   Cause = "wall"
	CauseSelf   Cause = "self"
	CauseBullet Cause = "bullet"
)

// EntityKind tells the renderer which model to use for an entity
type EntityKind uint8

const (
	KindHead EntityKind = iota
	KindSegment
	KindFood
	KindBullet
	KindParticle
)

// Code is the single-char wire name of the kind
func (k EntityKind) Code() string {
	switch k {
	case KindHead:
		return "h"
	case KindSegment:
		return "b"
	case KindFood:
		return "f"
	case KindBullet:
		return "s"
	case KindParticle:
		return "x"
	default:
		return "?"
	}
}

// Transform is the visual placement of an entity. Pos already includes any
// cosmetic offset.
type Transform struct {
	Pos     mgl64.Vec3
	Opacity float64
	Scale   float64
}

// Scene positions and removes visual entities
type Scene interface {
	Place(id EntityID, kind EntityKind, t Transform)
	Remove(id EntityID)
}

// Scoreboard displays the score and the running/game-over status
type Scoreboard interface {
	Score(score int)
	Status(running bool, finalScore int)
}

// Game is the orchestrator of one session: it runs the movement tick,
// per-frame bullet updates and the Running/GameOver state machine.
// All methods take the session clock (monotonic time since session start).
type Game struct {
	cfg      Config
	world    *World
	state    State
	cause    Cause
	lastMove time.Duration
	scene    Scene
	board    Scoreboard
	metrics  *Metrics

	shownScore   int
	shownRunning bool
	shownOnce    bool
}

// NewGame creates a running game. scene, board and metrics may be nil.
func NewGame(cfg Config, rng *rand.Rand, scene Scene, board Scoreboard, metrics *Metrics) *Game {
	g := &Game{
		cfg:     cfg,
		world:   NewWorld(cfg, rng),
		state:   Running,
		scene:   scene,
		board:   board,
		metrics: metrics,
	}
	g.metrics.GameStarted()
	return g
}

// World exposes the session state
func (g *Game) World() *World {
	return g.world
}

func (g *Game) State() State {
	return g.state
}

// Cause is why the last game ended, empty while running
func (g *Game) Cause() Cause {
	return g.cause
}

// HandleKey applies a raw key event. Restart keys work only after game over;
// direction keys only while running; everything else is ignored.
func (g *Game) HandleKey(key string, now time.Duration) {
	if isRestartKey(key) {
		g.Restart(now)
		return
	}
	if dir, ok := ParseKey(key); ok {
		g.Steer(dir, now)
	}
}

// Steer requests a turn. Input arriving within the buffer window before the
// next tick is held for one extra tick.
func (g *Game) Steer(dir Direction, now time.Duration) bool {
	if g.state != Running {
		return false
	}
	buffered := now-g.lastMove > g.cfg.Game.MoveInterval()-g.cfg.Game.InputBuffer()
	return g.world.Snake.Steer(dir, buffered)
}

// Restart reinitializes the world and resumes play. Only valid in GameOver.
func (g *Game) Restart(now time.Duration) bool {
	if g.state != GameOver {
		return false
	}
	g.world.Reset()
	g.state = Running
	g.cause = CauseNone
	g.lastMove = now
	g.metrics.GameStarted()
	return true
}

// Frame runs one display frame: the movement tick when due, then bullets and
// explosions, then the scene update. In GameOver only the scene is refreshed.
func (g *Game) Frame(now time.Duration) {
	if g.state == Running {
		g.simulate(now)
	}
	g.render(now)
}

func (g *Game) simulate(now time.Duration) {
	if now-g.lastMove >= g.cfg.Game.MoveInterval() {
		g.lastMove = now
		if !g.tick(now) {
			return
		}
	}

	res := g.world.Bullets.Update(g.world, now)
	if res.FoodHits > 0 {
		g.metrics.FoodEaten("bullet", res.FoodHits)
	}
	if res.SnakeHit {
		g.end(CauseBullet)
	}
}

// tick moves the snake one cell and resolves walls, self and food in that
// order. Returns false if the game ended.
func (g *Game) tick(now time.Duration) bool {
	w := g.world
	w.Snake.Move()

	if w.Snake.HitsWall(g.cfg.Grid.Size) {
		g.end(CauseWall)
		return false
	}
	if w.Snake.HitsSelf() {
		g.end(CauseSelf)
		return false
	}
	w.reindex()

	if w.Food != nil && w.Snake.Head().Equals(w.Food.Cell) {
		w.EatFood()
		g.metrics.FoodEaten("head", 1)
	}

	if fired := w.Bullets.SpawnFromBody(w.Snake, now, w.rng, &w.ids); fired > 0 {
		g.metrics.BulletsFired(fired)
	}
	return true
}

func (g *Game) end(cause Cause) {
	g.state = GameOver
	g.cause = cause
	g.metrics.GameOver(cause)
	log.Printf("game over (%s), score %d, length %d", cause, g.world.Score, g.world.Snake.Len())
}

// render pushes removals, then every live entity, then score and status
func (g *Game) render(now time.Duration) {
	w := g.world
	removed := w.drainRemoved()

	if g.scene != nil {
		for _, id := range removed {
			g.scene.Remove(id)
		}
		for i, seg := range w.Snake.Segments {
			kind := KindSegment
			if i == 0 {
				kind = KindHead
			}
			pos := seg.Cell.Vec3().Add(WaveOffset(i, now, g.cfg.Wave))
			g.scene.Place(seg.ID, kind, Transform{Pos: pos, Opacity: 1, Scale: 1})
		}
		if w.Food != nil {
			g.scene.Place(w.Food.ID, KindFood, Transform{Pos: w.Food.Cell.Vec3(), Opacity: 1, Scale: 1})
		}
		for _, b := range w.Bullets.Bullets() {
			g.scene.Place(b.ID, KindBullet, Transform{Pos: b.Pos, Opacity: 1, Scale: 1})
		}
		for _, e := range w.Bullets.Explosions() {
			for _, p := range e.Particles {
				g.scene.Place(p.ID, KindParticle, Transform{Pos: p.Pos, Opacity: p.Opacity, Scale: p.Scale})
			}
		}
	}

	if g.board == nil {
		return
	}
	running := g.state == Running
	if !g.shownOnce || w.Score != g.shownScore {
		g.board.Score(w.Score)
	}
	if !g.shownOnce || running != g.shownRunning {
		g.board.Status(running, w.Score)
	}
	g.shownScore = w.Score
	g.shownRunning = running
	g.shownOnce = true
}
