package main

import (
	"context"
	"log"
	"math"
	"math/rand"
	"time"
)

// sessionConn is the part of Conn a game loop writes to
type sessionConn interface {
	Send(msg interface{}) error
	setStats(st SessionStats)
}

// frameBuffer collects one frame of scene and scoreboard updates and turns
// them into a StateMsg.
type frameBuffer struct {
	placements []PlacementDTO
	removed    []EntityID
	score      int
	running    bool
	ended      bool // set when the scoreboard switched to game over this frame
}

func (f *frameBuffer) Place(id EntityID, kind EntityKind, t Transform) {
	p := PlacementDTO{
		ID:   id,
		Kind: kind.Code(),
		Pos:  [3]float64{roundTo2(t.Pos.X()), roundTo2(t.Pos.Y()), roundTo2(t.Pos.Z())},
	}
	if kind == KindParticle {
		p.Opacity = roundTo2(t.Opacity)
		p.Scale = roundTo2(t.Scale)
	}
	f.placements = append(f.placements, p)
}

func (f *frameBuffer) Remove(id EntityID) {
	f.removed = append(f.removed, id)
}

func (f *frameBuffer) Score(score int) {
	f.score = score
}

func (f *frameBuffer) Status(running bool, finalScore int) {
	if f.running && !running {
		f.ended = true
	}
	f.running = running
	f.score = finalScore
}

// flush returns the collected frame and resets the buffer for the next one
func (f *frameBuffer) flush() StateMsg {
	running := 0
	if f.running {
		running = 1
	}
	msg := StateMsg{
		Type:       MsgState,
		Placements: f.placements,
		Removed:    f.removed,
		Score:      f.score,
		Running:    running,
	}
	if msg.Placements == nil {
		msg.Placements = []PlacementDTO{}
	}
	f.placements = nil
	f.removed = nil
	f.ended = false
	return msg
}

// GameLoop drives one session at a fixed frame rate. It is the only
// goroutine touching the session's Game; input reaches it through a channel.
type GameLoop struct {
	cfg     Config
	conn    sessionConn
	id      string
	game    *Game // nil until the client joins
	pilot   *Autopilot
	frame   *frameBuffer
	inputs  chan ClientMessage
	metrics *Metrics
	rng     *rand.Rand
	start   time.Time
}

// NewGameLoop creates a loop bound to one connection
func NewGameLoop(cfg Config, id string, conn sessionConn, metrics *Metrics, seed int64) *GameLoop {
	return &GameLoop{
		cfg:     cfg,
		conn:    conn,
		id:      id,
		frame:   &frameBuffer{},
		inputs:  make(chan ClientMessage, InputQueueLen),
		metrics: metrics,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Enqueue hands a client message to the loop. Called from the read loop;
// drops the message if the loop is falling behind.
func (gl *GameLoop) Enqueue(msg ClientMessage) {
	select {
	case gl.inputs <- msg:
	default:
		log.Printf("input queue full for %s, dropping %q", gl.id, msg.Type)
	}
}

// Run starts the fixed-rate frame loop. Blocks until ctx is cancelled.
func (gl *GameLoop) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second / FrameRate)
	defer ticker.Stop()
	gl.start = time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-gl.inputs:
			gl.handle(msg, time.Since(gl.start))
		case <-ticker.C:
			began := time.Now()
			gl.step(time.Since(gl.start))
			gl.metrics.ObserveFrame(time.Since(began))
		}
	}
}

// handle applies one client message at session time now
func (gl *GameLoop) handle(msg ClientMessage, now time.Duration) {
	switch msg.Type {
	case MsgJoin:
		if gl.game == nil {
			gl.game = NewGame(gl.cfg, gl.rng, gl.frame, gl.frame, gl.metrics)
			gl.game.lastMove = now
			log.Printf("session %s joined (autopilot=%v)", gl.id, msg.Autopilot == 1)
		}
		gl.pilot = nil
		if msg.Autopilot == 1 {
			gl.pilot = NewAutopilot(gl.rng)
		}
	case MsgKey:
		if gl.game != nil {
			gl.game.HandleKey(msg.Key, now)
		}
	case MsgRestart:
		if gl.game != nil {
			gl.game.Restart(now)
		}
	}
}

// step runs one frame and ships it to the client
func (gl *GameLoop) step(now time.Duration) {
	g := gl.game
	if g == nil {
		return
	}
	g.Frame(now)

	// The autopilot decides right after each tick, well outside the
	// input buffer window, so its turn lands on the next tick.
	if gl.pilot != nil && g.State() == Running && g.lastMove == now {
		if dir, ok := gl.pilot.Decide(g.World()); ok {
			g.Steer(dir, now)
		}
	}

	ended := gl.frame.ended
	if err := gl.conn.Send(gl.frame.flush()); err != nil {
		log.Printf("send error to %s: %v", gl.id, err)
	}
	if ended {
		if err := gl.conn.Send(OverMsg{Type: MsgOver, Cause: string(g.Cause()), Score: g.World().Score}); err != nil {
			log.Printf("send error to %s: %v", gl.id, err)
		}
	}

	gl.conn.setStats(SessionStats{
		State:     g.State().String(),
		Score:     g.World().Score,
		Length:    g.World().Snake.Len(),
		Autopilot: gl.pilot != nil,
	})
}

// roundTo2 rounds a float64 to 2 decimal places to save protocol bytes.
func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
