package main

import "math/rand"

// Autopilot tuning
const (
	AutopilotDangerRadius = 1.5 // cells; bullets closer than this to a candidate cell are avoided
	AutopilotSeekLimit    = 4   // scales the ticks a food chase may run before it is abandoned
	AutopilotWanderMin    = 3
	AutopilotWanderMax    = 8
)

// Autopilot steers a snake on its own: demo sessions and long-running tests.
// Moves off the board or into the body are never taken. Among the rest it
// prefers enough room to fit the body, then cells clear of bullets, then the
// food, then its wander heading.
type Autopilot struct {
	rng         *rand.Rand
	wanderTicks int
	wanderDir   Direction
	seekTicks   int
	seekBudget  int
	lastScore   int
}

// NewAutopilot creates an autopilot drawing randomness from rng
func NewAutopilot(rng *rand.Rand) *Autopilot {
	return &Autopilot{rng: rng, wanderDir: DirRight}
}

// candidate is a possible next move with its ranking inputs
type candidate struct {
	dir    Direction
	safe   bool
	room   int
	danger bool
	dist   int
}

// Decide returns the direction to steer for the coming tick. Call once per tick.
// Returns false when every move is fatal.
func (a *Autopilot) Decide(w *World) (Direction, bool) {
	s := w.Snake
	head := s.Head()
	size := w.cfg.Grid.Size

	if w.Score > a.lastScore {
		a.seekTicks = 0
		a.seekBudget = 0
		a.wanderTicks = 0
	}
	a.lastScore = w.Score
	chase := w.Food != nil && a.chasing()

	var cands []candidate
	for _, d := range Directions {
		if s.Len() > 1 && d.IsReverseOf(s.Direction()) {
			continue
		}
		next := head.Add(d)
		c := candidate{dir: d, safe: next.InBounds(size) && !a.blocked(s, next)}
		if c.safe {
			c.room = a.room(w, next, s.Len())
			c.danger = a.bulletNear(w, next)
			if w.Food != nil {
				c.dist = manhattan(next, w.Food.Cell)
			}
		}
		cands = append(cands, c)
	}

	best := -1
	for i, c := range cands {
		if !c.safe {
			continue
		}
		if best < 0 || a.better(c, cands[best], s, chase) {
			best = i
		}
	}
	if best < 0 {
		return Direction{}, false
	}
	return cands[best].dir, true
}

// better ranks x over y: room first, then bullets, then food, then wander
func (a *Autopilot) better(x, y candidate, s *Snake, chase bool) bool {
	xRoomy, yRoomy := x.room >= s.Len(), y.room >= s.Len()
	if xRoomy != yRoomy {
		return xRoomy
	}
	if !xRoomy && x.room != y.room {
		return x.room > y.room
	}
	if x.danger != y.danger {
		return !x.danger
	}
	if chase && x.dist != y.dist {
		return x.dist < y.dist
	}
	return a.prefer(x.dir, s) && !a.prefer(y.dir, s)
}

// chasing advances the seek/wander cycle by one tick and reports whether the
// pilot should chase food this tick. A chase that overruns its budget without
// eating switches to a short wander to break loops.
func (a *Autopilot) chasing() bool {
	if a.wanderTicks > 0 {
		a.wanderTicks--
		return false
	}
	if a.seekBudget == 0 {
		a.seekBudget = 2*AutopilotSeekLimit + a.rng.Intn(AutopilotSeekLimit*4)
	}
	a.seekTicks++
	if a.seekTicks <= a.seekBudget {
		return true
	}
	a.seekTicks = 0
	a.seekBudget = 0
	a.wanderTicks = AutopilotWanderMin + a.rng.Intn(AutopilotWanderMax-AutopilotWanderMin+1)
	a.wanderDir = Directions[a.rng.Intn(len(Directions))]
	return false
}

// prefer is the wander tiebreak: the wander heading, else straight on
func (a *Autopilot) prefer(d Direction, s *Snake) bool {
	if a.wanderTicks > 0 {
		return d == a.wanderDir
	}
	return d == s.Direction()
}

// blocked reports whether moving onto c hits the body. The tail cell is free
// because the tail moves away on the same tick, unless the snake just grew
// and two segments share it.
func (a *Autopilot) blocked(s *Snake, c Cell) bool {
	n := s.Len()
	for i := 0; i < n-1; i++ {
		if s.Segments[i].Cell.Equals(c) {
			return true
		}
	}
	tail := s.Segments[n-1].Cell
	return tail.Equals(c) && n > 1 && s.Segments[n-2].Cell.Equals(tail)
}

// room counts free cells reachable from start, stopping at limit
func (a *Autopilot) room(w *World, start Cell, limit int) int {
	size := w.cfg.Grid.Size
	seen := map[Cell]bool{start: true}
	queue := []Cell{start}
	for len(queue) > 0 && len(seen) < limit {
		c := queue[0]
		queue = queue[1:]
		for _, d := range Directions {
			n := c.Add(d)
			if seen[n] || !n.InBounds(size) || w.Occupied(n) {
				continue
			}
			seen[n] = true
			queue = append(queue, n)
		}
	}
	return len(seen)
}

// bulletNear reports whether a bullet, after one tick of travel, ends up
// within AutopilotDangerRadius of c
func (a *Autopilot) bulletNear(w *World, c Cell) bool {
	frames := float64(w.cfg.Game.MoveIntervalMS) * FrameRate / 1000
	for _, b := range w.Bullets.Bullets() {
		ahead := b.Pos.Add(b.Dir.Mul(w.cfg.Bullets.Speed * frames))
		if cellDistance(ahead, c) < AutopilotDangerRadius || cellDistance(b.Pos, c) < AutopilotDangerRadius {
			return true
		}
	}
	return false
}

func manhattan(a, b Cell) int {
	return abs(a.X-b.X) + abs(a.Z-b.Z)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
