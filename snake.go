package main

// Segment is one body block. Its ID stays with its index for the life of the
// snake; only the cell is overwritten as the body follows the head.
type Segment struct {
	ID   EntityID
	Cell Cell
}

// Snake is an ordered body, index 0 = head.
//
// Direction changes pass through two slots: pending is committed on the next
// move, buffer is promoted to pending on the next move and therefore committed
// one move later. Each slot holds at most one direction; later input overwrites.
type Snake struct {
	Segments []Segment
	current  Direction
	pending  Direction
	buffer   *Direction
	ids      *idSource
}

// NewSnake creates a snake of the given length with its head on head and the
// body trailing in a straight line behind it.
func NewSnake(head Cell, dir Direction, length int, ids *idSource) *Snake {
	if length < 1 {
		length = 1
	}
	s := &Snake{
		Segments: make([]Segment, 0, length),
		current:  dir,
		pending:  dir,
		ids:      ids,
	}
	back := dir.Reverse()
	cell := head
	for i := 0; i < length; i++ {
		s.Segments = append(s.Segments, Segment{ID: ids.Next(), Cell: cell})
		cell = cell.Add(back)
	}
	return s
}

// Head returns the head cell
func (s *Snake) Head() Cell {
	return s.Segments[0].Cell
}

func (s *Snake) Len() int {
	return len(s.Segments)
}

// Direction is the committed travel direction
func (s *Snake) Direction() Direction {
	return s.current
}

// Pending is the direction the next move will commit
func (s *Snake) Pending() Direction {
	return s.pending
}

// Buffered returns the held direction, if any
func (s *Snake) Buffered() (Direction, bool) {
	if s.buffer == nil {
		return Direction{}, false
	}
	return *s.buffer, true
}

// Cells returns a copy of the body cells, head first
func (s *Snake) Cells() []Cell {
	cells := make([]Cell, len(s.Segments))
	for i, seg := range s.Segments {
		cells[i] = seg.Cell
	}
	return cells
}

// Steer requests a direction change. A request reversing the current travel
// of a snake longer than one segment is refused and returns false.
// Buffered requests are held one extra move.
func (s *Snake) Steer(dir Direction, buffered bool) bool {
	if dir.IsZero() {
		return false
	}
	if s.Len() > 1 && dir.IsReverseOf(s.current) {
		return false
	}
	if buffered {
		d := dir
		s.buffer = &d
	} else {
		s.pending = dir
	}
	return true
}

// Move commits the pending direction, promotes the buffered one and advances
// the body one cell. Returns the new head.
func (s *Snake) Move() Cell {
	// A pending turn validated against an older direction may now reverse
	// the body; keep going straight instead.
	if !(s.Len() > 1 && s.pending.IsReverseOf(s.current)) {
		s.current = s.pending
	}
	s.pending = s.current
	if s.buffer != nil {
		s.pending = *s.buffer
		s.buffer = nil
	}

	newHead := s.Head().Add(s.current)
	for i := len(s.Segments) - 1; i > 0; i-- {
		s.Segments[i].Cell = s.Segments[i-1].Cell
	}
	s.Segments[0].Cell = newHead
	return newHead
}

// AddSegment appends a segment on the tail cell; the next move separates it.
func (s *Snake) AddSegment() Segment {
	tail := s.Segments[len(s.Segments)-1].Cell
	seg := Segment{ID: s.ids.Next(), Cell: tail}
	s.Segments = append(s.Segments, seg)
	return seg
}

// HitsWall reports whether the head left a size x size board
func (s *Snake) HitsWall(size int) bool {
	return !s.Head().InBounds(size)
}

// HitsSelf reports whether the head shares a cell with any body segment
func (s *Snake) HitsSelf() bool {
	head := s.Head()
	for i := 1; i < len(s.Segments); i++ {
		if s.Segments[i].Cell.Equals(head) {
			return true
		}
	}
	return false
}

// Occupies reports whether any segment sits on c
func (s *Snake) Occupies(c Cell) bool {
	for _, seg := range s.Segments {
		if seg.Cell.Equals(c) {
			return true
		}
	}
	return false
}
