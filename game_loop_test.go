package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	sent  []interface{}
	stats SessionStats
	err   error
}

func (f *fakeConn) Send(msg interface{}) error {
	f.sent = append(f.sent, msg)
	return f.err
}

func (f *fakeConn) setStats(st SessionStats) {
	f.stats = st
}

func (f *fakeConn) states() []StateMsg {
	var out []StateMsg
	for _, m := range f.sent {
		if s, ok := m.(StateMsg); ok {
			out = append(out, s)
		}
	}
	return out
}

func (f *fakeConn) overs() []OverMsg {
	var out []OverMsg
	for _, m := range f.sent {
		if o, ok := m.(OverMsg); ok {
			out = append(out, o)
		}
	}
	return out
}

func newTestLoop(t *testing.T) (*GameLoop, *fakeConn) {
	t.Helper()
	conn := &fakeConn{}
	return NewGameLoop(quietConfig(), "test", conn, nil, 1), conn
}

func TestFrameBufferFlush(t *testing.T) {
	f := &frameBuffer{}
	f.Status(true, 0)
	f.Place(1, KindHead, Transform{Pos: mgl64.Vec3{1.234, 0.5678, 3}, Opacity: 1, Scale: 1})
	f.Place(2, KindParticle, Transform{Pos: mgl64.Vec3{2, 2, 2}, Opacity: 0.456, Scale: 0.7})
	f.Remove(9)
	f.Score(30)

	msg := f.flush()

	assert.Equal(t, MsgState, msg.Type)
	assert.Equal(t, 1, msg.Running)
	assert.Equal(t, 30, msg.Score)
	assert.Equal(t, []EntityID{9}, msg.Removed)
	require.Len(t, msg.Placements, 2)
	assert.Equal(t, PlacementDTO{ID: 1, Kind: "h", Pos: [3]float64{1.23, 0.57, 3}}, msg.Placements[0])
	assert.Equal(t, 0.46, msg.Placements[1].Opacity)
	assert.Equal(t, 0.7, msg.Placements[1].Scale)

	empty := f.flush()
	assert.NotNil(t, empty.Placements)
	assert.Empty(t, empty.Placements)
	assert.Nil(t, empty.Removed)
	assert.Equal(t, 1, empty.Running, "status carries over between frames")
}

func TestFrameBufferMarksEnd(t *testing.T) {
	f := &frameBuffer{}
	f.Status(true, 0)
	f.flush()

	f.Status(false, 40)
	assert.True(t, f.ended)
	msg := f.flush()
	assert.Equal(t, 0, msg.Running)
	assert.Equal(t, 40, msg.Score)
	assert.False(t, f.ended)
}

func TestGameLoopIdleUntilJoin(t *testing.T) {
	gl, conn := newTestLoop(t)

	gl.handle(ClientMessage{Type: MsgKey, Key: "ArrowUp"}, 0)
	gl.handle(ClientMessage{Type: MsgRestart}, 0)
	gl.step(ms(16))

	assert.Empty(t, conn.sent)
}

func TestGameLoopJoinAndSteer(t *testing.T) {
	gl, conn := newTestLoop(t)
	gl.handle(ClientMessage{Type: MsgJoin}, ms(1000))
	moveFood(t, gl.game.World(), Cell{X: 2, Z: 2})

	gl.step(ms(1016))
	states := conn.states()
	require.Len(t, states, 1)
	assert.Equal(t, 1, states[0].Running)
	assert.Len(t, states[0].Placements, 4, "head, two segments and the food")

	gl.handle(ClientMessage{Type: MsgKey, Key: "ArrowDown"}, ms(1020))
	gl.step(ms(1120))

	assert.Equal(t, Cell{10, 11}, gl.game.World().Snake.Head())
	assert.Equal(t, SessionStats{State: "running", Length: 3}, conn.stats)
}

func TestGameLoopReportsGameOverOnce(t *testing.T) {
	gl, conn := newTestLoop(t)
	gl.handle(ClientMessage{Type: MsgJoin}, 0)
	moveFood(t, gl.game.World(), Cell{X: 2, Z: 2})

	for k := 1; k <= 15; k++ {
		gl.step(ms(120 * k))
	}

	overs := conn.overs()
	require.Len(t, overs, 1)
	assert.Equal(t, OverMsg{Type: MsgOver, Cause: "wall", Score: 0}, overs[0])
	assert.Equal(t, "game_over", conn.stats.State)

	gl.handle(ClientMessage{Type: MsgRestart}, ms(2000))
	gl.step(ms(2016))
	assert.Equal(t, Running, gl.game.State())
	assert.Equal(t, "running", conn.stats.State)
}

func TestGameLoopKeepsGoingWhenSendFails(t *testing.T) {
	gl, conn := newTestLoop(t)
	conn.err = errors.New("connection closed")
	gl.handle(ClientMessage{Type: MsgJoin}, 0)
	moveFood(t, gl.game.World(), Cell{X: 2, Z: 2})

	for k := 1; k <= 12; k++ {
		gl.step(ms(120 * k))
	}

	assert.Len(t, conn.overs(), 1)
	assert.Equal(t, "game_over", conn.stats.State)
}

func TestGameLoopAutopilot(t *testing.T) {
	gl, conn := newTestLoop(t)
	gl.handle(ClientMessage{Type: MsgJoin, Autopilot: 1}, 0)
	require.NotNil(t, gl.pilot)

	for k := 1; k <= 15; k++ {
		gl.step(ms(120 * k))
	}

	assert.True(t, conn.stats.Autopilot)
	assert.Empty(t, conn.overs(), "the autopilot steers clear of the wall")

	gl.handle(ClientMessage{Type: MsgJoin}, ms(2000))
	assert.Nil(t, gl.pilot, "joining again without the flag hands control back")
}

func TestGameLoopRunStopsOnCancel(t *testing.T) {
	gl, conn := newTestLoop(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		gl.Run(ctx)
		close(done)
	}()

	gl.Enqueue(ClientMessage{Type: MsgJoin})
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
	assert.NotEmpty(t, conn.states())
}

func TestGameLoopEnqueueDropsWhenFull(t *testing.T) {
	gl, _ := newTestLoop(t)
	for i := 0; i < InputQueueLen+5; i++ {
		gl.Enqueue(ClientMessage{Type: MsgKey, Key: "ArrowUp"})
	}
	assert.Len(t, gl.inputs, InputQueueLen)
}
