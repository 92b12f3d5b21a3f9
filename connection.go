package main

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// SessionStats is the public summary of a session, published by its game
// loop for the REST API.
type SessionStats struct {
	ID        string `json:"id"`
	State     string `json:"state"`
	Score     int    `json:"score"`
	Length    int    `json:"length"`
	Autopilot bool   `json:"autopilot"`
}

// Conn manages a single WebSocket player session
type Conn struct {
	ID     string
	ws     *websocket.Conn
	stats  SessionStats
	mu     sync.Mutex // protects stats and ws writes
	closed bool
}

// NewConn creates a new connection wrapper
func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{
		ID: uuid.New().String(),
		ws: ws,
	}
}

// Send serializes msg to JSON and writes it to the WebSocket
func (c *Conn) Send(msg interface{}) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// Stats returns the latest published session summary
func (c *Conn) Stats() SessionStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.stats
	st.ID = c.ID
	return st
}

// setStats publishes a new summary under lock
func (c *Conn) setStats(st SessionStats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = st
}

// Close marks connection closed
func (c *Conn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.ws.Close()
}

// ConnManager manages all active connections
type ConnManager struct {
	mu    sync.RWMutex
	conns map[string]*Conn
}

// NewConnManager creates an empty connection manager
func NewConnManager() *ConnManager {
	return &ConnManager{conns: make(map[string]*Conn)}
}

// Add registers a connection
func (m *ConnManager) Add(c *Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conns[c.ID] = c
}

// Remove unregisters a connection
func (m *ConnManager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.conns, id)
}

// Get returns a connection by ID
func (m *ConnManager) Get(id string) (*Conn, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.conns[id]
	return c, ok
}

// Count returns the number of active connections
func (m *ConnManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.conns)
}

// Snapshot returns a copy of all current connections
func (m *ConnManager) Snapshot() []*Conn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := make([]*Conn, 0, len(m.conns))
	for _, c := range m.conns {
		list = append(list, c)
	}
	return list
}

// ReadLoop decodes incoming messages until the connection closes.
// Compact protocol: single-char "t" field for message type.
//
//	"j" = join, "k" = key, "r" = restart
//
// onMessage is called for every well-formed message, in arrival order.
// onDisconnect is called when the connection closes.
func (c *Conn) ReadLoop(onMessage func(msg ClientMessage), onDisconnect func(conn *Conn)) {
	defer func() {
		onDisconnect(c)
		c.Close()
	}()

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws read error for %s: %v", c.ID, err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Printf("bad message from %s: %v", c.ID, err)
			continue
		}

		switch msg.Type {
		case MsgJoin, MsgKey, MsgRestart:
			onMessage(msg)
		default:
			log.Printf("unknown message type %q from %s", msg.Type, c.ID)
		}
	}
}
