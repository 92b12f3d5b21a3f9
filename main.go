package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ipRateLimiter tracks last connection time per IP to prevent abuse
type ipRateLimiter struct {
	mu       sync.Mutex
	times    map[string]time.Time
	cooldown time.Duration
}

func newIPRateLimiter(cooldown time.Duration) *ipRateLimiter {
	return &ipRateLimiter{times: make(map[string]time.Time), cooldown: cooldown}
}

// allow returns true if this IP can connect, and records the attempt
func (rl *ipRateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if last, ok := rl.times[ip]; ok {
		if time.Since(last) < rl.cooldown {
			return false
		}
	}
	rl.times[ip] = time.Now()
	return true
}

// sweep drops entries older than the cooldown
func (rl *ipRateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := time.Now().Add(-rl.cooldown)
	for ip, t := range rl.times {
		if t.Before(cutoff) {
			delete(rl.times, ip)
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for development; tighten in production
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Enable per-message deflate compression (RFC 7692)
	EnableCompression: true,
}

// sendErrorAndClose sends an error message via WebSocket then closes the connection
func sendErrorAndClose(ws *websocket.Conn, msg string) {
	conn := &Conn{ws: ws}
	_ = conn.Send(ErrorMsg{Type: MsgError, Message: msg})
	conn.Close()
}

// Server wires sessions, the REST API and metrics onto one gin engine
type Server struct {
	cfg         Config
	conns       *ConnManager
	metrics     *Metrics
	rateLimiter *ipRateLimiter
	router      *gin.Engine
}

// NewServer builds the router. gatherer backs the /metrics endpoint.
func NewServer(cfg Config, metrics *Metrics, gatherer prometheus.Gatherer) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		cfg:         cfg,
		conns:       NewConnManager(),
		metrics:     metrics,
		rateLimiter: newIPRateLimiter(IPCooldownSec * time.Second),
		router:      router,
	}

	router.GET(WebSocketPath, s.handleWebSocket)
	api := router.Group("/api")
	{
		api.GET("/config", s.handleConfig)
		api.GET("/sessions", s.handleSessions)
		api.GET("/sessions/:id", s.handleSession)
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Serve static client files
	router.NoRoute(gin.WrapH(http.FileServer(http.Dir(cfg.Server.StaticDir))))
	return s
}

// Handler exposes the router
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleWebSocket(c *gin.Context) {
	// Extract client IP (handle X-Forwarded-For for reverse proxies)
	ip := c.Request.Header.Get("X-Forwarded-For")
	if ip == "" {
		ip, _, _ = net.SplitHostPort(c.Request.RemoteAddr)
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	// Check limits after upgrade so client can receive error messages
	if s.conns.Count() >= MaxPlayers {
		sendErrorAndClose(ws, "Server full. Please try again later.")
		return
	}
	if !s.rateLimiter.allow(ip) {
		sendErrorAndClose(ws, "Too many connections. Please wait a moment.")
		return
	}

	// Enable per-message write compression at best-speed level
	ws.EnableWriteCompression(true)

	conn := NewConn(ws)
	s.conns.Add(conn)
	s.metrics.SessionOpened()
	log.Printf("player connected: %s", conn.ID)

	// Send welcome immediately so client can build the board
	_ = conn.Send(WelcomeMsg{
		Type:         MsgWelcome,
		ID:           conn.ID,
		GridSize:     s.cfg.Grid.Size,
		CellSize:     s.cfg.Grid.CellSize,
		MoveInterval: s.cfg.Game.MoveIntervalMS,
	})

	ctx, cancel := context.WithCancel(context.Background())
	loop := NewGameLoop(s.cfg, conn.ID, conn, s.metrics, time.Now().UnixNano())
	go loop.Run(ctx)

	onDisconnect := func(c *Conn) {
		cancel()
		s.conns.Remove(c.ID)
		s.metrics.SessionClosed()
		log.Printf("player disconnected: %s", c.ID)
	}

	// Blocking read loop, runs until the client disconnects
	conn.ReadLoop(loop.Enqueue, onDisconnect)
}

// configDTO is the subset of the config the client needs to render
type configDTO struct {
	GridSize       int        `json:"gridSize"`
	CellSize       float64    `json:"cellSize"`
	MoveIntervalMS int        `json:"moveIntervalMs"`
	Wave           WaveConfig `json:"wave"`
}

func (s *Server) handleConfig(c *gin.Context) {
	c.JSON(http.StatusOK, configDTO{
		GridSize:       s.cfg.Grid.Size,
		CellSize:       s.cfg.Grid.CellSize,
		MoveIntervalMS: s.cfg.Game.MoveIntervalMS,
		Wave:           s.cfg.Wave,
	})
}

func (s *Server) handleSessions(c *gin.Context) {
	conns := s.conns.Snapshot()
	sessions := make([]SessionStats, 0, len(conns))
	for _, conn := range conns {
		sessions = append(sessions, conn.Stats())
	}
	c.JSON(http.StatusOK, gin.H{"count": len(sessions), "sessions": sessions})
}

func (s *Server) handleSession(c *gin.Context) {
	conn, ok := s.conns.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, conn.Stats())
}

func main() {
	configPath := flag.String("config", "", "path to YAML config (default: $SNAKE_CONFIG)")
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := NewMetrics(prometheus.DefaultRegisterer)
	srv := NewServer(cfg, metrics, prometheus.DefaultGatherer)

	// Cleanup stale rate limiter entries every 60s
	go func() {
		for range time.Tick(60 * time.Second) {
			srv.rateLimiter.sweep()
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("server listening on %s (grid %dx%d, tick %dms)", addr, cfg.Grid.Size, cfg.Grid.Size, cfg.Game.MoveIntervalMS)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
