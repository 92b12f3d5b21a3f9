package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Server defaults. Port and static dir can be overridden by config or env.
const (
	DefaultPort      = 8080
	DefaultStaticDir = "./client"
	WebSocketPath    = "/ws"

	// Sessions
	MaxPlayers    = 200
	IPCooldownSec = 2  // min seconds between connections from one IP
	FrameRate     = 60 // frames per second driven per session
	InputQueueLen = 16 // key events buffered between read loop and frame loop

	// Smallest board that fits the starting snake with room to turn
	MinGridSize = 6
)

// Fire policies for body-segment bullets
const (
	FirePolicyChance   = "chance"   // flat per-tick probability
	FirePolicyInterval = "interval" // per-segment minimum interval, then probability
)

// Config is the static game configuration, loaded once at startup.
// Durations are expressed in milliseconds to keep the YAML flat.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Grid      GridConfig      `yaml:"grid"`
	Game      GameConfig      `yaml:"game"`
	Bullets   BulletConfig    `yaml:"bullets"`
	Explosion ExplosionConfig `yaml:"explosion"`
	Wave      WaveConfig      `yaml:"wave"`
}

type ServerConfig struct {
	Port      int    `yaml:"port"`
	StaticDir string `yaml:"static_dir"`
}

type GridConfig struct {
	Size     int     `yaml:"size"`      // cells per side, must be even
	CellSize float64 `yaml:"cell_size"` // world units per cell, for the renderer
}

type GameConfig struct {
	MoveIntervalMS  int `yaml:"move_interval_ms"`
	InputBufferMS   int `yaml:"input_buffer_ms"`
	ScorePerFood    int `yaml:"score_per_food"`
	FoodMargin      int `yaml:"food_margin"`       // rows kept free of food next to each wall
	FoodMaxAttempts int `yaml:"food_max_attempts"` // random samples before the linear scan
}

type BulletConfig struct {
	Speed            float64 `yaml:"speed"` // cells per frame
	LifetimeMS       int     `yaml:"lifetime_ms"`
	SpawnChance      float64 `yaml:"spawn_chance"`
	FirePolicy       string  `yaml:"fire_policy"`
	FireBaseMS       int     `yaml:"fire_base_ms"` // interval policy: segment i waits base + i*step
	FireStepMS       int     `yaml:"fire_step_ms"`
	MuzzleOffset     float64 `yaml:"muzzle_offset"` // spawn distance from the segment centre
	FoodHitRadius    float64 `yaml:"food_hit_radius"`
	SnakeHits        bool    `yaml:"snake_hits"`
	SnakeHitRadius   float64 `yaml:"snake_hit_radius"`
	SelfHitGraceMS   int     `yaml:"self_hit_grace_ms"`
	DiagonalsEnabled bool    `yaml:"diagonals"`
}

type ExplosionConfig struct {
	Particles  int     `yaml:"particles"`
	DurationMS int     `yaml:"duration_ms"`
	Spread     float64 `yaml:"spread"` // max initial offset per axis
	Speed      float64 `yaml:"speed"`  // velocity range per axis, cells per frame
	Gravity    float64 `yaml:"gravity"`
}

type WaveConfig struct {
	BaseFrequency float64 `yaml:"base_frequency" json:"baseFrequency"`
	BounceHeight  float64 `yaml:"bounce_height" json:"bounceHeight"`
	WobbleAmount  float64 `yaml:"wobble_amount" json:"wobbleAmount"`
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:      DefaultPort,
			StaticDir: DefaultStaticDir,
		},
		Grid: GridConfig{
			Size:     20,
			CellSize: 1,
		},
		Game: GameConfig{
			MoveIntervalMS:  120,
			InputBufferMS:   50,
			ScorePerFood:    10,
			FoodMargin:      1,
			FoodMaxAttempts: 1000,
		},
		Bullets: BulletConfig{
			Speed:            0.15,
			LifetimeMS:       3000,
			SpawnChance:      0.1,
			FirePolicy:       FirePolicyChance,
			FireBaseMS:       2000,
			FireStepMS:       500,
			MuzzleOffset:     0.6,
			FoodHitRadius:    0.6,
			SnakeHits:        false,
			SnakeHitRadius:   0.5,
			SelfHitGraceMS:   400,
			DiagonalsEnabled: true,
		},
		Explosion: ExplosionConfig{
			Particles:  15,
			DurationMS: 500,
			Spread:     0.2,
			Speed:      0.05,
			Gravity:    0,
		},
		Wave: WaveConfig{
			BaseFrequency: 4,
			BounceHeight:  0.8,
			WobbleAmount:  0.15,
		},
	}
}

func (c GameConfig) MoveInterval() time.Duration {
	return time.Duration(c.MoveIntervalMS) * time.Millisecond
}

func (c GameConfig) InputBuffer() time.Duration {
	return time.Duration(c.InputBufferMS) * time.Millisecond
}

func (c BulletConfig) Lifetime() time.Duration {
	return time.Duration(c.LifetimeMS) * time.Millisecond
}

func (c BulletConfig) SelfHitGrace() time.Duration {
	return time.Duration(c.SelfHitGraceMS) * time.Millisecond
}

// FireInterval is the minimum gap between shots of segment index i
// under the interval policy.
func (c BulletConfig) FireInterval(i int) time.Duration {
	return time.Duration(c.FireBaseMS+i*c.FireStepMS) * time.Millisecond
}

func (c ExplosionConfig) Duration() time.Duration {
	return time.Duration(c.DurationMS) * time.Millisecond
}

var errInvalidConfig = errors.New("invalid config")

// Validate reports the first setting the simulation cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Grid.Size < MinGridSize || c.Grid.Size%2 != 0:
		return fmt.Errorf("%w: grid size %d must be an even number of at least %d", errInvalidConfig, c.Grid.Size, MinGridSize)
	case c.Grid.CellSize <= 0:
		return fmt.Errorf("%w: cell size must be positive", errInvalidConfig)
	case c.Game.MoveIntervalMS <= 0:
		return fmt.Errorf("%w: move interval must be positive", errInvalidConfig)
	case c.Game.InputBufferMS < 0 || c.Game.InputBufferMS >= c.Game.MoveIntervalMS:
		return fmt.Errorf("%w: input buffer %dms must be shorter than the move interval", errInvalidConfig, c.Game.InputBufferMS)
	case c.Game.FoodMargin < 0 || 2*c.Game.FoodMargin >= c.Grid.Size:
		return fmt.Errorf("%w: food margin %d leaves no room on a %d grid", errInvalidConfig, c.Game.FoodMargin, c.Grid.Size)
	case c.Bullets.Speed <= 0 || c.Bullets.LifetimeMS <= 0:
		return fmt.Errorf("%w: bullet speed and lifetime must be positive", errInvalidConfig)
	case c.Bullets.SpawnChance < 0 || c.Bullets.SpawnChance > 1:
		return fmt.Errorf("%w: spawn chance %.2f outside [0,1]", errInvalidConfig, c.Bullets.SpawnChance)
	case c.Bullets.FirePolicy != FirePolicyChance && c.Bullets.FirePolicy != FirePolicyInterval:
		return fmt.Errorf("%w: unknown fire policy %q", errInvalidConfig, c.Bullets.FirePolicy)
	case c.Game.FoodMaxAttempts < 1:
		return fmt.Errorf("%w: food placement needs at least one attempt", errInvalidConfig)
	case c.Bullets.MuzzleOffset < 0 || c.Bullets.FoodHitRadius < 0 || c.Bullets.SnakeHitRadius < 0:
		return fmt.Errorf("%w: muzzle offset and hit radii must not be negative", errInvalidConfig)
	case c.Bullets.SnakeHits && c.Bullets.SelfHitGraceMS < c.Game.MoveIntervalMS:
		return fmt.Errorf("%w: self-hit grace %dms must cover a move interval", errInvalidConfig, c.Bullets.SelfHitGraceMS)
	case c.Explosion.Spread < 0 || c.Explosion.Speed < 0:
		return fmt.Errorf("%w: explosion spread and speed must not be negative", errInvalidConfig)
	case c.Explosion.Particles < 0 || c.Explosion.DurationMS <= 0:
		return fmt.Errorf("%w: explosion needs a positive duration", errInvalidConfig)
	}
	return nil
}

// LoadConfig reads a YAML file over the defaults.
// If path is empty, SNAKE_CONFIG is consulted; with neither set the defaults are returned.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = os.Getenv("SNAKE_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.Server.Port = intWithEnvFallback(cfg.Server.Port, "SNAKE_PORT", DefaultPort)
	if env := os.Getenv("SNAKE_STATIC_DIR"); env != "" {
		cfg.Server.StaticDir = env
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// intWithEnvFallback resolves a setting with priority env -> config -> default
func intWithEnvFallback(configured int, envVar string, fallback int) int {
	if envVal := os.Getenv(envVar); envVal != "" {
		if v, err := strconv.Atoi(envVal); err == nil && v > 0 {
			return v
		}
	}
	if configured > 0 {
		return configured
	}
	return fallback
}
