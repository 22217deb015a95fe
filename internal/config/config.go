package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// GameServer holds all configuration for the simulation core.
type GameServer struct {
	LogLevel string `yaml:"log_level"`

	// Database
	Database DatabaseConfig `yaml:"database"`

	// World tuning
	World WorldConfig `yaml:"world"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// WorldConfig tunes the tick loop and visibility model.
type WorldConfig struct {
	TickInterval time.Duration `yaml:"tick_interval"` // scheduler sleep between iterations
	ErrorBackoff time.Duration `yaml:"error_backoff"` // extra sleep after a failed iteration
	TickBudget   time.Duration `yaml:"tick_budget"`   // soft per-instance tick budget (logged, not aborted)

	// Visibility hysteresis: an entity becomes visible at enter and stays
	// visible until it moves past exit. enter < exit prevents flicker.
	EnterRadius int32 `yaml:"enter_radius"`
	ExitRadius  int32 `yaml:"exit_radius"`

	DropTTL        time.Duration `yaml:"drop_ttl"`         // ground drop lifetime
	DropOwnerGrace time.Duration `yaml:"drop_owner_grace"` // exclusive pickup window

	// LostDropBroadcast re-announces a drop to prior viewers once its
	// ownership grace elapses. Off by default.
	LostDropBroadcast bool `yaml:"lost_drop_broadcast"`

	RespawnDelay   time.Duration `yaml:"respawn_delay"`   // post-death grace before respawn
	AntiKite       time.Duration `yaml:"anti_kite"`       // give up pursuit after this long without landing a hit
	AttackCooldown time.Duration `yaml:"attack_cooldown"` // monster swing interval
	SkillRearm     time.Duration `yaml:"skill_rearm"`     // minimum gap between skill-cast considerations

	// InstanceWait bounds the polling loop a session runs while waiting
	// for a freshly requested dungeon instance to appear.
	InstanceWait     time.Duration `yaml:"instance_wait"`
	InstancePollStep time.Duration `yaml:"instance_poll_step"`

	// Per-session maintenance cadences, in ticks.
	BuffTicks  int `yaml:"buff_ticks"`  // debuff expiry sweep
	SyncTicks  int `yaml:"sync_ticks"`  // resource sync packet
	SaveTicks  int `yaml:"save_ticks"`  // fire-and-forget persistence
	PartyTicks int `yaml:"party_ticks"` // party position refresh
}

// DefaultGameServer returns a GameServer config with sensible defaults.
func DefaultGameServer() GameServer {
	return GameServer{
		LogLevel: "info",
		Database: DatabaseConfig{
			Host:    "127.0.0.1",
			Port:    5432,
			User:    "dmogo",
			DBName:  "dmogo",
			SSLMode: "disable",
		},
		World: DefaultWorld(),
	}
}

// DefaultWorld returns the default world tuning.
func DefaultWorld() WorldConfig {
	return WorldConfig{
		TickInterval:     500 * time.Millisecond,
		ErrorBackoff:     3 * time.Second,
		TickBudget:       400 * time.Millisecond,
		EnterRadius:      26,
		ExitRadius:       32,
		DropTTL:          60 * time.Second,
		DropOwnerGrace:   15 * time.Second,
		RespawnDelay:     20 * time.Second,
		AntiKite:         15 * time.Second,
		AttackCooldown:   2 * time.Second,
		SkillRearm:       6 * time.Second,
		InstanceWait:     10 * time.Second,
		InstancePollStep: 250 * time.Millisecond,
		BuffTicks:        2,
		SyncTicks:        10,
		SaveTicks:        120,
		PartyTicks:       4,
	}
}

// LoadGameServer reads a yaml config file, applying defaults for any
// field the file leaves zero.
func LoadGameServer(path string) (GameServer, error) {
	cfg := DefaultGameServer()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.World.applyDefaults()
	return cfg, nil
}

func (w *WorldConfig) applyDefaults() {
	def := DefaultWorld()
	if w.TickInterval <= 0 {
		w.TickInterval = def.TickInterval
	}
	if w.ErrorBackoff <= 0 {
		w.ErrorBackoff = def.ErrorBackoff
	}
	if w.TickBudget <= 0 {
		w.TickBudget = def.TickBudget
	}
	if w.EnterRadius <= 0 {
		w.EnterRadius = def.EnterRadius
	}
	if w.ExitRadius <= w.EnterRadius {
		w.ExitRadius = w.EnterRadius + (def.ExitRadius - def.EnterRadius)
	}
	if w.DropTTL <= 0 {
		w.DropTTL = def.DropTTL
	}
	if w.DropOwnerGrace <= 0 {
		w.DropOwnerGrace = def.DropOwnerGrace
	}
	if w.RespawnDelay <= 0 {
		w.RespawnDelay = def.RespawnDelay
	}
	if w.AntiKite <= 0 {
		w.AntiKite = def.AntiKite
	}
	if w.AttackCooldown <= 0 {
		w.AttackCooldown = def.AttackCooldown
	}
	if w.SkillRearm <= 0 {
		w.SkillRearm = def.SkillRearm
	}
	if w.InstanceWait <= 0 {
		w.InstanceWait = def.InstanceWait
	}
	if w.InstancePollStep <= 0 {
		w.InstancePollStep = def.InstancePollStep
	}
	if w.BuffTicks <= 0 {
		w.BuffTicks = def.BuffTicks
	}
	if w.SyncTicks <= 0 {
		w.SyncTicks = def.SyncTicks
	}
	if w.SaveTicks <= 0 {
		w.SaveTicks = def.SaveTicks
	}
	if w.PartyTicks <= 0 {
		w.PartyTicks = def.PartyTicks
	}
}
