// Package config holds every tuning value of the arena simulation. The zero
// document is never used directly: Default returns the values of the shipped
// game and Parse overlays a YAML document on top of them.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the root tuning document.
type Config struct {
	Seed    int64         `yaml:"seed"`
	Terrain TerrainConfig `yaml:"terrain"`
	Nav     NavConfig     `yaml:"nav"`
	Player  PlayerConfig  `yaml:"player"`
	Enemies EnemyTable    `yaml:"enemies"`
	Waves   WaveConfig    `yaml:"waves"`
}

// TerrainConfig shapes the archipelago built at session start.
type TerrainConfig struct {
	MainRadius        float64 `yaml:"main_radius"`
	MainHeight        float64 `yaml:"main_height"`
	SecondaryRadius   float64 `yaml:"secondary_radius"`
	SecondaryHeight   float64 `yaml:"secondary_height"`
	SecondaryCount    int     `yaml:"secondary_count"`
	SecondaryDistance float64 `yaml:"secondary_distance"`

	BridgeWidth  float64 `yaml:"bridge_width"`
	BridgeHeight float64 `yaml:"bridge_height"`
	BridgeInset  float64 `yaml:"bridge_inset"` // distance from the island rim back toward its center
	BridgeDrop   float64 `yaml:"bridge_drop"`  // deck sinks this far below the higher island top
	SectorWidth  float64 `yaml:"sector_width"` // full angular width of a blocked bridge mouth

	SpawnMinDist    float64 `yaml:"spawn_min_dist"`
	SpawnRimMargin  float64 `yaml:"spawn_rim_margin"`
	SpawnClearance  float64 `yaml:"spawn_clearance"` // height above the island top
	Decorate        bool    `yaml:"decorate"`
	MainTrees       int     `yaml:"main_trees"`
	SecondaryTrees  int     `yaml:"secondary_trees"`
	TreeRingFactor  float64 `yaml:"tree_ring_factor"`
	TreeMinCollider float64 `yaml:"tree_min_collider"`
}

// NavConfig tunes enemy steering.
type NavConfig struct {
	RefreshInterval  float64 `yaml:"refresh_interval"` // seconds between direction refreshes
	StuckDistance    float64 `yaml:"stuck_distance"`   // movement per refresh below this counts as stuck
	StuckRefreshes   int     `yaml:"stuck_refreshes"`  // stuck counter above this triggers a random turn
	MaxStuckTurn     float64 `yaml:"max_stuck_turn"`   // radians, both directions
	SeparationRadius float64 `yaml:"separation_radius"`
	SeparationWeight float64 `yaml:"separation_weight"`
	Clearance        float64 `yaml:"clearance"`
	CollisionRadius  float64 `yaml:"collision_radius"`
	GroundOffset     float64 `yaml:"ground_offset"`
}

// PlayerConfig tunes the player agent.
type PlayerConfig struct {
	Health        int     `yaml:"health"`
	Speed         float64 `yaml:"speed"`
	AttackRange   float64 `yaml:"attack_range"`
	AttackDamage  int     `yaml:"attack_damage"`
	SwingDuration float64 `yaml:"swing_duration"`
	ConeThreshold float64 `yaml:"cone_threshold"` // minimum dot(facing, toTarget) for a swing to connect
	Clearance     float64 `yaml:"clearance"`
	GroundOffset  float64 `yaml:"ground_offset"`
}

// EnemyStats is the stat tuple selected by an enemy type.
type EnemyStats struct {
	Health       int     `yaml:"health"`
	Speed        float64 `yaml:"speed"`
	AttackRange  float64 `yaml:"attack_range"`
	AttackDamage int     `yaml:"attack_damage"`
	Cooldown     float64 `yaml:"cooldown"`
}

// EnemyTable holds one EnemyStats per enemy type.
type EnemyTable struct {
	Basic EnemyStats `yaml:"basic"`
	Fast  EnemyStats `yaml:"fast"`
	Tank  EnemyStats `yaml:"tank"`
}

// WaveConfig paces the wave scheduler.
type WaveConfig struct {
	BaseCount       int     `yaml:"base_count"`
	PerWave         int     `yaml:"per_wave"`
	BonusEvery      int     `yaml:"bonus_every"`
	BonusCount      int     `yaml:"bonus_count"`
	CountdownTicks  int     `yaml:"countdown_ticks"`
	CountdownTick   float64 `yaml:"countdown_tick"` // seconds per countdown number
	SettleDelay     float64 `yaml:"settle_delay"`
	RetryDelay      float64 `yaml:"retry_delay"`
	MaxStartRetries int     `yaml:"max_start_retries"`
	DeathDuration   float64 `yaml:"death_duration"`
	FlashDuration   float64 `yaml:"flash_duration"`
}

// Default returns the tuning of the shipped game.
func Default() Config {
	return Config{
		Seed: 1,
		Terrain: TerrainConfig{
			MainRadius:        30,
			MainHeight:        3.2,
			SecondaryRadius:   18,
			SecondaryHeight:   2.8,
			SecondaryCount:    4,
			SecondaryDistance: 70,
			BridgeWidth:       12,
			BridgeHeight:      1,
			BridgeInset:       3,
			BridgeDrop:        0.4,
			SectorWidth:       0.61,
			SpawnMinDist:      2,
			SpawnRimMargin:    4,
			SpawnClearance:    0.6,
			Decorate:          true,
			MainTrees:         48,
			SecondaryTrees:    28,
			TreeRingFactor:    0.78,
			TreeMinCollider:   0.28,
		},
		Nav: NavConfig{
			RefreshInterval:  0.3,
			StuckDistance:    0.1,
			StuckRefreshes:   3,
			MaxStuckTurn:     0.7853981633974483, // pi/4
			SeparationRadius: 2,
			SeparationWeight: 0.5,
			Clearance:        0.3,
			CollisionRadius:  0.5,
			GroundOffset:     0.9,
		},
		Player: PlayerConfig{
			Health:        100,
			Speed:         8.5,
			AttackRange:   4,
			AttackDamage:  50,
			SwingDuration: 0.25,
			ConeThreshold: 0.4,
			Clearance:     0.35,
			GroundOffset:  1.04,
		},
		Enemies: EnemyTable{
			Basic: EnemyStats{Health: 50, Speed: 4, AttackRange: 2, AttackDamage: 10, Cooldown: 1.0},
			Fast:  EnemyStats{Health: 30, Speed: 7, AttackRange: 1.8, AttackDamage: 8, Cooldown: 0.7},
			Tank:  EnemyStats{Health: 120, Speed: 2.5, AttackRange: 2.2, AttackDamage: 15, Cooldown: 1.5},
		},
		Waves: WaveConfig{
			BaseCount:       5,
			PerWave:         3,
			BonusEvery:      5,
			BonusCount:      3,
			CountdownTicks:  3,
			CountdownTick:   1.0,
			SettleDelay:     0.6,
			RetryDelay:      0.1,
			MaxStartRetries: 100,
			DeathDuration:   0.5,
			FlashDuration:   0.1,
		},
	}
}

// Load reads and parses a YAML tuning document from disk.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse overlays a YAML document on Default and validates the result. Keys
// missing from the document keep their default value.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Marshal renders the config as YAML, e.g. to dump the defaults as a template.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate rejects values the simulation cannot run with.
func (c Config) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%w: %s must be > 0, got %v", ErrInvalidConfig, name, v))
		}
	}
	nonNegative := func(name string, v float64) {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%w: %s must be >= 0, got %v", ErrInvalidConfig, name, v))
		}
	}

	t := c.Terrain
	positive("terrain.main_radius", t.MainRadius)
	positive("terrain.main_height", t.MainHeight)
	nonNegative("terrain.secondary_count", float64(t.SecondaryCount))
	if t.SecondaryCount > 0 {
		positive("terrain.secondary_radius", t.SecondaryRadius)
		positive("terrain.secondary_height", t.SecondaryHeight)
		positive("terrain.bridge_width", t.BridgeWidth)
		positive("terrain.bridge_height", t.BridgeHeight)
		if t.SecondaryDistance <= t.MainRadius+t.SecondaryRadius-2*t.BridgeInset {
			errs = append(errs, fmt.Errorf("%w: terrain.secondary_distance %v leaves no room for a bridge", ErrInvalidConfig, t.SecondaryDistance))
		}
	}
	nonNegative("terrain.sector_width", t.SectorWidth)
	nonNegative("terrain.spawn_min_dist", t.SpawnMinDist)
	if t.MainRadius-t.SpawnRimMargin < t.SpawnMinDist {
		errs = append(errs, fmt.Errorf("%w: spawn annulus is empty on the main island", ErrInvalidConfig))
	}

	n := c.Nav
	positive("nav.refresh_interval", n.RefreshInterval)
	positive("nav.separation_radius", n.SeparationRadius)
	nonNegative("nav.separation_weight", n.SeparationWeight)
	nonNegative("nav.clearance", n.Clearance)
	nonNegative("nav.collision_radius", n.CollisionRadius)
	nonNegative("nav.max_stuck_turn", n.MaxStuckTurn)

	p := c.Player
	positive("player.health", float64(p.Health))
	positive("player.speed", p.Speed)
	positive("player.attack_range", p.AttackRange)
	positive("player.swing_duration", p.SwingDuration)

	for _, e := range []struct {
		name  string
		stats EnemyStats
	}{{"basic", c.Enemies.Basic}, {"fast", c.Enemies.Fast}, {"tank", c.Enemies.Tank}} {
		positive("enemies."+e.name+".health", float64(e.stats.Health))
		positive("enemies."+e.name+".speed", e.stats.Speed)
		positive("enemies."+e.name+".attack_range", e.stats.AttackRange)
		positive("enemies."+e.name+".cooldown", e.stats.Cooldown)
	}

	w := c.Waves
	positive("waves.base_count", float64(w.BaseCount))
	nonNegative("waves.per_wave", float64(w.PerWave))
	nonNegative("waves.bonus_every", float64(w.BonusEvery))
	nonNegative("waves.countdown_ticks", float64(w.CountdownTicks))
	positive("waves.countdown_tick", w.CountdownTick)
	nonNegative("waves.settle_delay", w.SettleDelay)
	positive("waves.retry_delay", w.RetryDelay)
	nonNegative("waves.death_duration", w.DeathDuration)

	return errors.Join(errs...)
}
