package config

import (
	"errors"
	"fmt"
)

// FixedDt is the tick length every deterministic run is expected to use.
const FixedDt = 1.0 / 60.0

// MaxTier is the highest unit tier.
const MaxTier = 4

type AllocationMode string

const (
	// AllocatePool spends the whole accumulated pool at each spawn check.
	AllocatePool AllocationMode = "pool"
	// AllocateGain spends only what was gained since the previous check.
	AllocateGain AllocationMode = "gain"
)

type SimConfig struct {
	// Battlefield
	BattlefieldLength float64 `yaml:"battlefield_length" json:"battlefield_length"`
	BaseAttackRange   float64 `yaml:"base_attack_range" json:"base_attack_range"`
	BaseMaxHp         float64 `yaml:"base_max_hp" json:"base_max_hp"`

	// Spacing: radius(tier) = UnitRadiusBase + (tier-1)*UnitRadiusPerTier
	UnitRadiusBase    float64 `yaml:"unit_radius_base" json:"unit_radius_base"`
	UnitRadiusPerTier float64 `yaml:"unit_radius_per_tier" json:"unit_radius_per_tier"`

	// Economy
	StartingPower      float64        `yaml:"starting_power" json:"starting_power"`
	PowerGainPerSecond float64        `yaml:"power_gain_per_second" json:"power_gain_per_second"`
	SpawnTryInterval   float64        `yaml:"spawn_try_interval" json:"spawn_try_interval"`
	AllocationMode     AllocationMode `yaml:"allocation_mode" json:"allocation_mode"`
	MaxSpawnsPerStep   int            `yaml:"max_spawns_per_step" json:"max_spawns_per_step"`
	OrbChunkValue      float64        `yaml:"orb_chunk_value" json:"orb_chunk_value"`
	MaxOrbsPerStep     int            `yaml:"max_orbs_per_step" json:"max_orbs_per_step"`

	// Tier unlock schedule, in simulated seconds.
	Tier2Time float64 `yaml:"tier2_time" json:"tier2_time"`
	Tier3Time float64 `yaml:"tier3_time" json:"tier3_time"`
	Tier4Time float64 `yaml:"tier4_time" json:"tier4_time"`

	// Combat
	MinAttackRate  float64 `yaml:"min_attack_rate" json:"min_attack_rate"`
	RangedMinRange float64 `yaml:"ranged_min_range" json:"ranged_min_range"`
}

func Default() *SimConfig {
	return &SimConfig{
		BattlefieldLength: 3000,
		BaseAttackRange:   40,
		BaseMaxHp:         5000,

		UnitRadiusBase:    12,
		UnitRadiusPerTier: 4,

		StartingPower:      10,
		PowerGainPerSecond: 6,
		SpawnTryInterval:   0,
		AllocationMode:     AllocatePool,
		MaxSpawnsPerStep:   5,
		OrbChunkValue:      1,
		MaxOrbsPerStep:     6,

		Tier2Time: 20,
		Tier3Time: 45,
		Tier4Time: 75,

		MinAttackRate:  0.1,
		RangedMinRange: 80,
	}
}

// Clone returns an independent copy.
func (c *SimConfig) Clone() *SimConfig {
	cp := *c
	return &cp
}

func (c *SimConfig) UnitRadiusForTier(tier int) float64 {
	if tier < 1 {
		tier = 1
	}
	return c.UnitRadiusBase + float64(tier-1)*c.UnitRadiusPerTier
}

// UnlockedTierForTime is a pure function of elapsed time; nothing about
// unlocks is stored.
func (c *SimConfig) UnlockedTierForTime(t float64) int {
	switch {
	case t >= c.Tier4Time:
		return 4
	case t >= c.Tier3Time:
		return 3
	case t >= c.Tier2Time:
		return 2
	default:
		return 1
	}
}

// AttackCooldown is the seconds between hits for the given attack rate.
func (c *SimConfig) AttackCooldown(rate float64) float64 {
	if rate < c.MinAttackRate {
		rate = c.MinAttackRate
	}
	return 1 / rate
}

func (c *SimConfig) Validate() error {
	var errs []error
	if c.BattlefieldLength <= 0 {
		errs = append(errs, fmt.Errorf("battlefield_length must be > 0, got %v", c.BattlefieldLength))
	}
	if c.BaseMaxHp <= 0 {
		errs = append(errs, fmt.Errorf("base_max_hp must be > 0, got %v", c.BaseMaxHp))
	}
	if c.BaseAttackRange < 0 {
		errs = append(errs, fmt.Errorf("base_attack_range must be >= 0, got %v", c.BaseAttackRange))
	}
	if c.UnitRadiusBase < 0 || c.UnitRadiusPerTier < 0 {
		errs = append(errs, errors.New("unit radius parameters must be >= 0"))
	}
	if c.StartingPower < 0 || c.PowerGainPerSecond < 0 {
		errs = append(errs, errors.New("starting_power and power_gain_per_second must be >= 0"))
	}
	if c.SpawnTryInterval < 0 {
		errs = append(errs, fmt.Errorf("spawn_try_interval must be >= 0, got %v", c.SpawnTryInterval))
	}
	if c.AllocationMode != AllocatePool && c.AllocationMode != AllocateGain {
		errs = append(errs, fmt.Errorf("allocation_mode must be %q or %q, got %q", AllocatePool, AllocateGain, c.AllocationMode))
	}
	if c.MaxSpawnsPerStep < 1 {
		errs = append(errs, fmt.Errorf("max_spawns_per_step must be >= 1, got %d", c.MaxSpawnsPerStep))
	}
	if c.OrbChunkValue <= 0 || c.MaxOrbsPerStep < 0 {
		errs = append(errs, errors.New("orb_chunk_value must be > 0 and max_orbs_per_step >= 0"))
	}
	if c.Tier2Time > c.Tier3Time || c.Tier3Time > c.Tier4Time {
		errs = append(errs, fmt.Errorf("tier unlock times must be monotonic, got %v/%v/%v", c.Tier2Time, c.Tier3Time, c.Tier4Time))
	}
	if c.MinAttackRate <= 0 {
		errs = append(errs, fmt.Errorf("min_attack_rate must be > 0, got %v", c.MinAttackRate))
	}
	return errors.Join(errs...)
}
