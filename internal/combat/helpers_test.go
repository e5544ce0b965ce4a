package combat

import (
	"testing"

	"pixelarmies/assets"
	"pixelarmies/internal/config"
)

const dt = config.FixedDt

func demoArmies(t testing.TB) (*config.SimConfig, *ArmyDef, *ArmyDef) {
	t.Helper()
	cfg, ac, err := assets.Load()
	if err != nil {
		t.Fatalf("load embedded assets: %v", err)
	}
	left, err := LoadArmy(ac, assets.DefaultLeftArmy)
	if err != nil {
		t.Fatalf("left army: %v", err)
	}
	right, err := LoadArmy(ac, assets.DefaultRightArmy)
	if err != nil {
		t.Fatalf("right army: %v", err)
	}
	return cfg, left, right
}

func unitDef(id string, tier int) UnitDef {
	return UnitDef{
		ID:         id,
		Tier:       tier,
		Cost:       6,
		MaxHp:      20,
		Damage:     10,
		AttackRate: 1,
		Range:      25,
		Speed:      90,
	}
}

func army(name string, units ...UnitDef) *ArmyDef {
	return &ArmyDef{ID: name, Name: name, Units: units}
}

// idleSim builds a match whose spawners can never afford anything, so tests
// place every unit themselves.
func idleSim(cfg *config.SimConfig) *Simulator {
	if cfg == nil {
		cfg = config.Default()
	}
	idle := unitDef("idle", 1)
	idle.Cost = 1e12
	return NewSimulator(cfg, army("L", idle), army("R", idle), 1)
}

func (sim *Simulator) place(side Side, def *UnitDef, x float64) *UnitState {
	return sim.state.spawn(side, def, x)
}

func runFor(sim *Simulator, seconds float64) {
	steps := int(seconds / dt)
	for i := 0; i < steps && !sim.IsOver(); i++ {
		sim.Step(dt)
	}
}
