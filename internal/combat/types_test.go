package combat

import (
	"errors"
	"math"
	"strings"
	"testing"

	"pixelarmies/internal/config"
)

func TestNewArmyParsesPolicies(t *testing.T) {
	spec := &config.ArmySpec{ID: "x", Units: []config.UnitSpec{
		{ID: "a", Tier: 1, Cost: 3, MaxHp: 5, Movement: "Air", Targeting: "closest_in_range"},
		{ID: "b", Tier: 2, Cost: 7, MaxHp: 5, Targeting: "frontmost"},
	}}
	a, err := NewArmy(spec)
	if err != nil {
		t.Fatal(err)
	}
	if a.Name != "x" {
		t.Errorf("name falls back to id, got %q", a.Name)
	}
	if a.Units[0].Movement != Air || a.Units[0].Targeting != TargetClosestInRange {
		t.Errorf("unit a parsed as %+v", a.Units[0])
	}
	if a.Units[1].Movement != Ground || a.Units[1].Targeting != TargetFrontmost {
		t.Errorf("unit b parsed as %+v", a.Units[1])
	}
	if a.MinCost() != 3 {
		t.Errorf("MinCost = %v", a.MinCost())
	}
}

func TestNewArmyRejectsBadUnits(t *testing.T) {
	tests := []struct {
		name string
		unit config.UnitSpec
		want string
	}{
		{"zero cost", config.UnitSpec{ID: "a", Tier: 1, MaxHp: 1}, "cost"},
		{"zero hp", config.UnitSpec{ID: "a", Tier: 1, Cost: 1}, "max_hp"},
		{"tier 5", config.UnitSpec{ID: "a", Tier: 5, Cost: 1, MaxHp: 1}, "tier"},
		{"bad movement", config.UnitSpec{ID: "a", Tier: 1, Cost: 1, MaxHp: 1, Movement: "swim"}, "movement"},
		{"bad targeting", config.UnitSpec{ID: "a", Tier: 1, Cost: 1, MaxHp: 1, Targeting: "weakest"}, "targeting"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewArmy(&config.ArmySpec{ID: "x", Units: []config.UnitSpec{tt.unit}})
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("got %v, want error mentioning %q", err, tt.want)
			}
		})
	}
}

func TestArmyValidateJoinsErrors(t *testing.T) {
	a := army("dup", UnitDef{ID: "a", Tier: 1, Cost: 1, MaxHp: 1}, UnitDef{ID: "a", Tier: 9, Cost: 1, MaxHp: 1})
	err := a.Validate()
	if err == nil {
		t.Fatal("expected errors")
	}
	if !strings.Contains(err.Error(), "duplicate") || !strings.Contains(err.Error(), "tier") {
		t.Fatalf("missing a violation: %v", err)
	}
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) || len(joined.Unwrap()) != 2 {
		t.Fatalf("want two joined errors, got %v", err)
	}
}

func TestEmptyArmy(t *testing.T) {
	a := army("none")
	if !math.IsInf(a.MinCost(), 1) {
		t.Errorf("MinCost of empty roster = %v", a.MinCost())
	}
	if a.Validate() == nil {
		t.Error("empty roster validated")
	}
}

func TestLoadArmyUnknown(t *testing.T) {
	_, err := LoadArmy(&config.ArmiesConfig{Armies: []config.ArmySpec{{ID: "one"}}}, "two")
	if err == nil || !strings.Contains(err.Error(), "one") {
		t.Fatalf("got %v, want a not-found error listing known ids", err)
	}
}

func TestDemoArmiesLoad(t *testing.T) {
	_, left, right := demoArmies(t)
	for _, a := range []*ArmyDef{left, right} {
		for tier := 1; tier <= config.MaxTier; tier++ {
			if len(a.UnitsOfTier(tier)) == 0 {
				t.Errorf("%s has no tier %d unit", a.Name, tier)
			}
		}
	}
	if left.Units[2].Movement != Air || right.Units[2].Targeting != TargetClosestInRange {
		t.Error("demo roster policies not parsed")
	}
}

func TestEffectiveRange(t *testing.T) {
	d := UnitDef{Range: 25}
	if d.EffectiveRange() != 25 {
		t.Fatal("base range")
	}
	d.WeaponLength = 60
	if d.EffectiveRange() != 60 {
		t.Fatal("weapon length override")
	}
}
