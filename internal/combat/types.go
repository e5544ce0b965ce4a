package combat

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"pixelarmies/internal/config"
)

type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideLeft {
		return "Left"
	}
	return "Right"
}

func (s Side) Opponent() Side { return 1 - s }

// Dir is the sign of X movement toward the enemy base.
func (s Side) Dir() float64 {
	if s == SideLeft {
		return 1
	}
	return -1
}

type MovementClass int

const (
	Ground MovementClass = iota
	Air
)

func (m MovementClass) String() string {
	if m == Air {
		return "air"
	}
	return "ground"
}

func ParseMovement(s string) (MovementClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ground":
		return Ground, nil
	case "air":
		return Air, nil
	}
	return Ground, fmt.Errorf("unknown movement class %q", s)
}

type TargetingPolicy int

const (
	// TargetClosest picks the nearest enemy regardless of range.
	TargetClosest TargetingPolicy = iota
	// TargetFrontmost picks the enemy deepest into friendly territory.
	TargetFrontmost
	// TargetClosestInRange picks the nearest enemy within effective range.
	TargetClosestInRange
)

func (p TargetingPolicy) String() string {
	switch p {
	case TargetFrontmost:
		return "frontmost"
	case TargetClosestInRange:
		return "closest_in_range"
	default:
		return "closest"
	}
}

func ParseTargeting(s string) (TargetingPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "closest":
		return TargetClosest, nil
	case "frontmost":
		return TargetFrontmost, nil
	case "closest_in_range", "closestinrange":
		return TargetClosestInRange, nil
	}
	return TargetClosest, fmt.Errorf("unknown targeting policy %q", s)
}

// UnitDef is an immutable archetype.
type UnitDef struct {
	ID         string
	Tier       int
	Cost       float64
	MaxHp      float64
	Damage     float64
	AttackRate float64 // hits per second
	Range      float64
	Speed      float64
	Movement   MovementClass
	Targeting  TargetingPolicy

	// WeaponLength overrides Range when positive.
	WeaponLength        float64
	FormationSpacingMul float64
	VanguardDepth       int
	VanguardSpacingMul  float64
}

func (d *UnitDef) EffectiveRange() float64 {
	if d.WeaponLength > 0 {
		return d.WeaponLength
	}
	return d.Range
}

func (d *UnitDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("unit id is empty"))
	}
	if d.Tier < 1 || d.Tier > config.MaxTier {
		errs = append(errs, fmt.Errorf("unit %q: tier must be 1..%d, got %d", d.ID, config.MaxTier, d.Tier))
	}
	if !(d.Cost > 0) {
		errs = append(errs, fmt.Errorf("unit %q: cost must be > 0, got %v", d.ID, d.Cost))
	}
	if !(d.MaxHp > 0) {
		errs = append(errs, fmt.Errorf("unit %q: max_hp must be > 0, got %v", d.ID, d.MaxHp))
	}
	return errors.Join(errs...)
}

// ArmyDef is a named roster. Order follows the author, it carries no rules.
type ArmyDef struct {
	ID    string
	Name  string
	Units []UnitDef
}

// MinCost is the cheapest archetype's cost, or +Inf for an empty roster.
func (a *ArmyDef) MinCost() float64 {
	m := math.Inf(1)
	for i := range a.Units {
		m = math.Min(m, a.Units[i].Cost)
	}
	return m
}

// UnitsOfTier returns pointers into the roster, in roster order.
func (a *ArmyDef) UnitsOfTier(tier int) []*UnitDef {
	var out []*UnitDef
	for i := range a.Units {
		if a.Units[i].Tier == tier {
			out = append(out, &a.Units[i])
		}
	}
	return out
}

func (a *ArmyDef) Validate() error {
	var errs []error
	if len(a.Units) == 0 {
		errs = append(errs, fmt.Errorf("army %q has no units", a.Name))
	}
	seen := map[string]bool{}
	for i := range a.Units {
		u := &a.Units[i]
		if err := u.Validate(); err != nil {
			errs = append(errs, err)
		}
		if seen[u.ID] {
			errs = append(errs, fmt.Errorf("army %q: duplicate unit id %q", a.Name, u.ID))
		}
		seen[u.ID] = true
	}
	return errors.Join(errs...)
}

// NewArmy converts a file spec into a validated roster.
func NewArmy(spec *config.ArmySpec) (*ArmyDef, error) {
	if spec == nil {
		return nil, errors.New("nil army spec")
	}
	name := spec.Name
	if name == "" {
		name = spec.ID
	}
	army := &ArmyDef{ID: spec.ID, Name: name, Units: make([]UnitDef, 0, len(spec.Units))}
	for _, us := range spec.Units {
		mv, err := ParseMovement(us.Movement)
		if err != nil {
			return nil, fmt.Errorf("army %q unit %q: %w", name, us.ID, err)
		}
		tp, err := ParseTargeting(us.Targeting)
		if err != nil {
			return nil, fmt.Errorf("army %q unit %q: %w", name, us.ID, err)
		}
		army.Units = append(army.Units, UnitDef{
			ID:                  us.ID,
			Tier:                us.Tier,
			Cost:                us.Cost,
			MaxHp:               us.MaxHp,
			Damage:              us.Damage,
			AttackRate:          us.AttackRate,
			Range:               us.Range,
			Speed:               us.Speed,
			Movement:            mv,
			Targeting:           tp,
			WeaponLength:        us.WeaponLength,
			FormationSpacingMul: us.FormationSpacingMul,
			VanguardDepth:       us.VanguardDepth,
			VanguardSpacingMul:  us.VanguardSpacingMul,
		})
	}
	if err := army.Validate(); err != nil {
		return nil, err
	}
	return army, nil
}

// LoadArmy looks up id in ac and converts it.
func LoadArmy(ac *config.ArmiesConfig, id string) (*ArmyDef, error) {
	spec := ac.Army(id)
	if spec == nil {
		return nil, fmt.Errorf("army %q not found (have %s)", id, strings.Join(ac.IDs(), ", "))
	}
	return NewArmy(spec)
}

// UnitState is a live unit. Owned by BattleState; other code refers to it
// by ID.
type UnitState struct {
	ID             int
	Side           Side
	Def            *UnitDef
	X              float64
	Hp             float64
	AttackCooldown float64

	radius float64 // effective spacing radius, refreshed every partition
}

func newUnit(id int, side Side, def *UnitDef, x float64) *UnitState {
	return &UnitState{ID: id, Side: side, Def: def, X: x, Hp: def.MaxHp}
}

func (u *UnitState) Alive() bool { return u.Hp > 0 }

// Radius is the effective spacing radius from the last partition.
func (u *UnitState) Radius() float64 { return u.radius }
