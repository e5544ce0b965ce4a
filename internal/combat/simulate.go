package combat

import (
	"io"
	"math"
	"slices"

	"github.com/charmbracelet/log"

	"pixelarmies/internal/config"
	"pixelarmies/internal/util"
)

var inf = math.Inf(1)

// Simulator advances one match in fixed ticks. It is not safe for
// concurrent use; independent simulators share nothing.
type Simulator struct {
	cfg   *config.SimConfig
	left  *ArmyDef
	right *ArmyDef
	seed  int64

	rng      *util.Rng
	state    *BattleState
	events   *Events
	spawners [2]*Spawner

	logger *log.Logger
	trace  tracer
	ended  bool

	// per-tick scratch, reused between steps
	sides    [2][]*UnitState
	ground   [2][]*UnitState
	air      [2][]*UnitState
	clusters []*UnitState
	enemies  [2]enemyIndex
	targets  []*UnitState
	holding  []bool
	newX     []float64
}

type Option func(*Simulator)

// WithLogger routes lifecycle logging (start, base destroyed) to l.
func WithLogger(l *log.Logger) Option {
	return func(sim *Simulator) {
		if l != nil {
			sim.logger = l
		}
	}
}

// WithTrace enables the periodic debug trace.
func WithTrace(ts TraceSettings) Option {
	return func(sim *Simulator) { sim.trace = newTracer(ts) }
}

// NewSimulator builds a match ready to step from t=0. cfg is cloned; the
// armies are shared read-only.
func NewSimulator(cfg *config.SimConfig, left, right *ArmyDef, seed int64, opts ...Option) *Simulator {
	if cfg == nil {
		cfg = config.Default()
	}
	cfg = cfg.Clone()
	sim := &Simulator{
		cfg:    cfg,
		left:   left,
		right:  right,
		seed:   seed,
		rng:    util.New(seed),
		state:  NewBattleState(cfg.BaseMaxHp),
		events: &Events{},
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(sim)
	}
	sim.spawners[SideLeft] = NewSpawner(SideLeft, left, cfg, sim.rng, sim.events)
	sim.spawners[SideRight] = NewSpawner(SideRight, right, cfg, sim.rng, sim.events)
	sim.logger.Debug("match start", "left", left.Name, "right", right.Name, "seed", seed)
	return sim
}

func (sim *Simulator) Config() *config.SimConfig { return sim.cfg }

func (sim *Simulator) Seed() int64 { return sim.seed }

// State exposes the live world. Callers must treat it as read-only.
func (sim *Simulator) State() *BattleState { return sim.state }

func (sim *Simulator) Spawner(side Side) *Spawner { return sim.spawners[side] }

func (sim *Simulator) Army(side Side) *ArmyDef {
	if side == SideLeft {
		return sim.left
	}
	return sim.right
}

func (sim *Simulator) IsOver() bool { return sim.state.IsOver() }

func (sim *Simulator) Winner() (Side, bool) { return sim.state.Winner() }

func (sim *Simulator) ConsumeDamageEvents() []DamageEvent { return sim.events.Damage.Drain() }

func (sim *Simulator) ConsumeUnitDiedEvents() []UnitDiedEvent { return sim.events.Died.Drain() }

func (sim *Simulator) ConsumePowerAllocatedEvents() []PowerAllocatedEvent {
	return sim.events.Power.Drain()
}

func (sim *Simulator) ConsumeUnitSpawnedEvents() []UnitSpawnedEvent {
	return sim.events.Spawned.Drain()
}

// Step advances the match by dt. Once a base has fallen it does nothing.
func (sim *Simulator) Step(dt float64) {
	s := sim.state
	if s.IsOver() {
		return
	}
	s.Time += dt

	sim.spawners[SideLeft].Step(s, dt)
	sim.spawners[SideRight].Step(s, dt)

	sim.arrange()
	sim.fight(dt)
	sim.move(dt)
	sim.arrange()

	s.Units = slices.DeleteFunc(s.Units, func(u *UnitState) bool { return !u.Alive() })

	sim.trace.observe(sim)
	if s.IsOver() && !sim.ended {
		sim.ended = true
		w, _ := s.Winner()
		sim.logger.Debug("base destroyed", "winner", w, "t", s.Time,
			"left_hp", s.LeftBaseHp, "right_hp", s.RightBaseHp)
	}
}

// arrange partitions live units, refreshes radii, enforces both spacing
// passes and rebuilds the per-side target indexes.
func (sim *Simulator) arrange() {
	for side := range sim.sides {
		sim.sides[side] = sim.sides[side][:0]
		sim.ground[side] = sim.ground[side][:0]
		sim.air[side] = sim.air[side][:0]
	}
	for _, u := range sim.state.Units {
		if !u.Alive() {
			continue
		}
		sim.sides[u.Side] = append(sim.sides[u.Side], u)
		if u.Def.Movement == Air {
			sim.air[u.Side] = append(sim.air[u.Side], u)
		} else {
			sim.ground[u.Side] = append(sim.ground[u.Side], u)
		}
	}

	length := sim.cfg.BattlefieldLength
	for side := SideLeft; side <= SideRight; side++ {
		slices.SortFunc(sim.ground[side], byXThenID)
		slices.SortFunc(sim.air[side], byXThenID)
		sim.assignRadii(side, sim.sides[side])
		enforceGroundSpacing(side, sim.ground[side])
		enforceAirSpacing(sim.air[side], length)

		// Spacing may reorder units, so the index is sorted last.
		slices.SortFunc(sim.sides[side], byXThenID)
		sim.enemies[side].reset(sim.sides[side])
	}
}

func (sim *Simulator) resetScratch(n int) {
	sim.targets = slices.Grow(sim.targets[:0], n)[:n]
	sim.holding = slices.Grow(sim.holding[:0], n)[:n]
	sim.newX = slices.Grow(sim.newX[:0], n)[:n]
	clear(sim.targets)
	clear(sim.holding)
}

// fight resolves targeting and attacks in id order. Hits land immediately,
// so a unit killed earlier in the tick does not act.
func (sim *Simulator) fight(dt float64) {
	s := sim.state
	sim.resetScratch(len(s.Units))
	for i, u := range s.Units {
		if !u.Alive() {
			continue
		}
		u.AttackCooldown = max(u.AttackCooldown-dt, 0)

		target, _, engaged := sim.selectTarget(u)
		sim.targets[i] = target
		if engaged {
			sim.holding[i] = true
			if u.AttackCooldown <= 0 {
				sim.hitUnit(u, target)
			}
			continue
		}
		if sim.baseDistance(u) <= sim.cfg.BaseAttackRange {
			sim.holding[i] = true
			if u.AttackCooldown <= 0 {
				sim.hitBase(u)
			}
		}
	}
}

func (sim *Simulator) baseDistance(u *UnitState) float64 {
	if u.Side == SideLeft {
		return sim.cfg.BattlefieldLength - u.X
	}
	return u.X
}

func (sim *Simulator) hitUnit(u, target *UnitState) {
	s := sim.state
	dmg := u.Def.Damage
	wasAlive := target.Alive()
	s.DamageDealt[u.Side] += min(dmg, max(target.Hp, 0))
	target.Hp -= dmg
	sim.events.Damage.Add(DamageEvent{
		AttackerID: u.ID,
		TargetID:   target.ID,
		Damage:     dmg,
		IsRanged:   u.Def.EffectiveRange() >= sim.cfg.RangedMinRange,
	})
	if wasAlive && !target.Alive() {
		s.Kills[u.Side]++
		sim.events.Died.Add(UnitDiedEvent{UnitID: target.ID, KillerID: u.ID})
	}
	u.AttackCooldown = sim.cfg.AttackCooldown(u.Def.AttackRate)
}

func (sim *Simulator) hitBase(u *UnitState) {
	s := sim.state
	s.DamageDealt[u.Side] += s.damageBase(u.Side.Opponent(), u.Def.Damage)
	u.AttackCooldown = sim.cfg.AttackCooldown(u.Def.AttackRate)
}

// move advances every unit that is not holding against a target or base.
// New positions are computed from the pre-move layout and applied
// together.
func (sim *Simulator) move(dt float64) {
	s := sim.state
	length := sim.cfg.BattlefieldLength
	for i, u := range s.Units {
		sim.newX[i] = u.X
		if !u.Alive() || sim.holding[i] {
			continue
		}
		dir := u.Side.Dir()
		x := u.X + dir*u.Def.Speed*dt

		if u.Def.Movement == Ground {
			if ahead := sim.allyAhead(u); ahead != nil {
				limit := ahead.X - dir*(u.radius+ahead.radius)
				x = clampAdvance(dir, u.X, x, limit)
			}
		}
		if t := sim.targets[i]; t != nil && t.Alive() && dir*(t.X-u.X) > 0 {
			limit := t.X - dir*(u.radius+t.radius)
			x = clampAdvance(dir, u.X, x, limit)
		}
		// Only the far edge binds: units queued behind their own edge by
		// spacing walk back onto the field.
		if dir > 0 {
			x = min(x, length)
		} else {
			x = max(x, 0)
		}
		sim.newX[i] = x
	}
	for i, u := range s.Units {
		u.X = sim.newX[i]
	}
}

// clampAdvance stops a move at limit without ever moving a unit backward.
func clampAdvance(dir, from, to, limit float64) float64 {
	if dir > 0 {
		return min(to, max(limit, from))
	}
	return max(to, min(limit, from))
}

// allyAhead is the next ground ally in the advance direction.
func (sim *Simulator) allyAhead(u *UnitState) *UnitState {
	list := sim.ground[u.Side]
	i, found := slices.BinarySearchFunc(list, u, byXThenID)
	if !found {
		return nil
	}
	if u.Side == SideLeft {
		if i+1 < len(list) {
			return list[i+1]
		}
		return nil
	}
	if i > 0 {
		return list[i-1]
	}
	return nil
}
