package combat

import (
	"errors"
	"fmt"

	"pixelarmies/internal/config"
	"pixelarmies/internal/util"
)

// ErrNoEligibleUnits means an army cannot field anything in the unlocked
// tiers. It is a content bug, so the spawner panics with an *ArmyError
// wrapping it instead of stalling.
var ErrNoEligibleUnits = errors.New("army has no units in unlocked tiers")

type ArmyError struct {
	Army         string
	Side         Side
	UnlockedTier int
}

func (e *ArmyError) Error() string {
	return fmt.Sprintf("army %q (%s) has no units in tiers 1..%d", e.Army, e.Side, e.UnlockedTier)
}

func (e *ArmyError) Unwrap() error { return ErrNoEligibleUnits }

// tierWeights favour cheap tiers: T1=6, T2=4, T3=2, T4=1.
var tierWeights = [config.MaxTier + 1]float64{0, 6, 4, 2, 1}

// bucket is the unit the side is saving up for.
type bucket struct {
	tier     int
	unit     *UnitDef // nil until the first selection
	progress float64
}

// Spawner runs one side's power economy.
type Spawner struct {
	side   Side
	army   *ArmyDef
	cfg    *config.SimConfig
	rng    *util.Rng
	events *Events

	power        float64
	pendingGain  float64 // gained since the last check, for AllocateGain
	bucket       bucket
	orbRemainder float64

	checked   bool
	lastCheck float64
}

// NewSpawner creates a spawner writing to events; nil gets a private set.
func NewSpawner(side Side, army *ArmyDef, cfg *config.SimConfig, rng *util.Rng, events *Events) *Spawner {
	if events == nil {
		events = &Events{}
	}
	return &Spawner{
		side:   side,
		army:   army,
		cfg:    cfg,
		rng:    rng,
		events: events,
		power:  cfg.StartingPower,
		bucket: bucket{tier: 1},
	}
}

func (sp *Spawner) Power() float64 { return sp.power }

func (sp *Spawner) BucketTier() int { return sp.bucket.tier }

func (sp *Spawner) BucketProgress() float64 { return sp.bucket.progress }

// BucketTargetCost is the cost of the unit being saved for, 0 before the
// first selection.
func (sp *Spawner) BucketTargetCost() float64 {
	if sp.bucket.unit == nil {
		return 0
	}
	return sp.bucket.unit.Cost
}

func (sp *Spawner) BucketUnit() *UnitDef { return sp.bucket.unit }

func (sp *Spawner) Events() *Events { return sp.events }

// Step accrues power for dt and, when a spawn check is due, pours it into
// the bucket and emits every unit the bucket can pay for (capped per step).
func (sp *Spawner) Step(s *BattleState, dt float64) {
	gain := sp.cfg.PowerGainPerSecond * dt
	sp.power += gain
	sp.pendingGain += gain

	unlocked := sp.cfg.UnlockedTierForTime(s.Time)
	sp.ensureBucketTarget(unlocked)

	if !sp.checkDue(s.Time) {
		return
	}

	var alloc float64
	switch sp.cfg.AllocationMode {
	case config.AllocateGain:
		alloc = min(sp.pendingGain, sp.power)
	default:
		alloc = sp.power
	}
	sp.pendingGain = 0
	if alloc <= 0 {
		return
	}
	sp.power -= alloc
	if sp.power < 0 {
		sp.power = 0
	}
	sp.bucket.progress += alloc
	sp.emitPowerOrbs(alloc)

	spawnX := 0.0
	if sp.side == SideRight {
		spawnX = sp.cfg.BattlefieldLength
	}
	for spawns := 0; sp.bucket.unit != nil &&
		sp.bucket.progress >= sp.bucket.unit.Cost &&
		spawns < sp.cfg.MaxSpawnsPerStep; spawns++ {
		def := sp.bucket.unit
		sp.bucket.progress -= def.Cost
		u := s.spawn(sp.side, def, spawnX)
		sp.events.Spawned.Add(UnitSpawnedEvent{Side: sp.side, Tier: def.Tier, UnitID: u.ID, UnitDefID: def.ID})
		sp.selectBucketTarget(unlocked)
	}
}

func (sp *Spawner) checkDue(now float64) bool {
	if sp.checked && now-sp.lastCheck < sp.cfg.SpawnTryInterval {
		return false
	}
	sp.checked = true
	sp.lastCheck = now
	return true
}

func (sp *Spawner) emitPowerOrbs(alloc float64) {
	sp.orbRemainder += alloc
	for emitted := 0; sp.orbRemainder >= sp.cfg.OrbChunkValue && emitted < sp.cfg.MaxOrbsPerStep; emitted++ {
		sp.events.Power.Add(PowerAllocatedEvent{Side: sp.side, Tier: sp.bucket.tier, Amount: sp.cfg.OrbChunkValue})
		sp.orbRemainder -= sp.cfg.OrbChunkValue
	}
}

func (sp *Spawner) ensureBucketTarget(unlocked int) {
	if sp.bucket.tier > unlocked {
		sp.bucket.tier = unlocked
	}
	if sp.bucket.unit == nil || sp.bucket.unit.Tier != sp.bucket.tier {
		sp.selectBucketTarget(unlocked)
	}
}

func (sp *Spawner) pickTier(unlocked int) int {
	maxTier := min(max(unlocked, 1), config.MaxTier)
	weighted := make([]util.Weighted[int], 0, maxTier)
	for tier := 1; tier <= maxTier; tier++ {
		weighted = append(weighted, util.Weighted[int]{Item: tier, Weight: tierWeights[tier]})
	}
	return util.PickWeighted(sp.rng, weighted)
}

// selectBucketTarget rolls a tier, falls back downward until the roster has
// candidates, then picks uniformly within that tier. Progress carries over.
func (sp *Spawner) selectBucketTarget(unlocked int) {
	chosen := sp.pickTier(unlocked)
	for tier := chosen; tier >= 1; tier-- {
		candidates := sp.army.UnitsOfTier(tier)
		if len(candidates) == 0 {
			continue
		}
		sp.bucket.tier = tier
		sp.bucket.unit = candidates[sp.rng.NextInt(0, len(candidates))]
		return
	}
	panic(&ArmyError{Army: sp.army.Name, Side: sp.side, UnlockedTier: unlocked})
}
