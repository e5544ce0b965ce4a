package combat

import "sort"

// enemyIndex is one side's live units sorted by X then id, used as the
// target pool for the other side. Entries may die during a tick; lookups
// skip them.
type enemyIndex struct {
	units     []*UnitState
	maxRadius float64
}

func (ix *enemyIndex) reset(units []*UnitState) {
	ix.units = units
	ix.maxRadius = 0
	for _, u := range units {
		ix.maxRadius = max(ix.maxRadius, u.radius)
	}
}

// better reports whether candidate (d, id) beats the current best.
func better(d float64, id int, bestD float64, best *UnitState) bool {
	return best == nil || d < bestD || (d == bestD && id < best.ID)
}

// nearest returns the closest live unit to x within maxDist, lowest id on
// ties. accept further filters candidates by their distance.
func (ix *enemyIndex) nearest(x, maxDist float64, accept func(e *UnitState, d float64) bool) (*UnitState, float64) {
	units := ix.units
	pos := sort.Search(len(units), func(i int) bool { return units[i].X >= x })
	var best *UnitState
	bestD := maxDist
	for i := pos - 1; i >= 0; i-- {
		e := units[i]
		d := x - e.X
		if d > bestD {
			break
		}
		if e.Alive() && (accept == nil || accept(e, d)) && better(d, e.ID, bestD, best) {
			best, bestD = e, d
		}
	}
	for i := pos; i < len(units); i++ {
		e := units[i]
		d := e.X - x
		if d > bestD {
			break
		}
		if e.Alive() && (accept == nil || accept(e, d)) && better(d, e.ID, bestD, best) {
			best, bestD = e, d
		}
	}
	if best == nil {
		return nil, 0
	}
	return best, bestD
}

// frontmost returns the live enemy deepest into the attacker's territory:
// lowest X when attacked from the left, highest X from the right. Ties go
// to the lowest id.
func (ix *enemyIndex) frontmost(attacker Side) *UnitState {
	units := ix.units
	if attacker == SideLeft {
		for _, e := range units {
			if e.Alive() {
				return e
			}
		}
		return nil
	}
	var best *UnitState
	for i := len(units) - 1; i >= 0; i-- {
		e := units[i]
		if !e.Alive() {
			continue
		}
		if best != nil && e.X != best.X {
			break
		}
		best = e // sorted by id within equal X, so walking back lowers the id
	}
	return best
}

// selectTarget applies u's targeting policy and then the contact override:
// when the policy leaves nothing inside effective range, an enemy whose
// spacing radius touches u's becomes the target. engaged reports whether
// the returned target can be hit this tick.
func (sim *Simulator) selectTarget(u *UnitState) (target *UnitState, dist float64, engaged bool) {
	ix := &sim.enemies[u.Side.Opponent()]
	if len(ix.units) == 0 {
		return nil, 0, false
	}
	rng := u.Def.EffectiveRange()

	switch u.Def.Targeting {
	case TargetFrontmost:
		if target = ix.frontmost(u.Side); target != nil {
			dist = absf(target.X - u.X)
		}
	case TargetClosestInRange:
		target, dist = ix.nearest(u.X, rng, nil)
	default:
		target, dist = ix.nearest(u.X, inf, nil)
	}
	if target != nil && dist <= rng {
		return target, dist, true
	}

	reach := u.radius + ix.maxRadius
	contact, cd := ix.nearest(u.X, reach, func(e *UnitState, d float64) bool {
		return d <= u.radius+e.radius
	})
	if contact != nil {
		return contact, cd, true
	}
	return target, dist, false
}
