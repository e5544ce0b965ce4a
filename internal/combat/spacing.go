package combat

import (
	"cmp"
	"slices"
)

// assignRadii sets every unit's effective spacing radius for one side:
// radius(tier) x formation multiplier, with the frontmost VanguardDepth
// units of each archetype using the vanguard multiplier instead.
func (sim *Simulator) assignRadii(side Side, units []*UnitState) {
	for _, u := range units {
		u.radius = sim.cfg.UnitRadiusForTier(u.Def.Tier) * normalizeSpacingMul(u.Def.FormationSpacingMul)
	}

	clusters := sim.clusters[:0]
	for _, u := range units {
		if u.Def.VanguardDepth > 0 {
			clusters = append(clusters, u)
		}
	}
	sim.clusters = clusters
	if len(clusters) == 0 {
		return
	}

	// Group by archetype, frontmost first, id on ties.
	dir := side.Dir()
	slices.SortFunc(clusters, func(a, b *UnitState) int {
		if c := cmp.Compare(a.Def.ID, b.Def.ID); c != 0 {
			return c
		}
		if c := cmp.Compare(-dir*a.X, -dir*b.X); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	for start := 0; start < len(clusters); {
		end := start + 1
		for end < len(clusters) && clusters[end].Def.ID == clusters[start].Def.ID {
			end++
		}
		def := clusters[start].Def
		mul := def.VanguardSpacingMul
		if mul <= 0 {
			mul = def.FormationSpacingMul
		}
		mul = normalizeSpacingMul(mul)
		base := sim.cfg.UnitRadiusForTier(def.Tier)
		for i := start; i < end && i-start < def.VanguardDepth; i++ {
			clusters[i].radius = base * mul
		}
		start = end
	}
}

// enforceGroundSpacing walks a side's X-sorted ground list from the front
// unit backward and pulls each unit behind the one ahead of it. One pass is
// enough because a moved unit only constrains the units behind it.
func enforceGroundSpacing(side Side, units []*UnitState) {
	n := len(units)
	if n < 2 {
		return
	}
	if side == SideLeft {
		for i := n - 2; i >= 0; i-- {
			back, front := units[i], units[i+1]
			if maxX := front.X - (back.radius + front.radius); back.X > maxX {
				back.X = maxX
			}
		}
		return
	}
	for i := 1; i < n; i++ {
		front, back := units[i-1], units[i]
		if minX := front.X + (back.radius + front.radius); back.X < minX {
			back.X = minX
		}
	}
}

// enforceAirSpacing pushes overlapping air pairs apart symmetrically,
// clamped to the battlefield. Air units never interact with ground spacing.
func enforceAirSpacing(units []*UnitState, length float64) {
	for i := 0; i < len(units); i++ {
		for j := i + 1; j < len(units); j++ {
			a, b := units[i], units[j]
			need := a.radius + b.radius
			gap := absf(b.X - a.X)
			if gap >= need {
				continue
			}
			push := (need - gap) / 2
			lo, hi := a, b
			if b.X < a.X {
				lo, hi = b, a
			}
			lo.X = clampf(lo.X-push, 0, length)
			hi.X = clampf(hi.X+push, 0, length)
		}
	}
}
