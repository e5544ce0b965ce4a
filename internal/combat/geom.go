package combat

import "cmp"

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// byXThenID orders units along the lane; the id keeps equal positions
// reproducible.
func byXThenID(a, b *UnitState) int {
	if c := cmp.Compare(a.X, b.X); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// normalizeSpacingMul maps non-positive multipliers to 1.
func normalizeSpacingMul(m float64) float64 {
	if m > 0 {
		return m
	}
	return 1
}
