package combat

// BattleState is the mutable world of one match. A Simulator owns it
// exclusively.
type BattleState struct {
	Time        float64
	LeftBaseHp  float64
	RightBaseHp float64

	// Units is ordered by id: spawns append, removal keeps order.
	Units      []*UnitState
	NextUnitID int

	Kills       [2]int
	DamageDealt [2]float64
}

func NewBattleState(baseHp float64) *BattleState {
	return &BattleState{
		LeftBaseHp:  baseHp,
		RightBaseHp: baseHp,
		NextUnitID:  1,
	}
}

func (s *BattleState) IsOver() bool { return s.LeftBaseHp <= 0 || s.RightBaseHp <= 0 }

// Winner reports the side that destroyed the other base. When both fall in
// the same tick Left is declared the winner; that tie-break is arbitrary.
// ok is false while the match is running.
func (s *BattleState) Winner() (side Side, ok bool) {
	switch {
	case s.LeftBaseHp <= 0 && s.RightBaseHp <= 0:
		return SideLeft, true
	case s.RightBaseHp <= 0:
		return SideLeft, true
	case s.LeftBaseHp <= 0:
		return SideRight, true
	}
	return SideLeft, false
}

func (s *BattleState) BaseHp(side Side) float64 {
	if side == SideLeft {
		return s.LeftBaseHp
	}
	return s.RightBaseHp
}

// damageBase applies a hit to side's base and returns what the base
// absorbed.
func (s *BattleState) damageBase(side Side, dmg float64) float64 {
	hp := &s.RightBaseHp
	if side == SideLeft {
		hp = &s.LeftBaseHp
	}
	absorbed := min(dmg, max(*hp, 0))
	*hp -= dmg
	return absorbed
}

func (s *BattleState) spawn(side Side, def *UnitDef, x float64) *UnitState {
	u := newUnit(s.NextUnitID, side, def, x)
	s.NextUnitID++
	s.Units = append(s.Units, u)
	return u
}

// Unit finds a live-list unit by id.
func (s *BattleState) Unit(id int) *UnitState {
	for _, u := range s.Units {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// DebugSnapshot counts living units per side and tier.
type DebugSnapshot struct {
	LeftBaseHp  float64
	RightBaseHp float64
	LeftTotal   int
	RightTotal  int
	Left        [4]int // index tier-1
	Right       [4]int
}

func (s *BattleState) DebugSnapshot() DebugSnapshot {
	ds := DebugSnapshot{LeftBaseHp: s.LeftBaseHp, RightBaseHp: s.RightBaseHp}
	for _, u := range s.Units {
		if !u.Alive() {
			continue
		}
		tier := u.Def.Tier
		if u.Side == SideLeft {
			ds.LeftTotal++
			if tier >= 1 && tier <= 4 {
				ds.Left[tier-1]++
			}
		} else {
			ds.RightTotal++
			if tier >= 1 && tier <= 4 {
				ds.Right[tier-1]++
			}
		}
	}
	return ds
}
