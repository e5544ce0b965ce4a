package combat

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// UnitSnapshot is the presentation view of one live unit. X can lie behind
// the home edge while a unit waits in a spawn queue.
type UnitSnapshot struct {
	ID     int     `msgpack:"id" json:"id"`
	Side   Side    `msgpack:"side" json:"side"`
	DefID  string  `msgpack:"def" json:"def"`
	Tier   int     `msgpack:"tier" json:"tier"`
	X      float64 `msgpack:"x" json:"x"`
	Hp     float64 `msgpack:"hp" json:"hp"`
	Alive  bool    `msgpack:"alive" json:"alive"`
	Radius float64 `msgpack:"r" json:"r"`
}

// SideHud is what a HUD shows for one side.
type SideHud struct {
	BaseHp           float64 `msgpack:"base_hp" json:"base_hp"`
	UnlockedTier     int     `msgpack:"unlocked_tier" json:"unlocked_tier"`
	Kills            int     `msgpack:"kills" json:"kills"`
	DamageDealt      float64 `msgpack:"damage" json:"damage"`
	Power            float64 `msgpack:"power" json:"power"`
	BucketTier       int     `msgpack:"bucket_tier" json:"bucket_tier"`
	BucketProgress   float64 `msgpack:"bucket_progress" json:"bucket_progress"`
	BucketTargetCost float64 `msgpack:"bucket_cost" json:"bucket_cost"`
}

// Snapshot is a read-only copy of the match at one instant.
type Snapshot struct {
	Time        float64        `msgpack:"t" json:"t"`
	LeftBaseHp  float64        `msgpack:"left_hp" json:"left_hp"`
	RightBaseHp float64        `msgpack:"right_hp" json:"right_hp"`
	Over        bool           `msgpack:"over" json:"over"`
	Winner      string         `msgpack:"winner,omitempty" json:"winner,omitempty"`
	Units       []UnitSnapshot `msgpack:"units" json:"units"`
	Left        SideHud        `msgpack:"left" json:"left"`
	Right       SideHud        `msgpack:"right" json:"right"`
}

func (sim *Simulator) Hud(side Side) SideHud {
	s := sim.state
	sp := sim.spawners[side]
	return SideHud{
		BaseHp:           s.BaseHp(side),
		UnlockedTier:     sim.cfg.UnlockedTierForTime(s.Time),
		Kills:            s.Kills[side],
		DamageDealt:      s.DamageDealt[side],
		Power:            sp.Power(),
		BucketTier:       sp.BucketTier(),
		BucketProgress:   sp.BucketProgress(),
		BucketTargetCost: sp.BucketTargetCost(),
	}
}

func (sim *Simulator) Snapshot() Snapshot {
	s := sim.state
	snap := Snapshot{
		Time:        s.Time,
		LeftBaseHp:  s.LeftBaseHp,
		RightBaseHp: s.RightBaseHp,
		Over:        s.IsOver(),
		Units:       make([]UnitSnapshot, 0, len(s.Units)),
		Left:        sim.Hud(SideLeft),
		Right:       sim.Hud(SideRight),
	}
	if w, ok := s.Winner(); ok {
		snap.Winner = w.String()
	}
	for _, u := range s.Units {
		snap.Units = append(snap.Units, UnitSnapshot{
			ID:     u.ID,
			Side:   u.Side,
			DefID:  u.Def.ID,
			Tier:   u.Def.Tier,
			X:      u.X,
			Hp:     u.Hp,
			Alive:  u.Alive(),
			Radius: u.radius,
		})
	}
	return snap
}

func EncodeSnapshot(snap Snapshot) ([]byte, error) {
	b, err := msgpack.Marshal(&snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

func DecodeSnapshot(b []byte) (Snapshot, error) {
	var snap Snapshot
	if err := msgpack.Unmarshal(b, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

// Fingerprint hashes the encoded snapshot; equal trajectories give equal
// fingerprints.
func Fingerprint(snap Snapshot) (string, error) {
	b, err := EncodeSnapshot(snap)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
