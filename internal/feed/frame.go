package feed

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"pixelarmies/internal/combat"
)

// Frame is one broadcast tick: the state after the step plus the events
// the step produced.
type Frame struct {
	Session  string                       `msgpack:"session"`
	Seq      uint64                       `msgpack:"seq"`
	Snapshot combat.Snapshot              `msgpack:"snap"`
	Damage   []combat.DamageEvent         `msgpack:"dmg,omitempty"`
	Died     []combat.UnitDiedEvent       `msgpack:"died,omitempty"`
	Power    []combat.PowerAllocatedEvent `msgpack:"power,omitempty"`
	Spawned  []combat.UnitSpawnedEvent    `msgpack:"spawned,omitempty"`
}

func EncodeFrame(f *Frame) ([]byte, error) {
	b, err := msgpack.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encode frame %d: %w", f.Seq, err)
	}
	return b, nil
}

func DecodeFrame(b []byte) (*Frame, error) {
	var f Frame
	if err := msgpack.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return &f, nil
}
