package combat

// DamageEvent is one discrete hit on a unit.
type DamageEvent struct {
	AttackerID int     `msgpack:"a"`
	TargetID   int     `msgpack:"t"`
	Damage     float64 `msgpack:"d"`
	IsRanged   bool    `msgpack:"r"`
}

// UnitDiedEvent is emitted once, on the hit that takes a unit from alive to
// dead.
type UnitDiedEvent struct {
	UnitID   int `msgpack:"u"`
	KillerID int `msgpack:"k"`
}

// PowerAllocatedEvent is a presentation-only "orb" of power moving into a
// bucket. It never feeds back into the simulation.
type PowerAllocatedEvent struct {
	Side   Side    `msgpack:"s"`
	Tier   int     `msgpack:"tier"`
	Amount float64 `msgpack:"amt"`
}

type UnitSpawnedEvent struct {
	Side      Side   `msgpack:"s"`
	Tier      int    `msgpack:"tier"`
	UnitID    int    `msgpack:"u"`
	UnitDefID string `msgpack:"def"`
}

// Outbox is a double-buffered event batch. Step appends; a single reader
// drains between steps. Anything not drained before the reader's next
// Drain is returned together with newer events; a batch returned by Drain
// stays valid until the following Drain.
type Outbox[T any] struct {
	pending []T
	spare   []T
}

func (o *Outbox[T]) Add(e T) { o.pending = append(o.pending, e) }

func (o *Outbox[T]) Len() int { return len(o.pending) }

// Drain returns the accumulated batch and starts a new empty one.
func (o *Outbox[T]) Drain() []T {
	out := o.pending
	o.pending = o.spare[:0]
	o.spare = out
	return out
}

// Events groups the four outboxes a match writes to.
type Events struct {
	Damage  Outbox[DamageEvent]
	Died    Outbox[UnitDiedEvent]
	Power   Outbox[PowerAllocatedEvent]
	Spawned Outbox[UnitSpawnedEvent]
}
