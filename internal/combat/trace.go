package combat

import (
	"fmt"
	"io"
)

// TraceSettings configures the headless debug trace: one line per elapsed
// Interval of simulated time. A nil Writer sends lines to the logger.
type TraceSettings struct {
	Enabled  bool
	Interval float64
	Prefix   string
	Writer   io.Writer
}

type tracer struct {
	TraceSettings
	next float64
}

func newTracer(ts TraceSettings) tracer {
	if ts.Interval <= 0 {
		ts.Interval = 1
	}
	return tracer{TraceSettings: ts, next: ts.Interval}
}

// Slack for accumulated dt error, well under one tick.
const traceEpsilon = 1e-6

func (t *tracer) observe(sim *Simulator) {
	if !t.Enabled {
		return
	}
	now := sim.state.Time
	if now+traceEpsilon < t.next {
		return
	}
	for t.next <= now+traceEpsilon {
		t.next += t.Interval
	}
	line := FormatTraceLine(t.Prefix, now, sim.cfg.BaseMaxHp, sim.state.DebugSnapshot())
	if t.Writer != nil {
		fmt.Fprintln(t.Writer, line)
		return
	}
	sim.logger.Print(line)
}

// FormatTraceLine renders a debug snapshot as
// "[prefix]t=12.0s L=4980/5000 R=5000/5000 L[t1=3 t2=1 t3=0 t4=0] R[...]".
func FormatTraceLine(prefix string, t, baseMaxHp float64, ds DebugSnapshot) string {
	return fmt.Sprintf("%st=%.1fs L=%.0f/%.0f R=%.0f/%.0f L[%s] R[%s]",
		prefix, t,
		max(ds.LeftBaseHp, 0), baseMaxHp,
		max(ds.RightBaseHp, 0), baseMaxHp,
		tierCounts(ds.Left), tierCounts(ds.Right))
}

func tierCounts(c [4]int) string {
	return fmt.Sprintf("t1=%d t2=%d t3=%d t4=%d", c[0], c[1], c[2], c[3])
}
