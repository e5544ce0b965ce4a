package analyzer

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"pixelarmies/assets"
	"pixelarmies/internal/combat"
	"pixelarmies/internal/config"
)

func demo(t testing.TB) (*config.SimConfig, *combat.ArmyDef, *combat.ArmyDef) {
	t.Helper()
	cfg, ac, err := assets.Load()
	if err != nil {
		t.Fatal(err)
	}
	left, err := combat.LoadArmy(ac, assets.DefaultLeftArmy)
	if err != nil {
		t.Fatal(err)
	}
	right, err := combat.LoadArmy(ac, assets.DefaultRightArmy)
	if err != nil {
		t.Fatal(err)
	}
	// Short matches keep the batches quick.
	cfg.BaseMaxHp = 300
	return cfg, left, right
}

func roster(name string, tiers ...int) *combat.ArmyDef {
	a := &combat.ArmyDef{ID: name, Name: name}
	for i, tier := range tiers {
		a.Units = append(a.Units, combat.UnitDef{
			ID: name + string(rune('a'+i)), Tier: tier, Cost: 6, MaxHp: 20,
			Damage: 10, AttackRate: 1, Range: 25, Speed: 90,
		})
	}
	return a
}

func TestRunManyRepeatable(t *testing.T) {
	cfg, left, right := demo(t)
	runs := 100
	if testing.Short() {
		runs = 10
	}
	first := RunMany(cfg, left, right, runs, 1000, 90, 0, nil)
	second := RunMany(cfg, left, right, runs, 1000, 90, 0, nil)
	if *first != *second {
		t.Fatalf("batches differ:\n%s\n---\n%s", first, second)
	}
	if first.Runs != runs || first.LeftWins+first.RightWins+first.Draws != runs {
		t.Fatalf("counts do not add up: %+v", first)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	cfg, left, right := demo(t)
	seq := RunMany(cfg, left, right, 16, 77, 90, 0, nil)
	par, err := RunManyParallel(context.Background(), cfg, left, right, 16, 77, Options{MaxSimSeconds: 90, Workers: 4})
	if err != nil {
		t.Fatal(err)
	}
	if *seq != *par {
		t.Fatalf("parallel differs from sequential:\n%s\n---\n%s", seq, par)
	}
}

func TestParallelSurfacesRosterFault(t *testing.T) {
	cfg := config.Default()
	_, err := RunManyParallel(context.Background(), cfg, roster("heavy", 2, 3), roster("ok", 1), 8, 1, Options{Workers: 2})
	if !errors.Is(err, combat.ErrNoEligibleUnits) {
		t.Fatalf("got %v, want ErrNoEligibleUnits", err)
	}
	var ae *combat.ArmyError
	if !errors.As(err, &ae) || ae.Army != "heavy" {
		t.Fatalf("got %v, want an ArmyError for heavy", err)
	}
}

func TestRunManyPropagatesRosterFault(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected the roster fault to abort the batch")
		}
	}()
	RunMany(config.Default(), roster("ok", 1), roster("heavy", 4), 3, 1, 10, 0, nil)
}

func TestParallelHonoursCancel(t *testing.T) {
	cfg, left, right := demo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := RunManyParallel(ctx, cfg, left, right, 4, 1, Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}

func TestProgressInterval(t *testing.T) {
	var calls [][2]int
	idle := roster("idle", 1)
	idle.Units[0].Cost = 1e9
	RunMany(config.Default(), idle, idle, 5, 1, 0.5, 2, func(done, total int) {
		calls = append(calls, [2]int{done, total})
	})
	want := [][2]int{{2, 5}, {4, 5}, {5, 5}}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", calls, want)
		}
	}
}

func TestWallBudgetStopsBetweenRuns(t *testing.T) {
	idle := roster("idle", 1)
	idle.Units[0].Cost = 1e9
	stats := Run(config.Default(), idle, idle, 5, 1, Options{MaxSimSeconds: 1, WallBudget: time.Nanosecond})
	if stats.Runs != 1 || !stats.Truncated || stats.Requested != 5 {
		t.Fatalf("got %+v, want one finished run", stats)
	}
}

func TestTimeoutIsDrawOnEqualHp(t *testing.T) {
	idle := roster("idle", 1)
	idle.Units[0].Cost = 1e9
	o := PlayMatch(config.Default(), idle, idle, 1, 2)
	if o.Decided || !o.Timeout {
		t.Fatalf("got %+v, want a timed-out draw", o)
	}
	if o.Time < 2 {
		t.Fatalf("stopped early at %v", o.Time)
	}
}

// Identical single-unit armies on the default field never break through:
// each side's home spawns replace the front attacker as fast as it kills,
// so only the time cap ends the match and neither base is touched.
func TestMirroredMatchStalls(t *testing.T) {
	cfg := config.Default()
	cfg.BattlefieldLength = 3000
	cfg.BaseMaxHp = 5000
	limit := float64(DefaultMaxSimSeconds)
	if testing.Short() {
		limit = 60
	}
	for _, seed := range []int64{1, 42} {
		o := PlayMatch(cfg, roster("mirror", 1), roster("mirror", 1), seed, limit)
		if !o.Timeout || o.Decided {
			t.Fatalf("seed %d: got %+v, want a timed-out draw", seed, o)
		}
		if o.Time < limit {
			t.Fatalf("seed %d: stopped at %v before the %v cap", seed, o.Time, limit)
		}
		if o.LeftBaseHp != cfg.BaseMaxHp || o.RightBaseHp != cfg.BaseMaxHp {
			t.Fatalf("seed %d: bases L=%v R=%v, want both untouched", seed, o.LeftBaseHp, o.RightBaseHp)
		}
	}
}

func TestStatsAggregation(t *testing.T) {
	cfg := config.Default()
	m := newStats(cfg, 240, 4)
	m.add(Outcome{Winner: combat.SideLeft, Decided: true, Time: 100, WinnerHp: 4000})
	m.add(Outcome{Winner: combat.SideRight, Decided: true, Time: 60, WinnerHp: 1000})
	m.add(Outcome{Winner: combat.SideLeft, Decided: true, Timeout: true, Time: 240, WinnerHp: 3000})
	m.add(Outcome{Timeout: true, Time: 240})
	m.finish()

	if m.LeftWins != 2 || m.RightWins != 1 || m.Draws != 1 || m.Timeouts != 2 {
		t.Fatalf("counts: %+v", m)
	}
	if m.Stomps != 1 {
		t.Fatalf("stomps = %d, want 1 (only 4000 > 3500)", m.Stomps)
	}
	if m.AvgTimeToWin != 160 || m.AvgWinnerBaseHpRemaining != 2000 {
		t.Fatalf("averages: %v %v", m.AvgTimeToWin, m.AvgWinnerBaseHpRemaining)
	}

	report := m.String()
	for _, line := range []string{
		"Runs: 4",
		"Left wins: 2 (50.0%)",
		"Draws: 1 (25.0%)",
		"Stomp rate (>70% base HP): 25.0%",
		"Max sim time: 240.0s (timeout policy: lower enemy base HP wins; ties draw)",
	} {
		if !strings.Contains(report, line) {
			t.Errorf("report missing %q:\n%s", line, report)
		}
	}
}

func TestRenderTable(t *testing.T) {
	cfg := config.Default()
	m := newStats(cfg, 240, 1)
	m.add(Outcome{Winner: combat.SideLeft, Decided: true, Time: 50, WinnerHp: 5000})
	m.finish()

	var buf bytes.Buffer
	if err := RenderTable(&buf, []Row{{Left: "left_basic", Right: "right_basic", Stats: m}}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"left_basic", "right_basic", "100.0", "50.0s"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func BenchmarkRunMany(b *testing.B) {
	cfg, left, right := demo(b)
	for i := 0; i < b.N; i++ {
		RunMany(cfg, left, right, 4, int64(i), 60, 0, nil)
	}
}
