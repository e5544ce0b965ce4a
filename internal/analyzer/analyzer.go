// Package analyzer runs many headless matches and aggregates matchup
// statistics.
package analyzer

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"pixelarmies/internal/combat"
	"pixelarmies/internal/config"
)

// DefaultMaxSimSeconds caps a match when the caller passes no limit.
const DefaultMaxSimSeconds = 240

// ProgressFunc is called with the number of finished runs and the total
// requested.
type ProgressFunc func(done, total int)

type Options struct {
	// MaxSimSeconds caps each match; <= 0 means DefaultMaxSimSeconds.
	MaxSimSeconds float64
	// ProgressInterval calls Progress every N finished runs and on the last.
	ProgressInterval int
	Progress         ProgressFunc
	// WallBudget stops scheduling new runs once exceeded. Zero disables it.
	WallBudget time.Duration
	// Workers bounds RunManyParallel; <= 0 means GOMAXPROCS.
	Workers int
	Logger  *log.Logger
}

func (o Options) maxSeconds() float64 {
	if o.MaxSimSeconds > 0 {
		return o.MaxSimSeconds
	}
	return DefaultMaxSimSeconds
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard)
}

// Outcome is the result of a single match.
type Outcome struct {
	Seed     int64
	Winner   combat.Side
	Decided  bool // false for a draw
	Timeout  bool // the time cap ended the match
	Time     float64
	WinnerHp float64

	LeftBaseHp  float64
	RightBaseHp float64
}

// PlayMatch runs one match to a destroyed base or maxSeconds of simulated
// time. On timeout the side with more base HP left wins; equal HP is a
// draw. A roster fault panics out of the simulator unchanged.
func PlayMatch(cfg *config.SimConfig, left, right *combat.ArmyDef, seed int64, maxSeconds float64) Outcome {
	sim := combat.NewSimulator(cfg, left, right, seed)
	s := sim.State()
	for !s.IsOver() && s.Time < maxSeconds {
		sim.Step(config.FixedDt)
		sim.ConsumeDamageEvents()
		sim.ConsumeUnitDiedEvents()
		sim.ConsumePowerAllocatedEvents()
		sim.ConsumeUnitSpawnedEvents()
	}

	out := Outcome{Seed: seed, Time: s.Time, LeftBaseHp: s.LeftBaseHp, RightBaseHp: s.RightBaseHp}
	if w, ok := s.Winner(); ok {
		out.Winner, out.Decided = w, true
	} else {
		out.Timeout = true
		switch {
		case s.RightBaseHp < s.LeftBaseHp:
			out.Winner, out.Decided = combat.SideLeft, true
		case s.LeftBaseHp < s.RightBaseHp:
			out.Winner, out.Decided = combat.SideRight, true
		}
	}
	if out.Decided {
		out.WinnerHp = max(s.BaseHp(out.Winner), 0)
	}
	return out
}

// RunMany plays runs matches sequentially with seeds seedBase,
// seedBase+1, ... and aggregates them.
func RunMany(cfg *config.SimConfig, left, right *combat.ArmyDef, runs int, seedBase int64,
	maxSimSeconds float64, progressInterval int, progress ProgressFunc) *MatchupStats {
	return Run(cfg, left, right, runs, seedBase, Options{
		MaxSimSeconds:    maxSimSeconds,
		ProgressInterval: progressInterval,
		Progress:         progress,
	})
}

// Run is RunMany with the full option set. The wall budget is checked
// between matches, never inside one.
func Run(cfg *config.SimConfig, left, right *combat.ArmyDef, runs int, seedBase int64, opts Options) *MatchupStats {
	logger := opts.logger()
	maxSeconds := opts.maxSeconds()
	stats := newStats(cfg, maxSeconds, runs)
	start := time.Now()

	logger.Debug("batch start", "left", left.Name, "right", right.Name, "runs", runs, "seed_base", seedBase)
	for i := 0; i < runs; i++ {
		if i > 0 && opts.WallBudget > 0 && time.Since(start) >= opts.WallBudget {
			stats.Truncated = true
			logger.Warn("wall budget exhausted", "done", i, "requested", runs)
			break
		}
		stats.add(PlayMatch(cfg, left, right, seedBase+int64(i), maxSeconds))
		reportProgress(opts, i+1, runs)
	}
	stats.finish()
	logger.Debug("batch done", "runs", stats.Runs, "elapsed", time.Since(start))
	return stats
}

// RunManyParallel fans the same batch out over a bounded worker set.
// Results are folded in seed order, so the statistics match Run for the
// same completed runs. A roster fault in any match aborts the batch and is
// returned as an error wrapping the simulator's panic value.
func RunManyParallel(ctx context.Context, cfg *config.SimConfig, left, right *combat.ArmyDef,
	runs int, seedBase int64, opts Options) (*MatchupStats, error) {
	logger := opts.logger()
	maxSeconds := opts.maxSeconds()
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	outcomes := make([]Outcome, runs)
	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var (
		mu       sync.Mutex
		finished int
	)
	scheduled := 0
	truncated := false
	for i := 0; i < runs; i++ {
		if gctx.Err() != nil {
			break
		}
		if i > 0 && opts.WallBudget > 0 && time.Since(start) >= opts.WallBudget {
			truncated = true
			logger.Warn("wall budget exhausted", "scheduled", i, "requested", runs)
			break
		}
		seed := seedBase + int64(i)
		scheduled++
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					if e, ok := r.(error); ok {
						err = fmt.Errorf("match seed %d: %w", seed, e)
					} else {
						err = fmt.Errorf("match seed %d: %v", seed, r)
					}
				}
			}()
			outcomes[i] = PlayMatch(cfg, left, right, seed, maxSeconds)

			mu.Lock()
			finished++
			reportProgress(opts, finished, runs)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil && scheduled < runs && !truncated {
		return nil, err
	}

	stats := newStats(cfg, maxSeconds, runs)
	stats.Truncated = truncated
	for _, o := range outcomes[:scheduled] {
		stats.add(o)
	}
	stats.finish()
	logger.Debug("parallel batch done", "runs", stats.Runs, "workers", workers, "elapsed", time.Since(start))
	return stats, nil
}

func reportProgress(opts Options, done, total int) {
	if opts.Progress == nil || opts.ProgressInterval <= 0 {
		return
	}
	if done%opts.ProgressInterval == 0 || done == total {
		opts.Progress(done, total)
	}
}
