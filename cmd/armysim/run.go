package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pixelarmies/internal/analyzer"
	"pixelarmies/internal/combat"
	"pixelarmies/internal/config"
)

type runFlags struct {
	seed          int64
	maxSeconds    float64
	debug         bool
	debugInterval float64
	debugPrefix   string
}

func newRunCmd(rf *rootFlags) *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Play one match and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(rf, &f)
		},
	}
	fl := cmd.Flags()
	fl.Int64Var(&f.seed, "seed", 1, "match seed")
	fl.Float64Var(&f.maxSeconds, "max-seconds", analyzer.DefaultMaxSimSeconds, "simulated time cap")
	fl.BoolVar(&f.debug, "debug", false, "print a trace line every --debug-interval seconds")
	fl.Float64Var(&f.debugInterval, "debug-interval", 5, "trace interval in simulated seconds")
	fl.StringVar(&f.debugPrefix, "debug-prefix", "", "prefix for trace lines")
	return cmd
}

func runMatch(rf *rootFlags, f *runFlags) error {
	logger := rf.logger()
	cfg, left, right, err := rf.matchup()
	if err != nil {
		return err
	}

	sim := combat.NewSimulator(cfg, left, right, f.seed,
		combat.WithLogger(logger),
		combat.WithTrace(combat.TraceSettings{
			Enabled:  f.debug,
			Interval: f.debugInterval,
			Prefix:   f.debugPrefix,
			Writer:   os.Stdout,
		}))

	var spawned, died int
	s := sim.State()
	for !s.IsOver() && s.Time < f.maxSeconds {
		sim.Step(config.FixedDt)
		sim.ConsumeDamageEvents()
		sim.ConsumePowerAllocatedEvents()
		spawned += len(sim.ConsumeUnitSpawnedEvents())
		died += len(sim.ConsumeUnitDiedEvents())
	}

	fp, err := combat.Fingerprint(sim.Snapshot())
	if err != nil {
		return err
	}

	result := color.YellowString("timeout")
	if w, ok := sim.Winner(); ok {
		if w == combat.SideLeft {
			result = color.GreenString("%s wins", left.Name)
		} else {
			result = color.RedString("%s wins", right.Name)
		}
	}
	fmt.Printf("%s at t=%.1fs  L=%.0f R=%.0f  spawned=%d died=%d\n",
		result, s.Time, max(s.LeftBaseHp, 0), max(s.RightBaseHp, 0), spawned, died)
	for _, side := range []combat.Side{combat.SideLeft, combat.SideRight} {
		h := sim.Hud(side)
		fmt.Printf("  %-5s kills=%d damage=%.0f power=%.1f bucket=t%d %.1f/%.0f\n",
			side, h.Kills, h.DamageDealt, h.Power, h.BucketTier, h.BucketProgress, h.BucketTargetCost)
	}
	fmt.Printf("fingerprint %s\n", fp)
	return nil
}
