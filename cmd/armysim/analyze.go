package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"pixelarmies/internal/analyzer"
	"pixelarmies/internal/combat"
)

type analyzeFlags struct {
	runs       int
	seed       int64
	maxSeconds float64
	progress   int
	workers    int
	budget     time.Duration
	all        bool
	out        string
}

var bannerStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("6")).
	Padding(0, 2)

func newAnalyzeCmd(rf *rootFlags) *cobra.Command {
	var af analyzeFlags
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run many matches and report matchup statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), rf, &af)
		},
	}
	f := cmd.Flags()
	f.IntVar(&af.runs, "runs", 200, "matches per matchup")
	f.Int64Var(&af.seed, "seed", 1, "seed of the first match")
	f.Float64Var(&af.maxSeconds, "max-seconds", analyzer.DefaultMaxSimSeconds, "simulated time cap per match")
	f.IntVar(&af.progress, "progress", 50, "progress line every N matches (0 = off)")
	f.IntVar(&af.workers, "workers", 1, "parallel workers (0 = all cores)")
	f.DurationVar(&af.budget, "budget", 0, "wall-clock budget per matchup (0 = none)")
	f.BoolVar(&af.all, "all", false, "play every ordered pair of armies in the file")
	f.StringVar(&af.out, "out", "", "write the summary as JSON to this file")
	return cmd
}

type summary struct {
	Batch   string           `json:"batch"`
	Seed    int64            `json:"seed"`
	Results []matchupSummary `json:"results"`
}

type matchupSummary struct {
	Left  string                 `json:"left"`
	Right string                 `json:"right"`
	Stats *analyzer.MatchupStats `json:"stats"`
}

func runAnalyze(ctx context.Context, rf *rootFlags, af *analyzeFlags) error {
	logger := rf.logger()
	cfg, ac, err := rf.load()
	if err != nil {
		return err
	}

	pairs := [][2]string{{rf.left, rf.right}}
	if af.all {
		pairs = pairs[:0]
		for _, l := range ac.IDs() {
			for _, r := range ac.IDs() {
				if l != r {
					pairs = append(pairs, [2]string{l, r})
				}
			}
		}
	}

	batch := uuid.NewString()
	title := color.New(color.FgCyan, color.Bold)
	title.Println(bannerStyle.Render(fmt.Sprintf("Pixel Armies analyzer\nbatch %s", batch)))

	var rows []analyzer.Row
	sum := summary{Batch: batch, Seed: af.seed}
	for _, p := range pairs {
		left, err := combat.LoadArmy(ac, p[0])
		if err != nil {
			return err
		}
		right, err := combat.LoadArmy(ac, p[1])
		if err != nil {
			return err
		}

		opts := analyzer.Options{
			MaxSimSeconds:    af.maxSeconds,
			ProgressInterval: af.progress,
			WallBudget:       af.budget,
			Workers:          af.workers,
			Logger:           logger,
			Progress: func(done, total int) {
				logger.Info("progress", "matchup", left.Name+" vs "+right.Name, "done", done, "total", total)
			},
		}
		start := time.Now()
		var stats *analyzer.MatchupStats
		if af.workers == 1 {
			stats = analyzer.Run(cfg, left, right, af.runs, af.seed, opts)
		} else if stats, err = analyzer.RunManyParallel(ctx, cfg, left, right, af.runs, af.seed, opts); err != nil {
			return err
		}
		logger.Debug("matchup done", "left", left.ID, "right", right.ID, "elapsed", time.Since(start))

		fmt.Printf("\n%s vs %s\n", color.GreenString(left.Name), color.RedString(right.Name))
		fmt.Println(stats)
		rows = append(rows, analyzer.Row{Left: left.ID, Right: right.ID, Stats: stats})
		sum.Results = append(sum.Results, matchupSummary{Left: left.ID, Right: right.ID, Stats: stats})
	}

	fmt.Println()
	if err := analyzer.RenderTable(os.Stdout, rows); err != nil {
		return err
	}

	if af.out != "" {
		b, err := json.MarshalIndent(sum, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(af.out, b, 0o644); err != nil {
			return err
		}
		logger.Info("summary written", "path", af.out)
	}
	return nil
}
