package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"pixelarmies/assets"
	"pixelarmies/internal/combat"
	"pixelarmies/internal/config"
)

type rootFlags struct {
	configDir string
	left      string
	right     string
	verbose   bool
	quiet     bool
}

func main() {
	var rf rootFlags
	rootCmd := &cobra.Command{
		Use:   "armysim",
		Short: "Headless lane battle simulator",
		Long: `Runs deterministic two-army lane battles: batch matchup analysis,
single traced matches, a spectator feed, and the army file schema.`,
		SilenceUsage: true,
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rf.configDir, "config", "", "directory with sim.yaml and armies.yaml (default: embedded demo)")
	pf.StringVar(&rf.left, "left", assets.DefaultLeftArmy, "left army id")
	pf.StringVar(&rf.right, "right", assets.DefaultRightArmy, "right army id")
	pf.BoolVarP(&rf.verbose, "verbose", "v", false, "debug logging")
	pf.BoolVarP(&rf.quiet, "quiet", "q", false, "errors only")

	rootCmd.AddCommand(
		newAnalyzeCmd(&rf),
		newRunCmd(&rf),
		newServeCmd(&rf),
		newSchemaCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (rf *rootFlags) logger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "armysim",
	})
	switch {
	case rf.quiet:
		logger.SetLevel(log.ErrorLevel)
	case rf.verbose:
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// load reads the tuning and rosters from --config, or the embedded demo.
func (rf *rootFlags) load() (*config.SimConfig, *config.ArmiesConfig, error) {
	if rf.configDir == "" {
		return assets.Load()
	}
	return config.LoadAll(rf.configDir)
}

func (rf *rootFlags) matchup() (*config.SimConfig, *combat.ArmyDef, *combat.ArmyDef, error) {
	cfg, ac, err := rf.load()
	if err != nil {
		return nil, nil, nil, err
	}
	left, err := combat.LoadArmy(ac, rf.left)
	if err != nil {
		return nil, nil, nil, err
	}
	right, err := combat.LoadArmy(ac, rf.right)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, left, right, nil
}
