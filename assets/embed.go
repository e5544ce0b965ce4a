// Package assets carries the default tuning and demo armies so the tools
// run without a config directory.
package assets

import (
	_ "embed"

	"pixelarmies/internal/config"
)

//go:embed sim.yaml
var simYAML []byte

//go:embed armies.yaml
var armiesYAML []byte

const (
	DefaultLeftArmy  = "left_basic"
	DefaultRightArmy = "right_basic"
)

// Load parses the embedded defaults.
func Load() (*config.SimConfig, *config.ArmiesConfig, error) {
	cfg, err := config.ParseSim(simYAML)
	if err != nil {
		return nil, nil, err
	}
	ac, err := config.ParseArmies(armiesYAML)
	if err != nil {
		return nil, nil, err
	}
	return cfg, ac, nil
}
