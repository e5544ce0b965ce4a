package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	SimFile    = "sim.yaml"
	ArmiesFile = "armies.yaml"
)

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

// ParseSim decodes sim.yaml content on top of Default, so omitted keys keep
// their default tuning.
func ParseSim(b []byte) (*SimConfig, error) {
	cfg := Default()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", SimFile, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", SimFile, err)
	}
	return cfg, nil
}

func ParseArmies(b []byte) (*ArmiesConfig, error) {
	var ac ArmiesConfig
	if err := yaml.Unmarshal(b, &ac); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ArmiesFile, err)
	}
	return &ac, nil
}

func LoadSim(path string) (*SimConfig, error) {
	cfg := Default()
	if err := loadYAML(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

func LoadArmies(path string) (*ArmiesConfig, error) {
	var ac ArmiesConfig
	if err := loadYAML(path, &ac); err != nil {
		return nil, err
	}
	return &ac, nil
}

// LoadAll reads sim.yaml and armies.yaml from dir. A missing sim.yaml means
// default tuning; armies.yaml is required.
func LoadAll(dir string) (*SimConfig, *ArmiesConfig, error) {
	simPath := filepath.Join(dir, SimFile)
	cfg := Default()
	if _, err := os.Stat(simPath); err == nil {
		if cfg, err = LoadSim(simPath); err != nil {
			return nil, nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, nil, err
	}
	ac, err := LoadArmies(filepath.Join(dir, ArmiesFile))
	if err != nil {
		return nil, nil, err
	}
	return cfg, ac, nil
}
