package config

type ArmiesConfig struct {
	Armies []ArmySpec `yaml:"armies" json:"armies"`
}

type ArmySpec struct {
	ID    string     `yaml:"id" json:"id" jsonschema:"required"`
	Name  string     `yaml:"name" json:"name"`
	Units []UnitSpec `yaml:"units" json:"units" jsonschema:"required,minItems=1"`
	Note  string     `yaml:"note" json:"note,omitempty"`
}

type UnitSpec struct {
	ID                  string  `yaml:"id" json:"id" jsonschema:"required"`
	Tier                int     `yaml:"tier" json:"tier" jsonschema:"required,minimum=1,maximum=4"`
	Cost                float64 `yaml:"cost" json:"cost" jsonschema:"required,exclusiveMinimum=0"`
	MaxHp               float64 `yaml:"max_hp" json:"max_hp" jsonschema:"required,exclusiveMinimum=0"`
	Damage              float64 `yaml:"damage" json:"damage"`
	AttackRate          float64 `yaml:"attack_rate" json:"attack_rate"`
	Range               float64 `yaml:"range" json:"range"`
	Speed               float64 `yaml:"speed" json:"speed"`
	Movement            string  `yaml:"movement" json:"movement,omitempty" jsonschema:"enum=ground,enum=air"`
	Targeting           string  `yaml:"targeting" json:"targeting,omitempty" jsonschema:"enum=frontmost,enum=closest_in_range,enum=closest"`
	WeaponLength        float64 `yaml:"weapon_length" json:"weapon_length,omitempty"`
	FormationSpacingMul float64 `yaml:"formation_spacing_mul" json:"formation_spacing_mul,omitempty"`
	VanguardDepth       int     `yaml:"vanguard_depth" json:"vanguard_depth,omitempty"`
	VanguardSpacingMul  float64 `yaml:"vanguard_spacing_mul" json:"vanguard_spacing_mul,omitempty"`
	Note                string  `yaml:"note" json:"note,omitempty"`
}

// Army returns the spec with the given id, or nil.
func (ac *ArmiesConfig) Army(id string) *ArmySpec {
	if ac == nil {
		return nil
	}
	for i := range ac.Armies {
		if ac.Armies[i].ID == id {
			return &ac.Armies[i]
		}
	}
	return nil
}

func (ac *ArmiesConfig) IDs() []string {
	if ac == nil {
		return nil
	}
	out := make([]string, 0, len(ac.Armies))
	for _, a := range ac.Armies {
		out = append(out, a.ID)
	}
	return out
}
