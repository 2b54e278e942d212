package config

type AbilityDef struct {
	Name           string        `yaml:"name"`
	Cost           int           `yaml:"cost"`
	Cast           float64       `yaml:"cast"`
	Effects        []VisualDef   `yaml:"effects"`
	Reduction      *ReductionDef `yaml:"reduction"`
	RequiresTarget bool          `yaml:"requires_target"`
	Note           string        `yaml:"note"`
}

type VisualDef struct {
	Kind     string  `yaml:"kind"`
	Delay    float64 `yaml:"delay"`
	Duration float64 `yaml:"duration"`
	Target   string  `yaml:"target"`
}

type ReductionDef struct {
	Percent float64 `yaml:"percent"` // 0.5 halves the next cast
	Uses    int     `yaml:"uses"`
	Delay   float64 `yaml:"delay"`
}
