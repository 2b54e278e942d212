package config

type RegenDef struct {
	Trigger   string    `yaml:"trigger"` // passive | ability | bonus
	Flat      bool      `yaml:"flat"`
	Value     float64   `yaml:"value"`
	Duration  float64   `yaml:"duration"` // -1 derives from the triggering ability
	Delay     float64   `yaml:"delay"`
	AfterCast bool      `yaml:"after_cast"`
	EveryN    int       `yaml:"every_n"`
	Stack     *StackDef `yaml:"stack"`
	Note      string    `yaml:"note"`
}

// StackDef scales a passive by the number of other team members matching
// every non-empty field.
type StackDef struct {
	School string    `yaml:"school"`
	Role   string    `yaml:"role"`
	Armor  string    `yaml:"armor"`
	Values []float64 `yaml:"values"`
}
