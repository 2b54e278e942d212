package config

type PlanConfig struct {
	Name     string       `yaml:"name"`
	Note     string       `yaml:"note"`
	Requests []RequestDef `yaml:"requests"`
}

// RequestDef is one editor operation replayed against a session. Label names
// the event created by insert/move so later requests can refer to it in Event.
type RequestDef struct {
	Op       string  `yaml:"op"` // insert | move | move_event | delete | clear | initial_move
	Label    string  `yaml:"label"`
	Actor    string  `yaml:"actor"`
	Ability  string  `yaml:"ability"`
	At       float64 `yaml:"at"`
	Target   string  `yaml:"target"`
	Duration float64 `yaml:"duration"`
	Event    string  `yaml:"event"`
	Note     string  `yaml:"note"`
}
