package config

type EncounterConfig struct {
	ID              string             `yaml:"id"`
	Note            string             `yaml:"note"`
	Duration        float64            `yaml:"duration"`
	FPS             int                `yaml:"fps"`
	MaxCost         float64            `yaml:"max_cost"`
	CostUnit        float64            `yaml:"cost_unit"`
	RegenStartDelay *float64           `yaml:"regen_start_delay"`
	CascadeAttempts int                `yaml:"cascade_attempts"`
	FillerLoopCap   int                `yaml:"filler_loop_cap"`
	InitialMove     *float64           `yaml:"initial_move"`
	BonusDelay      *float64           `yaml:"bonus_delay"`
	Team            TeamDef            `yaml:"team"`
	InitialMoves    map[string]float64 `yaml:"initial_moves"`
}

type TeamDef struct {
	Strikers []string `yaml:"strikers"`
	Specials []string `yaml:"specials"`
}
