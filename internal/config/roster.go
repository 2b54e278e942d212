package config

type RosterConfig struct {
	Actors []ActorDef `yaml:"actors"`
}

type ActorDef struct {
	ID        string       `yaml:"id"`
	Name      string       `yaml:"name"`
	Role      string       `yaml:"role"` // striker | special
	School    string       `yaml:"school"`
	Armor     string       `yaml:"armor"`
	RegenRate float64      `yaml:"regen_rate"`
	Ability   AbilityDef   `yaml:"ability"`
	Alternate *AbilityDef  `yaml:"alternate"`
	Bonus     *AbilityDef  `yaml:"bonus"`
	Regen     []RegenDef   `yaml:"regen"`
	Cycle     *CycleDef    `yaml:"cycle"`
	Rotation  *RotationDef `yaml:"rotation"`
	Note      string       `yaml:"note"`
}

type CycleDef struct {
	Enter    float64 `yaml:"enter"`
	Start    float64 `yaml:"start"`
	Ing      float64 `yaml:"ing"`
	Delay    float64 `yaml:"delay"`
	End      float64 `yaml:"end"`
	Reload   float64 `yaml:"reload"`
	Ammo     int     `yaml:"ammo"`
	AmmoCost int     `yaml:"ammo_cost"`
}

// RotationDef describes actors whose casts alternate between two abilities.
// Indexes are positions inside one rotation of Period casts; -1 disables.
type RotationDef struct {
	Period     int `yaml:"period"`
	Alternate  int `yaml:"alternate"`
	BonusAfter int `yaml:"bonus_after"`
}
