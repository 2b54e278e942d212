package timeline

import (
	"fmt"
	"math"
)

type Role int

const (
	RoleAny Role = iota - 1
	RoleStriker
	RoleSpecial
)

func ParseRole(s string) (Role, error) {
	switch s {
	case "striker":
		return RoleStriker, nil
	case "special":
		return RoleSpecial, nil
	case "":
		return RoleAny, nil
	}
	return RoleAny, fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string {
	switch r {
	case RoleStriker:
		return "striker"
	case RoleSpecial:
		return "special"
	}
	return "any"
}

type VisualEffect struct {
	Kind     string
	Delay    float64
	Duration float64
	Target   string
}

type ReductionGrant struct {
	Percent float64 `json:"percent"`
	Uses    int     `json:"uses"`
	Delay   float64 `json:"delay"`
}

type Ability struct {
	Name           string
	Cost           int
	Cast           float64
	Effects        []VisualEffect
	Reduction      *ReductionGrant
	RequiresTarget bool
}

// Span is how long the ability stays on the timeline: the cast itself or
// the last attached effect, whichever ends later.
func (a *Ability) Span() float64 {
	span := a.Cast
	for _, v := range a.Effects {
		span = math.Max(span, v.Delay+v.Duration)
	}
	return span
}

// LongestEffect is the duration used by regen effects declared with
// DeriveDuration.
func (a *Ability) LongestEffect() float64 {
	longest := 0.0
	for _, v := range a.Effects {
		longest = math.Max(longest, v.Duration)
	}
	if longest > 0 {
		return longest
	}
	return a.Cast
}

type Trigger int

const (
	TriggerPassive Trigger = iota
	TriggerAbility
	TriggerBonus
)

// DeriveDuration marks a regen effect whose window length comes from the
// ability that triggered it.
const DeriveDuration = -1.0

type RegenEffect struct {
	Trigger   Trigger
	Flat      bool
	Magnitude float64 // regen units when Flat, basis points otherwise
	Duration  float64
	Delay     float64
	EveryN    int
	Stack     *StackRule
}

type StackRule struct {
	School string
	Role   Role
	Armor  string
	Values []float64
}

func (sr *StackRule) matches(p *Profile) bool {
	if sr.School != "" && sr.School != p.School {
		return false
	}
	if sr.Role != RoleAny && sr.Role != p.Role {
		return false
	}
	if sr.Armor != "" && sr.Armor != p.Armor {
		return false
	}
	return true
}

type WeaponCycle struct {
	Enter    float64
	Start    float64
	Ing      float64
	Delay    float64
	End      float64
	Reload   float64
	Ammo     int
	AmmoCost int
}

// Rotation replaces per-actor special casing for actors whose casts follow
// a fixed pattern. Index fields are positions in a rotation of Period
// casts; negative values disable them.
type Rotation struct {
	Period     int
	Alternate  int
	BonusAfter int
}

type Profile struct {
	ID        string
	Name      string
	Role      Role
	School    string
	Armor     string
	RegenRate float64
	Ability   Ability
	Alternate *Ability
	Bonus     *Ability
	Regen     []RegenEffect
	Cycle     *WeaponCycle
	Rotation  *Rotation
}

// AbilityFor returns the ability used by the index-th cast (0-based) of
// this actor. ref names an explicitly requested ability and only matters
// for actors without a rotation.
func (p *Profile) AbilityFor(index int, ref string) *Ability {
	if r := p.Rotation; r != nil && r.Period > 0 {
		if r.Alternate >= 0 && p.Alternate != nil && index%r.Period == r.Alternate {
			return p.Alternate
		}
		return &p.Ability
	}
	if ref != "" && p.Alternate != nil && ref == p.Alternate.Name && ref != p.Ability.Name {
		return p.Alternate
	}
	return &p.Ability
}

// ArmsBonus reports whether the index-th cast queues the bonus action.
func (p *Profile) ArmsBonus(index int) bool {
	r := p.Rotation
	if r == nil || r.Period <= 0 || r.BonusAfter < 0 || p.Bonus == nil {
		return false
	}
	return index%r.Period == r.BonusAfter
}

func (p *Profile) FindAbility(ref string) (*Ability, bool) {
	switch {
	case ref == "" || ref == p.Ability.Name:
		return &p.Ability, true
	case p.Alternate != nil && ref == p.Alternate.Name:
		return p.Alternate, true
	}
	return nil, false
}
