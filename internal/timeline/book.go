package timeline

import (
	"fmt"

	"raidplan/internal/config"
	"raidplan/internal/util"
)

// Book holds every actor profile known to the planner, keyed by id.
type Book struct {
	byID  map[string]*Profile
	order []string
}

// NewBook converts a roster document into profiles. Durations are snapped
// to the frame grid of fps so that every derived event time stays on it.
func NewBook(rc *config.RosterConfig, fps int) (*Book, error) {
	b := &Book{byID: map[string]*Profile{}}
	if rc == nil {
		return b, nil
	}
	if fps <= 0 {
		fps = DefaultFPS
	}
	snap := func(t float64) float64 { return util.SnapToFrame(t, fps) }
	for _, a := range rc.Actors {
		role, err := ParseRole(a.Role)
		if err != nil || role == RoleAny {
			return nil, fmt.Errorf("actor %s: invalid role %q", a.ID, a.Role)
		}
		if _, dup := b.byID[a.ID]; dup {
			return nil, fmt.Errorf("actor %s: duplicated", a.ID)
		}
		p := &Profile{
			ID:        a.ID,
			Name:      a.Name,
			Role:      role,
			School:    a.School,
			Armor:     a.Armor,
			RegenRate: a.RegenRate,
			Ability:   abilityFrom(a.Ability, snap),
		}
		if p.Name == "" {
			p.Name = a.ID
		}
		if a.Alternate != nil {
			alt := abilityFrom(*a.Alternate, snap)
			p.Alternate = &alt
		}
		if a.Bonus != nil {
			bonus := abilityFrom(*a.Bonus, snap)
			p.Bonus = &bonus
		}
		for _, r := range a.Regen {
			eff, err := regenFrom(r, p, snap)
			if err != nil {
				return nil, fmt.Errorf("actor %s: %w", a.ID, err)
			}
			p.Regen = append(p.Regen, eff)
		}
		if c := a.Cycle; c != nil {
			p.Cycle = &WeaponCycle{
				Enter: snap(c.Enter), Start: snap(c.Start), Ing: snap(c.Ing),
				Delay: snap(c.Delay), End: snap(c.End), Reload: snap(c.Reload),
				Ammo: c.Ammo, AmmoCost: c.AmmoCost,
			}
			if p.Cycle.AmmoCost <= 0 {
				p.Cycle.AmmoCost = 1
			}
		}
		if r := a.Rotation; r != nil {
			p.Rotation = &Rotation{Period: r.Period, Alternate: r.Alternate, BonusAfter: r.BonusAfter}
		}
		b.byID[p.ID] = p
		b.order = append(b.order, p.ID)
	}
	return b, nil
}

func abilityFrom(d config.AbilityDef, snap func(float64) float64) Ability {
	ab := Ability{
		Name:           d.Name,
		Cost:           d.Cost,
		Cast:           snap(d.Cast),
		RequiresTarget: d.RequiresTarget,
	}
	for _, v := range d.Effects {
		ab.Effects = append(ab.Effects, VisualEffect{
			Kind: v.Kind, Delay: snap(v.Delay), Duration: snap(v.Duration), Target: v.Target,
		})
	}
	if r := d.Reduction; r != nil {
		uses := r.Uses
		if uses <= 0 {
			uses = 1
		}
		ab.Reduction = &ReductionGrant{Percent: r.Percent, Uses: uses, Delay: snap(r.Delay)}
	}
	return ab
}

func regenFrom(r config.RegenDef, p *Profile, snap func(float64) float64) (RegenEffect, error) {
	eff := RegenEffect{
		Flat:      r.Flat,
		Magnitude: r.Value,
		Duration:  r.Duration,
		Delay:     snap(r.Delay),
		EveryN:    r.EveryN,
	}
	if eff.Duration != DeriveDuration {
		eff.Duration = snap(eff.Duration)
	}
	switch r.Trigger {
	case "passive":
		eff.Trigger = TriggerPassive
	case "ability":
		eff.Trigger = TriggerAbility
		if r.AfterCast {
			eff.Delay = p.Ability.Cast
		}
	case "bonus":
		eff.Trigger = TriggerBonus
		if r.AfterCast && p.Bonus != nil {
			eff.Delay = p.Bonus.Cast
		}
	default:
		return eff, fmt.Errorf("unknown regen trigger %q", r.Trigger)
	}
	if s := r.Stack; s != nil {
		role, err := ParseRole(s.Role)
		if err != nil {
			return eff, err
		}
		eff.Stack = &StackRule{School: s.School, Role: role, Armor: s.Armor, Values: append([]float64(nil), s.Values...)}
	}
	return eff, nil
}

func (b *Book) Profile(id string) (*Profile, bool) {
	p, ok := b.byID[id]
	return p, ok
}

// IDs lists profile ids in roster order.
func (b *Book) IDs() []string { return append([]string(nil), b.order...) }

// Team is the set of actors taking part in one encounter.
type Team struct {
	Strikers []string
	Specials []string
	members  []*Profile
	byID     map[string]*Profile
}

// NewTeam picks the named actors out of the book. Roles must match the
// slot they are placed in.
func NewTeam(b *Book, strikers, specials []string) (*Team, error) {
	t := &Team{byID: map[string]*Profile{}}
	add := func(id string, want Role) error {
		p, ok := b.Profile(id)
		if !ok {
			return fmt.Errorf("unknown actor %q", id)
		}
		if p.Role != want {
			return fmt.Errorf("actor %s is a %s, not a %s", id, p.Role, want)
		}
		if _, dup := t.byID[id]; dup {
			return fmt.Errorf("actor %s appears twice", id)
		}
		t.byID[id] = p
		t.members = append(t.members, p)
		if want == RoleStriker {
			t.Strikers = append(t.Strikers, id)
		} else {
			t.Specials = append(t.Specials, id)
		}
		return nil
	}
	for _, id := range strikers {
		if err := add(id, RoleStriker); err != nil {
			return nil, err
		}
	}
	for _, id := range specials {
		if err := add(id, RoleSpecial); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// TeamOf builds a team straight from profiles, mostly for tests and tools.
func TeamOf(profiles ...*Profile) *Team {
	t := &Team{byID: map[string]*Profile{}}
	for _, p := range profiles {
		t.byID[p.ID] = p
		t.members = append(t.members, p)
		if p.Role == RoleSpecial {
			t.Specials = append(t.Specials, p.ID)
		} else {
			t.Strikers = append(t.Strikers, p.ID)
		}
	}
	return t
}

func (t *Team) Profile(id string) (*Profile, bool) {
	if t == nil {
		return nil, false
	}
	p, ok := t.byID[id]
	return p, ok
}

func (t *Team) Members() []*Profile { return t.members }
