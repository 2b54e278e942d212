package config

import (
	"fmt"
	"strings"
)

const (
	maxStrikers = 4
	maxSpecials = 2
)

// ValidateRoster checks semantic constraints of a roster document.
func ValidateRoster(rc *RosterConfig) error {
	var errs []string
	seen := map[string]bool{}
	for i, a := range rc.Actors {
		where := fmt.Sprintf("actors[%d]", i)
		if a.ID == "" {
			errs = append(errs, where+".id is required")
		} else if seen[a.ID] {
			errs = append(errs, fmt.Sprintf("%s.id %q is duplicated", where, a.ID))
		}
		seen[a.ID] = true
		switch a.Role {
		case "striker", "special":
		default:
			errs = append(errs, where+".role must be one of: striker, special")
		}
		if a.RegenRate < 0 {
			errs = append(errs, where+".regen_rate must be >= 0")
		}
		errs = append(errs, validateAbility(where+".ability", &a.Ability)...)
		if a.Alternate != nil {
			errs = append(errs, validateAbility(where+".alternate", a.Alternate)...)
		}
		if a.Bonus != nil {
			errs = append(errs, validateAbility(where+".bonus", a.Bonus)...)
		}
		for j, r := range a.Regen {
			rw := fmt.Sprintf("%s.regen[%d]", where, j)
			switch r.Trigger {
			case "passive", "ability", "bonus":
			default:
				errs = append(errs, rw+".trigger must be one of: passive, ability, bonus")
			}
			if r.Trigger != "passive" && r.Duration == 0 {
				errs = append(errs, rw+".duration must be > 0 or -1 for triggered effects")
			}
			if r.Duration < 0 && r.Duration != -1 {
				errs = append(errs, rw+".duration must be > 0 or -1")
			}
			if r.EveryN < 0 {
				errs = append(errs, rw+".every_n must be >= 0")
			}
			if r.Stack != nil && len(r.Stack.Values) == 0 {
				errs = append(errs, rw+".stack.values must not be empty")
			}
		}
		if c := a.Cycle; c != nil {
			if c.Enter < 0 || c.Start < 0 || c.Ing <= 0 || c.Delay < 0 || c.End < 0 || c.Reload < 0 {
				errs = append(errs, where+".cycle durations must be >= 0 and ing > 0")
			}
		}
		if r := a.Rotation; r != nil {
			if r.Period <= 0 {
				errs = append(errs, where+".rotation.period must be >= 1")
			}
			if r.Alternate >= r.Period || r.BonusAfter >= r.Period {
				errs = append(errs, where+".rotation indexes must be < period")
			}
			if r.Alternate >= 0 && a.Alternate == nil {
				errs = append(errs, where+".rotation.alternate set without an alternate ability")
			}
			if r.BonusAfter >= 0 && a.Bonus == nil {
				errs = append(errs, where+".rotation.bonus_after set without a bonus ability")
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("roster validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateAbility(where string, ab *AbilityDef) []string {
	var errs []string
	if ab.Cost < 0 {
		errs = append(errs, where+".cost must be >= 0")
	}
	if ab.Cast < 0 {
		errs = append(errs, where+".cast must be >= 0")
	}
	if rd := ab.Reduction; rd != nil {
		if rd.Percent <= 0 || rd.Percent > 1 {
			errs = append(errs, where+".reduction.percent must be in (0,1]")
		}
		if rd.Uses < 0 {
			errs = append(errs, where+".reduction.uses must be >= 0 (0 means 1)")
		}
		if rd.Delay < 0 {
			errs = append(errs, where+".reduction.delay must be >= 0")
		}
	}
	for i, v := range ab.Effects {
		if v.Duration < 0 || v.Delay < 0 {
			errs = append(errs, fmt.Sprintf("%s.effects[%d] delay/duration must be >= 0", where, i))
		}
	}
	return errs
}

// ValidateEncounter checks settings and that every team member exists in
// the roster with the matching role.
func ValidateEncounter(ec *EncounterConfig, rc *RosterConfig) error {
	var errs []string
	if ec.Duration < 0 {
		errs = append(errs, "duration must be >= 0 (0 means default)")
	}
	if ec.FPS < 0 {
		errs = append(errs, "fps must be >= 0 (0 means default)")
	}
	if ec.MaxCost < 0 || ec.CostUnit < 0 {
		errs = append(errs, "max_cost and cost_unit must be >= 0")
	}
	if ec.RegenStartDelay != nil && *ec.RegenStartDelay < 0 {
		errs = append(errs, "regen_start_delay must be >= 0")
	}
	if ec.InitialMove != nil && *ec.InitialMove < 0 {
		errs = append(errs, "initial_move must be >= 0")
	}
	if len(ec.Team.Strikers) > maxStrikers {
		errs = append(errs, fmt.Sprintf("team.strikers allows at most %d members", maxStrikers))
	}
	if len(ec.Team.Specials) > maxSpecials {
		errs = append(errs, fmt.Sprintf("team.specials allows at most %d members", maxSpecials))
	}
	roles := map[string]string{}
	if rc != nil {
		for _, a := range rc.Actors {
			roles[a.ID] = a.Role
		}
	}
	seen := map[string]bool{}
	check := func(field, role string, ids []string) {
		for _, id := range ids {
			if seen[id] {
				errs = append(errs, fmt.Sprintf("team.%s: %q listed twice", field, id))
			}
			seen[id] = true
			got, ok := roles[id]
			if !ok {
				errs = append(errs, fmt.Sprintf("team.%s: %q is not in the roster", field, id))
				continue
			}
			if got != role {
				errs = append(errs, fmt.Sprintf("team.%s: %q has role %s", field, id, got))
			}
		}
	}
	check("strikers", "striker", ec.Team.Strikers)
	check("specials", "special", ec.Team.Specials)
	for id, d := range ec.InitialMoves {
		if d < 0 {
			errs = append(errs, fmt.Sprintf("initial_moves.%s must be >= 0", id))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("encounter validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func ValidatePlan(pc *PlanConfig) error {
	var errs []string
	for i, r := range pc.Requests {
		where := fmt.Sprintf("requests[%d]", i)
		switch r.Op {
		case "insert":
			if r.Actor == "" {
				errs = append(errs, where+": insert needs actor")
			}
		case "move":
			if r.Actor == "" || r.Duration <= 0 {
				errs = append(errs, where+": move needs actor and duration > 0")
			}
		case "move_event":
			if r.Event == "" {
				errs = append(errs, where+": move_event needs event")
			}
		case "delete":
			if r.Event == "" {
				errs = append(errs, where+": delete needs event")
			}
		case "initial_move":
			if r.Actor == "" || r.Duration < 0 {
				errs = append(errs, where+": initial_move needs actor and duration >= 0")
			}
		case "clear":
		default:
			errs = append(errs, fmt.Sprintf("%s: unknown op %q", where, r.Op))
		}
		if r.At < 0 {
			errs = append(errs, where+": at must be >= 0")
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("plan validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
