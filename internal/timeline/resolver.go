package timeline

import (
	"fmt"
	"math"

	"raidplan/internal/util"
)

// Consumption is a cost payment at a cast frame.
type Consumption struct {
	Time    float64 `json:"time"`
	Amount  float64 `json:"amount"`
	EventID string  `json:"eventId"`
	ActorID string  `json:"actorId"`
}

// RegenWindow boosts regeneration over [Start, End). Windows sharing a Key
// do not stack with each other.
type RegenWindow struct {
	Start     float64
	End       float64
	Magnitude float64
	Flat      bool
	ActorID   string
	EventID   string
	Key       string
}

// ReductionStack is the pending discount for an actor's next casts. A newer
// grant on the same target replaces it.
type ReductionStack struct {
	Percent       float64
	Remaining     int
	EffectiveFrom float64
	SourceID      string
}

// PassiveRates are the team-wide regeneration terms independent of time.
type PassiveRates struct {
	Base    float64 // regen units per second
	Percent float64 // fraction, 0.1 is +10%
}

type Resolution struct {
	Consumptions []Consumption
	Windows      []RegenWindow
	Reductions   map[string]*ReductionStack
	Costs        map[string]float64
	Abilities    map[string]*Ability
	Counts       map[string]int
	Passive      PassiveRates
	Reports      []Report
}

// PassiveRatesOf sums base regeneration and passive effects of the team.
// Percent passives of special actors do not add up: only the largest counts.
func PassiveRatesOf(team *Team) PassiveRates {
	var pr PassiveRates
	bestSpecial := 0.0
	for _, p := range team.Members() {
		pr.Base += p.RegenRate
		for _, eff := range p.Regen {
			if eff.Trigger != TriggerPassive {
				continue
			}
			val := eff.Magnitude
			if sr := eff.Stack; sr != nil {
				n := 0
				for _, o := range team.Members() {
					if o.ID != p.ID && sr.matches(o) {
						n++
					}
				}
				val = sr.Values[min(n, len(sr.Values)-1)]
			}
			switch {
			case eff.Flat:
				pr.Base += val
			case p.Role == RoleSpecial:
				bestSpecial = math.Max(bestSpecial, val/10000)
			default:
				pr.Percent += val / 10000
			}
		}
	}
	pr.Percent += bestSpecial
	return pr
}

// Resolve walks events chronologically and derives cost payments, regen
// windows and reduction state. Within one frame every reduction grant is
// registered before any cost is paid, so a grant with no delay already
// discounts casts on its own frame, the granting cast included.
func Resolve(events []Event, team *Team) *Resolution {
	res := &Resolution{
		Reductions: map[string]*ReductionStack{},
		Costs:      map[string]float64{},
		Abilities:  map[string]*Ability{},
		Counts:     map[string]int{},
		Passive:    PassiveRatesOf(team),
	}
	sorted := Sorted(events)
	for i := 0; i < len(sorted); {
		j := i + 1
		for j < len(sorted) && util.Near(sorted[j].Start, sorted[i].Start) {
			j++
		}
		group := sorted[i:j]
		res.register(group)
		for _, ev := range group {
			res.apply(ev, team)
		}
		i = j
	}
	return res
}

// register installs the reduction grants carried by one frame's casts.
func (res *Resolution) register(group []Event) {
	for _, ev := range group {
		if ev.Kind != KindAbility || ev.Reduction == nil {
			continue
		}
		target := ev.Target
		if target == "" {
			target = ev.ActorID
		}
		uses := ev.Reduction.Uses
		if uses <= 0 {
			uses = 1
		}
		res.Reductions[target] = &ReductionStack{
			Percent:       ev.Reduction.Percent,
			Remaining:     uses,
			EffectiveFrom: ev.Start + ev.Reduction.Delay,
			SourceID:      ev.ID,
		}
	}
}

// charge prices a cast of cost at t for actorID. With consume set it also
// spends one use of the actor's reduction stack.
func (res *Resolution) charge(actorID string, cost, t float64, consume bool) float64 {
	st := res.Reductions[actorID]
	if st == nil || t < st.EffectiveFrom-util.Eps {
		return cost
	}
	if consume {
		st.Remaining--
		if st.Remaining <= 0 {
			delete(res.Reductions, actorID)
		}
	}
	return Discount(cost, st.Percent)
}

func (res *Resolution) apply(ev Event, team *Team) {
	if ev.Kind != KindAbility && ev.Kind != KindBonus {
		return
	}
	p, ok := team.Profile(ev.ActorID)
	if !ok {
		res.Reports = append(res.Reports, Report{
			T: ev.Start, Code: ReportMissingProfile, ActorID: ev.ActorID, EventID: ev.ID,
			Detail: "event skipped",
		})
		return
	}
	var ab *Ability
	if ev.Kind == KindAbility {
		idx := res.Counts[p.ID]
		res.Counts[p.ID]++
		ab = p.AbilityFor(idx, ev.Ability)
		res.Abilities[ev.ID] = ab
		cost := res.charge(p.ID, float64(ab.Cost), ev.Start, true)
		res.Costs[ev.ID] = cost
		if cost > 0 {
			res.Consumptions = append(res.Consumptions, Consumption{Time: ev.Start, Amount: cost, EventID: ev.ID, ActorID: p.ID})
		}
	} else if p.Bonus != nil {
		ab = p.Bonus
	} else {
		ab = &Ability{Cast: ev.Cast}
	}
	for k, eff := range p.Regen {
		switch eff.Trigger {
		case TriggerAbility:
			if ev.Kind != KindAbility {
				continue
			}
		case TriggerBonus:
			if ev.Kind != KindBonus {
				continue
			}
		default:
			continue
		}
		if eff.EveryN > 0 {
			if c := res.Counts[p.ID]; c == 0 || c%eff.EveryN != 0 {
				continue
			}
		}
		dur := eff.Duration
		if dur == DeriveDuration {
			dur = ab.LongestEffect()
		}
		if dur <= 0 {
			continue
		}
		start := ev.Start + eff.Delay
		res.Windows = append(res.Windows, RegenWindow{
			Start:     start,
			End:       start + dur,
			Magnitude: eff.Magnitude,
			Flat:      eff.Flat,
			ActorID:   p.ID,
			EventID:   ev.ID,
			Key:       fmt.Sprintf("%s/%d", p.ID, k),
		})
	}
}

// Discount applies a fractional reduction, rounding the result up.
func Discount(cost, percent float64) float64 {
	return math.Max(0, math.Ceil(cost*(1-percent)-1e-9))
}

// EffectiveCost is what the actor would pay for a cast at t. Casts before
// t advance the rotation and spend reduction uses; grants on t's own frame
// count, as they do in Resolve.
func EffectiveCost(actorID string, t float64, events []Event, team *Team) (float64, bool) {
	p, ok := team.Profile(actorID)
	if !ok {
		return 0, false
	}
	var past, frame []Event
	for _, ev := range events {
		switch {
		case ev.Start < t-util.Eps:
			past = append(past, ev)
		case util.Near(ev.Start, t):
			frame = append(frame, ev)
		}
	}
	res := Resolve(past, team)
	res.register(frame)
	cost := float64(p.AbilityFor(res.Counts[actorID], "").Cost)
	return res.charge(actorID, cost, t, false), true
}
