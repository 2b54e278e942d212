package timeline

import (
	"errors"
	"fmt"

	"raidplan/internal/util"
)

var ErrInfeasible = errors.New("timeline: infeasible")

const (
	InfeasibleUnaffordable = "unaffordable"
	InfeasiblePastEnd      = "past-encounter-end"
)

// InfeasibleError reports a cast the cascade could not place.
type InfeasibleError struct {
	EventID   string
	ActorID   string
	Requested float64
	LastTried float64
	Reason    string
	Shortfall *Shortfall
}

func (e *InfeasibleError) Error() string {
	msg := fmt.Sprintf("timeline: cannot place %s (%s) requested at %.3f, last tried %.3f: %s",
		e.EventID, e.ActorID, e.Requested, e.LastTried, e.Reason)
	if e.Shortfall != nil {
		msg += fmt.Sprintf(" (%.2f available, %.0f needed at %.3f)", e.Shortfall.Available, e.Shortfall.Needed, e.Shortfall.Time)
	}
	return msg
}

func (e *InfeasibleError) Unwrap() error { return ErrInfeasible }

// Reschedule rebuilds a timeline from the manual events in it. Casts are
// committed in order of their current start, each at the first frame where
// it does not overlap its actor and every payment from it onward stays
// affordable. Bonus actions and weapon-cycle fillers are derived afresh.
// The result is a fixed point: rescheduling it again changes nothing.
func Reschedule(events []Event, team *Team, s Settings, emit func(Report)) ([]Event, error) {
	var casts, committed []Event
	for _, ev := range Sorted(events) {
		switch ev.Kind {
		case KindAbility:
			casts = append(casts, ev)
		case KindMove:
			if !ev.Auto {
				committed = append(committed, ev)
			}
		}
	}
	counts := map[string]int{}
	floor := map[string]float64{}
	for _, ev := range casts {
		p, ok := team.Profile(ev.ActorID)
		if !ok {
			emitFunc(emit).emit(Report{T: ev.Start, Code: ReportMissingProfile, ActorID: ev.ActorID, EventID: ev.ID, Detail: "kept in place"})
			committed = append(committed, ev)
			continue
		}
		idx := counts[p.ID]
		placed, err := placeCast(ev, floor[p.ID], p.AbilityFor(idx, ev.Ability), committed, team, s)
		if err != nil {
			return nil, err
		}
		committed = append(committed, placed)
		counts[p.ID]++
		// Casts of one actor keep their order so rotation indexes stay put.
		floor[p.ID] = blockedUntil(placed, s)
		if p.ArmsBonus(idx) {
			if bonus, ok := placeBonus(placed, p, committed, s); ok {
				committed = append(committed, bonus)
			} else {
				emitFunc(emit).emit(Report{T: placed.Start, Code: ReportBonusDropped, ActorID: p.ID, EventID: placed.ID, Detail: "no room before encounter end"})
			}
		}
	}
	fillers := GenerateFiller(committed, team, s, emit)
	return Sorted(append(committed, fillers...)), nil
}

func placeCast(ev Event, floor float64, ab *Ability, committed []Event, team *Team, s Settings) (Event, error) {
	cand := util.SnapUp(max(ev.Start, floor), s.FPS)
	fail := &InfeasibleError{EventID: ev.ID, ActorID: ev.ActorID, Requested: ev.Start, Reason: InfeasibleUnaffordable}
	trial := make([]Event, len(committed)+1)
	copy(trial, committed)
	for attempt := 0; attempt <= s.CascadeAttempts; attempt++ {
		fail.LastTried = cand
		if cand > s.Duration+util.Eps {
			fail.Reason = InfeasiblePastEnd
			return Event{}, fail
		}
		if b, ok := overlapping(committed, ev.ActorID, "", cand, ab.Cast, s); ok {
			cand = util.SnapUp(blockedUntil(b, s), s.FPS)
			continue
		}
		placed := ev
		placed.Start = cand
		placed.Cast = ab.Cast
		placed.End = cand + ab.Span()
		placed.Ability = ab.Name
		placed.Reduction = nil
		if ab.Reduction != nil {
			r := *ab.Reduction
			placed.Reduction = &r
		}
		trial[len(committed)] = placed
		sf, ok := Simulate(trial, team, s).Affordable(cand)
		if ok {
			return placed, nil
		}
		fail.Shortfall = sf
		cand = util.FrameTime(util.FrameIndex(cand, s.FPS)+1, s.FPS)
	}
	return Event{}, fail
}

// placeBonus queues the bonus action at the first free frame after the
// arming cast finishes.
func placeBonus(cast Event, p *Profile, committed []Event, s Settings) (Event, bool) {
	at := util.SnapUp(cast.Start+cast.Cast+s.BonusDelay, s.FPS)
	for i := 0; i < s.CascadeAttempts; i++ {
		b, ok := overlapping(committed, p.ID, "", at, p.Bonus.Cast, s)
		if !ok {
			break
		}
		at = util.SnapUp(blockedUntil(b, s), s.FPS)
	}
	if at > s.Duration+util.Eps {
		return Event{}, false
	}
	return Event{
		ID:      "bonus-" + cast.ID,
		ActorID: p.ID,
		Kind:    KindBonus,
		Start:   at,
		Cast:    p.Bonus.Cast,
		End:     at + p.Bonus.Span(),
		Ability: p.Bonus.Name,
		Auto:    true,
	}, true
}

// overlapping finds a blocking event of actor intersecting [at, at+span).
// Zero-length spans occupy one frame.
func overlapping(events []Event, actorID, skipID string, at, span float64, s Settings) (Event, bool) {
	end := at + max(span, s.Frame())
	for _, ev := range events {
		if ev.ActorID != actorID || ev.ID == skipID || !ev.Blocks() {
			continue
		}
		if at < blockedUntil(ev, s)-util.Eps && ev.Start < end-util.Eps {
			return ev, true
		}
	}
	return Event{}, false
}

// blockedUntil is the end of the block, never shorter than one frame.
func blockedUntil(ev Event, s Settings) float64 {
	return max(ev.BlockEnd(), ev.Start+s.Frame())
}

// Overlaps reports whether a manual block for actor at [at, at+span) would
// collide with an existing manual event other than skipID.
func Overlaps(events []Event, actorID, skipID string, at, span float64, s Settings) (Event, bool) {
	var manual []Event
	for _, ev := range events {
		if ev.Manual() {
			manual = append(manual, ev)
		}
	}
	return overlapping(manual, actorID, skipID, at, span, s)
}
