package planner

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"raidplan/internal/timeline"
	"raidplan/internal/util"
)

// Session owns the committed timeline of one plan. Every edit builds a new
// event list, reschedules it and replaces the old one only when the result
// is valid. A Session is not safe for concurrent use.
type Session struct {
	team     *timeline.Team
	settings timeline.Settings
	events   []timeline.Event
	acc      *timeline.Accumulator

	// NewID names manual events; tests swap it for a deterministic source.
	NewID func() string
	// Emit receives every report produced while rebuilding the timeline.
	Emit func(timeline.Report)
}

func NewSession(team *timeline.Team, s timeline.Settings) *Session {
	ss := &Session{team: team, settings: s, NewID: uuid.NewString}
	// An empty plan still carries entry walks and weapon cycles; with no
	// casts there is nothing that could be infeasible.
	out, _ := timeline.Reschedule(nil, team, s, nil)
	ss.install(out, s)
	return ss
}

func (ss *Session) install(events []timeline.Event, s timeline.Settings) {
	ss.events = events
	ss.settings = s
	ss.acc = timeline.Simulate(events, ss.team, s)
}

func (ss *Session) Team() *timeline.Team         { return ss.team }
func (ss *Session) Settings() timeline.Settings { return ss.settings }

// Events returns a copy of the committed timeline.
func (ss *Session) Events() []timeline.Event { return timeline.Clone(ss.events) }

func (ss *Session) snap(t float64) float64 { return util.SnapToFrame(t, ss.settings.FPS) }

func (ss *Session) inRange(t float64) bool {
	return t >= -util.Eps && t <= ss.settings.Duration+util.Eps
}

// commit reschedules next and installs it if every invariant holds.
func (ss *Session) commit(next []timeline.Event, s timeline.Settings, id string, requested float64) Result {
	var reports []timeline.Report
	emit := func(r timeline.Report) {
		reports = append(reports, r)
		if ss.Emit != nil {
			ss.Emit(r)
		}
	}
	out, err := timeline.Reschedule(next, ss.team, s, emit)
	if err != nil {
		return declined(err, reports)
	}
	if err := timeline.CheckInvariants(out, ss.team, s); err != nil {
		return declined(err, reports)
	}
	ss.install(out, s)
	res := Result{Accepted: true, Reason: ReasonOK, EventID: id, Reports: reports}
	if i := timeline.Find(out, id); i >= 0 {
		res.Start = out[i].Start
		res.Shifted = !util.Near(out[i].Start, requested)
	}
	return res
}

// InsertAbility places a cast of abilityRef ("" for the primary ability) at
// the requested time. The cast may land later when it is not affordable.
func (ss *Session) InsertAbility(actorID, abilityRef string, at float64, targetID string) Result {
	p, ok := ss.team.Profile(actorID)
	if !ok {
		return declined(fmt.Errorf("%w: %s", ErrUnknownActor, actorID), nil)
	}
	ab, ok := p.FindAbility(abilityRef)
	if !ok {
		return declined(fmt.Errorf("%w: %s has no %q", ErrUnknownAbility, actorID, abilityRef), nil)
	}
	if ab.RequiresTarget && targetID == "" {
		return declined(fmt.Errorf("%w: %s", ErrMissingTarget, ab.Name), nil)
	}
	if targetID != "" {
		if _, ok := ss.team.Profile(targetID); !ok {
			return declined(fmt.Errorf("%w: target %s", ErrUnknownActor, targetID), nil)
		}
	}
	at = ss.snap(at)
	if !ss.inRange(at) {
		return declined(fmt.Errorf("%w: %.3f", ErrPastEnd, at), nil)
	}
	if b, hit := timeline.Overlaps(ss.events, actorID, "", at, ab.Cast, ss.settings); hit {
		return declined(fmt.Errorf("%w: %s", ErrOverlap, b.ID), nil)
	}
	ev := timeline.Event{
		ID:      ss.NewID(),
		ActorID: actorID,
		Kind:    timeline.KindAbility,
		Start:   at,
		Cast:    ab.Cast,
		End:     at + ab.Span(),
		Ability: ab.Name,
		Target:  targetID,
	}
	return ss.commit(append(ss.Events(), ev), ss.settings, ev.ID, at)
}

// InsertMove places a manual walk that interrupts the actor's weapon cycle.
func (ss *Session) InsertMove(actorID string, at, duration float64) Result {
	if _, ok := ss.team.Profile(actorID); !ok {
		return declined(fmt.Errorf("%w: %s", ErrUnknownActor, actorID), nil)
	}
	at, duration = ss.snap(at), ss.snap(duration)
	if !ss.inRange(at) || duration <= 0 {
		return declined(fmt.Errorf("%w: move %.3f+%.3f", ErrPastEnd, at, duration), nil)
	}
	if b, hit := timeline.Overlaps(ss.events, actorID, "", at, duration, ss.settings); hit {
		return declined(fmt.Errorf("%w: %s", ErrOverlap, b.ID), nil)
	}
	ev := timeline.Event{
		ID:      ss.NewID(),
		ActorID: actorID,
		Kind:    timeline.KindMove,
		Start:   at,
		Cast:    duration,
		End:     at + duration,
	}
	return ss.commit(append(ss.Events(), ev), ss.settings, ev.ID, at)
}

func (ss *Session) manual(eventID string) (int, error) {
	i := timeline.Find(ss.events, eventID)
	if i < 0 {
		return -1, fmt.Errorf("%w: %s", ErrUnknownEvent, eventID)
	}
	if !ss.events[i].Manual() {
		return -1, fmt.Errorf("%w: %s", ErrNotManual, eventID)
	}
	return i, nil
}

// MoveEvent drags a manual event to a new time.
func (ss *Session) MoveEvent(eventID string, newTime float64) Result {
	i, err := ss.manual(eventID)
	if err != nil {
		return declined(err, nil)
	}
	newTime = ss.snap(newTime)
	if !ss.inRange(newTime) {
		return declined(fmt.Errorf("%w: %.3f", ErrPastEnd, newTime), nil)
	}
	ev := ss.events[i]
	if b, hit := timeline.Overlaps(ss.events, ev.ActorID, ev.ID, newTime, ev.BlockEnd()-ev.Start, ss.settings); hit {
		return declined(fmt.Errorf("%w: %s", ErrOverlap, b.ID), nil)
	}
	next := ss.Events()
	span := ev.End - ev.Start
	next[i].Start = newTime
	next[i].End = newTime + span
	return ss.commit(next, ss.settings, ev.ID, newTime)
}

// DeleteEvent removes a manual event. Later events keep their times.
func (ss *Session) DeleteEvent(eventID string) Result {
	i, err := ss.manual(eventID)
	if err != nil {
		return declined(err, nil)
	}
	next := append(ss.Events()[:i:i], ss.events[i+1:]...)
	res := ss.commit(next, ss.settings, "", 0)
	res.EventID = eventID
	res.Shifted = false
	return res
}

// ClearAll drops every manual event.
func (ss *Session) ClearAll() Result {
	return ss.commit(nil, ss.settings, "", 0)
}

// SetInitialMove changes the entry walk of one actor; 0 removes it.
func (ss *Session) SetInitialMove(actorID string, duration float64) Result {
	if _, ok := ss.team.Profile(actorID); !ok {
		return declined(fmt.Errorf("%w: %s", ErrUnknownActor, actorID), nil)
	}
	if duration < 0 || duration > ss.settings.Duration {
		return declined(fmt.Errorf("%w: initial move %.3f", ErrPastEnd, duration), nil)
	}
	s := ss.settings.WithInitialMove(actorID, duration)
	res := ss.commit(ss.Events(), s, "init-move-"+actorID, 0)
	res.Shifted = false
	return res
}

// ResourceAt is the resource at t after any payment made at t.
func (ss *Session) ResourceAt(t float64) float64 { return ss.acc.ValueAt(t) }

// EffectiveCostOf is what actorID would pay for a cast at t.
func (ss *Session) EffectiveCostOf(actorID string, t float64) (float64, error) {
	cost, ok := timeline.EffectiveCost(actorID, t, ss.events, ss.team)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownActor, actorID)
	}
	return cost, nil
}

func (ss *Session) TraceForDisplay() []timeline.Point { return ss.acc.Trace() }

// RegenRateAt is the regeneration in cost points per second at t.
func (ss *Session) RegenRateAt(t float64) float64 { return ss.acc.RateAt(t) }

// NextCostTime finds the first frame after from where the resource has
// grown by one whole point. ok is false when that never happens.
func (ss *Session) NextCostTime(from float64) (float64, bool) {
	fps := ss.settings.FPS
	target := math.Floor(ss.acc.ValueAt(from)+util.Eps) + 1
	if target > ss.settings.MaxCost+util.Eps {
		return 0, false
	}
	start := util.FrameIndex(util.SnapUp(from, fps), fps) + 1
	last := util.FrameIndex(ss.settings.Duration, fps)
	for i, n := start, 0; i <= last && n < ss.settings.CascadeAttempts; i, n = i+1, n+1 {
		t := util.FrameTime(i, fps)
		if ss.acc.ValueBefore(t) >= target-util.Eps {
			return t, true
		}
	}
	return 0, false
}
