package planner

import (
	"errors"

	"raidplan/internal/timeline"
)

// Reason explains why an edit was declined; ReasonOK when it was accepted.
type Reason string

const (
	ReasonOK               Reason = "ok"
	ReasonUnknownActor     Reason = "unknown-actor"
	ReasonUnknownAbility   Reason = "unknown-ability"
	ReasonUnknownEvent     Reason = "unknown-event"
	ReasonMissingTarget    Reason = "missing-target"
	ReasonOverlap          Reason = "overlap"
	ReasonUnaffordable     Reason = "unaffordable"
	ReasonPastEncounterEnd Reason = "past-encounter-end"
	ReasonNotManual        Reason = "not-manual"
	ReasonInvariantBreach  Reason = "invariant-breach"
	ReasonBadSnapshot      Reason = "bad-snapshot"
)

var (
	ErrUnknownActor   = errors.New("planner: unknown actor")
	ErrUnknownAbility = errors.New("planner: unknown ability")
	ErrUnknownEvent   = errors.New("planner: unknown event")
	ErrMissingTarget  = errors.New("planner: ability needs a target")
	ErrOverlap        = errors.New("planner: overlaps another event of the actor")
	ErrPastEnd        = errors.New("planner: outside the encounter")
	ErrNotManual      = errors.New("planner: event was generated, not placed")
	ErrBadSnapshot    = errors.New("planner: snapshot not readable")
)

var reasonOf = map[error]Reason{
	ErrUnknownActor:   ReasonUnknownActor,
	ErrUnknownAbility: ReasonUnknownAbility,
	ErrUnknownEvent:   ReasonUnknownEvent,
	ErrMissingTarget:  ReasonMissingTarget,
	ErrOverlap:        ReasonOverlap,
	ErrPastEnd:        ReasonPastEncounterEnd,
	ErrNotManual:      ReasonNotManual,
	ErrBadSnapshot:    ReasonBadSnapshot,
}

// Result is the outcome of one edit. Declined edits leave the session
// untouched.
type Result struct {
	Accepted bool              `json:"accepted"`
	Reason   Reason            `json:"reason"`
	Detail   string            `json:"detail,omitempty"`
	EventID  string            `json:"eventId,omitempty"`
	Start    float64           `json:"start,omitempty"`
	Shifted  bool              `json:"shifted,omitempty"`
	Reports  []timeline.Report `json:"reports,omitempty"`
}

// ReasonFor maps an error from the session or the engine to a reason code.
func ReasonFor(err error) Reason {
	if err == nil {
		return ReasonOK
	}
	var inf *timeline.InfeasibleError
	if errors.As(err, &inf) {
		if inf.Reason == timeline.InfeasiblePastEnd {
			return ReasonPastEncounterEnd
		}
		return ReasonUnaffordable
	}
	if errors.Is(err, timeline.ErrInvariant) {
		return ReasonInvariantBreach
	}
	for sentinel, r := range reasonOf {
		if errors.Is(err, sentinel) {
			return r
		}
	}
	return ReasonInvariantBreach
}

func declined(err error, reports []timeline.Report) Result {
	return Result{Reason: ReasonFor(err), Detail: err.Error(), Reports: reports}
}
