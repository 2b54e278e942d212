package timeline

import (
	"math"
	"sort"
)

type Kind string

const (
	KindAbility Kind = "ability"
	KindMove    Kind = "move"
	KindCycle   Kind = "cycle"
	KindBonus   Kind = "bonus"
)

// Phase labels the weapon-cycle stage a filler event covers.
type Phase string

const (
	PhaseEnter  Phase = "enter"
	PhaseStart  Phase = "start"
	PhaseIng    Phase = "ing"
	PhaseDelay  Phase = "delay"
	PhaseEnd    Phase = "end"
	PhaseReload Phase = "reload"
)

// Event is one placed block on an actor's track. Cast is the part that
// blocks the actor; End also covers trailing effects.
type Event struct {
	ID        string          `json:"id"`
	ActorID   string          `json:"actorId"`
	Kind      Kind            `json:"kind" jsonschema:"enum=ability,enum=move,enum=cycle,enum=bonus"`
	Start     float64         `json:"start"`
	Cast      float64         `json:"cast"`
	End       float64         `json:"end"`
	Ability   string          `json:"ability,omitempty"`
	Target    string          `json:"target,omitempty"`
	Phase     Phase           `json:"phase,omitempty"`
	Reduction *ReductionGrant `json:"reduction,omitempty"`
	Auto      bool            `json:"auto,omitempty"`
}

// Manual reports whether the event was placed by the user.
func (e Event) Manual() bool {
	return !e.Auto && (e.Kind == KindAbility || e.Kind == KindMove)
}

// Blocks reports whether the event occupies its actor: casts, bonus
// actions and manual moves cannot overlap each other on one track.
func (e Event) Blocks() bool {
	switch e.Kind {
	case KindAbility, KindBonus:
		return true
	case KindMove:
		return !e.Auto
	}
	return false
}

// BlockEnd is where the occupied part of the event finishes.
func (e Event) BlockEnd() float64 {
	if e.Kind == KindMove {
		return math.Max(e.End, e.Start+e.Cast)
	}
	return e.Start + e.Cast
}

// Sorted returns a copy ordered by start; equal starts keep input order.
func Sorted(events []Event) []Event {
	out := Clone(events)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

func Clone(events []Event) []Event {
	if events == nil {
		return nil
	}
	out := make([]Event, len(events))
	copy(out, events)
	return out
}

// Find returns the index of the event with id, or -1.
func Find(events []Event, id string) int {
	for i := range events {
		if events[i].ID == id {
			return i
		}
	}
	return -1
}
