package planner

import (
	"fmt"

	"raidplan/internal/config"
)

// Outcome pairs a replayed request with what the session made of it.
type Outcome struct {
	Index   int    `json:"index"`
	Op      string `json:"op"`
	Label   string `json:"label,omitempty"`
	Request string `json:"request"`
	Result  Result `json:"result"`
}

// Replay applies the requests of a plan in order. Labels given to inserts
// let later requests refer to the events they created.
func Replay(ss *Session, plan *config.PlanConfig) []Outcome {
	labels := map[string]string{}
	out := make([]Outcome, 0, len(plan.Requests))
	for i, rq := range plan.Requests {
		ref := rq.Event
		if id, ok := labels[rq.Event]; ok {
			ref = id
		}
		var res Result
		switch rq.Op {
		case "insert":
			res = ss.InsertAbility(rq.Actor, rq.Ability, rq.At, rq.Target)
		case "move":
			res = ss.InsertMove(rq.Actor, rq.At, rq.Duration)
		case "move_event":
			res = ss.MoveEvent(ref, rq.At)
		case "delete":
			res = ss.DeleteEvent(ref)
		case "clear":
			res = ss.ClearAll()
		case "initial_move":
			res = ss.SetInitialMove(rq.Actor, rq.Duration)
		default:
			res = declined(fmt.Errorf("%w: op %q", ErrUnknownEvent, rq.Op), nil)
		}
		if res.Accepted && rq.Label != "" && res.EventID != "" {
			labels[rq.Label] = res.EventID
		}
		out = append(out, Outcome{Index: i, Op: rq.Op, Label: rq.Label, Request: describe(rq), Result: res})
	}
	return out
}

func describe(rq config.RequestDef) string {
	switch rq.Op {
	case "insert":
		return fmt.Sprintf("%s casts %s at %.3f", rq.Actor, orDefault(rq.Ability, "ex"), rq.At)
	case "move":
		return fmt.Sprintf("%s moves at %.3f for %.3f", rq.Actor, rq.At, rq.Duration)
	case "move_event":
		return fmt.Sprintf("%s to %.3f", rq.Event, rq.At)
	case "delete":
		return "delete " + rq.Event
	case "initial_move":
		return fmt.Sprintf("%s enters in %.3f", rq.Actor, rq.Duration)
	}
	return rq.Op
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
