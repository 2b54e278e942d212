package timeline

import (
	"math"
	"testing"
)

// unitRate regenerates exactly one cost point per second.
const unitRate = DefaultCostUnit

func testSettings() Settings {
	s := DefaultSettings()
	s.InitialMove = 0
	return s
}

func striker(id string, rate float64, cost int, cast float64) *Profile {
	return &Profile{
		ID:        id,
		Name:      id,
		Role:      RoleStriker,
		RegenRate: rate,
		Ability:   Ability{Name: id + "-ex", Cost: cost, Cast: cast},
	}
}

func special(id string, rate float64, cost int, cast float64) *Profile {
	p := striker(id, rate, cost, cast)
	p.Role = RoleSpecial
	return p
}

func cast(id, actor string, at float64) Event {
	return Event{ID: id, ActorID: actor, Kind: KindAbility, Start: at}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-3 }

func mustReschedule(t *testing.T, events []Event, team *Team, s Settings) []Event {
	t.Helper()
	out, err := Reschedule(events, team, s, nil)
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	return out
}

func byID(t *testing.T, events []Event, id string) Event {
	t.Helper()
	i := Find(events, id)
	if i < 0 {
		t.Fatalf("event %s missing", id)
	}
	return events[i]
}
