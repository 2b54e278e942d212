package planner

import (
	"encoding/json"
	"fmt"
	"slices"

	"raidplan/internal/timeline"
)

// TeamRecord is the team composition as stored next to a plan.
type TeamRecord struct {
	Strikers []string `json:"strikers"`
	Specials []string `json:"specials"`
}

// Snapshot is the persisted form of a session: settings, team and the
// committed timeline. Generated events are included for display; Restore
// derives them again.
type Snapshot struct {
	Version  int               `json:"version"`
	Settings timeline.Settings `json:"settings"`
	Team     TeamRecord        `json:"team"`
	Events   []timeline.Event  `json:"events"`
}

const SnapshotVersion = 1

func (ss *Session) Snapshot() Snapshot {
	return Snapshot{
		Version:  SnapshotVersion,
		Settings: ss.settings,
		Team: TeamRecord{
			Strikers: append([]string(nil), ss.team.Strikers...),
			Specials: append([]string(nil), ss.team.Specials...),
		},
		Events: ss.Events(),
	}
}

// Restore replaces the timeline with the manual events of a snapshot taken
// for the same team. A snapshot whose events no longer reschedule cleanly is
// declined as a bad snapshot; the detail names the underlying cause.
func (ss *Session) Restore(snap Snapshot) Result {
	if snap.Version != SnapshotVersion {
		return declined(fmt.Errorf("%w: version %d", ErrBadSnapshot, snap.Version), nil)
	}
	if !slices.Equal(snap.Team.Strikers, ss.team.Strikers) || !slices.Equal(snap.Team.Specials, ss.team.Specials) {
		return declined(fmt.Errorf("%w: team %v/%v, session has %v/%v", ErrBadSnapshot,
			snap.Team.Strikers, snap.Team.Specials, ss.team.Strikers, ss.team.Specials), nil)
	}
	var manual []timeline.Event
	for _, ev := range snap.Events {
		if !ev.Manual() {
			continue
		}
		if _, ok := ss.team.Profile(ev.ActorID); !ok {
			return declined(fmt.Errorf("%w: unknown actor %s", ErrBadSnapshot, ev.ActorID), nil)
		}
		manual = append(manual, ev)
	}
	s := ss.settings
	for id, d := range snap.Settings.InitialMoves {
		s = s.WithInitialMove(id, d)
	}
	res := ss.commit(manual, s, "", 0)
	if !res.Accepted {
		res.Reason = ReasonBadSnapshot
		res.Detail = fmt.Sprintf("%v: %s", ErrBadSnapshot, res.Detail)
	}
	return res
}

func MarshalPretty(v any) []byte {
	b, _ := json.MarshalIndent(v, "", "  ")
	return b
}
