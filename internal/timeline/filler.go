package timeline

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/looplab/fsm"

	"raidplan/internal/util"
)

const (
	stateIdle   = "idle"
	stateEnter  = "enter"
	stateStart  = "start"
	stateIng    = "ing"
	stateDelay  = "delay"
	stateEnd    = "end"
	stateReload = "reload"
)

// phaseOf maps timed cycle states to the phase label of the filler they emit.
var phaseOf = map[string]Phase{
	stateEnter:  PhaseEnter,
	stateStart:  PhaseStart,
	stateIng:    PhaseIng,
	stateDelay:  PhaseDelay,
	stateEnd:    PhaseEnd,
	stateReload: PhaseReload,
}

// cycleRunner drives one actor's basic-attack loop. idle is a zero-length
// decision state entered after a cast; every other state is a timed phase.
type cycleRunner struct {
	p     *Profile
	c     *WeaponCycle
	fsm   *fsm.FSM
	ammo  int
	t     float64
	out   []Event
	s     Settings
	count int
}

func newCycleRunner(p *Profile, s Settings) *cycleRunner {
	cr := &cycleRunner{p: p, c: p.Cycle, ammo: p.Cycle.Ammo, s: s}
	cr.fsm = fsm.NewFSM(
		stateEnter,
		fsm.Events{
			{Name: "settle", Src: []string{stateEnter}, Dst: stateIdle},
			{Name: "aim", Src: []string{stateIdle, stateReload}, Dst: stateStart},
			{Name: "fire", Src: []string{stateStart, stateDelay}, Dst: stateIng},
			{Name: "recoil", Src: []string{stateIng}, Dst: stateDelay},
			{Name: "rest", Src: []string{stateIng}, Dst: stateEnd},
			{Name: "reload", Src: []string{stateIdle, stateEnd}, Dst: stateReload},
		},
		fsm.Callbacks{
			// Only completed phases reach these; interrupted ones are
			// abandoned through SetState.
			"leave_" + stateIng: func(_ context.Context, _ *fsm.Event) {
				cr.ammo = max(0, cr.ammo-cr.c.AmmoCost)
			},
			"leave_" + stateReload: func(_ context.Context, _ *fsm.Event) {
				cr.ammo = cr.c.Ammo
			},
		},
	)
	return cr
}

func (cr *cycleRunner) magazine() bool { return cr.c.Ammo > 0 }

func (cr *cycleRunner) empty() bool { return cr.magazine() && cr.ammo <= 0 }

func (cr *cycleRunner) duration(state string) float64 {
	switch state {
	case stateEnter:
		return cr.c.Enter
	case stateStart:
		return cr.c.Start
	case stateIng:
		return cr.c.Ing
	case stateDelay:
		return cr.c.Delay
	case stateEnd:
		return cr.c.End
	case stateReload:
		return cr.c.Reload
	}
	return 0
}

// advance names the event that follows a completed phase.
func (cr *cycleRunner) advance(state string) string {
	switch state {
	case stateIdle:
		if cr.empty() {
			return "reload"
		}
		return "aim"
	case stateEnter:
		return "settle"
	case stateStart, stateDelay:
		return "fire"
	case stateIng:
		// leave_ing has not run yet, so look one shot ahead.
		if cr.magazine() && cr.ammo-cr.c.AmmoCost <= 0 {
			return "rest"
		}
		return "recoil"
	case stateEnd:
		return "reload"
	case stateReload:
		return "aim"
	}
	return ""
}

func (cr *cycleRunner) emit(state string, start, d float64) {
	end := math.Min(start+d, cr.s.Duration)
	if end-start < util.Eps {
		return
	}
	cr.out = append(cr.out, Event{
		ID:      fmt.Sprintf("auto-%s-%d", cr.p.ID, cr.count),
		ActorID: cr.p.ID,
		Kind:    KindCycle,
		Start:   start,
		Cast:    end - start,
		End:     end,
		Phase:   phaseOf[state],
		Auto:    true,
	})
	cr.count++
}

// run fills the gaps between blockers until the encounter ends.
func (cr *cycleRunner) run(ctx context.Context, blockers []Event, emit emitFunc) {
	bi := 0
	for loops := 0; cr.t < cr.s.Duration-util.Eps; loops++ {
		if loops >= cr.s.FillerLoopCap {
			emit.emit(Report{T: cr.t, Code: ReportFillerLoopCap, ActorID: cr.p.ID,
				Detail: fmt.Sprintf("stopped after %d steps", loops)})
			return
		}
		var next *Event
		if bi < len(blockers) {
			next = &blockers[bi]
		}
		if next != nil && next.Start <= cr.t+util.Eps {
			cr.t = math.Max(cr.t, next.BlockEnd())
			if next.Kind == KindMove {
				cr.fsm.SetState(stateEnter)
			} else {
				cr.fsm.SetState(stateIdle)
			}
			bi++
			continue
		}
		state := cr.fsm.Current()
		d := cr.duration(state)
		avail := math.Inf(1)
		if next != nil {
			avail = next.Start - cr.t
		}
		if d > avail+util.Eps {
			cr.emit(state, cr.t, avail)
			cr.t = next.Start
			continue
		}
		cr.emit(state, cr.t, d)
		cr.t += d
		if err := cr.fsm.Event(ctx, cr.advance(state)); err != nil {
			emit.emit(Report{T: cr.t, Code: ReportFillerState, ActorID: cr.p.ID, Detail: err.Error()})
			return
		}
	}
}

// GenerateFiller derives the entry walk and weapon-cycle events of every
// striker with a cycle. Casts, bonus actions and manual moves interrupt the
// loop: a phase caught by one is cut short, after a cast the actor decides
// again from idle and after a move it re-enters.
func GenerateFiller(events []Event, team *Team, s Settings, emit func(Report)) []Event {
	byActor := map[string][]Event{}
	for _, ev := range events {
		if ev.Blocks() {
			byActor[ev.ActorID] = append(byActor[ev.ActorID], ev)
		}
	}
	var out []Event
	for _, p := range team.Members() {
		if p.Role != RoleStriker || p.Cycle == nil {
			continue
		}
		blockers := byActor[p.ID]
		sort.SliceStable(blockers, func(i, j int) bool { return blockers[i].Start < blockers[j].Start })
		cr := newCycleRunner(p, s)
		if d := s.InitialMoveFor(p.ID); d > 0 {
			out = append(out, Event{
				ID: "init-move-" + p.ID, ActorID: p.ID, Kind: KindMove,
				Start: 0, Cast: d, End: d, Auto: true,
			})
			cr.t = d
		}
		cr.run(context.Background(), blockers, emitFunc(emit))
		out = append(out, cr.out...)
	}
	return out
}
