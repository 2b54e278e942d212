package timeline

import (
	"errors"
	"fmt"
	"strings"

	"raidplan/internal/util"
)

var ErrInvariant = errors.New("timeline: invariant violated")

// CheckInvariants verifies a rescheduled timeline: every payment affordable,
// no overlapping blocks per actor, starts on the frame grid and sorted, and
// weapon-cycle fillers clear of blocking events.
func CheckInvariants(events []Event, team *Team, s Settings) error {
	var errs []string
	if sf, ok := Simulate(events, team, s).Affordable(0); !ok {
		errs = append(errs, fmt.Sprintf("payment of %.0f at %.3f exceeds %.3f available", sf.Needed, sf.Time, sf.Available))
	}
	for i, ev := range events {
		if !util.OnFrame(ev.Start, s.FPS) {
			errs = append(errs, fmt.Sprintf("%s starts off-frame at %.4f", ev.ID, ev.Start))
		}
		if i > 0 && ev.Start < events[i-1].Start-util.Eps {
			errs = append(errs, fmt.Sprintf("%s is out of order", ev.ID))
		}
		switch {
		case ev.Blocks():
			for _, o := range events[i+1:] {
				if o.ActorID == ev.ActorID && o.Blocks() && o.Start < blockedUntil(ev, s)-util.Eps && ev.Start < blockedUntil(o, s)-util.Eps {
					errs = append(errs, fmt.Sprintf("%s overlaps %s", ev.ID, o.ID))
				}
			}
		case ev.Kind == KindCycle:
			for _, o := range events {
				if o.ActorID == ev.ActorID && o.Blocks() && o.Start < ev.End-util.Eps && ev.Start < o.BlockEnd()-util.Eps {
					errs = append(errs, fmt.Sprintf("filler %s overlaps %s", ev.ID, o.ID))
				}
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvariant, strings.Join(errs, "; "))
	}
	return nil
}
