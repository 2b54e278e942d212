package timeline

import (
	"errors"
	"fmt"
	"testing"

	"raidplan/internal/util"
)

func TestRescheduleDelaysUnaffordableCast(t *testing.T) {
	s := testSettings()
	team := TeamOf(striker("a", unitRate, 3, 0.1), striker("b", 0, 3, 0.1))
	// a and b share one pool: a pays 3 at 5 and b's request at 5.2 waits
	// until 3 points have come back.
	out := mustReschedule(t, []Event{cast("a1", "a", 5), cast("b1", "b", 5.2)}, team, s)
	if got := byID(t, out, "a1").Start; !near(got, 5) {
		t.Fatalf("a1 moved to %v", got)
	}
	got := byID(t, out, "b1").Start
	if !near(got, 8) {
		t.Fatalf("b1 placed at %v, want 8", got)
	}
	acc := Simulate(out, team, s)
	if v := acc.ValueBefore(got); v < 3-util.Eps {
		t.Fatalf("value before b1 = %v", v)
	}
	if v := acc.ValueBefore(got - s.Frame()); v >= 3-util.Eps {
		t.Fatalf("one frame earlier was already affordable: %v", v)
	}
}

func TestRescheduleSnapsToFrames(t *testing.T) {
	s := testSettings()
	team := TeamOf(striker("a", unitRate, 0, 0.5))
	out := mustReschedule(t, []Event{cast("c", "a", 10.01)}, team, s)
	c := byID(t, out, "c")
	if !util.OnFrame(c.Start, s.FPS) || c.Start < 10.01-util.Eps {
		t.Fatalf("start %v not snapped up", c.Start)
	}
	if !near(c.End, c.Start+0.5) || c.Ability != "a-ex" {
		t.Fatalf("derived fields not set: %+v", c)
	}
}

func TestRescheduleEndCoversEffects(t *testing.T) {
	s := testSettings()
	p := striker("a", unitRate, 0, 1)
	p.Ability.Effects = []VisualEffect{{Kind: "buff", Delay: 0.5, Duration: 20}}
	out := mustReschedule(t, []Event{cast("c", "a", 4)}, TeamOf(p), s)
	if c := byID(t, out, "c"); !near(c.End, 24.5) {
		t.Fatalf("end = %v, want 24.5", c.End)
	}
}

func TestRescheduleJumpsPastSameActorBlock(t *testing.T) {
	s := testSettings()
	team := TeamOf(striker("a", unitRate, 0, 2))
	out := mustReschedule(t, []Event{cast("c1", "a", 10), cast("c2", "a", 10.5)}, team, s)
	if got := byID(t, out, "c2").Start; !near(got, 12) {
		t.Fatalf("c2 = %v, want 12", got)
	}
}

func TestRescheduleKeepsActorOrder(t *testing.T) {
	s := testSettings()
	team := TeamOf(striker("a", unitRate, 6, 1))
	// c1 cannot be paid before 8; c2 must not jump ahead of it
	out := mustReschedule(t, []Event{cast("c1", "a", 3), cast("c2", "a", 4)}, team, s)
	c1, c2 := byID(t, out, "c1"), byID(t, out, "c2")
	if !near(c1.Start, 8) || c2.Start < c1.Start+c1.Cast-util.Eps {
		t.Fatalf("c1=%v c2=%v", c1.Start, c2.Start)
	}
}

func TestRescheduleInfeasiblePastEnd(t *testing.T) {
	s := testSettings()
	s.Duration = 20
	team := TeamOf(striker("a", unitRate/10, 5, 1))
	_, err := Reschedule([]Event{cast("c", "a", 3)}, team, s, nil)
	var inf *InfeasibleError
	if !errors.As(err, &inf) || !errors.Is(err, ErrInfeasible) {
		t.Fatalf("err = %v", err)
	}
	if inf.Reason != InfeasiblePastEnd || inf.EventID != "c" {
		t.Fatalf("infeasible = %+v", inf)
	}
}

func TestRescheduleInfeasibleAttemptCap(t *testing.T) {
	s := testSettings()
	s.CascadeAttempts = 10
	team := TeamOf(striker("a", unitRate, 5, 1))
	_, err := Reschedule([]Event{cast("c", "a", 3)}, team, s, nil)
	var inf *InfeasibleError
	if !errors.As(err, &inf) || inf.Reason != InfeasibleUnaffordable || inf.Shortfall == nil {
		t.Fatalf("err = %v", err)
	}
}

func TestRescheduleRotationAndBonus(t *testing.T) {
	s := testSettings()
	p := striker("noa", unitRate, 1, 1)
	p.Alternate = &Ability{Name: "alt", Cost: 1, Cast: 2}
	p.Bonus = &Ability{Name: "bonus", Cast: 0.5}
	p.Rotation = &Rotation{Period: 3, Alternate: 2, BonusAfter: 1}
	team := TeamOf(p)
	out := mustReschedule(t, []Event{cast("c1", "noa", 5), cast("c2", "noa", 10), cast("c3", "noa", 15)}, team, s)

	if i := Find(out, "bonus-c1"); i >= 0 {
		t.Fatalf("first cast must not arm the bonus")
	}
	bonus := byID(t, out, "bonus-c2")
	want := util.SnapUp(11+s.BonusDelay, s.FPS)
	if bonus.Kind != KindBonus || !near(bonus.Start, want) || !bonus.Auto {
		t.Fatalf("bonus = %+v, want start %v", bonus, want)
	}
	if c3 := byID(t, out, "c3"); c3.Ability != "alt" || !near(c3.Cast, 2) {
		t.Fatalf("third cast = %+v, want alternate", c3)
	}
	again := mustReschedule(t, out, team, s)
	if Find(again, "bonus-c2") < 0 || len(again) != len(out) {
		t.Fatalf("bonus not re-derived on rerun")
	}
}

func TestRescheduleBonusSkipsManualMove(t *testing.T) {
	s := testSettings()
	p := striker("noa", unitRate, 0, 1)
	p.Bonus = &Ability{Name: "bonus", Cast: 0.5}
	p.Rotation = &Rotation{Period: 3, Alternate: -1, BonusAfter: 0}
	mv := Event{ID: "m", ActorID: "noa", Kind: KindMove, Start: 6, Cast: 1, End: 7}
	out := mustReschedule(t, []Event{cast("c", "noa", 5), mv}, TeamOf(p), s)
	if b := byID(t, out, "bonus-c"); !near(b.Start, 7) {
		t.Fatalf("bonus at %v, want right after the move at 7", b.Start)
	}
}

func TestRescheduleDoesNotMutateInput(t *testing.T) {
	s := testSettings()
	in := []Event{cast("c2", "a", 9.01), cast("c1", "a", 4)}
	_ = mustReschedule(t, in, TeamOf(striker("a", unitRate, 1, 1)), s)
	if in[0].ID != "c2" || in[0].Start != 9.01 || in[0].End != 0 {
		t.Fatalf("input mutated: %+v", in)
	}
}

func TestRescheduleUnknownActorPassesThrough(t *testing.T) {
	s := testSettings()
	var reports []Report
	out, err := Reschedule([]Event{cast("x", "ghost", 5)}, TeamOf(striker("a", unitRate, 1, 1)), s, func(r Report) {
		reports = append(reports, r)
	})
	if err != nil {
		t.Fatal(err)
	}
	if x := byID(t, out, "x"); x.Start != 5 {
		t.Fatalf("unknown actor event moved: %+v", x)
	}
	if len(reports) == 0 || reports[0].Code != ReportMissingProfile {
		t.Fatalf("reports = %+v", reports)
	}
}

// randomPlan scatters casts of a small team over the encounter.
func randomPlan(seed int64, s Settings) ([]Event, *Team) {
	r := util.New(seed)
	a := striker("a", 2000, 3, 1)
	a.Cycle = &WeaponCycle{Enter: 1, Start: 0.5, Ing: 1, Delay: 0.5, End: 0.5, Reload: 1.5, Ammo: 3, AmmoCost: 1}
	b := striker("b", 1500, 4, 1.5)
	b.Ability.Reduction = &ReductionGrant{Percent: 0.5, Uses: 2}
	c := special("c", 1500, 2, 0.5)
	c.Regen = []RegenEffect{{Trigger: TriggerAbility, Magnitude: 2000, Duration: 10}}
	noa := striker("noa", 0, 2, 1)
	noa.Alternate = &Ability{Name: "alt", Cost: 3, Cast: 1.5}
	noa.Bonus = &Ability{Name: "bonus", Cast: 0.5}
	noa.Rotation = &Rotation{Period: 3, Alternate: 2, BonusAfter: 1}
	team := TeamOf(a, b, c, noa)
	ids := []string{"a", "b", "c", "noa"}
	var evs []Event
	for i := 0; i < 10; i++ {
		ev := cast(fmt.Sprintf("e%d", i), ids[r.Intn(len(ids))], util.RandomFrame(r, s.FPS, 0, 120))
		if ev.ActorID == "b" {
			ev.Target = ids[r.Intn(len(ids))]
		}
		evs = append(evs, ev)
	}
	return evs, team
}

func TestReschedulePropertiesRandom(t *testing.T) {
	s := testSettings()
	s.InitialMove = 2
	placed := 0
	for seed := int64(1); seed <= 25; seed++ {
		in, team := randomPlan(seed, s)
		out, err := Reschedule(in, team, s, nil)
		if err != nil {
			continue
		}
		placed++
		if err := CheckInvariants(out, team, s); err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		for _, ev := range in {
			if got := byID(t, out, ev.ID); got.Start < ev.Start-util.Eps {
				t.Fatalf("seed %d: %s moved earlier %v -> %v", seed, ev.ID, ev.Start, got.Start)
			}
		}
		again, err := Reschedule(out, team, s, nil)
		if err != nil {
			t.Fatalf("seed %d: rerun failed: %v", seed, err)
		}
		if len(again) != len(out) {
			t.Fatalf("seed %d: rerun changed length %d -> %d", seed, len(out), len(again))
		}
		for i := range out {
			if again[i].ID != out[i].ID || !near(again[i].Start, out[i].Start) || !near(again[i].End, out[i].End) {
				t.Fatalf("seed %d: rerun differs at %d: %+v vs %+v", seed, i, out[i], again[i])
			}
		}
	}
	if placed == 0 {
		t.Fatalf("no random plan was schedulable")
	}
}
