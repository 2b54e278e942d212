package timeline

import "testing"

func gunner() *Profile {
	p := striker("g", unitRate, 2, 1)
	p.Cycle = &WeaponCycle{Enter: 1, Start: 0.5, Ing: 0.5, Delay: 0.5, End: 0.5, Reload: 1, Ammo: 2, AmmoCost: 1}
	return p
}

func phases(events []Event) []Phase {
	var out []Phase
	for _, ev := range events {
		if ev.Kind == KindCycle {
			out = append(out, ev.Phase)
		}
	}
	return out
}

func TestFillerCycleOrder(t *testing.T) {
	s := testSettings()
	s.InitialMove = 2
	s.Duration = 10
	out := GenerateFiller(nil, TeamOf(gunner()), s, nil)
	if out[0].ID != "init-move-g" || out[0].Kind != KindMove || !near(out[0].End, 2) {
		t.Fatalf("first filler = %+v, want entry walk", out[0])
	}
	want := []Phase{PhaseEnter, PhaseStart, PhaseIng, PhaseDelay, PhaseIng, PhaseEnd, PhaseReload, PhaseStart}
	got := phases(out)
	if len(got) < len(want) {
		t.Fatalf("phases = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("phase %d = %s, want %s (all %v)", i, got[i], want[i], got)
		}
	}
	if ev := out[len(out)-1]; ev.End > s.Duration+1e-9 {
		t.Fatalf("filler runs past the encounter: %+v", ev)
	}
	for i := 1; i < len(out); i++ {
		if !near(out[i].Start, out[i-1].End) {
			t.Fatalf("gap between %s and %s", out[i-1].ID, out[i].ID)
		}
	}
}

func TestFillerTruncatedByCast(t *testing.T) {
	s := testSettings()
	s.Duration = 10
	g := gunner()
	g.Ability.Cost = 0
	team := TeamOf(g)
	// no entry walk: enter [0,1) then start [1,1.5)
	blk := []Event{{ID: "c", ActorID: "g", Kind: KindAbility, Start: 1.2, Cast: 1, End: 2.2}}
	out := GenerateFiller(blk, team, s, nil)
	if out[1].Phase != PhaseStart || !near(out[1].End, 1.2) {
		t.Fatalf("start phase not cut at the cast: %+v", out[1])
	}
	// cast resumes the loop without a reload
	if out[2].Phase != PhaseStart || !near(out[2].Start, 2.2) {
		t.Fatalf("after cast = %+v, want start at 2.2", out[2])
	}
	if err := CheckInvariants(Sorted(append(blk, out...)), team, s); err != nil {
		t.Fatal(err)
	}
}

func TestFillerKeepsAmmoAcrossCast(t *testing.T) {
	s := testSettings()
	s.Duration = 10
	// first shot ends at 2.0, the cast lands on the following delay
	blk := []Event{{ID: "c", ActorID: "g", Kind: KindAbility, Start: 2, Cast: 1, End: 3}}
	out := GenerateFiller(blk, TeamOf(gunner()), s, nil)
	got := phases(out)
	want := []Phase{PhaseEnter, PhaseStart, PhaseIng, PhaseStart, PhaseIng, PhaseEnd, PhaseReload}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("phases = %v, want prefix %v", got, want)
		}
	}
}

func TestFillerMoveReenters(t *testing.T) {
	s := testSettings()
	s.Duration = 10
	mv := Event{ID: "m", ActorID: "g", Kind: KindMove, Start: 4, Cast: 1.5, End: 5.5}
	out := GenerateFiller([]Event{mv}, TeamOf(gunner()), s, nil)
	for _, ev := range out {
		if ev.Start < 5.5-1e-3 && ev.End > 4+1e-3 {
			t.Fatalf("filler %+v overlaps the move", ev)
		}
		if near(ev.Start, 5.5) && ev.Phase != PhaseEnter {
			t.Fatalf("after move = %+v, want enter", ev)
		}
	}
}

func TestFillerLoopCapReported(t *testing.T) {
	s := testSettings()
	s.FillerLoopCap = 50
	p := striker("z", unitRate, 1, 1)
	p.Cycle = &WeaponCycle{Ammo: 1, AmmoCost: 1}
	var reports []Report
	_ = GenerateFiller(nil, TeamOf(p), s, func(r Report) { reports = append(reports, r) })
	if len(reports) != 1 || reports[0].Code != ReportFillerLoopCap || reports[0].ActorID != "z" {
		t.Fatalf("reports = %+v", reports)
	}
}

func TestFillerSkipsSpecialsAndNoCycle(t *testing.T) {
	s := testSettings()
	sp := gunner()
	sp.ID = "sp"
	sp.Role = RoleSpecial
	out := GenerateFiller(nil, TeamOf(sp, striker("plain", unitRate, 1, 1)), s, nil)
	if len(out) != 0 {
		t.Fatalf("unexpected fillers: %+v", out)
	}
}

func TestFillerIDsDeterministic(t *testing.T) {
	s := testSettings()
	s.Duration = 30
	blk := []Event{{ID: "c", ActorID: "g", Kind: KindAbility, Start: 7, Cast: 1, End: 8}}
	a := GenerateFiller(blk, TeamOf(gunner()), s, nil)
	b := GenerateFiller(blk, TeamOf(gunner()), s, nil)
	if len(a) != len(b) {
		t.Fatalf("len %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("run differs at %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}
