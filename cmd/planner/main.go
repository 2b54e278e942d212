package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"raidplan/internal/config"
	"raidplan/internal/planner"
	"raidplan/internal/timeline"
	"raidplan/internal/util"
)

func main() {
	var cfgDir, planPath, out string
	var seed int64
	var n, casts int
	var saveLog bool
	flag.StringVar(&cfgDir, "config", "assets", "config dir")
	flag.StringVar(&planPath, "plan", "", "plan file (default <config>/plan.yaml)")
	flag.StringVar(&out, "out", "out.json", "output file (single) or summary file (batch)")
	flag.Int64Var(&seed, "seed", 12345, "seed")
	flag.IntVar(&n, "n", 1, "number of random plans; 1 replays the plan file")
	flag.IntVar(&casts, "casts", 12, "requests per random plan")
	flag.BoolVar(&saveLog, "log", true, "save trace and reports when n==1")
	flag.Parse()

	rc, ec, err := config.LoadAll(cfgDir)
	if err != nil {
		panic(err)
	}
	settings := timeline.SettingsFrom(ec)
	book, err := timeline.NewBook(rc, settings.FPS)
	if err != nil {
		panic(err)
	}
	strikers, specials := lineup(book, ec)
	team, err := timeline.NewTeam(book, strikers, specials)
	if err != nil {
		panic(err)
	}

	if n <= 1 {
		if planPath == "" {
			planPath = filepath.Join(cfgDir, "plan.yaml")
		}
		plan, err := config.LoadPlan(planPath)
		if err != nil {
			panic(err)
		}
		ss := planner.NewSession(team, settings)
		var reports []timeline.Report
		ss.Emit = func(r timeline.Report) {
			reports = append(reports, r)
			log.Printf("[%s] %s %s %s", util.FormatClock(r.T, settings.Duration, settings.FPS), r.Code, r.ActorID, r.Detail)
		}
		outcomes := planner.Replay(ss, plan)
		accepted := 0
		for _, o := range outcomes {
			if o.Result.Accepted {
				accepted++
			}
		}
		res := map[string]any{
			"plan":     plan.Name,
			"outcomes": outcomes,
			"snapshot": ss.Snapshot(),
		}
		if saveLog {
			res["trace"] = ss.TraceForDisplay()
			res["reports"] = reports
		}
		if err := os.WriteFile(out, planner.MarshalPretty(res), 0644); err != nil {
			panic(err)
		}
		fmt.Printf("Plan %q finished. Accepted=%d/%d, Events=%d, Cost@end=%.2f -> %s\n",
			plan.Name, accepted, len(outcomes), len(ss.Events()), ss.ResourceAt(settings.Duration), out)
		return
	}

	type stat struct {
		Requests int
		Accepted int
		Shifted  int
		SumShift float64
		Breaches int
		Unstable int
		ByReason map[planner.Reason]int
	}
	var st = stat{ByReason: map[planner.Reason]int{}}
	var mu sync.Mutex
	wg := sync.WaitGroup{}
	workers := 8
	jobs := make(chan int, n)
	ids := append(append([]string(nil), team.Strikers...), team.Specials...)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for i := range jobs {
				r := util.New(seed + int64(workerID)*7919 + int64(i))
				ss := planner.NewSession(team, settings)
				var local stat
				local.ByReason = map[planner.Reason]int{}
				for k := 0; k < casts; k++ {
					actor := ids[r.Intn(len(ids))]
					at := util.RandomFrame(r, settings.FPS, 0, settings.Duration*0.8)
					target := ""
					if p, _ := team.Profile(actor); p.Ability.RequiresTarget || p.Ability.Reduction != nil {
						target = ids[r.Intn(len(ids))]
					}
					res := ss.InsertAbility(actor, "", at, target)
					local.Requests++
					local.ByReason[res.Reason]++
					if !res.Accepted {
						continue
					}
					local.Accepted++
					if res.Shifted {
						local.Shifted++
						local.SumShift += res.Start - at
					}
				}
				evs := ss.Events()
				if err := timeline.CheckInvariants(evs, team, settings); err != nil {
					local.Breaches++
				}
				if again, err := timeline.Reschedule(evs, team, settings, nil); err != nil || !sameTimeline(evs, again) {
					local.Unstable++
				}

				mu.Lock()
				st.Requests += local.Requests
				st.Accepted += local.Accepted
				st.Shifted += local.Shifted
				st.SumShift += local.SumShift
				st.Breaches += local.Breaches
				st.Unstable += local.Unstable
				for k, v := range local.ByReason {
					st.ByReason[k] += v
				}
				mu.Unlock()
			}
		}(w)
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	avgShift := 0.0
	if st.Shifted > 0 {
		avgShift = st.SumShift / float64(st.Shifted)
	}
	summary := map[string]any{
		"runs":           n,
		"requests":       st.Requests,
		"accept_rate":    float64(st.Accepted) / float64(max(1, st.Requests)),
		"shift_rate":     float64(st.Shifted) / float64(max(1, st.Accepted)),
		"avg_shift":      avgShift,
		"by_reason":      st.ByReason,
		"breaches":       st.Breaches,
		"not_idempotent": st.Unstable,
	}
	if err := os.WriteFile(out, planner.MarshalPretty(summary), 0644); err != nil {
		panic(err)
	}
	fmt.Printf("Batch %d done -> %s\n", n, filepath.Base(out))
}

// lineup returns the encounter team, or the first strikers and specials of
// the roster when the encounter names none.
func lineup(book *timeline.Book, ec *config.EncounterConfig) ([]string, []string) {
	if len(ec.Team.Strikers)+len(ec.Team.Specials) > 0 {
		return ec.Team.Strikers, ec.Team.Specials
	}
	var strikers, specials []string
	for _, id := range book.IDs() {
		p, _ := book.Profile(id)
		switch {
		case p.Role == timeline.RoleStriker && len(strikers) < 4:
			strikers = append(strikers, id)
		case p.Role == timeline.RoleSpecial && len(specials) < 2:
			specials = append(specials, id)
		}
	}
	return strikers, specials
}

func sameTimeline(a, b []timeline.Event) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || !util.Near(a[i].Start, b[i].Start) {
			return false
		}
	}
	return true
}
