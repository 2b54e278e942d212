package timeline

import (
	"math"
	"sort"

	"raidplan/internal/util"
)

// Point is one vertex of the piecewise-linear resource trace.
type Point struct {
	T float64 `json:"t"`
	V float64 `json:"v"`
}

// Shortfall describes the first frame where a payment exceeds the resource.
type Shortfall struct {
	Time      float64 `json:"time"`
	Available float64 `json:"available"`
	Needed    float64 `json:"needed"`
}

// Accumulator integrates the resource curve for one resolved event list.
type Accumulator struct {
	res      *Resolution
	settings Settings
	cons     []Consumption
}

func NewAccumulator(res *Resolution, s Settings) *Accumulator {
	cons := append([]Consumption(nil), res.Consumptions...)
	sort.SliceStable(cons, func(i, j int) bool { return cons[i].Time < cons[j].Time })
	return &Accumulator{res: res, settings: s, cons: cons}
}

// Simulate resolves events and returns the accumulator over them.
func Simulate(events []Event, team *Team, s Settings) *Accumulator {
	return NewAccumulator(Resolve(events, team), s)
}

func (a *Accumulator) Resolution() *Resolution { return a.res }

// rate is the regeneration in regen units per second at t. Window
// membership is half-open and each window key counts once.
func (a *Accumulator) rate(t float64) float64 {
	flat, pct := 0.0, 0.0
	seen := map[string]bool{}
	for _, w := range a.res.Windows {
		if w.Start > t || t >= w.End || seen[w.Key] {
			continue
		}
		seen[w.Key] = true
		if w.Flat {
			flat += w.Magnitude
		} else {
			pct += w.Magnitude / 10000
		}
	}
	return (a.res.Passive.Base + flat) * (1 + a.res.Passive.Percent + pct)
}

// RateAt is the regeneration in cost points per second at t; zero before
// regeneration starts.
func (a *Accumulator) RateAt(t float64) float64 {
	if t < a.settings.RegenStartDelay-util.Eps {
		return 0
	}
	return a.rate(t) / a.settings.CostUnit
}

type walker struct {
	point func(t, v float64)
	// pay is called at each consumption frame with the value before payment.
	pay func(t, before, amount float64)
}

// walk integrates from the regen start to limit and returns the value
// there. Payments at exactly limit are applied only when inclusive is set.
func (a *Accumulator) walk(limit float64, inclusive bool, w walker) float64 {
	delay := a.settings.RegenStartDelay
	ci := 0
	// Payments before regeneration starts meet an empty pool.
	for ci < len(a.cons) && a.cons[ci].Time <= delay+util.Eps {
		c := a.cons[ci]
		if c.Time > limit+util.Eps || (!inclusive && util.Near(c.Time, limit)) {
			break
		}
		amount := c.Amount
		for ci+1 < len(a.cons) && util.Near(a.cons[ci+1].Time, c.Time) {
			ci++
			amount += a.cons[ci].Amount
		}
		ci++
		if w.pay != nil {
			w.pay(c.Time, 0, amount)
		}
	}
	if limit <= delay {
		return 0
	}
	bps := []float64{limit}
	for _, c := range a.cons[ci:] {
		if c.Time < limit {
			bps = append(bps, c.Time)
		}
	}
	for _, win := range a.res.Windows {
		for _, t := range [2]float64{win.Start, win.End} {
			if t > delay && t < limit {
				bps = append(bps, t)
			}
		}
	}
	sort.Float64s(bps)

	unit := a.settings.CostUnit
	ceiling := a.settings.MaxCost
	cur, prev := 0.0, delay
	for _, t := range bps {
		if t-prev < 1e-9 {
			continue
		}
		r := a.rate(prev + math.Min(util.Eps, (t-prev)/2))
		gain := r * (t - prev) / unit
		if cur < ceiling && cur+gain >= ceiling && gain > 0 {
			if w.point != nil {
				w.point(prev+(ceiling-cur)*unit/r, ceiling)
			}
			cur = ceiling
		} else {
			cur = math.Min(ceiling, cur+gain)
		}
		if w.point != nil {
			w.point(t, cur)
		}
		prev = t
		if !inclusive && util.Near(t, limit) {
			continue
		}
		amount := 0.0
		for ci < len(a.cons) && a.cons[ci].Time <= t+util.Eps {
			amount += a.cons[ci].Amount
			ci++
		}
		if amount > 0 {
			if w.pay != nil {
				w.pay(t, cur, amount)
			}
			cur = math.Max(0, cur-amount)
			if w.point != nil {
				w.point(t, cur)
			}
		}
	}
	return cur
}

// ValueAt is the resource at t after any payment made at t.
func (a *Accumulator) ValueAt(t float64) float64 {
	return a.walk(t, true, walker{})
}

// ValueBefore is the resource at t before payments made at t.
func (a *Accumulator) ValueBefore(t float64) float64 {
	return a.walk(t, false, walker{})
}

// Affordable checks that every payment at or after from is covered by the
// resource available just before it.
func (a *Accumulator) Affordable(from float64) (*Shortfall, bool) {
	if len(a.cons) == 0 {
		return nil, true
	}
	var miss *Shortfall
	last := a.cons[len(a.cons)-1].Time
	a.walk(last, true, walker{pay: func(t, before, amount float64) {
		if miss != nil || t < from-util.Eps {
			return
		}
		if before < amount-util.Eps {
			miss = &Shortfall{Time: t, Available: before, Needed: amount}
		}
	}})
	return miss, miss == nil
}

// Trace returns the resource curve over the whole encounter, including a
// vertex where the cap is reached and a drop at each payment.
func (a *Accumulator) Trace() []Point {
	delay := a.settings.RegenStartDelay
	pts := []Point{{T: 0, V: 0}}
	if delay > 0 {
		pts = append(pts, Point{T: delay, V: 0})
	}
	a.walk(a.settings.Duration, true, walker{point: func(t, v float64) {
		pts = append(pts, Point{T: t, V: v})
	}})
	return pts
}
