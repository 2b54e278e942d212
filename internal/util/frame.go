package util

import (
	"fmt"
	"math"
)

// Eps is the tolerance used for every time and cost comparison.
const Eps = 1e-3

func FrameIndex(t float64, fps int) int {
	return int(math.Round(t * float64(fps)))
}

func FrameTime(i int, fps int) float64 {
	return float64(i) / float64(fps)
}

// SnapToFrame rounds t to the nearest frame boundary.
func SnapToFrame(t float64, fps int) float64 {
	return FrameTime(FrameIndex(t, fps), fps)
}

// SnapUp returns the first frame boundary at or after t, tolerating
// float drift of up to Eps frames.
func SnapUp(t float64, fps int) float64 {
	f := t * float64(fps)
	i := math.Ceil(f - Eps)
	return FrameTime(int(i), fps)
}

func OnFrame(t float64, fps int) bool {
	return math.Abs(t*float64(fps)-math.Round(t*float64(fps))) < Eps
}

func Near(a, b float64) bool { return math.Abs(a-b) < Eps }

// FormatClock renders t as m:ss.mmm. With total > 0 the remaining time
// total-t is shown instead, the way encounter timers count down.
func FormatClock(t, total float64, fps int) string {
	if total > 0 {
		t = math.Max(0, total-t)
	}
	frames := FrameIndex(t, fps)
	m := frames / (fps * 60)
	s := (frames / fps) % 60
	f := frames % fps
	ms := int(math.Round(float64(f) * 1000 / float64(fps)))
	return fmt.Sprintf("%d:%02d.%03d", m, s, ms)
}
