package util

import "math/rand"

func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	src := rand.NewSource(seed)
	return rand.New(src)
}

// RandomFrame returns a frame-aligned time in [lo, hi).
func RandomFrame(r *rand.Rand, fps int, lo, hi float64) float64 {
	first := FrameIndex(SnapUp(lo, fps), fps)
	last := FrameIndex(hi, fps)
	if last <= first {
		return FrameTime(first, fps)
	}
	return FrameTime(first+r.Intn(last-first), fps)
}
