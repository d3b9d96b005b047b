package analysis

import (
	"math"

	"github.com/Zuo-Peng/replay-coach/internal/event"
)

// epsilon keeps ratios defined when both denominators are zero.
const epsilon = 1e-6

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// quantity treats negative, NaN and infinite inputs as zero.
func quantity(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func percent(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return clamp(round2(part/whole*100), 0, 100)
}

// distance is the Euclidean distance over the dimensions both points share.
func distance(a, b event.Point) float64 {
	n := min(len(a), len(b))
	var sum float64
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
