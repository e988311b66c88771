package calibration

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	maxSmoothingWindow = 11
	baselineBins       = 50
	stabilityWindow    = 10
	// a window is stable when its spread is below this share of the whole series spread
	stabilityRatio = 0.1
)

// smoothingWindow is the largest odd window not above 11 that fits the series.
func smoothingWindow(n int) int {
	w := min(maxSmoothingWindow, n)
	if w%2 == 0 {
		w--
	}
	return w
}

// Smooth applies a quadratic Savitzky-Golay filter. Edges are filled by evaluating the
// fit of the first and last full window. Series shorter than 3 samples are returned as is.
func Smooth(y []float64) []float64 {
	out := append([]float64(nil), y...)
	w := smoothingWindow(len(y))
	if w < 3 {
		return out
	}
	half := w / 2

	for i := half; i < len(y)-half; i++ {
		fit := fitQuadratic(y[i-half : i+half+1])
		out[i] = fit.at(0)
	}

	head := fitQuadratic(y[:w])
	for i := 0; i < half; i++ {
		out[i] = head.at(float64(i - half))
	}

	tail := fitQuadratic(y[len(y)-w:])
	for i := len(y) - half; i < len(y); i++ {
		out[i] = tail.at(float64(i - (len(y) - 1 - half)))
	}

	return out
}

// quadratic is a0 + a1*t + a2*t^2 with t centered on the middle of the fitted window.
type quadratic struct {
	a0, a1, a2 float64
}

func (q quadratic) at(t float64) float64 {
	return q.a0 + q.a1*t + q.a2*t*t
}

// fitQuadratic is the least squares fit over an odd window. With centered positions the
// odd power sums vanish and the normal equations decouple.
func fitQuadratic(window []float64) quadratic {
	half := len(window) / 2

	var s0, s2, s4, sy, sty, st2y float64
	for i, v := range window {
		t := float64(i - half)
		t2 := t * t
		s0++
		s2 += t2
		s4 += t2 * t2
		sy += v
		sty += t * v
		st2y += t2 * v
	}

	if s2 == 0 {
		return quadratic{a0: sy / s0}
	}

	det := s0*s4 - s2*s2
	return quadratic{
		a0: (sy*s4 - s2*st2y) / det,
		a1: sty / s2,
		a2: (s0*st2y - s2*sy) / det,
	}
}

// StableBaseline finds the resting level of a y series (image y grows downwards):
// the higher of the histogram mode and the median of the low variation windows,
// falling back to the 75th percentile when no window is stable.
func StableBaseline(y []float64) float64 {
	if len(y) == 0 {
		return 0
	}

	sorted := append([]float64(nil), y...)
	sort.Float64s(sorted)

	return math.Max(histogramMode(sorted), stableLevel(y, sorted))
}

func histogramMode(sorted []float64) float64 {
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		return lo
	}

	dividers := make([]float64, baselineBins+1)
	floats.Span(dividers, lo, hi)
	// the last bin is closed on the right
	dividers[baselineBins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)
	best := floats.MaxIdx(counts)
	return (dividers[best] + dividers[best+1]) / 2
}

func stableLevel(y, sorted []float64) float64 {
	spread := stat.PopStdDev(y, nil)

	var stable []float64
	for i := 0; i+stabilityWindow < len(y); i++ {
		window := y[i : i+stabilityWindow]
		if stat.PopStdDev(window, nil) < spread*stabilityRatio {
			stable = append(stable, window...)
		}
	}

	if len(stable) == 0 {
		return percentile(sorted, 0.75)
	}
	sort.Float64s(stable)
	return median(stable)
}

// percentile interpolates linearly between the closest ranks of sorted.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := p * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	frac := pos - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*frac
}

// Confidence rates a series in [0, 1] by its noise (40%), the clarity of its peak (40%)
// and its length (20%). Fewer than 10 samples rate 0.1.
func Confidence(y []float64) float64 {
	if len(y) < 10 {
		return 0.1
	}

	smoothed := Smooth(y)
	residuals := make([]float64, len(y))
	floats.SubTo(residuals, y, smoothed)
	for i, r := range residuals {
		residuals[i] = math.Abs(r)
	}

	spread := stat.PopStdDev(y, nil)
	noise := stat.Mean(residuals, nil)
	noiseScore := math.Max(0, 1-noise/(spread+1e-6))

	rangeScore := math.Min(1, (floats.Max(y)-floats.Min(y))/(spread*3+1e-6))
	lengthScore := math.Min(1, float64(len(y))/30)

	c := noiseScore*0.4 + rangeScore*0.4 + lengthScore*0.2
	c = math.Max(0, math.Min(1, c))
	return math.Round(c*100) / 100
}
