package analysis

import (
	"math"
	"sort"
	"strings"
)

var (
	// positiveKeywords mark a feedback line as correct form
	positiveKeywords = []string{"good", "excellent", "perfect", "great", "nice"}
	// completionKeywords also count finished reps as positive
	completionKeywords = append(append([]string{}, positiveKeywords...), "complete")
	// commonFeedbackExclusions are lines not worth repeating back as issues
	commonFeedbackExclusions = []string{"good form", "excellent", "perfect", "great", "nice", "complete"}
)

const (
	compositeMinScore = 30
	distanceMinScore  = 20
	maxScore          = 100
	maxDeviation      = 45.0
	repQualityWindow  = 10
	defaultRepQuality = 50.0
)

func containsAny(line string, keywords []string) bool {
	lower := strings.ToLower(line)
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

func countMatching(lines []string, keywords []string) int {
	n := 0
	for _, line := range lines {
		if containsAny(line, keywords) {
			n++
		}
	}
	return n
}

// repQuality is the share of positive lines, in percent, in the last frames before a completed rep.
func repQuality(feedback []string) float64 {
	if len(feedback) < repQualityWindow {
		return defaultRepQuality
	}
	recent := feedback[len(feedback)-repQualityWindow:]
	return float64(countMatching(recent, completionKeywords)) / float64(len(recent)) * 100
}

// deviationScore is 1 for a perfect match to the reference values and falls to 0
// as the average deviation approaches 45.
func deviationScore(history []FrameMetrics) float64 {
	total, count := 0.0, 0
	for i := range history {
		for _, f := range metricFields {
			if !f.deviation {
				continue
			}
			if v := f.get(&history[i]); v != nil && *v > 0 {
				total += math.Min(*v, maxDeviation)
				count++
			}
		}
	}
	if count == 0 {
		return 1
	}
	return math.Max(0, 1-(total/float64(count))/maxDeviation)
}

// CompositeScore scores repetition, hold and run exercises:
// 60 + 25*form accuracy + rep quality/10 + 5*deviation score + min(2*reps, 10), clamped to [30, 100].
func CompositeScore(feedback []string, history []FrameMetrics, repQualities []float64, reps int) float64 {
	formAccuracy := 0.0
	if len(feedback) > 0 {
		formAccuracy = float64(countMatching(feedback, positiveKeywords)) / float64(len(feedback))
	}

	repQualityAvg := defaultRepQuality
	if len(repQualities) > 0 {
		sum := 0.0
		for _, q := range repQualities {
			sum += q
		}
		repQualityAvg = sum / float64(len(repQualities))
	}

	score := 60 +
		formAccuracy*25 +
		(repQualityAvg/100)*10 +
		deviationScore(history)*5 +
		math.Min(float64(reps)*2, 10)

	return clamp(score, compositeMinScore, maxScore)
}

// DistanceScore scores a jump by its best distance in % of frame width against
// the 10/15/20/25 benchmarks, clamped to [20, 100].
func DistanceScore(bestPct float64, benchmarks []float64) float64 {
	b := [4]float64{10, 15, 20, 25}
	if len(benchmarks) == 4 {
		copy(b[:], benchmarks)
	}

	var score float64
	switch d := bestPct; {
	case d < b[0]:
		score = 20 + 20*d/b[0]
	case d < b[1]:
		score = 40 + 20*(d-b[0])/(b[1]-b[0])
	case d < b[2]:
		score = 60 + 20*(d-b[1])/(b[2]-b[1])
	case d < b[3]:
		score = 80 + 15*(d-b[2])/(b[3]-b[2])
	default:
		score = 95 + math.Min(5, 0.5*(d-b[3]))
	}

	return clamp(score, distanceMinScore, maxScore)
}

func Grade(score float64) string {
	switch {
	case score >= 85:
		return "A"
	case score >= 70:
		return "B"
	case score >= 50:
		return "C"
	default:
		return "D"
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// commonFeedback returns up to five most frequent feedback lines that point at an issue.
func commonFeedback(feedback []string) []string {
	counts := make(map[string]int)
	var order []string
	for _, line := range feedback {
		if _, seen := counts[line]; !seen {
			order = append(order, line)
		}
		counts[line]++
	}

	// equal counts keep first occurrence order
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > 5 {
		order = order[:5]
	}

	common := []string{}
	for _, line := range order {
		if line != "" && !containsAny(line, commonFeedbackExclusions) {
			common = append(common, line)
		}
	}
	return common
}
