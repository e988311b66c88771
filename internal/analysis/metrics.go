package analysis

import "github.com/2beens/formcheck/internal/exercise"

// FrameMetrics is the per frame measurement record. Only the fields relevant
// to the exercise are set.
type FrameMetrics struct {
	Exercise exercise.Type `json:"exercise"`
	Phase    Phase         `json:"phase"`

	KneeAngle      *float64 `json:"knee_angle,omitempty"`
	TorsoAngle     *float64 `json:"torso_angle,omitempty"`
	ElbowAngle     *float64 `json:"elbow_angle,omitempty"`
	BodyAngle      *float64 `json:"body_angle,omitempty"`
	AlignmentScore *float64 `json:"alignment_score,omitempty"`
	KneeSymmetry   *float64 `json:"knee_symmetry,omitempty"`

	HipHeightRatio            *float64 `json:"hip_height_ratio,omitempty"`
	JumpHeightPct             *float64 `json:"jump_height_pct,omitempty"`
	HorizontalDisplacementPct *float64 `json:"horizontal_displacement_pct,omitempty"`
	JumpDistancePct           *float64 `json:"jump_distance_pct,omitempty"`

	HoldDuration *float64 `json:"hold_duration,omitempty"`

	Velocity         *float64 `json:"velocity,omitempty"`
	HipPositionPct   *float64 `json:"hip_position_pct,omitempty"`
	DirectionChanges *float64 `json:"direction_changes,omitempty"`
	CourseWidthPct   *float64 `json:"course_width_pct,omitempty"`
	RunTime          *float64 `json:"run_time,omitempty"`

	KneeAngleDeviation  *float64 `json:"knee_angle_deviation,omitempty"`
	TorsoAngleDeviation *float64 `json:"torso_angle_deviation,omitempty"`
	ElbowAngleDeviation *float64 `json:"elbow_angle_deviation,omitempty"`
	AlignmentDeviation  *float64 `json:"alignment_deviation,omitempty"`
	BodyAngleDeviation  *float64 `json:"body_angle_deviation,omitempty"`
}

type metricField struct {
	name      string
	deviation bool
	get       func(m *FrameMetrics) *float64
}

// metricFields lists every numeric field of FrameMetrics, in report order.
var metricFields = []metricField{
	{name: "knee_angle", get: func(m *FrameMetrics) *float64 { return m.KneeAngle }},
	{name: "torso_angle", get: func(m *FrameMetrics) *float64 { return m.TorsoAngle }},
	{name: "elbow_angle", get: func(m *FrameMetrics) *float64 { return m.ElbowAngle }},
	{name: "body_angle", get: func(m *FrameMetrics) *float64 { return m.BodyAngle }},
	{name: "alignment_score", get: func(m *FrameMetrics) *float64 { return m.AlignmentScore }},
	{name: "knee_symmetry", get: func(m *FrameMetrics) *float64 { return m.KneeSymmetry }},
	{name: "hip_height_ratio", get: func(m *FrameMetrics) *float64 { return m.HipHeightRatio }},
	{name: "jump_height_pct", get: func(m *FrameMetrics) *float64 { return m.JumpHeightPct }},
	{name: "horizontal_displacement_pct", get: func(m *FrameMetrics) *float64 { return m.HorizontalDisplacementPct }},
	{name: "jump_distance_pct", get: func(m *FrameMetrics) *float64 { return m.JumpDistancePct }},
	{name: "hold_duration", get: func(m *FrameMetrics) *float64 { return m.HoldDuration }},
	{name: "velocity", get: func(m *FrameMetrics) *float64 { return m.Velocity }},
	{name: "hip_position_pct", get: func(m *FrameMetrics) *float64 { return m.HipPositionPct }},
	{name: "direction_changes", get: func(m *FrameMetrics) *float64 { return m.DirectionChanges }},
	{name: "course_width_pct", get: func(m *FrameMetrics) *float64 { return m.CourseWidthPct }},
	{name: "run_time", get: func(m *FrameMetrics) *float64 { return m.RunTime }},
	{name: "knee_angle_deviation", deviation: true, get: func(m *FrameMetrics) *float64 { return m.KneeAngleDeviation }},
	{name: "torso_angle_deviation", deviation: true, get: func(m *FrameMetrics) *float64 { return m.TorsoAngleDeviation }},
	{name: "elbow_angle_deviation", deviation: true, get: func(m *FrameMetrics) *float64 { return m.ElbowAngleDeviation }},
	{name: "alignment_deviation", deviation: true, get: func(m *FrameMetrics) *float64 { return m.AlignmentDeviation }},
	{name: "body_angle_deviation", deviation: true, get: func(m *FrameMetrics) *float64 { return m.BodyAngleDeviation }},
}

// Values returns the set numeric fields by name.
func (m FrameMetrics) Values() map[string]float64 {
	values := make(map[string]float64)
	for _, f := range metricFields {
		if v := f.get(&m); v != nil {
			values[f.name] = *v
		}
	}
	return values
}

// averageMetrics averages every non deviation field over the frames where it is set.
func averageMetrics(history []FrameMetrics) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for i := range history {
		for _, f := range metricFields {
			if f.deviation {
				continue
			}
			if v := f.get(&history[i]); v != nil {
				sums[f.name] += *v
				counts[f.name]++
			}
		}
	}

	avg := make(map[string]float64, len(sums))
	for name, sum := range sums {
		avg[name] = sum / float64(counts[name])
	}
	return avg
}

func ptr(v float64) *float64 {
	return &v
}
