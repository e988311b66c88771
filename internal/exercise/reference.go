package exercise

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"
)

//go:embed reference_metrics.toml
var defaultReferenceMetrics []byte

type Range struct {
	Min float64 `toml:"min" json:"min"`
	Max float64 `toml:"max" json:"max"`
}

func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// ReferenceMetrics holds the tunable thresholds for one exercise.
// Fields not used by an exercise are left at zero.
type ReferenceMetrics struct {
	KneeAngleRange  Range `toml:"knee_angle_range" json:"kneeAngleRange"`
	TorsoAngleRange Range `toml:"torso_angle_range" json:"torsoAngleRange"`
	ElbowAngleRange Range `toml:"elbow_angle_range" json:"elbowAngleRange"`
	BodyAngleRange  Range `toml:"body_angle_range" json:"bodyAngleRange"`

	// AlignmentMin is the lowest acceptable alignment score of the checked joint chain.
	AlignmentMin   float64 `toml:"alignment_min" json:"alignmentMin"`
	DepthThreshold float64 `toml:"depth_threshold" json:"depthThreshold"`
	// ShallowAngle marks a bottom position that did not go deep enough.
	ShallowAngle float64 `toml:"shallow_angle" json:"shallowAngle"`

	PerfectKneeAngle  float64 `toml:"perfect_knee_angle" json:"perfectKneeAngle"`
	PerfectTorsoAngle float64 `toml:"perfect_torso_angle" json:"perfectTorsoAngle"`
	PerfectElbowAngle float64 `toml:"perfect_elbow_angle" json:"perfectElbowAngle"`
	PerfectAlignment  float64 `toml:"perfect_alignment" json:"perfectAlignment"`
	PerfectBodyAngle  float64 `toml:"perfect_body_angle" json:"perfectBodyAngle"`

	// Repetition phase thresholds, on the exercise driving angle.
	TopAngle     float64 `toml:"top_angle" json:"topAngle"`
	BottomAngle  float64 `toml:"bottom_angle" json:"bottomAngle"`
	DescendAngle float64 `toml:"descend_angle" json:"descendAngle"`
	AscendAngle  float64 `toml:"ascend_angle" json:"ascendAngle"`

	SymmetryPrepMax    float64 `toml:"symmetry_prep_max" json:"symmetryPrepMax"`
	SymmetryLandingMax float64 `toml:"symmetry_landing_max" json:"symmetryLandingMax"`

	// Vertical jump, hip height ratio to the standing baseline.
	PrepKneeAngle      float64 `toml:"prep_knee_angle" json:"prepKneeAngle"`
	StandKneeAngle     float64 `toml:"stand_knee_angle" json:"standKneeAngle"`
	LandingKneeAngle   float64 `toml:"landing_knee_angle" json:"landingKneeAngle"`
	TakeoffRatio       float64 `toml:"takeoff_ratio" json:"takeoffRatio"`
	PrepTakeoffRatio   float64 `toml:"prep_takeoff_ratio" json:"prepTakeoffRatio"`
	InAirRatio         float64 `toml:"in_air_ratio" json:"inAirRatio"`
	LandingRatio       float64 `toml:"landing_ratio" json:"landingRatio"`
	StableRatioDelta   float64 `toml:"stable_ratio_delta" json:"stableRatioDelta"`
	MinTakeoffHipAngle float64 `toml:"min_takeoff_hip_angle" json:"minTakeoffHipAngle"`

	// Broad jump, displacement in % of frame width.
	CalibrationFrames   int       `toml:"calibration_frames" json:"calibrationFrames"`
	LandingFrames       int       `toml:"landing_frames" json:"landingFrames"`
	TakeoffDisplacement float64   `toml:"takeoff_displacement" json:"takeoffDisplacement"`
	InAirDisplacement   float64   `toml:"in_air_displacement" json:"inAirDisplacement"`
	DistanceBenchmarks  []float64 `toml:"distance_benchmarks" json:"distanceBenchmarks"`

	// Runs, speed in frame widths per second.
	VelocityWindow      int     `toml:"velocity_window" json:"velocityWindow"`
	RunSpeed            float64 `toml:"run_speed" json:"runSpeed"`
	StationarySpeed     float64 `toml:"stationary_speed" json:"stationarySpeed"`
	CompletionStillSecs float64 `toml:"completion_still_seconds" json:"completionStillSeconds"`
	MaxLeanAngle        float64 `toml:"max_lean_angle" json:"maxLeanAngle"`

	// Plank hold.
	MinBodyAngle       float64 `toml:"min_body_angle" json:"minBodyAngle"`
	ElbowPositionRange Range   `toml:"elbow_position_range" json:"elbowPositionRange"`
	TargetHoldSeconds  float64 `toml:"target_hold_seconds" json:"targetHoldSeconds"`
}

// clone copies the slice fields so callers never share backing arrays.
func (m ReferenceMetrics) clone() ReferenceMetrics {
	if m.DistanceBenchmarks != nil {
		m.DistanceBenchmarks = append([]float64(nil), m.DistanceBenchmarks...)
	}
	return m
}

// Table maps each exercise to its reference metrics.
type Table struct {
	metrics map[Type]ReferenceMetrics
}

// DefaultTable returns the built-in reference metrics.
func DefaultTable() (*Table, error) {
	return parseTable(defaultReferenceMetrics, nil)
}

// LoadTable returns the built-in reference metrics with the sections
// found in the TOML file at path replacing the built-in ones.
// An empty path returns the defaults.
func LoadTable(path string) (*Table, error) {
	if path == "" {
		return DefaultTable()
	}

	overrides, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reference metrics %s: %w", path, err)
	}

	return parseTable(defaultReferenceMetrics, overrides)
}

func parseTable(defaults, overrides []byte) (*Table, error) {
	var raw map[string]ReferenceMetrics
	if _, err := toml.Decode(string(defaults), &raw); err != nil {
		return nil, fmt.Errorf("decode default reference metrics: %w", err)
	}

	if overrides != nil {
		var over map[string]ReferenceMetrics
		if _, err := toml.Decode(string(overrides), &over); err != nil {
			return nil, fmt.Errorf("decode reference metrics overrides: %w", err)
		}
		for key, m := range over {
			log.Debugf("reference metrics: overriding [%s]", key)
			raw[key] = m
		}
	}

	t := &Table{
		metrics: make(map[Type]ReferenceMetrics, len(AllTypes)),
	}
	for _, et := range AllTypes {
		m, ok := raw[et.tableKey()]
		if !ok {
			return nil, fmt.Errorf("reference metrics missing section [%s]", et.tableKey())
		}
		t.metrics[et] = m
	}

	return t, nil
}

// Lookup returns a copy of the reference metrics for the exercise.
func (t *Table) Lookup(et Type) (ReferenceMetrics, error) {
	m, ok := t.metrics[et]
	if !ok {
		return ReferenceMetrics{}, fmt.Errorf("%w: %s", ErrUnknownExerciseType, et)
	}
	return m.clone(), nil
}
