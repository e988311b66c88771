package analysis

import (
	"fmt"
	"math"
	"time"

	"github.com/2beens/formcheck/internal/exercise"
	"github.com/2beens/formcheck/internal/pose"
)

// frameInput is what a strategy sees for one frame, after carry-forward.
type frameInput struct {
	lm        pose.Landmarks
	width     float64
	height    float64
	timestamp time.Duration
	// phase before this frame
	phase Phase
}

func (in *frameInput) point(j pose.Joint) pose.Point {
	p, _ := in.lm.Get(j)
	return p
}

func (in *frameInput) has(joints ...pose.Joint) bool {
	for _, j := range joints {
		if _, ok := in.lm.Get(j); !ok {
			return false
		}
	}
	return true
}

func (in *frameInput) angle(a, b, c pose.Joint) float64 {
	return pose.Angle(in.point(a), in.point(b), in.point(c))
}

func (in *frameInput) alignment(a, b, c pose.Joint) float64 {
	return pose.Alignment(in.point(a), in.point(b), in.point(c))
}

func (in *frameInput) leftKneeAngle() float64 {
	return in.angle(pose.LeftHip, pose.LeftKnee, pose.LeftAnkle)
}

// kneeSymmetry is the absolute difference between the left and right knee angles.
func (in *frameInput) kneeSymmetry() float64 {
	right := in.angle(pose.RightHip, pose.RightKnee, pose.RightAnkle)
	return math.Abs(in.leftKneeAngle() - right)
}

func (in *frameInput) hipMid() pose.Point {
	return pose.Midpoint(in.point(pose.LeftHip), in.point(pose.RightHip))
}

func (in *frameInput) ankleMid() pose.Point {
	return pose.Midpoint(in.point(pose.LeftAnkle), in.point(pose.RightAnkle))
}

func (in *frameInput) shoulderMid() pose.Point {
	return pose.Midpoint(in.point(pose.LeftShoulder), in.point(pose.RightShoulder))
}

type transition struct {
	phase Phase
	// completed is set when the transition finishes a rep, jump, run or lap.
	completed bool
}

type evaluation struct {
	correct  bool
	feedback []string
	metrics  FrameMetrics
	errors   []FormErrorKind
}

func newEvaluation(et exercise.Type, phase Phase) evaluation {
	return evaluation{
		correct: true,
		metrics: FrameMetrics{
			Exercise: et,
			Phase:    phase,
		},
	}
}

// fail records a form error with its feedback line.
func (e *evaluation) fail(kind FormErrorKind, line string) {
	e.correct = false
	e.feedback = append(e.feedback, line)
	if kind != "" {
		e.errors = append(e.errors, kind)
	}
}

func (e *evaluation) note(line string) {
	e.feedback = append(e.feedback, line)
}

// AttemptDetails holds the per attempt results of jumps, holds and runs.
type AttemptDetails struct {
	JumpDistancesPct []float64 `json:"jump_distances_pct,omitempty"`
	BestDistancePct  float64   `json:"best_distance_pct,omitempty"`
	JumpHeightsPct   []float64 `json:"jump_heights_pct,omitempty"`
	BestHeightPct    float64   `json:"best_height_pct,omitempty"`
	BestHoldSeconds  float64   `json:"best_hold_seconds,omitempty"`
	RunTimesSeconds  []float64 `json:"run_times_seconds,omitempty"`
	DirectionChanges int       `json:"direction_changes,omitempty"`
	CourseWidthPct   float64   `json:"course_width_pct,omitempty"`
}

func (d AttemptDetails) clone() AttemptDetails {
	d.JumpDistancesPct = cloneFloats(d.JumpDistancesPct)
	d.JumpHeightsPct = cloneFloats(d.JumpHeightsPct)
	d.RunTimesSeconds = cloneFloats(d.RunTimesSeconds)
	return d
}

func cloneFloats(s []float64) []float64 {
	if s == nil {
		return nil
	}
	return append([]float64(nil), s...)
}

// strategy is the phase classifier and form evaluator pair of one exercise.
// A strategy belongs to exactly one session and keeps its accumulators.
type strategy interface {
	initialPhase() Phase
	classify(in *frameInput) transition
	evaluate(in *frameInput, tr transition) evaluation
	// encouragement is appended when the phase changes. Empty means none.
	encouragement(tr transition) string
	// positiveLine is appended when a frame produced no feedback at all.
	positiveLine(p Phase) string
	details() AttemptDetails
}

// jointGate is implemented by strategies whose angles mean nothing until
// the listed joints have been detected at least once.
type jointGate interface {
	requiredJoints() []pose.Joint
}

func newStrategy(et exercise.Type, ref exercise.ReferenceMetrics) (strategy, error) {
	switch et {
	case exercise.TypeSquats:
		return &squatStrategy{ref: ref}, nil
	case exercise.TypePushups:
		return &pushupStrategy{ref: ref}, nil
	case exercise.TypeSitups:
		return &situpStrategy{ref: ref}, nil
	case exercise.TypeVerticalJump:
		return &verticalJumpStrategy{ref: ref}, nil
	case exercise.TypeStandingBroadJump:
		return &broadJumpStrategy{ref: ref}, nil
	case exercise.TypePlankHold:
		return &plankStrategy{ref: ref}, nil
	case exercise.TypeShuttleRun:
		return newShuttleRunStrategy(ref), nil
	case exercise.TypeEnduranceRun:
		return newEnduranceRunStrategy(ref), nil
	default:
		return nil, fmt.Errorf("%w: %s", exercise.ErrUnknownExerciseType, et)
	}
}
