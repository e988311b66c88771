package analysis

import (
	"math"

	"github.com/2beens/formcheck/internal/exercise"
	"github.com/2beens/formcheck/internal/pose"
)

// verticalJumpStrategy measures the hip height above the ground line relative
// to the standing hip height of the first frame with hips and ankles visible.
type verticalJumpStrategy struct {
	ref exercise.ReferenceMetrics

	baselineSet       bool
	groundY           float64
	baselineHipHeight float64

	peakRatio    float64
	stableFrames int
	heightsPct   []float64
}

func (s *verticalJumpStrategy) initialPhase() Phase {
	return PhaseAtBaseline
}

// hipRatio returns the current hip height over the baseline hip height, 1 when standing.
func (s *verticalJumpStrategy) hipRatio(in *frameInput) float64 {
	if !s.baselineSet {
		return 1
	}
	return (s.groundY - in.hipMid().Y) / s.baselineHipHeight
}

func (s *verticalJumpStrategy) establishBaseline(in *frameInput) {
	if s.baselineSet || !in.has(pose.LeftHip, pose.RightHip, pose.LeftAnkle, pose.RightAnkle) {
		return
	}
	groundY := in.ankleMid().Y
	hipHeight := groundY - in.hipMid().Y
	if hipHeight <= 0 {
		return
	}
	s.groundY = groundY
	s.baselineHipHeight = hipHeight
	s.baselineSet = true
}

func (s *verticalJumpStrategy) classify(in *frameInput) transition {
	s.establishBaseline(in)
	if !s.baselineSet {
		return transition{phase: in.phase}
	}

	ratio := s.hipRatio(in)
	knee := in.leftKneeAngle()

	switch in.phase {
	case PhaseAtBaseline:
		if ratio > s.ref.TakeoffRatio {
			s.peakRatio = ratio
			return transition{phase: PhaseTakeoff}
		}
		if knee < s.ref.PrepKneeAngle {
			return transition{phase: PhasePreparing}
		}
	case PhasePreparing:
		if ratio > s.ref.PrepTakeoffRatio {
			s.peakRatio = ratio
			return transition{phase: PhaseTakeoff}
		}
		if knee > s.ref.StandKneeAngle && ratio < s.ref.PrepTakeoffRatio {
			return transition{phase: PhaseAtBaseline}
		}
	case PhaseTakeoff:
		s.peakRatio = math.Max(s.peakRatio, ratio)
		if ratio > s.ref.InAirRatio {
			return transition{phase: PhaseInAir}
		}
		if ratio <= 1 {
			return transition{phase: PhasePreparing}
		}
	case PhaseInAir:
		s.peakRatio = math.Max(s.peakRatio, ratio)
		if ratio < s.ref.LandingRatio {
			s.heightsPct = append(s.heightsPct, (s.peakRatio-1)*100)
			s.peakRatio = 0
			s.stableFrames = 0
			return transition{phase: PhaseLanding, completed: true}
		}
	case PhaseLanding:
		if knee > s.ref.PrepKneeAngle && math.Abs(ratio-1) < s.ref.StableRatioDelta {
			s.stableFrames++
		} else {
			s.stableFrames = 0
		}
		if s.stableFrames >= s.ref.LandingFrames {
			s.stableFrames = 0
			return transition{phase: PhaseAtBaseline}
		}
	}

	return transition{phase: in.phase}
}

func (s *verticalJumpStrategy) evaluate(in *frameInput, tr transition) evaluation {
	ev := newEvaluation(exercise.TypeVerticalJump, tr.phase)

	knee := in.leftKneeAngle()
	symmetry := in.kneeSymmetry()
	hipAngle := in.angle(pose.LeftShoulder, pose.LeftHip, pose.LeftKnee)

	switch tr.phase {
	case PhasePreparing:
		if knee < s.ref.KneeAngleRange.Min {
			ev.fail(TakeoffForm, "Don't sink too deep before the jump.")
		}
		if symmetry > s.ref.SymmetryPrepMax {
			ev.fail(JumpAsymmetry, "Keep your weight even on both legs.")
		}
	case PhaseTakeoff:
		if hipAngle < s.ref.MinTakeoffHipAngle {
			ev.fail(TakeoffForm, "Extend your hips fully at takeoff.")
		}
	case PhaseLanding:
		if knee > s.ref.LandingKneeAngle {
			ev.fail(LandingForm, "Bend your knees to absorb the landing.")
		}
		if symmetry > s.ref.SymmetryLandingMax {
			ev.fail(JumpAsymmetry, "Land evenly on both feet.")
		}
	}

	ev.metrics.KneeAngle = ptr(knee)
	ev.metrics.KneeSymmetry = ptr(symmetry)
	if s.baselineSet {
		ratio := s.hipRatio(in)
		ev.metrics.HipHeightRatio = ptr(ratio)
		ev.metrics.JumpHeightPct = ptr((ratio - 1) * 100)
	}

	return ev
}

func (s *verticalJumpStrategy) encouragement(tr transition) string {
	switch tr.phase {
	case PhasePreparing:
		return "Loading up... explode upward!"
	case PhaseTakeoff:
		return "Explosive takeoff!"
	case PhaseInAir:
		return "Great height!"
	case PhaseLanding:
		return "Nice landing! Absorb the impact."
	case PhaseAtBaseline:
		return "Jump complete! Reset and go again."
	}
	return ""
}

func (s *verticalJumpStrategy) positiveLine(Phase) string {
	return "Good jump form! Stay tall and ready."
}

func (s *verticalJumpStrategy) details() AttemptDetails {
	d := AttemptDetails{
		JumpHeightsPct: cloneFloats(s.heightsPct),
	}
	for _, h := range s.heightsPct {
		d.BestHeightPct = math.Max(d.BestHeightPct, h)
	}
	return d
}
