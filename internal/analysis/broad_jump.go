package analysis

import (
	"math"

	"github.com/2beens/formcheck/internal/exercise"
	"github.com/2beens/formcheck/internal/pose"
)

const (
	// in_air ends once the hips fall back this far behind the peak, in % of frame width
	broadJumpPeakDrop = 1.0
	// or once they move less than this per frame
	broadJumpStillStep = 0.2
	// landing resumes flight when the hips pass the peak by this much
	broadJumpResumeMargin = 2.0
)

// broadJumpStrategy measures the horizontal hip travel from a baseline
// established over the first calibration frames, in % of frame width.
type broadJumpStrategy struct {
	ref exercise.ReferenceMetrics

	calibration []float64
	baselineX   float64
	calibrated  bool
	// armed is cleared after a jump until the athlete is back at the baseline
	armed bool

	lastX         float64
	peakPct       float64
	landingMaxPct float64
	landingFrames int
	distancesPct  []float64
}

func (s *broadJumpStrategy) initialPhase() Phase {
	return PhaseCalibrating
}

func (s *broadJumpStrategy) displacementPct(in *frameInput, x float64) float64 {
	if in.width <= 0 {
		return 0
	}
	return math.Abs(x-s.baselineX) / in.width * 100
}

// stepPct is the hip travel since the previous frame, in % of frame width.
func (s *broadJumpStrategy) stepPct(in *frameInput, x float64) float64 {
	if in.width <= 0 {
		return 0
	}
	return math.Abs(x-s.lastX) / in.width * 100
}

func (s *broadJumpStrategy) classify(in *frameInput) transition {
	x := in.hipMid().X
	defer func() {
		s.lastX = x
	}()

	if !s.calibrated {
		if in.has(pose.LeftHip, pose.RightHip) {
			s.calibration = append(s.calibration, x)
		}
		if len(s.calibration) < s.ref.CalibrationFrames {
			return transition{phase: PhaseCalibrating}
		}
		sum := 0.0
		for _, cx := range s.calibration {
			sum += cx
		}
		s.baselineX = sum / float64(len(s.calibration))
		s.calibrated = true
		s.armed = true
		return transition{phase: PhaseAtBaseline}
	}

	disp := s.displacementPct(in, x)
	knee := in.leftKneeAngle()

	switch in.phase {
	case PhaseAtBaseline:
		if disp < s.ref.TakeoffDisplacement {
			s.armed = true
		}
		if knee < s.ref.PrepKneeAngle {
			return transition{phase: PhasePreparing}
		}
		if s.armed && disp > s.ref.TakeoffDisplacement {
			s.peakPct = disp
			return transition{phase: PhaseTakeoff}
		}
	case PhasePreparing:
		if disp > s.ref.TakeoffDisplacement {
			s.peakPct = disp
			return transition{phase: PhaseTakeoff}
		}
		if knee > s.ref.StandKneeAngle {
			return transition{phase: PhaseAtBaseline}
		}
	case PhaseTakeoff:
		// a lean that never leaves the takeoff band is not a jump
		if disp < s.ref.TakeoffDisplacement {
			s.peakPct = 0
			return transition{phase: PhaseAtBaseline}
		}
		s.peakPct = math.Max(s.peakPct, disp)
		if disp > s.ref.InAirDisplacement {
			return transition{phase: PhaseInAir}
		}
		// short jumps settle without ever clearing the in_air threshold
		if s.stepPct(in, x) < broadJumpStillStep {
			s.landingFrames = 1
			s.landingMaxPct = disp
			return transition{phase: PhaseLanding}
		}
	case PhaseInAir:
		if disp < s.peakPct-broadJumpPeakDrop || s.stepPct(in, x) < broadJumpStillStep {
			s.landingFrames = 1
			s.landingMaxPct = disp
			return transition{phase: PhaseLanding}
		}
		s.peakPct = math.Max(s.peakPct, disp)
	case PhaseLanding:
		if disp > s.peakPct+broadJumpResumeMargin {
			s.peakPct = disp
			return transition{phase: PhaseInAir}
		}
		s.landingMaxPct = math.Max(s.landingMaxPct, disp)
		s.landingFrames++
		if s.landingFrames >= s.ref.LandingFrames {
			distance := s.peakPct
			if distance <= 0 {
				distance = s.landingMaxPct
			}
			s.distancesPct = append(s.distancesPct, distance)
			s.peakPct = 0
			s.landingMaxPct = 0
			s.landingFrames = 0
			s.armed = false
			return transition{phase: PhaseCompleted, completed: true}
		}
	case PhaseCompleted:
		return transition{phase: PhaseAtBaseline}
	}

	return transition{phase: in.phase}
}

func (s *broadJumpStrategy) evaluate(in *frameInput, tr transition) evaluation {
	ev := newEvaluation(exercise.TypeStandingBroadJump, tr.phase)

	knee := in.leftKneeAngle()
	symmetry := in.kneeSymmetry()
	hipAngle := in.angle(pose.LeftShoulder, pose.LeftHip, pose.LeftKnee)

	switch tr.phase {
	case PhasePreparing:
		if symmetry > s.ref.SymmetryPrepMax {
			ev.fail(JumpAsymmetry, "Keep your weight even on both legs.")
		}
	case PhaseTakeoff:
		if hipAngle < s.ref.MinTakeoffHipAngle {
			ev.fail(TakeoffForm, "Drive your hips forward at takeoff.")
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
	if s.calibrated {
		ev.metrics.HorizontalDisplacementPct = ptr(s.displacementPct(in, in.hipMid().X))
	}
	if tr.completed {
		ev.metrics.JumpDistancePct = ptr(s.distancesPct[len(s.distancesPct)-1])
	}

	return ev
}

func (s *broadJumpStrategy) encouragement(tr transition) string {
	switch tr.phase {
	case PhaseAtBaseline:
		return "Ready! Load up and jump."
	case PhasePreparing:
		return "Loading up... swing your arms!"
	case PhaseTakeoff:
		return "Explosive takeoff!"
	case PhaseInAir:
		return "Great extension!"
	case PhaseLanding:
		return "Nice landing! Hold it steady."
	case PhaseCompleted:
		return "Jump complete! Great effort!"
	}
	return ""
}

func (s *broadJumpStrategy) positiveLine(p Phase) string {
	if p == PhaseCalibrating {
		return "Calibrating... stand still."
	}
	return "Good form! Stay balanced."
}

func (s *broadJumpStrategy) details() AttemptDetails {
	d := AttemptDetails{
		JumpDistancesPct: cloneFloats(s.distancesPct),
	}
	for _, dist := range s.distancesPct {
		d.BestDistancePct = math.Max(d.BestDistancePct, dist)
	}
	return d
}
