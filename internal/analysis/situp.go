package analysis

import (
	"math"

	"github.com/2beens/formcheck/internal/exercise"
	"github.com/2beens/formcheck/internal/pose"
)

// situpStrategy tracks the torso rising from the floor, measured as the tilt of
// the hip -> shoulder line from the horizontal.
type situpStrategy struct {
	ref exercise.ReferenceMetrics
}

func (s *situpStrategy) initialPhase() Phase {
	return PhaseAtBottom
}

func (s *situpStrategy) requiredJoints() []pose.Joint {
	return []pose.Joint{pose.LeftShoulder, pose.LeftHip, pose.LeftKnee, pose.LeftAnkle}
}

func (s *situpStrategy) torsoTilt(in *frameInput) float64 {
	return pose.TiltFromHorizontal(in.point(pose.LeftHip), in.point(pose.LeftShoulder))
}

func (s *situpStrategy) classify(in *frameInput) transition {
	return classifyAscendingRep(in.phase, s.torsoTilt(in), s.ref)
}

func (s *situpStrategy) evaluate(in *frameInput, tr transition) evaluation {
	ev := newEvaluation(exercise.TypeSitups, tr.phase)

	tilt := s.torsoTilt(in)
	knee := in.leftKneeAngle()
	active := tr.phase != PhaseAtBottom

	if active && knee > s.ref.KneeAngleRange.Max {
		ev.fail(KneeAlignment, "Keep your knees bent at about 90 degrees.")
	}
	if tr.phase == PhaseAtTop && tilt < s.ref.PerfectTorsoAngle {
		ev.fail(DepthIssues, "Come up a little higher.")
	}

	ev.metrics.TorsoAngle = ptr(tilt)
	ev.metrics.KneeAngle = ptr(knee)
	if active {
		ev.metrics.KneeAngleDeviation = ptr(math.Abs(knee - s.ref.PerfectKneeAngle))
	}

	return ev
}

func (s *situpStrategy) encouragement(tr transition) string {
	switch tr.phase {
	case PhaseGoingUp:
		return "Curl up... engage your core!"
	case PhaseAtTop:
		return "Great crunch at the top!"
	case PhaseGoingDown:
		return "Lower with control!"
	case PhaseAtBottom:
		if tr.completed {
			return "Rep complete! Nice work!"
		}
		return "Back down. Reset and curl again."
	}
	return ""
}

func (s *situpStrategy) positiveLine(Phase) string {
	return "Good form! Keep the rhythm!"
}

func (s *situpStrategy) details() AttemptDetails {
	return AttemptDetails{}
}
