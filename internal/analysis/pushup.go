package analysis

import (
	"math"

	"github.com/2beens/formcheck/internal/exercise"
	"github.com/2beens/formcheck/internal/pose"
)

type pushupStrategy struct {
	ref exercise.ReferenceMetrics
}

func (s *pushupStrategy) initialPhase() Phase {
	return PhaseAtTop
}

func (s *pushupStrategy) requiredJoints() []pose.Joint {
	return []pose.Joint{pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist, pose.LeftHip, pose.LeftAnkle}
}

func (s *pushupStrategy) elbowAngle(in *frameInput) float64 {
	return in.angle(pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist)
}

func (s *pushupStrategy) classify(in *frameInput) transition {
	return classifyDescendingRep(in.phase, s.elbowAngle(in), s.ref)
}

func (s *pushupStrategy) evaluate(in *frameInput, tr transition) evaluation {
	ev := newEvaluation(exercise.TypePushups, tr.phase)

	elbow := s.elbowAngle(in)
	alignment := in.alignment(pose.LeftShoulder, pose.LeftHip, pose.LeftAnkle)

	if isDownPhase(tr.phase) {
		if elbow < s.ref.ElbowAngleRange.Min {
			ev.note("Great depth! Now push up!")
		} else if elbow > s.ref.ShallowAngle && tr.phase == PhaseAtBottom {
			ev.fail(DepthIssues, "Go lower! Get closer to the ground.")
		}
	}

	if alignment < s.ref.AlignmentMin && tr.phase != PhaseAtTop {
		ev.fail(BodyAlignment, "Keep your body straight! Engage your core.")
	}

	ev.metrics.ElbowAngle = ptr(elbow)
	ev.metrics.AlignmentScore = ptr(alignment)
	if isDownPhase(tr.phase) {
		ev.metrics.ElbowAngleDeviation = ptr(math.Abs(elbow - s.ref.PerfectElbowAngle))
	}
	if tr.phase != PhaseAtTop {
		ev.metrics.AlignmentDeviation = ptr(math.Abs(alignment - s.ref.PerfectAlignment))
	}

	return ev
}

func (s *pushupStrategy) encouragement(tr transition) string {
	switch tr.phase {
	case PhaseGoingDown:
		return "Descending... control the movement!"
	case PhaseAtBottom:
		return "Good depth! Drive up!"
	case PhaseGoingUp:
		return "Push through! Almost there!"
	case PhaseAtTop:
		return "Rep complete! Nice work!"
	}
	return ""
}

func (s *pushupStrategy) positiveLine(Phase) string {
	return "Perfect form! Keep it up!"
}

func (s *pushupStrategy) details() AttemptDetails {
	return AttemptDetails{}
}
