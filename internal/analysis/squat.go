package analysis

import (
	"math"

	"github.com/2beens/formcheck/internal/exercise"
	"github.com/2beens/formcheck/internal/pose"
)

type squatStrategy struct {
	ref exercise.ReferenceMetrics
}

func (s *squatStrategy) initialPhase() Phase {
	return PhaseAtTop
}

func (s *squatStrategy) requiredJoints() []pose.Joint {
	return []pose.Joint{pose.LeftShoulder, pose.LeftHip, pose.LeftKnee, pose.LeftAnkle}
}

func (s *squatStrategy) classify(in *frameInput) transition {
	return classifyDescendingRep(in.phase, in.leftKneeAngle(), s.ref)
}

func (s *squatStrategy) evaluate(in *frameInput, tr transition) evaluation {
	ev := newEvaluation(exercise.TypeSquats, tr.phase)

	knee := in.leftKneeAngle()
	torso := in.angle(pose.LeftShoulder, pose.LeftHip, pose.LeftKnee)
	alignment := in.alignment(pose.LeftHip, pose.LeftKnee, pose.LeftAnkle)

	if isDownPhase(tr.phase) {
		if knee < s.ref.KneeAngleRange.Min {
			ev.fail(DepthIssues, "Going too deep! Control the descent.")
		} else if knee > s.ref.ShallowAngle && tr.phase == PhaseAtBottom {
			ev.fail(DepthIssues, "Go deeper! Aim for 90 degrees.")
		}

		if torso < s.ref.TorsoAngleRange.Min {
			ev.fail(TorsoLean, "Chest up! Don't lean forward too much.")
		}
	}

	if alignment < s.ref.AlignmentMin && tr.phase != PhaseAtTop {
		ev.fail(KneeAlignment, "Keep knees aligned with toes.")
	}

	ev.metrics.KneeAngle = ptr(knee)
	ev.metrics.TorsoAngle = ptr(torso)
	ev.metrics.AlignmentScore = ptr(alignment)
	if isDownPhase(tr.phase) {
		ev.metrics.KneeAngleDeviation = ptr(math.Abs(knee - s.ref.PerfectKneeAngle))
		ev.metrics.TorsoAngleDeviation = ptr(math.Abs(torso - s.ref.PerfectTorsoAngle))
	}

	return ev
}

func (s *squatStrategy) encouragement(tr transition) string {
	switch tr.phase {
	case PhaseGoingDown:
		return "Descending... keep control!"
	case PhaseAtBottom:
		return "Good depth! Now drive up!"
	case PhaseGoingUp:
		return "Drive through your heels!"
	case PhaseAtTop:
		return "Rep complete! Great job!"
	}
	return ""
}

func (s *squatStrategy) positiveLine(Phase) string {
	return "Excellent form! Keep going strong!"
}

func (s *squatStrategy) details() AttemptDetails {
	return AttemptDetails{}
}
