package analysis

import (
	"math"
	"time"

	"github.com/2beens/formcheck/internal/exercise"
	"github.com/2beens/formcheck/internal/pose"
)

type plankStrategy struct {
	ref exercise.ReferenceMetrics

	holdStart   time.Duration
	bestHold    time.Duration
	targetFired bool
}

func (s *plankStrategy) initialPhase() Phase {
	return PhaseNotHolding
}

func (s *plankStrategy) requiredJoints() []pose.Joint {
	return []pose.Joint{pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist, pose.LeftHip, pose.LeftAnkle}
}

func (s *plankStrategy) angles(in *frameInput) (body, elbow float64) {
	body = in.angle(pose.LeftShoulder, pose.LeftHip, pose.LeftAnkle)
	elbow = in.angle(pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist)
	return body, elbow
}

func (s *plankStrategy) classify(in *frameInput) transition {
	body, elbow := s.angles(in)
	inPosition := s.ref.BodyAngleRange.Contains(body) && s.ref.ElbowAngleRange.Contains(elbow)

	switch {
	case inPosition && in.phase != PhaseHolding:
		s.holdStart = in.timestamp
		s.targetFired = false
		return transition{phase: PhaseHolding}
	case inPosition:
		s.bestHold = max(s.bestHold, in.timestamp-s.holdStart)
		return transition{phase: PhaseHolding}
	default:
		return transition{phase: PhaseNotHolding}
	}
}

func (s *plankStrategy) evaluate(in *frameInput, tr transition) evaluation {
	ev := newEvaluation(exercise.TypePlankHold, tr.phase)

	body, elbow := s.angles(in)
	ev.metrics.BodyAngle = ptr(body)
	ev.metrics.ElbowAngle = ptr(elbow)

	if tr.phase != PhaseHolding {
		return ev
	}

	if body < s.ref.MinBodyAngle {
		ev.fail(BodyAlignment, "Keep your hips level! Don't let them sag.")
	}
	if !s.ref.ElbowPositionRange.Contains(elbow) {
		ev.fail(ElbowPosition, "Keep elbows under your shoulders.")
	}

	hold := in.timestamp - s.holdStart
	if !s.targetFired && s.ref.TargetHoldSeconds > 0 && hold.Seconds() >= s.ref.TargetHoldSeconds {
		s.targetFired = true
		ev.note("Great job! Target hold time reached.")
	}

	ev.metrics.HoldDuration = ptr(hold.Seconds())
	ev.metrics.BodyAngleDeviation = ptr(math.Abs(body - s.ref.PerfectBodyAngle))
	ev.metrics.ElbowAngleDeviation = ptr(math.Abs(elbow - s.ref.PerfectElbowAngle))

	return ev
}

func (s *plankStrategy) encouragement(tr transition) string {
	if tr.phase == PhaseHolding {
		return "Great plank position! Hold it!"
	}
	return "Plank broken. Reset and hold again."
}

func (s *plankStrategy) positiveLine(p Phase) string {
	if p == PhaseHolding {
		return "Good hold! Keep breathing steadily."
	}
	return "Get into position: forearms down, body straight."
}

func (s *plankStrategy) details() AttemptDetails {
	return AttemptDetails{
		BestHoldSeconds: s.bestHold.Seconds(),
	}
}
