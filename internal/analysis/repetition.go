package analysis

import "github.com/2beens/formcheck/internal/exercise"

// classifyDescendingRep drives a top -> bottom -> top cycle on an angle that
// shrinks on the way down (knee for squats, elbow for pushups).
// The intermediate phases only move forward or jump to an extreme, so a
// monotonic sweep visits every phase once. A rep completes on going_up -> at_top.
func classifyDescendingRep(prev Phase, angle float64, ref exercise.ReferenceMetrics) transition {
	switch {
	case angle > ref.TopAngle:
		return transition{
			phase:     PhaseAtTop,
			completed: prev == PhaseGoingUp,
		}
	case angle < ref.BottomAngle:
		return transition{phase: PhaseAtBottom}
	case prev == PhaseAtTop && angle < ref.DescendAngle:
		return transition{phase: PhaseGoingDown}
	case prev == PhaseAtBottom && angle > ref.AscendAngle:
		return transition{phase: PhaseGoingUp}
	default:
		return transition{phase: prev}
	}
}

// classifyAscendingRep is the mirror cycle for an angle that grows on the way
// up (torso tilt for situps). A rep completes on going_down -> at_bottom.
func classifyAscendingRep(prev Phase, angle float64, ref exercise.ReferenceMetrics) transition {
	switch {
	case angle < ref.BottomAngle:
		return transition{
			phase:     PhaseAtBottom,
			completed: prev == PhaseGoingDown,
		}
	case angle > ref.TopAngle:
		return transition{phase: PhaseAtTop}
	case prev == PhaseAtBottom && angle > ref.AscendAngle:
		return transition{phase: PhaseGoingUp}
	case prev == PhaseAtTop && angle < ref.DescendAngle:
		return transition{phase: PhaseGoingDown}
	default:
		return transition{phase: prev}
	}
}

func isDownPhase(p Phase) bool {
	return p == PhaseGoingDown || p == PhaseAtBottom
}
