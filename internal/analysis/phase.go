package analysis

import "strings"

// Phase is the current stage of the movement cycle of the active exercise.
type Phase string

const (
	// squats, pushups, situps
	PhaseAtTop     Phase = "at_top"
	PhaseGoingDown Phase = "going_down"
	PhaseAtBottom  Phase = "at_bottom"
	PhaseGoingUp   Phase = "going_up"

	// jumps
	PhaseCalibrating Phase = "calibrating"
	PhaseAtBaseline  Phase = "at_baseline"
	PhasePreparing   Phase = "preparing"
	PhaseTakeoff     Phase = "takeoff"
	PhaseInAir       Phase = "in_air"
	PhaseLanding     Phase = "landing"
	PhaseCompleted   Phase = "completed"

	// plank
	PhaseNotHolding Phase = "not_holding"
	PhaseHolding    Phase = "holding"

	// runs
	PhaseAtStart Phase = "at_start"
	PhaseRunning Phase = "running"
	PhaseTurning Phase = "turning"
	PhaseResting Phase = "resting"
)

func (p Phase) String() string {
	return string(p)
}

// Title returns e.g. "Going Down" for going_down.
func (p Phase) Title() string {
	words := strings.Split(string(p), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
