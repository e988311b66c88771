package exercise

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownExerciseType = errors.New("unknown exercise type")

// Type can be one of:
//   - jumps: VERTICAL_JUMP, STANDING_BROAD_JUMP
//   - repetition based: SITUPS, PUSHUPS, SQUATS
//   - static: PLANK_HOLD
//   - runs: SHUTTLE_RUN, ENDURANCE_RUN
type Type string

const (
	TypeVerticalJump      Type = "VERTICAL_JUMP"
	TypeShuttleRun        Type = "SHUTTLE_RUN"
	TypeSitups            Type = "SITUPS"
	TypePushups           Type = "PUSHUPS"
	TypePlankHold         Type = "PLANK_HOLD"
	TypeStandingBroadJump Type = "STANDING_BROAD_JUMP"
	TypeSquats            Type = "SQUATS"
	TypeEnduranceRun      Type = "ENDURANCE_RUN"
)

// AllTypes is ordered by test id.
var AllTypes = []Type{
	TypeVerticalJump,
	TypeShuttleRun,
	TypeSitups,
	TypePushups,
	TypePlankHold,
	TypeStandingBroadJump,
	TypeSquats,
	TypeEnduranceRun,
}

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case TypeVerticalJump,
		TypeShuttleRun,
		TypeSitups,
		TypePushups,
		TypePlankHold,
		TypeStandingBroadJump,
		TypeSquats,
		TypeEnduranceRun:
		return true
	default:
		return false
	}
}

// TestID is the numeric id the mobile clients use for the exercise.
func (t Type) TestID() int {
	for i, known := range AllTypes {
		if t == known {
			return i
		}
	}
	return -1
}

// DisplayName returns e.g. "Standing Broad Jump" for STANDING_BROAD_JUMP.
func (t Type) DisplayName() string {
	words := strings.Split(strings.ToLower(string(t)), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// tableKey is the section name in the reference metrics table.
func (t Type) tableKey() string {
	return strings.ToLower(string(t))
}

// ParseType accepts both upper and lower case names, e.g. "squats" and "SQUATS".
func ParseType(name string) (Type, error) {
	t := Type(strings.ToUpper(strings.TrimSpace(name)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %s", ErrUnknownExerciseType, name)
	}
	return t, nil
}

// TypeFromTestID maps a numeric test id back to the exercise type.
func TypeFromTestID(id int) (Type, error) {
	if id < 0 || id >= len(AllTypes) {
		return "", fmt.Errorf("%w: test id %d", ErrUnknownExerciseType, id)
	}
	return AllTypes[id], nil
}
