package analysis

// FormErrorKind is one of the fixed form error categories.
type FormErrorKind string

const (
	KneeAlignment FormErrorKind = "knee_alignment"
	DepthIssues   FormErrorKind = "depth_issues"
	TorsoLean     FormErrorKind = "torso_lean"
	ElbowPosition FormErrorKind = "elbow_position"
	BodyAlignment FormErrorKind = "body_alignment"
	LandingForm   FormErrorKind = "landing_form"
	TakeoffForm   FormErrorKind = "takeoff_form"
	JumpAsymmetry FormErrorKind = "jump_asymmetry"
)

var AllFormErrorKinds = []FormErrorKind{
	KneeAlignment,
	DepthIssues,
	TorsoLean,
	ElbowPosition,
	BodyAlignment,
	LandingForm,
	TakeoffForm,
	JumpAsymmetry,
}

// FormErrors tallies form errors per kind. Counters only ever grow.
type FormErrors struct {
	KneeAlignment int `json:"knee_alignment"`
	DepthIssues   int `json:"depth_issues"`
	TorsoLean     int `json:"torso_lean"`
	ElbowPosition int `json:"elbow_position"`
	BodyAlignment int `json:"body_alignment"`
	LandingForm   int `json:"landing_form"`
	TakeoffForm   int `json:"takeoff_form"`
	JumpAsymmetry int `json:"jump_asymmetry"`
}

func (fe *FormErrors) counter(kind FormErrorKind) *int {
	switch kind {
	case KneeAlignment:
		return &fe.KneeAlignment
	case DepthIssues:
		return &fe.DepthIssues
	case TorsoLean:
		return &fe.TorsoLean
	case ElbowPosition:
		return &fe.ElbowPosition
	case BodyAlignment:
		return &fe.BodyAlignment
	case LandingForm:
		return &fe.LandingForm
	case TakeoffForm:
		return &fe.TakeoffForm
	case JumpAsymmetry:
		return &fe.JumpAsymmetry
	default:
		return nil
	}
}

func (fe *FormErrors) add(kind FormErrorKind) {
	if c := fe.counter(kind); c != nil {
		*c++
	}
}

func (fe FormErrors) Count(kind FormErrorKind) int {
	if c := fe.counter(kind); c != nil {
		return *c
	}
	return 0
}

func (fe FormErrors) Total() int {
	total := 0
	for _, kind := range AllFormErrorKinds {
		total += fe.Count(kind)
	}
	return total
}
