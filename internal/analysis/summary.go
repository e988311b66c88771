package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/2beens/formcheck/internal/exercise"
)

// Summary is a human readable take on a session.
type Summary struct {
	Summary         string   `json:"summary"`
	KeyFindings     []string `json:"key_findings"`
	Recommendations []string `json:"recommendations"`
}

func (s Summary) clone() Summary {
	s.KeyFindings = append([]string(nil), s.KeyFindings...)
	s.Recommendations = append([]string(nil), s.Recommendations...)
	return s
}

// SummaryInput is everything a summarizer gets to see about a session.
type SummaryInput struct {
	Exercise       exercise.Type `json:"exercise"`
	Score          float64       `json:"score"`
	FormAccuracy   float64       `json:"form_accuracy"`
	DurationSecs   float64       `json:"duration"`
	TotalFrames    int           `json:"total_frames"`
	CorrectFrames  int           `json:"correct_frames"`
	RepCount       int           `json:"rep_count"`
	CommonFeedback []string      `json:"common_feedback"`
	FormErrors     FormErrors    `json:"form_errors"`
	Profile        UserProfile   `json:"profile"`
}

//go:generate mockgen -source=$GOFILE -destination=summary_mocks_test.go -package=analysis_test

// Summarizer produces the narrative part of a report, typically backed by a language model.
type Summarizer interface {
	Summarize(ctx context.Context, in SummaryInput) (Summary, error)
}

type finding struct {
	kind      FormErrorKind
	ratio     float64
	text      string
	recommend string
}

// exerciseFindings lists, per exercise, the findings raised when a form error
// kind shows up in more than the given share of frames.
var exerciseFindings = map[exercise.Type][]finding{
	exercise.TypeSquats: {
		{KneeAlignment, 0.2, "Frequent knee valgus (inward collapse) during descent.", "Focus on pushing knees outward, aligned with toes."},
		{DepthIssues, 0.3, "Inconsistent squat depth affecting range of motion.", "Practice box squats to develop consistent depth."},
		{TorsoLean, 0.25, "Excessive forward lean compromising spinal alignment.", "Strengthen posterior chain and practice goblet squats."},
	},
	exercise.TypePushups: {
		{BodyAlignment, 0.2, "Body alignment issues including hip sagging or elevation.", "Strengthen core with planks and hollow body holds."},
		{DepthIssues, 0.3, "Insufficient range of motion in pushup movement.", "Use elevation blocks or practice negative pushups."},
		{ElbowPosition, 0.2, "Elbow flaring reducing mechanical efficiency.", "Keep elbows at 45-degree angle to torso."},
	},
	exercise.TypeSitups: {
		{KneeAlignment, 0.2, "Legs straightening during the curl, shifting load to the hip flexors.", "Anchor your feet and keep knees bent at 90 degrees."},
		{DepthIssues, 0.3, "Incomplete range of motion at the top of the curl.", "Slow down and curl all the way up on every rep."},
	},
	exercise.TypeVerticalJump: {
		{LandingForm, 0.2, "Stiff landings with little knee flexion.", "Practice drop landings, absorbing through hips and knees."},
		{TakeoffForm, 0.2, "Incomplete hip extension at takeoff.", "Add hip thrusts and jump squats to train full extension."},
		{JumpAsymmetry, 0.15, "Uneven loading between left and right legs.", "Include single-leg work like split squats and step-ups."},
	},
	exercise.TypeStandingBroadJump: {
		{LandingForm, 0.2, "Stiff landings with little knee flexion.", "Practice sticking landings in a deep athletic stance."},
		{TakeoffForm, 0.2, "Hips not driving forward at takeoff.", "Work on arm swing timing and broad jump drills."},
		{JumpAsymmetry, 0.15, "Uneven loading between left and right legs.", "Include single-leg work like split squats and step-ups."},
	},
	exercise.TypePlankHold: {
		{BodyAlignment, 0.2, "Hips sagging or piking during the hold.", "Squeeze glutes and brace the core throughout the hold."},
		{ElbowPosition, 0.2, "Elbows drifting away from under the shoulders.", "Stack elbows directly under the shoulders before starting."},
	},
	exercise.TypeShuttleRun: {
		{BodyAlignment, 0.2, "Excessive forward lean while running.", "Keep the chest tall and drive the knees forward."},
	},
	exercise.TypeEnduranceRun: {
		{BodyAlignment, 0.2, "Excessive forward lean while running.", "Keep the chest tall and relax the shoulders."},
	},
}

type performanceTier struct {
	minScore float64
	level    string
	tone     string
}

var performanceTiers = []performanceTier{
	{90, "Outstanding", "demonstrates exceptional form and technique with minimal corrections needed"},
	{80, "Excellent", "shows excellent form with only minor refinements suggested"},
	{70, "Good", "displays good technique with some areas needing attention"},
	{60, "Satisfactory", "shows basic proficiency but requires focused improvement"},
	{50, "Fair", "demonstrates understanding but needs significant form corrections"},
	{0, "Needs Major Improvement", "requires comprehensive form training and technique development"},
}

// RuleBasedSummary builds a deterministic summary from scores, form errors and the profile.
func RuleBasedSummary(in SummaryInput) Summary {
	tier := performanceTiers[len(performanceTiers)-1]
	for _, t := range performanceTiers {
		if in.Score >= t.minScore {
			tier = t
			break
		}
	}

	var findings, recommendations []string
	frames := float64(in.TotalFrames)
	for _, f := range exerciseFindings[in.Exercise] {
		if float64(in.FormErrors.Count(f.kind)) > frames*f.ratio {
			findings = append(findings, f.text)
			recommendations = append(recommendations, f.recommend)
		}
	}

	if len(findings) == 0 {
		if in.Score >= 85 {
			findings = []string{"Exceptional form consistency maintained.", "Optimal movement patterns demonstrated.", "Minimal technical corrections needed."}
		} else {
			findings = []string{"General form maintenance achieved.", "Minor technique refinements possible.", "Consistent effort demonstrated."}
		}
	}

	switch {
	case in.Score >= 85:
		recommendations = append(recommendations, "Consider progressive overload increases.", "Maintain current excellent form standards.")
	case in.Score >= 70:
		recommendations = append(recommendations, "Focus on form consistency over speed.", "Video review for self-correction.")
	default:
		recommendations = append(recommendations, "Slow down movement tempo for better control.", "Consider working with a fitness professional.")
	}

	if bmi := in.Profile.BMI(); bmi > 30 {
		recommendations = append(recommendations, "Consider lower impact variations initially.")
	} else if bmi > 0 && bmi < 18.5 {
		recommendations = append(recommendations, "Focus on strength building with adequate nutrition.")
	}

	if in.Profile.Age > 50 {
		recommendations = append(recommendations, "Emphasize proper warm-up and mobility work.")
	} else if in.Profile.Age > 0 && in.Profile.Age < 25 {
		recommendations = append(recommendations, "Build foundation with perfect form before adding intensity.")
	}

	potential := "room for development"
	if in.Score >= 60 {
		potential = "strong potential"
	}

	var focus []string
	for _, f := range firstN(findings, 2) {
		focus = append(focus, strings.Fields(f)[0])
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "The user %s during the %s exercise session.\n", tier.tone, in.Exercise.DisplayName())
	fmt.Fprintf(&sb, "Performance assessment: %s (%.1f/100 points).\n", tier.level, in.Score)
	fmt.Fprintf(&sb, "Form accuracy of %.1f%% was maintained across %d analyzed frames\n", in.FormAccuracy, in.TotalFrames)
	fmt.Fprintf(&sb, "over %.1f seconds. Analysis reveals %s.\n", in.DurationSecs, strings.Join(firstN(findings, 3), ", "))
	fmt.Fprintf(&sb, "Technical proficiency shows %s\n", potential)
	fmt.Fprintf(&sb, "with targeted improvement focusing on %s.", strings.Join(focus, ", "))

	return Summary{
		Summary:         sb.String(),
		KeyFindings:     firstN(findings, 4),
		Recommendations: firstN(recommendations, 5),
	}
}

func firstN(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
