package analysis

import (
	"context"
	"time"

	"github.com/2beens/formcheck/internal/exercise"
)

const (
	NarrativeSourceModel     = "model"
	NarrativeSourceRuleBased = "rule_based"
)

type ExerciseDetails struct {
	Type         exercise.Type `json:"type"`
	Name         string        `json:"name"`
	DurationSecs float64       `json:"duration"`
	Date         time.Time     `json:"date"`
}

type Performance struct {
	OverallScore float64 `json:"overall_score"`
	FormAccuracy float64 `json:"form_accuracy"`
	Grade        string  `json:"grade"`
	RepCount     int     `json:"rep_count"`
}

type TechnicalDetails struct {
	TotalFrames       int     `json:"total_frames"`
	CorrectFrames     int     `json:"correct_frames"`
	DegradedFrames    int     `json:"degraded_frames"`
	VideoDurationSecs float64 `json:"video_duration"`
	NarrativeSource   string  `json:"narrative_source"`
}

// Report is the immutable outcome of a session.
type Report struct {
	UserProfile         ProfileSnapshot    `json:"user_profile"`
	ExerciseDetails     ExerciseDetails    `json:"exercise_details"`
	Performance         Performance        `json:"performance"`
	RuleBasedAnalysis   Summary            `json:"rule_based_analysis"`
	AIAnalysis          Summary            `json:"ai_analysis"`
	Metrics             map[string]float64 `json:"metrics"`
	FormErrors          FormErrors         `json:"form_errors"`
	TechnicalDetails    TechnicalDetails   `json:"technical_details"`
	Attempts            AttemptDetails     `json:"attempts"`
	CommonFeedback      []string           `json:"common_feedback"`
	FullFeedbackHistory [][]string         `json:"full_feedback_history"`
}

// Clone returns a deep copy of the report.
func (r *Report) Clone() *Report {
	c := *r
	c.RuleBasedAnalysis = r.RuleBasedAnalysis.clone()
	c.AIAnalysis = r.AIAnalysis.clone()
	c.Attempts = r.Attempts.clone()
	c.CommonFeedback = append([]string(nil), r.CommonFeedback...)

	c.Metrics = make(map[string]float64, len(r.Metrics))
	for k, v := range r.Metrics {
		c.Metrics[k] = v
	}

	c.FullFeedbackHistory = make([][]string, len(r.FullFeedbackHistory))
	for i, lines := range r.FullFeedbackHistory {
		c.FullFeedbackHistory[i] = append([]string(nil), lines...)
	}

	return &c
}

//go:generate mockgen -source=$GOFILE -destination=report_mocks_test.go -package=analysis_test

// ReportSink receives finished reports, e.g. to persist them.
type ReportSink interface {
	SaveReport(ctx context.Context, report *Report) error
}
