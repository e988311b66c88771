package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/formcheck/internal/exercise"
	"github.com/2beens/formcheck/internal/pose"

	log "github.com/sirupsen/logrus"
)

var (
	ErrExerciseNotSelected     = errors.New("exercise not selected")
	ErrExerciseAlreadySelected = errors.New("exercise already selected")
	ErrFrameOutOfOrder         = errors.New("frame timestamp out of order")
)

const awaitingPoseLine = "Waiting for pose detection... step into the frame."

// FrameResult is the verdict for a single processed frame.
type FrameResult struct {
	Phase    Phase        `json:"phase"`
	RepCount int          `json:"rep_count"`
	Correct  bool         `json:"correct"`
	Feedback string       `json:"feedback"`
	Metrics  FrameMetrics `json:"metrics"`
	Degraded bool         `json:"degraded"`
}

type SessionParams struct {
	Table      *exercise.Table
	Summarizer Summarizer
	// Now defaults to time.Now.
	Now func() time.Time
}

// Session analyzes one exercise run, frame by frame.
// It is not safe for concurrent use.
type Session struct {
	table      *exercise.Table
	summarizer Summarizer
	now        func() time.Time

	selected     bool
	exerciseType exercise.Type
	profile      UserProfile
	ref          exercise.ReferenceMetrics
	strategy     strategy
	tracker      *pose.Tracker

	startedAt    time.Time
	lastActivity time.Time
	lastFrameTS  time.Duration

	phase        Phase
	repCount     int
	formErrors   FormErrors
	repQualities []float64

	// index aligned, append only
	feedbackHistory []string
	metricsHistory  []FrameMetrics
	phaseHistory    []Phase
	frameFeedback   [][]string

	degradedFrames int

	report       *Report
	reportFrames int
}

func NewSession(params SessionParams) *Session {
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Session{
		table:      params.Table,
		summarizer: params.Summarizer,
		now:        now,
		tracker:    pose.NewTracker(),
	}
}

// SelectExercise loads the reference metrics and starts the session.
// The exercise can only be selected once.
func (s *Session) SelectExercise(et exercise.Type, profile *UserProfile) error {
	if s.selected {
		return ErrExerciseAlreadySelected
	}

	ref, err := s.table.Lookup(et)
	if err != nil {
		return err
	}

	strat, err := newStrategy(et, ref)
	if err != nil {
		return err
	}

	if profile != nil {
		s.profile = *profile
	}
	s.exerciseType = et
	s.ref = ref
	s.strategy = strat
	s.phase = strat.initialPhase()
	s.startedAt = s.now()
	s.lastActivity = s.startedAt
	s.selected = true

	log.Debugf("session: selected exercise %s, initial phase %s", et, s.phase)
	return nil
}

// ProcessFrame runs one frame through the phase classifier and the form evaluator
// of the selected exercise. Undetected joints are carried forward from earlier frames.
func (s *Session) ProcessFrame(frame pose.Frame) (FrameResult, error) {
	if !s.selected {
		return FrameResult{}, ErrExerciseNotSelected
	}
	if len(s.feedbackHistory) > 0 && frame.Timestamp < s.lastFrameTS {
		return FrameResult{}, fmt.Errorf("%w: %s after %s", ErrFrameOutOfOrder, frame.Timestamp, s.lastFrameTS)
	}

	fill := s.tracker.Fill(frame.Landmarks)
	if fill.Degraded() {
		s.degradedFrames++
	}

	in := &frameInput{
		lm:        fill.Landmarks,
		width:     frame.Width,
		height:    frame.Height,
		timestamp: frame.Timestamp,
		phase:     s.phase,
	}

	var (
		tr transition
		ev evaluation
	)
	if s.awaitingJoints(in) {
		tr = transition{phase: s.phase}
		ev = newEvaluation(s.exerciseType, s.phase)
		ev.note(awaitingPoseLine)
	} else {
		tr = s.strategy.classify(in)
		ev = s.strategy.evaluate(in, tr)
	}

	if tr.completed {
		s.repQualities = append(s.repQualities, repQuality(s.feedbackHistory))
		s.repCount++
		log.Debugf("session: %s rep %d completed at %s", s.exerciseType, s.repCount, frame.Timestamp)
	}

	feedback := ev.feedback
	if tr.phase != s.phase {
		if line := s.strategy.encouragement(tr); line != "" {
			feedback = append(feedback, line)
		}
	}
	if ev.correct && len(feedback) == 0 {
		feedback = append(feedback, s.strategy.positiveLine(tr.phase))
	}

	for _, kind := range ev.errors {
		s.formErrors.add(kind)
	}

	text := strings.Join(feedback, " | ")
	s.feedbackHistory = append(s.feedbackHistory, text)
	s.metricsHistory = append(s.metricsHistory, ev.metrics)
	s.phaseHistory = append(s.phaseHistory, tr.phase)
	s.frameFeedback = append(s.frameFeedback, feedback)

	log.Tracef("session: frame %d phase %s -> %s: %s", len(s.feedbackHistory), s.phase, tr.phase, text)

	s.phase = tr.phase
	s.lastFrameTS = frame.Timestamp
	s.lastActivity = s.now()

	return FrameResult{
		Phase:    tr.phase,
		RepCount: s.repCount,
		Correct:  ev.correct,
		Feedback: text,
		Metrics:  ev.metrics,
		Degraded: fill.Degraded(),
	}, nil
}

// awaitingJoints reports whether the strategy still lacks a joint it has never seen.
// Such frames keep the phase and skip the form rules.
func (s *Session) awaitingJoints(in *frameInput) bool {
	g, ok := s.strategy.(jointGate)
	return ok && !in.has(g.requiredJoints()...)
}

func (s *Session) Exercise() exercise.Type {
	return s.exerciseType
}

func (s *Session) Phase() Phase {
	return s.phase
}

func (s *Session) RepCount() int {
	return s.repCount
}

func (s *Session) FrameCount() int {
	return len(s.feedbackHistory)
}

func (s *Session) PhaseHistory() []Phase {
	return append([]Phase(nil), s.phaseHistory...)
}

func (s *Session) FormErrors() FormErrors {
	return s.formErrors
}

// Score is the current performance score. It is 0 before any frame.
func (s *Session) Score() float64 {
	if len(s.feedbackHistory) == 0 {
		return 0
	}
	if s.exerciseType == exercise.TypeStandingBroadJump {
		return DistanceScore(s.strategy.details().BestDistancePct, s.ref.DistanceBenchmarks)
	}
	return CompositeScore(s.feedbackHistory, s.metricsHistory, s.repQualities, s.repCount)
}

// GenerateReport reduces the session into a report. Calling it again without
// processing new frames returns the same contents.
func (s *Session) GenerateReport(ctx context.Context) (*Report, error) {
	if !s.selected {
		return nil, ErrExerciseNotSelected
	}
	if s.report != nil && s.reportFrames == len(s.feedbackHistory) {
		return s.report.Clone(), nil
	}

	total := len(s.feedbackHistory)
	correct := countMatching(s.feedbackHistory, completionKeywords)
	formAccuracy := 0.0
	if total > 0 {
		formAccuracy = float64(correct) / float64(total) * 100
	}
	score := s.Score()
	duration := s.lastActivity.Sub(s.startedAt).Seconds()
	common := commonFeedback(s.feedbackHistory)

	in := SummaryInput{
		Exercise:       s.exerciseType,
		Score:          score,
		FormAccuracy:   formAccuracy,
		DurationSecs:   duration,
		TotalFrames:    total,
		CorrectFrames:  correct,
		RepCount:       s.repCount,
		CommonFeedback: common,
		FormErrors:     s.formErrors,
		Profile:        s.profile,
	}

	ruleBased := RuleBasedSummary(in)
	narrative, source := s.narrative(ctx, in, ruleBased)

	frameFeedback := make([][]string, len(s.frameFeedback))
	for i, lines := range s.frameFeedback {
		frameFeedback[i] = append([]string(nil), lines...)
	}

	report := &Report{
		UserProfile: s.profile.Snapshot(),
		ExerciseDetails: ExerciseDetails{
			Type:         s.exerciseType,
			Name:         s.exerciseType.DisplayName(),
			DurationSecs: duration,
			Date:         s.startedAt,
		},
		Performance: Performance{
			OverallScore: score,
			FormAccuracy: formAccuracy,
			Grade:        Grade(score),
			RepCount:     s.repCount,
		},
		RuleBasedAnalysis: ruleBased,
		AIAnalysis:        narrative,
		Metrics:           averageMetrics(s.metricsHistory),
		FormErrors:        s.formErrors,
		TechnicalDetails: TechnicalDetails{
			TotalFrames:       total,
			CorrectFrames:     correct,
			DegradedFrames:    s.degradedFrames,
			VideoDurationSecs: s.lastFrameTS.Seconds(),
			NarrativeSource:   source,
		},
		Attempts:            s.strategy.details(),
		CommonFeedback:      common,
		FullFeedbackHistory: frameFeedback,
	}

	s.report = report
	s.reportFrames = total

	return report.Clone(), nil
}

// narrative asks the summarizer for the narrative analysis, falling back to
// the rule based summary on any error.
func (s *Session) narrative(ctx context.Context, in SummaryInput, fallback Summary) (Summary, string) {
	if s.summarizer == nil {
		return fallback.clone(), NarrativeSourceRuleBased
	}

	summary, err := s.summarizer.Summarize(ctx, in)
	if err != nil {
		log.Debugf("session: narrative summary failed, using rule based: %s", err)
		return fallback.clone(), NarrativeSourceRuleBased
	}

	return summary, NarrativeSourceModel
}

// Finalize generates the report and hands it to the sink.
// A cancelled context discards the session without saving anything.
func (s *Session) Finalize(ctx context.Context, sink ReportSink) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("finalize session: %w", err)
	}

	report, err := s.GenerateReport(ctx)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("finalize session: %w", err)
	}

	if err := sink.SaveReport(ctx, report); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}

	return report, nil
}
