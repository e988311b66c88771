// Package assessment runs exercise analyses on uploaded keypoint sequences,
// keeps their results and derives user progress from them.
package assessment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/formcheck/internal/analysis"
	"github.com/2beens/formcheck/internal/exercise"
	"github.com/2beens/formcheck/internal/telemetry/metrics"
	"github.com/2beens/formcheck/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultMaxFrames  = 3000
	DefaultFPS        = 30.0
	DefaultListLimit  = 10
	MaxListLimit      = 100
	defaultResultsCap = 1
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=assessment_test

type resultsRepo interface {
	Add(ctx context.Context, result *Result) error
	Get(ctx context.Context, id string) (*Result, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]Result, error)
	ScoreSummary(ctx context.Context, userID string) (*ScoreSummary, error)
}

type ServiceParams struct {
	Repo           resultsRepo
	Table          *exercise.Table
	Summarizer     analysis.Summarizer
	MetricsManager *metrics.Manager
	MaxFrames      int
	DefaultFPS     float64
	// Now defaults to time.Now.
	Now func() time.Time
}

type Service struct {
	repo           resultsRepo
	table          *exercise.Table
	summarizer     analysis.Summarizer
	metricsManager *metrics.Manager
	maxFrames      int
	defaultFPS     float64
	now            func() time.Time
}

func NewService(params ServiceParams) *Service {
	s := &Service{
		repo:           params.Repo,
		table:          params.Table,
		summarizer:     params.Summarizer,
		metricsManager: params.MetricsManager,
		maxFrames:      params.MaxFrames,
		defaultFPS:     params.DefaultFPS,
		now:            params.Now,
	}
	if s.maxFrames <= 0 {
		s.maxFrames = DefaultMaxFrames
	}
	if s.defaultFPS <= 0 {
		s.defaultFPS = DefaultFPS
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.metricsManager == nil {
		s.metricsManager = metrics.NewTestManager()
	}
	return s
}

// reportSinkFunc adapts a func to analysis.ReportSink.
type reportSinkFunc func(ctx context.Context, report *analysis.Report) error

func (f reportSinkFunc) SaveReport(ctx context.Context, report *analysis.Report) error {
	return f(ctx, report)
}

// frameClock drives the session clock from the frame timestamps, so durations
// reflect the recording and not the time spent analyzing it.
type frameClock struct {
	start  time.Time
	offset time.Duration
}

func (c *frameClock) now() time.Time {
	return c.start.Add(c.offset)
}

// Analyze runs a fresh session over the request frames, derives the physical
// measurements and persists the result.
func (s *Service) Analyze(ctx context.Context, req *AnalyzeRequest) (_ *Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "assessment.analyze")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	et, err := req.Validate()
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("exercise", et.String()),
		attribute.Int("frames", len(req.Frames)),
	)

	started := time.Now()
	fps := req.EffectiveFPS(s.defaultFPS)
	frames := req.PoseFrames(s.defaultFPS, s.maxFrames)

	clock := &frameClock{start: s.now()}
	session := analysis.NewSession(analysis.SessionParams{
		Table:      s.table,
		Summarizer: s.summarizer,
		Now:        clock.now,
	})
	profile := req.Profile
	if err := session.SelectExercise(et, &profile); err != nil {
		return nil, fmt.Errorf("select exercise: %w", err)
	}

	for i, frame := range frames {
		clock.offset = frame.Timestamp
		if _, err := session.ProcessFrame(frame); err != nil {
			if errors.Is(err, analysis.ErrFrameOutOfOrder) {
				return nil, fmt.Errorf("%w: frame %d: %w", ErrInvalidRequest, i, err)
			}
			return nil, fmt.Errorf("process frame %d: %w", i, err)
		}
	}

	result := &Result{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		Exercise:  et,
		CreatedAt: clock.start,
	}
	sink := reportSinkFunc(func(ctx context.Context, report *analysis.Report) error {
		result.Report = report
		result.Score = report.Performance.OverallScore
		result.Grade = report.Performance.Grade
		result.Measurements = measure(et, req, frames, fps, report)
		return s.repo.Add(ctx, result)
	})

	if _, err := session.Finalize(ctx, sink); err != nil {
		return nil, err
	}

	s.observe(result, len(frames), time.Since(started))
	log.Debugf(
		"assessment [%s] user [%s] %s: score %.1f (%s), %d reps, %d frames",
		result.ID, result.UserID, et, result.Score, result.Grade, result.Report.Performance.RepCount, len(frames),
	)

	return result, nil
}

func (s *Service) observe(result *Result, frames int, took time.Duration) {
	et := result.Exercise.String()
	s.metricsManager.CounterAnalyses.WithLabelValues(et, result.Grade).Inc()
	s.metricsManager.CounterFrames.Add(float64(frames))
	s.metricsManager.CounterDegradedFrames.Add(float64(result.Report.TechnicalDetails.DegradedFrames))
	if s.summarizer != nil && result.Report.TechnicalDetails.NarrativeSource == analysis.NarrativeSourceRuleBased {
		s.metricsManager.CounterSummaryFallbacks.Inc()
	}
	s.metricsManager.HistogramAnalysisDuration.WithLabelValues(et).Observe(took.Seconds())
}

func (s *Service) Get(ctx context.Context, id string) (_ *Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "assessment.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrResultNotFound, id)
	}
	return s.repo.Get(ctx, id)
}

// ListByUser returns the latest results of the user, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string, limit int) (_ []Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "assessment.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return s.repo.ListByUser(ctx, userID, limit)
}

func (s *Service) UserStats(ctx context.Context, userID string) (_ *UserStats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "assessment.stats")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	summary, err := s.repo.ScoreSummary(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("score summary: %w", err)
	}
	if summary.Total == 0 {
		stats := NewUserStats(*summary, nil)
		return &stats, nil
	}

	recent, err := s.repo.ListByUser(ctx, userID, recentScoresCount)
	if err != nil {
		return nil, fmt.Errorf("recent results: %w", err)
	}
	scores := make([]float64, 0, len(recent))
	for _, r := range recent {
		scores = append(scores, r.Score)
	}

	stats := NewUserStats(*summary, scores)
	return &stats, nil
}

// WorkoutPlan builds the plan from the given result of the user, or from the
// latest one when resultID is empty.
func (s *Service) WorkoutPlan(ctx context.Context, userID, resultID string) (_ *WorkoutPlan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "assessment.workout_plan")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var result *Result
	if resultID != "" {
		result, err = s.Get(ctx, resultID)
		if err != nil {
			return nil, err
		}
		if result.UserID != userID {
			return nil, fmt.Errorf("%w: %s for user %s", ErrResultNotFound, resultID, userID)
		}
	} else {
		latest, err := s.repo.ListByUser(ctx, userID, defaultResultsCap)
		if err != nil {
			return nil, fmt.Errorf("latest result: %w", err)
		}
		if len(latest) == 0 {
			return nil, ErrNoResults
		}
		result = &latest[0]
	}

	plan := NewWorkoutPlan(result)
	return &plan, nil
}

// ReferenceMetrics returns the thresholds the analysis of the exercise uses.
func (s *Service) ReferenceMetrics(exerciseName string) (exercise.ReferenceMetrics, error) {
	et, err := exercise.ParseType(exerciseName)
	if err != nil {
		return exercise.ReferenceMetrics{}, err
	}
	return s.table.Lookup(et)
}

// Exercises lists the supported exercises.
func (s *Service) Exercises() []ExerciseInfo {
	infos := make([]ExerciseInfo, 0, len(exercise.AllTypes))
	for _, et := range exercise.AllTypes {
		infos = append(infos, ExerciseInfo{
			Type:   et,
			Name:   et.DisplayName(),
			TestID: et.TestID(),
		})
	}
	return infos
}

type ExerciseInfo struct {
	Type   exercise.Type `json:"type"`
	Name   string        `json:"name"`
	TestID int           `json:"test_id"`
}
