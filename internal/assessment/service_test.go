package assessment_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/2beens/formcheck/internal/analysis"
	"github.com/2beens/formcheck/internal/assessment"
	"github.com/2beens/formcheck/internal/exercise"
	"github.com/2beens/formcheck/internal/telemetry/metrics"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testNow = time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)

type failingSummarizer struct{}

func (failingSummarizer) Summarize(_ context.Context, _ analysis.SummaryInput) (analysis.Summary, error) {
	return analysis.Summary{}, errors.New("model unavailable")
}

func newTestService(t *testing.T, repo *MockresultsRepo, summarizer analysis.Summarizer) (*assessment.Service, *metrics.Manager) {
	t.Helper()

	table, err := exercise.DefaultTable()
	require.NoError(t, err)

	metricsManager := metrics.NewTestManager()
	return assessment.NewService(assessment.ServiceParams{
		Repo:           repo,
		Table:          table,
		Summarizer:     summarizer,
		MetricsManager: metricsManager,
		Now:            func() time.Time { return testNow },
	}), metricsManager
}

func TestService_Analyze_Squats(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockresultsRepo(ctrl)
	service, metricsManager := newTestService(t, repo, failingSummarizer{})

	var saved *assessment.Result
	repo.EXPECT().
		Add(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r *assessment.Result) error {
			saved = r
			return nil
		}).
		Times(1)

	result, err := service.Analyze(context.Background(), squatRequest("user-1", 3))
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Same(t, saved, result)

	_, err = uuid.Parse(result.ID)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", result.UserID)
	assert.Equal(t, exercise.TypeSquats, result.Exercise)
	assert.Equal(t, testNow, result.CreatedAt)

	require.NotNil(t, result.Report)
	assert.Equal(t, 3, result.Report.Performance.RepCount)
	assert.Equal(t, result.Report.Performance.OverallScore, result.Score)
	assert.Equal(t, result.Report.Performance.Grade, result.Grade)
	assert.Equal(t, 60, result.Report.TechnicalDetails.TotalFrames)
	// 60 frames at 10 fps, the clock follows the frame timestamps
	assert.InDelta(t, 5.9, result.Report.ExerciseDetails.DurationSecs, 0.01)
	assert.Equal(t, analysis.NarrativeSourceRuleBased, result.Report.TechnicalDetails.NarrativeSource)
	assert.Equal(t, "Test Athlete", result.Report.UserProfile.Name)

	// no jump, no measurements
	assert.Equal(t, assessment.Measurements{}, result.Measurements)

	assert.Equal(t, 60.0, testutil.ToFloat64(metricsManager.CounterFrames))
	assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterAnalyses.WithLabelValues("SQUATS", result.Grade)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterSummaryFallbacks))
}

func TestService_Analyze_BroadJumpMeasurements(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockresultsRepo(ctrl)
	service, metricsManager := newTestService(t, repo, nil)

	repo.EXPECT().Add(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	result, err := service.Analyze(context.Background(), broadJumpRequest("user-2"))
	require.NoError(t, err)

	assert.Equal(t, "A", result.Grade)
	assert.InDelta(t, 95, result.Score, 1e-6)
	assert.Equal(t, assessment.CalibrationPersonHeight, result.Measurements.CalibrationSource)
	assert.InDelta(t, 3.2, result.Measurements.PixelsPerCm, 1e-6)
	assert.InDelta(t, 78.125, result.Measurements.BroadJumpDistanceCm, 1e-6)
	assert.Nil(t, result.Measurements.Jump)

	// no summarizer configured, the rule based narrative is not a fallback
	assert.Zero(t, testutil.ToFloat64(metricsManager.CounterSummaryFallbacks))
}

func TestService_Analyze_ReferenceCalibration(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockresultsRepo(ctrl)
	service, _ := newTestService(t, repo, nil)

	repo.EXPECT().Add(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	req := broadJumpRequest("user-2")
	req.Calibration = &assessment.CalibrationInput{
		PersonHeightCm: 175,
		ReferencePx:    400,
		ReferenceCm:    100,
	}
	result, err := service.Analyze(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, assessment.CalibrationReference, result.Measurements.CalibrationSource)
	assert.InDelta(t, 4, result.Measurements.PixelsPerCm, 1e-6)
	assert.InDelta(t, 62.5, result.Measurements.BroadJumpDistanceCm, 1e-6)
}

func TestService_Analyze_InvalidRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockresultsRepo(ctrl)
	service, metricsManager := newTestService(t, repo, nil)

	repo.EXPECT().Add(gomock.Any(), gomock.Any()).Times(0)

	req := squatRequest("user-1", 1)
	req.Exercise = "burpees"
	result, err := service.Analyze(context.Background(), req)
	assert.ErrorIs(t, err, assessment.ErrInvalidRequest)
	assert.Nil(t, result)

	req = squatRequest("", 1)
	_, err = service.Analyze(context.Background(), req)
	assert.ErrorIs(t, err, assessment.ErrInvalidRequest)

	assert.Zero(t, testutil.ToFloat64(metricsManager.CounterFrames))
}

func TestService_Analyze_FramesOutOfOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockresultsRepo(ctrl)
	service, _ := newTestService(t, repo, nil)

	repo.EXPECT().Add(gomock.Any(), gomock.Any()).Times(0)

	req := squatRequest("user-1", 1)
	first, second := int64(1000), int64(500)
	req.Frames[0].TimestampMs = &first
	req.Frames[1].TimestampMs = &second

	_, err := service.Analyze(context.Background(), req)
	assert.ErrorIs(t, err, assessment.ErrInvalidRequest)
	assert.ErrorIs(t, err, analysis.ErrFrameOutOfOrder)
}

func TestService_Analyze_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockresultsRepo(ctrl)
	service, metricsManager := newTestService(t, repo, nil)

	repoErr := errors.New("connection reset")
	repo.EXPECT().Add(gomock.Any(), gomock.Any()).Return(repoErr).Times(1)

	result, err := service.Analyze(context.Background(), squatRequest("user-1", 1))
	assert.ErrorIs(t, err, repoErr)
	assert.Nil(t, result)
	assert.Zero(t, testutil.ToFloat64(metricsManager.CounterFrames))
}

func TestService_Analyze_CancelledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockresultsRepo(ctrl)
	service, _ := newTestService(t, repo, nil)

	repo.EXPECT().Add(gomock.Any(), gomock.Any()).Times(0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := service.Analyze(ctx, squatRequest("user-1", 1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockresultsRepo(ctrl)
	service, _ := newTestService(t, repo, nil)

	id := uuid.NewString()
	repo.EXPECT().Get(gomock.Any(), id).Return(&assessment.Result{ID: id}, nil).Times(1)

	result, err := service.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, result.ID)

	// not a uuid, the repo is never asked
	_, err = service.Get(context.Background(), "1; drop table")
	assert.ErrorIs(t, err, assessment.ErrResultNotFound)
}

func TestService_ListByUser_ClampsLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockresultsRepo(ctrl)
	service, _ := newTestService(t, repo, nil)

	gomock.InOrder(
		repo.EXPECT().ListByUser(gomock.Any(), "u", assessment.DefaultListLimit).Return(nil, nil),
		repo.EXPECT().ListByUser(gomock.Any(), "u", assessment.DefaultListLimit).Return(nil, nil),
		repo.EXPECT().ListByUser(gomock.Any(), "u", 42).Return(nil, nil),
		repo.EXPECT().ListByUser(gomock.Any(), "u", assessment.MaxListLimit).Return(nil, nil),
	)

	for _, limit := range []int{0, -3, 42, 5000} {
		_, err := service.ListByUser(context.Background(), "u", limit)
		require.NoError(t, err)
	}
}

func TestService_UserStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockresultsRepo(ctrl)
	service, _ := newTestService(t, repo, nil)

	repo.EXPECT().ScoreSummary(gomock.Any(), "u").Return(&assessment.ScoreSummary{
		Total:  7,
		Avg:    66.666,
		Max:    91,
		Min:    40,
		Latest: &testNow,
	}, nil)
	repo.EXPECT().ListByUser(gomock.Any(), "u", 5).Return([]assessment.Result{
		{Score: 91}, {Score: 70}, {Score: 40},
	}, nil)

	stats, err := service.UserStats(context.Background(), "u")
	require.NoError(t, err)
	assert.Equal(t, 7, stats.TotalTests)
	assert.Equal(t, 66.67, stats.AvgScore)
	assert.Equal(t, assessment.TrendImproving, stats.ProgressTrend)
	assert.Equal(t, []float64{91, 70, 40}, stats.RecentScores)
}

func TestService_UserStats_NoResults(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockresultsRepo(ctrl)
	service, _ := newTestService(t, repo, nil)

	repo.EXPECT().ScoreSummary(gomock.Any(), "nobody").Return(&assessment.ScoreSummary{}, nil)
	repo.EXPECT().ListByUser(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	stats, err := service.UserStats(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, assessment.TrendNoData, stats.ProgressTrend)
	assert.Zero(t, stats.TotalTests)
}

func TestService_WorkoutPlan(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockresultsRepo(ctrl)
	service, _ := newTestService(t, repo, nil)

	profile := analysis.UserProfile{Name: "Ana", HeightCm: 165, WeightKg: 90}
	latest := assessment.Result{
		ID:     uuid.NewString(),
		UserID: "ana",
		Score:  85,
		Report: &analysis.Report{UserProfile: profile.Snapshot()},
	}
	older := &assessment.Result{
		ID:     uuid.NewString(),
		UserID: "ana",
		Score:  41,
	}
	foreign := &assessment.Result{
		ID:     uuid.NewString(),
		UserID: "someone-else",
		Score:  99,
	}

	t.Run("latest", func(t *testing.T) {
		repo.EXPECT().ListByUser(gomock.Any(), "ana", 1).Return([]assessment.Result{latest}, nil)

		plan, err := service.WorkoutPlan(context.Background(), "ana", "")
		require.NoError(t, err)
		assert.Equal(t, assessment.LevelAdvanced, plan.Level)
		assert.Equal(t, "Ana", plan.User)
		assert.Equal(t, "Obese", plan.FitnessLevel)
		assert.Equal(t, latest.ID, plan.ResultID)
	})

	t.Run("specific result", func(t *testing.T) {
		repo.EXPECT().Get(gomock.Any(), older.ID).Return(older, nil)

		plan, err := service.WorkoutPlan(context.Background(), "ana", older.ID)
		require.NoError(t, err)
		assert.Equal(t, assessment.LevelBeginner, plan.Level)
		assert.Equal(t, older.ID, plan.ResultID)
	})

	t.Run("result of another user", func(t *testing.T) {
		repo.EXPECT().Get(gomock.Any(), foreign.ID).Return(foreign, nil)

		_, err := service.WorkoutPlan(context.Background(), "ana", foreign.ID)
		assert.ErrorIs(t, err, assessment.ErrResultNotFound)
	})

	t.Run("no results", func(t *testing.T) {
		repo.EXPECT().ListByUser(gomock.Any(), "new-user", 1).Return(nil, nil)

		_, err := service.WorkoutPlan(context.Background(), "new-user", "")
		assert.ErrorIs(t, err, assessment.ErrNoResults)
	})
}

func TestService_ReferenceMetricsAndExercises(t *testing.T) {
	service, _ := newTestService(t, NewMockresultsRepo(gomock.NewController(t)), nil)

	ref, err := service.ReferenceMetrics("squats")
	require.NoError(t, err)
	assert.NotZero(t, ref)

	_, err = service.ReferenceMetrics("YOGA")
	assert.ErrorIs(t, err, exercise.ErrUnknownExerciseType)

	exercises := service.Exercises()
	require.Len(t, exercises, len(exercise.AllTypes))
	assert.Equal(t, assessment.ExerciseInfo{
		Type:   exercise.TypeStandingBroadJump,
		Name:   "Standing Broad Jump",
		TestID: 5,
	}, exercises[5])
}
