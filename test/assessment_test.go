//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/2beens/formcheck/internal/assessment"
	"github.com/2beens/formcheck/internal/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func squatRequest(userID string, cycles int) assessment.AnalyzeRequest {
	req := assessment.AnalyzeRequest{
		UserID:   userID,
		Exercise: "squats",
		FPS:      10,
		Width:    1000,
		Height:   1000,
	}
	for c := 0; c < cycles; c++ {
		for i := 0; i < 20; i++ {
			angle := 170 - 7.5*float64(i)
			if i > 10 {
				angle = 95 + 7.5*float64(i-10)
			}
			rad := angle * math.Pi / 180
			hip := assessment.Keypoint{X: 500 + 200*math.Sin(rad), Y: 600 + 200*math.Cos(rad)}
			shoulder := assessment.Keypoint{X: hip.X, Y: hip.Y - 250}
			kps := map[string]assessment.Keypoint{
				"nose":          {X: shoulder.X, Y: shoulder.Y - 60},
				"left_shoulder": shoulder,
				"left_hip":      hip,
				"left_knee":     {X: 500, Y: 600},
				"left_ankle":    {X: 500, Y: 800},
				"left_elbow":    {X: shoulder.X, Y: shoulder.Y + 120},
				"left_wrist":    {X: shoulder.X, Y: shoulder.Y + 220},
			}
			for _, side := range []string{"shoulder", "elbow", "wrist", "hip", "knee", "ankle"} {
				kps["right_"+side] = kps["left_"+side]
			}
			req.Frames = append(req.Frames, assessment.FrameInput{Keypoints: kps})
		}
	}
	return req
}

func (s *IntegrationTestSuite) doRequest(
	ctx context.Context,
	method, path string,
	body io.Reader,
	withSecret bool,
) *http.Response {
	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, body)
	s.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if withSecret {
		req.Header.Set(middleware.ClientSecretHeader, testClientSecret)
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *IntegrationTestSuite) decode(resp *http.Response, v any) {
	defer func() {
		s.Require().NoError(resp.Body.Close())
	}()
	respBytes, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Require().NoError(json.Unmarshal(respBytes, v), string(respBytes))
}

func (s *IntegrationTestSuite) TestHealthAndAuth() {
	t := s.T()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp := s.doRequest(ctx, http.MethodGet, "/health", nil, false)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	resp = s.doRequest(ctx, http.MethodGet, "/assessment/exercises", nil, false)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var exercises []assessment.ExerciseInfo
	s.decode(resp, &exercises)
	assert.Len(t, exercises, 8)

	resp = s.doRequest(ctx, http.MethodGet, "/assessment/stats/someone", nil, false)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	resp = s.doRequest(ctx, http.MethodGet, "/assessment/stats/someone", nil, true)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var stats assessment.UserStats
	s.decode(resp, &stats)
	assert.Equal(t, assessment.TrendNoData, stats.ProgressTrend)
}

func (s *IntegrationTestSuite) TestAnalyzeAndProgress() {
	t := s.T()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	userID := fmt.Sprintf("it-user-%d", time.Now().UnixNano())

	var created []assessment.Result
	for _, cycles := range []int{1, 2, 3} {
		body, err := json.Marshal(squatRequest(userID, cycles))
		require.NoError(t, err)

		resp := s.doRequest(ctx, http.MethodPost, "/assessment/analyze", bytes.NewReader(body), true)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var result assessment.Result
		s.decode(resp, &result)
		assert.Equal(t, userID, result.UserID)
		require.NotNil(t, result.Report)
		assert.Equal(t, cycles, result.Report.Performance.RepCount)
		created = append(created, result)
	}

	var rows int
	require.NoError(t, s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM assessment_result WHERE user_id = $1`, userID,
	).Scan(&rows))
	assert.Equal(t, 3, rows)

	resp := s.doRequest(ctx, http.MethodGet, "/assessment/result/"+created[1].ID, nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got assessment.Result
	s.decode(resp, &got)
	assert.Equal(t, created[1].ID, got.ID)
	assert.Equal(t, created[1].Score, got.Score)

	resp = s.doRequest(ctx, http.MethodGet, "/assessment/results/"+userID+"?limit=2", nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var results []assessment.Result
	s.decode(resp, &results)
	require.Len(t, results, 2)
	assert.Equal(t, created[2].ID, results[0].ID)
	assert.Equal(t, created[1].ID, results[1].ID)

	resp = s.doRequest(ctx, http.MethodGet, "/assessment/stats/"+userID, nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats assessment.UserStats
	s.decode(resp, &stats)
	assert.Equal(t, 3, stats.TotalTests)
	require.Len(t, stats.RecentScores, 3)
	assert.Equal(t, created[2].Score, stats.RecentScores[0])
	assert.Equal(t, assessment.Trend(stats.RecentScores), stats.ProgressTrend)

	resp = s.doRequest(ctx, http.MethodGet, "/assessment/workout-plan/"+userID, nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var plan assessment.WorkoutPlan
	s.decode(resp, &plan)
	assert.Equal(t, created[2].ID, plan.ResultID)
	assert.Equal(t, assessment.PlanLevel(created[2].Score), plan.Level)

	resp = s.doRequest(ctx, http.MethodGet, "/assessment/workout-plan/"+userID+"?result_id="+created[0].ID, nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	s.decode(resp, &plan)
	assert.Equal(t, created[0].ID, plan.ResultID)

	resp = s.doRequest(ctx, http.MethodGet, "/assessment/workout-plan/nobody-"+userID, nil, true)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.NoError(t, resp.Body.Close())
}

func (s *IntegrationTestSuite) TestAnalyzeInvalid() {
	t := s.T()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req := squatRequest("it-invalid", 1)
	req.Exercise = "YOGA"
	body, err := json.Marshal(req)
	require.NoError(t, err)

	resp := s.doRequest(ctx, http.MethodPost, "/assessment/analyze", bytes.NewReader(body), true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	resp = s.doRequest(ctx, http.MethodGet, "/assessment/result/not-a-uuid", nil, true)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.NoError(t, resp.Body.Close())
}

func (s *IntegrationTestSuite) TestMetricsEndpoint() {
	t := s.T()

	resp, err := http.Get(fmt.Sprintf("http://%s:%s/metrics", serverHost, metricsPort))
	require.NoError(t, err)
	defer func() {
		require.NoError(t, resp.Body.Close())
	}()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(respBytes), "formcheck_main_life_signal 1")
}
