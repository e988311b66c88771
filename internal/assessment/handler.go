package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/formcheck/internal/exercise"
	"github.com/2beens/formcheck/internal/middleware"
	"github.com/2beens/formcheck/internal/telemetry/metrics"
	"github.com/2beens/formcheck/internal/telemetry/tracing"
	"github.com/2beens/formcheck/pkg"

	"github.com/coocood/freecache"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const (
	maxAnalyzeBodyBytes = 64 << 20
	megabyte            = 1024 * 1024
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=assessment_test

type assessmentService interface {
	Analyze(ctx context.Context, req *AnalyzeRequest) (*Result, error)
	Get(ctx context.Context, id string) (*Result, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]Result, error)
	UserStats(ctx context.Context, userID string) (*UserStats, error)
	WorkoutPlan(ctx context.Context, userID, resultID string) (*WorkoutPlan, error)
	ReferenceMetrics(exerciseName string) (exercise.ReferenceMetrics, error)
	Exercises() []ExerciseInfo
}

type Handler struct {
	service        assessmentService
	cache          *freecache.Cache
	cacheTTL       time.Duration
	metricsManager *metrics.Manager
}

// NewHandler builds the HTTP handler. Results are cached in process for cacheTTL.
func NewHandler(
	service assessmentService,
	cacheSizeMB int,
	cacheTTL time.Duration,
	metricsManager *metrics.Manager,
) *Handler {
	if metricsManager == nil {
		metricsManager = metrics.NewTestManager()
	}
	return &Handler{
		service:        service,
		cache:          freecache.NewCache(cacheSizeMB * megabyte),
		cacheTTL:       cacheTTL,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	analyzeAllowedPerMin int,
) {
	var analyze http.Handler = http.HandlerFunc(handler.HandleAnalyze)
	if rateLimiter != nil && analyzeAllowedPerMin > 0 {
		analyze = middleware.RateLimit(rateLimiter, handler.metricsManager, "analyze", analyzeAllowedPerMin)(analyze)
	}
	mainRouter.Handle("/assessment/analyze", analyze).Methods("POST", "OPTIONS").Name("analyze")

	mainRouter.HandleFunc("/assessment/results/{userId}", handler.HandleListResults).Methods("GET", "OPTIONS").Name("list-results")
	mainRouter.HandleFunc("/assessment/result/{id}", handler.HandleGetResult).Methods("GET", "OPTIONS").Name("get-result")
	mainRouter.HandleFunc("/assessment/stats/{userId}", handler.HandleUserStats).Methods("GET", "OPTIONS").Name("user-stats")
	mainRouter.HandleFunc("/assessment/workout-plan/{userId}", handler.HandleWorkoutPlan).Methods("GET", "OPTIONS").Name("workout-plan")
	mainRouter.HandleFunc("/assessment/exercises", handler.HandleExercises).Methods("GET", "OPTIONS").Name("exercises")
	mainRouter.HandleFunc("/assessment/reference/{exercise}", handler.HandleReferenceMetrics).Methods("GET", "OPTIONS").Name("reference-metrics")
	mainRouter.HandleFunc("/health", handler.HandleHealth).Methods("GET").Name("health")
}

func (handler *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.assessment.analyze")
	defer span.End()

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAnalyzeBodyBytes)).Decode(&req); err != nil {
		log.Errorf("analyze, unmarshal json request: %s", err)
		http.Error(w, "invalid analyze request", http.StatusBadRequest)
		return
	}

	result, err := handler.service.Analyze(ctx, &req)
	if err != nil {
		if errors.Is(err, ErrInvalidRequest) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("analyze %s for user [%s]: %s", req.Exercise, req.UserID, err)
		http.Error(w, "error, analysis failed", http.StatusInternalServerError)
		return
	}

	resultJson, err := json.Marshal(result)
	if err != nil {
		log.Errorf("failed to marshal assessment result: %s", err)
		http.Error(w, "error, analysis failed", http.StatusInternalServerError)
		return
	}
	handler.cacheResult(result.ID, resultJson)

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resultJson, http.StatusCreated)
}

func (handler *Handler) HandleListResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.assessment.list")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	if userID == "" {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return
	}

	limit := DefaultListLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			http.Error(w, "invalid limit (has to be a positive number)", http.StatusBadRequest)
			return
		}
	}

	results, err := handler.service.ListByUser(ctx, userID, limit)
	if err != nil {
		log.Errorf("list results of user [%s]: %s", userID, err)
		http.Error(w, "failed to get results", http.StatusInternalServerError)
		return
	}
	if results == nil {
		results = []Result{}
	}

	resultsJson, err := json.Marshal(results)
	if err != nil {
		log.Errorf("failed to marshal results: %s", err)
		http.Error(w, "failed to marshal results", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resultsJson, http.StatusOK)
}

func (handler *Handler) HandleGetResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.assessment.get")
	defer span.End()

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	if cached, err := handler.cache.Get([]byte(resultCacheKey(id))); err == nil {
		log.Tracef("assessment result %s found in cache", id)
		handler.metricsManager.CounterResultCacheHits.Inc()
		pkg.WriteResponseBytes(w, pkg.ContentType.JSON, cached, http.StatusOK)
		return
	}

	result, err := handler.service.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrResultNotFound) {
			http.Error(w, "assessment result not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get assessment result %s: %s", id, err)
		http.Error(w, "failed to get assessment result", http.StatusInternalServerError)
		return
	}

	resultJson, err := json.Marshal(result)
	if err != nil {
		log.Errorf("failed to marshal assessment result: %s", err)
		http.Error(w, "failed to marshal assessment result", http.StatusInternalServerError)
		return
	}
	handler.cacheResult(id, resultJson)

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resultJson, http.StatusOK)
}

func (handler *Handler) HandleUserStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.assessment.stats")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	if userID == "" {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return
	}

	stats, err := handler.service.UserStats(ctx, userID)
	if err != nil {
		log.Errorf("user stats [%s]: %s", userID, err)
		http.Error(w, "failed to get user stats", http.StatusInternalServerError)
		return
	}

	statsJson, err := json.Marshal(stats)
	if err != nil {
		log.Errorf("failed to marshal user stats: %s", err)
		http.Error(w, "failed to marshal user stats", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, statsJson, http.StatusOK)
}

func (handler *Handler) HandleWorkoutPlan(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.assessment.workout_plan")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	if userID == "" {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return
	}

	plan, err := handler.service.WorkoutPlan(ctx, userID, r.URL.Query().Get("result_id"))
	if err != nil {
		if errors.Is(err, ErrNoResults) || errors.Is(err, ErrResultNotFound) {
			http.Error(w, "no assessment results found for user", http.StatusNotFound)
			return
		}
		log.Errorf("workout plan for user [%s]: %s", userID, err)
		http.Error(w, "failed to generate workout plan", http.StatusInternalServerError)
		return
	}

	planJson, err := json.Marshal(plan)
	if err != nil {
		log.Errorf("failed to marshal workout plan: %s", err)
		http.Error(w, "failed to marshal workout plan", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, planJson, http.StatusOK)
}

func (handler *Handler) HandleExercises(w http.ResponseWriter, _ *http.Request) {
	exercisesJson, err := json.Marshal(handler.service.Exercises())
	if err != nil {
		log.Errorf("failed to marshal exercises: %s", err)
		http.Error(w, "failed to marshal exercises", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, exercisesJson, http.StatusOK)
}

func (handler *Handler) HandleReferenceMetrics(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["exercise"]
	ref, err := handler.service.ReferenceMetrics(name)
	if err != nil {
		if errors.Is(err, exercise.ErrUnknownExerciseType) {
			http.Error(w, "unknown exercise type", http.StatusNotFound)
			return
		}
		log.Errorf("reference metrics of [%s]: %s", name, err)
		http.Error(w, "failed to get reference metrics", http.StatusInternalServerError)
		return
	}

	refJson, err := json.Marshal(ref)
	if err != nil {
		log.Errorf("failed to marshal reference metrics: %s", err)
		http.Error(w, "failed to marshal reference metrics", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, refJson, http.StatusOK)
}

func (handler *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "ok")
}

func resultCacheKey(id string) string {
	return "result::" + id
}

func (handler *Handler) cacheResult(id string, resultJson []byte) {
	err := handler.cache.Set([]byte(resultCacheKey(id)), resultJson, int(handler.cacheTTL.Seconds()))
	switch {
	case errors.Is(err, freecache.ErrLargeEntry):
		log.Debugf("assessment result %s too large to cache: %d bytes", id, len(resultJson))
	case err != nil:
		log.Errorf("failed to cache assessment result %s: %s", id, err)
	}
}
