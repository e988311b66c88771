package assessment

import (
	"math"
	"time"

	"github.com/2beens/formcheck/internal/analysis"
)

const (
	TrendNoData    = "No data available"
	TrendStable    = "stable"
	TrendImproving = "improving"
	TrendDeclining = "declining"

	recentScoresCount = 5
	minTrendScores    = 3
)

const (
	LevelAdvanced     = "Advanced"
	LevelIntermediate = "Intermediate"
	LevelBeginner     = "Beginner"
)

type UserStats struct {
	TotalTests    int        `json:"total_tests"`
	AvgScore      float64    `json:"avg_score"`
	MaxScore      float64    `json:"max_score"`
	MinScore      float64    `json:"min_score"`
	LatestTest    *time.Time `json:"latest_test"`
	ProgressTrend string     `json:"progress_trend"`
	// newest first
	RecentScores []float64 `json:"recent_scores,omitempty"`
}

// NewUserStats combines the score aggregate with the most recent scores, newest first.
func NewUserStats(summary ScoreSummary, recent []float64) UserStats {
	if summary.Total == 0 {
		return UserStats{ProgressTrend: TrendNoData}
	}
	return UserStats{
		TotalTests:    summary.Total,
		AvgScore:      math.Round(summary.Avg*100) / 100,
		MaxScore:      summary.Max,
		MinScore:      summary.Min,
		LatestTest:    summary.Latest,
		ProgressTrend: Trend(recent),
		RecentScores:  recent,
	}
}

// Trend compares the newest and the oldest of the recent scores.
func Trend(newestFirst []float64) string {
	if len(newestFirst) < minTrendScores {
		return TrendStable
	}
	newest, oldest := newestFirst[0], newestFirst[len(newestFirst)-1]
	switch {
	case newest > oldest:
		return TrendImproving
	case newest < oldest:
		return TrendDeclining
	default:
		return TrendStable
	}
}

type WorkoutPlan struct {
	User            string   `json:"user"`
	FitnessLevel    string   `json:"fitness_level"`
	Level           string   `json:"level"`
	Recommendations []string `json:"recommendations"`
	ResultID        string   `json:"based_on_result"`
	Score           float64  `json:"score"`
}

var planRecommendations = map[string][]string{
	LevelAdvanced: {
		"Increase repetitions by 20%",
		"Add weighted variations",
		"Focus on explosive movements",
		"Incorporate plyometric exercises",
	},
	LevelIntermediate: {
		"Maintain current volume",
		"Focus on form perfection",
		"Add 2-3 more reps per set",
		"Include mobility work",
	},
	LevelBeginner: {
		"Start with assisted variations",
		"Focus on partial range of motion",
		"Practice 3x per week",
		"Work on foundational strength",
	},
}

func PlanLevel(score float64) string {
	switch {
	case score >= 80:
		return LevelAdvanced
	case score >= 60:
		return LevelIntermediate
	default:
		return LevelBeginner
	}
}

// NewWorkoutPlan builds the training plan for the result.
func NewWorkoutPlan(result *Result) WorkoutPlan {
	var profile analysis.ProfileSnapshot
	if result.Report != nil {
		profile = result.Report.UserProfile
	}

	level := PlanLevel(result.Score)
	return WorkoutPlan{
		User:            profile.Name,
		FitnessLevel:    profile.FitnessLevel,
		Level:           level,
		Recommendations: append([]string(nil), planRecommendations[level]...),
		ResultID:        result.ID,
		Score:           result.Score,
	}
}
