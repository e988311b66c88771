package assessment

import (
	"errors"
	"time"

	"github.com/2beens/formcheck/internal/analysis"
	"github.com/2beens/formcheck/internal/calibration"
	"github.com/2beens/formcheck/internal/exercise"
)

var (
	ErrResultNotFound  = errors.New("assessment result not found")
	ErrResultExists    = errors.New("assessment result already exists")
	ErrNoResults       = errors.New("no assessment results found for user")
	ErrScoreOutOfRange = errors.New("assessment score out of range")
)

const (
	CalibrationPersonHeight = "person_height"
	CalibrationReference    = "reference"
)

// Measurements are the physical units derived from the pixel analysis.
type Measurements struct {
	PixelsPerCm         float64                   `json:"pixels_per_cm,omitempty"`
	CalibrationSource   string                    `json:"calibration_source,omitempty"`
	Jump                *calibration.JumpAnalysis `json:"jump,omitempty"`
	JumpHeightCm        float64                   `json:"jump_height_cm,omitempty"`
	BroadJumpDistanceCm float64                   `json:"broad_jump_distance_cm,omitempty"`
}

// Result is a persisted assessment.
type Result struct {
	ID           string           `json:"id"`
	UserID       string           `json:"user_id"`
	Exercise     exercise.Type    `json:"exercise_type"`
	Score        float64          `json:"score"`
	Grade        string           `json:"grade"`
	Report       *analysis.Report `json:"report"`
	Measurements Measurements     `json:"measurements"`
	CreatedAt    time.Time        `json:"created_at"`
}

// ScoreSummary is the aggregate over all results of one user.
type ScoreSummary struct {
	Total  int
	Avg    float64
	Max    float64
	Min    float64
	Latest *time.Time
}
