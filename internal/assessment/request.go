package assessment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/formcheck/internal/analysis"
	"github.com/2beens/formcheck/internal/exercise"
	"github.com/2beens/formcheck/internal/pose"

	log "github.com/sirupsen/logrus"
)

var ErrInvalidRequest = errors.New("invalid analyze request")

// Keypoint is one detected joint position in pixels.
type Keypoint struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// FrameInput is the pose detector output of a single frame. Joints are keyed by
// name, e.g. "left_knee". Unknown names are ignored.
type FrameInput struct {
	Keypoints   map[string]Keypoint `json:"keypoints" yaml:"keypoints"`
	TimestampMs *int64              `json:"timestamp_ms,omitempty" yaml:"timestamp_ms,omitempty"`
}

// CalibrationInput tells how to convert pixels into centimeters. A reference
// object wins over the person height; without either, the profile height is used.
type CalibrationInput struct {
	PersonHeightCm float64 `json:"person_height_cm,omitempty" yaml:"person_height_cm,omitempty"`
	ReferencePx    float64 `json:"reference_px,omitempty" yaml:"reference_px,omitempty"`
	ReferenceCm    float64 `json:"reference_cm,omitempty" yaml:"reference_cm,omitempty"`
}

type AnalyzeRequest struct {
	UserID      string               `json:"user_id" yaml:"user_id"`
	Exercise    string               `json:"exercise_type" yaml:"exercise_type"`
	Profile     analysis.UserProfile `json:"profile" yaml:"profile"`
	FPS         float64              `json:"fps,omitempty" yaml:"fps,omitempty"`
	Width       float64              `json:"width" yaml:"width"`
	Height      float64              `json:"height" yaml:"height"`
	Frames      []FrameInput         `json:"frames" yaml:"frames"`
	Calibration *CalibrationInput    `json:"calibration,omitempty" yaml:"calibration,omitempty"`
}

// Validate checks the request and returns the parsed exercise type.
func (r *AnalyzeRequest) Validate() (exercise.Type, error) {
	if strings.TrimSpace(r.UserID) == "" {
		return "", fmt.Errorf("%w: user id empty", ErrInvalidRequest)
	}
	et, err := exercise.ParseType(r.Exercise)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if r.Width <= 0 || r.Height <= 0 {
		return "", fmt.Errorf("%w: frame size must be positive, got %.0fx%.0f", ErrInvalidRequest, r.Width, r.Height)
	}
	if len(r.Frames) == 0 {
		return "", fmt.Errorf("%w: no frames", ErrInvalidRequest)
	}
	if r.FPS < 0 {
		return "", fmt.Errorf("%w: negative fps", ErrInvalidRequest)
	}
	return et, nil
}

// PoseFrames converts at most maxFrames input frames. Frames without a timestamp
// get one derived from their index and the frame rate.
func (r *AnalyzeRequest) PoseFrames(defaultFPS float64, maxFrames int) []pose.Frame {
	fps := r.FPS
	if fps <= 0 {
		fps = defaultFPS
	}

	in := r.Frames
	if maxFrames > 0 && len(in) > maxFrames {
		log.Warnf("analyze request for user [%s]: %d frames, only the first %d are used", r.UserID, len(in), maxFrames)
		in = in[:maxFrames]
	}

	frames := make([]pose.Frame, 0, len(in))
	for i, f := range in {
		var ts time.Duration
		if f.TimestampMs != nil {
			ts = time.Duration(*f.TimestampMs) * time.Millisecond
		} else if fps > 0 {
			ts = time.Duration(float64(i) / fps * float64(time.Second))
		}

		lm := make(pose.Landmarks, len(f.Keypoints))
		for name, kp := range f.Keypoints {
			joint, err := pose.ParseJoint(name)
			if err != nil {
				continue
			}
			lm[joint] = pose.Point{X: kp.X, Y: kp.Y}
		}

		frames = append(frames, pose.Frame{
			Landmarks: lm,
			Width:     r.Width,
			Height:    r.Height,
			Timestamp: ts,
		})
	}

	return frames
}

// EffectiveFPS is the request frame rate, or the default when not set.
func (r *AnalyzeRequest) EffectiveFPS(defaultFPS float64) float64 {
	if r.FPS > 0 {
		return r.FPS
	}
	return defaultFPS
}
