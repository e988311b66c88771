// Package calibration turns pixel measurements into physical units.
package calibration

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/2beens/formcheck/internal/pose"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

const (
	DefaultPersonHeightCm = 170.0
	// only the first frames are sampled, the athlete is expected to stand still there
	personHeightFrames = 30
	gravity            = 9.81
)

var (
	ErrNoCalibrationSamples = errors.New("no frames with nose and ankles detected")
	ErrInvalidReference     = errors.New("reference length must be positive")
)

// Ratio is the image scale in pixels per centimeter.
type Ratio float64

func (r Ratio) Valid() bool {
	return r > 0 && !math.IsInf(float64(r), 0) && !math.IsNaN(float64(r))
}

// ToCm converts a pixel length to centimeters. An invalid ratio yields 0.
func (r Ratio) ToCm(px float64) float64 {
	if !r.Valid() {
		return 0
	}
	return px / float64(r)
}

// FromPersonHeight estimates the scale from the known height of the athlete, using
// the median nose to ankle midpoint distance over the first frames.
// A non positive height falls back to DefaultPersonHeightCm.
func FromPersonHeight(frames []pose.Landmarks, heightCm float64) (Ratio, error) {
	if heightCm <= 0 {
		heightCm = DefaultPersonHeightCm
	}

	var distances []float64
	for i, lm := range frames {
		if i >= personHeightFrames {
			break
		}
		nose, okNose := lm.Get(pose.Nose)
		left, okLeft := lm.Get(pose.LeftAnkle)
		right, okRight := lm.Get(pose.RightAnkle)
		if !okNose || !okLeft || !okRight {
			continue
		}
		footY := (left.Y + right.Y) / 2
		distances = append(distances, math.Abs(footY-nose.Y))
	}

	if len(distances) == 0 {
		return 0, ErrNoCalibrationSamples
	}

	sort.Float64s(distances)
	bodyPx := median(distances)
	if bodyPx <= 0 {
		return 0, fmt.Errorf("%w: zero body height in pixels", ErrNoCalibrationSamples)
	}

	ratio := Ratio(bodyPx / heightCm)
	log.Debugf("calibration: %d samples, body %.1f px, %.3f px/cm", len(distances), bodyPx, ratio)
	return ratio, nil
}

// FromReference derives the scale from an object of known size in the frame.
func FromReference(px, cm float64) (Ratio, error) {
	if px <= 0 || cm <= 0 {
		return 0, ErrInvalidReference
	}
	return Ratio(px / cm), nil
}

// FlightTimeHeight returns the jump height in cm implied by the time spent in the air,
// h = g * t^2 / 8.
func FlightTimeHeight(flight time.Duration) float64 {
	t := flight.Seconds()
	return gravity * t * t / 8 * 100
}

// median expects sorted input
func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return stat.Mean(sorted[n/2-1:n/2+1], nil)
}
