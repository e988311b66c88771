package calibration

import (
	"errors"
	"time"

	"github.com/2beens/formcheck/internal/pose"

	"gonum.org/v1/gonum/floats"
)

// Method is one of the offline jump height estimators.
type Method string

const (
	MethodHipOnly       Method = "hip_only"
	MethodCenterOfMass  Method = "center_mass"
	MethodMultiPoint    Method = "multi_point"
	MethodFootClearance Method = "foot_clearance"
)

const (
	minJumpSeriesSamples = 3
	// the feet are in the air once the ankles rise above 10% of the jump
	footClearanceThreshold = 0.1
)

var ErrSeriesTooShort = errors.New("not enough frames with hips, knees and ankles detected")

// Series holds the vertical image positions of the hip, knee and ankle midpoints.
// Image y grows downwards, so a jump shows up as a dip.
type Series struct {
	Hip   []float64
	Knee  []float64
	Ankle []float64
	FPS   float64
}

// SeriesFromFrames collects the frames where both hips, knees and ankles are detected.
func SeriesFromFrames(frames []pose.Frame, fps float64) Series {
	s := Series{FPS: fps}
	for _, f := range frames {
		lm := f.Landmarks
		lh, ok1 := lm.Get(pose.LeftHip)
		rh, ok2 := lm.Get(pose.RightHip)
		lk, ok3 := lm.Get(pose.LeftKnee)
		rk, ok4 := lm.Get(pose.RightKnee)
		la, ok5 := lm.Get(pose.LeftAnkle)
		ra, ok6 := lm.Get(pose.RightAnkle)
		if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 || !ok6 {
			continue
		}
		s.Hip = append(s.Hip, (lh.Y+rh.Y)/2)
		s.Knee = append(s.Knee, (lk.Y+rk.Y)/2)
		s.Ankle = append(s.Ankle, (la.Y+ra.Y)/2)
	}
	return s
}

func (s Series) Len() int {
	return len(s.Hip)
}

// JumpEstimate is the outcome of one estimator.
type JumpEstimate struct {
	Method     Method  `json:"method"`
	HeightPx   float64 `json:"height_px"`
	HeightCm   float64 `json:"height_cm,omitempty"`
	BaselineY  float64 `json:"baseline_y"`
	PeakY      float64 `json:"peak_y"`
	Confidence float64 `json:"confidence"`

	// set by the foot clearance estimator when both takeoff and landing were found
	FlightTime      time.Duration `json:"flight_time,omitempty"`
	PhysicsHeightCm float64       `json:"physics_height_cm,omitempty"`
	TakeoffFrame    int           `json:"takeoff_frame,omitempty"`
	LandingFrame    int           `json:"landing_frame,omitempty"`
}

// JumpAnalysis holds every estimate and the one with the highest confidence.
type JumpAnalysis struct {
	Estimates []JumpEstimate `json:"estimates"`
	Best      JumpEstimate   `json:"best"`
}

// EstimateJump runs all estimators over the series. Heights are converted to cm
// when the ratio is valid.
func EstimateJump(s Series, ratio Ratio) (JumpAnalysis, error) {
	if s.Len() < minJumpSeriesSamples || len(s.Knee) != s.Len() || len(s.Ankle) != s.Len() {
		return JumpAnalysis{}, ErrSeriesTooShort
	}

	estimates := []JumpEstimate{
		hipOnly(s),
		centerOfMass(s),
		multiPoint(s),
		footClearance(s),
	}

	best := 0
	for i := range estimates {
		estimates[i].HeightCm = ratio.ToCm(estimates[i].HeightPx)
		if estimates[i].Confidence > estimates[best].Confidence {
			best = i
		}
	}

	return JumpAnalysis{
		Estimates: estimates,
		Best:      estimates[best],
	}, nil
}

func dipEstimate(method Method, raw []float64) JumpEstimate {
	smoothed := Smooth(raw)
	baseline := StableBaseline(smoothed)
	peak := floats.Min(smoothed)
	return JumpEstimate{
		Method:     method,
		HeightPx:   baseline - peak,
		BaselineY:  baseline,
		PeakY:      peak,
		Confidence: Confidence(raw),
	}
}

func hipOnly(s Series) JumpEstimate {
	return dipEstimate(MethodHipOnly, s.Hip)
}

// centerOfMass weights the segments 60% hip, 25% knee, 15% ankle.
func centerOfMass(s Series) JumpEstimate {
	com := make([]float64, s.Len())
	for i := range com {
		com[i] = 0.60*s.Hip[i] + 0.25*s.Knee[i] + 0.15*s.Ankle[i]
	}
	return dipEstimate(MethodCenterOfMass, com)
}

// multiPoint averages the raw dips of hip (50%), knee (30%) and ankle (20%).
func multiPoint(s Series) JumpEstimate {
	dip := func(y []float64) float64 {
		return StableBaseline(y) - floats.Min(y)
	}

	height := 0.5*dip(s.Hip) + 0.3*dip(s.Knee) + 0.2*dip(s.Ankle)
	baseline := StableBaseline(s.Hip)

	return JumpEstimate{
		Method:     MethodMultiPoint,
		HeightPx:   height,
		BaselineY:  baseline,
		PeakY:      baseline - height,
		Confidence: (Confidence(s.Hip) + Confidence(s.Knee)) / 2,
	}
}

// footClearance measures the ankle dip and, when takeoff and landing are found,
// the height implied by the flight time.
func footClearance(s Series) JumpEstimate {
	est := dipEstimate(MethodFootClearance, s.Ankle)
	smoothed := Smooth(s.Ankle)

	threshold := est.BaselineY - (est.BaselineY-est.PeakY)*footClearanceThreshold

	takeoff, landing := -1, -1
	for i, y := range smoothed {
		if takeoff < 0 {
			if y < threshold {
				takeoff = i
			}
			continue
		}
		if y > threshold {
			landing = i
			break
		}
	}

	if takeoff >= 0 && landing >= 0 && s.FPS > 0 {
		flight := time.Duration(float64(landing-takeoff) / s.FPS * float64(time.Second))
		est.FlightTime = flight
		est.PhysicsHeightCm = FlightTimeHeight(flight)
		est.TakeoffFrame = takeoff
		est.LandingFrame = landing
	}

	return est
}

// BroadJumpDistanceCm converts a jump distance in % of the frame width into cm.
func BroadJumpDistanceCm(distancePct, frameWidth float64, ratio Ratio) float64 {
	return ratio.ToCm(distancePct / 100 * frameWidth)
}
