package assessment

import (
	"github.com/2beens/formcheck/internal/analysis"
	"github.com/2beens/formcheck/internal/calibration"
	"github.com/2beens/formcheck/internal/exercise"
	"github.com/2beens/formcheck/internal/pose"

	log "github.com/sirupsen/logrus"
)

// scale resolves the pixels per cm ratio of the recording.
func scale(req *AnalyzeRequest, frames []pose.Frame) (calibration.Ratio, string, error) {
	c := req.Calibration
	if c != nil && c.ReferencePx > 0 && c.ReferenceCm > 0 {
		ratio, err := calibration.FromReference(c.ReferencePx, c.ReferenceCm)
		return ratio, CalibrationReference, err
	}

	heightCm := req.Profile.HeightCm
	if c != nil && c.PersonHeightCm > 0 {
		heightCm = c.PersonHeightCm
	}

	landmarks := make([]pose.Landmarks, 0, len(frames))
	for _, f := range frames {
		landmarks = append(landmarks, f.Landmarks)
	}
	ratio, err := calibration.FromPersonHeight(landmarks, heightCm)
	return ratio, CalibrationPersonHeight, err
}

// measure derives the physical measurements of jumps. Failures only leave the
// measurements empty, the report stays valid.
func measure(et exercise.Type, req *AnalyzeRequest, frames []pose.Frame, fps float64, report *analysis.Report) Measurements {
	if et != exercise.TypeVerticalJump && et != exercise.TypeStandingBroadJump {
		return Measurements{}
	}

	ratio, source, err := scale(req, frames)
	if err != nil {
		log.Debugf("measure %s for user [%s]: calibration: %s", et, req.UserID, err)
		return Measurements{}
	}

	m := Measurements{
		PixelsPerCm:       float64(ratio),
		CalibrationSource: source,
	}

	switch et {
	case exercise.TypeVerticalJump:
		jump, err := calibration.EstimateJump(calibration.SeriesFromFrames(frames, fps), ratio)
		if err != nil {
			log.Debugf("measure %s for user [%s]: %s", et, req.UserID, err)
			return m
		}
		m.Jump = &jump
		m.JumpHeightCm = jump.Best.HeightCm
	case exercise.TypeStandingBroadJump:
		m.BroadJumpDistanceCm = calibration.BroadJumpDistanceCm(report.Attempts.BestDistancePct, req.Width, ratio)
	}

	return m
}
