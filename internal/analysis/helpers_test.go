package analysis_test

import (
	"math"
	"testing"
	"time"

	"github.com/2beens/formcheck/internal/analysis"
	"github.com/2beens/formcheck/internal/exercise"
	"github.com/2beens/formcheck/internal/pose"

	"github.com/stretchr/testify/require"
)

const (
	testWidth  = 1000
	testHeight = 1000
	testFPS    = 10
)

func frameTS(i int) time.Duration {
	return time.Duration(i) * time.Second / testFPS
}

func rad(deg float64) float64 {
	return deg * math.Pi / 180
}

// fakeClock advances by one millisecond on every call.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.now = c.now.Add(time.Millisecond)
	return c.now
}

func newTestSession(t *testing.T, et exercise.Type, summarizer analysis.Summarizer) *analysis.Session {
	t.Helper()

	table, err := exercise.DefaultTable()
	require.NoError(t, err)

	clock := &fakeClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	s := analysis.NewSession(analysis.SessionParams{
		Table:      table,
		Summarizer: summarizer,
		Now:        clock.Now,
	})
	require.NoError(t, s.SelectExercise(et, &analysis.UserProfile{
		Name:     "Test Athlete",
		Age:      30,
		HeightCm: 180,
		WeightKg: 75,
	}))

	return s
}

func feed(t *testing.T, s *analysis.Session, frames []pose.Frame) []analysis.FrameResult {
	t.Helper()

	results := make([]analysis.FrameResult, 0, len(frames))
	for _, f := range frames {
		res, err := s.ProcessFrame(f)
		require.NoError(t, err)
		results = append(results, res)
	}
	return results
}

// collapse removes consecutive duplicates.
func collapse(phases []analysis.Phase) []analysis.Phase {
	var out []analysis.Phase
	for _, p := range phases {
		if len(out) == 0 || out[len(out)-1] != p {
			out = append(out, p)
		}
	}
	return out
}

// mirrored copies the left side joints to the right side, shifted by dx.
func mirrored(lm pose.Landmarks, dx float64) pose.Landmarks {
	pairs := map[pose.Joint]pose.Joint{
		pose.LeftShoulder: pose.RightShoulder,
		pose.LeftElbow:    pose.RightElbow,
		pose.LeftWrist:    pose.RightWrist,
		pose.LeftHip:      pose.RightHip,
		pose.LeftKnee:     pose.RightKnee,
		pose.LeftAnkle:    pose.RightAnkle,
	}
	for left, right := range pairs {
		if p, ok := lm[left]; ok {
			lm[right] = pose.Point{X: p.X + dx, Y: p.Y}
		}
	}
	return lm
}

// squatFrame builds a side view where both the knee angle and the torso angle equal kneeAngle.
func squatFrame(i int, kneeAngle float64) pose.Frame {
	knee := pose.Point{X: 500, Y: 600}
	ankle := pose.Point{X: 500, Y: 800}
	hip := pose.Point{
		X: knee.X + 200*math.Sin(rad(kneeAngle)),
		Y: knee.Y + 200*math.Cos(rad(kneeAngle)),
	}
	shoulder := pose.Point{X: hip.X, Y: hip.Y - 250}

	return pose.Frame{
		Landmarks: mirrored(pose.Landmarks{
			pose.Nose:         {X: shoulder.X, Y: shoulder.Y - 60},
			pose.LeftShoulder: shoulder,
			pose.LeftHip:      hip,
			pose.LeftKnee:     knee,
			pose.LeftAnkle:    ankle,
			pose.LeftElbow:    {X: shoulder.X, Y: shoulder.Y + 120},
			pose.LeftWrist:    {X: shoulder.X, Y: shoulder.Y + 220},
		}, 0),
		Width:     testWidth,
		Height:    testHeight,
		Timestamp: frameTS(i),
	}
}

// squatCycleAngles oscillates 170 -> 95 -> 170 over 20 frames per cycle.
func squatCycleAngles(cycles int) []float64 {
	var angles []float64
	for c := 0; c < cycles; c++ {
		for i := 0; i <= 10; i++ {
			angles = append(angles, 170-7.5*float64(i))
		}
		for i := 11; i < 20; i++ {
			angles = append(angles, 95+7.5*float64(i-10))
		}
	}
	return angles
}

// pushupFrame builds a straight plank line with the given elbow angle.
func pushupFrame(i int, elbowAngle float64) pose.Frame {
	elbow := pose.Point{X: 400, Y: 500}
	wrist := pose.Point{X: 400, Y: 600}
	shoulder := pose.Point{
		X: elbow.X + 100*math.Sin(rad(elbowAngle)),
		Y: elbow.Y + 100*math.Cos(rad(elbowAngle)),
	}

	return pose.Frame{
		Landmarks: mirrored(pose.Landmarks{
			pose.Nose:         {X: shoulder.X - 50, Y: shoulder.Y},
			pose.LeftShoulder: shoulder,
			pose.LeftElbow:    elbow,
			pose.LeftWrist:    wrist,
			pose.LeftHip:      {X: shoulder.X + 250, Y: shoulder.Y},
			pose.LeftKnee:     {X: shoulder.X + 400, Y: shoulder.Y},
			pose.LeftAnkle:    {X: shoulder.X + 550, Y: shoulder.Y},
		}, 0),
		Width:     testWidth,
		Height:    testHeight,
		Timestamp: frameTS(i),
	}
}

// situpFrame tilts the torso by tilt degrees from the floor, with knees bent.
func situpFrame(i int, tilt float64) pose.Frame {
	hip := pose.Point{X: 500, Y: 700}
	shoulder := pose.Point{
		X: hip.X - 250*math.Cos(rad(tilt)),
		Y: hip.Y - 250*math.Sin(rad(tilt)),
	}

	return pose.Frame{
		Landmarks: mirrored(pose.Landmarks{
			pose.Nose:         {X: shoulder.X - 40, Y: shoulder.Y - 20},
			pose.LeftShoulder: shoulder,
			pose.LeftHip:      hip,
			pose.LeftKnee:     {X: 650, Y: 600},
			pose.LeftAnkle:    {X: 800, Y: 700},
		}, 0),
		Width:     testWidth,
		Height:    testHeight,
		Timestamp: frameTS(i),
	}
}

// standingFrame is an upright athlete with straight legs, hips centered at (hipX, hipY)
// and ankles on the ground line y=800.
func standingFrame(i int, hipX, hipY float64) pose.Frame {
	lm := pose.Landmarks{
		pose.Nose:         {X: hipX, Y: hipY - 260},
		pose.LeftShoulder: {X: hipX - 20, Y: hipY - 200},
		pose.LeftElbow:    {X: hipX - 25, Y: hipY - 100},
		pose.LeftWrist:    {X: hipX - 25, Y: hipY - 10},
		pose.LeftHip:      {X: hipX - 20, Y: hipY},
		pose.LeftKnee:     {X: hipX - 20, Y: (hipY + 800) / 2},
		pose.LeftAnkle:    {X: hipX - 20, Y: 800},
	}
	return pose.Frame{
		Landmarks: mirrored(lm, 40),
		Width:     testWidth,
		Height:    testHeight,
		Timestamp: frameTS(i),
	}
}

// plankFrame holds a straight body (180 degrees) on bent elbows (90 degrees).
func plankFrame(i int, bodyAngle float64) pose.Frame {
	shoulder := pose.Point{X: 300, Y: 500}
	hip := pose.Point{X: 500, Y: 500}
	// rotate the hip -> ankle segment to get the requested body angle at the hip
	ankle := pose.Point{
		X: hip.X + 300*math.Cos(rad(180-bodyAngle)),
		Y: hip.Y + 300*math.Sin(rad(180-bodyAngle)),
	}

	return pose.Frame{
		Landmarks: mirrored(pose.Landmarks{
			pose.Nose:         {X: 250, Y: 480},
			pose.LeftShoulder: shoulder,
			pose.LeftElbow:    {X: 300, Y: 600},
			pose.LeftWrist:    {X: 400, Y: 600},
			pose.LeftHip:      hip,
			pose.LeftKnee:     {X: (hip.X + ankle.X) / 2, Y: (hip.Y + ankle.Y) / 2},
			pose.LeftAnkle:    ankle,
		}, 0),
		Width:     testWidth,
		Height:    testHeight,
		Timestamp: frameTS(i),
	}
}
