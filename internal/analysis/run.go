package analysis

import (
	"math"
	"time"

	"github.com/2beens/formcheck/internal/exercise"
	"github.com/2beens/formcheck/internal/pose"
)

type hipSample struct {
	ts time.Duration
	x  float64
}

// runTracker estimates the horizontal hip velocity over a sliding window and
// keeps the running extremes of the hip position.
type runTracker struct {
	ref exercise.ReferenceMetrics

	window   []hipSample
	velocity float64
	// direction of the last fast movement: -1, 0 or 1
	direction int

	seenHip bool
	minPct  float64
	maxPct  float64
	posPct  float64

	// stillSince is when the hips last dropped below the stationary speed
	stillSince time.Duration
	still      bool
}

func newRunTracker(ref exercise.ReferenceMetrics) runTracker {
	if ref.VelocityWindow < 2 {
		ref.VelocityWindow = 2
	}
	return runTracker{ref: ref}
}

// observe adds the frame to the window and returns the velocity in frame widths per second.
func (t *runTracker) observe(in *frameInput) float64 {
	x := in.hipMid().X

	t.window = append(t.window, hipSample{ts: in.timestamp, x: x})
	if len(t.window) > t.ref.VelocityWindow {
		t.window = t.window[1:]
	}

	t.velocity = 0
	first, last := t.window[0], t.window[len(t.window)-1]
	if dt := (last.ts - first.ts).Seconds(); dt > 0 && in.width > 0 {
		t.velocity = (last.x - first.x) / in.width / dt
	}

	if in.width > 0 && in.has(pose.LeftHip, pose.RightHip) {
		t.posPct = x / in.width * 100
		if !t.seenHip {
			t.minPct, t.maxPct = t.posPct, t.posPct
			t.seenHip = true
		}
		t.minPct = math.Min(t.minPct, t.posPct)
		t.maxPct = math.Max(t.maxPct, t.posPct)
	}

	if math.Abs(t.velocity) < t.ref.StationarySpeed {
		if !t.still {
			t.still = true
			t.stillSince = in.timestamp
		}
	} else {
		t.still = false
	}

	return t.velocity
}

func (t *runTracker) fast() bool {
	return math.Abs(t.velocity) > t.ref.RunSpeed
}

// stillFor reports whether the hips have been stationary for at least secs seconds.
func (t *runTracker) stillFor(now time.Duration, secs float64) bool {
	return t.still && (now-t.stillSince).Seconds() >= secs
}

// flipped updates the movement direction and reports a reversal.
// Only fast movement counts.
func (t *runTracker) flipped() bool {
	if !t.fast() {
		return false
	}
	dir := 1
	if t.velocity < 0 {
		dir = -1
	}
	prev := t.direction
	t.direction = dir
	return prev != 0 && prev != dir
}

func (t *runTracker) courseWidthPct() float64 {
	return t.maxPct - t.minPct
}

// leanFromVertical is the torso lean in degrees, 0 when upright.
func leanFromVertical(in *frameInput) float64 {
	return 90 - pose.TiltFromHorizontal(in.hipMid(), in.shoulderMid())
}

func (t *runTracker) metrics(ev *evaluation, in *frameInput) {
	ev.metrics.Velocity = ptr(t.velocity)
	ev.metrics.HipPositionPct = ptr(t.posPct)
	ev.metrics.CourseWidthPct = ptr(t.courseWidthPct())
	ev.metrics.TorsoAngle = ptr(leanFromVertical(in))
	ev.metrics.KneeSymmetry = ptr(in.kneeSymmetry())
}

// runForm applies the rules shared by both runs while moving.
func (t *runTracker) runForm(ev *evaluation, in *frameInput, phase Phase) {
	if phase != PhaseRunning && phase != PhaseTurning {
		return
	}
	if leanFromVertical(in) > t.ref.MaxLeanAngle {
		ev.fail(BodyAlignment, "Stay more upright while running.")
	}
	if phase == PhaseRunning && in.kneeSymmetry() > t.ref.SymmetryLandingMax {
		ev.fail("", "Keep your stride balanced.")
	}
}

// shuttleRunStrategy counts a run as complete when the athlete stops for a
// while after at least one turn.
type shuttleRunStrategy struct {
	tracker runTracker

	runStart         time.Duration
	directionChanges int
	totalChanges     int
	runTimes         []float64
}

func newShuttleRunStrategy(ref exercise.ReferenceMetrics) *shuttleRunStrategy {
	return &shuttleRunStrategy{
		tracker: newRunTracker(ref),
	}
}

func (s *shuttleRunStrategy) initialPhase() Phase {
	return PhaseAtStart
}

func (s *shuttleRunStrategy) classify(in *frameInput) transition {
	t := &s.tracker
	t.observe(in)

	switch in.phase {
	case PhaseAtStart:
		if t.fast() {
			t.flipped()
			s.runStart = in.timestamp
			s.directionChanges = 0
			return transition{phase: PhaseRunning}
		}
	case PhaseRunning:
		if t.flipped() {
			s.directionChanges++
			s.totalChanges++
		}
		if math.Abs(t.velocity) < t.ref.StationarySpeed {
			return transition{phase: PhaseTurning}
		}
	case PhaseTurning:
		if t.fast() {
			if t.flipped() {
				s.directionChanges++
				s.totalChanges++
			}
			return transition{phase: PhaseRunning}
		}
		if s.directionChanges > 0 && t.stillFor(in.timestamp, t.ref.CompletionStillSecs) {
			s.runTimes = append(s.runTimes, (t.stillSince - s.runStart).Seconds())
			return transition{phase: PhaseCompleted, completed: true}
		}
	case PhaseCompleted:
		t.direction = 0
		return transition{phase: PhaseAtStart}
	}

	return transition{phase: in.phase}
}

func (s *shuttleRunStrategy) evaluate(in *frameInput, tr transition) evaluation {
	ev := newEvaluation(exercise.TypeShuttleRun, tr.phase)
	s.tracker.runForm(&ev, in, tr.phase)
	s.tracker.metrics(&ev, in)

	ev.metrics.DirectionChanges = ptr(float64(s.directionChanges))
	switch {
	case tr.completed:
		ev.metrics.RunTime = ptr(s.runTimes[len(s.runTimes)-1])
	case tr.phase == PhaseRunning || tr.phase == PhaseTurning:
		ev.metrics.RunTime = ptr((in.timestamp - s.runStart).Seconds())
	}

	return ev
}

func (s *shuttleRunStrategy) encouragement(tr transition) string {
	switch tr.phase {
	case PhaseRunning:
		return "Good pace! Keep pushing!"
	case PhaseTurning:
		return "Quick turn! Drive out of it!"
	case PhaseCompleted:
		return "Run complete! Great effort!"
	case PhaseAtStart:
		return "Ready... go!"
	}
	return ""
}

func (s *shuttleRunStrategy) positiveLine(p Phase) string {
	if p == PhaseAtStart {
		return "Get set at the start line."
	}
	return "Good running form!"
}

func (s *shuttleRunStrategy) details() AttemptDetails {
	return AttemptDetails{
		RunTimesSeconds:  cloneFloats(s.runTimes),
		DirectionChanges: s.totalChanges,
		CourseWidthPct:   s.tracker.courseWidthPct(),
	}
}

// enduranceRunStrategy counts laps as direction reversals while running.
type enduranceRunStrategy struct {
	tracker runTracker

	runStart time.Duration
	started  bool
	laps     int
}

func newEnduranceRunStrategy(ref exercise.ReferenceMetrics) *enduranceRunStrategy {
	return &enduranceRunStrategy{
		tracker: newRunTracker(ref),
	}
}

func (s *enduranceRunStrategy) initialPhase() Phase {
	return PhaseAtStart
}

func (s *enduranceRunStrategy) classify(in *frameInput) transition {
	t := &s.tracker
	t.observe(in)

	switch in.phase {
	case PhaseAtStart, PhaseResting:
		if t.fast() {
			if !s.started {
				s.started = true
				s.runStart = in.timestamp
			}
			lap := t.flipped()
			if lap {
				s.laps++
			}
			return transition{phase: PhaseRunning, completed: lap}
		}
	case PhaseRunning:
		if t.flipped() {
			s.laps++
			return transition{phase: PhaseRunning, completed: true}
		}
		if t.stillFor(in.timestamp, t.ref.CompletionStillSecs) {
			return transition{phase: PhaseResting}
		}
	}

	return transition{phase: in.phase}
}

func (s *enduranceRunStrategy) evaluate(in *frameInput, tr transition) evaluation {
	ev := newEvaluation(exercise.TypeEnduranceRun, tr.phase)
	s.tracker.runForm(&ev, in, tr.phase)
	s.tracker.metrics(&ev, in)

	ev.metrics.DirectionChanges = ptr(float64(s.laps))
	if s.started {
		ev.metrics.RunTime = ptr((in.timestamp - s.runStart).Seconds())
	}

	if tr.completed {
		ev.note("Lap complete! Nice work!")
	}

	return ev
}

func (s *enduranceRunStrategy) encouragement(tr transition) string {
	switch tr.phase {
	case PhaseRunning:
		return "Good pace! Keep it steady!"
	case PhaseResting:
		return "Keep moving! Don't stop now."
	}
	return ""
}

func (s *enduranceRunStrategy) positiveLine(p Phase) string {
	if p == PhaseAtStart {
		return "Ready... go!"
	}
	return "Nice steady rhythm!"
}

func (s *enduranceRunStrategy) details() AttemptDetails {
	d := AttemptDetails{
		DirectionChanges: s.laps,
		CourseWidthPct:   s.tracker.courseWidthPct(),
	}
	if s.started {
		d.RunTimesSeconds = []float64{(s.tracker.window[len(s.tracker.window)-1].ts - s.runStart).Seconds()}
	}
	return d
}
