package pose

// Tracker carries forward the last known position of every joint so that
// frames with occluded or undetected joints still produce a full skeleton.
type Tracker struct {
	last Landmarks
}

func NewTracker() *Tracker {
	return &Tracker{
		last: make(Landmarks),
	}
}

// FillResult is the output of Tracker.Fill.
type FillResult struct {
	Landmarks Landmarks
	// Carried counts joints taken from a previous frame.
	Carried int
	// Missing counts joints never seen so far.
	Missing int
}

// Degraded reports whether the frame was not fully detected.
func (r FillResult) Degraded() bool {
	return r.Carried > 0 || r.Missing > 0
}

// Confidence is the share of joints detected in the frame itself.
func (r FillResult) Confidence() float64 {
	detected := len(AllJoints) - r.Carried - r.Missing
	return float64(detected) / float64(len(AllJoints))
}

// Fill returns a copy of lm where every undetected joint is replaced by its last known position.
func (t *Tracker) Fill(lm Landmarks) FillResult {
	res := FillResult{
		Landmarks: make(Landmarks, len(AllJoints)),
	}

	for _, j := range AllJoints {
		if p, ok := lm.Get(j); ok {
			res.Landmarks[j] = p
			t.last[j] = p
			continue
		}

		if prev, ok := t.last[j]; ok {
			res.Landmarks[j] = prev
			res.Carried++
			continue
		}

		res.Missing++
	}

	return res
}
