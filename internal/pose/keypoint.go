package pose

import (
	"fmt"
	"time"
)

// Joint is one of the named body joints delivered by the keypoint detector.
type Joint string

const (
	Nose          Joint = "nose"
	LeftShoulder  Joint = "left_shoulder"
	RightShoulder Joint = "right_shoulder"
	LeftElbow     Joint = "left_elbow"
	RightElbow    Joint = "right_elbow"
	LeftWrist     Joint = "left_wrist"
	RightWrist    Joint = "right_wrist"
	LeftHip       Joint = "left_hip"
	RightHip      Joint = "right_hip"
	LeftKnee      Joint = "left_knee"
	RightKnee     Joint = "right_knee"
	LeftAnkle     Joint = "left_ankle"
	RightAnkle    Joint = "right_ankle"
)

// AllJoints lists every joint in detector order.
var AllJoints = []Joint{
	Nose,
	LeftShoulder, RightShoulder,
	LeftElbow, RightElbow,
	LeftWrist, RightWrist,
	LeftHip, RightHip,
	LeftKnee, RightKnee,
	LeftAnkle, RightAnkle,
}

func (j Joint) String() string {
	return string(j)
}

func (j Joint) IsValid() bool {
	for _, known := range AllJoints {
		if j == known {
			return true
		}
	}
	return false
}

// ParseJoint returns the joint for the given detector name.
func ParseJoint(name string) (Joint, error) {
	j := Joint(name)
	if !j.IsValid() {
		return "", fmt.Errorf("unknown joint: %s", name)
	}
	return j, nil
}

// Point is an image-space coordinate in pixels. The zero point means "not detected".
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func (p Point) Detected() bool {
	return p.X != 0 || p.Y != 0
}

// Landmarks holds the detected joints of a single person for one frame.
// A missing key and a zero point both mean the joint was not detected.
type Landmarks map[Joint]Point

// Get returns the joint position and whether it was detected.
func (l Landmarks) Get(j Joint) (Point, bool) {
	p, ok := l[j]
	if !ok || !p.Detected() {
		return Point{}, false
	}
	return p, true
}

// DetectedCount returns how many of the known joints are present.
func (l Landmarks) DetectedCount() int {
	count := 0
	for _, j := range AllJoints {
		if _, ok := l.Get(j); ok {
			count++
		}
	}
	return count
}

func (l Landmarks) Clone() Landmarks {
	c := make(Landmarks, len(l))
	for j, p := range l {
		c[j] = p
	}
	return c
}

// Frame is the detector output for a single video frame.
type Frame struct {
	Landmarks Landmarks
	Width     float64
	Height    float64
	// Timestamp is the offset from the start of the video.
	Timestamp time.Duration
}
