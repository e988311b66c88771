package pose

import "math"

// Angle returns the angle at vertex b between the rays b->a and b->c, in degrees [0, 180].
// A zero length ray yields 0.
func Angle(a, b, c Point) float64 {
	bax, bay := a.X-b.X, a.Y-b.Y
	bcx, bcy := c.X-b.X, c.Y-b.Y

	normBA := math.Hypot(bax, bay)
	normBC := math.Hypot(bcx, bcy)
	if normBA == 0 || normBC == 0 {
		return 0
	}

	cos := (bax*bcx + bay*bcy) / (normBA * normBC)
	cos = math.Max(-1, math.Min(1, cos))

	return math.Acos(cos) * 180 / math.Pi
}

// Alignment scores how straight the chain a->b->c is: (cos(ab, bc) + 1) / 2.
// 1 means b lies on the segment a->c, 0.5 a right angle and 0 a full reversal.
// Degenerate segments score 0.
func Alignment(a, b, c Point) float64 {
	abx, aby := b.X-a.X, b.Y-a.Y
	bcx, bcy := c.X-b.X, c.Y-b.Y

	magAB := math.Hypot(abx, aby)
	magBC := math.Hypot(bcx, bcy)
	if magAB == 0 || magBC == 0 {
		return 0
	}

	cos := (abx*bcx + aby*bcy) / (magAB * magBC)
	cos = math.Max(-1, math.Min(1, cos))

	return (cos + 1) / 2
}

func Midpoint(a, b Point) Point {
	return Point{
		X: (a.X + b.X) / 2,
		Y: (a.Y + b.Y) / 2,
	}
}

func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// TiltFromHorizontal returns the angle in degrees [0, 90] between the segment a->b and the horizontal.
func TiltFromHorizontal(a, b Point) float64 {
	dx := math.Abs(b.X - a.X)
	dy := math.Abs(b.Y - a.Y)
	if dx == 0 && dy == 0 {
		return 0
	}
	return math.Atan2(dy, dx) * 180 / math.Pi
}
