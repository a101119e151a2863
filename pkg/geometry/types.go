// Package geometry provides basic geometric types used throughout the application.
package geometry

import (
	"math"
)

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint2D creates a new Point2D.
func NewPoint2D(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Scale returns the point scaled by a factor.
func (p Point2D) Scale(factor float64) Point2D {
	return Point2D{X: p.X * factor, Y: p.Y * factor}
}

// Segment represents a line segment between two points.
type Segment struct {
	P1 Point2D `json:"p1"`
	P2 Point2D `json:"p2"`
}

// Length returns the segment length.
func (s Segment) Length() float64 {
	return s.P1.Distance(s.P2)
}

// AngleDegrees returns the segment orientation folded into [0, 180).
// Direction along the segment is irrelevant for orientation, so a
// segment and its reverse report the same angle.
func (s Segment) AngleDegrees() float64 {
	deg := math.Atan2(s.P2.Y-s.P1.Y, s.P2.X-s.P1.X) * 180.0 / math.Pi
	for deg < 0 {
		deg += 180
	}
	for deg >= 180 {
		deg -= 180
	}
	return deg
}

// Scale returns the segment with both endpoints scaled by a factor.
func (s Segment) Scale(factor float64) Segment {
	return Segment{P1: s.P1.Scale(factor), P2: s.P2.Scale(factor)}
}
