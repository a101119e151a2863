// Package striation detects parallel scratch patterns on cartridge-case
// surfaces: dominant gradient orientations plus discrete line segments.
package striation

import (
	"casemark/pkg/geometry"
)

// Profile summarizes the striation pattern of one raster. The zero value
// is the all-zero record returned when detection fails internally.
type Profile struct {
	// Segments are the discrete line segments found by the probabilistic
	// line search, in input-frame coordinates.
	Segments []geometry.Segment `json:"segments"`

	// DominantDirections are gradient-orientation histogram bin centers
	// whose count exceeds 30% of the maximum bin, in degrees within
	// [0, 180). Zero or more values.
	DominantDirections []float64 `json:"dominant_directions"`

	// MeanLength is the average segment length in input-frame pixels.
	MeanLength float64 `json:"mean_length"`

	// Density is segments per 10000 px² of input-frame area.
	Density float64 `json:"density"`

	// Parallelism is 1/(1+variance(angles)/100): near 1 when segment
	// angles cluster tightly, near 0 when they are dispersed.
	Parallelism float64 `json:"parallelism"`
}

// Count returns the number of detected segments.
func (p Profile) Count() int {
	return len(p.Segments)
}
