// Package firingpin locates circular firing-pin impressions on the primer
// of a fired cartridge case.
package firingpin

import (
	"casemark/pkg/geometry"
)

// Mark is one detected circular impression. Coordinates and radius are in
// the coordinate frame of the raster handed to Detect, regardless of any
// internal downscaling.
type Mark struct {
	Center geometry.Point2D `json:"center"`
	Radius float64          `json:"radius"`

	// MeanIntensity is the average pixel value over the mark's disk,
	// sampled on the working raster.
	MeanIntensity float64 `json:"mean_intensity"`
}

// Result holds the unordered collection of detected marks. The zero value
// is the all-zero record returned when detection fails internally.
type Result struct {
	Marks []Mark `json:"marks"`
}

// Count returns the number of detected marks.
func (r Result) Count() int {
	return len(r.Marks)
}

// AvgRadius returns the mean radius over all marks, 0 when none.
func (r Result) AvgRadius() float64 {
	if len(r.Marks) == 0 {
		return 0
	}
	var sum float64
	for _, m := range r.Marks {
		sum += m.Radius
	}
	return sum / float64(len(r.Marks))
}
