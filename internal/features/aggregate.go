package features

import (
	"casemark/internal/firingpin"
	"casemark/internal/shape"
	"casemark/internal/striation"
)

// Aggregate merges the four stage results and caller metadata into one
// record. It is a pure function and never fails: zeroed stage results are
// legitimate inputs and produce a legitimate, usable record.
func Aggregate(geom shape.Geometry, pins firingpin.Result, strias striation.Profile, uniformity float64, meta Metadata) FeatureRecord {
	positions := make([][2]float64, 0, len(pins.Marks))
	intensities := make([]float64, 0, len(pins.Marks))
	for _, m := range pins.Marks {
		positions = append(positions, [2]float64{m.Center.X, m.Center.Y})
		intensities = append(intensities, m.MeanIntensity)
	}

	directions := strias.DominantDirections
	if directions == nil {
		directions = []float64{}
	}

	return FeatureRecord{
		HuMoments:     geom.HuMoments,
		ContourArea:   geom.ContourArea,
		ContourLen:    geom.ContourLen,
		LBPUniformity: uniformity,
		FiringPinMarks: FiringPinSummary{
			NumCircularMarks: pins.Count(),
			AvgMarkRadius:    pins.AvgRadius(),
			MarkPositions:    positions,
			MarkIntensities:  intensities,
		},
		StriationPatterns: StriationSummary{
			NumStriationLines:  strias.Count(),
			DominantDirections: directions,
			AvgLineLength:      strias.MeanLength,
			StriationDensity:   strias.Density,
			ParallelismScore:   strias.Parallelism,
		},
		Metadata: meta,
	}
}
