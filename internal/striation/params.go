package striation

// Params holds the striation search tuning.
type Params struct {
	// MaxDimPx caps the working raster; larger rasters are downscaled
	// for search cost only.
	MaxDimPx int

	// MedianKernel is the denoise kernel size (odd).
	MedianKernel int

	// HistBins is the number of orientation histogram bins over [0, π).
	HistBins int

	// MagThreshold drops near-flat pixels from the orientation histogram;
	// their gradient direction is noise.
	MagThreshold float64

	// DominanceRatio is the fraction of the maximum bin a bin must exceed
	// to count as a dominant direction.
	DominanceRatio float64

	// CannyLow and CannyHigh are the dual edge-detection thresholds.
	CannyLow  float64
	CannyHigh float64

	// Probabilistic line search tuning.
	HoughThreshold int     // accumulator votes required
	MinLineLength  float64 // pixels, on the working raster
	MaxLineGap     float64 // pixels, on the working raster
}

// DefaultParams returns the canonical striation tuning. As with the
// firing-pin search, several historical parameter sets existed with no
// documented rationale; this is the one canonical set.
func DefaultParams() Params {
	return Params{
		MaxDimPx:       1500,
		MedianKernel:   5,
		HistBins:       36,
		MagThreshold:   30,
		DominanceRatio: 0.3,
		CannyLow:       50,
		CannyHigh:      150,
		HoughThreshold: 50,
		MinLineLength:  30,
		MaxLineGap:     10,
	}
}
