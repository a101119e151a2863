package firingpin

// Params holds the circular search tuning.
type Params struct {
	// MaxDimPx caps the working raster. Larger rasters are downscaled
	// before the search, purely for cost; detected geometry is rescaled
	// back before return.
	MaxDimPx int

	// BlurKernel and BlurSigma shape the Gaussian applied before the
	// Hough search.
	BlurKernel int
	BlurSigma  float64

	// DP is the inverse accumulator resolution ratio (1.0-2.0).
	DP float64

	// MinCenterSep is the minimum distance between circle centers in
	// pixels. Zero means derive it from the raster height.
	MinCenterSep float64

	// Param1 is the Canny high threshold; Param2 the accumulator
	// threshold. Lower Param2 finds more (and weaker) circles.
	Param1 float64
	Param2 float64

	// Radius bounds in pixels on the working raster, matching expected
	// firing-pin mark sizes.
	MinRadiusPx int
	MaxRadiusPx int
}

// DefaultParams returns the canonical search tuning. Legacy variants of
// this detector shipped several undocumented parameter sets; this one is
// the single tuning the module standardizes on.
func DefaultParams() Params {
	return Params{
		MaxDimPx:     1600,
		BlurKernel:   9,
		BlurSigma:    2,
		DP:           1.2,
		MinCenterSep: 0, // derived: rows/8
		Param1:       100,
		Param2:       40,
		MinRadiusPx:  8,
		MaxRadiusPx:  150,
	}
}
