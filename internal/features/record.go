// Package features aggregates the per-stage analysis results into the
// immutable feature record returned to callers.
package features

// FiringPinSummary is the flat external view of the firing-pin stage.
type FiringPinSummary struct {
	NumCircularMarks int          `json:"num_circular_marks"`
	AvgMarkRadius    float64      `json:"avg_mark_radius"`
	MarkPositions    [][2]float64 `json:"mark_positions"`
	MarkIntensities  []float64    `json:"mark_intensities"`
}

// StriationSummary is the flat external view of the striation stage.
type StriationSummary struct {
	NumStriationLines  int       `json:"num_striation_lines"`
	DominantDirections []float64 `json:"dominant_directions"`
	AvgLineLength      float64   `json:"avg_line_length"`
	StriationDensity   float64   `json:"striation_density"`
	ParallelismScore   float64   `json:"parallelism_score"`
}

// Metadata carries caller-supplied context about the analyzed payload.
type Metadata struct {
	Filename    string `json:"filename,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	FileSize    int64  `json:"file_size,omitempty"`
}

// FeatureRecord is the fixed-shape numeric record produced once per
// invocation. It is never mutated after aggregation; zeroed sub-results
// are valid contents, produced when a detector degraded gracefully.
// Aggregate guarantees collection fields are never nil, so the record
// always serializes arrays, never null.
type FeatureRecord struct {
	HuMoments   [7]float64 `json:"hu_moments"`
	ContourArea float64    `json:"contour_area"`
	ContourLen  float64    `json:"contour_len"`

	LBPUniformity float64 `json:"lbp_uniformity"`

	FiringPinMarks    FiringPinSummary `json:"firing_pin_marks"`
	StriationPatterns StriationSummary `json:"striation_patterns"`

	Metadata
}

// ErrorResponse is the failure payload. It is never mixed with a success
// record: a request yields exactly one of the two.
type ErrorResponse struct {
	Error string `json:"error"`
}
