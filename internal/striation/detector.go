package striation

import (
	"image"
	"math"

	"go.uber.org/zap"
	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/stat"

	"casemark/pkg/geometry"
)

// Detect extracts the striation profile of a grayscale raster.
//
// Two independent measurements run over a median-filtered working copy.
// First, Sobel gradients vote into a fixed-bin orientation histogram
// (directions folded into [0, π)); bins above 30% of the maximum bin are
// reported as dominant directions. Second, a Canny edge map feeds a
// probabilistic line search whose segments yield count, mean length,
// density per 10000 px², and the parallelism score.
//
// Detector faults are non-fatal: any internal failure is absorbed and the
// all-zero Profile returned instead.
func Detect(gray gocv.Mat, p Params, logger *zap.Logger) (profile Profile) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("striation detector fault absorbed", zap.Any("cause", r))
			profile = Profile{}
		}
	}()

	if gray.Empty() {
		return Profile{}
	}

	working, scale := downscale(gray, p.MaxDimPx)
	if scale != 1.0 {
		defer working.Close()
	}

	denoised := gocv.NewMat()
	defer denoised.Close()
	gocv.MedianBlur(working, &denoised, p.MedianKernel)

	dirs := dominantDirections(denoised, p)
	segments := lineSegments(denoised, p, scale)

	// Density against the input-frame area keeps the figure comparable
	// across rasters that were downscaled by different factors.
	area := float64(gray.Cols()) * float64(gray.Rows())
	var density float64
	if area > 0 {
		density = float64(len(segments)) / area * 10000
	}

	profile = Profile{
		Segments:           segments,
		DominantDirections: dirs,
		MeanLength:         meanLength(segments),
		Density:            density,
		Parallelism:        parallelismScore(segments),
	}

	logger.Debug("striation search complete",
		zap.Int("segments", len(segments)),
		zap.Int("dominant_directions", len(dirs)),
		zap.Float64("parallelism", profile.Parallelism))

	return profile
}

// dominantDirections builds the gradient orientation histogram and returns
// the bin centers (degrees) whose count clears the dominance ratio.
func dominantDirections(gray gocv.Mat, p Params) []float64 {
	gx := gocv.NewMat()
	defer gx.Close()
	gy := gocv.NewMat()
	defer gy.Close()
	gocv.Sobel(gray, &gx, gocv.MatTypeCV32F, 1, 0, 3, 1, 0, gocv.BorderDefault)
	gocv.Sobel(gray, &gy, gocv.MatTypeCV32F, 0, 1, 3, 1, 0, gocv.BorderDefault)

	bins := make([]int, p.HistBins)
	rows, cols := gray.Rows(), gray.Cols()
	binWidth := math.Pi / float64(p.HistBins)

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			dx := float64(gx.GetFloatAt(y, x))
			dy := float64(gy.GetFloatAt(y, x))
			if math.Hypot(dx, dy) < p.MagThreshold {
				continue
			}
			// Fold direction into [0, π); opposite gradients are the
			// same striation orientation.
			theta := math.Atan2(dy, dx)
			if theta < 0 {
				theta += math.Pi
			}
			if theta >= math.Pi {
				theta -= math.Pi
			}
			idx := int(theta / binWidth)
			if idx >= p.HistBins {
				idx = p.HistBins - 1
			}
			bins[idx]++
		}
	}

	maxCount := 0
	for _, c := range bins {
		if c > maxCount {
			maxCount = c
		}
	}
	if maxCount == 0 {
		return nil
	}

	var dirs []float64
	cutoff := float64(maxCount) * p.DominanceRatio
	for i, c := range bins {
		if float64(c) > cutoff {
			center := (float64(i) + 0.5) * binWidth * 180 / math.Pi
			dirs = append(dirs, center)
		}
	}
	return dirs
}

// lineSegments edge-detects and runs the probabilistic line search,
// rescaling segments back to the input frame.
func lineSegments(gray gocv.Mat, p Params, scale float64) []geometry.Segment {
	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, float32(p.CannyLow), float32(p.CannyHigh))

	lines := gocv.NewMat()
	defer lines.Close()
	gocv.HoughLinesPWithParams(edges, &lines,
		1, math.Pi/180, p.HoughThreshold,
		float32(p.MinLineLength), float32(p.MaxLineGap))

	if lines.Empty() || lines.Rows() == 0 {
		return nil
	}

	segments := make([]geometry.Segment, 0, lines.Rows())
	for i := 0; i < lines.Rows(); i++ {
		v := lines.GetVeciAt(i, 0)
		if len(v) < 4 {
			continue
		}
		seg := geometry.Segment{
			P1: geometry.Point2D{X: float64(v[0]), Y: float64(v[1])},
			P2: geometry.Point2D{X: float64(v[2]), Y: float64(v[3])},
		}
		segments = append(segments, seg.Scale(1/scale))
	}
	return segments
}

func meanLength(segments []geometry.Segment) float64 {
	if len(segments) == 0 {
		return 0
	}
	var sum float64
	for _, s := range segments {
		sum += s.Length()
	}
	return sum / float64(len(segments))
}

// parallelismScore maps segment angle variance to (0, 1]: tightly
// clustered angles approach 1, dispersed angles approach 0.
func parallelismScore(segments []geometry.Segment) float64 {
	if len(segments) == 0 {
		return 0
	}
	if len(segments) == 1 {
		return 1
	}
	angles := make([]float64, len(segments))
	for i, s := range segments {
		angles[i] = s.AngleDegrees()
	}
	// Orientations are axial: 179 degrees and 1 degree are nearly the
	// same line. Re-center against the first angle so a cluster straddling
	// the fold does not inflate the variance.
	for i, a := range angles {
		switch d := a - angles[0]; {
		case d > 90:
			angles[i] = a - 180
		case d < -90:
			angles[i] = a + 180
		}
	}
	variance := stat.Variance(angles, nil)
	return 1 / (1 + variance/100)
}

// downscale mirrors the firing-pin stage's working-copy logic; each stage
// keeps its own threshold because their cost curves differ.
func downscale(gray gocv.Mat, maxDim int) (gocv.Mat, float64) {
	w, h := gray.Cols(), gray.Rows()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return gray, 1.0
	}
	axis := w
	if h > axis {
		axis = h
	}
	scale := float64(maxDim) / float64(axis)
	nw := int(float64(w)*scale + 0.5)
	nh := int(float64(h)*scale + 0.5)
	resized := gocv.NewMat()
	gocv.Resize(gray, &resized, image.Point{X: nw, Y: nh}, 0, 0, gocv.InterpolationArea)
	return resized, scale
}
