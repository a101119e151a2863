package firingpin

import (
	"image"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"casemark/pkg/geometry"
)

// Detect runs the circular parametric search on a grayscale raster.
//
// The raster is downscaled to Params.MaxDimPx if larger (search cost grows
// with the accumulator size, and pin impressions survive shrinking), then
// Gaussian-blurred and fed to a Hough gradient circle search. Each detected
// circle's mean disk intensity is sampled on the working raster, and the
// geometry is rescaled back to the input frame.
//
// Detector faults are non-fatal: any internal failure is absorbed and the
// all-zero Result is returned instead.
func Detect(gray gocv.Mat, p Params, logger *zap.Logger) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("firing-pin detector fault absorbed", zap.Any("cause", r))
			result = Result{}
		}
	}()

	if gray.Empty() {
		return Result{}
	}

	working, scale := downscale(gray, p.MaxDimPx)
	if scale != 1.0 {
		defer working.Close()
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(working, &blurred,
		image.Point{X: p.BlurKernel, Y: p.BlurKernel},
		p.BlurSigma, p.BlurSigma, gocv.BorderDefault)

	minDist := p.MinCenterSep
	if minDist <= 0 {
		minDist = float64(blurred.Rows()) / 8
	}

	circles := gocv.NewMat()
	defer circles.Close()
	gocv.HoughCirclesWithParams(blurred, &circles, gocv.HoughGradient,
		p.DP, minDist, p.Param1, p.Param2, p.MinRadiusPx, p.MaxRadiusPx)

	if circles.Empty() || circles.Cols() == 0 {
		return Result{}
	}

	marks := make([]Mark, 0, circles.Cols())
	for i := 0; i < circles.Cols(); i++ {
		cx := float64(circles.GetFloatAt(0, i*3))
		cy := float64(circles.GetFloatAt(0, i*3+1))
		r := float64(circles.GetFloatAt(0, i*3+2))
		if r <= 0 {
			continue
		}

		intensity := meanDiskIntensity(working, cx, cy, r)

		// Map back to the input frame before reporting.
		marks = append(marks, Mark{
			Center:        geometry.Point2D{X: cx, Y: cy}.Scale(1 / scale),
			Radius:        r / scale,
			MeanIntensity: intensity,
		})
	}

	logger.Debug("firing-pin search complete",
		zap.Int("marks", len(marks)),
		zap.Float64("working_scale", scale))

	return Result{Marks: marks}
}

// downscale returns a working raster no larger than maxDim on either axis
// and the scale factor applied (1.0 when the input is returned as-is; the
// caller must only Close the Mat when scale != 1).
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

// meanDiskIntensity averages pixel values over the disk at (cx, cy).
func meanDiskIntensity(gray gocv.Mat, cx, cy, radius float64) float64 {
	rows, cols := gray.Rows(), gray.Cols()
	icx, icy := int(cx+0.5), int(cy+0.5)
	r := int(radius + 0.5)
	if r < 1 {
		r = 1
	}

	var sum float64
	var count int
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > r*r {
				continue
			}
			px, py := icx+dx, icy+dy
			if px < 0 || px >= cols || py < 0 || py >= rows {
				continue
			}
			sum += float64(gray.GetUCharAt(py, px))
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
