// Package shape extracts silhouette geometry and Hu invariant moments
// from a grayscale cartridge-case raster.
package shape

import (
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"
)

// Geometry holds the shape descriptors of the dominant silhouette.
// A featureless raster yields the zero value, which is a valid result,
// not an error.
type Geometry struct {
	// HuMoments are the 7 invariants after log-magnitude compression:
	// -sign(h)·log10(|h|) for |h| > 1e-9, else 0. Sign is preserved as a
	// topological feature.
	HuMoments [7]float64 `json:"hu_moments"`

	// ContourArea is the enclosed area of the silhouette contour in px².
	ContourArea float64 `json:"contour_area"`

	// ContourLen is the silhouette perimeter in px.
	ContourLen float64 `json:"contour_len"`
}

// Params tunes silhouette extraction.
type Params struct {
	BlurKernel        int     // Gaussian denoise kernel (odd)
	AdaptiveBlock     int     // adaptive threshold neighborhood (odd)
	AdaptiveC         float64 // subtracted constant; negative demands pixels above local mean
	MinIntensityRange float64 // below this spread the raster is featureless
}

// DefaultParams returns the canonical extraction tuning.
func DefaultParams() Params {
	return Params{
		BlurKernel:        5,
		AdaptiveBlock:     51,
		AdaptiveC:         -5,
		MinIntensityRange: 2,
	}
}

// Extract finds the dominant silhouette and computes its descriptors.
//
// The raster is denoised with a small Gaussian kernel and binarized with a
// locally-adaptive threshold, which tolerates the uneven illumination of
// macro photographs. The external contour of maximum enclosed area is taken
// as the subject silhouette (ties go to the first contour found). Moments
// are computed over a mask restricted to that contour only, so background
// specks never leak into the invariants.
func Extract(gray gocv.Mat, p Params) Geometry {
	if gray.Empty() {
		return Geometry{}
	}

	// A raster with no intensity variation has no silhouette.
	minVal, maxVal, _, _ := gocv.MinMaxLoc(gray)
	if float64(maxVal-minVal) < p.MinIntensityRange {
		return Geometry{}
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: p.BlurKernel, Y: p.BlurKernel}, 0, 0, gocv.BorderDefault)

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.AdaptiveThreshold(blurred, &binary, 255,
		gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinary,
		p.AdaptiveBlock, float32(p.AdaptiveC))

	// Close small gaps so the silhouette rim forms one contour.
	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Point{X: 5, Y: 5})
	defer kernel.Close()
	gocv.MorphologyEx(binary, &binary, gocv.MorphClose, kernel)

	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()
	if contours.Size() == 0 {
		return Geometry{}
	}

	best := 0
	bestArea := gocv.ContourArea(contours.At(0))
	for i := 1; i < contours.Size(); i++ {
		if a := gocv.ContourArea(contours.At(i)); a > bestArea {
			best, bestArea = i, a
		}
	}
	if bestArea <= 0 {
		return Geometry{}
	}

	perimeter := gocv.ArcLength(contours.At(best), true)

	// Mask restricted to the chosen contour, filled.
	mask := gocv.NewMatWithSize(gray.Rows(), gray.Cols(), gocv.MatTypeCV8U)
	defer mask.Close()
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	gocv.DrawContours(&mask, contours, best, white, -1)

	moments := gocv.Moments(mask, true)
	hu := huInvariants(moments)

	var out Geometry
	for i, h := range hu {
		out.HuMoments[i] = compressLog(h)
	}
	out.ContourArea = bestArea
	out.ContourLen = perimeter
	return out
}

// huInvariants derives the 7 Hu moments from normalized central moments.
func huInvariants(m map[string]float64) [7]float64 {
	nu20, nu02, nu11 := m["nu20"], m["nu02"], m["nu11"]
	nu30, nu03 := m["nu30"], m["nu03"]
	nu21, nu12 := m["nu21"], m["nu12"]

	s1 := nu30 + nu12
	s2 := nu21 + nu03
	d1 := nu30 - 3*nu12
	d2 := 3*nu21 - nu03

	var h [7]float64
	h[0] = nu20 + nu02
	h[1] = (nu20-nu02)*(nu20-nu02) + 4*nu11*nu11
	h[2] = d1*d1 + d2*d2
	h[3] = s1*s1 + s2*s2
	h[4] = d1*s1*(s1*s1-3*s2*s2) + d2*s2*(3*s1*s1-s2*s2)
	h[5] = (nu20-nu02)*(s1*s1-s2*s2) + 4*nu11*s1*s2
	h[6] = d2*s1*(s1*s1-3*s2*s2) - d1*s2*(3*s1*s1-s2*s2)
	return h
}

// compressLog maps a raw invariant to -sign(h)·log10(|h|), which keeps the
// sign while collapsing the enormous dynamic range of the higher moments.
func compressLog(h float64) float64 {
	if math.Abs(h) <= 1e-9 {
		return 0
	}
	sign := 1.0
	if h < 0 {
		sign = -1.0
	}
	return -sign * math.Log10(math.Abs(h))
}
