// Package texture computes a local binary pattern uniformity score for
// cartridge-case surface texture.
package texture

import (
	"image"

	"gocv.io/x/gocv"
)

// Mode selects the cost/accuracy strategy. Both produce the same output
// contract: a uniformity score in [0, 1].
type Mode string

const (
	// ModeFull evaluates the neighborhood at every interior pixel.
	ModeFull Mode = "full"
	// ModeFast samples every Nth pixel instead; a cheap approximation
	// for large rasters.
	ModeFast Mode = "fast"
)

// Params tunes the texture descriptor.
type Params struct {
	Mode       Mode
	FastStride int // sampling stride for ModeFast
	MaxDimPx   int // optional working-raster cap; 0 disables
}

// DefaultParams returns the full-resolution tuning.
func DefaultParams() Params {
	return Params{
		Mode:       ModeFull,
		FastStride: 2,
		MaxDimPx:   2048,
	}
}

// Uniformity computes the normalized second moment of the LBP histogram:
// Σ(histᵢ²) / (Σ histᵢ)². The pattern is the rotation-sensitive 8-neighbor
// radius-1 code: each neighbor at or above the center contributes one bit.
// A perfectly flat raster collapses into a single code and scores 1; an
// unstructured raster spreads over many codes and scores near 1/256.
func Uniformity(gray gocv.Mat, p Params) float64 {
	if gray.Empty() || gray.Rows() < 3 || gray.Cols() < 3 {
		return 0
	}

	working, scaled := capSize(gray, p.MaxDimPx)
	if scaled {
		defer working.Close()
	}

	stride := 1
	if p.Mode == ModeFast {
		stride = p.FastStride
		if stride < 1 {
			stride = 1
		}
	}

	// Clockwise from the top-left neighbor.
	offsets := [8][2]int{
		{-1, -1}, {0, -1}, {1, -1}, {1, 0},
		{1, 1}, {0, 1}, {-1, 1}, {-1, 0},
	}

	var hist [256]uint64
	var total uint64
	rows, cols := working.Rows(), working.Cols()

	for y := 1; y < rows-1; y += stride {
		for x := 1; x < cols-1; x += stride {
			center := working.GetUCharAt(y, x)
			var code uint8
			for bit, off := range offsets {
				if working.GetUCharAt(y+off[1], x+off[0]) >= center {
					code |= 1 << uint(bit)
				}
			}
			hist[code]++
			total++
		}
	}
	if total == 0 {
		return 0
	}

	var sumSq float64
	for _, c := range hist {
		f := float64(c)
		sumSq += f * f
	}
	return sumSq / (float64(total) * float64(total))
}

// capSize bounds the working raster; the bool reports whether the caller
// must Close the returned Mat.
func capSize(gray gocv.Mat, maxDim int) (gocv.Mat, bool) {
	w, h := gray.Cols(), gray.Rows()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return gray, false
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
	return resized, true
}
