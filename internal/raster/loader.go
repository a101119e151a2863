// Package raster decodes and normalizes cartridge-case images into the
// single-channel rasters consumed by the analysis stages.
package raster

import (
	"bytes"
	"image"
	"os"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"

	// Container-format fallbacks for the Go decode path.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	// MaxPayloadBytes is the pre-decode size ceiling. Payloads above it are
	// rejected before any codec sees them.
	MaxPayloadBytes = 20 * 1024 * 1024

	// MaxAxisPixels bounds each raster axis after normalization. Larger
	// inputs are area-average downsampled to fit.
	MaxAxisPixels = 10000
)

// Grayscale is a normalized single-channel raster. It is owned by one
// pipeline invocation: the creator must Close it when the stages finish.
type Grayscale struct {
	Mat    gocv.Mat
	Width  int
	Height int

	// Scale is the normalization factor applied to the source image
	// (1.0 when no downsampling happened). Geometry reported against the
	// normalized raster maps back to source coordinates by dividing by it.
	Scale float64
}

// Close releases the underlying pixel buffer.
func (g *Grayscale) Close() {
	if g != nil && !g.Mat.Empty() {
		g.Mat.Close()
	}
}

// Decode turns raw image bytes into a normalized grayscale raster.
//
// Codecs are tried in a fixed priority order: the OpenCV generic raster
// decoder first, then the Go image registry (PNG/JPEG/GIF plus the
// TIFF/BMP/WebP container fallbacks). Sensor-raw container formats such
// as DNG ride the TIFF fallback. If nothing parses the bytes, Decode
// fails with *DecodeError.
func Decode(data []byte) (*Grayscale, error) {
	if int64(len(data)) > MaxPayloadBytes {
		return nil, &PayloadTooLargeError{Size: int64(len(data)), Limit: MaxPayloadBytes}
	}
	if len(data) == 0 {
		return nil, &DecodeError{Reason: "empty payload"}
	}

	mat, err := gocv.IMDecode(data, gocv.IMReadGrayScale)
	if err == nil && !mat.Empty() {
		return normalizeMat(mat)
	}
	if err == nil {
		mat.Close()
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Reason: err.Error()}
	}
	return fromImage(img)
}

// Open reads and decodes an image file. The payload ceiling applies to the
// file size before any bytes are read.
func Open(path string) (*Grayscale, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > MaxPayloadBytes {
		return nil, &PayloadTooLargeError{Size: info.Size(), Limit: MaxPayloadBytes}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// FromImage normalizes an already-decoded Go image. Exposed for callers
// that synthesize rasters directly, such as tests.
func FromImage(img image.Image) (*Grayscale, error) {
	return fromImage(img)
}

func fromImage(img image.Image) (*Grayscale, error) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w <= 0 || h <= 0 {
		return nil, &DimensionError{Width: w, Height: h}
	}

	scale := 1.0
	if w > MaxAxisPixels || h > MaxAxisPixels {
		scale = fitScale(w, h, MaxAxisPixels)
		nw, nh := scaled(w, scale), scaled(h, scale)
		// Box filter: area-average, the right resampler for pure shrink.
		img = imaging.Resize(img, nw, nh, imaging.Box)
		w, h = nw, nh
	}
	if w > MaxAxisPixels || h > MaxAxisPixels {
		return nil, &DimensionError{Width: w, Height: h}
	}

	gray := imaging.Grayscale(img)
	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8U)
	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride:]
		for x := 0; x < w; x++ {
			// NRGBA with R==G==B after Grayscale; take the red channel.
			mat.SetUCharAt(y, x, row[x*4])
		}
	}

	return &Grayscale{Mat: mat, Width: w, Height: h, Scale: scale}, nil
}

// normalizeMat applies the axis bound to a Mat decoded by OpenCV.
func normalizeMat(mat gocv.Mat) (*Grayscale, error) {
	w, h := mat.Cols(), mat.Rows()
	if w <= 0 || h <= 0 {
		mat.Close()
		return nil, &DimensionError{Width: w, Height: h}
	}

	scale := 1.0
	if w > MaxAxisPixels || h > MaxAxisPixels {
		scale = fitScale(w, h, MaxAxisPixels)
		nw, nh := scaled(w, scale), scaled(h, scale)
		resized := gocv.NewMat()
		gocv.Resize(mat, &resized, image.Point{X: nw, Y: nh}, 0, 0, gocv.InterpolationArea)
		mat.Close()
		mat = resized
		w, h = nw, nh
	}
	if w > MaxAxisPixels || h > MaxAxisPixels {
		mat.Close()
		return nil, &DimensionError{Width: w, Height: h}
	}

	return &Grayscale{Mat: mat, Width: w, Height: h, Scale: scale}, nil
}

// fitScale returns the factor that brings the larger axis down to limit.
func fitScale(w, h, limit int) float64 {
	axis := w
	if h > axis {
		axis = h
	}
	return float64(limit) / float64(axis)
}

func scaled(v int, factor float64) int {
	n := int(float64(v)*factor + 0.5)
	if n < 1 {
		n = 1
	}
	return n
}
