// Package pipeline exposes the single analysis operation: image bytes or
// a file path in, one immutable feature record out.
package pipeline

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"casemark/internal/features"
	"casemark/internal/firingpin"
	"casemark/internal/raster"
	"casemark/internal/shape"
	"casemark/internal/striation"
	"casemark/internal/texture"
)

// Options bundles the per-stage tunings for one pipeline instance.
type Options struct {
	Shape     shape.Params
	FiringPin firingpin.Params
	Striation striation.Params
	Texture   texture.Params
}

// DefaultOptions returns the canonical tuning for every stage.
func DefaultOptions() Options {
	return Options{
		Shape:     shape.DefaultParams(),
		FiringPin: firingpin.DefaultParams(),
		Striation: striation.DefaultParams(),
		Texture:   texture.DefaultParams(),
	}
}

// Pipeline runs the feature-extraction stages. It holds no mutable state
// across invocations; any number of Analyze calls may run concurrently.
type Pipeline struct {
	opts   Options
	logger *zap.Logger
}

// New creates a pipeline with the given stage tunings and logger.
func New(opts Options, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{opts: opts, logger: logger}
}

// AnalyzeBytes decodes a raw image payload and extracts its features.
// Hard failures (payload ceiling, undecodable bytes, impossible
// dimensions) return an error and no record; per-stage faults degrade to
// zeroed sub-results inside a valid record.
func (p *Pipeline) AnalyzeBytes(data []byte, meta features.Metadata) (*features.FeatureRecord, error) {
	if meta.FileSize == 0 {
		meta.FileSize = int64(len(data))
	}
	gray, err := raster.Decode(data)
	if err != nil {
		return nil, err
	}
	defer gray.Close()
	return p.analyze(gray, meta), nil
}

// AnalyzeFile loads an image from disk and extracts its features.
func (p *Pipeline) AnalyzeFile(path string) (*features.FeatureRecord, error) {
	gray, err := raster.Open(path)
	if err != nil {
		return nil, err
	}
	defer gray.Close()

	meta := features.Metadata{Filename: filepath.Base(path)}
	if fi, err := os.Stat(path); err == nil {
		meta.FileSize = fi.Size()
	}
	return p.analyze(gray, meta), nil
}

// analyze fans the four stages out over the shared grayscale raster and
// joins at the aggregator. The stages only read the raster, so they run
// in parallel without coordination.
func (p *Pipeline) analyze(gray *raster.Grayscale, meta features.Metadata) *features.FeatureRecord {
	start := time.Now()

	var (
		geom       shape.Geometry
		pins       firingpin.Result
		strias     striation.Profile
		uniformity float64
	)

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		geom = shape.Extract(gray.Mat, p.opts.Shape)
	}()
	go func() {
		defer wg.Done()
		pins = firingpin.Detect(gray.Mat, p.opts.FiringPin, p.logger)
	}()
	go func() {
		defer wg.Done()
		strias = striation.Detect(gray.Mat, p.opts.Striation, p.logger)
	}()
	go func() {
		defer wg.Done()
		uniformity = texture.Uniformity(gray.Mat, p.opts.Texture)
	}()
	wg.Wait()

	backmap(gray.Scale, &geom, &pins, &strias)

	record := features.Aggregate(geom, pins, strias, uniformity, meta)

	p.logger.Debug("analysis complete",
		zap.Int("width", gray.Width),
		zap.Int("height", gray.Height),
		zap.Float64("normalize_scale", gray.Scale),
		zap.Int("firing_pin_marks", record.FiringPinMarks.NumCircularMarks),
		zap.Int("striation_lines", record.StriationPatterns.NumStriationLines),
		zap.Duration("duration", time.Since(start)))

	return &record
}

// backmap converts stage geometry from the normalized raster frame to
// source-image coordinates using the scale factor the loader recorded.
// Hu moments are scale-invariant and density is an areal count, so only
// lengths, areas, and positions change.
func backmap(scale float64, geom *shape.Geometry, pins *firingpin.Result, strias *striation.Profile) {
	if scale == 1.0 || scale <= 0 {
		return
	}
	inv := 1 / scale

	geom.ContourArea *= inv * inv
	geom.ContourLen *= inv

	for i := range pins.Marks {
		pins.Marks[i].Center = pins.Marks[i].Center.Scale(inv)
		pins.Marks[i].Radius *= inv
	}

	for i := range strias.Segments {
		strias.Segments[i] = strias.Segments[i].Scale(inv)
	}
	strias.MeanLength *= inv
	strias.Density *= scale * scale
}
