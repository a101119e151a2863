// Package classify interprets an extracted feature record into weapon-type
// and caliber candidates. It is heuristic single-image interpretation, not
// cross-image matching.
package classify

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"casemark/internal/features"
)

// Classification is the interpretation of one feature record.
type Classification struct {
	WeaponType string             `json:"weapon_type"`
	Caliber    string             `json:"caliber"`
	Confidence float64            `json:"confidence"`
	Indicators map[string]float64 `json:"indicators"`
	Evidence   []string           `json:"evidence"`
}

// Classifier scores feature records against per-class feature ranges.
type Classifier struct {
	logger *zap.Logger
}

// New creates a classifier.
func New(logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{logger: logger}
}

// band scores 1 when v lies inside [lo, hi], 0 otherwise.
func band(v, lo, hi float64) float64 {
	if v >= lo && v <= hi {
		return 1
	}
	return 0
}

// weaponClass is one scored hypothesis: weighted feature-range checks.
type weaponClass struct {
	name   string
	radius [2]float64 // firing-pin mean radius, px
	lines  [2]float64 // striation line count
	area   [2]float64 // contour area, px²
	lbp    [2]float64 // texture uniformity
}

var weaponClasses = []weaponClass{
	{name: "Pistol", radius: [2]float64{10, 60}, lines: [2]float64{5, 15}, area: [2]float64{5000, 120000}, lbp: [2]float64{0.03, 0.30}},
	{name: "Rifle", radius: [2]float64{25, 90}, lines: [2]float64{15, 40}, area: [2]float64{20000, 400000}, lbp: [2]float64{0.05, 0.40}},
	{name: "Revolver", radius: [2]float64{15, 70}, lines: [2]float64{8, 20}, area: [2]float64{8000, 200000}, lbp: [2]float64{0.04, 0.35}},
	{name: "Shotgun", radius: [2]float64{40, 150}, lines: [2]float64{0, 5}, area: [2]float64{50000, 1000000}, lbp: [2]float64{0.08, 1.0}},
}

var caliberClasses = []weaponClass{
	{name: ".22 LR", radius: [2]float64{8, 30}, lines: [2]float64{3, 8}, area: [2]float64{3000, 40000}, lbp: [2]float64{0, 0.25}},
	{name: "9mm", radius: [2]float64{15, 55}, lines: [2]float64{8, 18}, area: [2]float64{10000, 150000}, lbp: [2]float64{0.03, 0.35}},
	{name: ".45 ACP", radius: [2]float64{25, 75}, lines: [2]float64{10, 20}, area: [2]float64{25000, 250000}, lbp: [2]float64{0.05, 0.40}},
	{name: ".38 Special", radius: [2]float64{18, 60}, lines: [2]float64{10, 20}, area: [2]float64{15000, 180000}, lbp: [2]float64{0.04, 0.35}},
	{name: ".308 Winchester", radius: [2]float64{30, 100}, lines: [2]float64{20, 40}, area: [2]float64{40000, 500000}, lbp: [2]float64{0.06, 0.45}},
}

// score evaluates one class against the record's key features.
func (c weaponClass) score(rec *features.FeatureRecord) float64 {
	s := 0.35 * band(rec.FiringPinMarks.AvgMarkRadius, c.radius[0], c.radius[1])
	s += 0.30 * band(float64(rec.StriationPatterns.NumStriationLines), c.lines[0], c.lines[1])
	s += 0.20 * band(rec.ContourArea, c.area[0], c.area[1])
	s += 0.15 * band(rec.LBPUniformity, c.lbp[0], c.lbp[1])
	return s
}

// Classify scores the record against every hypothesis and reports the
// best weapon type and caliber with a combined confidence. Weakly
// supported records come back as "Undetermined".
func (c *Classifier) Classify(rec *features.FeatureRecord) *Classification {
	indicators := map[string]float64{}
	var evidence []string

	if n := rec.FiringPinMarks.NumCircularMarks; n > 0 {
		indicators["firing_pin"] = math.Min(float64(n)/2, 1)
		evidence = append(evidence, fmt.Sprintf("firing-pin marks detected: %d (mean radius %.1f px)",
			n, rec.FiringPinMarks.AvgMarkRadius))
	}
	if n := rec.StriationPatterns.NumStriationLines; n > 0 {
		indicators["striation"] = math.Min(float64(n)/30, 1)
		evidence = append(evidence, fmt.Sprintf("striation lines detected: %d (parallelism %.2f)",
			n, rec.StriationPatterns.ParallelismScore))
	}
	if rec.ContourArea > 0 {
		indicators["silhouette"] = 1
		evidence = append(evidence, fmt.Sprintf("case silhouette area: %.0f px²", rec.ContourArea))
	}
	if rec.LBPUniformity > 0 {
		indicators["texture"] = rec.LBPUniformity
	}

	support := 0.0
	for _, v := range indicators {
		support += v
	}
	if len(indicators) > 0 {
		support /= float64(len(indicators))
	}

	weapon, weaponScore := best(weaponClasses, rec)
	caliber, caliberScore := best(caliberClasses, rec)

	confidence := math.Min(weaponScore*support, 1)
	if confidence < 0.3 {
		weapon = "Undetermined"
	}
	if caliberScore*support < 0.3 {
		caliber = "Undetermined"
	}

	c.logger.Debug("classification complete",
		zap.String("weapon_type", weapon),
		zap.String("caliber", caliber),
		zap.Float64("confidence", confidence))

	return &Classification{
		WeaponType: weapon,
		Caliber:    caliber,
		Confidence: confidence,
		Indicators: indicators,
		Evidence:   evidence,
	}
}

func best(classes []weaponClass, rec *features.FeatureRecord) (string, float64) {
	name := "Undetermined"
	top := 0.0
	for _, c := range classes {
		if s := c.score(rec); s > top {
			name, top = c.name, s
		}
	}
	return name, top
}
