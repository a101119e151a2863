package striation

import (
	"math"
	"math/rand"
	"testing"

	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

func blackMat(h, w int) gocv.Mat {
	return gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC1)
}

// horizontalLines draws evenly spaced bright horizontal streaks, the
// idealized form of a parallel tool-mark pattern.
func horizontalLines(size, spacing, thickness int) gocv.Mat {
	m := blackMat(size, size)
	for y := spacing; y < size-spacing; y += spacing {
		for t := 0; t < thickness; t++ {
			for x := 10; x < size-10; x++ {
				m.SetUCharAt(y+t, x, 230)
			}
		}
	}
	return m
}

// scatteredLines draws streaks at pseudo-random orientations.
func scatteredLines(size, n int) gocv.Mat {
	m := blackMat(size, size)
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < n; i++ {
		cx := float64(40 + rng.Intn(size-80))
		cy := float64(40 + rng.Intn(size-80))
		theta := rng.Float64() * math.Pi
		// Streaks are drawn several pixels wide so the median denoise
		// stage does not erase them.
		nx, ny := -math.Sin(theta), math.Cos(theta)
		for s := -60.0; s <= 60.0; s += 0.5 {
			for w := -2.0; w <= 2.0; w += 0.5 {
				x := int(cx + s*math.Cos(theta) + w*nx)
				y := int(cy + s*math.Sin(theta) + w*ny)
				if x >= 0 && x < size && y >= 0 && y < size {
					m.SetUCharAt(y, x, 230)
				}
			}
		}
	}
	return m
}

func TestDetectParallelStreaks(t *testing.T) {
	m := horizontalLines(400, 25, 4)
	defer m.Close()

	profile := Detect(m, DefaultParams(), zap.NewNop())
	if profile.Count() < 5 {
		t.Fatalf("detected %d segments, want at least 5", profile.Count())
	}

	// Every segment is horizontal, so the folded angles cluster near 0
	// (or equivalently just under 180) and the score approaches 1.
	if profile.Parallelism < 0.8 {
		t.Errorf("parallelism = %v, want >= 0.8 for parallel streaks", profile.Parallelism)
	}
	if profile.Density <= 0 {
		t.Errorf("density = %v, want positive", profile.Density)
	}
	if profile.MeanLength <= 0 {
		t.Errorf("mean length = %v, want positive", profile.MeanLength)
	}

	// Horizontal streaks have vertical intensity gradients, so the
	// dominant gradient direction sits near 90 degrees.
	if len(profile.DominantDirections) == 0 {
		t.Fatal("no dominant directions reported")
	}
	found := false
	for _, d := range profile.DominantDirections {
		if math.Abs(d-90) < 15 {
			found = true
		}
	}
	if !found {
		t.Errorf("dominant directions %v miss the expected 90 degree peak",
			profile.DominantDirections)
	}
}

func TestDetectScatteredStreaks(t *testing.T) {
	m := scatteredLines(400, 24)
	defer m.Close()

	profile := Detect(m, DefaultParams(), zap.NewNop())
	if profile.Count() < 5 {
		t.Skipf("only %d segments detected, not enough for a spread check", profile.Count())
	}
	if profile.Parallelism >= 0.5 {
		t.Errorf("parallelism = %v, want < 0.5 for scattered orientations", profile.Parallelism)
	}
}

func TestDetectFlatField(t *testing.T) {
	m := blackMat(300, 300)
	defer m.Close()

	profile := Detect(m, DefaultParams(), zap.NewNop())
	if profile.Count() != 0 {
		t.Errorf("flat field produced %d segments, want 0", profile.Count())
	}
	if profile.Parallelism != 0 {
		t.Errorf("parallelism = %v, want 0 with no segments", profile.Parallelism)
	}
	if len(profile.DominantDirections) != 0 {
		t.Errorf("dominant directions = %v, want none on a flat field", profile.DominantDirections)
	}
}

func TestDetectScalesBackToInputFrame(t *testing.T) {
	// A 3000px raster is reduced before detection; reported segment
	// geometry must come back in input pixels.
	m := horizontalLines(3000, 200, 8)
	defer m.Close()

	profile := Detect(m, DefaultParams(), zap.NewNop())
	if profile.Count() == 0 {
		t.Fatal("no segments detected on the downscaled raster")
	}

	var longest float64
	for _, s := range profile.Segments {
		if l := s.Length(); l > longest {
			longest = l
		}
	}
	// Streaks span nearly the full 3000px width. Anything under the
	// working-raster bound means scaling back was skipped.
	if longest < 1600 {
		t.Errorf("longest segment = %.0fpx, expected input-frame lengths", longest)
	}
}
