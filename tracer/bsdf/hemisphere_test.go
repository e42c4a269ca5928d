package bsdf

import (
	"math/rand"
	"testing"

	"github.com/Nexuapex/Akuna/types"
)

func TestUniformHemisphereIntegratesSolidAngle(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	// Averaging 1/pdf estimates the hemisphere solid angle, 2pi.
	const samples = 100000
	var sum float64
	for i := 0; i < samples; i++ {
		dir := UniformHemisphereSample(rng.Float32(), rng.Float32())
		if dir[2] < 0 {
			t.Fatal("sample below the hemisphere")
		}
		sum += 1 / float64(UniformHemispherePDF())
	}
	mean := float32(sum / samples)

	want := 2 * types.Pi
	if types.Abs(mean-want)/want > 0.01 {
		t.Errorf("estimated solid angle %v, want %v", mean, want)
	}
}

func TestCosineHemisphereDistribution(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	normal := types.XYZ(0, 0, 1)

	// Under the cosine density the expected z component is 2/3.
	const samples = 200000
	var sumZ float64
	for i := 0; i < samples; i++ {
		dir := CosineHemisphereSample(rng.Float32(), rng.Float32())
		if dir[2] < 0 {
			t.Fatal("sample below the hemisphere")
		}
		if types.Abs(dir.Len()-1) > 1e-3 {
			t.Fatalf("sample not unit length: %v", dir)
		}

		pdf := CosineHemispherePDF(normal, dir)
		if want := dir[2] * types.InvPi; types.Abs(pdf-want) > 1e-5 {
			t.Fatalf("pdf %v, want %v", pdf, want)
		}
		sumZ += float64(dir[2])
	}
	meanZ := sumZ / samples

	if meanZ < 0.66 || meanZ > 0.674 {
		t.Errorf("mean cosine %v, want 2/3", meanZ)
	}
}
