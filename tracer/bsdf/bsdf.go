package bsdf

import (
	"math/rand"

	"github.com/Nexuapex/Akuna/types"
)

// A sampled scattering direction together with the reflectance and the
// probability density (solid angle domain) under which it was drawn.
type Sample struct {
	Direction   types.Vec3
	Reflectance types.RGB
	PDF         float32
}

// A Lobe is one scattering strategy of a surface. Directions point away from
// the surface; wo faces the viewer, wi the light.
type Lobe interface {
	// Eval returns the reflectance for the given direction pair.
	Eval(wo, wi, n types.Vec3) types.RGB

	// PDF returns the density with which Sample draws wi for the given wo.
	PDF(wo, wi, n types.Vec3) float32

	// Sample draws a scattering direction in the tangent frame anchored at
	// (tangent, n x tangent, n). A sample with PDF 0 must be discarded.
	Sample(wo, n, tangent types.Vec3, rng *rand.Rand) Sample
}

// Build the world-from-local tangent frame used by all lobe samplers.
func frame(n, tangent types.Vec3) types.Mat3 {
	return types.Columns(tangent, n.Cross(tangent), n)
}
