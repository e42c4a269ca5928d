package bsdf

import (
	"math/rand"

	"github.com/Nexuapex/Akuna/types"
)

// Mixture combines lobes as a uniform strategy ensemble: evaluation sums the
// lobe reflectances, the direction density is the mean of the lobe densities,
// and sampling picks a strategy uniformly at random.
type Mixture struct {
	Lobes []Lobe
}

func NewMixture(lobes ...Lobe) Mixture {
	return Mixture{Lobes: lobes}
}

func (m Mixture) Eval(wo, wi, n types.Vec3) types.RGB {
	var sum types.RGB
	for _, lobe := range m.Lobes {
		sum = sum.Add(lobe.Eval(wo, wi, n))
	}
	return sum
}

func (m Mixture) PDF(wo, wi, n types.Vec3) float32 {
	if len(m.Lobes) == 0 {
		return 0
	}
	var sum float32
	for _, lobe := range m.Lobes {
		sum += lobe.PDF(wo, wi, n)
	}
	return sum / float32(len(m.Lobes))
}

func (m Mixture) Sample(wo, n, tangent types.Vec3, rng *rand.Rand) Sample {
	if len(m.Lobes) == 0 {
		return Sample{}
	}

	strategy := m.Lobes[rng.Intn(len(m.Lobes))]
	drawn := strategy.Sample(wo, n, tangent, rng)

	// The reported reflectance and density cover the whole ensemble, not
	// just the strategy that produced the direction.
	return Sample{
		Direction:   drawn.Direction,
		Reflectance: m.Eval(wo, drawn.Direction, n),
		PDF:         m.PDF(wo, drawn.Direction, n),
	}
}
