package bsdf

import (
	"math/rand"

	"github.com/Nexuapex/Akuna/types"
)

// Lambert is the ideal diffuse lobe.
type Lambert struct {
	Albedo types.RGB
}

func (l Lambert) Eval(wo, wi, n types.Vec3) types.RGB {
	if n.Dot(wi) <= 0 || n.Dot(wo) <= 0 {
		return types.RGB{}
	}
	return l.Albedo.Scale(types.InvPi)
}

func (l Lambert) PDF(wo, wi, n types.Vec3) float32 {
	if n.Dot(wi) <= 0 || n.Dot(wo) <= 0 {
		return 0
	}
	return CosineHemispherePDF(n, wi)
}

func (l Lambert) Sample(wo, n, tangent types.Vec3, rng *rand.Rand) Sample {
	local := CosineHemisphereSample(rng.Float32(), rng.Float32())
	wi := frame(n, tangent).InvOrthoTransformVec(local)
	return Sample{
		Direction:   wi,
		Reflectance: l.Eval(wo, wi, n),
		PDF:         l.PDF(wo, wi, n),
	}
}
