package bsdf

import (
	"math/rand"

	"github.com/Nexuapex/Akuna/types"
)

// GGX is an isotropic microfacet specular lobe using the GGX normal
// distribution, the Smith separable geometry term and an exact dielectric
// Fresnel factor.
type GGX struct {
	Tint  types.RGB
	IOR   float32
	Alpha float32
}

// The GGX normal distribution, clamped to zero below the horizon.
func ggxDistribution(nh, alpha float32) float32 {
	if nh <= 0 {
		return 0
	}
	a2 := alpha * alpha
	d := nh*nh*(a2-1) + 1
	return a2 / (types.Pi * d * d)
}

// One side of the Smith separable shadow/masking term.
func smithG1(cos, alpha float32) float32 {
	a2 := alpha * alpha
	return 2 * cos / (cos + types.Sqrt(a2+(1-a2)*cos*cos))
}

// Exact dielectric Fresnel reflectance for an interface from vacuum into a
// medium with the given index of refraction. Total internal reflection
// returns 1.
func fresnelDielectric(cosI, ior float32) float32 {
	etaI := float32(1)
	etaT := ior

	sinT2 := (etaI / etaT) * (etaI / etaT) * types.Max(0, 1-cosI*cosI)
	if sinT2 >= 1 {
		return 1
	}
	cosT := types.Sqrt(1 - sinT2)

	rs := (etaI*cosI - etaT*cosT) / (etaI*cosI + etaT*cosT)
	rp := (etaT*cosI - etaI*cosT) / (etaT*cosI + etaI*cosT)
	return (rs*rs + rp*rp) * 0.5
}

func (g GGX) Eval(wo, wi, n types.Vec3) types.RGB {
	cosO := n.Dot(wo)
	cosI := n.Dot(wi)
	if cosO <= 0 || cosI <= 0 {
		return types.RGB{}
	}

	h := wi.Add(wo).Normalize()
	d := ggxDistribution(n.Dot(h), g.Alpha)
	if d == 0 {
		return types.RGB{}
	}

	f := fresnelDielectric(wi.Dot(h), g.IOR)
	gsmith := smithG1(cosI, g.Alpha) * smithG1(cosO, g.Alpha)

	return g.Tint.Scale(f * gsmith * d / (4 * cosI * cosO))
}

func (g GGX) PDF(wo, wi, n types.Vec3) float32 {
	if n.Dot(wi) <= 0 || n.Dot(wo) <= 0 {
		return 0
	}
	h := wi.Add(wo).Normalize()
	nh := n.Dot(h)
	oh := wo.Dot(h)
	if nh <= 0 || oh <= 0 {
		return 0
	}
	// Microfacet density times the reflection Jacobian.
	return ggxDistribution(nh, g.Alpha) * nh / (4 * oh)
}

func (g GGX) Sample(wo, n, tangent types.Vec3, rng *rand.Rand) Sample {
	u1 := rng.Float32()
	u2 := rng.Float32()

	// Inverse CDF of the GGX distribution over microfacet angles.
	theta := types.Atan(g.Alpha * types.Sqrt(u1) / types.Sqrt(1-u1))
	phi := 2 * types.Pi * u2

	sinTheta := types.Sin(theta)
	local := types.XYZ(sinTheta*types.Cos(phi), sinTheta*types.Sin(phi), types.Cos(theta))
	h := frame(n, tangent).InvOrthoTransformVec(local)
	if h.Dot(wo) < 0 {
		h = h.Neg()
	}

	// Reflect wo about the microfacet normal.
	wi := h.Mul(2 * wo.Dot(h)).Sub(wo)

	return Sample{
		Direction:   wi,
		Reflectance: g.Eval(wo, wi, n),
		PDF:         g.PDF(wo, wi, n),
	}
}
