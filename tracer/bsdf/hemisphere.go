package bsdf

import (
	"github.com/Nexuapex/Akuna/types"
)

// UniformHemisphereSample maps two uniform variates to a direction on the
// local +z hemisphere with constant density.
func UniformHemisphereSample(u1, u2 float32) types.Vec3 {
	z := u1
	r := types.Sqrt(types.Max(0, 1-z*z))
	phi := 2 * types.Pi * u2
	return types.XYZ(r*types.Cos(phi), r*types.Sin(phi), z)
}

// Probability with respect to solid angle is uniform.
func UniformHemispherePDF() float32 {
	return types.Inv2Pi
}

// CosineHemisphereSample maps two uniform variates to a direction on the
// local +z hemisphere with density proportional to the z cosine.
func CosineHemisphereSample(u1, u2 float32) types.Vec3 {
	r := types.Sqrt(u1)
	theta := 2 * types.Pi * u2
	x := r * types.Cos(theta)
	y := r * types.Sin(theta)
	z := types.Sqrt(types.Max(0, 1-x*x-y*y))
	return types.XYZ(x, y, z)
}

func CosineHemispherePDF(n, dir types.Vec3) float32 {
	return n.Dot(dir) * types.InvPi
}
