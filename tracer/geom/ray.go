package geom

import (
	"github.com/Nexuapex/Akuna/types"
)

// A ray with a unit direction. Use NewRay so that the direction is always
// re-normalized on construction.
type Ray struct {
	Origin types.Vec3
	Dir    types.Vec3
}

func NewRay(origin, dir types.Vec3) Ray {
	return Ray{
		Origin: origin,
		Dir:    dir.Normalize(),
	}
}

// Point at parametric distance t along the ray.
func (r Ray) At(t float32) types.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}
