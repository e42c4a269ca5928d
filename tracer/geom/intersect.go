package geom

import (
	"github.com/Nexuapex/Akuna/types"
)

// Sentinel triangle index for a missed intersection.
const TriangleNone = ^uint32(0)

// Barycentric weights of a point inside a triangle ABC:
// point = U*A + V*B + W*C.
type Barycentrics struct {
	U, V, W float32
}

// The result of a ray/triangle query. A miss is reported with triangle index
// TriangleNone and t at +Inf so that closest-hit scans can min-reduce over it
// without a separate flag.
type Intersection struct {
	Triangle uint32
	T        float32
	Point    types.Vec3
	Normal   types.Vec3
	Tangent  types.Vec3
	Bary     Barycentrics
}

// NoIntersection reports a miss.
func NoIntersection() Intersection {
	return Intersection{
		Triangle: TriangleNone,
		T:        types.Inf(),
	}
}

func NewIntersection(ray Ray, t float32, triangle uint32, n types.Vec3, bary Barycentrics) Intersection {
	normal := n.Normalize()
	return Intersection{
		Triangle: triangle,
		T:        t,
		Point:    ray.At(t),
		Normal:   normal,
		Tangent:  Tangent(normal),
		Bary:     bary,
	}
}

func (i Intersection) Valid() bool {
	return i.Triangle != TriangleNone
}

// Produce any unit vector orthogonal to n, for anchoring a tangent frame.
func Tangent(n types.Vec3) types.Vec3 {
	axis := types.XYZ(1, 0, 0)
	if types.Abs(n[0]) > 0.9 {
		axis = types.XYZ(0, 1, 0)
	}
	return axis.Cross(n).Normalize()
}

// IntersectTriangle tests the ray against triangle index triangle of the
// indexed mesh. The test culls back faces: a hit requires the ray to approach
// from the side the reported normal faces, so callers can always rely on
// front-facing normals. The reported t is the signed parametric distance from
// the ray origin and is not filtered for positivity here; closest-hit callers
// apply their own minimum-t policy.
func IntersectTriangle(ray Ray, triangle uint32, indices []uint32, vertices []types.Vec3) Intersection {
	base := 3 * triangle

	a := vertices[indices[base+0]]
	b := vertices[indices[base+1]]
	c := vertices[indices[base+2]]

	ab := b.Sub(a)
	ac := c.Sub(a)
	n := ab.Cross(ac)

	// Back face or grazing (degenerate triangles have n = 0 and land here).
	d := ray.Dir.Dot(n)
	if d <= 0 {
		return NoIntersection()
	}

	// Edge-scaled triple products; v and w stay scaled by d until the bounds
	// checks pass so that the division happens at most once.
	e := ray.Dir.Cross(ray.Origin.Sub(a))
	v := ac.Dot(e)
	if v < 0 || v > d {
		return NoIntersection()
	}
	w := -ab.Dot(e)
	if w < 0 || v+w > d {
		return NoIntersection()
	}

	ood := 1.0 / d
	t := a.Sub(ray.Origin).Dot(n) * ood
	v *= ood
	w *= ood
	u := 1.0 - v - w

	bary := Barycentrics{U: u, V: v, W: w}
	return NewIntersection(ray, t, triangle, n.Neg(), bary)
}
