package scene

import (
	"github.com/Nexuapex/Akuna/tracer/geom"
	"github.com/Nexuapex/Akuna/types"
)

// A point sampled on a light source. Triangle is geom.TriangleNone for
// skydome samples. PDF is in the area domain.
type LightSample struct {
	Triangle uint32
	Radiance types.RGB
	Point    types.Vec3
	Normal   types.Vec3
	PDF      float32
}

// Radiance emitted toward a ray that escaped the scene, together with the
// conceptual point and normal the emission comes from.
type Emission struct {
	Radiance types.RGB
	Point    types.Vec3
	Normal   types.Vec3
}

// Light unifies the two kinds of light a scene can carry: the skydome and
// emissive geometry. A scene holds exactly one Light value.
type Light interface {
	// Radiance reports emission along a ray that missed all geometry.
	Radiance(dir types.Vec3) (Emission, bool)

	// Sample draws a point on the light from four uniform variates.
	Sample(u1, u2, u3, u4 float32) LightSample

	// PDF of Sample producing a point in the given direction, area domain.
	PDF(dir types.Vec3) float32
}

// Skydome is an environment map light on a conceptual bounding sphere.
type Skydome struct {
	Env    *EnvironmentMap
	Radius float32
}

// Conceptual sample position on the bounding sphere.
func (s *Skydome) point(dir types.Vec3) types.Vec3 {
	return dir.Mul(s.Radius)
}

func (s *Skydome) Radiance(dir types.Vec3) (Emission, bool) {
	return Emission{
		Radiance: s.Env.Radiance(dir),
		Point:    s.point(dir),
		Normal:   dir.Neg(),
	}, true
}

func (s *Skydome) Sample(u1, u2, u3, u4 float32) LightSample {
	x, y := s.Env.SampleTexel(u1, u2)
	dir := s.Env.TexelDirection(x, y)

	return LightSample{
		Triangle: geom.TriangleNone,
		Radiance: s.Env.Pixels[y*s.Env.Width+x],
		Point:    s.point(dir),
		Normal:   dir.Neg(),
		PDF:      s.Env.pdfTexel(x, y, s.Radius),
	}
}

func (s *Skydome) PDF(dir types.Vec3) float32 {
	return s.Env.PDF(dir, s.Radius)
}

// AreaLights samples the scene's emissive triangles: a light run is picked
// uniformly, then a triangle uniformly within the run, then a uniform point on
// that triangle. The reported density is always 1/LightArea.
type AreaLights struct {
	scene *Scene
}

// Emissive geometry only emits at surface hits, never at ray escapes.
func (a *AreaLights) Radiance(dir types.Vec3) (Emission, bool) {
	return Emission{}, false
}

func (a *AreaLights) Sample(u1, u2, u3, u4 float32) LightSample {
	s := a.scene
	runs := s.LightRuns

	runIdx := int(u3 * float32(len(runs)))
	if runIdx >= len(runs) {
		runIdx = len(runs) - 1
	}
	run := runs[runIdx]

	triOff := uint32(u4 * float32(run.Count))
	if triOff >= run.Count {
		triOff = run.Count - 1
	}
	triangle := run.First + triOff

	base := 3 * triangle
	va := s.Vertices[s.Indices[base+0]]
	vb := s.Vertices[s.Indices[base+1]]
	vc := s.Vertices[s.Indices[base+2]]

	// Uniform barycentric point on the triangle.
	su := types.Sqrt(u1)
	u := 1 - su
	v := u2 * su
	w := 1 - u - v

	point := va.Mul(u).Add(vb.Mul(v)).Add(vc.Mul(w))

	// Front-facing normal, matching the orientation intersection reports.
	normal := vb.Sub(va).Cross(vc.Sub(va)).Normalize().Neg()

	return LightSample{
		Triangle: triangle,
		Radiance: s.MaterialAt(triangle).Emissive,
		Point:    point,
		Normal:   normal,
		PDF:      a.PDF(types.Vec3{}),
	}
}

// The density of a uniform distribution over the total emissive area; the
// direction does not matter for it.
func (a *AreaLights) PDF(dir types.Vec3) float32 {
	if a.scene.LightArea <= 0 {
		return 0
	}
	return 1 / a.scene.LightArea
}
