package scene

import (
	"errors"
	"fmt"

	"github.com/Nexuapex/Akuna/tracer/geom"
	"github.com/Nexuapex/Akuna/types"
)

const (
	// Offset applied along the surface normal when spawning secondary rays,
	// to keep them from re-intersecting the surface they left. Interacts
	// with mesh scale.
	DefaultShadowBias float32 = 1e-3

	// Radius of the conceptual bounding sphere the skydome light samples
	// live on. Cancels in the MIS balance as long as radiance, pdf and
	// sample all agree on it.
	DefaultSkydomeRadius float32 = 6
)

var (
	ErrEmptyScene       = errors.New("scene: no triangles")
	ErrTooManyMaterials = errors.New("scene: material table exceeds 256 entries")
)

// A run of consecutive emissive triangles, so direct-light sampling can pick
// an emissive mesh in O(1).
type LightRun struct {
	First uint32
	Count uint32
}

// Scene is an immutable snapshot shared read-only by all render workers. All
// buffers are allocated once at build time.
type Scene struct {
	// 3 indices per triangle into Vertices.
	Indices  []uint32
	Vertices []types.Vec3

	// Material table and the per-triangle index into it.
	Materials     []Material
	MaterialIndex []uint8

	// Emissive geometry, if any.
	LightRuns []LightRun
	LightArea float32

	// Equirectangular skydome, if any.
	Env *EnvironmentMap

	ShadowBias    float32
	SkydomeRadius float32

	light Light
}

func (s *Scene) TriangleCount() uint32 {
	return uint32(len(s.Indices) / 3)
}

func (s *Scene) MaterialAt(triangle uint32) Material {
	return s.Materials[s.MaterialIndex[triangle]]
}

// World-space area of a triangle. Degenerate triangles have zero area.
func (s *Scene) TriangleArea(triangle uint32) float32 {
	base := 3 * triangle
	a := s.Vertices[s.Indices[base+0]]
	b := s.Vertices[s.Indices[base+1]]
	c := s.Vertices[s.Indices[base+2]]
	return b.Sub(a).Cross(c.Sub(a)).Len() * 0.5
}

// Light returns the scene's light dispatch value: the skydome when an
// environment is attached, the emissive geometry otherwise, or nil for a
// scene with no light at all.
func (s *Scene) Light() Light {
	return s.light
}

// Intersect runs a closest-hit scan over every triangle. Hits closer than
// minT are ignored; this is where the transport layer's minimum-t policy is
// applied, the per-triangle test itself reports unfiltered signed t.
func (s *Scene) Intersect(ray geom.Ray, minT float32) geom.Intersection {
	closest := geom.NoIntersection()
	for triangle := uint32(0); triangle < s.TriangleCount(); triangle++ {
		hit := geom.IntersectTriangle(ray, triangle, s.Indices, s.Vertices)
		if hit.Valid() && hit.T >= minT && hit.T < closest.T {
			closest = hit
		}
	}
	return closest
}

// Validate checks the structural invariants of the snapshot.
func (s *Scene) Validate() error {
	if len(s.Indices)%3 != 0 {
		return fmt.Errorf("scene: index array length %d is not a multiple of 3", len(s.Indices))
	}

	triangleCount := s.TriangleCount()
	for i, index := range s.Indices {
		if index >= uint32(len(s.Vertices)) {
			return fmt.Errorf("scene: index %d at position %d exceeds vertex count %d", index, i, len(s.Vertices))
		}
	}

	if uint32(len(s.MaterialIndex)) != triangleCount {
		return fmt.Errorf("scene: %d material indices for %d triangles", len(s.MaterialIndex), triangleCount)
	}
	for triangle, index := range s.MaterialIndex {
		if int(index) >= len(s.Materials) {
			return fmt.Errorf("scene: triangle %d references material %d of %d", triangle, index, len(s.Materials))
		}
	}

	var runArea float32
	for _, run := range s.LightRuns {
		if run.First+run.Count > triangleCount {
			return fmt.Errorf("scene: light run [%d,%d) exceeds triangle count %d", run.First, run.First+run.Count, triangleCount)
		}
		for triangle := run.First; triangle < run.First+run.Count; triangle++ {
			if !s.MaterialAt(triangle).IsLight {
				return fmt.Errorf("scene: light run triangle %d has a non-emissive material", triangle)
			}
			runArea += s.TriangleArea(triangle)
		}
	}
	if diff := types.Abs(runArea - s.LightArea); diff > 1e-3*types.Max(1, runArea) {
		return fmt.Errorf("scene: light area %g does not match sum of run areas %g", s.LightArea, runArea)
	}

	return nil
}

// New assembles a scene snapshot from prebuilt buffers, fills in default
// parameters and resolves the light dispatch value. The buffers are owned by
// the scene from here on.
func New(indices []uint32, vertices []types.Vec3, materials []Material, materialIndex []uint8, lightRuns []LightRun, env *EnvironmentMap) (*Scene, error) {
	s := &Scene{
		Indices:       indices,
		Vertices:      vertices,
		Materials:     materials,
		MaterialIndex: materialIndex,
		LightRuns:     lightRuns,
		Env:           env,
		ShadowBias:    DefaultShadowBias,
		SkydomeRadius: DefaultSkydomeRadius,
	}

	for _, run := range lightRuns {
		for triangle := run.First; triangle < run.First+run.Count && triangle < s.TriangleCount(); triangle++ {
			s.LightArea += s.TriangleArea(triangle)
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	switch {
	case env != nil:
		s.light = &Skydome{Env: env, Radius: s.SkydomeRadius}
	case len(lightRuns) > 0:
		s.light = &AreaLights{scene: s}
	}

	return s, nil
}
