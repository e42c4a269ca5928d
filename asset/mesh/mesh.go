// Package mesh loads triangle meshes from modeling file formats into a
// format-independent representation the scene builder consumes.
package mesh

import (
	"github.com/Nexuapex/Akuna/types"
)

// Surface parameters attached to a mesh group. Shininess-style inputs are
// already remapped to GGX roughness by the readers.
type Material struct {
	Diffuse   types.RGB
	Specular  types.RGB
	Emissive  types.RGB
	IOR       float32
	Roughness float32
}

// DefaultMaterial is assigned to groups with no material statement.
func DefaultMaterial() Material {
	return Material{
		Diffuse:   types.NewRGB(0.7, 0.7, 0.7),
		IOR:       1,
		Roughness: 1,
	}
}

// A group of triangles sharing one material.
type Group struct {
	Name     string
	Indices  []uint32
	Material Material
}

func (g *Group) TriangleCount() int {
	return len(g.Indices) / 3
}

// A triangle mesh as loaded from a file: a shared vertex pool and per-material
// index groups.
type Mesh struct {
	Vertices []types.Vec3
	Groups   []Group
}

func (m *Mesh) TriangleCount() int {
	count := 0
	for i := range m.Groups {
		count += m.Groups[i].TriangleCount()
	}
	return count
}

// Remap a Phong-style shininess exponent to GGX roughness.
func RoughnessFromShininess(shininess float32) float32 {
	return types.Sqrt(2 / (shininess + 2))
}
