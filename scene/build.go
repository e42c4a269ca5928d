package scene

import (
	"github.com/Nexuapex/Akuna/asset/mesh"
	"github.com/Nexuapex/Akuna/log"
)

var logger = log.New("scene")

// Build converts a loaded mesh into the immutable scene snapshot. Buffers are
// pre-sized from a counting prepass; emissive groups become light runs so the
// sampler can pick an emissive triangle in constant time.
func Build(m *mesh.Mesh, env *EnvironmentMap) (*Scene, error) {
	triangleCount := m.TriangleCount()
	if triangleCount == 0 {
		return nil, ErrEmptyScene
	}
	if len(m.Groups) > 256 {
		return nil, ErrTooManyMaterials
	}

	indices := make([]uint32, 0, triangleCount*3)
	materials := make([]Material, 0, len(m.Groups))
	materialIndex := make([]uint8, 0, triangleCount)
	var lightRuns []LightRun

	for i := range m.Groups {
		group := &m.Groups[i]

		material := Material{
			Diffuse:   group.Material.Diffuse,
			Specular:  group.Material.Specular,
			Emissive:  group.Material.Emissive,
			IOR:       group.Material.IOR,
			Roughness: group.Material.Roughness,
			IsLight:   !group.Material.Emissive.IsBlack(),
		}

		if material.IsLight {
			lightRuns = append(lightRuns, LightRun{
				First: uint32(len(materialIndex)),
				Count: uint32(group.TriangleCount()),
			})
		}

		matID := uint8(len(materials))
		materials = append(materials, material)
		indices = append(indices, group.Indices...)
		for t := 0; t < group.TriangleCount(); t++ {
			materialIndex = append(materialIndex, matID)
		}
	}

	s, err := New(indices, m.Vertices, materials, materialIndex, lightRuns, env)
	if err != nil {
		return nil, err
	}

	logger.Infof("built scene: %d triangles, %d materials, %d light runs, light area %g", s.TriangleCount(), len(s.Materials), len(s.LightRuns), s.LightArea)
	return s, nil
}
