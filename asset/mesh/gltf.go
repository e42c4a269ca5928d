package mesh

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/qmuntal/gltf"

	"github.com/Nexuapex/Akuna/types"
)

// ReadGLTF loads a glTF 2.0 document (.gltf or .glb) into a Mesh. Only
// triangle primitives with a POSITION attribute are imported; base color,
// emissive and roughness factors of the metallic-roughness material map onto
// the mesh material.
func ReadGLTF(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf: opening %s: %w", path, err)
	}

	out := &Mesh{}
	for _, m := range doc.Meshes {
		for _, prim := range m.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
				continue
			}

			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}
			positions, err := readVec3Accessor(doc, posIdx)
			if err != nil {
				return nil, fmt.Errorf("gltf: mesh %q: read positions: %w", m.Name, err)
			}

			baseVertex := uint32(len(out.Vertices))
			out.Vertices = append(out.Vertices, positions...)

			var indices []uint32
			if prim.Indices != nil {
				indices, err = readIndices(doc, *prim.Indices)
				if err != nil {
					return nil, fmt.Errorf("gltf: mesh %q: read indices: %w", m.Name, err)
				}
			} else {
				indices = make([]uint32, len(positions))
				for i := range indices {
					indices[i] = uint32(i)
				}
			}

			group := Group{
				Name:     m.Name,
				Material: gltfMaterial(doc, prim.Material),
			}
			// glTF front faces wind counter-clockwise; the tracer culls the
			// opposite way, so swap two corners per triangle.
			for i := 0; i+2 < len(indices); i += 3 {
				group.Indices = append(group.Indices,
					baseVertex+indices[i],
					baseVertex+indices[i+2],
					baseVertex+indices[i+1],
				)
			}
			out.Groups = append(out.Groups, group)
		}
	}

	if out.TriangleCount() == 0 {
		return nil, fmt.Errorf("gltf: %s contains no triangle geometry", path)
	}

	logger.Infof("%s: %d vertices, %d triangles in %d groups", path, len(out.Vertices), out.TriangleCount(), len(out.Groups))
	return out, nil
}

func gltfMaterial(doc *gltf.Document, materialIdx *int) Material {
	material := DefaultMaterial()
	if materialIdx == nil || *materialIdx >= len(doc.Materials) {
		return material
	}

	gm := doc.Materials[*materialIdx]
	material.Emissive = types.NewRGB(float32(gm.EmissiveFactor[0]), float32(gm.EmissiveFactor[1]), float32(gm.EmissiveFactor[2]))

	if pbr := gm.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorFactor != nil {
			base := *pbr.BaseColorFactor
			material.Diffuse = types.NewRGB(float32(base[0]), float32(base[1]), float32(base[2]))
		}
		if pbr.RoughnessFactor != nil {
			material.Roughness = float32(*pbr.RoughnessFactor)
		}
		if pbr.MetallicFactor != nil {
			// Metallic surfaces reflect with the base color as specular tint.
			material.Specular = material.Diffuse.Scale(float32(*pbr.MetallicFactor))
		}
	}
	return material
}

func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]types.Vec3, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 || accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float VEC3 accessor, got %v/%v", accessor.Type, accessor.ComponentType)
	}

	data, stride, err := accessorBytes(doc, accessor, 12)
	if err != nil {
		return nil, err
	}

	out := make([]types.Vec3, accessor.Count)
	for i := range out {
		offset := i * stride
		out[i] = types.XYZ(
			readFloat32(data[offset:]),
			readFloat32(data[offset+4:]),
			readFloat32(data[offset+8:]),
		)
	}
	return out, nil
}

func readIndices(doc *gltf.Document, accessorIdx int) ([]uint32, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR index accessor, got %v", accessor.Type)
	}

	var componentSize int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		componentSize = 1
	case gltf.ComponentUshort:
		componentSize = 2
	case gltf.ComponentUint:
		componentSize = 4
	default:
		return nil, fmt.Errorf("unsupported index component type %v", accessor.ComponentType)
	}

	data, stride, err := accessorBytes(doc, accessor, componentSize)
	if err != nil {
		return nil, err
	}

	out := make([]uint32, accessor.Count)
	for i := range out {
		offset := i * stride
		switch accessor.ComponentType {
		case gltf.ComponentUbyte:
			out[i] = uint32(data[offset])
		case gltf.ComponentUshort:
			out[i] = uint32(binary.LittleEndian.Uint16(data[offset:]))
		case gltf.ComponentUint:
			out[i] = binary.LittleEndian.Uint32(data[offset:])
		}
	}
	return out, nil
}

// Locate the byte range backing an accessor and its element stride.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor, elementSize int) ([]byte, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, fmt.Errorf("accessor has no buffer view")
	}
	view := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[view.Buffer]
	if buffer.Data == nil {
		return nil, 0, fmt.Errorf("buffer %d has no data", view.Buffer)
	}

	stride := view.ByteStride
	if stride == 0 {
		stride = elementSize
	}

	start := view.ByteOffset + accessor.ByteOffset
	end := start + (accessor.Count-1)*stride + elementSize
	if end > len(buffer.Data) {
		return nil, 0, fmt.Errorf("accessor range [%d,%d) exceeds buffer size %d", start, end, len(buffer.Data))
	}
	return buffer.Data[start:end], stride, nil
}

func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
