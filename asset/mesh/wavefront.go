package mesh

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/Nexuapex/Akuna/asset"
	"github.com/Nexuapex/Akuna/log"
	"github.com/Nexuapex/Akuna/types"
)

var logger = log.New("mesh")

// Materials as they appear in a wavefront material library, before the
// shininess remap.
type wavefrontMaterial struct {
	Name string

	// Diffuse/albedo color.
	Kd types.RGB

	// Specular color.
	Ks types.RGB

	// Emissive color.
	Ke types.RGB

	// Index of refraction.
	Ni float32

	// Specular (shininess) exponent.
	Ns float32
}

func (wf *wavefrontMaterial) material() Material {
	return Material{
		Diffuse:   wf.Kd,
		Specular:  wf.Ks,
		Emissive:  wf.Ke,
		IOR:       types.Max(1, wf.Ni),
		Roughness: RoughnessFromShininess(wf.Ns),
	}
}

type wavefrontReader struct {
	mesh      *Mesh
	materials map[string]*wavefrontMaterial
	group     *Group
}

// ReadWavefront parses a wavefront object file and any material libraries it
// references. Faces with more than 3 vertices are triangulated as fans.
func ReadWavefront(res *asset.Resource) (*Mesh, error) {
	r := &wavefrontReader{
		mesh:      &Mesh{},
		materials: make(map[string]*wavefrontMaterial),
	}
	if err := r.parse(res); err != nil {
		return nil, err
	}
	r.flushGroup()

	logger.Infof("%s: %d vertices, %d triangles in %d groups", res.Path(), len(r.mesh.Vertices), r.mesh.TriangleCount(), len(r.mesh.Groups))
	return r.mesh, nil
}

func (r *wavefrontReader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	msg := fmt.Sprintf(msgFormat, args...)
	return fmt.Errorf("wavefront: [%s: line %d] %s", file, line, msg)
}

// Start a fresh group using the named material, ending the active one.
func (r *wavefrontReader) switchGroup(name string) {
	r.flushGroup()

	material := DefaultMaterial()
	if wf, exists := r.materials[name]; exists {
		material = wf.material()
	} else if name != "" {
		logger.Warningf("undefined material %q; using default", name)
	}

	r.group = &Group{
		Name:     name,
		Material: material,
	}
}

func (r *wavefrontReader) flushGroup() {
	if r.group != nil && len(r.group.Indices) > 0 {
		r.mesh.Groups = append(r.mesh.Groups, *r.group)
	}
	r.group = nil
}

func (r *wavefrontReader) activeGroup() *Group {
	if r.group == nil {
		r.switchGroup("")
	}
	return r.group
}

func (r *wavefrontReader) parse(res *asset.Resource) error {
	scanner := bufio.NewScanner(res)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.mesh.Vertices = append(r.mesh.Vertices, v)
		case "f":
			if err := r.parseFace(lineTokens); err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		case "usemtl":
			if len(lineTokens) < 2 {
				return r.emitError(res.Path(), lineNum, "usemtl: missing material name")
			}
			r.switchGroup(lineTokens[1])
		case "mtllib":
			if len(lineTokens) < 2 {
				return r.emitError(res.Path(), lineNum, "mtllib: missing library name")
			}
			libRes, err := asset.NewResource(lineTokens[1], res)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "mtllib: %s", err.Error())
			}
			err = r.parseMaterials(libRes)
			libRes.Close()
			if err != nil {
				return err
			}
		case "o", "g":
			// Object/group statements end the active face run; material
			// carries over until the next usemtl.
			if r.group != nil {
				carried := *r.group
				r.flushGroup()
				r.group = &Group{Name: carried.Name, Material: carried.Material}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("wavefront: reading %s: %w", res.Path(), err)
	}

	return nil
}

func (r *wavefrontReader) parseFace(lineTokens []string) error {
	if len(lineTokens) < 4 {
		return fmt.Errorf("f: unsupported syntax; expected at least 3 vertices")
	}

	corners := make([]uint32, 0, len(lineTokens)-1)
	for _, token := range lineTokens[1:] {
		index, err := selectFaceCoordIndex(strings.Split(token, "/")[0], len(r.mesh.Vertices))
		if err != nil {
			return fmt.Errorf("f: %s", err.Error())
		}
		corners = append(corners, uint32(index))
	}

	group := r.activeGroup()
	for i := 1; i+1 < len(corners); i++ {
		group.Indices = append(group.Indices, corners[0], corners[i], corners[i+1])
	}
	return nil
}

func (r *wavefrontReader) parseMaterials(res *asset.Resource) error {
	scanner := bufio.NewScanner(res)
	lineNum := 0

	var current *wavefrontMaterial
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		if lineTokens[0] == "newmtl" {
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, "newmtl: unsupported syntax; expected 'newmtl name'")
			}
			current = &wavefrontMaterial{Name: lineTokens[1], Ni: 1}
			r.materials[current.Name] = current
			continue
		}

		if current == nil {
			return r.emitError(res.Path(), lineNum, "%s: no material selected", lineTokens[0])
		}

		var err error
		switch lineTokens[0] {
		case "Kd":
			current.Kd, err = parseRGB(lineTokens)
		case "Ks":
			current.Ks, err = parseRGB(lineTokens)
		case "Ke":
			current.Ke, err = parseRGB(lineTokens)
		case "Ni":
			current.Ni, err = parseFloat32(lineTokens)
		case "Ns":
			current.Ns, err = parseFloat32(lineTokens)
		}
		if err != nil {
			return r.emitError(res.Path(), lineNum, "%s", err.Error())
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("wavefront: reading %s: %w", res.Path(), err)
	}

	return nil
}

// Resolve a face coordinate index token; negative values are relative to the
// end of the vertex list.
func selectFaceCoordIndex(indexToken string, coordListLen int) (int, error) {
	index, err := strconv.Atoi(indexToken)
	if err != nil {
		return 0, fmt.Errorf("could not parse vertex index %q", indexToken)
	}

	switch {
	case index > 0 && index <= coordListLen:
		return index - 1, nil
	case index < 0 && coordListLen+index >= 0:
		return coordListLen + index, nil
	}
	return 0, fmt.Errorf("vertex index %d out of bounds", index)
}

func parseFloat32(lineTokens []string) (float32, error) {
	if len(lineTokens) < 2 {
		return 0, fmt.Errorf("%s: missing value", lineTokens[0])
	}
	value, err := strconv.ParseFloat(lineTokens[1], 32)
	if err != nil {
		return 0, fmt.Errorf("%s: could not parse %q", lineTokens[0], lineTokens[1])
	}
	return float32(value), nil
}

func parseVec3(lineTokens []string) (types.Vec3, error) {
	if len(lineTokens) < 4 {
		return types.Vec3{}, fmt.Errorf("%s: expected 3 values", lineTokens[0])
	}
	var out types.Vec3
	for i := 0; i < 3; i++ {
		value, err := strconv.ParseFloat(lineTokens[i+1], 32)
		if err != nil {
			return types.Vec3{}, fmt.Errorf("%s: could not parse %q", lineTokens[0], lineTokens[i+1])
		}
		out[i] = float32(value)
	}
	return out, nil
}

func parseRGB(lineTokens []string) (types.RGB, error) {
	v, err := parseVec3(lineTokens)
	if err != nil {
		return types.RGB{}, err
	}
	return types.NewRGB(v[0], v[1], v[2]), nil
}
