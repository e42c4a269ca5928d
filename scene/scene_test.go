package scene

import (
	"testing"

	"github.com/Nexuapex/Akuna/asset/mesh"
	"github.com/Nexuapex/Akuna/tracer/geom"
	"github.com/Nexuapex/Akuna/types"
)

// A unit quad at z=0 wound to face a viewer on the +z side.
func quadMesh(material mesh.Material) *mesh.Mesh {
	return &mesh.Mesh{
		Vertices: []types.Vec3{
			{-1, -1, 0},
			{-1, 1, 0},
			{1, -1, 0},
			{1, 1, 0},
		},
		Groups: []mesh.Group{
			{
				Name:     "quad",
				Indices:  []uint32{0, 1, 2, 1, 3, 2},
				Material: material,
			},
		},
	}
}

func TestBuildEmissiveLightRuns(t *testing.T) {
	m := quadMesh(mesh.Material{
		Emissive:  types.NewRGB(1, 1, 1),
		IOR:       1,
		Roughness: 1,
	})

	s, err := Build(m, nil)
	if err != nil {
		t.Fatal(err)
	}

	if s.TriangleCount() != 2 {
		t.Fatalf("triangle count %d, want 2", s.TriangleCount())
	}
	if len(s.LightRuns) != 1 {
		t.Fatalf("light runs %d, want 1", len(s.LightRuns))
	}
	if run := s.LightRuns[0]; run.First != 0 || run.Count != 2 {
		t.Errorf("light run [%d,%d)", run.First, run.First+run.Count)
	}
	// Two triangles of area 2 each.
	if types.Abs(s.LightArea-4) > 1e-5 {
		t.Errorf("light area %v, want 4", s.LightArea)
	}
	if !s.MaterialAt(0).IsLight {
		t.Error("emissive material must have IsLight set")
	}
	if _, ok := s.Light().(*AreaLights); !ok {
		t.Errorf("expected area lights dispatch, got %T", s.Light())
	}
}

func TestBuildNonEmissiveHasNoLight(t *testing.T) {
	m := quadMesh(mesh.Material{
		Diffuse:   types.NewRGB(0.8, 0.8, 0.8),
		IOR:       1,
		Roughness: 1,
	})

	s, err := Build(m, nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.Light() != nil {
		t.Errorf("expected no light, got %T", s.Light())
	}
	if s.MaterialAt(0).IsLight {
		t.Error("non-emissive material must not have IsLight set")
	}
}

func TestBuildSkydomePrecedence(t *testing.T) {
	m := quadMesh(mesh.Material{
		Emissive:  types.NewRGB(1, 1, 1),
		IOR:       1,
		Roughness: 1,
	})
	env := constantEnvironment(4, 2, 1)

	s, err := Build(m, env)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Light().(*Skydome); !ok {
		t.Errorf("expected the skydome to take over light dispatch, got %T", s.Light())
	}
}

func TestBuildEmptyMesh(t *testing.T) {
	if _, err := Build(&mesh.Mesh{}, nil); err != ErrEmptyScene {
		t.Errorf("got %v, want ErrEmptyScene", err)
	}
}

func TestValidateRejectsBadIndices(t *testing.T) {
	_, err := New(
		[]uint32{0, 1, 7},
		[]types.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		[]Material{{}},
		[]uint8{0},
		nil, nil,
	)
	if err == nil {
		t.Error("expected out-of-bounds vertex index to be rejected")
	}
}

func TestValidateRejectsBadMaterialIndex(t *testing.T) {
	_, err := New(
		[]uint32{0, 1, 2},
		[]types.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		[]Material{{}},
		[]uint8{3},
		nil, nil,
	)
	if err == nil {
		t.Error("expected out-of-bounds material index to be rejected")
	}
}

func TestValidateRejectsNonEmissiveLightRun(t *testing.T) {
	_, err := New(
		[]uint32{0, 1, 2},
		[]types.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		[]Material{{}},
		[]uint8{0},
		[]LightRun{{First: 0, Count: 1}},
		nil,
	)
	if err == nil {
		t.Error("expected light run over non-emissive material to be rejected")
	}
}

func TestSceneClosestHit(t *testing.T) {
	// Two parallel triangles; the nearer one must win.
	vertices := []types.Vec3{
		{-1, -1, 0}, {-1, 1, 0}, {1, -1, 0},
		{-1, -1, -1}, {-1, 1, -1}, {1, -1, -1},
	}
	indices := []uint32{0, 1, 2, 3, 4, 5}
	materials := []Material{{Diffuse: types.NewRGB(1, 0, 0)}, {Diffuse: types.NewRGB(0, 1, 0)}}
	s, err := New(indices, vertices, materials, []uint8{0, 1}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	ray := geom.NewRay(types.XYZ(-0.5, -0.5, 2), types.XYZ(0, 0, -1))
	hit := s.Intersect(ray, 0)
	if !hit.Valid() {
		t.Fatal("expected a hit")
	}
	if hit.Triangle != 0 {
		t.Errorf("hit triangle %d, want the nearer 0", hit.Triangle)
	}
	if types.Abs(hit.T-2) > 1e-5 {
		t.Errorf("hit t %v, want 2", hit.T)
	}

	// Raising the minimum t skips the nearer triangle.
	hit = s.Intersect(ray, 2.5)
	if !hit.Valid() || hit.Triangle != 1 {
		t.Errorf("with minT: hit %+v, want triangle 1", hit)
	}
}

func TestCameraMapping(t *testing.T) {
	camera := NewCamera(types.XYZ(0, 0, 0))

	// The frame center looks straight down -z.
	center := camera.SampleRay(64, 64, 128, 128, 0, 0)
	if types.Abs(center.Dir[0]) > 1e-6 || types.Abs(center.Dir[1]) > 1e-6 || center.Dir[2] >= 0 {
		t.Errorf("center ray direction %v", center.Dir)
	}

	// Row 0 is the top of the frame: positive y direction.
	top := camera.SampleRay(64, 0, 128, 128, 0.5, 0.5)
	if top.Dir[1] <= 0 {
		t.Errorf("top row ray should look up, got %v", top.Dir)
	}

	// Column 0 is the left of the frame: negative x direction.
	left := camera.SampleRay(0, 64, 128, 128, 0.5, 0.5)
	if left.Dir[0] >= 0 {
		t.Errorf("left column ray should look left, got %v", left.Dir)
	}

	if types.Abs(center.Dir.Len()-1) > 1e-6 {
		t.Errorf("ray direction not normalized: %v", center.Dir)
	}
}
