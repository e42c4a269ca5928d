package geom

import (
	"math/rand"
	"testing"

	"github.com/Nexuapex/Akuna/types"
)

// A triangle wound so that its front face (the side the reported normal
// points toward) looks up the +z axis is visible to rays traveling -z.
var (
	testVertices = []types.Vec3{
		{-1, -1, 0},
		{-1, 1, 0},
		{1, -1, 0},
	}
	testIndices = []uint32{0, 1, 2}
)

func TestRoundTripThroughInteriorPoints(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	vertices := []types.Vec3{
		{0.3, -1.2, 0.5},
		{1.7, 0.4, -0.3},
		{-0.6, 1.1, 0.9},
	}
	indices := []uint32{0, 1, 2}

	a, b, c := vertices[0], vertices[1], vertices[2]
	normal := b.Sub(a).Cross(c.Sub(a)).Normalize().Neg()

	for trial := 0; trial < 100; trial++ {
		// Random interior barycentrics.
		alpha := rng.Float32()
		beta := rng.Float32() * (1 - alpha)
		gamma := 1 - alpha - beta
		if alpha < 1e-3 || beta < 1e-3 || gamma < 1e-3 {
			continue
		}

		point := a.Mul(alpha).Add(b.Mul(beta)).Add(c.Mul(gamma))
		delta := 0.5 + rng.Float32()

		ray := NewRay(point.Add(normal.Mul(delta)), normal.Neg())
		hit := IntersectTriangle(ray, 0, indices, vertices)

		if !hit.Valid() {
			t.Fatalf("trial %d: expected a hit", trial)
		}
		if rel := types.Abs(hit.T-delta) / delta; rel > 1e-5 {
			t.Fatalf("trial %d: t %v, want %v (rel err %v)", trial, hit.T, delta, rel)
		}
		if types.Abs(hit.Bary.U-alpha) > 1e-4 || types.Abs(hit.Bary.V-beta) > 1e-4 || types.Abs(hit.Bary.W-gamma) > 1e-4 {
			t.Fatalf("trial %d: barycentrics (%v,%v,%v), want (%v,%v,%v)",
				trial, hit.Bary.U, hit.Bary.V, hit.Bary.W, alpha, beta, gamma)
		}
	}
}

func TestReportedNormalFacesRay(t *testing.T) {
	ray := NewRay(types.XYZ(0.1, -0.1, 2), types.XYZ(0, 0, -1))
	hit := IntersectTriangle(ray, 0, testIndices, testVertices)
	if !hit.Valid() {
		t.Fatal("expected a hit")
	}
	if hit.Normal.Dot(ray.Dir) >= 0 {
		t.Errorf("normal %v does not face the ray %v", hit.Normal, ray.Dir)
	}
	if types.Abs(hit.Normal.Len()-1) > 1e-6 {
		t.Errorf("normal is not unit length: %v", hit.Normal)
	}
	if types.Abs(hit.Tangent.Dot(hit.Normal)) > 1e-6 {
		t.Errorf("tangent %v not orthogonal to normal %v", hit.Tangent, hit.Normal)
	}
}

func TestBackFaceCulling(t *testing.T) {
	// Originates behind the plane (the side the normal points away from)
	// and points at the triangle.
	ray := NewRay(types.XYZ(0, 0, -2), types.XYZ(0, 0, 1))
	if hit := IntersectTriangle(ray, 0, testIndices, testVertices); hit.Valid() {
		t.Errorf("expected back face to be culled, got hit at t=%v", hit.T)
	}
}

func TestMissOutsideTriangle(t *testing.T) {
	ray := NewRay(types.XYZ(5, 5, 2), types.XYZ(0, 0, -1))
	if hit := IntersectTriangle(ray, 0, testIndices, testVertices); hit.Valid() {
		t.Errorf("expected a miss, got hit at t=%v", hit.T)
	}
}

func TestDegenerateTriangleRejected(t *testing.T) {
	vertices := []types.Vec3{
		{0, 0, 0},
		{1, 1, 1},
		{2, 2, 2},
	}
	ray := NewRay(types.XYZ(1, 1, 3), types.XYZ(0, 0, -1))
	if hit := IntersectTriangle(ray, 0, []uint32{0, 1, 2}, vertices); hit.Valid() {
		t.Error("zero-area triangle must not report a hit")
	}
}

func TestGrazingRayRejected(t *testing.T) {
	// Direction parallel to the triangle plane gives a zero triple product.
	ray := NewRay(types.XYZ(-2, 0, 0), types.XYZ(1, 0, 0))
	if hit := IntersectTriangle(ray, 0, testIndices, testVertices); hit.Valid() {
		t.Error("grazing ray must not report a hit")
	}
}

func TestTangentOrthogonality(t *testing.T) {
	dirs := []types.Vec3{
		types.XYZ(0, 0, 1),
		types.XYZ(1, 0, 0),
		types.XYZ(0.99, 0.1, 0).Normalize(),
		types.XYZ(-0.3, 0.6, 0.2).Normalize(),
	}
	for _, n := range dirs {
		tangent := Tangent(n)
		if types.Abs(tangent.Len()-1) > 1e-6 {
			t.Errorf("tangent for %v not unit: %v", n, tangent)
		}
		if types.Abs(tangent.Dot(n)) > 1e-6 {
			t.Errorf("tangent for %v not orthogonal: %v", n, tangent)
		}
	}
}

func TestNewRayNormalizesDirection(t *testing.T) {
	ray := NewRay(types.XYZ(0, 0, 0), types.XYZ(0, 3, 4))
	if types.Abs(ray.Dir.Len()-1) > 1e-6 {
		t.Errorf("direction not normalized: %v", ray.Dir)
	}
}
