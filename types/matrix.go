package types

// A 3x3 matrix stored as 3 column vectors. The tracer only ever builds
// orthonormal tangent frames with it.
type Mat3 struct {
	Col [3]Vec3
}

// Construct a matrix from 3 column vectors.
func Columns(a, b, c Vec3) Mat3 {
	return Mat3{Col: [3]Vec3{a, b, c}}
}

// Construct the identity matrix.
func Ident3() Mat3 {
	return Columns(
		Vec3{1, 0, 0},
		Vec3{0, 1, 0},
		Vec3{0, 0, 1},
	)
}

// Transform a vector into the frame described by the matrix columns.
func (m Mat3) TransformVec(v Vec3) Vec3 {
	return Vec3{m.Col[0].Dot(v), m.Col[1].Dot(v), m.Col[2].Dot(v)}
}

// Apply the inverse of an orthonormal matrix to a vector. For orthonormal
// matrices the inverse is the transpose, so this maps frame-local vectors
// back out of the frame.
func (m Mat3) InvOrthoTransformVec(v Vec3) Vec3 {
	row0 := Vec3{m.Col[0][0], m.Col[1][0], m.Col[2][0]}
	row1 := Vec3{m.Col[0][1], m.Col[1][1], m.Col[2][1]}
	row2 := Vec3{m.Col[0][2], m.Col[1][2], m.Col[2][2]}
	return Vec3{row0.Dot(v), row1.Dot(v), row2.Dot(v)}
}
