package vg

import "math"

// Matrix represents a 2D affine transformation matrix.
// It uses a 2x3 matrix in row-major order:
//
//	| a  b  c |
//	| d  e  f |
//
// This represents the transformation:
//
//	x' = a*x + b*y + c
//	y' = d*x + e*y + f
type Matrix struct {
	A, B, C float32
	D, E, F float32
}

// Identity returns the identity transformation matrix.
func Identity() Matrix {
	return Matrix{A: 1, E: 1}
}

// Translate creates a translation matrix.
func Translate(x, y float32) Matrix {
	return Matrix{A: 1, C: x, E: 1, F: y}
}

// Scale creates a scaling matrix.
func Scale(x, y float32) Matrix {
	return Matrix{A: x, E: y}
}

// Rotate creates a rotation matrix (angle in radians).
func Rotate(angle float32) Matrix {
	sin, cos := math.Sincos(float64(angle))
	return Matrix{
		A: float32(cos), B: float32(-sin),
		D: float32(sin), E: float32(cos),
	}
}

// Multiply multiplies two matrices (m * other): other is applied first.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

// TransformPoint applies the transformation to a point.
func (m Matrix) TransformPoint(x, y float32) (float32, float32) {
	return m.A*x + m.B*y + m.C, m.D*x + m.E*y + m.F
}

// Invert returns the inverse matrix.
// Returns the identity matrix if the matrix is not invertible.
func (m Matrix) Invert() Matrix {
	det := float64(m.A)*float64(m.E) - float64(m.B)*float64(m.D)
	if math.Abs(det) < 1e-6 {
		return Identity()
	}

	invDet := 1.0 / det
	return Matrix{
		A: float32(float64(m.E) * invDet),
		B: float32(-float64(m.B) * invDet),
		C: float32((float64(m.B)*float64(m.F) - float64(m.C)*float64(m.E)) * invDet),
		D: float32(-float64(m.D) * invDet),
		E: float32(float64(m.A) * invDet),
		F: float32((float64(m.C)*float64(m.D) - float64(m.A)*float64(m.F)) * invDet),
	}
}

// IsIdentity returns true if the matrix is the identity matrix.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// ToMat3x4 returns the matrix as three column vectors padded to four
// components, the layout of a WGSL mat3x4<f32> uniform.
func (m Matrix) ToMat3x4() [12]float32 {
	return [12]float32{
		m.A, m.D, 0, 0,
		m.B, m.E, 0, 0,
		m.C, m.F, 1, 0,
	}
}

