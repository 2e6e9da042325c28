package math3d

import "math"

// Mat4 is a 4x4 matrix stored column-major: element (row, col) lives at m[row+col*4].
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mat4FromSlice builds a matrix from 16 column-major values (glTF order).
func Mat4FromSlice(s []float64) Mat4 {
	var m Mat4
	copy(m[:], s)
	return m
}

// At returns the element at (row, col).
func (m Mat4) At(row, col int) float64 {
	return m[row+col*4]
}

// Row returns row i as a Vec4.
func (m Mat4) Row(i int) Vec4 {
	return Vec4{m[i], m[i+4], m[i+8], m[i+12]}
}

// Mul returns the product m * b. Applied to a vector, b acts first.
func (m Mat4) Mul(b Mat4) Mat4 {
	var r Mat4
	for col := range 4 {
		for row := range 4 {
			r[row+col*4] = m[row]*b[col*4] +
				m[row+4]*b[1+col*4] +
				m[row+8]*b[2+col*4] +
				m[row+12]*b[3+col*4]
		}
	}
	return r
}

// MulVec4 transforms a homogeneous vector.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// MulVec3 transforms a point (w = 1) and drops the resulting W.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	return m.MulVec4(V4FromV3(v, 1)).Vec3()
}

// MulVec3Dir transforms a direction (w = 0), ignoring translation.
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	return m.MulVec4(V4FromV3(v, 0)).Vec3()
}

// ScaleAll multiplies every element, including the translation column and
// the bottom row, by s.
func (m Mat4) ScaleAll(s float64) Mat4 {
	for i := range m {
		m[i] *= s
	}
	return m
}

// IsProjective reports whether the bottom row is not (0, 0, 0, w), meaning
// transformed points need a perspective divide.
func (m Mat4) IsProjective() bool {
	return m[3] != 0 || m[7] != 0 || m[11] != 0
}

// Translate returns a translation matrix.
func Translate(v Vec3) Mat4 {
	m := Identity()
	m[12] = v.X
	m[13] = v.Y
	m[14] = v.Z
	return m
}

// Scale returns a scaling matrix.
func Scale(v Vec3) Mat4 {
	m := Identity()
	m[0] = v.X
	m[5] = v.Y
	m[10] = v.Z
	return m
}

// RotateX returns a rotation about the X axis (radians, right-handed).
func RotateX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	m := Identity()
	m[5] = c
	m[6] = s
	m[9] = -s
	m[10] = c
	return m
}

// RotateY returns a rotation about the Y axis (radians, right-handed).
func RotateY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	m := Identity()
	m[0] = c
	m[2] = -s
	m[8] = s
	m[10] = c
	return m
}

// RotateZ returns a rotation about the Z axis (radians, right-handed).
func RotateZ(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	m := Identity()
	m[0] = c
	m[1] = s
	m[4] = -s
	m[5] = c
	return m
}

// Orthographic returns an OpenGL-style orthographic projection mapping the
// box [left,right]x[bottom,top]x[-near,-far] onto the [-1,1] cube.
func Orthographic(left, right, bottom, top, near, far float64) Mat4 {
	var m Mat4
	m[0] = 2 / (right - left)
	m[5] = 2 / (top - bottom)
	m[10] = -2 / (far - near)
	m[12] = -(right + left) / (right - left)
	m[13] = -(top + bottom) / (top - bottom)
	m[14] = -(far + near) / (far - near)
	m[15] = 1
	return m
}

// Perspective returns an OpenGL-style perspective projection.
// fovY is the vertical field of view in radians.
func Perspective(fovY, aspect, near, far float64) Mat4 {
	f := 1 / math.Tan(fovY/2)
	var m Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = (far + near) / (near - far)
	m[11] = -1
	m[14] = 2 * far * near / (near - far)
	return m
}

// QuatToMat4 converts a unit quaternion (x, y, z, w) to a rotation matrix.
func QuatToMat4(x, y, z, w float64) Mat4 {
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z
	return Mat4{
		1 - 2*(yy+zz), 2 * (xy + wz), 2 * (xz - wy), 0,
		2 * (xy - wz), 1 - 2*(xx+zz), 2 * (yz + wx), 0,
		2 * (xz + wy), 2 * (yz - wx), 1 - 2*(xx+yy), 0,
		0, 0, 0, 1,
	}
}
