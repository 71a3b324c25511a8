package ggez

import "math"

// Matrix is a 4x4 transformation matrix in column major order, the layout
// consumed by GPU uniform and vertex buffers: element (row, col) is stored
// at index col*4 + row.
type Matrix [16]float32

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Ortho returns an orthographic projection mapping the given clipping
// planes onto clip space, with depth mapped to [-1, 1].
func Ortho(left, right, bottom, top, near, far float32) Matrix {
	rml, tmb, fmn := right-left, top-bottom, far-near
	return Matrix{
		2 / rml, 0, 0, 0,
		0, 2 / tmb, 0, 0,
		0, 0, -2 / fmn, 0,
		-(right + left) / rml, -(top + bottom) / tmb, -(far + near) / fmn, 1,
	}
}

// ScreenProjection returns the orthographic projection mapping the screen
// rectangle r onto clip space, with Y pointing down: the top left corner of
// r maps to the top left corner of the target.
func ScreenProjection(r Rect) Matrix {
	return Ortho(r.X, r.X+r.W, r.Y+r.H, r.Y, -1, 1)
}

// Translation returns a matrix translating by (x, y).
func Translation(x, y float32) Matrix {
	m := Identity()
	m[12], m[13] = x, y
	return m
}

// Scaling returns a matrix scaling by (sx, sy).
func Scaling(sx, sy float32) Matrix {
	m := Identity()
	m[0], m[5] = sx, sy
	return m
}

// Rotation returns a matrix rotating by angle radians about the Z axis.
func Rotation(angle float32) Matrix {
	s, c := math.Sincos(float64(angle))
	sin, cos := float32(s), float32(c)
	return Matrix{
		cos, sin, 0, 0,
		-sin, cos, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul returns the matrix product m * n. Applying the result to a point is
// equivalent to applying n first, then m.
func (m Matrix) Mul(n Matrix) Matrix {
	var r Matrix
	for c := 0; c < 16; c += 4 {
		for row := 0; row < 4; row++ {
			r[c+row] = m[row]*n[c] + m[4+row]*n[c+1] + m[8+row]*n[c+2] + m[12+row]*n[c+3]
		}
	}
	return r
}

// Apply transforms p by m, assuming z = 0 and w = 1.
func (m Matrix) Apply(p Point) Point {
	return Point{
		X: m[0]*p.X + m[4]*p.Y + m[12],
		Y: m[1]*p.X + m[5]*p.Y + m[13],
	}
}
