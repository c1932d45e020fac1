// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package jmath contains the small amount of linear algebra the op builder
// needs: 4×4 matrices, their scale/translate metadata, and rectangle helpers.
package jmath

import (
	"github.com/chewxy/math32"
	"honnef.co/go/curve"
)

// Matrix is a 4×4 transform using the row-vector convention: a point p is
// transformed as p·M, so the translation lives in row 3.
//
// State deduplication compares matrices bit for bit, never with a tolerance.
type Matrix [4][4]float32

var Identity = Matrix{
	{1, 0, 0, 0},
	{0, 1, 0, 0},
	{0, 0, 1, 0},
	{0, 0, 0, 1},
}

func TranslateMatrix(x, y float32) Matrix {
	m := Identity
	m[3][0] = x
	m[3][1] = y
	return m
}

func ScaleMatrix(sx, sy float32) Matrix {
	m := Identity
	m[0][0] = sx
	m[1][1] = sy
	return m
}

// RotateMatrix returns a rotation around the Z axis by angle radians.
func RotateMatrix(angle float32) Matrix {
	s, c := math32.Sincos(angle)
	m := Identity
	m[0][0] = c
	m[0][1] = s
	m[1][0] = -s
	m[1][1] = c
	return m
}

// Mul returns m·other, i.e. m applied first, then other.
func (m Matrix) Mul(other Matrix) Matrix {
	var out Matrix
	for i := range 4 {
		for j := range 4 {
			var sum float32
			for k := range 4 {
				sum += m[i][k] * other[k][j]
			}
			out[i][j] = sum
		}
	}
	return out
}

// TransformPoint applies the 2D part of m to (x, y). Z and W are ignored.
func (m Matrix) TransformPoint(x, y float32) (float32, float32) {
	return x*m[0][0] + y*m[1][0] + m[3][0],
		x*m[0][1] + y*m[1][1] + m[3][1]
}

// TransformBounds returns the axis-aligned bounding box of r transformed by
// m.
func (m Matrix) TransformBounds(r curve.Rect) curve.Rect {
	xs := [4]float32{float32(r.X0), float32(r.X1), float32(r.X1), float32(r.X0)}
	ys := [4]float32{float32(r.Y0), float32(r.Y0), float32(r.Y1), float32(r.Y1)}

	minX, minY := math32.Inf(1), math32.Inf(1)
	maxX, maxY := math32.Inf(-1), math32.Inf(-1)
	for i := range 4 {
		x, y := m.TransformPoint(xs[i], ys[i])
		minX = math32.Min(minX, x)
		minY = math32.Min(minY, y)
		maxX = math32.Max(maxX, x)
		maxY = math32.Max(maxY, y)
	}
	return curve.Rect{
		X0: float64(minX),
		Y0: float64(minY),
		X1: float64(maxX),
		Y1: float64(maxY),
	}
}
