// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package jmath

import "github.com/chewxy/math32"

// Metadata describes how a Matrix can be applied cheaply.
type Metadata struct {
	TranslateX, TranslateY float32
	ScaleX, ScaleY         float32
	// Simple is set if the matrix does nothing but scale and translate in
	// the XY plane. Everything else has to be rendered offscreen.
	Simple bool
	// OnlyTranslation is set if the matrix is simple and scales by exactly 1
	// on both axes.
	OnlyTranslation bool
}

// mustBeZero marks the entries that couple axes, touch Z, or introduce
// perspective. Any nonzero value there disqualifies a matrix from being
// simple.
var mustBeZero = [4][4]bool{
	{false, true, true, true},
	{true, false, true, true},
	{true, true, false, true},
	{false, false, false, false},
}

func ExtractMetadata(m *Matrix) Metadata {
	md := Metadata{
		TranslateX: m[3][0],
		TranslateY: m[3][1],
		ScaleX:     length3(m[0][0], m[1][0], m[2][0]),
		ScaleY:     length3(m[0][1], m[1][1], m[2][1]),
	}

	md.Simple = m[2][2] == 1 && m[3][3] == 1
	for row := range 4 {
		if !md.Simple {
			break
		}
		for col := range 4 {
			if mustBeZero[row][col] && m[row][col] != 0 {
				md.Simple = false
				break
			}
		}
	}

	// Exact comparison: a scale that is merely close to 1 still needs the
	// scaled path.
	md.OnlyTranslation = md.Simple && md.ScaleX == 1 && md.ScaleY == 1
	return md
}

// Scale returns the larger of the two axis scales.
func (md *Metadata) Scale() float32 {
	return math32.Max(md.ScaleX, md.ScaleY)
}

func length3(x, y, z float32) float32 {
	return math32.Sqrt(x*x + y*y + z*z)
}
