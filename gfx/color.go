// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gfx

import (
	"honnef.co/go/color"
)

// RGBA is a straight-alpha color in linear sRGB, as uploaded to shaders.
type RGBA [4]float32

var (
	Transparent = RGBA{0, 0, 0, 0}
	Black       = RGBA{0, 0, 0, 1}
	White       = RGBA{1, 1, 1, 1}
)

func RGBAFromColor(c *color.Color) RGBA {
	cc := c.Convert(color.LinearSRGB)
	return RGBA{
		float32(cc.Values[0]),
		float32(cc.Values[1]),
		float32(cc.Values[2]),
		float32(cc.Values[3]),
	}
}

func (c RGBA) Premul() [4]float32 {
	a := c[3]
	return [4]float32{c[0] * a, c[1] * a, c[2] * a, a}
}
