// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package jmath

import "honnef.co/go/curve"

func NewRect(x, y, width, height float64) curve.Rect {
	return curve.Rect{X0: x, Y0: y, X1: x + width, Y1: y + height}
}

func OffsetRect(r curve.Rect, dx, dy float64) curve.Rect {
	return curve.Rect{
		X0: r.X0 + dx,
		Y0: r.Y0 + dy,
		X1: r.X1 + dx,
		Y1: r.Y1 + dy,
	}
}
