// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gfx

import (
	"honnef.co/go/curve"
	"honnef.co/go/renderops/jmath"
)

// Corner indices into RoundedRect.Corners.
const (
	TopLeft = iota
	TopRight
	BottomRight
	BottomLeft
)

// RoundedRect is a rectangle whose corners are elliptical arcs. Each corner
// is given as the horizontal and vertical radius of its ellipse.
type RoundedRect struct {
	Bounds  curve.Rect
	Corners [4]curve.Vec2
}

func NewRoundedRect(bounds curve.Rect) RoundedRect {
	return RoundedRect{Bounds: bounds}
}

func (rr RoundedRect) IsRectilinear() bool {
	for _, c := range rr.Corners {
		if c.X != 0 || c.Y != 0 {
			return false
		}
	}
	return true
}

func (rr RoundedRect) Offset(dx, dy float64) RoundedRect {
	rr.Bounds = jmath.OffsetRect(rr.Bounds, dx, dy)
	return rr
}

// ColorMatrix transforms colors as c' = c·Matrix + Offset.
type ColorMatrix struct {
	Matrix jmath.Matrix
	Offset [4]float32
}

// BorderWidths are given in the order top, right, bottom, left.
type BorderWidths [4]float32
