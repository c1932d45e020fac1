// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package renderer

import (
	"honnef.co/go/curve"
	"honnef.co/go/renderops/jmath"
	"honnef.co/go/renderops/mem"
)

type modelviewEntry struct {
	matrix   jmath.Matrix
	metadata jmath.Metadata
}

func (b *Builder) PushModelview(mv jmath.Matrix) {
	b.mvStack = mem.Append(b.arena, b.mvStack, modelviewEntry{
		matrix:   mv,
		metadata: jmath.ExtractMetadata(&mv),
	})
	b.currentModelview.set(mv)
	b.setModelview(mv)
}

// PopModelview removes the top of the modelview stack and makes the new top
// current. Popping the last entry leaves no current modelview at all; it
// doesn't fall back to the identity.
func (b *Builder) PopModelview() {
	if len(b.mvStack) == 0 {
		panic("PopModelview called on empty modelview stack")
	}
	b.mvStack = b.mvStack[:len(b.mvStack)-1]
	if len(b.mvStack) == 0 {
		b.currentModelview.clear()
		return
	}
	mv := b.mvStack[len(b.mvStack)-1].matrix
	b.currentModelview.set(mv)
	b.setModelview(mv)
}

func (b *Builder) ModelviewDepth() int { return len(b.mvStack) }

func (b *Builder) head(what string) *modelviewEntry {
	if len(b.mvStack) == 0 {
		panic(what + " called on empty modelview stack")
	}
	return &b.mvStack[len(b.mvStack)-1]
}

// Scale returns the larger of the current modelview's two axis scales.
func (b *Builder) Scale() float32 {
	return b.head("Scale").metadata.Scale()
}

// ModelviewIsSimple reports whether the current modelview only scales and
// translates.
func (b *Builder) ModelviewIsSimple() bool {
	return b.head("ModelviewIsSimple").metadata.Simple
}

// TransformBounds maps r into the coordinate space of the current
// modelview, plus the accumulated offset scaled by Scale.
func (b *Builder) TransformBounds(r curve.Rect) curve.Rect {
	head := b.head("TransformBounds")
	scale := head.metadata.Scale()

	var dst curve.Rect
	if head.metadata.OnlyTranslation {
		dst = jmath.OffsetRect(r, float64(head.metadata.TranslateX), float64(head.metadata.TranslateY))
	} else {
		dst = head.matrix.TransformBounds(r)
	}
	return jmath.OffsetRect(dst, float64(b.dx*scale), float64(b.dy*scale))
}
