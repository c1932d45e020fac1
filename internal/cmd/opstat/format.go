// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package main

import (
	"fmt"
	"io"
	"slices"

	"honnef.co/go/curve"
	"honnef.co/go/renderops/gfx"
	"honnef.co/go/renderops/jmath"
	"honnef.co/go/renderops/renderer"
)

func formatRect(r curve.Rect) string {
	return fmt.Sprintf("(%g,%g)-(%g,%g)", r.X0, r.Y0, r.X1, r.Y1)
}

func formatMatrix(m jmath.Matrix) string {
	md := jmath.ExtractMetadata(&m)
	switch {
	case md.OnlyTranslation:
		return fmt.Sprintf("translate(%g,%g)", md.TranslateX, md.TranslateY)
	case md.Simple:
		return fmt.Sprintf("scale(%g,%g) translate(%g,%g)", md.ScaleX, md.ScaleY, md.TranslateX, md.TranslateY)
	default:
		return fmt.Sprintf("%v", [4][4]float32(m))
	}
}

func formatRoundedRect(rr gfx.RoundedRect) string {
	if rr.IsRectilinear() {
		return formatRect(rr.Bounds)
	}
	return fmt.Sprintf("%s r=%v", formatRect(rr.Bounds), rr.Corners)
}

func formatColor(c gfx.RGBA) string {
	return fmt.Sprintf("%v premul=%v", [4]float32(c), c.Premul())
}

func describe(op renderer.Op) string {
	switch op := op.(type) {
	case *renderer.ChangeProgram:
		return op.Program.String()
	case *renderer.ChangeProjection:
		return formatMatrix(op.Projection)
	case *renderer.ChangeModelview:
		return formatMatrix(op.Modelview)
	case *renderer.ChangeViewport:
		return formatRect(op.Viewport)
	case *renderer.ChangeClip:
		return formatRoundedRect(op.Clip)
	case *renderer.ChangeOpacity:
		return fmt.Sprintf("%g", op.Opacity)
	case *renderer.ChangeColor:
		return formatColor(op.Color)
	case *renderer.ChangeColorMatrix:
		return fmt.Sprintf("%s + %v", formatMatrix(op.ColorMatrix.Matrix), op.ColorMatrix.Offset)
	case *renderer.ChangeSourceTexture:
		return fmt.Sprintf("%d", op.Texture)
	case *renderer.ChangeRenderTarget:
		return fmt.Sprintf("%d", op.RenderTarget)
	case *renderer.ChangeBorder:
		return fmt.Sprintf("%v %s", [4]float32(op.Widths), formatRoundedRect(op.Outline))
	case *renderer.ChangeBorderColor:
		return formatColor(op.Color)
	case *renderer.ChangeVAO:
		return fmt.Sprintf("%d vertices", len(op.Vertices))
	case *renderer.Draw:
		return fmt.Sprintf("offset=%d size=%d", op.Offset, op.Size)
	case *renderer.DumpFramebuffer:
		return fmt.Sprintf("%s %dx%d", op.Filename, op.Width, op.Height)
	default:
		panic(fmt.Sprintf("unhandled type %T", op))
	}
}

func printOps(w io.Writer, ops []renderer.Op) {
	for i, op := range ops {
		fmt.Fprintf(w, "%4d %-22s %s\n", i, op.Kind(), describe(op))
	}
}

func printStats(w io.Writer, b *renderer.Builder, arenaBytes int, calls []renderer.DrawCall) {
	ops := b.Ops()
	bufferSize := b.BufferSize()
	counts := renderer.CountOps(ops)
	kinds := make([]renderer.OpKind, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)

	fmt.Fprintf(w, "ops: %d\n", len(ops))
	for _, k := range kinds {
		fmt.Fprintf(w, "  %-22s %d\n", k, counts[k])
	}
	fmt.Fprintf(w, "vertex buffer: %d bytes (%d vertices)\n", bufferSize, bufferSize/renderer.VertexSize)
	quads := 0
	for _, c := range calls {
		quads += len(c.Vertices) / renderer.VerticesPerQuad
	}
	fmt.Fprintf(w, "draw calls: %d for %d quads\n", len(calls), quads)

	fmt.Fprintln(w, "programs:")
	for idx, ps := range b.Programs() {
		fmt.Fprintf(w, "  #%d", idx)
		if o, ok := ps.Opacity(); ok {
			fmt.Fprintf(w, " opacity=%g", o)
		}
		if c, ok := ps.Color(); ok {
			fmt.Fprintf(w, " color=%v", [4]float32(c))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "arena: %d bytes\n", arenaBytes)
}
