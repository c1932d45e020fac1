// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package renderer

import (
	"fmt"

	"honnef.co/go/curve"
	"honnef.co/go/renderops/gfx"
	"honnef.co/go/renderops/jmath"
)

type OpKind uint8

const (
	OpChangeProgram OpKind = iota + 1
	OpChangeProjection
	OpChangeModelview
	OpChangeViewport
	OpChangeClip
	OpChangeOpacity
	OpChangeColor
	OpChangeColorMatrix
	OpChangeSourceTexture
	OpChangeRenderTarget
	OpChangeBorder
	OpChangeBorderColor
	OpChangeVAO
	OpDraw
	OpDumpFramebuffer
)

var opKindNames = [...]string{
	OpChangeProgram:       "change-program",
	OpChangeProjection:    "change-projection",
	OpChangeModelview:     "change-modelview",
	OpChangeViewport:      "change-viewport",
	OpChangeClip:          "change-clip",
	OpChangeOpacity:       "change-opacity",
	OpChangeColor:         "change-color",
	OpChangeColorMatrix:   "change-color-matrix",
	OpChangeSourceTexture: "change-source-texture",
	OpChangeRenderTarget:  "change-render-target",
	OpChangeBorder:        "change-border",
	OpChangeBorderColor:   "change-border-color",
	OpChangeVAO:           "change-vao",
	OpDraw:                "draw",
	OpDumpFramebuffer:     "dump-framebuffer",
}

func (k OpKind) String() string {
	if int(k) < len(opKindNames) && opKindNames[k] != "" {
		return opKindNames[k]
	}
	return fmt.Sprintf("OpKind(%d)", k)
}

// Op is a single entry of the op stream. The set of implementations is
// closed; executors switch on the concrete type or on Kind.
type Op interface {
	Kind() OpKind
	isOp()
}

type ChangeProgram struct {
	Program *Program
}

type ChangeProjection struct {
	Projection jmath.Matrix
}

type ChangeModelview struct {
	Modelview jmath.Matrix
}

type ChangeViewport struct {
	Viewport curve.Rect
}

type ChangeClip struct {
	Clip gfx.RoundedRect
}

type ChangeOpacity struct {
	Opacity float32
}

type ChangeColor struct {
	Color gfx.RGBA
}

type ChangeColorMatrix struct {
	ColorMatrix gfx.ColorMatrix
}

type ChangeSourceTexture struct {
	Texture int
}

type ChangeRenderTarget struct {
	RenderTarget int
}

type ChangeBorder struct {
	Widths  gfx.BorderWidths
	Outline gfx.RoundedRect
}

type ChangeBorderColor struct {
	Color gfx.RGBA
}

// ChangeVAO carries the vertex data of one quad. Its vertices are appended
// to the vertex buffer in stream order.
type ChangeVAO struct {
	Vertices Quad
}

// Draw draws Size vertices starting at vertex Offset of the vertex buffer.
type Draw struct {
	Offset int
	Size   int
}

// DumpFramebuffer asks the executor to save the current framebuffer. It is a
// debugging aid.
type DumpFramebuffer struct {
	Filename      string
	Width, Height int
}

func (*ChangeProgram) Kind() OpKind       { return OpChangeProgram }
func (*ChangeProjection) Kind() OpKind    { return OpChangeProjection }
func (*ChangeModelview) Kind() OpKind     { return OpChangeModelview }
func (*ChangeViewport) Kind() OpKind      { return OpChangeViewport }
func (*ChangeClip) Kind() OpKind          { return OpChangeClip }
func (*ChangeOpacity) Kind() OpKind       { return OpChangeOpacity }
func (*ChangeColor) Kind() OpKind         { return OpChangeColor }
func (*ChangeColorMatrix) Kind() OpKind   { return OpChangeColorMatrix }
func (*ChangeSourceTexture) Kind() OpKind { return OpChangeSourceTexture }
func (*ChangeRenderTarget) Kind() OpKind  { return OpChangeRenderTarget }
func (*ChangeBorder) Kind() OpKind        { return OpChangeBorder }
func (*ChangeBorderColor) Kind() OpKind   { return OpChangeBorderColor }
func (*ChangeVAO) Kind() OpKind           { return OpChangeVAO }
func (*Draw) Kind() OpKind                { return OpDraw }
func (*DumpFramebuffer) Kind() OpKind     { return OpDumpFramebuffer }

func (*ChangeProgram) isOp()       {}
func (*ChangeProjection) isOp()    {}
func (*ChangeModelview) isOp()     {}
func (*ChangeViewport) isOp()      {}
func (*ChangeClip) isOp()          {}
func (*ChangeOpacity) isOp()       {}
func (*ChangeColor) isOp()         {}
func (*ChangeColorMatrix) isOp()   {}
func (*ChangeSourceTexture) isOp() {}
func (*ChangeRenderTarget) isOp()  {}
func (*ChangeBorder) isOp()        {}
func (*ChangeBorderColor) isOp()   {}
func (*ChangeVAO) isOp()           {}
func (*Draw) isOp()                {}
func (*DumpFramebuffer) isOp()     {}

// CountOps returns the number of ops of each kind in ops.
func CountOps(ops []Op) map[OpKind]int {
	out := make(map[OpKind]int)
	for _, op := range ops {
		out[op.Kind()]++
	}
	return out
}
