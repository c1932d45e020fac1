// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package renderer

import (
	"errors"
	"fmt"

	"honnef.co/go/curve"
	"honnef.co/go/renderops/gfx"
	"honnef.co/go/renderops/jmath"
)

var ErrNoProgram = errors.New("draw without a bound program")

// Uniforms is the per-program state as a backend sees it.
type Uniforms struct {
	Projection    jmath.Matrix
	Modelview     jmath.Matrix
	Viewport      curve.Rect
	Clip          gfx.RoundedRect
	Opacity       float32
	Color         gfx.RGBA
	ColorMatrix   gfx.ColorMatrix
	BorderWidths  gfx.BorderWidths
	BorderOutline gfx.RoundedRect
	BorderColor   gfx.RGBA
}

// DrawCall is a draw together with the state it executes with.
type DrawCall struct {
	Program      *Program
	Uniforms     Uniforms
	Texture      int
	RenderTarget int
	Offset       int
	Vertices     []Vertex
}

// Replayer executes op streams against a simulated backend. Uniform changes
// apply to the bound program and persist across program switches, like
// uniforms of real shader programs do.
type Replayer struct {
	uniforms     map[*Program]*Uniforms
	program      *Program
	texture      int
	renderTarget int
	vertices     []Vertex

	Calls []DrawCall
	Dumps []DumpFramebuffer
}

func NewReplayer() *Replayer {
	return &Replayer{uniforms: make(map[*Program]*Uniforms)}
}

func (r *Replayer) bound() *Uniforms {
	if r.program == nil {
		return nil
	}
	u, ok := r.uniforms[r.program]
	if !ok {
		u = &Uniforms{}
		r.uniforms[r.program] = u
	}
	return u
}

// Execute applies a single op.
func (r *Replayer) Execute(op Op) error {
	// Uniform changes with no program bound have nowhere to go. The builder
	// resends them when a program becomes active.
	u := r.bound()
	if u == nil {
		u = &Uniforms{}
	}

	switch op := op.(type) {
	case *ChangeProgram:
		r.program = op.Program
	case *ChangeProjection:
		u.Projection = op.Projection
	case *ChangeModelview:
		u.Modelview = op.Modelview
	case *ChangeViewport:
		u.Viewport = op.Viewport
	case *ChangeClip:
		u.Clip = op.Clip
	case *ChangeOpacity:
		u.Opacity = op.Opacity
	case *ChangeColor:
		u.Color = op.Color
	case *ChangeColorMatrix:
		u.ColorMatrix = op.ColorMatrix
	case *ChangeBorder:
		u.BorderWidths = op.Widths
		u.BorderOutline = op.Outline
	case *ChangeBorderColor:
		u.BorderColor = op.Color
	case *ChangeSourceTexture:
		r.texture = op.Texture
	case *ChangeRenderTarget:
		r.renderTarget = op.RenderTarget
	case *ChangeVAO:
		r.vertices = append(r.vertices, op.Vertices[:]...)
	case *Draw:
		if r.program == nil {
			return ErrNoProgram
		}
		if op.Offset < 0 || op.Size < 0 || op.Offset+op.Size > len(r.vertices) {
			return fmt.Errorf("draw of vertices [%d, %d) outside of buffer with %d vertices",
				op.Offset, op.Offset+op.Size, len(r.vertices))
		}
		r.Calls = append(r.Calls, DrawCall{
			Program:      r.program,
			Uniforms:     *u,
			Texture:      r.texture,
			RenderTarget: r.renderTarget,
			Offset:       op.Offset,
			Vertices:     r.vertices[op.Offset : op.Offset+op.Size : op.Offset+op.Size],
		})
	case *DumpFramebuffer:
		r.Dumps = append(r.Dumps, *op)
	default:
		panic(fmt.Sprintf("unhandled type %T", op))
	}
	return nil
}

// Replay executes ops in a fresh Replayer and returns the draw calls.
func Replay(ops []Op) ([]DrawCall, error) {
	r := NewReplayer()
	for i, op := range ops {
		if err := r.Execute(op); err != nil {
			return nil, fmt.Errorf("op %d (%s): %w", i, op.Kind(), err)
		}
	}
	return r.Calls, nil
}
