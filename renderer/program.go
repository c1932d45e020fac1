// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package renderer

import (
	"bytes"
	"fmt"

	"honnef.co/go/curve"
	"honnef.co/go/renderops/gfx"
	"honnef.co/go/renderops/jmath"
	"honnef.co/go/renderops/mem"
	"honnef.co/go/safeish"
)

// Program identifies a shader program. Programs are compared by pointer;
// Index selects the program's state slot and must be unique per builder.
type Program struct {
	Index int
	Name  string
}

func (p *Program) String() string {
	if p == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s#%d", p.Name, p.Index)
}

type border struct {
	widths  gfx.BorderWidths
	outline gfx.RoundedRect
}

// ProgramState is what the backend was last told while a program was
// active. Uniforms are per program, so switching programs doesn't lose them.
type ProgramState struct {
	projection  option[jmath.Matrix]
	modelview   option[jmath.Matrix]
	viewport    option[curve.Rect]
	clip        option[gfx.RoundedRect]
	opacity     option[float32]
	color       option[gfx.RGBA]
	colorMatrix option[gfx.ColorMatrix]
	border      option[border]
	borderColor option[gfx.RGBA]
}

func (ps *ProgramState) Projection() (jmath.Matrix, bool)     { return ps.projection.get() }
func (ps *ProgramState) Modelview() (jmath.Matrix, bool)      { return ps.modelview.get() }
func (ps *ProgramState) Viewport() (curve.Rect, bool)         { return ps.viewport.get() }
func (ps *ProgramState) Clip() (gfx.RoundedRect, bool)        { return ps.clip.get() }
func (ps *ProgramState) Opacity() (float32, bool)             { return ps.opacity.get() }
func (ps *ProgramState) Color() (gfx.RGBA, bool)              { return ps.color.get() }
func (ps *ProgramState) ColorMatrix() (gfx.ColorMatrix, bool) { return ps.colorMatrix.get() }
func (ps *ProgramState) BorderColor() (gfx.RGBA, bool)        { return ps.borderColor.get() }
func (ps *ProgramState) Border() (gfx.BorderWidths, gfx.RoundedRect, bool) {
	b, ok := ps.border.get()
	return b.widths, b.outline, ok
}

// programTable maps program indices to their state. Slots live in the
// builder's arena and are never moved, so pointers to them stay valid for
// the whole pass.
type programTable struct {
	slots mem.SortedMap[int, *ProgramState]
}

func (t *programTable) slot(a *mem.Arena, p *Program) *ProgramState {
	if ps, ok := t.slots.Get(p.Index); ok {
		return ps
	}
	ps := mem.New[ProgramState](a)
	t.slots.Insert(a, p.Index, ps)
	return ps
}

func (t *programTable) lookup(p *Program) (*ProgramState, bool) {
	return t.slots.Get(p.Index)
}

// needsSync reports whether a slot has to be told about cur: either it was
// never written, or it holds something else.
func needsSync[T any](slot option[T], cur *T) bool {
	v, ok := slot.get()
	return !ok || !sameBytes(&v, cur)
}

// sameBytes compares two values bit for bit. Floating point state is
// deduplicated on exact representation, never with a tolerance.
func sameBytes[T any](a, b *T) bool {
	return bytes.Equal(safeish.AsBytes(a), safeish.AsBytes(b))
}
