// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package renderer

import (
	"iter"
	"log/slog"

	"honnef.co/go/curve"
	"honnef.co/go/renderops/gfx"
	"honnef.co/go/renderops/jmath"
	"honnef.co/go/renderops/mem"
)

type BuilderOptions struct {
	// Logger receives debug output. If nil, the package logger is used.
	Logger *slog.Logger
	// Arena backs the op stream. If nil, the builder allocates its own.
	// Ops returned by the builder are invalidated by resetting the arena.
	Arena *mem.Arena
}

// Builder turns drawing requests into an op stream, dropping state changes
// the backend already knows about and merging adjacent draws.
//
// A Builder is used by a single traversal at a time and isn't safe for
// concurrent use.
type Builder struct {
	arena *mem.Arena
	log   *slog.Logger

	ops []Op

	mvStack  []modelviewEntry
	programs programTable

	currentProgram      *Program
	currentProgramState *ProgramState

	currentProjection   jmath.Matrix
	currentModelview    option[jmath.Matrix]
	currentViewport     curve.Rect
	currentClip         gfx.RoundedRect
	currentOpacity      float32
	currentTexture      int
	currentRenderTarget int

	dx, dy float32

	// Size of the vertex buffer in bytes.
	bufferSize int
}

func NewBuilder(opts *BuilderOptions) *Builder {
	if opts == nil {
		opts = &BuilderOptions{}
	}
	b := &Builder{
		arena: opts.Arena,
		log:   opts.Logger,
	}
	if b.arena == nil {
		b.arena = mem.NewArena()
	}
	if b.log == nil {
		b.log = Logger()
	}
	b.init()
	return b
}

func (b *Builder) init() {
	b.currentOpacity = 1
}

// Reset discards the current pass and resets the arena. Ops returned
// earlier must not be used afterwards.
func (b *Builder) Reset() {
	arena, log := b.arena, b.log
	*b = Builder{arena: arena, log: log}
	arena.Reset()
	b.init()
}

// Finish ends the pass and returns the op stream. The modelview stack is
// released; the ops stay valid until the next Reset.
func (b *Builder) Finish() []Op {
	b.log.Debug("finished op stream",
		"ops", len(b.ops),
		"vertex_bytes", b.bufferSize,
		"programs", b.programs.slots.Len(),
		"unbalanced_modelviews", len(b.mvStack))
	b.mvStack = nil
	b.currentModelview.clear()
	return b.ops
}

func (b *Builder) Ops() []Op { return b.ops }

// BufferSize returns the size of the vertex buffer in bytes.
func (b *Builder) BufferSize() int { return b.bufferSize }

func (b *Builder) CurrentProgram() *Program        { return b.currentProgram }
func (b *Builder) CurrentProjection() jmath.Matrix { return b.currentProjection }
func (b *Builder) CurrentViewport() curve.Rect     { return b.currentViewport }
func (b *Builder) CurrentClip() gfx.RoundedRect    { return b.currentClip }
func (b *Builder) CurrentOpacity() float32         { return b.currentOpacity }
func (b *Builder) CurrentTexture() int             { return b.currentTexture }
func (b *Builder) CurrentRenderTarget() int        { return b.currentRenderTarget }

// CurrentModelview returns the top of the modelview stack. ok is false
// while the stack is empty.
func (b *Builder) CurrentModelview() (m jmath.Matrix, ok bool) {
	return b.currentModelview.get()
}

// Offset returns the accumulated offset.
func (b *Builder) Offset() (dx, dy float32) { return b.dx, b.dy }

// Programs yields the state of every program that has been active, in
// ascending order of program index.
func (b *Builder) Programs() iter.Seq2[int, *ProgramState] {
	return b.programs.slots.All()
}

// ProgramState returns the state tracked for p, if p has ever been active.
func (b *Builder) ProgramState(p *Program) (*ProgramState, bool) {
	return b.programs.lookup(p)
}

func (b *Builder) push(op Op) {
	b.ops = mem.Append(b.arena, b.ops, op)
}

func (b *Builder) lastOp() Op {
	if len(b.ops) == 0 {
		return nil
	}
	return b.ops[len(b.ops)-1]
}

func (b *Builder) activeState(what string) *ProgramState {
	if b.currentProgram == nil {
		panic(what + " requires an active program")
	}
	return b.currentProgramState
}

// SetProgram makes p the active program. The first time a program becomes
// active, and whenever its uniforms fell behind while other programs were
// active, the tracked state is sent again.
func (b *Builder) SetProgram(p *Program) {
	if p == nil {
		panic("SetProgram called with nil program")
	}
	if b.currentProgram == p {
		return
	}

	b.push(mem.Make(b.arena, ChangeProgram{Program: p}))
	b.currentProgram = p
	ps := b.programs.slot(b.arena, p)

	if needsSync(ps.projection, &b.currentProjection) {
		b.push(mem.Make(b.arena, ChangeProjection{Projection: b.currentProjection}))
		ps.projection.set(b.currentProjection)
	}
	// Nothing to sync before the first modelview push; the push itself
	// will be compared against this slot.
	if mv, ok := b.currentModelview.get(); ok && needsSync(ps.modelview, &mv) {
		b.push(mem.Make(b.arena, ChangeModelview{Modelview: mv}))
		ps.modelview.set(mv)
	}
	if needsSync(ps.viewport, &b.currentViewport) {
		b.push(mem.Make(b.arena, ChangeViewport{Viewport: b.currentViewport}))
		ps.viewport.set(b.currentViewport)
	}
	if needsSync(ps.clip, &b.currentClip) {
		b.push(mem.Make(b.arena, ChangeClip{Clip: b.currentClip}))
		ps.clip.set(b.currentClip)
	}
	if needsSync(ps.opacity, &b.currentOpacity) {
		b.push(mem.Make(b.arena, ChangeOpacity{Opacity: b.currentOpacity}))
		ps.opacity.set(b.currentOpacity)
	}

	b.currentProgramState = ps
}

// SetProjection returns the previous projection so callers can restore it.
func (b *Builder) SetProjection(projection jmath.Matrix) jmath.Matrix {
	prev := b.currentProjection
	if sameBytes(&projection, &b.currentProjection) {
		return prev
	}

	if last, ok := b.lastOp().(*ChangeProjection); ok {
		last.Projection = projection
	} else {
		b.push(mem.Make(b.arena, ChangeProjection{Projection: projection}))
	}
	if b.currentProgram != nil {
		b.currentProgramState.projection.set(projection)
	}
	b.currentProjection = projection
	return prev
}

// SetViewport returns the previous viewport so callers can restore it.
func (b *Builder) SetViewport(viewport curve.Rect) curve.Rect {
	prev := b.currentViewport
	if sameBytes(&viewport, &b.currentViewport) {
		return prev
	}

	b.push(mem.Make(b.arena, ChangeViewport{Viewport: viewport}))
	if b.currentProgram != nil {
		b.currentProgramState.viewport.set(viewport)
	}
	b.currentViewport = viewport
	return prev
}

// SetClip returns the previous clip so callers can restore it.
func (b *Builder) SetClip(clip gfx.RoundedRect) gfx.RoundedRect {
	prev := b.currentClip
	if sameBytes(&clip, &b.currentClip) {
		return prev
	}

	if last, ok := b.lastOp().(*ChangeClip); ok {
		last.Clip = clip
	} else {
		b.push(mem.Make(b.arena, ChangeClip{Clip: clip}))
	}
	if b.currentProgram != nil {
		b.currentProgramState.clip.set(clip)
	}
	b.currentClip = clip
	return prev
}

// SetOpacity returns the previous opacity so callers can restore it.
func (b *Builder) SetOpacity(opacity float32) float32 {
	if sameBytes(&opacity, &b.currentOpacity) {
		return opacity
	}

	if last, ok := b.lastOp().(*ChangeOpacity); ok {
		last.Opacity = opacity
	} else {
		b.push(mem.Make(b.arena, ChangeOpacity{Opacity: opacity}))
	}
	prev := b.currentOpacity
	b.currentOpacity = opacity
	if b.currentProgram != nil {
		b.currentProgramState.opacity.set(opacity)
	}
	return prev
}

func (b *Builder) setModelview(modelview jmath.Matrix) {
	if b.currentProgram != nil {
		if cur, ok := b.currentProgramState.modelview.get(); ok && sameBytes(&cur, &modelview) {
			return
		}
	}

	if last, ok := b.lastOp().(*ChangeModelview); ok {
		last.Modelview = modelview
	} else {
		b.push(mem.Make(b.arena, ChangeModelview{Modelview: modelview}))
	}
	if b.currentProgram != nil {
		b.currentProgramState.modelview.set(modelview)
	}
}

func (b *Builder) SetTexture(texture int) {
	if b.currentTexture == texture {
		return
	}
	b.push(mem.Make(b.arena, ChangeSourceTexture{Texture: texture}))
	b.currentTexture = texture
}

// SetRenderTarget returns the previous render target. If target is already
// current, it is returned unchanged.
func (b *Builder) SetRenderTarget(target int) int {
	if b.currentRenderTarget == target {
		return target
	}
	prev := b.currentRenderTarget
	b.push(mem.Make(b.arena, ChangeRenderTarget{RenderTarget: target}))
	b.currentRenderTarget = target
	return prev
}

// SetColor, SetColorMatrix, SetBorder and SetBorderColor only apply to the
// active program and panic if there is none.

func (b *Builder) SetColor(color gfx.RGBA) {
	ps := b.activeState("SetColor")
	if !needsSync(ps.color, &color) {
		return
	}
	ps.color.set(color)
	b.push(mem.Make(b.arena, ChangeColor{Color: color}))
}

func (b *Builder) SetColorMatrix(cm gfx.ColorMatrix) {
	ps := b.activeState("SetColorMatrix")
	if !needsSync(ps.colorMatrix, &cm) {
		return
	}
	ps.colorMatrix.set(cm)
	b.push(mem.Make(b.arena, ChangeColorMatrix{ColorMatrix: cm}))
}

func (b *Builder) SetBorder(widths gfx.BorderWidths, outline gfx.RoundedRect) {
	ps := b.activeState("SetBorder")
	bd := border{widths: widths, outline: outline}
	if !needsSync(ps.border, &bd) {
		return
	}
	ps.border.set(bd)
	b.push(mem.Make(b.arena, ChangeBorder{Widths: widths, Outline: outline}))
}

func (b *Builder) SetBorderColor(color gfx.RGBA) {
	ps := b.activeState("SetBorderColor")
	if !needsSync(ps.borderColor, &color) {
		return
	}
	ps.borderColor.set(color)
	b.push(mem.Make(b.arena, ChangeBorderColor{Color: color}))
}

// OffsetBy accumulates an offset that TransformBounds applies in addition to
// the modelview. It doesn't emit anything; rendering only sees it through a
// subsequent modelview push.
func (b *Builder) OffsetBy(x, y float32) {
	b.dx += x
	b.dy += y
}

// Add appends op as is, bypassing all state tracking. The builder keeps op
// and may change it in place later: a following setter of the same kind
// rewrites it, and a following Draw merges into it if it is a *Draw.
func (b *Builder) Add(op Op) {
	b.push(op)
}

func (b *Builder) DumpFramebuffer(filename string, width, height int) {
	b.push(mem.Make(b.arena, DumpFramebuffer{
		Filename: filename,
		Width:    width,
		Height:   height,
	}))
}
