// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package renderer

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"honnef.co/go/curve"
	"honnef.co/go/renderops/gfx"
	"honnef.co/go/renderops/jmath"
)

// reference computes the draw calls a sequence of requests should produce,
// without any deduplication or merging.
type reference struct {
	program      *Program
	projection   jmath.Matrix
	modelviews   []jmath.Matrix
	viewport     curve.Rect
	clip         gfx.RoundedRect
	opacity      float32
	texture      int
	renderTarget int
	perProgram   map[*Program]*Uniforms
	calls        []DrawCall
	vertexCount  int
}

func newReference() *reference {
	return &reference{opacity: 1, perProgram: make(map[*Program]*Uniforms)}
}

func (r *reference) uniforms() *Uniforms {
	u, ok := r.perProgram[r.program]
	if !ok {
		u = &Uniforms{}
		r.perProgram[r.program] = u
	}
	return u
}

func (r *reference) draw(q Quad) {
	u := *r.uniforms()
	u.Projection = r.projection
	u.Modelview = r.modelviews[len(r.modelviews)-1]
	u.Viewport = r.viewport
	u.Clip = r.clip
	u.Opacity = r.opacity
	r.calls = append(r.calls, DrawCall{
		Program:      r.program,
		Uniforms:     u,
		Texture:      r.texture,
		RenderTarget: r.renderTarget,
		Offset:       r.vertexCount,
		Vertices:     q[:],
	})
	r.vertexCount += VerticesPerQuad
}

// splitCalls breaks merged draw calls into one call per quad.
func splitCalls(calls []DrawCall) []DrawCall {
	var out []DrawCall
	for _, c := range calls {
		for i := 0; i < len(c.Vertices); i += VerticesPerQuad {
			cc := c
			cc.Offset = c.Offset + i
			cc.Vertices = c.Vertices[i : i+VerticesPerQuad]
			out = append(out, cc)
		}
	}
	return out
}

func TestReplayMatchesReference(t *testing.T) {
	programs := []*Program{progA, progB, progC}
	matrices := []jmath.Matrix{
		jmath.Identity,
		jmath.TranslateMatrix(10, 10),
		jmath.ScaleMatrix(2, 2),
		jmath.RotateMatrix(1),
	}
	rects := []curve.Rect{
		jmath.NewRect(0, 0, 100, 100),
		jmath.NewRect(0, 0, 50, 50),
		{},
	}
	colors := []gfx.RGBA{gfx.Black, gfx.White, gfx.Transparent}
	opacities := []float32{1, 0.5, 0.25}

	for seed := range uint64(50) {
		rng := rand.New(rand.NewPCG(seed, 0))
		b := NewBuilder(nil)
		ref := newReference()

		pick := func(n int) int { return rng.IntN(n) }
		for range 300 {
			switch pick(16) {
			case 0:
				p := programs[pick(len(programs))]
				b.SetProgram(p)
				ref.program = p
			case 1:
				m := matrices[pick(len(matrices))]
				b.PushModelview(m)
				ref.modelviews = append(ref.modelviews, m)
			case 2:
				if len(ref.modelviews) > 1 {
					b.PopModelview()
					ref.modelviews = ref.modelviews[:len(ref.modelviews)-1]
				}
			case 3:
				m := matrices[pick(len(matrices))]
				b.SetProjection(m)
				ref.projection = m
			case 4:
				v := rects[pick(len(rects))]
				b.SetViewport(v)
				ref.viewport = v
			case 5:
				c := gfx.NewRoundedRect(rects[pick(len(rects))])
				b.SetClip(c)
				ref.clip = c
			case 6:
				o := opacities[pick(len(opacities))]
				b.SetOpacity(o)
				ref.opacity = o
			case 7:
				tex := pick(3)
				b.SetTexture(tex)
				ref.texture = tex
			case 8:
				rt := pick(3)
				b.SetRenderTarget(rt)
				ref.renderTarget = rt
			case 9:
				if ref.program != nil {
					c := colors[pick(len(colors))]
					b.SetColor(c)
					ref.uniforms().Color = c
				}
			case 10:
				if ref.program != nil {
					cm := gfx.ColorMatrix{Matrix: matrices[pick(len(matrices))]}
					b.SetColorMatrix(cm)
					ref.uniforms().ColorMatrix = cm
				}
			case 11:
				if ref.program != nil {
					w := gfx.BorderWidths{float32(pick(3)), 1, 1, 1}
					o := gfx.NewRoundedRect(rects[pick(len(rects))])
					b.SetBorder(w, o)
					ref.uniforms().BorderWidths = w
					ref.uniforms().BorderOutline = o
				}
			case 12:
				if ref.program != nil {
					c := colors[pick(len(colors))]
					b.SetBorderColor(c)
					ref.uniforms().BorderColor = c
				}
			default:
				if ref.program != nil && len(ref.modelviews) > 0 {
					q := testQuad(pick(100))
					b.Draw(&q)
					ref.draw(q)
				}
			}
		}

		calls, err := Replay(b.Finish())
		require.NoError(t, err)
		if diff := cmp.Diff(ref.calls, splitCalls(calls)); diff != "" {
			t.Fatalf("seed %d: replayed draw calls differ (-want +got):\n%s", seed, diff)
		}
	}
}

func TestReplayDrawWithoutProgram(t *testing.T) {
	b := NewBuilder(nil)
	q := testQuad(0)
	b.Draw(&q)
	_, err := Replay(b.Ops())
	assert.True(t, errors.Is(err, ErrNoProgram))
}

func TestReplayDrawOutOfRange(t *testing.T) {
	ops := []Op{
		&ChangeProgram{Program: progA},
		&Draw{Offset: 0, Size: VerticesPerQuad},
	}
	_, err := Replay(ops)
	assert.Error(t, err)
}

func TestReplayRecordsDumps(t *testing.T) {
	b := NewBuilder(nil)
	b.DumpFramebuffer("a.png", 1, 2)
	r := NewReplayer()
	for _, op := range b.Ops() {
		require.NoError(t, r.Execute(op))
	}
	assert.Equal(t, []DumpFramebuffer{{Filename: "a.png", Width: 1, Height: 2}}, r.Dumps)
}
