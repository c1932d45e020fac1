// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"honnef.co/go/renderops/jmath"
)

func testQuad(i int) Quad {
	x := float64(i * 10)
	return QuadFromRect(jmath.NewRect(x, 0, 10, 10), jmath.NewRect(0, 0, 1, 1))
}

func TestDrawOnEmptyStream(t *testing.T) {
	b := NewBuilder(nil)
	q := testQuad(0)
	b.Draw(&q)
	requireKinds(t, b, OpChangeVAO, OpDraw)
	assert.Equal(t, Draw{Offset: 0, Size: VerticesPerQuad}, *b.Ops()[1].(*Draw))
	assert.Equal(t, VertexSize*VerticesPerQuad, b.BufferSize())
}

func TestDrawCoalescing(t *testing.T) {
	b := NewBuilder(nil)
	b.PushModelview(jmath.Identity)
	b.SetProgram(progA)
	n := len(b.Ops())

	quads := []Quad{testQuad(0), testQuad(1), testQuad(2)}
	for i := range quads {
		b.Draw(&quads[i])
	}

	ops := b.Ops()[n:]
	require.Len(t, ops, 4)
	for i := range 3 {
		vao, ok := ops[i].(*ChangeVAO)
		require.True(t, ok, "op %d is %s", i, ops[i].Kind())
		assert.Equal(t, quads[i], vao.Vertices)
	}
	draw, ok := ops[3].(*Draw)
	require.True(t, ok)
	assert.Equal(t, 0, draw.Offset)
	assert.Equal(t, 3*VerticesPerQuad, draw.Size)
	assert.Equal(t, 3*VerticesPerQuad*VertexSize, b.BufferSize())
}

func TestDrawAfterStateChangeStartsNewRange(t *testing.T) {
	b := NewBuilder(nil)
	b.PushModelview(jmath.Identity)
	b.SetProgram(progA)

	q0, q1, q2 := testQuad(0), testQuad(1), testQuad(2)
	b.Draw(&q0)
	b.Draw(&q1)
	b.SetTexture(5)
	b.Draw(&q2)

	var draws []Draw
	for _, op := range b.Ops() {
		if d, ok := op.(*Draw); ok {
			draws = append(draws, *d)
		}
	}
	assert.Equal(t, []Draw{
		{Offset: 0, Size: 2 * VerticesPerQuad},
		{Offset: 2 * VerticesPerQuad, Size: VerticesPerQuad},
	}, draws)
}

func TestVertexDataMatchesDrawOrder(t *testing.T) {
	b := NewBuilder(nil)
	b.PushModelview(jmath.Identity)
	b.SetProgram(progA)
	quads := []Quad{testQuad(0), testQuad(1), testQuad(2), testQuad(3)}
	b.Draw(&quads[0])
	b.Draw(&quads[1])
	b.SetOpacity(0.5)
	b.Draw(&quads[2])
	b.Draw(&quads[3])

	data := VertexData(b.Ops())
	require.Len(t, data, 4*VerticesPerQuad)
	assert.Equal(t, b.BufferSize(), len(VertexBytes(data)))
	for i, q := range quads {
		assert.Equal(t, q[:], data[i*VerticesPerQuad:(i+1)*VerticesPerQuad])
	}
}

func TestDrawCopiesVertices(t *testing.T) {
	b := NewBuilder(nil)
	q := testQuad(0)
	b.Draw(&q)
	q[0].Position[0] = 1000
	assert.Equal(t, testQuad(0), b.Ops()[0].(*ChangeVAO).Vertices)
}
