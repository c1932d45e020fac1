// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package renderer

import (
	"structs"
	"unsafe"

	"honnef.co/go/curve"
	"honnef.co/go/safeish"
)

// VerticesPerQuad is the number of vertices of a quad drawn as two
// triangles.
const VerticesPerQuad = 6

// Vertex must be kept in sync with the vertex shader inputs.
type Vertex struct {
	_ structs.HostLayout

	Position [2]float32
	UV       [2]float32
}

type Quad [VerticesPerQuad]Vertex

// VertexSize is the stride of the vertex buffer in bytes.
const VertexSize = int(unsafe.Sizeof(Vertex{}))

// QuadFromRect returns the two triangles covering r, with texture
// coordinates spanning uv.
func QuadFromRect(r, uv curve.Rect) Quad {
	x0, y0, x1, y1 := float32(r.X0), float32(r.Y0), float32(r.X1), float32(r.Y1)
	u0, v0, u1, v1 := float32(uv.X0), float32(uv.Y0), float32(uv.X1), float32(uv.Y1)
	return Quad{
		{Position: [2]float32{x0, y0}, UV: [2]float32{u0, v0}},
		{Position: [2]float32{x0, y1}, UV: [2]float32{u0, v1}},
		{Position: [2]float32{x1, y0}, UV: [2]float32{u1, v0}},

		{Position: [2]float32{x1, y1}, UV: [2]float32{u1, v1}},
		{Position: [2]float32{x0, y1}, UV: [2]float32{u0, v1}},
		{Position: [2]float32{x1, y0}, UV: [2]float32{u1, v0}},
	}
}

// VertexData returns the contents of the vertex buffer described by ops, in
// the order an executor uploads them.
func VertexData(ops []Op) []Vertex {
	var out []Vertex
	for _, op := range ops {
		if vao, ok := op.(*ChangeVAO); ok {
			out = append(out, vao.Vertices[:]...)
		}
	}
	return out
}

// VertexBytes reinterprets vertices as bytes without copying.
func VertexBytes(vertices []Vertex) []byte {
	return safeish.SliceCast[[]byte](vertices)
}
