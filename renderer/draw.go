// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package renderer

import "honnef.co/go/renderops/mem"

// Draw appends one quad.
//
// If the previous op is a draw, nothing changed in between and the two can
// share a draw call. The previous draw's slot then becomes the ChangeVAO for
// this quad and a single, larger draw follows it, so every ChangeVAO still
// precedes the draw that consumes it.
func (b *Builder) Draw(quad *Quad) {
	if last, ok := b.lastOp().(*Draw); ok {
		merged := mem.Make(b.arena, Draw{
			Offset: last.Offset,
			Size:   last.Size + VerticesPerQuad,
		})
		b.ops[len(b.ops)-1] = mem.Make(b.arena, ChangeVAO{Vertices: *quad})
		b.push(merged)
		b.log.Debug("coalesced draw", "offset", merged.Offset, "vertices", merged.Size)
	} else {
		offset := b.bufferSize / VertexSize
		b.push(mem.Make(b.arena, ChangeVAO{Vertices: *quad}))
		b.push(mem.Make(b.arena, Draw{Offset: offset, Size: VerticesPerQuad}))
	}

	b.bufferSize += VertexSize * VerticesPerQuad
}
