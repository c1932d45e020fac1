// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"honnef.co/go/renderops/renderer"
)

func loadScene(t *testing.T) *Script {
	t.Helper()
	f, err := os.Open("testdata/scene.toml")
	require.NoError(t, err)
	defer f.Close()
	s, err := LoadScript(f)
	require.NoError(t, err)
	return s
}

func TestLoadScript(t *testing.T) {
	s := loadScene(t)
	assert.Equal(t, 800, s.Width)
	assert.Equal(t, 600, s.Height)
	require.Len(t, s.Programs, 2)
	assert.Equal(t, "blit", s.Programs[0].Name)
	assert.Equal(t, "color", s.Programs[1].Name)
	require.Len(t, s.Steps, 17)
	assert.Equal(t, 3, s.Steps[9].Repeat)
	assert.Equal(t, []float32{10, 10}, s.Steps[8].Translate)
}

func TestLoadScriptUnknownField(t *testing.T) {
	_, err := ParseScript([]byte(`
[[steps]]
op = "draw"
colour = [1, 0, 0, 1]
`))
	assert.Error(t, err)
}

func TestRunScene(t *testing.T) {
	s := loadScene(t)
	b := renderer.NewBuilder(nil)
	require.NoError(t, s.Run(b))
	ops := b.Finish()

	require.Len(t, ops, 32)
	counts := renderer.CountOps(ops)
	assert.Equal(t, 4, counts[renderer.OpDraw])
	assert.Equal(t, 6, counts[renderer.OpChangeVAO])
	assert.Equal(t, 4, counts[renderer.OpChangeOpacity])
	// Setting the same color again after switching back is a no-op.
	assert.Equal(t, 1, counts[renderer.OpChangeColor])

	var draws []renderer.Draw
	for _, op := range ops {
		if d, ok := op.(*renderer.Draw); ok {
			draws = append(draws, *d)
		}
	}
	assert.Equal(t, []renderer.Draw{
		{Offset: 0, Size: 6},
		{Offset: 6, Size: 18},
		{Offset: 24, Size: 6},
		{Offset: 30, Size: 6},
	}, draws)

	// Both opacity requests collapse into a single op.
	op, ok := ops[24].(*renderer.ChangeOpacity)
	require.True(t, ok, "op 24 is %s", ops[24].Kind())
	assert.Equal(t, float32(0.8), op.Opacity)

	assert.Equal(t, 36*renderer.VertexSize, b.BufferSize())
	assert.Len(t, renderer.VertexData(ops), 36)

	calls, err := renderer.Replay(ops)
	require.NoError(t, err)
	require.Len(t, calls, 4)
	assert.Equal(t, "color", calls[0].Program.Name)
	assert.Equal(t, "blit", calls[1].Program.Name)
	assert.Equal(t, 1, calls[1].Texture)
	assert.Equal(t, float32(1), calls[1].Uniforms.Opacity)
	assert.Equal(t, float32(0.8), calls[2].Uniforms.Opacity)
	assert.Equal(t, float32(0.8), calls[3].Uniforms.Opacity)
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"unknown op", `
[[steps]]
op = "explode"
`},
		{"unknown program", `
[[steps]]
op = "program"
name = "nope"
`},
		{"color without program", `
[[steps]]
op = "color"
color = [1, 1, 1, 1]
`},
		{"pop on empty stack", `
[[steps]]
op = "pop"
`},
		{"short rect", `
[[steps]]
op = "viewport"
rect = [0, 0, 10]
`},
		{"bad translate", `
[[steps]]
op = "push"
translate = [1, 2, 3]
`},
		{"dump without file", `
[[steps]]
op = "dump"
`},
		{"unknown color space", `
[[programs]]
name = "a"

[[steps]]
op = "program"
name = "a"

[[steps]]
op = "color"
space = "cmyk"
color = [1, 1, 1, 1]
`},
		{"duplicate program", `
[[programs]]
name = "a"

[[programs]]
name = "a"
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseScript([]byte(tt.script))
			require.NoError(t, err)
			assert.Error(t, s.Run(renderer.NewBuilder(nil)))
		})
	}
}

func TestRunStepErrorNamesStep(t *testing.T) {
	s, err := ParseScript([]byte(`
[[programs]]
name = "a"

[[steps]]
op = "program"
name = "a"

[[steps]]
op = "explode"
`))
	require.NoError(t, err)
	err = s.Run(renderer.NewBuilder(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 1 (explode)")
}

func TestRunCommand(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	var buf bytes.Buffer
	err := run(config{script: "testdata/scene.toml", stats: true}, &buf, log)
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "ops: 32\n")
	assert.Contains(t, out, "draw calls: 4 for 6 quads\n")
	assert.Contains(t, out, "(36 vertices)")
	assert.NotContains(t, out, "offset=6 size=18")
	assert.Contains(t, out, "  #0 opacity=0.8\n")
	assert.Contains(t, out, "  #1 opacity=0.8 color=[1 0 0 1]\n")
	assert.Regexp(t, `arena: [1-9][0-9]* bytes`, out)

	buf.Reset()
	err = run(config{script: "testdata/scene.toml", replay: true}, &buf, log)
	require.NoError(t, err)
	out = buf.String()
	assert.Contains(t, out, "change-program")
	assert.Contains(t, out, "offset=6 size=18")
	assert.Contains(t, out, "[1 0 0 1] premul=[1 0 0 1]")
	assert.Contains(t, out, "call 1: program=")
}

func TestRunMissingScript(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	err := run(config{script: "testdata/missing.toml"}, io.Discard, log)
	assert.Error(t, err)
}

func TestColorSpaces(t *testing.T) {
	s, err := ParseScript([]byte(`
[[programs]]
name = "a"

[[steps]]
op = "program"
name = "a"

[[steps]]
op = "color"
space = "srgb"
color = [0.5, 0, 1, 0.5]

[[steps]]
op = "border-color"
color = [0.5, 0, 1, 0.5]
`))
	require.NoError(t, err)
	b := renderer.NewBuilder(nil)
	require.NoError(t, s.Run(b))

	var fill *renderer.ChangeColor
	var borderColor *renderer.ChangeBorderColor
	for _, op := range b.Ops() {
		switch op := op.(type) {
		case *renderer.ChangeColor:
			fill = op
		case *renderer.ChangeBorderColor:
			borderColor = op
		}
	}
	require.NotNil(t, fill)
	require.NotNil(t, borderColor)

	// sRGB 0.5 is about 0.214 in linear light; 0 and 1 map to themselves.
	assert.InDelta(t, 0.214, fill.Color[0], 1e-3)
	assert.InDelta(t, 0, fill.Color[1], 1e-6)
	assert.InDelta(t, 1, fill.Color[2], 1e-6)
	assert.InDelta(t, 0.5, fill.Color[3], 1e-6)

	// Without a space the values are taken as linear.
	assert.Equal(t, float32(0.5), borderColor.Color[0])
}
