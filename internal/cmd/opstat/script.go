// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"honnef.co/go/color"
	"honnef.co/go/curve"
	"honnef.co/go/renderops/gfx"
	"honnef.co/go/renderops/jmath"
	"honnef.co/go/renderops/renderer"
)

// Script is a recorded sequence of drawing requests.
type Script struct {
	Width    int             `toml:"width"`
	Height   int             `toml:"height"`
	Programs []ScriptProgram `toml:"programs"`
	Steps    []Step          `toml:"steps"`
}

type ScriptProgram struct {
	Name string `toml:"name"`
}

// Step is one request. Which fields are used depends on Op.
type Step struct {
	Op        string    `toml:"op"`
	Name      string    `toml:"name"`
	ID        int       `toml:"id"`
	Rect      []float64 `toml:"rect"`
	Radius    float64   `toml:"radius"`
	Translate []float32 `toml:"translate"`
	Scale     []float32 `toml:"scale"`
	Rotate    float32   `toml:"rotate"`
	Value     float32   `toml:"value"`
	Color     []float32 `toml:"color"`
	Space     string    `toml:"space"`
	Widths    []float32 `toml:"widths"`
	Diagonal  []float32 `toml:"diagonal"`
	Offset    []float32 `toml:"offset"`
	Repeat    int       `toml:"repeat"`
	File      string    `toml:"file"`
}

func LoadScript(r io.Reader) (*Script, error) {
	var s Script
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("couldn't decode script: %w", err)
	}
	return &s, nil
}

func ParseScript(data []byte) (*Script, error) {
	return LoadScript(bytes.NewReader(data))
}

func vec2(v []float32, def float32, what string) ([2]float32, error) {
	switch len(v) {
	case 0:
		return [2]float32{def, def}, nil
	case 2:
		return [2]float32{v[0], v[1]}, nil
	default:
		return [2]float32{}, fmt.Errorf("%s needs 2 components, got %d", what, len(v))
	}
}

func vec4(v []float32, what string) ([4]float32, error) {
	if len(v) != 4 {
		return [4]float32{}, fmt.Errorf("%s needs 4 components, got %d", what, len(v))
	}
	return [4]float32{v[0], v[1], v[2], v[3]}, nil
}

// color interprets Color in Space. Linear values are used as is; sRGB values
// are converted to linear sRGB first.
func (st *Step) color() (gfx.RGBA, error) {
	v, err := vec4(st.Color, "color")
	if err != nil {
		return gfx.RGBA{}, err
	}
	switch st.Space {
	case "", "linear":
		return gfx.RGBA(v), nil
	case "srgb":
		c := color.Make(color.SRGB, float64(v[0]), float64(v[1]), float64(v[2]), float64(v[3]))
		return gfx.RGBAFromColor(&c), nil
	default:
		return gfx.RGBA{}, fmt.Errorf("unknown color space %q", st.Space)
	}
}

func (st *Step) rect() (curve.Rect, error) {
	if len(st.Rect) != 4 {
		return curve.Rect{}, fmt.Errorf("rect needs x, y, width, height, got %d values", len(st.Rect))
	}
	return jmath.NewRect(st.Rect[0], st.Rect[1], st.Rect[2], st.Rect[3]), nil
}

func (st *Step) roundedRect() (gfx.RoundedRect, error) {
	r, err := st.rect()
	if err != nil {
		return gfx.RoundedRect{}, err
	}
	rr := gfx.NewRoundedRect(r)
	for i := range rr.Corners {
		rr.Corners[i] = curve.Vec(st.Radius, st.Radius)
	}
	return rr, nil
}

// matrix composes scale, then rotation, then translation.
func (st *Step) matrix() (jmath.Matrix, error) {
	s, err := vec2(st.Scale, 1, "scale")
	if err != nil {
		return jmath.Matrix{}, err
	}
	t, err := vec2(st.Translate, 0, "translate")
	if err != nil {
		return jmath.Matrix{}, err
	}
	m := jmath.ScaleMatrix(s[0], s[1])
	if st.Rotate != 0 {
		m = m.Mul(jmath.RotateMatrix(st.Rotate))
	}
	return m.Mul(jmath.TranslateMatrix(t[0], t[1])), nil
}

// Run feeds the script's steps to b.
func (s *Script) Run(b *renderer.Builder) error {
	programs := make(map[string]*renderer.Program, len(s.Programs))
	for i, p := range s.Programs {
		if _, ok := programs[p.Name]; ok {
			return fmt.Errorf("duplicate program %q", p.Name)
		}
		programs[p.Name] = &renderer.Program{Index: i, Name: p.Name}
	}

	for i := range s.Steps {
		if err := s.step(b, programs, &s.Steps[i]); err != nil {
			return fmt.Errorf("step %d (%s): %w", i, s.Steps[i].Op, err)
		}
	}
	return nil
}

func (s *Script) step(b *renderer.Builder, programs map[string]*renderer.Program, st *Step) error {
	// The builder panics on misuse; turn the checks it would fail into
	// errors first.
	needProgram := func() error {
		if b.CurrentProgram() == nil {
			return fmt.Errorf("no active program")
		}
		return nil
	}

	switch st.Op {
	case "program":
		p, ok := programs[st.Name]
		if !ok {
			return fmt.Errorf("unknown program %q", st.Name)
		}
		b.SetProgram(p)
	case "projection":
		m, err := st.matrix()
		if err != nil {
			return err
		}
		b.SetProjection(m)
	case "push":
		m, err := st.matrix()
		if err != nil {
			return err
		}
		b.PushModelview(m)
	case "pop":
		if b.ModelviewDepth() == 0 {
			return fmt.Errorf("modelview stack is empty")
		}
		b.PopModelview()
	case "viewport":
		r, err := st.rect()
		if err != nil {
			return err
		}
		b.SetViewport(r)
	case "clip":
		rr, err := st.roundedRect()
		if err != nil {
			return err
		}
		b.SetClip(rr)
	case "opacity":
		b.SetOpacity(st.Value)
	case "texture":
		b.SetTexture(st.ID)
	case "target":
		b.SetRenderTarget(st.ID)
	case "offset":
		o, err := vec2(st.Offset, 0, "offset")
		if err != nil {
			return err
		}
		b.OffsetBy(o[0], o[1])
	case "color", "border-color":
		if err := needProgram(); err != nil {
			return err
		}
		c, err := st.color()
		if err != nil {
			return err
		}
		if st.Op == "color" {
			b.SetColor(c)
		} else {
			b.SetBorderColor(c)
		}
	case "color-matrix":
		if err := needProgram(); err != nil {
			return err
		}
		d, err := vec4(st.Diagonal, "diagonal")
		if err != nil {
			return err
		}
		var cm gfx.ColorMatrix
		for i := range 4 {
			cm.Matrix[i][i] = d[i]
		}
		if len(st.Offset) != 0 {
			if cm.Offset, err = vec4(st.Offset, "offset"); err != nil {
				return err
			}
		}
		b.SetColorMatrix(cm)
	case "border":
		if err := needProgram(); err != nil {
			return err
		}
		w, err := vec4(st.Widths, "widths")
		if err != nil {
			return err
		}
		rr, err := st.roundedRect()
		if err != nil {
			return err
		}
		b.SetBorder(gfx.BorderWidths(w), rr)
	case "draw":
		r, err := st.rect()
		if err != nil {
			return err
		}
		n := max(st.Repeat, 1)
		for i := range n {
			q := renderer.QuadFromRect(
				jmath.OffsetRect(r, float64(i)*(r.X1-r.X0), 0),
				jmath.NewRect(0, 0, 1, 1))
			b.Draw(&q)
		}
	case "dump":
		if st.File == "" {
			return fmt.Errorf("missing file")
		}
		b.DumpFramebuffer(st.File, s.Width, s.Height)
	default:
		return fmt.Errorf("unknown op")
	}
	return nil
}
