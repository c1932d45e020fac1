// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package profiler

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimerLogsNestedSpans(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var g ProfilerGroup = NewTimer(l, "frame")
	inner := g.Start("build")
	inner.End()
	g.End()

	out := buf.String()
	assert.Contains(t, out, "label=frame/build")
	assert.Contains(t, out, "label=frame ")
}

func TestNop(t *testing.T) {
	var g ProfilerGroup = Nop{}
	assert.NotPanics(t, func() {
		g.Start("x").End()
		g.End()
	})
}
