// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package profiler

import (
	"log/slog"
	"time"
)

type ProfilerGroup interface {
	Start(label string) ProfilerGroup
	End()
}

// Nop discards all spans.
type Nop struct{}

func (Nop) Start(string) ProfilerGroup { return Nop{} }
func (Nop) End()                       {}

// Timer measures wall-clock time of nested spans and logs each span's
// duration when it ends.
type Timer struct {
	Logger *slog.Logger

	label  string
	parent *Timer
	start  time.Time
}

func NewTimer(l *slog.Logger, label string) *Timer {
	return &Timer{Logger: l, label: label, start: time.Now()}
}

func (t *Timer) Start(label string) ProfilerGroup {
	return &Timer{
		Logger: t.Logger,
		label:  label,
		parent: t,
		start:  time.Now(),
	}
}

func (t *Timer) Path() string {
	if t.parent == nil {
		return t.label
	}
	return t.parent.Path() + "/" + t.label
}

func (t *Timer) End() {
	t.Logger.Debug("span", "label", t.Path(), "duration", time.Since(t.start))
}
