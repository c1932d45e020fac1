// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Command opstat builds the op stream for a TOML script of drawing requests
// and prints it along with statistics about how much was deduplicated.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"honnef.co/go/renderops/mem"
	"honnef.co/go/renderops/profiler"
	"honnef.co/go/renderops/renderer"
)

type config struct {
	script  string
	stats   bool
	replay  bool
	verbose bool
}

func main() {
	var cfg config
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-v] [-stats] [-replay] <script.toml>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.BoolVar(&cfg.stats, "stats", false, "Only print statistics")
	flag.BoolVar(&cfg.replay, "replay", false, "Print replayed draw calls")
	flag.BoolVar(&cfg.verbose, "v", false, "Be verbose")
	flag.Parse()

	if len(flag.Args()) != 1 {
		flag.Usage()
		os.Exit(2)
	}
	cfg.script = flag.Arg(0)

	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	renderer.SetLogger(log)

	if err := run(cfg, os.Stdout, log); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg config, w io.Writer, log *slog.Logger) error {
	var pgroup profiler.ProfilerGroup = profiler.Nop{}
	if cfg.verbose {
		pgroup = profiler.NewTimer(log, "opstat")
	}
	defer pgroup.End()

	f, err := os.Open(cfg.script)
	if err != nil {
		return fmt.Errorf("couldn't open script: %w", err)
	}
	defer f.Close()

	span := pgroup.Start("load")
	script, err := LoadScript(f)
	span.End()
	if err != nil {
		return err
	}

	span = pgroup.Start("build")
	arena := mem.NewArena()
	b := renderer.NewBuilder(&renderer.BuilderOptions{Logger: log, Arena: arena})
	err = script.Run(b)
	ops := b.Finish()
	span.End()
	if err != nil {
		return err
	}

	span = pgroup.Start("replay")
	calls, err := renderer.Replay(ops)
	span.End()
	if err != nil {
		return fmt.Errorf("op stream doesn't replay: %w", err)
	}

	if !cfg.stats {
		printOps(w, ops)
		fmt.Fprintln(w)
	}
	if cfg.replay {
		for i, c := range calls {
			fmt.Fprintf(w, "call %d: program=%s texture=%d target=%d vertices=[%d,%d) opacity=%g\n",
				i, c.Program, c.Texture, c.RenderTarget, c.Offset, c.Offset+len(c.Vertices), c.Uniforms.Opacity)
		}
		fmt.Fprintln(w)
	}
	printStats(w, b, arena.Used(), calls)
	return nil
}
