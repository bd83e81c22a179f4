package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"pyrefs/internal/prof"
	"pyrefs/internal/trace"
)

// startTracing attaches the tracer chosen by --trace, --trace-level and
// --trace-format to ctx. A --trace destination without a level traces
// phases; "" and "-" mean the command's stderr.
func startTracing(ctx context.Context, cmd *cobra.Command) (context.Context, func(), error) {
	flags := globalFlags(cmd)
	dest := flags.String("trace")
	levelName := flags.String("trace-level")
	formatName := flags.String("trace-format")
	if err := flags.Err(); err != nil {
		return ctx, nil, err
	}

	level, err := trace.ParseLevel(levelName)
	if err != nil {
		return ctx, nil, err
	}
	if level == trace.LevelOff && dest != "" {
		level = trace.LevelPhase
	}
	format, err := trace.ParseFormat(formatName)
	if err != nil {
		return ctx, nil, err
	}
	cfg := trace.Config{Level: level, Format: format, Path: dest}
	if dest == "" || dest == "-" {
		cfg.Output = cmd.ErrOrStderr()
	}
	tracer, err := trace.New(cfg)
	if err != nil {
		return ctx, nil, err
	}
	return trace.WithTracer(ctx, tracer), func() { warnOnClose(cmd, "trace", tracer.Close()) }, nil
}

// startProfiling starts the pprof and runtime-trace writers named by the
// profiling flags. The returned func stops them.
func startProfiling(cmd *cobra.Command) (func(), error) {
	flags := globalFlags(cmd)
	opts := prof.Options{
		CPU:   flags.String("cpu-profile"),
		Mem:   flags.String("mem-profile"),
		Trace: flags.String("runtime-trace"),
	}
	if err := flags.Err(); err != nil {
		return nil, err
	}
	if !opts.Enabled() {
		return func() {}, nil
	}
	session, err := prof.Start(opts)
	if err != nil {
		return nil, err
	}
	return func() { warnOnClose(cmd, "profile", session.Stop()) }, nil
}

// warnOnClose reports a failure to finish an output file; the command's
// own result is already written by then.
func warnOnClose(cmd *cobra.Command, what string, err error) {
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", what, err)
	}
}
