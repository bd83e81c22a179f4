package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"pyrefs/internal/config"
	"pyrefs/internal/consteval"
	"pyrefs/internal/ctxlog"
	"pyrefs/internal/driver"
	"pyrefs/internal/resolve"
)

const appName = "pyrefs"

// env is the state shared by the commands that extract references.
type env struct {
	ctx     context.Context
	cfg     config.Config
	log     *slog.Logger
	color   colorMode
	timings bool
	opts    driver.Options

	cleanup []func()
}

// openEnv sets up logging, tracing, profiling, configuration, the resolver
// and the disk cache for cmd. The caller must Close the result.
func openEnv(cmd *cobra.Command) (_ *env, err error) {
	e := &env{}
	defer func() {
		if err != nil {
			e.Close()
		}
	}()
	flags := globalFlags(cmd)
	levelName := flags.String("log-level")
	e.timings = flags.Bool("timings")
	if err := flags.Err(); err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	level, err := ctxlog.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	e.log = ctxlog.New(level, "text", cmd.ErrOrStderr())
	ctx = ctxlog.WithLogger(ctx, e.log)

	ctx, stopTrace, err := startTracing(ctx, cmd)
	if err != nil {
		return nil, err
	}
	e.cleanup = append(e.cleanup, stopTrace)

	stopProf, err := startProfiling(cmd)
	if err != nil {
		return nil, err
	}
	e.cleanup = append(e.cleanup, stopProf)

	if e.color, err = colorFlag(cmd); err != nil {
		return nil, err
	}

	if e.cfg, err = loadConfig(cmd); err != nil {
		return nil, err
	}
	if e.cfg.Path != "" {
		e.log.Debug("config loaded", "path", e.cfg.Path)
	}

	e.opts.Evaluator = consteval.New(consteval.Limits{})
	e.opts.Quick = boolFlag(cmd, "quick")
	if e.opts.Resolver, err = newResolver(e.cfg, boolFlag(cmd, "offline")); err != nil {
		return nil, err
	}
	if e.cfg.Cache.Enabled && !boolFlag(cmd, "no-cache") {
		cache, err := driver.OpenDiskCache(appName, e.cfg.Cache.Dir)
		if err != nil {
			// кеш не обязателен
			e.log.Warn("disk cache disabled", "err", err)
		} else {
			e.opts.Cache = cache
		}
	}

	e.ctx = ctx
	return e, nil
}

// Close releases tracing and profiling in reverse order of setup.
func (e *env) Close() {
	for i := len(e.cleanup) - 1; i >= 0; i-- {
		e.cleanup[i]()
	}
	e.cleanup = nil
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := globalFlags(cmd)
	path := flags.String("config")
	if err := flags.Err(); err != nil {
		return config.Config{}, err
	}
	if path != "" {
		return config.Load(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return config.Config{}, err
	}
	return config.Discover(wd)
}

// newResolver builds the installed-environment resolver, or a static one
// that never consults the filesystem when offline is set.
func newResolver(cfg config.Config, offline bool) (resolve.Resolver, error) {
	builtins := resolve.DefaultBuiltins(cfg.Builtins.Extra...)
	if offline {
		return &resolve.Static{Builtins: builtins, Mappings: cfg.Mappings}, nil
	}
	return resolve.NewInstalled(resolve.Options{
		Interpreter:  cfg.Python.Interpreter,
		SitePackages: cfg.Python.SitePackages,
		Builtins:     builtins,
		Mappings:     cfg.Mappings,
		CacheSize:    cfg.Cache.LRUSize,
	})
}
