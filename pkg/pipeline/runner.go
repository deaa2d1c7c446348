package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/layoutdsl/pkg/cache"
	"github.com/matzehuels/layoutdsl/pkg/layout"
	"github.com/matzehuels/layoutdsl/pkg/observability"
	"github.com/matzehuels/layoutdsl/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache       cache.Cache
	Keyer       cache.Keyer
	Logger      *log.Logger
	Interpreter *layout.Interpreter
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:       c,
		Keyer:       keyer,
		Logger:      logger,
		Interpreter: layout.NewInterpreter(logger),
	}
}

// Execute runs the complete interpret → render pipeline with caching.
//
// An interpretation error is not a pipeline error: the error result is
// rendered like any other. Execute fails only on invalid options or
// render failures.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		SourceHash: cache.HashString(opts.Source),
		Artifacts:  make(map[string][]byte),
	}

	// Stage 1: Interpret
	interpretStart := time.Now()
	res, hit, err := r.InterpretWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("interpret: %w", err)
	}
	result.Interpretation = res
	result.Stats.SourceBytes = len(opts.Source)
	result.Stats.Directives = len(res.Directives())
	result.Stats.InterpretTime = time.Since(interpretStart)
	result.CacheInfo.InterpretHit = hit

	r.Logger.Info("interpreted source",
		"source", opts.Name(),
		"form", res.Form(),
		"directives", result.Stats.Directives,
		"duration", result.Stats.InterpretTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, res, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// InterpretWithCacheInfo interprets the source with caching and returns cache hit info.
// Only successful interpretations are written to the cache.
func (r *Runner) InterpretWithCacheInfo(ctx context.Context, opts Options) (*layout.Result, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForInterpret(); err != nil {
		return nil, false, err
	}
	hooks := observability.Pipeline()
	cacheHooks := observability.Cache()

	cacheKey := r.Keyer.InterpretKey(cache.HashString(opts.Source))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if res, err := layout.UnmarshalResult(data); err == nil {
				cacheHooks.OnCacheHit(ctx, cache.KeyTypeInterpret)
				return res, true, nil
			}
			// A corrupt entry falls through to reinterpretation.
		} else if err != nil {
			opts.Logger.Warn("cache read failed", "key", cacheKey, "err", err)
		}
		cacheHooks.OnCacheMiss(ctx, cache.KeyTypeInterpret)
	}

	hooks.OnInterpretStart(ctx, len(opts.Source))
	start := time.Now()
	res := r.interpreter().Interpret(opts.Source)
	hooks.OnInterpretComplete(ctx, res.Form().String(), len(res.Directives()), time.Since(start), res.Err())

	if res.Form() == layout.FormError {
		return res, false, nil
	}
	if data, err := layout.MarshalResult(res); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLInterpret); err != nil {
			opts.Logger.Warn("cache write failed", "key", cacheKey, "err", err)
		} else {
			cacheHooks.OnCacheSet(ctx, cache.KeyTypeInterpret, len(data))
		}
	}
	return res, false, nil
}

// Interpret is a convenience wrapper that calls InterpretWithCacheInfo and discards the cache hit info.
func (r *Runner) Interpret(ctx context.Context, opts Options) (*layout.Result, error) {
	res, _, err := r.InterpretWithCacheInfo(ctx, opts)
	return res, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// The hit flag is true only when every requested format came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *layout.Result, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	data, err := layout.MarshalResult(res)
	if err != nil {
		return nil, false, fmt.Errorf("serialize result for cache key: %w", err)
	}
	resultHash := cache.Hash(data)

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := true
	for _, format := range opts.Formats {
		out, hit, err := r.renderFormat(ctx, res, data, resultHash, format, opts)
		if err != nil {
			return nil, false, err
		}
		artifacts[format] = out
		allCached = allCached && hit
	}
	return artifacts, allCached, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, res *layout.Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, res, opts)
	return artifacts, err
}

func (r *Runner) renderFormat(ctx context.Context, res *layout.Result, resultJSON []byte, resultHash, format string, opts Options) ([]byte, bool, error) {
	// JSON is the serialized result itself.
	if format == FormatJSON {
		return resultJSON, false, nil
	}
	cacheHooks := observability.Cache()
	cacheKey := r.Keyer.RenderKey(resultHash, cache.RenderKeyOpts{Format: format, RankDir: opts.RankDir})

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			cacheHooks.OnCacheHit(ctx, cache.KeyTypeRender)
			return data, true, nil
		}
		cacheHooks.OnCacheMiss(ctx, cache.KeyTypeRender)
	}

	f, err := render.ParseFormat(format)
	if err != nil {
		return nil, false, err
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, format)
	start := time.Now()
	out, err := render.Render(ctx, res, render.Options{Format: f, RankDir: opts.RankDir})
	hooks.OnRenderComplete(ctx, format, len(out), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, cacheKey, out, cache.TTLRender); err != nil {
		opts.Logger.Warn("cache write failed", "key", cacheKey, "err", err)
	} else {
		cacheHooks.OnCacheSet(ctx, cache.KeyTypeRender, len(out))
	}
	return out, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) interpreter() *layout.Interpreter {
	if r.Interpreter == nil {
		return layout.NewInterpreter(r.Logger)
	}
	return r.Interpreter
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
