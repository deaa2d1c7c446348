// Package pipeline provides the interpret → render pipeline for layoutdsl.
//
// This package wires the interpreter, the renderers and the cache together
// so the CLI and the HTTP API share one code path.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Interpret: Parse layout source into a [layout.Result]
//  2. Render: Produce artifacts (JSON, DOT, SVG) from that result
//
// Each stage can be run independently or as part of the complete pipeline.
// Successful interpretations and all rendered artifacts are cached by
// content hash. Interpretations that fail are never cached.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "layout graph style tree",
//	    Formats: []string{"json", "svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/layoutdsl/pkg/errors"
	"github.com/matzehuels/layoutdsl/pkg/layout"
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// DefaultRankDir is the default Graphviz rank direction.
const DefaultRankDir = "TB"

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// ValidRankDirs is the set of supported rank directions.
var ValidRankDirs = map[string]bool{
	"TB": true,
	"LR": true,
	"BT": true,
	"RL": true,
}

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Source is the layout program text.
	Source string `json:"source"`
	// Filename names the source in log output. Optional.
	Filename string `json:"filename,omitempty"`
	// Refresh bypasses cache lookups. Results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	RankDir string   `json:"rank_dir,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Interpretation is the semantic model. It may be an error result.
	Interpretation *layout.Result

	// SourceHash is the content hash of the source.
	SourceHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	SourceBytes   int
	Directives    int
	InterpretTime time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	InterpretHit bool // Whether the interpretation came from cache
	RenderHit    bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateRankDir checks that a rank direction is valid.
func ValidateRankDir(dir string) error {
	if !ValidRankDirs[dir] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid rank_dir: %q (must be one of: TB, LR, BT, RL)", dir)
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForInterpret(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForInterpret checks required fields for interpretation.
func (o *Options) ValidateForInterpret() error {
	if err := errors.ValidateSource(o.Source); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	formats := make([]string, len(o.Formats))
	for i, f := range o.Formats {
		formats[i] = strings.ToLower(strings.TrimSpace(f))
	}
	o.Formats = formats
	if o.RankDir == "" {
		o.RankDir = DefaultRankDir
	}
	o.RankDir = strings.ToUpper(o.RankDir)
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateRankDir(o.RankDir)
}

// Name returns the label used for the source in logs.
func (o *Options) Name() string {
	if o.Filename != "" {
		return o.Filename
	}
	return "<stdin>"
}

func (s Stats) String() string {
	return fmt.Sprintf("%d bytes, %d directives, interpret %s, render %s",
		s.SourceBytes, s.Directives, s.InterpretTime, s.RenderTime)
}
