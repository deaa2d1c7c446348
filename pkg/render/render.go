// Package render turns interpretation results into diagrams.
//
// The [dot] subpackage builds Graphviz DOT source and renders it to SVG.
// This package selects the output by [Format]:
//
//	out, err := render.Render(ctx, res, render.Options{Format: render.FormatSVG})
//
// [dot]: github.com/matzehuels/layoutdsl/pkg/render/dot
package render

import (
	"context"
	"strings"

	"github.com/matzehuels/layoutdsl/pkg/errors"
	"github.com/matzehuels/layoutdsl/pkg/layout"
	"github.com/matzehuels/layoutdsl/pkg/render/dot"
)

// Format is an output format.
type Format string

const (
	FormatDOT Format = "dot"
	FormatSVG Format = "svg"
)

// Formats lists the supported formats.
var Formats = []Format{FormatDOT, FormatSVG}

// ParseFormat returns the format named s, ignoring case.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if strings.EqualFold(string(f), s) {
			return f, nil
		}
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported render format %q (use dot or svg)", s)
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	default:
		return "text/vnd.graphviz; charset=utf-8"
	}
}

// Options configures Render.
type Options struct {
	Format  Format
	RankDir string
}

// Render draws res in the requested format.
func Render(ctx context.Context, res *layout.Result, opts Options) ([]byte, error) {
	src := dot.ToDOT(res, dot.Options{RankDir: opts.RankDir})
	switch opts.Format {
	case FormatDOT, "":
		return []byte(src), nil
	case FormatSVG:
		svg, err := dot.RenderSVG(ctx, src)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render svg")
		}
		return svg, nil
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported render format %q", opts.Format)
	}
}
