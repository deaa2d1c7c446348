package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/layoutdsl/pkg/pipeline"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	expr    string
	formats string
	output  string
	rankDir string
	noCache bool
	refresh bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Draw a layout description as a Graphviz diagram",
		Long: `Interpret a layout description and draw its directives.

Formats are dot, svg and json. With a single format and no --output the
artifact is written to stdout; otherwise one file per format is written
next to the output base name.`,
		Example: `  layoutdsl render layout.txt -f svg -o layout
  layoutdsl render -e "layout graph not planarity" -f dot --rankdir LR`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.expr, "expr", "e", "", "render this source instead of a file")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "svg", "output formats, comma separated (dot, svg, json)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output base path (default: stdout for a single format)")
	cmd.Flags().StringVar(&opts.rankDir, "rankdir", "", "graph direction: TB, LR, BT or RL")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, args []string, opts renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	src, name, err := c.readSource(args, opts.expr)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}
	cfg, err := c.config()
	if err != nil {
		return err
	}
	if opts.rankDir == "" {
		opts.rankDir = cfg.Render.RankDir
	}
	formats := parseFormats(opts.formats)
	if len(formats) > 1 && opts.output == "" {
		base := "layout"
		if name != "<stdin>" && name != "<inline>" {
			base = strings.TrimSuffix(name, filepath.Ext(name))
		}
		opts.output = base
	}

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := pipeline.Options{
		Source:   src,
		Filename: name,
		Refresh:  opts.refresh,
		Formats:  formats,
		RankDir:  opts.rankDir,
	}
	if err := popts.ValidateForRender(); err != nil {
		return err
	}

	spin := newSpinner(ctx, uiOut, opts.output != "")
	spin.start()
	defer spin.stop()
	prog := newProgress(logger)

	spin.stage("Interpreting %s", name)
	res, interpretHit, err := runner.InterpretWithCacheInfo(ctx, popts)
	if err != nil {
		if spin.cancelled() {
			spin.stop()
			return ctx.Err()
		}
		spin.fail(err)
		return fmt.Errorf("interpret: %w", err)
	}
	prog.stage("interpret", "form", res.Form(), "directives", len(res.Directives()), "cached", interpretHit)

	spin.stage("Rendering %s", strings.Join(popts.Formats, ", "))
	artifacts, renderHit, err := runner.RenderWithCacheInfo(ctx, res, popts)
	if err != nil {
		if spin.cancelled() {
			spin.stop()
			return ctx.Err()
		}
		spin.fail(err)
		return fmt.Errorf("render: %w", err)
	}
	prog.stage("render", "formats", popts.Formats, "cached", renderHit)

	spin.succeed("Rendered %s", name)
	prog.done("Rendered " + name)

	if opts.output == "" {
		_, err := c.stdout.Write(artifacts[popts.Formats[0]])
		return err
	}

	if dir := filepath.Dir(opts.output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	for _, f := range formats {
		path := opts.output + "." + strings.ToLower(f)
		if err := os.WriteFile(path, artifacts[strings.ToLower(f)], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(res.Form(), len(res.Directives()), interpretHit)
	if err := res.Err(); err != nil {
		printWarning("source did not interpret; the diagram shows the error")
		return nil
	}
	if slices.Contains(formats, pipeline.FormatDOT) {
		printNextStep("Lay out the DOT file", "dot -Tpng "+opts.output+".dot -o "+opts.output+".png")
	}
	return nil
}
