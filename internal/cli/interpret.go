package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/layoutdsl/pkg/layout"
	"github.com/matzehuels/layoutdsl/pkg/pipeline"
)

// errInterpretation is returned when a source fails to interpret. The
// error itself has already been printed.
var errInterpretation = errors.New("interpretation failed")

// interpretOpts holds the flags of the interpret command.
type interpretOpts struct {
	expr    string
	json    bool
	noCache bool
	refresh bool
}

// interpretCommand creates the interpret command.
func (c *CLI) interpretCommand() *cobra.Command {
	var opts interpretOpts

	cmd := &cobra.Command{
		Use:   "interpret [file]",
		Short: "Interpret a layout description and print its directives",
		Long: `Interpret a layout description and print the resulting directives.

The source is read from the given file, from -e, or from stdin.`,
		Example: `  layoutdsl interpret -e "layout graph style tree"
  layoutdsl interpret layout.txt --json
  echo "layout subgraph {1, 2} planarity" | layoutdsl interpret`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInterpret(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.expr, "expr", "e", "", "interpret this source instead of a file")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")

	return cmd
}

func (c *CLI) runInterpret(cmd *cobra.Command, args []string, opts interpretOpts) error {
	ctx := cmd.Context()
	src, name, err := c.readSource(args, opts.expr)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}
	cfg, err := c.config()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spin := newSpinner(ctx, uiOut, !opts.json)
	spin.start()
	defer spin.stop()
	prog := newProgress(loggerFromContext(ctx))

	spin.stage("Interpreting %s", name)
	res, hit, err := runner.InterpretWithCacheInfo(ctx, pipeline.Options{
		Source:   src,
		Filename: name,
		Refresh:  opts.refresh,
	})
	if err != nil {
		spin.fail(err)
		return err
	}
	spin.stop()
	prog.stage("interpret", "form", res.Form(), "directives", len(res.Directives()), "cached", hit)

	if opts.json {
		data, err := layout.MarshalResult(res)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.stdout, string(data))
	} else {
		fmt.Fprintln(c.stdout, directiveTable(res))
		printStats(res.Form(), len(res.Directives()), hit)
	}

	if res.Form() == layout.FormError {
		return errInterpretation
	}
	return nil
}

// Reported reports whether err has already been shown to the user.
func Reported(err error) bool {
	return errors.Is(err, errInterpretation)
}

// PrintError prints err to stderr in the CLI's error style.
func PrintError(err error) {
	fmt.Fprintln(os.Stderr, styleIconError.Render(iconError)+" "+StyleError.Render(err.Error()))
}
