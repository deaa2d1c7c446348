package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/layoutdsl/pkg/server"
)

// serveOpts holds the flags of the serve command.
type serveOpts struct {
	addr    string
	noCache bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interpreter over HTTP",
		Long: `Serve the interpreter over HTTP.

Settings come from the config file, then from a .env file in the working
directory, then from LAYOUTDSL_* environment variables, then from flags.`,
		Example: `  layoutdsl serve --addr :9000
  LAYOUTDSL_CACHE_BACKEND=redis LAYOUTDSL_REDIS_ADDR=localhost:6379 layoutdsl serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	loadDotEnv(c.Logger)
	cfg, err := c.config()
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	st, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close(context.Background())
	}

	srv := server.New(cfg.Server, runner, st, c.Logger)
	printSuccess("layoutdsl API")
	printKeyValue("Listening", StyleLink.Render(listenURL(srv.Addr())))
	printKeyValue("Cache", cfg.Cache.Backend)
	printKeyValue("History", cfg.Store.Backend)
	return srv.ListenAndServe(ctx)
}

// listenURL turns a listen address into a URL a user can open.
func listenURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}
