package cli

import (
	"cmp"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gitgraph/pkg/cache"
	"github.com/matzehuels/gitgraph/pkg/server"
)

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		port     int
		allowAll bool
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve interactive graph views over HTTP",
		Long: `Serve interactive graph views over HTTP.

Clients post a graph payload (or a GitHub repository) to /api/views and
drive the view with toggle and click events. See the server package
documentation for the full route list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.cfg

			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("allow-all-origins") {
				cfg.Server.AllowAllOrigins = allowAll
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(server.Config{
				Port:            cfg.Server.Port,
				AllowAllOrigins: cfg.Server.AllowAllOrigins,
				AllowedOrigins:  cfg.Server.AllowedOrigins,
				RequestTimeout:  cfg.Server.RequestTimeout,
				ViewIdleTimeout: cfg.Server.ViewIdleTimeout,
				Layout:          cfg.LayoutOptions(),
				Policy:          cfg.Policy(),
				Exclude:         cfg.Source.Exclude,
				GitHubToken:     cfg.GitHub.Token,
			}, runner, c.Logger)

			p := printer{w: cmd.ErrOrStderr()}
			p.info("Listening on %s", StyleValue.Render("http://localhost"+srv.Addr()))
			p.keyValue("Policy", string(cfg.Policy()))
			p.keyValue("Cache", cmp.Or(cfg.Cache.Backend, cache.BackendFile))
			return srv.Run(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", server.DefaultPort, "listen port (default from config)")
	cmd.Flags().BoolVar(&allowAll, "allow-all-origins", false, "allow cross-origin requests from any origin")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}
