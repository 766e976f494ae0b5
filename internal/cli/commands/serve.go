package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/SDen99/DatasetViewer-sub000/internal/server"
	"github.com/spf13/cobra"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port  int
	Watch bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve [define.xml]...",
		Short: "Serve loaded Define-XML documents over a JSON API",
		Long: `Start a local HTTP server exposing Define-XML documents as a JSON API.

The API provides:
- Sessions: list, upload, reload and unload documents
- Dataset listings per session
- Materialized value-level metadata tables
- Cell explanations
- Server-sent reload events
- Prometheus metrics at /metrics

Files given on the command line are loaded before the server starts. With
--watch, they are reloaded when they change on disk.`,
		Example: `  # Serve a define on the default port
  defineview serve define.xml

  # Serve on a custom port without watching
  defineview serve define.xml --port 3000 --watch=false`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, args, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Reload files when they change")

	return cmd
}

func runServe(cmd *cobra.Command, args []string, opts *ServeOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	// CLI flags override config file
	serveCfg := cmdCtx.Cfg.GetServeConfig()
	port := serveCfg.Port
	if opts.Port != 0 {
		port = opts.Port
	}
	watch := serveCfg.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := cmdCtx.LoadAll(ctx, args); err != nil {
		return err
	}

	srv := server.New(server.Config{
		Engine: cmdCtx.Engine,
		Port:   port,
		Watch:  watch,
		Logger: cmdCtx.Logger,
	})

	r := cmdCtx.Renderer
	r.Printf("Serving %d documents on http://localhost:%d\n", len(args), port)
	r.Println("Press Ctrl+C to stop")

	if err := srv.Serve(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
