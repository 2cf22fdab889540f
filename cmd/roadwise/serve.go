package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	rwhttp "github.com/roadwise/roadwise/http"
)

// newServeCmd creates the 'serve' subcommand.
func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the roadwise HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			if addr == "" {
				addr = fmt.Sprintf("%s:%d", app.Config().HTTP.Host, app.Config().HTTP.Port)
			}
			return rwhttp.StartServer(ctx, addr, app)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to http.host:http.port from the config)")
	return cmd
}
