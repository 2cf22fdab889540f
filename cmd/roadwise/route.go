package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roadwise/roadwise/core"
)

// newRouteCmd creates the 'route' command group.
func newRouteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "route",
		Short: "Analyze trips",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "analyze <source> <destination>",
		Short: "Derive road, traffic and weather conditions between two places",
		Long:  "Places are names to geocode or \"lat,lon\" coordinates.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, svc *core.Service) (any, error) {
				return svc.AnalyzeRoute(ctx, args[0], args[1])
			})
		},
	})
	return cmd
}
