package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roadwise/roadwise/core"
)

// newWeatherCmd creates the 'weather' subcommand.
func newWeatherCmd() *cobra.Command {
	var lat, lon float64
	cmd := &cobra.Command{
		Use:   "weather",
		Short: "Current conditions at a coordinate, mapped to form values",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, svc *core.Service) (any, error) {
				return svc.Weather(ctx, lat, lon)
			})
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	return cmd
}
