package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roadwise/roadwise/config"
	"github.com/roadwise/roadwise/constants"
	"github.com/roadwise/roadwise/core"
	"github.com/roadwise/roadwise/temporal"
	"github.com/roadwise/roadwise/utils"
)

var (
	configPath string
	profile    string
	debug      bool
	at         string
)

// NewRootCmd creates the root 'roadwise' command with persistent flags and subcommands.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "roadwise",
		Short:        "Road accident risk assessment",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath, "Path to roadwise config (JSON or YAML)")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", constants.ProfileDevelopment, "Configuration profile")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logs")
	rootCmd.PersistentFlags().StringVar(&at, "at", "", "Evaluate time-dependent rules at this RFC 3339 time")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if debug {
			_ = os.Setenv(constants.EnvDebug, "1")
		}
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newPredictCmd(),
		newLicenseCmd(),
		newRouteCmd(),
		newWeatherCmd(),
	)
	return rootCmd
}

// openApp builds the application for the selected profile and config file.
func openApp(ctx context.Context) (*core.App, error) {
	cfg, err := config.Load(profile, configPath)
	if err != nil {
		return nil, err
	}
	app, err := core.NewApp(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if at != "" {
		t, err := time.Parse(time.RFC3339, at)
		if err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("invalid --at time: %w", err)
		}
		app.SetClock(temporal.FixedClock(t))
	}
	return app, nil
}

// withService runs fn against a freshly built application and closes it.
func withService(cmd *cobra.Command, fn func(ctx context.Context, svc *core.Service) (any, error)) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	out, err := fn(ctx, app.Service())
	if err != nil {
		return err
	}
	return printJSON(out)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	utils.User("%s", data)
	return nil
}
