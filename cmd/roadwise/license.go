package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roadwise/roadwise/core"
)

// newLicenseCmd creates the 'license' command group.
func newLicenseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "license",
		Short: "Read driving licences",
	}
	cmd.AddCommand(newLicenseParseCmd(), newLicenseProcessCmd())
	return cmd
}

func newLicenseParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <text-file>",
		Short: "Parse licence fields from extracted text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			return withService(cmd, func(ctx context.Context, svc *core.Service) (any, error) {
				return svc.ParseLicense(string(text))
			})
		},
	}
}

func newLicenseProcessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process <image>",
		Short: "Store a licence image, extract its text and parse it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			return withService(cmd, func(ctx context.Context, svc *core.Service) (any, error) {
				return svc.ProcessLicense(ctx, filepath.Base(args[0]), http.DetectContentType(image), image)
			})
		},
	}
}
