package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roadwise/roadwise/core"
	"github.com/roadwise/roadwise/form"
)

// newPredictCmd creates the 'predict' subcommand. The form is read from a
// JSON or YAML file, or from stdin when the argument is "-".
func newPredictCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "predict <form.yaml|->",
		Short: "Assess the accident risk of a trip form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var err error
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}
			in, err := form.Decode(data)
			if err != nil {
				return err
			}
			return withService(cmd, func(ctx context.Context, svc *core.Service) (any, error) {
				return svc.Predict(ctx, in)
			})
		},
	}
}
