package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/janisto/huma-fargate/internal/pipeline"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the commands a run would execute",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		p := pipeline.New(cfg, pipeline.DryRunner{Out: cmd.OutOrStdout()}, zap.NewNop())
		_, err = p.Run(cmd.Context())
		return err
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
}
