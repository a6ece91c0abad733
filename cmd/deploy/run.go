package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/janisto/huma-fargate/internal/pipeline"
	"github.com/janisto/huma-fargate/internal/platform/logging"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the delivery pipeline",
	Long: `Run checks out the commit, logs in to ECR, builds, tags and pushes the
image, deploys it to the ECS service and waits for the service to stabilize.

The first failing step stops the run. Nothing is retried or rolled back.`,
	Args: cobra.NoArgs,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	p := pipeline.New(cfg, pipeline.ExecRunner{Output: cmd.ErrOrStderr()}, logging.Logger())
	res, err := p.Run(cmd.Context())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", res.State(), res.DeployedImage, res.TaskDefinitionARN)
	return err
}
