package main

import (
	"github.com/spf13/cobra"

	"github.com/janisto/huma-fargate/internal/pipeline"
	"github.com/janisto/huma-fargate/internal/platform/config"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

var overrides pipeline.Config

var rootCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Build, publish and roll out the greeting service",
	Long: `deploy builds the service container image, pushes it to Amazon ECR,
registers a task definition revision that references it and updates the ECS
service, then waits until the service is stable.

Settings are read from the environment (and an optional .env file). Flags
take precedence over the environment.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&overrides.Region, "region", "", "AWS region (AWS_REGION)")
	f.StringVar(&overrides.AccountID, "account-id", "", "AWS account id owning the registry (AWS_ACCOUNT_ID)")
	f.StringVar(&overrides.Repository, "repository", "", "ECR repository name (ECR_REPOSITORY)")
	f.StringVar(&overrides.Cluster, "cluster", "", "ECS cluster (ECS_CLUSTER)")
	f.StringVar(&overrides.Service, "service", "", "ECS service (ECS_SERVICE)")
	f.StringVar(&overrides.TaskDefinition, "task-definition", "", "task definition JSON file (ECS_TASK_DEFINITION)")
	f.StringVar(&overrides.ContainerName, "container", "", "container to receive the new image (CONTAINER_NAME)")
	f.StringVar(&overrides.ImageTag, "tag", "", "image tag, defaults to the commit SHA (IMAGE_TAG)")
	f.StringVar(&overrides.BuildContext, "context", "", "docker build context (BUILD_CONTEXT)")
	f.StringVar(&overrides.Dockerfile, "dockerfile", "", "Dockerfile path (DOCKERFILE)")
}

// loadConfig merges the environment with flags set on the command line.
func loadConfig(cmd *cobra.Command) (pipeline.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return pipeline.Config{}, err
	}
	cfg, err := pipeline.LoadConfig()
	if err != nil {
		return pipeline.Config{}, err
	}
	flags := cmd.Flags()
	for name, dst := range map[string]*string{
		"region":          &cfg.Region,
		"account-id":      &cfg.AccountID,
		"repository":      &cfg.Repository,
		"cluster":         &cfg.Cluster,
		"service":         &cfg.Service,
		"task-definition": &cfg.TaskDefinition,
		"container":       &cfg.ContainerName,
		"tag":             &cfg.ImageTag,
		"context":         &cfg.BuildContext,
		"dockerfile":      &cfg.Dockerfile,
	} {
		if flags.Changed(name) {
			v, _ := flags.GetString(name)
			*dst = v
		}
	}
	return cfg, cfg.Validate()
}
