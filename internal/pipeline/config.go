package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// ErrMissingConfig is returned when required settings are absent.
var ErrMissingConfig = errors.New("missing required configuration")

// Config describes where the image is built, published and deployed.
type Config struct {
	Region         string `envconfig:"AWS_REGION"`
	AccountID      string `envconfig:"AWS_ACCOUNT_ID"`
	Repository     string `envconfig:"ECR_REPOSITORY"`
	Cluster        string `envconfig:"ECS_CLUSTER"`
	Service        string `envconfig:"ECS_SERVICE"`
	TaskDefinition string `envconfig:"ECS_TASK_DEFINITION" default:"task-definition.json"`
	ContainerName  string `envconfig:"CONTAINER_NAME"`
	ImageTag       string `envconfig:"IMAGE_TAG"`
	BuildContext   string `envconfig:"BUILD_CONTEXT" default:"."`
	Dockerfile     string `envconfig:"DOCKERFILE" default:"Dockerfile"`

	// CommitSHA is set by GitHub Actions and used as the tag when ImageTag is empty.
	CommitSHA string `envconfig:"GITHUB_SHA"`
}

// LoadConfig reads Config from the environment. It does not validate, so
// callers can apply overrides first.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load pipeline config: %w", err)
	}
	if cfg.ImageTag == "" {
		cfg.ImageTag = cfg.CommitSHA
	}
	return cfg, nil
}

// Validate returns ErrMissingConfig naming every required variable that is empty.
func (c Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"AWS_REGION", c.Region},
		{"AWS_ACCOUNT_ID", c.AccountID},
		{"ECR_REPOSITORY", c.Repository},
		{"ECS_CLUSTER", c.Cluster},
		{"ECS_SERVICE", c.Service},
		{"ECS_TASK_DEFINITION", c.TaskDefinition},
		{"CONTAINER_NAME", c.ContainerName},
		{"BUILD_CONTEXT", c.BuildContext},
		{"DOCKERFILE", c.Dockerfile},
	}
	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}
	return nil
}

// Registry returns the private ECR registry host for the account and region.
func (c Config) Registry() string {
	return fmt.Sprintf("%s.dkr.ecr.%s.amazonaws.com", c.AccountID, c.Region)
}

// LocalImage is the reference docker build tags the image with.
func (c Config) LocalImage(tag string) string {
	return c.Repository + ":" + tag
}

// ImageURI is the fully qualified registry reference for tag.
func (c Config) ImageURI(tag string) string {
	return c.Registry() + "/" + c.Repository + ":" + tag
}
