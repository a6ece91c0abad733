package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/janisto/huma-fargate/internal/platform/logging"
)

type step struct {
	name string
	// reached is recorded once run returns without error.
	reached State
	run     func(ctx context.Context, r *Result) error
}

func (p *Pipeline) steps() []step {
	return []step{
		{"checkout", CheckedOut, p.checkout},
		{"login", AuthenticatedToRegistry, p.login},
		{"build", ImageBuilt, p.build},
		{"tag", ImageTagged, p.tag},
		{"push", ImagePushed, p.push},
		{"deploy", DeploymentUpdated, p.deploy},
		{"wait", Stabilized, p.wait},
	}
}

func (p *Pipeline) checkout(ctx context.Context, r *Result) error {
	out, err := p.exec(ctx, Command{Name: "git", Args: []string{"rev-parse", "HEAD"}})
	if err != nil {
		return err
	}
	r.Commit = strings.TrimSpace(string(out))
	if r.Commit == "" {
		return errors.New("git rev-parse returned an empty commit")
	}
	r.Tag = p.cfg.ImageTag
	if r.Tag == "" {
		r.Tag = r.Commit
	}
	r.Image = p.cfg.ImageURI(r.Tag)
	logging.LogInfo(ctx, "resolved commit", zap.String("commit", r.Commit), zap.String("tag", r.Tag))
	return nil
}

func (p *Pipeline) login(ctx context.Context, _ *Result) error {
	password, err := p.exec(ctx, Command{
		Name: "aws",
		Args: []string{"ecr", "get-login-password", "--region", p.cfg.Region},
	})
	if err != nil {
		return err
	}
	_, err = p.exec(ctx, Command{
		Name:  "docker",
		Args:  []string{"login", "--username", "AWS", "--password-stdin", p.cfg.Registry()},
		Stdin: password,
	})
	return err
}

func (p *Pipeline) build(ctx context.Context, r *Result) error {
	_, err := p.exec(ctx, Command{
		Name: "docker",
		Args: []string{
			"build",
			"-t", p.cfg.LocalImage(r.Tag),
			"-f", p.cfg.Dockerfile,
			"--build-arg", "VERSION=" + r.Tag,
			p.cfg.BuildContext,
		},
	})
	return err
}

func (p *Pipeline) tag(ctx context.Context, r *Result) error {
	for _, target := range p.publishedRefs(r) {
		if _, err := p.exec(ctx, Command{
			Name: "docker",
			Args: []string{"tag", p.cfg.LocalImage(r.Tag), target},
		}); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) push(ctx context.Context, r *Result) error {
	for _, target := range p.publishedRefs(r) {
		if _, err := p.exec(ctx, Command{Name: "docker", Args: []string{"push", target}}); err != nil {
			return err
		}
	}
	r.PushedImage = r.Image
	return nil
}

func (p *Pipeline) publishedRefs(r *Result) []string {
	refs := []string{r.Image}
	if r.Tag != "latest" {
		refs = append(refs, p.cfg.ImageURI("latest"))
	}
	return refs
}

func (p *Pipeline) deploy(ctx context.Context, r *Result) error {
	raw, err := os.ReadFile(p.cfg.TaskDefinition)
	if err != nil {
		return fmt.Errorf("read task definition: %w", err)
	}
	rendered, err := RenderTaskDefinition(raw, p.cfg.ContainerName, r.PushedImage)
	if err != nil {
		return err
	}
	r.DeployedImage = containerImage(rendered, p.cfg.ContainerName)

	out, err := p.exec(ctx, Command{
		Name: "aws",
		Args: []string{
			"ecs", "register-task-definition",
			"--region", p.cfg.Region,
			"--cli-input-json", string(rendered),
			"--output", "json",
		},
	})
	if err != nil {
		return err
	}
	if r.TaskDefinitionARN, err = parseRegisteredARN(out); err != nil {
		return err
	}
	logging.LogInfo(ctx, "registered task definition", zap.String("taskDefinitionArn", r.TaskDefinitionARN))

	_, err = p.exec(ctx, Command{
		Name: "aws",
		Args: []string{
			"ecs", "update-service",
			"--region", p.cfg.Region,
			"--cluster", p.cfg.Cluster,
			"--service", p.cfg.Service,
			"--task-definition", r.TaskDefinitionARN,
			"--no-cli-pager",
		},
	})
	return err
}

func (p *Pipeline) wait(ctx context.Context, _ *Result) error {
	_, err := p.exec(ctx, Command{
		Name: "aws",
		Args: []string{
			"ecs", "wait", "services-stable",
			"--region", p.cfg.Region,
			"--cluster", p.cfg.Cluster,
			"--services", p.cfg.Service,
		},
	})
	return err
}

// exec logs the command line at debug level and runs it. Stdin is never logged.
func (p *Pipeline) exec(ctx context.Context, c Command) ([]byte, error) {
	logging.LogDebug(ctx, "running command", zap.String("command", c.String()))
	return p.runner.Run(ctx, c)
}
