package pipeline

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid"
	"go.uber.org/zap"

	"github.com/janisto/huma-fargate/internal/platform/logging"
)

// Result is the record of one pipeline run.
type Result struct {
	ID     string
	Commit string
	Tag    string
	// Image is the registry reference this run publishes and deploys.
	Image             string
	PushedImage       string
	DeployedImage     string
	TaskDefinitionARN string
	// States lists every state reached, starting with Triggered.
	States []State
	// FailedStep is empty unless the run ended in Failed.
	FailedStep string
}

// State returns the last recorded state.
func (r *Result) State() State {
	if len(r.States) == 0 {
		return Triggered
	}
	return r.States[len(r.States)-1]
}

// StepError reports the step that failed and the state reached before it.
type StepError struct {
	Step  string
	State State
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s failed after %s: %v", e.Step, e.State, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Pipeline runs the delivery steps in order. It never retries a step and
// never rolls back a deployment.
type Pipeline struct {
	cfg    Config
	runner Runner
	logger *zap.Logger
}

// New returns a Pipeline. A nil logger falls back to the process logger.
func New(cfg Config, runner Runner, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = logging.Logger()
	}
	return &Pipeline{cfg: cfg, runner: runner, logger: logger}
}

// Run executes every step until one fails or the service is stable. The
// returned Result is never nil once configuration is valid.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	if err := p.cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Result{ID: newRunID(), States: []State{Triggered}}
	logger := p.logger.With(
		zap.String("runId", r.ID),
		zap.String("cluster", p.cfg.Cluster),
		zap.String("service", p.cfg.Service),
	)
	ctx = logging.WithLogger(ctx, logger)
	logging.LogInfo(ctx, "pipeline triggered", zap.String("registry", p.cfg.Registry()))

	for _, s := range p.steps() {
		started := time.Now()
		err := ctx.Err()
		if err == nil {
			err = s.run(ctx, r)
		}
		if err != nil {
			stepErr := &StepError{Step: s.name, State: r.State(), Err: err}
			r.FailedStep = s.name
			r.States = append(r.States, Failed)
			logging.LogError(ctx, "pipeline failed", err,
				zap.String("step", s.name),
				zap.Stringer("lastState", stepErr.State),
			)
			return r, stepErr
		}
		r.States = append(r.States, s.reached)
		logging.LogInfo(ctx, "step completed",
			zap.String("step", s.name),
			zap.Stringer("state", s.reached),
			zap.Duration("duration", time.Since(started)),
		)
	}

	logging.LogInfo(ctx, "deployment stable",
		zap.String("image", r.DeployedImage),
		zap.String("taskDefinitionArn", r.TaskDefinitionARN),
	)
	return r, nil
}

func newRunID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}
