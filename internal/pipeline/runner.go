package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// Command is a single external program invocation.
type Command struct {
	Name  string
	Args  []string
	Dir   string
	Stdin []byte
}

// String renders the command line. Stdin is never included.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Name)
	for _, a := range c.Args {
		if a == "" || strings.ContainsAny(a, " \t\n\"'{}") {
			a = fmt.Sprintf("%q", a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

const waitDelay = 2 * time.Second

// Runner executes commands and returns their standard output.
type Runner interface {
	Run(ctx context.Context, cmd Command) ([]byte, error)
}

// ExecRunner runs commands as child processes. The process is killed when
// ctx is done.
type ExecRunner struct {
	// Output, when set, receives a copy of the child's stderr as it runs.
	Output io.Writer
}

func (r ExecRunner) Run(ctx context.Context, c Command) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	// Grandchildren can hold the output pipes open after the child is killed.
	cmd.WaitDelay = waitDelay
	if c.Stdin != nil {
		cmd.Stdin = bytes.NewReader(c.Stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if r.Output != nil {
		cmd.Stderr = io.MultiWriter(&stderr, r.Output)
	}

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return stdout.Bytes(), fmt.Errorf("%s: %w", c.Name, ctxErr)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return stdout.Bytes(), fmt.Errorf("%s: %w: %s", c.Name, err, lastLine(msg))
		}
		return stdout.Bytes(), fmt.Errorf("%s: %w", c.Name, err)
	}
	return stdout.Bytes(), nil
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// DryRunner writes each command to Out instead of executing it and answers
// with placeholder output, so a dry run walks the same steps as a real one.
type DryRunner struct {
	Out io.Writer
}

const (
	dryRunCommit = "<commit-sha>"
	dryRunARN    = "<registered-task-definition-arn>"
)

func (r DryRunner) Run(_ context.Context, c Command) ([]byte, error) {
	if _, err := fmt.Fprintln(r.Out, c.String()); err != nil {
		return nil, err
	}
	switch {
	case c.Name == "git" && len(c.Args) > 0 && c.Args[0] == "rev-parse":
		return []byte(dryRunCommit + "\n"), nil
	case c.Name == "aws" && len(c.Args) > 1 && c.Args[1] == "register-task-definition":
		return []byte(`{"taskDefinition":{"taskDefinitionArn":"` + dryRunARN + `"}}`), nil
	case c.Name == "aws" && len(c.Args) > 1 && c.Args[1] == "get-login-password":
		return []byte("<password>"), nil
	}
	return nil, nil
}
