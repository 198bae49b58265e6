package kaggle

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Executor runs an external program to completion.
// A non-nil error means the program could not be started or waited on;
// a program that ran and exited non-zero is reported through Result.ExitCode.
type Executor interface {
	Execute(ctx context.Context, name string, args []string) (Result, error)
}

// Result describes a finished subprocess.
type Result struct {
	Name     string
	Args     []string
	ExitCode int
	Stderr   string
}

// Command renders the invocation for display, quoting arguments that need it.
func (r Result) Command() string {
	parts := make([]string, 0, len(r.Args)+1)
	parts = append(parts, quoteArg(r.Name))
	for _, a := range r.Args {
		parts = append(parts, quoteArg(a))
	}
	return strings.Join(parts, " ")
}

func quoteArg(s string) string {
	if s == "" {
		return "''"
	}
	if strings.ContainsAny(s, " \t\n'\"\\$`*?[]{}()<>|&;#~") {
		return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
	}
	return s
}

// ExitError is returned when the subprocess ran but exited non-zero.
type ExitError struct {
	Result Result
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Result.Name, e.Result.ExitCode)
	if stderr := strings.TrimSpace(e.Result.Stderr); stderr != "" {
		msg += ": " + lastLine(stderr)
	}
	return msg
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// ExecRunner is the os/exec Executor. The program is started directly with
// a discrete argument vector, never through a shell.
type ExecRunner struct {
	Env    []string  // Extra KEY=VALUE pairs appended to the inherited environment
	Stdout io.Writer // Defaults to discarding output
}

// Execute implements Executor.
func (r *ExecRunner) Execute(ctx context.Context, name string, args []string) (Result, error) {
	res := Result{Name: name, Args: append([]string(nil), args...), ExitCode: -1}

	cmd := exec.CommandContext(ctx, name, args...)
	if len(r.Env) > 0 {
		cmd.Env = append(cmd.Environ(), r.Env...)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if r.Stdout != nil {
		cmd.Stdout = r.Stdout
	}

	err := cmd.Run()
	res.Stderr = stderr.String()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.ExitCode = 0
		return res, nil
	case errors.As(err, &exitErr) && exitErr.ExitCode() >= 0:
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	case ctx.Err() != nil:
		return res, fmt.Errorf("%s canceled: %w", name, ctx.Err())
	default:
		return res, fmt.Errorf("failed to run %s: %w", name, err)
	}
}

var _ Executor = (*ExecRunner)(nil)
