/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package hostexec runs external host commands and captures their outcome.
package hostexec

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"

	kexec "k8s.io/utils/exec"
)

// Result is the outcome of one command invocation: exit code plus captured
// stdout and stderr, split into lines. A command that could not be started
// at all (missing binary, bad argv) is collapsed to exit code 1 with no
// output, so callers see a single failure shape.
type Result struct {
	ExitCode int
	Stdout   []string
	Stderr   []string
}

// Failed reports whether the command exited non-zero.
func (r Result) Failed() bool {
	return r.ExitCode != 0
}

// FirstLine returns the first stdout line, or "" when there is none.
func (r Result) FirstLine() string {
	if len(r.Stdout) == 0 {
		return ""
	}
	return r.Stdout[0]
}

// Runner executes commands synchronously. The zero value is not usable;
// construct with New or NewWithExec.
type Runner struct {
	exec kexec.Interface
}

// New returns a Runner backed by the real OS exec.
func New() *Runner {
	return &Runner{exec: kexec.New()}
}

// NewWithExec returns a Runner over a caller-supplied exec implementation.
// Tests pass a scripted fake here.
func NewWithExec(e kexec.Interface) *Runner {
	return &Runner{exec: e}
}

// Run executes name with args directly, without shell interpretation.
func (r *Runner) Run(ctx context.Context, name string, args ...string) Result {
	return r.run(ctx, name, args)
}

// RunShell executes cmdline through /bin/sh -c.
func (r *Runner) RunShell(ctx context.Context, cmdline string) Result {
	return r.run(ctx, "/bin/sh", []string{"-c", cmdline})
}

func (r *Runner) run(ctx context.Context, name string, args []string) Result {
	var stdout, stderr bytes.Buffer
	cmd := r.exec.CommandContext(ctx, name, args...)
	cmd.SetStdout(&stdout)
	cmd.SetStderr(&stderr)

	slog.Debug("running command",
		slog.String("cmd", name),
		slog.String("args", strings.Join(args, " ")),
	)

	err := cmd.Run()
	res := Result{
		Stdout: splitLines(stdout.String()),
		Stderr: splitLines(stderr.String()),
	}
	if err != nil {
		var exitErr kexec.ExitError
		if !errors.As(err, &exitErr) {
			slog.Debug("command failed to start",
				slog.String("cmd", name),
				slog.String("error", err.Error()),
			)
			return Result{ExitCode: 1}
		}
		res.ExitCode = exitErr.ExitStatus()
	}

	slog.Debug("command finished", slog.String("cmd", name), slog.Int("rc", res.ExitCode))
	return res
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
