package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultTimeout bounds every external tool invocation.
const DefaultTimeout = 60 * time.Second

var log = logrus.WithField("component", "tools")

// Result is the outcome of one external tool invocation.
type Result struct {
	Success  bool
	Stdout   string
	Stderr   string
	ExitCode int
	TimedOut bool
}

// Runner checks for and runs external binaries.
type Runner interface {
	// Available reports whether name can be found on the search path.
	Available(name string) bool
	// Run executes name with args in dir ("" for the current directory).
	// Failures, including timeouts and missing binaries, are reported in the
	// Result rather than as errors.
	Run(ctx context.Context, dir, name string, args ...string) Result
}

// Compile-time check.
var _ Runner = (*ExecRunner)(nil)

// ExecRunner runs binaries through os/exec with a per-invocation timeout.
type ExecRunner struct {
	Timeout time.Duration
}

// NewExecRunner returns a runner bounded by timeout, or DefaultTimeout when
// timeout is not positive.
func NewExecRunner(timeout time.Duration) *ExecRunner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ExecRunner{Timeout: timeout}
}

func (r *ExecRunner) Available(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) Result {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()

	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	entry := log.WithFields(logrus.Fields{
		"cmd":      strings.TrimSpace(name + " " + strings.Join(args, " ")),
		"duration": time.Since(start).Round(time.Millisecond),
	})

	if ctx.Err() == context.DeadlineExceeded {
		res.TimedOut = true
		res.ExitCode = -1
		res.Stderr = fmt.Sprintf("command timed out after %v", timeout)
		entry.Warn("external tool timed out")
		return res
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.ExitCode = -1
			if res.Stderr == "" {
				res.Stderr = err.Error()
			}
		}
		entry.WithField("exit", res.ExitCode).Debug("external tool failed")
		return res
	}

	res.Success = true
	entry.Debug("external tool finished")
	return res
}
