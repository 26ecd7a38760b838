// Package exec runs external commands with bounded output and a
// distinguishable timeout, for driving the engine CLI.
package exec

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	osexec "os/exec"
	"time"
)

// ErrTimeout reports that the command was killed because its context
// deadline expired. Callers use it to classify a node as Timeout rather
// than Failed.
var ErrTimeout = errors.New("command timed out")

// Result captures one command invocation. A non-zero Code is not an error
// at this layer; callers decide what an engine's exit status means.
type Result struct {
	Stdout   string
	Stderr   string
	Code     int
	Duration time.Duration
}

// Runner executes commands with capped output buffers and extra environment
// entries layered over the parent process environment.
type Runner struct {
	MaxOutput int
	Env       map[string]string
}

// Run executes name with args under ctx. The returned error is ErrTimeout
// when the context deadline expired, ctx.Err() when it was cancelled, or a
// spawn/system error; engine-level failures arrive as Result.Code != 0 with
// a nil error.
func (r *Runner) Run(ctx context.Context, name string, args ...string) (*Result, error) {
	if name == "" {
		return nil, errors.New("command is required")
	}

	command := osexec.CommandContext(ctx, name, args...)
	command.Env = os.Environ()
	for k, v := range r.Env {
		command.Env = append(command.Env, k+"="+v)
	}

	stdout := &limitedBuffer{limit: r.MaxOutput}
	stderr := &limitedBuffer{limit: r.MaxOutput}
	command.Stdout = stdout
	command.Stderr = stderr

	start := time.Now()
	err := command.Run()
	res := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return res, ErrTimeout
		}
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		var exitErr *osexec.ExitError
		if errors.As(err, &exitErr) {
			res.Code = exitErr.ExitCode()
			return res, nil
		}
		return nil, err
	}
	return res, nil
}

// limitedBuffer drops writes past limit instead of growing without bound;
// engine output can be arbitrarily large.
type limitedBuffer struct {
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func (l *limitedBuffer) Write(p []byte) (int, error) {
	if l.limit <= 0 {
		return l.buf.Write(p)
	}
	remaining := l.limit - l.buf.Len()
	if remaining <= 0 {
		l.truncated = true
		return len(p), nil
	}
	if len(p) > remaining {
		l.truncated = true
		_, _ = l.buf.Write(p[:remaining])
		return len(p), nil
	}
	return l.buf.Write(p)
}

func (l *limitedBuffer) String() string {
	return l.buf.String()
}

var _ io.Writer = (*limitedBuffer)(nil)
