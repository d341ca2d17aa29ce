package cli

import (
	"context"
	"errors"
	"time"

	"github.com/rshade/mindtool/internal/api"
	"github.com/rshade/mindtool/internal/logging"
)

// ExitCodeIncompatible is returned by `version --check` when the server is outside
// the supported range.
const ExitCodeIncompatible = 3

// ExitError carries a specific process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by the command tree to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// commandRun records one command invocation for the debug log.
type commandRun struct {
	params  map[string]string
	start   time.Time
	command string
}

func newCommandRun(command string, params map[string]string) *commandRun {
	return &commandRun{
		params:  params,
		start:   time.Now(),
		command: command,
	}
}

// logFailure logs a failed invocation.
func (r *commandRun) logFailure(ctx context.Context, err error) {
	log := logging.FromContext(ctx)
	log.Error().Ctx(ctx).
		Str("operation", r.command).
		Interface("params", r.params).
		Dur("duration", time.Since(r.start)).
		Err(err).
		Msg("command failed")
}

// logSuccess logs a completed invocation with the number of records shown and the
// request outcomes seen by client.
func (r *commandRun) logSuccess(ctx context.Context, count int, client *api.Client) {
	log := logging.FromContext(ctx)
	event := log.Debug().Ctx(ctx).
		Str("operation", r.command).
		Interface("params", r.params).
		Int("count", count).
		Dur("duration", time.Since(r.start))
	if client != nil {
		if counts, err := client.Metrics().RequestCounts(); err == nil {
			event = event.Interface("requests", counts)
		}
	}
	event.Msg("command completed")
}
