/*
© 2026–present the gosubprocess authors
ISC License
*/

package subprocess

import (
	"errors"
	"fmt"

	"github.com/haraldrudell/parl/perrors"
)

// ErrArgsListEmpty is returned when a SpawnSpec has no argv.
var ErrArgsListEmpty = errors.New("args list empty")

// ErrMergeOnStdin is returned when stdin specifies RedirMerge.
var ErrMergeOnStdin = errors.New("merge redirection is not valid for stdin")

// ErrMergeBothOutputs is returned when both stdout and stderr specify
// RedirMerge: there would be nothing for either to merge into.
var ErrMergeBothOutputs = errors.New("stdout and stderr cannot both merge")

// ErrPipelineStdinSet is returned by NewPipeline when the first stage's
// SpawnSpec already specifies a stdin redirection: pipeline-level stdin
// binds there instead.
var ErrPipelineStdinSet = errors.New("pipeline first stage stdin already set")

// ErrPipelineStdoutSet is returned by NewPipeline when the last stage's
// SpawnSpec already specifies a stdout redirection: pipeline-level stdout
// binds there instead.
var ErrPipelineStdoutSet = errors.New("pipeline last stage stdout already set")

// ErrStageSetpgid is returned by NewPipeline when an individual stage
// requests setpgid while the pipeline itself requests group placement.
var ErrStageSetpgid = errors.New("stage may not request setpgid inside a group-requesting pipeline")

// ErrTimeout is returned by Communicator.Read when its time limit elapses
// before completion. Partial results, if any, are carried in the error.
type ErrTimeout struct {
	// Stdout holds any stdout bytes read before the deadline elapsed.
	Stdout []byte
	// Stderr holds any stderr bytes read before the deadline elapsed.
	Stderr []byte
}

func (e *ErrTimeout) Error() (s string) { return "subprocess: operation timed out" }

// ErrCommandFailed is returned by Job.Join / Job.Capture in checked mode
// when the chain's last stage exits with a non-zero ExitStatus.
type ErrCommandFailed struct {
	// Status is the exit status that triggered the failure.
	Status ExitStatus
}

func (e *ErrCommandFailed) Error() (s string) {
	return fmt.Sprintf("subprocess: command failed: %s", e.Status)
}

// wrapf builds a stack-traced, package-qualified error from format and a;
// a %w verb wraps an error argument. The result is always non-nil.
func wrapf(format string, a ...any) (err error) {
	return perrors.ErrorfPF(format, a...)
}

// appendErr aggregates err2 into err, returning a multi-error when both
// are non-nil.
func appendErr(err, err2 error) error { return perrors.AppendError(err, err2) }
