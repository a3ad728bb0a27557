/*
© 2026–present the gosubprocess authors
ISC License
*/

package subprocess

import (
	"os"
	"time"

	"github.com/gosubprocess/gosubprocess/spid"
)

// Job groups the stages of a pipeline (or a single Process, via [NewJob])
// so they can be waited on, signaled and torn down together through one
// handle.
//   - pipe-end fields are declared before stages: [Job.Close] releases
//     them first, since closing the write end of a pipe a still-running
//     process reads from is what delivers it EOF
type Job struct {
	stdinW  *os.File // write end of the first stage's stdin, or nil
	stdoutR *os.File // read end of the last stage's stdout, or nil
	stderrR *os.File // read end of the pipeline-wide shared stderr, or nil

	stages  []*Process
	checked bool
}

// NewJob wraps a single Process, e.g. the result of [Spawn], in a Job.
func NewJob(proc *Process) (job *Job) {
	return &Job{
		stdinW:  proc.takeStdinW(),
		stdoutR: proc.takeStdoutR(),
		stderrR: proc.takeStderrR(),
		stages:  []*Process{proc},
	}
}

// newJob wraps an already-spawned, already-chained pipeline. stderrR, if
// non-nil, is the pipeline-wide shared stderr's parent-side read end. An
// empty stages denotes a no-op pipeline: the Job then has no boundary
// pipes of its own.
func newJob(stages []*Process, stderrR *os.File) (job *Job) {
	job = &Job{stderrR: stderrR, stages: stages}
	if len(stages) > 0 {
		job.stdinW = stages[0].takeStdinW()
		job.stdoutR = stages[len(stages)-1].takeStdoutR()
	}
	return
}

// Checked sets whether Join/Capture report a non-zero final exit status
// as *[ErrCommandFailed] instead of a nil error. Returns j for chaining.
func (j *Job) Checked(checked bool) (job *Job) {
	j.checked = checked
	return j
}

// Communicator builds a Communicator over this Job's external pipe ends
// (first stage's stdin, last stage's stdout, shared stderr), transferring
// ownership: after this call the Job no longer closes them itself.
func (j *Job) Communicator(input []byte) (c *Communicator) {
	c = NewCommunicator(j.stdinW, j.stdoutR, j.stderrR, input)
	j.stdinW, j.stdoutR, j.stderrR = nil, nil, nil
	return
}

// Pids returns the PID of every stage, in order.
func (j *Job) Pids() (pids []spid.Pid) {
	pids = make([]spid.Pid, len(j.stages))
	for i, p := range j.stages {
		pids[i] = p.Pid()
	}
	return
}

// PollAll performs a non-blocking Poll on every stage.
func (j *Job) PollAll() (statuses []ExitStatus, allExited bool) {
	statuses = make([]ExitStatus, len(j.stages))
	allExited = true
	for i, p := range j.stages {
		var exited bool
		if statuses[i], exited = p.Poll(); !exited {
			allExited = false
		}
	}
	return
}

// WaitAll blocks until every stage has exited, returning the last stage's
// ExitStatus as the pipeline's overall result — matching shell pipeline
// exit-status convention. A Job with no stages (an empty pipeline)
// succeeds immediately.
func (j *Job) WaitAll() (status ExitStatus) {
	status = ExitStatus{Kind: ExitKindExited, Code: 0}
	for _, p := range j.stages {
		status = p.Wait()
	}
	return
}

// WaitTimeoutAll blocks until every stage has exited or d elapses overall.
// A Job with no stages (an empty pipeline) succeeds immediately.
func (j *Job) WaitTimeoutAll(d time.Duration) (status ExitStatus, allExited bool) {
	status = ExitStatus{Kind: ExitKindExited, Code: 0}
	allExited = true
	var deadline = time.Now().Add(d)
	for _, p := range j.stages {
		var remaining = time.Until(deadline)
		if remaining < 0 {
			remaining = 0
		}
		var exited bool
		if status, exited = p.WaitTimeout(remaining); !exited {
			return status, false
		}
	}
	return status, true
}

// DetachAll marks every stage detached, so Close/Join won't block on them.
func (j *Job) DetachAll() {
	for _, p := range j.stages {
		p.Detach()
	}
}

// TerminateAll sends the platform graceful-stop signal to every stage
// individually (not as a group — see [Job.SendSignalGroup] on Unix).
func (j *Job) TerminateAll() (err error) {
	for _, p := range j.stages {
		if e := p.Terminate(); e != nil {
			err = appendErr(err, e)
		}
	}
	return
}

// KillAll forcibly kills every stage.
func (j *Job) KillAll() (err error) {
	for _, p := range j.stages {
		if e := p.Kill(); e != nil {
			err = appendErr(err, e)
		}
	}
	return
}

// Join closes the Job's remaining pipe ends (delivering EOF to a
// still-running first stage, unblocking a still-draining last stage) and
// waits for every stage. In checked mode, a non-zero final exit status is
// reported as *[ErrCommandFailed].
func (j *Job) Join() (status ExitStatus, err error) {
	j.closePipes()
	status = j.WaitAll()
	if j.checked && !status.Success() {
		err = &ErrCommandFailed{Status: status}
	}
	return
}

// Capture drains the Job's output pipes to completion via a Communicator
// (no stdin data), then Joins. In checked mode, a non-zero final exit
// status is reported as *[ErrCommandFailed], aggregated with any drain
// error.
func (j *Job) Capture() (stdout, stderr []byte, status ExitStatus, err error) {
	var comm = j.Communicator(nil)
	for {
		var outChunk, errChunk []byte
		var readErr error
		if outChunk, errChunk, readErr = comm.Read(); readErr != nil {
			err = readErr
			break
		}
		stdout = append(stdout, outChunk...)
		stderr = append(stderr, errChunk...)
		if comm.allDone() {
			break
		}
	}
	var joinStatus, joinErr = j.Join()
	status = joinStatus
	err = appendErr(err, joinErr)
	return
}

// Close releases the Job's pipe ends, then closes every stage (subject to
// each Process's own detached flag).
func (j *Job) Close() (err error) {
	j.closePipes()
	for _, p := range j.stages {
		if e := p.Close(); e != nil {
			err = appendErr(err, e)
		}
	}
	return
}

func (j *Job) closePipes() {
	if j.stdinW != nil {
		_ = j.stdinW.Close()
		j.stdinW = nil
	}
	if j.stdoutR != nil {
		_ = j.stdoutR.Close()
		j.stdoutR = nil
	}
	if j.stderrR != nil {
		_ = j.stderrR.Close()
		j.stderrR = nil
	}
}
