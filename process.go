/*
© 2026–present the gosubprocess authors
ISC License
*/

package subprocess

import (
	"errors"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/gosubprocess/gosubprocess/spid"
	"github.com/haraldrudell/parl"
)

// Process is a handle to one running or terminated child process.
//   - created by [Spawn], one per process
//   - PID is available as soon as Spawn returns successfully and remains
//     available after the child is reaped
//   - the Running→Finished lifecycle transition happens exactly once,
//     observed by [Process.Poll], [Process.Wait] and [Process.WaitTimeout]
//   - Go has no destructor: [Process.Close] is the explicit substitute,
//     blocking on a still-running, non-detached process and swallowing
//     its error, the way a destructor would. Callers should
//     `defer proc.Close()`
type Process struct {
	cmd  *exec.Cmd
	pid  spid.Pid
	pgid int

	// parent-side pipe ends, one per stream that was a Pipe redirection.
	// nil otherwise. Owned by this Process until handed to a
	// [Communicator] or chained into the next stage by [NewPipeline] and
	// closed there.
	stdinW  *os.File
	stdoutR *os.File
	stderrR *os.File

	// detached is read by Close; set at construction and by Detach.
	// Guarded by mu because Detach can race a concurrent Close.
	mu       sync.Mutex
	detached bool

	// done closes exactly once, by the reaper goroutine started in
	// Spawn, after the single underlying blocking wait completes. One
	// background wait per child, on every platform, observed here via a
	// channel close instead of a busy-poll loop.
	done parl.Awaitable
	// status is valid once done.IsClosed() is true.
	status ExitStatus
}

// reap performs the single blocking OS-level wait for this process and
// publishes the resulting ExitStatus. Started as a goroutine by Spawn
// immediately after a successful Start.
func (p *Process) reap() {
	var err = p.cmd.Wait()

	// ECHILD: another actor (another goroutine, a reaper, a language
	// runtime signal handler) already reaped this child out-of-band.
	if errors.Is(err, errECHILD) {
		p.status = ExitStatus{Kind: ExitKindUndetermined}
		p.done.Close()
		return
	}

	p.status = exitStatusFromWaitError(err)
	if parl.IsThisDebug() {
		parl.Debug("subprocess.Process.reap pid=%d status=%s", p.pid, p.status)
	}
	p.done.Close()
}

// Pid returns the child's process identifier. Always valid after a
// successful Spawn, even after the child has been reaped.
func (p *Process) Pid() (pid spid.Pid) { return p.pid }

// Pgid returns the process group this child was placed into by
// UnixOptions.Setpgid/Pgid, or 0 if none was requested. Unix only.
func (p *Process) Pgid() (pgid int) { return p.pgid }

// Pipes returns the parent-side pipe ends created for stream redirections
// that were [RedirPipe]. Each is nil if that stream wasn't piped, or if
// ownership of it was already handed off (e.g. chained into the next
// stage of a pipeline).
func (p *Process) Pipes() (stdinW, stdoutR, stderrR *os.File) {
	return p.stdinW, p.stdoutR, p.stderrR
}

// takeStdoutR returns the parent-side stdout pipe end and clears it, for
// callers (pipeline chaining, Job) that take over ownership.
func (p *Process) takeStdoutR() (f *os.File) {
	f, p.stdoutR = p.stdoutR, nil
	return
}

// takeStdinW returns the parent-side stdin pipe end and clears it.
func (p *Process) takeStdinW() (f *os.File) {
	f, p.stdinW = p.stdinW, nil
	return
}

// takeStderrR returns the parent-side stderr pipe end and clears it.
func (p *Process) takeStderrR() (f *os.File) {
	f, p.stderrR = p.stderrR, nil
	return
}

// Poll performs a non-blocking reap check.
//   - hasExited false: the process is still running
//   - hasExited true: status holds the final ExitStatus
func (p *Process) Poll() (status ExitStatus, hasExited bool) {
	if !p.done.IsClosed() {
		return
	}
	return p.status, true
}

// Wait blocks until the process has been reaped.
//   - idempotent: once any caller observes the result, every subsequent
//     caller (including concurrent ones) observes the same ExitStatus
//     without performing another syscall
func (p *Process) Wait() (status ExitStatus) {
	<-p.done.Ch()
	return p.status
}

// WaitTimeout blocks until the process has been reaped or d elapses.
//   - hasExited false: d elapsed first; the process may still be running
func (p *Process) WaitTimeout(d time.Duration) (status ExitStatus, hasExited bool) {
	if status, hasExited = p.Poll(); hasExited {
		return
	}
	var timer = time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-p.done.Ch():
		return p.status, true
	case <-timer.C:
		return ExitStatus{}, false
	}
}

// Detach marks the Process so that Close will not wait for it.
func (p *Process) Detach() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.detached = true
}

// Close is this package's substitute for a destructor: if the process is
// not detached and still running, Close blocks waiting for it, swallowing
// any error (as a destructor would — there is no caller to report to).
func (p *Process) Close() (err error) {
	p.mu.Lock()
	var detached = p.detached
	p.mu.Unlock()
	if detached {
		return
	}
	p.Wait()
	return
}
