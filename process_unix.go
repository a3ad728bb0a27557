//go:build !windows

/*
© 2026–present the gosubprocess authors
ISC License
*/

package subprocess

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// errECHILD is the sentinel a blocking wait on an already-reaped child
// returns.
var errECHILD error = syscall.ECHILD

// Terminate sends SIGTERM. No-op if the process has already been reaped.
func (p *Process) Terminate() (err error) {
	return p.SendSignal(unix.SIGTERM)
}

// Kill sends SIGKILL. No-op if the process has already been reaped.
func (p *Process) Kill() (err error) {
	return p.SendSignal(unix.SIGKILL)
}

// SendSignal sends an arbitrary signal to the process. No-op if the
// process has already been reaped.
func (p *Process) SendSignal(sig syscall.Signal) (err error) {
	if _, hasExited := p.Poll(); hasExited {
		return
	}
	if err = p.cmd.Process.Signal(sig); err != nil {
		err = wrapf("send signal %w", err)
	}
	return
}

// SendSignalGroup sends sig to the process' process group (kill with the
// negated PID), for children started with UnixOptions.Setpgid or
// pipeline leaders. No-op if the process has already been reaped.
//   - races are the caller's responsibility: the group may have emptied
//     by the time the signal arrives
func (p *Process) SendSignalGroup(sig syscall.Signal) (err error) {
	if _, hasExited := p.Poll(); hasExited {
		return
	}
	if p.pgid == 0 {
		err = wrapf("process is not a process group leader")
		return
	}
	if err = unix.Kill(-p.pgid, sig); err != nil {
		err = wrapf("send signal to group %w", err)
	}
	return
}
