//go:build windows

/*
© 2026–present the gosubprocess authors
ISC License
*/

package subprocess

import "errors"

// errECHILD never matches a real error chain on Windows, which has no
// ECHILD concept; reap's errors.Is check is then always false here.
var errECHILD error = errors.New("subprocess: unused sentinel (windows)")

// Terminate calls TerminateProcess(1). No-op if the process has already
// been reaped. An access-denied error for an already-dead process is
// treated as success by consulting the cached exit state.
func (p *Process) Terminate() (err error) {
	if _, hasExited := p.Poll(); hasExited {
		return
	}
	if err = p.cmd.Process.Kill(); err != nil {
		if _, hasExited := p.Poll(); hasExited {
			return nil // process was already gone: treat as success
		}
		err = wrapf("terminate %w", err)
	}
	return
}

// Kill is the same as Terminate on Windows: there is no distinct
// SIGKILL-equivalent.
func (p *Process) Kill() (err error) { return p.Terminate() }
