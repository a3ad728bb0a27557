//go:build windows

/*
© 2026–present the gosubprocess authors
ISC License
*/

package subprocess

import (
	"os/exec"
	"syscall"
)

// buildSysProcAttr applies WindowsOptions to execCmd. Argv-to-command-line
// quoting and the UTF-16 environment block are both delegated to
// exec.Cmd/os/exec internals rather than hand-rolled.
func buildSysProcAttr(execCmd *exec.Cmd, spec *SpawnSpec) {
	if spec.Windows.CreationFlags == 0 {
		return
	}
	execCmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: spec.Windows.CreationFlags,
	}
}

// computePgid is a no-op on Windows: there is no process-group concept
// equivalent to Unix setpgid available here.
func computePgid(spec *SpawnSpec, pid int) (pgid int) { return 0 }
