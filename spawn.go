/*
© 2026–present the gosubprocess authors
ISC License
*/

package subprocess

import (
	"os/exec"

	"github.com/gosubprocess/gosubprocess/spid"
	"github.com/haraldrudell/parl"
)

// Spawn creates a child process per spec and returns a handle to it.
//   - an error return means the child never started; no Process is
//     returned and no goroutines or fds are left behind
//   - a successful return says nothing about the child's subsequent
//     behavior — only that it was created
func Spawn(spec *SpawnSpec) (proc *Process, err error) {
	if len(spec.Argv) == 0 {
		err = wrapf("%w", ErrArgsListEmpty)
		return
	}

	var plan *ioPlan
	plan, err = planStreams(spec.Stdin, spec.Stdout, spec.Stderr)
	if plan != nil {
		defer func() {
			if proc == nil {
				// Start never succeeded: nobody owns the parent-side
				// pipe ends, so close them here.
				plan.releaseParents()
			}
			// Either way, our reference to the child-side files is no
			// longer needed: on success the child inherited its own
			// copies at fork time: on failure, these must not leak.
			_ = plan.releaseChildren()
		}()
	}
	if err != nil {
		return
	}

	// explicit PATH resolution: args[0] (or spec.Path, if given) is
	// resolved against PATH when it contains no path separator.
	var lookupName = spec.Argv[0]
	if spec.Path != "" {
		lookupName = spec.Path
	}
	var resolvedPath string
	if resolvedPath, err = exec.LookPath(lookupName); err != nil {
		err = wrapf("resolve executable %w", err)
		return
	}

	var execCmd = &exec.Cmd{
		Path:   resolvedPath,
		Args:   spec.Argv,
		Env:    spec.Env, // nil means "inherit os.Environ()", matching exec.Cmd
		Dir:    spec.Dir,
		Stdin:  plan.child[streamStdin],
		Stdout: plan.child[streamStdout],
		Stderr: plan.child[streamStderr],
	}
	buildSysProcAttr(execCmd, spec)

	if err = execCmd.Start(); err != nil {
		err = wrapf("start %w", err)
		return
	}
	if parl.IsThisDebug() {
		parl.Debug("subprocess.Spawn pid=%d argv=%v", execCmd.Process.Pid, spec.Argv)
	}

	proc = &Process{
		cmd:      execCmd,
		pid:      spid.NewPid(execCmd.Process.Pid),
		detached: spec.Detached,
		pgid:     computePgid(spec, execCmd.Process.Pid),
		stdinW:   plan.parent[streamStdin],
		stdoutR:  plan.parent[streamStdout],
		stderrR:  plan.parent[streamStderr],
	}
	go proc.reap()
	return
}
