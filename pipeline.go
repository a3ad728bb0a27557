/*
© 2026–present the gosubprocess authors
ISC License
*/

package subprocess

import "os"

// PipelineSpec describes a chain of zero or more stages connected
// stdout-to-stdin, plus pipeline-wide settings applied around the chain.
//   - an empty Stages is a valid no-op chain
//   - Stages[0].Stdin must be the zero value ([RedirKindNone]); the
//     pipeline-wide Stdin binds there instead
//   - Stages[len-1].Stdout must be the zero value; the pipeline-wide
//     Stdout binds there instead
//   - Stderr, if set to [RedirPipe], is fanned into every stage that
//     doesn't set its own Stderr: a pipe is created once, its write end
//     shared (refcounted, no dup) across stages, its read end exposed on
//     the resulting [Job]. RedirFile/RedirSharedFile are also accepted,
//     without a Job-level read end
//   - Dir/Env/Detached, if set, apply to every stage that doesn't
//     override them
//   - Group, if true, places every stage in one process group led by
//     stage 0; no stage may separately request UnixOptions.Setpgid
type PipelineSpec struct {
	Stages   []SpawnSpec
	Stdin    Redirection
	Stdout   Redirection
	Stderr   Redirection
	Dir      string
	Env      []string
	Detached bool
	Group    bool
}

// NewPipeline validates spec and spawns every stage, wiring each stage's
// stdout directly into the next stage's stdin (no intermediate copying).
// On any stage's spawn failure, already-spawned stages are killed and
// reaped before the error is returned.
//   - an empty Stages is a valid no-op chain: the returned Job has no
//     stages, and Join/Capture succeed immediately with empty output
func NewPipeline(spec *PipelineSpec) (job *Job, err error) {
	if err = validatePipelineSpec(spec); err != nil {
		return
	}

	var n = len(spec.Stages)
	if n == 0 {
		job = newJob(nil, nil)
		return
	}

	var stages = make([]SpawnSpec, n)
	copy(stages, spec.Stages)

	stages[0].Stdin = spec.Stdin
	stages[n-1].Stdout = spec.Stdout

	var sharedStderr *SharedFile
	var jobStderrR *os.File
	if spec.Stderr.Kind() != RedirKindNone {
		if sharedStderr, jobStderrR, err = newSharedStderr(spec.Stderr); err != nil {
			return
		}
	}

	for i := range stages {
		if spec.Dir != "" && stages[i].Dir == "" {
			stages[i].Dir = spec.Dir
		}
		if spec.Env != nil && stages[i].Env == nil {
			stages[i].Env = spec.Env
		}
		if spec.Detached {
			stages[i].Detached = true
		}
		if sharedStderr != nil && stages[i].Stderr.Kind() == RedirKindNone {
			stages[i].Stderr = RedirSharedFile(sharedStderr.Clone())
		}
		if i < n-1 {
			stages[i].Stdout = RedirPipe()
		}
	}
	if sharedStderr != nil {
		// every stage now holds its own clone; drop the constructor's.
		_ = sharedStderr.Close()
	}

	var procs = make([]*Process, 0, n)
	var pgid int
	for i := range stages {
		if spec.Group {
			if i == 0 {
				stages[i].Unix.Setpgid = true
			} else {
				stages[i].Unix.Pgid = pgid
			}
		}
		if i > 0 {
			// chain stage i's stdin directly to stage i-1's parent-side
			// stdout pipe end; Spawn closes the parent's copy once the
			// child has its own inherited descriptor.
			stages[i].Stdin = RedirFile(procs[i-1].takeStdoutR())
		}

		var proc *Process
		if proc, err = Spawn(&stages[i]); err != nil {
			err = wrapf("spawn stage %d %w", i, err)
			break
		}
		procs = append(procs, proc)
		if spec.Group && i == 0 {
			pgid = proc.Pgid()
		}
	}

	if err != nil {
		for _, p := range procs {
			_ = p.Kill()
			p.Wait()
		}
		if jobStderrR != nil {
			_ = jobStderrR.Close()
		}
		return
	}

	job = newJob(procs, jobStderrR)
	return
}

// validatePipelineSpec enforces PipelineSpec's invariants. An empty
// Stages is valid: it denotes a no-op chain, so the first/last-stage
// checks below don't apply.
func validatePipelineSpec(spec *PipelineSpec) (err error) {
	var n = len(spec.Stages)
	if n == 0 {
		return
	}
	if spec.Stages[0].Stdin.Kind() != RedirKindNone {
		err = wrapf("%w", ErrPipelineStdinSet)
		return
	}
	if spec.Stages[n-1].Stdout.Kind() != RedirKindNone {
		err = wrapf("%w", ErrPipelineStdoutSet)
		return
	}
	if spec.Group {
		for _, s := range spec.Stages {
			if s.Unix.Setpgid {
				err = wrapf("%w", ErrStageSetpgid)
				return
			}
		}
	}
	return
}

// newSharedStderr resolves the pipeline-wide stderr redirection into a
// refcounted write-side SharedFile plus, for [RedirPipe], the matching
// parent-side read end (nil for RedirFile/RedirSharedFile, which supply
// their own sink).
func newSharedStderr(r Redirection) (sf *SharedFile, parentRead *os.File, err error) {
	switch r.Kind() {
	case RedirKindPipe:
		var readEnd, writeEnd *os.File
		if readEnd, writeEnd, err = os.Pipe(); err != nil {
			err = wrapf("os.Pipe %w", err)
			return
		}
		sf = NewSharedFile(writeEnd)
		parentRead = readEnd
	case RedirKindFile:
		sf = NewSharedFile(r.file)
	case RedirKindSharedFile:
		sf = r.shared
	default:
		err = wrapf("pipeline stderr must be RedirPipe, RedirFile, or RedirSharedFile")
	}
	return
}
