/*
© 2026–present the gosubprocess authors
ISC License
*/

package subprocess

import (
	"os"
)

// streamIndex names the three standard streams in the arrays below.
type streamIndex int

const (
	streamStdin streamIndex = iota
	streamStdout
	streamStderr
)

// ioPlan is the result of resolving three [Redirection] values into
// concrete child-side files (handed to exec.Cmd) and parent-side files
// (kept by the caller, typically via a [Communicator]).
type ioPlan struct {
	// child[i] is what exec.Cmd should use for stream i. Never nil.
	child [3]*os.File
	// parent[i] is the parent-side pipe end for stream i, or nil if
	// stream i is not a Pipe redirection.
	parent [3]*os.File
	// release[i], if non-nil, must be invoked exactly once: after a
	// successful Start to drop our reference to the child-side file
	// (pipe child end, Null device, consumed File, or SharedFile clone),
	// or immediately if Start never happens.
	release [3]func() error
}

// planStreams resolves stdin/stdout/stderr into an ioPlan.
func planStreams(stdin, stdout, stderr Redirection) (plan *ioPlan, err error) {
	if err = validateRedirections(stdin, stdout, stderr); err != nil {
		return
	}

	plan = &ioPlan{}

	if err = plan.resolveInput(streamStdin, stdin); err != nil {
		return
	}
	// stdout and stderr must both be resolved (other than Merge) before
	// Merge can borrow the sibling's resolved child file.
	if stdout.kind != RedirKindMerge {
		if err = plan.resolveOutput(streamStdout, stdout); err != nil {
			return
		}
	}
	if stderr.kind != RedirKindMerge {
		if err = plan.resolveOutput(streamStderr, stderr); err != nil {
			return
		}
	}
	if stdout.kind == RedirKindMerge {
		plan.mergeInto(streamStdout, streamStderr)
	}
	if stderr.kind == RedirKindMerge {
		plan.mergeInto(streamStderr, streamStdout)
	}
	return
}

// resolveInput resolves stdin-direction redirections.
func (p *ioPlan) resolveInput(idx streamIndex, r Redirection) (err error) {
	switch r.kind {
	case RedirKindNone:
		p.child[idx] = os.Stdin
	case RedirKindPipe:
		var readEnd, writeEnd *os.File
		if readEnd, writeEnd, err = os.Pipe(); err != nil {
			err = wrapf("os.Pipe %w", err)
			return
		}
		p.child[idx] = readEnd
		p.parent[idx] = writeEnd
		p.release[idx] = readEnd.Close
	case RedirKindFile:
		p.child[idx] = r.file
		p.release[idx] = r.file.Close
	case RedirKindSharedFile:
		p.child[idx] = r.shared.File()
		p.release[idx] = r.shared.Close
	case RedirKindNull:
		var f *os.File
		if f, err = os.OpenFile(os.DevNull, os.O_RDONLY, 0); err != nil {
			err = wrapf("open null device %w", err)
			return
		}
		p.child[idx] = f
		p.release[idx] = f.Close
	}
	return
}

// resolveOutput resolves stdout/stderr-direction redirections, excluding
// Merge, which mergeInto handles once both siblings are resolved.
func (p *ioPlan) resolveOutput(idx streamIndex, r Redirection) (err error) {
	switch r.kind {
	case RedirKindNone:
		if idx == streamStdout {
			p.child[idx] = os.Stdout
		} else {
			p.child[idx] = os.Stderr
		}
	case RedirKindPipe:
		var readEnd, writeEnd *os.File
		if readEnd, writeEnd, err = os.Pipe(); err != nil {
			err = wrapf("os.Pipe %w", err)
			return
		}
		p.child[idx] = writeEnd
		p.parent[idx] = readEnd
		p.release[idx] = writeEnd.Close
	case RedirKindFile:
		p.child[idx] = r.file
		p.release[idx] = r.file.Close
	case RedirKindSharedFile:
		p.child[idx] = r.shared.File()
		p.release[idx] = r.shared.Close
	case RedirKindNull:
		var f *os.File
		if f, err = os.OpenFile(os.DevNull, os.O_WRONLY, 0); err != nil {
			err = wrapf("open null device %w", err)
			return
		}
		p.child[idx] = f
		p.release[idx] = f.Close
	}
	return
}

// mergeInto points stream idx at the already-resolved sibling's child
// file. No dup syscall: exec.Cmd recognizes identical *os.File values for
// Stdout/Stderr and reuses the same descriptor in the child. Ownership
// (and release) stays with the sibling to avoid a double close.
func (p *ioPlan) mergeInto(idx, sibling streamIndex) {
	p.child[idx] = p.child[sibling]
}

// releaseChildren invokes every release function, aggregating errors.
// Safe to call once after Start, successful or not.
func (p *ioPlan) releaseChildren() (err error) {
	seen := map[*os.File]bool{}
	for i, rel := range p.release {
		if rel == nil {
			continue
		}
		// a Merge sibling shares child[i] with another index but never
		// has its own release func, so this map only guards the (rare)
		// case of a File redirection used for both stdout and stderr by
		// the caller.
		if f := p.child[i]; f != nil {
			if seen[f] {
				continue
			}
			seen[f] = true
		}
		if e := rel(); e != nil {
			err = appendErr(err, wrapf("stream close %w", e))
		}
	}
	return
}

// releaseParents closes every parent-side pipe end — used when Spawn
// fails before or during Start, so no fds leak.
func (p *ioPlan) releaseParents() {
	for _, f := range p.parent {
		if f != nil {
			_ = f.Close()
		}
	}
}
