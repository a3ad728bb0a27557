/*
© 2026–present the gosubprocess authors
ISC License
*/

package subprocess

import "os"

// RedirKind discriminates the variants of [Redirection].
type RedirKind uint8

const (
	// RedirKindNone inherits the stream from the parent process.
	RedirKindNone RedirKind = iota
	// RedirKindPipe creates an anonymous pipe; the parent keeps one end,
	// the child the other.
	RedirKindPipe
	// RedirKindFile gives the child the provided open file.
	RedirKindFile
	// RedirKindSharedFile is like RedirKindFile but the underlying file is
	// refcounted so it can be handed to more than one child, such as a
	// pipeline's shared stderr.
	RedirKindSharedFile
	// RedirKindNull opens the platform null device for the child.
	RedirKindNull
	// RedirKindMerge is valid for stdout/stderr only: makes this stream
	// refer to the same underlying file as the sibling output stream.
	RedirKindMerge
)

// Redirection describes the fate of one standard stream of a child
// process: inherit, pipe, file, shared file, null device, or merge with
// the sibling output stream.
//   - the zero value is [RedirKindNone], i.e. inherit
//   - Merge is invalid for stdin
//   - specifying Merge for both stdout and stderr is invalid
type Redirection struct {
	kind   RedirKind
	file   *os.File
	shared *SharedFile
}

// Kind returns the redirection's variant.
func (r Redirection) Kind() (kind RedirKind) { return r.kind }

// RedirNone inherits the stream from the parent process. This is also the
// zero value of Redirection.
func RedirNone() (r Redirection) { return Redirection{kind: RedirKindNone} }

// RedirPipe creates an anonymous pipe; the parent keeps one end, the
// child the other.
func RedirPipe() (r Redirection) { return Redirection{kind: RedirKindPipe} }

// RedirFile gives the child the provided open file. RedirFile takes
// ownership of f: once used by [Spawn] or a [Job], f must not be used by
// the caller again.
func RedirFile(f *os.File) (r Redirection) { return Redirection{kind: RedirKindFile, file: f} }

// RedirSharedFile is like RedirFile but the file is refcounted ownership,
// shareable across multiple children — used for a pipeline's fanned-in
// stderr. See [NewSharedFile].
func RedirSharedFile(sf *SharedFile) (r Redirection) {
	return Redirection{kind: RedirKindSharedFile, shared: sf}
}

// RedirNull opens the platform null device ([os.DevNull]) for the child,
// in the direction implied by which stream the Redirection is assigned
// to.
func RedirNull() (r Redirection) { return Redirection{kind: RedirKindNull} }

// RedirMerge makes this output stream refer to the same underlying file
// as the sibling output stream (e.g. 2>&1). Valid for stdout and stderr
// only; invalid for stdin and invalid if requested for both outputs.
func RedirMerge() (r Redirection) { return Redirection{kind: RedirKindMerge} }

// validateRedirections enforces the Merge invariants for a (stdin, stdout, stderr)
// triple.
func validateRedirections(stdin, stdout, stderr Redirection) (err error) {
	if stdin.kind == RedirKindMerge {
		err = wrapf("%w", ErrMergeOnStdin)
		return
	}
	if stdout.kind == RedirKindMerge && stderr.kind == RedirKindMerge {
		err = wrapf("%w", ErrMergeBothOutputs)
		return
	}
	return
}
