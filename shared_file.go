/*
© 2026–present the gosubprocess authors
ISC License
*/

package subprocess

import (
	"os"
	"sync/atomic"
)

// SharedFile is a refcounted *os.File, letting more than one child inherit
// the same underlying open file — the pipeline-wide stderr pipe's write
// end, for instance — without a dup syscall per child.
//   - the zero value is not usable; construct with [NewSharedFile]
type SharedFile struct {
	file *os.File
	refs *atomic.Int32
}

// NewSharedFile wraps f for refcounted sharing. f is owned by the
// returned SharedFile: the caller must not use f directly again except
// through the SharedFile's Clone/Close.
func NewSharedFile(f *os.File) (sf *SharedFile) {
	var refs atomic.Int32
	refs.Store(1)
	return &SharedFile{file: f, refs: &refs}
}

// File returns the underlying file. Valid until Close drops the last
// reference.
func (sf *SharedFile) File() (f *os.File) { return sf.file }

// Clone bumps the refcount and returns a SharedFile referring to the same
// underlying file — no dup syscall is performed.
func (sf *SharedFile) Clone() (clone *SharedFile) {
	sf.refs.Add(1)
	return &SharedFile{file: sf.file, refs: sf.refs}
}

// Close drops this reference. When the last reference is dropped, the
// underlying file is closed.
func (sf *SharedFile) Close() (err error) {
	if sf.refs.Add(-1) > 0 {
		return
	}
	err = sf.file.Close()
	return
}
