/*
© 2026–present the gosubprocess authors
ISC License
*/

package subprocess

import (
	"os"
	"sync"
	"time"
)

// writeChunk is the maximum number of bytes written to stdin per ready
// cycle. Deliberately smaller than a typical pipe buffer: a larger write
// to a pipe can block even after POLLOUT/readiness was signaled, because
// the kernel's atomic-write guarantee for a single write() can exceed
// what's left in the buffer's tail.
const writeChunk = 4096

// Communicator moves bytes between the parent and up to three pipes of a
// child process without deadlock, honoring an optional size limit
// (stdout bytes plus stderr bytes, per Read call) and an optional time
// limit.
//   - stdin bytes are supplied once, at construction; EOF on the child's
//     stdin is signaled by closing the write end once they're exhausted
//   - limits may be changed between [Communicator.Read] calls; a partial
//     read that hit a limit is resumable — calling Read again with a
//     higher limit continues without data loss
//   - on timeout, the returned *[ErrTimeout] carries the bytes read
//     during that call
type Communicator struct {
	stdinW  *os.File
	stdoutR *os.File
	stderrR *os.File

	mu sync.Mutex

	input      []byte // remaining unwritten stdin bytes
	sizeLimit  *int   // nil: unlimited
	timeLimit  *time.Duration
	totalRead  int // cumulative stdout+stderr bytes across all Read calls
	readBase   int // totalRead at the start of the current Read call
	stdinDone  bool
	stdoutDone bool
	stderrDone bool

	platform communicatorPlatform
}

// NewCommunicator constructs a Communicator over a child's pipe ends.
// Any of stdinW, stdoutR, stderrR may be nil, meaning that stream was not
// a Pipe redirection. input is copied by reference and consumed as
// written; pass nil for no stdin data (stdin, if piped, is closed
// immediately on the first Read).
func NewCommunicator(stdinW, stdoutR, stderrR *os.File, input []byte) (c *Communicator) {
	c = &Communicator{
		stdinW:  stdinW,
		stdoutR: stdoutR,
		stderrR: stderrR,
		input:   input,
	}
	if stdinW == nil {
		c.stdinDone = true
	}
	if stdoutR == nil {
		c.stdoutDone = true
	}
	if stderrR == nil {
		c.stderrDone = true
	}
	return
}

// SetSizeLimit sets the size limit: the most stdout bytes plus stderr
// bytes that each subsequent Read call moves.
func (c *Communicator) SetSizeLimit(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sizeLimit = &n
}

// ClearSizeLimit removes the size limit.
func (c *Communicator) ClearSizeLimit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sizeLimit = nil
}

// SetTimeLimit sets the per-Read time limit. The limit is stored as a
// duration and turned into an absolute deadline at the start of each
// Read, so an idle Communicator never spuriously times out.
func (c *Communicator) SetTimeLimit(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeLimit = &d
}

// ClearTimeLimit removes the time limit.
func (c *Communicator) ClearTimeLimit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeLimit = nil
}

// TotalRead returns the cumulative stdout+stderr byte count read so far
// across all Read calls. It is a count only: the bytes themselves are
// returned by Read, or carried in *ErrTimeout after a timeout, and are
// not kept by the Communicator.
func (c *Communicator) TotalRead() (n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalRead
}

// Read moves bytes until the size limit is reached, all three streams
// are done, or the time limit elapses.
//   - stdout/stderr are nil for a stream that was not a Pipe redirection;
//     otherwise non-nil (possibly empty) even when no bytes were read
//     this call
//   - on timeout, err is a *[ErrTimeout] carrying the bytes read during
//     this call; a later Read continues from there without data loss
func (c *Communicator) Read() (stdout, stderr []byte, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readBase = c.totalRead
	return c.doRead()
}

// remainingBudget returns how many more stdout+stderr bytes may be read
// this call, and whether a limit is even in effect.
func (c *Communicator) remainingBudget() (remaining int, limited bool) {
	if c.sizeLimit == nil {
		return 0, false
	}
	remaining = *c.sizeLimit - (c.totalRead - c.readBase)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}

// allDone reports whether every active stream has finished.
func (c *Communicator) allDone() (done bool) {
	return c.stdinDone && c.stdoutDone && c.stderrDone
}

// Close releases this Communicator's pipe ends and signals any background
// goroutines servicing Read (Windows only — see communicatorPlatform) to
// exit, for a caller that abandons a Communicator before its streams
// reach EOF, e.g. after a size- or time-limited Read it doesn't resume.
// Idempotent.
func (c *Communicator) Close() (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopPlatform()
	if c.stdinW != nil {
		err = appendErr(err, c.stdinW.Close())
		c.stdinW = nil
	}
	if c.stdoutR != nil {
		err = appendErr(err, c.stdoutR.Close())
		c.stdoutR = nil
	}
	if c.stderrR != nil {
		err = appendErr(err, c.stderrR.Close())
		c.stderrR = nil
	}
	c.stdinDone, c.stdoutDone, c.stderrDone = true, true, true
	return
}
