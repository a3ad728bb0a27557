//go:build windows

/*
© 2026–present the gosubprocess authors
ISC License
*/

package subprocess

import (
	"io"
	"time"
)

// commEvent is one chunk (or terminal error) from a reader goroutine.
type commEvent struct {
	idx  streamIndex
	data []byte
	err  error // non-nil (io.EOF included) ends that stream
}

// communicatorPlatform holds the background goroutines Windows needs
// because pipe handles have no poll(2) equivalent here: one blocking
// reader goroutine per piped output stream, funneling into a shared
// channel, plus one writer goroutine for stdin. doRead then becomes a
// deadline-aware select over that channel instead of a poll loop.
//   - stopCh is closed by [Communicator.Close] to tell every helper
//     goroutine blocked trying to send to give up and exit, for a caller
//     that abandons a Communicator before a stream reaches EOF (e.g. a
//     size/time-limited Read it doesn't resume). Close also closes the
//     underlying pipe files, which unblocks a goroutine currently
//     blocked inside Read/Write rather than a send.
type communicatorPlatform struct {
	started  bool
	stopped  bool
	events   chan commEvent
	stdinErr chan error
	stopCh   chan struct{}
}

// ensureStarted launches the helper goroutines on first use. Caller
// holds c.mu.
func (c *Communicator) ensureStarted() {
	if c.platform.started || c.platform.stopped {
		return
	}
	c.platform.started = true
	c.platform.events = make(chan commEvent, 16)
	c.platform.stopCh = make(chan struct{})

	if c.stdoutR != nil {
		go readLoop(c.stdoutR, streamStdout, c.platform.events, c.platform.stopCh)
	}
	if c.stderrR != nil {
		go readLoop(c.stderrR, streamStderr, c.platform.events, c.platform.stopCh)
	}
	if c.stdinW != nil {
		c.platform.stdinErr = make(chan error, 1)
		go writeLoop(c.stdinW, c.input, c.platform.stdinErr, c.platform.stopCh)
	}
}

// stopPlatform tells every running helper goroutine to give up on a
// blocked send and exit. Caller holds c.mu. Idempotent.
func (c *Communicator) stopPlatform() {
	if c.platform.stopped {
		return
	}
	c.platform.stopped = true
	if c.platform.started {
		close(c.platform.stopCh)
	}
}

// readLoop blocks reading fixed-size chunks from f and forwards each to
// events, followed by exactly one terminal event carrying the read error
// (io.EOF on a clean close). If stop closes while a send would block —
// because the Communicator's owner stopped draining — readLoop gives up
// and exits instead of leaking.
func readLoop(f readCloser, idx streamIndex, events chan<- commEvent, stop <-chan struct{}) {
	for {
		var buf = make([]byte, writeChunk)
		n, err := f.Read(buf)
		if n > 0 {
			select {
			case events <- commEvent{idx: idx, data: buf[:n]}:
			case <-stop:
				return
			}
		}
		if err != nil {
			var terminal = commEvent{idx: idx, err: err}
			if err == io.EOF {
				terminal = commEvent{idx: idx, err: io.EOF}
			}
			select {
			case events <- terminal:
			case <-stop:
			}
			return
		}
	}
}

// writeLoop writes input in full, closes w, and reports the first error
// (if any) on done. If stop closes while the final send would block,
// writeLoop gives up and exits instead of leaking.
func writeLoop(w writeCloser, input []byte, done chan<- error, stop <-chan struct{}) {
	var err error
	for len(input) > 0 && err == nil {
		var chunk = input
		if len(chunk) > writeChunk {
			chunk = chunk[:writeChunk]
		}
		var n int
		n, err = w.Write(chunk)
		input = input[n:]
	}
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	select {
	case done <- err:
	case <-stop:
	}
}

// readCloser and writeCloser narrow *os.File to what readLoop/writeLoop
// need, so tests can substitute pipes without a child process.
type readCloser interface {
	Read([]byte) (int, error)
}
type writeCloser interface {
	Write([]byte) (int, error)
	Close() error
}

// doRead selects over the helper goroutines' events until the size limit
// is hit, every stream is done, or the time limit elapses. Caller holds
// c.mu.
func (c *Communicator) doRead() (stdout, stderr []byte, err error) {
	c.ensureStarted()

	if c.stdoutR != nil {
		stdout = []byte{}
	}
	if c.stderrR != nil {
		stderr = []byte{}
	}

	var timer *time.Timer
	if c.timeLimit != nil {
		var d = *c.timeLimit
		if d <= 0 {
			err = &ErrTimeout{Stdout: stdout, Stderr: stderr}
			return
		}
		timer = time.NewTimer(d)
		defer timer.Stop()
	}

	for {
		if remaining, limited := c.remainingBudget(); limited && remaining == 0 {
			return
		}
		if c.allDone() {
			return
		}

		var timeoutCh <-chan time.Time
		if timer != nil {
			timeoutCh = timer.C
		}
		var stdinErrCh = c.platform.stdinErr
		if c.stdinDone {
			stdinErrCh = nil
		}

		select {
		case ev := <-c.platform.events:
			if ev.idx == streamStdout {
				if ev.err != nil {
					c.stdoutDone = true
				} else {
					stdout = append(stdout, ev.data...)
					c.totalRead += len(ev.data)
				}
			} else {
				if ev.err != nil {
					c.stderrDone = true
				} else {
					stderr = append(stderr, ev.data...)
					c.totalRead += len(ev.data)
				}
			}
		case e := <-stdinErrCh:
			c.stdinDone = true
			if e != nil {
				err = wrapf("stdin %w", e)
				return
			}
		case <-timeoutCh:
			err = &ErrTimeout{Stdout: stdout, Stderr: stderr}
			return
		}
	}
}
