//go:build !windows

/*
© 2026–present the gosubprocess authors
ISC License
*/

package subprocess

import (
	"time"

	"golang.org/x/sys/unix"
)

// communicatorPlatform holds no extra state on Unix: the poll loop reads
// straight from stdinW/stdoutR/stderrR each call.
type communicatorPlatform struct{}

// stopPlatform is a no-op on Unix: doRead never spawns background
// goroutines, so Close closing the pipe ends is enough to abandon a
// Communicator cleanly. Caller holds c.mu.
func (c *Communicator) stopPlatform() {}

// doRead runs one poll(2) loop, writing stdin and reading stdout/stderr
// until the streams finish, the size limit is hit, or the time limit
// elapses. Caller holds c.mu.
func (c *Communicator) doRead() (stdout, stderr []byte, err error) {
	if c.stdoutR != nil {
		stdout = []byte{}
	}
	if c.stderrR != nil {
		stderr = []byte{}
	}

	var deadline time.Time
	var hasDeadline bool
	if c.timeLimit != nil {
		deadline = time.Now().Add(*c.timeLimit)
		hasDeadline = true
	}

	for {
		if remaining, limited := c.remainingBudget(); limited && remaining == 0 {
			return
		}
		if c.allDone() {
			return
		}

		var fds []unix.PollFd
		// which parallels fds, recording which stream each entry covers
		var which []streamIndex

		if !c.stdinDone {
			fds = append(fds, unix.PollFd{Fd: int32(c.stdinW.Fd()), Events: unix.POLLOUT})
			which = append(which, streamStdin)
		}
		if !c.stdoutDone {
			fds = append(fds, unix.PollFd{Fd: int32(c.stdoutR.Fd()), Events: unix.POLLIN})
			which = append(which, streamStdout)
		}
		if !c.stderrDone {
			fds = append(fds, unix.PollFd{Fd: int32(c.stderrR.Fd()), Events: unix.POLLIN})
			which = append(which, streamStderr)
		}

		var timeoutMs int
		if hasDeadline {
			var remainingD = time.Until(deadline)
			if remainingD <= 0 {
				err = &ErrTimeout{Stdout: stdout, Stderr: stderr}
				return
			}
			timeoutMs = int(remainingD / time.Millisecond)
			if timeoutMs == 0 {
				timeoutMs = 1
			}
		} else {
			timeoutMs = -1
		}

		var n int
		n, err = unix.Poll(fds, timeoutMs)
		if err == unix.EINTR {
			err = nil
			continue
		}
		if err != nil {
			err = wrapf("poll %w", err)
			return
		}
		if n == 0 {
			// timeoutMs elapsed with nothing ready
			err = &ErrTimeout{Stdout: stdout, Stderr: stderr}
			return
		}

		for i, fd := range fds {
			if fd.Revents == 0 {
				continue
			}
			switch which[i] {
			case streamStdin:
				if fd.Revents&(unix.POLLOUT|unix.POLLERR|unix.POLLHUP) != 0 {
					if err = c.writeStdinChunk(); err != nil {
						return
					}
				}
			case streamStdout:
				if fd.Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0 {
					var read int
					read, err = c.readChunk(streamStdout, &stdout)
					if err != nil {
						return
					}
					_ = read
				}
			case streamStderr:
				if fd.Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0 {
					var read int
					read, err = c.readChunk(streamStderr, &stderr)
					if err != nil {
						return
					}
					_ = read
				}
			}
		}
	}
}

// writeStdinChunk writes up to writeChunk bytes of the remaining input,
// closing stdin once input is exhausted.
func (c *Communicator) writeStdinChunk() (err error) {
	if len(c.input) == 0 {
		c.stdinDone = true
		if e := c.stdinW.Close(); e != nil {
			err = wrapf("close stdin %w", e)
		}
		return
	}
	var chunk = c.input
	if len(chunk) > writeChunk {
		chunk = chunk[:writeChunk]
	}
	var n int
	n, err = c.stdinW.Write(chunk)
	c.input = c.input[n:]
	if err != nil {
		err = wrapf("write stdin %w", err)
		return
	}
	if len(c.input) == 0 {
		c.stdinDone = true
		if e := c.stdinW.Close(); e != nil {
			err = wrapf("close stdin %w", e)
		}
	}
	return
}

// readChunk reads up to the remaining size-limit budget (or writeChunk,
// whichever is smaller) from the given stream into *acc, marking that
// stream done on EOF.
func (c *Communicator) readChunk(idx streamIndex, acc *[]byte) (n int, err error) {
	var max = writeChunk
	if remaining, limited := c.remainingBudget(); limited && remaining < max {
		max = remaining
	}
	if max == 0 {
		return
	}

	var buf = make([]byte, max)
	var f = c.stdoutR
	if idx == streamStderr {
		f = c.stderrR
	}
	n, err = f.Read(buf)
	if n > 0 {
		*acc = append(*acc, buf[:n]...)
		c.totalRead += n
	}
	if err != nil {
		if idx == streamStdout {
			c.stdoutDone = true
		} else {
			c.stderrDone = true
		}
		err = nil // EOF or read error both just end this stream
	}
	return
}
