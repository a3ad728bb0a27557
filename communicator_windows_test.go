//go:build windows

/*
© 2026–present the gosubprocess authors
ISC License
*/

package subprocess

import (
	"io"
	"testing"
	"time"
)

// TestReadLoopExitsOnStop verifies that a reader goroutine blocked trying
// to send a chunk on a full events channel exits once stop closes,
// instead of leaking forever.
func TestReadLoopExitsOnStop(t *testing.T) {
	var pr, pw = io.Pipe()
	var events = make(chan commEvent) // unbuffered: nobody drains it
	var stop = make(chan struct{})
	var finished = make(chan struct{})

	go func() {
		readLoop(pr, streamStdout, events, stop)
		close(finished)
	}()

	go func() { _, _ = pw.Write([]byte("x")) }()

	time.Sleep(20 * time.Millisecond) // let readLoop read and block on the send
	close(stop)

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("readLoop leaked: still blocked after stop closed")
	}
	_ = pw.Close()
}

// TestWriteLoopExitsOnStop verifies that a writer goroutine blocked trying
// to report completion on a full done channel exits once stop closes.
func TestWriteLoopExitsOnStop(t *testing.T) {
	var pr, pw = io.Pipe()
	defer pr.Close()
	var done = make(chan error) // unbuffered: nobody drains it
	var stop = make(chan struct{})
	var finished = make(chan struct{})

	go func() {
		writeLoop(pw, nil, done, stop)
		close(finished)
	}()

	time.Sleep(20 * time.Millisecond) // let writeLoop close pw and block on the send
	close(stop)

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("writeLoop leaked: still blocked after stop closed")
	}
}

// TestCommunicatorCloseStopsHelpers starts a Communicator's reader
// goroutines by hand, the way ensureStarted does, then calls stopPlatform
// (the part of Close that signals them) before either stream reaches EOF,
// and expects it to return promptly rather than hang. It does not check
// that the reader goroutines have exited.
func TestCommunicatorCloseStopsHelpers(t *testing.T) {
	var outR, outW = io.Pipe()
	var errR, errW = io.Pipe()
	defer outW.Close()
	defer errW.Close()
	defer outR.Close()
	defer errR.Close()

	// NewCommunicator wants *os.File; exercise ensureStarted's goroutine
	// wiring directly instead, which is what doRead relies on.
	var c = &Communicator{}
	c.platform.started = true
	c.platform.events = make(chan commEvent, 16)
	c.platform.stopCh = make(chan struct{})
	go readLoop(outR, streamStdout, c.platform.events, c.platform.stopCh)
	go readLoop(errR, streamStderr, c.platform.events, c.platform.stopCh)

	var doneCh = make(chan struct{})
	go func() {
		c.stopPlatform()
		close(doneCh)
	}()

	select {
	case <-doneCh:
	case <-time.After(2 * time.Second):
		t.Fatal("stopPlatform did not return promptly")
	}
}
