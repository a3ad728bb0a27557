/*
© 2026–present the gosubprocess authors
ISC License
*/

package subprocess

import (
	"bytes"
	"os"
	"testing"
	"time"
)

func TestCommunicatorLargeBidirectionalCat(t *testing.T) {
	skipOnWindows(t)

	var input = bytes.Repeat([]byte("x"), 500_000)

	var proc, err = Spawn(&SpawnSpec{
		Argv:   []string{"cat"},
		Stdin:  RedirPipe(),
		Stdout: RedirPipe(),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer proc.Close()

	var stdinW, stdoutR, _ = proc.Pipes()
	var comm = NewCommunicator(stdinW, stdoutR, nil, input)

	var out []byte
	for {
		var chunk, _, rerr = comm.Read()
		if rerr != nil {
			t.Fatal(rerr)
		}
		out = append(out, chunk...)
		if comm.allDone() {
			break
		}
	}

	if len(out) != len(input) {
		t.Fatalf("got %d bytes, want %d", len(out), len(input))
	}
	if !bytes.Equal(out, input) {
		t.Error("output does not match input")
	}

	var status = proc.Wait()
	if !status.Success() {
		t.Errorf("unexpected exit status: %s", status)
	}
}

func TestCommunicatorSizeLimitIsResumable(t *testing.T) {
	skipOnWindows(t)

	var input = bytes.Repeat([]byte("y"), 1000)

	var proc, err = Spawn(&SpawnSpec{
		Argv:   []string{"cat"},
		Stdin:  RedirPipe(),
		Stdout: RedirPipe(),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer proc.Close()

	var stdinW, stdoutR, _ = proc.Pipes()
	var comm = NewCommunicator(stdinW, stdoutR, nil, input)
	comm.SetSizeLimit(100)

	var first, _, rerr = comm.Read()
	if rerr != nil {
		t.Fatal(rerr)
	}
	if len(first) > 100 {
		t.Fatalf("first read exceeded size limit: %d bytes", len(first))
	}

	comm.SetSizeLimit(1000)
	var out = append([]byte{}, first...)
	for {
		var chunk, _, rerr2 = comm.Read()
		if rerr2 != nil {
			t.Fatal(rerr2)
		}
		out = append(out, chunk...)
		if comm.allDone() {
			break
		}
	}

	if !bytes.Equal(out, input) {
		t.Error("resumed read did not recover every byte")
	}
}

func TestCommunicatorTimeoutReturnsErrTimeout(t *testing.T) {
	skipOnWindows(t)
	if _, ok := os.LookupEnv("ITEST"); !ok {
		t.Skip("skip because ITEST not set")
	}

	// never writes anything and never exits on its own
	var proc, err = Spawn(&SpawnSpec{
		Argv:   []string{"sh", "-c", "sleep 1000"},
		Stdout: RedirPipe(),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = proc.Kill()
		proc.Wait()
	}()

	var _, stdoutR, _ = proc.Pipes()
	var comm = NewCommunicator(nil, stdoutR, nil, nil)
	comm.SetTimeLimit(20 * time.Millisecond)

	var _, _, rerr = comm.Read()
	var timeoutErr *ErrTimeout
	if rerr == nil {
		t.Fatal("expected a timeout error")
	}
	if !asErrTimeout(rerr, &timeoutErr) {
		t.Fatalf("got %v, want *ErrTimeout", rerr)
	}
}

func asErrTimeout(err error, target **ErrTimeout) bool {
	if e, ok := err.(*ErrTimeout); ok {
		*target = e
		return true
	}
	return false
}

func TestCommunicatorCloseAbandonsPartialRead(t *testing.T) {
	skipOnWindows(t)
	if _, ok := os.LookupEnv("ITEST"); !ok {
		t.Skip("skip because ITEST not set")
	}

	// never writes anything and never exits on its own
	var proc, err = Spawn(&SpawnSpec{
		Argv:   []string{"sh", "-c", "sleep 1000"},
		Stdout: RedirPipe(),
		Stderr: RedirPipe(),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = proc.Kill()
		proc.Wait()
	}()

	var _, stdoutR, stderrR = proc.Pipes()
	var comm = NewCommunicator(nil, stdoutR, stderrR, nil)
	comm.SetTimeLimit(20 * time.Millisecond)

	if _, _, rerr := comm.Read(); rerr == nil {
		t.Fatal("expected a timeout error before abandoning the read")
	}

	// abandoning the Communicator here (not resuming the timed-out read)
	// must not hang or leak: Close releases the pipes promptly.
	if err := comm.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// idempotent
	if err := comm.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestCommunicatorNonPipedStreamIsNil(t *testing.T) {
	var comm = NewCommunicator(nil, nil, nil, nil)
	var stdout, stderr, err = comm.Read()
	if err != nil {
		t.Fatal(err)
	}
	if stdout != nil || stderr != nil {
		t.Error("expected both streams to be nil when neither is piped")
	}
}
