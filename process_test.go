/*
© 2026–present the gosubprocess authors
ISC License
*/

package subprocess

import (
	"io"
	"os"
	"runtime"
	"testing"
	"time"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a Unix shell")
	}
}

func TestSpawnPrintf(t *testing.T) {
	skipOnWindows(t)

	var proc, err = Spawn(&SpawnSpec{
		Argv:   []string{"printf", "foo"},
		Stdout: RedirPipe(),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer proc.Close()

	var _, stdoutR, _ = proc.Pipes()
	var out []byte
	out, err = io.ReadAll(stdoutR)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "foo" {
		t.Errorf("got %q, want %q", out, "foo")
	}

	var status = proc.Wait()
	if !status.Success() {
		t.Errorf("unexpected exit status: %s", status)
	}
}

func TestSpawnExitCode(t *testing.T) {
	skipOnWindows(t)

	var proc, err = Spawn(&SpawnSpec{Argv: []string{"sh", "-c", "exit 13"}})
	if err != nil {
		t.Fatal(err)
	}
	defer proc.Close()

	var status = proc.Wait()
	if status.Kind != ExitKindExited || status.Code != 13 {
		t.Errorf("got %s, want exited with code 13", status)
	}
}

func TestSpawnMergeStderrIntoStdout(t *testing.T) {
	skipOnWindows(t)

	var proc, err = Spawn(&SpawnSpec{
		Argv:   []string{"sh", "-c", "echo foo; echo bar >&2"},
		Stdout: RedirPipe(),
		Stderr: RedirMerge(),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer proc.Close()

	var _, stdoutR, stderrR = proc.Pipes()
	if stderrR != nil {
		t.Error("merged stderr must not have its own parent pipe end")
	}

	var out []byte
	out, err = io.ReadAll(stdoutR)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "foo\nbar\n" {
		t.Errorf("got %q, want %q", out, "foo\nbar\n")
	}

	var status = proc.Wait()
	if !status.Success() {
		t.Errorf("unexpected exit status: %s", status)
	}
}

func TestSpawnArgsListEmpty(t *testing.T) {
	if _, err := Spawn(&SpawnSpec{}); err == nil {
		t.Error("expected error for empty Argv")
	}
}

func TestSpawnUnknownExecutable(t *testing.T) {
	if _, err := Spawn(&SpawnSpec{Argv: []string{"this-does-not-exist-anywhere"}}); err == nil {
		t.Error("expected error for unresolvable executable")
	}
}

func TestProcessPoll(t *testing.T) {
	skipOnWindows(t)

	var proc, err = Spawn(&SpawnSpec{Argv: []string{"sh", "-c", "exit 0"}})
	if err != nil {
		t.Fatal(err)
	}
	defer proc.Close()

	proc.Wait()
	if _, hasExited := proc.Poll(); !hasExited {
		t.Error("expected Poll to report exited after Wait")
	}
}

func TestProcessWaitTimeoutElapses(t *testing.T) {
	skipOnWindows(t)
	if _, ok := os.LookupEnv("ITEST"); !ok {
		t.Skip("skip because ITEST not set")
	}

	var proc, err = Spawn(&SpawnSpec{Argv: []string{"sleep", "1000"}})
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = proc.Kill()
		proc.Wait()
	}()

	if _, hasExited := proc.WaitTimeout(10 * time.Millisecond); hasExited {
		t.Error("expected WaitTimeout to elapse before the process exits")
	}
}

func TestProcessTerminateSendsSIGTERM(t *testing.T) {
	skipOnWindows(t)
	if _, ok := os.LookupEnv("ITEST"); !ok {
		t.Skip("skip because ITEST not set")
	}

	var proc, err = Spawn(&SpawnSpec{Argv: []string{"sleep", "1000"}})
	if err != nil {
		t.Fatal(err)
	}
	defer proc.Close()

	if err = proc.Terminate(); err != nil {
		t.Fatal(err)
	}
	var status = proc.Wait()
	if status.Kind != ExitKindSignaled {
		t.Errorf("got %s, want signaled", status)
	}
}

func TestProcessDetachSkipsWaitOnClose(t *testing.T) {
	skipOnWindows(t)

	var proc, err = Spawn(&SpawnSpec{Argv: []string{"sh", "-c", "exit 0"}})
	if err != nil {
		t.Fatal(err)
	}
	proc.Detach()
	if err = proc.Close(); err != nil {
		t.Fatal(err)
	}
	// wait here so the reaper goroutine doesn't outlive the test.
	proc.Wait()
}
