package spid

import "testing"

func TestPid(t *testing.T) {
	var pid = NewPid(1234)
	if !pid.IsNonZero() {
		t.Error("expected IsNonZero")
	}
	if pid.Int() != 1234 {
		t.Errorf("got %d, want 1234", pid.Int())
	}
	if pid.String() != "1234" {
		t.Errorf("got %q, want %q", pid.String(), "1234")
	}
}

func TestPidZero(t *testing.T) {
	var pid Pid
	if pid.IsNonZero() {
		t.Error("zero value should not be non-zero")
	}
}
