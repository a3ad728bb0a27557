/*
Package spid provides a typed process identifier.
*/
package spid

import "strconv"

// Pid is a process identifier. The zero value is not a valid PID.
type Pid uint32

// NewPid returns a typed process identifier from a platform int PID.
func NewPid(pid int) (typed Pid) { return Pid(uint32(pid)) }

// IsNonZero reports whether pid holds a plausible process identifier.
func (pid Pid) IsNonZero() (isValid bool) { return pid != 0 }

// Int returns pid as a platform-sized int, as accepted by os and syscall
// process functions.
func (pid Pid) Int() (pidInt int) { return int(pid) }

func (pid Pid) String() (s string) { return strconv.Itoa(int(pid)) }
