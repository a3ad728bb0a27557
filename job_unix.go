//go:build !windows

/*
© 2026–present the gosubprocess authors
ISC License
*/

package subprocess

import "syscall"

// SendSignalAll sends sig to every stage individually.
func (j *Job) SendSignalAll(sig syscall.Signal) (err error) {
	for _, p := range j.stages {
		if e := p.SendSignal(sig); e != nil {
			err = appendErr(err, e)
		}
	}
	return
}

// SendSignalGroup sends sig to stage 0's process group — the group every
// stage joined when the pipeline was built with PipelineSpec.Group true.
func (j *Job) SendSignalGroup(sig syscall.Signal) (err error) {
	if len(j.stages) == 0 {
		return
	}
	return j.stages[0].SendSignalGroup(sig)
}
