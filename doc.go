/*
Package subprocess spawns external OS processes, controls their standard
streams, composes them into shell-style pipelines, and communicates with
them without deadlock.

It is the moral equivalent of a higher-level Popen/fork+exec wrapper, with
explicit support for redirection, stream merging, pipelines, size/time
bounded I/O, and process-group signalling on Unix.

The four load-bearing pieces are:

  - [Spawn], which turns a [SpawnSpec] into a running [Process]
  - [Redirection], the per-stream fate (inherit, pipe, file, shared file,
    null device, or merge with the sibling output stream)
  - [Communicator], deadlock-free bidirectional I/O with a child across up
    to three pipes, with overall size and time limits
  - [NewPipeline] / [Job], which wire N processes into a chain with shared
    stderr capture and pipeline-wide process-group placement

There is no scheduler, no sandboxing, no pseudo-terminal support, and no
environment-variable expansion. The package does not manage process trees
beyond one level of children, except via Unix process groups, which it
only creates.
*/
package subprocess
