// Package task implements background task processing: the Task
// abstraction, a durable TaskRunner with a worker pool and crash
// recovery, and the frequency-computation task that rebuilds a
// paragraph's word-frequency index.
package task
