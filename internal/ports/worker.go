package ports

import "context"

// WorkerHandler receives output from a spawned worker.
// OnLine is called for every stdout line in order; OnExit is called exactly
// once, after the last line.
type WorkerHandler struct {
	OnExit func(err error)
	OnLine func(line string)
}

// Worker is a running worker process
type Worker interface {
	// Kill terminates the worker immediately
	Kill() error
	PID() int
	// Send writes one command line to the worker's stdin
	Send(line string) error
}

// WorkerSpawner starts worker processes
type WorkerSpawner interface {
	Spawn(ctx context.Context, handler WorkerHandler) (Worker, error)
}
