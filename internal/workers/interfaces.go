// Package workers runs the long-lived loops of the client daemon as one
// group: the first worker to fail cancels the others.
package workers

import "context"

// Worker is a background loop. Run blocks until ctx ends or the loop
// fails; returning nil after ctx ends is a clean stop.
type Worker interface {
	Run(ctx context.Context) error
}

// WorkerFunc adapts a function to [Worker].
type WorkerFunc func(ctx context.Context) error

func (f WorkerFunc) Run(ctx context.Context) error {
	return f(ctx)
}
