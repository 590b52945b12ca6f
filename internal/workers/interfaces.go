// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that allows
// running and stopping multiple workers in a unified way.
package workers

// Worker is the interface that must be implemented by any background worker.
// It defines a single Run method that starts the worker's execution.
//
// Implementations are expected to spawn goroutines internally and return
// promptly.
type Worker interface {
	Run()
}

// Stopper is implemented by workers that can be shut down. Workers that
// only implement Worker are left running until the process exits.
type Stopper interface {
	Stop()
}
