// Package worker runs the asynchronous marker fetch pipeline.
package worker

import (
	"github.com/refsight/refsight/pkg/logger"
)

// Option applies a configuration option to the FetchWorker.
type Option func(*FetchWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *FetchWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(logger logger.Logger) Option {
	return func(w *FetchWorker) {
		if logger != nil {
			w.logger = logger
		}
	}
}
