// Package pipeline runs a request's decision steps (authenticate,
// authorize, ...) in order before the handler body executes.
package pipeline

import "context"

// Step makes one decision about a request. It returns the context to pass
// to the next step, or an error that stops the pipeline.
type Step func(ctx context.Context) (context.Context, error)

// Run executes steps in order, threading the returned context. It stops at
// the first error and returns the context produced so far with it.
func Run(ctx context.Context, steps ...Step) (context.Context, error) {
	for _, step := range steps {
		next, err := step(ctx)
		if err != nil {
			return ctx, err
		}
		if next != nil {
			ctx = next
		}
	}
	return ctx, nil
}
