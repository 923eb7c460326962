// Package batch runs the synthesis pipeline over a directory of form
// definitions with bounded concurrency: a fixed-size pool with no
// dynamic scaling, no deadlock detector, and no work stealing, since
// each form's pipeline run is independent and nothing is shared across
// runs — just a bounded number of concurrent, shared-nothing workers
// draining a queue of paths.
package batch

import (
	"context"
	"runtime"
	"sync"
)

// Result is one form's outcome: the value and error process returned
// for it (or ctx.Err() alone if it never started), tagged with the
// path it came from so a report can be produced in submission order.
type Result[T any] struct {
	Path  string
	Value T
	Err   error
}

// Run processes paths with up to concurrency workers, calling process
// once per path. If concurrency is 0 or negative, runtime.NumCPU() is
// used. Results are returned in the same order as paths regardless of
// completion order.
//
// Run returns early with whatever results were collected if ctx is
// cancelled; paths not yet started are reported with ctx.Err() as
// their error.
func Run[T any](ctx context.Context, paths []string, concurrency int, process func(context.Context, string) (T, error)) []Result[T] {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	if concurrency > len(paths) {
		concurrency = len(paths)
	}
	if concurrency == 0 {
		return nil
	}

	results := make([]Result[T], len(paths))
	jobs := make(chan int, len(paths))
	for i := range paths {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for w := 0; w < concurrency; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				select {
				case <-ctx.Done():
					results[i] = Result[T]{Path: paths[i], Err: ctx.Err()}
					continue
				default:
				}
				v, err := process(ctx, paths[i])
				results[i] = Result[T]{Path: paths[i], Value: v, Err: err}
			}
		}()
	}
	wg.Wait()

	return results
}
