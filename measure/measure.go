// Package measure captures peak memory usage and averaged execution time of
// single function calls.
//
// Measurements are coarse and black-box: one call site at a time, no
// sampling and no aggregation across calls. Both measurement scopes adjust
// process-wide runtime state (the garbage collector target percentage), so
// concurrent measurements from multiple goroutines will corrupt each
// other's readings. Callers are expected to measure from a single
// goroutine at a time.
package measure

import (
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

// ErrInvalidIterations indicates a non-positive iteration count.
var ErrInvalidIterations = errors.New("iterations must be >= 1")

// PeakMemory invokes fn exactly once inside a heap-tracing scope and
// returns the peak number of bytes allocated during the call alongside
// fn's own result and error.
//
// The garbage collector is run once before the scope and suppressed inside
// it, so the allocated-bytes delta observed by [runtime.ReadMemStats]
// reflects everything the call allocated. The scope is torn down on every
// exit path, including a panic in fn, and fn's result, error, and side
// effects are indistinguishable from an unwrapped call.
func PeakMemory[R any](fn func() (R, error)) (uint64, R, error) {
	runtime.GC()

	gcPercent := debug.SetGCPercent(-1)
	defer debug.SetGCPercent(gcPercent)

	var before runtime.MemStats

	runtime.ReadMemStats(&before)

	result, err := fn()

	var after runtime.MemStats

	runtime.ReadMemStats(&after)

	return after.TotalAlloc - before.TotalAlloc, result, err
}

// AverageTime invokes fn iterations times back-to-back inside a timing
// scope and returns the average wall-clock duration of one call, in
// seconds. Garbage collection is suppressed for the duration of the scope
// unless enableGC is set.
//
// Results of the timed calls are discarded; the first non-nil error aborts
// the loop and is returned. Running fn repeatedly duplicates its side
// effects, which is an accepted limitation of call timing, not a bug.
func AverageTime[R any](fn func() (R, error), iterations int, enableGC bool) (float64, error) {
	if iterations < 1 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidIterations, iterations)
	}

	if !enableGC {
		gcPercent := debug.SetGCPercent(-1)
		defer debug.SetGCPercent(gcPercent)
	}

	start := time.Now()

	for range iterations {
		_, err := fn()
		if err != nil {
			return 0, err
		}
	}

	elapsed := time.Since(start)

	return elapsed.Seconds() / float64(iterations), nil
}
