package simpleprofile

import (
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"go.jacobcolvin.com/simpleprofile/calllog"
	"go.jacobcolvin.com/simpleprofile/measure"
	"go.jacobcolvin.com/simpleprofile/unit"
)

// Func is the shape of a profiled callable: positional arguments in, one
// result and an error out. Argument values of type [calllog.KV] are
// rendered as "key=value" pairs when argument logging is enabled; all
// values are passed through to the wrapped function unchanged.
type Func[R any] func(args ...any) (R, error)

// KV is an alias for [calllog.KV], so callers logging keyword-style
// arguments only need this package.
type KV = calllog.KV

// Profiler holds validated profiling options and produces drop-in
// replacement callables via [Memory], [Time], and [Profile].
//
// A Profiler is immutable and may wrap any number of functions, but each
// wrapped callable must be invoked from a single goroutine at a time:
// memory tracing and GC control are process-wide state, and concurrent
// profiled calls corrupt each other's readings.
//
// Create instances with [Config.NewProfiler].
type Profiler struct {
	out             io.Writer
	logger          *slog.Logger
	memoryUnit      *unit.Unit
	timeUnit        *unit.Unit
	name            string
	separator       string
	iterations      int
	memoryPrecision int
	timePrecision   int
	printArgs       bool
	printResult     bool
	enableGC        bool
}

// FormatMemory renders a raw byte count with the configured memory unit
// and precision, auto-selecting a unit when none is configured.
func (p *Profiler) FormatMemory(bytes uint64) string {
	return unit.Memory.Format(float64(bytes), p.memoryUnit, p.memoryPrecision)
}

// FormatTime renders raw seconds with the configured time unit and
// precision, auto-selecting a unit when none is configured.
func (p *Profiler) FormatTime(seconds float64) string {
	return unit.Time.Format(seconds, p.timeUnit, p.timePrecision)
}

func (p *Profiler) resolveName(fn any) string {
	if p.name != "" {
		return p.name
	}

	return calllog.FuncName(fn)
}

// Memory returns a drop-in replacement for fn that measures the peak
// memory usage of each top-level call, prints one log line, and returns
// fn's result unchanged. A failing call propagates its error and prints
// nothing.
func Memory[R any](p *Profiler, fn Func[R]) Func[R] {
	name := p.resolveName(fn)
	p.logger.Debug("wrapping function for memory profiling", "name", name)

	return guarded(fn, func(args ...any) (R, error) {
		peak, result, err := measure.PeakMemory(func() (R, error) {
			return fn(args...)
		})
		if err != nil {
			return result, err
		}

		line := calllog.Compose(name, args, result, p.printArgs, p.printResult, p.separator)
		line += p.separator + p.FormatMemory(peak)
		fmt.Fprintln(p.out, line)

		return result, nil
	})
}

// Time returns a drop-in replacement for fn that measures the average
// execution time of each top-level call over the configured number of
// iterations, then makes one additional clean call whose result is logged
// and returned. A failing call propagates its error and prints nothing.
//
// The timed iterations duplicate fn's side effects; that is an accepted
// limitation of call timing, not a bug.
func Time[R any](p *Profiler, fn Func[R]) Func[R] {
	name := p.resolveName(fn)
	p.logger.Debug("wrapping function for time profiling",
		"name", name, "iterations", p.iterations, "gc", p.enableGC)

	return guarded(fn, func(args ...any) (R, error) {
		avg, err := measure.AverageTime(func() (R, error) {
			return fn(args...)
		}, p.iterations, p.enableGC)
		if err != nil {
			var zero R

			return zero, err
		}

		result, err := fn(args...)
		if err != nil {
			return result, err
		}

		line := calllog.Compose(name, args, result, p.printArgs, p.printResult, p.separator)
		line += p.separator + p.FormatTime(avg)
		fmt.Fprintln(p.out, line)

		return result, nil
	})
}

// Profile returns a drop-in replacement for fn that measures both peak
// memory and average execution time of each top-level call. The underlying
// function runs iterations+1 times; the returned and logged result comes
// from the memory-capturing invocation, preserving the illusion of a
// single logical call. The log line carries the memory block before the
// time block.
func Profile[R any](p *Profiler, fn Func[R]) Func[R] {
	name := p.resolveName(fn)
	p.logger.Debug("wrapping function for profiling",
		"name", name, "iterations", p.iterations, "gc", p.enableGC)

	return guarded(fn, func(args ...any) (R, error) {
		peak, result, err := measure.PeakMemory(func() (R, error) {
			return fn(args...)
		})
		if err != nil {
			return result, err
		}

		avg, err := measure.AverageTime(func() (R, error) {
			return fn(args...)
		}, p.iterations, p.enableGC)
		if err != nil {
			return result, err
		}

		line := calllog.Compose(name, args, result, p.printArgs, p.printResult, p.separator)
		line += p.separator + p.FormatMemory(peak)
		line += p.separator + p.FormatTime(avg)
		fmt.Fprintln(p.out, line)

		return result, nil
	})
}

// guarded wraps instrumented with a top-level-call guard: reentrant calls
// made from inside a measured call run the plain function with no
// measurement or logging, so the printed readings cover the whole outer
// call tree. The guard is released on every exit path, including panics.
func guarded[R any](plain, instrumented Func[R]) Func[R] {
	var inFlight atomic.Bool

	return func(args ...any) (R, error) {
		if !inFlight.CompareAndSwap(false, true) {
			return plain(args...)
		}
		defer inFlight.Store(false)

		return instrumented(args...)
	}
}
