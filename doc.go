// Package simpleprofile wraps functions so that each top-level call logs
// its peak memory usage, its average execution time, or both, without
// altering the function's observable behavior.
//
// A [Config] is bound once per wrapped function and validated by
// [Config.NewProfiler]; the [Memory], [Time], and [Profile] wrappers then
// produce drop-in replacement callables:
//
//	cfg := simpleprofile.NewConfig()
//	cfg.PrintArgs = true
//
//	p, err := cfg.NewProfiler()
//	if err != nil {
//		return err
//	}
//
//	square := simpleprofile.Profile(p, func(args ...any) (int, error) {
//		n := args[0].(int)
//
//		return n * n, nil
//	})
//
//	result, err := square(12)
//	// prints e.g. "main.main.func1 | 12 | 144 B | 1.062 ns"
//
// Each log line is one row of separator-joined blocks: name, arguments
// (optional), result (optional), formatted memory, formatted time. Values
// auto-scale to a readable unit unless an explicit unit label is
// configured.
//
// Reentrant calls made from inside a measured call bypass measurement and
// logging, so a recursive function that calls itself through its wrapped
// replacement prints exactly one line per outer call:
//
//	var fib simpleprofile.Func[int]
//	fib = simpleprofile.Memory(p, func(args ...any) (int, error) {
//		n := args[0].(int)
//		if n < 2 {
//			return n, nil
//		}
//
//		a, _ := fib(n - 1)
//		b, _ := fib(n - 2)
//
//		return a + b, nil
//	})
//
// Profiled calls are coarse, black-box measurements of one call site at a
// time. Measurement scopes use process-wide runtime state, so wrapped
// callables must not be invoked concurrently; see [Profiler].
package simpleprofile
