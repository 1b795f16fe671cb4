// Package calllog composes the textual log line describing one profiled
// function call: its name, optionally its arguments, and optionally its
// result. Formatted measurement values are appended by the caller.
package calllog

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// NoArgsPlaceholder is emitted as the arguments block when a call received
// no arguments at all.
const NoArgsPlaceholder = "None"

// KV is an ordered name/value pair. Argument values of this type render as
// "key=value" in the arguments block instead of positionally.
type KV struct {
	Key   string
	Value any
}

// Compose builds the log line prefix for one call: name, then the
// arguments block if printArgs is set, then the result block if
// printResult is set, joined by sep. With both flags off it returns
// exactly name.
func Compose(name string, args []any, result any, printArgs, printResult bool, sep string) string {
	var sb strings.Builder

	sb.WriteString(name)

	if printArgs {
		sb.WriteString(sep)
		sb.WriteString(FormatArgs(args))
	}

	if printResult {
		sb.WriteString(sep)
		sb.WriteString(fmt.Sprint(result))
	}

	return sb.String()
}

// FormatArgs renders a call's arguments: positional values comma-joined,
// followed by [KV] pairs rendered as comma-joined "key=value", the two
// parts joined by ", ". Returns [NoArgsPlaceholder] when args is empty.
func FormatArgs(args []any) string {
	if len(args) == 0 {
		return NoArgsPlaceholder
	}

	var positional, pairs []string

	for _, arg := range args {
		switch v := arg.(type) {
		case KV:
			pairs = append(pairs, fmt.Sprintf("%s=%v", v.Key, v.Value))
		default:
			positional = append(positional, fmt.Sprint(v))
		}
	}

	parts := make([]string, 0, 2)
	if len(positional) > 0 {
		parts = append(parts, strings.Join(positional, ", "))
	}

	if len(pairs) > 0 {
		parts = append(parts, strings.Join(pairs, ", "))
	}

	return strings.Join(parts, ", ")
}

// FuncName resolves a callable's display name via the runtime, trimmed to
// its package-qualified short form, e.g. "calllog.FuncName". Returns
// "unknown" if fn is not a function or its symbol cannot be resolved.
func FuncName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return "unknown"
	}

	rf := runtime.FuncForPC(v.Pointer())
	if rf == nil {
		return "unknown"
	}

	name := rf.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	return name
}
