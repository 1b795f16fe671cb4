// Package stringtest provides helpers for asserting on line-oriented text
// output in tests.
package stringtest

import "strings"

// JoinLF joins multiple strings with LF line endings.
// Use this to construct expected test output with explicit line endings.
//
// Example:
//
//	want := stringtest.JoinLF(
//		"line1",
//		"line2",
//	) // -> "line1\nline2"
func JoinLF(ss ...string) string {
	return strings.Join(ss, "\n")
}

// Lines splits captured output into its lines, dropping the trailing
// newline emitted by println-style writers. An empty or all-newline input
// yields nil.
//
// Example:
//
//	stringtest.Lines("a\nb\n") // -> []string{"a", "b"}
func Lines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}

	return strings.Split(s, "\n")
}
