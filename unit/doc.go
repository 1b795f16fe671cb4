// Package unit models the measurement units used in profiling logs.
//
// Units are grouped into two closed families sharing a common base:
// [Memory] (base 1 byte) and [Time] (base 1 second). Each [Unit] carries a
// scale factor, a display label, and a selectable flag controlling whether
// automatic unit choice may pick it. Binary memory units (kiB, MiB, GiB,
// TiB) are not selectable, so auto-selection prefers decimal units; they
// remain available as explicit overrides.
//
// [Family.Select] picks the best-fit unit for a raw value, and
// [Family.Format] renders it:
//
//	unit.Memory.Format(1536, nil, 4) // "1.536 kB"
//	unit.Time.Format(0.00001234, nil, 4) // "12.34 µs"
package unit
