package unit

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnknownUnit indicates an unrecognized unit label.
var ErrUnknownUnit = errors.New("unknown unit")

// Unit is one measurement unit within a [Family]. The zero value is not a
// valid unit; use the members of [Memory] and [Time].
type Unit struct {
	scale      float64
	label      string
	noAutopick bool
}

// Scale returns the ratio of this unit to its family's base unit.
// Always positive.
func (u Unit) Scale() float64 { return u.scale }

// Label returns the short display label, e.g. "kB" or "ms".
func (u Unit) Label() string { return u.label }

// Selectable reports whether automatic unit selection may choose this unit.
// Non-selectable units can still be passed explicitly.
func (u Unit) Selectable() bool { return !u.noAutopick }

// Family is a closed, ordered set of units sharing a common base.
type Family struct {
	name  string
	units []Unit
}

// Memory units, base 1 byte. Binary units are excluded from auto-selection.
var Memory = Family{
	name: "memory",
	units: []Unit{
		{scale: 0.125, label: "b"},
		{scale: 1, label: "B"},
		{scale: 1e3, label: "kB"},
		{scale: 1 << 10, label: "kiB", noAutopick: true},
		{scale: 1e6, label: "MB"},
		{scale: 1 << 20, label: "MiB", noAutopick: true},
		{scale: 1e9, label: "GB"},
		{scale: 1 << 30, label: "GiB", noAutopick: true},
		{scale: 1e12, label: "TB"},
		{scale: 1 << 40, label: "TiB", noAutopick: true},
	},
}

// Time units, base 1 second.
var Time = Family{
	name: "time",
	units: []Unit{
		{scale: 1e-9, label: "ns"},
		{scale: 1e-6, label: "µs"},
		{scale: 1e-3, label: "ms"},
		{scale: 1, label: "s"},
		{scale: 60, label: "m"},
		{scale: 3600, label: "h"},
		{scale: 86400, label: "d"},
	},
}

// Name returns the family name, "memory" or "time".
func (f Family) Name() string { return f.name }

// Units returns all units of the family in declaration order.
func (f Family) Units() []Unit {
	return slices.Clone(f.units)
}

// Smallest returns the family's smallest-scale unit, the fallback for
// values below every selection threshold.
func (f Family) Smallest() Unit {
	smallest := f.units[0]
	for _, u := range f.units[1:] {
		if u.scale < smallest.scale {
			smallest = u
		}
	}

	return smallest
}

// Select returns the largest selectable unit whose scale does not exceed v,
// or [Family.Smallest] if no unit qualifies. Deterministic for a given v;
// total over all values including zero and negatives.
func (f Family) Select(v float64) Unit {
	byScale := slices.Clone(f.units)
	slices.SortStableFunc(byScale, func(a, b Unit) int {
		switch {
		case a.scale > b.scale:
			return -1
		case a.scale < b.scale:
			return 1
		}

		return 0
	})

	for _, u := range byScale {
		if u.Selectable() && u.scale <= v {
			return u
		}
	}

	return f.Smallest()
}

// Parse returns the family unit with the given label.
func (f Family) Parse(label string) (Unit, error) {
	for _, u := range f.units {
		if u.label == label {
			return u, nil
		}
	}

	return Unit{}, fmt.Errorf("%w: %s %q (one of: %s)",
		ErrUnknownUnit, f.name, label, strings.Join(f.Labels(), ", "))
}

// Labels returns all unit labels of the family in declaration order.
// Useful for CLI flag completion.
func (f Family) Labels() []string {
	labels := make([]string, len(f.units))
	for i, u := range f.units {
		labels[i] = u.label
	}

	return labels
}
