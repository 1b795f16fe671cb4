package unit

import "strconv"

// Format renders v in the given unit as "<scaled> <label>", with precision
// significant digits in general floating-point notation.
//
// Precision must be >= 1; validating it is the caller's concern (profiling
// configuration rejects invalid precision at wrap time).
func Format(v float64, u Unit, precision int) string {
	scaled := strconv.FormatFloat(v/u.scale, 'g', precision, 64)

	return scaled + " " + u.label
}

// Format renders v with the given unit, auto-selecting one via
// [Family.Select] when u is nil.
func (f Family) Format(v float64, u *Unit, precision int) string {
	if u == nil {
		selected := f.Select(v)
		u = &selected
	}

	return Format(v, *u, precision)
}
