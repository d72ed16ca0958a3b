package timeline

import "fmt"

// argument is one name/value pair attached to an event. Go's garbage
// collector makes the original's manual ownership flags on each value
// moot; the shape of the API (SetLen, Set, Steal) is kept because it is
// what the phase-reporting call sites expect, not because anything here
// needs to free memory by hand.
type argument struct {
	name  string
	value string
}

// Arguments is the growable name/value vector attached to an [Event].
type Arguments struct {
	items []argument
}

// Len reports the number of arguments currently set.
func (a *Arguments) Len() int { return len(a.items) }

// At returns the name and value of the i'th argument.
func (a *Arguments) At(i int) (name, value string) {
	it := a.items[i]
	return it.name, it.value
}

// SetLen grows or truncates the argument vector to exactly n entries.
// Shrinking drops the trailing entries; growing appends zero-valued ones.
func (a *Arguments) SetLen(n int) {
	if n == len(a.items) {
		return
	}
	if n == 0 {
		a.items = a.items[:0]
		return
	}
	if n < len(a.items) {
		a.items = a.items[:n]
		return
	}
	for len(a.items) < n {
		a.items = append(a.items, argument{})
	}
}

// Set assigns the name/value pair at index i. The caller must have
// already sized the vector with SetLen.
func (a *Arguments) Set(i int, name, value string) {
	a.items[i] = argument{name: name, value: value}
}

// Formatf is the printf-style argument constructor the original exposes
// as TimelineEventArguments::FormatArgument.
func (a *Arguments) Formatf(i int, name, format string, args ...any) {
	a.Set(i, name, fmt.Sprintf(format, args...))
}

// Steal transfers ownership of the whole buffer to dst and empties the
// receiver, mirroring TimelineEventArguments::StealArguments.
func (a *Arguments) Steal(dst *Arguments) {
	dst.items = a.items
	a.items = nil
}

// Reset empties the vector.
func (a *Arguments) Reset() {
	a.items = a.items[:0]
}
