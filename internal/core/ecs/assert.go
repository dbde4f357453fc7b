package ecs

import "fmt"

// assertf panics when debugAssertions is enabled and cond is false.
// Release builds compile the call away; unchecked accessors then rely on
// the caller contract and Go's own bounds checks.
func assertf(cond bool, format string, args ...any) {
	if debugAssertions && !cond {
		panic(fmt.Sprintf("ecs: "+format, args...))
	}
}
