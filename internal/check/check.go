// Package check implements the fatal-error path for tape-consistency
// violations: the failing condition is printed with its source location and
// the process terminates. Consistency violations indicate a programming
// error in the enclosing model, not a recoverable condition.
package check

import (
	"fmt"
	"os"
	"runtime"
)

// exit is swapped in tests.
var exit = os.Exit

// Fatalf reports a consistency violation and terminates the process.
// Floating-point arguments should be formatted with %e so offending values
// are readable at any magnitude.
func Fatalf(format string, args ...any) {
	fail(2, fmt.Sprintf(format, args...))
}

// Assert terminates the process when cond is false.
func Assert(cond bool, format string, args ...any) {
	if cond {
		return
	}
	fail(2, fmt.Sprintf(format, args...))
}

func fail(skip int, msg string) {
	_, file, line, ok := runtime.Caller(skip)
	if ok {
		fmt.Fprintf(os.Stderr, "spool: fatal: %s (%s:%d)\n", msg, file, line)
	} else {
		fmt.Fprintf(os.Stderr, "spool: fatal: %s\n", msg)
	}
	exit(1)
}
