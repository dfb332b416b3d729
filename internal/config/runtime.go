package config

import "sync/atomic"

// Argument checking is a process-wide switch rather than a tape option:
// expression nodes are built before any tape is consulted, and forward mode
// has no tape at all.
var argumentChecking atomic.Bool

// ArgumentChecking reports whether operation arguments are validated.
func ArgumentChecking() bool { return argumentChecking.Load() }

// SetArgumentChecking toggles domain validation of operation arguments.
func SetArgumentChecking(on bool) { argumentChecking.Store(on) }

// Apply installs the process-wide parts of the options.
func (o Options) Apply() { SetArgumentChecking(o.CheckArguments) }
