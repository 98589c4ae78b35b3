// Package exception reports an unrecoverable fault caught at the outermost
// supervision boundary. It plays the role the vector-table fault handler
// plays on real silicon: name where execution trapped, then stop -- nothing
// past this point is trusted, and recovery belongs to the hardware
// watchdog's pre-timeout path.
package exception

import "runtime"

// Throw resolves pc to its source location, reports it, and panics. It never
// returns.
func Throw(pc uintptr) {
	if fn := runtime.FuncForPC(pc); fn != nil {
		file, line := fn.FileLine(pc)
		print(fn.Name(), "\n\t", file, ":", line, "\n")
	}

	panic("unrecoverable fault")
}
