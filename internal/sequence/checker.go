// Package sequence provides single-sequence execution helpers: a checker that
// asserts exclusive access in debug builds and a queue that runs tasks one at a
// time on a dedicated goroutine.
package sequence

import "sync/atomic"

// Checker asserts that the operations guarded by it never overlap. The zero
// value is ready to use.
//
// Verification only happens in builds tagged resgate_debug; otherwise Enter is
// a no-op. Checker never blocks.
type Checker struct {
	busy atomic.Bool
}

// Enter marks the start of a guarded operation and returns the function that
// marks its end. Typical use is defer c.Enter()().
func (c *Checker) Enter() func() {
	if !debugChecks {
		return noop
	}
	if !c.busy.CompareAndSwap(false, true) {
		panic("sequence: concurrent access to single-sequence object")
	}
	return func() { c.busy.Store(false) }
}

// DebugChecks reports whether overlap verification is compiled in.
func DebugChecks() bool {
	return debugChecks
}

func noop() {}
