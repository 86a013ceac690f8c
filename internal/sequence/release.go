//go:build !resgate_debug

package sequence

const debugChecks = false
