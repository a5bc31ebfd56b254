//go:build !navdebug

package navgrid

// assertf checks internal invariants. It is a no-op unless built with -tags navdebug.
func assertf(cond bool, format string, args ...any) {}
