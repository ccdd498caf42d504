//go:build !asan

package dynlib

// asanSkipClose is false in ordinary builds: Close() always releases the
// library handle.
const asanSkipClose = false
