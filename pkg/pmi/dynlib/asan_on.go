//go:build asan

package dynlib

// asanSkipClose is true when built with -tags asan (paired with Go's own
// -asan instrumentation): Close() deliberately leaks the library handle
// to avoid false leak reports from symbol tables the sanitizer can still
// see referenced after an ordinary dlclose.
const asanSkipClose = true
