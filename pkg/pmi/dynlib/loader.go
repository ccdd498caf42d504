// Package dynlib implements the Library Loader: given a logical library
// name, it enumerates candidate paths via a Lister, opens the first
// viable non-sentinel candidate, and resolves a required symbol set
// behind it. It never returns a record with an unresolved required
// symbol — partial loads are closed and reported as failure.
package dynlib

import (
	"errors"
	"fmt"

	"github.com/ebitengine/purego"
)

// ErrNotFound is returned when no candidate in the search order produced
// a usable, non-sentinel library with every required symbol resolved.
var ErrNotFound = errors.New("dynlib: no usable library found")

// Tracer receives the loader's step-by-step debug narration: which
// candidate was tried, accepted, skipped as a sentinel, or rejected for
// missing symbols. A nil Tracer disables tracing.
type Tracer interface {
	Tracef(format string, args ...interface{})
}

// Opener is the dlopen/dlsym/dlclose surface the loader drives. The
// default, Purego, binds to github.com/ebitengine/purego so the loader
// never links cgo. Tests substitute a fake that never touches the
// filesystem.
type Opener interface {
	Dlopen(path string, mode int) (uintptr, error)
	Dlsym(handle uintptr, name string) (uintptr, error)
	Dlclose(handle uintptr) error
}

// Purego is the production Opener, implemented directly on top of
// purego's dlopen/dlsym/dlclose wrappers.
type Purego struct{}

func (Purego) Dlopen(path string, mode int) (uintptr, error) {
	return purego.Dlopen(path, mode)
}

func (Purego) Dlsym(handle uintptr, name string) (uintptr, error) {
	return purego.Dlsym(handle, name)
}

func (Purego) Dlclose(handle uintptr) error {
	return purego.Dlclose(handle)
}

// openFlags is RTLD_NOW|RTLD_GLOBAL: immediate binding and global
// visibility scope. Global visibility is required because the loaded
// library may itself dynamically resolve sibling symbols — an observed
// compatibility requirement carried over unchanged from the original
// loader.
const openFlags = purego.RTLD_NOW | purego.RTLD_GLOBAL

// Library is a loaded dynamic library with every required symbol
// resolved. Its invariant: if a Library exists, every symbol named in
// the Load call is present and non-zero in Symbols.
type Library struct {
	handle  uintptr
	opener  Opener
	Path    string
	Symbols map[string]uintptr
}

// Options configures a Load call.
type Options struct {
	// Name is the base library file name, e.g. "libpmi.so".
	Name string
	// Lister enumerates candidate paths for Name.
	Lister Lister
	// Opener performs dlopen/dlsym/dlclose. Defaults to Purego{} if zero.
	Opener Opener
	// Sentinel is the exported symbol name that identifies a candidate
	// as the broker's own shim, to be skipped rather than loaded.
	Sentinel string
	// Symbols lists every entry point that must resolve for the load to
	// succeed.
	Symbols []string
	// Debug enables step-by-step tracing through Tracer.
	Debug  int
	Tracer Tracer
}

func (o *Options) tracef(format string, args ...interface{}) {
	if o.Debug > 0 && o.Tracer != nil {
		o.Tracer.Tracef(format, args...)
	}
}

// Load implements the five-step discovery algorithm: enumerate
// candidates, open the first non-sentinel survivor, resolve every
// required symbol behind it, and fail cleanly — with no partial handle
// escaping — if anything goes wrong.
func Load(opts Options) (*Library, error) {
	opener := opts.Opener
	if opener == nil {
		opener = Purego{}
	}

	candidates := opts.Lister.Candidates(opts.Name)
	for _, path := range candidates {
		handle, err := opener.Dlopen(path, openFlags)
		if err != nil {
			opts.tracef("pmi-debug-dlopen: %s", err)
			continue
		}

		if sentinel, _ := opener.Dlsym(handle, opts.Sentinel); sentinel != 0 {
			opts.tracef("pmi-debug-dlopen: skipping %s", path)
			_ = opener.Dlclose(handle)
			continue
		}

		opts.tracef("pmi-debug-dlopen: library name %s", path)

		symbols := make(map[string]uintptr, len(opts.Symbols))
		var missing []string
		for _, name := range opts.Symbols {
			addr, err := opener.Dlsym(handle, name)
			if err != nil || addr == 0 {
				missing = append(missing, name)
				continue
			}
			symbols[name] = addr
		}
		if len(missing) > 0 {
			opts.tracef("pmi-debug-dlopen: dlsym: %s is missing required symbols: %v", path, missing)
			_ = opener.Dlclose(handle)
			return nil, fmt.Errorf("%w: %s missing symbols %v", ErrNotFound, path, missing)
		}

		return &Library{handle: handle, opener: opener, Path: path, Symbols: symbols}, nil
	}
	return nil, ErrNotFound
}

// Handle returns the raw dynamic-library handle, for backends that need
// to resolve additional symbols lazily via purego.RegisterLibFunc.
func (l *Library) Handle() uintptr {
	return l.handle
}

// Close releases the library handle, unless the build is
// address-sanitizer-instrumented, in which case it deliberately leaks
// the handle to avoid false leak reports from unresolved callbacks still
// referenced by the instrumented runtime. See asan_on.go/asan_off.go.
func (l *Library) Close() {
	if l == nil || l.handle == 0 {
		return
	}
	if asanSkipClose {
		return
	}
	_ = l.opener.Dlclose(l.handle)
	l.handle = 0
}
