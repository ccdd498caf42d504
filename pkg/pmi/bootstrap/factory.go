// Package bootstrap implements the Factory: probing the environment in a
// fixed preference order to pick exactly one pmi.Backend and hand back a
// ready pmi.Dispatcher. It is a separate package from pkg/pmi so that it
// alone may import every backend subpackage (pkg/pmi/legacy,
// pkg/pmi/modern, pkg/pmi/wire) without pkg/pmi ever importing any of
// them back.
package bootstrap

import (
	"os"
	"strconv"

	"github.com/flux-framework/pmi-go/pkg/pmi"
	"github.com/flux-framework/pmi-go/pkg/pmi/dynlib"
	"github.com/flux-framework/pmi-go/pkg/pmi/legacy"
	"github.com/flux-framework/pmi-go/pkg/pmi/modern"
	"github.com/flux-framework/pmi-go/pkg/pmi/wire"
	"github.com/flux-framework/pmi-go/pkg/pmi/wireclient"
)

// Env abstracts environment variable lookup so tests can probe the
// Factory's preference order without touching process-global state.
type Env interface {
	Getenv(key string) string
}

type osEnv struct{}

func (osEnv) Getenv(key string) string { return os.Getenv(key) }

// WireClientFactory attempts to construct a wire client from the three
// launcher-provided environment strings. It returns (nil, nil), not an
// error, when the wire backend is simply unavailable (the strings are
// absent or malformed); a non-nil error means something else went wrong
// attempting to use a wire session that looked viable.
type WireClientFactory func(fdEnv, rankEnv, sizeEnv string, debug int) (pmi.WireClient, error)

func defaultWireClientFactory(fdEnv, rankEnv, sizeEnv string, debug int) (pmi.WireClient, error) {
	cli, err := wireclient.CreateFD(fdEnv, rankEnv, sizeEnv, debug)
	if err != nil {
		return nil, err
	}
	if cli == nil {
		return nil, nil
	}
	return cli, nil
}

type options struct {
	env      Env
	wireFn   WireClientFactory
	lister   dynlib.Lister
	opener   dynlib.Opener
	log      pmi.Logger
	observer pmi.Observer
}

func defaultOptions() *options {
	return &options{
		env:    osEnv{},
		wireFn: defaultWireClientFactory,
		lister: dynlib.EnvLister{},
		opener: dynlib.Purego{},
	}
}

// Option configures the Factory. Tests supply WithEnv/WithWireClientFactory/
// WithLister/WithOpener to replace every environment touchpoint; production
// callers normally pass none and get the real OS environment and real
// dlopen.
type Option func(*options)

func WithEnv(env Env) Option                           { return func(o *options) { o.env = env } }
func WithWireClientFactory(f WireClientFactory) Option { return func(o *options) { o.wireFn = f } }
func WithLister(l dynlib.Lister) Option                { return func(o *options) { o.lister = l } }
func WithOpener(op dynlib.Opener) Option               { return func(o *options) { o.opener = op } }
func WithLogger(l pmi.Logger) Option                   { return func(o *options) { o.log = l } }
func WithObserver(ob pmi.Observer) Option              { return func(o *options) { o.observer = ob } }

// pmixServerURIKeys are the environment variables whose presence signals
// a resource manager has pre-arranged a modern PMIx server for this job.
// Checking these (rather than unconditionally attempting to dlopen
// libpmix.so) keeps a plain legacy or wire launch from wasting a dlopen
// attempt against a library that would only emulate singleton anyway.
var pmixServerURIKeys = []string{
	"PMIX_SERVER_URI4",
	"PMIX_SERVER_URI3",
	"PMIX_SERVER_URI2",
	"PMIX_SERVER_URI",
}

func modernAvailable(env Env) bool {
	for _, key := range pmixServerURIKeys {
		if env.Getenv(key) != "" {
			return true
		}
	}
	return false
}

func parseDebug(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func envOr(env Env, key, fallback string) string {
	if v := env.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func loadModern(o *options, debug int) (pmi.Backend, error) {
	lib, err := dynlib.Load(dynlib.Options{
		Name:     envOr(o.env, "PMIX_LIBRARY", modern.LibraryName),
		Lister:   o.lister,
		Opener:   o.opener,
		Sentinel: modern.Sentinel,
		Symbols:  modern.RequiredSymbols,
		Debug:    debug,
		Tracer:   o.log,
	})
	if err != nil {
		return nil, err
	}
	backend, err := modern.New(lib)
	if err != nil {
		lib.Close()
		return nil, err
	}
	return backend, nil
}

func loadLegacy(o *options, debug int) (pmi.Backend, error) {
	lib, err := dynlib.Load(dynlib.Options{
		Name:     envOr(o.env, "PMI_LIBRARY", legacy.LibraryName),
		Lister:   o.lister,
		Opener:   o.opener,
		Sentinel: legacy.Sentinel,
		Symbols:  legacy.RequiredSymbols,
		Debug:    debug,
		Tracer:   o.log,
	})
	if err != nil {
		return nil, err
	}
	return legacy.New(lib), nil
}

// New probes, in order: the wire protocol (PMI_FD/PMI_RANK/PMI_SIZE),
// then a modern PMIx library (only when a PMIX_SERVER_URI* variable
// signals one is arranged), then a legacy PMI-1 library, and finally
// falls back to the Singleton backend. Debug level is read from
// FLUX_PMI_DEBUG.
func New(opts ...Option) (*pmi.Dispatcher, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	debug := parseDebug(o.env.Getenv("FLUX_PMI_DEBUG"))

	cli, err := o.wireFn(o.env.Getenv("PMI_FD"), o.env.Getenv("PMI_RANK"), o.env.Getenv("PMI_SIZE"), debug)
	if err != nil {
		return nil, err
	}
	if cli != nil {
		return pmi.NewDispatcher(wire.New(cli), "pmi-debug", debug, o.log, o.observer), nil
	}

	if modernAvailable(o.env) {
		if backend, err := loadModern(o, debug); err == nil {
			return pmi.NewDispatcher(backend, "pmi-debug", debug, o.log, o.observer), nil
		}
	}

	if backend, err := loadLegacy(o, debug); err == nil {
		return pmi.NewDispatcher(backend, "pmi-debug", debug, o.log, o.observer), nil
	}

	return pmi.NewDispatcher(pmi.NewSingleton(), "pmi-debug", debug, o.log, o.observer), nil
}

// NewModernOnly probes only the modern PMIx backend, falling back
// straight to Singleton: no wire, no legacy dlopen. It exists for
// callers that want to speak exclusively to a modern resource manager and
// must never silently downgrade to PMI-1 wire or dlopen. Debug level is
// read from FLUX_PMIX_DEBUG.
func NewModernOnly(opts ...Option) (*pmi.Dispatcher, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	debug := parseDebug(o.env.Getenv("FLUX_PMIX_DEBUG"))

	if backend, err := loadModern(o, debug); err == nil {
		return pmi.NewDispatcher(backend, "pmix-debug", debug, o.log, o.observer), nil
	}
	return pmi.NewDispatcher(pmi.NewSingleton(), "pmix-debug", debug, o.log, o.observer), nil
}
