package bootstrap

import (
	"errors"
	"testing"

	"github.com/flux-framework/pmi-go/pkg/pmi"
	"github.com/flux-framework/pmi-go/pkg/pmi/dynlib"
	"github.com/flux-framework/pmi-go/pkg/pmi/modern"
)

type fakeEnv map[string]string

func (e fakeEnv) Getenv(key string) string { return e[key] }

type fakeWireClient struct{}

func (fakeWireClient) Init() pmi.Status                        { return pmi.Success }
func (fakeWireClient) Finalize() pmi.Status                    { return pmi.Success }
func (fakeWireClient) Put(k, key, v string) pmi.Status          { return pmi.Success }
func (fakeWireClient) Get(k, key string, buf []byte) pmi.Status { return pmi.Success }
func (fakeWireClient) Barrier() pmi.Status                      { return pmi.Success }
func (fakeWireClient) Destroy()                                 {}
func (fakeWireClient) Rank() int                                { return 0 }
func (fakeWireClient) Size() int                                { return 1 }
func (fakeWireClient) MyName(buf []byte) pmi.Status             { return pmi.Success }

func noWire(fdEnv, rankEnv, sizeEnv string, debug int) (pmi.WireClient, error) {
	return nil, nil
}

func yesWire(fdEnv, rankEnv, sizeEnv string, debug int) (pmi.WireClient, error) {
	return fakeWireClient{}, nil
}

// fakeLister/fakeOpener exercise dynlib.Load's own accept/reject logic
// (sentinel rejection, missing-symbol rejection, ErrNotFound) without
// touching the filesystem. They deliberately never let a load succeed
// (every candidate is missing, or rejected as a sentinel), since a real typed bind (legacy
// and modern both call straight into purego.RegisterLibFunc against the
// real loader) needs a genuine OS handle this fixture cannot fabricate;
// the success path for an actual dlopen'd backend is exercised by
// pkg/pmi/legacy and pkg/pmi/modern's own backend tests, which construct
// their backend directly over a stub ABI instead of a real handle.
type fakeLister struct{ paths []string }

func (f fakeLister) Candidates(name string) []string { return f.paths }

type fakeLib struct {
	symbols map[string]uintptr
}

type fakeOpener struct {
	libs       map[string]fakeLib
	handlePath map[uintptr]string
	next       uintptr
}

func newFakeOpener(libs map[string]fakeLib) *fakeOpener {
	return &fakeOpener{libs: libs, handlePath: make(map[uintptr]string), next: 100}
}

func (f *fakeOpener) Dlopen(path string, mode int) (uintptr, error) {
	if _, ok := f.libs[path]; !ok {
		return 0, errors.New("no such file")
	}
	f.next++
	f.handlePath[f.next] = path
	return f.next, nil
}

func (f *fakeOpener) Dlsym(handle uintptr, name string) (uintptr, error) {
	path, ok := f.handlePath[handle]
	if !ok {
		return 0, errors.New("bad handle")
	}
	addr, ok := f.libs[path].symbols[name]
	if !ok || addr == 0 {
		return 0, errors.New("symbol not found")
	}
	return addr, nil
}

func (f *fakeOpener) Dlclose(handle uintptr) error {
	delete(f.handlePath, handle)
	return nil
}

func TestNewPrefersWireWhenAvailable(t *testing.T) {
	d, err := New(
		WithEnv(fakeEnv{}),
		WithWireClientFactory(yesWire),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := d.Mode(); got != "wire.1" {
		t.Errorf("Mode() = %q, want wire.1", got)
	}
}

func TestNewFallsBackToSingletonWhenNothingAvailable(t *testing.T) {
	d, err := New(
		WithEnv(fakeEnv{}),
		WithWireClientFactory(noWire),
		WithLister(fakeLister{paths: nil}),
		WithOpener(newFakeOpener(nil)),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := d.Mode(); got != "singleton" {
		t.Errorf("Mode() = %q, want singleton", got)
	}
}

func TestNewModernOnlyNeverProbesWireOrLegacy(t *testing.T) {
	// yesWire would win in New(); NewModernOnly must ignore the wire
	// client factory option entirely. The lister yields no candidates, so
	// no library can load and the only remaining outcome is singleton.
	d, err := NewModernOnly(
		WithEnv(fakeEnv{}),
		WithWireClientFactory(yesWire),
		WithLister(fakeLister{paths: nil}),
		WithOpener(newFakeOpener(nil)),
	)
	if err != nil {
		t.Fatalf("NewModernOnly() error = %v", err)
	}
	if got := d.Mode(); got != "singleton" {
		t.Errorf("Mode() = %q, want singleton (no modern library available)", got)
	}
}

func TestModernAvailableChecksServerURIVariants(t *testing.T) {
	if modernAvailable(fakeEnv{}) {
		t.Error("modernAvailable() = true with no PMIX_SERVER_URI* set")
	}
	if !modernAvailable(fakeEnv{"PMIX_SERVER_URI2": "x"}) {
		t.Error("modernAvailable() = false with PMIX_SERVER_URI2 set")
	}
}

func TestLoadModernRejectsSentinel(t *testing.T) {
	symbols := modernSymbols(1)
	symbols[modern.Sentinel] = 1
	opener := newFakeOpener(map[string]fakeLib{
		"/lib/broker-shim.so": {symbols: symbols},
	})
	o := defaultOptions()
	o.lister = fakeLister{paths: []string{"/lib/broker-shim.so"}}
	o.opener = opener

	if _, err := loadModern(o, 0); !errors.Is(err, dynlib.ErrNotFound) {
		t.Errorf("loadModern() error = %v, want ErrNotFound for a sentinel-only candidate", err)
	}
}

func TestLoadLegacyFailsWhenNoCandidateOpens(t *testing.T) {
	o := defaultOptions()
	o.lister = fakeLister{paths: []string{"/lib/libpmi.so"}}
	o.opener = newFakeOpener(nil)

	if _, err := loadLegacy(o, 0); !errors.Is(err, dynlib.ErrNotFound) {
		t.Errorf("loadLegacy() error = %v, want ErrNotFound", err)
	}
}

func modernSymbols(addr uintptr) map[string]uintptr {
	m := make(map[string]uintptr, len(modern.RequiredSymbols))
	for _, s := range modern.RequiredSymbols {
		m[s] = addr
	}
	return m
}
