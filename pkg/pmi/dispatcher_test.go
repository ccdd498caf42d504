package pmi

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	mode        string
	initStatus  Status
	params      Params
	paramStatus Status
	putStatus   Status
	getStatus   Status
	getValue    string
	destroyed   int
}

func (f *fakeBackend) Mode() string                   { return f.mode }
func (f *fakeBackend) Init() Status                   { return f.initStatus }
func (f *fakeBackend) GetParams() (Params, Status)    { return f.params, f.paramStatus }
func (f *fakeBackend) KVSPut(k, key, v string) Status { return f.putStatus }
func (f *fakeBackend) KVSCommit(k string) Status      { return Success }
func (f *fakeBackend) KVSGet(k, key string, buf []byte) Status {
	if f.getStatus.OK() {
		copy(buf, f.getValue)
	}
	return f.getStatus
}
func (f *fakeBackend) Barrier() Status  { return Success }
func (f *fakeBackend) Finalize() Status { return Success }
func (f *fakeBackend) Destroy()         { f.destroyed++ }

type fakeObserver struct {
	calls []string
}

func (o *fakeObserver) Observe(op, mode string, status Status) {
	o.calls = append(o.calls, op+":"+mode+":"+status.String())
}

type fakeLogger struct {
	lines []string
}

func (l *fakeLogger) Tracef(format string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func TestDispatcherModeDelegatesToBackend(t *testing.T) {
	backend := &fakeBackend{mode: "dlopen"}
	d := NewDispatcher(backend, "pmi", 0, nil, nil)
	assert.Equal(t, "dlopen", d.Mode())
}

func TestDispatcherRankSetOnlyOnSuccess(t *testing.T) {
	backend := &fakeBackend{
		mode:        "wire",
		params:      Params{Rank: 3, Size: 4, KVSName: "kvs0"},
		paramStatus: Fail,
	}
	d := NewDispatcher(backend, "pmi", 0, nil, nil)
	_, status := d.GetParams()
	require.False(t, status.OK(), "GetParams() unexpectedly succeeded")
	assert.Equal(t, -1, d.rank, "rank must stay unchanged after a failed GetParams")

	backend.paramStatus = Success
	_, status = d.GetParams()
	require.True(t, status.OK())
	assert.Equal(t, 3, d.rank)
}

func TestDispatcherObserverSeesEveryOp(t *testing.T) {
	backend := &fakeBackend{mode: "pmix", initStatus: Success}
	obs := &fakeObserver{}
	d := NewDispatcher(backend, "pmix", 0, nil, obs)

	d.Init()
	d.Barrier()

	require.Len(t, obs.calls, 2)
	assert.Equal(t, "init:pmix:SUCCESS", obs.calls[0])
}

func TestDispatcherDestroyIsIdempotent(t *testing.T) {
	backend := &fakeBackend{mode: "singleton"}
	d := NewDispatcher(backend, "pmi", 0, nil, nil)
	d.Destroy()
	d.Destroy()
	assert.Equal(t, 1, backend.destroyed)
}

func TestDispatcherTraceLineIncludesDebugPrefix(t *testing.T) {
	backend := &fakeBackend{mode: "wire.1", initStatus: Success}
	log := &fakeLogger{}
	d := NewDispatcher(backend, "pmi-debug", 1, log, nil)

	d.Init()

	require.Len(t, log.lines, 1)
	assert.Equal(t, "pmi-debug-wire.1[-1]: init() = SUCCESS", log.lines[0])
}

func TestDispatcherModernOnlyTraceLineUsesPmixDebugPrefix(t *testing.T) {
	backend := &fakeBackend{mode: "pmix", initStatus: Success}
	log := &fakeLogger{}
	d := NewDispatcher(backend, "pmix-debug", 1, log, nil)

	d.Init()

	require.Len(t, log.lines, 1)
	assert.Equal(t, "pmix-debug-pmix[-1]: init() = SUCCESS", log.lines[0])
}

func TestDispatcherNilObserverDefaultsToNoop(t *testing.T) {
	backend := &fakeBackend{mode: "singleton", initStatus: Success}
	d := NewDispatcher(backend, "pmi", 0, nil, nil)
	// Must not panic despite a nil Observer argument.
	d.Init()
}
