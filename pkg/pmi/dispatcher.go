package pmi

import "fmt"

// Logger is the "log sink" collaborator: single-line, already-formatted
// messages, with no further structure imposed by the core. pkg/pmilog
// satisfies this.
type Logger interface {
	Tracef(format string, args ...interface{})
}

// Observer receives a notification after every dispatched operation. It
// exists so instrumentation (pkg/pmimetrics) can share the exact call
// site the debug tracer uses, without the core importing a metrics
// library directly. A nil Observer is valid and does nothing.
type Observer interface {
	Observe(op, mode string, status Status)
}

type noopObserver struct{}

func (noopObserver) Observe(op, mode string, status Status) {}

// Client is the broker-facing surface: the two constructors in
// factory.go both return a value satisfying Client, standing in for the
// original's two published callback tables (combined and modern-only).
type Client interface {
	Init() Status
	GetParams() (Params, Status)
	KVSPut(kvsname, key, value string) Status
	KVSCommit(kvsname string) Status
	KVSGet(kvsname, key string, buf []byte) Status
	Barrier() Status
	Finalize() Status
	Destroy()
}

// Dispatcher owns exactly one backend variant, selected once at
// construction and never changed, and multiplexes every public call to
// it. It also formats the uniform debug trace line described in the
// component design.
type Dispatcher struct {
	backend  Backend
	prefix   string // "pmi-debug" for the combined dispatcher, "pmix-debug" for modern-only
	debug    int
	rank     int // cached rank; -1 until GetParams succeeds
	log      Logger
	observer Observer
	// destroyed makes a repeated Destroy a no-op; the zero value (false)
	// means "not yet destroyed". Other operations do not consult it.
	destroyed bool
}

// NewDispatcher wires a backend into a Dispatcher with the given trace
// prefix. It is exported for the pkg/pmi/bootstrap Factory, which is the
// only place outside tests that should call it directly — everywhere
// else should go through bootstrap.New / bootstrap.NewModernOnly.
func NewDispatcher(backend Backend, prefix string, debug int, log Logger, obs Observer) *Dispatcher {
	if obs == nil {
		obs = noopObserver{}
	}
	return &Dispatcher{
		backend:  backend,
		prefix:   prefix,
		debug:    debug,
		rank:     -1,
		log:      log,
		observer: obs,
	}
}

// Mode returns the symbolic name of the active backend variant, as used
// in trace lines: one of "singleton", "wire.1", "dlopen", "pmix", or
// "unknown" if the dispatcher has no backend (should not occur outside
// a zero-value Dispatcher).
func (d *Dispatcher) Mode() string {
	if d.backend == nil {
		return "unknown"
	}
	return d.backend.Mode()
}

func (d *Dispatcher) trace(op, args string, status Status) {
	d.observer.Observe(op, d.Mode(), status)
	if d.debug > 0 && d.log != nil {
		d.log.Tracef("%s-%s[%d]: %s(%s) = %s", d.prefix, d.Mode(), d.rank, op, args, status)
	}
}

func (d *Dispatcher) Init() Status {
	status := d.backend.Init()
	d.trace("init", "", status)
	return status
}

func (d *Dispatcher) GetParams() (Params, Status) {
	params, status := d.backend.GetParams()
	// rank is set exactly once, after the entire operation succeeds —
	// see spec.md Open Questions / SPEC_FULL.md §9: the original sets
	// pmi->rank both inside the PMIx case and unconditionally at the
	// bottom; this client does it in exactly one place.
	if status.OK() {
		d.rank = params.Rank
	}
	args := fmt.Sprintf("rank=%d size=%d kvsname=%s", params.Rank, params.Size, params.KVSName)
	if !status.OK() {
		args = "<none>"
	}
	d.trace("get_params", args, status)
	return params, status
}

func (d *Dispatcher) KVSPut(kvsname, key, value string) Status {
	status := d.backend.KVSPut(kvsname, key, value)
	d.trace("kvs_put", fmt.Sprintf("kvsname=%s key=%s value=%s", kvsname, key, value), status)
	return status
}

func (d *Dispatcher) KVSCommit(kvsname string) Status {
	status := d.backend.KVSCommit(kvsname)
	d.trace("kvs_commit", fmt.Sprintf("kvsname=%s", kvsname), status)
	return status
}

func (d *Dispatcher) KVSGet(kvsname, key string, buf []byte) Status {
	status := d.backend.KVSGet(kvsname, key, buf)
	shown := "<none>"
	if status.OK() {
		shown = cString(buf)
	}
	d.trace("kvs_get", fmt.Sprintf("kvsname=%s key=%s value=%s", kvsname, key, shown), status)
	return status
}

func (d *Dispatcher) Barrier() Status {
	status := d.backend.Barrier()
	d.trace("barrier", "", status)
	return status
}

func (d *Dispatcher) Finalize() Status {
	status := d.backend.Finalize()
	d.trace("finalize", "", status)
	return status
}

// Destroy releases the backend unconditionally. It is infallible and
// safe to call exactly once after any subset of prior calls, including
// after a failed Init. Calling it more than once is a no-op.
func (d *Dispatcher) Destroy() {
	if d.destroyed {
		return
	}
	d.backend.Destroy()
	d.destroyed = true
}

func cString(buf []byte) string {
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i])
		}
	}
	return string(buf)
}
