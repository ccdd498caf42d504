package pmi

// Backend is the uniform operation set every provider variant implements.
// It is the Go rendering of the nine neutral operations in the component
// design: a tagged union expressed as an interface instead of the
// original's parallel function-pointer tables, so the compiler — not an
// implicit runtime contract — guarantees every backend answers every call.
//
// Create has no method here: in Go, backend construction is a plain
// constructor function (NewSingleton, wire.New, legacy.New, modern.New)
// that already returns a value satisfying Backend, so there is no
// separate allocation step to model.
type Backend interface {
	// Init performs any session handshake. Failure is reported as Init;
	// the backend must remain destroyable afterward.
	Init() Status

	// GetParams fills in this rank's bootstrap identity.
	GetParams() (Params, Status)

	// KVSPut enqueues a key->value binding under kvsname. Success does
	// not guarantee durability until the next KVSCommit + Barrier.
	KVSPut(kvsname, key, value string) Status

	// KVSCommit flushes pending puts to the process manager.
	KVSCommit(kvsname string) Status

	// KVSGet fetches the value for key under kvsname, truncating to
	// buf's capacity minus one byte and always null-terminating within
	// it. Returns Fail if the key is not present.
	KVSGet(kvsname, key string, buf []byte) Status

	// Barrier is the global synchronization point: after it returns
	// Success, every committed put from every rank is visible to every
	// subsequent KVSGet at any rank.
	Barrier() Status

	// Finalize tears down the session. It may fail; Destroy must still
	// be called afterward.
	Finalize() Status

	// Destroy releases all resources unconditionally. It must never
	// panic and must be safe to call after any subset of the above,
	// including after a failed Init.
	Destroy()

	// Mode names the backend variant for dispatcher traces: one of
	// "singleton", "wire.1", "dlopen", "pmix".
	Mode() string
}

// WireClient is the external wire-protocol collaborator the Wire backend
// drives. Its framing (the line-oriented key/value protocol itself) is
// out of scope for this module; pkg/pmi/wireclient supplies the concrete
// implementation, but the Wire backend and the Factory only ever see
// this interface.
type WireClient interface {
	Init() Status
	Finalize() Status
	Put(kvsname, key, value string) Status
	Get(kvsname, key string, buf []byte) Status
	Barrier() Status
	Destroy()

	// Rank and Size expose the handshake-negotiated identity directly,
	// the way the original wire client exposes public cli->rank /
	// cli->size fields rather than a getter.
	Rank() int
	Size() int

	// MyName fills buf with this job's kvsname, truncated and
	// null-terminated the same way KVSGet is.
	MyName(buf []byte) Status
}
