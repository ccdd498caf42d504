package pmi

// singletonBackend synthesizes a one-rank, no-op universe for the
// degenerate case where no launcher is present. Every operation
// succeeds with no side effects except GetParams, and KVSGet always
// misses: there is no store behind it.
type singletonBackend struct{}

// NewSingleton constructs the degenerate one-rank backend used when no
// launcher environment is detected.
func NewSingleton() Backend {
	return singletonBackend{}
}

func (singletonBackend) Mode() string { return "singleton" }

func (singletonBackend) Init() Status { return Success }

func (singletonBackend) GetParams() (Params, Status) {
	return Params{Rank: 0, Size: 1, KVSName: "singleton"}, Success
}

func (singletonBackend) KVSPut(kvsname, key, value string) Status { return Success }

func (singletonBackend) KVSCommit(kvsname string) Status { return Success }

func (singletonBackend) KVSGet(kvsname, key string, buf []byte) Status {
	// No store backing a singleton: every key misses.
	return Fail
}

func (singletonBackend) Barrier() Status { return Success }

func (singletonBackend) Finalize() Status { return Success }

func (singletonBackend) Destroy() {}
