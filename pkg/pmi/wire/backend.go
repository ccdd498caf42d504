// Package wire implements the Wire backend: a pmi.Backend over a
// pmi.WireClient speaking the PMI-1 simple wire protocol directly,
// bypassing any dlopen'd library entirely.
package wire

import "github.com/flux-framework/pmi-go/pkg/pmi"

type backend struct {
	cli     pmi.WireClient
	kvsname string
}

// New wraps an already-connected wire client as a pmi.Backend.
func New(cli pmi.WireClient) pmi.Backend {
	return &backend{cli: cli}
}

func (b *backend) Mode() string { return "wire.1" }

func (b *backend) Init() pmi.Status {
	return b.cli.Init()
}

func (b *backend) GetParams() (pmi.Params, pmi.Status) {
	buf := make([]byte, pmi.MaxKVSNameLen+1)
	if status := b.cli.MyName(buf); !status.OK() {
		return pmi.Params{}, status
	}
	b.kvsname = cString(buf)
	return pmi.Params{Rank: b.cli.Rank(), Size: b.cli.Size(), KVSName: b.kvsname}, pmi.Success
}

func (b *backend) KVSPut(kvsname, key, value string) pmi.Status {
	return b.cli.Put(kvsname, key, value)
}

// KVSCommit is a no-op: the wire protocol's put_result acknowledges
// durability per-key, so there is nothing left to flush.
func (b *backend) KVSCommit(kvsname string) pmi.Status {
	return pmi.Success
}

func (b *backend) KVSGet(kvsname, key string, buf []byte) pmi.Status {
	if len(buf) == 0 {
		return pmi.Fail
	}
	return b.cli.Get(kvsname, key, buf)
}

func (b *backend) Barrier() pmi.Status {
	return b.cli.Barrier()
}

func (b *backend) Finalize() pmi.Status {
	return b.cli.Finalize()
}

func (b *backend) Destroy() {
	b.cli.Destroy()
}

func cString(buf []byte) string {
	for i, c := range buf {
		if c == 0 {
			return string(buf[:i])
		}
	}
	return string(buf)
}
