package legacy

import (
	"github.com/flux-framework/pmi-go/pkg/pmi"
	"github.com/flux-framework/pmi-go/pkg/pmi/dynlib"
)

// backend binds the Legacy Dynamic provider: every operation invokes its
// resolved PMI-1 entry point directly.
type backend struct {
	lib *dynlib.Library
	abi *abi
}

// New wraps an already-loaded legacy library (with RequiredSymbols
// verified present by dynlib.Load) as a pmi.Backend.
func New(lib *dynlib.Library) pmi.Backend {
	return &backend{lib: lib, abi: bind(lib.Handle())}
}

func (b *backend) Mode() string { return "dlopen" }

// Init passes a throwaway *spawned out-parameter and discards it: the
// broker does not support PMI re-spawn semantics.
func (b *backend) Init() pmi.Status {
	var spawned int32
	return toStatus(b.abi.init(&spawned))
}

func (b *backend) GetParams() (pmi.Params, pmi.Status) {
	var rank, size int32
	if code := b.abi.getRank(&rank); code != pmiSuccess {
		return pmi.Params{}, toStatus(code)
	}
	if code := b.abi.getSize(&size); code != pmiSuccess {
		return pmi.Params{}, toStatus(code)
	}
	buf := make([]byte, pmi.MaxKVSNameLen+1)
	if code := b.abi.kvsGetMyName(&buf[0], int32(len(buf))); code != pmiSuccess {
		return pmi.Params{}, toStatus(code)
	}
	return pmi.Params{Rank: int(rank), Size: int(size), KVSName: cString(buf)}, pmi.Success
}

func (b *backend) KVSPut(kvsname, key, value string) pmi.Status {
	return toStatus(b.abi.kvsPut(kvsname, key, value))
}

func (b *backend) KVSCommit(kvsname string) pmi.Status {
	return toStatus(b.abi.kvsCommit(kvsname))
}

func (b *backend) KVSGet(kvsname, key string, buf []byte) pmi.Status {
	if len(buf) == 0 {
		return pmi.Fail
	}
	return toStatus(b.abi.kvsGet(kvsname, key, &buf[0], int32(len(buf))))
}

func (b *backend) Barrier() pmi.Status {
	return toStatus(b.abi.barrier())
}

// Finalize mirrors the original broker_pmi_finalize: it invokes the
// library's PMI_Finalize for cleanliness but always reports Success to
// the caller, so a finalize-time hiccup never blocks the subsequent
// Destroy.
func (b *backend) Finalize() pmi.Status {
	b.abi.finalize()
	return pmi.Success
}

func (b *backend) Destroy() {
	b.lib.Close()
}

func cString(buf []byte) string {
	for i, c := range buf {
		if c == 0 {
			return string(buf[:i])
		}
	}
	return string(buf)
}
