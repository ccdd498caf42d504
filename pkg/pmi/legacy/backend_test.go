package legacy

import (
	"testing"
	"unsafe"

	"github.com/flux-framework/pmi-go/pkg/pmi"
)

// stubBackend builds a backend over a hand-rolled abi, bypassing bind()
// and purego entirely: no real library handle is ever touched.
func stubBackend(a *abi) *backend {
	return &backend{lib: nil, abi: a}
}

func TestGetParamsStopsAtFirstFailure(t *testing.T) {
	calledKVSName := false
	a := &abi{
		getRank: func(rank *int32) int32 { return pmiErrInvalidArg },
		getSize: func(size *int32) int32 { t.Fatal("getSize called after getRank failed"); return 0 },
		kvsGetMyName: func(buf *byte, length int32) int32 {
			calledKVSName = true
			return pmiSuccess
		},
	}
	b := stubBackend(a)

	_, status := b.GetParams()
	if status != pmi.InvalidArg {
		t.Errorf("GetParams() status = %s, want ERR_INVALID_ARG", status)
	}
	if calledKVSName {
		t.Error("kvsGetMyName was called despite an earlier failure")
	}
}

func TestGetParamsSucceeds(t *testing.T) {
	a := &abi{
		getRank: func(rank *int32) int32 { *rank = 2; return pmiSuccess },
		getSize: func(size *int32) int32 { *size = 4; return pmiSuccess },
		kvsGetMyName: func(buf *byte, length int32) int32 {
			copy(unsafe.Slice(buf, length), "kvs_3")
			return pmiSuccess
		},
	}
	b := stubBackend(a)

	params, status := b.GetParams()
	if status != pmi.Success {
		t.Fatalf("GetParams() status = %s, want SUCCESS", status)
	}
	if params.Rank != 2 || params.Size != 4 || params.KVSName != "kvs_3" {
		t.Errorf("GetParams() = %+v, want rank=2 size=4 kvsname=kvs_3", params)
	}
}

func TestFinalizeAlwaysSucceeds(t *testing.T) {
	a := &abi{finalize: func() int32 { return pmiFail }}
	b := stubBackend(a)
	if status := b.Finalize(); status != pmi.Success {
		t.Errorf("Finalize() = %s, want SUCCESS even though the inner call failed", status)
	}
}

func TestKVSGetRejectsEmptyBuffer(t *testing.T) {
	b := stubBackend(&abi{})
	if status := b.KVSGet("kvs", "key", nil); status.OK() {
		t.Error("KVSGet() with an empty buffer unexpectedly succeeded")
	}
}
