package wire

import (
	"testing"

	"github.com/flux-framework/pmi-go/pkg/pmi"
)

type fakeWireClient struct {
	rank, size int
	name       string
	store      map[string]string
	destroyed  bool
}

func newFakeWireClient(rank, size int, name string) *fakeWireClient {
	return &fakeWireClient{rank: rank, size: size, name: name, store: map[string]string{}}
}

func (f *fakeWireClient) Rank() int { return f.rank }
func (f *fakeWireClient) Size() int { return f.size }
func (f *fakeWireClient) Init() pmi.Status { return pmi.Success }
func (f *fakeWireClient) Finalize() pmi.Status { return pmi.Success }
func (f *fakeWireClient) Destroy() { f.destroyed = true }

func (f *fakeWireClient) MyName(buf []byte) pmi.Status {
	copy(buf, f.name)
	return pmi.Success
}

func (f *fakeWireClient) Put(kvsname, key, value string) pmi.Status {
	f.store[key] = value
	return pmi.Success
}

func (f *fakeWireClient) Get(kvsname, key string, buf []byte) pmi.Status {
	v, ok := f.store[key]
	if !ok {
		return pmi.Fail
	}
	copy(buf, v)
	return pmi.Success
}

func (f *fakeWireClient) Barrier() pmi.Status { return pmi.Success }

func TestWireBackendGetParamsUsesClientValues(t *testing.T) {
	cli := newFakeWireClient(2, 4, "kvs-wire-0")
	b := New(cli)

	params, status := b.GetParams()
	if status != pmi.Success {
		t.Fatalf("GetParams() status = %s, want SUCCESS", status)
	}
	if params.Rank != 2 || params.Size != 4 || params.KVSName != "kvs-wire-0" {
		t.Errorf("GetParams() = %+v, want rank=2 size=4 kvsname=kvs-wire-0", params)
	}
}

func TestWireBackendKVSCommitIsNoop(t *testing.T) {
	b := New(newFakeWireClient(0, 1, "kvs0"))
	if status := b.KVSCommit("kvs0"); status != pmi.Success {
		t.Errorf("KVSCommit() = %s, want SUCCESS", status)
	}
}

func TestWireBackendPutThenGetRoundTrips(t *testing.T) {
	b := New(newFakeWireClient(0, 1, "kvs0"))
	if status := b.KVSPut("kvs0", "k", "v"); status != pmi.Success {
		t.Fatalf("KVSPut() = %s", status)
	}
	buf := make([]byte, 8)
	if status := b.KVSGet("kvs0", "k", buf); status != pmi.Success {
		t.Fatalf("KVSGet() = %s", status)
	}
	if got := cString(buf); got != "v" {
		t.Errorf("KVSGet() buffer = %q, want v", got)
	}
}

func TestWireBackendDestroyDelegates(t *testing.T) {
	cli := newFakeWireClient(0, 1, "kvs0")
	b := New(cli)
	b.Destroy()
	if !cli.destroyed {
		t.Error("Destroy() did not delegate to the wire client")
	}
}
