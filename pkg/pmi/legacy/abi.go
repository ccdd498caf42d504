// Package legacy implements the Legacy Dynamic backend: binding the
// PMI-1 flat-C symbol set behind pmi.Backend once it has been located
// and resolved by pkg/pmi/dynlib.
package legacy

import "github.com/ebitengine/purego"

// LibraryName is the default base file name searched for when the
// caller does not override it via PMI_LIBRARY.
const LibraryName = "libpmi.so"

// Sentinel is the symbol that identifies a candidate library as the
// broker's own shim, never the resource manager's real PMI-1 library.
const Sentinel = "flux_pmi_library"

// RequiredSymbols are the flat-C entry points a legacy PMI-1 library
// must export for the Legacy Dynamic backend to use it.
var RequiredSymbols = []string{
	"PMI_Init",
	"PMI_Finalize",
	"PMI_Get_size",
	"PMI_Get_rank",
	"PMI_Barrier",
	"PMI_KVS_Get_my_name",
	"PMI_KVS_Put",
	"PMI_KVS_Commit",
	"PMI_KVS_Get",
}

// abi holds the PMI-1 entry points, bound by name against an already
// resolved library handle via purego.RegisterLibFunc. Every field here
// corresponds 1:1 to a name in RequiredSymbols.
type abi struct {
	init         func(spawned *int32) int32
	finalize     func() int32
	getSize      func(size *int32) int32
	getRank      func(rank *int32) int32
	barrier      func() int32
	kvsGetMyName func(buf *byte, length int32) int32
	kvsPut       func(kvsname, key, value string) int32
	kvsCommit    func(kvsname string) int32
	kvsGet       func(kvsname, key string, buf *byte, length int32) int32
}

// bind registers every PMI-1 entry point against handle. Handle must
// already have had RequiredSymbols verified present by dynlib.Load; this
// is a second, type-carrying resolution pass, not a presence check.
func bind(handle uintptr) *abi {
	a := &abi{}
	purego.RegisterLibFunc(&a.init, handle, "PMI_Init")
	purego.RegisterLibFunc(&a.finalize, handle, "PMI_Finalize")
	purego.RegisterLibFunc(&a.getSize, handle, "PMI_Get_size")
	purego.RegisterLibFunc(&a.getRank, handle, "PMI_Get_rank")
	purego.RegisterLibFunc(&a.barrier, handle, "PMI_Barrier")
	purego.RegisterLibFunc(&a.kvsGetMyName, handle, "PMI_KVS_Get_my_name")
	purego.RegisterLibFunc(&a.kvsPut, handle, "PMI_KVS_Put")
	purego.RegisterLibFunc(&a.kvsCommit, handle, "PMI_KVS_Commit")
	purego.RegisterLibFunc(&a.kvsGet, handle, "PMI_KVS_Get")
	return a
}
