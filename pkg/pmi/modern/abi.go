package modern

import (
	"encoding/binary"
	"fmt"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
)

// Field-width constants lifted from the real header this client never
// links against. Only PMIx_Init, PMIx_Finalize, PMIx_Put, PMIx_Commit,
// PMIx_Fence and PMIx_Get are bound: the operations the Modern Dynamic
// backend actually drives.
const (
	nsLen  = 256 // PMIX_MAX_NSLEN + 1
	keyLen = 512 // PMIX_MAX_KEYLEN + 1
)

// LibraryName is the default base file name searched for when the
// caller does not override it via PMIX_LIBRARY.
const LibraryName = "libpmix.so"

// Sentinel is the symbol that identifies a candidate library as the
// broker's own shim, never the resource manager's real PMIx library.
const Sentinel = "flux_pmix_library"

// pmixProc mirrors pmix_proc_t: a namespace and a rank. PMIX_RANK_WILDCARD
// (used for job-scoped, rather than peer-scoped, Get queries) is ^uint32(0)
// reinterpreted as int32.
type pmixProc struct {
	Nspace [nsLen]byte
	Rank   int32
	_      [4]byte
}

const rankWildcard int32 = -1

func newProc(nspace string, rank int32) pmixProc {
	var p pmixProc
	copy(p.Nspace[:], nspace)
	p.Rank = rank
	return p
}

func (p *pmixProc) nspaceString() string {
	return cString(p.Nspace[:])
}

// pmixValue mirrors the tagged union pmix_value_t: a 2-byte type tag, 6
// bytes of padding to 8-byte-align the union storage, and 8 bytes of
// inline union data. A boxed string stores a pointer into Go-owned
// memory in those 8 bytes rather than the string bytes themselves,
// matching how the real union stores "char *string".
type pmixValue struct {
	Type uint16
	_    [6]byte
	Data [8]byte
}

func (v *pmixValue) setUint32(n uint32) {
	v.Type = typeUint32
	binary.LittleEndian.PutUint32(v.Data[:4], n)
}

func (v *pmixValue) setInt(n int32) {
	v.Type = typeInt32
	binary.LittleEndian.PutUint32(v.Data[:4], uint32(n))
}

func (v *pmixValue) setBool(b bool) {
	v.Type = typeBool
	if b {
		v.Data[0] = 1
	} else {
		v.Data[0] = 0
	}
}

// setString boxes s as a NUL-terminated C string and returns the backing
// buffer; the caller must keep it alive (runtime.KeepAlive) at least until
// the ABI call that reads v.Data returns.
func (v *pmixValue) setString(s string) []byte {
	v.Type = typeString
	buf := append([]byte(s), 0)
	binary.LittleEndian.PutUint64(v.Data[:8], uint64(uintptr(unsafe.Pointer(&buf[0]))))
	return buf
}

func (v *pmixValue) uint32Value() uint32 {
	return binary.LittleEndian.Uint32(v.Data[:4])
}

func (v *pmixValue) intValue() int32 {
	return int32(binary.LittleEndian.Uint32(v.Data[:4]))
}

func (v *pmixValue) boolValue() bool {
	return v.Data[0] != 0
}

func (v *pmixValue) uint16Value() uint16 {
	return binary.LittleEndian.Uint16(v.Data[:2])
}

func (v *pmixValue) int64Value() int64 {
	return int64(binary.LittleEndian.Uint64(v.Data[:8]))
}

func (v *pmixValue) uint64Value() uint64 {
	return binary.LittleEndian.Uint64(v.Data[:8])
}

func (v *pmixValue) stringValue() string {
	ptr := uintptr(binary.LittleEndian.Uint64(v.Data[:8]))
	if ptr == 0 {
		return ""
	}
	return cStringAt(ptr)
}

// pmixInfo mirrors pmix_info_t: a fixed key buffer, a flags word, and an
// inline pmixValue. Building these by hand (rather than with the real
// PMIX_INFO_CONSTRUCT/LOAD macros) is what lets this client avoid linking
// any PMIx development headers.
type pmixInfo struct {
	Key   [keyLen]byte
	Flags uint32
	_     [4]byte
	Value pmixValue
}

// newInfoBool builds a one-element pmixInfo carrying a boolean attribute
// (PMIX_OPTIONAL on a Get, PMIX_COLLECT_DATA on a Fence) by writing the
// struct's fields directly, the same ABI-stable layout every other pmixInfo
// in this package goes through rather than the real library's
// PMIX_INFO_CONSTRUCT/PMIX_INFO_LOAD macros.
func newInfoBool(key string, val bool) pmixInfo {
	var info pmixInfo
	copy(info.Key[:], key)
	info.Value.setBool(val)
	return info
}

// abi holds the resolved Modern Dynamic entry points, bound by address
// rather than by purego.RegisterLibFunc: the pointer-to-struct and
// fixed-array parameters these calls take have no reflectable Go
// signature, so each call goes through purego.SyscallN directly.
type abi struct {
	initFn     uintptr
	finalizeFn uintptr
	putFn      uintptr
	commitFn   uintptr
	fenceFn    uintptr
	getFn      uintptr
}

// RequiredSymbols are the entry points the Modern Dynamic backend
// requires to be present before it will bind a candidate library.
var RequiredSymbols = []string{
	"PMIx_Init",
	"PMIx_Finalize",
	"PMIx_Put",
	"PMIx_Commit",
	"PMIx_Fence",
	"PMIx_Get",
}

func bind(handle uintptr) (*abi, error) {
	resolve := func(name string) (uintptr, error) {
		addr, err := purego.Dlsym(handle, name)
		if err != nil || addr == 0 {
			return 0, fmt.Errorf("modern: symbol %s not resolvable: %w", name, err)
		}
		return addr, nil
	}
	var a abi
	var err error
	if a.initFn, err = resolve("PMIx_Init"); err != nil {
		return nil, err
	}
	if a.finalizeFn, err = resolve("PMIx_Finalize"); err != nil {
		return nil, err
	}
	if a.putFn, err = resolve("PMIx_Put"); err != nil {
		return nil, err
	}
	if a.commitFn, err = resolve("PMIx_Commit"); err != nil {
		return nil, err
	}
	if a.fenceFn, err = resolve("PMIx_Fence"); err != nil {
		return nil, err
	}
	if a.getFn, err = resolve("PMIx_Get"); err != nil {
		return nil, err
	}
	return &a, nil
}

func (a *abi) init(proc *pmixProc) Status {
	r1, _, _ := purego.SyscallN(a.initFn, uintptr(unsafe.Pointer(proc)), 0, 0)
	runtime.KeepAlive(proc)
	return Status(int32(r1))
}

func (a *abi) finalize() Status {
	r1, _, _ := purego.SyscallN(a.finalizeFn, 0, 0)
	return Status(int32(r1))
}

func (a *abi) put(scope uint32, key string, val *pmixValue, keep []byte) Status {
	keyBuf := append([]byte(key), 0)
	r1, _, _ := purego.SyscallN(a.putFn, uintptr(scope), uintptr(unsafe.Pointer(&keyBuf[0])), uintptr(unsafe.Pointer(val)))
	runtime.KeepAlive(keyBuf)
	runtime.KeepAlive(val)
	runtime.KeepAlive(keep)
	return Status(int32(r1))
}

func (a *abi) commit() Status {
	r1, _, _ := purego.SyscallN(a.commitFn, 0, 0)
	return Status(int32(r1))
}

func (a *abi) fence(procs []pmixProc, info []pmixInfo) Status {
	var procsPtr, infoPtr uintptr
	if len(procs) > 0 {
		procsPtr = uintptr(unsafe.Pointer(&procs[0]))
	}
	if len(info) > 0 {
		infoPtr = uintptr(unsafe.Pointer(&info[0]))
	}
	r1, _, _ := purego.SyscallN(a.fenceFn, procsPtr, uintptr(len(procs)), infoPtr, uintptr(len(info)))
	runtime.KeepAlive(procs)
	runtime.KeepAlive(info)
	return Status(int32(r1))
}

func (a *abi) get(proc *pmixProc, key string, info []pmixInfo) (*pmixValue, Status) {
	keyBuf := append([]byte(key), 0)
	var infoPtr uintptr
	if len(info) > 0 {
		infoPtr = uintptr(unsafe.Pointer(&info[0]))
	}
	var outPtr uintptr
	r1, _, _ := purego.SyscallN(a.getFn,
		uintptr(unsafe.Pointer(proc)),
		uintptr(unsafe.Pointer(&keyBuf[0])),
		infoPtr, uintptr(len(info)),
		uintptr(unsafe.Pointer(&outPtr)))
	runtime.KeepAlive(proc)
	runtime.KeepAlive(keyBuf)
	runtime.KeepAlive(info)
	if status := Status(int32(r1)); status != Success {
		return nil, status
	}
	if outPtr == 0 {
		return nil, ErrNotFound
	}
	return (*pmixValue)(unsafe.Pointer(outPtr)), Success
}

func cString(buf []byte) string {
	for i, c := range buf {
		if c == 0 {
			return string(buf[:i])
		}
	}
	return string(buf)
}

// cStringAt reads a NUL-terminated string out of memory owned by the
// resolved library, one byte at a time, stopping at a length this client
// will never see a legitimate key or job-info value exceed.
func cStringAt(ptr uintptr) string {
	const maxLen = 1 << 20
	var out []byte
	for i := 0; i < maxLen; i++ {
		b := *(*byte)(unsafe.Pointer(ptr + uintptr(i)))
		if b == 0 {
			break
		}
		out = append(out, b)
	}
	return string(out)
}
