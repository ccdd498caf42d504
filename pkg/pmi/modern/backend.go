package modern

import (
	"github.com/flux-framework/pmi-go/pkg/pmi"
	"github.com/flux-framework/pmi-go/pkg/pmi/dynlib"
)

// Key names this backend reads out of job info to recover the PMI-1
// shaped (rank, size, kvsname) triple PMIx itself does not expose
// directly.
const (
	keyJobSize        = "PMIX_JOB_SIZE"
	keyProcessMapping = "PMI_process_mapping"
	keyANLMap         = "ANL-map"
)

// Info-vector attribute keys this backend sets via direct struct-field
// writes rather than the real library's convenience macros.
const (
	infoOptional    = "PMIX_OPTIONAL"
	infoCollectData = "PMIX_COLLECT_DATA"
)

// pmixClient is the typed entry-point surface *abi provides. Declaring it
// separately from the concrete *abi lets backend tests substitute a stub
// that never touches purego or a real library handle.
type pmixClient interface {
	init(proc *pmixProc) Status
	finalize() Status
	put(scope uint32, key string, val *pmixValue, keep []byte) Status
	commit() Status
	fence(procs []pmixProc, info []pmixInfo) Status
	get(proc *pmixProc, key string, info []pmixInfo) (*pmixValue, Status)
}

// backend binds the Modern Dynamic provider: a self pmixProc obtained at
// Init time, used as the implicit scope for every subsequent Put/Get.
type backend struct {
	lib  *dynlib.Library
	abi  pmixClient
	self pmixProc
}

// New wraps an already-loaded modern library (with RequiredSymbols
// verified present by dynlib.Load) as a pmi.Backend. Binding the typed
// entry points happens here, after the generic presence check dynlib.Load
// already performed.
func New(lib *dynlib.Library) (pmi.Backend, error) {
	a, err := bind(lib.Handle())
	if err != nil {
		return nil, err
	}
	return &backend{lib: lib, abi: a}, nil
}

func (b *backend) Mode() string { return "pmix" }

func (b *backend) Init() pmi.Status {
	var proc pmixProc
	status := b.abi.init(&proc)
	if status != Success {
		return ToNeutral(status)
	}
	b.self = proc
	return pmi.Success
}

// GetParams recovers the PMI-1 shaped (rank, size, kvsname) triple: rank
// and kvsname (the job namespace) come from the proc PMIx_Init populated,
// size comes from a job-scoped PMIX_JOB_SIZE query against the wildcard
// rank.
func (b *backend) GetParams() (pmi.Params, pmi.Status) {
	wildcard := newProc(b.self.nspaceString(), rankWildcard)
	info := []pmixInfo{newInfoBool(infoOptional, true)}
	val, status := b.abi.get(&wildcard, keyJobSize, info)
	if status != Success {
		return pmi.Params{}, ToNeutral(status)
	}
	size, ok := convertInt(val)
	if !ok {
		return pmi.Params{}, pmi.InvalidVal
	}
	return pmi.Params{
		Rank:    int(b.self.Rank),
		Size:    size,
		KVSName: b.self.nspaceString(),
	}, pmi.Success
}

// KVSPut boxes value as a string and stores it under key in this proc's
// own namespace. kvsname is accepted for pmi.Backend symmetry with the
// other backends but unused: a modern job has exactly one implicit
// namespace per process, unlike PMI-1's explicit kvsname argument.
func (b *backend) KVSPut(kvsname, key, value string) pmi.Status {
	var v pmixValue
	keep := v.setString(value)
	status := b.abi.put(scopeGlobal, key, &v, keep)
	return ToNeutral(status)
}

// KVSCommit flushes locally Put data to the modern backend's server so
// it is visible to other ranks after the next collective Barrier.
func (b *backend) KVSCommit(kvsname string) pmi.Status {
	return ToNeutral(b.abi.commit())
}

// KVSGet queries key at the wildcard rank within the requested kvsname's
// namespace, the same flat, rank-agnostic keyspace PMI-1's KVS_Get
// exposes. PMI_process_mapping is special-cased: it never lived in any
// namespace's KVS, it is the job's ANL-map attribute, looked up against
// this proc's own wildcard self rather than the requested namespace.
func (b *backend) KVSGet(kvsname, key string, buf []byte) pmi.Status {
	if len(buf) == 0 {
		return pmi.Fail
	}
	if key == keyProcessMapping {
		return b.getANLMap(buf)
	}
	wildcard := newProc(kvsname, rankWildcard)
	val, status := b.abi.get(&wildcard, key, nil)
	if status != Success {
		return ToNeutral(status)
	}
	return copyStringValue(val, buf)
}

// getANLMap looks up the job's ANL-map attribute, the modern backend's
// equivalent of PMI-1's synthesized PMI_process_mapping key. The core
// deliberately does not synthesize a mapping if the attribute is absent.
func (b *backend) getANLMap(buf []byte) pmi.Status {
	wildcard := newProc(b.self.nspaceString(), rankWildcard)
	val, status := b.abi.get(&wildcard, keyANLMap, nil)
	if status != Success {
		return pmi.Fail
	}
	return copyStringValue(val, buf)
}

func copyStringValue(val *pmixValue, buf []byte) pmi.Status {
	if val.Type != typeString {
		return pmi.InvalidVal
	}
	s := val.stringValue()
	if len(s) > len(buf)-1 {
		s = s[:len(buf)-1]
	}
	n := copy(buf, s)
	buf[n] = 0
	return pmi.Success
}

func (b *backend) Barrier() pmi.Status {
	info := []pmixInfo{newInfoBool(infoCollectData, true)}
	return ToNeutral(b.abi.fence(nil, info))
}

func (b *backend) Finalize() pmi.Status {
	return ToNeutral(b.abi.finalize())
}

func (b *backend) Destroy() {
	b.lib.Close()
}
