// Package modern implements the Modern Dynamic backend: binding the
// PMIx-like typed/namespaced ABI behind pmi.Backend, including
// value boxing/unboxing and info-list construction done with direct
// struct-field writes rather than the backend's own convenience
// macros (see SPEC_FULL.md §9 — info-vector construction without
// linking the backend).
package modern

import "github.com/flux-framework/pmi-go/pkg/pmi"

// Status is the modern backend's native status domain: a mirror of the
// subset of pmix_status_t this client consumes (validation errors,
// transport/availability/type/namespace errors, PMIX_SUCCESS, and
// PMIX_ERR_INIT). It is intentionally a local re-declaration, not a cgo
// import of the real header, since this backend is reached only through
// purego at a resolved symbol address.
type Status int32

const (
	Success Status = 0

	// Validation errors: map 1:1 to the correspondingly named neutral
	// tag.
	ErrInvalidSize      Status = -2
	ErrInvalidKeyvalp   Status = -3
	ErrInvalidNumParsed Status = -4
	ErrInvalidArgs      Status = -5
	ErrInvalidNumArgs   Status = -6
	ErrInvalidLength    Status = -7
	ErrInvalidValLength Status = -8
	ErrInvalidVal       Status = -9
	ErrInvalidKeyLength Status = -10
	ErrInvalidKey       Status = -11
	ErrInvalidArg       Status = -12
	ErrNomem            Status = -13

	// Init-class error.
	ErrInit Status = -14

	// Transport/availability/type/namespace errors: every one of these
	// collapses to pmi.Fail. The broker reacts identically to all of
	// them, so finer discrimination would be discarded anyway.
	ErrUnpackReadPastEndOfBuffer Status = -15
	ErrLostConnectionToServer    Status = -16
	ErrLostPeerConnection        Status = -17
	ErrLostConnectionToClient    Status = -18
	ErrNotSupported              Status = -19
	ErrNotFound                  Status = -20
	ErrServerNotAvail            Status = -21
	ErrInvalidNamespace          Status = -22
	ErrDataValueNotFound         Status = -23
	ErrOutOfResource             Status = -24
	ErrResourceBusy              Status = -25
	ErrBadParam                  Status = -26
	ErrInErrno                   Status = -27
	ErrUnreach                   Status = -28
	ErrTimeout                   Status = -29
	ErrNoPermissions             Status = -30
	ErrPackMismatch              Status = -31
	ErrPackFailure               Status = -32
	ErrUnpackFailure             Status = -33
	ErrUnpackInadequateSpace     Status = -34
	ErrTypeMismatch              Status = -35
	ErrProcEntryNotFound         Status = -36
	ErrUnknownDataType           Status = -37
	ErrWouldBlock                Status = -38
	Exists                       Status = -39
	Error                        Status = -1
)

// ToNeutral performs the one-way translation from the modern backend's
// native status to the Status Mapper's neutral taxonomy. Unknown codes
// map to pmi.Fail, the safe default.
func ToNeutral(s Status) pmi.Status {
	switch s {
	case Success:
		return pmi.Success
	case ErrInit:
		return pmi.Init
	case ErrInvalidSize:
		return pmi.InvalidSize
	case ErrInvalidKeyvalp:
		return pmi.InvalidKeyvalp
	case ErrInvalidNumParsed:
		return pmi.InvalidNumParsed
	case ErrInvalidArgs:
		return pmi.InvalidArgs
	case ErrInvalidNumArgs:
		return pmi.InvalidNumArgs
	case ErrInvalidLength:
		return pmi.InvalidLength
	case ErrInvalidValLength:
		return pmi.InvalidValLength
	case ErrInvalidVal:
		return pmi.InvalidVal
	case ErrInvalidKeyLength:
		return pmi.InvalidKeyLength
	case ErrInvalidKey:
		return pmi.InvalidKey
	case ErrInvalidArg:
		return pmi.InvalidArg
	case ErrNomem:
		return pmi.NoMem
	case ErrUnpackReadPastEndOfBuffer,
		ErrLostConnectionToServer,
		ErrLostPeerConnection,
		ErrLostConnectionToClient,
		ErrNotSupported,
		ErrNotFound,
		ErrServerNotAvail,
		ErrInvalidNamespace,
		ErrDataValueNotFound,
		ErrOutOfResource,
		ErrResourceBusy,
		ErrBadParam,
		ErrInErrno,
		ErrUnreach,
		ErrTimeout,
		ErrNoPermissions,
		ErrPackMismatch,
		ErrPackFailure,
		ErrUnpackFailure,
		ErrUnpackInadequateSpace,
		ErrTypeMismatch,
		ErrProcEntryNotFound,
		ErrUnknownDataType,
		ErrWouldBlock,
		Exists,
		Error:
		return pmi.Fail
	default:
		return pmi.Fail
	}
}
