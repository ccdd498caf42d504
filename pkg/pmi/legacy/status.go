package legacy

import "github.com/flux-framework/pmi-go/pkg/pmi"

// PMI-1 return codes, as defined by the historical MPICH pmi.h this
// backend's resolved symbols honor.
const (
	pmiSuccess             int32 = 0
	pmiFail                int32 = -1
	pmiErrInit             int32 = 1
	pmiErrNomem            int32 = 2
	pmiErrInvalidArg       int32 = 3
	pmiErrInvalidKey       int32 = 4
	pmiErrInvalidKeyLength int32 = 5
	pmiErrInvalidVal       int32 = 6
	pmiErrInvalidValLength int32 = 7
	pmiErrInvalidLength    int32 = 8
	pmiErrInvalidNumArgs   int32 = 9
	pmiErrInvalidArgs      int32 = 10
	pmiErrInvalidNumParsed int32 = 11
	pmiErrInvalidKeyvalp   int32 = 12
	pmiErrInvalidSize      int32 = 13
)

// toStatus maps a PMI-1 return code to the neutral taxonomy. Unknown
// codes collapse to Fail, the same safe default the Status Mapper uses
// for the modern backend.
func toStatus(code int32) pmi.Status {
	switch code {
	case pmiSuccess:
		return pmi.Success
	case pmiErrInit:
		return pmi.Init
	case pmiErrInvalidSize:
		return pmi.InvalidSize
	case pmiErrInvalidKeyvalp:
		return pmi.InvalidKeyvalp
	case pmiErrInvalidNumParsed:
		return pmi.InvalidNumParsed
	case pmiErrInvalidArgs:
		return pmi.InvalidArgs
	case pmiErrInvalidNumArgs:
		return pmi.InvalidNumArgs
	case pmiErrInvalidLength:
		return pmi.InvalidLength
	case pmiErrInvalidValLength:
		return pmi.InvalidValLength
	case pmiErrInvalidVal:
		return pmi.InvalidVal
	case pmiErrInvalidKeyLength:
		return pmi.InvalidKeyLength
	case pmiErrInvalidKey:
		return pmi.InvalidKey
	case pmiErrInvalidArg:
		return pmi.InvalidArg
	case pmiErrNomem:
		return pmi.NoMem
	case pmiFail:
		return pmi.Fail
	default:
		return pmi.Fail
	}
}
