// Package pmi implements a process-manager bootstrap client: a thin,
// polymorphic client that lets a process discover its rank, size, and
// job namespace and exchange small key/value strings with peer
// processes, transparently across a wire-protocol launcher, a dynamically
// loaded legacy (PMI-1) library, a dynamically loaded modern (PMIx-like)
// library, or a single-rank singleton fallback.
package pmi

// Status is the neutral outcome taxonomy every Backend operation returns.
// It is the single vocabulary the rest of the broker reacts to, regardless
// of which backend produced it.
type Status int

const (
	Success Status = iota
	Init
	InvalidSize
	InvalidKeyvalp
	InvalidNumParsed
	InvalidArgs
	InvalidNumArgs
	InvalidLength
	InvalidValLength
	InvalidVal
	InvalidKeyLength
	InvalidKey
	InvalidArg
	NoMem
	Fail
)

var statusNames = map[Status]string{
	Success:          "SUCCESS",
	Init:             "ERR_INIT",
	InvalidSize:      "ERR_INVALID_SIZE",
	InvalidKeyvalp:   "ERR_INVALID_KEYVALP",
	InvalidNumParsed: "ERR_INVALID_NUM_PARSED",
	InvalidArgs:      "ERR_INVALID_ARGS",
	InvalidNumArgs:   "ERR_INVALID_NUM_ARGS",
	InvalidLength:    "ERR_INVALID_LENGTH",
	InvalidValLength: "ERR_INVALID_VAL_LENGTH",
	InvalidVal:       "ERR_INVALID_VAL",
	InvalidKeyLength: "ERR_INVALID_KEY_LENGTH",
	InvalidKey:       "ERR_INVALID_KEY",
	InvalidArg:       "ERR_INVALID_ARG",
	NoMem:            "ERR_NOMEM",
	Fail:             "FAIL",
}

// String renders the status the way pmi_strerror does in the original
// client: a short uppercase mnemonic, never a sentence. Debug traces and
// CLI output both go through this so the wire format stays stable.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "FAIL"
}

// OK reports whether the status represents successful completion.
func (s Status) OK() bool {
	return s == Success
}
