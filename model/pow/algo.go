package pow

import (
	"fmt"

	"github.com/copernet/xyond/errcode"
)

// Algo identifies the hash function a block's proof of work is computed
// with. On the wire it shares a byte with FlagMergeMined.
type Algo uint8

const (
	AlgoInvalid   Algo = 0
	AlgoSha256d   Algo = 1
	AlgoNeoscrypt Algo = 2

	// FlagMergeMined marks merge-mined work. It is a bit in the serialized
	// algo byte and never an algorithm of its own.
	FlagMergeMined Algo = 0x80

	// AlgoMask selects the algorithm bits of the serialized byte.
	AlgoMask Algo = 0x7f
)

var algoNames = map[Algo]string{
	AlgoSha256d:   "sha256d",
	AlgoNeoscrypt: "neoscrypt",
}

// IsValid reports whether a names exactly one supported algorithm.
func (a Algo) IsValid() bool {
	switch a {
	case AlgoSha256d, AlgoNeoscrypt:
		return true
	default:
		return false
	}
}

func (a Algo) String() string {
	if s, ok := algoNames[a]; ok {
		return s
	}
	return fmt.Sprintf("invalid(%d)", uint8(a))
}

func AlgoToString(a Algo) (string, error) {
	if s, ok := algoNames[a]; ok {
		return s, nil
	}
	return "", errcode.Wrapf(errcode.ErrorInvalidAlgorithm, "algo value %d", uint8(a))
}

func AlgoFromString(s string) (Algo, error) {
	for algo, name := range algoNames {
		if name == s {
			return algo, nil
		}
	}
	return AlgoInvalid, errcode.Wrapf(errcode.ErrorInvalidAlgorithm, "algo name %q", s)
}

// AllAlgos lists the supported algorithms in ascending order.
func AllAlgos() []Algo {
	return []Algo{AlgoSha256d, AlgoNeoscrypt}
}
