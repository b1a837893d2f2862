package pow

import (
	"github.com/copernet/xyond/crypto"
	"github.com/copernet/xyond/crypto/neoscrypt"
	"github.com/copernet/xyond/errcode"
	"github.com/copernet/xyond/util"
)

// Hasher computes proof-of-work digests. HashCache and PlainHasher both
// satisfy it.
type Hasher interface {
	PowHash(algo Algo, data []byte) (util.Hash, error)
}

type plainHasher struct{}

func (plainHasher) PowHash(algo Algo, data []byte) (util.Hash, error) {
	return PowHash(algo, data)
}

// PlainHasher hashes without any caching.
var PlainHasher Hasher = plainHasher{}

// PowHash hashes data, normally a serialized 80-byte header, with algo.
func PowHash(algo Algo, data []byte) (util.Hash, error) {
	switch algo {
	case AlgoSha256d:
		return crypto.DoubleSha256Hash(data), nil
	case AlgoNeoscrypt:
		return util.Hash(neoscrypt.Sum(data)), nil
	default:
		return util.HashZero, errcode.Wrapf(errcode.ErrorInvalidAlgorithm, "pow hash with algo %d", uint8(algo))
	}
}
