package pow

import (
	"github.com/copernet/xyond/util"
	"github.com/holiman/uint256"
)

// CompactToTarget decodes the compact "bits" form of a target: the top byte
// is a base-256 exponent and the low 23 bits the mantissa, with bit 23 used
// as a sign. Values that do not fit in 256 bits set overflow.
func CompactToTarget(compact uint32) (target *uint256.Int, negative bool, overflow bool) {
	size := compact >> 24
	word := compact & 0x007fffff

	target = new(uint256.Int)
	if size <= 3 {
		word >>= 8 * (3 - size)
		target.SetUint64(uint64(word))
	} else {
		target.SetUint64(uint64(word))
		target.Lsh(target, uint(8*(size-3)))
	}

	negative = word != 0 && (compact&0x00800000) != 0
	overflow = word != 0 && ((size > 34) ||
		(word > 0xff && size > 33) ||
		(word > 0xffff && size > 32))
	return target, negative, overflow
}

// TargetToCompact encodes target in compact form, the inverse of
// CompactToTarget up to mantissa precision.
func TargetToCompact(target *uint256.Int) uint32 {
	return targetToCompact(target, false)
}

func targetToCompact(target *uint256.Int, negative bool) uint32 {
	size := uint32((target.BitLen() + 7) / 8)
	var compact uint32
	if size <= 3 {
		compact = uint32(target.Uint64() << (8 * (3 - size)))
	} else {
		shifted := new(uint256.Int).Rsh(target, uint(8*(size-3)))
		compact = uint32(shifted.Uint64())
	}

	// The 0x00800000 bit denotes the sign, so move the mantissa one byte
	// down when it is set.
	if compact&0x00800000 != 0 {
		compact >>= 8
		size++
	}
	compact |= size << 24
	if negative && compact&0x007fffff != 0 {
		compact |= 0x00800000
	}
	return compact
}

// HashToTarget reads a digest as the little-endian 256-bit number proof of
// work compares against a target.
func HashToTarget(hash *util.Hash) *uint256.Int {
	var buf [util.Hash256Size]byte
	for i := 0; i < util.Hash256Size; i++ {
		buf[i] = hash[util.Hash256Size-1-i]
	}
	return new(uint256.Int).SetBytes(buf[:])
}

// TargetToHash is the inverse of HashToTarget.
func TargetToHash(target *uint256.Int) util.Hash {
	be := target.Bytes32()
	var hash util.Hash
	for i := 0; i < util.Hash256Size; i++ {
		hash[i] = be[util.Hash256Size-1-i]
	}
	return hash
}
