// Package neoscrypt implements the default NeoScrypt profile used for block
// proof of work: FastKDF over keyed BLAKE2s wrapped around a ChaCha20/20 and
// Salsa20/20 double SMix with N=128 and r=2.
package neoscrypt

import (
	"encoding/binary"
	"math/bits"

	"golang.org/x/crypto/blake2s"
)

const (
	// Size of the digest returned by Sum.
	Size = 32

	n = 128
	r = 2

	// words per 64-byte mixing block
	blockWords = 16
	stateWords = 2 * r * blockWords
	stateBytes = stateWords * 4

	coreRounds = 20

	kdfBufSize    = 256
	kdfRounds     = 32
	prfInputSize  = 64
	prfKeySize    = 32
	prfOutputSize = 32
)

// Sum returns the NeoScrypt digest of data. Block headers pass their 80-byte
// serialization as both password and salt.
func Sum(data []byte) [Size]byte {
	var digest [Size]byte
	if len(data) == 0 {
		data = []byte{0}
	}

	x := bytesToWords(fastKDF(data, data, stateBytes))
	z := make([]uint32, stateWords)
	copy(z, x)

	v := make([]uint32, n*stateWords)
	smix(z, v, chachaCore)
	smix(x, v, salsaCore)
	for i := range x {
		x[i] ^= z[i]
	}

	copy(digest[:], fastKDF(data, wordsToBytes(x), Size))
	return digest
}

func fill(dst, src []byte) {
	if len(src) > len(dst) {
		src = src[:len(dst)]
	}
	for i := 0; i < len(dst); i += len(src) {
		copy(dst[i:], src)
	}
}

func xorBytes(dst, src []byte) {
	for i := range dst {
		dst[i] ^= src[i]
	}
}

// fastKDF is the NeoScrypt key derivation function. The salt buffer is
// repeatedly perturbed at a data dependent offset by a keyed BLAKE2s of the
// password buffer.
func fastKDF(password, salt []byte, outLen int) []byte {
	var a [kdfBufSize + prfInputSize]byte
	var b [kdfBufSize + prfKeySize]byte

	fill(a[:kdfBufSize], password)
	copy(a[kdfBufSize:], a[:prfInputSize])
	fill(b[:kdfBufSize], salt)
	copy(b[kdfBufSize:], b[:prfKeySize])

	ptr := 0
	for i := 0; i < kdfRounds; i++ {
		h, err := blake2s.New256(b[ptr : ptr+prfKeySize])
		if err != nil {
			// the key is always 32 bytes
			panic(err)
		}
		h.Write(a[ptr : ptr+prfInputSize])
		prf := h.Sum(nil)

		ptr = 0
		for _, v := range prf {
			ptr += int(v)
		}
		ptr &= kdfBufSize - 1

		xorBytes(b[ptr:ptr+prfOutputSize], prf)

		// keep the mirrored tail in sync with the head and vice versa
		if ptr < prfKeySize {
			l := prfKeySize - ptr
			if l > prfOutputSize {
				l = prfOutputSize
			}
			copy(b[kdfBufSize+ptr:], b[ptr:ptr+l])
		}
		if kdfBufSize-ptr < prfOutputSize {
			copy(b[:], b[kdfBufSize:kdfBufSize+prfOutputSize-(kdfBufSize-ptr)])
		}
	}

	if outLen > kdfBufSize {
		outLen = kdfBufSize
	}
	out := make([]byte, outLen)
	tail := kdfBufSize - ptr
	if tail >= outLen {
		xorBytes(b[ptr:ptr+outLen], a[:outLen])
		copy(out, b[ptr:ptr+outLen])
	} else {
		xorBytes(b[ptr:kdfBufSize], a[:tail])
		xorBytes(b[:outLen-tail], a[tail:outLen])
		copy(out, b[ptr:kdfBufSize])
		copy(out[tail:], b[:outLen-tail])
	}
	return out
}

func smix(x, v []uint32, core func(*[blockWords]uint32)) {
	for i := 0; i < n; i++ {
		copy(v[i*stateWords:], x)
		blockMix(x, core)
	}
	for i := 0; i < n; i++ {
		j := int(x[stateWords-blockWords]&(n-1)) * stateWords
		for k := 0; k < stateWords; k++ {
			x[k] ^= v[j+k]
		}
		blockMix(x, core)
	}
}

// blockMix chains the four blocks in order, each one absorbing its
// predecessor (the first absorbs the last), then swaps the middle two.
func blockMix(x []uint32, core func(*[blockWords]uint32)) {
	var blk [blockWords]uint32
	prev := 2*r - 1
	for i := 0; i < 2*r; i++ {
		cur := x[i*blockWords : (i+1)*blockWords]
		last := x[prev*blockWords : (prev+1)*blockWords]
		for k := range blk {
			blk[k] = cur[k] ^ last[k]
		}
		core(&blk)
		copy(cur, blk[:])
		prev = i
	}

	for k := 0; k < blockWords; k++ {
		x[blockWords+k], x[2*blockWords+k] = x[2*blockWords+k], x[blockWords+k]
	}
}

func salsaCore(b *[blockWords]uint32) {
	x := *b
	for i := 0; i < coreRounds; i += 2 {
		x[4] ^= bits.RotateLeft32(x[0]+x[12], 7)
		x[8] ^= bits.RotateLeft32(x[4]+x[0], 9)
		x[12] ^= bits.RotateLeft32(x[8]+x[4], 13)
		x[0] ^= bits.RotateLeft32(x[12]+x[8], 18)
		x[9] ^= bits.RotateLeft32(x[5]+x[1], 7)
		x[13] ^= bits.RotateLeft32(x[9]+x[5], 9)
		x[1] ^= bits.RotateLeft32(x[13]+x[9], 13)
		x[5] ^= bits.RotateLeft32(x[1]+x[13], 18)
		x[14] ^= bits.RotateLeft32(x[10]+x[6], 7)
		x[2] ^= bits.RotateLeft32(x[14]+x[10], 9)
		x[6] ^= bits.RotateLeft32(x[2]+x[14], 13)
		x[10] ^= bits.RotateLeft32(x[6]+x[2], 18)
		x[3] ^= bits.RotateLeft32(x[15]+x[11], 7)
		x[7] ^= bits.RotateLeft32(x[3]+x[15], 9)
		x[11] ^= bits.RotateLeft32(x[7]+x[3], 13)
		x[15] ^= bits.RotateLeft32(x[11]+x[7], 18)

		x[1] ^= bits.RotateLeft32(x[0]+x[3], 7)
		x[2] ^= bits.RotateLeft32(x[1]+x[0], 9)
		x[3] ^= bits.RotateLeft32(x[2]+x[1], 13)
		x[0] ^= bits.RotateLeft32(x[3]+x[2], 18)
		x[6] ^= bits.RotateLeft32(x[5]+x[4], 7)
		x[7] ^= bits.RotateLeft32(x[6]+x[5], 9)
		x[4] ^= bits.RotateLeft32(x[7]+x[6], 13)
		x[5] ^= bits.RotateLeft32(x[4]+x[7], 18)
		x[11] ^= bits.RotateLeft32(x[10]+x[9], 7)
		x[8] ^= bits.RotateLeft32(x[11]+x[10], 9)
		x[9] ^= bits.RotateLeft32(x[8]+x[11], 13)
		x[10] ^= bits.RotateLeft32(x[9]+x[8], 18)
		x[12] ^= bits.RotateLeft32(x[15]+x[14], 7)
		x[13] ^= bits.RotateLeft32(x[12]+x[15], 9)
		x[14] ^= bits.RotateLeft32(x[13]+x[12], 13)
		x[15] ^= bits.RotateLeft32(x[14]+x[13], 18)
	}
	for i := range b {
		b[i] += x[i]
	}
}

func quarterRound(x *[blockWords]uint32, a, b, c, d int) {
	x[a] += x[b]
	x[d] = bits.RotateLeft32(x[d]^x[a], 16)
	x[c] += x[d]
	x[b] = bits.RotateLeft32(x[b]^x[c], 12)
	x[a] += x[b]
	x[d] = bits.RotateLeft32(x[d]^x[a], 8)
	x[c] += x[d]
	x[b] = bits.RotateLeft32(x[b]^x[c], 7)
}

func chachaCore(b *[blockWords]uint32) {
	x := *b
	for i := 0; i < coreRounds; i += 2 {
		quarterRound(&x, 0, 4, 8, 12)
		quarterRound(&x, 1, 5, 9, 13)
		quarterRound(&x, 2, 6, 10, 14)
		quarterRound(&x, 3, 7, 11, 15)

		quarterRound(&x, 0, 5, 10, 15)
		quarterRound(&x, 1, 6, 11, 12)
		quarterRound(&x, 2, 7, 8, 13)
		quarterRound(&x, 3, 4, 9, 14)
	}
	for i := range b {
		b[i] += x[i]
	}
}

func bytesToWords(b []byte) []uint32 {
	w := make([]uint32, len(b)/4)
	for i := range w {
		w[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return w
}

func wordsToBytes(w []uint32) []byte {
	b := make([]byte, len(w)*4)
	for i, v := range w {
		binary.LittleEndian.PutUint32(b[i*4:], v)
	}
	return b
}
