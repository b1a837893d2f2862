package util

import (
	"crypto/rand"
	"encoding/binary"
)

// new a insecure rand creator from crypto/rand seed
func newInsecureRand(n int) []byte {
	randByte := make([]byte, n)
	if _, err := rand.Read(randByte); err != nil {
		panic("init rand number creator failed...")
	}
	return randByte
}

// InsecureRand32 create a random number in [0 math.MaxUint32]
func InsecureRand32() uint32 {
	return binary.LittleEndian.Uint32(newInsecureRand(4))
}

func GetRandHash() *Hash {
	hash := new(Hash)
	copy(hash[:], newInsecureRand(Hash256Size))
	return hash
}
