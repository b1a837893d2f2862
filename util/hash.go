package util

import (
	"encoding/hex"
	"fmt"
	"io"
)

const (
	Hash256Size       = 32
	MaxHashStringSize = Hash256Size * 2
)

// Hash is a 256-bit digest stored in internal (little-endian) byte order.
// Its string form is the byte-reversed hex used by block explorers.
type Hash [Hash256Size]byte

var HashZero = Hash{}

func (hash Hash) String() string {
	return hash.ToString()
}

func (hash *Hash) ToString() string {
	bytes := hash.GetCloneBytes()
	for i := 0; i < Hash256Size/2; i++ {
		bytes[i], bytes[Hash256Size-1-i] = bytes[Hash256Size-1-i], bytes[i]
	}
	return hex.EncodeToString(bytes)
}

func (hash *Hash) Serialize(w io.Writer) (int, error) {
	return w.Write(hash[:])
}

func (hash *Hash) Unserialize(r io.Reader) (int, error) {
	return io.ReadFull(r, hash[:])
}

func (hash *Hash) GetCloneBytes() []byte {
	bytes := make([]byte, Hash256Size)
	copy(bytes, hash[:])
	return bytes
}

func (hash *Hash) SetBytes(bytes []byte) error {
	length := len(bytes)
	if length != Hash256Size {
		return fmt.Errorf("invalid hash length of %v , want %v", length, Hash256Size)
	}
	copy(hash[:], bytes)
	return nil
}

func (hash *Hash) IsEqual(target *Hash) bool {
	if hash == nil && target == nil {
		return true
	}
	if hash == nil || target == nil {
		return false
	}
	return *hash == *target
}

func (hash *Hash) IsNull() bool {
	return *hash == HashZero
}

func GetHashFromStr(hashStr string) (*Hash, error) {
	hash := new(Hash)
	bytes, err := DecodeHash(hashStr)
	if err != nil {
		return nil, err
	}
	if err := hash.SetBytes(bytes); err != nil {
		return nil, err
	}
	return hash, nil
}

// DecodeHash parses the reversed hex form. Short strings are left-padded with
// zeros, so "1" decodes to the hash with value one.
func DecodeHash(src string) ([]byte, error) {
	if len(src) > MaxHashStringSize {
		return nil, fmt.Errorf("max hash string length is %v bytes", MaxHashStringSize)
	}
	var srcBytes []byte
	if len(src)%2 == 0 {
		srcBytes = []byte(src)
	} else {
		srcBytes = make([]byte, 1+len(src))
		srcBytes[0] = '0'
		copy(srcBytes[1:], src)
	}
	reversedHash := make([]byte, Hash256Size)
	_, err := hex.Decode(reversedHash[Hash256Size-hex.DecodedLen(len(srcBytes)):], srcBytes)
	if err != nil {
		return nil, err
	}
	bytes := make([]byte, Hash256Size)
	for i, b := range reversedHash[:Hash256Size/2] {
		bytes[i], bytes[Hash256Size-1-i] = reversedHash[Hash256Size-1-i], b
	}
	return bytes, nil
}

func HashFromString(hexString string) *Hash {
	hash, err := GetHashFromStr(hexString)
	if err != nil {
		panic(err)
	}
	return hash
}
