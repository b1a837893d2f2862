package block

import (
	"bytes"
	"fmt"
	"io"

	"github.com/copernet/xyond/crypto"
	"github.com/copernet/xyond/model/pow"
	"github.com/copernet/xyond/util"
	"github.com/holiman/uint256"
)

// PureHeaderSize is the serialized size of a PureHeader.
const PureHeaderSize = 16 + util.Hash256Size*2

// PureHeader is the classic 80-byte block header without any attached proof
// of work data. It is the shape of the fake header a miner actually grinds.
type PureHeader struct {
	Version       int32
	HashPrevBlock util.Hash
	MerkleRoot    util.Hash
	Time          uint32
	Bits          uint32
	Nonce         uint32
}

func NewPureHeader() *PureHeader {
	return &PureHeader{}
}

func (ph *PureHeader) SetNull() {
	*ph = PureHeader{}
}

func (ph *PureHeader) IsNull() bool {
	return ph.Bits == 0
}

func (ph *PureHeader) GetBlockTime() int64 {
	return int64(ph.Time)
}

func (ph *PureHeader) Serialize(w io.Writer) error {
	return util.WriteElements(w, ph.Version, &ph.HashPrevBlock, &ph.MerkleRoot, ph.Time, ph.Bits, ph.Nonce)
}

func (ph *PureHeader) Unserialize(r io.Reader) error {
	return util.ReadElements(r, &ph.Version, &ph.HashPrevBlock, &ph.MerkleRoot, &ph.Time, &ph.Bits, &ph.Nonce)
}

func (ph *PureHeader) Bytes() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, PureHeaderSize))
	// writes to a bytes.Buffer cannot fail
	ph.Serialize(buf)
	return buf.Bytes()
}

// GetHash is the identity hash, always double SHA-256 regardless of the
// algorithm used for proof of work.
func (ph *PureHeader) GetHash() util.Hash {
	return crypto.DoubleSha256Hash(ph.Bytes())
}

func (ph *PureHeader) PowHash(algo pow.Algo) (util.Hash, error) {
	return pow.PowHash(algo, ph.Bytes())
}

// MeetsTarget reports whether the algo hash of the header is at most target.
func (ph *PureHeader) MeetsTarget(algo pow.Algo, target *uint256.Int) bool {
	return ph.MeetsTargetWith(pow.PlainHasher, algo, target)
}

func (ph *PureHeader) MeetsTargetWith(hasher pow.Hasher, algo pow.Algo, target *uint256.Int) bool {
	hash, err := hasher.PowHash(algo, ph.Bytes())
	if err != nil {
		return false
	}
	return pow.HashToTarget(&hash).Cmp(target) <= 0
}

// InitFromBlock seeds a fake header from the real block. Only the time is
// taken over; bits and the merkle root are left for the caller.
func (ph *PureHeader) InitFromBlock(realHeader *BlockHeader) {
	ph.Time = realHeader.Time
}

func (ph *PureHeader) Clone() *PureHeader {
	if ph == nil {
		return nil
	}
	c := *ph
	return &c
}

func (ph *PureHeader) String() string {
	return fmt.Sprintf("version : %d, hashPrevBlock : %s, hashMerkleRoot : %s, "+
		"time : %d, bits : %08x, nonce : %d", ph.Version, ph.HashPrevBlock,
		ph.MerkleRoot, ph.Time, ph.Bits, ph.Nonce)
}
