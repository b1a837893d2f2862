package block

import (
	"fmt"

	"github.com/copernet/xyond/crypto"
	"github.com/copernet/xyond/util"
)

// BlockHeader is the header of a real block. Its identity hash never depends
// on how the block's proof of work was produced.
type BlockHeader struct {
	PureHeader
}

func NewBlockHeader() *BlockHeader {
	return &BlockHeader{}
}

func (bh *BlockHeader) SetNull() {
	*bh = BlockHeader{}
}

// RngSeed is the per-block seed exposed to applications that need
// randomness: SHA-256 over the block hash.
func (bh *BlockHeader) RngSeed() util.Hash {
	hash := bh.GetHash()
	return crypto.Sha256Hash(hash[:])
}

func (bh *BlockHeader) String() string {
	return fmt.Sprintf("Block version : %d, hashPrevBlock : %s, hashMerkleRoot : %s, "+
		"Time : %d, Bits : %d, nonce : %d, BlockHash : %s", bh.Version, bh.HashPrevBlock,
		bh.MerkleRoot, bh.Time, bh.Bits, bh.Nonce, bh.GetHash())
}
