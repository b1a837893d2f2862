// Package powdata binds a block to the proof of work that secures it. The
// work is done on a separate fake header whose merkle root commits to the
// real block hash, which lets miners grind a header of their own choosing.
package powdata

import (
	"github.com/copernet/xyond/log"
	"github.com/copernet/xyond/model/block"
	"github.com/copernet/xyond/model/consensus"
	"github.com/copernet/xyond/model/pow"
	"github.com/copernet/xyond/util"
)

type PowData struct {
	coreAlgo   pow.Algo
	bits       uint32
	mergeMined bool

	// owned exclusively; never shared between two PowData values
	fakeHeader *block.PureHeader
}

func NewPowData() *PowData {
	return &PowData{}
}

// NewStandalone returns pow data for a block mined directly (not merge
// mined) with algo at difficulty bits.
func NewStandalone(algo pow.Algo, bits uint32) *PowData {
	return &PowData{coreAlgo: algo, bits: bits}
}

func (pd *PowData) GetCoreAlgo() pow.Algo {
	return pd.coreAlgo
}

func (pd *PowData) SetCoreAlgo(algo pow.Algo) {
	pd.coreAlgo = algo
}

func (pd *PowData) GetBits() uint32 {
	return pd.bits
}

func (pd *PowData) SetBits(bits uint32) {
	pd.bits = bits
}

func (pd *PowData) IsMergeMined() bool {
	return pd.mergeMined
}

func (pd *PowData) SetMergeMined(mergeMined bool) {
	pd.mergeMined = mergeMined
}

func (pd *PowData) HasFakeHeader() bool {
	return pd.fakeHeader != nil
}

// GetFakeHeader returns the owned fake header, or nil if none is set.
// Mutating it mutates the pow data.
func (pd *PowData) GetFakeHeader() *block.PureHeader {
	return pd.fakeHeader
}

// SetFakeHeader hands hdr over to pd. The caller must not keep using it
// through another PowData.
func (pd *PowData) SetFakeHeader(hdr *block.PureHeader) {
	pd.fakeHeader = hdr
}

// InitFakeHeader replaces any existing fake header with a fresh one that
// commits to realHeader and carries pd's bits, ready for nonce grinding.
func (pd *PowData) InitFakeHeader(realHeader *block.BlockHeader) *block.PureHeader {
	hdr := block.NewPureHeader()
	hdr.InitFromBlock(realHeader)
	hdr.Bits = pd.bits
	hdr.MerkleRoot = Commit(realHeader.GetHash())
	pd.fakeHeader = hdr
	return hdr
}

// Commit maps a block hash to the value a fake header must carry as its
// merkle root. The mapping is the identity; mining and validation both go
// through this function so they cannot disagree.
func Commit(hash util.Hash) util.Hash {
	return hash
}

// CheckProofOfWork reports whether hdr satisfies pd's algorithm and
// difficulty. It uses pd's bits, not the bits field of hdr.
func (pd *PowData) CheckProofOfWork(hdr *block.PureHeader, params *consensus.Param) bool {
	return pd.CheckProofOfWorkWith(pow.PlainHasher, hdr, params)
}

func (pd *PowData) CheckProofOfWorkWith(hasher pow.Hasher, hdr *block.PureHeader,
	params *consensus.Param) bool {
	if hdr == nil || !pd.coreAlgo.IsValid() {
		return false
	}

	target, negative, overflow := pow.CompactToTarget(pd.bits)
	if negative || overflow || target.IsZero() {
		return false
	}
	if target.Gt(pow.LimitForAlgo(pd.coreAlgo, params)) {
		return false
	}

	return hdr.MeetsTargetWith(hasher, pd.coreAlgo, target)
}

// IsValid reports whether pd is valid proof of work for the block with the
// given identity hash.
func (pd *PowData) IsValid(hash *util.Hash, params *consensus.Param) bool {
	return pd.IsValidWith(pow.PlainHasher, hash, params)
}

func (pd *PowData) IsValidWith(hasher pow.Hasher, hash *util.Hash, params *consensus.Param) bool {
	if hash == nil {
		return false
	}
	if pd.fakeHeader == nil {
		log.Debug("pow data for block %s has no fake header", hash)
		return false
	}
	if pd.fakeHeader.MerkleRoot != Commit(*hash) {
		log.Debug("fake header merkle root %s does not commit to block %s",
			pd.fakeHeader.MerkleRoot, hash)
		return false
	}
	return pd.CheckProofOfWorkWith(hasher, pd.fakeHeader, params)
}

// Clone returns a deep copy; the fake header is duplicated, not shared.
func (pd *PowData) Clone() *PowData {
	c := *pd
	c.fakeHeader = pd.fakeHeader.Clone()
	return &c
}

// Equal compares all fields including the fake header contents.
func (pd *PowData) Equal(other *PowData) bool {
	if pd.coreAlgo != other.coreAlgo || pd.bits != other.bits || pd.mergeMined != other.mergeMined {
		return false
	}
	if pd.fakeHeader == nil || other.fakeHeader == nil {
		return pd.fakeHeader == nil && other.fakeHeader == nil
	}
	return *pd.fakeHeader == *other.fakeHeader
}
