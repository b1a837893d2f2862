// Package mblock pairs a real block header with the pow data that secures
// it, the unit miners produce and validators check.
package mblock

import (
	"bytes"
	"fmt"
	"io"

	"github.com/copernet/xyond/errcode"
	"github.com/copernet/xyond/model/block"
	"github.com/copernet/xyond/model/consensus"
	"github.com/copernet/xyond/model/powdata"
	"github.com/copernet/xyond/util"
)

type Block struct {
	Header  block.BlockHeader
	PowData *powdata.PowData
}

func NewBlock(header *block.BlockHeader, pd *powdata.PowData) *Block {
	bl := &Block{PowData: pd}
	if header != nil {
		bl.Header = *header
	}
	if bl.PowData == nil {
		bl.PowData = powdata.NewPowData()
	}
	return bl
}

func (bl *Block) GetBlockHeader() block.BlockHeader {
	return bl.Header
}

// GetHash is the identity of the block; the pow data does not enter it.
func (bl *Block) GetHash() util.Hash {
	return bl.Header.GetHash()
}

func (bl *Block) SetNull() {
	bl.Header.SetNull()
	bl.PowData = powdata.NewPowData()
}

func (bl *Block) SerializeSize() int {
	return block.PureHeaderSize + bl.PowData.SerializeSize()
}

func (bl *Block) Serialize(w io.Writer) error {
	if err := bl.Header.Serialize(w); err != nil {
		return err
	}
	return bl.PowData.Serialize(w)
}

// Unserialize reads a header followed by its pow data. Since the fake
// header is optional, r must end where the block ends.
func (bl *Block) Unserialize(r io.Reader) error {
	var hdr block.BlockHeader
	if err := hdr.Unserialize(r); err != nil {
		return errcode.Wrapf(errcode.ErrorMalformedEncoding, "block header: %v", err)
	}
	pd := powdata.NewPowData()
	if err := pd.Unserialize(r); err != nil {
		return err
	}
	bl.Header = hdr
	bl.PowData = pd
	return nil
}

func (bl *Block) Bytes() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, bl.SerializeSize()))
	if err := bl.Serialize(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func Decode(data []byte) (*Block, error) {
	r := bytes.NewReader(data)
	bl := NewBlock(nil, nil)
	if err := bl.Unserialize(r); err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, errcode.Wrapf(errcode.ErrorMalformedEncoding, "%d trailing bytes", r.Len())
	}
	return bl, nil
}

// CheckProofOfWork verifies the pow data against this block's hash.
func (bl *Block) CheckProofOfWork(params *consensus.Param) bool {
	hash := bl.GetHash()
	return bl.PowData.IsValid(&hash, params)
}

func (bl *Block) String() string {
	return fmt.Sprintf("%s, algo : %s, powBits : %08x", bl.Header.String(),
		bl.PowData.GetCoreAlgo(), bl.PowData.GetBits())
}
