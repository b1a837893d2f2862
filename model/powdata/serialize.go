package powdata

import (
	"bytes"
	"encoding/hex"
	"io"

	"github.com/copernet/xyond/errcode"
	"github.com/copernet/xyond/model/block"
	"github.com/copernet/xyond/model/pow"
	"github.com/copernet/xyond/util"
)

// Encoded layout, all integers little endian:
//
//	algo   1 byte   low 7 bits algorithm, 0x80 merge-mined flag
//	bits   4 bytes  compact target
//	header 80 bytes fake header, only when present
const (
	prefixSize = 1 + 4
)

func (pd *PowData) algoByte() uint8 {
	algo := pd.coreAlgo
	if pd.mergeMined {
		algo |= pow.FlagMergeMined
	}
	return uint8(algo)
}

func (pd *PowData) SerializeSize() int {
	if pd.fakeHeader == nil {
		return prefixSize
	}
	return prefixSize + block.PureHeaderSize
}

// Serialize writes pd in its wire and storage format. An invalid core
// algorithm is refused so that everything written can be read back.
func (pd *PowData) Serialize(w io.Writer) error {
	if !pd.coreAlgo.IsValid() {
		return errcode.Wrapf(errcode.ErrorInvalidAlgorithm, "serialize pow data with algo %d", uint8(pd.coreAlgo))
	}
	if err := util.WriteElements(w, pd.algoByte(), pd.bits); err != nil {
		return err
	}
	if pd.fakeHeader != nil {
		return pd.fakeHeader.Serialize(w)
	}
	return nil
}

// Unserialize reads pd from r. The fake header is optional: if r is
// exhausted right after the bits, pd ends up without one. On error pd is
// left unchanged.
func (pd *PowData) Unserialize(r io.Reader) error {
	var algoByte uint8
	if err := util.ReadElement(r, &algoByte); err != nil {
		return errcode.Wrapf(errcode.ErrorMalformedEncoding, "read algo: %v", err)
	}
	algo := pow.Algo(algoByte) & pow.AlgoMask
	if !algo.IsValid() {
		return errcode.Wrapf(errcode.ErrorInvalidAlgorithm, "algo byte %02x", algoByte)
	}

	var bits uint32
	if err := util.ReadElement(r, &bits); err != nil {
		return errcode.Wrapf(errcode.ErrorMalformedEncoding, "read bits: %v", err)
	}

	var raw [block.PureHeaderSize]byte
	var hdr *block.PureHeader
	n, err := io.ReadFull(r, raw[:])
	switch {
	case n == 0 && err == io.EOF:
	case err != nil:
		return errcode.Wrapf(errcode.ErrorMalformedEncoding, "fake header: %d of %d bytes: %v",
			n, block.PureHeaderSize, err)
	default:
		hdr = block.NewPureHeader()
		if err := hdr.Unserialize(bytes.NewReader(raw[:])); err != nil {
			return errcode.Wrapf(errcode.ErrorMalformedEncoding, "fake header: %v", err)
		}
	}

	pd.coreAlgo = algo
	pd.mergeMined = pow.Algo(algoByte)&pow.FlagMergeMined != 0
	pd.bits = bits
	pd.fakeHeader = hdr
	return nil
}

func (pd *PowData) Encode() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, pd.SerializeSize()))
	if err := pd.Serialize(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (pd *PowData) EncodeHex() (string, error) {
	raw, err := pd.Encode()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

// Decode parses a complete encoding; bytes left over are an error.
func Decode(data []byte) (*PowData, error) {
	r := bytes.NewReader(data)
	pd := NewPowData()
	if err := pd.Unserialize(r); err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, errcode.Wrapf(errcode.ErrorMalformedEncoding, "%d trailing bytes", r.Len())
	}
	return pd, nil
}

func DecodeHex(s string) (*PowData, error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, errcode.Wrapf(errcode.ErrorMalformedEncoding, "hex: %v", err)
	}
	return Decode(data)
}
