package powdata

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/copernet/xyond/model/block"
)

type FakeHeaderJSON struct {
	Hex           string `json:"hex"`
	Hash          string `json:"hash"`
	Version       int32  `json:"version"`
	PrevBlockHash string `json:"previousblockhash"`
	MerkleRoot    string `json:"merkleroot"`
	Time          uint32 `json:"time"`
	Bits          string `json:"bits"`
	Nonce         uint32 `json:"nonce"`
}

type JSON struct {
	Algo       string          `json:"algo"`
	MergeMined bool            `json:"mergemined"`
	Bits       string          `json:"bits"`
	FakeHeader *FakeHeaderJSON `json:"fakeheader,omitempty"`
}

func fakeHeaderToJSON(hdr *block.PureHeader) *FakeHeaderJSON {
	return &FakeHeaderJSON{
		Hex:           hex.EncodeToString(hdr.Bytes()),
		Hash:          hdr.GetHash().String(),
		Version:       hdr.Version,
		PrevBlockHash: hdr.HashPrevBlock.String(),
		MerkleRoot:    hdr.MerkleRoot.String(),
		Time:          hdr.Time,
		Bits:          fmt.Sprintf("%08x", hdr.Bits),
		Nonce:         hdr.Nonce,
	}
}

// ToJSON renders pd the way block queries report it.
func (pd *PowData) ToJSON() *JSON {
	res := &JSON{
		Algo:       pd.coreAlgo.String(),
		MergeMined: pd.mergeMined,
		Bits:       fmt.Sprintf("%08x", pd.bits),
	}
	if pd.fakeHeader != nil {
		res.FakeHeader = fakeHeaderToJSON(pd.fakeHeader)
	}
	return res
}

func (pd *PowData) MarshalJSON() ([]byte, error) {
	return json.Marshal(pd.ToJSON())
}
