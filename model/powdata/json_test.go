package powdata

import (
	"encoding/json"
	"testing"

	"github.com/copernet/xyond/model/pow"
	"github.com/stretchr/testify/assert"
)

func TestToJSON(t *testing.T) {
	pd, err := DecodeHex(standaloneHex)
	assert.NoError(t, err)
	pd.SetMergeMined(true)

	res := pd.ToJSON()
	assert.Equal(t, "neoscrypt", res.Algo)
	assert.True(t, res.MergeMined)
	assert.Equal(t, "78563412", res.Bits)

	fh := res.FakeHeader
	if !assert.NotNil(t, fh) {
		return
	}
	assert.Equal(t, standaloneHex[10:], fh.Hex)
	assert.Equal(t, pd.GetFakeHeader().GetHash().String(), fh.Hash)
	assert.Equal(t, "7856000000000000000000000000000000000000000000000000000000003412", fh.MerkleRoot)
	assert.Equal(t, "00000000", fh.Bits)
	assert.Equal(t, uint32(0xdebc3a12), fh.Nonce)
}

func TestMarshalJSON(t *testing.T) {
	pd := NewStandalone(pow.AlgoSha256d, 0x207fffff)
	raw, err := json.Marshal(pd)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"algo":"sha256d","mergemined":false,"bits":"207fffff"}`, string(raw))

	pd.SetCoreAlgo(pow.AlgoInvalid)
	raw, err = json.Marshal(pd)
	assert.NoError(t, err)
	assert.Contains(t, string(raw), `"algo":"invalid(0)"`)
}
