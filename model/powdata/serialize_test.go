package powdata

import (
	"bytes"
	"strings"
	"testing"

	"github.com/copernet/xyond/errcode"
	"github.com/copernet/xyond/model/block"
	"github.com/copernet/xyond/model/pow"
	"github.com/stretchr/testify/assert"
)

const standaloneHex = "02" + "12345678" +
	"00000000" +
	"0000000000000000000000000000000000000000000000000000000000000000" +
	"1234000000000000000000000000000000000000000000000000000000005678" +
	"00000000" + "00000000" + "123abcde"

func TestSerialisationStandalone(t *testing.T) {
	pd, err := DecodeHex(standaloneHex)
	assert.NoError(t, err)

	assert.Equal(t, pow.AlgoNeoscrypt, pd.GetCoreAlgo())
	assert.False(t, pd.IsMergeMined())
	assert.Equal(t, uint32(0x78563412), pd.GetBits())
	assert.True(t, pd.HasFakeHeader())

	hdr := pd.GetFakeHeader()
	assert.Equal(t, int32(0), hdr.Version)
	assert.True(t, hdr.HashPrevBlock.IsNull())
	assert.Equal(t, "7856000000000000000000000000000000000000000000000000000000003412",
		hdr.MerkleRoot.String())
	assert.Equal(t, uint32(0), hdr.Time)
	assert.Equal(t, uint32(0), hdr.Bits)
	assert.Equal(t, uint32(0xdebc3a12), hdr.Nonce)

	assert.Equal(t, block.PureHeaderSize+5, pd.SerializeSize())
	encoded, err := pd.EncodeHex()
	assert.NoError(t, err)
	assert.Equal(t, standaloneHex, encoded)
}

func TestSerialisationWithoutFakeHeader(t *testing.T) {
	tests := []struct {
		in         string
		algo       pow.Algo
		mergeMined bool
		bits       uint32
	}{
		{"01ffff7f20", pow.AlgoSha256d, false, 0x207fffff},
		{"02f0ff0f1e", pow.AlgoNeoscrypt, false, 0x1e0ffff0},
		{"81ffff001d", pow.AlgoSha256d, true, 0x1d00ffff},
		{"8200000000", pow.AlgoNeoscrypt, true, 0},
	}

	for i, test := range tests {
		pd, err := DecodeHex(test.in)
		if err != nil {
			t.Errorf("DecodeHex #%d failed: %v", i, err)
			continue
		}
		if pd.GetCoreAlgo() != test.algo || pd.IsMergeMined() != test.mergeMined ||
			pd.GetBits() != test.bits || pd.HasFakeHeader() {
			t.Errorf("DecodeHex #%d got %+v", i, pd.ToJSON())
			continue
		}
		assert.Equal(t, 5, pd.SerializeSize())
		out, err := pd.EncodeHex()
		assert.NoError(t, err)
		assert.Equal(t, test.in, out, "round trip #%d", i)
	}
}

func TestMergeMinedRoundTrip(t *testing.T) {
	pd := NewStandalone(pow.AlgoSha256d, 0x207fffff)
	pd.SetMergeMined(true)
	hdr := block.NewPureHeader()
	hdr.Nonce = 42
	pd.SetFakeHeader(hdr)

	raw, err := pd.Encode()
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x81), raw[0])

	got, err := Decode(raw)
	assert.NoError(t, err)
	assert.True(t, pd.Equal(got))
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		in   string
		code errcode.PowErr
	}{
		{"", errcode.ErrorMalformedEncoding},
		{"zz", errcode.ErrorMalformedEncoding},
		{"021", errcode.ErrorMalformedEncoding},
		{"00ffff7f20", errcode.ErrorInvalidAlgorithm},
		{"03ffff7f20", errcode.ErrorInvalidAlgorithm},
		{"80ffff7f20", errcode.ErrorInvalidAlgorithm},
		{"ffffff7f20", errcode.ErrorInvalidAlgorithm},
		{"02", errcode.ErrorMalformedEncoding},
		{"02ffff7f", errcode.ErrorMalformedEncoding},
		{"02ffff7f2000", errcode.ErrorMalformedEncoding},
		{standaloneHex[:len(standaloneHex)-2], errcode.ErrorMalformedEncoding},
		{standaloneHex + "00", errcode.ErrorMalformedEncoding},
	}

	for i, test := range tests {
		pd, err := DecodeHex(test.in)
		if err == nil {
			t.Errorf("DecodeHex #%d: expected error, got %+v", i, pd.ToJSON())
			continue
		}
		if !errcode.IsErrorCode(err, test.code) {
			t.Errorf("DecodeHex #%d: got error %v, want code %v", i, err, test.code)
		}
	}
}

func TestUnserializeFailureKeepsValue(t *testing.T) {
	pd := NewStandalone(pow.AlgoSha256d, 0x1d00ffff)
	pd.SetMergeMined(true)
	before := pd.Clone()

	err := pd.Unserialize(strings.NewReader("\x02\xff\xff\x7f\x20\x00\x00"))
	assert.Error(t, err)
	assert.True(t, pd.Equal(before))

	err = pd.Unserialize(bytes.NewReader([]byte{0x05}))
	assert.Error(t, err)
	assert.True(t, pd.Equal(before))
}

func TestUnserializeReplacesFakeHeader(t *testing.T) {
	pd := NewStandalone(pow.AlgoSha256d, 0x1d00ffff)
	pd.SetFakeHeader(block.NewPureHeader())

	err := pd.Unserialize(bytes.NewReader([]byte{0x02, 0xff, 0xff, 0x7f, 0x20}))
	assert.NoError(t, err)
	assert.False(t, pd.HasFakeHeader())
	assert.Equal(t, pow.AlgoNeoscrypt, pd.GetCoreAlgo())
}

func TestUnserializeLeavesTrailingData(t *testing.T) {
	raw, err := NewStandalone(pow.AlgoNeoscrypt, 0x207fffff).Encode()
	assert.NoError(t, err)
	hdr := block.NewPureHeader()
	hdr.Nonce = 9
	raw = append(raw, hdr.Bytes()...)
	raw = append(raw, 0xaa, 0xbb)

	r := bytes.NewReader(raw)
	pd := NewPowData()
	assert.NoError(t, pd.Unserialize(r))
	assert.Equal(t, uint32(9), pd.GetFakeHeader().Nonce)
	assert.Equal(t, 2, r.Len())
}

func TestSerializeInvalidAlgo(t *testing.T) {
	for _, algo := range []pow.Algo{pow.AlgoInvalid, pow.FlagMergeMined, pow.Algo(7)} {
		pd := NewStandalone(algo, 0x207fffff)
		var buf bytes.Buffer
		err := pd.Serialize(&buf)
		assert.True(t, errcode.IsErrorCode(err, errcode.ErrorInvalidAlgorithm))
		assert.Equal(t, 0, buf.Len())

		_, err = pd.EncodeHex()
		assert.Error(t, err)
	}
}
