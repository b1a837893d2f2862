package crypto

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDoubleSha256(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "5df6e0e2761359d30a8275058e299fcc0381534545f55cf43e41983f5d4c9456"},
	}

	for i, test := range tests {
		got := hex.EncodeToString(DoubleSha256Bytes([]byte(test.in)))
		if got != test.want {
			t.Errorf("DoubleSha256Bytes #%d got: %s want: %s", i, got, test.want)
		}
		hash := DoubleSha256Hash([]byte(test.in))
		assert.Equal(t, test.want, hex.EncodeToString(hash[:]))
	}
}

func TestSha256(t *testing.T) {
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	assert.Equal(t, want, hex.EncodeToString(Sha256Bytes(nil)))
	hash := Sha256Hash(nil)
	assert.Equal(t, want, hex.EncodeToString(hash[:]))
}
