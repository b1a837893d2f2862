package util

import (
	"testing"
)

func TestGetRandHash(t *testing.T) {
	h1 := GetRandHash()
	h2 := GetRandHash()
	if h1.IsEqual(h2) || h1.IsNull() {
		t.Errorf("random hashes should differ: %s %s", h1, h2)
	}
}

func TestInsecureRand32(t *testing.T) {
	seen := make(map[uint32]struct{})
	for i := 0; i < 16; i++ {
		seen[InsecureRand32()] = struct{}{}
	}
	if len(seen) < 2 {
		t.Errorf("InsecureRand32 returned one value 16 times")
	}
}
