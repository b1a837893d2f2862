package lpow

import (
	"bytes"
	"io/ioutil"
	"os"
	"testing"

	"github.com/copernet/xyond/errcode"
	"github.com/copernet/xyond/model/pow"
	"github.com/copernet/xyond/model/powdata"
	"github.com/copernet/xyond/persist/db"
	"github.com/copernet/xyond/util"
	"github.com/stretchr/testify/assert"
)

func openStore(t *testing.T, path string) *PowStore {
	ps, err := NewPowStore(&db.DBOption{FilePath: path, CacheSize: 1 << 20})
	if err != nil {
		t.Fatalf("NewPowStore failed: %s", err)
	}
	return ps
}

func TestPowStore(t *testing.T) {
	path, err := ioutil.TempDir("", "powstore")
	if err != nil {
		t.Fatalf("generate temp db path failed: %s\n", err)
	}
	defer os.RemoveAll(path)
	ps := openStore(t, path)

	blk := minedBlock(t, 11, pow.AlgoNeoscrypt)
	hash := blk.GetHash()

	ok, err := ps.Has(&hash)
	assert.NoError(t, err)
	assert.False(t, ok)
	_, err = ps.Get(&hash)
	assert.True(t, errcode.IsErrorCode(err, errcode.ErrorPowDataNotFound))
	_, err = ps.Get(util.GetRandHash())
	assert.True(t, errcode.IsErrorCode(err, errcode.ErrorPowDataNotFound))

	assert.NoError(t, ps.Put(&hash, blk.PowData, true))
	ok, err = ps.Has(&hash)
	assert.NoError(t, err)
	assert.True(t, ok)

	got, err := ps.Get(&hash)
	assert.NoError(t, err)
	assert.True(t, blk.PowData.Equal(got))

	// survives a reopen
	assert.NoError(t, ps.Close())
	ps = openStore(t, path)
	defer ps.Close()
	got, err = ps.Get(&hash)
	assert.NoError(t, err)
	assert.True(t, blk.PowData.Equal(got))

	assert.NoError(t, ps.Delete(&hash, false))
	ok, err = ps.Has(&hash)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestPowStoreRejectsInvalidAlgo(t *testing.T) {
	path, err := ioutil.TempDir("", "powstore")
	if err != nil {
		t.Fatalf("generate temp db path failed: %s\n", err)
	}
	defer os.RemoveAll(path)
	ps := openStore(t, path)
	defer ps.Close()

	hash := util.HashZero
	err = ps.Put(&hash, powdata.NewPowData(), false)
	assert.True(t, errcode.IsErrorCode(err, errcode.ErrorInvalidAlgorithm))

	err = ps.PutBatch(map[util.Hash]*powdata.PowData{hash: powdata.NewPowData()}, false)
	assert.True(t, errcode.IsErrorCode(err, errcode.ErrorInvalidAlgorithm))
	ok, err := ps.Has(&hash)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestPowStoreBatchForEach(t *testing.T) {
	path, err := ioutil.TempDir("", "powstore")
	if err != nil {
		t.Fatalf("generate temp db path failed: %s\n", err)
	}
	defer os.RemoveAll(path)
	ps := openStore(t, path)
	defer ps.Close()

	entries := make(map[util.Hash]*powdata.PowData)
	for i := 0; i < 6; i++ {
		blk := minedBlock(t, uint32(500+i), pow.AllAlgos()[i%2])
		entries[blk.GetHash()] = blk.PowData
	}
	// without fake header
	entries[util.HashZero] = powdata.NewStandalone(pow.AlgoSha256d, bitsRegtest)
	assert.NoError(t, ps.PutBatch(entries, true))

	seen := make(map[util.Hash]bool)
	err = ps.ForEach(func(hash util.Hash, pd *powdata.PowData) bool {
		want, ok := entries[hash]
		if !ok || !want.Equal(pd) {
			t.Errorf("ForEach: unexpected entry %s", hash)
		}
		seen[hash] = true
		return true
	})
	assert.NoError(t, err)
	assert.Len(t, seen, len(entries))

	count := 0
	err = ps.ForEach(func(util.Hash, *powdata.PowData) bool {
		count++
		return count < 2
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestPowStoreVersion(t *testing.T) {
	path, err := ioutil.TempDir("", "powstore")
	if err != nil {
		t.Fatalf("generate temp db path failed: %s\n", err)
	}
	defer os.RemoveAll(path)

	// a fresh store is stamped and reopens cleanly
	assert.NoError(t, openStore(t, path).Close())
	ps := openStore(t, path)
	val, err := ps.dbw.Read([]byte{db.KeyVersion})
	assert.NoError(t, err)
	var version uint32
	assert.NoError(t, util.ReadElement(bytes.NewReader(val), &version))
	assert.Equal(t, StoreVersion, version)

	buf := new(bytes.Buffer)
	assert.NoError(t, util.WriteElement(buf, StoreVersion+1))
	assert.NoError(t, ps.dbw.Write([]byte{db.KeyVersion}, buf.Bytes(), true))
	assert.NoError(t, ps.Close())

	_, err = NewPowStore(&db.DBOption{FilePath: path, CacheSize: 1 << 20})
	assert.True(t, errcode.IsErrorCode(err, errcode.ErrorOpenPowDatabase))
}

func TestPowStoreBestHash(t *testing.T) {
	path, err := ioutil.TempDir("", "powstore")
	if err != nil {
		t.Fatalf("generate temp db path failed: %s\n", err)
	}
	defer os.RemoveAll(path)
	ps := openStore(t, path)

	_, err = ps.BestHash()
	assert.True(t, errcode.IsErrorCode(err, errcode.ErrorPowDataNotFound))

	hash := util.GetRandHash()
	assert.NoError(t, ps.SetBestHash(hash, false))
	assert.NoError(t, ps.Close())
	// closing twice is harmless
	assert.NoError(t, ps.Close())

	ps = openStore(t, path)
	defer ps.Close()
	got, err := ps.BestHash()
	assert.NoError(t, err)
	assert.Equal(t, *hash, *got)

	// the best hash is not a pow data entry
	count := 0
	assert.NoError(t, ps.ForEach(func(util.Hash, *powdata.PowData) bool {
		count++
		return true
	}))
	assert.Equal(t, 0, count)
}
