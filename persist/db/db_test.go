package db

import (
	"bytes"
	"encoding/binary"
	"io/ioutil"
	"math/rand"
	"os"
	"testing"

	"github.com/copernet/xyond/errcode"
	"github.com/stretchr/testify/assert"
)

func rand256() []byte {
	b := make([]byte, 256)
	rand.Read(b)
	return b
}

func openTemp(t *testing.T, do DBOption) (*DBWrapper, string) {
	path, err := ioutil.TempDir("", "dbwtest")
	if err != nil {
		t.Fatalf("generate temp db path failed: %s\n", err)
	}
	do.FilePath = path
	if do.CacheSize == 0 {
		do.CacheSize = 1 << 20
	}
	dbw, err := NewDBWrapper(&do)
	if err != nil {
		os.RemoveAll(path)
		t.Fatalf("NewDBWrapper failed: %s\n", err)
	}
	return dbw, path
}

func TestDBWrapper(t *testing.T) {
	dbw, path := openTemp(t, DBOption{})
	defer os.RemoveAll(path)
	defer dbw.Close()

	key := []byte{KeyPowData, 1}
	in := rand256()
	assert.NoError(t, dbw.Write(key, in, false))

	val, err := dbw.Read(key)
	assert.NoError(t, err)
	assert.Equal(t, in, val)
	assert.Len(t, dbw.GetObfuscateKey(), obfuscateKeyLen)

	_, err = dbw.Read([]byte{KeyPowData, 2})
	assert.True(t, IsNotFound(err))
}

func TestDBWrapperBatch(t *testing.T) {
	dbw, path := openTemp(t, DBOption{})
	defer os.RemoveAll(path)
	defer dbw.Close()

	key := []byte{'i'}
	key2 := []byte{'j'}
	key3 := []byte{'k'}
	in := rand256()
	in2 := rand256()
	in3 := rand256()

	batch := NewBatchWrapper(dbw)
	batch.Write(key, in)
	batch.Write(key2, in2)
	batch.Write(key3, in3)
	batch.Erase(key3)
	assert.Equal(t, 4, batch.Len())
	assert.True(t, batch.SizeEstimate() > 3*256)
	assert.NoError(t, dbw.WriteBatch(batch, true))

	res, err := dbw.Read(key)
	assert.NoError(t, err)
	assert.Equal(t, in, res)

	res, err = dbw.Read(key2)
	assert.NoError(t, err)
	assert.Equal(t, in2, res)

	ok, err := dbw.Exists(key3)
	assert.NoError(t, err)
	assert.False(t, ok)

	batch.Clear()
	assert.Equal(t, 0, batch.Len())
	assert.Equal(t, 0, batch.SizeEstimate())
}

func TestDBWrapperErase(t *testing.T) {
	dbw, path := openTemp(t, DBOption{})
	defer os.RemoveAll(path)
	defer dbw.Close()

	key := []byte{KeyBestHash}
	assert.NoError(t, dbw.Write(key, []byte{1, 2, 3}, true))
	ok, err := dbw.Exists(key)
	assert.NoError(t, err)
	assert.True(t, ok)

	assert.NoError(t, dbw.Erase(key, true))
	ok, err = dbw.Exists(key)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, dbw.Sync())
}

func TestDBWrapperObfuscation(t *testing.T) {
	dbw, path := openTemp(t, DBOption{})
	defer os.RemoveAll(path)
	defer dbw.Close()

	key := []byte{KeyPowData}
	in := bytes.Repeat([]byte{0}, 16)
	assert.NoError(t, dbw.Write(key, in, false))

	raw, err := dbw.db.Get(key, nil)
	assert.NoError(t, err)
	assert.Equal(t, dbw.GetObfuscateKey(), raw[:obfuscateKeyLen])

	plain, clean := openTemp(t, DBOption{DontObfuscate: true})
	defer os.RemoveAll(clean)
	defer plain.Close()
	assert.Nil(t, plain.GetObfuscateKey())
	assert.True(t, plain.IsEmpty())
}

func TestDBWrapperPrefixIterator(t *testing.T) {
	dbw, path := openTemp(t, DBOption{})
	defer os.RemoveAll(path)
	defer dbw.Close()

	for i := byte(0); i < 5; i++ {
		assert.NoError(t, dbw.Write([]byte{KeyPowData, i}, []byte{i}, false))
		assert.NoError(t, dbw.Write([]byte{KeyVersion, i}, []byte{i}, false))
	}

	iter := dbw.PrefixIterator([]byte{KeyPowData})
	defer iter.Close()
	n := byte(0)
	for iter.SeekToFirst(); iter.Valid(); iter.Next() {
		assert.Equal(t, []byte{KeyPowData, n}, iter.GetKey())
		assert.Equal(t, []byte{n}, iter.GetVal())
		n++
	}
	assert.NoError(t, iter.Error())
	assert.Equal(t, byte(5), n)
}

func TestExistingDataNoObfuscate(t *testing.T) {
	dbw, path := openTemp(t, DBOption{CacheSize: 1 << 10})
	defer os.RemoveAll(path)

	key := []byte{'k'}
	in := rand256()
	assert.NoError(t, dbw.Write(key, in, false))
	obk := dbw.GetObfuscateKey()
	assert.NoError(t, dbw.Close())

	odbw, err := NewDBWrapper(&DBOption{
		FilePath:      path,
		CacheSize:     1 << 10,
		DontObfuscate: true,
	})
	if err != nil {
		t.Fatalf("NewDBWrapper failed: %s\n", err)
	}
	defer odbw.Close()

	// an existing key wins over DontObfuscate
	assert.Equal(t, obk, odbw.GetObfuscateKey())
	res, err := odbw.Read(key)
	assert.NoError(t, err)
	assert.Equal(t, in, res)
	assert.False(t, odbw.IsEmpty())
}

func TestExistingDataReindex(t *testing.T) {
	dbw, path := openTemp(t, DBOption{CacheSize: 1 << 10})
	defer os.RemoveAll(path)

	key := []byte{'k'}
	assert.NoError(t, dbw.Write(key, rand256(), false))
	assert.NoError(t, dbw.Close())

	odbw, err := NewDBWrapper(&DBOption{
		FilePath:  path,
		CacheSize: 1 << 10,
		Wipe:      true,
	})
	if err != nil {
		t.Fatalf("NewDBWrapper failed: %s\n", err)
	}
	defer odbw.Close()

	ok, err := odbw.Exists(key)
	assert.NoError(t, err)
	assert.False(t, ok)

	in2 := rand256()
	assert.NoError(t, odbw.Write(key, in2, false))
	res, err := odbw.Read(key)
	assert.NoError(t, err)
	assert.Equal(t, in2, res)
}

func TestIteratorOrdering(t *testing.T) {
	dbw, path := openTemp(t, DBOption{DontObfuscate: true})
	defer os.RemoveAll(path)
	defer dbw.Close()

	for i := 1; i < 256; i++ {
		vs := make([]byte, 4)
		binary.LittleEndian.PutUint32(vs, uint32(i*i))
		if err := dbw.Write([]byte{uint8(i)}, vs, false); err != nil {
			t.Fatalf("dbw.Write(): %s", err)
		}
	}

	iter := dbw.Iterator()
	defer iter.Close()
	x := 1
	for iter.SeekToFirst(); iter.Valid(); iter.Next() {
		k := int(iter.GetKey()[0])
		v := binary.LittleEndian.Uint32(iter.GetVal())
		if k != x || v != uint32(x*x) {
			t.Errorf("iterator #%d: got key %d value %d", x, k, v)
		}
		x++
	}
	assert.NoError(t, iter.Error())
	assert.Equal(t, 256, x)
}

func TestNewDBWrapperNilOption(t *testing.T) {
	_, err := NewDBWrapper(nil)
	assert.True(t, errcode.IsErrorCode(err, errcode.ErrorOpenPowDatabase))
}
