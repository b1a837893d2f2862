// Package db wraps goleveldb with value obfuscation, batching and prefix
// iteration. It knows nothing about what it stores; callers own the key
// layout through the Key* prefixes below.
package db

import (
	"crypto/rand"
	"os"
	"path/filepath"

	"github.com/copernet/xyond/errcode"
	"github.com/copernet/xyond/log"
	"github.com/pkg/errors"
	lvldb "github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const (
	obfuscateKeyKey = "\000obfuscate_key"
	obfuscateKeyLen = 8
)

// Key prefixes of the pow database.
const (
	KeyPowData  byte = 'p'
	KeyBestHash byte = 'B'
	KeyVersion  byte = 'V'
)

const (
	preallocKeySize   = 64
	preallocValueSize = 1024
)

type DBWrapper struct {
	option       opt.Options
	readOption   opt.ReadOptions
	iterOption   opt.ReadOptions
	writeOption  opt.WriteOptions
	syncOption   opt.WriteOptions
	db           *lvldb.DB
	name         string
	obfuscateKey []byte
}

func genObfuscateKey() ([]byte, error) {
	buf := make([]byte, obfuscateKeyLen)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func getOptions(cacheSize int) opt.Options {
	var opts opt.Options
	opts.BlockCacher = opt.LRUCacher
	opts.BlockCacheCapacity = cacheSize / 2
	opts.WriteBuffer = cacheSize / 4
	opts.Filter = filter.NewBloomFilter(10)
	opts.Compression = opt.NoCompression
	opts.OpenFilesCacheCapacity = 64

	return opts
}

func destroyDB(path string) error {
	st, err := storage.OpenFile(path, false)
	if err != nil {
		return err
	}
	defer st.Close()
	fds, err := st.List(storage.TypeAll)
	if err != nil {
		return err
	}
	for _, fd := range fds {
		if err := st.Remove(fd); err != nil {
			return err
		}
	}
	for _, other := range []string{"CURRENT", "LOCK", "LOG", "LOG.old"} {
		if err := os.Remove(filepath.Join(path, other)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

type DBOption struct {
	FilePath       string
	CacheSize      int
	Wipe           bool
	DontObfuscate  bool
	ForceCompactdb bool
}

// NewDBWrapper opens (creating if needed) the database at do.FilePath.
// Failures carry errcode.ErrorOpenPowDatabase.
func NewDBWrapper(do *DBOption) (*DBWrapper, error) {
	if do == nil {
		return nil, errcode.Wrapf(errcode.ErrorOpenPowDatabase, "nil DBOption")
	}
	opts := getOptions(do.CacheSize)
	if do.Wipe {
		log.Info("wiping database %s", do.FilePath)
		if err := destroyDB(do.FilePath); err != nil {
			return nil, errcode.Wrapf(errcode.ErrorOpenPowDatabase, "wipe %s: %v", do.FilePath, err)
		}
	}

	if err := os.MkdirAll(do.FilePath, 0740); err != nil && !os.IsExist(err) {
		return nil, errcode.Wrapf(errcode.ErrorOpenPowDatabase, "mkdir %s: %v", do.FilePath, err)
	}

	db, err := lvldb.OpenFile(do.FilePath, &opts)
	if err != nil {
		return nil, errcode.Wrapf(errcode.ErrorOpenPowDatabase, "open %s: %v", do.FilePath, err)
	}
	if do.ForceCompactdb {
		if err := db.CompactRange(util.Range{}); err != nil {
			db.Close()
			return nil, errcode.Wrapf(errcode.ErrorOpenPowDatabase, "compact %s: %v", do.FilePath, err)
		}
	}

	dbw := &DBWrapper{
		option: opts,
		readOption: opt.ReadOptions{
			Strict: opt.StrictJournalChecksum | opt.StrictBlockChecksum,
		},
		iterOption: opt.ReadOptions{
			DontFillCache: true,
			Strict:        opt.StrictJournalChecksum | opt.StrictBlockChecksum,
		},
		syncOption: opt.WriteOptions{Sync: true},
		db:         db,
		name:       filepath.Base(do.FilePath),
	}

	// the key itself is stored in the clear
	obk, err := dbw.Read([]byte(obfuscateKeyKey))
	switch {
	case err == nil:
		dbw.obfuscateKey = obk
	case !IsNotFound(err):
		db.Close()
		return nil, errcode.Wrapf(errcode.ErrorOpenPowDatabase, "read obfuscate key: %v", err)
	case !do.DontObfuscate && dbw.IsEmpty():
		newKey, err := genObfuscateKey()
		if err == nil {
			err = dbw.Write([]byte(obfuscateKeyKey), newKey, false)
		}
		if err != nil {
			db.Close()
			return nil, errcode.Wrapf(errcode.ErrorOpenPowDatabase, "obfuscate key: %v", err)
		}
		dbw.obfuscateKey = newKey
		log.Info("wrote new obfuscate key for %s", dbw.name)
	}
	return dbw, nil
}

// IsNotFound reports whether err is leveldb's missing key error.
func IsNotFound(err error) bool {
	return errors.Cause(err) == lvldb.ErrNotFound
}

func xor(val, key []byte) {
	if len(key) == 0 {
		return
	}
	for i, j := 0, 0; i < len(val); i++ {
		val[i] ^= key[j]
		j++
		if j == len(key) {
			j = 0
		}
	}
}

func (dbw *DBWrapper) Name() string {
	return dbw.name
}

func (dbw *DBWrapper) Read(key []byte) ([]byte, error) {
	value, err := dbw.db.Get(key, &dbw.readOption)
	if err != nil {
		return nil, err
	}
	xor(value, dbw.obfuscateKey)
	return value, nil
}

func (dbw *DBWrapper) Write(key, val []byte, sync bool) error {
	bw := NewBatchWrapper(dbw)
	bw.Write(key, val)
	return dbw.WriteBatch(bw, sync)
}

func (dbw *DBWrapper) WriteBatch(bw *BatchWrapper, sync bool) error {
	opts := &dbw.writeOption
	if sync {
		opts = &dbw.syncOption
	}
	return dbw.db.Write(&bw.bat, opts)
}

func (dbw *DBWrapper) Exists(key []byte) (bool, error) {
	ok, err := dbw.db.Has(key, &dbw.readOption)
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (dbw *DBWrapper) Erase(key []byte, sync bool) error {
	bw := NewBatchWrapper(dbw)
	bw.Erase(key)
	return dbw.WriteBatch(bw, sync)
}

func (dbw *DBWrapper) Sync() error {
	if dbw.db == nil {
		return nil
	}
	bw := NewBatchWrapper(dbw)
	return dbw.WriteBatch(bw, true)
}

func (dbw *DBWrapper) Iterator() *IterWrapper {
	return NewIterWrapper(dbw, dbw.db.NewIterator(nil, &dbw.iterOption))
}

// PrefixIterator walks only the keys starting with prefix.
func (dbw *DBWrapper) PrefixIterator(prefix []byte) *IterWrapper {
	return NewIterWrapper(dbw, dbw.db.NewIterator(util.BytesPrefix(prefix), &dbw.iterOption))
}

func (dbw *DBWrapper) IsEmpty() bool {
	it := dbw.Iterator()
	defer it.Close()
	it.SeekToFirst()
	return !it.Valid()
}

func (dbw *DBWrapper) GetObfuscateKey() []byte {
	return dbw.obfuscateKey
}

func (dbw *DBWrapper) Close() error {
	if dbw.db == nil {
		return nil
	}
	err := dbw.db.Close()
	dbw.db = nil
	return err
}

type BatchWrapper struct {
	bat     lvldb.Batch
	parent  *DBWrapper
	bkey    []byte
	bval    []byte
	sizeEst int
}

func NewBatchWrapper(parent *DBWrapper) *BatchWrapper {
	return &BatchWrapper{
		parent: parent,
		bkey:   make([]byte, 0, preallocKeySize),
		bval:   make([]byte, 0, preallocValueSize),
	}
}

func (bw *BatchWrapper) Clear() {
	bw.bat.Reset()
	bw.sizeEst = 0
}

func (bw *BatchWrapper) Len() int {
	return bw.bat.Len()
}

// Write queues key/val. The batch copies both, so the caller may reuse them.
func (bw *BatchWrapper) Write(key, val []byte) {
	bw.bkey = append(bw.bkey[:0], key...)
	bw.bval = append(bw.bval[:0], val...)
	xor(bw.bval, bw.parent.GetObfuscateKey())
	bw.bat.Put(bw.bkey, bw.bval)
	// LevelDB serializes writes as:
	// - byte: header
	// - varint: key length (1 byte up to 127B, 2 bytes up to 16383B, ...)
	// - byte[]: key
	// - varint: value length
	// - byte[]: value
	// The formula below assumes the key and value are both less than 16k.
	k := 0
	v := 0
	if len(bw.bkey) > 127 {
		k = 1
	}
	if len(bw.bval) > 127 {
		v = 1
	}
	bw.sizeEst += 3 + k + len(bw.bkey) + v + len(bw.bval)
}

func (bw *BatchWrapper) SizeEstimate() int {
	return bw.sizeEst
}

func (bw *BatchWrapper) Erase(key []byte) {
	bw.bat.Delete(key)
	k := 0
	if len(key) > 127 {
		k = 1
	}
	bw.sizeEst += 2 + k + len(key)
}

type IterWrapper struct {
	parent *DBWrapper
	iter   iterator.Iterator
}

func NewIterWrapper(parent *DBWrapper, iter iterator.Iterator) *IterWrapper {
	return &IterWrapper{
		parent: parent,
		iter:   iter,
	}
}

func (iw *IterWrapper) Valid() bool {
	if iw.iter == nil {
		return false
	}
	return iw.iter.Valid()
}

func (iw *IterWrapper) SeekToFirst() {
	if iw.iter != nil {
		iw.iter.First()
	}
}

func (iw *IterWrapper) GetKey() []byte {
	var key []byte
	if iw.iter != nil {
		key = append(key, iw.iter.Key()...)
	}
	return key
}

func (iw *IterWrapper) GetVal() []byte {
	var val []byte
	if iw.iter != nil {
		val = append(val, iw.iter.Value()...)
	}
	xor(val, iw.parent.GetObfuscateKey())
	return val
}

func (iw *IterWrapper) Next() {
	if iw.iter != nil {
		iw.iter.Next()
	}
}

func (iw *IterWrapper) Error() error {
	if iw.iter == nil {
		return nil
	}
	return iw.iter.Error()
}

func (iw *IterWrapper) Close() {
	if iw.iter != nil {
		iw.iter.Release()
	}
}
