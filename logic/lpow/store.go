package lpow

import (
	"bytes"

	"github.com/copernet/xyond/errcode"
	"github.com/copernet/xyond/log"
	"github.com/copernet/xyond/model/powdata"
	"github.com/copernet/xyond/persist/db"
	"github.com/copernet/xyond/util"
)

// PowStore keeps the pow data of blocks by block hash. Values are the wire
// encoding of PowData.
type PowStore struct {
	dbw *db.DBWrapper
}

// StoreVersion is the layout version written under db.KeyVersion.
const StoreVersion uint32 = 1

// NewPowStore opens the store, stamping a fresh database with StoreVersion
// and refusing one written with any other version.
func NewPowStore(do *db.DBOption) (*PowStore, error) {
	dbw, err := db.NewDBWrapper(do)
	if err != nil {
		return nil, err
	}
	ps := &PowStore{dbw: dbw}
	if err := ps.checkVersion(); err != nil {
		dbw.Close()
		return nil, err
	}
	return ps, nil
}

func (ps *PowStore) checkVersion() error {
	val, err := ps.dbw.Read([]byte{db.KeyVersion})
	if db.IsNotFound(err) {
		buf := bytes.NewBuffer(make([]byte, 0, 4))
		if err := util.WriteElement(buf, StoreVersion); err != nil {
			return err
		}
		if err := ps.dbw.Write([]byte{db.KeyVersion}, buf.Bytes(), true); err != nil {
			return errcode.Wrapf(errcode.ErrorFailedToWritePowDatabase, "write version: %v", err)
		}
		log.Info("pow store %s: new database, version %d", ps.dbw.Name(), StoreVersion)
		return nil
	}
	if err != nil {
		return errcode.Wrapf(errcode.ErrorFailedToReadPowDatabase, "read version: %v", err)
	}

	var version uint32
	if len(val) != 4 {
		return errcode.Wrapf(errcode.ErrorOpenPowDatabase, "malformed version record %x", val)
	}
	if err := util.ReadElement(bytes.NewReader(val), &version); err != nil {
		return err
	}
	if version != StoreVersion {
		return errcode.Wrapf(errcode.ErrorOpenPowDatabase, "database version %d, want %d", version, StoreVersion)
	}
	return nil
}

func powKey(hash *util.Hash) []byte {
	key := make([]byte, 0, 1+util.Hash256Size)
	key = append(key, db.KeyPowData)
	return append(key, hash[:]...)
}

func (ps *PowStore) Put(hash *util.Hash, pd *powdata.PowData, sync bool) error {
	val, err := pd.Encode()
	if err != nil {
		return err
	}
	if err := ps.dbw.Write(powKey(hash), val, sync); err != nil {
		return errcode.Wrapf(errcode.ErrorFailedToWritePowDatabase, "put %s: %v", hash, err)
	}
	return nil
}

// PutBatch writes all entries atomically. Nothing is written if any entry
// fails to encode.
func (ps *PowStore) PutBatch(entries map[util.Hash]*powdata.PowData, sync bool) error {
	batch := db.NewBatchWrapper(ps.dbw)
	for hash, pd := range entries {
		val, err := pd.Encode()
		if err != nil {
			batch.Clear()
			return err
		}
		h := hash
		batch.Write(powKey(&h), val)
	}
	log.Debug("pow store %s: writing %d entries, ~%d bytes", ps.dbw.Name(), batch.Len(), batch.SizeEstimate())
	if err := ps.dbw.WriteBatch(batch, sync); err != nil {
		return errcode.Wrapf(errcode.ErrorFailedToWritePowDatabase, "batch of %d: %v", len(entries), err)
	}
	return nil
}

func (ps *PowStore) Get(hash *util.Hash) (*powdata.PowData, error) {
	val, err := ps.dbw.Read(powKey(hash))
	if db.IsNotFound(err) {
		return nil, errcode.Wrapf(errcode.ErrorPowDataNotFound, "block %s", hash)
	}
	if err != nil {
		return nil, errcode.Wrapf(errcode.ErrorFailedToReadPowDatabase, "get %s: %v", hash, err)
	}
	return powdata.Decode(val)
}

func (ps *PowStore) Has(hash *util.Hash) (bool, error) {
	ok, err := ps.dbw.Exists(powKey(hash))
	if err != nil {
		return false, errcode.Wrapf(errcode.ErrorFailedToReadPowDatabase, "has %s: %v", hash, err)
	}
	return ok, nil
}

func (ps *PowStore) Delete(hash *util.Hash, sync bool) error {
	if err := ps.dbw.Erase(powKey(hash), sync); err != nil {
		return errcode.Wrapf(errcode.ErrorFailedToWritePowDatabase, "delete %s: %v", hash, err)
	}
	return nil
}

// ForEach calls fn for every stored entry in key order until fn returns
// false.
func (ps *PowStore) ForEach(fn func(hash util.Hash, pd *powdata.PowData) bool) error {
	iter := ps.dbw.PrefixIterator([]byte{db.KeyPowData})
	defer iter.Close()
	for iter.SeekToFirst(); iter.Valid(); iter.Next() {
		var hash util.Hash
		copy(hash[:], iter.GetKey()[1:])
		pd, err := powdata.Decode(iter.GetVal())
		if err != nil {
			return err
		}
		if !fn(hash, pd) {
			return nil
		}
	}
	if err := iter.Error(); err != nil {
		return errcode.Wrapf(errcode.ErrorFailedToReadPowDatabase, "iterate: %v", err)
	}
	return nil
}

// SetBestHash records the most recently mined block.
func (ps *PowStore) SetBestHash(hash *util.Hash, sync bool) error {
	if err := ps.dbw.Write([]byte{db.KeyBestHash}, hash[:], sync); err != nil {
		return errcode.Wrapf(errcode.ErrorFailedToWritePowDatabase, "best hash %s: %v", hash, err)
	}
	return nil
}

// BestHash returns the hash last passed to SetBestHash, or
// ErrorPowDataNotFound when there is none.
func (ps *PowStore) BestHash() (*util.Hash, error) {
	val, err := ps.dbw.Read([]byte{db.KeyBestHash})
	if db.IsNotFound(err) {
		return nil, errcode.Wrapf(errcode.ErrorPowDataNotFound, "no best hash")
	}
	if err != nil {
		return nil, errcode.Wrapf(errcode.ErrorFailedToReadPowDatabase, "best hash: %v", err)
	}
	var hash util.Hash
	if err := hash.SetBytes(val); err != nil {
		return nil, errcode.Wrapf(errcode.ErrorFailedToReadPowDatabase, "best hash: %v", err)
	}
	return &hash, nil
}

// Close flushes pending writes to disk and closes the database.
func (ps *PowStore) Close() error {
	if err := ps.dbw.Sync(); err != nil {
		ps.dbw.Close()
		return errcode.Wrapf(errcode.ErrorFailedToWritePowDatabase, "sync: %v", err)
	}
	return ps.dbw.Close()
}
