package lpow

import (
	"context"

	"github.com/copernet/xyond/errcode"
	"github.com/copernet/xyond/log"
	"github.com/copernet/xyond/model/consensus"
	"github.com/copernet/xyond/model/mblock"
	"github.com/copernet/xyond/model/pow"
	"github.com/copernet/xyond/model/powdata"
	"github.com/copernet/xyond/util"
	"github.com/davecgh/go-spew/spew"
	"golang.org/x/sync/errgroup"
)

// Item is one block hash and the pow data claimed for it.
type Item struct {
	Hash    util.Hash
	PowData *powdata.PowData
}

// Validator checks pow data on a bounded number of goroutines. Its hash
// cache is shared by all of them.
type Validator struct {
	params  *consensus.Param
	workers int
	cache   *pow.HashCache
}

func NewValidator(params *consensus.Param, workers int, cacheSize int) (*Validator, error) {
	if workers < 1 {
		workers = 1
	}
	cache, err := pow.NewHashCache(cacheSize)
	if err != nil {
		return nil, err
	}
	return &Validator{params: params, workers: workers, cache: cache}, nil
}

func (v *Validator) Cache() *pow.HashCache {
	return v.cache
}

// IsValid checks a single item through the cache.
func (v *Validator) IsValid(hash *util.Hash, pd *powdata.PowData) bool {
	if pd == nil {
		return false
	}
	return pd.IsValidWith(v.cache, hash, v.params)
}

// ValidateBatch reports validity for every item, in input order. Items left
// unchecked because ctx ended count as invalid and ctx.Err() is returned.
func (v *Validator) ValidateBatch(ctx context.Context, items []Item) ([]bool, error) {
	res := make([]bool, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.workers)

	for i := range items {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res[i] = v.IsValid(&items[i].Hash, items[i].PowData)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}
	return res, ctx.Err()
}

// ValidateBatch checks items with a throwaway cache-less validator.
func ValidateBatch(ctx context.Context, items []Item, params *consensus.Param, workers int) ([]bool, error) {
	v, err := NewValidator(params, workers, 0)
	if err != nil {
		return nil, err
	}
	return v.ValidateBatch(ctx, items)
}

// CheckBlock turns the validity of blk's pow data into an error naming the
// first reason it is rejected.
func CheckBlock(blk *mblock.Block, params *consensus.Param) error {
	return checkBlock(pow.PlainHasher, blk, params)
}

func (v *Validator) CheckBlock(blk *mblock.Block) error {
	return checkBlock(v.cache, blk, v.params)
}

func checkBlock(hasher pow.Hasher, blk *mblock.Block, params *consensus.Param) error {
	hash := blk.GetHash()
	pd := blk.PowData
	if pd == nil || !pd.HasFakeHeader() {
		return errcode.Wrapf(errcode.ErrorMissingFakeHeader, "block %s", hash)
	}
	if !pd.GetCoreAlgo().IsValid() {
		return errcode.Wrapf(errcode.ErrorInvalidAlgorithm, "block %s algo %d", hash, uint8(pd.GetCoreAlgo()))
	}
	if pd.GetFakeHeader().MerkleRoot != powdata.Commit(hash) {
		return errcode.Wrapf(errcode.ErrorPowCommitment, "block %s, fake header root %s",
			hash, pd.GetFakeHeader().MerkleRoot)
	}
	if !pd.IsValidWith(hasher, &hash, params) {
		log.Debug("block %s: %s work does not meet bits %08x\n%v", hash, pd.GetCoreAlgo(), pd.GetBits(),
			log.InitLogClosure(func() string { return spew.Sdump(pd.ToJSON()) }))
		return errcode.Wrapf(errcode.ErrorPowCheckErr, "block %s high-hash", hash)
	}
	return nil
}
