package pow

import (
	"sync/atomic"

	"github.com/copernet/xyond/util"
	"github.com/hashicorp/golang-lru"
)

// HashCache memoizes PowHash results keyed by algorithm and input bytes.
// NeoScrypt is expensive, and the same fake header is often checked more
// than once (relay, then connect). A nil or zero-sized cache hashes
// directly.
type HashCache struct {
	cache  *lru.Cache
	hits   uint64
	misses uint64
}

func NewHashCache(size int) (*HashCache, error) {
	if size <= 0 {
		return &HashCache{}, nil
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &HashCache{cache: cache}, nil
}

func cacheKey(algo Algo, data []byte) string {
	key := make([]byte, 1+len(data))
	key[0] = byte(algo)
	copy(key[1:], data)
	return string(key)
}

func (hc *HashCache) PowHash(algo Algo, data []byte) (util.Hash, error) {
	if hc == nil || hc.cache == nil {
		return PowHash(algo, data)
	}

	key := cacheKey(algo, data)
	if v, ok := hc.cache.Get(key); ok {
		atomic.AddUint64(&hc.hits, 1)
		return v.(util.Hash), nil
	}

	hash, err := PowHash(algo, data)
	if err != nil {
		return hash, err
	}
	atomic.AddUint64(&hc.misses, 1)
	hc.cache.Add(key, hash)
	return hash, nil
}

func (hc *HashCache) Len() int {
	if hc == nil || hc.cache == nil {
		return 0
	}
	return hc.cache.Len()
}

// Stats returns the hit and miss counters.
func (hc *HashCache) Stats() (hits, misses uint64) {
	if hc == nil {
		return 0, 0
	}
	return atomic.LoadUint64(&hc.hits), atomic.LoadUint64(&hc.misses)
}
