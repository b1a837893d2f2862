// Package lpow mines, validates and stores the pow data attached to blocks.
package lpow

import (
	"context"
	"sync"

	"github.com/copernet/xyond/conf"
	"github.com/copernet/xyond/errcode"
	"github.com/copernet/xyond/log"
	"github.com/copernet/xyond/model/block"
	"github.com/copernet/xyond/model/consensus"
	"github.com/copernet/xyond/model/pow"
	"github.com/copernet/xyond/model/powdata"
	"github.com/copernet/xyond/util"
)

// DefaultPollInterval is how many nonces are tried between two looks at the
// context.
const DefaultPollInterval = 4096

// MineFakeHeader changes the nonce of pd's fake header until
// CheckProofOfWork returns wantValid. When the nonce wraps around, the
// header time is bumped so the search space never runs out. It returns the
// number of headers tried.
func MineFakeHeader(ctx context.Context, pd *powdata.PowData, params *consensus.Param,
	wantValid bool) (uint64, error) {
	return mineFakeHeader(ctx, pd, params, DefaultPollInterval, wantValid)
}

func checkMineable(pd *powdata.PowData, params *consensus.Param) error {
	if !pd.GetCoreAlgo().IsValid() {
		return errcode.Wrapf(errcode.ErrorInvalidAlgorithm, "mine with algo %d", uint8(pd.GetCoreAlgo()))
	}
	target, negative, overflow := pow.CompactToTarget(pd.GetBits())
	if negative || overflow || target.IsZero() || target.Gt(pow.LimitForAlgo(pd.GetCoreAlgo(), params)) {
		return errcode.Wrapf(errcode.ErrorPowCheckErr, "bits %08x cannot be met with %s",
			pd.GetBits(), pd.GetCoreAlgo())
	}
	return nil
}

func mineFakeHeader(ctx context.Context, pd *powdata.PowData, params *consensus.Param,
	pollInterval uint32, wantValid bool) (uint64, error) {
	hdr := pd.GetFakeHeader()
	if hdr == nil {
		return 0, errcode.New(errcode.ErrorMissingFakeHeader)
	}
	if wantValid {
		if err := checkMineable(pd, params); err != nil {
			return 0, err
		}
	}
	if pollInterval == 0 {
		pollInterval = DefaultPollInterval
	}

	var tries uint64
	for {
		if tries%uint64(pollInterval) == 0 {
			select {
			case <-ctx.Done():
				return tries, ctx.Err()
			default:
			}
		}
		tries++
		if pd.CheckProofOfWork(hdr, params) == wantValid {
			return tries, nil
		}
		hdr.Nonce++
		if hdr.Nonce == 0 {
			hdr.Time++
		}
	}
}

// Miner searches fake headers for real blocks on several goroutines. Each
// worker grinds its own header, told apart by the version field and a
// random starting nonce.
type Miner struct {
	params       *consensus.Param
	workers      int
	pollInterval uint32
}

func NewMiner(params *consensus.Param, workers int, pollInterval uint32) *Miner {
	if workers < 1 {
		workers = 1
	}
	return &Miner{
		params:       params,
		workers:      workers,
		pollInterval: pollInterval,
	}
}

// NewMinerFromConfig sizes the miner from the mining section of cfg.
func NewMinerFromConfig(cfg *conf.Configuration, params *consensus.Param) *Miner {
	return NewMiner(params, cfg.Mining.Workers, cfg.Mining.PollInterval)
}

func (m *Miner) Workers() int {
	return m.workers
}

type mineResult struct {
	pd    *powdata.PowData
	tries uint64
}

// Mine returns standalone pow data with algo at difficulty bits that is
// valid for realHeader. It blocks until a worker succeeds or ctx is done.
func (m *Miner) Mine(ctx context.Context, realHeader *block.BlockHeader, algo pow.Algo,
	bits uint32) (*powdata.PowData, error) {
	if err := checkMineable(powdata.NewStandalone(algo, bits), m.params); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	hash := realHeader.GetHash()
	found := make(chan mineResult, m.workers)
	var wg sync.WaitGroup
	for i := 0; i < m.workers; i++ {
		pd := powdata.NewStandalone(algo, bits)
		hdr := pd.InitFakeHeader(realHeader)
		hdr.Version = int32(i)
		hdr.Nonce = util.InsecureRand32()

		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			tries, err := mineFakeHeader(ctx, pd, m.params, m.pollInterval, true)
			if err != nil {
				log.Trace("miner worker %d for block %s stopped after %d tries: %v", worker, hash, tries, err)
				return
			}
			found <- mineResult{pd: pd, tries: tries}
			cancel()
		}(i)
	}
	wg.Wait()

	select {
	case res := <-found:
		log.Debug("mined %s pow data for block %s, bits %08x, %d tries",
			algo, hash, bits, res.tries)
		return res.pd, nil
	default:
		return nil, ctx.Err()
	}
}
