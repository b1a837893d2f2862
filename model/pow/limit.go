package pow

import (
	"github.com/copernet/xyond/log"
	"github.com/copernet/xyond/model/consensus"
	"github.com/holiman/uint256"
)

// sha256dDisparity is the log2 ratio between the NeoScrypt and SHA256d
// difficulty limits: SHA256d hashing is roughly 1024 times cheaper.
const sha256dDisparity = 10

// LimitForAlgo returns the easiest target a block mined with algo may
// claim. The result is a fresh value the caller may modify.
func LimitForAlgo(algo Algo, params *consensus.Param) *uint256.Int {
	limit := new(uint256.Int).Set(params.PowLimitNeoscrypt)
	if params.PowNoAlgoDisparity {
		return limit
	}

	switch algo {
	case AlgoNeoscrypt:
		return limit
	case AlgoSha256d:
		return limit.Rsh(limit, sha256dDisparity)
	default:
		// Fail closed: an unknown algorithm gets the hardest limit.
		log.Error("LimitForAlgo called with invalid algo %v", algo)
		return limit.Rsh(limit, sha256dDisparity)
	}
}

// BlockProof returns the expected number of hashes needed to meet bits, in
// SHA256d units so that both algorithms add comparable chain work. Invalid
// bits contribute no work.
func BlockProof(algo Algo, bits uint32) *uint256.Int {
	target, negative, overflow := CompactToTarget(bits)
	if negative || overflow || target.IsZero() || !algo.IsValid() {
		return new(uint256.Int)
	}

	// 2**256 / (target+1) does not fit, but it equals
	// ~target / (target+1) + 1.
	work := new(uint256.Int).Not(target)
	work.Div(work, new(uint256.Int).AddUint64(target, 1))
	work.AddUint64(work, 1)

	if algo == AlgoNeoscrypt {
		work.Lsh(work, sha256dDisparity)
	}
	return work
}
