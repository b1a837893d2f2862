package consensus

import (
	"time"

	"github.com/copernet/xyond/util"
	"github.com/holiman/uint256"
)

// Param holds the consensus rules a network enforces. Values are shared
// read-only between goroutines once the network is selected.
type Param struct {
	GenesisHash *util.Hash

	// Proof of work parameters

	// Easiest target allowed for NeoScrypt blocks. The SHA256d limit is
	// derived from it.
	PowLimitNeoscrypt *uint256.Int
	// Both algorithms share the NeoScrypt limit (regtest).
	PowNoAlgoDisparity bool
	// Compact form of PowLimitNeoscrypt.
	PowLimitBits       uint32
	TargetTimePerBlock time.Duration
}
