package chainparams

import (
	"fmt"
	"strings"
	"time"

	"github.com/copernet/xyond/model/block"
	"github.com/copernet/xyond/model/consensus"
	"github.com/holiman/uint256"
)

// ActiveNetParams is the network selected at startup. Tests and tools swap
// it through SelectNetParams.
var ActiveNetParams = &MainNetParams

var (
	bigOne = uint256.NewInt(1)
	// 2^236 -1
	mainPowLimit = new(uint256.Int).Sub(new(uint256.Int).Lsh(bigOne, 236), bigOne)
	// 2^255 -1
	regressingPowLimit = new(uint256.Int).Sub(new(uint256.Int).Lsh(bigOne, 255), bigOne)
	testNetPowLimit    = new(uint256.Int).Sub(new(uint256.Int).Lsh(bigOne, 236), bigOne)
)

type BitcoinParams struct {
	consensus.Param
	Name         string
	Net          uint32
	DefaultPort  string
	GenesisBlock *block.BlockHeader
}

var MainNetParams = BitcoinParams{
	Param: consensus.Param{
		GenesisHash:        &GenesisHash,
		PowLimitNeoscrypt:  mainPowLimit,
		PowNoAlgoDisparity: false,
		PowLimitBits:       0x1e0fffff,
		TargetTimePerBlock: 30 * time.Second,
	},
	Name:         "main",
	Net:          0xfeb4becc,
	DefaultPort:  "8394",
	GenesisBlock: &GenesisBlockHeader,
}

var TestNetParams = BitcoinParams{
	Param: consensus.Param{
		GenesisHash:        &TestNetGenesisHash,
		PowLimitNeoscrypt:  testNetPowLimit,
		PowNoAlgoDisparity: false,
		PowLimitBits:       0x1e0fffff,
		TargetTimePerBlock: 30 * time.Second,
	},
	Name:         "test",
	Net:          0xfeb5bfcc,
	DefaultPort:  "18394",
	GenesisBlock: &TestNetGenesisBlockHeader,
}

var RegressionNetParams = BitcoinParams{
	Param: consensus.Param{
		GenesisHash:        &RegTestGenesisHash,
		PowLimitNeoscrypt:  regressingPowLimit,
		PowNoAlgoDisparity: true,
		PowLimitBits:       0x207fffff,
		TargetTimePerBlock: 1 * time.Second,
	},
	Name:         "regtest",
	Net:          0xdab5bfcc,
	DefaultPort:  "18493",
	GenesisBlock: &RegTestGenesisBlockHeader,
}

// ParamsForName looks up a network by its configuration name. The short
// forms "main" and "test" are accepted as well.
func ParamsForName(name string) (*BitcoinParams, error) {
	switch strings.ToLower(name) {
	case "mainnet", "main":
		return &MainNetParams, nil
	case "testnet", "test":
		return &TestNetParams, nil
	case "regtest":
		return &RegressionNetParams, nil
	}
	return nil, fmt.Errorf("unknown network %q", name)
}

// SelectNetParams makes the named network active.
func SelectNetParams(name string) (*BitcoinParams, error) {
	params, err := ParamsForName(name)
	if err != nil {
		return nil, err
	}
	ActiveNetParams = params
	return params, nil
}
