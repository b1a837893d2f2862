package chainparams

import (
	"github.com/copernet/xyond/model/block"
	"github.com/copernet/xyond/util"
)

var genesisMerkleRoot = util.Hash([util.Hash256Size]byte{
	0x3b, 0xa3, 0xed, 0xfd, 0x7a, 0x7b, 0x12, 0xb2,
	0x7a, 0xc7, 0x2c, 0x3e, 0x67, 0x76, 0x8f, 0x61,
	0x7f, 0xc8, 0x1b, 0xc3, 0x88, 0x8a, 0x51, 0x32,
	0x3a, 0x9f, 0xb8, 0xaa, 0x4b, 0x1e, 0x5e, 0x4a,
})

var GenesisBlockHeader = block.BlockHeader{
	PureHeader: block.PureHeader{
		Version:    1,
		MerkleRoot: genesisMerkleRoot,
		Time:       1531470713, // 2018-07-13 08:31:53 +0000 UTC
		Bits:       0x1e0ffff0,
	},
}

var GenesisHash = GenesisBlockHeader.GetHash()

var TestNetGenesisBlockHeader = block.BlockHeader{
	PureHeader: block.PureHeader{
		Version:    1,
		MerkleRoot: genesisMerkleRoot,
		Time:       1530623291, // 2018-07-03 13:08:11 +0000 UTC
		Bits:       0x1e0ffff0,
	},
}

var TestNetGenesisHash = TestNetGenesisBlockHeader.GetHash()

var RegTestGenesisBlockHeader = block.BlockHeader{
	PureHeader: block.PureHeader{
		Version:    1,
		MerkleRoot: genesisMerkleRoot,
		Time:       1296688602, // 2011-02-02 23:16:42 +0000 UTC
		Bits:       0x207fffff,
	},
}

var RegTestGenesisHash = RegTestGenesisBlockHeader.GetHash()
