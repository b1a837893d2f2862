package errcode

import "fmt"

type ChainErr int

const (
	ErrorPowCheckErr ChainErr = ChainErrorBase + iota
	ErrorPowCommitment
	ErrorNotExistsInChainMap
)

var ChainErrString = map[ChainErr]string{
	ErrorPowCheckErr:   "ErrorPowCheckErr",
	ErrorPowCommitment: "fake header does not commit to the block",
}

func (chainerr ChainErr) String() string {
	if s, ok := ChainErrString[chainerr]; ok {
		return s
	}
	return fmt.Sprintf("Unknown code (%d)", chainerr)
}
