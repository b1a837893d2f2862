package errcode

import "fmt"

type PowErr int

const (
	ErrorInvalidAlgorithm PowErr = PowErrorBase + iota
	ErrorMalformedEncoding
	ErrorMissingFakeHeader
	ErrorNotExistsInPowMap
)

var PowErrString = map[PowErr]string{
	ErrorInvalidAlgorithm:  "invalid mining algorithm",
	ErrorMalformedEncoding: "malformed pow data encoding",
	ErrorMissingFakeHeader: "pow data has no fake header",
}

func (pe PowErr) String() string {
	if s, ok := PowErrString[pe]; ok {
		return s
	}
	return fmt.Sprintf("Unknown code (%d)", pe)
}
