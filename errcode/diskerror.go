package errcode

import (
	"fmt"
)

type DiskErr int

const (
	ErrorOpenPowDatabase DiskErr = DiskErrorBase + iota
	ErrorPowDataNotFound
	ErrorFailedToWritePowDatabase
	ErrorFailedToReadPowDatabase
	ErrorNotExistsInDiskMap
)

var DiskErrString = map[DiskErr]string{
	ErrorOpenPowDatabase:          "ErrorOpenPowDatabase",
	ErrorPowDataNotFound:          "ErrorPowDataNotFound",
	ErrorFailedToWritePowDatabase: "ErrorFailedToWritePowDatabase",
	ErrorFailedToReadPowDatabase:  "ErrorFailedToReadPowDatabase",
}

func (de DiskErr) String() string {
	if s, ok := DiskErrString[de]; ok {
		return s
	}
	return fmt.Sprintf("Unknown code (%d)", de)
}
