package errcode

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	ChainErrorBase = iota * 1000
	PowErrorBase
	DiskErrorBase
)

type ProjectError struct {
	Module string
	Code   int
	Desc   string
}

func (e ProjectError) Error() string {
	return fmt.Sprintf("module: %s, global errcode: %v,  desc: %s", e.Module, e.Code, e.Desc)
}

func getCodeAndName(errCode fmt.Stringer) (int, string) {
	code := 0
	name := ""

	switch t := errCode.(type) {
	case ChainErr:
		code = int(t)
		name = "chain"
	case PowErr:
		code = int(t)
		name = "pow"
	case DiskErr:
		code = int(t)
		name = "disk"
	default:
	}

	return code, name
}

// IsErrorCode reports whether err, or the error it wraps, carries errCode.
func IsErrorCode(err error, errCode fmt.Stringer) bool {
	e, ok := errors.Cause(err).(ProjectError)
	icode, iname := getCodeAndName(errCode)
	return ok && icode == e.Code && iname == e.Module
}

func New(errCode fmt.Stringer) error {
	code, name := getCodeAndName(errCode)

	return ProjectError{
		Module: name,
		Code:   code,
		Desc:   errCode.String(),
	}
}

// Wrapf builds the coded error for errCode and annotates it with context.
func Wrapf(errCode fmt.Stringer, format string, args ...interface{}) error {
	return errors.Wrapf(New(errCode), format, args...)
}
