package main

import (
	"fmt"

	"github.com/iota-xSK/morth/internal/fileinput"
)

// Errno is a stable machine error code. Primitives return them unchanged up
// through the inner interpreter; the read loop reports them by number.
type Errno int

// Machine error codes; their numeric values are stable.
const (
	Bye = Errno(iota)
	StackUnderflow
	StackOverflow
	ReturnStackUnderflow
	ReturnStackOverflow
	InvalidNumeral
	DivisionByZero
	OutOfMemory
	MemoryUnderflow
	AddressOutOfRange
	InvalidJumpTarget
	DefinitionMissingName
	NameTooLong
	DefinitionTooLong
	DictionaryFull
	NotCompiling
	UndefinedWord
	InvalidWord
	StepLimitExceeded
)

var strError = [...]string{
	"bye",
	"stack underflow",
	"stack overflow",
	"return stack underflow",
	"return stack overflow",
	"invalid numeral",
	"division by zero",
	"out of memory",
	"memory underflow",
	"address out of range",
	"invalid jump target",
	"definition missing name",
	"name too long",
	"definition too long",
	"dictionary full",
	"not compiling",
	"undefined word",
	"invalid word",
	"step limit exceeded",
}

func (e Errno) Error() string {
	if e >= 0 && int(e) < len(strError) {
		return strError[e]
	}
	return fmt.Sprintf("errno %d", int(e))
}

// Code returns the stable integer reported to the operator.
func (e Errno) Code() int { return int(e) }

// lineError locates a failed token within its input line.
type lineError struct {
	fileinput.Location
	col   int
	token string
	err   error
}

func (le lineError) Error() string {
	if le.token == "" {
		return fmt.Sprintf("%v: %v", le.Location, le.err)
	}
	return fmt.Sprintf("%v:%v %q: %v", le.Location, le.col, le.token, le.err)
}

func (le lineError) Unwrap() error { return le.err }
