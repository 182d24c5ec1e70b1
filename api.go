package main

import (
	"context"
	"errors"
	"io"

	"github.com/iota-xSK/morth/internal/panicerr"
)

// New creates a machine with its primitive words defined, ready to Run.
func New(opts ...VMOption) *VM {
	var vm VM
	defaultOptions.apply(&vm)
	VMOptions(opts...).apply(&vm)
	vm.init()
	return &vm
}

// Run reads and interprets input until bye, the end of all input, an input
// or output failure, or ctx is done. Reaching bye or the end of input
// returns nil; operator errors are reported on the output and never end
// the run.
func (vm *VM) Run(ctx context.Context) error {
	err := panicerr.Recover("VM", func() error {
		return vm.run(ctx)
	})
	if ferr := vm.out.Flush(); err == nil || errors.Is(err, Bye) {
		err = ferr
	}
	return err
}

func WithInput(r io.Reader) VMOption   { return withInput(r) }
func WithOutput(w io.Writer) VMOption  { return withOutput(w) }
func WithTee(w io.Writer) VMOption     { return withTee(w) }
func WithStackDepth(n int) VMOption    { return withStackDepth(n) }
func WithReturnDepth(n int) VMOption   { return withReturnDepth(n) }
func WithDictSize(n int) VMOption      { return withDictSize(n) }
func WithBodySize(n int) VMOption      { return withBodySize(n) }
func WithMemSize(n int) VMOption       { return withMemSize(n) }
func WithNameSize(n int) VMOption      { return withNameSize(n) }
func WithBase(base int) VMOption       { return withBase(base) }
func WithStepLimit(limit int) VMOption { return withStepLimit(limit) }

func WithLogf(logfn func(mess string, args ...interface{})) VMOption { return withLogfn(logfn) }
