package main

import (
	"io"
	"io/ioutil"

	"github.com/iota-xSK/morth/internal/fileinput"
)

// VMOption configures a VM under construction.
type VMOption interface{ apply(vm *VM) }

// Default machine bounds.
const (
	defaultStackDepth  = 1024
	defaultReturnDepth = 1024
	defaultDictSize    = 0xffff
	defaultBodySize    = 256
	defaultMemSize     = 0xffffff
	defaultNameSize    = 31
	defaultBase        = 10

	// Each return stack frame costs a native call frame, so the return
	// depth is capped regardless of what the caller asks for.
	maxReturnDepth = 1 << 16
)

var defaultOptions = VMOptions(
	withOutput(ioutil.Discard),
	withStackDepth(defaultStackDepth),
	withReturnDepth(defaultReturnDepth),
	withDictSize(defaultDictSize),
	withBodySize(defaultBodySize),
	withMemSize(defaultMemSize),
	withNameSize(defaultNameSize),
	withBase(defaultBase),
)

// VMOptions combines any number of options into one.
func VMOptions(opts ...VMOption) VMOption {
	var res vmOptions
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil:
		case vmOptions:
			res = append(res, impl...)
		default:
			res = append(res, opt)
		}
	}
	if len(res) == 1 {
		return res[0]
	}
	return res
}

type vmOptions []VMOption

func (opts vmOptions) apply(vm *VM) {
	for _, opt := range opts {
		opt.apply(vm)
	}
}

type withLogfn func(mess string, args ...interface{})

func (logfn withLogfn) apply(vm *VM) {
	vm.logfn = logfn
}

type inputOption struct{ io.Reader }
type outputOption struct{ io.Writer }
type teeOption struct{ io.Writer }

type stackDepthOption int
type returnDepthOption int
type dictSizeOption int
type bodySizeOption int
type memSizeOption int
type nameSizeOption int
type baseOption int
type stepLimitOption int

func withInput(r io.Reader) inputOption   { return inputOption{r} }
func withOutput(w io.Writer) outputOption { return outputOption{w} }
func withTee(w io.Writer) teeOption       { return teeOption{w} }

func withStackDepth(n int) stackDepthOption   { return stackDepthOption(n) }
func withReturnDepth(n int) returnDepthOption { return returnDepthOption(n) }
func withDictSize(n int) dictSizeOption       { return dictSizeOption(n) }
func withBodySize(n int) bodySizeOption       { return bodySizeOption(n) }
func withMemSize(n int) memSizeOption         { return memSizeOption(n) }
func withNameSize(n int) nameSizeOption       { return nameSizeOption(n) }
func withBase(base int) baseOption            { return baseOption(base) }
func withStepLimit(n int) stepLimitOption     { return stepLimitOption(n) }

// Inputs queue up in the order given; each is read to its end before the
// next one starts.
func (i inputOption) apply(vm *VM) {
	vm.in.Queue = append(vm.in.Queue, i.Reader)
}

func (o outputOption) apply(vm *VM) {
	if vm.out != nil {
		vm.out.Flush()
	}
	vm.out = newWriteFlusher(o.Writer)
}

func (o teeOption) apply(vm *VM) {
	vm.out = multiWriteFlusher(vm.out, newWriteFlusher(o.Writer))
}

func (n stackDepthOption) apply(vm *VM) {
	if n > 0 {
		vm.stackDepth = int(n)
	}
}

func (n returnDepthOption) apply(vm *VM) {
	if n > maxReturnDepth {
		n = maxReturnDepth
	}
	if n > 0 {
		vm.returnDepth = int(n)
	}
}

func (n dictSizeOption) apply(vm *VM) {
	if n > 0 {
		vm.dictSize = int(n)
	}
}

func (n bodySizeOption) apply(vm *VM) {
	if n > 0 {
		vm.bodySize = int(n)
	}
}

func (n memSizeOption) apply(vm *VM) {
	if n > 0 && n <= 1<<31-1 {
		vm.memSize = Cell(n)
	}
}

// nameSizeOption bounds both token and word name length in runes.
func (n nameSizeOption) apply(vm *VM) {
	if n > 0 {
		vm.nameSize = int(n)
	}
}

// baseOption sets the numeral base; values outside 2..36 are ignored.
func (base baseOption) apply(vm *VM) {
	if base >= 2 && base <= 36 {
		vm.base = int(base)
	}
}

// stepLimitOption bounds word dispatches per top level token; zero means
// unlimited.
func (n stepLimitOption) apply(vm *VM) {
	if n >= 0 {
		vm.stepLimit = int(n)
	}
}

// NamedReader attaches a name to r, used when reporting input locations.
func NamedReader(name string, r io.Reader) io.Reader {
	return fileinput.NamedReader(name, r)
}
