package main

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/iota-xSK/morth/internal/fileinput"
	"github.com/iota-xSK/morth/internal/logio"
	"github.com/iota-xSK/morth/internal/panicerr"
	"github.com/stretchr/testify/assert"
)

type vmTestCases []vmTestCase

func (vmts vmTestCases) run(t *testing.T) {
	{
		var exclusive []vmTestCase
		for _, vmt := range vmts {
			if vmt.exclusive {
				exclusive = append(exclusive, vmt)
			}
		}
		if len(exclusive) > 0 {
			vmts = exclusive
		}
	}
	for _, vmt := range vmts {
		if !t.Run(vmt.name, vmt.run) {
			return
		}
	}
}

func vmTest(name string) (vmt vmTestCase) {
	vmt.name = name
	return vmt
}

type vmTestCase struct {
	name    string
	opts    []interface{}
	setup   []func(vm *VM) error
	ops     []func(vm *VM) error
	expect  []func(t *testing.T, vm *VM)
	timeout time.Duration
	wantErr error

	exclusive   bool
	nextInputID int
}

func (vmt vmTestCase) apply(wraps ...func(vmTestCase) vmTestCase) vmTestCase {
	for _, wrap := range wraps {
		vmt = wrap(vmt)
	}
	return vmt
}

func (vmt vmTestCase) exclusiveTest() vmTestCase {
	vmt.exclusive = true
	return vmt
}

func (vmt vmTestCase) withOptions(opts ...VMOption) vmTestCase {
	for _, opt := range opts {
		vmt.opts = append(vmt.opts, opt)
	}
	return vmt
}

func (vmt vmTestCase) withStack(values ...Cell) vmTestCase {
	vmt.setup = append(vmt.setup, func(vm *VM) error {
		for _, v := range values {
			if err := vm.stack.push(v); err != nil {
				return err
			}
		}
		return nil
	})
	return vmt
}

// withSource runs lines of source through the machine before the test
// proper; any reported error fails the setup.
func (vmt vmTestCase) withSource(source string) vmTestCase {
	vmt.setup = append(vmt.setup, func(vm *VM) error {
		for i, text := range strings.Split(source, "\n") {
			line := fileinput.Line{Text: text}
			line.Name = "setup"
			line.Line = i + 1
			if err := vm.tokens.reset(line.Name, line.Text); err != nil {
				return err
			}
			for {
				tok, ok, err := vm.tokens.scan()
				if !ok {
					break
				}
				if err == nil {
					err = vm.interpret(tok.Value)
				}
				if err != nil {
					return lineError{line.Location, tok.Pos.Column, tok.Value, err}
				}
			}
		}
		return nil
	})
	return vmt
}

// withFrame pushes a return stack frame at ip within the named word.
func (vmt vmTestCase) withFrame(name string, ip int) vmTestCase {
	vmt.setup = append(vmt.setup, func(vm *VM) error {
		w, ok := vm.lookup(name)
		if !ok {
			return fmt.Errorf("no word named %q", name)
		}
		return vm.rstack.push(frame{w, ip})
	})
	return vmt
}

func (vmt vmTestCase) withCompiling(name string) vmTestCase {
	vmt.setup = append(vmt.setup, func(vm *VM) error {
		return vm.define(name)
	})
	return vmt
}

func (vmt vmTestCase) withMemTop(top Cell) vmTestCase {
	vmt.setup = append(vmt.setup, func(vm *VM) error {
		vm.mem.top = top
		return nil
	})
	return vmt
}

func (vmt vmTestCase) withMemAt(addr Cell, values ...Cell) vmTestCase {
	vmt.setup = append(vmt.setup, func(vm *VM) error {
		return vm.mem.cells.Stor(uint(addr), values...)
	})
	return vmt
}

func (vmt vmTestCase) withMemSize(size int) vmTestCase {
	vmt.opts = append(vmt.opts, WithMemSize(size))
	return vmt
}

func (vmt vmTestCase) withStackDepth(depth int) vmTestCase {
	vmt.opts = append(vmt.opts, WithStackDepth(depth))
	return vmt
}

func (vmt vmTestCase) withStepLimit(limit int) vmTestCase {
	vmt.opts = append(vmt.opts, WithStepLimit(limit))
	return vmt
}

func (vmt vmTestCase) withBase(base int) vmTestCase {
	vmt.opts = append(vmt.opts, WithBase(base))
	return vmt
}

func (vmt vmTestCase) withInput(input string) vmTestCase {
	vmt.opts = append(vmt.opts, func(vmt *vmTestCase, t *testing.T) VMOption {
		name := t.Name() + "/input"
		if id := vmt.nextInputID; id > 0 {
			name += "_" + strconv.Itoa(id+1)
		}
		vmt.nextInputID++
		return WithInput(NamedReader(name, strings.NewReader(input)))
	})
	return vmt
}

func (vmt vmTestCase) withNamedInput(name string, input string) vmTestCase {
	vmt.opts = append(vmt.opts, func(vmt *vmTestCase, t *testing.T) VMOption {
		return WithInput(NamedReader(name, strings.NewReader(input)))
	})
	return vmt
}

func (vmt vmTestCase) do(ops ...func(vm *VM) error) vmTestCase {
	vmt.ops = append(vmt.ops, ops...)
	return vmt
}

func (vmt vmTestCase) withTimeout(timeout time.Duration) vmTestCase {
	vmt.timeout = timeout
	return vmt
}

func (vmt vmTestCase) expectError(err error) vmTestCase {
	vmt.wantErr = err
	return vmt
}

func (vmt vmTestCase) expectStack(values ...Cell) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		if values == nil {
			values = []Cell{}
		}
		assert.Equal(t, values, vm.stack.values, "expected stack values")
	})
	return vmt
}

func (vmt vmTestCase) expectRStack(frames ...string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		if frames == nil {
			frames = []string{}
		}
		actual := make([]string, len(vm.rstack.values))
		for i, f := range vm.rstack.values {
			actual[i] = vm.wordName(f.word) + "+" + strconv.Itoa(f.ip)
		}
		assert.Equal(t, frames, actual, "expected return stack frames")
	})
	return vmt
}

func (vmt vmTestCase) expectCompiling(compiling bool) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, compiling, vm.compiling, "expected compiling mode")
	})
	return vmt
}

// expectWord checks the newest word by name, rendered as its definition.
func (vmt vmTestCase) expectWord(name string, def string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		w, ok := vm.lookup(name)
		if assert.True(t, ok, "expected word %q to be defined", name) {
			assert.Equal(t, def, vm.formatWord(w), "expected %q definition", name)
		}
	})
	return vmt
}

func (vmt vmTestCase) expectMemTop(top Cell) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, top, vm.mem.top, "expected memory top")
	})
	return vmt
}

func (vmt vmTestCase) expectMemAt(addr Cell, values ...Cell) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		buf := make([]Cell, len(values))
		if assert.NoError(t, vm.mem.cells.LoadInto(uint(addr), buf), "unexpected memory load error") {
			assert.Equal(t, values, buf, "expected memory values @%v", addr)
		}
	})
	return vmt
}

func (vmt vmTestCase) expectOutput(output string) vmTestCase {
	var out strings.Builder
	vmt.opts = append(vmt.opts, WithOutput(&out))
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, output, out.String(), "expected output")
	})
	return vmt
}

func (vmt vmTestCase) expectDump(dump string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		var out strings.Builder
		vm.Dump(&out)
		assert.Equal(t, dump, out.String(), "expected dump")
	})
	return vmt
}

func (vmt vmTestCase) withTestOutput() vmTestCase {
	vmt.opts = append(vmt.opts, func(vmt *vmTestCase, t *testing.T) VMOption {
		return WithTee(&logio.Writer{Logf: t.Logf, Prefix: "out: "})
	})
	return vmt
}

func (vmt vmTestCase) run(t *testing.T) {
	defer func(then time.Time) {
		label := "PASS"
		if t.Failed() {
			label = "FAIL"
		}
		t.Logf("%v\t%v\t%v", label, t.Name(), time.Since(then))
	}(time.Now())

	var trace []string
	vm := vmt.buildVM(t, func(mess string, args ...interface{}) {
		trace = append(trace, fmt.Sprintf(mess, args...))
	})
	defer func() {
		if t.Failed() {
			for _, line := range trace {
				t.Log(line)
			}
			vmt.dumpToTest(t, vm)
		}
	}()
	vmt.runVMTest(context.Background(), t, vm)
}

func (vmt vmTestCase) runVMTest(ctx context.Context, t *testing.T, vm *VM) {
	const defaultTimeout = time.Second
	timeout := vmt.timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := vmt.runVM(ctx, vm); vmt.wantErr != nil {
		assert.True(t, errors.Is(err, vmt.wantErr), "expected error: %v\ngot: %+v", vmt.wantErr, err)
	} else {
		assert.NoError(t, err, "unexpected VM run error")
	}

	if !t.Failed() {
		for _, expect := range vmt.expect {
			expect(t, vm)
		}
	}
}

func (vmt vmTestCase) runVM(ctx context.Context, vm *VM) (rerr error) {
	defer func() {
		if err := vm.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("vm.Close failed: %w", err)
		}
	}()

	for _, setup := range vmt.setup {
		if err := setup(vm); err != nil {
			return fmt.Errorf("vmTestCase setup failed: %w", err)
		}
	}
	vm.steps = 0

	if len(vmt.ops) == 0 {
		return vm.Run(ctx)
	}

	names := make([]string, len(vmt.ops))
	for i, op := range vmt.ops {
		names[i] = runtime.FuncForPC(reflect.ValueOf(op).Pointer()).Name()
	}
	return panicerr.Recover("vmTestCase.ops", func() error {
		for i, op := range vmt.ops {
			vm.logf(">", "do[%v] %v", i, names[i])
			if err := op(vm); err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		return vm.out.Flush()
	})
}

func (vmt vmTestCase) buildVM(t *testing.T, logfn func(mess string, args ...interface{})) *VM {
	const testMemSize = 4 * 1024

	opts := []VMOption{
		WithMemSize(testMemSize),
		WithLogf(logfn),
	}
	for _, o := range vmt.opts {
		switch impl := o.(type) {
		case func(vmt *vmTestCase, t *testing.T) VMOption:
			opts = append(opts, impl(&vmt, t))
		case VMOption:
			opts = append(opts, impl)
		default:
			t.Logf("unsupported vmTestCase opt type %T", o)
			t.FailNow()
		}
	}
	return New(opts...)
}

func (vmt vmTestCase) dumpToTest(t *testing.T, vm *VM) {
	lw := logio.Writer{Logf: t.Logf}
	defer lw.Close()
	vm.Dump(&lw)
}

//// utilities

func lines(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}
