package main

import (
	"context"
	"unicode/utf8"
)

// VM is a single threaded Forth-like machine: two bounded stacks, a
// dictionary of primitive and composite words, a bump allocated memory bank,
// and the interpret/compile mode that the read loop drives.
type VM struct {
	ioCore

	// The data stack carries every operand and result; the return stack
	// carries one frame per active body entry of composite words.
	stack  dataStack
	rstack stack[frame]

	dictionary
	literal uint // index of the literal word, compiled before inline values
	last    uint // most recently defined word

	compiling bool
	defining  uint // word under definition, valid while compiling

	mem memBank

	tokens tokenizer
	base   int

	ctx       context.Context
	steps     int
	stepLimit int

	// sizes applied by init
	stackDepth  int
	returnDepth int
	memSize     Cell
}

func (vm *VM) init() {
	vm.stack = dataStack{newStack[Cell](vm.stackDepth, StackUnderflow, StackOverflow)}
	vm.rstack = newStack[frame](vm.returnDepth, ReturnStackUnderflow, ReturnStackOverflow)
	vm.mem.init(vm.memSize)
	if n := longestBuiltinName(); vm.nameSize < n {
		vm.nameSize = n
	}
	vm.tokens.maxSize = vm.nameSize
	if vm.dictSize < len(builtins) {
		vm.dictSize = len(builtins)
	}
	vm.compileBuiltins()
}

func longestBuiltinName() (n int) {
	for _, bi := range builtins {
		if m := utf8.RuneCountInString(bi.name); m > n {
			n = m
		}
	}
	return n
}

func (vm *VM) compileBuiltins() {
	for _, bi := range builtins {
		w, err := vm.addWord(bi.name, bi.code, bi.immediate)
		if err != nil {
			panic(err)
		}
		if bi.code == opLiteral {
			vm.literal = w
		}
		vm.last = w
	}
}

// define starts compiling a new composite word.
func (vm *VM) define(name string) error {
	w, err := vm.addWord(name, opEnter, false)
	if err != nil {
		return err
	}
	vm.logf(":", "define %v @%v", name, w)
	vm.last = w
	vm.defining = w
	vm.compiling = true
	return nil
}

// compile appends entries to the word under definition.
func (vm *VM) compile(entries ...Cell) error {
	if !vm.compiling {
		return NotCompiling
	}
	if err := vm.appendBody(vm.defining, entries...); err != nil {
		return err
	}
	if vm.logfn != nil {
		vm.logf(":", "%v += %v", vm.wordName(vm.defining), vm.formatCode(entries))
	}
	return nil
}

// seal finishes the word under definition and returns to interpret mode.
func (vm *VM) seal() error {
	if !vm.compiling {
		return NotCompiling
	}
	vm.compiling = false
	if vm.logfn != nil {
		w := vm.defining
		vm.logf(":", "%v", vm.formatWord(w))
	}
	return nil
}
