package main

import "strconv"

// ctxCheckInterval is how many dispatches may pass between checks of the
// run context.
const ctxCheckInterval = 1024

// execute runs the word at index w: primitives dispatch through the opcode
// table, composite words run their body.
func (vm *VM) execute(w uint) error {
	if w >= uint(len(vm.words)) {
		return InvalidWord
	}
	if vm.stepLimit > 0 && vm.steps >= vm.stepLimit {
		return StepLimitExceeded
	}
	vm.steps++
	if vm.steps%ctxCheckInterval == 0 && vm.ctx != nil {
		if err := vm.ctx.Err(); err != nil {
			return err
		}
	}
	code := vm.words[w].code
	if vm.logfn != nil {
		vm.logf("@", "%v s:%v r:%v", vm.wordName(w), vm.stack.values, vm.rstack.values)
	}
	if code == opEnter {
		return vm.enter(w)
	}
	return opTable[code](vm)
}

// enter runs the body of composite word w. Each entry runs with a frame
// recording its position pushed on the return stack; primitives like
// literal and jmp move execution by rewriting that frame. Errors propagate
// without unwinding the return stack.
func (vm *VM) enter(w uint) error {
	for ip := 0; ip < len(vm.words[w].body); ip++ {
		callee := vm.words[w].body[ip]
		if callee < 0 {
			return InvalidWord
		}
		if err := vm.rstack.push(frame{w, ip}); err != nil {
			return err
		}
		if err := vm.execute(uint(callee)); err != nil {
			return err
		}
		f, err := vm.rstack.pop()
		if err != nil {
			return err
		}
		ip = f.ip
	}
	return nil
}

// interpret handles one top level token. Words run when interpreting or
// when immediate, and are compiled otherwise; anything else must be a
// numeral in the current base.
func (vm *VM) interpret(token string) error {
	vm.steps = 0
	if w, ok := vm.lookup(token); ok {
		if vm.compiling && !vm.words[w].immediate {
			return vm.compile(Cell(w))
		}
		return vm.execute(w)
	}
	n, err := vm.parseNumeral(token)
	if err != nil {
		return err
	}
	if vm.compiling {
		return vm.compile(Cell(vm.literal), n)
	}
	return vm.stack.push(n)
}

func (vm *VM) parseNumeral(token string) (Cell, error) {
	if token == "" || token[0] == '+' {
		return 0, InvalidNumeral
	}
	n, err := strconv.ParseInt(token, vm.base, cellBits)
	if err != nil {
		return 0, InvalidNumeral
	}
	return Cell(n), nil
}

// nextToken reads the next token from the current line for primitives that
// consume input, like ":" and "'".
func (vm *VM) nextToken() (string, error) {
	tok, ok, err := vm.tokens.scan()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	vm.logf(">", "%v", tok.Value)
	return tok.Value, nil
}
