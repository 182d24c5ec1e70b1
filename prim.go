package main

type opcode uint8

const (
	opEnter opcode = iota // <INTERNAL> run the body of a composite word

	opLiteral   // literal    push the next body entry, skipping over it
	opAdd       // +          binary integer operations on the stack
	opSub       // -
	opMul       // *
	opDiv       // /          truncated division
	opMod       // %          truncated remainder
	opGreater   // >          comparisons, leaving a 1 or 0 flag
	opLess      // <
	opNot       // not        is top of stack zero?
	opOr        // or         logical operations, leaving a 1 or 0 flag
	opAnd       // and
	opDAdd      // d+         double cell operations
	opDSub      // d-
	opDMul      // d*
	opDDiv      // d/
	opDMod      // d%         modulo, result takes the sign of the divisor
	opDGreater  // d>         double cell comparisons, leaving a single flag
	opDLess     // d<
	opDup       // dup        stack shuffles
	opPop       // pop
	opSwap      // swap
	opOver      // over
	opRot       // rot
	opAlloc     // alloc      take cells from the memory bank
	opFree      // free       return cells to the memory bank
	opRead      // read       load a cell from the memory bank
	opWrite     // write      store a cell into the memory bank
	opJmp       // jmp        continue the caller at a body position
	opJmpz      // jmpz       jmp if the condition is zero
	opDefine    // :          read a name and begin compiling a word
	opSeal      // ;          finish compiling the current word
	opImmediate // immediate  mark the last word as immediate
	opTick      // '          push the index of the next token's word
	opExecute   // execute    run the word whose index is on the stack
	opAdvance   // advance    discard the next token
	opDot       // .          print the top of stack
	opBye       // bye        halt the machine

	opMax
)

// builtins lists the primitive words in dictionary order.
var builtins = [...]struct {
	name      string
	code      opcode
	immediate bool
}{
	{"literal", opLiteral, false},
	{"+", opAdd, false},
	{"-", opSub, false},
	{"*", opMul, false},
	{"/", opDiv, false},
	{"%", opMod, false},
	{">", opGreater, false},
	{"<", opLess, false},
	{"not", opNot, false},
	{"or", opOr, false},
	{"and", opAnd, false},
	{"d+", opDAdd, false},
	{"d-", opDSub, false},
	{"d*", opDMul, false},
	{"d/", opDDiv, false},
	{"d%", opDMod, false},
	{"d>", opDGreater, false},
	{"d<", opDLess, false},
	{"dup", opDup, false},
	{"pop", opPop, false},
	{"swap", opSwap, false},
	{"over", opOver, false},
	{"rot", opRot, false},
	{"alloc", opAlloc, false},
	{"free", opFree, false},
	{"read", opRead, false},
	{"write", opWrite, false},
	{"jmp", opJmp, false},
	{"jmpz", opJmpz, false},
	{":", opDefine, false},
	{";", opSeal, true},
	{"immediate", opImmediate, true},
	{"'", opTick, false},
	{"execute", opExecute, false},
	{"advance", opAdvance, true},
	{".", opDot, false},
	{"bye", opBye, true},
}

var opTable [opMax]func(vm *VM) error
var opNames [opMax]string

func init() {
	opTable = [...]func(vm *VM) error{
		nil,

		(*VM).literalOp,
		(*VM).add,
		(*VM).sub,
		(*VM).mul,
		(*VM).div,
		(*VM).mod,
		(*VM).greater,
		(*VM).less,
		(*VM).not,
		(*VM).or,
		(*VM).and,
		(*VM).dadd,
		(*VM).dsub,
		(*VM).dmul,
		(*VM).ddiv,
		(*VM).dmod,
		(*VM).dgreater,
		(*VM).dless,
		(*VM).dup,
		(*VM).drop,
		(*VM).swap,
		(*VM).over,
		(*VM).rot,
		(*VM).alloc,
		(*VM).free,
		(*VM).read,
		(*VM).write,
		(*VM).jmp,
		(*VM).jmpz,
		(*VM).colon,
		(*VM).semicolon,
		(*VM).immediate,
		(*VM).tick,
		(*VM).executeOp,
		(*VM).advance,
		(*VM).dot,
		(*VM).bye,
	}

	opNames = [...]string{
		"enter",

		"literal",
		"add",
		"sub",
		"mul",
		"div",
		"mod",
		"greater",
		"less",
		"not",
		"or",
		"and",
		"dadd",
		"dsub",
		"dmul",
		"ddiv",
		"dmod",
		"dgreater",
		"dless",
		"dup",
		"pop",
		"swap",
		"over",
		"rot",
		"alloc",
		"free",
		"read",
		"write",
		"jmp",
		"jmpz",
		"define",
		"seal",
		"immediate",
		"tick",
		"execute",
		"advance",
		"dot",
		"bye",
	}
}

func (code opcode) String() string {
	if code < opMax {
		return opNames[code]
	}
	return "invalid"
}

// binary replaces the top two cells with f(a, b); on error both are kept.
func (vm *VM) binary(f func(a, b Cell) (Cell, error)) error {
	s := &vm.stack
	if err := s.need(2, 0); err != nil {
		return err
	}
	n := len(s.values)
	r, err := f(s.values[n-2], s.values[n-1])
	if err != nil {
		return err
	}
	s.values[n-2] = r
	s.values = s.values[:n-1]
	return nil
}

// dbinary replaces the top two double cells with f(a, b).
func (vm *VM) dbinary(f func(a, b DCell) (DCell, error)) error {
	s := &vm.stack
	if err := s.need(4, 0); err != nil {
		return err
	}
	n := len(s.values)
	a := joinCells(s.values[n-3], s.values[n-4])
	b := joinCells(s.values[n-1], s.values[n-2])
	r, err := f(a, b)
	if err != nil {
		return err
	}
	s.values = s.values[:n-4]
	return s.pushd(r)
}

// dcompare replaces the top two double cells with a single cell flag.
func (vm *VM) dcompare(f func(a, b DCell) bool) error {
	s := &vm.stack
	if err := s.need(4, 0); err != nil {
		return err
	}
	n := len(s.values)
	a := joinCells(s.values[n-3], s.values[n-4])
	b := joinCells(s.values[n-1], s.values[n-2])
	s.values = s.values[:n-4]
	return s.push(boolCell(f(a, b)))
}

func (vm *VM) add() error {
	return vm.binary(func(a, b Cell) (Cell, error) { return a + b, nil })
}

func (vm *VM) sub() error {
	return vm.binary(func(a, b Cell) (Cell, error) { return a - b, nil })
}

func (vm *VM) mul() error {
	return vm.binary(func(a, b Cell) (Cell, error) { return a * b, nil })
}

func (vm *VM) div() error {
	return vm.binary(func(a, b Cell) (Cell, error) {
		if b == 0 {
			return 0, DivisionByZero
		}
		return a / b, nil
	})
}

func (vm *VM) mod() error {
	return vm.binary(func(a, b Cell) (Cell, error) {
		if b == 0 {
			return 0, DivisionByZero
		}
		return a % b, nil
	})
}

func (vm *VM) greater() error {
	return vm.binary(func(a, b Cell) (Cell, error) { return boolCell(a > b), nil })
}

func (vm *VM) less() error {
	return vm.binary(func(a, b Cell) (Cell, error) { return boolCell(a < b), nil })
}

func (vm *VM) or() error {
	return vm.binary(func(a, b Cell) (Cell, error) { return boolCell(a != 0 || b != 0), nil })
}

func (vm *VM) and() error {
	return vm.binary(func(a, b Cell) (Cell, error) { return boolCell(a != 0 && b != 0), nil })
}

func (vm *VM) not() error {
	a, err := vm.stack.pop()
	if err != nil {
		return err
	}
	return vm.stack.push(boolCell(a == 0))
}

func (vm *VM) dadd() error {
	return vm.dbinary(func(a, b DCell) (DCell, error) { return a + b, nil })
}

func (vm *VM) dsub() error {
	return vm.dbinary(func(a, b DCell) (DCell, error) { return a - b, nil })
}

func (vm *VM) dmul() error {
	return vm.dbinary(func(a, b DCell) (DCell, error) { return a * b, nil })
}

func (vm *VM) ddiv() error {
	return vm.dbinary(func(a, b DCell) (DCell, error) {
		if b == 0 {
			return 0, DivisionByZero
		}
		return a / b, nil
	})
}

func (vm *VM) dmod() error {
	return vm.dbinary(func(a, b DCell) (DCell, error) {
		if b == 0 {
			return 0, DivisionByZero
		}
		r := a % b
		if r != 0 && (r < 0) != (b < 0) {
			r += b
		}
		return r, nil
	})
}

func (vm *VM) dgreater() error {
	return vm.dcompare(func(a, b DCell) bool { return a > b })
}

func (vm *VM) dless() error {
	return vm.dcompare(func(a, b DCell) bool { return a < b })
}

func (vm *VM) dup() error {
	if err := vm.stack.need(1, 2); err != nil {
		return err
	}
	a, _ := vm.stack.peek(0)
	return vm.stack.push(a)
}

func (vm *VM) drop() error {
	_, err := vm.stack.pop()
	return err
}

func (vm *VM) swap() error {
	s := &vm.stack
	if err := s.need(2, 0); err != nil {
		return err
	}
	n := len(s.values)
	s.values[n-2], s.values[n-1] = s.values[n-1], s.values[n-2]
	return nil
}

func (vm *VM) over() error {
	if err := vm.stack.need(2, 3); err != nil {
		return err
	}
	a, _ := vm.stack.peek(1)
	return vm.stack.push(a)
}

// rot ( a b c -- b c a )
func (vm *VM) rot() error {
	s := &vm.stack
	if err := s.need(3, 0); err != nil {
		return err
	}
	n := len(s.values)
	a := s.values[n-3]
	copy(s.values[n-3:], s.values[n-2:])
	s.values[n-1] = a
	return nil
}

// alloc ( n -- base )
func (vm *VM) alloc() error {
	n, err := vm.stack.peek(0)
	if err != nil {
		return err
	}
	base, err := vm.mem.allocate(n)
	if err != nil {
		return err
	}
	vm.stack.values[len(vm.stack.values)-1] = base
	return nil
}

// free ( n -- )
func (vm *VM) free() error {
	n, err := vm.stack.peek(0)
	if err != nil {
		return err
	}
	if err := vm.mem.release(n); err != nil {
		return err
	}
	_, err = vm.stack.pop()
	return err
}

// read ( addr -- v )
func (vm *VM) read() error {
	addr, err := vm.stack.peek(0)
	if err != nil {
		return err
	}
	v, err := vm.mem.read(addr)
	if err != nil {
		return err
	}
	vm.stack.values[len(vm.stack.values)-1] = v
	return nil
}

// write ( addr v -- )
func (vm *VM) write() error {
	s := &vm.stack
	if err := s.need(2, 0); err != nil {
		return err
	}
	n := len(s.values)
	if err := vm.mem.write(s.values[n-2], s.values[n-1]); err != nil {
		return err
	}
	s.values = s.values[:n-2]
	return nil
}

// literalOp runs as a body entry: the inline value after it is pushed and
// the caller's frame advanced past it.
func (vm *VM) literalOp() error {
	f, err := vm.rstack.peek(0)
	if err != nil {
		return err
	}
	body := vm.words[f.word].body
	if f.ip+1 >= len(body) {
		return InvalidJumpTarget
	}
	if err := vm.stack.push(body[f.ip+1]); err != nil {
		return err
	}
	vm.rstack.pop()
	f.ip++
	return vm.rstack.push(f)
}

// jumpTo rewrites the caller's frame so that execution resumes at target.
func (vm *VM) jumpTo(target Cell) error {
	f, err := vm.rstack.peek(0)
	if err != nil {
		return err
	}
	if target < 0 || int(target) > len(vm.words[f.word].body) {
		return InvalidJumpTarget
	}
	vm.rstack.pop()
	f.ip = int(target) - 1
	return vm.rstack.push(f)
}

// jmp ( target -- )
func (vm *VM) jmp() error {
	target, err := vm.stack.pop()
	if err != nil {
		return err
	}
	return vm.jumpTo(target)
}

// jmpz ( target cond -- )
func (vm *VM) jmpz() error {
	cond, err := vm.stack.pop()
	if err != nil {
		return err
	}
	target, err := vm.stack.pop()
	if err != nil {
		return err
	}
	if target < 0 {
		return InvalidJumpTarget
	}
	if cond != 0 {
		return nil
	}
	return vm.jumpTo(target)
}

func (vm *VM) colon() error {
	name, err := vm.nextToken()
	if err != nil {
		return err
	}
	return vm.define(name)
}

func (vm *VM) semicolon() error { return vm.seal() }

func (vm *VM) immediate() error {
	vm.words[vm.last].immediate = true
	return nil
}

func (vm *VM) tick() error {
	name, err := vm.nextToken()
	if err != nil {
		return err
	}
	w, ok := vm.lookup(name)
	if !ok {
		return UndefinedWord
	}
	return vm.stack.push(Cell(w))
}

func (vm *VM) executeOp() error {
	w, err := vm.stack.pop()
	if err != nil {
		return err
	}
	if w < 0 {
		return InvalidWord
	}
	return vm.execute(uint(w))
}

func (vm *VM) advance() error {
	_, err := vm.nextToken()
	return err
}

func (vm *VM) dot() error {
	v, err := vm.stack.pop()
	if err != nil {
		return err
	}
	return vm.reply("%d ok\n", v)
}

func (vm *VM) bye() error { return Bye }
