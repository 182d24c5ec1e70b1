package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

type fmtBuf interface {
	Len() int
	Write(p []byte) (n int, err error)
	WriteByte(c byte) error
	WriteRune(r rune) (n int, err error)
	WriteString(s string) (n int, err error)
}

// Dump writes a human readable rendition of the machine state to w.
func (vm *VM) Dump(w io.Writer) {
	vmDumper{vm: vm, out: w}.dump()
}

type vmDumper struct {
	vm  *VM
	out io.Writer

	// memWidth is how many cells are rendered per memory line.
	memWidth int
}

func (dump vmDumper) dump() {
	fmt.Fprintf(dump.out, "# VM Dump\n")
	if dump.vm.compiling {
		fmt.Fprintf(dump.out, "  mode: compile %v\n", dump.vm.wordName(dump.vm.defining))
	} else {
		fmt.Fprintf(dump.out, "  mode: interpret\n")
	}
	fmt.Fprintf(dump.out, "  stack: %v\n", dump.vm.stack.values)
	dump.dumpRStack()
	dump.dumpDict()
	dump.dumpMem()
}

func (dump vmDumper) dumpRStack() {
	var sb strings.Builder
	sb.WriteString("  rstack: [")
	for i, f := range dump.vm.rstack.values {
		if i > 0 {
			sb.WriteByte(' ')
		}
		dump.formatName(&sb, f.word)
		sb.WriteByte('+')
		sb.WriteString(strconv.Itoa(f.ip))
	}
	sb.WriteString("]\n")
	io.WriteString(dump.out, sb.String())
}

func (dump vmDumper) dumpDict() {
	fmt.Fprintf(dump.out, "# Dictionary\n")
	fmt.Fprintf(dump.out, "  primitives: %v\n", len(builtins))
	for w := uint(len(builtins)); w < uint(len(dump.vm.words)); w++ {
		var sb strings.Builder
		fmt.Fprintf(&sb, "  @%v ", w)
		dump.formatWord(&sb, w)
		sb.WriteByte('\n')
		io.WriteString(dump.out, sb.String())
	}
}

func (dump vmDumper) dumpMem() {
	mb := &dump.vm.mem
	fmt.Fprintf(dump.out, "# Memory\n")
	fmt.Fprintf(dump.out, "  top: %v size: %v pages: %v\n", mb.top, mb.size, mb.cells.Pages())
	width := dump.memWidth
	if width <= 0 {
		width = 8
	}
	buf := make([]Cell, width)
	for addr := Cell(0); addr < mb.top; addr += Cell(width) {
		row := buf
		if rem := int(mb.top - addr); rem < len(row) {
			row = row[:rem]
		}
		if err := mb.cells.LoadInto(uint(addr), row); err != nil {
			fmt.Fprintf(dump.out, "  @%v %v\n", addr, err)
			return
		}
		fmt.Fprintf(dump.out, "  @%v %v\n", addr, row)
	}
}

// formatWord renders a word as its definition, ": name body... ;".
func (dump vmDumper) formatWord(buf fmtBuf, w uint) {
	wd := dump.vm.words[w]
	buf.WriteString(": ")
	dump.formatName(buf, w)
	if wd.code != opEnter {
		buf.WriteString(" <")
		buf.WriteString(wd.code.String())
		buf.WriteByte('>')
	}
	for i := 0; i < len(wd.body); i++ {
		buf.WriteByte(' ')
		i = dump.formatCode(buf, wd.body, i)
	}
	buf.WriteString(" ;")
	if wd.immediate {
		buf.WriteString(" immediate")
	}
}

// formatCode renders body[i], returning the index of the last entry used.
func (dump vmDumper) formatCode(buf fmtBuf, body []Cell, i int) int {
	entry := body[i]
	if entry < 0 || int(entry) >= len(dump.vm.words) {
		fmt.Fprintf(buf, "?%v", entry)
		return i
	}
	w := uint(entry)
	if w == dump.vm.literal && i+1 < len(body) {
		buf.WriteString(strconv.Itoa(int(body[i+1])))
		return i + 1
	}
	dump.formatName(buf, w)
	return i
}

func (dump vmDumper) formatName(buf fmtBuf, w uint) {
	if name := dump.vm.wordName(w); name != "" {
		buf.WriteString(name)
	} else {
		fmt.Fprintf(buf, "UNDEFINED_WORD_%v", w)
	}
}

func (vm *VM) formatWord(w uint) string {
	var sb strings.Builder
	vmDumper{vm: vm}.formatWord(&sb, w)
	return sb.String()
}

func (vm *VM) formatCode(body []Cell) string {
	var sb strings.Builder
	dump := vmDumper{vm: vm}
	for i := 0; i < len(body); i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		i = dump.formatCode(&sb, body, i)
	}
	return sb.String()
}
