package main

import "github.com/iota-xSK/morth/internal/mem"

// memBank is a bump allocated region of cells. Allocation hands out the
// region starting at top; release moves top back down without clearing.
type memBank struct {
	cells mem.Paged[Cell]
	size  Cell
	top   Cell
}

func (mb *memBank) init(size Cell) {
	mb.size = size
	mb.top = 0
	mb.cells = mem.Paged[Cell]{}
	mb.cells.Limit = uint(size)
}

func (mb *memBank) allocate(n Cell) (Cell, error) {
	if n <= 0 || int64(mb.top)+int64(n) >= int64(mb.size) {
		return 0, OutOfMemory
	}
	base := mb.top
	mb.top += n
	return base, nil
}

func (mb *memBank) release(n Cell) error {
	if n <= 0 || mb.top-n < 0 {
		return MemoryUnderflow
	}
	mb.top -= n
	return nil
}

func (mb *memBank) read(addr Cell) (Cell, error) {
	if addr < 0 || addr >= mb.size {
		return 0, AddressOutOfRange
	}
	v, err := mb.cells.Load(uint(addr))
	if err != nil {
		return 0, AddressOutOfRange
	}
	return v, nil
}

func (mb *memBank) write(addr, v Cell) error {
	if addr < 0 || addr >= mb.size {
		return AddressOutOfRange
	}
	if err := mb.cells.Stor(uint(addr), v); err != nil {
		return AddressOutOfRange
	}
	return nil
}
