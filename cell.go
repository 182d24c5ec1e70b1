package main

// Cell is the machine's native value: a 32-bit signed integer.
type Cell int32

// DCell is a double cell, a 64-bit signed integer formed by a (high, low)
// pair of Cells. On the data stack the low cell lies below the high one.
type DCell int64

const cellBits = 32

func joinCells(hi, lo Cell) DCell {
	return DCell(hi)<<cellBits | DCell(uint32(lo))
}

func (d DCell) split() (hi, lo Cell) {
	return Cell(d >> cellBits), Cell(d)
}

func boolCell(b bool) Cell {
	if b {
		return 1
	}
	return 0
}
