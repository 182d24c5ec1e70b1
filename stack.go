package main

// stack is a fixed capacity LIFO. Failed operations leave it unchanged and
// return the configured underflow or overflow code.
type stack[T any] struct {
	values    []T
	limit     int
	underflow Errno
	overflow  Errno
}

func newStack[T any](limit int, underflow, overflow Errno) stack[T] {
	return stack[T]{
		values:    make([]T, 0, limit),
		limit:     limit,
		underflow: underflow,
		overflow:  overflow,
	}
}

func (s *stack[T]) depth() int { return len(s.values) }

func (s *stack[T]) clear() { s.values = s.values[:0] }

// need checks that down values may be popped, and up values then pushed.
func (s *stack[T]) need(down, up int) error {
	if len(s.values) < down {
		return s.underflow
	}
	if len(s.values)-down+up > s.limit {
		return s.overflow
	}
	return nil
}

func (s *stack[T]) push(v T) error {
	if len(s.values) >= s.limit {
		return s.overflow
	}
	s.values = append(s.values, v)
	return nil
}

func (s *stack[T]) pop() (v T, _ error) {
	i := len(s.values) - 1
	if i < 0 {
		return v, s.underflow
	}
	v, s.values = s.values[i], s.values[:i]
	return v, nil
}

// peek returns the value i positions below the top.
func (s *stack[T]) peek(i int) (v T, _ error) {
	j := len(s.values) - 1 - i
	if i < 0 || j < 0 {
		return v, s.underflow
	}
	return s.values[j], nil
}

// dataStack holds Cells, and pairs of them as DCells.
type dataStack struct{ stack[Cell] }

func (s *dataStack) pushd(d DCell) error {
	if err := s.need(0, 2); err != nil {
		return err
	}
	hi, lo := d.split()
	s.values = append(s.values, lo, hi)
	return nil
}

func (s *dataStack) popd() (DCell, error) {
	if err := s.need(2, 0); err != nil {
		return 0, err
	}
	hi, _ := s.pop()
	lo, _ := s.pop()
	return joinCells(hi, lo), nil
}

// frame is a return stack entry: the instruction position within the body
// of the word that owns it.
type frame struct {
	word uint
	ip   int
}
