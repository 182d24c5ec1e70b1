// Package mem provides sparse paged storage for machine memory banks.
package mem

import (
	"fmt"
	"sort"
)

// DefaultPageSize is used when Paged.PageSize is left zero.
const DefaultPageSize = 1024

// Paged is a sparse memory of T values made of aligned fixed size pages.
// A page only exists once something is stored into it; everything else
// reads as the zero T.
type Paged[T any] struct {
	// PageSize must not change once the first page exists.
	PageSize uint

	// Limit is an exclusive upper address bound; zero means unlimited.
	Limit uint

	pages []page[T]
}

type page[T any] struct {
	num   uint
	cells []T
}

// LimitError reports a load or store that reached Limit.
type LimitError struct {
	Addr uint
	Op   string
}

func (lim LimitError) Error() string {
	return fmt.Sprintf("memory limit exceeded by %v @%v", lim.Op, lim.Addr)
}

// Pages returns how many pages have been allocated so far.
func (m *Paged[T]) Pages() int { return len(m.pages) }

// Load returns the value at addr.
func (m *Paged[T]) Load(addr uint) (val T, _ error) {
	if err := m.checkLimit(addr+1, "load"); err != nil {
		return val, err
	}
	if len(m.pages) == 0 {
		return val, nil
	}
	num, off := addr/m.PageSize, addr%m.PageSize
	if i, ok := m.find(num); ok {
		val = m.pages[i].cells[off]
	}
	return val, nil
}

// LoadInto fills buf from memory starting at addr. Nothing is loaded if the
// range reaches Limit.
func (m *Paged[T]) LoadInto(addr uint, buf []T) error {
	if err := m.checkLimit(addr+uint(len(buf)), "load"); err != nil {
		return err
	}
	var zero T
	for len(buf) > 0 {
		n := len(buf)
		var src []T
		if m.PageSize != 0 {
			num, off := addr/m.PageSize, addr%m.PageSize
			if rem := int(m.PageSize - off); n > rem {
				n = rem
			}
			if i, ok := m.find(num); ok {
				src = m.pages[i].cells[off:]
			}
		}
		if src != nil {
			copy(buf[:n], src)
		} else {
			for i := range buf[:n] {
				buf[i] = zero
			}
		}
		buf = buf[n:]
		addr += uint(n)
	}
	return nil
}

// Stor writes values starting at addr, allocating pages as needed. Nothing
// is stored if the range reaches Limit.
func (m *Paged[T]) Stor(addr uint, values ...T) error {
	if len(values) == 0 {
		return nil
	}
	if err := m.checkLimit(addr+uint(len(values)), "stor"); err != nil {
		return err
	}
	if m.PageSize == 0 {
		m.PageSize = DefaultPageSize
	}
	for len(values) > 0 {
		num, off := addr/m.PageSize, addr%m.PageSize
		n := copy(m.alloc(num)[off:], values)
		values = values[n:]
		addr += uint(n)
	}
	return nil
}

func (m *Paged[T]) find(num uint) (int, bool) {
	i := sort.Search(len(m.pages), func(i int) bool { return m.pages[i].num >= num })
	return i, i < len(m.pages) && m.pages[i].num == num
}

func (m *Paged[T]) alloc(num uint) []T {
	i, ok := m.find(num)
	if !ok {
		m.pages = append(m.pages, page[T]{})
		copy(m.pages[i+1:], m.pages[i:])
		m.pages[i] = page[T]{num, make([]T, m.PageSize)}
	}
	return m.pages[i].cells
}

func (m *Paged[T]) checkLimit(end uint, op string) error {
	if m.Limit != 0 && end > m.Limit {
		return LimitError{end - 1, op}
	}
	return nil
}
