package main

import (
	"bufio"
	"fmt"
	"io"
	"io/ioutil"
	"strings"

	"github.com/iota-xSK/morth/internal/fileinput"
)

type ioCore struct {
	in  fileinput.Input
	out writeFlusher

	logging
}

func (ioc *ioCore) Close() error {
	return ioc.in.Close()
}

// reply writes an operator reply line.
func (ioc *ioCore) reply(format string, args ...interface{}) error {
	_, err := fmt.Fprintf(ioc.out, format, args...)
	return err
}

type logging struct {
	logfn     func(mess string, args ...interface{})
	markWidth int
}

// logf emits a trace line; mark is one of ">" read, ":" compile, "@" execute
// or "!" error, padded to a common width so that nested marks line up.
func (log *logging) logf(mark, mess string, args ...interface{}) {
	if log.logfn == nil {
		return
	}
	if n := log.markWidth - len(mark); n > 0 {
		mark = strings.Repeat(mark[:1], n) + mark
	} else if n < 0 {
		log.markWidth = len(mark)
	}
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	log.logfn("%v %v", mark, mess)
}

type writeFlusher interface {
	io.Writer
	Flush() error
}

var discardWriteFlusher writeFlusher = nopFlusher{ioutil.Discard}

func newWriteFlusher(w io.Writer) writeFlusher {
	if w == ioutil.Discard {
		return discardWriteFlusher
	}
	if wf, is := w.(writeFlusher); is {
		return wf
	}

	// in memory buffers, like bytes.Buffer and strings.Builder, need no flush
	type buffer interface {
		io.Writer
		Len() int
		Reset()
	}
	if _, isBuffer := w.(buffer); isBuffer {
		return nopFlusher{w}
	}

	return bufio.NewWriter(w)
}

type nopFlusher struct{ io.Writer }

func (nf nopFlusher) Flush() error { return nil }

type writeFlushers []writeFlusher

func (wfs writeFlushers) Write(p []byte) (n int, err error) {
	for _, wf := range wfs {
		n, err = wf.Write(p)
		if err != nil {
			return n, err
		}
		if n != len(p) {
			return n, io.ErrShortWrite
		}
	}
	return len(p), nil
}

func (wfs writeFlushers) Flush() (err error) {
	for _, wf := range wfs {
		if ferr := wf.Flush(); err == nil {
			err = ferr
		}
	}
	return err
}

func multiWriteFlusher(a, b writeFlusher) writeFlusher {
	var all writeFlushers
	for _, one := range []writeFlusher{a, b} {
		if many, ok := one.(writeFlushers); ok {
			all = append(all, many...)
		} else if one != nil && one != discardWriteFlusher {
			all = append(all, one)
		}
	}
	switch len(all) {
	case 0:
		return discardWriteFlusher
	case 1:
		return all[0]
	default:
		return all
	}
}
