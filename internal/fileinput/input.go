// Package fileinput reads lines sequentially through a queue of named input
// streams, tracking where each line came from.
package fileinput

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Location names a line in an Input stream.
type Location struct {
	Name string
	Line int
}

// Line is one line of input, without its line terminator.
type Line struct {
	Location
	Text string
}

func (loc Location) String() string { return fmt.Sprintf("%v:%v", loc.Name, loc.Line) }
func (il Line) String() string      { return fmt.Sprintf("%v %q", il.Location, il.Text) }

// Input implements sequential line reading through a Queue of one or more
// input streams. Streams that implement io.Closer are closed once exhausted.
type Input struct {
	Queue []io.Reader

	// Last is the most recently read line.
	Last Line

	r   *bufio.Reader
	src io.Reader
	loc Location
}

// ReadLine returns the next line from the current stream, moving on through
// the Queue as streams are exhausted. Returns io.EOF after the last stream.
func (in *Input) ReadLine() (Line, error) {
	for {
		if in.r == nil && !in.nextIn() {
			return Line{}, io.EOF
		}

		text, err := in.r.ReadString('\n')
		if len(text) > 0 {
			in.loc.Line++
			in.Last = Line{in.loc, strings.TrimRight(text, "\r\n")}
			if err == io.EOF {
				in.close()
			} else if err != nil {
				return in.Last, fmt.Errorf("%v: %w", in.loc, err)
			}
			return in.Last, nil
		}

		if err == nil || err == io.EOF {
			in.close()
			continue
		}
		in.close()
		return Line{}, fmt.Errorf("%v: %w", in.loc, err)
	}
}

// Close closes the current stream and any still queued.
func (in *Input) Close() (err error) {
	if cerr := in.close(); err == nil {
		err = cerr
	}
	for _, r := range in.Queue {
		if cl, ok := r.(io.Closer); ok {
			if cerr := cl.Close(); err == nil {
				err = cerr
			}
		}
	}
	in.Queue = nil
	return err
}

func (in *Input) close() (err error) {
	if cl, ok := in.src.(io.Closer); ok {
		err = cl.Close()
	}
	in.r, in.src = nil, nil
	return err
}

func (in *Input) nextIn() bool {
	if len(in.Queue) == 0 {
		return false
	}
	in.src = in.Queue[0]
	in.Queue = in.Queue[1:]
	in.r = bufio.NewReader(in.src)
	in.loc = Location{Name: nameOf(in.src)}
	return true
}

// NamedReader attaches a name to r for use in line Locations.
func NamedReader(name string, r io.Reader) io.Reader {
	if cl, ok := r.(io.ReadCloser); ok {
		return namedReadCloser{cl, name}
	}
	return namedReader{r, name}
}

type namedReader struct {
	io.Reader
	name string
}

type namedReadCloser struct {
	io.ReadCloser
	name string
}

func (nr namedReader) Name() string      { return nr.name }
func (nr namedReadCloser) Name() string { return nr.name }

func nameOf(obj interface{}) string {
	if nom, ok := obj.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", obj)
}
