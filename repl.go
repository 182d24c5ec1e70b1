package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/iota-xSK/morth/internal/fileinput"
)

// run reads input line by line until bye or the end of all input.
func (vm *VM) run(ctx context.Context) error {
	vm.ctx = ctx
	defer func() { vm.ctx = nil }()
	for {
		if err := vm.out.Flush(); err != nil {
			return haltError{err}
		}
		line, err := vm.in.ReadLine()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return haltError{err}
		}
		if err := vm.runLine(ctx, line); err != nil {
			return err
		}
	}
}

// runLine feeds the tokens of one line to the interpreter. Machine errors
// are reported and abandon the rest of the line; anything else halts.
func (vm *VM) runLine(ctx context.Context, line fileinput.Line) error {
	vm.logf(">", "%v", line)
	if err := vm.tokens.reset(line.Name, line.Text); err != nil {
		return vm.abort(lineError{Location: line.Location, err: err})
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		tok, ok, err := vm.tokens.scan()
		if !ok {
			return nil
		}
		if err == nil {
			err = vm.interpret(tok.Value)
		}
		if err != nil {
			return vm.abort(lineError{
				Location: line.Location,
				col:      tok.Pos.Column,
				token:    tok.Value,
				err:      err,
			})
		}
	}
}

// abort reports a machine error and resets the machine for the next
// line; the data stack is left as it was. Bye, and errors that are not
// machine errors, are returned.
func (vm *VM) abort(le lineError) error {
	var errno Errno
	if !errors.As(le.err, &errno) {
		return le
	}
	if errno == Bye {
		return Bye
	}
	vm.logf("!", "%v", le)
	vm.tokens.discard()
	vm.rstack.clear()
	vm.compiling = false
	if err := vm.reply("ERROR: %d %v\n", errno.Code(), errno); err != nil {
		return haltError{err}
	}
	return nil
}

// haltError marks an input or output failure that stops the machine.
type haltError struct{ error }

func (err haltError) Error() string {
	if err.error != nil {
		return fmt.Sprintf("halted: %v", err.error)
	}
	return "halted"
}

func (err haltError) Unwrap() error { return err.error }
