// Package panicerr contains panics and goroutine exits, turning them into
// ordinary error returns.
package panicerr

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// Recover runs f in a new goroutine, converting any panic or runtime.Goexit
// into a non-nil error return. The name labels any such error.
func Recover(name string, f func() error) error {
	errch := make(chan error, 1)
	go func() {
		defer close(errch)
		defer recoverExit(name, errch)
		defer recoverPanic(name, errch)
		errch <- f()
	}()
	return <-errch
}

func recoverExit(name string, errch chan<- error) {
	select {
	case errch <- exitError(name):
	default:
		// the normal path already sent a (maybe nil) error
	}
}

func recoverPanic(name string, errch chan<- error) {
	if e := recover(); e != nil {
		select {
		case errch <- panicError{name, e, debug.Stack()}:
		default:
		}
	}
}

type exitError string

func (name exitError) Error() string {
	if name == "" {
		return "runtime.Goexit called"
	}
	return fmt.Sprintf("%v called runtime.Goexit", string(name))
}

type panicError struct {
	name  string
	e     interface{}
	stack []byte
}

func (pe panicError) Error() string { return fmt.Sprint(pe) }

// Format prints the panic value, and its stack trace under "%+v".
func (pe panicError) Format(f fmt.State, c rune) {
	if pe.name == "" {
		fmt.Fprintf(f, "panicked: %v", pe.e)
	} else {
		fmt.Fprintf(f, "%v panicked: %v", pe.name, pe.e)
	}
	if c == 'v' && f.Flag('+') {
		fmt.Fprintf(f, "\nPanic stack: %s", pe.stack)
	}
}

func (pe panicError) Unwrap() error {
	err, _ := pe.e.(error)
	return err
}

// IsExit returns true if err indicates a recovered goroutine exit.
func IsExit(err error) bool {
	var xe exitError
	return errors.As(err, &xe)
}

// IsPanic returns true if err indicates a recovered panic.
func IsPanic(err error) bool {
	var pe panicError
	return errors.As(err, &pe)
}

// PanicStack returns the stack trace captured with a recovered panic, or ""
// if err is not one.
func PanicStack(err error) string {
	var pe panicError
	if errors.As(err, &pe) {
		return string(pe.stack)
	}
	return ""
}
