package atlast

import (
	"fmt"

	"github.com/corbinforth/atlast/internal/runeio"
)

// Close flushes output and closes every io.Closer registered by an output
// or tee option, most-recently-added first. Input sources are not closed
// here.
func (in *Interp) Close() (err error) {
	if in.out != nil {
		if ferr := in.out.Flush(); err == nil {
			err = ferr
		}
	}
	for i := len(in.closers) - 1; i >= 0; i-- {
		if cerr := in.closers[i].Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (in *Interp) writeString(s string) {
	if _, err := runeio.WriteANSIString(in.out, s); err != nil {
		in.haltIO(err)
	}
}

func (in *Interp) readRune() (rune, error) {
	r, _, err := in.Input.ReadRune()
	return r, err
}

// haltIO reports a host I/O failure on the output stream by panicking with
// an ioError. Eval recovers it the way it recovers a trouble fault: the
// error is logged, the line is abandoned and Eval returns APPLICATION.
func (in *Interp) haltIO(err error) {
	panic(ioError{err})
}

type ioError struct{ error }

func (e ioError) Error() string { return fmt.Sprintf("i/o error: %v", e.error) }
func (e ioError) Unwrap() error { return e.error }
