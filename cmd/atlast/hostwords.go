package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/corbinforth/atlast/pkg/atlast"
)

// session carries the host-side state the registered words close over.
type session struct {
	done bool
}

// registerHostWords wires the console-level word set the engine core
// leaves to its host: file loading, session exit, and right-justified
// number printing.
func registerHostWords(interp *atlast.Interp, sess *session) {
	interp.PrimDef([]atlast.Prim{
		{Name: "FLOAD", Fn: sess.fload},
		{Name: "BYE", Fn: sess.bye},
		{Name: ".R", Fn: dotR},
	})
}

// fload implements FLOAD ( str -- ): load the file named by the counted
// string on the stack, raising APPLICATION if it cannot be read.
func (sess *session) fload(in *atlast.Interp) {
	path := in.StringAt(uint(in.Pop()))
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fload: %v\n", err)
		in.Fail()
	}
	defer f.Close()
	if _, err := in.Load(path, f); err != nil {
		fmt.Fprintf(os.Stderr, "fload: %v\n", err)
		in.Fail()
	}
}

// bye implements BYE ( -- ): end the interactive session after the
// current line.
func (sess *session) bye(in *atlast.Interp) {
	sess.done = true
}

// dotR implements .R ( n width -- ): print n right-justified in a field
// of the given width.
func dotR(in *atlast.Interp) {
	width := in.Pop()
	n := in.Pop()
	s := strconv.Itoa(n)
	for len(s) < width {
		s = " " + s
	}
	fmt.Print(s)
}
