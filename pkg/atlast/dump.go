package atlast

import (
	"fmt"
	"io"

	"github.com/alecthomas/repr"
)

// WordInfo is the introspectable view of one dictionary entry that Dump
// and DumpWords render.
type WordInfo struct {
	Addr      uint
	Name      string
	Flags     string
	Kind      string
	Body      uint
	BodyCells uint
}

var tagNames = map[codeTag]string{
	tagPrimitive: "primitive",
	tagNest:      "colon",
	tagVar:       "variable",
	tagArraySub:  "array",
	tagDoes:      "does",
	tagCon:       "constant",
	tag2Con:      "2constant",
}

func (in *Interp) wordInfo(header, newerHidden uint) WordInfo {
	flags := ""
	f := in.entryFlags(header)
	if f&flagImmediate != 0 {
		flags += "I"
	}
	if f&flagUsed != 0 {
		flags += "U"
	}
	if f&flagHidden != 0 {
		flags += "H"
	}

	// A word's body runs from its header to the next-newer entry's hidden
	// slot, or to the bump pointer for the newest word.
	end := in.heap.here()
	if newerHidden != 0 {
		end = newerHidden
	}
	body := entryBody(header)
	var cells uint
	if end > body {
		cells = end - body
	}

	return WordInfo{
		Addr:      header,
		Name:      in.entryName(header),
		Flags:     flags,
		Kind:      tagNames[in.entryTag(header)],
		Body:      body,
		BodyCells: cells,
	}
}

// DumpWords writes one structured line per dictionary entry, newest first,
// including hidden ones.
func (in *Interp) DumpWords(w io.Writer) {
	newerHidden := uint(0)
	for e := in.last; e != 0; e = uint(in.heap.load(e + hLink)) {
		fmt.Fprintln(w, repr.String(in.wordInfo(e, newerHidden)))
		newerHidden = entryHidden(e)
	}
}

// Dump writes a post-mortem style rendering of the whole instance: the
// instruction pointer, the three stacks, the heap extent, and every
// dictionary entry.
func (in *Interp) Dump(w io.Writer) {
	fmt.Fprintf(w, "# Interp Dump\n")
	fmt.Fprintf(w, "  status: %v\n", in.status)
	fmt.Fprintf(w, "  ip: %v\n", in.prog)
	fmt.Fprintf(w, "  here: %v of %v\n", in.heap.here(), in.heap.capacity)
	fmt.Fprintf(w, "  stack: %v\n", in.stack)
	fmt.Fprintf(w, "  rstack: %v\n", in.rstack)
	if len(in.walk) > 0 {
		fmt.Fprintf(w, "  walkback:")
		for i := len(in.walk) - 1; i >= 0; i-- {
			fmt.Fprintf(w, " %v", in.entryName(in.walk[i]))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "# Dictionary\n")
	in.DumpWords(w)
}
