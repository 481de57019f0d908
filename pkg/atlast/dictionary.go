package atlast

import "strings"

// Word-entry flag bits, packed into a single heap cell rather than a byte
// because a cell is this engine's only addressable unit.
const (
	flagImmediate = 1 << iota
	flagUsed
	flagHidden
)

// codeTag names which handler interprets the cells following a header: a
// native primitive, or one of the synthesized handlers for compiled,
// variable, constant, array and DOES>-defined words. A closed tag set
// dispatched by switch stands in for a function-pointer code field.
type codeTag int

const (
	tagPrimitive codeTag = iota // data = primitive id
	tagNest                     // compiled colon-definition; body is threaded code
	tagVar                      // CREATE/variable body; execute pushes body address
	tagArraySub                 // ARRAY; body = subs,esize,dims...,data...
	tagDoes                     // DOES>-defined; hidden cell before header = action ip
	tagCon                      // single-cell constant; data = value
	tag2Con                     // two-cell constant; body[0],body[1] = value
)

// headerCells is the width, in cells, of a dictionary entry header: link,
// name id, flags, code tag, code data. It does not include the hidden
// "does action" cell that always precedes a header (see entryHidden),
// which is what lets DOES> retroactively install an action without moving
// anything: the slot was reserved up front.
const headerCells = 5

const (
	hLink = iota
	hName
	hFlags
	hTag
	hData
)

// entryHidden returns the address of the cell reserved immediately before
// header, which DOES> may later fill with a method-body instruction
// pointer.
func entryHidden(header uint) uint { return header - 1 }

func entryBody(header uint) uint { return header + headerCells }

// compileHeader allocates a hidden slot plus a header for name, links it at
// the head of the dictionary, and returns the header address. The code tag
// is left as tagVar provisionally until the definition is closed, which is
// what keeps a half-compiled `:` definition from being invocable as code.
func (in *Interp) compileHeader(name string) uint {
	if id := in.names.id(name); id != 0 {
		for e := in.last; e != 0; e = uint(in.heap.load(e + hLink)) {
			if uint(in.heap.load(e+hName)) == id && in.entryFlags(e)&flagHidden == 0 {
				in.warnf("%s isn't unique", strings.ToUpper(name))
				break
			}
		}
	}

	hidden := in.halloc(1)
	in.heap.stor(hidden, 0)
	header := in.halloc(headerCells)
	in.heap.stor(header+hLink, int(in.last))
	in.heap.stor(header+hName, int(in.names.intern(name)))
	in.heap.stor(header+hFlags, 0)
	in.heap.stor(header+hTag, int(tagVar))
	in.heap.stor(header+hData, 0)
	in.last = header
	return header
}

func (in *Interp) entryFlags(header uint) int   { return in.heap.load(header + hFlags) }
func (in *Interp) setFlags(header uint, f int)  { in.heap.stor(header+hFlags, f) }
func (in *Interp) entryTag(header uint) codeTag { return codeTag(in.heap.load(header + hTag)) }
func (in *Interp) setTag(header uint, t codeTag) {
	in.heap.stor(header+hTag, int(t))
}
func (in *Interp) entryData(header uint) int  { return in.heap.load(header + hData) }
func (in *Interp) setData(header uint, d int) { in.heap.stor(header+hData, d) }
func (in *Interp) entryName(header uint) string {
	return in.names.name(uint(in.heap.load(header + hName)))
}

// lookup traverses the live (non-HIDDEN) chain for the most recently
// defined entry matching name, setting its USED bit as a side effect (used
// by the unused-words report). Returns 0 if not found.
func (in *Interp) lookup(name string) uint {
	id := in.names.id(name)
	if id == 0 {
		return 0
	}
	for e := in.last; e != 0; e = uint(in.heap.load(e + hLink)) {
		if uint(in.heap.load(e+hName)) != id {
			continue
		}
		if in.entryFlags(e)&flagHidden != 0 {
			continue
		}
		in.setFlags(e, in.entryFlags(e)|flagUsed)
		return e
	}
	return 0
}

// find implements the FIND word's three-state contract: 0 not found, 1
// found, -1 found and IMMEDIATE.
func (in *Interp) find(name string) (header uint, sentinel int) {
	header = in.lookup(name)
	if header == 0 {
		return 0, 0
	}
	if in.entryFlags(header)&flagImmediate != 0 {
		return header, -1
	}
	return header, 1
}

// words returns the names of every live (non-HIDDEN) dictionary entry,
// most recently defined first.
func (in *Interp) words() []string {
	var out []string
	for e := in.last; e != 0; e = uint(in.heap.load(e + hLink)) {
		if in.entryFlags(e)&flagHidden == 0 {
			out = append(out, in.entryName(e))
		}
	}
	return out
}

// unusedWords returns the names of live entries whose USED bit was never
// set by lookup, i.e. words nothing ever referenced.
func (in *Interp) unusedWords() []string {
	var out []string
	for e := in.last; e != 0; e = uint(in.heap.load(e + hLink)) {
		flags := in.entryFlags(e)
		if flags&flagHidden == 0 && flags&flagUsed == 0 {
			out = append(out, in.entryName(e))
		}
	}
	return out
}

// forget implements FORGET name: remove the named entry and everything
// newer, aborting with FORGETPROT if that would cross the protected mark
// established at init. The heap bump pointer rewinds to the oldest removed
// entry's hidden slot, which also discards a DOES-installed method pointer
// since that slot is reserved ahead of every header. Name buffers no
// surviving entry references are released.
func (in *Interp) forget(name string) Status {
	header := in.lookup(name)
	if header == 0 {
		return UNDEFINED
	}
	if header <= in.protectedMark {
		return FORGETPROT
	}

	in.last = uint(in.heap.load(header + hLink))
	in.heap.top = entryHidden(header)

	// Shadowing means a removed entry's name id may still be referenced by
	// an older survivor, so only the suffix of ids above the highest live
	// one can be released; no survivor references an id in that suffix.
	var maxLive uint
	for e := in.last; e != 0; e = uint(in.heap.load(e + hLink)) {
		if id := uint(in.heap.load(e + hName)); id > maxLive {
			maxLive = id
		}
	}
	in.names.truncate(maxLive)
	return NORMAL
}
