package atlast

import "strconv"

// Prim is one row of a primitive table: a name, its handler, and whether
// the word is IMMEDIATE (executed during compilation instead of being
// appended). Hosts register their own operations as Prim tables through
// PrimDef, which is the whole point of embedding this engine.
type Prim struct {
	Name      string
	Fn        func(in *Interp)
	Immediate bool
}

// Init allocates the four sized regions from either a prologue line already
// consumed or the configured/default sizes, registers the core primitive
// set, caches the internal helper addresses, and marks the current
// dictionary tail protected against FORGET. Init is idempotent: a second
// call is a no-op, and Eval calls it automatically on first use.
func (in *Interp) Init() {
	if in.initialized {
		return
	}
	if in.cfg.heapCells == 0 {
		in.cfg = defaultConfig()
	}

	in.stackCap = in.cfg.stackCells
	in.rstackCap = in.cfg.rstackCells
	in.tempStrLen = in.cfg.tempStrLen
	in.base = 10
	in.heap.init(in.cfg.heapCells)

	in.primDef(corePrimitives())

	in.cached.exit = in.mustLookup("EXIT")
	in.cached.lit = in.mustLookup("(LIT)")
	in.cached.flit = in.mustLookup("(FLIT)")
	in.cached.strlit = in.mustLookup("(STRLIT)")
	in.cached.dotParen = in.mustLookup("(PRINT-STR)")
	in.cached.branch = in.mustLookup("BRANCH")
	in.cached.qbranch = in.mustLookup("?BRANCH")
	in.cached.xdo = in.mustLookup("(XDO)")
	in.cached.xqdo = in.mustLookup("(X?DO)")
	in.cached.xloop = in.mustLookup("(XLOOP)")
	in.cached.xploop = in.mustLookup("(+XLOOP)")
	in.cached.abortQuote = in.mustLookup("(RAISE-APPLICATION)")
	in.cached.does = in.mustLookup("(DOES-INSTALL)")

	in.allocTempStrings(in.cfg.tempStrCount, in.cfg.tempStrLen)

	in.primDef(in.deferredPrims)
	in.deferredPrims = nil

	in.protectedMark = in.last
	in.protectedHeap = in.heap.here()
	in.initialized = true
}

func (in *Interp) mustLookup(name string) uint {
	header := in.lookup(name)
	if header == 0 {
		panic("atlast: internal word " + name + " missing from core primitive table")
	}
	return header
}

func (in *Interp) allocTempStrings(count, length int) {
	cellsPerBuf := 1 + length // length cell plus one cell per byte
	in.tempBufs = make([]uint, count)
	for i := range in.tempBufs {
		in.tempBufs[i] = in.halloc(uint(cellsPerBuf))
	}
	in.tempIdx = 0
}

func (in *Interp) tempBufAddr(i int) uint { return in.tempBufs[i] }

// PrimDef registers table as primitives, in order, each becoming a fresh
// dictionary entry whose code data is its index in in.primitives. A table
// registered before Init (called directly or by the first Eval) is held
// until the regions exist and lands under the protected mark, so it cannot
// be forgotten; a table registered after Init is not protected.
func (in *Interp) PrimDef(table []Prim) {
	if !in.initialized {
		in.deferredPrims = append(in.deferredPrims, table...)
		return
	}
	in.primDef(table)
}

func (in *Interp) primDef(table []Prim) {
	for _, e := range table {
		id := len(in.primitives)
		in.primitives = append(in.primitives, e)
		header := in.compileHeader(e.Name)
		in.setTag(header, tagPrimitive)
		in.setData(header, id)
		if e.Immediate {
			in.setFlags(header, in.entryFlags(header)|flagImmediate)
		}
	}
}

// Lookup is the host-facing case-insensitive name resolution entry point.
func (in *Interp) Lookup(name string) (uint, bool) {
	header := in.lookup(name)
	return header, header != 0
}

// Exec runs entry as if it had been typed at top level, saving and
// restoring ip so a host call nested inside a running primitive cannot
// corrupt the caller's dispatch state, and returns a status distinct from
// whatever status preceded the call.
func (in *Interp) Exec(entry uint) (status Status) {
	savedProg, savedCur := in.prog, in.cur
	defer func() {
		in.prog, in.cur = savedProg, savedCur
		if r := recover(); r != nil {
			status = in.recoverFault(r)
		}
	}()
	in.prog = 0
	in.exword(entry)
	return NORMAL
}

// VarDef defines a zero-initialized variable word with the given body size
// in bytes (rounded up to whole cells, minimum one) and returns its entry.
func (in *Interp) VarDef(name string, bytes int) uint {
	cells := uint((bytes + strconv.IntSize/8 - 1) / (strconv.IntSize / 8))
	if cells == 0 {
		cells = 1
	}
	header := in.compileHeader(name)
	body := in.halloc(cells)
	for i := uint(0); i < cells; i++ {
		in.heap.stor(body+i, 0)
	}
	return header
}

// Body returns the address of the cells following entry's header.
func (in *Interp) Body(entry uint) uint { return entryBody(entry) }

// Break sets the async-break flag. It may be called from any goroutine or
// a signal handler context; the dispatch loop polls it between two
// primitives and raises BREAK, never interrupting a primitive midway.
func (in *Interp) Break() { in.pending.asyncBreak = true }

// Fail aborts the current evaluation from inside a host primitive with an
// APPLICATION status, handled exactly like an internal fault.
func (in *Interp) Fail() { in.trouble(APPLICATION) }

// Push pushes v onto the data stack, faulting on overflow. For use by host
// primitives.
func (in *Interp) Push(v int) { in.dpush(v) }

// Pop pops the data-stack top, faulting on underflow. For use by host
// primitives.
func (in *Interp) Pop() int { return in.dpop() }

// PushReal and PopReal are the floating-value counterparts of Push/Pop.
func (in *Interp) PushReal(f float64) { in.dpushReal(f) }
func (in *Interp) PopReal() float64   { return in.dpopReal() }

// StringAt reads the counted string at a heap address previously pushed by
// a string literal, STRING body, or SUBSTR result.
func (in *Interp) StringAt(addr uint) string { return in.heapString(addr) }

// TempString copies s into the next rotating temporary buffer and returns
// its heap address, the way an interpret-mode string literal is pushed.
func (in *Interp) TempString(s string) uint { return in.pushTempString(s) }

// Words returns the names of every live dictionary entry, most recently
// defined first.
func (in *Interp) Words() []string { return in.words() }

// UnusedWords returns the names of live entries nothing has looked up.
func (in *Interp) UnusedWords() []string { return in.unusedWords() }

// OnDot installs a host number formatter used by the . ? and .S words in
// place of the engine's plain rendering.
func (in *Interp) OnDot(f func(in *Interp, n int)) { in.dotHook = f }
