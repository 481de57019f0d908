package atlast

import (
	"io"

	"github.com/corbinforth/atlast/internal/fileinput"
	"github.com/corbinforth/atlast/internal/flushio"
)

// pending holds the single-bit pending flags the state record carries
// between scanner calls and compiler decisions.
type pending struct {
	definition    bool // a `:` has been scanned; next word becomes its name
	forget        bool // FORGET has been scanned; next word names the victim
	tick          bool // `'` scanned at end of line; capture on next token
	compileTick   bool // `[']` scanned at end of line
	bracketComp   bool // [COMPILE] scanned; force-compile the next word
	stringLiteral bool // `."`/`.(` scanned; the next string token prints
	abortLiteral  bool // `ABORT"` scanned; the next string token prints then aborts
	comment       bool // inside an unterminated `(` comment
	asyncBreak    bool // Break() was called; poll at the next dispatch step
}

// cachedWords holds the compile addresses of internal helper words, looked
// up once at Init and then used directly by the compiler and VM instead of
// re-resolving them by name on every use.
type cachedWords struct {
	exit, lit, flit, strlit  uint
	dotParen                 uint // runtime helper: print the counted string a prior (STRLIT) pushed
	branch, qbranch          uint
	xdo, xqdo, xloop, xploop uint
	abortQuote               uint // runtime helper: raise APPLICATION after ABORT" prints its message
	does                     uint // runtime helper DOES> compiles: install the hidden action cell
}

// Interp is one ATLAST interpreter instance. It owns six regions (scanner
// cursor, dictionary, heap, data stack, return stack, walkback stack) and
// a small state record. Multiple Interp values may coexist; none of their
// state is shared, so a host may run independent instances concurrently as
// long as it never calls into the same instance from two goroutines at
// once.
type Interp struct {
	logging
	fileinput.Input
	out     flushio.WriteFlusher
	closers []io.Closer

	heap  heap
	names nameTable
	last  uint // most recently defined dictionary entry, 0 = none

	stack  []int
	rstack []int
	walk   []uint

	stackCap  int
	rstackCap int

	prog   uint // instruction pointer
	cur    uint // currently executing word's header address
	status Status
	base   int // number base for literal parsing (10, 16, 8, ...)

	line string // current input line being scanned by Eval
	pos  int    // scanner cursor into line

	pending pending
	cached  cachedWords

	initialized   bool
	protectedMark uint // dictionary head at end of Init; forget boundary
	protectedHeap uint // heap bump pointer at end of Init

	tempCompile bool // an interpret-mode control construct is being staged
	tempDepth   int  // open-construct nesting within the staged body
	tempHeader  uint // the staged body's hidden dictionary entry
	tempHere    uint // heap extent when staging began, for reclaim

	tempBufs   []uint // heap addresses of the rotating temp-string pool
	tempIdx    int
	tempStrLen int

	cfg config

	primitives    []Prim // registered via PrimDef, in registration order
	deferredPrims []Prim // host tables registered before Init, flushed by it

	dotHook func(in *Interp, n int) // host-registered number formatter for .  and .S
}

// config carries the region sizes a host or a prologue line may set before
// the first Eval.
type config struct {
	stackCells   int
	rstackCells  int
	heapCells    uint
	tempStrLen   int
	tempStrCount int
}

func defaultConfig() config {
	return config{
		stackCells:   defaultStackCells,
		rstackCells:  defaultRStackCells,
		heapCells:    defaultHeapCells,
		tempStrLen:   defaultTempStrLen,
		tempStrCount: defaultTempStrN,
	}
}
