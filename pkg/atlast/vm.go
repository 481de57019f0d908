package atlast

import (
	"math"
	"strconv"
)

// realCells is the number of heap cells a floating value occupies on the
// stack and in the instruction stream: ceil(sizeof(real)/sizeof(cell)). On
// the 64-bit cell, 64-bit float64 platform this package targets, that is
// exactly 1, so no byte-wise copy into an aligned scratch buffer is
// needed; a 32-bit cell platform would need realCells = 2 and a
// memcpy-style pack/unpack, which is not implemented here.
const realCells = 1

// exword runs w as if typed at top level: it dispatches w directly, then,
// while the instruction pointer is non-empty (nonzero), keeps loading and
// dispatching the word at the instruction pointer. The async-break flag is
// polled between iterations, never mid-primitive.
func (in *Interp) exword(w uint) {
	in.cur = w
	in.dispatch(w)
	for in.prog != 0 {
		if in.pending.asyncBreak {
			in.pending.asyncBreak = false
			in.trouble(BREAK)
		}
		code := uint(in.heap.load(in.prog))
		in.prog++
		in.cur = code
		in.dispatch(code)
	}
}

// dispatch invokes the handler named by a word's code tag: a native
// primitive, or one of the synthesized handlers for compiled, variable,
// constant, array and DOES>-defined words.
func (in *Interp) dispatch(w uint) {
	if !in.heap.valid(w) {
		in.trouble(BADPOINTER)
	}
	in.trace("@"+strconv.FormatUint(uint64(in.prog), 10), "%s d=%d r=%d",
		in.entryName(w), len(in.stack), len(in.rstack))
	switch in.entryTag(w) {
	case tagPrimitive:
		id := in.entryData(w)
		if id < 0 || id >= len(in.primitives) {
			in.trouble(BADPOINTER)
		}
		in.primitives[id].Fn(in)
	case tagNest:
		in.nest(w)
	case tagVar:
		in.dpush(int(entryBody(w)))
	case tagArraySub:
		in.arraySub(w)
	case tagDoes:
		in.does(w)
	case tagCon:
		in.dpush(in.entryData(w))
	case tag2Con:
		body := entryBody(w)
		in.dpush(in.heap.load(body))
		in.dpush(in.heap.load(body + 1))
	default:
		in.trouble(BADPOINTER)
	}
}

// nest is the call instruction: push the caller's ip on the return stack,
// push the callee on the walkback stack, and enter the callee's body.
func (in *Interp) nest(w uint) {
	in.rpush(int(in.prog))
	in.wpush(w)
	in.prog = entryBody(w)
}

// primExit is EXIT: pop the return stack into ip and pop the walkback
// stack.
func primExit(in *Interp) {
	in.prog = uint(in.rpop())
	in.wpop()
}

// primLit is (LIT): push the next cell in the instruction stream as an
// integer.
func primLit(in *Interp) {
	in.dpush(in.heap.load(in.prog))
	in.prog++
}

// primFlit is (FLIT): push the next realCells cells as a floating value.
func primFlit(in *Interp) {
	bits := uint64(uint(in.heap.load(in.prog)))
	in.prog += realCells
	in.dpushReal(math.Float64frombits(bits))
}

// primStrlit is (STRLIT): push the address of an in-stream string and
// advance ip past it. The string is encoded as a length cell followed by
// one cell per byte; with a cell-oriented heap there is no separate
// byte-addressable region to point into.
func primStrlit(in *Interp) {
	addr := in.prog
	n := in.heap.load(addr)
	in.prog = addr + 1 + uint(n)
	in.dpush(int(addr))
}

func (in *Interp) heapString(addr uint) string {
	n := in.heap.load(addr)
	b := make([]byte, n)
	for i := 0; i < n; i++ {
		b[i] = byte(in.heap.load(addr + 1 + uint(i)))
	}
	return string(b)
}

func (in *Interp) compileString(s string) {
	if len(s) > maxTokenLen {
		in.trouble(RUNSTRING)
	}
	in.hcompile(len(s))
	for i := 0; i < len(s); i++ {
		in.hcompile(int(s[i]))
	}
}

// primBranch is BRANCH: add the signed ip-relative offset at *ip to ip, so
// that compiled jumps remain position-independent.
func primBranch(in *Interp) {
	off := in.heap.load(in.prog)
	in.prog = uint(int(in.prog) + off)
}

// primQBranch is ?BRANCH: pop the top of stack; branch if it was zero,
// otherwise skip the offset cell.
func primQBranch(in *Interp) {
	off := in.heap.load(in.prog)
	if in.dpop() == 0 {
		in.prog = uint(int(in.prog) + off)
	} else {
		in.prog++
	}
}

// DO-loop return-stack layout: three cells, top to bottom: index, limit,
// leave-exit address.
const (
	loopIndex = 0
	loopLimit = 1
	loopExit  = 2
)

// primXDo is (XDO): push (exit-address, limit, index). DO takes ( limit
// index -- ), index on top.
func primXDo(in *Interp) {
	exitAddr := in.heap.load(in.prog)
	in.prog++
	index := in.dpop()
	limit := in.dpop()
	in.rpush(exitAddr)
	in.rpush(limit)
	in.rpush(index)
}

// primXQDo is (X?DO): as (XDO), but skips the body entirely when limit
// equals index.
func primXQDo(in *Interp) {
	exitAddr := in.heap.load(in.prog)
	in.prog++
	index := in.dpop()
	limit := in.dpop()
	if limit == index {
		in.prog = uint(exitAddr)
		return
	}
	in.rpush(exitAddr)
	in.rpush(limit)
	in.rpush(index)
}

// primXLoop is (XLOOP): increment the innermost counter; fall through
// (popping the loop triple and skipping the trailing offset) once it
// equals the limit, otherwise branch back by the offset cell following it.
func primXLoop(in *Interp) {
	off := in.heap.load(in.prog)
	index := in.rpeek(loopIndex) + 1
	limit := in.rpeek(loopLimit)
	if index == limit {
		in.rpop()
		in.rpop()
		in.rpop()
		in.prog++
		return
	}
	in.rpokeTop(loopIndex, index)
	in.prog = uint(int(in.prog) + off)
}

// primXPLoop is (+XLOOP): as (XLOOP), but the increment is the popped
// stack top, and termination is crossing the limit rather than equaling it
// exactly: from below for a non-negative step, from above for a negative
// one.
func primXPLoop(in *Interp) {
	off := in.heap.load(in.prog)
	step := in.dpop()
	before := in.rpeek(loopIndex)
	limit := in.rpeek(loopLimit)
	after := before + step
	crossed := (step >= 0 && before < limit && after >= limit) ||
		(step < 0 && before >= limit && after < limit)
	if crossed {
		in.rpop()
		in.rpop()
		in.rpop()
		in.prog++
		return
	}
	in.rpokeTop(loopIndex, after)
	in.prog = uint(int(in.prog) + off)
}

// primLeave is LEAVE: redirect ip to the stored exit address and pop the
// loop triple immediately.
func primLeave(in *Interp) {
	exitAddr := in.rpeek(loopExit)
	in.rpop()
	in.rpop()
	in.rpop()
	in.prog = uint(exitAddr)
}

// primI pushes the innermost loop counter.
func primI(in *Interp) { in.dpush(in.rpeek(loopIndex)) }

// primJ pushes the second-innermost loop counter: the counter four cells
// below the top of the return stack (the inner loop's triple occupies
// three, so the outer loop's index is the fourth).
func primJ(in *Interp) { in.dpush(in.rpeek(loopIndex + 3)) }

// arraySub implements the ARRAY word's runtime dispatch: pop N subscripts,
// range-check each against its stored dimension, and push the row-major
// heap cell address of the selected element (esize cells per element).
func (in *Interp) arraySub(w uint) {
	body := entryBody(w)
	subs := in.heap.load(body)
	esize := in.heap.load(body + 1)
	dimsAt := body + 2
	dataAt := dimsAt + uint(subs)

	idx := make([]int, subs)
	for i := subs - 1; i >= 0; i-- {
		idx[i] = in.dpop()
	}

	offset := 0
	for i := 0; i < subs; i++ {
		dim := in.heap.load(dimsAt + uint(i))
		if idx[i] < 0 || idx[i] >= dim {
			in.trouble(BADPOINTER)
		}
		offset = offset*dim + idx[i]
	}
	in.dpush(int(dataAt) + offset*esize)
}

// does implements the dispatch for DOES>-defined words: read the hidden
// method-ip cell preceding the header, push the word's own body address,
// and jump execution into the runtime action.
func (in *Interp) does(w uint) {
	action := in.heap.load(entryHidden(w))
	in.rpush(int(in.prog))
	in.wpush(w)
	in.dpush(int(entryBody(w)))
	in.prog = uint(action)
}

func (in *Interp) dpushReal(f float64) {
	in.dpush(int(math.Float64bits(f)))
}

func (in *Interp) dpopReal() float64 {
	return math.Float64frombits(uint64(uint(in.dpop())))
}
