package atlast

import "math"

// compiling reports whether the state word (heap cell 0) currently reads
// compile mode.
func (in *Interp) compiling() bool { return in.heap.load(stateCell) != 0 }

func (in *Interp) setCompiling(on bool) {
	v := 0
	if on {
		v = 1
	}
	in.heap.stor(stateCell, v)
}

// nextWordToken scans one token from the remainder of the current line and
// reports it only if it was a plain word; this is the building block behind
// every "capture the next token, or defer across a line boundary" word:
// colon, tick, FORGET, [COMPILE] and the compile-time tick.
func (in *Interp) nextWordToken() (string, bool) {
	tok := in.scanNext()
	if tok.kind == tokWord {
		return tok.word, true
	}
	return "", false
}

// compileWordRef appends a reference to header, the compile-mode action
// for an ordinary (non-immediate) word.
func (in *Interp) compileWordRef(header uint) { in.hcompile(int(header)) }

// compileBranch appends a reference to the branch primitive named by
// cachedAddr followed by a zeroed offset placeholder, returning the
// placeholder's address for later patching.
func (in *Interp) compileBranch(cachedAddr uint) uint {
	in.hcompile(int(cachedAddr))
	return in.hcompile(0)
}

// patchBranch writes the IP-relative offset from the placeholder cell at
// `at` to `target`. BRANCH/?BRANCH add *ip to ip while ip still points at
// the offset cell itself, so the offset is target-at, not target-(at+1).
func (in *Interp) patchBranch(at, target uint) {
	in.heap.stor(at, int(target)-int(at))
}

// compileBranchBack appends a branch primitive plus an offset already
// resolved to target, used for the backward jumps UNTIL/AGAIN/LOOP/+LOOP
// compile.
func (in *Interp) compileBranchBack(cachedAddr, target uint) {
	at := in.compileBranch(cachedAddr)
	in.heap.stor(at, int(target)-int(at))
}

func (in *Interp) beginDefinition(name string) {
	in.compileHeader(name)
	in.setCompiling(true)
}

// processToken is the interpret/compile state machine, rendered as a Go
// switch. The four cross-line pending captures (forget, tick,
// definition-name, bracket-compile) take priority over the ordinary
// interpret/compile dispatch regardless of which mode is active, since each
// one means "the previous line ended mid-capture."
func (in *Interp) processToken(tok token) {
	switch {
	case tok.kind == tokNull:
		return

	case in.pending.forget:
		in.pending.forget = false
		if tok.kind != tokWord {
			in.trouble(UNDEFINED)
		}
		if status := in.forget(tok.word); status != NORMAL {
			in.trouble(status)
		}
		return

	case in.pending.tick || in.pending.compileTick:
		compileForm := in.pending.compileTick
		in.pending.tick = false
		in.pending.compileTick = false
		if tok.kind != tokWord {
			in.trouble(UNDEFINED)
		}
		header := in.lookup(tok.word)
		if header == 0 {
			in.trouble(UNDEFINED)
		}
		if compileForm {
			in.hcompile(int(in.cached.lit))
			in.hcompile(int(header))
		} else {
			in.dpush(int(header))
		}
		return

	case in.pending.definition:
		in.pending.definition = false
		if tok.kind != tokWord {
			in.trouble(UNDEFINED)
		}
		in.beginDefinition(tok.word)
		return

	case in.pending.bracketComp:
		in.pending.bracketComp = false
		if tok.kind != tokWord {
			in.trouble(UNDEFINED)
		}
		header := in.lookup(tok.word)
		if header == 0 {
			in.trouble(UNDEFINED)
		}
		in.compileWordRef(header)
		return
	}

	switch tok.kind {
	case tokWord:
		in.dispatchWordToken(tok.word)
	case tokInt:
		if in.compiling() {
			in.hcompile(int(in.cached.lit))
			in.hcompile(tok.ival)
		} else {
			in.dpush(tok.ival)
		}
	case tokReal:
		if in.compiling() {
			in.hcompile(int(in.cached.flit))
			in.hcompile(int(math.Float64bits(tok.rval)))
		} else {
			in.dpushReal(tok.rval)
		}
	case tokString:
		in.processStringToken(tok.sval)
	}
}

func (in *Interp) dispatchWordToken(word string) {
	header, sentinel := in.find(word)
	if header == 0 {
		in.trouble(UNDEFINED)
	}
	if !in.compiling() || sentinel == -1 {
		in.exword(header)
		return
	}
	in.compileWordRef(header)
}

// pushTempString copies s into the next temporary buffer in the rotating
// pool and returns its heap address, giving interpret-mode string literals
// a stable counted-string home the way a compiled (STRLIT) gives one to
// compiled literals. The address stays valid for pool-size minus one
// further literals.
func (in *Interp) pushTempString(s string) uint {
	if len(s) > in.tempStrLen {
		in.trouble(RUNSTRING)
	}
	addr := in.tempBufAddr(in.tempIdx)
	in.tempIdx = (in.tempIdx + 1) % len(in.tempBufs)
	in.heap.stor(addr, len(s))
	for i := 0; i < len(s); i++ {
		in.heap.stor(addr+1+uint(i), int(s[i]))
	}
	return addr
}

// --- defining words ---

func primColon(in *Interp) {
	if name, ok := in.nextWordToken(); ok {
		in.beginDefinition(name)
	} else {
		in.pending.definition = true
	}
}

func primSemicolon(in *Interp) {
	if !in.compiling() || in.last == 0 {
		in.trouble(NOTINDEF)
	}
	in.hcompile(int(in.cached.exit))
	in.setTag(in.last, tagNest)
	in.setCompiling(false)
}

func primCreate(in *Interp) {
	name, ok := in.nextWordToken()
	if !ok {
		in.trouble(UNDEFINED)
	}
	in.compileHeader(name)
}

// primDoesCompile is DOES>'s compile-time action: append a reference to the
// cached runtime helper that installs the hidden action cell on the most
// recently created word.
func primDoesCompile(in *Interp) {
	if !in.compiling() {
		in.trouble(NOTINDEF)
	}
	in.compileWordRef(in.cached.does)
}

// primDoesInstall is the runtime helper DOES> compiles. ip already points
// past this cell, at the first cell of the runtime action the defining word
// wants installed, so that address is exactly what tagDoes dispatch should
// jump to later. Installing it is followed by an early exit from the
// defining word's own invocation, mirroring EXIT.
func primDoesInstall(in *Interp) {
	if in.last == 0 {
		in.trouble(NOTINDEF)
	}
	in.heap.stor(entryHidden(in.last), int(in.prog))
	in.setTag(in.last, tagDoes)
	in.prog = uint(in.rpop())
	in.wpop()
}

// --- tick / FIND / bracket-compile ---

func primTick(in *Interp) {
	if name, ok := in.nextWordToken(); ok {
		header := in.lookup(name)
		if header == 0 {
			in.trouble(UNDEFINED)
		}
		in.dpush(int(header))
	} else {
		in.pending.tick = true
	}
}

func primBracketTick(in *Interp) {
	in.requireCompiling()
	if name, ok := in.nextWordToken(); ok {
		header := in.lookup(name)
		if header == 0 {
			in.trouble(UNDEFINED)
		}
		in.hcompile(int(in.cached.lit))
		in.hcompile(int(header))
	} else {
		in.pending.compileTick = true
	}
}

func primBracketCompile(in *Interp) {
	in.requireCompiling()
	if name, ok := in.nextWordToken(); ok {
		header := in.lookup(name)
		if header == 0 {
			in.trouble(UNDEFINED)
		}
		in.compileWordRef(header)
	} else {
		in.pending.bracketComp = true
	}
}

func primFind(in *Interp) {
	addr := uint(in.dpop())
	name := in.heapString(addr)
	header, sentinel := in.find(name)
	in.dpush(int(header))
	in.dpush(sentinel)
}

func primLBracket(in *Interp) { in.setCompiling(false) }
func primRBracket(in *Interp) { in.setCompiling(true) }

func primForgetWord(in *Interp) {
	if name, ok := in.nextWordToken(); ok {
		if status := in.forget(name); status != NORMAL {
			in.trouble(status)
		}
	} else {
		in.pending.forget = true
	}
}

func primRecurse(in *Interp) {
	if in.last == 0 {
		in.trouble(NOTINDEF)
	}
	in.compileWordRef(in.last)
}

// --- structured control flow (all IMMEDIATE) ---
//
// Inside a definition these compile branch placeholders into the open
// body. At top level, the opening word stages an anonymous hidden
// definition instead; the matching closer runs it and reclaims it, which
// is what lets `10 0 DO I LOOP` work interactively.

func (in *Interp) requireCompiling() {
	if !in.compiling() {
		in.trouble(NOTINDEF)
	}
}

// controlOpen enters an open control construct, staging a transient body
// first when interpreting.
func (in *Interp) controlOpen() {
	if !in.compiling() {
		header := in.compileHeader("(CONTROL)")
		in.setFlags(header, flagHidden)
		in.tempCompile = true
		in.tempDepth = 0
		in.tempHeader = header
		in.tempHere = entryHidden(header)
		in.setCompiling(true)
	}
	if in.tempCompile {
		in.tempDepth++
	}
}

// controlClose leaves a control construct; closing the outermost one of a
// staged body finishes, executes and reclaims it. The reclaim is skipped
// if execution itself defined words or grew the heap, in which case the
// spent body stays behind as a hidden entry.
func (in *Interp) controlClose() {
	if !in.tempCompile {
		return
	}
	if in.tempDepth--; in.tempDepth > 0 {
		return
	}

	in.hcompile(int(in.cached.exit))
	header := in.tempHeader
	in.setTag(header, tagNest)
	in.setCompiling(false)
	in.tempCompile = false

	ranFrom := in.heap.here()
	in.exword(header)

	if in.last == header && in.heap.here() == ranFrom {
		in.last = uint(in.heap.load(header + hLink))
		in.heap.top = in.tempHere
	}
}

func primIf(in *Interp) {
	in.controlOpen()
	in.dpush(int(in.compileBranch(in.cached.qbranch)))
}

func primElse(in *Interp) {
	in.requireCompiling()
	orig := uint(in.dpop())
	at := in.compileBranch(in.cached.branch)
	in.patchBranch(orig, in.heap.here())
	in.dpush(int(at))
}

func primThen(in *Interp) {
	in.requireCompiling()
	at := uint(in.dpop())
	in.patchBranch(at, in.heap.here())
	in.controlClose()
}

func primBegin(in *Interp) {
	in.controlOpen()
	in.dpush(int(in.heap.here()))
}

func primUntil(in *Interp) {
	in.requireCompiling()
	start := uint(in.dpop())
	in.compileBranchBack(in.cached.qbranch, start)
	in.controlClose()
}

func primAgain(in *Interp) {
	in.requireCompiling()
	start := uint(in.dpop())
	in.compileBranchBack(in.cached.branch, start)
	in.controlClose()
}

func primWhile(in *Interp) {
	in.requireCompiling()
	in.dpush(int(in.compileBranch(in.cached.qbranch)))
}

func primRepeat(in *Interp) {
	in.requireCompiling()
	orig := uint(in.dpop())
	start := uint(in.dpop())
	in.compileBranchBack(in.cached.branch, start)
	in.patchBranch(orig, in.heap.here())
	in.controlClose()
}

func primDo(in *Interp) {
	in.controlOpen()
	in.hcompile(int(in.cached.xdo))
	exitAt := in.hcompile(0)
	in.dpush(int(exitAt))
	in.dpush(int(in.heap.here()))
}

func primQDo(in *Interp) {
	in.controlOpen()
	in.hcompile(int(in.cached.xqdo))
	exitAt := in.hcompile(0)
	in.dpush(int(exitAt))
	in.dpush(int(in.heap.here()))
}

func primLoop(in *Interp) {
	in.requireCompiling()
	start := uint(in.dpop())
	exitAt := uint(in.dpop())
	in.hcompile(int(in.cached.xloop))
	offAt := in.hcompile(0)
	in.heap.stor(offAt, int(start)-int(offAt))
	in.heap.stor(exitAt, int(in.heap.here()))
	in.controlClose()
}

func primPlusLoop(in *Interp) {
	in.requireCompiling()
	start := uint(in.dpop())
	exitAt := uint(in.dpop())
	in.hcompile(int(in.cached.xploop))
	offAt := in.hcompile(0)
	in.heap.stor(offAt, int(start)-int(offAt))
	in.heap.stor(exitAt, int(in.heap.here()))
	in.controlClose()
}

// --- ." / .( / ABORT" : each anticipates the next `"..."` token. The
// token itself is the ordinary string literal the scanner already
// produces; the pending flag only changes what the state machine does with
// it when it arrives, which may be on a later line.

// processStringToken is the String column of the state machine. With a
// print or abort anticipated, the compiled form is the literal followed by
// its finisher words so the printer finds the address a (STRLIT) pushed.
func (in *Interp) processStringToken(s string) {
	printing := in.pending.stringLiteral
	aborting := in.pending.abortLiteral
	in.pending.stringLiteral = false
	in.pending.abortLiteral = false

	if !in.compiling() {
		if printing {
			in.writeString(s)
		} else {
			in.dpush(int(in.pushTempString(s)))
		}
		return
	}

	in.hcompile(int(in.cached.strlit))
	in.compileString(s)
	if printing || aborting {
		in.hcompile(int(in.cached.dotParen))
	}
	if aborting {
		in.hcompile(int(in.cached.abortQuote))
	}
}

// primDotQuote is ." : compile-only, announcing that the next string
// literal is to be printed rather than pushed.
func primDotQuote(in *Interp) {
	in.requireCompiling()
	in.pending.stringLiteral = true
}

// primDotParen is .( : the interpret-mode counterpart of ." , usable in
// either mode.
func primDotParen(in *Interp) {
	in.pending.stringLiteral = true
}

// primAbortQuote is ABORT" : compile-only; at runtime the next string
// literal prints and the evaluation aborts.
func primAbortQuote(in *Interp) {
	in.requireCompiling()
	in.pending.abortLiteral = true
}

// primPrintCounted is the runtime printer ." and .( compile after their
// literal: pop the address a (STRLIT) pushed and print the counted string
// stored there.
func primPrintCounted(in *Interp) {
	addr := uint(in.dpop())
	in.writeString(in.heapString(addr))
}

// primRaiseApplication is the runtime finisher ABORT" compiles last.
func primRaiseApplication(in *Interp) { in.trouble(APPLICATION) }
