package atlast

import (
	"math"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// corePrimitives is the fixed primitive table PrimDef registers at Init,
// in registration order. The file word set, the math word set, SYSTEM and
// terminal number formatting are deliberately absent: they are leaf
// primitives over host facilities, and a host that wants them registers
// them itself (cmd/atlast does).
func corePrimitives() []Prim {
	return []Prim{
		// --- integer arithmetic ---
		{"+", primAdd, false},
		{"-", primSub, false},
		{"*", primMul, false},
		{"/", primDiv, false},
		{"MOD", primMod, false},
		{"/MOD", primDivMod, false},
		{"MIN", primMin, false},
		{"MAX", primMax, false},
		{"NEGATE", primNegate, false},
		{"ABS", primAbs, false},
		{"=", primEq, false},
		{"<>", primNe, false},
		{">", primGt, false},
		{"<", primLt, false},
		{">=", primGe, false},
		{"<=", primLe, false},
		{"AND", primAnd, false},
		{"OR", primOr, false},
		{"XOR", primXor, false},
		{"NOT", primNot, false},
		{"SHIFT", primShift, false},

		// --- stack ---
		{"DEPTH", primDepth, false},
		{"CLEAR", primClear, false},
		{"DUP", primDup, false},
		{"DROP", primDrop, false},
		{"SWAP", primSwap, false},
		{"OVER", primOver, false},
		{"PICK", primPick, false},
		{"ROT", primRot, false},
		{"-ROT", primMinusRot, false},
		{"ROLL", primRoll, false},
		{">R", primToR, false},
		{"R>", primRFrom, false},
		{"R@", primRFetch, false},

		{"1+", primOnePlus, false},
		{"2+", primTwoPlus, false},
		{"1-", primOneMinus, false},
		{"2-", primTwoMinus, false},
		{"2*", primTwoTimes, false},
		{"2/", primTwoDiv, false},

		{"0=", primZeroEq, false},
		{"0<>", primZeroNe, false},
		{"0>", primZeroGt, false},
		{"0<", primZeroLt, false},

		{"2DUP", primTwoDup, false},
		{"2DROP", primTwoDrop, false},
		{"2SWAP", primTwoSwap, false},
		{"2OVER", primTwoOver, false},
		{"2ROT", primTwoRot, false},
		{"2VARIABLE", primTwoVariable, false},
		{"2CONSTANT", primTwoConstant, false},
		{"2!", primTwoBang, false},
		{"2@", primTwoAt, false},

		{"?DUP", primQDup, false},

		// --- memory ---
		{"VARIABLE", primVariable, false},
		{"CONSTANT", primConstant, false},
		{"!", primBang, false},
		{"@", primAt, false},
		{"+!", primPlusBang, false},
		{"ALLOT", primAllot, false},
		{",", primComma, false},
		{"C!", primCBang, false},
		{"C@", primCAt, false},
		{"C,", primCComma, false},
		{"C=", primCEqual, false},
		{"HERE", primHere, false},
		{"CELLS", primCells, false},

		{"ARRAY", primArray, false},

		// --- strings ---
		{"(STRLIT)", primStrlit, false},
		{"STRING", primString, false},
		{"STRCPY", primStrcpy, false},
		{"S!", primStrcpy, false},
		{"STRCAT", primStrcat, false},
		{"S+", primStrcat, false},
		{"STRLEN", primStrlen, false},
		{"STRCMP", primStrcmp, false},
		{"COMPARE", primStrcmp, false},
		{"STRCHAR", primStrchar, false},
		{"SUBSTR", primSubstr, false},
		{"STRFORM", primStrform, false},
		{"FSTRFORM", primFstrform, false},
		{"STRINT", primStrint, false},
		{"STRREAL", primStrreal, false},

		// --- floating point ---
		{"(FLIT)", primFlit, false},
		{"F+", primFAdd, false},
		{"F-", primFSub, false},
		{"F*", primFMul, false},
		{"F/", primFDiv, false},
		{"FMIN", primFMin, false},
		{"FMAX", primFMax, false},
		{"FNEGATE", primFNegate, false},
		{"FABS", primFAbs, false},
		{"F=", primFEq, false},
		{"F<>", primFNe, false},
		{"F>", primFGt, false},
		{"F<", primFLt, false},
		{"F>=", primFGe, false},
		{"F<=", primFLe, false},
		{"F.", primFDot, false},
		{"FLOAT", primFloat, false},
		{"FIX", primFix, false},

		// --- threaded VM internals (control-flow, call/return, literals) ---
		{"EXIT", primExit, false},
		{"(LIT)", primLit, false},
		{"BRANCH", primBranch, false},
		{"?BRANCH", primQBranch, false},

		{"IF", primIf, true},
		{"ELSE", primElse, true},
		{"THEN", primThen, true},
		{"BEGIN", primBegin, true},
		{"UNTIL", primUntil, true},
		{"AGAIN", primAgain, true},
		{"WHILE", primWhile, true},
		{"REPEAT", primRepeat, true},
		{"DO", primDo, true},
		{"?DO", primQDo, true},
		{"LOOP", primLoop, true},
		{"+LOOP", primPlusLoop, true},
		{"(XDO)", primXDo, false},
		{"(X?DO)", primXQDo, false},
		{"(XLOOP)", primXLoop, false},
		{"(+XLOOP)", primXPLoop, false},
		{"LEAVE", primLeave, false},
		{"I", primI, false},
		{"J", primJ, false},
		{"RECURSE", primRecurse, true},

		{"QUIT", primQuit, false},
		{"ABORT", primAbort, false},
		{"ABORT\"", primAbortQuote, true},
		{"(RAISE-APPLICATION)", primRaiseApplication, false},

		{"TRACE", primTrace, false},
		{"WALKBACK", primWalkback, false},
		{"WORDSUSED", primWordsUsed, false},
		{"WORDSUNUSED", primWordsUnused, false},

		// --- defining words / compiler ---
		{":", primColon, false},
		{";", primSemicolon, true},
		{"IMMEDIATE", primImmediate, false},
		{"[", primLBracket, true},
		{"]", primRBracket, false},
		{"CREATE", primCreate, false},
		{"FORGET", primForgetWord, false},
		{"DOES>", primDoesCompile, true},
		{"(DOES-INSTALL)", primDoesInstall, false},
		{"'", primTick, false},
		{"[']", primBracketTick, true},
		{"EXECUTE", primExecute, false},
		{">BODY", primToBody, false},
		{"STATE", primState, false},

		{"FIND", primFind, false},

		{"[COMPILE]", primBracketCompile, true},
		{"LITERAL", primLiteral, true},
		{"COMPILE", primCompile, false},
		{"<MARK", primBackMark, false},
		{"<RESOLVE", primBackResolve, false},
		{">MARK", primFwdMark, false},
		{">RESOLVE", primFwdResolve, false},

		// --- number base ---
		{"HEX", primHex, false},
		{"OCTAL", primOctal, false},
		{"DECIMAL", primDecimal, false},

		// --- output ---
		{".", primDot, false},
		{"?", primQuestion, false},
		{"CR", primCr, false},
		{".S", primDotS, false},
		{".\"", primDotQuote, true},
		{".(", primDotParen, true},
		{"(PRINT-STR)", primPrintCounted, false},
		{"TYPE", primType, false},
		{"WORDS", primWords, false},

		{"EVALUATE", primEvaluate, false},
	}
}

// --- integer arithmetic ---

func primAdd(in *Interp) { b, a := in.dpop(), in.dpop(); in.dpush(a + b) }
func primSub(in *Interp) { b, a := in.dpop(), in.dpop(); in.dpush(a - b) }
func primMul(in *Interp) { b, a := in.dpop(), in.dpop(); in.dpush(a * b) }

func primDiv(in *Interp) {
	b, a := in.dpop(), in.dpop()
	if b == 0 {
		in.trouble(DIVZERO)
	}
	in.dpush(floorDiv(a, b))
}

func primMod(in *Interp) {
	b, a := in.dpop(), in.dpop()
	if b == 0 {
		in.trouble(DIVZERO)
	}
	in.dpush(floorMod(a, b))
}

func primDivMod(in *Interp) {
	b, a := in.dpop(), in.dpop()
	if b == 0 {
		in.trouble(DIVZERO)
	}
	in.dpush(floorMod(a, b))
	in.dpush(floorDiv(a, b))
}

// floorDiv and floorMod give Forth's conventional floored (not truncated)
// division, matching the testable DIVZERO boundary regardless of operand
// signs.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	m := a % b
	if m != 0 && ((a < 0) != (b < 0)) {
		m += b
	}
	return m
}

func primMin(in *Interp) {
	b, a := in.dpop(), in.dpop()
	if a < b {
		in.dpush(a)
	} else {
		in.dpush(b)
	}
}

func primMax(in *Interp) {
	b, a := in.dpop(), in.dpop()
	if a > b {
		in.dpush(a)
	} else {
		in.dpush(b)
	}
}

func primNegate(in *Interp) { in.dpush(-in.dpop()) }
func primAbs(in *Interp) {
	v := in.dpop()
	if v < 0 {
		v = -v
	}
	in.dpush(v)
}

func boolCell(b bool) int {
	if b {
		return -1
	}
	return 0
}

func primEq(in *Interp)  { b, a := in.dpop(), in.dpop(); in.dpush(boolCell(a == b)) }
func primNe(in *Interp)  { b, a := in.dpop(), in.dpop(); in.dpush(boolCell(a != b)) }
func primGt(in *Interp)  { b, a := in.dpop(), in.dpop(); in.dpush(boolCell(a > b)) }
func primLt(in *Interp)  { b, a := in.dpop(), in.dpop(); in.dpush(boolCell(a < b)) }
func primGe(in *Interp)  { b, a := in.dpop(), in.dpop(); in.dpush(boolCell(a >= b)) }
func primLe(in *Interp)  { b, a := in.dpop(), in.dpop(); in.dpush(boolCell(a <= b)) }
func primAnd(in *Interp) { b, a := in.dpop(), in.dpop(); in.dpush(a & b) }
func primOr(in *Interp)  { b, a := in.dpop(), in.dpop(); in.dpush(a | b) }
func primXor(in *Interp) { b, a := in.dpop(), in.dpop(); in.dpush(a ^ b) }
func primNot(in *Interp) { in.dpush(^in.dpop()) }

// primShift implements SHIFT ( n count -- n' ): a positive count shifts
// left, negative shifts right, mirroring the original's single bidirectional
// shift primitive.
func primShift(in *Interp) {
	count, v := in.dpop(), in.dpop()
	switch {
	case count >= 0:
		in.dpush(v << uint(count))
	default:
		in.dpush(v >> uint(-count))
	}
}

// --- stack ---

func primDepth(in *Interp) { in.dpush(len(in.stack)) }
func primClear(in *Interp) { in.stack = in.stack[:0] }
func primDup(in *Interp)   { in.dpush(in.dpick(0)) }
func primDrop(in *Interp)  { in.dpop() }
func primSwap(in *Interp) {
	b, a := in.dpop(), in.dpop()
	in.dpush(b)
	in.dpush(a)
}
func primOver(in *Interp) { in.dpush(in.dpick(1)) }

func primPick(in *Interp) { in.dpush(in.dpick(in.dpop())) }

func primRot(in *Interp) {
	c, b, a := in.dpop(), in.dpop(), in.dpop()
	in.dpush(b)
	in.dpush(c)
	in.dpush(a)
}

func primMinusRot(in *Interp) {
	c, b, a := in.dpop(), in.dpop(), in.dpop()
	in.dpush(c)
	in.dpush(a)
	in.dpush(b)
}

// primRoll ( xn ... x0 n -- xn-1 ... x0 xn ): pops n then rotates the top
// n+1 cells so the n-th-from-top cell comes to the top.
func primRoll(in *Interp) {
	n := in.dpop()
	if n <= 0 {
		return
	}
	v := in.dpick(n)
	j := len(in.stack) - 1 - n
	copy(in.stack[j:], in.stack[j+1:])
	in.stack[len(in.stack)-1] = v
}

func primToR(in *Interp)    { in.rpush(in.dpop()) }
func primRFrom(in *Interp)  { in.dpush(in.rpop()) }
func primRFetch(in *Interp) { in.dpush(in.rpeek(0)) }

func primOnePlus(in *Interp)  { in.dpush(in.dpop() + 1) }
func primTwoPlus(in *Interp)  { in.dpush(in.dpop() + 2) }
func primOneMinus(in *Interp) { in.dpush(in.dpop() - 1) }
func primTwoMinus(in *Interp) { in.dpush(in.dpop() - 2) }
func primTwoTimes(in *Interp) { in.dpush(in.dpop() * 2) }
func primTwoDiv(in *Interp)   { in.dpush(in.dpop() >> 1) }

func primZeroEq(in *Interp) { in.dpush(boolCell(in.dpop() == 0)) }
func primZeroNe(in *Interp) { in.dpush(boolCell(in.dpop() != 0)) }
func primZeroGt(in *Interp) { in.dpush(boolCell(in.dpop() > 0)) }
func primZeroLt(in *Interp) { in.dpush(boolCell(in.dpop() < 0)) }

func primTwoDup(in *Interp) {
	b, a := in.dpick(0), in.dpick(1)
	in.dpush(a)
	in.dpush(b)
}

func primTwoDrop(in *Interp) { in.dpop(); in.dpop() }

func primTwoSwap(in *Interp) {
	d, c, b, a := in.dpop(), in.dpop(), in.dpop(), in.dpop()
	in.dpush(c)
	in.dpush(d)
	in.dpush(a)
	in.dpush(b)
}

func primTwoOver(in *Interp) {
	b, a := in.dpick(2), in.dpick(3)
	in.dpush(a)
	in.dpush(b)
}

func primTwoRot(in *Interp) {
	f, e, d, c, b, a := in.dpop(), in.dpop(), in.dpop(), in.dpop(), in.dpop(), in.dpop()
	in.dpush(c)
	in.dpush(d)
	in.dpush(e)
	in.dpush(f)
	in.dpush(a)
	in.dpush(b)
}

func primQDup(in *Interp) {
	v := in.dpick(0)
	if v != 0 {
		in.dpush(v)
	}
}

// --- defining-word memory layout ---

func primVariable(in *Interp) {
	name, ok := in.nextWordToken()
	if !ok {
		in.trouble(UNDEFINED)
	}
	header := in.compileHeader(name)
	in.halloc(1)
	in.setTag(header, tagVar)
}

func primConstant(in *Interp) {
	name, ok := in.nextWordToken()
	if !ok {
		in.trouble(UNDEFINED)
	}
	v := in.dpop()
	header := in.compileHeader(name)
	in.setTag(header, tagCon)
	in.setData(header, v)
}

func primTwoVariable(in *Interp) {
	name, ok := in.nextWordToken()
	if !ok {
		in.trouble(UNDEFINED)
	}
	header := in.compileHeader(name)
	in.halloc(2)
	in.setTag(header, tagVar)
}

func primTwoConstant(in *Interp) {
	name, ok := in.nextWordToken()
	if !ok {
		in.trouble(UNDEFINED)
	}
	hi, lo := in.dpop(), in.dpop()
	header := in.compileHeader(name)
	body := in.halloc(2)
	in.heap.stor(body, lo)
	in.heap.stor(body+1, hi)
	in.setTag(header, tag2Con)
}

func primBang(in *Interp) {
	addr := uint(in.dpop())
	if !in.heap.valid(addr) {
		in.trouble(BADPOINTER)
	}
	in.heap.stor(addr, in.dpop())
}

func primAt(in *Interp) {
	addr := uint(in.dpop())
	if !in.heap.valid(addr) {
		in.trouble(BADPOINTER)
	}
	in.dpush(in.heap.load(addr))
}

func primPlusBang(in *Interp) {
	addr := uint(in.dpop())
	if !in.heap.valid(addr) {
		in.trouble(BADPOINTER)
	}
	in.heap.stor(addr, in.heap.load(addr)+in.dpop())
}

// primTwoBang implements 2! ( lo hi addr -- ): stores the two-cell value
// (pushed low-cell-first, matching 2@'s push order) at addr, addr+1.
func primTwoBang(in *Interp) {
	addr := uint(in.dpop())
	if !in.heap.valid(addr + 1) {
		in.trouble(BADPOINTER)
	}
	hi, lo := in.dpop(), in.dpop()
	in.heap.stor(addr, lo)
	in.heap.stor(addr+1, hi)
}

// primTwoAt implements 2@ ( addr -- lo hi ).
func primTwoAt(in *Interp) {
	addr := uint(in.dpop())
	if !in.heap.valid(addr + 1) {
		in.trouble(BADPOINTER)
	}
	in.dpush(in.heap.load(addr))
	in.dpush(in.heap.load(addr + 1))
}

func primAllot(in *Interp) { in.halloc(uint(in.dpop())) }
func primComma(in *Interp) { in.hcompile(in.dpop()) }

func primCBang(in *Interp) {
	addr := uint(in.dpop())
	if !in.heap.valid(addr) {
		in.trouble(BADPOINTER)
	}
	in.heap.stor(addr, in.dpop()&0xff)
}

func primCAt(in *Interp) {
	addr := uint(in.dpop())
	if !in.heap.valid(addr) {
		in.trouble(BADPOINTER)
	}
	in.dpush(in.heap.load(addr) & 0xff)
}

func primCComma(in *Interp) { in.hcompile(in.dpop() & 0xff) }
func primCEqual(in *Interp) {
	b, a := in.dpop()&0xff, in.dpop()&0xff
	in.dpush(boolCell(a == b))
}

func primHere(in *Interp)  { in.dpush(int(in.heap.here())) }
func primCells(in *Interp) { /* cells are the native unit here: n CELLS == n */ }

// --- arrays ---

// primArray implements ARRAY ( dim0 ... dimN-1 subs esize -- ), with the
// defined word's name read as the next token exactly like CREATE.
func primArray(in *Interp) {
	esize := in.dpop()
	subs := in.dpop()
	if subs <= 0 || esize <= 0 {
		in.trouble(BADPOINTER)
	}
	dims := make([]int, subs)
	for i := subs - 1; i >= 0; i-- {
		dims[i] = in.dpop()
		if dims[i] <= 0 {
			in.trouble(BADPOINTER)
		}
	}
	name, ok := in.nextWordToken()
	if !ok {
		in.trouble(UNDEFINED)
	}
	header := in.compileHeader(name)
	in.hcompile(subs)
	in.hcompile(esize)
	total := 1
	for _, d := range dims {
		in.hcompile(d)
		total *= d
	}
	in.halloc(uint(total * esize))
	in.setTag(header, tagArraySub)
}

// --- strings: a heap string is a counted buffer [len, byte, byte, ...],
// the same layout (STRLIT) and the temp-string pool already use (vm.go).
// An explicit length plays better with a cell-array heap that has no
// byte-wide memchr/strlen.

func primString(in *Interp) {
	n := in.dpop()
	if n < 0 {
		in.trouble(BADPOINTER)
	}
	name, ok := in.nextWordToken()
	if !ok {
		in.trouble(UNDEFINED)
	}
	header := in.compileHeader(name)
	body := in.halloc(uint(1 + n))
	in.heap.stor(body, 0)
	in.setTag(header, tagVar)
}

func primStrcpy(in *Interp) {
	dst, src := uint(in.dpop()), uint(in.dpop())
	n := in.heap.load(src)
	in.heap.stor(dst, n)
	for i := 0; i < n; i++ {
		in.heap.stor(dst+1+uint(i), in.heap.load(src+1+uint(i)))
	}
}

func primStrcat(in *Interp) {
	dst, src := uint(in.dpop()), uint(in.dpop())
	dlen := in.heap.load(dst)
	slen := in.heap.load(src)
	for i := 0; i < slen; i++ {
		in.heap.stor(dst+1+uint(dlen+i), in.heap.load(src+1+uint(i)))
	}
	in.heap.stor(dst, dlen+slen)
}

func primStrlen(in *Interp) { in.dpush(in.heap.load(uint(in.dpop()))) }

func primStrcmp(in *Interp) {
	b, a := uint(in.dpop()), uint(in.dpop())
	in.dpush(boolTri(strings.Compare(in.heapString(a), in.heapString(b))))
}

func boolTri(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

func primStrchar(in *Interp) {
	idx, addr := in.dpop(), uint(in.dpop())
	n := in.heap.load(addr)
	if idx < 0 || idx >= n {
		in.trouble(BADPOINTER)
	}
	in.dpush(in.heap.load(addr + 1 + uint(idx)))
}

func primSubstr(in *Interp) {
	length, start, addr := in.dpop(), in.dpop(), uint(in.dpop())
	n := in.heap.load(addr)
	if start < 0 || length < 0 || start+length > n {
		in.trouble(BADPOINTER)
	}
	b := make([]byte, length)
	for i := 0; i < length; i++ {
		b[i] = byte(in.heap.load(addr + 1 + uint(start+i)))
	}
	in.dpush(int(in.pushTempString(string(b))))
}

func primStrform(in *Interp) {
	width, n := in.dpop(), in.dpop()
	s := strconv.Itoa(n)
	if len(s) < width {
		s = strings.Repeat(" ", width-len(s)) + s
	}
	in.dpush(int(in.pushTempString(s)))
}

func primFstrform(in *Interp) {
	decimals, width := in.dpop(), in.dpop()
	f := in.dpopReal()
	s := strconv.FormatFloat(f, 'f', decimals, 64)
	if len(s) < width {
		s = strings.Repeat(" ", width-len(s)) + s
	}
	in.dpush(int(in.pushTempString(s)))
}

func primStrint(in *Interp) {
	addr := uint(in.dpop())
	n, ok := in.parseInt(strings.TrimSpace(in.heapString(addr)))
	if !ok {
		n = 0
	}
	in.dpush(n)
}

func primStrreal(in *Interp) {
	addr := uint(in.dpop())
	f, ok := parseReal(strings.TrimSpace(in.heapString(addr)))
	if !ok {
		f = 0
	}
	in.dpushReal(f)
}

// --- floating point ---

func primFAdd(in *Interp) { b, a := in.dpopReal(), in.dpopReal(); in.dpushReal(a + b) }
func primFSub(in *Interp) { b, a := in.dpopReal(), in.dpopReal(); in.dpushReal(a - b) }
func primFMul(in *Interp) { b, a := in.dpopReal(), in.dpopReal(); in.dpushReal(a * b) }

func primFDiv(in *Interp) {
	b, a := in.dpopReal(), in.dpopReal()
	if b == 0 {
		in.trouble(DIVZERO)
	}
	in.dpushReal(a / b)
}

func primFMin(in *Interp) {
	b, a := in.dpopReal(), in.dpopReal()
	in.dpushReal(math.Min(a, b))
}

func primFMax(in *Interp) {
	b, a := in.dpopReal(), in.dpopReal()
	in.dpushReal(math.Max(a, b))
}

func primFNegate(in *Interp) { in.dpushReal(-in.dpopReal()) }
func primFAbs(in *Interp)    { in.dpushReal(math.Abs(in.dpopReal())) }

func primFEq(in *Interp) { b, a := in.dpopReal(), in.dpopReal(); in.dpush(boolCell(a == b)) }
func primFNe(in *Interp) { b, a := in.dpopReal(), in.dpopReal(); in.dpush(boolCell(a != b)) }
func primFGt(in *Interp) { b, a := in.dpopReal(), in.dpopReal(); in.dpush(boolCell(a > b)) }
func primFLt(in *Interp) { b, a := in.dpopReal(), in.dpopReal(); in.dpush(boolCell(a < b)) }
func primFGe(in *Interp) { b, a := in.dpopReal(), in.dpopReal(); in.dpush(boolCell(a >= b)) }
func primFLe(in *Interp) { b, a := in.dpopReal(), in.dpopReal(); in.dpush(boolCell(a <= b)) }

func primFDot(in *Interp) { in.writeString(strconv.FormatFloat(in.dpopReal(), 'g', -1, 64) + " ") }

// primFloat implements FLOAT ( n -- r ). The room check asks for
// realCells-1 extra cells beyond the one n already occupies, which reduces
// to zero on this platform: converting in place never changes the stack's
// cell count.
func primFloat(in *Interp) {
	if !in.dsRoom(realCells - 1) {
		in.trouble(STACKOVER)
	}
	in.dpushReal(float64(in.dpop()))
}

func primFix(in *Interp) { in.dpush(int(in.dpopReal())) }

// --- QUIT / ABORT ---

// primQuit clears the return and walkback stacks and resets ip, leaving
// the data stack untouched, then stops the current Eval line the way a
// trouble() would but silently and with NORMAL status.
func primQuit(in *Interp) {
	panic(troubleError{status: NORMAL, quiet: true})
}

// primAbort is CLEAR followed by QUIT: the data stack is wiped, then
// execution of the current line stops, silently and with NORMAL status.
func primAbort(in *Interp) {
	in.stack = in.stack[:0]
	panic(troubleError{status: NORMAL, quiet: true})
}

// --- diagnostics ---

func primTrace(in *Interp) {
	on := in.dpop()
	if in.log == nil {
		return
	}
	if on != 0 {
		in.log.SetLevel(logrus.TraceLevel)
	} else {
		in.log.SetLevel(logrus.WarnLevel)
	}
}

func primWalkback(in *Interp) {
	for i := len(in.walk) - 1; i >= 0; i-- {
		in.writeString(in.entryName(in.walk[i]) + " ")
	}
	in.writeString("\n")
}

func primWordsUsed(in *Interp) {
	for e := in.last; e != 0; e = uint(in.heap.load(e + hLink)) {
		if f := in.entryFlags(e); f&flagHidden == 0 && f&flagUsed != 0 {
			in.writeString(in.entryName(e) + " ")
		}
	}
}

func primWordsUnused(in *Interp) {
	for _, n := range in.unusedWords() {
		in.writeString(n + " ")
	}
}

// --- defining-word support ---

func primImmediate(in *Interp) {
	if in.last == 0 {
		in.trouble(NOTINDEF)
	}
	in.setFlags(in.last, in.entryFlags(in.last)|flagImmediate)
}

func primExecute(in *Interp) {
	header := uint(in.dpop())
	in.exword(header)
}

func primToBody(in *Interp) { in.dpush(int(entryBody(uint(in.dpop())))) }

func primState(in *Interp) { in.dpush(int(stateCell)) }

// --- compile-time helpers ---

func primLiteral(in *Interp) {
	in.requireCompiling()
	in.hcompile(int(in.cached.lit))
	in.hcompile(in.dpop())
}

// primCompile implements COMPILE: copy the word reference following it in
// the instruction stream into the open definition, skipping it. Used
// inside immediate words to defer a word they would otherwise execute.
func primCompile(in *Interp) {
	in.requireCompiling()
	in.hcompile(in.heap.load(in.prog))
	in.prog++
}

func primBackMark(in *Interp) { in.dpush(int(in.heap.here())) }
func primBackResolve(in *Interp) {
	target := uint(in.dpop())
	in.compileBranchBack(in.cached.branch, target)
}

func primFwdMark(in *Interp) { in.dpush(int(in.compileBranch(in.cached.branch))) }
func primFwdResolve(in *Interp) {
	at := uint(in.dpop())
	in.patchBranch(at, in.heap.here())
}

// --- number base ---

func primHex(in *Interp)     { in.base = 16 }
func primOctal(in *Interp)   { in.base = 8 }
func primDecimal(in *Interp) { in.base = 10 }

// --- output ---

// primDot prints the number the host's dotHook formats, or a plain
// base-sensitive rendering followed by a space if no hook was registered.
// Elaborate number formatting is a host concern, but the bare rendering
// keeps . usable standalone.
func primDot(in *Interp) {
	n := in.dpop()
	if in.dotHook != nil {
		in.dotHook(in, n)
		return
	}
	in.writeString(strings.ToUpper(strconv.FormatInt(int64(n), baseOf(in.base))) + " ")
}

func baseOf(base int) int {
	if base == 0 {
		return 10
	}
	return base
}

func primQuestion(in *Interp) {
	addr := uint(in.dpop())
	if !in.heap.valid(addr) {
		in.trouble(BADPOINTER)
	}
	in.dpush(in.heap.load(addr))
	primDot(in)
}

func primCr(in *Interp) { in.writeString("\n") }

// primDotS prints the stack bottom to top without disturbing it.
func primDotS(in *Interp) {
	for _, v := range append([]int(nil), in.stack...) {
		in.dpush(v)
		primDot(in)
	}
}

func primType(in *Interp) { in.writeString(in.heapString(uint(in.dpop()))) }

func primWords(in *Interp) {
	for _, n := range in.words() {
		in.writeString(n + " ")
	}
}

// primEvaluate implements EVALUATE ( str -- status ): recursively Evals
// the string at the popped address as a fresh line. The scanner cursor,
// instruction pointer and status of the enclosing evaluation are saved
// around the recursion, so the enclosing line and any word body in flight
// resume where they left off.
func primEvaluate(in *Interp) {
	s := in.heapString(uint(in.dpop()))

	savedLine, savedPos := in.line, in.pos
	savedProg, savedCur := in.prog, in.cur
	savedStatus := in.status

	// The inner line runs at top level, not inside the body in flight.
	in.prog = 0
	status := in.Eval(s)
	if status == NORMAL && in.pending.comment {
		in.pending.comment = false
		status = RUNCOMM
	}

	in.line, in.pos = savedLine, savedPos
	in.status = savedStatus
	// On a fault the return stack is already cleared, so the body in
	// flight cannot resume; leaving ip empty ends it after this primitive.
	if status == NORMAL {
		in.prog, in.cur = savedProg, savedCur
	}

	in.dpush(int(status))
}
