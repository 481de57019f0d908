package atlast

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Eval processes tokens from line until exhausted or until status is
// non-NORMAL, auto-initializing on first use and recognizing a prologue
// configuration comment if evaluated before the first Init.
func (in *Interp) Eval(line string) (status Status) {
	in.status = NORMAL

	defer func() {
		if r := recover(); r != nil {
			in.status = in.recoverFault(r)
		}
		status = in.status
	}()

	if !in.initialized {
		if handled := in.tryPrologueLine(line); handled {
			return NORMAL
		}
		in.Init()
	}

	in.line = line
	in.pos = 0

	for in.status == NORMAL {
		if in.pending.asyncBreak {
			in.pending.asyncBreak = false
			in.trouble(BREAK)
		}
		tok := in.scanNext()
		if tok.kind == tokNull {
			// Line exhausted; an open `(` comment stays pending into the
			// next line.
			break
		}
		in.processToken(tok)
	}
	return in.status
}

// recoverFault turns a panic value raised by trouble or haltIO into a
// Status: it clears the data and return stacks, resets ip, clears all
// pending flags, and records the fault. Anything it doesn't recognize is a
// genuine programmer error and re-panics.
func (in *Interp) recoverFault(r interface{}) Status {
	var result Status
	quiet := false
	switch e := r.(type) {
	case troubleError:
		if !e.quiet {
			in.warnf("%v", e)
			in.walkback()
		}
		quiet = e.quiet
		result = e.status
	case ioError:
		in.warnf("%v", e)
		result = APPLICATION
	default:
		panic(r)
	}

	if !quiet {
		in.stack = in.stack[:0]
		in.clearPending()
		in.tempCompile = false
		in.tempDepth = 0
		if in.initialized {
			in.setCompiling(false)
		}
	}
	in.rstack = in.rstack[:0]
	in.walk = in.walk[:0]
	in.prog = 0
	in.cur = 0
	return result
}

// walkback logs the word-entry trace accumulated by nest/exit, innermost
// frame first.
func (in *Interp) walkback() {
	for i := len(in.walk) - 1; i >= 0; i-- {
		in.warnf("  in %v", in.entryName(in.walk[i]))
	}
}

// Load reads lines one at a time from r and Evals each, stopping at the
// first non-NORMAL status or at EOF. On failure it unwinds to the mark
// taken at entry and reports the 1-based line number where the fault
// occurred.
func (in *Interp) Load(name string, r io.Reader) (Status, error) {
	m := in.Mark()
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if status := in.Eval(sc.Text()); status != NORMAL {
			in.Unwind(m)
			return status, fmt.Errorf("%s:%d: %v", name, lineNo, status)
		}
	}
	if err := sc.Err(); err != nil {
		in.Unwind(m)
		return APPLICATION, fmt.Errorf("%s:%d: %w", name, lineNo, err)
	}
	return NORMAL, nil
}

// Run drains the queued input sources (WithInput), evaluating each line in
// turn, and returns the first non-NORMAL status along with the input
// location where it occurred. Unlike Load it does not unwind on failure:
// an interactive session keeps whatever the earlier lines built.
func (in *Interp) Run() (Status, error) {
	var line strings.Builder
	for {
		r, err := in.readRune()
		if err == io.EOF {
			if line.Len() > 0 {
				if status := in.Eval(line.String()); status != NORMAL {
					return status, fmt.Errorf("%v: %v", in.Input.Last.Location, status)
				}
			}
			return NORMAL, nil
		}
		if err != nil {
			return APPLICATION, err
		}
		if r == 0 {
			// the input queue just rolled over to its next source
			continue
		}
		if r != '\n' {
			line.WriteRune(r)
			continue
		}
		if status := in.Eval(line.String()); status != NORMAL {
			return status, fmt.Errorf("%v: %v", in.Input.Last.Location, status)
		}
		line.Reset()
	}
}

// tryPrologueLine recognizes `\ * NAME value` before the first Init and
// applies it to in.cfg, reporting whether line was a comment at all: any
// `\`-leading line evaluated this early is consumed without initializing,
// so a file may carry several knobs before its first live word.
func (in *Interp) tryPrologueLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, `\`) {
		return false
	}
	fields := strings.Fields(strings.TrimPrefix(trimmed, `\`))
	if len(fields) < 3 || fields[0] != "*" {
		return true
	}
	value, err := strconv.Atoi(fields[2])
	if err != nil || value <= 0 {
		return true
	}
	switch strings.ToUpper(fields[1]) {
	case "STACK":
		in.cfg.stackCells = value
	case "RSTACK":
		in.cfg.rstackCells = value
	case "HEAP":
		in.cfg.heapCells = uint(value)
	case "TEMPSTRL":
		in.cfg.tempStrLen = value
	case "TEMPSTRN":
		in.cfg.tempStrCount = value
	}
	return true
}
