package atlast

// trouble raises status as a panic, to be caught at the Eval/Load dispatch
// boundary. Carrying a Status rather than a bare error means the host
// always gets back one of the fixed fault codes, never an arbitrary Go
// error string.
func (in *Interp) trouble(status Status) {
	word := ""
	if in.cur != 0 && in.heap.valid(in.cur) {
		word = in.entryName(in.cur)
	}
	panic(troubleError{status: status, word: word})
}

// clearPending resets every single-bit pending flag, used after an abort or
// an Unwind so a half-scanned `:` or `'` from a failed line can't bleed into
// the next one.
func (in *Interp) clearPending() {
	in.pending = pending{}
}
