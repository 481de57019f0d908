package atlast

// Mark is a transactional snapshot of the four memory regions plus the
// dictionary chain, taken before a tentative evaluation so it can be rolled
// back on failure. The stacks are recorded by depth, not by content.
type Mark struct {
	valid     bool
	dsDepth   int
	rsDepth   int
	heapTop   uint
	last      uint
	nameCount uint
}

// Mark snapshots the data- and return-stack depths, heap bump pointer,
// dictionary head and name count. A Mark taken before the interpreter's first
// initialization is a documented no-op on Unwind.
func (in *Interp) Mark() Mark {
	return Mark{
		valid:     in.initialized,
		dsDepth:   len(in.stack),
		rsDepth:   len(in.rstack),
		heapTop:   in.heap.top,
		last:      in.last,
		nameCount: uint(len(in.names.names)),
	}
}

// Unwind restores the heap pointer and dictionary head captured by m,
// releasing every name buffer attached to entries newer than m, and cuts
// the data and return stacks back to their depths at m. Stack cells popped
// or cleared since m (a fault clears both stacks) are not restored, and a
// stack shallower than at m is left as it is. Unwind never rolls back past
// the protected mark
// established at the first Init, and is idempotent if nothing changed.
func (in *Interp) Unwind(m Mark) {
	if !m.valid {
		return
	}
	if m.last < in.protectedMark {
		m.last = in.protectedMark
	}
	if m.heapTop < in.protectedHeap {
		m.heapTop = in.protectedHeap
	}

	if m.dsDepth < len(in.stack) {
		in.stack = in.stack[:m.dsDepth]
	}
	if m.rsDepth < len(in.rstack) {
		in.rstack = in.rstack[:m.rsDepth]
	}
	in.last = m.last
	in.heap.top = m.heapTop
	in.names.truncate(m.nameCount)

	in.clearPending()
}
