package atlast

import "github.com/corbinforth/atlast/internal/mem"

// Cell address 0 is reserved: it holds the global state word (0 = interpret,
// nonzero = compile). Placing it at cell zero keeps it inside the
// pointer-validity window for every heap size a host configures, so STATE @
// can never fault.
const stateCell = 0

// defaultHeapCells, defaultStackCells and defaultRStackCells are the
// fallback region sizes used when a host neither supplies a prologue line
// nor a WithHeapSize/WithStackSize/WithReturnStackSize option before the
// first Eval.
const (
	defaultHeapCells   = 16 * 1024
	defaultStackCells  = 256
	defaultRStackCells = 256
	defaultTempStrLen  = 80
	defaultTempStrN    = 4
)

// heap is a bump-allocated region of machine-word cells backing both word
// bodies and user data. It is implemented atop the paged mem.Ints store,
// which already does bounds-checked, page-granular storage for an
// ever-growing threaded-code image; heap adds the bump pointer and the
// fixed capacity that makes HEAPOVER a fault rather than a realloc.
type heap struct {
	mem.Ints
	capacity uint
	top      uint // bump pointer: next free cell
}

func (h *heap) init(capacity uint) {
	h.capacity = capacity
	h.Limit = capacity
	h.PageSize = mem.DefaultIntsPageSize
	h.top = stateCell + 1
}

// valid reports whether addr lies in the pointer-validity window: the
// bounded range [0, capacity). The cell-access words (@ ! +! C@ C! 2@ 2!
// ?) and EXECUTE check a stack-borne address with it before use; the
// string words pass addresses to load/stor unchecked.
func (h *heap) valid(addr uint) bool {
	return h.capacity == 0 || addr < h.capacity
}

func (h *heap) load(addr uint) int {
	v, _ := h.Load(addr)
	return v
}

func (h *heap) stor(addr uint, val int) error {
	return h.Stor(addr, val)
}

// here returns the current bump pointer: the heap cell index one past the
// last allocated cell.
func (h *heap) here() uint { return h.top }

// room reports whether n more cells can be allocated without crossing
// capacity.
func (h *heap) room(n uint) bool {
	return h.capacity == 0 || h.top+n <= h.capacity
}

// alloc bumps the pointer by n cells (zero-filled by the underlying paged
// store on first touch) and returns the address of the first one. Callers
// must check room(n) first; alloc itself does not fault.
func (h *heap) alloc(n uint) uint {
	addr := h.top
	h.top += n
	return addr
}

// compile appends a single cell at the bump pointer.
func (h *heap) compile(val int) uint {
	addr := h.alloc(1)
	h.stor(addr, val)
	return addr
}

// halloc is the fault-checked counterpart to heap.alloc: it raises HEAPOVER
// through trouble instead of silently running past capacity. Every call
// site that grows the heap on behalf of a word being compiled goes through
// this, not heap.alloc directly.
func (in *Interp) halloc(n uint) uint {
	if !in.heap.room(n) {
		in.trouble(HEAPOVER)
	}
	return in.heap.alloc(n)
}

// hcompile is the fault-checked counterpart to heap.compile.
func (in *Interp) hcompile(val int) uint {
	addr := in.halloc(1)
	in.heap.stor(addr, val)
	return addr
}
