package atlast

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkUnwind_restoresAllRegions(t *testing.T) {
	in := New()
	defer in.Close()
	in.Init()

	require.Equal(t, NORMAL, in.Eval(`1 2 3`))
	m := in.Mark()

	depth := len(in.stack)
	heapTop := in.heap.here()
	last := in.last
	names := len(in.names.names)

	require.Equal(t, NORMAL, in.Eval(`4 5 : JUNK 6 7 ; VARIABLE SCRATCH`))
	require.NotEqual(t, heapTop, in.heap.here())

	in.Unwind(m)

	assert.Equal(t, depth, len(in.stack), "data stack depth")
	assert.Equal(t, []int{1, 2, 3}, append([]int(nil), in.stack...))
	assert.Equal(t, heapTop, in.heap.here(), "heap pointer")
	assert.Equal(t, last, in.last, "dictionary head")
	assert.Equal(t, names, len(in.names.names), "name buffers released")

	assert.Equal(t, UNDEFINED, in.Eval(`JUNK`))
}

func TestMarkUnwind_idempotent(t *testing.T) {
	in := New()
	defer in.Close()
	in.Init()

	m := in.Mark()
	in.Unwind(m)
	heapTop := in.heap.here()
	in.Unwind(m)
	assert.Equal(t, heapTop, in.heap.here())
}

func TestMarkUnwind_beforeInitIsNoop(t *testing.T) {
	in := New()
	defer in.Close()

	m := in.Mark()
	require.Equal(t, NORMAL, in.Eval(`: LIVE 1 ;`))
	in.Unwind(m)

	assert.Equal(t, NORMAL, in.Eval(`LIVE`), "pre-init mark must not roll anything back")
}

func TestMarkUnwind_neverCrossesProtection(t *testing.T) {
	in := New()
	defer in.Close()
	in.Init()

	m := in.Mark()
	m.last = 0
	m.heapTop = 0
	in.Unwind(m)

	_, found := in.Lookup("DUP")
	assert.True(t, found, "core primitives survive a malicious unwind")
}

func TestMarkUnwind_failedLoadUnwinds(t *testing.T) {
	in := New()
	defer in.Close()
	in.Init()

	before := in.heap.here()
	status, err := in.Load("bad.atl", strings.NewReader(": PARTIAL 1 ;\n5 0 /\n"))
	assert.Equal(t, DIVZERO, status)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "bad.atl:2")

	assert.Equal(t, before, in.heap.here(), "load failure rolls back the file's definitions")
	assert.Equal(t, UNDEFINED, in.Eval(`PARTIAL`))
}
