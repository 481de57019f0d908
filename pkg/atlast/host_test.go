package atlast

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHost_primDef(t *testing.T) {
	in := New()
	defer in.Close()

	in.PrimDef([]Prim{
		{Name: "DOUBLE", Fn: func(in *Interp) { in.Push(in.Pop() * 2) }},
		{Name: "SEVEN", Fn: func(in *Interp) { in.Push(7) }},
	})

	assert.Equal(t, NORMAL, in.Eval(`SEVEN DOUBLE`))
	assert.Equal(t, []int{14}, append([]int(nil), in.stack...))
}

func TestHost_primDefImmediate(t *testing.T) {
	in := New()
	defer in.Close()

	calls := 0
	in.PrimDef([]Prim{
		{Name: "NOW", Fn: func(in *Interp) { calls++ }, Immediate: true},
	})

	require.Equal(t, NORMAL, in.Eval(`: D NOW ;`))
	assert.Equal(t, 1, calls, "immediate host word runs during compilation")
	require.Equal(t, NORMAL, in.Eval(`D`))
	assert.Equal(t, 1, calls, "and is not part of the compiled body")
}

func TestHost_primsAreProtected(t *testing.T) {
	in := New()
	defer in.Close()

	in.PrimDef([]Prim{{Name: "MINE", Fn: func(in *Interp) {}}})
	assert.Equal(t, FORGETPROT, in.Eval(`FORGET MINE`))
}

func TestHost_execAndLookup(t *testing.T) {
	in := New()
	defer in.Close()

	require.Equal(t, NORMAL, in.Eval(`: SQ DUP * ;`))
	entry, found := in.Lookup("sq")
	require.True(t, found, "lookup is case insensitive")

	require.Equal(t, NORMAL, in.Eval(`9`))
	assert.Equal(t, NORMAL, in.Exec(entry))
	assert.Equal(t, []int{81}, append([]int(nil), in.stack...))
}

func TestHost_execReportsFault(t *testing.T) {
	in := New()
	defer in.Close()

	require.Equal(t, NORMAL, in.Eval(`: BOOM 1 0 / ;`))
	entry, _ := in.Lookup("BOOM")
	assert.Equal(t, DIVZERO, in.Exec(entry))
}

func TestHost_varDefAndBody(t *testing.T) {
	in := New()
	defer in.Close()
	in.Init()

	entry := in.VarDef("SETTING", 8)
	body := in.Body(entry)
	require.NoError(t, in.heap.stor(body, 99))

	assert.Equal(t, NORMAL, in.Eval(`SETTING @`))
	assert.Equal(t, []int{99}, append([]int(nil), in.stack...))
}

func TestHost_failRaisesApplication(t *testing.T) {
	in := New()
	defer in.Close()

	in.PrimDef([]Prim{
		{Name: "REFUSE", Fn: func(in *Interp) { in.Fail() }},
	})

	assert.Equal(t, APPLICATION, in.Eval(`1 2 REFUSE`))
	assert.Empty(t, in.stack, "a fault clears the data stack")
	assert.Equal(t, NORMAL, in.Eval(`3`), "next line evaluates cleanly")
}

func TestHost_stringHelpers(t *testing.T) {
	in := New()
	defer in.Close()
	in.Init()

	addr := in.TempString("payload")
	assert.Equal(t, "payload", in.StringAt(addr))
}

func TestHost_onDot(t *testing.T) {
	var out bytes.Buffer
	in := New(WithOutput(&out))
	defer in.Close()

	in.OnDot(func(in *Interp, n int) {
		in.writeString(fmt.Sprintf("[%d]", n))
	})

	require.Equal(t, NORMAL, in.Eval(`5 .`))
	assert.Equal(t, "[5]", out.String())
}

func TestHost_instancesAreIsolated(t *testing.T) {
	a, b := New(), New()
	defer a.Close()
	defer b.Close()

	require.Equal(t, NORMAL, a.Eval(`: ONLYA 1 ;`))
	assert.Equal(t, NORMAL, a.Eval(`ONLYA`))
	assert.Equal(t, UNDEFINED, b.Eval(`ONLYA`))
}

func TestHost_breakFromAnotherGoroutine(t *testing.T) {
	in := New()
	defer in.Close()
	in.Init()

	done := make(chan struct{})
	go func() {
		in.Break()
		close(done)
	}()
	<-done

	assert.Equal(t, BREAK, in.Eval(`1 2 +`))
	assert.Equal(t, NORMAL, in.Eval(`1 2 +`))
}
