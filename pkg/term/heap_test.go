package term

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewVarIsFresh(t *testing.T) {
	h := NewHeap(nil)
	x := h.NewVar()
	y := h.NewVar()
	require.NotEqual(t, x, y)
	require.True(t, h.IsUnbound(x))
	require.True(t, h.IsUnbound(y))

	// Still distinct cells after they have been unified.
	require.True(t, h.Unify(x, y))
	require.NotEqual(t, x, y)
	require.Equal(t, h.Deref(x), h.Deref(y))
}

func TestAtomsAreInterned(t *testing.T) {
	syms := NewSymbols()
	syms.Intern("socrates")
	h1 := NewHeap(syms)
	h2 := NewHeap(syms)
	a1 := h1.NewAtom("socrates")
	a2 := h2.NewAtom("socrates")
	require.Equal(t, h1.cells[a1].sym, h2.cells[a2].sym)
	require.Equal(t, 1, syms.Len())
	require.Equal(t, "socrates", h1.Name(a1))
	require.Equal(t, 0, h1.LocalSymbols())
}

func TestFreshNamesStayInHeap(t *testing.T) {
	syms := NewSymbols()
	h := NewHeap(syms)
	mark := h.Mark()

	for i := 0; i < 100; i++ {
		a := h.NewAtom(fmt.Sprintf("a%d", i))
		require.Equal(t, fmt.Sprintf("a%d", i), h.Name(a))
		h.NewStruct(fmt.Sprintf("f%d", i), []Ref{a})
	}
	// Same name, same symbol.
	require.True(t, h.Unify(h.NewAtom("a7"), h.NewAtom("a7")))
	require.False(t, h.Unify(h.NewAtom("a7"), h.NewAtom("a8")))
	require.Equal(t, 0, syms.Len())
	require.Equal(t, 200, h.LocalSymbols())

	h.Reset(mark)
	require.Equal(t, 0, h.LocalSymbols())
	require.Equal(t, 0, syms.Len())

	// Freezing is what moves a name into the shared table.
	_, err := Freeze(h, h.NewStruct("p", []Ref{h.NewAtom("a"), h.NewVar()}))
	require.NoError(t, err)
	require.Equal(t, 2, syms.Len())
}

func TestLocalAndSharedSymbolsUnify(t *testing.T) {
	syms := NewSymbols()
	h := NewHeap(syms)
	local := h.NewStruct("p", []Ref{h.NewAtom("a")})
	require.Equal(t, 2, h.LocalSymbols())

	// Another session stores p(a) after this heap interned both names.
	other := NewHeap(syms)
	fact, err := Freeze(other, other.NewStruct("p", []Ref{other.NewAtom("a")}))
	require.NoError(t, err)
	require.Equal(t, 2, syms.Len())

	require.True(t, h.Unify(local, h.Instantiate(fact)))
	require.Equal(t, "p(a)", h.String(h.Instantiate(fact)))
}

func TestDerefFollowsChain(t *testing.T) {
	h := NewHeap(nil)
	x, y, z := h.NewVar(), h.NewVar(), h.NewVar()
	a := h.NewAtom("a")

	h.Bind(x, y)
	h.Bind(y, z)
	require.Equal(t, z, h.Deref(x))
	h.Bind(z, a)
	require.Equal(t, a, h.Deref(x))
	require.Equal(t, 3, h.TrailLen())
}

func TestBindToSelfIsNoop(t *testing.T) {
	h := NewHeap(nil)
	x, y := h.NewVar(), h.NewVar()
	h.Bind(y, x)

	// y already leads back to x.
	h.Bind(x, y)
	require.True(t, h.IsUnbound(x))
	require.Equal(t, 1, h.TrailLen())
}

func TestRebindPanics(t *testing.T) {
	h := NewHeap(nil)
	x := h.NewVar()
	a, b := h.NewAtom("a"), h.NewAtom("b")
	h.Bind(x, a)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		rebind, ok := r.(*RebindError)
		require.True(t, ok, "expected *RebindError, got %T", r)
		require.Equal(t, x, rebind.Var)
		require.Equal(t, a, rebind.BoundTo)
	}()
	h.Bind(x, b)
}

func TestRebindAfterUnbind(t *testing.T) {
	h := NewHeap(nil)
	x := h.NewVar()
	mark := h.TrailMark()
	h.Bind(x, h.NewAtom("a"))
	h.UnbindTo(mark)
	b := h.NewAtom("b")
	h.Bind(x, b)
	require.Equal(t, b, h.Deref(x))
}

func TestUnbindToMark(t *testing.T) {
	h := NewHeap(nil)
	x, y := h.NewVar(), h.NewVar()
	h.Bind(x, h.NewAtom("a"))
	mark := h.TrailMark()
	h.Bind(y, h.NewAtom("b"))

	h.UnbindTo(mark)
	require.False(t, h.IsUnbound(x))
	require.True(t, h.IsUnbound(y))

	h.UnbindTo(0)
	require.True(t, h.IsUnbound(x))
	require.Panics(t, func() { h.UnbindTo(1) })
}

func TestMarkReset(t *testing.T) {
	h := NewHeap(nil)
	x := h.NewVar()
	mark := h.Mark()

	query := h.NewStruct("p", []Ref{h.NewAtom("a"), h.NewVar()})
	require.True(t, h.Unify(x, query))
	require.Equal(t, query, h.Deref(x))

	h.Reset(mark)
	require.Equal(t, 1, h.Len())
	require.True(t, h.IsUnbound(x))
	require.Equal(t, 0, h.TrailLen())
	require.Len(t, h.args, 0)
}

func TestNewStructRejectsForeignRefs(t *testing.T) {
	h := NewHeap(nil)
	a := h.NewAtom("a")
	require.Panics(t, func() {
		h.NewStruct("f", []Ref{a, Ref(42)})
	})
}

func TestIndicator(t *testing.T) {
	h := NewHeap(nil)
	b := newBuilder(h)
	cases := []struct {
		ref Ref
		ind Indicator
		ok  bool
	}{
		{b.a("halt"), Indicator{"halt", 0}, true},
		{b.s("p", b.v("Z"), b.v("Z")), Indicator{"p", 2}, true},
		{b.s("q"), Indicator{"q", 0}, true},
		{b.v("X"), Indicator{}, false},
	}
	for idx, testCase := range cases {
		ind, ok := h.Indicator(testCase.ref)
		require.Equal(t, testCase.ok, ok, "case %d", idx)
		require.Equal(t, testCase.ind, ind, "case %d", idx)
	}

	// Through a binding.
	y := h.NewVar()
	h.Bind(y, b.s("r", b.a("a")))
	ind, ok := h.Indicator(y)
	require.True(t, ok)
	require.Equal(t, "r/1", ind.String())
}

func TestArgAccess(t *testing.T) {
	h := NewHeap(nil)
	b := newBuilder(h)
	p := b.s("p", b.a("a"), b.v("X"))
	require.Equal(t, TagStruct, h.Tag(p))
	require.Equal(t, 2, h.Arity(p))
	require.Equal(t, "a", h.Name(h.Arg(p, 0)))
	require.Equal(t, b.v("X"), h.Arg(p, 1))
	require.Panics(t, func() { h.Arg(p, 2) })
	require.Panics(t, func() { h.Name(b.v("X")) })
}
