package term

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	h := NewHeap(nil)
	b := newBuilder(h)

	require.Equal(t, "a", h.String(b.a("a")))
	require.Equal(t, "p(Z, h(Z, W), f(W))",
		h.Format(b.s("p", b.v("Z"), b.s("h", b.v("Z"), b.v("W")), b.s("f", b.v("W"))), b.names()).String())

	anon := h.NewVar()
	require.Equal(t, fmt.Sprintf("g(_G%d)", anon), h.String(b.s("g", anon)))
}

func TestFormatCyclic(t *testing.T) {
	h := NewHeap(nil)
	b := newBuilder(h)
	w := b.v("W")
	require.True(t, h.Unify(b.s("p", w, w), b.s("p", b.s("f", b.s("f", w)), w)))
	require.Equal(t, "f(f(...))", h.Format(w, b.names()).String())
}

func TestFormatDeepTerm(t *testing.T) {
	const depth = 100000
	h := NewHeap(nil)
	b := newBuilder(h)
	term := b.a("z")
	for i := 0; i < depth; i++ {
		term = b.s("s", term)
	}

	start := time.Now()
	out := h.String(term)
	require.Less(t, time.Since(start), 5*time.Second)
	require.Equal(t, strings.Repeat("s(", depth)+"z"+strings.Repeat(")", depth), out)
}
